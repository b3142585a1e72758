package serialbroker

// runSniff passively frames traffic on a line it does not own: it
// never initiates a read/response cycle, only listens, and a Send
// lets the consumer inject bytes (e.g. to nudge a stuck bus) without
// leaving listen mode.
func (i *Interface) runSniff() (Mode, bool, error) {
	if i.silence == nil {
		return Stop, false, newErr(SilenceMissing)
	}
	for {
		i.status = Reading
		cmd, err := i.readUntilSilence(*i.silence)
		i.status = Idle
		if err != nil {
			return Stop, false, err
		}
		if cmd == nil {
			continue
		}

		switch m := cmd.(type) {
		case CmdSend:
			i.status = Writing
			writeErr := i.write(m.Data)
			i.status = Idle
			if writeErr != nil {
				return Stop, false, writeErr
			}
		case CmdSetMode:
			switch m.Mode {
			case Stop:
				return Stop, true, nil
			case Sniff:
				// already here
			default:
				if err := i.emitError(StopModeBeforeChange); err != nil {
					return Stop, false, err
				}
			}
		}
	}
}
