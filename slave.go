package serialbroker

// runSlave listens for framed requests and loops until SetMode(Stop).
// Any other escalated SetMode is rejected with StopModeBeforeChange.
func (i *Interface) runSlave() (Mode, bool, error) {
	for {
		next, stop, err := i.waitForRequest()
		if err != nil {
			return Stop, false, err
		}
		if stop {
			return next, true, nil
		}
	}
}

// waitForRequest reads one silence-delimited frame, interleaving
// Command Intake while it waits. A Send escalated during the wait is
// transmitted immediately and the wait ends so the caller can resume
// listening for the next request; the consumer is expected to have
// computed that response from a prior Receive event.
func (i *Interface) waitForRequest() (Mode, bool, error) {
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
			return Stop, false, nil
		}

		switch m := cmd.(type) {
		case CmdSend:
			i.status = Writing
			writeErr := i.write(m.Data)
			i.status = Idle
			if writeErr != nil {
				return Stop, false, writeErr
			}
			return Stop, false, nil
		case CmdSetMode:
			if m.Mode == Stop {
				return Stop, true, nil
			}
			if err := i.emitError(StopModeBeforeChange); err != nil {
				return Stop, false, err
			}
		}
	}
}
