package serialbroker

// runMasterStream mirrors runMaster's dispatch, but Send drives
// write/CRC-stream-read instead of write/silence-read. Mid-wait
// Command Intake is deliberately not interleaved here: once the
// stream read starts it is opaque to new commands, trading
// responsiveness for uninterrupted CRC framing.
func (i *Interface) runMasterStream() (Mode, bool, error) {
	for {
		cmd, err := i.intake()
		if err != nil {
			return Stop, false, err
		}
		switch m := cmd.(type) {
		case CmdSetMode:
			if m.Mode == Stop {
				return Stop, true, nil
			}
		case CmdSend:
			if err := i.writeReadStream(m.Data); err != nil {
				return Stop, false, err
			}
		}
	}
}

func (i *Interface) writeReadStream(data []byte) error {
	i.status = Writing
	if err := i.write(data); err != nil {
		i.status = Idle
		return err
	}
	i.status = WaitingResponse

	evt, err := i.readStream(i.timeout)
	i.status = Idle
	if err != nil {
		return err
	}
	return i.emit(evt)
}
