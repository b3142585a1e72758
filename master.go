package serialbroker

// runMaster is the Master behavior: poll Command Intake; SetMode(Stop)
// ends the loop, Send(data) drives a write/wait-for-response cycle.
func (i *Interface) runMaster() (Mode, bool, error) {
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
			// Any other target mode requested from outside an active
			// wait is simply not actionable here; the consumer must
			// request Stop first.
		case CmdSend:
			next, stop, err := i.writeRead(m.Data)
			if err != nil {
				return Stop, false, err
			}
			if stop {
				return next, true, nil
			}
		}
	}
}

// writeRead writes data, then waits for a silence- or timeout-bounded
// response, interleaving Command Intake during the wait. A nested Send
// is rejected with WaitingForResponse; a nested
// SetMode(Stop) unwinds promptly; SetMode(Slave|Sniff) is rejected
// with StopModeBeforeChange.
func (i *Interface) writeRead(data []byte) (Mode, bool, error) {
	if i.silence == nil {
		return Stop, false, newErr(SilenceMissing)
	}

	i.status = Writing
	if err := i.write(data); err != nil {
		i.status = Idle
		return Stop, false, err
	}
	i.status = WaitingResponse

	for {
		cmd, err := i.readUntilSilenceOrTimeout(*i.silence, i.timeout)
		if err != nil {
			i.status = Idle
			return Stop, false, err
		}
		if cmd == nil {
			// The framing engine already emitted Receive or NoResponse.
			i.status = Idle
			return Stop, false, nil
		}

		switch m := cmd.(type) {
		case CmdSend:
			if err := i.emitError(WaitingForResponse); err != nil {
				i.status = Idle
				return Stop, false, err
			}
		case CmdSetMode:
			if m.Mode == Stop {
				i.status = Idle
				return Stop, true, nil
			}
			if m.Mode == Slave || m.Mode == Sniff {
				if err := i.emitError(StopModeBeforeChange); err != nil {
					i.status = Idle
					return Stop, false, err
				}
			}
		}
	}
}
