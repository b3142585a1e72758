package serialbroker

import "serialbroker/port"

// intake is a non-blocking poll of the inbound channel. It returns a
// non-nil Command only for the two kinds the
// caller must react to: SetMode (always escalated, so the active
// behavior can unwind) and Send (escalated only when mode != Stop).
// Line-setting commands outside Stop are answered with a
// StopToChangeSettings error. Everything else is either handled here
// directly or silently ignored.
func (i *Interface) intake() (Command, error) {
	var cmd Command
	select {
	case c, ok := <-i.inbound:
		if !ok {
			return nil, nil
		}
		cmd = c
	default:
		return nil, nil
	}

	// Always handled, regardless of mode.
	switch m := cmd.(type) {
	case CmdGetConnectionStatus:
		return nil, i.emit(EvtConnected{Connected: i.p != nil})
	case CmdGetStatus:
		return nil, i.emit(EvtStatus{Status: i.status})
	case CmdSetTimeout:
		i.timeout = m.Timeout
		return nil, nil
	case CmdPing:
		return nil, i.emit(EvtPong{})
	case CmdSetMode:
		return m, nil
	}

	if i.mode == Stop {
		switch m := cmd.(type) {
		case CmdListPorts:
			ports, err := i.driver.List()
			if err != nil {
				return nil, i.emitErrorDetail(CannotListPorts, err.Error())
			}
			return nil, i.emit(EvtAvailablePorts{Ports: ports})
		case CmdSetPort:
			if i.p != nil {
				return nil, i.emitError(DisconnectToChangeSettings)
			}
			i.path = m.Path
			return nil, nil
		case CmdSetBauds:
			if i.p != nil {
				return nil, i.emitError(DisconnectToChangeSettings)
			}
			i.lineSettings.Baud = m.Baud
			return nil, nil
		case CmdSetCharSize:
			if i.p != nil {
				return nil, i.emitError(DisconnectToChangeSettings)
			}
			i.lineSettings.CharSize = m.Bits
			return nil, nil
		case CmdSetParity:
			if i.p != nil {
				return nil, i.emitError(DisconnectToChangeSettings)
			}
			i.lineSettings.Parity = m.Parity
			return nil, nil
		case CmdSetStopBits:
			if i.p != nil {
				return nil, i.emitError(DisconnectToChangeSettings)
			}
			i.lineSettings.StopBits = m.StopBits
			return nil, nil
		case CmdSetFlowControl:
			if i.p != nil {
				return nil, i.emitError(DisconnectToChangeSettings)
			}
			i.lineSettings.FlowControl = m.FlowControl
			return nil, nil
		case CmdConnect:
			return nil, i.handleConnect()
		case CmdDisconnect:
			return nil, i.handleDisconnect()
		}
		return nil, nil
	}

	switch m := cmd.(type) {
	case CmdSend:
		return m, nil
	case CmdSetPort, CmdSetBauds, CmdSetCharSize, CmdSetParity, CmdSetStopBits, CmdSetFlowControl:
		return nil, i.emitError(StopToChangeSettings)
	}
	return nil, nil
}

func (i *Interface) handleConnect() error {
	if i.p != nil {
		return i.connectFailure(newErr(PortAlreadyOpen))
	}
	if i.path == "" {
		return i.connectFailure(newErr(PathMissing))
	}

	settings := toPortSettings(i.lineSettings)
	p, err := i.driver.Open(i.path, settings)
	if err != nil {
		return i.connectFailure(newErrDetail(CannotOpenPort, err.Error()))
	}
	if err := p.SetReadTimeout(readByteTimeout); err != nil {
		_ = p.Close()
		return i.connectFailure(newErrDetail(CannotSetTimeout, err.Error()))
	}

	i.p = p
	return i.emit(EvtConnected{Connected: true})
}

func (i *Interface) connectFailure(e *Error) error {
	if err := i.emit(EvtConnected{Connected: false}); err != nil {
		return err
	}
	return i.emit(EvtError{Err: e})
}

func (i *Interface) handleDisconnect() error {
	hadPort := i.p != nil
	if hadPort {
		if err := i.p.Close(); err != nil {
			i.log.WithError(err).Debug("serialbroker: close port")
		}
		i.p = nil
	}
	if err := i.emit(EvtConnected{Connected: false}); err != nil {
		return err
	}
	if !hadPort {
		return i.emitError(NoPortToClose)
	}
	return nil
}

func toPortSettings(s LineSettings) port.Settings {
	return port.Settings{
		Baud:        s.Baud,
		CharSize:    s.CharSize,
		Parity:      port.Parity(s.Parity),
		StopBits:    port.StopBits(s.StopBits),
		FlowControl: port.FlowControl(s.FlowControl),
	}
}
