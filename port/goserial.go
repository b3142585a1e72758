package port

import (
	"fmt"

	"go.bug.st/serial"
)

// Goserial is the production Driver, backed by go.bug.st/serial.
type Goserial struct{}

func (Goserial) Open(path string, s Settings) (Port, error) {
	mode := &serial.Mode{
		BaudRate: s.Baud,
		DataBits: s.CharSize,
		Parity:   toLibParity(s.Parity),
		StopBits: toLibStopBits(s.StopBits),
	}
	p, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// Hardware/software flow control has no equivalent on serial.Mode;
	// go.bug.st/serial only exposes RTS/DTR line toggles, not a flow
	// control policy, so FlowControlHardware/Software are accepted but
	// not applied here.
	return p, nil
}

func (Goserial) List() ([]string, error) {
	return serial.GetPortsList()
}

func toLibParity(p Parity) serial.Parity {
	switch p {
	case ParityOdd:
		return serial.OddParity
	case ParityEven:
		return serial.EvenParity
	case ParityMark:
		return serial.MarkParity
	case ParitySpace:
		return serial.SpaceParity
	default:
		return serial.NoParity
	}
}

func toLibStopBits(s StopBits) serial.StopBits {
	if s == StopBits2 {
		return serial.TwoStopBits
	}
	return serial.OneStopBit
}
