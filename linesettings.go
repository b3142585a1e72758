package serialbroker

// Parity is the serial line parity mode.
type Parity int

const (
	ParityNone Parity = iota
	ParityOdd
	ParityEven
	ParityMark
	ParitySpace
)

// StopBits is the number of stop bits per character.
type StopBits int

const (
	StopBits1 StopBits = iota
	StopBits2
)

// FlowControl is the serial line flow control mode.
type FlowControl int

const (
	FlowControlNone FlowControl = iota
	FlowControlSoftware
	FlowControlHardware
)

// LineSettings bundles the serial port parameters that may only be
// changed while the Interface is in Stop mode.
type LineSettings struct {
	Baud        int
	CharSize    int
	Parity      Parity
	StopBits    StopBits
	FlowControl FlowControl
}

// DefaultLineSettings returns the line settings a freshly constructed
// Interface starts with.
func DefaultLineSettings() LineSettings {
	return LineSettings{
		Baud:        115200,
		CharSize:    8,
		Parity:      ParityNone,
		StopBits:    StopBits2,
		FlowControl: FlowControlNone,
	}
}
