package serialbroker

// Event is the tagged union of outbound messages the Interface emits on
// its outbound channel. Concrete types are the Evt* structs below.
type Event interface {
	isEvent()
}

type (
	// EvtAvailablePorts answers CmdListPorts.
	EvtAvailablePorts struct{ Ports []string }

	// EvtConnected reports whether the port is currently open.
	EvtConnected struct{ Connected bool }

	// EvtDataSent reports bytes written to the port.
	EvtDataSent struct{ Data []byte }

	// EvtReceive reports a framed, received byte sequence.
	EvtReceive struct{ Data []byte }

	// EvtNoResponse reports that a bounded wait elapsed with zero bytes
	// received.
	EvtNoResponse struct{}

	// EvtStatus answers CmdGetStatus.
	EvtStatus struct{ Status Status }

	// EvtMode reports the current operating mode.
	EvtMode struct{ Mode Mode }

	// EvtError reports a failure. See ErrorKind for the taxonomy.
	EvtError struct{ Err *Error }

	// EvtPong answers CmdPing.
	EvtPong struct{}
)

func (EvtAvailablePorts) isEvent() {}
func (EvtConnected) isEvent()      {}
func (EvtDataSent) isEvent()       {}
func (EvtReceive) isEvent()        {}
func (EvtNoResponse) isEvent()     {}
func (EvtStatus) isEvent()         {}
func (EvtMode) isEvent()           {}
func (EvtError) isEvent()          {}
func (EvtPong) isEvent()           {}
