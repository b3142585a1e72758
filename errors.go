package serialbroker

import "fmt"

// ErrorKind identifies the class of failure reported by an Error event
// or returned from an Interface method.
type ErrorKind int

const (
	CannotListPorts ErrorKind = iota
	StopToChangeSettings
	DisconnectToChangeSettings
	CannotReadPort
	WrongReadArguments
	CannotOpenPort
	PortNotOpened
	SlaveModeNeedModbusID
	PortAlreadyOpen
	PortNeededToOpenPort
	SilenceMissing
	PathMissing
	NoPortToClose
	CannotSendMessage
	WrongMode
	CannotWritePort
	StopModeBeforeChange
	WaitingForResponse
	CannotSetTimeout
)

var errorKindNames = map[ErrorKind]string{
	CannotListPorts:            "CannotListPorts",
	StopToChangeSettings:       "StopToChangeSettings",
	DisconnectToChangeSettings: "DisconnectToChangeSettings",
	CannotReadPort:             "CannotReadPort",
	WrongReadArguments:         "WrongReadArguments",
	CannotOpenPort:             "CannotOpenPort",
	PortNotOpened:              "PortNotOpened",
	SlaveModeNeedModbusID:      "SlaveModeNeedModbusID",
	PortAlreadyOpen:            "PortAlreadyOpen",
	PortNeededToOpenPort:       "PortNeededToOpenPort",
	SilenceMissing:             "SilenceMissing",
	PathMissing:                "PathMissing",
	NoPortToClose:              "NoPortToClose",
	CannotSendMessage:          "CannotSendMessage",
	WrongMode:                  "WrongMode",
	CannotWritePort:            "CannotWritePort",
	StopModeBeforeChange:       "StopModeBeforeChange",
	WaitingForResponse:         "WaitingForResponse",
	CannotSetTimeout:           "CannotSetTimeout",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return "UnknownError"
}

// Error is the concrete error type returned by the Interface and carried
// by Error events. Detail is optional context (e.g. the underlying OS
// error string) and may be empty.
type Error struct {
	Kind   ErrorKind
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func newErr(kind ErrorKind) *Error {
	return &Error{Kind: kind}
}

func newErrDetail(kind ErrorKind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}
