// Package serialbroker wraps a UART/RS-485 port and exposes it as a
// message-driven actor: an Interface that mediates between a physical
// serial device and a consumer speaking to it over two channels
// (inbound commands, outbound events).
package serialbroker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"serialbroker/port"
)

// Interface is one actor instance owning one serial port handle. Zero
// value is not usable; construct with New.
type Interface struct {
	path         string
	mode         Mode
	status       Status
	modbusID     *uint8
	lineSettings LineSettings
	driver       port.Driver
	p            port.Port
	silence      *time.Duration
	timeout      time.Duration

	inbound  <-chan Command
	outbound chan<- Event

	lastByteTime time.Time
	haveLastByte bool

	log *logrus.Logger
	ctx context.Context
}

// New constructs an Interface in Stop mode with Idle status,
// 115200/8/N/2/none line settings, 800ns silence, and a 10000ns
// response timeout. inbound/outbound are required; the caller retains
// the mirror ends. driver defaults to port.Goserial{} when nil.
func New(inbound <-chan Command, outbound chan<- Event, driver port.Driver) *Interface {
	if driver == nil {
		driver = port.Goserial{}
	}
	silence := 800 * time.Nanosecond
	return &Interface{
		mode:         Stop,
		status:       Idle,
		lineSettings: DefaultLineSettings(),
		driver:       driver,
		silence:      &silence,
		timeout:      10000 * time.Nanosecond,
		inbound:      inbound,
		outbound:     outbound,
		log:          logrus.StandardLogger(),
		ctx:          context.Background(),
	}
}

// WithLogger overrides the logger used for diagnostics. Returns the
// Interface for chaining.
func (i *Interface) WithLogger(log *logrus.Logger) *Interface {
	if log != nil {
		i.log = log
	}
	return i
}

// WithPath sets the device path to use on the next Connect. Only
// meaningful while Stop.
func (i *Interface) WithPath(path string) *Interface {
	i.path = path
	return i
}

// WithBauds sets the baud rate. Only meaningful while Stop.
func (i *Interface) WithBauds(baud int) *Interface {
	i.lineSettings.Baud = baud
	return i
}

// WithCharSize sets the character size in bits. Only meaningful while
// Stop.
func (i *Interface) WithCharSize(bits int) *Interface {
	i.lineSettings.CharSize = bits
	return i
}

// WithParity sets the parity mode. Only meaningful while Stop.
func (i *Interface) WithParity(p Parity) *Interface {
	i.lineSettings.Parity = p
	return i
}

// WithStopBits sets the stop bits. Only meaningful while Stop.
func (i *Interface) WithStopBits(s StopBits) *Interface {
	i.lineSettings.StopBits = s
	return i
}

// WithFlowControl sets the flow control mode. Only meaningful while
// Stop.
func (i *Interface) WithFlowControl(f FlowControl) *Interface {
	i.lineSettings.FlowControl = f
	return i
}

// WithModbusID sets the slave address required before transitioning to
// Mode::Slave. Only meaningful while Stop.
func (i *Interface) WithModbusID(id uint8) *Interface {
	i.modbusID = &id
	return i
}

// WithSilence sets the inter-byte gap that terminates a frame.
func (i *Interface) WithSilence(d time.Duration) *Interface {
	i.silence = &d
	return i
}

// WithTimeout sets the overall Master response deadline.
func (i *Interface) WithTimeout(d time.Duration) *Interface {
	i.timeout = d
	return i
}

// GetMode returns the current operating mode.
func (i *Interface) GetMode() Mode { return i.mode }

// GetStatus returns the current advisory status.
func (i *Interface) GetStatus() Status { return i.status }

// IsConnected reports whether the port is currently open.
func (i *Interface) IsConnected() bool { return i.p != nil }

// Run is the mode driver's infinite outer loop. It returns when ctx is
// cancelled; callers typically launch it in its own goroutine. Each
// iteration yields briefly to the Go scheduler before dispatching on
// mode. The cooperative, in-protocol way to stop the actor remains
// SetMode(Stop) followed by the consumer simply sending no further
// commands; ctx is the host-level kill switch layered on top,
// idiomatic for a Go actor goroutine.
func (i *Interface) Run(ctx context.Context) {
	i.ctx = ctx
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		runtimeGosched()

		switch i.mode {
		case Stop:
			cmd, err := i.intake()
			if err != nil {
				i.log.WithError(err).Debug("serialbroker: intake error in Stop")
				continue
			}
			if sm, ok := cmd.(CmdSetMode); ok {
				i.transitionFromStop(sm.Mode)
			}

		case Master:
			i.runBehavior(i.runMaster)
		case MasterStream:
			i.runBehavior(i.runMasterStream)
		case Slave:
			i.runBehavior(i.runSlave)
		case Sniff:
			i.runBehavior(i.runSniff)
		}
	}
}

// runBehavior invokes a mode behavior and installs Stop on either a
// returned stop directive or an error, so a broken mode never wedges
// the driver.
func (i *Interface) runBehavior(behavior func() (Mode, bool, error)) {
	next, stop, err := behavior()
	if err != nil {
		i.log.WithError(err).Error("serialbroker: mode behavior failed")
		if sbErr, ok := err.(*Error); ok {
			// CannotSendMessage means the outbound side is already
			// gone; emitting another event would just fail the same
			// way, so it is not retried.
			if sbErr.Kind != CannotSendMessage {
				_ = i.emit(EvtError{Err: sbErr})
			}
		} else {
			_ = i.emit(EvtError{Err: newErrDetail(CannotReadPort, err.Error())})
		}
		i.setModeInternal(Stop)
		return
	}
	if stop {
		i.setModeInternal(next)
	}
}

func (i *Interface) setModeInternal(m Mode) {
	i.log.WithFields(logrus.Fields{"from": i.mode, "to": m}).Info("serialbroker: switch mode")
	i.mode = m
	if err := i.emit(EvtMode{Mode: m}); err != nil {
		i.log.WithError(err).Debug("serialbroker: emit Mode")
	}
}

// transitionFromStop installs a mode requested by SetMode while Stop
// is the active mode, enforcing the invariants that govern mode
// changes: Slave needs a configured modbus_id (checked here, before
// the transition, rather than lazily inside the Slave behavior), and
// every non-Stop mode needs an open port.
func (i *Interface) transitionFromStop(m Mode) {
	if m == Slave && i.modbusID == nil {
		if err := i.emitError(SlaveModeNeedModbusID); err != nil {
			i.log.WithError(err).Debug("serialbroker: emit SlaveModeNeedModbusID")
		}
		return
	}
	if m != Stop && i.p == nil {
		if err := i.emitError(PortNotOpened); err != nil {
			i.log.WithError(err).Debug("serialbroker: emit PortNotOpened")
		}
		return
	}
	i.setModeInternal(m)
}
