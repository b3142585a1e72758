package serialbroker

import "time"

// readByteTimeout is the per-byte blocking read deadline set on the
// port at Connect time. It is deliberately tiny, a placeholder meant
// to be dwarfed by whatever silence/timeout the caller configures.
const readByteTimeout = 10 * time.Nanosecond

// readByte attempts a single-byte read with a very short blocking
// timeout, distinguishing a real timeout (nil byte, nil error) from an
// I/O failure (CannotReadPort). Updates lastByteTime on success.
func (i *Interface) readByte() (*byte, error) {
	if i.p == nil {
		return nil, newErr(PortNotOpened)
	}
	buf := make([]byte, 1)
	n, err := i.p.Read(buf)
	if err != nil {
		return nil, newErrDetail(CannotReadPort, err.Error())
	}
	if n == 0 {
		return nil, nil
	}
	i.lastByteTime = time.Now()
	i.haveLastByte = true
	b := buf[0]
	return &b, nil
}

// clearReadBuffer drains any pending bytes until a timeout read
// returns zero, preventing stale data from contaminating a new frame.
func (i *Interface) clearReadBuffer() error {
	if i.p == nil {
		return newErr(PortNotOpened)
	}
	buf := make([]byte, 24)
	for {
		n, err := i.p.Read(buf)
		if err != nil {
			return newErrDetail(CannotReadPort, err.Error())
		}
		if n == 0 {
			return nil
		}
	}
}

// readGates bundles the optional stop conditions for readUntil: a
// fixed byte count, an inter-byte silence gap, and an overall
// deadline. At least one must be set.
type readGates struct {
	size    *int
	silence *time.Duration
	timeout *time.Duration
}

// readUntil is the generalized gated read. It returns a non-nil
// Command only when the idle-window Command Intake poll escalates one
// (Send/SetMode), letting a caller blocked in a read interleave
// command handling.
func (i *Interface) readUntil(g readGates) (Command, error) {
	if g.size == nil && g.silence == nil && g.timeout == nil {
		return nil, newErr(WrongReadArguments)
	}
	if err := i.clearReadBuffer(); err != nil {
		return nil, err
	}

	var buffer []byte
	start := time.Now()
	lastData := time.Now()

	for {
		b, err := i.readByte()
		if err != nil {
			i.status = Idle
			return nil, err
		}
		if b != nil {
			i.status = Receiving
			buffer = append(buffer, *b)
			lastData = time.Now()

			if g.size != nil && len(buffer) == *g.size {
				if err := i.emit(EvtReceive{Data: buffer}); err != nil {
					return nil, err
				}
				i.status = Idle
				return nil, nil
			}
		} else if g.silence != nil {
			if len(buffer) == 0 {
				cmd, err := i.intake()
				if err != nil {
					i.status = Idle
					return nil, err
				}
				if cmd != nil {
					return cmd, nil
				}
				lastData = time.Now()
			} else if time.Since(lastData) > *g.silence {
				if err := i.emit(EvtReceive{Data: buffer}); err != nil {
					return nil, err
				}
				i.status = Idle
				return nil, nil
			}
		}

		if g.timeout != nil && time.Since(start) > *g.timeout {
			if len(buffer) > 0 {
				if err := i.emit(EvtReceive{Data: buffer}); err != nil {
					return nil, err
				}
			} else if err := i.emit(EvtNoResponse{}); err != nil {
				return nil, err
			}
			i.status = Idle
			return nil, nil
		}
	}
}

func (i *Interface) readSize(n int) (Command, error) {
	return i.readUntil(readGates{size: &n})
}

func (i *Interface) readUntilSilence(s time.Duration) (Command, error) {
	return i.readUntil(readGates{silence: &s})
}

func (i *Interface) readUntilSizeOrSilence(n int, s time.Duration) (Command, error) {
	return i.readUntil(readGates{size: &n, silence: &s})
}

func (i *Interface) readUntilSilenceOrTimeout(s, t time.Duration) (Command, error) {
	return i.readUntil(readGates{silence: &s, timeout: &t})
}

// readStream accumulates bytes continuously and runs the CRC-window
// scanner after every new byte, returning the first matching frame
// without emitting it — the caller (MasterStream) decides. Unlike
// readUntil, it does not interleave Command Intake: once started, the
// stream read is opaque.
func (i *Interface) readStream(timeout time.Duration) (Event, error) {
	if err := i.clearReadBuffer(); err != nil {
		return nil, err
	}
	var buffer []byte
	start := time.Now()

	for {
		b, err := i.readByte()
		if err != nil {
			return nil, err
		}
		if b != nil {
			i.status = Receiving
			buffer = append(buffer, *b)
			if frame := tryDecodeBuffer(buffer); frame != nil {
				return EvtReceive{Data: frame}, nil
			}
		}
		if time.Since(start) > timeout {
			return EvtNoResponse{}, nil
		}
	}
}
