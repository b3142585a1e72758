package serialbroker

// emit sends an event on the outbound channel. A blocking send may
// yield until the consumer accepts it; if the actor's context is
// cancelled first, the outbound side is considered gone and
// CannotSendMessage propagates to the caller.
func (i *Interface) emit(e Event) error {
	i.log.WithField("event", e).Debug("serialbroker: emit")
	select {
	case i.outbound <- e:
		return nil
	case <-i.ctx.Done():
		return newErr(CannotSendMessage)
	}
}

func (i *Interface) emitError(kind ErrorKind) error {
	return i.emit(EvtError{Err: newErr(kind)})
}

func (i *Interface) emitErrorDetail(kind ErrorKind, detail string) error {
	return i.emit(EvtError{Err: newErrDetail(kind, detail)})
}
