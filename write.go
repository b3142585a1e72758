package serialbroker

// write sends data on the open port and emits DataSent on success.
// Partial writes are looped until every byte is written or a write
// returns zero progress, which is treated as CannotWritePort.
func (i *Interface) write(data []byte) error {
	if i.p == nil {
		return newErr(PortNotOpened)
	}
	written := 0
	for written < len(data) {
		n, err := i.p.Write(data[written:])
		if err != nil {
			return newErrDetail(CannotWritePort, err.Error())
		}
		if n == 0 {
			return newErr(CannotWritePort)
		}
		written += n
	}
	return i.emit(EvtDataSent{Data: data})
}
