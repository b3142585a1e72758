package serialbroker

import "runtime"

// runtimeGosched yields to the Go scheduler once per Mode Driver
// iteration. The original actor slept 10ns per loop purely to hand
// control back to its cooperative executor; runtime.Gosched() is the
// direct Go equivalent for a goroutine that would otherwise spin.
func runtimeGosched() {
	runtime.Gosched()
}
