package serialbroker

import (
	"bytes"
	"testing"
	"time"
)

func TestWriteReadSendsThenEmitsResponse(t *testing.T) {
	i, p, _, outbound := newTestInterface()
	silence := time.Millisecond
	i.silence = &silence
	i.timeout = time.Second
	go feedAfter(p, []byte{0x11, 0x22})

	next, stop, err := i.writeRead([]byte{0xDE, 0xAD})
	if err != nil {
		t.Fatalf("writeRead() error = %v", err)
	}
	if stop {
		t.Fatalf("writeRead() stop = true, want false")
	}
	if next != Stop {
		t.Errorf("writeRead() next = %v (unused when stop=false)", next)
	}
	if !bytes.Equal(p.written, []byte{0xDE, 0xAD}) {
		t.Errorf("written = %x, want dead", p.written)
	}

	sent, ok := (<-outbound).(EvtDataSent)
	if !ok || !bytes.Equal(sent.Data, []byte{0xDE, 0xAD}) {
		t.Fatalf("event = %v, want EvtDataSent{dead}", sent)
	}
	recv, ok := (<-outbound).(EvtReceive)
	if !ok || !bytes.Equal(recv.Data, []byte{0x11, 0x22}) {
		t.Fatalf("event = %v, want EvtReceive{1122}", recv)
	}
}

func TestWriteReadWithoutSilenceIsSilenceMissing(t *testing.T) {
	i, _, _, _ := newTestInterface()
	i.silence = nil

	_, _, err := i.writeRead([]byte{0x01})
	sbErr, ok := err.(*Error)
	if !ok || sbErr.Kind != SilenceMissing {
		t.Fatalf("err = %v, want SilenceMissing", err)
	}
}

func TestWriteReadWithoutOpenPortIsPortNotOpened(t *testing.T) {
	i, _, _, _ := newTestInterface()
	silence := time.Millisecond
	i.silence = &silence
	i.p = nil

	_, _, err := i.writeRead([]byte{0x01})
	sbErr, ok := err.(*Error)
	if !ok || sbErr.Kind != PortNotOpened {
		t.Fatalf("err = %v, want PortNotOpened", err)
	}
}

func TestRunMasterStopsOnSetModeStop(t *testing.T) {
	i, _, inbound, _ := newTestInterface()
	i.mode = Master
	inbound <- CmdSetMode{Mode: Stop}

	next, stop, err := i.runMaster()
	if err != nil {
		t.Fatalf("runMaster() error = %v", err)
	}
	if !stop || next != Stop {
		t.Fatalf("runMaster() = (%v, %v), want (Stop, true)", next, stop)
	}
}

func TestRunMasterDrivesSendThenStops(t *testing.T) {
	i, p, inbound, outbound := newTestInterface()
	i.mode = Master
	silence := time.Millisecond
	i.silence = &silence
	i.timeout = time.Second

	type result struct {
		next Mode
		stop bool
		err  error
	}
	resultCh := make(chan result, 1)
	go func() {
		next, stop, err := i.runMaster()
		resultCh <- result{next, stop, err}
	}()

	inbound <- CmdSend{Data: []byte{0x01}}
	go feedAfter(p, []byte{0x02})

	if _, ok := (<-outbound).(EvtDataSent); !ok {
		t.Fatal("expected EvtDataSent")
	}
	if _, ok := (<-outbound).(EvtReceive); !ok {
		t.Fatal("expected EvtReceive")
	}

	inbound <- CmdSetMode{Mode: Stop}
	select {
	case res := <-resultCh:
		if res.err != nil {
			t.Fatalf("runMaster() error = %v", res.err)
		}
		if !res.stop || res.next != Stop {
			t.Fatalf("runMaster() = (%v, %v), want (Stop, true)", res.next, res.stop)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for runMaster to stop")
	}
}
