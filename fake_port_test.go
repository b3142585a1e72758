package serialbroker

import (
	"sync"
	"time"

	"serialbroker/port"
)

// fakePort is an in-memory port.Port: Read drains a byte queue filled
// by feed, returning (0, nil) once it's empty to mimic a real read
// timeout rather than blocking the test.
type fakePort struct {
	mu       sync.Mutex
	rx       []byte
	written  []byte
	closed   bool
	readErr  error
	writeErr error
}

func (p *fakePort) feed(b []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rx = append(p.rx, b...)
}

func (p *fakePort) Read(buf []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.readErr != nil {
		return 0, p.readErr
	}
	if len(p.rx) == 0 {
		return 0, nil
	}
	n := copy(buf, p.rx)
	p.rx = p.rx[n:]
	return n, nil
}

func (p *fakePort) Write(data []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.writeErr != nil {
		return 0, p.writeErr
	}
	p.written = append(p.written, data...)
	return len(data), nil
}

func (p *fakePort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *fakePort) SetReadTimeout(time.Duration) error { return nil }

// fakeDriver is a port.Driver returning a fixed fakePort, or a
// preconfigured error.
type fakeDriver struct {
	p       *fakePort
	openErr error
	ports   []string
	listErr error
}

func (d *fakeDriver) Open(path string, s port.Settings) (port.Port, error) {
	if d.openErr != nil {
		return nil, d.openErr
	}
	return d.p, nil
}

func (d *fakeDriver) List() ([]string, error) {
	if d.listErr != nil {
		return nil, d.listErr
	}
	return d.ports, nil
}
