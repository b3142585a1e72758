package pcapsink

import (
	"context"
	"time"

	"serialbroker"
)

// Stats counts the packets a Sink has written, by direction.
type Stats struct {
	TX, RX, Other int
}

// Sink drains a broker's outbound event channel and records
// DataSent/Receive/NoResponse traffic to a Writer. Other event kinds
// (status, errors, mode changes, pings) are not captured; a consumer
// that needs those should read the channel itself instead of handing
// it to a Sink.
type Sink struct {
	w     *Writer
	stats Stats
}

// New wraps w as an event sink.
func New(w *Writer) *Sink {
	return &Sink{w: w}
}

// Stats reports the packet counts written so far.
func (s *Sink) Stats() Stats { return s.stats }

// Run drains events until ctx is cancelled or events is closed,
// stamping each captured packet with the time it was observed here
// rather than any timestamp carried on the event itself.
func (s *Sink) Run(ctx context.Context, events <-chan serialbroker.Event) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-events:
			if !ok {
				return nil
			}
			if err := s.Record(time.Now(), e); err != nil {
				return err
			}
		}
	}
}

// Record writes one event to the pcap file if it is a capturable
// kind. Exposed so a caller driving its own event loop (e.g. to
// interleave a live status line) can process one event at a time
// instead of calling Run.
func (s *Sink) Record(ts time.Time, e serialbroker.Event) error {
	switch v := e.(type) {
	case serialbroker.EvtDataSent:
		s.stats.TX++
		return s.w.WritePacket(ts, EventDataTXStart, v.Data)
	case serialbroker.EvtReceive:
		s.stats.RX++
		return s.w.WritePacket(ts, EventDataRXStart, v.Data)
	case serialbroker.EvtNoResponse:
		s.stats.Other++
		return s.w.WritePacket(ts, EventStatusChange, nil)
	}
	return nil
}
