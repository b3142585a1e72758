// Package pcapsink adapts the outbound event stream of a broker
// Interface into a libpcap capture file. With LinkTypeRTACSerial each
// packet's direction is tagged using the RTAC Serial event-type
// convention (STATUS_CHANGE / DATA_TX_START / DATA_RX_START); with
// LinkTypeUser0 packets carry the raw payload only.
package pcapsink

import (
	"encoding/binary"
	"io"
	"time"
)

// LinkType selects the pcap link-layer header written for captured
// frames.
type LinkType uint32

const (
	// LinkTypeUser0 stores raw payload bytes with no direction header.
	LinkTypeUser0 LinkType = 147
	// LinkTypeRTACSerial prefixes every packet with a 12-byte RTAC
	// Serial-style header carrying a timestamp and an event-type byte.
	LinkTypeRTACSerial LinkType = 149
)

// EventType is the RTAC Serial event-type byte embedded in the RTAC
// header.
type EventType byte

const (
	EventStatusChange EventType = 0x00
	EventDataTXStart  EventType = 0x01
	EventDataRXStart  EventType = 0x02
)

const (
	magicNumber  uint32 = 0xa1b2c3d4
	versionMajor uint16 = 2
	versionMinor uint16 = 4
	snapLen      uint32 = 65535
)

// Writer writes packets in libpcap format.
type Writer struct {
	w        io.Writer
	order    binary.ByteOrder
	linkType LinkType
}

// NewWriter creates a Writer and writes the 24-byte pcap global
// header using order and linkType.
func NewWriter(w io.Writer, order binary.ByteOrder, linkType LinkType) (*Writer, error) {
	hdr := struct {
		Magic        uint32
		VersionMajor uint16
		VersionMinor uint16
		ThisZone     int32
		SigFigs      uint32
		SnapLen      uint32
		LinkType     uint32
	}{
		Magic:        magicNumber,
		VersionMajor: versionMajor,
		VersionMinor: versionMinor,
		SnapLen:      snapLen,
		LinkType:     uint32(linkType),
	}
	if err := binary.Write(w, order, &hdr); err != nil {
		return nil, err
	}
	return &Writer{w: w, order: order, linkType: linkType}, nil
}

// WritePacket writes a single packet captured at ts. When the
// Writer's link type is LinkTypeRTACSerial, payload is prefixed with
// a 12-byte RTAC header carrying ts and evt; otherwise payload is
// written unprefixed.
func (pw *Writer) WritePacket(ts time.Time, evt EventType, payload []byte) error {
	data := payload
	if pw.linkType == LinkTypeRTACSerial {
		data = append(rtacHeader(ts, evt), payload...)
	}
	length := uint32(len(data))
	hdr := struct {
		TsSec   uint32
		TsUsec  uint32
		CapLen  uint32
		OrigLen uint32
	}{
		TsSec:   uint32(ts.Unix()),
		TsUsec:  uint32(ts.Nanosecond() / 1000),
		CapLen:  length,
		OrigLen: length,
	}
	if err := binary.Write(pw.w, pw.order, &hdr); err != nil {
		return err
	}
	_, err := pw.w.Write(data)
	return err
}

func rtacHeader(ts time.Time, evt EventType) []byte {
	hdr := make([]byte, 12)
	binary.BigEndian.PutUint32(hdr[0:4], uint32(ts.Unix()))
	binary.BigEndian.PutUint32(hdr[4:8], uint32(ts.Nanosecond()/1000))
	hdr[8] = byte(evt)
	return hdr
}
