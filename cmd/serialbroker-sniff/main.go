// Command serialbroker-sniff drives a serialbroker.Interface from the
// command line, either to passively capture traffic on an RS-485 bus
// to a pcap file (the default) or to fire a single Master request and
// print whatever comes back.
package main

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"serialbroker"
	"serialbroker/pcapsink"
	"serialbroker/port"
)

func parseParity(s string) (serialbroker.Parity, error) {
	switch s {
	case "none":
		return serialbroker.ParityNone, nil
	case "odd":
		return serialbroker.ParityOdd, nil
	case "even":
		return serialbroker.ParityEven, nil
	case "mark":
		return serialbroker.ParityMark, nil
	case "space":
		return serialbroker.ParitySpace, nil
	default:
		return 0, fmt.Errorf("unknown parity %q", s)
	}
}

func parseStopBits(n int) (serialbroker.StopBits, error) {
	switch n {
	case 1:
		return serialbroker.StopBits1, nil
	case 2:
		return serialbroker.StopBits2, nil
	default:
		return 0, fmt.Errorf("stop bits must be 1 or 2, got %d", n)
	}
}

func main() {
	portPath := flag.String("port", "", "serial port path (required)")
	baud := flag.Int("baud", 115200, "baud rate")
	databits := flag.Int("databits", 8, "data bits (5-8)")
	parityStr := flag.String("parity", "none", "parity: none, odd, even, mark, space")
	stopbitsInt := flag.Int("stopbits", 2, "stop bits: 1 or 2")
	output := flag.String("o", "", "output pcap file path (required in sniff mode)")
	rtac := flag.Bool("rtac", false, "tag captured packets with an RTAC Serial direction header")
	bigEndian := flag.Bool("bigendian", false, "write pcap in big-endian byte order")
	silenceUs := flag.Float64("silence", 800, "inter-byte silence gap in microseconds")
	timeoutUs := flag.Float64("timeout", 10000, "master response timeout in microseconds")
	sendHex := flag.String("send", "", "hex-encoded request to send once as Master, instead of sniffing")
	pipeMode := flag.Bool("pipe", false, "create a named pipe (FIFO) for live Wireshark streaming (Unix only)")
	verbose := flag.Bool("v", false, "log mode changes and progress messages to stderr")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: serialbroker-sniff [flags]\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *portPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	parity, err := parseParity(*parityStr)
	if err != nil {
		log.Fatal(err)
	}
	stopBits, err := parseStopBits(*stopbitsInt)
	if err != nil {
		log.Fatal(err)
	}

	log := logrus.StandardLogger()
	if !*verbose {
		log.SetLevel(logrus.WarnLevel)
	}
	enableTerminalStatus()

	inbound := make(chan serialbroker.Command, 8)
	outbound := make(chan serialbroker.Event, 64)
	iface := serialbroker.New(inbound, outbound, port.Goserial{}).
		WithLogger(log).
		WithPath(*portPath).
		WithBauds(*baud).
		WithCharSize(*databits).
		WithParity(parity).
		WithStopBits(stopBits).
		WithSilence(time.Duration(*silenceUs * float64(time.Microsecond))).
		WithTimeout(time.Duration(*timeoutUs * float64(time.Microsecond)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	go iface.Run(ctx)

	inbound <- serialbroker.CmdConnect{}
	if evt := waitConnected(ctx, outbound); !evt {
		log.Fatal("connect failed, see logs above")
	}

	if *sendHex != "" {
		runSend(ctx, log, inbound, outbound, *sendHex)
		return
	}

	if *output == "" {
		flag.Usage()
		os.Exit(1)
	}
	runSniff(ctx, log, inbound, outbound, *output, *rtac, *bigEndian, *pipeMode)
}

// waitConnected drains events until Connected(true/false) arrives,
// logging any Error events seen along the way and dropping the rest.
func waitConnected(ctx context.Context, outbound <-chan serialbroker.Event) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case e := <-outbound:
			switch v := e.(type) {
			case serialbroker.EvtConnected:
				return v.Connected
			case serialbroker.EvtError:
				logrus.WithError(v.Err).Error("serialbroker-sniff: connect error")
			}
		}
	}
}

func runSend(ctx context.Context, log *logrus.Logger, inbound chan<- serialbroker.Command, outbound <-chan serialbroker.Event, sendHex string) {
	data, err := hex.DecodeString(sendHex)
	if err != nil {
		log.Fatalf("invalid -send hex: %v", err)
	}
	inbound <- serialbroker.CmdSetMode{Mode: serialbroker.Master}
	inbound <- serialbroker.CmdSend{Data: data}

	for {
		select {
		case <-ctx.Done():
			return
		case e := <-outbound:
			switch v := e.(type) {
			case serialbroker.EvtReceive:
				fmt.Println(hex.EncodeToString(v.Data))
				return
			case serialbroker.EvtNoResponse:
				fmt.Fprintln(os.Stderr, "no response")
				return
			case serialbroker.EvtError:
				log.WithError(v.Err).Error("serialbroker-sniff: send error")
				return
			}
		}
	}
}

func runSniff(ctx context.Context, log *logrus.Logger, inbound chan<- serialbroker.Command, outbound <-chan serialbroker.Event, output string, rtac, bigEndian, pipeMode bool) {
	var f *os.File
	var err error
	if pipeMode {
		f, err = createPipe(output)
		if err != nil {
			log.Fatalf("create pipe: %v", err)
		}
		defer removePipe(output)
	} else {
		f, err = os.Create(output)
		if err != nil {
			log.Fatalf("create output file: %v", err)
		}
	}
	defer func() { _ = f.Close() }()

	order := binary.ByteOrder(binary.LittleEndian)
	if bigEndian {
		order = binary.BigEndian
	}
	linkType := pcapsink.LinkTypeUser0
	if rtac {
		linkType = pcapsink.LinkTypeRTACSerial
	}
	pw, err := pcapsink.NewWriter(f, order, linkType)
	if err != nil {
		log.Fatalf("write pcap header: %v", err)
	}

	inbound <- serialbroker.CmdSetMode{Mode: serialbroker.Sniff}
	log.Printf("serialbroker-sniff: capturing to %s", output)

	sink := pcapsink.New(pw)
	interactive := term.IsTerminal(int(os.Stderr.Fd()))
	lastStatus := time.Now()

	for {
		select {
		case <-ctx.Done():
			printStatus(sink.Stats(), interactive, true)
			return
		case e, ok := <-outbound:
			if !ok {
				printStatus(sink.Stats(), interactive, true)
				return
			}
			if err := sink.Record(time.Now(), e); err != nil {
				log.Fatalf("write packet: %v", err)
			}
			if errEvt, ok := e.(serialbroker.EvtError); ok {
				log.WithError(errEvt.Err).Warn("serialbroker-sniff: broker error")
			}
			if interactive && time.Since(lastStatus) >= time.Second {
				printStatus(sink.Stats(), interactive, false)
				lastStatus = time.Now()
			}
		}
	}
}

func printStatus(s pcapsink.Stats, interactive, final bool) {
	line := fmt.Sprintf("packets: TX %d  RX %d  other %d", s.TX, s.RX, s.Other)
	if interactive && !final {
		fmt.Fprintf(os.Stderr, "\r%s          ", line)
		return
	}
	if interactive {
		fmt.Fprintln(os.Stderr)
	}
	fmt.Fprintln(os.Stderr, line)
}
