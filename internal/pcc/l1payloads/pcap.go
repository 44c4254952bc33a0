package l1payloads

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	"github.com/banshee-data/gpcc-decoder/internal/pcc"
)

// Source yields payloads until it returns io.EOF.
type Source interface {
	Next() (*Payload, error)
}

// PCAPSource replays framed payloads carried in UDP datagrams of a pcap
// capture. Each datagram holds one or more complete TLV units.
type PCAPSource struct {
	packets gopacket.PacketDataSource
	decoder gopacket.Decoder
	udpPort int
	maxSize int
	pending []*Payload

	Datagrams int // datagrams matching udpPort
	Skipped   int // captured packets that were not matching UDP datagrams
}

// NewPCAPSource reads a pcap capture from r. udpPort <= 0 accepts
// datagrams on any destination port.
func NewPCAPSource(r io.Reader, udpPort, maxSize int) (*PCAPSource, error) {
	pr, err := pcapgo.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open pcap stream: %w", err)
	}
	return &PCAPSource{
		packets: pr,
		decoder: pr.LinkType(),
		udpPort: udpPort,
		maxSize: maxSize,
	}, nil
}

// Next returns the next payload from the capture.
func (s *PCAPSource) Next() (*Payload, error) {
	for len(s.pending) == 0 {
		data, _, err := s.packets.ReadPacketData()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("failed to read pcap packet: %w", err)
		}
		packet := gopacket.NewPacket(data, s.decoder, gopacket.NoCopy)
		payload, ok := s.udpPayload(packet)
		if !ok {
			s.Skipped++
			continue
		}
		s.Datagrams++

		units, err := SplitUnits(payload, s.maxSize)
		if err != nil {
			return nil, fmt.Errorf("datagram %d: %w", s.Datagrams, err)
		}
		s.pending = units
	}
	p := s.pending[0]
	s.pending = s.pending[1:]
	return p, nil
}

func (s *PCAPSource) udpPayload(packet gopacket.Packet) ([]byte, bool) {
	udpLayer := packet.Layer(layers.LayerTypeUDP)
	if udpLayer == nil {
		return nil, false
	}
	udp, ok := udpLayer.(*layers.UDP)
	if !ok {
		return nil, false
	}
	if s.udpPort > 0 && int(udp.DstPort) != s.udpPort {
		return nil, false
	}
	if len(udp.Payload) == 0 {
		return nil, false
	}
	return udp.Payload, true
}

// ReadPCAP replays every payload of a capture through handle, stopping at
// the end of the capture, on the first handler error, or when ctx is done.
func ReadPCAP(ctx context.Context, r io.Reader, udpPort, maxSize int, handle func(*Payload) error) error {
	src, err := NewPCAPSource(r, udpPort, maxSize)
	if err != nil {
		return err
	}

	count := 0
	for {
		select {
		case <-ctx.Done():
			pcc.Opsf("pcap replay stopping due to context cancellation (processed %d payloads)", count)
			return ctx.Err()
		default:
		}

		p, err := src.Next()
		if errors.Is(err, io.EOF) {
			pcc.Diagf("pcap replay complete: %d payloads from %d datagrams (%d packets skipped)",
				count, src.Datagrams, src.Skipped)
			return nil
		}
		if err != nil {
			return err
		}
		count++
		if err := handle(p); err != nil {
			return err
		}
	}
}
