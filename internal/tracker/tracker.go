package tracker

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/chrispritchard/gobencode/internal/bencode"
)

// ErrFailure wraps the "failure reason" a tracker sends instead of peers.
var ErrFailure = errors.New("tracker returned failure")

// ParseTrackerResponse reads the bencoded body of a tracker announce response, in either the compact or the full
// peer list form.
func ParseTrackerResponse(data []byte) (TrackerResponse, error) {
	root, err := bencode.DecodeDictionary(data)
	if err != nil {
		return nil_resp, fmt.Errorf("invalid tracker response - %w", err)
	}

	failure, err := bencode.Get[string](root, "failure reason")
	if err == nil {
		return nil_resp, fmt.Errorf("%w: %s", ErrFailure, failure)
	}

	interval, err := bencode.Get[int64](root, "interval")
	if err != nil {
		return nil_resp, fmt.Errorf("invalid tracker response - missing interval")
	}

	peers_value, err := bencode.Get[bencode.Value](root, "peers")
	if err != nil {
		return nil_resp, fmt.Errorf("invalid tracker response - missing peers")
	}

	var peers []PeerInfo
	switch peers_value.Kind() {
	case bencode.StringKind:
		peers_compact, _ := peers_value.Bytes()
		peers, err = parse_compact_peers(peers_compact)
		if err != nil {
			return nil_resp, fmt.Errorf("invalid tracker response - invalid compact peer response: %v", err)
		}
	case bencode.ListKind:
		peers_full, _ := peers_value.Items()
		peers, err = parse_full_peers(peers_full)
		if err != nil {
			return nil_resp, fmt.Errorf("invalid tracker response - invalid peer response: %v", err)
		}
	default:
		return nil_resp, fmt.Errorf("invalid tracker response - peers is a %v", peers_value.Kind())
	}

	// optional counters
	min_interval, _ := bencode.Get[int64](root, "min interval")
	complete, _ := bencode.Get[int64](root, "complete")
	incomplete, _ := bencode.Get[int64](root, "incomplete")

	return TrackerResponse{
		Peers:       peers,
		Interval:    interval,
		MinInterval: min_interval,
		Complete:    complete,
		Incomplete:  incomplete,
	}, nil
}

func parse_full_peers(peers_full []bencode.Value) ([]PeerInfo, error) {
	result := []PeerInfo{}

	for _, p := range peers_full {
		if p.Kind() != bencode.DictionaryKind {
			return nil_info, fmt.Errorf(" %v is not a dict", p)
		}

		port, err := bencode.Get[int64](p, "port")
		if err != nil {
			return nil_info, fmt.Errorf("missing port on a peer")
		}
		if port < 0 || port > 65535 {
			return nil_info, fmt.Errorf("port %d out of range", port)
		}

		ip, err := bencode.Get[string](p, "ip")
		if err != nil {
			return nil_info, fmt.Errorf(" missing ip on a peer")
		}

		// peer id is dropped by trackers honouring no_peer_id
		id, _ := bencode.Get[string](p, "peer id")

		result = append(result, PeerInfo{
			Id:   id,
			IP:   ip,
			Port: uint16(port),
		})
	}

	return result, nil
}

func parse_compact_peers(peers_compact []byte) ([]PeerInfo, error) {
	if len(peers_compact)%6 != 0 {
		return nil_info, fmt.Errorf("size isnt a multiple of 6")
	}
	result := []PeerInfo{}

	for i := 0; i < len(peers_compact); i += 6 {
		ip_bytes := peers_compact[i : i+4]
		ip := net.IPv4(ip_bytes[0], ip_bytes[1], ip_bytes[2], ip_bytes[3]).String()

		port := binary.BigEndian.Uint16(peers_compact[i+4 : i+6])

		result = append(result, PeerInfo{IP: ip, Port: port})
	}

	return result, nil
}

// Summary lists the response as label/value lines for printing.
func (r TrackerResponse) Summary() [][2]string {
	lines := [][2]string{
		{"interval", strconv.FormatInt(r.Interval, 10)},
		{"seeders", strconv.FormatInt(r.Complete, 10)},
		{"leechers", strconv.FormatInt(r.Incomplete, 10)},
		{"peers", strconv.Itoa(len(r.Peers))},
	}
	for _, p := range r.Peers {
		lines = append(lines, [2]string{"peer", net.JoinHostPort(p.IP, strconv.Itoa(int(p.Port)))})
	}
	return lines
}
