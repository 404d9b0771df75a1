// Package wire defines the JSON-over-UDP control messages exchanged by the
// daemon, and the tolerant decoding rules for the LSA's polymorphic
// neighbor representations.
package wire

import (
	"encoding/json"
	"errors"
)

const (
	TypeHello = "HELLO"
	TypeLSA   = "LSA"
)

// MaxMessageSize is the largest encoded datagram the transport will send.
// Received datagrams are not checked against it.
const MaxMessageSize = 1024

// Envelope is decoded first to discriminate the message type before the
// full shape is parsed. Messages with an unrecognized or missing type are
// ignored.
type Envelope struct {
	Type string `json:"type"`
}

// Hello is the HELLO control message.
type Hello struct {
	Type           string   `json:"type"`
	RouterID       string   `json:"router_id"`
	Timestamp      float64  `json:"timestamp"`
	IPAddress      string   `json:"ip_address"`
	KnownNeighbors []string `json:"known_neighbors"`
}

// NeighborRef is one admissible shape of a neighbor entry inside an LSA's
// "neighbors" field: {"ip": "...", "cost": n}.
type NeighborRef struct {
	IP   string `json:"ip"`
	Cost int    `json:"cost"`
}

// LSA is the wire shape of a Link State Advertisement. It is deliberately
// permissive: router_id/origin and sequence_number/sequence are both
// accepted, and "neighbors" may be either a nested {router: {ip, cost}} map
// or a flat {router: ip} map paired with a sibling "links" cost map, or
// absent entirely in favor of "links". RawNeighbors holds the untyped JSON
// so NormalizeNeighbors can apply the shape-tolerance rules after decoding.
type LSA struct {
	Type           string          `json:"type"`
	RouterID       string          `json:"router_id,omitempty"`
	Origin         string          `json:"origin,omitempty"`
	SequenceNumber uint64          `json:"sequence_number,omitempty"`
	Sequence       uint64          `json:"sequence,omitempty"`
	Timestamp      float64         `json:"timestamp"`
	Addresses      []string        `json:"addresses"`
	Links          map[string]int  `json:"links,omitempty"`
	RawNeighbors   json.RawMessage `json:"neighbors,omitempty"`
}

// OriginAndSequence returns the (origin, sequence) pair using whichever
// alias was populated. ok is false if origin or sequence is missing; a
// zero sequence counts as missing, since self-LSAs are numbered from 1.
func (l *LSA) OriginAndSequence() (origin string, sequence uint64, ok bool) {
	origin = l.RouterID
	if origin == "" {
		origin = l.Origin
	}

	sequence = l.SequenceNumber
	if sequence == 0 {
		sequence = l.Sequence
	}

	if origin == "" || sequence == 0 {
		return "", 0, false
	}

	return origin, sequence, true
}

// NormalizedNeighbor is the internal, shape-independent representation of
// one entry in an LSA's neighbor set.
type NormalizedNeighbor struct {
	IP   string
	Cost int
}

// NormalizeNeighbors applies the precedence rules between the two
// admissible neighbor shapes and returns a RouterId -> NormalizedNeighbor
// mapping.
func (l *LSA) NormalizeNeighbors() map[string]NormalizedNeighbor {
	result := make(map[string]NormalizedNeighbor)

	if len(l.RawNeighbors) > 0 {
		// Try the nested {router: {ip, cost}} shape first.
		var nested map[string]NeighborRef
		if err := json.Unmarshal(l.RawNeighbors, &nested); err == nil && looksNested(l.RawNeighbors) {
			for peer, ref := range nested {
				cost := ref.Cost
				if cost == 0 {
					cost = 1
				}
				result[peer] = NormalizedNeighbor{IP: ref.IP, Cost: cost}
			}
			return result
		}

		// Fall back to the flat {router: ip} shape, paired with "links".
		var flat map[string]string
		if err := json.Unmarshal(l.RawNeighbors, &flat); err == nil {
			for peer, ip := range flat {
				cost := 1
				if l.Links != nil {
					if c, ok := l.Links[peer]; ok {
						cost = c
					}
				}
				result[peer] = NormalizedNeighbor{IP: ip, Cost: cost}
			}
			return result
		}
	}

	if l.Links != nil {
		for peer, cost := range l.Links {
			result[peer] = NormalizedNeighbor{IP: "", Cost: cost}
		}
		return result
	}

	return result
}

// looksNested reports whether raw decodes as a map of JSON objects rather
// than a map of strings, so NormalizeNeighbors can tell the two admissible
// "neighbors" shapes apart without relying on json.Unmarshal silently
// zero-valuing mismatched fields.
func looksNested(raw json.RawMessage) bool {
	var generic map[string]json.RawMessage
	if err := json.Unmarshal(raw, &generic); err != nil {
		return false
	}
	for _, v := range generic {
		trimmed := skipSpace(v)
		return len(trimmed) > 0 && trimmed[0] == '{'
	}
	return false
}

func skipSpace(b []byte) []byte {
	i := 0
	for i < len(b) && (b[i] == ' ' || b[i] == '\t' || b[i] == '\n' || b[i] == '\r') {
		i++
	}
	return b[i:]
}

// DecodeType sniffs a datagram's "type" field without fully parsing it.
func DecodeType(data []byte) (string, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", err
	}
	if env.Type == "" {
		return "", errors.New("message has no type field")
	}
	return env.Type, nil
}
