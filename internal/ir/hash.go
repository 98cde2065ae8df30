package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// The version suffix leaves room for a future encoding change.
const (
	DomainWiring = "pulsenet/wiring/v1"
	DomainTrace  = "pulsenet/trace/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// WiringHash identifies a wiring description by its declarations.
// Line numbers are excluded, so reformatting the text keeps the hash.
func WiringHash(decls []Declaration) (string, error) {
	list := make([]any, len(decls))
	for i, d := range decls {
		list[i] = map[string]any{
			"name":         d.Name,
			"kind":         d.Kind.String(),
			"destinations": d.Destinations,
		}
	}
	canonical, err := MarshalCanonical(list)
	if err != nil {
		return "", fmt.Errorf("WiringHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainWiring, canonical), nil
}

// TraceHash identifies a sequence of delivered pulses.
// Two runs with the same hash delivered byte-identical event sequences.
func TraceHash(pulses []Pulse) (string, error) {
	list := make([]any, len(pulses))
	for i, p := range pulses {
		list[i] = map[string]any{
			"seq":    p.Seq,
			"press":  p.Press,
			"source": p.Source,
			"dest":   p.Dest,
			"level":  p.Level,
		}
	}
	canonical, err := MarshalCanonical(list)
	if err != nil {
		return "", fmt.Errorf("TraceHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainTrace, canonical), nil
}

// MustWiringHash is like WiringHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustWiringHash(decls []Declaration) string {
	h, err := WiringHash(decls)
	if err != nil {
		panic(err)
	}
	return h
}
