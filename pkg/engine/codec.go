package engine

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Format is a proof document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCBOR Format = "cbor"
)

// ParseFormat validates s.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatJSON, FormatCBOR:
		return f, nil
	default:
		return "", fmt.Errorf("unknown proof format %q", s)
	}
}

var (
	canonicalEnc cbor.EncMode
	strictDec    cbor.DecMode
)

func init() {
	var err error
	if canonicalEnc, err = cbor.CoreDetEncOptions().EncMode(); err != nil {
		panic(err)
	}
	if strictDec, err = (cbor.DecOptions{DupMapKey: cbor.DupMapKeyEnforcedAPF}).DecMode(); err != nil {
		panic(err)
	}
}

// Marshal encodes p in format f. JSON is indented for humans; CBOR is the
// deterministic core encoding.
func Marshal(p *Proof, f Format) ([]byte, error) {
	switch f {
	case FormatJSON, "":
		return json.MarshalIndent(p, "", "  ")
	case FormatCBOR:
		return canonicalEnc.Marshal(p)
	default:
		return nil, fmt.Errorf("unknown proof format %q", f)
	}
}

// Unmarshal decodes a proof document, detecting JSON by its leading brace.
func Unmarshal(data []byte) (*Proof, Format, error) {
	var p Proof
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &p); err != nil {
			return nil, "", fmt.Errorf("decode json proof: %w", err)
		}
		return &p, FormatJSON, nil
	}
	if err := strictDec.Unmarshal(data, &p); err != nil {
		return nil, "", fmt.Errorf("decode cbor proof: %w", err)
	}
	return &p, FormatCBOR, nil
}

// CanonicalBytes is the deterministic CBOR encoding of p, used for MACs and
// signatures.
func CanonicalBytes(p *Proof) ([]byte, error) {
	return canonicalEnc.Marshal(p)
}
