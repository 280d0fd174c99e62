package fieldcodec

import (
	"fmt"
	"math"
	"math/big"

	"github.com/fxamacker/cbor/v2"
	"github.com/holiman/uint256"
)

// Width is the byte width of a U128.
const Width = 16

// mask128 keeps the low 128 bits of a uint256.
var mask128 = uint256.Int{math.MaxUint64, math.MaxUint64, 0, 0}

// U128 is an unsigned 128-bit integer. The zero value is 0.
//
// It is stored as the low half of a uint256; every arithmetic step masks the
// upper half away, so the value is always in [0, 2^128).
type U128 struct {
	v uint256.Int
}

// FromUint64 returns x as a U128.
func FromUint64(x uint64) U128 {
	var u U128
	u.v.SetUint64(x)
	return u
}

// FromBytes16 interprets b as a big-endian unsigned integer.
func FromBytes16(b [Width]byte) U128 {
	var u U128
	u.v.SetBytes(b[:])
	return u
}

// FromBig converts x, failing when it is negative or needs more than 128 bits.
func FromBig(x *big.Int) (U128, error) {
	if x.Sign() < 0 || x.BitLen() > 128 {
		return U128{}, fmt.Errorf("value %s out of u128 range", x)
	}
	var u U128
	u.v.SetFromBig(x)
	return u, nil
}

// mulAdd returns (u*m + a) mod 2^128.
func (u U128) mulAdd(m, a uint64) U128 {
	var out U128
	out.v.Mul(&u.v, uint256.NewInt(m))
	out.v.AddUint64(&out.v, a)
	out.v.And(&out.v, &mask128)
	return out
}

// Equal reports whether u == o.
func (u U128) Equal(o U128) bool {
	return u.v.Eq(&o.v)
}

// IsZero reports whether u == 0.
func (u U128) IsZero() bool {
	return u.v.IsZero()
}

// Hi returns the upper 64 bits.
func (u U128) Hi() uint64 { return u.v[1] }

// Lo returns the lower 64 bits.
func (u U128) Lo() uint64 { return u.v[0] }

// Big returns u as a new big.Int, the form gnark accepts for witness assignment.
func (u U128) Big() *big.Int {
	return u.v.ToBig()
}

// Bytes16 returns the big-endian encoding of u.
func (u U128) Bytes16() [Width]byte {
	full := u.v.Bytes32()
	var out [Width]byte
	copy(out[:], full[32-Width:])
	return out
}

// String returns the decimal representation of u.
func (u U128) String() string {
	return u.v.Dec()
}

// MarshalText encodes u as a decimal numeral.
func (u U128) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText decodes a strict decimal numeral. It does not apply the
// digit-skipping rules of ParseDecimalU128.
func (u *U128) UnmarshalText(text []byte) error {
	v, err := ParseDecimalStrict(string(text))
	if err != nil {
		return err
	}
	*u = v
	return nil
}

// MarshalCBOR encodes u as a 16-byte big-endian byte string.
func (u U128) MarshalCBOR() ([]byte, error) {
	b := u.Bytes16()
	return cbor.Marshal(b[:])
}

// UnmarshalCBOR decodes a 16-byte big-endian byte string.
func (u *U128) UnmarshalCBOR(data []byte) error {
	var b []byte
	if err := cbor.Unmarshal(data, &b); err != nil {
		return err
	}
	if len(b) != Width {
		return fmt.Errorf("u128: expected %d bytes, got %d", Width, len(b))
	}
	var arr [Width]byte
	copy(arr[:], b)
	*u = FromBytes16(arr)
	return nil
}
