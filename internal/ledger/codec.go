package ledger

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Record layout constants.
const (
	NameSize   = 50
	MaxNameLen = NameSize - 1
	RecordSize = 2 + NameSize + 2 + 8

	offName    = 2
	offPIN     = offName + NameSize
	offBalance = offPIN + 2
)

// ErrShortRecord is returned when fewer than RecordSize bytes are decoded.
// A short trailing record in the account file marks end of stream.
var ErrShortRecord = errors.New("short account record")

// MarshalBinary encodes a into exactly RecordSize bytes.
func (a Account) MarshalBinary() ([]byte, error) {
	return a.AppendBinary(make([]byte, 0, RecordSize))
}

// AppendBinary appends the fixed-width encoding of a to b.
func (a Account) AppendBinary(b []byte) ([]byte, error) {
	name := NormalizeName(a.Name)

	b = binary.LittleEndian.AppendUint16(b, a.ID)
	b = append(b, name...)
	b = append(b, make([]byte, NameSize-len(name))...)
	b = binary.LittleEndian.AppendUint16(b, a.PIN)
	b = binary.LittleEndian.AppendUint64(b, math.Float64bits(a.Balance))
	return b, nil
}

// UnmarshalBinary decodes the first RecordSize bytes of data into a.
func (a *Account) UnmarshalBinary(data []byte) error {
	if len(data) < RecordSize {
		return fmt.Errorf("decode account: %w (%d of %d bytes)", ErrShortRecord, len(data), RecordSize)
	}

	name := data[offName:offPIN]
	if i := bytes.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}

	a.ID = binary.LittleEndian.Uint16(data[0:offName])
	a.Name = string(name)
	a.PIN = binary.LittleEndian.Uint16(data[offPIN:offBalance])
	a.Balance = math.Float64frombits(binary.LittleEndian.Uint64(data[offBalance:RecordSize]))
	return nil
}

// Decode is a convenience wrapper around UnmarshalBinary.
func Decode(data []byte) (Account, error) {
	var a Account
	err := a.UnmarshalBinary(data)
	return a, err
}
