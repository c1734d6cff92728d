// Package wire implements the deterministic length-prefixed encoding used for the composite values in the
// frank protocol family: the inner AEAD payload, and the (c2, ctx) input that each scheme's token is
// computed over. The ModPriv tau vector is not encoded with it (it is a plain concatenation of fixed-size
// tags), and the report documents are Go structs for which this module defines no byte encoding.
//
// Encoding: each field is an 8-byte big-endian length followed by that many bytes. A record is the
// concatenation of its fields in a fixed, scheme-declared order. There is no type tagging — the decoder
// must know the field order and count in advance, exactly as the encoder does.
package wire

import (
	"encoding/binary"
	"fmt"

	"github.com/aeris-crypto/frank"
)

// ErrTruncated is returned when a record ends before a length-prefixed field can be fully read.
var ErrTruncated = fmt.Errorf("wire: truncated record: %w", frank.ErrMalformed)

// AppendField appends a length-prefixed field to dst and returns the result.
func AppendField(dst []byte, field []byte) []byte {
	var lenBuf [8]byte
	binary.BigEndian.PutUint64(lenBuf[:], uint64(len(field)))
	dst = append(dst, lenBuf[:]...)
	dst = append(dst, field...)
	return dst
}

// ReadField reads one length-prefixed field from the front of buf, returning the field and the remaining
// bytes. Returns ErrTruncated if buf does not contain a complete field.
func ReadField(buf []byte) (field, rest []byte, err error) {
	if len(buf) < 8 {
		return nil, nil, ErrTruncated
	}
	n := binary.BigEndian.Uint64(buf[:8])
	buf = buf[8:]
	if uint64(len(buf)) < n {
		return nil, nil, ErrTruncated
	}
	return buf[:n], buf[n:], nil
}

// ReadFields reads exactly count length-prefixed fields from buf, erroring if the record has a different
// number of fields or any trailing bytes remain.
func ReadFields(buf []byte, count int) ([][]byte, error) {
	fields := make([][]byte, 0, count)
	for range count {
		field, rest, err := ReadField(buf)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
		buf = rest
	}
	if len(buf) != 0 {
		return nil, fmt.Errorf("wire: trailing bytes after record: %w", frank.ErrMalformed)
	}
	return fields, nil
}
