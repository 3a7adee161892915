package types

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
	"github.com/zeebo/xxh3"
)

// Packed record layout:
//
//	version (1 byte) ++ Varint(tag) ++ fields ++ checksum
//
// Fields follow the declared order of the record struct:
//
//	string / bytes = Varint(length) ++ bytes
//	optional       = 0x00 | 0x01 ++ value
//	list           = Varint(count) ++ elements
//	uuid           = 16 bytes
//	time           = bytes of time.MarshalBinary (keeps the zone offset)
//
// checksum is the big endian XXH3-64 of everything before it. The version
// byte is bumped whenever the field layout changes.
const (
	packVersion  byte = 0x01
	checksumSize      = 8
)

// recordTag identifies the record type inside a packed value.
type recordTag uint64

const (
	bookmarkTag  recordTag = 1
	containerTag recordTag = 2
)

type packer []byte

func newPacker(tag recordTag) packer {
	p := packer{packVersion}
	return binary.AppendUvarint(p, uint64(tag))
}

func (p packer) appendUvarint(v uint64) packer {
	return binary.AppendUvarint(p, v)
}

func (p packer) appendBytes(b []byte) packer {
	p = p.appendUvarint(uint64(len(b)))
	return append(p, b...)
}

func (p packer) appendString(s string) packer {
	p = p.appendUvarint(uint64(len(s)))
	return append(p, s...)
}

func (p packer) appendPresent(present bool) packer {
	if present {
		return append(p, 1)
	}
	return append(p, 0)
}

func (p packer) appendUUID(id uuid.UUID) packer {
	return append(p, id[:]...)
}

func (p packer) appendOptionalString(s *string) packer {
	p = p.appendPresent(s != nil)
	if s != nil {
		p = p.appendString(*s)
	}
	return p
}

func (p packer) appendOptionalUUID(id *uuid.UUID) packer {
	p = p.appendPresent(id != nil)
	if id != nil {
		p = p.appendUUID(*id)
	}
	return p
}

func (p packer) appendStrings(list []string) packer {
	p = p.appendUvarint(uint64(len(list)))
	for _, s := range list {
		p = p.appendString(s)
	}
	return p
}

// seal appends the checksum and returns the finished record.
func (p packer) seal() []byte {
	return binary.BigEndian.AppendUint64(p, xxh3.Hash(p))
}

// unpacker reads fields in the order packer wrote them. The first failure
// is sticky: later reads return zero values and err reports the first cause.
type unpacker struct {
	buf []byte
	err error
}

// openRecord verifies the envelope of data and positions an unpacker at the
// first field.
func openRecord(data []byte, tag recordTag) *unpacker {
	u := &unpacker{}
	if len(data) < 1+checksumSize {
		u.err = fmt.Errorf("%w: %d bytes is too short", ErrCorruptRecord, len(data))
		return u
	}
	body := data[:len(data)-checksumSize]
	sum := binary.BigEndian.Uint64(data[len(data)-checksumSize:])
	if xxh3.Hash(body) != sum {
		u.err = fmt.Errorf("%w: checksum mismatch", ErrCorruptRecord)
		return u
	}
	if body[0] != packVersion {
		u.err = fmt.Errorf("%w: unsupported version %d", ErrCorruptRecord, body[0])
		return u
	}
	u.buf = body[1:]
	if got := recordTag(u.uvarint()); u.err == nil && got != tag {
		u.err = fmt.Errorf("%w: record tag %d, expected %d", ErrCorruptRecord, got, tag)
	}
	return u
}

func (u *unpacker) fail(what string) {
	if u.err == nil {
		u.err = fmt.Errorf("%w: %s", ErrCorruptRecord, what)
	}
}

func (u *unpacker) uvarint() uint64 {
	if u.err != nil {
		return 0
	}
	v, n := binary.Uvarint(u.buf)
	if n <= 0 {
		u.fail("malformed varint")
		return 0
	}
	u.buf = u.buf[n:]
	return v
}

func (u *unpacker) take(n uint64) []byte {
	if u.err != nil {
		return nil
	}
	if uint64(len(u.buf)) < n {
		u.fail("truncated field")
		return nil
	}
	b := u.buf[:n]
	u.buf = u.buf[n:]
	return b
}

func (u *unpacker) bytes() []byte {
	b := u.take(u.uvarint())
	if b == nil {
		return nil
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp
}

func (u *unpacker) string() string {
	return string(u.take(u.uvarint()))
}

func (u *unpacker) present() bool {
	b := u.take(1)
	if b == nil {
		return false
	}
	switch b[0] {
	case 0:
		return false
	case 1:
		return true
	}
	u.fail("invalid presence flag")
	return false
}

func (u *unpacker) uuid() uuid.UUID {
	var id uuid.UUID
	copy(id[:], u.take(uint64(len(id))))
	return id
}

func (u *unpacker) optionalString() *string {
	if !u.present() {
		return nil
	}
	s := u.string()
	return &s
}

func (u *unpacker) optionalUUID() *uuid.UUID {
	if !u.present() {
		return nil
	}
	id := u.uuid()
	return &id
}

func (u *unpacker) strings() []string {
	count := u.uvarint()
	if count == 0 || u.err != nil {
		return nil
	}
	// every element needs at least its length byte
	if count > uint64(len(u.buf)) {
		u.fail("list count exceeds record size")
		return nil
	}
	list := make([]string, 0, count)
	for i := uint64(0); i < count && u.err == nil; i++ {
		list = append(list, u.string())
	}
	return list
}

// finish reports the first decoding error, or an error if bytes remain.
func (u *unpacker) finish() error {
	if u.err != nil {
		return u.err
	}
	if len(u.buf) != 0 {
		return fmt.Errorf("%w: %d trailing bytes", ErrCorruptRecord, len(u.buf))
	}
	return nil
}
