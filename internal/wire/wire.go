package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const (
	version   byte = 1
	kindValue byte = 1
	kindNull  byte = 2

	hdrLen = 4 + 1 + 1 + 4
)

var (
	ErrCorrupt = errors.New("mapcache: corrupt entry")
	magic4     = [...]byte{'M', 'A', 'P', 'C'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Entry: magic(4) | ver(1) | kind(1=value, 2=null) | vlen(u32 be) | payload(vlen)
// Null entries always have vlen=0.
func EncodeValue(payload []byte) []byte {
	return encode(kindValue, payload)
}

func EncodeNull() []byte {
	return encode(kindNull, nil)
}

func encode(kind byte, payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(hdrLen + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kind)

	var u4 [4]byte
	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes()
}

// Decode returns the payload of a value entry, or null=true for a null entry.
// The payload aliases b.
func Decode(b []byte) (null bool, payload []byte, err error) {
	if len(b) < hdrLen || !hasMagic(b) || b[4] != version {
		return false, nil, ErrCorrupt
	}
	kind := b[5]
	if kind != kindValue && kind != kindNull {
		return false, nil, ErrCorrupt
	}

	off := 6
	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen < 0 || vlen != len(b)-off { // exact: no trailing bytes
		return false, nil, ErrCorrupt
	}
	if kind == kindNull {
		if vlen != 0 {
			return false, nil, ErrCorrupt
		}
		return true, nil, nil
	}
	return false, b[off : off+vlen], nil
}
