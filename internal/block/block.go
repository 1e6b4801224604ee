// Package block implements the on-disk block codec: the sizing ladder that
// rounds a requested byte count up to a physical block size, the flags byte
// that tags a block's liveness and size on disk, and the record layout that
// packs a key and a value (or nothing, for a free block) into a block's
// bytes.
//
// A block is a contiguous region of the database file whose size is always
// one of the ladder values produced by ChooseSize. Every block is either
// live (holding a record) or free (holding nothing but its own flags byte).
// The codec never needs to consult anything outside the bytes of the block
// itself plus, for live blocks, the worst-case 7-byte prefix that precedes
// the key and value.
package block

import (
	"encoding/binary"

	ukverrors "github.com/cronvel/ukvstore/pkg/errors"
)

const (
	// MinSize is the smallest representable block, e=0, h=0: 1<<4.
	MinSize = 1 << 4

	// maxExponent is the largest exponent the flags byte can encode in its
	// 5 exponent bits (bits 0-4).
	maxExponent = 31

	// MaxSize is the largest representable block: the half-step at the
	// largest exponent, 1.5 x 2^35.
	MaxSize = 3 << (maxExponent + 3)
)

// Flags byte bit layout.
const (
	flagFree      byte = 1 << 7 // bit7: block is free.
	flagLargeLPS  byte = 1 << 6 // bit6: length-prefixed strings use the large (2B/4B) form.
	flagHalfStep  byte = 1 << 5 // bit5: half-step member of the ladder (1.5 x 2^(e+4)), not a pure power of two.
	exponentMask       = 0x1F  // bits0-4: ladder exponent.
)

// Header lengths, in bytes, before the key bytes begin.
const (
	smallHeaderLen = 4 // flags(1) + keyLen(1) + valueLen(2)
	largeHeaderLen = 7 // flags(1) + keyLen(2) + valueLen(4)

	// HeaderPrefixLen is the worst-case header length: enough bytes to
	// decode either the small or large form's key/value lengths regardless
	// of which one a block turns out to use.
	HeaderPrefixLen = largeHeaderLen

	// smallKeyLimit and smallValueLimit are the largest key/value lengths the
	// small header can represent; anything larger forces the large form.
	smallKeyLimit   = 0xFF
	smallValueLimit = 0xFFFF
)

// sizeOf returns the ladder size for exponent e and half-step flag h.
// size = 2^(e+4) when h is false, or 1.5 x 2^(e+4) when h is true.
func sizeOf(e int, half bool) int64 {
	if half {
		return 3 << (e + 3)
	}
	return 1 << (e + 4)
}

// ChooseSize returns the smallest ladder value that is at least n bytes,
// along with the exponent and half-step flag the flags byte would encode.
// The ladder, sorted ascending, alternates pure and half-step sizes at each
// exponent (16, 24, 32, 48, 64, 96, ...), so the first candidate reached by
// increasing e is always the smallest one that fits — no log2 arithmetic
// needed, and no floating-point rounding edge cases to worry about.
func ChooseSize(n int) (size int, exponent int, half bool, err error) {
	target := int64(n)
	if target < MinSize {
		target = MinSize
	}

	for e := 0; e <= maxExponent; e++ {
		if pure := sizeOf(e, false); pure >= target {
			return int(pure), e, false, nil
		}
		if h := sizeOf(e, true); h >= target {
			return int(h), e, true, nil
		}
	}

	return 0, 0, false, ukverrors.NewBlockTooLargeError(n)
}

// SizeFromFlags decodes the physical block size a flags byte claims,
// without needing the rest of the block. Used while scanning the file
// during Load to advance the cursor by the correct amount regardless of
// whether the block is live or free.
func SizeFromFlags(flags byte) int {
	e := int(flags & exponentMask)
	half := flags&flagHalfStep != 0
	return int(sizeOf(e, half))
}

// IsFree reports whether the flags byte marks its block as free.
func IsFree(flags byte) bool {
	return flags&flagFree != 0
}

// planRecord computes the header form and exact byte count a key/value pair
// needs, not including padding.
func planRecord(keyLen, valueLen int) (recordBytes int, large bool) {
	large = keyLen > smallKeyLimit || valueLen > smallValueLimit
	if large {
		return largeHeaderLen + keyLen + valueLen, true
	}
	return smallHeaderLen + keyLen + valueLen, false
}

// PlanInsertSize returns the block size a brand-new record should be placed
// into: the record's exact byte count, padded out by 20% and rounded up to
// the next ladder value. Updates that still fit their existing block reuse
// that block's size instead of calling this.
func PlanInsertSize(keyLen, valueLen int) (size int, err error) {
	recordBytes, _ := planRecord(keyLen, valueLen)
	grown := recordBytes + (recordBytes+4)/5 // ceil(recordBytes * 1.2)
	if grown < recordBytes {
		grown = recordBytes
	}
	size, _, _, err = ChooseSize(grown)
	return size, err
}

// Fits reports whether a key/value pair's encoded record can be written
// into an existing block of size blockSize without relocation.
func Fits(keyLen, valueLen, blockSize int) bool {
	recordBytes, _ := planRecord(keyLen, valueLen)
	return recordBytes <= blockSize
}

// HeaderLen returns how many bytes precede the key for a key/value pair of
// the given lengths, without computing the rest of the record plan.
func HeaderLen(keyLen, valueLen int) int {
	if keyLen > smallKeyLimit || valueLen > smallValueLimit {
		return largeHeaderLen
	}
	return smallHeaderLen
}

// EncodeLive packs a key and value into a zero-padded block of exactly
// blockSize bytes. The caller is responsible for having chosen a blockSize
// the record fits into (PlanInsertSize or Fits).
func EncodeLive(key string, value []byte, blockSize int) ([]byte, error) {
	recordBytes, large := planRecord(len(key), len(value))
	if recordBytes > blockSize {
		return nil, ukverrors.NewBlockTooLargeError(recordBytes).
			WithBlockSize(blockSize).
			WithKey(key)
	}

	buf := make([]byte, blockSize)
	if large {
		buf[0] = flagLargeLPS
		binary.BigEndian.PutUint16(buf[1:3], uint16(len(key)))
		binary.BigEndian.PutUint32(buf[3:7], uint32(len(value)))
		copy(buf[7:], key)
		copy(buf[7+len(key):], value)
	} else {
		buf[0] = 0
		buf[1] = byte(len(key))
		binary.BigEndian.PutUint16(buf[2:4], uint16(len(value)))
		copy(buf[4:], key)
		copy(buf[4+len(key):], value)
	}

	// Stamp the size ladder bits onto the flags byte so a later full-file
	// scan can recover blockSize from the flags byte alone.
	_, exponent, half, err := ChooseSize(blockSize)
	if err != nil || sizeOf(exponent, half) != int64(blockSize) {
		return nil, ukverrors.NewCorruptBlockError(0, "blockSize is not a ladder value").
			WithBlockSize(blockSize)
	}
	buf[0] |= byte(exponent) & exponentMask
	if half {
		buf[0] |= flagHalfStep
	}

	return buf, nil
}

// EncodeFree returns a zero-padded free block of exactly blockSize bytes:
// only the flags byte is meaningful, with FREE set and the size ladder bits
// stamped on so the block's size survives a later scan.
func EncodeFree(blockSize int) ([]byte, error) {
	_, exponent, half, err := ChooseSize(blockSize)
	if err != nil || sizeOf(exponent, half) != int64(blockSize) {
		return nil, ukverrors.NewCorruptBlockError(0, "blockSize is not a ladder value").
			WithBlockSize(blockSize)
	}

	buf := make([]byte, blockSize)
	buf[0] = flagFree | (byte(exponent) & exponentMask)
	if half {
		buf[0] |= flagHalfStep
	}
	return buf, nil
}

// DecodeHeader interprets a live block's worst-case prefix (at least 7
// bytes, the largeHeaderLen) and returns the key and value lengths plus how
// many header bytes precede the key. offset is only used to annotate a
// CorruptBlock error with where in the file the bad block starts.
func DecodeHeader(prefix []byte, offset int64) (keyLen, valueLen, headerLen int, err error) {
	if len(prefix) < largeHeaderLen {
		return 0, 0, 0, ukverrors.NewCorruptBlockError(offset, "prefix shorter than the worst-case header")
	}

	flags := prefix[0]
	if flags&flagLargeLPS != 0 {
		keyLen = int(binary.BigEndian.Uint16(prefix[1:3]))
		valueLen = int(binary.BigEndian.Uint32(prefix[3:7]))
		return keyLen, valueLen, largeHeaderLen, nil
	}

	keyLen = int(prefix[1])
	valueLen = int(binary.BigEndian.Uint16(prefix[2:4]))
	return keyLen, valueLen, smallHeaderLen, nil
}
