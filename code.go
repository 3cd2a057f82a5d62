package symcode

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

// MaxCodeSize is the maximum number of bits in a Code.
const MaxCodeSize = 64

// Code represents a sequence of bits.
type Code struct {
	// Size holds the number of valid bits.
	Size byte

	// Bits holds the actual values of the bits.  The most significant of
	// the Size low bits is the first bit.
	Bits uint64
}

// MakeCode is a convenience function that constructs a Code.
func MakeCode(size byte, bits uint64) Code {
	return Code{Size: size, Bits: bits}
}

// ParseCode parses a string of '0' and '1' characters.
func ParseCode(s string) (Code, error) {
	if len(s) > MaxCodeSize {
		return Code{}, errors.Wrapf(ErrCodeTooLong, "%d bits, max %d", len(s), MaxCodeSize)
	}
	var hc Code
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0':
			hc = hc.append(0)
		case '1':
			hc = hc.append(1)
		default:
			return Code{}, errors.Wrapf(ErrInvalidBit, "%q at offset %d", s[i], i)
		}
	}
	return hc, nil
}

// Append returns this Code extended by one bit.
func (hc Code) Append(bit byte) (Code, error) {
	if hc.Size >= MaxCodeSize {
		return Code{}, errors.Wrapf(ErrCodeTooLong, "max %d bits", MaxCodeSize)
	}
	return hc.append(bit), nil
}

func (hc Code) append(bit byte) Code {
	return Code{Size: hc.Size + 1, Bits: hc.Bits<<1 | uint64(bit&1)}
}

// parent returns this Code without its last bit.
func (hc Code) parent() Code {
	return Code{Size: hc.Size - 1, Bits: hc.Bits >> 1}
}

// sibling returns this Code with its last bit flipped.
func (hc Code) sibling() Code {
	return Code{Size: hc.Size, Bits: hc.Bits ^ 1}
}

// AppendTo appends the bits as '0' and '1' characters.
func (hc Code) AppendTo(buf []byte) []byte {
	for i := int(hc.Size) - 1; i >= 0; i-- {
		buf = append(buf, '0'+byte((hc.Bits>>uint(i))&1))
	}
	return buf
}

// Bitstring returns the bits as an unquoted string of '0' and '1'.
func (hc Code) Bitstring() string {
	return string(hc.AppendTo(make([]byte, 0, hc.Size)))
}

// String returns the string representation of this Code.
func (hc Code) String() string {
	return strconv.Quote(hc.Bitstring())
}

var _ fmt.Stringer = Code{}

// type byCode {{{

type byCode []Code

func (list byCode) Len() int {
	return len(list)
}

func (list byCode) Swap(i, j int) {
	list[i], list[j] = list[j], list[i]
}

func (list byCode) Less(i, j int) bool {
	a, b := list[i], list[j]
	if a.Size != b.Size {
		return a.Size < b.Size
	}
	return a.Bits < b.Bits
}

// }}}
