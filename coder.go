package symcode

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Kind selects one of the coder variants.
type Kind byte

const (
	Arithmetic Kind = iota + 1
	Huffman
	ShannonFano
	FixedWidth
)

var kindNames = [...]string{
	Arithmetic:  "arithmetic",
	Huffman:     "huffman",
	ShannonFano: "shannon-fano",
	FixedWidth:  "fixed-width",
}

// Kinds lists every coder variant.
var Kinds = []Kind{Arithmetic, Huffman, ShannonFano, FixedWidth}

// String returns the variant's name, as accepted by ParseKind.
func (kind Kind) String() string {
	if kind >= Arithmetic && kind <= FixedWidth {
		return kindNames[kind]
	}
	return "Kind(" + strconv.Itoa(int(kind)) + ")"
}

// ParseKind parses a variant name.  Underscores may stand in for hyphens.
func ParseKind(s string) (Kind, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for _, kind := range Kinds {
		if kindNames[kind] == name {
			return kind, nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownKind, "%q", s)
}

// Message is the output of a Coder.
type Message struct {
	// Bits holds the encoded bit string for the prefix and fixed-width
	// coders, as '0' and '1' characters.
	Bits string

	// Value holds the encoded number for the arithmetic coder.
	Value *big.Rat

	// Length is the number of symbols that were encoded.  The arithmetic
	// coder always needs it to decode; the other coders only need it for
	// a 1-symbol alphabet.
	Length int
}

// Coder is the capability shared by every coder variant.  Coders are
// immutable once built and may be shared between goroutines.
type Coder interface {
	Kind() Kind
	Encode(symbols []Symbol) (Message, error)
	Decode(msg Message) ([]Symbol, error)
}

// New builds the coder of the given kind for a Model.
func New(kind Kind, m Model) (Coder, error) {
	switch kind {
	case Arithmetic:
		return NewArithmeticCoder(m), nil
	case Huffman:
		c, err := NewHuffmanCoder(m)
		if err != nil {
			return nil, err
		}
		return c, nil
	case ShannonFano:
		c, err := NewShannonFanoCoder(m)
		if err != nil {
			return nil, err
		}
		return c, nil
	case FixedWidth:
		return NewFixedWidthCoder(m), nil
	}
	return nil, errors.Wrapf(ErrUnknownKind, "%d", byte(kind))
}

// FromCodeTable rebuilds a decode-capable coder from a transmitted code
// table, with no access to the original sample.
func FromCodeTable(kind Kind, table CodeTable) (Coder, error) {
	switch kind {
	case Huffman, ShannonFano:
		c, err := NewPrefixCoder(kind, table)
		if err != nil {
			return nil, err
		}
		return c, nil
	case FixedWidth:
		c, err := FixedWidthFromTable(table)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, errors.Wrapf(ErrUnknownKind, "%s has no code table", kind)
}
