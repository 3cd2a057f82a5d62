package symcode

import (
	"github.com/chronos-tachyon/assert"
	"github.com/pkg/errors"
)

// FixedWidthCoder is the baseline coder: every symbol gets a code of the same
// width, ceil(log2(alphabet size)) bits, regardless of its frequency.  The
// i'th symbol in canonical order is coded as i in binary.
//
// A 1-symbol alphabet has width 0.  Its only code is empty, encoding emits
// no bits, and decoding repeats the symbol Message.Length times.
//
type FixedWidthCoder struct {
	PrefixCoder
	width byte
}

// NewFixedWidthCoder assigns fixed-width codes to the symbols of a Model.
func NewFixedWidthCoder(m Model) *FixedWidthCoder {
	width := bitWidth(len(m.symbols))
	table := make(CodeTable, len(m.symbols))
	for i, sym := range m.symbols {
		table[sym] = MakeCode(width, uint64(i))
	}

	d, err := NewDecoder(table)
	assert.Assertf(err == nil, "distinct fixed-width codes rejected: %v", err)
	return &FixedWidthCoder{
		PrefixCoder: PrefixCoder{kind: FixedWidth, table: table, decoder: d},
		width:       width,
	}
}

// FixedWidthFromTable rebuilds a FixedWidthCoder from a transmitted table.
// All codes must have the same size.
func FixedWidthFromTable(table CodeTable) (*FixedWidthCoder, error) {
	var width byte
	for i, sym := range table.Symbols() {
		hc := table[sym]
		if i == 0 {
			width = hc.Size
		} else if hc.Size != width {
			return nil, errors.Wrapf(ErrMixedWidths, "%q has %d bits, expected %d", sym, hc.Size, width)
		}
	}

	pc, err := NewPrefixCoder(FixedWidth, table)
	if err != nil {
		return nil, err
	}
	return &FixedWidthCoder{PrefixCoder: pc, width: width}, nil
}

// Width returns the number of bits in every code.
func (c *FixedWidthCoder) Width() byte {
	return c.width
}

// WithMaxLength returns a copy of this coder with a different decode budget.
func (c *FixedWidthCoder) WithMaxLength(n int) *FixedWidthCoder {
	dupe := *c
	dupe.PrefixCoder = c.PrefixCoder.WithMaxLength(n)
	return &dupe
}

// Decode implements Coder.
func (c *FixedWidthCoder) Decode(msg Message) ([]Symbol, error) {
	if c.width != 0 && len(msg.Bits)%int(c.width) != 0 {
		return nil, errors.Wrapf(ErrTruncatedInput, "%d bits, width %d", len(msg.Bits), c.width)
	}
	return c.PrefixCoder.Decode(msg)
}

var _ Coder = (*FixedWidthCoder)(nil)
