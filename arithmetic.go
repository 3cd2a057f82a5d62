package symcode

import (
	"bytes"
	"fmt"
	"io"
	"math/big"
	"sort"

	"github.com/chronos-tachyon/assert"
	"github.com/pkg/errors"
)

// DefaultMaxLength is the longest symbol sequence an ArithmeticCoder will
// decode unless configured otherwise with WithMaxLength.
const DefaultMaxLength = 1 << 16

// Segment is the half-open interval [Left, Right) of [0, 1) assigned to one
// Symbol for arithmetic coding.
type Segment struct {
	Symbol Symbol
	Left   *big.Rat
	Right  *big.Rat
}

// Width returns Right - Left, which equals the symbol's probability.
func (s Segment) Width() *big.Rat {
	return new(big.Rat).Sub(s.Right, s.Left)
}

// Contains returns true iff Left <= x < Right.
func (s Segment) Contains(x *big.Rat) bool {
	return s.Left.Cmp(x) <= 0 && x.Cmp(s.Right) < 0
}

// String returns a human-readable form of the segment.
func (s Segment) String() string {
	return fmt.Sprintf("%q [%s, %s)", s.Symbol, FormatRat(s.Left), FormatRat(s.Right))
}

// ArithmeticCoder implements arithmetic coding with exact rational interval
// arithmetic.  Its segments partition [0, 1) in the model's canonical order,
// each as wide as its symbol's probability.
type ArithmeticCoder struct {
	segments  []Segment
	maxLength int
}

// NewArithmeticCoder lays out the segments for the given Model.
func NewArithmeticCoder(m Model) *ArithmeticCoder {
	c := &ArithmeticCoder{maxLength: DefaultMaxLength}

	probs, err := m.Probabilities()
	if err != nil {
		return c
	}

	c.segments = make([]Segment, len(probs))
	left := new(big.Rat)
	for i, sp := range probs {
		right := new(big.Rat).Add(left, sp.Prob)
		c.segments[i] = Segment{Symbol: sp.Symbol, Left: left, Right: right}
		left = right
	}
	assert.Assertf(left.Cmp(big.NewRat(1, 1)) == 0, "segments cover [0, %s)", left.RatString())
	return c
}

// Kind returns Arithmetic.
func (c *ArithmeticCoder) Kind() Kind {
	return Arithmetic
}

// MaxLength is the longest sequence Decode will reconstruct.
func (c *ArithmeticCoder) MaxLength() int {
	return c.maxLength
}

// WithMaxLength returns a copy of this coder with a different decode budget.
func (c *ArithmeticCoder) WithMaxLength(n int) *ArithmeticCoder {
	dupe := *c
	dupe.maxLength = n
	return &dupe
}

// Segments returns a copy of the segment layout.
func (c *ArithmeticCoder) Segments() []Segment {
	out := make([]Segment, len(c.segments))
	for i, seg := range c.segments {
		out[i] = Segment{
			Symbol: seg.Symbol,
			Left:   new(big.Rat).Set(seg.Left),
			Right:  new(big.Rat).Set(seg.Right),
		}
	}
	return out
}

// Interval narrows [0, 1) once per symbol and returns the final [low, high).
func (c *ArithmeticCoder) Interval(symbols []Symbol) (low *big.Rat, high *big.Rat, err error) {
	if len(c.segments) == 0 {
		return nil, nil, ErrEmptyAlphabet
	}

	low = new(big.Rat)
	high = big.NewRat(1, 1)
	var width, tmp big.Rat
	for i, sym := range symbols {
		seg, found := c.find(sym)
		if !found {
			return nil, nil, errors.Wrapf(ErrUnknownSymbol, "%q at index %d", sym, i)
		}
		width.Sub(high, low)
		high.Mul(&width, seg.Right)
		high.Add(high, low)
		tmp.Mul(&width, seg.Left)
		low.Add(low, &tmp)
	}
	return low, high, nil
}

// EncodeValue returns the midpoint of the final interval for symbols.
func (c *ArithmeticCoder) EncodeValue(symbols []Symbol) (*big.Rat, error) {
	low, high, err := c.Interval(symbols)
	if err != nil {
		return nil, err
	}
	mid := new(big.Rat).Add(low, high)
	return mid.Quo(mid, big.NewRat(2, 1)), nil
}

// DecodeValue reconstructs length symbols from an arithmetic code.
func (c *ArithmeticCoder) DecodeValue(code *big.Rat, length int) ([]Symbol, error) {
	if len(c.segments) == 0 {
		return nil, ErrEmptyAlphabet
	}
	if code == nil {
		return nil, errors.Wrap(ErrInvalidNumber, "missing arithmetic code")
	}
	if length < 0 {
		return nil, errors.Wrapf(ErrInvalidLength, "%d", length)
	}
	if length > c.maxLength {
		return nil, errors.Wrapf(ErrLengthLimit, "%d symbols, max %d", length, c.maxLength)
	}
	if code.Sign() < 0 || code.Cmp(big.NewRat(1, 1)) >= 0 {
		return nil, errors.Wrapf(ErrOutOfRange, "%s", FormatRat(code))
	}

	n := len(c.segments)
	out := make([]Symbol, 0, length)
	x := new(big.Rat).Set(code)
	var width big.Rat
	for len(out) < length {
		j := sort.Search(n, func(j int) bool {
			return x.Cmp(c.segments[j].Right) < 0
		})
		assert.Assertf(j < n, "code %s escaped [0, 1)", x.RatString())
		seg := c.segments[j]
		assert.Assertf(seg.Contains(x), "code %s not in %v", x.RatString(), seg)

		out = append(out, seg.Symbol)
		width.Sub(seg.Right, seg.Left)
		x.Sub(x, seg.Left)
		x.Quo(x, &width)
	}
	return out, nil
}

// Encode implements Coder.
func (c *ArithmeticCoder) Encode(symbols []Symbol) (Message, error) {
	value, err := c.EncodeValue(symbols)
	if err != nil {
		return Message{}, err
	}
	return Message{Value: value, Length: len(symbols)}, nil
}

// Decode implements Coder.
func (c *ArithmeticCoder) Decode(msg Message) ([]Symbol, error) {
	return c.DecodeValue(msg.Value, msg.Length)
}

// Dump writes a programmer-readable debugging dump of the coder's segments to
// the given writer.
func (c *ArithmeticCoder) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("ArithmeticCoder{\n")
	for _, seg := range c.segments {
		fmt.Fprintf(&buf, "\tSegment(%q) = [%s, %s)\n", seg.Symbol, FormatRat(seg.Left), FormatRat(seg.Right))
	}
	buf.WriteString("}\n")
	return buf.WriteTo(w)
}

func (c *ArithmeticCoder) find(sym Symbol) (Segment, bool) {
	i := sort.Search(len(c.segments), func(i int) bool {
		return c.segments[i].Symbol >= sym
	})
	if i < len(c.segments) && c.segments[i].Symbol == sym {
		return c.segments[i], true
	}
	return Segment{}, false
}

var _ Coder = (*ArithmeticCoder)(nil)
