package symcode

import (
	"bytes"
	"fmt"
	"io"
	"math/big"
	"sort"

	"github.com/pkg/errors"
)

// CodeTable maps each Symbol of an alphabet to its Code.
type CodeTable map[Symbol]Code

// ParseCodeTable converts a table received as text, such as the "codes"
// object of an envelope, into a CodeTable.
func ParseCodeTable(raw map[string]string) (CodeTable, error) {
	t := make(CodeTable, len(raw))
	for key, value := range raw {
		sym, err := parseSymbol(key)
		if err != nil {
			return nil, err
		}
		hc, err := ParseCode(value)
		if err != nil {
			return nil, errors.Wrapf(err, "code for %q", sym)
		}
		t[sym] = hc
	}
	return t, nil
}

// Strings converts this table to text form.
func (t CodeTable) Strings() map[string]string {
	out := make(map[string]string, len(t))
	for sym, hc := range t {
		out[sym.String()] = hc.Bitstring()
	}
	return out
}

// Symbols returns the table's symbols in canonical order.
func (t CodeTable) Symbols() []Symbol {
	out := make(bySymbol, 0, len(t))
	for sym := range t {
		out = append(out, sym)
	}
	sort.Sort(out)
	return out
}

// Clone returns a copy of this table.
func (t CodeTable) Clone() CodeTable {
	out := make(CodeTable, len(t))
	for sym, hc := range t {
		out[sym] = hc
	}
	return out
}

// Equal returns true iff both tables hold the same codes.
func (t CodeTable) Equal(other CodeTable) bool {
	if len(t) != len(other) {
		return false
	}
	for sym, hc := range t {
		if hc2, found := other[sym]; !found || hc2 != hc {
			return false
		}
	}
	return true
}

// ExpectedLength returns the expected number of bits per symbol,
// sum(p(sym) * len(code(sym))), under the given Model.
func (t CodeTable) ExpectedLength(m Model) (*big.Rat, error) {
	probs, err := m.Probabilities()
	if err != nil {
		return nil, err
	}
	sum := new(big.Rat)
	var term big.Rat
	for _, sp := range probs {
		hc, found := t[sp.Symbol]
		if !found {
			return nil, errors.Wrapf(ErrUnknownSymbol, "%q has no code", sp.Symbol)
		}
		term.SetInt64(int64(hc.Size))
		term.Mul(&term, sp.Prob)
		sum.Add(sum, &term)
	}
	return sum, nil
}

// Encode concatenates the codes for symbols into a string of '0' and '1'.
func (t CodeTable) Encode(symbols []Symbol) (string, error) {
	if len(t) == 0 {
		return "", ErrEmptyAlphabet
	}
	buf := make([]byte, 0, 4*len(symbols))
	for i, sym := range symbols {
		hc, found := t[sym]
		if !found {
			return "", errors.Wrapf(ErrUnknownSymbol, "%q at index %d", sym, i)
		}
		buf = hc.AppendTo(buf)
	}
	return string(buf), nil
}

// PrefixCoder encodes with a CodeTable and decodes by greedy prefix matching.
// It is the common half of the Huffman, Shannon-Fano, and fixed-width coders,
// and is also what a decoder rebuilds from a transmitted code table.
type PrefixCoder struct {
	kind    Kind
	table   CodeTable
	decoder Decoder
}

// NewPrefixCoder builds a PrefixCoder of the given kind around a table.
func NewPrefixCoder(kind Kind, table CodeTable) (PrefixCoder, error) {
	table = table.Clone()
	d, err := NewDecoder(table)
	if err != nil {
		return PrefixCoder{}, err
	}
	return PrefixCoder{kind: kind, table: table, decoder: d}, nil
}

// Kind returns the coder's variant tag.
func (c PrefixCoder) Kind() Kind {
	return c.kind
}

// Table returns a copy of the code table.
func (c PrefixCoder) Table() CodeTable {
	return c.table.Clone()
}

// Decoder returns the prefix table used for decoding.
func (c PrefixCoder) Decoder() Decoder {
	return c.decoder
}

// Encode implements Coder.
func (c PrefixCoder) Encode(symbols []Symbol) (Message, error) {
	bits, err := c.table.Encode(symbols)
	if err != nil {
		return Message{}, err
	}
	return Message{Bits: bits, Length: len(symbols)}, nil
}

// MaxLength is the longest sequence Decode will reconstruct from a table
// consisting of a single empty code.
func (c PrefixCoder) MaxLength() int {
	return c.decoder.MaxLength()
}

// WithMaxLength returns a copy of this coder with a different decode budget.
func (c PrefixCoder) WithMaxLength(n int) PrefixCoder {
	c.decoder = c.decoder.WithMaxLength(n)
	return c
}

// Decode implements Coder.  Message.Length is only consulted when the table
// consists of a single empty code.
func (c PrefixCoder) Decode(msg Message) ([]Symbol, error) {
	return c.decoder.DecodeString(msg.Bits, msg.Length)
}

// Dump writes a programmer-readable debugging dump of the coder's codes to
// the given writer.
func (c PrefixCoder) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Coder(%s){\n", c.kind)
	fmt.Fprintf(&buf, "\tMinSize() = %d\n", c.decoder.MinSize())
	fmt.Fprintf(&buf, "\tMaxSize() = %d\n", c.decoder.MaxSize())
	for _, sym := range c.table.Symbols() {
		fmt.Fprintf(&buf, "\tEncode(%q) = %s\n", sym, c.table[sym])
	}
	buf.WriteString("}\n")
	return buf.WriteTo(w)
}

var _ Coder = PrefixCoder{}
