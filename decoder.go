package symcode

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/pkg/errors"
)

// Decoder implements greedy decoding for an arbitrary prefix code.
type Decoder struct {
	table      map[Code]decoderData
	numSymbols int
	minSize    byte
	maxSize    byte
	maxLength  int
}

// NewDecoder is a convenience function that constructs and initializes a
// Decoder.
func NewDecoder(codes CodeTable) (Decoder, error) {
	var d Decoder
	err := d.Init(codes)
	return d, err
}

// Init initializes this Decoder from a table of codes, one per symbol.
//
// The table must satisfy the prefix property: no code may equal or be a
// prefix of another.  The code need not be complete; bit strings that stray
// outside the table are rejected at decode time.  A table whose only entry
// is the empty code is permitted, as there is no way to construct anything
// else for a 1-symbol alphabet.
//
func (d *Decoder) Init(codes CodeTable) error {
	symbols := codes.Symbols()
	if len(symbols) == 0 {
		*d = Decoder{}
		return nil
	}

	table := make(map[Code]decoderData, 2*len(symbols))
	var minSize, maxSize byte
	for i, symbol := range symbols {
		hc := codes[symbol]
		if hc.Size > MaxCodeSize {
			return errors.Wrapf(ErrCodeTooLong, "symbol %q has %d bits", symbol, hc.Size)
		}
		if err := fillTable(table, symbol, hc); err != nil {
			return errors.Wrapf(err, "symbol %q with code %s", symbol, hc)
		}
		if i == 0 || minSize > hc.Size {
			minSize = hc.Size
		}
		if i == 0 || maxSize < hc.Size {
			maxSize = hc.Size
		}
	}

	*d = Decoder{
		table:      table,
		numSymbols: len(symbols),
		minSize:    minSize,
		maxSize:    maxSize,
	}
	return nil
}

// Decode attempts to decode a (possibly partial) code into a Symbol.
//
// If hc is a complete code, symbol >= 0 and minSize == maxSize == hc.Size.
//
// If hc is a proper prefix of one or more codes, symbol == InvalidSymbol and
// the codes that extend it are between minSize and maxSize bits long.
//
// If hc is not a prefix of any code, symbol == InvalidSymbol and
// minSize == maxSize == 0.
//
func (d Decoder) Decode(hc Code) (symbol Symbol, minSize byte, maxSize byte) {
	dd, found := d.table[hc]
	if !found {
		return InvalidSymbol, 0, 0
	}
	return dd.symbol, dd.minSize, dd.maxSize
}

// DecodeString decodes a string of '0' and '1' characters by greedy prefix
// matching.  The length argument is only consulted for a 1-symbol alphabet
// with an empty code, where no bits are consumed and the symbol is repeated
// length times, up to MaxLength.
func (d Decoder) DecodeString(bits string, length int) ([]Symbol, error) {
	if d.numSymbols == 0 {
		return nil, ErrEmptyAlphabet
	}

	if root, found := d.table[Code{}]; found && root.symbol != InvalidSymbol {
		if bits != "" {
			return nil, errors.Wrapf(ErrUnknownCode, "%d bits for an empty code", len(bits))
		}
		if length < 0 {
			return nil, errors.Wrapf(ErrInvalidLength, "%d", length)
		}
		if length > d.MaxLength() {
			return nil, errors.Wrapf(ErrLengthLimit, "%d symbols, max %d", length, d.MaxLength())
		}
		out := make([]Symbol, length)
		for i := range out {
			out[i] = root.symbol
		}
		return out, nil
	}

	out := make([]Symbol, 0, len(bits)/int(d.minSize))
	var hc Code
	start := 0
	for i := 0; i < len(bits); i++ {
		switch bits[i] {
		case '0':
			hc = hc.append(0)
		case '1':
			hc = hc.append(1)
		default:
			return nil, errors.Wrapf(ErrInvalidBit, "%q at offset %d", bits[i], i)
		}

		dd, found := d.table[hc]
		if !found {
			return nil, errors.Wrapf(ErrUnknownCode, "%s at offset %d", hc, start)
		}
		if dd.symbol != InvalidSymbol {
			out = append(out, dd.symbol)
			hc = Code{}
			start = i + 1
		}
	}
	if hc.Size != 0 {
		return nil, errors.Wrapf(ErrUndecodableSuffix, "%s at offset %d", hc, start)
	}
	return out, nil
}

// NumSymbols is the number of symbols in the code.
func (d Decoder) NumSymbols() int {
	return d.numSymbols
}

// MinSize is the bit length of the shortest legal code.
func (d Decoder) MinSize() byte {
	return d.minSize
}

// MaxSize is the bit length of the longest legal code.
func (d Decoder) MaxSize() byte {
	return d.maxSize
}

// MaxLength is the longest sequence DecodeString will produce from an empty
// code.  It defaults to DefaultMaxLength.
func (d Decoder) MaxLength() int {
	if d.maxLength == 0 {
		return DefaultMaxLength
	}
	return d.maxLength
}

// WithMaxLength returns a copy of this Decoder with a different budget.
func (d Decoder) WithMaxLength(n int) Decoder {
	d.maxLength = n
	return d
}

// Dump writes a programmer-readable debugging dump of the Decoder's current
// state to the given writer.
func (d Decoder) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("Decoder{\n")
	fmt.Fprintf(&buf, "\tMinSize() = %d\n", d.minSize)
	fmt.Fprintf(&buf, "\tMaxSize() = %d\n", d.maxSize)
	keys := make(byCode, 0, len(d.table))
	for hc := range d.table {
		keys = append(keys, hc)
	}
	sort.Sort(keys)
	for _, hc := range keys {
		dd := d.table[hc]
		fmt.Fprintf(&buf, "\tDecode(%s) = {%s, %d, %d}\n", hc, dumpSymbol(dd.symbol), dd.minSize, dd.maxSize)
	}
	buf.WriteString("}\n")
	return buf.WriteTo(w)
}

type decoderData struct {
	symbol  Symbol
	minSize byte
	maxSize byte
}

func fillTable(table map[Code]decoderData, symbol Symbol, hc Code) error {
	if ddOld, found := table[hc]; found {
		if ddOld.symbol != InvalidSymbol {
			return errors.Wrapf(ErrNotPrefixFree, "same code as %q", ddOld.symbol)
		}
		return errors.Wrap(ErrNotPrefixFree, "code is a prefix of another code")
	}

	dd := decoderData{symbol, hc.Size, hc.Size}
	table[hc] = dd

	for hc.Size != 0 {
		// Merge the dd's from "xxx...a" (dd) and "xxx...A" (ddSibling),
		// where A = NOT a, into ddNew (the new parent for both).

		ddNew := decoderData{InvalidSymbol, dd.minSize, dd.maxSize}
		if ddSibling, found := table[hc.sibling()]; found {
			if ddNew.minSize > ddSibling.minSize {
				ddNew.minSize = ddSibling.minSize
			}
			if ddNew.maxSize < ddSibling.maxSize {
				ddNew.maxSize = ddSibling.maxSize
			}
		}

		// Mutate hc from "xxx...a" to "xxx...".

		hc = hc.parent()

		ddOld, found := table[hc]
		if found && ddOld.symbol != InvalidSymbol {
			return errors.Wrapf(ErrNotPrefixFree, "code %s of %q is a prefix", hc, ddOld.symbol)
		}

		// If table[hc] already equals ddNew, we can stop recursing.

		if found && ddOld == ddNew {
			break
		}

		// Update table[hc] with ddNew and continue recursing.

		table[hc] = ddNew
		dd = ddNew
	}
	return nil
}

func dumpSymbol(sym Symbol) string {
	if sym == InvalidSymbol {
		return "nil"
	}
	return fmt.Sprintf("%q", sym)
}
