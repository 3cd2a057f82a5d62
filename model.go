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

// Model is a frequency model over an alphabet of Symbols.  It holds one
// positive exact weight per symbol, kept in canonical (ascending Symbol)
// order.  Models are immutable once built.
//
// A Model built from an empty sample has no symbols and a total of zero.
// Coders accept such a model but refuse to encode or decode with it.
//
type Model struct {
	symbols []Symbol
	weights []*big.Rat
	total   *big.Rat
}

// SymbolProb pairs a Symbol with its exact probability.
type SymbolProb struct {
	Symbol Symbol
	Prob   *big.Rat
}

// BuildModel counts the occurrences of each Symbol in sample.
func BuildModel(sample []Symbol) Model {
	counts := make(map[Symbol]int64, 64)
	for _, sym := range sample {
		counts[sym]++
	}

	symbols := make(bySymbol, 0, len(counts))
	for sym := range counts {
		symbols = append(symbols, sym)
	}
	sort.Sort(symbols)

	weights := make([]*big.Rat, len(symbols))
	for i, sym := range symbols {
		weights[i] = new(big.Rat).SetInt64(counts[sym])
	}

	m := Model{
		symbols: symbols,
		weights: weights,
		total:   new(big.Rat).SetInt64(int64(len(sample))),
	}
	m.check()
	return m
}

// ModelFromWeights reconstructs a Model from an alphabet and one weight per
// symbol, without re-scanning a sample.  This lets a decoder replay the exact
// model used by an encoder.  The weights need not sum to 1; probabilities are
// always weight / total.  Symbols with a weight of 0 are omitted from the
// model entirely.
//
func ModelFromWeights(alphabet []Symbol, weights []*big.Rat) (Model, error) {
	if len(alphabet) != len(weights) {
		return Model{}, errors.Wrapf(ErrLengthMismatch, "%d symbols, %d weights", len(alphabet), len(weights))
	}

	entries := make(byEntrySymbol, 0, len(alphabet))
	seen := make(map[Symbol]struct{}, len(alphabet))
	for i, sym := range alphabet {
		if sym < 0 {
			return Model{}, errors.Wrapf(ErrInvalidSymbol, "%d at index %d", int32(sym), i)
		}
		if _, found := seen[sym]; found {
			return Model{}, errors.Wrapf(ErrDuplicateSymbol, "%q at index %d", sym, i)
		}
		seen[sym] = struct{}{}

		w := weights[i]
		if w == nil {
			return Model{}, errors.Wrapf(ErrInvalidNumber, "nil weight for %q", sym)
		}
		switch w.Sign() {
		case -1:
			return Model{}, errors.Wrapf(ErrNegativeWeight, "%q has weight %s", sym, w.RatString())
		case 0:
			continue
		}
		entries = append(entries, modelEntry{sym, new(big.Rat).Set(w)})
	}
	sort.Sort(entries)

	m := Model{
		symbols: make([]Symbol, len(entries)),
		weights: make([]*big.Rat, len(entries)),
		total:   new(big.Rat),
	}
	for i, e := range entries {
		m.symbols[i] = e.symbol
		m.weights[i] = e.weight
		m.total.Add(m.total, e.weight)
	}
	m.check()
	return m, nil
}

// ModelFromStrings is ModelFromWeights for data received as text: each
// alphabet entry must be exactly one character and each weight must be
// parseable by ParseRat.
func ModelFromStrings(alphabet []string, weights []string) (Model, error) {
	if len(alphabet) != len(weights) {
		return Model{}, errors.Wrapf(ErrLengthMismatch, "%d symbols, %d weights", len(alphabet), len(weights))
	}
	symbols := make([]Symbol, len(alphabet))
	for i, s := range alphabet {
		sym, err := parseSymbol(s)
		if err != nil {
			return Model{}, errors.Wrapf(err, "alphabet index %d", i)
		}
		symbols[i] = sym
	}
	rats := make([]*big.Rat, len(weights))
	for i, s := range weights {
		r, err := ParseRat(s)
		if err != nil {
			return Model{}, errors.Wrapf(err, "weight index %d", i)
		}
		rats[i] = r
	}
	return ModelFromWeights(symbols, rats)
}

func (m Model) check() {
	sum := new(big.Rat)
	for i, w := range m.weights {
		assert.Assertf(w.Sign() > 0, "weight for %q is %s", m.symbols[i], w.RatString())
		assert.Assertf(i == 0 || m.symbols[i-1] < m.symbols[i], "symbols out of order at %d", i)
		sum.Add(sum, w)
	}
	if m.total != nil {
		assert.Assertf(sum.Cmp(m.total) == 0, "weights sum to %s, total is %s", sum.RatString(), m.total.RatString())
	}
}

// Len returns the number of symbols in the alphabet.
func (m Model) Len() int {
	return len(m.symbols)
}

// Symbols returns the alphabet in canonical order.
func (m Model) Symbols() []Symbol {
	out := make([]Symbol, len(m.symbols))
	copy(out, m.symbols)
	return out
}

// Total returns the sum of all weights.
func (m Model) Total() *big.Rat {
	if m.total == nil {
		return new(big.Rat)
	}
	return new(big.Rat).Set(m.total)
}

// Weight returns the weight of sym, or 0 if sym is not in the model.
func (m Model) Weight(sym Symbol) *big.Rat {
	if i, found := m.index(sym); found {
		return new(big.Rat).Set(m.weights[i])
	}
	return new(big.Rat)
}

// Contains returns true iff sym is in the model.
func (m Model) Contains(sym Symbol) bool {
	_, found := m.index(sym)
	return found
}

// Probability returns weight / total for sym.
func (m Model) Probability(sym Symbol) (*big.Rat, error) {
	if len(m.symbols) == 0 {
		return nil, ErrEmptyAlphabet
	}
	i, found := m.index(sym)
	if !found {
		return nil, errors.Wrapf(ErrUnknownSymbol, "%q", sym)
	}
	return new(big.Rat).Quo(m.weights[i], m.total), nil
}

// Probabilities returns every symbol's exact probability in canonical order.
// The order is part of the contract: segment boundaries and code assignment
// are derived from it.
func (m Model) Probabilities() ([]SymbolProb, error) {
	if len(m.symbols) == 0 {
		return nil, ErrEmptyAlphabet
	}
	out := make([]SymbolProb, len(m.symbols))
	for i, sym := range m.symbols {
		out[i] = SymbolProb{sym, new(big.Rat).Quo(m.weights[i], m.total)}
	}
	return out, nil
}

// Dump writes a programmer-readable debugging dump of the Model to the given
// writer.
func (m Model) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("Model{\n")
	fmt.Fprintf(&buf, "\tTotal() = %s\n", FormatRat(m.Total()))
	for i, sym := range m.symbols {
		fmt.Fprintf(&buf, "\tWeight(%q) = %s\n", sym, FormatRat(m.weights[i]))
	}
	buf.WriteString("}\n")
	return buf.WriteTo(w)
}

func (m Model) index(sym Symbol) (int, bool) {
	i := sort.Search(len(m.symbols), func(i int) bool {
		return m.symbols[i] >= sym
	})
	return i, i < len(m.symbols) && m.symbols[i] == sym
}

// type modelEntry + type byEntrySymbol {{{

type modelEntry struct {
	symbol Symbol
	weight *big.Rat
}

type byEntrySymbol []modelEntry

func (list byEntrySymbol) Len() int {
	return len(list)
}

func (list byEntrySymbol) Swap(i, j int) {
	list[i], list[j] = list[j], list[i]
}

func (list byEntrySymbol) Less(i, j int) bool {
	return list[i].symbol < list[j].symbol
}

var _ sort.Interface = byEntrySymbol(nil)

// }}}
