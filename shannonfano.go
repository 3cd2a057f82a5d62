package symcode

import (
	"math/big"
	"sort"

	"github.com/chronos-tachyon/assert"
	"github.com/pkg/errors"
)

// ShannonFanoCoder implements Shannon-Fano coding.
//
// Symbols are sorted by descending weight, ties by descending Symbol.  Each
// list is split before the first index whose running weight, doubled, reaches
// the list's total weight; the left part is prefixed with 0 and the right
// part with 1.
//
type ShannonFanoCoder struct {
	PrefixCoder
}

// NewShannonFanoCoder builds the Shannon-Fano code table for the given Model.
func NewShannonFanoCoder(m Model) (*ShannonFanoCoder, error) {
	if len(m.symbols) == 0 {
		return &ShannonFanoCoder{PrefixCoder{kind: ShannonFano, table: CodeTable{}}}, nil
	}

	entries := make(byWeightDesc, len(m.symbols))
	for i, sym := range m.symbols {
		entries[i] = modelEntry{sym, m.weights[i]}
	}
	sort.Sort(entries)

	table := make(CodeTable, len(entries))
	if err := splitCodes(table, entries, Code{}); err != nil {
		return nil, err
	}

	pc, err := NewPrefixCoder(ShannonFano, table)
	if err != nil {
		return nil, err
	}
	return &ShannonFanoCoder{pc}, nil
}

func splitCodes(table CodeTable, entries []modelEntry, prefix Code) error {
	switch len(entries) {
	case 0:
		return nil
	case 1:
		table[entries[0].symbol] = prefix
		return nil
	}

	if prefix.Size >= MaxCodeSize {
		return errors.Wrapf(ErrCodeTooLong, "split is deeper than %d", MaxCodeSize)
	}

	index := splitIndex(entries)
	assert.Assertf(index > 0 && index < len(entries), "split index %d out of range for %d entries", index, len(entries))

	if err := splitCodes(table, entries[:index], prefix.append(0)); err != nil {
		return err
	}
	return splitCodes(table, entries[index:], prefix.append(1))
}

// splitIndex returns the length of the left part: one past the first index
// whose running weight times 2 is at least the total weight.
func splitIndex(entries []modelEntry) int {
	total := new(big.Rat)
	for _, e := range entries {
		total.Add(total, e.weight)
	}

	running := new(big.Rat)
	var doubled big.Rat
	for i, e := range entries {
		running.Add(running, e.weight)
		doubled.Add(running, running)
		if doubled.Cmp(total) >= 0 {
			return i + 1
		}
	}
	return len(entries)
}

// type byWeightDesc {{{

type byWeightDesc []modelEntry

func (list byWeightDesc) Len() int {
	return len(list)
}

func (list byWeightDesc) Swap(i, j int) {
	list[i], list[j] = list[j], list[i]
}

func (list byWeightDesc) Less(i, j int) bool {
	a, b := list[i], list[j]
	if cmp := a.weight.Cmp(b.weight); cmp != 0 {
		return cmp > 0
	}
	return a.symbol > b.symbol
}

var _ sort.Interface = byWeightDesc(nil)

// }}}
