package symcode

import (
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Symbol represents one unit of input.  Symbols are Unicode code points and
// are ordered by their numeric value; that order is the canonical order used
// for every tie-break in this package.
type Symbol rune

// InvalidSymbol is returned by some functions to clearly indicate that no
// symbol is being returned.
const InvalidSymbol = Symbol(-1)

// SymbolsOf splits a string into its Symbols, one per code point.
func SymbolsOf(s string) []Symbol {
	out := make([]Symbol, 0, len(s))
	for _, r := range s {
		out = append(out, Symbol(r))
	}
	return out
}

// StringOf joins Symbols back into a string.
func StringOf(symbols []Symbol) string {
	runes := make([]rune, len(symbols))
	for i, sym := range symbols {
		runes[i] = rune(sym)
	}
	return string(runes)
}

// String returns the symbol as a one-character string.
func (sym Symbol) String() string {
	return string(rune(sym))
}

// bySymbol sorts Symbols in canonical order.
type bySymbol []Symbol

func (list bySymbol) Len() int {
	return len(list)
}

func (list bySymbol) Swap(i, j int) {
	list[i], list[j] = list[j], list[i]
}

func (list bySymbol) Less(i, j int) bool {
	return list[i] < list[j]
}

func parseSymbol(s string) (Symbol, error) {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) || (r == utf8.RuneError && size == 1) {
		return InvalidSymbol, errors.Wrapf(ErrInvalidSymbol, "%q is not a single character", s)
	}
	return Symbol(r), nil
}
