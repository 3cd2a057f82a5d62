package symcode

import (
	"math/big"
	"strings"

	"github.com/pkg/errors"
)

var bigFive = big.NewInt(5)

// FormatRat returns an exact string form of r.  Values with a finite decimal
// expansion are written as plain decimals ("0.369140625"); all others are
// written as a reduced fraction ("1/3").  ParseRat reverses this exactly.
func FormatRat(r *big.Rat) string {
	if r.IsInt() {
		return r.Num().String()
	}

	den := new(big.Int).Set(r.Denom())
	twos := den.TrailingZeroBits()
	den.Rsh(den, twos)

	var fives uint
	var rem big.Int
	for {
		var q big.Int
		q.QuoRem(den, bigFive, &rem)
		if rem.Sign() != 0 {
			break
		}
		den.Set(&q)
		fives++
	}

	if den.Cmp(big.NewInt(1)) != 0 {
		return r.String()
	}

	digits := twos
	if fives > digits {
		digits = fives
	}
	return r.FloatString(int(digits))
}

// ParseRat parses an exact number written as a decimal ("0.25"), in
// exponent notation ("25e-2"), or as a fraction ("1/4").
func ParseRat(s string) (*big.Rat, error) {
	s = strings.TrimSpace(s)
	r, ok := new(big.Rat).SetString(s)
	if !ok || s == "" {
		return nil, errors.Wrapf(ErrInvalidNumber, "%q", s)
	}
	return r, nil
}
