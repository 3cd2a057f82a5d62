package symcode

import (
	"github.com/pkg/errors"
)

// Errors returned by this package.  Returned errors usually wrap one of these
// with extra context; test for them with errors.Is.
var (
	// ErrEmptyAlphabet is returned when encoding or decoding is requested
	// from a coder whose model has no symbols.
	ErrEmptyAlphabet = errors.New("model has an empty alphabet")

	// ErrLengthMismatch is returned when an alphabet and its weights (or
	// codes) have different lengths.
	ErrLengthMismatch = errors.New("alphabet and weights have different lengths")

	// ErrUnknownSymbol is returned when encoding a symbol that is not in the
	// model.
	ErrUnknownSymbol = errors.New("symbol is not in the alphabet")

	// ErrOutOfRange is returned when an arithmetic code lies outside [0, 1).
	ErrOutOfRange = errors.New("arithmetic code is outside [0, 1)")

	// ErrUndecodableSuffix is returned when a bit string ends part-way
	// through a code.
	ErrUndecodableSuffix = errors.New("bit string ends with an incomplete code")

	// ErrTruncatedInput is returned when a fixed-width bit string is not a
	// whole number of codes.
	ErrTruncatedInput = errors.New("bit string is not a multiple of the code width")

	// ErrUnknownCode is returned when a bit string strays outside every
	// code in the table.
	ErrUnknownCode = errors.New("bit string matches no code")

	// ErrNotPrefixFree is returned when one code equals or begins another.
	ErrNotPrefixFree = errors.New("code table violates the prefix property")

	// ErrDuplicateSymbol is returned when an alphabet lists a symbol twice.
	ErrDuplicateSymbol = errors.New("symbol appears more than once")

	// ErrNegativeWeight is returned when a model is given a weight below 0.
	ErrNegativeWeight = errors.New("weight is negative")

	// ErrInvalidNumber is returned when an exact number cannot be parsed.
	ErrInvalidNumber = errors.New("invalid exact number")

	// ErrInvalidSymbol is returned when a string is not exactly one
	// character.
	ErrInvalidSymbol = errors.New("invalid symbol")

	// ErrInvalidBit is returned for a character other than '0' or '1'.
	ErrInvalidBit = errors.New("invalid bit")

	// ErrCodeTooLong is returned when a code would exceed MaxCodeSize bits.
	ErrCodeTooLong = errors.New("code is too long")

	// ErrLengthLimit is returned when decoding would produce more symbols
	// than the decoder's MaxLength.
	ErrLengthLimit = errors.New("length exceeds the precision budget")

	// ErrInvalidLength is returned when a Message carries a negative length.
	ErrInvalidLength = errors.New("length is negative")

	// ErrUnknownKind is returned for a Kind that names no coder.
	ErrUnknownKind = errors.New("unknown coder kind")

	// ErrMixedWidths is returned when a fixed-width table has codes of
	// different sizes.
	ErrMixedWidths = errors.New("fixed-width codes have different sizes")

	// ErrMalformedEnvelope is returned when a binary envelope cannot be
	// parsed.
	ErrMalformedEnvelope = errors.New("malformed binary envelope")
)
