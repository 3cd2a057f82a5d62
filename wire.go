package symcode

import (
	"encoding"

	"github.com/pkg/errors"
)

// Envelope is everything needed to decode a message later, by a process that
// never saw the original text.  Envelopes marshal to JSON with the standard
// encoding/json package, and to a protobuf wire layout with MarshalBinary.
type Envelope interface {
	Kind() Kind
	Decode() (string, error)
	DecodeWithLimit(maxLength int) (string, error)
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
}

// NewEnvelope returns an empty Envelope of the given kind, ready to be
// unmarshaled into.
func NewEnvelope(kind Kind) (Envelope, error) {
	switch kind {
	case Arithmetic:
		return &ArithmeticEnvelope{}, nil
	case Huffman, ShannonFano:
		return &PrefixEnvelope{kind: kind}, nil
	case FixedWidth:
		return &FixedWidthEnvelope{}, nil
	}
	return nil, errors.Wrapf(ErrUnknownKind, "%d", byte(kind))
}

// EncodeText builds a model from text, encodes text with it, and packs the
// result into the Envelope for the given kind.
func EncodeText(kind Kind, text string) (Envelope, error) {
	switch kind {
	case Arithmetic:
		env, err := EncodeArithmetic(text)
		if err != nil {
			return nil, err
		}
		return &env, nil
	case Huffman, ShannonFano:
		env, err := EncodePrefix(kind, text)
		if err != nil {
			return nil, err
		}
		return &env, nil
	case FixedWidth:
		env, err := EncodeFixedWidth(text)
		if err != nil {
			return nil, err
		}
		return &env, nil
	}
	return nil, errors.Wrapf(ErrUnknownKind, "%d", byte(kind))
}

// ArithmeticEnvelope carries an arithmetic code together with the model it
// was encoded with.  Numbers are exact strings as written by FormatRat.
type ArithmeticEnvelope struct {
	EncodedValue   string   `json:"encoded_value"`
	Alphabet       []string `json:"alphabet"`
	Probabilities  []string `json:"probabilities"`
	OriginalLength int      `json:"original_length"`
}

// EncodeArithmetic arithmetic-codes text with a model built from text.
func EncodeArithmetic(text string) (ArithmeticEnvelope, error) {
	symbols := SymbolsOf(text)
	m := BuildModel(symbols)
	value, err := NewArithmeticCoder(m).EncodeValue(symbols)
	if err != nil {
		return ArithmeticEnvelope{}, err
	}

	probs, err := m.Probabilities()
	if err != nil {
		return ArithmeticEnvelope{}, err
	}
	env := ArithmeticEnvelope{
		EncodedValue:   FormatRat(value),
		Alphabet:       make([]string, len(probs)),
		Probabilities:  make([]string, len(probs)),
		OriginalLength: len(symbols),
	}
	for i, sp := range probs {
		env.Alphabet[i] = sp.Symbol.String()
		env.Probabilities[i] = FormatRat(sp.Prob)
	}
	return env, nil
}

// Kind returns Arithmetic.
func (env ArithmeticEnvelope) Kind() Kind {
	return Arithmetic
}

// Model reconstructs the encoder's Model.
func (env ArithmeticEnvelope) Model() (Model, error) {
	return ModelFromStrings(env.Alphabet, env.Probabilities)
}

// Decode reconstructs the original text using DefaultMaxLength.
func (env ArithmeticEnvelope) Decode() (string, error) {
	return env.DecodeWithLimit(DefaultMaxLength)
}

// DecodeWithLimit reconstructs the original text, refusing to decode more
// than maxLength symbols.
func (env ArithmeticEnvelope) DecodeWithLimit(maxLength int) (string, error) {
	m, err := env.Model()
	if err != nil {
		return "", err
	}
	value, err := ParseRat(env.EncodedValue)
	if err != nil {
		return "", errors.Wrap(err, "encoded_value")
	}
	symbols, err := NewArithmeticCoder(m).WithMaxLength(maxLength).DecodeValue(value, env.OriginalLength)
	if err != nil {
		return "", err
	}
	return StringOf(symbols), nil
}

// PrefixEnvelope carries a Huffman or Shannon-Fano bit string together with
// its code table.
type PrefixEnvelope struct {
	kind           Kind
	EncodedString  string            `json:"encoded_string"`
	Codes          map[string]string `json:"codes"`
	OriginalLength int               `json:"original_length,omitempty"`
}

// EncodePrefix Huffman- or Shannon-Fano-codes text with a model built from
// text.
func EncodePrefix(kind Kind, text string) (PrefixEnvelope, error) {
	symbols := SymbolsOf(text)
	m := BuildModel(symbols)

	var pc PrefixCoder
	switch kind {
	case Huffman:
		c, err := NewHuffmanCoder(m)
		if err != nil {
			return PrefixEnvelope{}, err
		}
		pc = c.PrefixCoder
	case ShannonFano:
		c, err := NewShannonFanoCoder(m)
		if err != nil {
			return PrefixEnvelope{}, err
		}
		pc = c.PrefixCoder
	default:
		return PrefixEnvelope{}, errors.Wrapf(ErrUnknownKind, "%s is not a prefix coder", kind)
	}

	msg, err := pc.Encode(symbols)
	if err != nil {
		return PrefixEnvelope{}, err
	}
	return PrefixEnvelope{
		kind:           kind,
		EncodedString:  msg.Bits,
		Codes:          pc.table.Strings(),
		OriginalLength: msg.Length,
	}, nil
}

// Kind returns Huffman or ShannonFano.  The two decode identically.
func (env PrefixEnvelope) Kind() Kind {
	if env.kind == 0 {
		return Huffman
	}
	return env.kind
}

// Decode reconstructs the original text from the code table alone, using
// DefaultMaxLength.
func (env PrefixEnvelope) Decode() (string, error) {
	return env.DecodeWithLimit(DefaultMaxLength)
}

// DecodeWithLimit reconstructs the original text, refusing to repeat a
// single empty code more than maxLength times.
func (env PrefixEnvelope) DecodeWithLimit(maxLength int) (string, error) {
	table, err := ParseCodeTable(env.Codes)
	if err != nil {
		return "", errors.Wrap(err, "codes")
	}
	pc, err := NewPrefixCoder(env.Kind(), table)
	if err != nil {
		return "", err
	}
	symbols, err := pc.WithMaxLength(maxLength).Decode(Message{Bits: env.EncodedString, Length: env.OriginalLength})
	if err != nil {
		return "", err
	}
	return StringOf(symbols), nil
}

// FixedWidthEnvelope carries a fixed-width bit string together with its code
// table.
type FixedWidthEnvelope struct {
	EncodedString  string            `json:"encoded_string"`
	Alphabet       map[string]string `json:"alphabet"`
	OriginalLength int               `json:"original_length,omitempty"`
}

// EncodeFixedWidth fixed-width-codes text over text's own alphabet.
func EncodeFixedWidth(text string) (FixedWidthEnvelope, error) {
	symbols := SymbolsOf(text)
	c := NewFixedWidthCoder(BuildModel(symbols))
	msg, err := c.Encode(symbols)
	if err != nil {
		return FixedWidthEnvelope{}, err
	}
	return FixedWidthEnvelope{
		EncodedString:  msg.Bits,
		Alphabet:       c.table.Strings(),
		OriginalLength: msg.Length,
	}, nil
}

// Kind returns FixedWidth.
func (env FixedWidthEnvelope) Kind() Kind {
	return FixedWidth
}

// Decode reconstructs the original text from the code table alone, using
// DefaultMaxLength.
func (env FixedWidthEnvelope) Decode() (string, error) {
	return env.DecodeWithLimit(DefaultMaxLength)
}

// DecodeWithLimit reconstructs the original text, refusing to repeat a
// single empty code more than maxLength times.
func (env FixedWidthEnvelope) DecodeWithLimit(maxLength int) (string, error) {
	table, err := ParseCodeTable(env.Alphabet)
	if err != nil {
		return "", errors.Wrap(err, "alphabet")
	}
	c, err := FixedWidthFromTable(table)
	if err != nil {
		return "", err
	}
	symbols, err := c.WithMaxLength(maxLength).Decode(Message{Bits: env.EncodedString, Length: env.OriginalLength})
	if err != nil {
		return "", err
	}
	return StringOf(symbols), nil
}

var (
	_ Envelope = (*ArithmeticEnvelope)(nil)
	_ Envelope = (*PrefixEnvelope)(nil)
	_ Envelope = (*FixedWidthEnvelope)(nil)
)
