package symcode

import (
	"sort"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// Binary envelopes use the protobuf wire format, so they can be read by any
// protobuf implementation with these definitions:
//
//     message ArithmeticEnvelope {
//       string encoded_value = 1;
//       repeated string alphabet = 2;
//       repeated string probabilities = 3;
//       int64 original_length = 4;
//     }
//
//     message PrefixEnvelope {
//       string encoded_string = 1;
//       map<string, string> codes = 2;
//       int64 original_length = 3;
//     }
//
//     message FixedWidthEnvelope {
//       string encoded_string = 1;
//       map<string, string> alphabet = 2;
//       int64 original_length = 3;
//     }
//
// Map entries are written in ascending key order, so equal envelopes always
// marshal to identical bytes.

// MarshalBinary implements encoding.BinaryMarshaler.
func (env ArithmeticEnvelope) MarshalBinary() ([]byte, error) {
	var b []byte
	b = appendStringField(b, 1, env.EncodedValue)
	for _, s := range env.Alphabet {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendString(b, s)
	}
	for _, s := range env.Probabilities {
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendString(b, s)
	}
	b = appendLengthField(b, 4, env.OriginalLength)
	return b, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (env *ArithmeticEnvelope) UnmarshalBinary(b []byte) error {
	*env = ArithmeticEnvelope{}
	return walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			return consumeString(b, &env.EncodedValue)
		case num == 2 && typ == protowire.BytesType:
			var s string
			n, err := consumeString(b, &s)
			env.Alphabet = append(env.Alphabet, s)
			return n, err
		case num == 3 && typ == protowire.BytesType:
			var s string
			n, err := consumeString(b, &s)
			env.Probabilities = append(env.Probabilities, s)
			return n, err
		case num == 4 && typ == protowire.VarintType:
			return consumeLength(b, &env.OriginalLength)
		}
		return -1, nil
	})
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (env PrefixEnvelope) MarshalBinary() ([]byte, error) {
	var b []byte
	b = appendStringField(b, 1, env.EncodedString)
	b = appendMapField(b, 2, env.Codes)
	b = appendLengthField(b, 3, env.OriginalLength)
	return b, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (env *PrefixEnvelope) UnmarshalBinary(b []byte) error {
	*env = PrefixEnvelope{kind: env.kind}
	return walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			return consumeString(b, &env.EncodedString)
		case num == 2 && typ == protowire.BytesType:
			return consumeMapEntry(b, &env.Codes)
		case num == 3 && typ == protowire.VarintType:
			return consumeLength(b, &env.OriginalLength)
		}
		return -1, nil
	})
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (env FixedWidthEnvelope) MarshalBinary() ([]byte, error) {
	var b []byte
	b = appendStringField(b, 1, env.EncodedString)
	b = appendMapField(b, 2, env.Alphabet)
	b = appendLengthField(b, 3, env.OriginalLength)
	return b, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (env *FixedWidthEnvelope) UnmarshalBinary(b []byte) error {
	*env = FixedWidthEnvelope{}
	return walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			return consumeString(b, &env.EncodedString)
		case num == 2 && typ == protowire.BytesType:
			return consumeMapEntry(b, &env.Alphabet)
		case num == 3 && typ == protowire.VarintType:
			return consumeLength(b, &env.OriginalLength)
		}
		return -1, nil
	})
}

func appendStringField(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendLengthField(b []byte, num protowire.Number, length int) []byte {
	if length == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(int64(length)))
}

func appendMapField(b []byte, num protowire.Number, m map[string]string) []byte {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var entry []byte
	for _, key := range keys {
		entry = entry[:0]
		entry = protowire.AppendTag(entry, 1, protowire.BytesType)
		entry = protowire.AppendString(entry, key)
		entry = appendStringField(entry, 2, m[key])
		b = protowire.AppendTag(b, num, protowire.BytesType)
		b = protowire.AppendBytes(b, entry)
	}
	return b
}

// walkFields calls fn for every field in b.  fn returns the number of bytes
// it consumed from the field's value, or -1 to have the field skipped.
func walkFields(b []byte, fn func(protowire.Number, protowire.Type, []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return errors.Wrap(ErrMalformedEnvelope, protowire.ParseError(n).Error())
		}
		b = b[n:]

		n, err := fn(num, typ, b)
		if err != nil {
			return err
		}
		if n < 0 {
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return errors.Wrapf(ErrMalformedEnvelope, "field %d: %v", num, protowire.ParseError(n))
			}
		}
		b = b[n:]
	}
	return nil
}

func consumeString(b []byte, out *string) (int, error) {
	s, n := protowire.ConsumeString(b)
	if n < 0 {
		return 0, errors.Wrap(ErrMalformedEnvelope, protowire.ParseError(n).Error())
	}
	*out = s
	return n, nil
}

func consumeLength(b []byte, out *int) (int, error) {
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, errors.Wrap(ErrMalformedEnvelope, protowire.ParseError(n).Error())
	}
	*out = int(int64(v))
	return n, nil
}

func consumeMapEntry(b []byte, out *map[string]string) (int, error) {
	entry, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return 0, errors.Wrap(ErrMalformedEnvelope, protowire.ParseError(n).Error())
	}

	var key, value string
	err := walkFields(entry, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			return consumeString(b, &key)
		case num == 2 && typ == protowire.BytesType:
			return consumeString(b, &value)
		}
		return -1, nil
	})
	if err != nil {
		return 0, err
	}

	if *out == nil {
		*out = make(map[string]string)
	}
	(*out)[key] = value
	return n, nil
}
