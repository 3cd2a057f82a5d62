package symcode

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func makeTestTable() CodeTable {
	return CodeTable{
		'a': MakeCode(4, 0xc),
		'b': MakeCode(4, 0xd),
		'c': MakeCode(3, 0x4),
		'd': MakeCode(3, 0x5),
		'e': MakeCode(3, 0x7),
		'f': MakeCode(1, 0x0),
	}
}

func makeTestDecoder() Decoder {
	d, err := NewDecoder(makeTestTable())
	if err != nil {
		panic(err)
	}
	return d
}

func TestDecoder_Decode(t *testing.T) {
	d := makeTestDecoder()

	type testRow struct {
		size byte
		bits uint64
		min  byte
		max  byte
		sym  Symbol
	}

	testData := [...]testRow{
		{size: 0, bits: 0x00, min: 1, max: 4, sym: InvalidSymbol},
		{size: 1, bits: 0x00, min: 1, max: 1, sym: 'f'},
		{size: 1, bits: 0x01, min: 3, max: 4, sym: InvalidSymbol},
		{size: 2, bits: 0x01, min: 0, max: 0, sym: InvalidSymbol},
		{size: 2, bits: 0x02, min: 3, max: 3, sym: InvalidSymbol},
		{size: 2, bits: 0x03, min: 3, max: 4, sym: InvalidSymbol},
		{size: 3, bits: 0x04, min: 3, max: 3, sym: 'c'},
		{size: 3, bits: 0x05, min: 3, max: 3, sym: 'd'},
		{size: 3, bits: 0x06, min: 4, max: 4, sym: InvalidSymbol},
		{size: 3, bits: 0x07, min: 3, max: 3, sym: 'e'},
		{size: 4, bits: 0x0c, min: 4, max: 4, sym: 'a'},
		{size: 4, bits: 0x0d, min: 4, max: 4, sym: 'b'},
		{size: 4, bits: 0x0f, min: 0, max: 0, sym: InvalidSymbol},
	}
	for _, row := range testData {
		hc := MakeCode(row.size, row.bits)
		t.Run(hc.String(), func(t *testing.T) {
			sym, min, max := d.Decode(hc)
			if sym != row.sym {
				t.Errorf("expected symbol %d, got %d", row.sym, sym)
			}
			if min != row.min {
				t.Errorf("expected minimum size %d, got %d", row.min, min)
			}
			if max != row.max {
				t.Errorf("expected maximum size %d, got %d", row.max, max)
			}
		})
	}
}

func TestDecoder_Dump(t *testing.T) {
	d := makeTestDecoder()

	expectDump := strings.Join([]string{
		"Decoder{\n",
		"\tMinSize() = 1\n",
		"\tMaxSize() = 4\n",
		"\tDecode(\"\") = {nil, 1, 4}\n",
		"\tDecode(\"0\") = {\"f\", 1, 1}\n",
		"\tDecode(\"1\") = {nil, 3, 4}\n",
		"\tDecode(\"10\") = {nil, 3, 3}\n",
		"\tDecode(\"11\") = {nil, 3, 4}\n",
		"\tDecode(\"100\") = {\"c\", 3, 3}\n",
		"\tDecode(\"101\") = {\"d\", 3, 3}\n",
		"\tDecode(\"110\") = {nil, 4, 4}\n",
		"\tDecode(\"111\") = {\"e\", 3, 3}\n",
		"\tDecode(\"1100\") = {\"a\", 4, 4}\n",
		"\tDecode(\"1101\") = {\"b\", 4, 4}\n",
		"}\n",
	}, "")

	var buf strings.Builder
	_, _ = d.Dump(&buf)
	actualDump := buf.String()
	if expectDump != actualDump {
		t.Errorf("wrong output:\n\texpect: %s\n\tactual: %s", expectDump, actualDump)
	}
}

func TestDecoder_DecodeString(t *testing.T) {
	d := makeTestDecoder()

	symbols, err := d.DecodeString("011001111001010101", 0)
	if err != nil {
		t.Fatalf("DecodeString failed: %v", err)
	}
	if expect, actual := "faecdfd", StringOf(symbols); expect != actual {
		t.Errorf("wrong output:\n\texpect: %q\n\tactual: %q", expect, actual)
	}

	type testRow struct {
		bits   string
		expect error
	}

	testData := [...]testRow{
		{"011", ErrUndecodableSuffix},
		{"0110", ErrUndecodableSuffix},
		{"0x", ErrInvalidBit},
	}
	for _, row := range testData {
		t.Run(row.bits, func(t *testing.T) {
			_, err := d.DecodeString(row.bits, 0)
			if !errors.Is(err, row.expect) {
				t.Errorf("expected %v, got %v", row.expect, err)
			}
		})
	}
}

func TestDecoder_Incomplete(t *testing.T) {
	d, err := NewDecoder(CodeTable{'a': MakeCode(1, 0x0), 'b': MakeCode(2, 0x2)})
	if err != nil {
		t.Fatalf("NewDecoder failed: %v", err)
	}

	symbols, err := d.DecodeString("0100", 0)
	if err != nil {
		t.Fatalf("DecodeString failed: %v", err)
	}
	if actual := StringOf(symbols); actual != "aba" {
		t.Errorf("expected %q, got %q", "aba", actual)
	}
	if _, err := d.DecodeString("011", 0); !errors.Is(err, ErrUnknownCode) {
		t.Errorf("expected ErrUnknownCode, got %v", err)
	}
}

func TestDecoder_Singleton(t *testing.T) {
	d, err := NewDecoder(CodeTable{'z': Code{}})
	if err != nil {
		t.Fatalf("NewDecoder failed: %v", err)
	}

	symbols, err := d.DecodeString("", 3)
	if err != nil {
		t.Fatalf("DecodeString failed: %v", err)
	}
	if actual := StringOf(symbols); actual != "zzz" {
		t.Errorf("expected %q, got %q", "zzz", actual)
	}
	if _, err := d.DecodeString("0", 1); !errors.Is(err, ErrUnknownCode) {
		t.Errorf("expected ErrUnknownCode, got %v", err)
	}
	if _, err := d.DecodeString("", -1); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("expected ErrInvalidLength, got %v", err)
	}
	if _, err := d.DecodeString("", DefaultMaxLength+1); !errors.Is(err, ErrLengthLimit) {
		t.Errorf("expected ErrLengthLimit, got %v", err)
	}
	if _, err := d.DecodeString("", 1<<62); !errors.Is(err, ErrLengthLimit) {
		t.Errorf("expected ErrLengthLimit, got %v", err)
	}

	small := d.WithMaxLength(2)
	if _, err := small.DecodeString("", 3); !errors.Is(err, ErrLengthLimit) {
		t.Errorf("expected ErrLengthLimit, got %v", err)
	}
	if d.MaxLength() != DefaultMaxLength {
		t.Errorf("WithMaxLength modified the original decoder")
	}
}

func TestDecoder_NotPrefixFree(t *testing.T) {
	type testRow struct {
		name  string
		table CodeTable
	}

	testData := [...]testRow{
		{"duplicate", CodeTable{'a': MakeCode(2, 0x1), 'b': MakeCode(2, 0x1)}},
		{"short first", CodeTable{'a': MakeCode(1, 0x0), 'b': MakeCode(2, 0x1)}},
		{"long first", CodeTable{'a': MakeCode(3, 0x2), 'b': MakeCode(2, 0x1)}},
		{"empty plus others", CodeTable{'a': Code{}, 'b': MakeCode(1, 0x1)}},
	}
	for _, row := range testData {
		t.Run(row.name, func(t *testing.T) {
			_, err := NewDecoder(row.table)
			if !errors.Is(err, ErrNotPrefixFree) {
				t.Errorf("expected ErrNotPrefixFree, got %v", err)
			}
		})
	}
}

func TestDecoder_Empty(t *testing.T) {
	d, err := NewDecoder(nil)
	if err != nil {
		t.Fatalf("NewDecoder failed: %v", err)
	}
	if _, err := d.DecodeString("", 0); !errors.Is(err, ErrEmptyAlphabet) {
		t.Errorf("expected ErrEmptyAlphabet, got %v", err)
	}
}
