package symcode

import (
	"math/big"
	"strings"
	"sync"
	"testing"

	"github.com/pkg/errors"
)

func TestArithmeticCoder_Dump(t *testing.T) {
	c := NewArithmeticCoder(BuildModel(SymbolsOf("abc")))

	expectDump := strings.Join([]string{
		"ArithmeticCoder{\n",
		"\tSegment(\"a\") = [0, 1/3)\n",
		"\tSegment(\"b\") = [1/3, 2/3)\n",
		"\tSegment(\"c\") = [2/3, 1)\n",
		"}\n",
	}, "")

	var buf strings.Builder
	_, _ = c.Dump(&buf)
	actualDump := buf.String()
	if expectDump != actualDump {
		t.Errorf("wrong output:\n\texpect: %s\n\tactual: %s", expectDump, actualDump)
	}
}

func TestArithmeticCoder_Partition(t *testing.T) {
	for _, sample := range []string{"a", "aaab", "abracadabra", "the quick brown fox jumps over the lazy dog"} {
		t.Run(sample, func(t *testing.T) {
			segments := NewArithmeticCoder(BuildModel(SymbolsOf(sample))).Segments()
			if segments[0].Left.Sign() != 0 {
				t.Errorf("first segment starts at %s", segments[0].Left.RatString())
			}
			sum := new(big.Rat)
			for i, seg := range segments {
				if i > 0 && seg.Left.Cmp(segments[i-1].Right) != 0 {
					t.Errorf("gap or overlap between %v and %v", segments[i-1], seg)
				}
				if i > 0 && seg.Symbol <= segments[i-1].Symbol {
					t.Errorf("segments out of canonical order at %d", i)
				}
				sum.Add(sum, seg.Width())
			}
			if last := segments[len(segments)-1]; last.Right.Cmp(big.NewRat(1, 1)) != 0 {
				t.Errorf("last segment ends at %s", last.Right.RatString())
			}
			if sum.Cmp(big.NewRat(1, 1)) != 0 {
				t.Errorf("widths sum to %s", sum.RatString())
			}
		})
	}
}

func TestArithmeticCoder_Encode(t *testing.T) {
	type testRow struct {
		input  string
		expect *big.Rat
	}

	testData := [...]testRow{
		{"aaab", big.NewRat(189, 512)},
		{"aabb", big.NewRat(7, 32)},
		{"aaaa", big.NewRat(1, 2)},
		{"a", big.NewRat(1, 2)},
		{"abc", big.NewRat(11, 54)},
	}
	for _, row := range testData {
		t.Run(row.input, func(t *testing.T) {
			symbols := SymbolsOf(row.input)
			c := NewArithmeticCoder(BuildModel(symbols))

			msg, err := c.Encode(symbols)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if msg.Value.Cmp(row.expect) != 0 {
				t.Errorf("wrong value:\n\texpect: %s\n\tactual: %s", row.expect.RatString(), msg.Value.RatString())
			}
			if msg.Length != len(symbols) {
				t.Errorf("expected length %d, got %d", len(symbols), msg.Length)
			}

			decoded, err := c.Decode(msg)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if actual := StringOf(decoded); actual != row.input {
				t.Errorf("wrong round trip:\n\texpect: %q\n\tactual: %q", row.input, actual)
			}
		})
	}
}

func TestArithmeticCoder_Interval(t *testing.T) {
	c := NewArithmeticCoder(BuildModel(SymbolsOf("aaab")))
	low, high, err := c.Interval(SymbolsOf("aaab"))
	if err != nil {
		t.Fatalf("Interval failed: %v", err)
	}
	if low.Cmp(big.NewRat(81, 256)) != 0 || high.Cmp(big.NewRat(27, 64)) != 0 {
		t.Errorf("expected [81/256, 27/64), got [%s, %s)", low.RatString(), high.RatString())
	}

	low, high, err = c.Interval(nil)
	if err != nil {
		t.Fatalf("Interval failed: %v", err)
	}
	if low.Sign() != 0 || high.Cmp(big.NewRat(1, 1)) != 0 {
		t.Errorf("expected [0, 1), got [%s, %s)", low.RatString(), high.RatString())
	}
}

func TestArithmeticCoder_LongInput(t *testing.T) {
	text := strings.Repeat("she sells sea shells by the sea shore; ", 20)
	symbols := SymbolsOf(text)
	c := NewArithmeticCoder(BuildModel(symbols))

	value, err := c.EncodeValue(symbols)
	if err != nil {
		t.Fatalf("EncodeValue failed: %v", err)
	}
	decoded, err := c.DecodeValue(value, len(symbols))
	if err != nil {
		t.Fatalf("DecodeValue failed: %v", err)
	}
	if actual := StringOf(decoded); actual != text {
		t.Errorf("wrong round trip after %d symbols", len(symbols))
	}
}

func TestArithmeticCoder_FromWeights(t *testing.T) {
	symbols := SymbolsOf("mississippi")
	encoder := NewArithmeticCoder(BuildModel(symbols))
	value, err := encoder.EncodeValue(symbols)
	if err != nil {
		t.Fatalf("EncodeValue failed: %v", err)
	}

	// Replay the model from normalized probabilities, as a receiver would.
	m, err := ModelFromStrings([]string{"s", "p", "m", "i"}, []string{"4/11", "2/11", "1/11", "4/11"})
	if err != nil {
		t.Fatalf("ModelFromStrings failed: %v", err)
	}
	decoded, err := NewArithmeticCoder(m).DecodeValue(value, len(symbols))
	if err != nil {
		t.Fatalf("DecodeValue failed: %v", err)
	}
	if actual := StringOf(decoded); actual != "mississippi" {
		t.Errorf("wrong round trip: %q", actual)
	}
}

func TestArithmeticCoder_Errors(t *testing.T) {
	c := NewArithmeticCoder(BuildModel(SymbolsOf("aaab")))

	if _, err := c.EncodeValue(SymbolsOf("abc")); !errors.Is(err, ErrUnknownSymbol) {
		t.Errorf("expected ErrUnknownSymbol, got %v", err)
	}
	for _, code := range []*big.Rat{big.NewRat(-1, 2), big.NewRat(1, 1), big.NewRat(3, 2)} {
		if _, err := c.DecodeValue(code, 1); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("DecodeValue(%s): expected ErrOutOfRange, got %v", code.RatString(), err)
		}
	}
	if _, err := c.DecodeValue(big.NewRat(1, 2), -1); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("expected ErrInvalidLength, got %v", err)
	}
	if _, err := c.WithMaxLength(3).DecodeValue(big.NewRat(1, 2), 4); !errors.Is(err, ErrLengthLimit) {
		t.Errorf("expected ErrLengthLimit, got %v", err)
	}
	if c.MaxLength() != DefaultMaxLength {
		t.Errorf("WithMaxLength modified the original coder")
	}
	if _, err := c.Decode(Message{Length: 1}); !errors.Is(err, ErrInvalidNumber) {
		t.Errorf("expected ErrInvalidNumber, got %v", err)
	}

	empty := NewArithmeticCoder(BuildModel(nil))
	if _, err := empty.Encode(nil); !errors.Is(err, ErrEmptyAlphabet) {
		t.Errorf("expected ErrEmptyAlphabet, got %v", err)
	}
	if _, err := empty.DecodeValue(big.NewRat(1, 2), 1); !errors.Is(err, ErrEmptyAlphabet) {
		t.Errorf("expected ErrEmptyAlphabet, got %v", err)
	}
}

func TestArithmeticCoder_Concurrent(t *testing.T) {
	text := "concurrent readers share one coder"
	symbols := SymbolsOf(text)
	c := NewArithmeticCoder(BuildModel(symbols))
	value, err := c.EncodeValue(symbols)
	if err != nil {
		t.Fatalf("EncodeValue failed: %v", err)
	}

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			decoded, err := c.DecodeValue(value, len(symbols))
			if err == nil {
				results[i] = StringOf(decoded)
			}
		}(i)
	}
	wg.Wait()

	for i, actual := range results {
		if actual != text {
			t.Errorf("goroutine %d: wrong round trip %q", i, actual)
		}
	}
}
