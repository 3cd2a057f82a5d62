package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/chronos-tachyon/symcode"
)

var kindName = flag.String("kind", "huffman", "coder: arithmetic, huffman, shannon-fano, or fixed-width")
var decode = flag.Bool("decode", false, "read an envelope and print the decoded text")
var binary = flag.Bool("binary", false, "use the protobuf wire form instead of JSON")
var maxLength = flag.Int("max-length", symcode.DefaultMaxLength, "longest text an envelope may decode to")
var keepNewline = flag.Bool("keep-newline", false, "do not strip one trailing newline from the input text")

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] [filename]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	kind, err := symcode.ParseKind(*kindName)
	if err != nil {
		log.Fatalf("%v", err)
	}

	input, err := readInput(flag.Arg(0))
	if err != nil {
		log.Fatalf("%v", err)
	}

	if *decode {
		err = runDecode(os.Stdout, kind, input)
	} else {
		err = runEncode(os.Stdout, kind, input)
	}
	if err != nil {
		log.Fatalf("%v", err)
	}
}

func readInput(name string) ([]byte, error) {
	if name == "" || name == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(name)
}

func runEncode(w io.Writer, kind symcode.Kind, input []byte) error {
	text := string(input)
	if !*keepNewline {
		text = strings.TrimSuffix(text, "\n")
	}

	env, err := symcode.EncodeText(kind, text)
	if err != nil {
		return err
	}

	if *binary {
		raw, err := env.MarshalBinary()
		if err != nil {
			return err
		}
		_, err = w.Write(raw)
		return err
	}

	raw, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", raw)
	return err
}

func runDecode(w io.Writer, kind symcode.Kind, input []byte) error {
	env, err := symcode.NewEnvelope(kind)
	if err != nil {
		return err
	}

	if *binary {
		err = env.UnmarshalBinary(input)
	} else {
		err = json.Unmarshal(input, env)
	}
	if err != nil {
		return err
	}

	text, err := env.DecodeWithLimit(*maxLength)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", text)
	return err
}
