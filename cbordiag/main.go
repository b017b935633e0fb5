package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	cbor "github.com/synadia-labs/cborval/runtime"
)

// CLI defines the cbordiag command-line interface.
//
// We deliberately keep it minimal:
//   - input: CBOR file, hex text, or stdin
//   - format: diagnostic notation, JSON, or hex
//   - encode: reverse direction, JSON in and CBOR out
//
// Input holding more than one CBOR item is treated as a CBOR sequence
// and rendered item by item.
type CLI struct {
	Input        string `short:"i" help:"Input file ('-' for stdin)" default:"-"`
	Hex          bool   `short:"x" help:"Treat input as hex text rather than raw bytes"`
	Format       string `short:"f" help:"Output format" enum:"diag,json,hex" default:"diag"`
	Encode       bool   `short:"e" help:"Encode JSON input to CBOR instead of decoding"`
	SelfDescribe bool   `help:"Prefix encoded output with the self-described CBOR tag (encode mode)"`
	Validate     bool   `help:"Only check well-formedness; exit non-zero on malformed input"`
	Verbose      bool   `short:"v" help:"Enable verbose diagnostics"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("cbordiag"),
		kong.Description("Inspect, validate and convert CBOR documents."),
	)

	if err := run(&cli); err != nil {
		ctx.FatalIfErrorf(err)
	}
}

func run(cli *CLI) error {
	logger := zap.NewNop()
	if cli.Verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		logger = l
	}
	defer func() { _ = logger.Sync() }()

	data, err := readInput(cli)
	if err != nil {
		return err
	}
	logger.Debug("read input", zap.Int("bytes", len(data)), zap.Bool("hex", cli.Hex))

	if cli.Encode {
		return encodeJSON(cli, data, logger)
	}
	if cli.Validate {
		return validate(data, logger)
	}
	return render(cli, data, logger)
}

// readInput loads the input bytes, decoding hex text when asked.
func readInput(cli *CLI) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if cli.Input == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(cli.Input)
	}
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if !cli.Hex {
		return data, nil
	}
	clean := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\n' || r == '\t' || r == '\r' {
			return -1
		}
		return r
	}, string(data))
	out, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("decode hex input: %w", err)
	}
	return out, nil
}

// render decodes every item in the input and prints it one per line.
func render(cli *CLI, data []byte, logger *zap.Logger) error {
	item := 0
	for len(data) > 0 {
		var (
			out  string
			rest []byte
			err  error
		)
		switch cli.Format {
		case "json":
			var jb []byte
			jb, rest, err = cbor.ToJSONBytes(data)
			out = string(jb)
		case "hex":
			rest, err = cbor.Skip(data)
			if err == nil {
				out = hex.EncodeToString(data[:len(data)-len(rest)])
			}
		default:
			out, rest, err = cbor.DiagBytes(data)
		}
		if err != nil {
			return fmt.Errorf("item %d: %w", item, err)
		}
		logger.Debug("decoded item",
			zap.Int("item", item),
			zap.Int("consumed", len(data)-len(rest)))
		fmt.Println(out)
		data = rest
		item++
	}
	return nil
}

// validate checks every item in the input for well-formedness.
func validate(data []byte, logger *zap.Logger) error {
	item := 0
	for len(data) > 0 {
		rest, err := cbor.ValidateWellFormedBytes(data)
		if err != nil {
			return fmt.Errorf("item %d: %w", item, err)
		}
		logger.Debug("validated item",
			zap.Int("item", item),
			zap.Int("consumed", len(data)-len(rest)))
		data = rest
		item++
	}
	fmt.Printf("ok: %d item(s)\n", item)
	return nil
}

// encodeJSON converts JSON input into a single CBOR item.
func encodeJSON(cli *CLI, data []byte, logger *zap.Logger) error {
	v, err := cbor.FromJSON(data)
	if err != nil {
		return fmt.Errorf("parse JSON: %w", err)
	}
	var out []byte
	if cli.SelfDescribe {
		out, err = cbor.EncodeSelfDescribed(v)
	} else {
		out, err = cbor.Encode(v)
	}
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	logger.Debug("encoded item", zap.Int("bytes", len(out)))

	if cli.Format == "hex" {
		fmt.Println(hex.EncodeToString(out))
		return nil
	}
	_, err = os.Stdout.Write(out)
	return err
}
