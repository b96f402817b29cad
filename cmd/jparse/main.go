// Copyright (C) 2024 The jparse Authors. All Rights Reserved.

// Command jparse checks that its input is a valid JSON document and, on
// request, re-encodes the parsed value. Diagnostics carry the line, column,
// and byte offset of the problem.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-json"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/jparse-go/jparse/ast"
)

var cli struct {
	Input  string `help:"Path to input JSON file. If not specified, reads from stdin." short:"i" type:"path"`
	Encode bool   `help:"Re-encode the parsed value to stdout." short:"e"`
	Indent bool   `help:"Indent re-encoded output. Implies --encode." short:"n"`
	Debug  bool   `help:"Enable debug logging." short:"d"`
}

var log = commonlog.GetLogger("jparse")

func main() {
	kong.Parse(&cli,
		kong.Name("jparse"),
		kong.Description("A strict JSON validator with positioned diagnostics"),
		kong.UsageOnError(),
	)

	verbosity := 0
	if cli.Debug {
		verbosity = 2
	}
	commonlog.Configure(verbosity, nil)

	data, err := readInput()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := run(data, cli.Encode || cli.Indent, cli.Indent, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func readInput() ([]byte, error) {
	if cli.Input != "" {
		log.Debugf("reading %s", cli.Input)
		return os.ReadFile(cli.Input)
	}
	log.Debugf("reading stdin")
	return io.ReadAll(os.Stdin)
}

// run parses data and, if encode is set, writes the re-encoded value to
// out. A parse failure is returned as-is; its message already locates the
// problem in the input.
func run(data []byte, encode, indent bool, out io.Writer) error {
	v, err := ast.Parse(data)
	if err != nil {
		return err
	}
	log.Debugf("parsed %d bytes into a valid document", len(data))

	if !encode {
		return nil
	}
	enc := json.NewEncoder(out)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(ast.Decode(v))
}
