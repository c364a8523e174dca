// Command jackc compiles Jack source files into Hack VM text (spec §6).
//
// Adapted from the teacher's cmd/jack_compiler/main.go: same teris-io/cli
// builder shape and file-walk-by-extension, rewired to call pkg/driver
// instead of the teacher's pkg/jack/pkg/vm pipeline.
package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackc-project/jackc/pkg/driver"
	"github.com/sirupsen/logrus"
	"github.com/teris-io/cli"
)

var description = strings.ReplaceAll(`
jackc compiles one or more Jack source files (or directories containing
them) into Hack VM text, one .vm file per input, written alongside it.
The input set must include a file named Main.jack.
`, "\n", " ")

var app = cli.New(description).
	WithArg(cli.NewArg("inputs", "The .jack files or directories to compile").
		AsOptional().WithType(cli.TypeString)).
	WithOption(cli.NewOption("stdlib", "Preload the standard library ABI so OS class calls resolve").
		WithType(cli.TypeBool)).
	WithOption(cli.NewOption("viz-ast", "Dump the parsed AST for external visualizers (out of scope, accepted and ignored)").
		WithType(cli.TypeBool)).
	WithOption(cli.NewOption("viz-checker", "Dump the analyzer's symbol tables for external visualizers (out of scope, accepted and ignored)").
		WithType(cli.TypeBool)).
	WithOption(cli.NewOption("log-level", "Logging verbosity: debug, info, warn, error (default info)").
		WithType(cli.TypeString)).
	WithAction(handler)

func handler(args []string, options map[string]string) int {
	if level, ok := options["log-level"]; ok {
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			fmt.Printf("ERROR: invalid --log-level %q: %v\n", level, err)
			return 1
		}
		logrus.SetLevel(parsed)
	}

	if len(args) < 1 {
		fmt.Println("ERROR: no input files or directories given, use --help")
		return 1
	}

	files, err := discoverJackFiles(args)
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		return 1
	}
	if len(files) == 0 {
		fmt.Println("ERROR: no .jack files found in the given inputs")
		return 1
	}
	hasMain := false
	for _, f := range files {
		if filepath.Base(f) == "Main.jack" {
			hasMain = true
		}
	}
	if !hasMain {
		fmt.Println("ERROR: no Main.jack among the given inputs")
		return 1
	}

	_, useStdlib := options["stdlib"]
	d, err := driver.New(useStdlib)
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		return 1
	}

	if err := d.Compile(context.Background(), files); err != nil {
		fmt.Printf("ERROR: %v\n", err)
		return 1
	}

	return 0
}

// discoverJackFiles walks every input path, collecting .jack files
// (mirrors the teacher's filepath.Walk loop in cmd/jack_compiler/main.go).
func discoverJackFiles(inputs []string) ([]string, error) {
	var files []string
	for _, input := range inputs {
		err := filepath.Walk(input, func(path string, info fs.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() || filepath.Ext(path) != ".jack" {
				return nil
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func main() { os.Exit(app.Run(os.Args, os.Stdout)) }
