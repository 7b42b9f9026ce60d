package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lhaig/jlite/internal/ast"
	"github.com/lhaig/jlite/internal/checker"
	"github.com/lhaig/jlite/internal/compiler"
	"github.com/lhaig/jlite/internal/diagnostic"
	"github.com/lhaig/jlite/internal/linter"
)

const usage = `jlitec - The jlite compiler middle-end

Usage:
  jlitec check <program.json>                        Type-check a JSON AST
  jlitec lower [--emit=text|json] [--write] <program.json>
                                                     Lower to IR and print it
  jlitec lint <program.json>                         Run style checks on a JSON AST
  jlitec ast <program.json>                          Print the decoded AST
  jlitec types <program.json>                        List the registered types

Options:
  --emit=TARGET  IR output format: text (default) or json
  --write        Write <program>.ir (or .ir.json) instead of printing

Examples:
  jlitec check counter.json              Check for errors without lowering
  jlitec lower counter.json              Print the IR of counter.json
  jlitec lower --emit=json --write a.json  Write a.ir.json
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "check":
		handleCheck(os.Args[2:])
	case "lower":
		handleLower(os.Args[2:])
	case "lint":
		handleLint(os.Args[2:])
	case "types":
		handleTypes(os.Args[2:])
	case "ast":
		handleAST(os.Args[2:])
	case "help", "--help", "-h":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

// readProgram decodes the program at filePath or exits
func readProgram(filePath string) *ast.Program {
	prog, err := compiler.ReadProgram(filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %s\n", err)
		os.Exit(1)
	}
	return prog
}

func handleCheck(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		os.Exit(1)
	}

	filePath := args[0]
	diag := compiler.Check(readProgram(filePath))
	if diag.HasErrors() {
		fmt.Fprintf(os.Stderr, "%s\n", diag.Format(filePath))
		os.Exit(1)
	}
	for _, d := range diag.All() {
		fmt.Printf("%s:%d:%d: warning: %s\n", filePath, d.Line, d.Column, d.Message)
	}

	fmt.Println("No errors found.")
}

func handleLower(args []string) {
	opts := compiler.Options{}
	write := false
	var filePath string

	for _, arg := range args {
		switch {
		case strings.HasPrefix(arg, "--emit="):
			opts.Target = strings.TrimPrefix(arg, "--emit=")
		case arg == "--write":
			write = true
		case strings.HasPrefix(arg, "-"):
			fmt.Fprintf(os.Stderr, "Unknown option: %s\n", arg)
			os.Exit(1)
		default:
			filePath = arg
		}
	}

	if filePath == "" {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		os.Exit(1)
	}
	opts.Filename = filePath
	prog := readProgram(filePath)

	if write {
		baseName := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
		outPath, err := compiler.EmitToFile(prog, opts, baseName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", outPath)
		return
	}

	out, err := compiler.Emit(prog, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	os.Stdout.Write(out)
}

func handleLint(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		os.Exit(1)
	}

	filePath := args[0]
	prog := readProgram(filePath)
	if err := checker.CheckStructure(prog); err != nil {
		diag := diagnostic.New()
		diag.Add(err)
		fmt.Fprintf(os.Stderr, "%s\n", diag.Format(filePath))
		os.Exit(1)
	}

	diag := linter.Lint(prog)

	if diag.Count() == 0 {
		fmt.Println("No lint warnings.")
		return
	}

	fmt.Print(diag.Format(filePath))
	fmt.Println()
	fmt.Printf("%d warning(s) found.\n", diag.Count())
}

func handleAST(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		os.Exit(1)
	}

	fmt.Print(ast.Print(readProgram(args[0])))
}

func handleTypes(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		os.Exit(1)
	}

	filePath := args[0]
	res := compiler.Compile(readProgram(filePath))
	if res.Diagnostics.HasErrors() {
		fmt.Fprintf(os.Stderr, "%s\n", res.Diagnostics.Format(filePath))
		os.Exit(1)
	}
	fmt.Print(compiler.FormatRegistry(res.Registry))
}
