package compiler

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lhaig/jlite/internal/ast"
	"github.com/lhaig/jlite/internal/ir"
)

// DefaultTarget is used when Options.Target is empty
const DefaultTarget = "text"

// Options controls how Emit renders the lowered program
type Options struct {
	Target   string // "text" or "json"
	Filename string // used in diagnostics; defaults to "input"
}

func (o Options) target() string {
	if o.Target == "" {
		return DefaultTarget
	}
	return o.Target
}

func (o Options) filename() string {
	if o.Filename == "" {
		return "input"
	}
	return o.Filename
}

type emitter func(*ir.Program) ([]byte, error)

func emitText(prog *ir.Program) ([]byte, error) {
	return []byte(ir.Format(prog)), nil
}

func emitJSON(prog *ir.Program) ([]byte, error) {
	data, err := json.MarshalIndent(prog, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode IR: %w", err)
	}
	return append(data, '\n'), nil
}

// getEmitter returns the renderer for the given target
func getEmitter(target string) (emitter, error) {
	switch target {
	case "text":
		return emitText, nil
	case "json":
		return emitJSON, nil
	default:
		return nil, fmt.Errorf("unknown target: %s", target)
	}
}

// getFileExtension returns the file extension for the given target
func getFileExtension(target string) string {
	switch target {
	case "text":
		return ".ir"
	case "json":
		return ".ir.json"
	default:
		return ""
	}
}

// Targets lists the supported emit targets
func Targets() []string {
	return []string{"text", "json"}
}

// EmitToFile compiles prog for opts.Target and writes baseName plus the
// target's extension. It returns the path written.
func EmitToFile(prog *ast.Program, opts Options, baseName string) (string, error) {
	code, err := Emit(prog, opts)
	if err != nil {
		return "", err
	}

	outPath := baseName + getFileExtension(opts.target())
	if err := os.WriteFile(outPath, code, 0644); err != nil {
		return "", fmt.Errorf("failed to write output file: %w", err)
	}
	return outPath, nil
}
