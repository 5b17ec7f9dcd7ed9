// Package compiler orchestrates the front-end pipeline: source bytes flow
// through the lexer and parser, the semantic stub annotates the tree, and
// the result record carries the Program, the diagnostics and the target
// descriptor to downstream consumers.
package compiler

import (
	"os"
	"strings"

	"chppc/internal/ast"
	"chppc/internal/diagnostics"
	"chppc/internal/lexer"
	"chppc/internal/parser"
	"chppc/internal/semantics"
	"chppc/internal/target"
	"chppc/internal/tokens"
)

// Stage names a point the pipeline can stop after. The zero value,
// StageFull, runs the whole pipeline.
type Stage int

const (
	StageFull Stage = iota
	StageLexing
	StageParsing
	StageSemantic
	StageIR
)

// SourceExtension is the advisory extension for ћ++ source files.
const SourceExtension = ".ћпп"

// Options configures one compilation.
type Options struct {
	// File-based compilation
	EntryFile string
	// In-memory compilation (tests)
	Code string

	OutputFile   string
	AssemblyOnly bool
	TargetArch   string // "", "x86" or "x86-64"
	OptLevel     int
	Verbose      bool
	ErrorLog     bool
	StopAfter    Stage
}

// Result is the front-end hand-off: the AST, the accumulated diagnostics,
// and the target descriptor the IR generator sizes words from.
type Result struct {
	Program     *ast.Program
	Diagnostics *diagnostics.Reporter
	Target      target.Info
	Success     bool
}

// Compile runs the front-end pipeline over one translation unit.
func Compile(opts *Options) Result {
	diag := diagnostics.NewReporter(opts.ErrorLog)
	diag.SetDebug(opts.Verbose)

	ti := resolveTarget(opts, diag)

	result := Result{Diagnostics: diag, Target: ti}

	var lex *lexer.Lexer
	if opts.EntryFile != "" {
		if !strings.HasSuffix(opts.EntryFile, SourceExtension) {
			diag.Report(diagnostics.IO, diagnostics.Warning,
				opts.EntryFile, 0, 0,
				"Source file does not have the "+SourceExtension+" extension",
				"Rename the file or ignore this warning")
		}

		var err error
		lex, err = lexer.NewFromFile(opts.EntryFile, ti, diag)
		if err != nil {
			result.Success = false
			return result
		}
	} else {
		lex = lexer.New([]byte(opts.Code), "<input>", ti, diag)
	}

	if opts.StopAfter == StageLexing {
		drainTokens(lex, opts.Verbose)
		result.Success = !diag.HasErrors()
		return result
	}

	result.Program = parser.Parse(lex, diag)

	if opts.Verbose && result.Program != nil {
		ast.Print(os.Stderr, result.Program, 0)
	}

	if opts.StopAfter == StageParsing {
		result.Success = !diag.HasErrors()
		return result
	}

	semantics.Analyze(result.Program, lex.Filename(), diag)

	// IR generation and code generation consume the Result record; they
	// are external collaborators of this front-end.

	result.Success = !diag.HasErrors()
	return result
}

func resolveTarget(opts *Options, diag *diagnostics.Reporter) target.Info {
	switch opts.TargetArch {
	case "":
		return target.Init()
	case "x86":
		return target.InitArch(target.ArchX86)
	case "x86-64":
		return target.InitArch(target.ArchX8664)
	default:
		diag.Report(diagnostics.IO, diagnostics.Warning,
			opts.EntryFile, 0, 0,
			"Unknown target '"+opts.TargetArch+"', using the host architecture",
			"Supported targets are x86 and x86-64")
		return target.Init()
	}
}

// drainTokens runs the lexer to completion, printing each token when
// verbose.
func drainTokens(lex *lexer.Lexer, verbose bool) {
	for {
		tok := lex.NextToken()
		if verbose {
			tok.Debug(os.Stderr)
		}
		if tok.Kind == tokens.EOF_TOKEN {
			return
		}
	}
}
