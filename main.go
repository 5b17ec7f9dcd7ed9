package main

import (
	"flag"
	"fmt"
	"os"

	"chppc/internal/compiler"
)

const version = "0.1.0"

func main() {
	// Define flags
	output := flag.String("o", "", "Output file path")
	asmOnly := flag.Bool("S", false, "Emit assembly only, do not assemble")
	targetArch := flag.String("target", "", "Target architecture (x86 or x86-64)")
	showVersion := flag.Bool("v", false, "Show version")
	verbose := flag.Bool("verbose", false, "Verbose output (token and AST dumps, error details)")
	errorLog := flag.Bool("generate-error-log", false, "Write diagnostics to a timestamped log file")

	opt0 := flag.Bool("O0", false, "No optimization (default)")
	opt1 := flag.Bool("O1", false, "Basic optimization")
	opt2 := flag.Bool("O2", false, "Standard optimization")
	opt3 := flag.Bool("O3", false, "Aggressive optimization")

	stopLexing := flag.Bool("stop-after-lexing", false, "Stop after lexical analysis")
	stopParsing := flag.Bool("stop-after-parsing", false, "Stop after parsing")
	stopSemantic := flag.Bool("stop-after-semantic", false, "Stop after semantic analysis")
	stopIR := flag.Bool("stop-after-ir", false, "Stop after IR generation")

	flag.Parse()

	if *showVersion {
		fmt.Printf("ћ++ compiler version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: chppc [options] <file"+compiler.SourceExtension+">")
		fmt.Fprintln(os.Stderr, "\nOptions:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	optLevel := 0
	switch {
	case *opt3:
		optLevel = 3
	case *opt2:
		optLevel = 2
	case *opt1:
		optLevel = 1
	case *opt0:
		optLevel = 0
	}

	stopAfter := compiler.StageFull
	switch {
	case *stopLexing:
		stopAfter = compiler.StageLexing
	case *stopParsing:
		stopAfter = compiler.StageParsing
	case *stopSemantic:
		stopAfter = compiler.StageSemantic
	case *stopIR:
		stopAfter = compiler.StageIR
	}

	result := compiler.Compile(&compiler.Options{
		EntryFile:    args[0],
		OutputFile:   *output,
		AssemblyOnly: *asmOnly,
		TargetArch:   *targetArch,
		OptLevel:     optLevel,
		Verbose:      *verbose,
		ErrorLog:     *errorLog,
		StopAfter:    stopAfter,
	})

	result.Diagnostics.PrintSummary(*verbose)
	result.Diagnostics.Cleanup()

	if !result.Success {
		os.Exit(1)
	}
}
