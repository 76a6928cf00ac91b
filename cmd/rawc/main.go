package main

import (
	"fmt"
	"os"

	compiler "github.com/dfmod/rawc"
	"github.com/dfmod/rawc/internal/config"
	"github.com/dfmod/rawc/internal/diag"
	"github.com/dfmod/rawc/internal/schema"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: rawc <command> [arguments]")
		fmt.Println("Commands: compile, lint")
		os.Exit(1)
	}

	command := os.Args[1]
	switch command {
	case "compile":
		runCompile(os.Args[2:])
	case "lint":
		runLint(os.Args[2:])
	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}

type flags struct {
	manifest       string
	output         string
	schemaOverride string
	diagDB         string
}

func parseFlags(args []string) flags {
	var f flags
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--manifest":
			i++
			if i < len(args) {
				f.manifest = args[i]
			}
		case "--output":
			i++
			if i < len(args) {
				f.output = args[i]
			}
		case "--schema-override":
			i++
			if i < len(args) {
				f.schemaOverride = args[i]
			}
		case "--diag-db":
			i++
			if i < len(args) {
				f.diagDB = args[i]
			}
		}
	}
	return f
}

func resolveSchema(path string) (*schema.Schema, error) {
	sc, err := schema.Default()
	if err != nil {
		return nil, fmt.Errorf("loading default schema: %w", err)
	}
	if path == "" {
		return sc, nil
	}
	override, err := schema.LoadOverride(path)
	if err != nil {
		return nil, fmt.Errorf("loading schema override %s: %w", path, err)
	}
	sc.Merge(override)
	return sc, nil
}

func resolveSink(dbPath string) (diag.Sink, func(), error) {
	if dbPath == "" {
		return diag.LogSink{}, func() {}, nil
	}
	sink, err := diag.NewSQLiteSink(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening diagnostics db %s: %w", dbPath, err)
	}
	return sink, func() { sink.Close() }, nil
}

func runCompile(args []string) {
	f := parseFlags(args)
	if f.manifest == "" || f.output == "" {
		fmt.Println("Usage: rawc compile --manifest rawc.toml --output ./compiled [--schema-override path.cue] [--diag-db diag.sqlite]")
		os.Exit(1)
	}

	manifest, err := config.Load(f.manifest)
	if err != nil {
		fmt.Printf("Compile failed: %v\n", err)
		os.Exit(1)
	}
	mods, err := manifest.ModDescriptors()
	if err != nil {
		fmt.Printf("Compile failed: %v\n", err)
		os.Exit(1)
	}

	sc, err := resolveSchema(f.schemaOverride)
	if err != nil {
		fmt.Printf("Compile failed: %v\n", err)
		os.Exit(1)
	}

	sink, closeSink, err := resolveSink(f.diagDB)
	if err != nil {
		fmt.Printf("Compile failed: %v\n", err)
		os.Exit(1)
	}
	defer closeSink()

	if err := compiler.Compile(mods, f.output, compiler.WithSchema(sc), compiler.WithDiagSink(sink)); err != nil {
		fmt.Printf("Compile failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Compile successful. Output in", f.output)
}

func runLint(args []string) {
	f := parseFlags(args)
	if f.manifest == "" {
		fmt.Println("Usage: rawc lint --manifest rawc.toml")
		os.Exit(1)
	}

	manifest, err := config.Load(f.manifest)
	if err != nil {
		fmt.Printf("Lint failed: %v\n", err)
		os.Exit(1)
	}
	mods, err := manifest.ModDescriptors()
	if err != nil {
		fmt.Printf("Lint failed: %v\n", err)
		os.Exit(1)
	}

	sc, err := resolveSchema(f.schemaOverride)
	if err != nil {
		fmt.Printf("Lint failed: %v\n", err)
		os.Exit(1)
	}

	collector := &diag.Collector{}
	if err := compiler.Lint(mods, compiler.WithSchema(sc), compiler.WithDiagSink(collector)); err != nil {
		fmt.Printf("Lint failed: %v\n", err)
		os.Exit(1)
	}

	for _, d := range collector.Diagnostics {
		fmt.Printf("%s: %s (%s %s, %s:%s in %s)\n", d.Kind, d.Message, d.ModName, d.ModVersion, d.ObjectType, d.ObjectID, d.SourceFile)
	}
	if len(collector.Diagnostics) > 0 {
		fmt.Printf("\nFound %d issues.\n", len(collector.Diagnostics))
	} else {
		fmt.Println("No issues found.")
	}
}
