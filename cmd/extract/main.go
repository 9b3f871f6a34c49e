// Command extract runs the recovery pipeline over a single completion taken
// from a file or stdin and prints the resulting value as JSON. Exit status is
// 0 for valid or recovered results and 1 when the fallback path was taken.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"reportcrew/pkg/diagsink"
	"reportcrew/pkg/extract"
	_ "reportcrew/pkg/reports"
)

func main() {
	var (
		schemaName = flag.String("schema", "", "target schema name (required)")
		configPath = flag.String("config", "", "extractor config file (optional)")
		inputPath  = flag.String("input", "-", "completion text file, - for stdin")
		debugDir   = flag.String("debug-dir", "", "directory for failure artifacts, overrides config")
		listOnly   = flag.Bool("list", false, "list registered schemas and exit")
	)
	flag.Parse()

	if *listOnly {
		fmt.Println(strings.Join(extract.RegisteredSchemas(), "\n"))
		return
	}
	if *schemaName == "" {
		fmt.Fprintln(os.Stderr, "extract: -schema is required")
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*schemaName, *configPath, *inputPath, *debugDir); err != nil {
		fmt.Fprintf(os.Stderr, "extract: %v\n", err)
		os.Exit(1)
	}
}

func run(schemaName, configPath, inputPath, debugDir string) error {
	cfg := extract.DefaultConfig()
	if configPath != "" {
		loaded, err := extract.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if debugDir != "" {
		cfg.DebugDir = debugDir
	}

	var opts []extract.Option
	if cfg.DebugDir != "" {
		sink, err := diagsink.NewWriter(cfg.DebugDir)
		if err != nil {
			return err
		}
		opts = append(opts, extract.WithSink(sink))
	}

	e, err := extract.NewExtractor(cfg, opts...)
	if err != nil {
		return err
	}

	raw, err := readInput(inputPath)
	if err != nil {
		return err
	}

	res := e.Extract(context.Background(), schemaName, raw, nil)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return err
	}
	if res.IsFallback() {
		return fmt.Errorf("fallback: %s", res.Reason)
	}
	return nil
}

func readInput(path string) (string, error) {
	if path == "-" {
		buf, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(buf), nil
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(buf), nil
}
