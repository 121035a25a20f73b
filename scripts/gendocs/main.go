// Package main generates the reference pages of the leapdplyr docs from
// the CLI command tree, the configuration defaults and the dialect
// registry.
//
// Usage:
//
//	go run ./scripts/gendocs -gen=cli -outdir=docs/cli
//	go run ./scripts/gendocs -gen=config -outdir=docs/reference
//	go run ./scripts/gendocs -gen=dialects -outdir=docs/reference
//	go run ./scripts/gendocs -gen=all
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

var (
	genFlag    = flag.String("gen", "all", "what to generate: cli, config, dialects, all")
	outDirFlag = flag.String("outdir", "", "output directory (defaults based on gen type)")
)

// generators maps -gen values to their generator and default directory.
var generators = map[string]struct {
	dir string
	run func(outDir string) error
}{
	"cli":      {dir: "cli", run: generateCLIDocs},
	"config":   {dir: "reference", run: generateConfigDocs},
	"dialects": {dir: "reference", run: generateDialectDocs},
}

func main() {
	flag.Parse()

	names := []string{*genFlag}
	if *genFlag == "all" {
		names = []string{"cli", "config", "dialects"}
	}

	// Find project root (where go.mod is)
	projectRoot, err := findProjectRoot()
	if err != nil {
		log.Fatalf("failed to find project root: %v", err)
	}
	log.Printf("Project root: %s", projectRoot)

	for _, name := range names {
		gen, ok := generators[name]
		if !ok {
			log.Fatalf("unknown -gen value: %s (use: cli, config, dialects, all)", name)
		}
		outDir := *outDirFlag
		if outDir == "" || *genFlag == "all" {
			outDir = filepath.Join(projectRoot, "docs", gen.dir)
		}
		if err := gen.run(outDir); err != nil {
			log.Fatalf("failed to generate %s docs: %v", name, err)
		}
	}

	log.Println("Done!")
}

// writePage creates outDir if needed and writes one page into it.
func writePage(outDir, name string, w *MarkdownWriter) error {
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, name), w.Bytes(), 0o600); err != nil {
		return err
	}
	log.Printf("  Generated %s", name)
	return nil
}

// findProjectRoot walks up from current directory to find go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}
