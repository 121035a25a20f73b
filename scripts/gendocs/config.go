package main

import (
	"fmt"
	"log"
	"strconv"

	"github.com/leapstack-labs/leapdplyr/internal/cli/config"
)

// ConfigField describes one configuration key.
type ConfigField struct {
	Name        string
	Type        string
	Default     string
	Description string
	Section     string // "", "cache", "limits", "batch"
}

// configSchema lists the keys of leapdplyr.yaml with their defaults.
func configSchema() []ConfigField {
	def := config.Default()
	return []ConfigField{
		{Name: "dialect", Type: "string", Default: def.Dialect, Description: "Target SQL dialect or alias"},
		{Name: "output", Type: "string", Default: def.Output, Description: "Output mode: auto, text, markdown, json"},
		{Name: "format", Type: "string", Default: def.Format, Description: "SQL layout: default, pretty, compact"},
		{Name: "table", Type: "string", Default: def.Table, Description: "Source table when the pipeline names none"},
		{Name: "lang", Type: "string", Default: def.Lang, Description: "Language of error hints: en, ko"},
		{Name: "verbose", Type: "bool", Default: strconv.FormatBool(def.Verbose), Description: "Verbose output"},
		{Name: "debug", Type: "bool", Default: strconv.FormatBool(def.Debug), Description: "Debug logging"},

		{Name: "enabled", Type: "bool", Default: strconv.FormatBool(def.Cache.Enabled), Description: "Cache transpilation results", Section: "cache"},
		{Name: "size", Type: "int", Default: strconv.Itoa(def.Cache.Size), Description: "Maximum number of cached results", Section: "cache"},
		{Name: "ttl", Type: "duration", Default: def.Cache.TTL.String(), Description: "How long a cached result stays valid", Section: "cache"},

		{Name: "max_input_length", Type: "int", Default: strconv.Itoa(def.Limits.MaxInputLength), Description: "Maximum input size in bytes", Section: "limits"},
		{Name: "max_nesting_depth", Type: "int", Default: strconv.Itoa(def.Limits.MaxNestingDepth), Description: "Maximum bracket nesting depth", Section: "limits"},
		{Name: "max_function_calls", Type: "int", Default: strconv.Itoa(def.Limits.MaxFunctionCalls), Description: "Maximum number of function calls", Section: "limits"},
		{Name: "timeout", Type: "duration", Default: def.Limits.Timeout.String(), Description: "Abandon a transpilation after this long", Section: "limits"},

		{Name: "concurrency", Type: "int", Default: strconv.Itoa(def.Batch.Concurrency), Description: "Files transpiled at once by `batch`", Section: "batch"},
	}
}

// generateConfigDocs writes the configuration reference.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating config docs to %s", outDir)
	if err := writePage(outDir, "configuration.md", configPage(configSchema())); err != nil {
		return fmt.Errorf("failed to generate configuration.md: %w", err)
	}
	return nil
}

func configPage(fields []ConfigField) *MarkdownWriter {
	w := NewMarkdownWriter()

	w.Frontmatter("Configuration", "leapdplyr configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph("leapdplyr reads `leapdplyr.yaml` from the working directory or one of its parents. `--config` names a file explicitly.")

	sections := []struct{ key, title string }{
		{"", "General"},
		{"cache", "Cache"},
		{"limits", "Limits"},
		{"batch", "Batch"},
	}
	for _, sec := range sections {
		w.Header(2, sec.title)
		var rows [][]string
		for _, f := range fields {
			if f.Section != sec.key {
				continue
			}
			name := f.Name
			if f.Section != "" {
				name = f.Section + "." + f.Name
			}
			rows = append(rows, []string{InlineCode(name), f.Type, InlineCode(f.Default), f.Description})
		}
		w.Table([]string{"Key", "Type", "Default", "Description"}, rows)
	}

	w.Header(2, "Full Configuration Example")
	w.CodeBlock("yaml", `# leapdplyr.yaml
dialect: duckdb
format: pretty
table: events
lang: en

cache:
  enabled: true
  size: 500
  ttl: 10m

limits:
  max_nesting_depth: 30
  timeout: 5s

batch:
  concurrency: 8`)

	w.Header(2, "Precedence")
	w.BulletList([]string{
		"Command-line flags",
		"`LEAPDPLYR_` environment variables",
		"`leapdplyr.yaml`",
		"Built-in defaults",
	})

	return w
}
