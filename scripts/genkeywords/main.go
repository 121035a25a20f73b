// Package main scrapes the reserved word lists of Snowflake and Databricks
// from their documentation and generates Go code for the dialect packages.
//
// Usage:
//
//	go run ./scripts/genkeywords -dialect=all
//	go run ./scripts/genkeywords -dialect=snowflake -out=pkg/dialects/snowflake/reserved_gen.go
//
// Words already in dialect.ANSIReservedWords are left out of the output.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"go/format"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/leapstack-labs/leapdplyr/pkg/dialect"
	"golang.org/x/net/html"
)

// source describes where a dialect's reserved words are published.
type source struct {
	pkg   string
	url   string
	parse func([]byte) ([]string, error)
}

var sources = map[string]source{
	"snowflake": {
		pkg:   "snowflake",
		url:   "https://docs.snowflake.com/en/sql-reference/reserved-keywords",
		parse: parseSnowflakeKeywords,
	},
	"databricks": {
		pkg:   "databricks",
		url:   "https://docs.databricks.com/aws/en/sql/language-manual/sql-ref-reserved-words",
		parse: parseDatabricksKeywords,
	},
}

var (
	dialectFlag = flag.String("dialect", "all", "dialect to generate: snowflake, databricks, all")
	outFlag     = flag.String("out", "", "output file path (defaults to pkg/dialects/<dialect>/reserved_gen.go)")
)

func main() {
	flag.Parse()

	names := []string{*dialectFlag}
	if *dialectFlag == "all" {
		if *outFlag != "" {
			log.Fatal("--out cannot be used with -dialect=all")
		}
		names = []string{"databricks", "snowflake"}
	}

	for _, name := range names {
		src, ok := sources[name]
		if !ok {
			log.Fatalf("unknown -dialect value: %s (use: snowflake, databricks, all)", name)
		}
		out := *outFlag
		if out == "" {
			out = filepath.Join("pkg", "dialects", src.pkg, "reserved_gen.go")
		}
		if err := generate(src, out); err != nil {
			log.Fatalf("%s: %v", name, err)
		}
	}
}

func generate(src source, outPath string) error {
	log.Printf("Fetching keywords from %s", src.url)
	body, err := fetchURL(src.url)
	if err != nil {
		return fmt.Errorf("failed to fetch keywords page: %w", err)
	}

	words, err := src.parse(body)
	if err != nil {
		return fmt.Errorf("failed to parse keywords page: %w", err)
	}
	words = withoutANSI(words)
	log.Printf("Extracted %d dialect-specific reserved words", len(words))

	return writeFormattedCode(outPath, generateCode(src, words))
}

func fetchURL(url string) ([]byte, error) {
	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; leapdplyr/1.0; +https://github.com/leapstack-labs/leapdplyr)")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// parseSnowflakeKeywords reads the keyword table: one keyword per row in
// the first cell, with single-letter rows as section headers.
func parseSnowflakeKeywords(body []byte) ([]string, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	set := make(map[string]bool)
	var inTable bool
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "table" {
			inTable = true
		}
		if inTable && n.Type == html.ElementNode && n.Data == "tr" {
			if kw := firstCell(n); isKeyword(kw) && len(kw) > 1 {
				set[strings.ToLower(kw)] = true
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && n.Data == "table" {
			inTable = false
		}
	}
	walk(doc)
	return sortedKeys(set), nil
}

// parseDatabricksKeywords reads the list items under the "Reserved words"
// heading. The ANSI section that follows is skipped.
func parseDatabricksKeywords(body []byte) ([]string, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	set := make(map[string]bool)
	var inReserved bool
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if n.Data == "h2" {
				text := strings.ToLower(extractText(n))
				inReserved = strings.Contains(text, "reserved words") && !strings.Contains(text, "ansi")
			}
			if n.Data == "li" && inReserved {
				if kw := strings.TrimSpace(extractText(n)); isKeyword(kw) {
					set[strings.ToLower(kw)] = true
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return sortedKeys(set), nil
}

func firstCell(tr *html.Node) string {
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "td" {
			return strings.TrimSpace(extractText(c))
		}
	}
	return ""
}

func extractText(n *html.Node) string {
	var buf bytes.Buffer
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}

// isKeyword accepts a single word of letters and underscores.
func isKeyword(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') && r != '_' {
			return false
		}
	}
	return true
}

func withoutANSI(words []string) []string {
	return slices.DeleteFunc(words, func(w string) bool {
		return slices.Contains(dialect.ANSIReservedWords, w)
	})
}

func sortedKeys(m map[string]bool) []string {
	result := make([]string, 0, len(m))
	for k := range m {
		result = append(result, k)
	}
	sort.Strings(result)
	return result
}

func generateCode(src source, words []string) string {
	var buf bytes.Buffer

	buf.WriteString("// Code generated by scripts/genkeywords. DO NOT EDIT.\n")
	fmt.Fprintf(&buf, "// Source: %s\n\n", src.url)
	fmt.Fprintf(&buf, "package %s\n\n", src.pkg)
	buf.WriteString("// reservedWords are reserved on top of dialect.ANSIReservedWords.\n")
	buf.WriteString("var reservedWords = []string{\n")
	writeStringSlice(&buf, words)
	buf.WriteString("}\n")
	return buf.String()
}

func writeStringSlice(buf *bytes.Buffer, items []string) {
	const itemsPerLine = 6
	for i, item := range items {
		if i%itemsPerLine == 0 {
			buf.WriteString("\t")
		}
		fmt.Fprintf(buf, "%q, ", item)
		if (i+1)%itemsPerLine == 0 {
			buf.WriteString("\n")
		}
	}
	if len(items)%itemsPerLine != 0 {
		buf.WriteString("\n")
	}
}

func writeFormattedCode(outPath, code string) error {
	formatted, err := format.Source([]byte(code))
	if err != nil {
		log.Printf("Warning: failed to format generated code: %v", err)
		formatted = []byte(code)
	}
	if err := os.WriteFile(outPath, formatted, 0o600); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	log.Printf("Generated %s", outPath)
	return nil
}
