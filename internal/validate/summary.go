package validate

import (
	"fmt"

	"github.com/leapstack-labs/leapdplyr/pkg/ast"
	"github.com/leapstack-labs/leapdplyr/pkg/parser"
)

// MaxComplexity caps the complexity score.
const MaxComplexity = 10

// complexityWeights scores each verb by how much SQL it tends to produce.
var complexityWeights = map[string]int{
	"select":    1,
	"rename":    1,
	"arrange":   1,
	"filter":    2,
	"mutate":    2,
	"group_by":  2,
	"summarise": 3,
}

// joinWeight applies to every join verb.
const joinWeight = 2

// Summary describes a parsed pipeline without generating SQL.
type Summary struct {
	OperationCount int      `json:"operation_count"`
	Operations     []string `json:"operations"`
	Columns        []string `json:"columns"`
	HasAggregation bool     `json:"has_aggregation"`
	HasGrouping    bool     `json:"has_grouping"`
	Complexity     int      `json:"complexity"`
	Warnings       []string `json:"warnings,omitempty"`
}

// ColumnCount returns the number of distinct columns referenced.
func (s *Summary) ColumnCount() int { return len(s.Columns) }

// Syntax parses src and summarises it. Parse failures are returned as the
// parser's own error types.
func Syntax(src string) (*Summary, error) {
	root, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	return Analyze(root), nil
}

// Analyze summarises a parsed pipeline.
func Analyze(root ast.Root) *Summary {
	s := &Summary{Operations: []string{}, Columns: []string{}}
	p, ok := root.(*ast.Pipeline)
	if !ok {
		return s
	}

	seen := make(map[string]bool)
	addColumn := func(names ...string) {
		for _, name := range names {
			if name != "" && !seen[name] {
				seen[name] = true
				s.Columns = append(s.Columns, name)
			}
		}
	}

	for _, op := range p.Operations {
		s.Operations = append(s.Operations, op.Verb())
		if w, ok := complexityWeights[op.Verb()]; ok {
			s.Complexity += w
		}

		switch o := op.(type) {
		case *ast.Select:
			for _, col := range o.Columns {
				addColumn(ast.Identifiers(col.Expr)...)
				addColumn(col.Alias)
			}
		case *ast.Filter:
			addColumn(ast.Identifiers(o.Condition)...)
		case *ast.Mutate:
			for _, a := range o.Assignments {
				addColumn(a.Column)
				addColumn(ast.Identifiers(a.Expr)...)
			}
		case *ast.Rename:
			for _, r := range o.Renames {
				addColumn(r.OldName, r.NewName)
			}
		case *ast.Arrange:
			for _, col := range o.Columns {
				addColumn(col.Column)
			}
		case *ast.GroupBy:
			s.HasGrouping = true
			addColumn(o.Columns...)
		case *ast.Summarise:
			s.HasAggregation = true
			for _, agg := range o.Aggregations {
				addColumn(agg.Column, agg.Alias)
			}
		case *ast.Join:
			s.Complexity += joinWeight
			addColumn(o.Spec.ByColumn)
			if o.Spec.On != nil {
				addColumn(ast.Identifiers(o.Spec.On)...)
			}
		}
	}

	s.OperationCount = len(s.Operations)
	s.Complexity = min(s.Complexity, MaxComplexity)

	if s.HasAggregation && !s.HasGrouping && s.OperationCount > 2 {
		s.Warnings = append(s.Warnings,
			"summarise() without group_by() in a longer pipeline aggregates the whole table")
	}
	if s.Complexity > 8 {
		s.Warnings = append(s.Warnings,
			fmt.Sprintf("pipeline complexity is very high (%d); consider splitting it", s.Complexity))
	}
	return s
}

// CheckComplexity rejects a summary whose score exceeds limit. A
// non-positive limit disables the check.
func CheckComplexity(s *Summary, limit int) error {
	if limit <= 0 || s.Complexity <= limit {
		return nil
	}
	return reject(TooComplex, "Break the pipeline into smaller parts",
		"pipeline complexity (%d) exceeds maximum allowed (%d)", s.Complexity, limit)
}
