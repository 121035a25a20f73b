// Package ast defines the syntax tree produced by the parser and consumed by
// the SQL generator.
//
// The tree is built once per transpile call and never mutated afterwards.
// Every child is owned by exactly one parent, so cycles cannot occur.
package ast

import "github.com/leapstack-labs/leapdplyr/pkg/token"

// Node is the base interface for all AST nodes.
type Node interface {
	// Pos returns the position of the first token of the node.
	Pos() token.Position
}

// Root is a marker interface for the two top-level node kinds.
type Root interface {
	Node
	rootNode()
}

// Pipeline is a chain of operations, optionally preceded by a data source.
type Pipeline struct {
	Source     string // empty when the pipeline starts with a verb
	Operations []Operation
	Location   token.Position
}

func (*Pipeline) rootNode() {}

// Pos implements Node.
func (p *Pipeline) Pos() token.Position { return p.Location }

// HasSource reports whether the pipeline names its input table.
func (p *Pipeline) HasSource() bool { return p.Source != "" }

// DataSource is a lone identifier: select everything from it.
type DataSource struct {
	Name     string
	Location token.Position
}

func (*DataSource) rootNode() {}

// Pos implements Node.
func (d *DataSource) Pos() token.Position { return d.Location }
