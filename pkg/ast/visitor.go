package ast

// Walk traverses an AST depth-first and calls fn for each node, operation
// and expression. If fn returns false, the children of that node are skipped.
func Walk(node any, fn func(node any) bool) {
	if node == nil {
		return
	}
	if !fn(node) {
		return
	}
	walkNode(node, fn)
}

func walkNode(node any, fn func(node any) bool) {
	switch n := node.(type) {
	case *Pipeline:
		for _, op := range n.Operations {
			Walk(op, fn)
		}

	case *Select:
		for _, col := range n.Columns {
			Walk(col.Expr, fn)
		}

	case *Filter:
		Walk(n.Condition, fn)

	case *Mutate:
		for _, a := range n.Assignments {
			Walk(a.Expr, fn)
		}

	case *Join:
		if n.Spec.On != nil {
			Walk(n.Spec.On, fn)
		}

	case *Binary:
		Walk(n.Left, fn)
		Walk(n.Right, fn)

	case *Function:
		for _, arg := range n.Args {
			Walk(arg, fn)
		}

	// Leaf nodes
	case *DataSource, *Rename, *Arrange, *GroupBy, *Summarise, *Identifier, *Literal:
	}
}

// Identifiers returns the column names referenced by expr, in order of
// first appearance.
func Identifiers(expr Expr) []string {
	var names []string
	seen := make(map[string]bool)
	Walk(expr, func(node any) bool {
		if id, ok := node.(*Identifier); ok && !seen[id.Name] {
			seen[id.Name] = true
			names = append(names, id.Name)
		}
		return true
	})
	return names
}

// CollectFunctions returns every function call in node, outermost first.
func CollectFunctions(node any) []*Function {
	var funcs []*Function
	Walk(node, func(n any) bool {
		if fc, ok := n.(*Function); ok {
			funcs = append(funcs, fc)
		}
		return true
	})
	return funcs
}

// Depth returns the nesting depth of expr. Leaves have depth 1.
func Depth(expr Expr) int {
	switch e := expr.(type) {
	case *Binary:
		return 1 + max(Depth(e.Left), Depth(e.Right))
	case *Function:
		d := 0
		for _, arg := range e.Args {
			d = max(d, Depth(arg))
		}
		return 1 + d
	case nil:
		return 0
	default:
		return 1
	}
}
