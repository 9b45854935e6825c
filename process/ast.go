// Package process implements the expression AST for process-algebra
// expressions. An expression composes atomic tasks with three binary
// operators: sequencing (","), parallel composition ("||"), and
// exclusive choice ("^").
package process

// Node is the interface implemented by all expression AST nodes.
// The AST is a strict binary tree: Task is the only leaf kind, and
// Sequential, Parallel and Xor each hold exactly two children.
type Node interface {
	node()
	String() string
}

// Task is a leaf referencing an atomic activity by name.
type Task struct {
	Name string
}

// Sequential is left-before-right ordered composition.
type Sequential struct {
	Left  Node
	Right Node
}

// Parallel is concurrent composition of two subexpressions.
type Parallel struct {
	Left  Node
	Right Node
}

// Xor is an exclusive alternative between two subexpressions.
type Xor struct {
	Left  Node
	Right Node
}

func (*Task) node()       {}
func (*Sequential) node() {}
func (*Parallel) node()   {}
func (*Xor) node()        {}

func (t *Task) String() string { return t.Name }

// String renders the subexpression with explicit parentheses around
// Xor groups, matching what the grammar can parse back.
func (s *Sequential) String() string {
	return childString(s.Left) + "," + childString(s.Right)
}

func (p *Parallel) String() string {
	return childString(p.Left) + "||" + childString(p.Right)
}

func (x *Xor) String() string {
	return childString(x.Left) + "^" + childString(x.Right)
}

// childString parenthesizes Xor children. The grammar only permits
// parentheses around an Xor-rooted group, and an unparenthesized Xor
// child would reassociate on reparse.
func childString(n Node) string {
	if _, ok := n.(*Xor); ok {
		return "(" + n.String() + ")"
	}
	return n.String()
}

// CountTasks returns the number of Task leaves in the tree.
func CountTasks(n Node) int {
	switch v := n.(type) {
	case *Task:
		return 1
	case *Sequential:
		return CountTasks(v.Left) + CountTasks(v.Right)
	case *Parallel:
		return CountTasks(v.Left) + CountTasks(v.Right)
	case *Xor:
		return CountTasks(v.Left) + CountTasks(v.Right)
	}
	return 0
}

// CountNodes returns the total number of nodes, leaves included.
func CountNodes(n Node) int {
	switch v := n.(type) {
	case *Task:
		return 1
	case *Sequential:
		return 1 + CountNodes(v.Left) + CountNodes(v.Right)
	case *Parallel:
		return 1 + CountNodes(v.Left) + CountNodes(v.Right)
	case *Xor:
		return 1 + CountNodes(v.Left) + CountNodes(v.Right)
	}
	return 0
}
