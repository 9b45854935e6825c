// Package visualization renders annotated process instances as
// Graphviz DOT text. Each instance node becomes one labeled box and
// each parent/child relation one labeled edge, so a rendered instance
// can be inspected with any DOT viewer.
package visualization

import (
	"fmt"
	"os"
	"strings"

	"github.com/pflow-xyz/go-cpi/cpi"
)

// ToDOT converts a process instance to DOT format. Node names combine
// kind and id ("task3", "nature0") and are unique within an instance
// because ids are. Task labels carry the duration and every impact
// value; nature labels carry the drawn probability.
func ToDOT(root *cpi.Node) string {
	lines := []string{"digraph G {", "    node [shape=box];"}
	lines = appendNode(lines, root)
	lines = append(lines, "}")
	return strings.Join(lines, "\n")
}

// SaveDOT renders an instance to DOT and writes it to a file.
func SaveDOT(root *cpi.Node, filename string) error {
	return os.WriteFile(filename, []byte(ToDOT(root)), 0644)
}

func nodeName(n *cpi.Node) string {
	return fmt.Sprintf("%s%d", n.Kind, n.ID)
}

// appendNode emits the node line for n, then its outgoing edges, then
// recurses into each child. Children appear after their parent.
func appendNode(lines []string, n *cpi.Node) []string {
	name := nodeName(n)

	switch n.Kind {
	case cpi.KindTask:
		label := fmt.Sprintf("%s\\nduration: %d", name, n.Duration)
		for i, v := range n.Impacts {
			label += fmt.Sprintf("\\nimpact_%d: %v", i+1, v)
		}
		lines = append(lines, fmt.Sprintf("    %s [label=\"%s\"];", name, label))
	case cpi.KindNature:
		lines = append(lines, fmt.Sprintf("    %s [label=\"%s\\np=%v\"];", name, name, n.Probability))
	default:
		lines = append(lines, fmt.Sprintf("    %s [label=\"%s\"];", name, name))
	}

	switch n.Kind {
	case cpi.KindSequence:
		lines = appendEdge(lines, name, n.Head, "head")
		lines = appendEdge(lines, name, n.Tail, "tail")
		lines = appendNode(lines, n.Head)
		lines = appendNode(lines, n.Tail)
	case cpi.KindParallel:
		lines = appendEdge(lines, name, n.FirstSplit, "first")
		lines = appendEdge(lines, name, n.SecondSplit, "second")
		lines = appendNode(lines, n.FirstSplit)
		lines = appendNode(lines, n.SecondSplit)
	case cpi.KindChoice, cpi.KindNature:
		lines = appendEdge(lines, name, n.TrueBranch, "true")
		lines = appendEdge(lines, name, n.FalseBranch, "false")
		lines = appendNode(lines, n.TrueBranch)
		lines = appendNode(lines, n.FalseBranch)
	}

	return lines
}

func appendEdge(lines []string, from string, to *cpi.Node, label string) []string {
	return append(lines, fmt.Sprintf("    %s -> %s [label=\"%s\"];", from, nodeName(to), label))
}
