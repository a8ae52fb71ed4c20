package production

import (
	"bytes"
	"fmt"
	"sort"
)

// StoppedNode names the empty-stack node in exported graphs.
const StoppedNode = "(stopped)"

// Edge is an aggregated transition between two top states.
type Edge struct {
	From  string
	To    string
	Kind  string
	Count int
}

// CollectEdges folds records into unique from/to/kind edges, in order of
// first appearance.
func CollectEdges(records []Record) []Edge {
	index := make(map[Edge]int)
	var edges []Edge
	for _, rec := range records {
		key := Edge{From: nodeName(rec.From), To: nodeName(rec.To), Kind: rec.Kind}
		if i, ok := index[key]; ok {
			edges[i].Count++
			continue
		}
		index[key] = len(edges)
		key.Count = 1
		edges = append(edges, key)
	}
	return edges
}

// ExportDOT renders records as Graphviz DOT source. The active state, if
// non-empty, is highlighted.
func ExportDOT(records []Record, active string) string {
	var buf bytes.Buffer
	buf.WriteString(`digraph StateStack {
  rankdir=LR;
  node [shape=box, fontsize=10, style=rounded];
  edge [fontsize=9];
`)

	edges := CollectEdges(records)

	nodes := make(map[string]bool)
	for _, e := range edges {
		nodes[e.From] = true
		nodes[e.To] = true
	}
	if active != "" {
		nodes[active] = true
	}
	names := make([]string, 0, len(nodes))
	for n := range nodes {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, n := range names {
		style := ""
		switch {
		case n == active:
			style = ` style=filled fillcolor=lightgreen`
		case n == StoppedNode:
			style = ` shape=point`
		}
		fmt.Fprintf(&buf, "  %q [label=%q%s];\n", n, n, style)
	}

	for _, e := range edges {
		label := e.Kind
		if e.Count > 1 {
			label = fmt.Sprintf("%s x%d", e.Kind, e.Count)
		}
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.From, e.To, label)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeName(state string) string {
	if state == "" {
		return StoppedNode
	}
	return state
}
