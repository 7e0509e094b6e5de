// Package render turns tasks and navigation state into a small view-node
// tree. Building the tree is pure; Paint turns it into terminal text.
package render

import (
	"fmt"
	"sort"
	"strings"
)

// Node is one element of a rendered view.
type Node struct {
	Tag      string
	Class    string
	Text     string
	Attrs    map[string]string
	Children []Node
}

func el(tag, class string, children ...Node) Node {
	return Node{Tag: tag, Class: class, Children: children}
}

func text(tag, class, s string) Node {
	return Node{Tag: tag, Class: class, Text: s}
}

// Attr returns the named attribute, or "".
func (n Node) Attr(name string) string {
	return n.Attrs[name]
}

// HasClass reports whether class appears in n's space-separated class list.
func (n Node) HasClass(class string) bool {
	for _, c := range strings.Fields(n.Class) {
		if c == class {
			return true
		}
	}
	return false
}

// Find returns the first node in depth-first order with the given class.
func (n Node) Find(class string) (Node, bool) {
	if n.HasClass(class) {
		return n, true
	}
	for _, c := range n.Children {
		if found, ok := c.Find(class); ok {
			return found, true
		}
	}
	return Node{}, false
}

// Outline renders the tree as indented text, one node per line:
//
//	div.task-card.priority-high [task-id=1]
//	  h4.task-title "Write report"
func (n Node) Outline() string {
	var sb strings.Builder
	n.outline(&sb, 0)
	return sb.String()
}

func (n Node) outline(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(n.Tag)
	for _, c := range strings.Fields(n.Class) {
		sb.WriteString("." + c)
	}
	if len(n.Attrs) > 0 {
		keys := make([]string, 0, len(n.Attrs))
		for k := range n.Attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, len(keys))
		for i, k := range keys {
			pairs[i] = k + "=" + n.Attrs[k]
		}
		sb.WriteString(" [" + strings.Join(pairs, " ") + "]")
	}
	if n.Text != "" {
		sb.WriteString(fmt.Sprintf(" %q", n.Text))
	}
	sb.WriteString("\n")
	for _, c := range n.Children {
		c.outline(sb, depth+1)
	}
}
