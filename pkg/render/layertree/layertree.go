// Package layertree renders the classified layer structure of a drawing,
// either as a text tree or as a Graphviz diagram.
//
// It is a debugging aid for course builders: it shows which layers barnhunt
// takes to be overlays, which are hidden, and which carry an output
// basename.
package layertree

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/goccy/go-graphviz"
	"github.com/xlab/treeprint"

	"github.com/barnhunt/barnhunt/pkg/layers"
	"github.com/barnhunt/barnhunt/pkg/svg"
)

// Node is one layer.
type Node struct {
	ID             string
	Label          string
	Flags          layers.Flags
	OutputBasename string
	ExcludeFrom    []string
	Children       []*Node
}

// Build returns the layer forest below root in document order.
func Build(root *etree.Element, c *layers.Classifier, excludeFrom func(*etree.Element) []string) []*Node {
	var nodes []*Node
	for _, elem := range svg.ChildLayers(root) {
		info := c.Classify(elem)
		n := &Node{
			ID:             svg.LayerID(elem),
			Label:          info.Label,
			Flags:          info.Flags,
			OutputBasename: info.OutputBasename,
			Children:       Build(elem, c, excludeFrom),
		}
		if excludeFrom != nil {
			n.ExcludeFrom = excludeFrom(elem)
		}
		nodes = append(nodes, n)
	}
	return nodes
}

// tag renders the flags and basename the way they are written in labels.
func (n *Node) tag() string {
	if n.Flags == 0 && n.OutputBasename == "" {
		return ""
	}
	flags := n.Flags.String()
	if n.OutputBasename != "" {
		return fmt.Sprintf("%s|%s", flags, n.OutputBasename)
	}
	return flags
}

// Tree renders nodes as an indented text tree headed by title.
func Tree(title string, nodes []*Node) string {
	t := treeprint.NewWithRoot(title)
	addBranches(t, nodes)
	return t.String()
}

func addBranches(t treeprint.Tree, nodes []*Node) {
	for _, n := range nodes {
		value := n.Label
		if len(n.ExcludeFrom) > 0 {
			value += " (excluded from " + strings.Join(n.ExcludeFrom, ", ") + ")"
		}
		var b treeprint.Tree
		if tag := n.tag(); tag != "" {
			b = t.AddMetaBranch(tag, value)
		} else {
			b = t.AddBranch(value)
		}
		addBranches(b, n.Children)
	}
}

// ToDOT converts nodes to Graphviz DOT format. Overlays are drawn bold,
// hidden layers dashed and grey.
func ToDOT(title string, nodes []*Node) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	fmt.Fprintf(&buf, "  root [label=%q, shape=folder];\n", title)
	writeNodes(&buf, "root", nodes)
	buf.WriteString("}\n")
	return buf.String()
}

func writeNodes(buf *bytes.Buffer, parent string, nodes []*Node) {
	for _, n := range nodes {
		id := "layer_" + n.ID
		fmt.Fprintf(buf, "  %q [%s];\n", id, strings.Join(fmtAttrs(n), ", "))
		fmt.Fprintf(buf, "  %q -> %q;\n", parent, id)
		writeNodes(buf, id, n.Children)
	}
}

func fmtAttrs(n *Node) []string {
	label := n.Label
	if tag := n.tag(); tag != "" {
		label = "[" + tag + "] " + label
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case n.Flags.Has(layers.Hidden):
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=gray40")
	case n.Flags.Has(layers.Overlay):
		attrs = append(attrs, "penwidth=2", "fillcolor=lightyellow")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
