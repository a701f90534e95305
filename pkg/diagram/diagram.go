// Package diagram renders the class structure of a Capella data package as
// a Graphviz diagram. Classes and enumerations become nodes, nested data
// packages become clusters, and generalizations and typed attributes become
// edges.
package diagram

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dbinfrago/json2capella/pkg/capella"
)

// Options configures diagram generation.
type Options struct {
	// Compact omits attribute and literal rows from node labels.
	// When false, classes list their attributes and enums their literals.
	Compact bool
}

// ToDOT converts the data package and everything below it to Graphviz DOT.
// The resulting DOT string can be rendered with [Render].
func ToDOT(pkg *capella.Pkg, opts Options) string {
	b := &builder{
		opts:      opts,
		contained: map[string]bool{},
	}
	b.collect(pkg)

	b.buf.WriteString("digraph classes {\n")
	b.buf.WriteString("  rankdir=BT;\n")
	b.buf.WriteString("  bgcolor=\"transparent\";\n")
	b.buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, margin=\"0.2,0.1\"];\n")
	b.buf.WriteString("  edge [fontsize=10];\n")
	b.buf.WriteString("\n")

	b.writePkg(pkg, "  ", true)

	b.buf.WriteString("\n")
	for _, e := range b.edges {
		b.buf.WriteString("  " + e + "\n")
	}
	b.buf.WriteString("}\n")
	return b.buf.String()
}

type builder struct {
	buf       bytes.Buffer
	opts      Options
	contained map[string]bool // element ids inside the diagrammed subtree
	edges     []string        // emitted after all clusters so edges never bind to them
}

// collect records the ids of every class and enum below pkg, so attribute
// edges are only drawn to types that have a node in this diagram.
func (b *builder) collect(pkg *capella.Pkg) {
	for _, cls := range pkg.Classes() {
		b.contained[cls.ID()] = true
	}
	for _, enum := range pkg.Enums() {
		b.contained[enum.ID()] = true
	}
	for _, sub := range pkg.Packages() {
		b.collect(sub)
	}
}

func (b *builder) writePkg(pkg *capella.Pkg, indent string, root bool) {
	if !root {
		fmt.Fprintf(&b.buf, "%ssubgraph \"cluster_%s\" {\n", indent, pkg.ID())
		fmt.Fprintf(&b.buf, "%s  label=%q;\n", indent, pkg.Name())
		fmt.Fprintf(&b.buf, "%s  style=dashed;\n", indent)
		fmt.Fprintf(&b.buf, "%s  color=grey;\n", indent)
		indent += "  "
	}

	for _, cls := range pkg.Classes() {
		b.writeClass(cls, indent)
	}
	for _, enum := range pkg.Enums() {
		b.writeEnum(enum, indent)
	}
	for _, sub := range pkg.Packages() {
		b.writePkg(sub, indent, false)
	}

	if !root {
		b.buf.WriteString(strings.TrimSuffix(indent, "  ") + "}\n")
	}
}

func (b *builder) writeClass(cls *capella.Class, indent string) {
	label := cls.Name()
	if !b.opts.Compact {
		for _, prop := range cls.Properties() {
			label += "\n" + attrRow(prop)
		}
	}

	attrs := []string{fmt.Sprintf("label=%q", label)}
	if cls.Abstract() {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"")
	}
	fmt.Fprintf(&b.buf, "%s%q [%s];\n", indent, cls.ID(), strings.Join(attrs, ", "))

	if super := cls.SuperID(); super != "" && b.contained[super] {
		b.edges = append(b.edges, fmt.Sprintf("%q -> %q [arrowhead=onormal];", cls.ID(), super))
	}
	for _, prop := range cls.Properties() {
		typeID := prop.TypeID()
		if typeID == "" || !b.contained[typeID] {
			continue
		}
		b.edges = append(b.edges, fmt.Sprintf("%q -> %q [label=%q, style=dashed, arrowhead=vee];",
			cls.ID(), typeID, prop.Name()))
	}
}

func (b *builder) writeEnum(enum *capella.Enum, indent string) {
	label := "«enum» " + enum.Name()
	if !b.opts.Compact {
		for _, lit := range enum.Literals() {
			label += "\n" + lit.Name()
		}
	}
	fmt.Fprintf(&b.buf, "%s%q [label=%q, fillcolor=lightgrey];\n", indent, enum.ID(), label)
}

func attrRow(prop *capella.Property) string {
	row := prop.Name()
	if t := prop.TypeName(); t != "" {
		row += ": " + t
	}
	min, max := prop.Cards()
	if min != "" || max != "" {
		row += " [" + min + ".." + max + "]"
	}
	return row
}
