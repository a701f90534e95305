package capella

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/dbinfrago/json2capella/pkg/errors"
)

// DataPkgs returns every data package in the model, across all layers and
// nesting levels, in document order.
func (m *Model) DataPkgs() []*Pkg {
	var out []*Pkg
	walk(m.doc.Root(), func(el *etree.Element) {
		if xsiType(el) == typeDataPkg {
			out = append(out, &Pkg{element{model: m, el: el}})
		}
	})
	return out
}

// Layer reports which architecture layer the package belongs to, or ""
// for packages outside any known architecture.
func (p *Pkg) Layer() Layer {
	return layerOf(p.el)
}

// Path returns the package's slash-separated location in the data package
// hierarchy, e.g. "Data/Signals/Types".
func (p *Pkg) Path() string {
	var parts []string
	for cur := p.el; cur != nil; cur = cur.Parent() {
		if xsiType(cur) != typeDataPkg {
			break
		}
		parts = append([]string{cur.SelectAttrValue("name", "")}, parts...)
	}
	return strings.Join(parts, "/")
}

// FindDataPkg resolves idOrName to a single data package. An exact id
// match wins; otherwise the name must identify exactly one package in the
// whole model. Ambiguous names fail with a list of the candidates, so the
// user can retry with an id.
func (m *Model) FindDataPkg(idOrName string) (*Pkg, error) {
	if el, ok := m.ByID(idOrName); ok {
		if xsiType(el) != typeDataPkg {
			return nil, errors.New(errors.ErrCodePackageNotFound,
				"element %s is not a data package (found %s)", idOrName, xsiType(el))
		}
		return &Pkg{element{model: m, el: el}}, nil
	}

	var matches []*Pkg
	for _, pkg := range m.DataPkgs() {
		if pkg.Name() == idOrName {
			matches = append(matches, pkg)
		}
	}

	switch len(matches) {
	case 0:
		return nil, errors.New(errors.ErrCodePackageNotFound,
			"no data package with id or name %q", idOrName)
	case 1:
		return matches[0], nil
	default:
		var lines []string
		for _, pkg := range matches {
			lines = append(lines, fmt.Sprintf("  %s at %s", pkg.ID(), pkg.Path()))
		}
		return nil, errors.New(errors.ErrCodeAmbiguousPackage,
			"more than one data package named %q:\n%s", idOrName, strings.Join(lines, "\n"))
	}
}

// Parent returns the data package owning p, or false when p is the root
// of its package tree (its parent is the architecture, not a package).
func (p *Pkg) Parent() (*Pkg, bool) {
	parent := p.el.Parent()
	if parent == nil || xsiType(parent) != typeDataPkg {
		return nil, false
	}
	return &Pkg{element{model: p.model, el: parent}}, true
}

// FindType looks for a named type (class, enumeration, or any other data
// type) in the subtree rooted at p. The search prefers the nearest scope:
// p's own children first, then each nested package depth-first. Returns
// the element id of the match.
func (p *Pkg) FindType(name string) (string, bool) {
	for _, el := range p.el.SelectElements("ownedClasses") {
		if el.SelectAttrValue("name", "") == name {
			return el.SelectAttrValue("id", ""), true
		}
	}
	for _, el := range p.el.SelectElements("ownedDataTypes") {
		if el.SelectAttrValue("name", "") == name {
			return el.SelectAttrValue("id", ""), true
		}
	}
	for _, sub := range p.Packages() {
		if id, ok := sub.FindType(name); ok {
			return id, true
		}
	}
	return "", false
}
