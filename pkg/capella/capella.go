// Package capella provides a thin read-modify-write layer over Capella
// model files (.capella, an XMI dialect).
//
// The package deliberately implements only the slice of the Capella
// metamodel that data-package synchronization needs: data packages,
// classes, enumerations, properties, literals, generalizations, and
// cardinalities. Everything else in the file is carried through untouched;
// the underlying document is only mutated where an operation explicitly
// edits it, so diagrams, components, and any other model content survive a
// load/save cycle.
//
// # Usage
//
//	m, err := capella.Open("project.capella")
//	if err != nil {
//	    return err
//	}
//	layer, err := m.Layer(capella.LayerLA)
//	if err != nil {
//	    return err
//	}
//	root, err := layer.DataPkg()
//	// ... navigate or mutate ...
//	err = m.Save()
package capella

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"

	"github.com/dbinfrago/json2capella/pkg/errors"
)

// xsi:type values for the metamodel elements this package touches.
const (
	typeDataPkg        = "org.polarsys.capella.core.data.information:DataPkg"
	typeClass          = "org.polarsys.capella.core.data.information:Class"
	typeEnumeration    = "org.polarsys.capella.core.data.information.datatype:Enumeration"
	typeProperty       = "org.polarsys.capella.core.data.information:Property"
	typeLiteral        = "org.polarsys.capella.core.data.information.datavalue:EnumerationLiteral"
	typeGeneralization = "org.polarsys.capella.core.data.capellacore:Generalization"
	typeNumericValue   = "org.polarsys.capella.core.data.information.datavalue:LiteralNumericValue"

	projectTag = "Project"
)

// Model is an open Capella model file.
type Model struct {
	path string
	doc  *etree.Document
}

// Open reads and parses the Capella model at path.
// The file must have a capellamodeller Project root element.
func Open(path string) (*Model, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, errors.Wrap(errors.ErrCodeModelLoad, err, "cannot read model %s", path)
	}

	root := doc.Root()
	if root == nil || root.Tag != projectTag {
		tag := "<empty>"
		if root != nil {
			tag = root.Tag
		}
		return nil, errors.New(errors.ErrCodeModelLoad, "%s: not a Capella project file (root element %s)", path, tag)
	}

	return &Model{path: path, doc: doc}, nil
}

// Path returns the file the model was opened from.
func (m *Model) Path() string { return m.path }

// Name returns the project name.
func (m *Model) Name() string {
	return m.doc.Root().SelectAttrValue("name", "")
}

// Save writes the model back to the file it was opened from.
func (m *Model) Save() error {
	return m.SaveAs(m.path)
}

// SaveAs writes the model to path. The write is atomic: the document goes
// to a temporary file in the target directory first and is renamed over
// the destination only after a successful write.
func (m *Model) SaveAs(path string) error {
	m.doc.Indent(2)

	tmp, err := os.CreateTemp(filepath.Dir(path), ".json2capella-*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeModelSave, err, "cannot create temp file for %s", path)
	}
	tmpName := tmp.Name()

	if _, err := m.doc.WriteTo(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeModelSave, err, "cannot write model %s", path)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeModelSave, err, "cannot write model %s", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeModelSave, err, "cannot replace model %s", path)
	}
	return nil
}

// ByID finds any element in the model by its id attribute.
// The second return value reports whether the element was found.
func (m *Model) ByID(id string) (*etree.Element, bool) {
	return findByID(m.doc.Root(), id)
}

func findByID(el *etree.Element, id string) (*etree.Element, bool) {
	if el.SelectAttrValue("id", "") == id {
		return el, true
	}
	for _, child := range el.ChildElements() {
		if found, ok := findByID(child, id); ok {
			return found, true
		}
	}
	return nil, false
}

// xsiType returns the xsi:type attribute of el, or its tag when untyped.
func xsiType(el *etree.Element) string {
	return el.SelectAttrValue("xsi:type", "")
}

// refID strips the same-resource fragment prefix from an XMI reference
// ("#uuid" -> "uuid").
func refID(ref string) string {
	return strings.TrimPrefix(ref, "#")
}
