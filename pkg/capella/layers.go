package capella

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/dbinfrago/json2capella/pkg/errors"
)

// Layer selects one of the Arcadia architecture layers of a model.
type Layer string

// The four architecture layers that own a data package.
const (
	LayerOA Layer = "oa" // Operational Analysis
	LayerSA Layer = "sa" // System Analysis
	LayerLA Layer = "la" // Logical Architecture
	LayerPA Layer = "pa" // Physical Architecture
)

// layerTypes maps a layer selector to the xsi:type of its architecture
// element. System Analysis lives in the "ctx" metamodel package, not "sa".
var layerTypes = map[Layer]string{
	LayerOA: "org.polarsys.capella.core.data.oa:OperationalAnalysis",
	LayerSA: "org.polarsys.capella.core.data.ctx:SystemAnalysis",
	LayerLA: "org.polarsys.capella.core.data.la:LogicalArchitecture",
	LayerPA: "org.polarsys.capella.core.data.pa:PhysicalArchitecture",
}

// ParseLayer validates a layer selector from the command line.
func ParseLayer(s string) (Layer, error) {
	l := Layer(strings.ToLower(s))
	if _, ok := layerTypes[l]; !ok {
		return "", errors.New(errors.ErrCodeUnsupportedLayer, "unsupported layer %q (want oa, sa, la, or pa)", s)
	}
	return l, nil
}

// Architecture is one architecture layer element of an open model.
type Architecture struct {
	model *Model
	el    *etree.Element
	layer Layer
}

// Layer resolves a layer selector against the model and returns the
// matching architecture. Models always carry all architecture elements, so
// a missing architecture means the selector does not fit the file.
func (m *Model) Layer(l Layer) (*Architecture, error) {
	want, ok := layerTypes[l]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupportedLayer, "unsupported layer %q", l)
	}

	var found *etree.Element
	walk(m.doc.Root(), func(el *etree.Element) {
		if found == nil && el.Tag == "ownedArchitectures" && xsiType(el) == want {
			found = el
		}
	})
	if found == nil {
		return nil, errors.New(errors.ErrCodePackageNotFound, "model %s has no %s architecture", m.path, l)
	}
	return &Architecture{model: m, el: found, layer: l}, nil
}

// Name returns the architecture element's name (e.g. "Logical Architecture").
func (a *Architecture) Name() string {
	return a.el.SelectAttrValue("name", "")
}

// DataPkg returns the architecture's root data package, creating an empty
// one named "Data" if the layer has none yet.
func (a *Architecture) DataPkg() (*Pkg, error) {
	for _, tag := range []string{"ownedAbstractDataPkg", "ownedDataPkg"} {
		for _, child := range a.el.SelectElements(tag) {
			if xsiType(child) == typeDataPkg {
				return &Pkg{element{model: a.model, el: child}}, nil
			}
		}
	}

	el := a.el.CreateElement("ownedAbstractDataPkg")
	el.CreateAttr("xsi:type", typeDataPkg)
	el.CreateAttr("id", newID())
	el.CreateAttr("name", "Data")
	return &Pkg{element{model: a.model, el: el}}, nil
}

// layerOf walks from el up to the enclosing architecture element and
// reports which layer it belongs to. Returns "" for elements outside any
// known architecture.
func layerOf(el *etree.Element) Layer {
	for cur := el; cur != nil; cur = cur.Parent() {
		if cur.Tag != "ownedArchitectures" {
			continue
		}
		t := xsiType(cur)
		for l, want := range layerTypes {
			if t == want {
				return l
			}
		}
	}
	return ""
}

// walk applies fn to el and every element below it, depth-first.
func walk(el *etree.Element, fn func(*etree.Element)) {
	fn(el)
	for _, child := range el.ChildElements() {
		walk(child, fn)
	}
}
