package capella

import (
	"github.com/beevik/etree"
	"github.com/google/uuid"
)

// newID mints an id attribute value for a freshly created element.
func newID() string { return uuid.NewString() }

// element is the shared base of all model element wrappers. It pairs the
// underlying XML element with the model it belongs to so navigation can
// resolve cross-references.
type element struct {
	model *Model
	el    *etree.Element
}

// ID returns the element's id attribute.
func (e element) ID() string { return e.el.SelectAttrValue("id", "") }

// Name returns the element's name attribute.
func (e element) Name() string { return e.el.SelectAttrValue("name", "") }

// SetName sets the element's name attribute.
func (e element) SetName(name string) { e.el.CreateAttr("name", name) }

// Description returns the element's description attribute.
// Capella stores descriptions as (possibly HTML-bearing) attribute text.
func (e element) Description() string { return e.el.SelectAttrValue("description", "") }

// SetDescription sets the description attribute. An empty value removes it
// rather than leaving an empty attribute behind.
func (e element) SetDescription(desc string) {
	if desc == "" {
		e.el.RemoveAttr("description")
		return
	}
	e.el.CreateAttr("description", desc)
}

// Pkg is a DataPkg element: a container for classes, enumerations, and
// nested packages.
type Pkg struct{ element }

// Class is a Class element.
type Class struct{ element }

// Enum is an Enumeration data type element.
type Enum struct{ element }

// Property is a Property feature of a class.
type Property struct{ element }

// Literal is an EnumerationLiteral of an enumeration.
type Literal struct{ element }

// Packages returns the nested data packages, in document order.
func (p *Pkg) Packages() []*Pkg {
	var out []*Pkg
	for _, el := range p.el.SelectElements("ownedDataPkgs") {
		if xsiType(el) == typeDataPkg {
			out = append(out, &Pkg{element{model: p.model, el: el}})
		}
	}
	return out
}

// Classes returns the classes owned by the package, in document order.
func (p *Pkg) Classes() []*Class {
	var out []*Class
	for _, el := range p.el.SelectElements("ownedClasses") {
		if xsiType(el) == typeClass {
			out = append(out, &Class{element{model: p.model, el: el}})
		}
	}
	return out
}

// Enums returns the enumerations owned by the package, in document order.
// Other owned data types (numeric types, string types, ...) are skipped.
func (p *Pkg) Enums() []*Enum {
	var out []*Enum
	for _, el := range p.el.SelectElements("ownedDataTypes") {
		if xsiType(el) == typeEnumeration {
			out = append(out, &Enum{element{model: p.model, el: el}})
		}
	}
	return out
}

// PackageByName finds a direct child package by name.
func (p *Pkg) PackageByName(name string) (*Pkg, bool) {
	for _, sub := range p.Packages() {
		if sub.Name() == name {
			return sub, true
		}
	}
	return nil, false
}

// ClassByName finds a class owned by the package by name.
func (p *Pkg) ClassByName(name string) (*Class, bool) {
	for _, c := range p.Classes() {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

// EnumByName finds an enumeration owned by the package by name.
func (p *Pkg) EnumByName(name string) (*Enum, bool) {
	for _, e := range p.Enums() {
		if e.Name() == name {
			return e, true
		}
	}
	return nil, false
}

// AddPackage creates a nested data package with a fresh id.
func (p *Pkg) AddPackage(name string) *Pkg {
	el := p.el.CreateElement("ownedDataPkgs")
	el.CreateAttr("xsi:type", typeDataPkg)
	el.CreateAttr("id", newID())
	el.CreateAttr("name", name)
	return &Pkg{element{model: p.model, el: el}}
}

// AddClass creates a class in the package with a fresh id.
func (p *Pkg) AddClass(name string) *Class {
	el := p.el.CreateElement("ownedClasses")
	el.CreateAttr("xsi:type", typeClass)
	el.CreateAttr("id", newID())
	el.CreateAttr("name", name)
	return &Class{element{model: p.model, el: el}}
}

// AddEnum creates an enumeration in the package with a fresh id.
func (p *Pkg) AddEnum(name string) *Enum {
	el := p.el.CreateElement("ownedDataTypes")
	el.CreateAttr("xsi:type", typeEnumeration)
	el.CreateAttr("id", newID())
	el.CreateAttr("name", name)
	return &Enum{element{model: p.model, el: el}}
}

// Abstract reports whether the class is marked abstract.
func (c *Class) Abstract() bool {
	return c.el.SelectAttrValue("abstract", "false") == "true"
}

// SetAbstract marks the class abstract. Setting false removes the
// attribute, the metamodel default.
func (c *Class) SetAbstract(abstract bool) {
	if abstract {
		c.el.CreateAttr("abstract", "true")
		return
	}
	c.el.RemoveAttr("abstract")
}

// Properties returns the class's owned properties, in document order.
func (c *Class) Properties() []*Property {
	var out []*Property
	for _, el := range c.el.SelectElements("ownedFeatures") {
		if xsiType(el) == typeProperty {
			out = append(out, &Property{element{model: c.model, el: el}})
		}
	}
	return out
}

// PropertyByName finds an owned property by name.
func (c *Class) PropertyByName(name string) (*Property, bool) {
	for _, prop := range c.Properties() {
		if prop.Name() == name {
			return prop, true
		}
	}
	return nil, false
}

// AddProperty creates a property on the class with a fresh id and the
// default 1..1 cardinality.
func (c *Class) AddProperty(name string) *Property {
	el := c.el.CreateElement("ownedFeatures")
	el.CreateAttr("xsi:type", typeProperty)
	el.CreateAttr("id", newID())
	el.CreateAttr("name", name)
	prop := &Property{element{model: c.model, el: el}}
	prop.SetCards("1", "1")
	return prop
}

// SuperID returns the id of the class's superclass, taken from its first
// generalization, or "" when the class has none.
func (c *Class) SuperID() string {
	for _, el := range c.el.SelectElements("ownedGeneralizations") {
		if xsiType(el) == typeGeneralization {
			return refID(el.SelectAttrValue("super", ""))
		}
	}
	return ""
}

// SuperName resolves the class's superclass reference to a name, or ""
// when the class has no generalization or the reference dangles.
func (c *Class) SuperName() string {
	id := c.SuperID()
	if id == "" {
		return ""
	}
	el, ok := c.model.ByID(id)
	if !ok {
		return ""
	}
	return el.SelectAttrValue("name", "")
}

// SetSuperID points the class's generalization at the class with the given
// id, creating the generalization element on first use.
func (c *Class) SetSuperID(id string) {
	for _, el := range c.el.SelectElements("ownedGeneralizations") {
		if xsiType(el) == typeGeneralization {
			el.CreateAttr("super", "#"+id)
			return
		}
	}
	el := c.el.CreateElement("ownedGeneralizations")
	el.CreateAttr("xsi:type", typeGeneralization)
	el.CreateAttr("id", newID())
	el.CreateAttr("super", "#"+id)
}

// TypeID returns the id of the property's type, or "" when untyped.
func (p *Property) TypeID() string {
	return refID(p.el.SelectAttrValue("abstractType", ""))
}

// SetTypeID points the property at the type element with the given id.
func (p *Property) SetTypeID(id string) {
	p.el.CreateAttr("abstractType", "#"+id)
}

// TypeName resolves the property's type reference to the referenced
// element's name, or "" when the property is untyped or dangling.
func (p *Property) TypeName() string {
	id := p.TypeID()
	if id == "" {
		return ""
	}
	el, ok := p.model.ByID(id)
	if !ok {
		return ""
	}
	return el.SelectAttrValue("name", "")
}

// Cards returns the property's min and max cardinality values as stored
// ("*" for an unbounded max). Missing card elements read as the metamodel
// default of 1.
func (p *Property) Cards() (min, max string) {
	min, max = "1", "1"
	if el := p.cardElement("ownedMinCard"); el != nil {
		min = el.SelectAttrValue("value", "1")
	}
	if el := p.cardElement("ownedMaxCard"); el != nil {
		max = el.SelectAttrValue("value", "1")
	}
	return min, max
}

// SetCards sets the property's min and max cardinality values, creating
// the card elements when missing. Pass "*" for an unbounded max.
func (p *Property) SetCards(min, max string) {
	p.ensureCard("ownedMinCard", "minCard").CreateAttr("value", min)
	p.ensureCard("ownedMaxCard", "maxCard").CreateAttr("value", max)
}

func (p *Property) cardElement(tag string) *etree.Element {
	for _, el := range p.el.SelectElements(tag) {
		return el
	}
	return nil
}

func (p *Property) ensureCard(tag, name string) *etree.Element {
	if el := p.cardElement(tag); el != nil {
		return el
	}
	el := p.el.CreateElement(tag)
	el.CreateAttr("xsi:type", typeNumericValue)
	el.CreateAttr("id", newID())
	el.CreateAttr("name", name)
	return el
}

// Literals returns the enumeration's literals, in document order.
func (e *Enum) Literals() []*Literal {
	var out []*Literal
	for _, el := range e.el.SelectElements("ownedLiterals") {
		if xsiType(el) == typeLiteral {
			out = append(out, &Literal{element{model: e.model, el: el}})
		}
	}
	return out
}

// LiteralByName finds a literal by name.
func (e *Enum) LiteralByName(name string) (*Literal, bool) {
	for _, l := range e.Literals() {
		if l.Name() == name {
			return l, true
		}
	}
	return nil, false
}

// AddLiteral appends a literal to the enumeration with a fresh id.
func (e *Enum) AddLiteral(name string) *Literal {
	el := e.el.CreateElement("ownedLiterals")
	el.CreateAttr("xsi:type", typeLiteral)
	el.CreateAttr("id", newID())
	el.CreateAttr("name", name)
	return &Literal{element{model: e.model, el: el}}
}
