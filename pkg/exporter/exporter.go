// Package exporter converts Capella data packages back into description
// trees, the inverse of package importer. Exporting a package and
// re-importing the result is a fixpoint: the import reports no changes.
package exporter

import (
	"strconv"

	"github.com/dbinfrago/json2capella/pkg/capella"
	"github.com/dbinfrago/json2capella/pkg/descr"
)

// Options configures an export run.
type Options struct {
	// Logger receives warnings about model oddities (untyped properties,
	// non-numeric cardinalities). Nil discards them.
	Logger func(format string, args ...any)
}

// Exporter converts model elements to descriptions.
type Exporter struct {
	logf func(string, ...any)
}

// New creates an exporter with the given options.
func New(opts Options) *Exporter {
	logf := opts.Logger
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Exporter{logf: logf}
}

// Export converts the data package and everything below it into a
// description tree. The package's element id is recorded as the prefix so
// round trips stay traceable to their source element.
func (e *Exporter) Export(pkg *capella.Pkg) *descr.Package {
	out := &descr.Package{
		Name:   pkg.Name(),
		Info:   pkg.Description(),
		Prefix: pkg.ID(),
	}
	for _, cls := range pkg.Classes() {
		out.Structs = append(out.Structs, e.exportClass(cls))
	}
	for _, enum := range pkg.Enums() {
		out.Enums = append(out.Enums, e.exportEnum(enum))
	}
	for _, sub := range pkg.Packages() {
		subTree := e.Export(sub)
		out.SubPackages = append(out.SubPackages, *subTree)
	}
	return out
}

func (e *Exporter) exportClass(cls *capella.Class) descr.Struct {
	out := descr.Struct{
		Name:     cls.Name(),
		Info:     cls.Description(),
		Abstract: cls.Abstract(),
	}
	out.Extends = cls.SuperName()
	for _, prop := range cls.Properties() {
		out.Attrs = append(out.Attrs, e.exportAttr(cls, prop))
	}
	return out
}

func (e *Exporter) exportAttr(cls *capella.Class, prop *capella.Property) descr.Attr {
	typename := prop.TypeName()
	if typename == "" {
		e.logf("no type set, falling back to 'string' for %s.%s", cls.Name(), prop.Name())
		typename = "string"
	}

	return descr.Attr{
		Name:         prop.Name(),
		Info:         prop.Description(),
		DataType:     typename,
		Multiplicity: e.multiplicity(cls, prop),
	}
}

// multiplicity turns the property's stored min/max cards into the compact
// wire form. Non-numeric card values (Capella allows arbitrary value
// expressions there) are warned about and treated as absent.
func (e *Exporter) multiplicity(cls *capella.Class, prop *capella.Property) string {
	minVal, maxVal := prop.Cards()

	min := 0
	if v, err := strconv.Atoi(minVal); err == nil {
		min = v
	} else {
		e.logf("cannot convert min card %q of %s.%s to int, ignoring", minVal, cls.Name(), prop.Name())
	}

	max := descr.Unbounded
	if maxVal != "*" {
		if v, err := strconv.Atoi(maxVal); err == nil {
			max = v
		} else {
			e.logf("cannot convert max card %q of %s.%s to int, ignoring", maxVal, cls.Name(), prop.Name())
		}
	}

	return descr.Multiplicity{Min: min, Max: max}.String()
}

func (e *Exporter) exportEnum(enum *capella.Enum) descr.Enum {
	out := descr.Enum{
		Name: enum.Name(),
		Info: enum.Description(),
	}
	for i, lit := range enum.Literals() {
		intID := i
		out.Literals = append(out.Literals, descr.EnumLiteral{
			Name:  lit.Name(),
			Info:  lit.Description(),
			IntID: &intID,
		})
	}
	return out
}
