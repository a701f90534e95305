// Package importer synchronizes description trees into a Capella model.
//
// The importer is a single-threaded, depth-first walk over the
// descriptions, matching model elements by name scoped to their parent
// package. Elements missing from the model are created; elements present in
// both are updated in place for exactly the fields the description carries.
// Model content the descriptions never mention is left untouched, so
// re-importing the same input is a no-op.
//
// Work happens in two phases. The structure phase creates packages,
// classes, enumerations, and literals, so that by the time the attribute
// phase resolves type references every described type already exists —
// forward references between files and packages need no declaration order.
package importer

import (
	"strconv"
	"strings"

	"github.com/dbinfrago/json2capella/pkg/capella"
	"github.com/dbinfrago/json2capella/pkg/descr"
	"github.com/dbinfrago/json2capella/pkg/errors"
	"github.com/dbinfrago/json2capella/pkg/profile"
)

// Options configures an import run.
type Options struct {
	// Profile tunes type alias resolution and the default multiplicity.
	// Nil means profile.Default().
	Profile *profile.Profile

	// Logger receives one line per created or updated element.
	// Nil discards them.
	Logger func(format string, args ...any)
}

// Importer synchronizes descriptions into one model.
type Importer struct {
	profile *profile.Profile
	logf    func(string, ...any)
}

// New creates an importer with the given options.
func New(opts Options) *Importer {
	p := opts.Profile
	if p == nil {
		p = profile.Default()
	}
	logf := opts.Logger
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Importer{profile: p, logf: logf}
}

// pendingClass carries a class from the structure phase to the attribute
// phase together with the package scope its references resolve in.
type pendingClass struct {
	class *capella.Class
	scope *capella.Pkg
	descr *descr.Struct

	// action is the structure phase's verdict; the attribute phase may
	// still upgrade it to Updated before it is recorded.
	action Action
}

// Import synchronizes the described packages into target. Each root
// description becomes (or updates) a child package of target.
//
// On error the model may hold a partial structure phase; callers must not
// save it. Inputs should be validated beforehand (descr.LoadAll does), so
// the only expected errors are unresolved type references.
func (imp *Importer) Import(target *capella.Pkg, pkgs []descr.Package) (*Report, error) {
	rep := NewReport()

	var pending []pendingClass
	for i := range pkgs {
		imp.syncPackage(target, &pkgs[i], rep, &pending)
	}

	for _, pc := range pending {
		if err := imp.syncClassRefs(pc, rep); err != nil {
			return nil, err
		}
	}

	return rep, nil
}

// syncPackage is the structure phase for one described package: ensure the
// package and everything below it exists, then recurse.
func (imp *Importer) syncPackage(parent *capella.Pkg, d *descr.Package, rep *Report, pending *[]pendingClass) {
	pkg, ok := parent.PackageByName(d.Name)
	if !ok {
		pkg = parent.AddPackage(d.Name)
		pkg.SetDescription(d.Info)
		rep.record(KindPackage, Created)
		imp.logf("created package %s", pkg.Path())
	} else {
		rep.record(KindPackage, imp.updateInfo(pkg, d.Info, "package", pkg.Path()))
	}

	for i := range d.Structs {
		imp.syncClass(pkg, &d.Structs[i], pending)
	}
	for i := range d.Enums {
		imp.syncEnum(pkg, &d.Enums[i], rep)
	}
	for i := range d.SubPackages {
		imp.syncPackage(pkg, &d.SubPackages[i], rep, pending)
	}
}

func (imp *Importer) syncClass(pkg *capella.Pkg, d *descr.Struct, pending *[]pendingClass) {
	action := Unchanged
	cls, ok := pkg.ClassByName(d.Name)
	if !ok {
		cls = pkg.AddClass(d.Name)
		cls.SetDescription(d.Info)
		cls.SetAbstract(d.Abstract)
		action = Created
		imp.logf("created class %s/%s", pkg.Path(), d.Name)
	} else {
		action = imp.updateInfo(cls, d.Info, "class", d.Name)
		if d.Abstract && !cls.Abstract() {
			cls.SetAbstract(true)
			action = Updated
		}
	}

	// The class is recorded after the attribute phase, which may still
	// change its generalization.
	*pending = append(*pending, pendingClass{class: cls, scope: pkg, descr: d, action: action})
}

func (imp *Importer) syncEnum(pkg *capella.Pkg, d *descr.Enum, rep *Report) {
	enum, ok := pkg.EnumByName(d.Name)
	if !ok {
		enum = pkg.AddEnum(d.Name)
		enum.SetDescription(d.Info)
		rep.record(KindEnum, Created)
		imp.logf("created enum %s/%s", pkg.Path(), d.Name)
	} else {
		rep.record(KindEnum, imp.updateInfo(enum, d.Info, "enum", d.Name))
	}

	for i := range d.Literals {
		ld := &d.Literals[i]
		lit, ok := enum.LiteralByName(ld.Name)
		if !ok {
			lit = enum.AddLiteral(ld.Name)
			lit.SetDescription(ld.Info)
			rep.record(KindLiteral, Created)
			imp.logf("created literal %s.%s", d.Name, ld.Name)
		} else {
			rep.record(KindLiteral, imp.updateInfo(lit, ld.Info, "literal", d.Name+"."+ld.Name))
		}
	}
}

// syncClassRefs is the attribute phase for one class: generalization and
// typed properties, with all described types guaranteed to exist.
func (imp *Importer) syncClassRefs(pc pendingClass, rep *Report) error {
	d := pc.descr
	action := pc.action

	if d.Extends != "" {
		superID, err := imp.resolveType(pc.scope, d.Extends)
		if err != nil {
			return errors.Wrap(errors.GetCode(err), err, "class %q extends", d.Name)
		}
		if pc.class.SuperID() != superID {
			pc.class.SetSuperID(superID)
			imp.logf("set superclass of %s to %s", d.Name, d.Extends)
			if action == Unchanged {
				action = Updated
			}
		}
	}

	for i := range d.Attrs {
		if err := imp.syncAttr(pc, &d.Attrs[i], rep); err != nil {
			return err
		}
	}

	rep.record(KindClass, action)
	return nil
}

func (imp *Importer) syncAttr(pc pendingClass, a *descr.Attr, rep *Report) error {
	typeID, err := imp.resolveType(pc.scope, a.DataType)
	if err != nil {
		return errors.Wrap(errors.GetCode(err), err, "class %q attribute %q", pc.descr.Name, a.Name)
	}

	ms := a.Multiplicity
	if ms == "" {
		ms = imp.profile.DefaultMultiplicity
	}
	mult, err := descr.ParseMultiplicity(ms)
	if err != nil {
		return err
	}
	wantMin, wantMax := cardValues(mult)

	prop, ok := pc.class.PropertyByName(a.Name)
	if !ok {
		prop = pc.class.AddProperty(a.Name)
		prop.SetTypeID(typeID)
		prop.SetCards(wantMin, wantMax)
		prop.SetDescription(a.Info)
		rep.record(KindProperty, Created)
		imp.logf("created property %s.%s: %s [%s]", pc.descr.Name, a.Name, a.DataType, mult)
		return nil
	}

	action := Unchanged
	if prop.TypeID() != typeID {
		prop.SetTypeID(typeID)
		action = Updated
	}
	if min, max := prop.Cards(); min != wantMin || max != wantMax {
		prop.SetCards(wantMin, wantMax)
		action = Updated
	}
	if a.Info != "" && prop.Description() != a.Info {
		prop.SetDescription(a.Info)
		action = Updated
	}
	if action == Updated {
		imp.logf("updated property %s.%s", pc.descr.Name, a.Name)
	}
	rep.record(KindProperty, action)
	return nil
}

// updateInfo applies a described info text to an existing element and
// reports whether that changed anything. Empty info means "not described"
// and never clears an existing description.
func (imp *Importer) updateInfo(el interface {
	Description() string
	SetDescription(string)
}, info, kind, name string) Action {
	if info == "" || el.Description() == info {
		return Unchanged
	}
	el.SetDescription(info)
	imp.logf("updated %s %s", kind, name)
	return Updated
}

// resolveType resolves a type reference to an element id. Plain names
// search the scope package subtree first, then successively wider ancestor
// packages up to the root of the data package tree (which is where
// Capella's predefined types live). If nothing matches, the profile's
// alias table is applied and the search repeats. Qualified names
// ("Sub.Type") are resolved as a package path from each scope instead.
func (imp *Importer) resolveType(scope *capella.Pkg, ref string) (string, error) {
	if id, ok := lookup(scope, ref); ok {
		return id, nil
	}
	if alias, ok := imp.profile.ResolveAlias(ref); ok {
		if id, ok := lookup(scope, alias); ok {
			return id, nil
		}
	}
	return "", errors.New(errors.ErrCodeUnresolvedType, "cannot resolve type %q from package %q", ref, scope.Name())
}

func lookup(scope *capella.Pkg, ref string) (string, bool) {
	for pkg := scope; ; {
		if id, ok := lookupIn(pkg, ref); ok {
			return id, true
		}
		parent, ok := pkg.Parent()
		if !ok {
			return "", false
		}
		pkg = parent
	}
}

func lookupIn(pkg *capella.Pkg, ref string) (string, bool) {
	segments := strings.Split(ref, ".")
	for _, seg := range segments[:len(segments)-1] {
		sub, ok := pkg.PackageByName(seg)
		if !ok {
			return "", false
		}
		pkg = sub
	}
	return pkg.FindType(segments[len(segments)-1])
}

// cardValues converts a parsed multiplicity into the min/max card strings
// stored in the model ("*" for an unbounded max).
func cardValues(m descr.Multiplicity) (min, max string) {
	min = strconv.Itoa(m.Min)
	if m.Max == descr.Unbounded {
		return min, "*"
	}
	return min, strconv.Itoa(m.Max)
}
