package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dbinfrago/json2capella/pkg/capella"
	"github.com/dbinfrago/json2capella/pkg/descr"
	"github.com/dbinfrago/json2capella/pkg/errors"
	"github.com/dbinfrago/json2capella/pkg/profile"
)

const testModelXML = `<?xml version="1.0" encoding="UTF-8"?>
<org.polarsys.capella.core.data.capellamodeller:Project xmi:version="2.0" xmlns:xmi="http://www.omg.org/XMI" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xmlns:org.polarsys.capella.core.data.capellacore="http://www.polarsys.org/capella/core/core/7.0.0" xmlns:org.polarsys.capella.core.data.capellamodeller="http://www.polarsys.org/capella/core/modeller/7.0.0" xmlns:org.polarsys.capella.core.data.information="http://www.polarsys.org/capella/core/information/7.0.0" xmlns:org.polarsys.capella.core.data.information.datatype="http://www.polarsys.org/capella/core/information/datatype/7.0.0" xmlns:org.polarsys.capella.core.data.information.datavalue="http://www.polarsys.org/capella/core/information/datavalue/7.0.0" xmlns:org.polarsys.capella.core.data.la="http://www.polarsys.org/capella/core/la/7.0.0" id="proj-1" name="Demo">
  <ownedModelRoots xsi:type="org.polarsys.capella.core.data.capellamodeller:SystemEngineering" id="se-1" name="Demo">
    <ownedArchitectures xsi:type="org.polarsys.capella.core.data.la:LogicalArchitecture" id="arch-la" name="Logical Architecture">
      <ownedAbstractDataPkg xsi:type="org.polarsys.capella.core.data.information:DataPkg" id="pkg-root" name="Data">
        <ownedDataPkgs xsi:type="org.polarsys.capella.core.data.information:DataPkg" id="pkg-predef" name="Predefined Types">
          <ownedDataTypes xsi:type="org.polarsys.capella.core.data.information.datatype:StringType" id="type-string" name="String"/>
          <ownedDataTypes xsi:type="org.polarsys.capella.core.data.information.datatype:NumericType" id="type-float" kind="FLOAT" name="Float"/>
          <ownedDataTypes xsi:type="org.polarsys.capella.core.data.information.datatype:NumericType" id="type-integer" name="Integer"/>
          <ownedDataTypes xsi:type="org.polarsys.capella.core.data.information.datatype:BooleanType" id="type-boolean" name="Boolean"/>
        </ownedDataPkgs>
      </ownedAbstractDataPkg>
    </ownedArchitectures>
  </ownedModelRoots>
</org.polarsys.capella.core.data.capellamodeller:Project>
`

func testTarget(t *testing.T) (*capella.Model, *capella.Pkg) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demo.capella")
	if err := os.WriteFile(path, []byte(testModelXML), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := capella.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	arch, err := m.Layer(capella.LayerLA)
	if err != nil {
		t.Fatal(err)
	}
	root, err := arch.DataPkg()
	if err != nil {
		t.Fatal(err)
	}
	return m, root
}

// signalsDescr is the shared input for create/update/idempotence tests.
func signalsDescr() []descr.Package {
	return []descr.Package{{
		Name: "Signals",
		Info: "Signalling data",
		Structs: []descr.Struct{
			{
				Name:    "Signal",
				Extends: "Equipment",
				Attrs: []descr.Attr{
					{Name: "position", DataType: "float", Multiplicity: "1"},
					{Name: "states", DataType: "SignalState", Multiplicity: "*"},
					{Name: "label", DataType: "String"},
				},
			},
			{Name: "Equipment", Abstract: true},
		},
		Enums: []descr.Enum{
			{Name: "SignalState", Literals: []descr.EnumLiteral{{Name: "CLEAR"}, {Name: "STOP"}}},
		},
		SubPackages: []descr.Package{
			{Name: "Types", Structs: []descr.Struct{{Name: "Position"}}},
		},
	}}
}

func TestImportCreates(t *testing.T) {
	_, root := testTarget(t)
	imp := New(Options{})

	rep, err := imp.Import(root, signalsDescr())
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	if got := rep.Counts(KindPackage).Created; got != 2 {
		t.Errorf("packages created = %d, want 2", got)
	}
	if got := rep.Counts(KindClass).Created; got != 3 {
		t.Errorf("classes created = %d, want 3", got)
	}
	if got := rep.Counts(KindProperty).Created; got != 3 {
		t.Errorf("properties created = %d, want 3", got)
	}
	if got := rep.Counts(KindLiteral).Created; got != 2 {
		t.Errorf("literals created = %d, want 2", got)
	}

	signals, ok := root.PackageByName("Signals")
	if !ok {
		t.Fatal("Signals package not created")
	}
	if signals.Description() != "Signalling data" {
		t.Errorf("package description = %q", signals.Description())
	}

	cls, ok := signals.ClassByName("Signal")
	if !ok {
		t.Fatal("Signal class not created")
	}

	// "float" resolves via the builtin alias table to the predefined Float.
	pos, ok := cls.PropertyByName("position")
	if !ok {
		t.Fatal("position property not created")
	}
	if pos.TypeName() != "Float" {
		t.Errorf("position type = %q, want Float", pos.TypeName())
	}

	// "SignalState" resolves to the enum created in the same run.
	states, ok := cls.PropertyByName("states")
	if !ok {
		t.Fatal("states property not created")
	}
	if states.TypeName() != "SignalState" {
		t.Errorf("states type = %q, want SignalState", states.TypeName())
	}
	if min, max := states.Cards(); min != "0" || max != "*" {
		t.Errorf("states cards = %s..%s, want 0..*", min, max)
	}

	// Default multiplicity applies when the description omits it.
	label, _ := cls.PropertyByName("label")
	if min, max := label.Cards(); min != "1" || max != "1" {
		t.Errorf("label cards = %s..%s, want 1..1", min, max)
	}

	// extends became a generalization towards the sibling class.
	equipment, _ := signals.ClassByName("Equipment")
	if cls.SuperID() != equipment.ID() {
		t.Errorf("Signal super = %q, want Equipment id %q", cls.SuperID(), equipment.ID())
	}
	if !equipment.Abstract() {
		t.Error("Equipment not marked abstract")
	}

	// Nested package.
	types, ok := signals.PackageByName("Types")
	if !ok {
		t.Fatal("nested Types package not created")
	}
	if _, ok := types.ClassByName("Position"); !ok {
		t.Error("class in nested package not created")
	}
}

func TestImportIsIdempotent(t *testing.T) {
	_, root := testTarget(t)
	imp := New(Options{})

	if _, err := imp.Import(root, signalsDescr()); err != nil {
		t.Fatalf("first import: %v", err)
	}
	rep, err := imp.Import(root, signalsDescr())
	if err != nil {
		t.Fatalf("second import: %v", err)
	}

	if rep.Changes() != 0 {
		t.Errorf("second import reports %d changes (%s), want 0", rep.Changes(), rep)
	}

	// No duplicates anywhere.
	signals, _ := root.PackageByName("Signals")
	if got := len(signals.Classes()); got != 2 {
		t.Errorf("classes = %d, want 2", got)
	}
	cls, _ := signals.ClassByName("Signal")
	if got := len(cls.Properties()); got != 3 {
		t.Errorf("properties = %d, want 3", got)
	}
	enum, _ := signals.EnumByName("SignalState")
	if got := len(enum.Literals()); got != 2 {
		t.Errorf("literals = %d, want 2", got)
	}
	if got := len(root.Packages()); got != 2 { // Predefined Types + Signals
		t.Errorf("root packages = %d, want 2", got)
	}
}

func TestImportUpdatesInPlace(t *testing.T) {
	_, root := testTarget(t)
	imp := New(Options{})

	if _, err := imp.Import(root, signalsDescr()); err != nil {
		t.Fatalf("first import: %v", err)
	}

	changed := signalsDescr()
	changed[0].Structs[0].Attrs[0].Multiplicity = "0..2" // position
	changed[0].Structs[0].Attrs[2].DataType = "int"      // label: String -> Integer

	rep, err := imp.Import(root, changed)
	if err != nil {
		t.Fatalf("second import: %v", err)
	}

	if got := rep.Counts(KindProperty).Updated; got != 2 {
		t.Errorf("properties updated = %d, want 2 (%s)", got, rep)
	}
	if got := rep.Counts(KindProperty).Created; got != 0 {
		t.Errorf("properties created = %d, want 0", got)
	}

	signals, _ := root.PackageByName("Signals")
	cls, _ := signals.ClassByName("Signal")
	if got := len(cls.Properties()); got != 3 {
		t.Errorf("properties = %d after update, want 3 (no duplication)", got)
	}
	pos, _ := cls.PropertyByName("position")
	if min, max := pos.Cards(); min != "0" || max != "2" {
		t.Errorf("position cards = %s..%s, want 0..2", min, max)
	}
	label, _ := cls.PropertyByName("label")
	if label.TypeName() != "Integer" {
		t.Errorf("label type = %q, want Integer", label.TypeName())
	}
}

func TestImportLeavesUndescribedAlone(t *testing.T) {
	_, root := testTarget(t)
	imp := New(Options{})

	if _, err := imp.Import(root, signalsDescr()); err != nil {
		t.Fatal(err)
	}

	// Give the model some state the descriptions don't mention.
	signals, _ := root.PackageByName("Signals")
	cls, _ := signals.ClassByName("Signal")
	extra := cls.AddProperty("operator")
	extra.SetDescription("hand-authored")
	cls.SetDescription("hand-written doc")

	// Re-import a description without info texts.
	plain := signalsDescr()
	plain[0].Structs[0].Info = ""

	if _, err := imp.Import(root, plain); err != nil {
		t.Fatal(err)
	}

	if got := len(cls.Properties()); got != 4 {
		t.Errorf("properties = %d, want 4 (extra kept)", got)
	}
	if cls.Description() != "hand-written doc" {
		t.Errorf("class description = %q, undescribed field was overwritten", cls.Description())
	}
	op, _ := cls.PropertyByName("operator")
	if op.Description() != "hand-authored" {
		t.Error("hand-authored property was touched")
	}
}

func TestImportUnresolvedType(t *testing.T) {
	_, root := testTarget(t)
	imp := New(Options{})

	pkgs := []descr.Package{{
		Name: "Broken",
		Structs: []descr.Struct{
			{Name: "C", Attrs: []descr.Attr{{Name: "x", DataType: "NoSuchType"}}},
		},
	}}

	_, err := imp.Import(root, pkgs)
	if !errors.Is(err, errors.ErrCodeUnresolvedType) {
		t.Errorf("Import = %v, want UNRESOLVED_TYPE", err)
	}
}

func TestImportQualifiedTypeRef(t *testing.T) {
	_, root := testTarget(t)
	imp := New(Options{})

	pkgs := []descr.Package{{
		Name: "Net",
		Structs: []descr.Struct{
			{Name: "Node", Attrs: []descr.Attr{{Name: "pos", DataType: "Geo.Coordinate"}}},
		},
		SubPackages: []descr.Package{
			{Name: "Geo", Structs: []descr.Struct{{Name: "Coordinate"}}},
		},
	}}

	if _, err := imp.Import(root, pkgs); err != nil {
		t.Fatalf("Import: %v", err)
	}

	net, _ := root.PackageByName("Net")
	node, _ := net.ClassByName("Node")
	pos, ok := node.PropertyByName("pos")
	if !ok || pos.TypeName() != "Coordinate" {
		t.Errorf("qualified reference not resolved: %v %q", ok, pos.TypeName())
	}
}

func TestImportProfileAlias(t *testing.T) {
	_, root := testTarget(t)
	imp := New(Options{Profile: &profile.Profile{
		DefaultMultiplicity: "*",
		Types:               map[string]string{"temperature": "Float"},
	}})

	pkgs := []descr.Package{{
		Name: "Env",
		Structs: []descr.Struct{
			{Name: "Sensor", Attrs: []descr.Attr{{Name: "readings", DataType: "temperature"}}},
		},
	}}

	if _, err := imp.Import(root, pkgs); err != nil {
		t.Fatalf("Import: %v", err)
	}

	env, _ := root.PackageByName("Env")
	sensor, _ := env.ClassByName("Sensor")
	readings, _ := sensor.PropertyByName("readings")
	if readings.TypeName() != "Float" {
		t.Errorf("readings type = %q, want Float via profile alias", readings.TypeName())
	}
	// Profile default multiplicity applies to attrs without one.
	if min, max := readings.Cards(); min != "0" || max != "*" {
		t.Errorf("readings cards = %s..%s, want 0..*", min, max)
	}
}

func TestReportString(t *testing.T) {
	rep := NewReport()
	if rep.String() != "no changes" {
		t.Errorf("empty report = %q", rep.String())
	}

	rep.record(KindPackage, Created)
	rep.record(KindClass, Created)
	rep.record(KindClass, Updated)
	rep.record(KindProperty, Unchanged)

	want := "1 packages created, 1 classes created, 1 classes updated"
	if rep.String() != want {
		t.Errorf("String() = %q, want %q", rep.String(), want)
	}
	if rep.Changes() != 3 {
		t.Errorf("Changes() = %d, want 3", rep.Changes())
	}
}
