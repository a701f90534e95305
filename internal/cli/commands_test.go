package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dbinfrago/json2capella/pkg/capella"
	"github.com/dbinfrago/json2capella/pkg/descr"
	"github.com/dbinfrago/json2capella/pkg/diagram"
	"github.com/dbinfrago/json2capella/pkg/errors"
)

const testModelXML = `<?xml version="1.0" encoding="UTF-8"?>
<org.polarsys.capella.core.data.capellamodeller:Project xmi:version="2.0" xmlns:xmi="http://www.omg.org/XMI" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xmlns:org.polarsys.capella.core.data.capellacore="http://www.polarsys.org/capella/core/core/7.0.0" xmlns:org.polarsys.capella.core.data.capellamodeller="http://www.polarsys.org/capella/core/modeller/7.0.0" xmlns:org.polarsys.capella.core.data.information="http://www.polarsys.org/capella/core/information/7.0.0" xmlns:org.polarsys.capella.core.data.information.datatype="http://www.polarsys.org/capella/core/information/datatype/7.0.0" xmlns:org.polarsys.capella.core.data.information.datavalue="http://www.polarsys.org/capella/core/information/datavalue/7.0.0" xmlns:org.polarsys.capella.core.data.la="http://www.polarsys.org/capella/core/la/7.0.0" id="proj-1" name="Demo">
  <ownedModelRoots xsi:type="org.polarsys.capella.core.data.capellamodeller:SystemEngineering" id="se-1" name="Demo">
    <ownedArchitectures xsi:type="org.polarsys.capella.core.data.la:LogicalArchitecture" id="arch-la" name="Logical Architecture">
      <ownedAbstractDataPkg xsi:type="org.polarsys.capella.core.data.information:DataPkg" id="pkg-root" name="Data">
        <ownedDataPkgs xsi:type="org.polarsys.capella.core.data.information:DataPkg" id="pkg-predef" name="Predefined Types">
          <ownedDataTypes xsi:type="org.polarsys.capella.core.data.information.datatype:StringType" id="type-string" name="String"/>
          <ownedDataTypes xsi:type="org.polarsys.capella.core.data.information.datatype:NumericType" id="type-float" kind="FLOAT" name="Float"/>
        </ownedDataPkgs>
      </ownedAbstractDataPkg>
    </ownedArchitectures>
  </ownedModelRoots>
</org.polarsys.capella.core.data.capellamodeller:Project>
`

const testInputJSON = `{
  "name": "Signals",
  "info": "Signalling data",
  "structs": [
    {
      "name": "Signal",
      "attrs": [
        {"name": "position", "data_type": "Float", "multiplicity": "1"},
        {"name": "label", "data_type": "String"}
      ]
    }
  ],
  "enums": [
    {"name": "SignalState", "enumLiterals": [{"name": "CLEAR"}, {"name": "STOP"}]}
  ]
}
`

func writeFixtures(t *testing.T) (model, input string) {
	t.Helper()
	dir := t.TempDir()
	model = filepath.Join(dir, "demo.capella")
	input = filepath.Join(dir, "signals.json")
	if err := os.WriteFile(model, []byte(testModelXML), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(input, []byte(testInputJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	return model, input
}

func TestRunImportAndExportRoundTrip(t *testing.T) {
	model, input := writeFixtures(t)
	ctx := context.Background()

	err := runImport(ctx, &importOpts{model: model, layer: "la"}, input)
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	// The saved model now contains the imported package.
	m, err := capella.Open(model)
	if err != nil {
		t.Fatal(err)
	}
	signals, err := m.FindDataPkg("Signals")
	if err != nil {
		t.Fatalf("imported package not found: %v", err)
	}
	if _, ok := signals.ClassByName("Signal"); !ok {
		t.Error("Signal class missing after import")
	}

	out := filepath.Join(t.TempDir(), "out.json")
	err = runExport(ctx, &exportOpts{model: model, layer: "la", pkg: "Signals", output: out, indent: 2})
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	exported, err := descr.Load(out)
	if err != nil {
		t.Fatal(err)
	}
	if exported.Name != "Signals" || len(exported.Structs) != 1 || len(exported.Enums) != 1 {
		t.Errorf("exported tree = %+v", exported)
	}
}

func TestRunImportDryRunDoesNotSave(t *testing.T) {
	model, input := writeFixtures(t)
	before, err := os.ReadFile(model)
	if err != nil {
		t.Fatal(err)
	}

	err = runImport(context.Background(), &importOpts{model: model, layer: "la", dryRun: true}, input)
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}

	after, err := os.ReadFile(model)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("dry run modified the model file")
	}
}

func TestRunImportInvalidInputLeavesModelAlone(t *testing.T) {
	model, _ := writeFixtures(t)
	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte(`{"structs": []}`), 0o644); err != nil {
		t.Fatal(err)
	}
	before, _ := os.ReadFile(model)

	err := runImport(context.Background(), &importOpts{model: model, layer: "la"}, bad)
	if !errors.Is(err, errors.ErrCodeMissingField) {
		t.Fatalf("err = %v, want MISSING_FIELD", err)
	}

	after, _ := os.ReadFile(model)
	if string(before) != string(after) {
		t.Error("failed import modified the model file")
	}
}

func TestRunImportWritesToOutput(t *testing.T) {
	model, input := writeFixtures(t)
	out := filepath.Join(t.TempDir(), "copy.capella")

	err := runImport(context.Background(), &importOpts{model: model, layer: "la", output: out}, input)
	if err != nil {
		t.Fatal(err)
	}

	// Original untouched, copy has the import.
	orig, err := capella.Open(model)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := orig.FindDataPkg("Signals"); err == nil {
		t.Error("original model was modified despite --output")
	}
	copied, err := capella.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := copied.FindDataPkg("Signals"); err != nil {
		t.Errorf("output model missing import: %v", err)
	}
}

func TestRunValidate(t *testing.T) {
	_, input := writeFixtures(t)

	if err := runValidate(context.Background(), []string{input}); err != nil {
		t.Errorf("valid input rejected: %v", err)
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte(`not json`), 0o644); err != nil {
		t.Fatal(err)
	}
	err := runValidate(context.Background(), []string{input, bad})
	if !errors.Is(err, errors.ErrCodeInvalidDescription) {
		t.Errorf("err = %v, want INVALID_DESCRIPTION", err)
	}
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		flag    string
		output  string
		want    diagram.Format
		wantErr bool
	}{
		{flag: "svg", output: "x.png", want: diagram.FormatSVG}, // explicit flag wins
		{flag: "", output: "x.png", want: diagram.FormatPNG},
		{flag: "", output: "x.dot", want: diagram.FormatDOT},
		{flag: "", output: "", want: diagram.FormatDOT},
		{flag: "gif", output: "", wantErr: true},
		{flag: "", output: "x.gif", wantErr: true},
	}

	for _, tt := range tests {
		got, err := resolveFormat(tt.flag, tt.output)
		if tt.wantErr {
			if err == nil {
				t.Errorf("resolveFormat(%q, %q) = %v, want error", tt.flag, tt.output, got)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("resolveFormat(%q, %q) = %v, %v, want %v", tt.flag, tt.output, got, err, tt.want)
		}
	}
}

func TestRunDiagramDOT(t *testing.T) {
	model, input := writeFixtures(t)
	if err := runImport(context.Background(), &importOpts{model: model, layer: "la"}, input); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(t.TempDir(), "signals.dot")
	err := runDiagram(context.Background(), &diagramOpts{model: model, layer: "la", pkg: "Signals", output: out})
	if err != nil {
		t.Fatal(err)
	}

	dot, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(dot), "digraph classes") {
		t.Errorf("unexpected DOT output:\n%s", dot)
	}
}
