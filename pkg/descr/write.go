package descr

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Write encodes a description tree as JSON to w. Indent is the number of
// spaces per nesting level; a negative indent produces compact output.
// The output is field-for-field compatible with [Load], so an exported
// package can be re-imported unchanged.
func Write(w io.Writer, pkg *Package, indent int) error {
	enc := json.NewEncoder(w)
	if indent >= 0 {
		enc.SetIndent("", strings.Repeat(" ", indent))
	}
	if err := enc.Encode(pkg); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteFile writes a description tree to a JSON file at path.
// This is a convenience wrapper around [Write] for file-based output.
func WriteFile(path string, pkg *Package, indent int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(f, pkg, indent)
}
