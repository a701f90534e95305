package descr

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dbinfrago/json2capella/pkg/errors"
)

// extensions lists the file extensions LoadAll picks up from a directory.
var extensions = map[string]bool{
	".json": true,
	".yaml": true,
	".yml":  true,
}

// Load reads a single description file and returns its root package.
// The decoder is chosen by file extension: .json uses encoding/json,
// .yaml/.yml use YAML. Any other extension is rejected.
//
// The returned package is validated; malformed documents and missing
// required fields are fatal for the file (no partial recovery).
func Load(path string) (*Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "cannot read %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "cannot read %s", path)
	}

	var pkg Package
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, &pkg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDescription, err, "invalid JSON in %s", path)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &pkg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDescription, err, "invalid YAML in %s", path)
		}
	default:
		return nil, errors.New(errors.ErrCodeUnsupportedFormat, "unsupported input format %q (want .json, .yaml, or .yml)", ext)
	}

	if err := pkg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &pkg, nil
}

// LoadAll loads descriptions from path, which may be a single file or a
// directory. For a directory, every .json/.yaml/.yml file directly inside it
// is loaded in lexical order; subdirectories are not descended into (nesting
// is expressed via subPackages, not the filesystem).
//
// All files are loaded and validated before any are returned, so a caller
// that mutates a model afterwards never sees a half-valid input set.
func LoadAll(path string) ([]Package, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "no such input %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "cannot stat %s", path)
	}

	if !info.IsDir() {
		pkg, err := Load(path)
		if err != nil {
			return nil, err
		}
		return []Package{*pkg}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "cannot read directory %s", path)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !extensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	if len(names) == 0 {
		return nil, errors.New(errors.ErrCodeFileNotFound, "no description files found in %s", path)
	}

	pkgs := make([]Package, 0, len(names))
	for _, name := range names {
		pkg, err := Load(filepath.Join(path, name))
		if err != nil {
			return nil, err
		}
		pkgs = append(pkgs, *pkg)
	}
	return pkgs, nil
}
