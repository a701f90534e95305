// Package profile loads import profiles: small TOML files that tune how
// description files map onto a Capella model.
//
// A profile looks like:
//
//	default_multiplicity = "1"
//
//	[types]
//	int = "Integer"
//	str = "String"
//
// The [types] table maps type spellings used in description files to the
// names of types that exist in the model (usually Capella's predefined
// types). A built-in table covers the common primitive spellings; user
// entries override it.
package profile

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/dbinfrago/json2capella/pkg/descr"
	"github.com/dbinfrago/json2capella/pkg/errors"
)

// builtinAliases maps lower-cased primitive spellings to the names of
// Capella's predefined types.
var builtinAliases = map[string]string{
	"str":     "String",
	"string":  "String",
	"char":    "Char",
	"int":     "Integer",
	"integer": "Integer",
	"long":    "Long",
	"short":   "Short",
	"byte":    "Byte",
	"float":   "Float",
	"double":  "Double",
	"number":  "Float",
	"bool":    "Boolean",
	"boolean": "Boolean",
}

// Profile is a parsed import profile.
type Profile struct {
	DefaultMultiplicity string            `toml:"default_multiplicity"`
	Types               map[string]string `toml:"types"`
}

// Default returns the profile used when no --profile flag is given.
func Default() *Profile {
	return &Profile{DefaultMultiplicity: "1"}
}

// Load reads and validates a profile file.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "cannot read profile %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "cannot read profile %s", path)
	}

	p := Default()
	if err := toml.Unmarshal(data, p); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid profile %s", path)
	}
	if _, err := descr.ParseMultiplicity(p.DefaultMultiplicity); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid profile %s", path)
	}
	return p, nil
}

// ResolveAlias maps a type spelling from a description file to a model
// type name. User entries are checked verbatim first, then the built-in
// primitive table case-insensitively. The second return value reports
// whether an alias applied; when false the spelling should be looked up in
// the model as-is.
func (p *Profile) ResolveAlias(name string) (string, bool) {
	if mapped, ok := p.Types[name]; ok {
		return mapped, true
	}
	if mapped, ok := builtinAliases[strings.ToLower(name)]; ok {
		return mapped, true
	}
	return name, false
}
