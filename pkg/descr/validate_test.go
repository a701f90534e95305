package descr

import (
	"testing"

	"github.com/dbinfrago/json2capella/pkg/errors"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		pkg  Package
		want errors.Code // empty means valid
	}{
		{
			name: "valid package",
			pkg: Package{
				Name: "Signals",
				Structs: []Struct{
					{Name: "Signal", Attrs: []Attr{{Name: "state", DataType: "SignalState"}}},
				},
				Enums:       []Enum{{Name: "SignalState", Literals: []EnumLiteral{{Name: "CLEAR"}}}},
				SubPackages: []Package{{Name: "Types"}},
			},
		},
		{
			name: "missing package name",
			pkg:  Package{},
			want: errors.ErrCodeMissingField,
		},
		{
			name: "missing class name",
			pkg:  Package{Name: "P", Structs: []Struct{{}}},
			want: errors.ErrCodeMissingField,
		},
		{
			name: "missing attr type",
			pkg:  Package{Name: "P", Structs: []Struct{{Name: "C", Attrs: []Attr{{Name: "a"}}}}},
			want: errors.ErrCodeMissingField,
		},
		{
			name: "bad multiplicity",
			pkg: Package{Name: "P", Structs: []Struct{
				{Name: "C", Attrs: []Attr{{Name: "a", DataType: "String", Multiplicity: "5..1"}}},
			}},
			want: errors.ErrCodeInvalidMultiplicity,
		},
		{
			name: "duplicate classes",
			pkg:  Package{Name: "P", Structs: []Struct{{Name: "C"}, {Name: "C"}}},
			want: errors.ErrCodeDuplicateName,
		},
		{
			name: "class and enum share a name",
			pkg: Package{
				Name:    "P",
				Structs: []Struct{{Name: "State"}},
				Enums:   []Enum{{Name: "State"}},
			},
			want: errors.ErrCodeDuplicateName,
		},
		{
			name: "duplicate attributes",
			pkg: Package{Name: "P", Structs: []Struct{
				{Name: "C", Attrs: []Attr{
					{Name: "a", DataType: "String"},
					{Name: "a", DataType: "Float"},
				}},
			}},
			want: errors.ErrCodeDuplicateName,
		},
		{
			name: "duplicate literals",
			pkg: Package{Name: "P", Enums: []Enum{
				{Name: "E", Literals: []EnumLiteral{{Name: "A"}, {Name: "A"}}},
			}},
			want: errors.ErrCodeDuplicateName,
		},
		{
			name: "invalid nested package",
			pkg:  Package{Name: "P", SubPackages: []Package{{Name: "Sub", Structs: []Struct{{}}}}},
			want: errors.ErrCodeMissingField,
		},
		{
			name: "malformed extends reference",
			pkg:  Package{Name: "P", Structs: []Struct{{Name: "C", Extends: "Base..Class"}}},
			want: errors.ErrCodeInvalidName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pkg.Validate()
			if tt.want == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want code %v", err, tt.want)
			}
		})
	}
}
