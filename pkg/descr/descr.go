// Package descr defines the description tree: the in-memory representation
// of JSON or YAML package definition files before they are synchronized into
// a Capella model.
//
// The wire format is the json2capella interchange schema. A minimal file
// looks like:
//
//	{
//	  "name": "Signals",
//	  "structs": [
//	    {
//	      "name": "TrackSegment",
//	      "attrs": [
//	        {"name": "length", "data_type": "Float", "multiplicity": "1"}
//	      ]
//	    }
//	  ],
//	  "enums": [
//	    {"name": "SignalState", "enumLiterals": [{"name": "CLEAR"}, {"name": "STOP"}]}
//	  ],
//	  "subPackages": []
//	}
//
// Description trees are ephemeral: they are built fresh per run from input
// files and discarded after synchronization. The durable state is the
// Capella model itself.
package descr

import (
	"strconv"
	"strings"

	"github.com/dbinfrago/json2capella/pkg/errors"
)

// Package describes a data package: a namespace-like container for classes,
// enumerations, and nested packages.
type Package struct {
	Name        string    `json:"name" yaml:"name"`
	Info        string    `json:"info,omitempty" yaml:"info,omitempty"`
	Prefix      string    `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	SubPackages []Package `json:"subPackages,omitempty" yaml:"subPackages,omitempty"`
	Structs     []Struct  `json:"structs,omitempty" yaml:"structs,omitempty"`
	Enums       []Enum    `json:"enums,omitempty" yaml:"enums,omitempty"`
}

// Struct describes a class with its attributes.
type Struct struct {
	Name     string `json:"name" yaml:"name"`
	Info     string `json:"info,omitempty" yaml:"info,omitempty"`
	Extends  string `json:"extends,omitempty" yaml:"extends,omitempty"`
	Abstract bool   `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Attrs    []Attr `json:"attrs,omitempty" yaml:"attrs,omitempty"`
}

// Attr describes a single class attribute: a named, typed property with a
// multiplicity.
type Attr struct {
	Name         string `json:"name" yaml:"name"`
	Info         string `json:"info,omitempty" yaml:"info,omitempty"`
	DataType     string `json:"data_type" yaml:"data_type"`
	Multiplicity string `json:"multiplicity,omitempty" yaml:"multiplicity,omitempty"`
}

// Enum describes an enumeration with its ordered literals.
type Enum struct {
	Name     string        `json:"name" yaml:"name"`
	Info     string        `json:"info,omitempty" yaml:"info,omitempty"`
	Literals []EnumLiteral `json:"enumLiterals,omitempty" yaml:"enumLiterals,omitempty"`
}

// EnumLiteral describes one enumeration literal.
type EnumLiteral struct {
	Name  string `json:"name" yaml:"name"`
	Info  string `json:"info,omitempty" yaml:"info,omitempty"`
	IntID *int   `json:"intId,omitempty" yaml:"intId,omitempty"`
}

// Unbounded is the Max value of a multiplicity without an upper bound.
const Unbounded = -1

// Multiplicity is the parsed form of an attribute multiplicity string.
// Max == Unbounded means no upper bound.
type Multiplicity struct {
	Min int
	Max int
}

// ParseMultiplicity parses the multiplicity forms used by the interchange
// schema:
//
//	"*"         -> 0..*
//	"3"         -> 3..3
//	"0..5"      -> 0..5
//	"1..*"      -> 1..*
//
// The empty string parses as 1..1, the schema default.
func ParseMultiplicity(s string) (Multiplicity, error) {
	if s == "" {
		return Multiplicity{Min: 1, Max: 1}, nil
	}
	if s == "*" {
		return Multiplicity{Min: 0, Max: Unbounded}, nil
	}

	lo, hi, ranged := strings.Cut(s, "..")
	if !ranged {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return Multiplicity{}, errors.New(errors.ErrCodeInvalidMultiplicity, "invalid multiplicity %q", s)
		}
		return Multiplicity{Min: n, Max: n}, nil
	}

	min, err := strconv.Atoi(lo)
	if err != nil || min < 0 {
		return Multiplicity{}, errors.New(errors.ErrCodeInvalidMultiplicity, "invalid multiplicity %q", s)
	}

	if hi == "*" {
		return Multiplicity{Min: min, Max: Unbounded}, nil
	}

	max, err := strconv.Atoi(hi)
	if err != nil || max < min {
		return Multiplicity{}, errors.New(errors.ErrCodeInvalidMultiplicity, "invalid multiplicity %q", s)
	}
	return Multiplicity{Min: min, Max: max}, nil
}

// String formats the multiplicity back into its most compact wire form.
// 0..* renders as "*", n..n as "n", everything else as "min..max".
func (m Multiplicity) String() string {
	if m.Min == 0 && m.Max == Unbounded {
		return "*"
	}
	if m.Min == m.Max {
		return strconv.Itoa(m.Min)
	}
	if m.Max == Unbounded {
		return strconv.Itoa(m.Min) + "..*"
	}
	return strconv.Itoa(m.Min) + ".." + strconv.Itoa(m.Max)
}
