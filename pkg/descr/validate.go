package descr

import (
	"fmt"

	"github.com/dbinfrago/json2capella/pkg/errors"
)

// Validate checks the package description for structural problems:
// missing required fields, malformed multiplicities, and duplicate sibling
// names. It recurses into nested packages.
//
// Matching during synchronization is by name scoped to the parent package,
// so duplicate names among siblings would make the result order-dependent
// and are rejected up front.
func (p *Package) Validate() error {
	if err := errors.ValidateElementName(p.Name); err != nil {
		return fmt.Errorf("package: %w", err)
	}

	seen := map[string]string{}
	claim := func(kind, name string) error {
		if prev, ok := seen[name]; ok {
			return errors.New(errors.ErrCodeDuplicateName,
				"package %q: %s %q collides with %s of the same name", p.Name, kind, name, prev)
		}
		seen[name] = kind
		return nil
	}

	for i := range p.Structs {
		s := &p.Structs[i]
		if err := s.validate(); err != nil {
			return fmt.Errorf("package %q: %w", p.Name, err)
		}
		if err := claim("class", s.Name); err != nil {
			return err
		}
	}

	for i := range p.Enums {
		e := &p.Enums[i]
		if err := e.validate(); err != nil {
			return fmt.Errorf("package %q: %w", p.Name, err)
		}
		if err := claim("enum", e.Name); err != nil {
			return err
		}
	}

	for i := range p.SubPackages {
		sub := &p.SubPackages[i]
		if err := sub.Validate(); err != nil {
			return err
		}
		if err := claim("package", sub.Name); err != nil {
			return err
		}
	}

	return nil
}

func (s *Struct) validate() error {
	if err := errors.ValidateElementName(s.Name); err != nil {
		return fmt.Errorf("class: %w", err)
	}
	if s.Extends != "" {
		if err := errors.ValidateTypeRef(s.Extends); err != nil {
			return fmt.Errorf("class %q extends: %w", s.Name, err)
		}
	}

	seen := map[string]bool{}
	for i := range s.Attrs {
		a := &s.Attrs[i]
		if err := a.validate(); err != nil {
			return fmt.Errorf("class %q: %w", s.Name, err)
		}
		if seen[a.Name] {
			return errors.New(errors.ErrCodeDuplicateName, "class %q: duplicate attribute %q", s.Name, a.Name)
		}
		seen[a.Name] = true
	}
	return nil
}

func (a *Attr) validate() error {
	if err := errors.ValidateElementName(a.Name); err != nil {
		return fmt.Errorf("attribute: %w", err)
	}
	if err := errors.ValidateTypeRef(a.DataType); err != nil {
		return fmt.Errorf("attribute %q: %w", a.Name, err)
	}
	if _, err := ParseMultiplicity(a.Multiplicity); err != nil {
		return fmt.Errorf("attribute %q: %w", a.Name, err)
	}
	return nil
}

func (e *Enum) validate() error {
	if err := errors.ValidateElementName(e.Name); err != nil {
		return fmt.Errorf("enum: %w", err)
	}

	seen := map[string]bool{}
	for i := range e.Literals {
		l := &e.Literals[i]
		if err := errors.ValidateElementName(l.Name); err != nil {
			return fmt.Errorf("enum %q literal: %w", e.Name, err)
		}
		if seen[l.Name] {
			return errors.New(errors.ErrCodeDuplicateName, "enum %q: duplicate literal %q", e.Name, l.Name)
		}
		seen[l.Name] = true
	}
	return nil
}
