package vega

import (
	"fmt"
)

// Validate checks the structural guarantees the external renderer relies on:
//
//   - exactly one data source named "table"
//   - data source and scale names unique within the spec
//   - every scale domain reference resolves to a declared data source
//   - every mark (including nested group marks) reads from a declared source
//     or from a facet partition declared by an enclosing group
//
// It returns the first violation found, or nil for a well-formed spec.
func Validate(s *Spec) error {
	data := make(map[string]bool, len(s.Data))
	tableCount := 0
	for _, d := range s.Data {
		if data[d.Name] {
			return fmt.Errorf("duplicate data source %q", d.Name)
		}
		data[d.Name] = true
		if d.Name == TableName {
			tableCount++
		}
		if d.Source != "" && !data[d.Source] {
			return fmt.Errorf("data source %q derives from undeclared source %q", d.Name, d.Source)
		}
	}
	if tableCount != 1 {
		return fmt.Errorf("expected exactly one %q data source, found %d", TableName, tableCount)
	}

	scales := make(map[string]bool, len(s.Scales))
	for _, sc := range s.Scales {
		if scales[sc.Name] {
			return fmt.Errorf("duplicate scale %q", sc.Name)
		}
		scales[sc.Name] = true
		if err := validateScaleDomain(sc, data); err != nil {
			return err
		}
	}

	for _, a := range s.Axes {
		if !scales[a.Scale] {
			return fmt.Errorf("axis references undeclared scale %q", a.Scale)
		}
	}

	for i := range s.Marks {
		if err := validateMark(&s.Marks[i], data); err != nil {
			return err
		}
	}
	return nil
}

func validateScaleDomain(sc Scale, data map[string]bool) error {
	if sc.Domain == nil || sc.Domain.Values != nil {
		return nil
	}
	if !data[sc.Domain.Data] {
		return fmt.Errorf("scale %q domain references undeclared data source %q", sc.Name, sc.Domain.Data)
	}
	return nil
}

func validateMark(m *Mark, data map[string]bool) error {
	// Facet partitions are visible to the group's inner marks.
	inner := data
	if m.From != nil {
		switch {
		case m.From.Facet != nil:
			if !data[m.From.Facet.Data] {
				return fmt.Errorf("%s mark facets undeclared data source %q", m.Type, m.From.Facet.Data)
			}
			inner = make(map[string]bool, len(data)+1)
			for k := range data {
				inner[k] = true
			}
			inner[m.From.Facet.Name] = true
		case m.From.Data != "":
			if !data[m.From.Data] {
				return fmt.Errorf("%s mark reads undeclared data source %q", m.Type, m.From.Data)
			}
		}
	}
	for i := range m.Marks {
		if err := validateMark(&m.Marks[i], inner); err != nil {
			return err
		}
	}
	return nil
}
