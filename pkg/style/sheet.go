package style

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidSheet is wrapped by every sheet validation failure.
var ErrInvalidSheet = errors.New("style: invalid sheet")

// Declaration is a single CSS property/value pair. Values may reference theme
// tokens through custom properties, e.g. var(--accent).
type Declaration struct {
	Property string `yaml:"property" json:"property"`
	Value    string `yaml:"value" json:"value"`
}

// Block is a nested rule; "&" in Selector is replaced by the slot's class.
type Block struct {
	Selector     string        `yaml:"selector" json:"selector"`
	Declarations []Declaration `yaml:"declarations" json:"declarations"`
}

// Rule holds the declarations of one slot.
type Rule struct {
	Slot         Slot          `yaml:"slot" json:"slot"`
	Declarations []Declaration `yaml:"declarations,omitempty" json:"declarations,omitempty"`
	Nested       []Block       `yaml:"nested,omitempty" json:"nested,omitempty"`
}

// Sheet describes the rules of a component. Rule order is preserved in the
// generated CSS.
type Sheet struct {
	Name  string `yaml:"name" json:"name"`
	Rules []Rule `yaml:"rules" json:"rules"`
}

// Slots lists the sheet's slots in declaration order.
func (s *Sheet) Slots() []Slot {
	if s == nil {
		return nil
	}
	slots := make([]Slot, 0, len(s.Rules))
	for _, rule := range s.Rules {
		slots = append(slots, rule.Slot)
	}
	return slots
}

// Validate checks the sheet is well formed.
func (s *Sheet) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: sheet is nil", ErrInvalidSheet)
	}
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidSheet)
	}
	seen := make(map[Slot]struct{}, len(s.Rules))
	for idx, rule := range s.Rules {
		slot := Slot(strings.TrimSpace(string(rule.Slot)))
		if slot == "" {
			return fmt.Errorf("%w: %s rule %d has no slot", ErrInvalidSheet, s.Name, idx)
		}
		if strings.ContainsAny(string(slot), " .#&:{}") {
			return fmt.Errorf("%w: %s slot %q contains selector characters", ErrInvalidSheet, s.Name, slot)
		}
		if _, exists := seen[slot]; exists {
			return fmt.Errorf("%w: %s slot %q declared twice", ErrInvalidSheet, s.Name, slot)
		}
		seen[slot] = struct{}{}

		if err := validateDeclarations(rule.Declarations); err != nil {
			return fmt.Errorf("%w: %s slot %q: %v", ErrInvalidSheet, s.Name, slot, err)
		}
		for _, block := range rule.Nested {
			if !strings.Contains(block.Selector, "&") {
				return fmt.Errorf("%w: %s slot %q nested selector %q must reference &", ErrInvalidSheet, s.Name, slot, block.Selector)
			}
			if err := validateDeclarations(block.Declarations); err != nil {
				return fmt.Errorf("%w: %s slot %q selector %q: %v", ErrInvalidSheet, s.Name, slot, block.Selector, err)
			}
		}
	}
	return nil
}

func validateDeclarations(decls []Declaration) error {
	for _, decl := range decls {
		if strings.TrimSpace(decl.Property) == "" {
			return errors.New("declaration property is required")
		}
		if strings.ContainsAny(decl.Value, ";{}") {
			return fmt.Errorf("declaration %q value contains a rule delimiter", decl.Property)
		}
	}
	return nil
}

// LoadSheet decodes a YAML sheet descriptor and validates it.
func LoadSheet(r io.Reader) (*Sheet, error) {
	if r == nil {
		return nil, errors.New("style: sheet reader is nil")
	}
	var sheet Sheet
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&sheet); err != nil {
		return nil, fmt.Errorf("style: decode sheet: %w", err)
	}
	if err := sheet.Validate(); err != nil {
		return nil, err
	}
	return &sheet, nil
}

// fingerprint is a stable textual form of the sheet used for scoping.
func (s *Sheet) fingerprint() string {
	var b strings.Builder
	b.WriteString(s.Name)
	for _, rule := range s.Rules {
		b.WriteString("|")
		b.WriteString(string(rule.Slot))
		writeDeclarations(&b, rule.Declarations)
		for _, block := range rule.Nested {
			b.WriteString("[")
			b.WriteString(block.Selector)
			writeDeclarations(&b, block.Declarations)
			b.WriteString("]")
		}
	}
	return b.String()
}

func writeDeclarations(b *strings.Builder, decls []Declaration) {
	for _, decl := range decls {
		b.WriteString(";")
		b.WriteString(decl.Property)
		b.WriteString(":")
		b.WriteString(decl.Value)
	}
}
