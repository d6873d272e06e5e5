package core

import (
	"fmt"
	"sort"
	"strings"
)

type CredentialFieldKind string

const (
	CredentialFieldString CredentialFieldKind = "string"
	CredentialFieldBool   CredentialFieldKind = "bool"
)

type CredentialField struct {
	Name     string              `json:"name"`
	Kind     CredentialFieldKind `json:"kind"`
	Required bool                `json:"required"`
}

// CredentialSchema is the vendor type's declared credential shape. An empty
// schema accepts any payload; vendor handlers that need strict shapes
// declare one at catalog-creation time.
type CredentialSchema struct {
	Fields []CredentialField `json:"fields,omitempty"`
}

func (s CredentialSchema) IsZero() bool {
	return len(s.Fields) == 0
}

type SchemaValidationError struct {
	VendorSlug string
	Missing    []string
	Invalid    []string
}

func (e *SchemaValidationError) Error() string {
	if e == nil {
		return "core: credential payload failed schema validation"
	}
	parts := []string{}
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid "+strings.Join(e.Invalid, ", "))
	}
	detail := strings.Join(parts, "; ")
	if detail == "" {
		detail = "no usable fields"
	}
	return fmt.Sprintf("core: credential payload failed schema validation for %q: %s", e.VendorSlug, detail)
}

// ValidatePayload checks a credential payload against the declared schema
// before any write happens. Unknown keys pass through untouched: the
// document shape is schema-on-read and handlers may carry extra fields.
func (s CredentialSchema) ValidatePayload(vendorSlug string, payload CredentialPayload) error {
	if s.IsZero() {
		return nil
	}
	var missing, invalid []string
	for _, field := range s.Fields {
		value, ok := payload[field.Name]
		if !ok {
			if field.Required {
				missing = append(missing, field.Name)
			}
			continue
		}
		if !fieldKindMatches(field.Kind, value) {
			invalid = append(invalid, field.Name)
		}
	}
	if len(missing) == 0 && len(invalid) == 0 {
		return nil
	}
	sort.Strings(missing)
	sort.Strings(invalid)
	return &SchemaValidationError{
		VendorSlug: strings.TrimSpace(vendorSlug),
		Missing:    missing,
		Invalid:    invalid,
	}
}

func fieldKindMatches(kind CredentialFieldKind, value any) bool {
	switch kind {
	case CredentialFieldBool:
		_, ok := value.(bool)
		return ok
	case CredentialFieldString:
		typed, ok := value.(string)
		return ok && strings.TrimSpace(typed) != ""
	default:
		return true
	}
}
