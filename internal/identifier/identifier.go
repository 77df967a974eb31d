package identifier

import (
	"regexp"
	"strconv"
	"strings"
)

// Identifier is the parsed form of a field identifier string such as
// "{{Main Content}} {Login Form} Username[1]". Location and section are
// optional prefixes; the instance suffix defaults to 1.
type Identifier struct {
	LocationName  string
	LocationValue string
	SectionName   string
	SectionValue  string
	FieldName     string
	Instance      int

	// Structured is false when the raw string did not match the
	// identifier grammar and the whole string was taken as the field
	// name. Raw always holds the original input.
	Structured bool
	Raw        string
}

// Pre-compiled grammar: optional {{name}} or {{name::value}} location,
// optional {name} or {name::value} section, field name, optional [N].
var identifierRegex = regexp.MustCompile(
	`^(?:\{\{([^{}]+?)(?:::([^{}]*))?\}\}\s*)?` +
		`(?:\{([^{}]+?)(?:::([^{}]*))?\}\s*)?` +
		`([^\[\]{}]+?)\s*(?:\[(\d+)\])?$`)

// Parse decomposes a raw field identifier. It never fails: input that does
// not match the grammar (stray brackets, zero instance, empty field name)
// is returned whole as the field name with instance 1.
func Parse(raw string) Identifier {
	fallback := Identifier{
		FieldName:  raw,
		Instance:   1,
		Structured: false,
		Raw:        raw,
	}

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return fallback
	}

	m := identifierRegex.FindStringSubmatch(trimmed)
	if m == nil {
		return fallback
	}

	field := strings.TrimSpace(m[5])
	if field == "" {
		return fallback
	}

	instance := 1
	if m[6] != "" {
		n, err := strconv.Atoi(m[6])
		if err != nil || n < 1 {
			return fallback
		}
		instance = n
	}

	return Identifier{
		LocationName:  strings.TrimSpace(m[1]),
		LocationValue: strings.TrimSpace(m[2]),
		SectionName:   strings.TrimSpace(m[3]),
		SectionValue:  strings.TrimSpace(m[4]),
		FieldName:     field,
		Instance:      instance,
		Structured:    true,
		Raw:           raw,
	}
}

// HasLocation reports whether the identifier carries a location prefix.
func (id Identifier) HasLocation() bool { return id.LocationName != "" }

// HasSection reports whether the identifier carries a section prefix.
func (id Identifier) HasSection() bool { return id.SectionName != "" }
