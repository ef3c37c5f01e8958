package schema

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Kind identifies a managed content collection.
type Kind string

const (
	KindFaculty Kind = "faculty"
	KindRoutine Kind = "routine"
	KindNotice  Kind = "notice"
)

// Format declares a syntax check applied to a field value.
type Format int

const (
	FormatNone Format = iota
	FormatEmail
	FormatDate
	FormatURL
)

// FieldRule declares how a single field of a content record is validated.
// Rules are evaluated in declaration order; the first failing rule decides
// which error is surfaced.
type FieldRule struct {
	Name     string
	Label    string
	Required bool
	MaxLen   int
	Enum     []string
	Format   Format
	Integer  bool
}

// Record is a validated content record. It holds exactly the declared fields
// of its kind: strings are trimmed, optional fields default to the empty
// string and integer fields to zero.
type Record map[string]any

// ValidationError reports the first field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// Date values are checked at the syntax level only. A month of 13 passes
	// the digit pattern; calendar semantics are left to the store's date type.
	dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Validate checks raw against the declared rules for kind. It returns a
// normalized Record on success or a *ValidationError naming the first field
// that failed. Validate is pure: it performs no I/O and never mutates raw.
func Validate(kind Kind, raw map[string]any) (Record, error) {
	rules, ok := rulesByKind[kind]
	if !ok {
		return nil, fmt.Errorf("unknown content kind %q", kind)
	}

	out := make(Record, len(rules))
	for _, rule := range rules {
		value, exists := raw[rule.Name]
		if !exists {
			value = nil
		}

		if rule.Integer {
			n, err := intValue(value)
			if err != nil {
				return nil, &ValidationError{Field: rule.Name, Message: rule.Label + " must be a whole number"}
			}
			out[rule.Name] = n
			continue
		}

		s, err := stringValue(value)
		if err != nil {
			return nil, &ValidationError{Field: rule.Name, Message: rule.Label + " must be text"}
		}
		s = strings.TrimSpace(s)

		if s == "" {
			if rule.Required {
				return nil, &ValidationError{Field: rule.Name, Message: rule.Label + " is required"}
			}
			out[rule.Name] = ""
			continue
		}

		if rule.MaxLen > 0 && utf8.RuneCountInString(s) > rule.MaxLen {
			return nil, &ValidationError{Field: rule.Name, Message: rule.Label + " too long"}
		}

		if len(rule.Enum) > 0 && !contains(rule.Enum, s) {
			return nil, &ValidationError{Field: rule.Name, Message: "Invalid " + strings.ToLower(rule.Label)}
		}

		switch rule.Format {
		case FormatEmail:
			if !emailRegex.MatchString(s) {
				return nil, &ValidationError{Field: rule.Name, Message: "Invalid email"}
			}
		case FormatDate:
			if !dateRegex.MatchString(s) {
				return nil, &ValidationError{Field: rule.Name, Message: "Invalid date format"}
			}
		case FormatURL:
			if !isValidURL(s) {
				return nil, &ValidationError{Field: rule.Name, Message: "Invalid URL"}
			}
		}

		out[rule.Name] = s
	}

	return out, nil
}

// Fields returns the declared field rules for kind in declaration order.
func Fields(kind Kind) []FieldRule {
	return rulesByKind[kind]
}

// FieldNames returns the declared field names for kind in declaration order.
func FieldNames(kind Kind) []string {
	rules := rulesByKind[kind]
	names := make([]string, len(rules))
	for i, rule := range rules {
		names[i] = rule.Name
	}
	return names
}

func contains(set []string, value string) bool {
	for _, member := range set {
		if member == value {
			return true
		}
	}
	return false
}

func isValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func stringValue(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		return "", fmt.Errorf("not a string: %T", value)
	}
}

// intValue coerces a raw field value to int. JSON numbers decode as float64,
// so integral floats are accepted; form submissions may carry numeric text.
func intValue(value any) (int, error) {
	switch v := value.(type) {
	case nil:
		return 0, nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("not an integer: %v", v)
		}
		return int(v), nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, nil
		}
		return strconv.Atoi(s)
	default:
		return 0, fmt.Errorf("not an integer: %T", value)
	}
}
