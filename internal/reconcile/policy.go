package reconcile

import "strings"

// Policy says how an incoming value combines with the stored one.
type Policy int

const (
	// Overwrite always takes the incoming value.
	Overwrite Policy = iota
	// KeepIfPresent keeps a stored non-blank value and otherwise takes the incoming one.
	KeepIfPresent
	// Tracked takes the incoming value and reports whether it differs from the stored one.
	Tracked
)

func (p Policy) String() string {
	switch p {
	case Overwrite:
		return "overwrite"
	case KeepIfPresent:
		return "keep-if-present"
	case Tracked:
		return "tracked"
	default:
		return "unknown"
	}
}

// Touch decides when updated_at advances on an existing row.
type Touch int

const (
	TouchAlways Touch = iota
	TouchOnTrackedChange
)

// Field binds a column name to its merge policy.
type Field struct {
	Name   string
	Policy Policy
}

// Rule is the merge behaviour of one entity.
type Rule struct {
	Fields []Field
	Touch  Touch
}

// Values holds nullable column values by name.
type Values map[string]*string

var (
	UserRule = Rule{
		Fields: []Field{{Name: "name", Policy: KeepIfPresent}},
		Touch:  TouchAlways,
	}
	CertificationRule = Rule{
		Fields: []Field{{Name: "title", Policy: Overwrite}, {Name: "product", Policy: Overwrite}},
		Touch:  TouchAlways,
	}
	UserCertificationRule = Rule{
		Fields: []Field{{Name: "date_completed", Policy: Overwrite}, {Name: "date_expired", Policy: Tracked}},
		Touch:  TouchOnTrackedChange,
	}
)

// Merge combines stored and incoming values field by field and reports
// whether the row's updated_at should advance.
func (r Rule) Merge(stored, incoming Values) (Values, bool) {
	merged := make(Values, len(r.Fields))
	trackedChanged := false

	for _, f := range r.Fields {
		cur, next := stored[f.Name], incoming[f.Name]
		switch f.Policy {
		case KeepIfPresent:
			if cur != nil && strings.TrimSpace(*cur) != "" {
				merged[f.Name] = cur
			} else {
				merged[f.Name] = next
			}
		case Tracked:
			if !equal(cur, next) {
				trackedChanged = true
			}
			merged[f.Name] = next
		default:
			merged[f.Name] = next
		}
	}

	if r.Touch == TouchAlways {
		return merged, true
	}
	return merged, trackedChanged
}

// equal treats two nulls as equal.
func equal(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Same reports whether every field of a and b holds the same value.
func (r Rule) Same(a, b Values) bool {
	for _, f := range r.Fields {
		if !equal(a[f.Name], b[f.Name]) {
			return false
		}
	}
	return true
}

func ptr(s string) *string { return &s }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
