package statemetrics

// Segment is one element of a field path into a resource document. It is a
// tagged variant: either a plain field name, or a predicate selecting the
// array element whose type field equals a literal value. Predicates on any
// field other than type are out of scope, as are nested predicates.
type Segment struct {
	// field is the field name of a plain segment. Empty for a predicate
	// segment.
	field string

	// typeValue is the literal the type field must equal. Empty for a plain
	// segment.
	typeValue string
}

// Field returns a plain field-name segment.
func Field(name string) Segment {
	return Segment{field: name}
}

// TypeIs returns a predicate segment selecting the array element whose type
// field equals value.
func TypeIs(value string) Segment {
	return Segment{typeValue: value}
}

// IsPredicate reports whether the segment is a type predicate.
func (s Segment) IsPredicate() bool {
	return s.typeValue != ""
}

// String renders the segment in kube-state-metrics path syntax: the field
// name for a plain segment, "[type=Value]" for a predicate.
func (s Segment) String() string {
	if s.IsPredicate() {
		return "[type=" + s.typeValue + "]"
	}
	return s.field
}

// Path is an ordered root-to-leaf sequence of segments.
type Path []Segment

// Strings renders every segment for embedding in a generated configuration.
func (p Path) Strings() []string {
	out := make([]string, len(p))
	for i, s := range p {
		out[i] = s.String()
	}
	return out
}

// ConditionPath addresses the named field of the conditions array entry with
// the given condition type: status.conditions[type=<conditionType>].<field>.
func ConditionPath(conditionType, field string) Path {
	return Path{
		Field("status"),
		Field("conditions"),
		TypeIs(conditionType),
		Field(field),
	}
}
