package filter

// Kind discriminates the structured clause variants.
type Kind int

// Clause kinds.
const (
	// KindTerm is an exact match on a single value.
	KindTerm Kind = iota
	// KindBoolTerm is an exact match on a boolean field.
	KindBoolTerm
	// KindTerms is a disjunctive match over multiple values.
	KindTerms
	// KindRange is a numeric range with gt/gte/lt/lte bounds.
	KindRange
	// KindMatchPhrase is a phrase match, used for exclusions.
	KindMatchPhrase
	// KindMatch is a soft full-text match (all terms required).
	KindMatch
)

// Clause is one structured boolean condition compiled from a caller filter.
type Clause struct {
	kind   Kind
	field  string
	value  string
	values []string
	flag   bool
	rng    Range
}

// Term creates an exact-match clause.
func Term(field, value string) Clause {
	return Clause{kind: KindTerm, field: field, value: value}
}

// BoolTerm creates an exact-match clause on a boolean field.
func BoolTerm(field string, value bool) Clause {
	return Clause{kind: KindBoolTerm, field: field, flag: value}
}

// Terms creates a multi-value disjunctive clause.
func Terms(field string, values []string) Clause {
	return Clause{kind: KindTerms, field: field, values: values}
}

// RangeClause creates a numeric range clause.
func RangeClause(field string, r Range) Clause {
	return Clause{kind: KindRange, field: field, rng: r}
}

// MatchPhrase creates a phrase clause, used in must_not for exclusions.
func MatchPhrase(field, phrase string) Clause {
	return Clause{kind: KindMatchPhrase, field: field, value: phrase}
}

// Match creates a soft text-match clause requiring all terms to match.
func Match(field, query string) Clause {
	return Clause{kind: KindMatch, field: field, value: query}
}

// Kind returns the clause variant.
func (c Clause) Kind() Kind { return c.kind }

// Field returns the target document field.
func (c Clause) Field() string { return c.field }

// Value returns the single match value or phrase.
func (c Clause) Value() string { return c.value }

// Values returns the multi-value list.
func (c Clause) Values() []string { return c.values }

// Flag returns the boolean match value.
func (c Clause) Flag() bool { return c.flag }

// Range returns the numeric bounds.
func (c Clause) Range() Range { return c.rng }

// Range holds optional numeric bounds. Nil pointers mean the bound is absent.
type Range struct {
	GT  *float64
	GTE *float64
	LT  *float64
	LTE *float64
}

// IsEmpty reports whether no bound is set.
func (r Range) IsEmpty() bool {
	return r.GT == nil && r.GTE == nil && r.LT == nil && r.LTE == nil
}

// Clauses groups compiled conditions by boolean-query semantics:
// Must is scored AND, Filter is unscored AND, Should is a scored boost,
// MustNot is an exclusion.
type Clauses struct {
	Must    []Clause
	Filter  []Clause
	Should  []Clause
	MustNot []Clause
}
