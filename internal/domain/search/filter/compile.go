package filter

import (
	"sort"
	"strings"

	"github.com/pawmart/petsearch/internal/domain"
)

// Document fields targeted by well-known filter keys.
const (
	fieldSpecies     = "species"
	fieldLifeStage   = "life_stage"
	fieldTags        = "tags"
	fieldSalePrice   = "price_sale"
	fieldIngredients = "ingredients"
	fieldFlavour     = "flavour"
	fieldSearchText  = "searchable_text"
)

// lifeStageAll is the sentinel tag on products suitable for any life stage.
const lifeStageAll = "All"

// lowerBoundKeys are numeric keys that accept either a bare scalar (compiled
// to the listed comparator) or a structured range object, which wins when given.
var lowerBoundKeys = map[string]func(f float64) Range{
	"rating":         func(f float64) Range { return Range{GTE: &f} },
	"num_reviews":    func(f float64) Range { return Range{GTE: &f} },
	"discount_value": func(f float64) Range { return Range{GT: &f} },
}

// Compile translates the sparse caller filter map into clause groups. The
// species pin is always present as a filter clause; everything else is driven
// by the key's semantics. Values that coerce to empty are skipped entirely.
func Compile(sp domain.Species, filters map[string]any) (Clauses, error) {
	cl := Clauses{
		Filter: []Clause{Term(fieldSpecies, sp.String())},
	}

	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	priceDone := false
	for _, key := range keys {
		v, err := coerce(key, filters[key])
		if err != nil {
			return Clauses{}, err
		}
		if v.isEmpty() {
			continue
		}

		switch key {
		case fieldLifeStage:
			stage := v.asString()
			if strings.EqualFold(stage, lifeStageAll) {
				// "All" is a soft preference, not a hard constraint.
				cl.Should = append(cl.Should, Term(fieldLifeStage, lifeStageAll))
			} else {
				// Stage-agnostic products always qualify.
				cl.Filter = append(cl.Filter, Terms(fieldLifeStage, []string{stage, lifeStageAll}))
			}

		case "price_min", "price_max":
			if priceDone {
				continue
			}
			r, err := priceRange(filters)
			if err != nil {
				return Clauses{}, err
			}
			if !r.IsEmpty() {
				cl.Filter = append(cl.Filter, RangeClause(fieldSalePrice, r))
			}
			priceDone = true

		case "rating", "num_reviews", "discount_value":
			r := v.rng
			if r == nil {
				f, err := v.asFloat(key)
				if err != nil {
					return Clauses{}, err
				}
				bound := lowerBoundKeys[key](f)
				r = &bound
			}
			cl.Filter = append(cl.Filter, RangeClause(key, *r))

		case "tags_any":
			if tags := v.asList(); len(tags) > 0 {
				cl.Should = append(cl.Should, Terms(fieldTags, tags))
			}

		case "exclude_ingredients":
			for _, excluded := range v.asList() {
				cl.MustNot = append(cl.MustNot,
					MatchPhrase(fieldIngredients, excluded),
					MatchPhrase(fieldFlavour, excluded),
				)
			}

		case "breed_soft":
			// Soft signal only: a non-matching breed must not eliminate candidates.
			cl.Should = append(cl.Should, Match(fieldSearchText, v.asString()))

		case "availability.in_stock":
			cl.Filter = append(cl.Filter, BoolTerm(key, v.asBool()))

		default:
			// food_type, flavour, brand, manufacturer, pack_size,
			// country_of_origin, and any unrecognized scalar key: exact match
			// on the like-named field. Keeps the compiler schema-agnostic.
			cl.Filter = append(cl.Filter, Term(key, v.asString()))
		}
	}

	return cl, nil
}

// priceRange folds price_min/price_max into one range on the sale-price field.
func priceRange(filters map[string]any) (Range, error) {
	var r Range
	if raw, ok := filters["price_min"]; ok {
		v, err := coerce("price_min", raw)
		if err != nil {
			return Range{}, err
		}
		if !v.isEmpty() {
			f, err := v.asFloat("price_min")
			if err != nil {
				return Range{}, err
			}
			r.GTE = &f
		}
	}
	if raw, ok := filters["price_max"]; ok {
		v, err := coerce("price_max", raw)
		if err != nil {
			return Range{}, err
		}
		if !v.isEmpty() {
			f, err := v.asFloat("price_max")
			if err != nil {
				return Range{}, err
			}
			r.LTE = &f
		}
	}
	return r, nil
}
