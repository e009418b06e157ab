// Package query is the database-agnostic list grammar: it turns raw request
// query parameters into a typed Descriptor (filters, projection, sort,
// page window) and computes pagination metadata. The repository layer
// executes a Descriptor against the database.
package query

import (
	"net/url"
	"strconv"
	"strings"
)

// Op is a comparison operator on a single field.
type Op string

const (
	OpEq  Op = "eq"
	OpGt  Op = "gt"
	OpGte Op = "gte"
	OpLt  Op = "lt"
	OpLte Op = "lte"
	OpIn  Op = "in"
)

// Filter is one field-level condition. Value holds a coerced scalar for
// every operator except OpIn, which uses Values.
type Filter struct {
	Field  string
	Op     Op
	Value  any
	Values []any
}

// SortKey orders results by one field.
type SortKey struct {
	Field string
	Desc  bool
}

// Descriptor is the normalized representation of a list request.
type Descriptor struct {
	Filters []Filter
	Select  []string
	Sort    []SortKey

	Page  int64
	Limit int64

	// Populate names a related resource to expand; set by the caller,
	// never from request parameters.
	Populate string
}

const (
	DefaultPage  int64 = 1
	DefaultLimit int64 = 25
)

// Reserved parameter names that carry directives rather than filters.
var reserved = map[string]bool{
	"select": true,
	"sort":   true,
	"page":   true,
	"limit":  true,
}

// Parse builds a Descriptor from raw query parameters. It never fails:
// malformed pagination values fall back to the defaults and unknown keys
// simply become equality filters.
func Parse(values url.Values) Descriptor {
	d := Descriptor{
		Page:  DefaultPage,
		Limit: DefaultLimit,
		Sort:  []SortKey{{Field: "createdAt", Desc: true}},
	}

	if raw := values.Get("select"); raw != "" {
		d.Select = splitList(raw)
	}
	if raw := values.Get("sort"); raw != "" {
		if keys := parseSort(raw); len(keys) > 0 {
			d.Sort = keys
		}
	}
	if page := parsePositive(values.Get("page")); page > 0 {
		d.Page = page
	}
	if limit := parsePositive(values.Get("limit")); limit > 0 {
		d.Limit = limit
	}

	for key, vals := range values {
		if reserved[key] || len(vals) == 0 {
			continue
		}
		field, op := splitOperator(key)
		if field == "" || reserved[field] {
			continue
		}
		switch {
		case op == OpIn:
			f := Filter{Field: field, Op: OpIn}
			for _, v := range vals {
				for _, item := range splitList(v) {
					f.Values = append(f.Values, coerce(item))
				}
			}
			if len(f.Values) > 0 {
				d.Filters = append(d.Filters, f)
			}
		case op == OpEq && len(vals) > 1:
			// Repeated bare keys form a set-membership filter.
			f := Filter{Field: field, Op: OpIn}
			for _, v := range vals {
				f.Values = append(f.Values, coerce(v))
			}
			d.Filters = append(d.Filters, f)
		default:
			d.Filters = append(d.Filters, Filter{Field: field, Op: op, Value: coerce(vals[0])})
		}
	}

	return d
}

// splitOperator separates "price[gte]" into ("price", OpGte). A key with no
// bracketed suffix, or an unknown suffix, is an equality on the whole key.
func splitOperator(key string) (string, Op) {
	open := strings.Index(key, "[")
	if open <= 0 || !strings.HasSuffix(key, "]") {
		return key, OpEq
	}
	field := key[:open]
	switch key[open+1 : len(key)-1] {
	case "gt":
		return field, OpGt
	case "gte":
		return field, OpGte
	case "lt":
		return field, OpLt
	case "lte":
		return field, OpLte
	case "in":
		return field, OpIn
	default:
		return key, OpEq
	}
}

func parseSort(raw string) []SortKey {
	var keys []SortKey
	for _, field := range splitList(raw) {
		if desc := strings.HasPrefix(field, "-"); desc {
			if field = field[1:]; field != "" {
				keys = append(keys, SortKey{Field: field, Desc: true})
			}
		} else {
			keys = append(keys, SortKey{Field: field})
		}
	}
	return keys
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parsePositive returns 0 for anything that is not a positive integer.
func parsePositive(raw string) int64 {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 1 {
		return 0
	}
	return n
}

// coerce converts a raw parameter into a typed scalar so numeric and
// boolean comparisons reach the database with the right type.
func coerce(raw string) any {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if raw == "true" || raw == "false" {
		return raw == "true"
	}
	return raw
}
