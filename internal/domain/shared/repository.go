package shared

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Default page sizes used by list endpoints.
const (
	DefaultLimit      = 10
	DefaultAdminLimit = 50
	MaxLimit          = 1000
)

// ListParams is the lenient, already-coerced form of client list parameters.
// Limit 0 means "use the endpoint default".
type ListParams struct {
	Offset     int
	Limit      int
	SortBy     string
	Descending bool
	Search     map[string]string
	Flags      map[string]bool
}

// ParseListParams coerces raw query values without ever failing:
// offset/limit are abs-valued, garbage becomes zero (the default),
// and both sortBy/orderField and descending/orderType spellings are accepted.
func ParseListParams(values url.Values) ListParams {
	p := ListParams{
		Offset: lenientInt(values.Get("offset")),
		Limit:  lenientInt(values.Get("limit")),
		Search: make(map[string]string),
		Flags:  make(map[string]bool),
	}

	p.SortBy = strings.TrimSpace(values.Get("sortBy"))
	if p.SortBy == "" {
		p.SortBy = strings.TrimSpace(values.Get("orderField"))
	}
	p.Descending = truthy(values.Get("descending")) || strings.EqualFold(strings.TrimSpace(values.Get("orderType")), "desc")

	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		v := strings.TrimSpace(vals[0])
		if v == "" {
			continue
		}
		if strings.HasPrefix(key, "search") {
			p.Search[key] = v
			continue
		}
		if strings.EqualFold(v, "true") {
			p.Flags[key] = true
		}
	}
	return p
}

// EffectiveLimit returns the limit to apply given an endpoint default.
func (p ListParams) EffectiveLimit(def int) int {
	if p.Limit <= 0 {
		return def
	}
	if p.Limit > MaxLimit {
		return MaxLimit
	}
	return p.Limit
}

// Term returns the trimmed search term for a parameter name.
func (p ListParams) Term(name string) string {
	if p.Search == nil {
		return ""
	}
	return p.Search[name]
}

// WithSearch returns a copy with one search term set, used by callers that
// derive filters from path parameters.
func (p ListParams) WithSearch(name, term string) ListParams {
	search := make(map[string]string, len(p.Search)+1)
	for k, v := range p.Search {
		search[k] = v
	}
	search[name] = term
	p.Search = search
	return p
}

func lenientInt(raw string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	f = math.Abs(f)
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}

func truthy(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "desc", "1", "yes":
		return true
	}
	return false
}

// Page is a list result with its filter-consistent total.
type Page[T any] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	Offset int   `json:"offset"`
	Limit  int   `json:"limit"`
}

// NewPage creates a new page result
func NewPage[T any](items []T, total int64, offset, limit int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Total: total, Offset: offset, Limit: limit}
}
