// Package query turns lenient client list parameters into GORM scopes.
//
// Each list operation declares a Spec naming the filters it recognizes, the
// columns it may sort by and its default page size. Anything a Spec does not
// name is ignored, so client input never reaches SQL as an identifier.
//
// Usage:
//
//	q := query.New(customerSpec, params)
//	db.Scopes(q.Apply()).Find(&rows)        // filters, sort, page
//	db.Scopes(q.Where()).Count(&total)      // filters only
package query

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/eightysix/analytics/internal/domain/shared"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

// MatchMode selects how a search term is compared with a column.
type MatchMode int

const (
	// MatchExact is a case-insensitive prefix match.
	MatchExact MatchMode = iota
	// MatchFuzzy is trigram similarity or case-insensitive substring.
	MatchFuzzy
)

// Filter binds a query parameter to a column.
type Filter struct {
	Param  string
	Column string
	Mode   MatchMode
}

// Flag is a boolean query parameter that, when "true", adds a condition.
type Flag struct {
	Param string
	Scope func(db *gorm.DB) *gorm.DB
}

// Spec declares the list parameters one operation understands.
type Spec struct {
	Filters []Filter
	Flags   []Flag
	// Sorts maps public sort names to columns.
	Sorts map[string]string
	// DefaultSort is the column used when the client names none.
	DefaultSort string
	// DefaultLimit applies when the client limit is missing, zero or garbage.
	DefaultLimit int
}

var identRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*(\.[a-z_][a-z0-9_]*)?$`)

// Validate checks that every column named by s is a plain identifier.
func (s Spec) Validate() error {
	for _, f := range s.Filters {
		if !identRegex.MatchString(f.Column) {
			return fmt.Errorf("query: invalid filter column %q", f.Column)
		}
	}
	for name, col := range s.Sorts {
		if !identRegex.MatchString(col) {
			return fmt.Errorf("query: invalid sort column %q for %q", col, name)
		}
	}
	if s.DefaultSort != "" && !identRegex.MatchString(s.DefaultSort) {
		return fmt.Errorf("query: invalid default sort %q", s.DefaultSort)
	}
	return nil
}

// MustSpec panics if s is invalid. Specs are package-level literals.
func MustSpec(s Spec) Spec {
	if err := s.Validate(); err != nil {
		panic(err)
	}
	return s
}

// Params is a Spec bound to one request's list parameters.
type Params struct {
	spec Spec
	list shared.ListParams
}

// New binds list parameters to a spec.
func New(spec Spec, list shared.ListParams) Params {
	return Params{spec: spec, list: list}
}

// Parse coerces raw query values and binds them to a spec.
func Parse(values url.Values, spec Spec) Params {
	return New(spec, shared.ParseListParams(values))
}

// Offset returns the row offset.
func (q Params) Offset() int {
	return q.list.Offset
}

// Limit returns the page size after defaults and caps.
func (q Params) Limit() int {
	def := q.spec.DefaultLimit
	if def <= 0 {
		def = shared.DefaultLimit
	}
	return q.list.EffectiveLimit(def)
}

// SortColumn returns the allow-listed sort column, or the default.
func (q Params) SortColumn() string {
	if col, ok := q.spec.Sorts[q.list.SortBy]; ok {
		return col
	}
	return q.spec.DefaultSort
}

// Where applies only the filters and flags.
func (q Params) Where() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		postgres := isPostgres(db)
		for _, f := range q.spec.Filters {
			term := NormalizeTerm(q.list.Term(f.Param))
			if term == "" || !identRegex.MatchString(f.Column) {
				continue
			}
			db = applyMatch(db, f.Column, term, f.Mode, postgres)
		}
		for _, flag := range q.spec.Flags {
			if q.list.Flags[flag.Param] && flag.Scope != nil {
				db = flag.Scope(db)
			}
		}
		return db
	}
}

// Sort applies the ORDER BY clause. A client sort is followed by the
// default sort so that consecutive pages neither repeat nor skip rows.
func (q Params) Sort() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		col := q.SortColumn()
		if col == "" {
			return db
		}
		dir := "ASC"
		if q.list.Descending {
			dir = "DESC"
		}
		db = db.Order(col + " " + dir)
		if def := q.spec.DefaultSort; def != "" && def != col {
			db = db.Order(def + " ASC")
		}
		return db
	}
}

// Page applies OFFSET and LIMIT.
func (q Params) Page() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(q.Offset()).Limit(q.Limit())
	}
}

// Apply applies filters, sort and page.
func (q Params) Apply() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Scopes(q.Where(), q.Sort(), q.Page())
	}
}

func applyMatch(db *gorm.DB, column, term string, mode MatchMode, postgres bool) *gorm.DB {
	escaped := EscapeLike(term)
	switch mode {
	case MatchFuzzy:
		if postgres {
			return db.Where("("+column+" % ? OR "+column+" ILIKE ?)", term, "%"+escaped+"%")
		}
		return db.Where("LOWER("+column+") LIKE ? ESCAPE '\\'", "%"+strings.ToLower(escaped)+"%")
	default:
		if postgres {
			return db.Where(column+" ILIKE ?", escaped+"%")
		}
		return db.Where("LOWER("+column+") LIKE ? ESCAPE '\\'", strings.ToLower(escaped)+"%")
	}
}

// EscapeLike escapes LIKE wildcards so user input matches literally.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// NormalizeTerm trims a search term and puts it in NFC form.
func NormalizeTerm(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func isPostgres(db *gorm.DB) bool {
	return db.Dialector != nil && db.Dialector.Name() == "postgres"
}

// IsPostgres reports whether db talks to PostgreSQL.
func IsPostgres(db *gorm.DB) bool {
	return isPostgres(db)
}
