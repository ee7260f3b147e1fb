package persistence

import (
	"errors"
	"strings"

	"github.com/bizgrow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// findOne loads the first row q matches and converts it with toDomain.
// A missing row becomes shared.ErrNotFound.
func findOne[M, E any](q *gorm.DB, toDomain func(*M) *E) (*E, error) {
	var model M
	if err := q.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return toDomain(&model), nil
}

// StoreScope restricts a query to rows owned by one store
func StoreScope(storeID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("store_id = ?", storeID)
	}
}

// Paginate applies offset/limit from a normalized filter
func Paginate(filter shared.Filter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		f := filter.Normalize()
		return db.Offset(f.Offset()).Limit(f.PageSize)
	}
}

// OrderBy applies a whitelisted sort with a stable id tiebreaker
func OrderBy(filter shared.Filter, s sortable) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(s.column(filter.OrderBy) + " " + sortDirection(filter.OrderDir)).Order("id ASC")
	}
}

// Search matches a case-insensitive substring against any of the given columns.
// LOWER/LIKE is used instead of ILIKE so the same query runs on SQLite.
func Search(term string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(columns) == 0 {
			return db
		}
		pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
		clauses := make([]string, len(columns))
		args := make([]any, len(columns))
		for i, c := range columns {
			clauses[i] = "LOWER(" + c + ") LIKE ? ESCAPE '\\'"
			args[i] = pattern
		}
		return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func filterString(filter shared.Filter, key string) (string, bool) {
	v, ok := filter.Filters[key]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

func filterBool(filter shared.Filter, key string) (bool, bool) {
	v, ok := filter.Filters[key]
	if !ok || v == nil {
		return false, false
	}
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		switch strings.ToLower(b) {
		case "true", "1", "yes":
			return true, true
		case "false", "0", "no":
			return false, true
		}
	}
	return false, false
}
