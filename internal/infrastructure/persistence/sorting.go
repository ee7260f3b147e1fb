package persistence

import "strings"

// sortable maps the sort keys a list endpoint accepts to SQL columns.
// Anything outside the map falls back, so user input never reaches ORDER BY.
type sortable struct {
	columns  map[string]string
	fallback string
}

func newSortable(fallback string, keys ...string) sortable {
	columns := make(map[string]string, len(keys)+1)
	for _, k := range keys {
		columns[k] = k
	}
	columns[fallback] = fallback
	return sortable{columns: columns, fallback: fallback}
}

// alias accepts an extra key for an existing column
func (s sortable) alias(key, column string) sortable {
	s.columns[key] = column
	return s
}

func (s sortable) column(key string) string {
	if c, ok := s.columns[strings.ToLower(strings.TrimSpace(key))]; ok {
		return c
	}
	return s.fallback
}

// sortDirection defaults to newest first
func sortDirection(dir string) string {
	if strings.EqualFold(strings.TrimSpace(dir), "asc") {
		return "ASC"
	}
	return "DESC"
}

var (
	productSort      = newSortable("created_at", "updated_at", "name", "category", "brand", "price", "stock").alias("newest", "created_at")
	orderSort        = newSortable("created_at", "updated_at", "order_number", "customer_name", "status", "total").alias("amount", "total")
	customerSort     = newSortable("created_at", "name", "total_orders", "total_spent", "last_order_at").alias("spent", "total_spent")
	notificationSort = newSortable("created_at", "type", "is_read")
)
