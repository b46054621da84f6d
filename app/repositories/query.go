package repositories

import (
	"strings"

	"gorm.io/gorm"
)

type ListParams struct {
	Search   string
	Ordering string
	Limit    int
	Offset   int
}

// orderingFields maps an API ordering key to a column. A leading "-" sorts descending.
type orderingFields map[string]string

func applyOrdering(q *gorm.DB, ordering string, allowed orderingFields, fallback string) *gorm.DB {
	key := strings.TrimSpace(ordering)
	desc := strings.HasPrefix(key, "-")
	key = strings.TrimPrefix(key, "-")

	column, ok := allowed[key]
	if !ok {
		return q.Order(fallback)
	}
	if desc {
		return q.Order(column + " DESC")
	}
	return q.Order(column + " ASC")
}

// applySearch adds a case-insensitive OR match of term over the given columns.
func applySearch(q *gorm.DB, term string, columns ...string) *gorm.DB {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return q
	}
	pattern := "%" + strings.ToLower(term) + "%"

	clauses := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, col := range columns {
		clauses[i] = "LOWER(" + col + ") LIKE ?"
		args[i] = pattern
	}
	return q.Where("("+strings.Join(clauses, " OR ")+")", args...)
}

func applyPage(q *gorm.DB, p ListParams) *gorm.DB {
	if p.Limit > 0 {
		q = q.Limit(p.Limit)
	}
	if p.Offset > 0 {
		q = q.Offset(p.Offset)
	}
	return q
}

// conn returns tx when the caller runs inside a transaction.
func conn(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}
