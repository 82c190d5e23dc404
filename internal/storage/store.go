package storage

import (
	"database/sql"
	"strconv"
	"strings"
)

// timeLayout is fixed width so that text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

// sqlStore holds the queries shared by every SQL backend. Queries are
// written with '?' placeholders and rebound for the active dialect.
type sqlStore struct {
	db      *sql.DB
	dialect dialect
}

// Close closes the database connection.
func (s *sqlStore) Close() error {
	return s.db.Close()
}

// rebind rewrites '?' placeholders to '$n' for PostgreSQL.
func (s *sqlStore) rebind(query string) string {
	if s.dialect != dialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func nullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}
