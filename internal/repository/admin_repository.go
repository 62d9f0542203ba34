package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"
)

// AdminRepo backs the raw-access admin endpoints: schema
// introspection, allow-listed inserts and SELECT passthrough. Inserts
// never interpolate caller input into SQL; table and column names are
// resolved against the known schema first and values always travel as
// parameters.
type AdminRepo struct{ DB *sql.DB }

func NewAdminRepo(db *sql.DB) *AdminRepo { return &AdminRepo{DB: db} }

// insertableColumns is the allow-list for the generic insert endpoint.
// Primary keys and server-side timestamps are deliberately absent so
// they cannot be forged.
var insertableColumns = map[string]map[string]bool{
	"users":           {"username": true, "email": true, "password_hash": true},
	"movies":          {"title": true, "release_year": true, "synopsis": true, "duration_min": true},
	"genres":          {"name": true},
	"actors":          {"first_name": true, "last_name": true, "birthdate": true},
	"directors":       {"first_name": true, "last_name": true, "birthdate": true},
	"movie_genres":    {"movie_id": true, "genre_id": true},
	"movie_actors":    {"movie_id": true, "actor_id": true, "role_name": true},
	"movie_directors": {"movie_id": true, "director_id": true},
	"ratings":         {"user_id": true, "movie_id": true, "rating": true},
	"reviews":         {"user_id": true, "movie_id": true, "review_text": true},
	"watchlists":      {"user_id": true, "name": true},
	"watchlist_items": {"watchlist_id": true, "movie_id": true},
}

// ColumnInfo describes one column of a table as reported by the
// schema endpoint.
type ColumnInfo struct {
	Field   string  `json:"Field"`
	Type    string  `json:"Type"`
	Null    string  `json:"Null"`
	Key     string  `json:"Key"`
	Default *string `json:"Default"`
	Extra   string  `json:"Extra"`
}

// Schema lists every table of the current database with its column
// descriptions, in the shape MySQL's DESCRIBE would produce.
func (r *AdminRepo) Schema(ctx context.Context) (map[string][]ColumnInfo, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT table_name, column_name, column_type, is_nullable,
			column_key, column_default, extra
		FROM information_schema.columns
		WHERE table_schema = DATABASE()
		ORDER BY table_name, ordinal_position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schema := map[string][]ColumnInfo{}
	for rows.Next() {
		var table string
		var col ColumnInfo
		var def sql.NullString
		if err := rows.Scan(&table, &col.Field, &col.Type, &col.Null,
			&col.Key, &def, &col.Extra); err != nil {
			return nil, err
		}
		if def.Valid {
			col.Default = &def.String
		}
		schema[table] = append(schema[table], col)
	}
	return schema, rows.Err()
}

// buildInsert validates a generic insert request against the
// allow-list and returns the statement and ordered arguments. Columns
// are sorted so the statement is deterministic for a given request.
func buildInsert(table string, data map[string]any) (string, []any, error) {
	cols, ok := insertableColumns[table]
	if !ok {
		return "", nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	if len(data) == 0 {
		return "", nil, fmt.Errorf("%w: no columns", ErrUnknownColumn)
	}
	names := make([]string, 0, len(data))
	for name := range data {
		if !cols[name] {
			return "", nil, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, table, name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	args := make([]any, 0, len(names))
	for _, name := range names {
		args = append(args, data[name])
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(names, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", "))
	return query, args, nil
}

// Insert performs an allow-listed parameterized insert and returns the
// generated id (0 for tables without an auto-increment key).
func (r *AdminRepo) Insert(ctx context.Context, table string, data map[string]any) (int64, error) {
	query, args, err := buildInsert(table, data)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Select executes a read-only statement and returns the rows as maps
// plus the column order. The caller is responsible for having verified
// the statement shape; this method only runs it.
func (r *AdminRepo) Select(ctx context.Context, query string) ([]map[string]any, []string, error) {
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	results := []map[string]any{}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		record := make(map[string]any, len(columns))
		for i, name := range columns {
			record[name] = normalizeValue(values[i])
		}
		results = append(results, record)
	}
	return results, columns, rows.Err()
}

// normalizeValue makes driver values JSON-friendly: byte slices become
// strings and timestamps ISO-8601 strings.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return v
	}
}
