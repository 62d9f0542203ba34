package repository

import (
	"context"
	"database/sql"
	"errors"
)

// WatchlistRepo operates on a user's default watchlist: the first
// (oldest) list owned by the user.
type WatchlistRepo struct{ DB *sql.DB }

func NewWatchlistRepo(db *sql.DB) *WatchlistRepo { return &WatchlistRepo{DB: db} }

// Toggle statuses reported to the client.
const (
	ToggleAdded   = "added"
	ToggleRemoved = "removed"
)

// firstWatchlistID resolves the user's default watchlist. q may be the
// pool or an open transaction.
func firstWatchlistID(ctx context.Context, q interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}, userID uint64) (uint64, error) {
	var id uint64
	err := q.QueryRowContext(ctx,
		"SELECT watchlist_id FROM watchlists WHERE user_id = ? ORDER BY watchlist_id ASC LIMIT 1",
		userID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNoWatchlist
	}
	return id, err
}

// Toggle flips the membership of a movie on the user's default
// watchlist and reports the resulting state. The delete-then-insert
// runs inside one transaction: the conditional DELETE doubles as the
// existence check, so two concurrent toggles of the same pair cannot
// both observe "absent" and insert twice (the UNIQUE key backstops
// this anyway).
func (r *WatchlistRepo) Toggle(ctx context.Context, userID, movieID uint64) (string, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	listID, err := firstWatchlistID(ctx, tx, userID)
	if err != nil {
		return "", err
	}

	res, err := tx.ExecContext(ctx,
		"DELETE FROM watchlist_items WHERE watchlist_id = ? AND movie_id = ?",
		listID, movieID)
	if err != nil {
		return "", err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "", err
	}

	status := ToggleRemoved
	if n == 0 {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO watchlist_items (watchlist_id, movie_id) VALUES (?, ?)",
			listID, movieID); err != nil {
			return "", err
		}
		status = ToggleAdded
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	return status, nil
}

// Movies lists the contents of the user's default watchlist with each
// movie's average rating, ordered by title. A user without a watchlist
// gets an empty list rather than an error.
func (r *WatchlistRepo) Movies(ctx context.Context, userID uint64) ([]MovieSummary, error) {
	listID, err := firstWatchlistID(ctx, r.DB, userID)
	if errors.Is(err, ErrNoWatchlist) {
		return []MovieSummary{}, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT m.movie_id, m.title, m.release_year,
			COALESCE(AVG(r.rating), 0) AS average_rating
		FROM movies m
		JOIN watchlist_items wi ON m.movie_id = wi.movie_id
		LEFT JOIN ratings r ON m.movie_id = r.movie_id
		WHERE wi.watchlist_id = ?
		GROUP BY m.movie_id, m.title, m.release_year
		ORDER BY m.title ASC`, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []MovieSummary{}
	for rows.Next() {
		var m MovieSummary
		if err := rows.Scan(&m.ID, &m.Title, &m.ReleaseYear, &m.AverageRating); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
