package repository

import (
	"context"
	"database/sql"
)

// RatingRepo writes user ratings. Reads happen through the movie and
// recommendation repositories.
type RatingRepo struct{ DB *sql.DB }

func NewRatingRepo(db *sql.DB) *RatingRepo { return &RatingRepo{DB: db} }

// Upsert records a rating for a (user, movie) pair as one atomic
// statement: the UNIQUE key on ratings(user_id, movie_id) turns a
// second rating into an in-place update, so concurrent raters of the
// same pair cannot produce duplicates. The returned flag is true when
// a new row was inserted. MySQL reports 1 affected row for an insert,
// 2 for an update and 0 when the value did not change; only the first
// case counts as created.
func (r *RatingRepo) Upsert(ctx context.Context, userID, movieID uint64, rating int) (created bool, err error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO ratings (user_id, movie_id, rating)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE rating = VALUES(rating)`,
		userID, movieID, rating)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
