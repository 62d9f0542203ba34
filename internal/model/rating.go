package model

import "time"

// Rating mirrors a row of the `ratings` table. The pair
// (UserID, MovieID) is unique; re-rating a movie updates the
// existing row in place rather than inserting a duplicate.
//
// Fields:
//
//	ID        – primary key identifier.
//	UserID    – user who rated the movie.
//	MovieID   – rated movie.
//	Rating    – integer score in [1,5].
//	CreatedAt – timestamp of the first rating of this pair.
type Rating struct {
	ID        uint64    // ratings.rating_id
	UserID    uint64    // ratings.user_id
	MovieID   uint64    // ratings.movie_id
	Rating    int       // ratings.rating
	CreatedAt time.Time // ratings.created_at
}

// Review mirrors a row of the `reviews` table. Reviews are free
// text and independent of ratings.
type Review struct {
	ID        uint64    // reviews.review_id
	UserID    uint64    // reviews.user_id
	MovieID   uint64    // reviews.movie_id
	Text      string    // reviews.review_text
	CreatedAt time.Time // reviews.created_at
}
