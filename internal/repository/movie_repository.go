package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// MovieRepo provides read access to the movie catalog: search,
// detail lookup and the genre list. All statements cap their result
// sets and coalesce the average rating to 0 for unrated movies.
type MovieRepo struct{ DB *sql.DB }

func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{DB: db} }

// searchLimit caps the number of rows a catalog search can return.
const searchLimit = 50

// MovieSummary is the row shape shared by search, watchlist and
// recommendation listings.
type MovieSummary struct {
	ID            uint64  `json:"movie_id"`
	Title         string  `json:"title"`
	ReleaseYear   int     `json:"release_year"`
	AverageRating float64 `json:"average_rating"`
}

// GenreRow is a genre as exposed by the public API.
type GenreRow struct {
	ID   uint64 `json:"genre_id"`
	Name string `json:"name"`
}

// CastMember is an actor with the role they played in one movie.
type CastMember struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// CrewMember is a director credit on one movie.
type CrewMember struct {
	Name string `json:"name"`
}

// ReviewRow is a review joined with the reviewer's username.
type ReviewRow struct {
	ID        uint64    `json:"review_id"`
	Text      string    `json:"review_text"`
	CreatedAt time.Time `json:"created_at"`
	Username  string    `json:"username"`
}

// MovieDetail aggregates everything the detail endpoint returns for a
// single movie. UserRating and OnWatchlist stay at their zero values
// when no user id was supplied with the request.
type MovieDetail struct {
	ID            uint64       `json:"movie_id"`
	Title         string       `json:"title"`
	ReleaseYear   int          `json:"release_year"`
	Synopsis      string       `json:"synopsis"`
	DurationMin   int          `json:"duration_min"`
	AverageRating float64      `json:"average_rating"`
	TotalRatings  int          `json:"total_ratings"`
	Actors        []CastMember `json:"actors"`
	Directors     []CrewMember `json:"directors"`
	Reviews       []ReviewRow  `json:"reviews"`
	UserRating    int          `json:"user_rating"`
	OnWatchlist   bool         `json:"on_watchlist"`
}

// Genres returns all genres sorted by name.
func (r *MovieRepo) Genres(ctx context.Context) ([]GenreRow, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT genre_id, name FROM genres ORDER BY name ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]GenreRow, 0, 32)
	for rows.Next() {
		var g GenreRow
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Search returns movies with their average rating, optionally filtered
// by a case-insensitive title substring and/or genre membership.
// listType "recent" sorts by release year (newest first) with title as
// tiebreaker; anything else sorts by title.
func (r *MovieRepo) Search(ctx context.Context, term, genreID, listType string) ([]MovieSummary, error) {
	query := `SELECT m.movie_id, m.title, m.release_year,
			COALESCE(AVG(r.rating), 0) AS average_rating
		FROM movies m
		LEFT JOIN ratings r ON m.movie_id = r.movie_id`
	args := []any{}
	where := []string{}

	if genreID != "" {
		query += " JOIN movie_genres mg ON m.movie_id = mg.movie_id"
		where = append(where, "mg.genre_id = ?")
		args = append(args, genreID)
	}
	if term != "" {
		where = append(where, "LOWER(m.title) LIKE ?")
		args = append(args, "%"+strings.ToLower(term)+"%")
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " GROUP BY m.movie_id, m.title, m.release_year"
	if listType == "recent" {
		query += " ORDER BY m.release_year DESC, m.title ASC"
	} else {
		query += " ORDER BY m.title ASC"
	}
	query += " LIMIT ?"
	args = append(args, searchLimit)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]MovieSummary, 0, searchLimit)
	for rows.Next() {
		var m MovieSummary
		if err := rows.Scan(&m.ID, &m.Title, &m.ReleaseYear, &m.AverageRating); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Details loads one movie plus its cast, directors, the ten most recent
// reviews, and, when userID is non-zero, the caller's own rating and
// watchlist membership. Returns ErrMovieNotFound for unknown ids.
func (r *MovieRepo) Details(ctx context.Context, movieID, userID uint64) (MovieDetail, error) {
	var d MovieDetail
	var synopsis sql.NullString
	err := r.DB.QueryRowContext(ctx, `
		SELECT m.movie_id, m.title, m.release_year, m.synopsis, m.duration_min,
			COALESCE(AVG(r.rating), 0) AS average_rating,
			COUNT(r.rating) AS total_ratings
		FROM movies m
		LEFT JOIN ratings r ON m.movie_id = r.movie_id
		WHERE m.movie_id = ?
		GROUP BY m.movie_id`, movieID).
		Scan(&d.ID, &d.Title, &d.ReleaseYear, &synopsis, &d.DurationMin,
			&d.AverageRating, &d.TotalRatings)
	if errors.Is(err, sql.ErrNoRows) {
		return MovieDetail{}, ErrMovieNotFound
	}
	if err != nil {
		return MovieDetail{}, err
	}
	d.Synopsis = synopsis.String

	if d.Actors, err = r.actors(ctx, movieID); err != nil {
		return MovieDetail{}, err
	}
	if d.Directors, err = r.directors(ctx, movieID); err != nil {
		return MovieDetail{}, err
	}
	if d.Reviews, err = r.recentReviews(ctx, movieID); err != nil {
		return MovieDetail{}, err
	}

	if userID != 0 {
		err = r.DB.QueryRowContext(ctx,
			"SELECT rating FROM ratings WHERE movie_id = ? AND user_id = ?",
			movieID, userID).Scan(&d.UserRating)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return MovieDetail{}, err
		}
		var itemID uint64
		err = r.DB.QueryRowContext(ctx, `
			SELECT wi.item_id
			FROM watchlist_items wi
			JOIN watchlists w ON wi.watchlist_id = w.watchlist_id
			WHERE wi.movie_id = ? AND w.user_id = ?
			LIMIT 1`, movieID, userID).Scan(&itemID)
		if err == nil {
			d.OnWatchlist = true
		} else if !errors.Is(err, sql.ErrNoRows) {
			return MovieDetail{}, err
		}
	}
	return d, nil
}

func (r *MovieRepo) actors(ctx context.Context, movieID uint64) ([]CastMember, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT a.first_name, a.last_name, ma.role_name
		FROM actors a
		JOIN movie_actors ma ON a.actor_id = ma.actor_id
		WHERE ma.movie_id = ?`, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []CastMember{}
	for rows.Next() {
		var first, last, role string
		if err := rows.Scan(&first, &last, &role); err != nil {
			return nil, err
		}
		out = append(out, CastMember{Name: first + " " + last, Role: role})
	}
	return out, rows.Err()
}

func (r *MovieRepo) directors(ctx context.Context, movieID uint64) ([]CrewMember, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT d.first_name, d.last_name
		FROM directors d
		JOIN movie_directors md ON d.director_id = md.director_id
		WHERE md.movie_id = ?`, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []CrewMember{}
	for rows.Next() {
		var first, last string
		if err := rows.Scan(&first, &last); err != nil {
			return nil, err
		}
		out = append(out, CrewMember{Name: first + " " + last})
	}
	return out, rows.Err()
}

func (r *MovieRepo) recentReviews(ctx context.Context, movieID uint64) ([]ReviewRow, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT r.review_id, r.review_text, r.created_at, u.username
		FROM reviews r
		JOIN users u ON r.user_id = u.user_id
		WHERE r.movie_id = ?
		ORDER BY r.created_at DESC
		LIMIT 10`, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ReviewRow{}
	for rows.Next() {
		var rv ReviewRow
		if err := rows.Scan(&rv.ID, &rv.Text, &rv.CreatedAt, &rv.Username); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}
