package repository

import (
	"context"
	"database/sql"
	"errors"
)

// RecommendationRepo implements the recommendation strategies. Each
// strategy is a single declarative query against the ratings and
// junction tables; nothing is computed outside the database.
type RecommendationRepo struct{ DB *sql.DB }

func NewRecommendationRepo(db *sql.DB) *RecommendationRepo {
	return &RecommendationRepo{DB: db}
}

const (
	// recommendLimit caps every strategy's result set.
	recommendLimit = 10
	// minRatingsForPopular is the minimum vote count (m) for the
	// Bayesian weighted rating; movies below it are not eligible.
	minRatingsForPopular = 5
	// defaultGlobalMean stands in for the global mean rating (C)
	// when the ratings table is empty.
	defaultGlobalMean = 3.0
	// likeThreshold is the minimum rating that counts as "liked"
	// for the collaborative and personal strategies.
	likeThreshold = 4
	// similarityThreshold is how many commonly-liked movies two
	// users must share to count as similar.
	similarityThreshold = 3
)

// PopularRow carries the Bayesian weighted-rating signal.
type PopularRow struct {
	ID             uint64  `json:"movie_id"`
	Title          string  `json:"title"`
	ReleaseYear    int     `json:"release_year"`
	RatingsCount   int     `json:"ratings_count"`
	AverageRating  float64 `json:"average_rating"`
	WeightedRating float64 `json:"weighted_rating"`
}

// ContentRow carries genre and director overlap counts against the
// anchor movie.
type ContentRow struct {
	ID              uint64  `json:"movie_id"`
	Title           string  `json:"title"`
	ReleaseYear     int     `json:"release_year"`
	AverageRating   float64 `json:"average_rating"`
	GenreMatches    int     `json:"genre_matches"`
	DirectorMatches int     `json:"director_matches"`
}

// CollaborativeRow carries the count of similar users endorsing the
// movie.
type CollaborativeRow struct {
	ID               uint64  `json:"movie_id"`
	Title            string  `json:"title"`
	ReleaseYear      int     `json:"release_year"`
	AverageRating    float64 `json:"average_rating"`
	SimilarUserLikes int     `json:"similar_user_likes"`
}

// PersonalContentRow carries the number of favourite genres a
// candidate movie matches for the anchor user.
type PersonalContentRow struct {
	ID            uint64  `json:"movie_id"`
	Title         string  `json:"title"`
	ReleaseYear   int     `json:"release_year"`
	GenreMatches  int     `json:"genre_matches"`
	AverageRating float64 `json:"average_rating"`
}

// Popular ranks movies by the Bayesian weighted rating
// (v/(v+m))*R + (m/(v+m))*C with m = minRatingsForPopular and C the
// global mean across all ratings. Only movies with at least m ratings
// qualify.
func (r *RecommendationRepo) Popular(ctx context.Context) ([]PopularRow, error) {
	var globalMean sql.NullFloat64
	if err := r.DB.QueryRowContext(ctx,
		"SELECT AVG(rating) FROM ratings").Scan(&globalMean); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	c := defaultGlobalMean
	if globalMean.Valid {
		c = globalMean.Float64
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT m.movie_id, m.title, m.release_year,
			COUNT(r.rating) AS v, AVG(r.rating) AS avg_rating,
			( (COUNT(r.rating) / (COUNT(r.rating) + ?)) * AVG(r.rating)
			+ ( ? / (COUNT(r.rating) + ?)) * ? ) AS weighted_rating
		FROM movies m
		LEFT JOIN ratings r ON m.movie_id = r.movie_id
		GROUP BY m.movie_id, m.title, m.release_year
		HAVING v >= ?
		ORDER BY weighted_rating DESC
		LIMIT ?`,
		minRatingsForPopular, minRatingsForPopular, minRatingsForPopular, c,
		minRatingsForPopular, recommendLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []PopularRow{}
	for rows.Next() {
		var p PopularRow
		if err := rows.Scan(&p.ID, &p.Title, &p.ReleaseYear,
			&p.RatingsCount, &p.AverageRating, &p.WeightedRating); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ContentBased recommends movies sharing genres or directors with the
// anchor movie. Any movie with at least one overlap of either kind
// qualifies; the anchor itself never appears.
func (r *RecommendationRepo) ContentBased(ctx context.Context, movieID uint64) ([]ContentRow, error) {
	rows, err := r.DB.QueryContext(ctx, `
		WITH TargetGenres AS (
			SELECT genre_id FROM movie_genres WHERE movie_id = ?
		),
		TargetDirectors AS (
			SELECT director_id FROM movie_directors WHERE movie_id = ?
		),
		MovieRatings AS (
			SELECT movie_id, COALESCE(AVG(rating), 0) AS avg_rating
			FROM ratings GROUP BY movie_id
		)
		SELECT m.movie_id, m.title, m.release_year,
			COALESCE(mr.avg_rating, 0) AS average_rating,
			COUNT(DISTINCT mg.genre_id) AS genre_matches,
			COUNT(DISTINCT md.director_id) AS director_matches
		FROM movies m
		LEFT JOIN MovieRatings mr ON m.movie_id = mr.movie_id
		LEFT JOIN movie_genres mg ON m.movie_id = mg.movie_id
			AND mg.genre_id IN (SELECT genre_id FROM TargetGenres)
		LEFT JOIN movie_directors md ON m.movie_id = md.movie_id
			AND md.director_id IN (SELECT director_id FROM TargetDirectors)
		WHERE m.movie_id != ?
			AND (mg.genre_id IS NOT NULL OR md.director_id IS NOT NULL)
		GROUP BY m.movie_id, m.title, m.release_year, mr.avg_rating
		ORDER BY (genre_matches + director_matches) DESC, average_rating DESC
		LIMIT ?`,
		movieID, movieID, movieID, recommendLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ContentRow{}
	for rows.Next() {
		var c ContentRow
		if err := rows.Scan(&c.ID, &c.Title, &c.ReleaseYear,
			&c.AverageRating, &c.GenreMatches, &c.DirectorMatches); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Collaborative recommends what the anchor movie's fans also liked:
// users who rated the anchor at or above likeThreshold, counted
// distinctly over the other movies they rated as highly.
func (r *RecommendationRepo) Collaborative(ctx context.Context, movieID uint64) ([]CollaborativeRow, error) {
	rows, err := r.DB.QueryContext(ctx, `
		WITH SimilarUsers AS (
			SELECT user_id FROM ratings WHERE movie_id = ? AND rating >= ?
		),
		SimilarUsersRatings AS (
			SELECT movie_id, COUNT(DISTINCT user_id) AS similar_user_likes
			FROM ratings
			WHERE user_id IN (SELECT user_id FROM SimilarUsers)
				AND rating >= ? AND movie_id != ?
			GROUP BY movie_id
		)
		SELECT m.movie_id, m.title, m.release_year,
			COALESCE(AVG(r.rating), 0) AS average_rating,
			sur.similar_user_likes
		FROM movies m
		JOIN SimilarUsersRatings sur ON m.movie_id = sur.movie_id
		LEFT JOIN ratings r ON m.movie_id = r.movie_id
		GROUP BY m.movie_id, m.title, m.release_year, sur.similar_user_likes
		ORDER BY sur.similar_user_likes DESC, average_rating DESC
		LIMIT ?`,
		movieID, likeThreshold, likeThreshold, movieID, recommendLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []CollaborativeRow{}
	for rows.Next() {
		var c CollaborativeRow
		if err := rows.Scan(&c.ID, &c.Title, &c.ReleaseYear,
			&c.AverageRating, &c.SimilarUserLikes); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// PersonalContent recommends unseen movies from the genres of movies
// the user liked. Movies the user has already rated never appear.
func (r *RecommendationRepo) PersonalContent(ctx context.Context, userID uint64) ([]PersonalContentRow, error) {
	rows, err := r.DB.QueryContext(ctx, `
		WITH UserFavoriteGenres AS (
			SELECT DISTINCT mg.genre_id
			FROM ratings r
			JOIN movie_genres mg ON r.movie_id = mg.movie_id
			WHERE r.user_id = ? AND r.rating >= ?
		),
		UserRatedMovies AS (
			SELECT DISTINCT movie_id FROM ratings WHERE user_id = ?
		)
		SELECT m.movie_id, m.title, m.release_year,
			COUNT(DISTINCT mg.genre_id) AS genre_matches,
			COALESCE(AVG(r.rating), 0) AS average_rating
		FROM movies m
		JOIN movie_genres mg ON m.movie_id = mg.movie_id
		LEFT JOIN ratings r ON m.movie_id = r.movie_id
		WHERE mg.genre_id IN (SELECT genre_id FROM UserFavoriteGenres)
			AND m.movie_id NOT IN (SELECT movie_id FROM UserRatedMovies)
		GROUP BY m.movie_id, m.title, m.release_year
		ORDER BY genre_matches DESC, average_rating DESC
		LIMIT ?`,
		userID, likeThreshold, userID, recommendLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []PersonalContentRow{}
	for rows.Next() {
		var p PersonalContentRow
		if err := rows.Scan(&p.ID, &p.Title, &p.ReleaseYear,
			&p.GenreMatches, &p.AverageRating); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// PersonalCollaborative recommends movies liked by users whose taste
// overlaps the anchor user's: at least similarityThreshold movies both
// rated at or above likeThreshold. Movies the user already rated never
// appear, regardless of the score they gave.
func (r *RecommendationRepo) PersonalCollaborative(ctx context.Context, userID uint64) ([]CollaborativeRow, error) {
	rows, err := r.DB.QueryContext(ctx, `
		WITH TargetUserLikes AS (
			SELECT movie_id FROM ratings WHERE user_id = ? AND rating >= ?
		),
		TargetUserRated AS (
			SELECT DISTINCT movie_id FROM ratings WHERE user_id = ?
		),
		SimilarUsers AS (
			SELECT r.user_id, COUNT(r.movie_id) AS shared_likes
			FROM ratings r
			WHERE r.movie_id IN (SELECT movie_id FROM TargetUserLikes)
				AND r.user_id != ?
				AND r.rating >= ?
			GROUP BY r.user_id
			HAVING shared_likes >= ?
		),
		RecommendedMovies AS (
			SELECT r.movie_id, COUNT(DISTINCT r.user_id) AS similar_user_likes
			FROM ratings r
			WHERE r.user_id IN (SELECT user_id FROM SimilarUsers)
				AND r.rating >= ?
				AND r.movie_id NOT IN (SELECT movie_id FROM TargetUserRated)
			GROUP BY r.movie_id
		)
		SELECT m.movie_id, m.title, m.release_year,
			COALESCE(AVG(r_all.rating), 0) AS average_rating,
			rm.similar_user_likes
		FROM RecommendedMovies rm
		JOIN movies m ON rm.movie_id = m.movie_id
		LEFT JOIN ratings r_all ON m.movie_id = r_all.movie_id
		GROUP BY m.movie_id, m.title, m.release_year, rm.similar_user_likes
		ORDER BY rm.similar_user_likes DESC, average_rating DESC
		LIMIT ?`,
		userID, likeThreshold, userID, userID, likeThreshold,
		similarityThreshold, likeThreshold, recommendLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []CollaborativeRow{}
	for rows.Next() {
		var c CollaborativeRow
		if err := rows.Scan(&c.ID, &c.Title, &c.ReleaseYear,
			&c.AverageRating, &c.SimilarUserLikes); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
