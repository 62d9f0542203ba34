package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaStatements creates all application tables when they do not yet
// exist.  Order matters: referenced tables come before their junctions.
// The UNIQUE keys on ratings(user_id, movie_id) and
// watchlist_items(watchlist_id, movie_id) are what the rating upsert and
// the watchlist toggle rely on.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		username VARCHAR(100) NOT NULL,
		email VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (user_id),
		UNIQUE KEY uq_users_username (username),
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS movies (
		movie_id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		title VARCHAR(255) NOT NULL,
		release_year INT NOT NULL,
		synopsis TEXT,
		duration_min INT NOT NULL DEFAULT 0,
		PRIMARY KEY (movie_id),
		KEY idx_movies_title (title)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS genres (
		genre_id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name VARCHAR(100) NOT NULL,
		PRIMARY KEY (genre_id),
		UNIQUE KEY uq_genres_name (name)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS actors (
		actor_id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		first_name VARCHAR(100) NOT NULL,
		last_name VARCHAR(100) NOT NULL,
		birthdate DATE NULL,
		PRIMARY KEY (actor_id)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS directors (
		director_id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		first_name VARCHAR(100) NOT NULL,
		last_name VARCHAR(100) NOT NULL,
		birthdate DATE NULL,
		PRIMARY KEY (director_id)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS movie_genres (
		movie_id BIGINT UNSIGNED NOT NULL,
		genre_id BIGINT UNSIGNED NOT NULL,
		PRIMARY KEY (movie_id, genre_id),
		KEY idx_movie_genres_genre (genre_id),
		CONSTRAINT fk_mg_movie FOREIGN KEY (movie_id) REFERENCES movies (movie_id),
		CONSTRAINT fk_mg_genre FOREIGN KEY (genre_id) REFERENCES genres (genre_id)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS movie_actors (
		movie_id BIGINT UNSIGNED NOT NULL,
		actor_id BIGINT UNSIGNED NOT NULL,
		role_name VARCHAR(100) NOT NULL DEFAULT '',
		KEY idx_movie_actors_movie (movie_id),
		CONSTRAINT fk_ma_movie FOREIGN KEY (movie_id) REFERENCES movies (movie_id),
		CONSTRAINT fk_ma_actor FOREIGN KEY (actor_id) REFERENCES actors (actor_id)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS movie_directors (
		movie_id BIGINT UNSIGNED NOT NULL,
		director_id BIGINT UNSIGNED NOT NULL,
		PRIMARY KEY (movie_id, director_id),
		CONSTRAINT fk_md_movie FOREIGN KEY (movie_id) REFERENCES movies (movie_id),
		CONSTRAINT fk_md_director FOREIGN KEY (director_id) REFERENCES directors (director_id)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS ratings (
		rating_id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id BIGINT UNSIGNED NOT NULL,
		movie_id BIGINT UNSIGNED NOT NULL,
		rating TINYINT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (rating_id),
		UNIQUE KEY uq_ratings_user_movie (user_id, movie_id),
		KEY idx_ratings_movie (movie_id),
		CONSTRAINT fk_r_user FOREIGN KEY (user_id) REFERENCES users (user_id),
		CONSTRAINT fk_r_movie FOREIGN KEY (movie_id) REFERENCES movies (movie_id)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS reviews (
		review_id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id BIGINT UNSIGNED NOT NULL,
		movie_id BIGINT UNSIGNED NOT NULL,
		review_text TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (review_id),
		KEY idx_reviews_movie_created (movie_id, created_at),
		CONSTRAINT fk_rv_user FOREIGN KEY (user_id) REFERENCES users (user_id),
		CONSTRAINT fk_rv_movie FOREIGN KEY (movie_id) REFERENCES movies (movie_id)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS watchlists (
		watchlist_id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id BIGINT UNSIGNED NOT NULL,
		name VARCHAR(100) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (watchlist_id),
		KEY idx_watchlists_user (user_id),
		CONSTRAINT fk_w_user FOREIGN KEY (user_id) REFERENCES users (user_id)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS watchlist_items (
		item_id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		watchlist_id BIGINT UNSIGNED NOT NULL,
		movie_id BIGINT UNSIGNED NOT NULL,
		added_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (item_id),
		UNIQUE KEY uq_watchlist_items (watchlist_id, movie_id),
		CONSTRAINT fk_wi_watchlist FOREIGN KEY (watchlist_id) REFERENCES watchlists (watchlist_id),
		CONSTRAINT fk_wi_movie FOREIGN KEY (movie_id) REFERENCES movies (movie_id)
	) ENGINE=InnoDB`,
}

// EnsureSchema creates any missing tables.  It is idempotent and safe to
// run on every startup.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
