//go:build integration

package repository

// Integration tests for the SQL layer. They start a disposable MySQL
// container, create the schema and verify the properties the mocked
// handler tests cannot see: eligibility cutoffs, anchor and
// already-rated exclusions, upsert row cardinality and toggle
// round-trips.
//
// Usage:
//   go test -tags integration -run TestMySQLRepositories ./internal/repository/...

import (
	"context"
	"database/sql"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/moviebase/movie-recommendation/internal/database"
)

// skipIfNoDocker skips the test when no Docker daemon is reachable so
// the suite degrades gracefully on machines without Docker.
func skipIfNoDocker(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if exec.CommandContext(ctx, "docker", "info").Run() != nil {
		t.Skip("Skipping test: Docker not available")
	}
}

// startMySQL runs a MySQL container, opens a pool against it and
// applies the schema. Cleanup is registered on t.
func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	skipIfNoDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8.4",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "it-secret",
			"MYSQL_DATABASE":      "movie_rec_db",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("3306/tcp"),
			// mysqld logs the line once for the init server and once
			// for the real one; wait for the second.
			wait.ForLog("ready for connections").WithOccurrence(2),
		).WithStartupTimeout(2 * time.Minute),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("warning: failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "3306/tcp")
	require.NoError(t, err)

	// The server can still refuse connections briefly after the ready
	// log line; retry the open for a while.
	var db *sql.DB
	deadline := time.Now().Add(60 * time.Second)
	for {
		db, err = database.Open("root", "it-secret", host, port.Port(), "movie_rec_db")
		if err == nil || time.Now().After(deadline) {
			break
		}
		time.Sleep(2 * time.Second)
	}
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.EnsureSchema(ctx, db))
	return db
}

func mustExec(t *testing.T, db *sql.DB, query string, args ...any) {
	t.Helper()
	_, err := db.ExecContext(context.Background(), query, args...)
	require.NoError(t, err)
}

// seedFixture loads a small catalog with a known rating structure:
//
//	movie 1: five ratings >= 4         (eligible for popular)
//	movie 2: four ratings of 5         (below the eligibility cutoff)
//	user 1:  likes movies 1, 2, 4 and rated movie 3 with a 1
//	users 2-4: like movies 1, 2, 4     (three shared likes with user 1)
//	user 3:  also likes movies 3 and 6 (movie 3 must never reach user 1)
func seedFixture(t *testing.T, db *sql.DB) {
	t.Helper()

	for _, u := range []string{"alice", "bob", "carol", "dave", "erin", "frank"} {
		mustExec(t, db,
			"INSERT INTO users (username, email, password_hash) VALUES (?, ?, 'x')",
			u, u+"@example.com")
	}
	for i := 1; i <= 8; i++ {
		mustExec(t, db,
			"INSERT INTO movies (title, release_year, synopsis, duration_min) VALUES (?, 2000, '', 100)",
			"Movie "+string(rune('0'+i)))
	}
	mustExec(t, db, "INSERT INTO genres (name) VALUES ('Action'), ('Drama')")
	for movie, genre := range map[int]int{1: 1, 2: 1, 3: 1, 4: 2, 5: 2, 6: 1, 7: 2, 8: 1} {
		mustExec(t, db, "INSERT INTO movie_genres (movie_id, genre_id) VALUES (?, ?)", movie, genre)
	}
	mustExec(t, db, "INSERT INTO directors (first_name, last_name) VALUES ('Ava', 'Stone'), ('Max', 'Reed')")
	for movie, director := range map[int]int{1: 1, 2: 1, 3: 2, 4: 1, 5: 2, 6: 2, 7: 1, 8: 2} {
		mustExec(t, db, "INSERT INTO movie_directors (movie_id, director_id) VALUES (?, ?)", movie, director)
	}

	ratings := []struct {
		user, movie, rating int
	}{
		{1, 1, 5}, {1, 2, 5}, {1, 4, 4}, {1, 3, 1},
		{2, 1, 5}, {2, 2, 5}, {2, 4, 5}, {2, 6, 5},
		{3, 1, 5}, {3, 2, 5}, {3, 4, 5}, {3, 6, 4}, {3, 3, 5},
		{4, 1, 5}, {4, 2, 5}, {4, 4, 5},
		{5, 1, 4},
	}
	for _, r := range ratings {
		mustExec(t, db,
			"INSERT INTO ratings (user_id, movie_id, rating) VALUES (?, ?, ?)",
			r.user, r.movie, r.rating)
	}

	mustExec(t, db, "INSERT INTO watchlists (user_id, name) VALUES (1, 'My Watchlist')")
}

func TestMySQLRepositories(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := startMySQL(t)
	seedFixture(t, db)
	ctx := context.Background()

	t.Run("popular excludes movies below the ratings cutoff", func(t *testing.T) {
		rows, err := NewRecommendationRepo(db).Popular(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, rows)

		found := map[uint64]bool{}
		for _, r := range rows {
			assert.GreaterOrEqual(t, r.RatingsCount, minRatingsForPopular,
				"movie %d surfaced with too few ratings", r.ID)
			found[r.ID] = true
		}
		// Movie 1 has five ratings, movie 2 only four despite a
		// perfect average.
		assert.True(t, found[1])
		assert.False(t, found[2])
	})

	t.Run("content based never returns the anchor", func(t *testing.T) {
		rows, err := NewRecommendationRepo(db).ContentBased(ctx, 1)
		require.NoError(t, err)
		require.NotEmpty(t, rows)
		for _, r := range rows {
			assert.NotEqual(t, uint64(1), r.ID)
		}
	})

	t.Run("collaborative never returns the anchor", func(t *testing.T) {
		rows, err := NewRecommendationRepo(db).Collaborative(ctx, 1)
		require.NoError(t, err)
		require.NotEmpty(t, rows)

		found := map[uint64]int{}
		for _, r := range rows {
			assert.NotEqual(t, uint64(1), r.ID)
			found[r.ID] = r.SimilarUserLikes
		}
		// All four co-raters of movie 1 also liked movie 2.
		assert.Equal(t, 4, found[2])
	})

	t.Run("personal content excludes every rated movie", func(t *testing.T) {
		rows, err := NewRecommendationRepo(db).PersonalContent(ctx, 1)
		require.NoError(t, err)
		require.NotEmpty(t, rows)
		for _, r := range rows {
			// 1, 2 and 4 are liked; 3 is rated with a 1. None may come back.
			assert.NotContains(t, []uint64{1, 2, 3, 4}, r.ID)
		}
	})

	t.Run("personal collaborative excludes every rated movie", func(t *testing.T) {
		rows, err := NewRecommendationRepo(db).PersonalCollaborative(ctx, 1)
		require.NoError(t, err)
		require.NotEmpty(t, rows)

		found := map[uint64]bool{}
		for _, r := range rows {
			assert.NotContains(t, []uint64{1, 2, 3, 4}, r.ID)
			found[r.ID] = true
		}
		// Movie 3 is liked by similar user carol but user 1 already
		// rated it; movie 6 is the expected recommendation.
		assert.True(t, found[6])
		assert.False(t, found[3])
	})

	t.Run("rating upsert keeps one row per user and movie", func(t *testing.T) {
		repo := NewRatingRepo(db)

		created, err := repo.Upsert(ctx, 6, 5, 3)
		require.NoError(t, err)
		assert.True(t, created)

		created, err = repo.Upsert(ctx, 6, 5, 4)
		require.NoError(t, err)
		assert.False(t, created)

		var count, value int
		require.NoError(t, db.QueryRowContext(ctx,
			"SELECT COUNT(*), MAX(rating) FROM ratings WHERE user_id = 6 AND movie_id = 5").
			Scan(&count, &value))
		assert.Equal(t, 1, count)
		assert.Equal(t, 4, value)
	})

	t.Run("toggle is self inverse", func(t *testing.T) {
		repo := NewWatchlistRepo(db)

		status, err := repo.Toggle(ctx, 1, 7)
		require.NoError(t, err)
		assert.Equal(t, ToggleAdded, status)

		movies, err := repo.Movies(ctx, 1)
		require.NoError(t, err)
		require.Len(t, movies, 1)
		assert.Equal(t, uint64(7), movies[0].ID)

		status, err = repo.Toggle(ctx, 1, 7)
		require.NoError(t, err)
		assert.Equal(t, ToggleRemoved, status)

		movies, err = repo.Movies(ctx, 1)
		require.NoError(t, err)
		assert.Empty(t, movies)
	})

	t.Run("toggle without a watchlist fails cleanly", func(t *testing.T) {
		_, err := NewWatchlistRepo(db).Toggle(ctx, 6, 7)
		assert.ErrorIs(t, err, ErrNoWatchlist)
	})
}
