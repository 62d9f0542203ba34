// Command seed populates the movie database with a deterministic
// synthetic dataset: a fixed RNG seed makes every run produce the same
// rows, so local environments and CI fixtures stay comparable.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/moviebase/movie-recommendation/internal/config"
	"github.com/moviebase/movie-recommendation/internal/database"
)

// Dataset sizes, matching the catalog the API was designed around.
const (
	numUsers          = 200
	numMovies         = 1000
	numActors         = 500
	numDirectors      = 100
	numRatings        = 10000
	numReviews        = 500
	numWatchlists     = 300
	numWatchlistItems = 5000

	movieGenreLinks    = 3000
	movieActorLinks    = 4000
	movieDirectorLinks = 1500

	// insertBatch caps rows per multi-row INSERT statement.
	insertBatch = 500
)

var genreNames = []string{
	"Action", "Comedy", "Drama", "Science Fiction", "Horror", "Romance",
	"Thriller", "Fantasy", "Documentary", "Animation", "Crime", "Mystery",
	"Adventure", "Family", "War", "History", "Music", "Western", "Biography", "Musical",
}

var firstNames = []string{
	"James", "Mary", "Robert", "Patricia", "John", "Jennifer", "Michael",
	"Linda", "David", "Elizabeth", "William", "Barbara", "Richard", "Susan",
	"Joseph", "Jessica", "Thomas", "Sarah", "Charles", "Karen", "Daniel",
	"Nancy", "Matthew", "Lisa", "Anthony", "Betty", "Mark", "Margaret",
	"Donald", "Sandra", "Steven", "Ashley", "Paul", "Kimberly", "Andrew",
	"Emily", "Joshua", "Donna", "Kenneth", "Michelle",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller",
	"Davis", "Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez",
	"Wilson", "Anderson", "Thomas", "Taylor", "Moore", "Jackson", "Martin",
	"Lee", "Perez", "Thompson", "White", "Harris", "Sanchez", "Clark",
	"Ramirez", "Lewis", "Robinson", "Walker", "Young", "Allen", "King",
	"Wright", "Scott", "Torres", "Nguyen", "Hill", "Flores",
}

var titleWords = []string{
	"midnight", "silver", "shadow", "garden", "winter", "echo", "crimson",
	"river", "empire", "broken", "golden", "whisper", "storm", "paper",
	"hollow", "distant", "iron", "velvet", "northern", "forgotten", "last",
	"silent", "burning", "hidden", "glass", "wild", "lonely", "electric",
	"frozen", "scarlet", "ancient", "rising", "fallen", "secret", "endless",
	"summer", "neon", "savage", "quiet", "stolen",
}

var synopsisWords = []string{
	"a", "the", "city", "night", "stranger", "family", "past", "truth",
	"escapes", "discovers", "returns", "confronts", "haunted", "journey",
	"love", "betrayal", "memory", "future", "secrets", "danger", "hope",
	"against", "between", "beyond", "through", "their", "every", "nothing",
	"everything", "unravels", "collides", "begins", "ends", "changes",
}

var listNames = []string{"Favorites", "To Watch", "My Top 10", "Guilty Pleasures"}

var emailDomains = []string{"example.com", "example.net", "example.org"}

type pair struct{ a, b uint64 }

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}

	// All statements run on one connection so the FK-check toggle
	// applies to every insert in the session.
	conn, err := db.Conn(ctx)
	if err != nil {
		log.Fatalf("acquire connection: %v", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "SET FOREIGN_KEY_CHECKS=0"); err != nil {
		log.Fatalf("disable fk checks: %v", err)
	}
	defer conn.ExecContext(ctx, "SET FOREIGN_KEY_CHECKS=1")

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		log.Fatalf("begin: %v", err)
	}
	defer tx.Rollback()

	rng := rand.New(rand.NewSource(0))

	// One bcrypt hash shared by all seed users. Hashing 200 distinct
	// passwords would dominate the runtime for no benefit.
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		log.Fatalf("hash seed password: %v", err)
	}

	ins := &inserter{ctx: ctx, tx: tx}

	log.Println("seeding users...")
	ins.run("users", []string{"user_id", "username", "email", "password_hash", "created_at"}, numUsers, func(i int) []any {
		name := strings.ToLower(pick(rng, firstNames)) + fmt.Sprint(i+1)
		return []any{
			i + 1,
			name,
			name + "@" + pick(rng, emailDomains),
			string(hash),
			randDate(rng, 2016, 2025),
		}
	})

	log.Println("seeding movies...")
	ins.run("movies", []string{"movie_id", "title", "release_year", "synopsis", "duration_min"}, numMovies, func(i int) []any {
		return []any{
			i + 1,
			movieTitle(rng),
			1980 + rng.Intn(45),
			synopsis(rng),
			75 + rng.Intn(106),
		}
	})

	log.Println("seeding genres...")
	ins.run("genres", []string{"genre_id", "name"}, len(genreNames), func(i int) []any {
		return []any{i + 1, genreNames[i]}
	})

	log.Println("seeding actors...")
	ins.run("actors", []string{"actor_id", "first_name", "last_name", "birthdate"}, numActors, func(i int) []any {
		return []any{i + 1, pick(rng, firstNames), pick(rng, lastNames), randDate(rng, 1945, 2007)}
	})

	log.Println("seeding directors...")
	ins.run("directors", []string{"director_id", "first_name", "last_name", "birthdate"}, numDirectors, func(i int) []any {
		return []any{i + 1, pick(rng, firstNames), pick(rng, lastNames), randDate(rng, 1935, 1995)}
	})

	log.Println("seeding ratings and reviews...")
	ratingPairs := uniquePairs(rng, numRatings, numUsers, numMovies)
	ins.run("ratings", []string{"user_id", "movie_id", "rating", "created_at"}, len(ratingPairs), func(i int) []any {
		p := ratingPairs[i]
		return []any{p.a, p.b, 1 + rng.Intn(5), randDate(rng, 2026, 2026)}
	})

	// Reviews cover a sample of the rated pairs so every review has a
	// matching rating.
	reviewPairs := samplePairs(rng, ratingPairs, numReviews)
	ins.run("reviews", []string{"review_id", "user_id", "movie_id", "review_text", "created_at"}, len(reviewPairs), func(i int) []any {
		p := reviewPairs[i]
		return []any{i + 1, p.a, p.b, synopsis(rng), randDate(rng, 2026, 2026)}
	})

	log.Println("seeding watchlists...")
	ins.run("watchlists", []string{"watchlist_id", "user_id", "name", "created_at"}, numWatchlists, func(i int) []any {
		return []any{i + 1, 1 + rng.Intn(numUsers), pick(rng, listNames), randDate(rng, 2026, 2026)}
	})

	itemPairs := uniquePairs(rng, numWatchlistItems, numWatchlists, numMovies)
	ins.run("watchlist_items", []string{"watchlist_id", "movie_id", "added_at"}, len(itemPairs), func(i int) []any {
		p := itemPairs[i]
		return []any{p.a, p.b, randDate(rng, 2026, 2026)}
	})

	log.Println("seeding junction tables...")
	genreLinks := coveringPairs(rng, movieGenreLinks, numMovies, len(genreNames))
	ins.run("movie_genres", []string{"movie_id", "genre_id"}, len(genreLinks), func(i int) []any {
		return []any{genreLinks[i].a, genreLinks[i].b}
	})

	actorLinks := uniquePairs(rng, movieActorLinks, numMovies, numActors)
	ins.run("movie_actors", []string{"movie_id", "actor_id", "role_name"}, len(actorLinks), func(i int) []any {
		return []any{actorLinks[i].a, actorLinks[i].b, pick(rng, firstNames)}
	})

	directorLinks := coveringPairs(rng, movieDirectorLinks, numMovies, numDirectors)
	ins.run("movie_directors", []string{"movie_id", "director_id"}, len(directorLinks), func(i int) []any {
		return []any{directorLinks[i].a, directorLinks[i].b}
	})

	if ins.err != nil {
		log.Fatalf("seed failed: %v", ins.err)
	}
	if err := tx.Commit(); err != nil {
		log.Fatalf("commit: %v", err)
	}
	log.Println("done")
}

// inserter batches rows into multi-row INSERT statements. The first
// error stops all further work; main checks err before committing.
type inserter struct {
	ctx context.Context
	tx  *sql.Tx
	err error
}

func (in *inserter) run(table string, cols []string, n int, row func(i int) []any) {
	if in.err != nil {
		return
	}
	placeholder := "(" + strings.TrimSuffix(strings.Repeat("?,", len(cols)), ",") + ")"
	for start := 0; start < n; start += insertBatch {
		end := start + insertBatch
		if end > n {
			end = n
		}
		args := make([]any, 0, (end-start)*len(cols))
		for i := start; i < end; i++ {
			args = append(args, row(i)...)
		}
		query := "INSERT INTO " + table + " (" + strings.Join(cols, ", ") + ") VALUES " +
			strings.TrimSuffix(strings.Repeat(placeholder+",", end-start), ",")
		if _, err := in.tx.ExecContext(in.ctx, query, args...); err != nil {
			in.err = fmt.Errorf("insert %s: %w", table, err)
			return
		}
	}
}

func pick(rng *rand.Rand, list []string) string {
	return list[rng.Intn(len(list))]
}

// randDate returns a uniformly random timestamp within the year range,
// inclusive on both ends.
func randDate(rng *rand.Rand, fromYear, toYear int) time.Time {
	lo := time.Date(fromYear, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
	hi := time.Date(toYear+1, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
	return time.Unix(lo+rng.Int63n(hi-lo), 0).UTC()
}

func movieTitle(rng *rand.Rand) string {
	n := 2 + rng.Intn(4)
	words := make([]string, n)
	for i := range words {
		w := pick(rng, titleWords)
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func synopsis(rng *rand.Rand) string {
	var b strings.Builder
	sentences := 1 + rng.Intn(3)
	for s := 0; s < sentences; s++ {
		n := 6 + rng.Intn(8)
		for i := 0; i < n; i++ {
			w := pick(rng, synopsisWords)
			if i == 0 {
				w = strings.ToUpper(w[:1]) + w[1:]
			} else {
				b.WriteByte(' ')
			}
			b.WriteString(w)
		}
		b.WriteString(". ")
	}
	return strings.TrimSpace(b.String())
}

// uniquePairs draws n distinct (1..maxA, 1..maxB) pairs.
func uniquePairs(rng *rand.Rand, n, maxA, maxB int) []pair {
	seen := make(map[pair]bool, n)
	out := make([]pair, 0, n)
	for len(out) < n {
		p := pair{uint64(1 + rng.Intn(maxA)), uint64(1 + rng.Intn(maxB))}
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

// coveringPairs guarantees every a in 1..maxA appears at least once,
// then tops up with random distinct pairs until n links exist.
func coveringPairs(rng *rand.Rand, n, maxA, maxB int) []pair {
	seen := make(map[pair]bool, n)
	out := make([]pair, 0, n)
	for a := 1; a <= maxA; a++ {
		p := pair{uint64(a), uint64(1 + rng.Intn(maxB))}
		seen[p] = true
		out = append(out, p)
	}
	for len(out) < n {
		p := pair{uint64(1 + rng.Intn(maxA)), uint64(1 + rng.Intn(maxB))}
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

func samplePairs(rng *rand.Rand, pool []pair, n int) []pair {
	idx := rng.Perm(len(pool))[:n]
	out := make([]pair, n)
	for i, j := range idx {
		out[i] = pool[j]
	}
	return out
}
