package model

// Movie mirrors a row of the `movies` table. Genre, actor and
// director relations live in junction tables and are loaded by the
// repository layer when needed.
//
// Fields:
//
//	ID          – primary key identifier.
//	Title       – movie title.
//	ReleaseYear – year of first release.
//	Synopsis    – short plot description.
//	DurationMin – running time in minutes.
type Movie struct {
	ID          uint64 // movies.movie_id
	Title       string // movies.title
	ReleaseYear int    // movies.release_year
	Synopsis    string // movies.synopsis
	DurationMin int    // movies.duration_min
}

// Genre is a simple reference entity joined to movies via the
// movie_genres junction table.
type Genre struct {
	ID   uint64 // genres.genre_id
	Name string // genres.name
}
