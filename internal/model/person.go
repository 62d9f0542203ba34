package model

import "time"

// Actor mirrors a row of the `actors` table. Roles played in a
// particular movie are stored on the movie_actors junction row.
type Actor struct {
	ID        uint64    // actors.actor_id
	FirstName string    // actors.first_name
	LastName  string    // actors.last_name
	Birthdate time.Time // actors.birthdate
}

// Director mirrors a row of the `directors` table.
type Director struct {
	ID        uint64    // directors.director_id
	FirstName string    // directors.first_name
	LastName  string    // directors.last_name
	Birthdate time.Time // directors.birthdate
}
