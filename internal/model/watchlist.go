package model

import "time"

// Watchlist mirrors a row of the `watchlists` table. Every user
// gets a default watchlist named "My Watchlist" at registration;
// the API always operates on the user's first (oldest) list.
type Watchlist struct {
	ID        uint64    // watchlists.watchlist_id
	UserID    uint64    // watchlists.user_id
	Name      string    // watchlists.name
	CreatedAt time.Time // watchlists.created_at
}

// WatchlistItem mirrors a row of the `watchlist_items` junction
// table. The pair (WatchlistID, MovieID) is unique; the toggle
// endpoint relies on this to detect presence.
type WatchlistItem struct {
	ID          uint64    // watchlist_items.item_id
	WatchlistID uint64    // watchlist_items.watchlist_id
	MovieID     uint64    // watchlist_items.movie_id
	AddedAt     time.Time // watchlist_items.added_at
}
