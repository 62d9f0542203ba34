package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/moviebase/movie-recommendation/internal/repository"
)

// WatchlistStore is the watchlist surface the endpoints depend on.
type WatchlistStore interface {
	Toggle(ctx context.Context, userID, movieID uint64) (string, error)
	Movies(ctx context.Context, userID uint64) ([]repository.MovieSummary, error)
}

// WatchlistHandler serves the watchlist listing and toggle endpoints.
type WatchlistHandler struct {
	Watchlists WatchlistStore
}

func NewWatchlistHandler(w WatchlistStore) *WatchlistHandler {
	return &WatchlistHandler{Watchlists: w}
}

type toggleReq struct {
	UserID  uint64 `json:"user_id"`
	MovieID uint64 `json:"movie_id"`
}

// Movies lists the movies on the user's first watchlist. A user with
// no watchlist gets an empty list, not an error.
func (h *WatchlistHandler) Movies(c echo.Context) error {
	userID, err := strconv.ParseUint(c.QueryParam("user_id"), 10, 64)
	if err != nil || userID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, err := h.Watchlists.Movies(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, rows)
}

// Toggle adds the movie to the user's first watchlist if absent, or
// removes it if present, and reports which happened.
func (h *WatchlistHandler) Toggle(c echo.Context) error {
	var req toggleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.UserID == 0 || req.MovieID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id and movie_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	status, err := h.Watchlists.Toggle(ctx, req.UserID, req.MovieID)
	if err != nil {
		if errors.Is(err, repository.ErrNoWatchlist) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user has no watchlist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": status})
}
