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

// MovieStore is the catalog surface the movie endpoints depend on.
type MovieStore interface {
	Genres(ctx context.Context) ([]repository.GenreRow, error)
	Search(ctx context.Context, term, genreID, listType string) ([]repository.MovieSummary, error)
	Details(ctx context.Context, movieID, userID uint64) (repository.MovieDetail, error)
}

// MovieHandler serves the genre list, catalog search and movie detail
// endpoints.
type MovieHandler struct {
	Movies MovieStore
}

func NewMovieHandler(m MovieStore) *MovieHandler { return &MovieHandler{Movies: m} }

// Genres returns every genre sorted by name.
func (h *MovieHandler) Genres(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, err := h.Movies.Genres(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, rows)
}

// Search filters the catalog by title substring, genre id and list
// type ("recent" orders by release year). All parameters are optional.
func (h *MovieHandler) Search(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, err := h.Movies.Search(ctx,
		c.QueryParam("search"),
		c.QueryParam("genre"),
		c.QueryParam("list"),
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, rows)
}

// Details returns the full detail document for one movie. When the
// optional user_id query parameter is present the response also
// carries that user's own rating and watchlist flag.
func (h *MovieHandler) Details(c echo.Context) error {
	movieID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
	}

	var userID uint64
	if raw := c.QueryParam("user_id"); raw != "" {
		// A malformed user_id is ignored rather than rejected; the
		// detail document is still useful without the user fields.
		userID, _ = strconv.ParseUint(raw, 10, 64)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	detail, err := h.Movies.Details(ctx, movieID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, detail)
}
