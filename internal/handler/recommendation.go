package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/moviebase/movie-recommendation/internal/repository"
)

// RecommendationStore exposes the five recommendation strategies.
type RecommendationStore interface {
	Popular(ctx context.Context) ([]repository.PopularRow, error)
	ContentBased(ctx context.Context, movieID uint64) ([]repository.ContentRow, error)
	Collaborative(ctx context.Context, movieID uint64) ([]repository.CollaborativeRow, error)
	PersonalContent(ctx context.Context, userID uint64) ([]repository.PersonalContentRow, error)
	PersonalCollaborative(ctx context.Context, userID uint64) ([]repository.CollaborativeRow, error)
}

// RecommendationHandler serves the recommendation endpoints. The
// anchored strategies take a movie id path parameter, the personal
// ones a user_id query parameter.
type RecommendationHandler struct {
	Recs RecommendationStore
}

func NewRecommendationHandler(r RecommendationStore) *RecommendationHandler {
	return &RecommendationHandler{Recs: r}
}

// Popular ranks the catalog by Bayesian weighted rating.
func (h *RecommendationHandler) Popular(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, err := h.Recs.Popular(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, rows)
}

// ContentBased recommends movies sharing genres and directors with the
// anchor movie. An unknown anchor simply yields an empty list.
func (h *RecommendationHandler) ContentBased(c echo.Context) error {
	movieID, err := strconv.ParseUint(c.Param("movie_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, err := h.Recs.ContentBased(ctx, movieID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, rows)
}

// Collaborative recommends movies liked by users who liked the anchor.
func (h *RecommendationHandler) Collaborative(c echo.Context) error {
	movieID, err := strconv.ParseUint(c.Param("movie_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, err := h.Recs.Collaborative(ctx, movieID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, rows)
}

// PersonalContent recommends unseen movies in the user's favourite
// genres.
func (h *RecommendationHandler) PersonalContent(c echo.Context) error {
	userID, err := strconv.ParseUint(c.QueryParam("user_id"), 10, 64)
	if err != nil || userID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, err := h.Recs.PersonalContent(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, rows)
}

// PersonalCollaborative recommends movies liked by users with similar
// taste, excluding everything the user has already rated.
func (h *RecommendationHandler) PersonalCollaborative(c echo.Context) error {
	userID, err := strconv.ParseUint(c.QueryParam("user_id"), 10, 64)
	if err != nil || userID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, err := h.Recs.PersonalCollaborative(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, rows)
}
