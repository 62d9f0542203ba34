package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/moviebase/movie-recommendation/internal/queue"
	queue_publisher "github.com/moviebase/movie-recommendation/internal/service"
)

// RatingStore records ratings. Upsert reports whether a new row was
// created (true) or an existing one overwritten (false).
type RatingStore interface {
	Upsert(ctx context.Context, userID, movieID uint64, rating int) (bool, error)
}

// RatingHandler serves the rate endpoint and emits a rating.recorded
// event after each successful write.
type RatingHandler struct {
	Ratings RatingStore
	Events  queue_publisher.Publisher
}

func NewRatingHandler(r RatingStore, p queue_publisher.Publisher) *RatingHandler {
	return &RatingHandler{Ratings: r, Events: p}
}

type rateReq struct {
	UserID  uint64 `json:"user_id"`
	MovieID uint64 `json:"movie_id"`
	// Bound as json.Number so fractional values like 3.5 are rejected
	// instead of silently truncated.
	Rating json.Number `json:"rating"`
}

// Rate creates or replaces a user's rating for a movie. Returns 201
// when the rating is new, 200 when it overwrote an earlier one.
func (h *RatingHandler) Rate(c echo.Context) error {
	var req rateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.UserID == 0 || req.MovieID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id and movie_id required"})
	}
	rating, err := req.Rating.Int64()
	if err != nil || rating < 1 || rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be an integer between 1 and 5"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	created, err := h.Ratings.Upsert(ctx, req.UserID, req.MovieID, int(rating))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	status := "updated"
	code := http.StatusOK
	if created {
		status = "created"
		code = http.StatusCreated
	}

	if h.Events != nil {
		// Best effort: a broker outage must not fail the request.
		_ = h.Events.PublishRatingRecorded(ctx, queue.RatingRecordedEvent{
			UserID:     req.UserID,
			MovieID:    req.MovieID,
			Rating:     int(rating),
			Status:     status,
			RecordedAt: time.Now().UTC().Format(time.RFC3339),
		})
	}

	return c.JSON(code, echo.Map{"status": status})
}
