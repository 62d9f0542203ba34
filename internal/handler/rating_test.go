package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/moviebase/movie-recommendation/internal/queue"
)

type mockRatingStore struct {
	mock.Mock
}

func (m *mockRatingStore) Upsert(ctx context.Context, userID, movieID uint64, rating int) (bool, error) {
	args := m.Called(userID, movieID, rating)
	return args.Bool(0), args.Error(1)
}

// mockPublisher records the events the handler emits.
type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishRatingRecorded(ctx context.Context, event queue.RatingRecordedEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

func TestRate(t *testing.T) {
	e := echo.New()

	t.Run("new rating returns 201 and publishes", func(t *testing.T) {
		store := new(mockRatingStore)
		store.On("Upsert", uint64(1), uint64(7), 5).Return(true, nil)
		pub := new(mockPublisher)
		pub.On("PublishRatingRecorded", mock.MatchedBy(func(ev queue.RatingRecordedEvent) bool {
			return ev.UserID == 1 && ev.MovieID == 7 && ev.Rating == 5 && ev.Status == "created"
		})).Return(nil)
		h := NewRatingHandler(store, pub)

		req, rec := postJSON("/api/rate", `{"user_id":1,"movie_id":7,"rating":5}`)
		require.NoError(t, h.Rate(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"created"`)
		store.AssertExpectations(t)
		pub.AssertExpectations(t)
	})

	t.Run("overwriting returns 200", func(t *testing.T) {
		store := new(mockRatingStore)
		store.On("Upsert", uint64(1), uint64(7), 3).Return(false, nil)
		h := NewRatingHandler(store, nil)

		req, rec := postJSON("/api/rate", `{"user_id":1,"movie_id":7,"rating":3}`)
		require.NoError(t, h.Rate(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"updated"`)
	})

	t.Run("fractional rating rejected", func(t *testing.T) {
		h := NewRatingHandler(new(mockRatingStore), nil)
		req, rec := postJSON("/api/rate", `{"user_id":1,"movie_id":7,"rating":3.5}`)
		require.NoError(t, h.Rate(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rating out of range rejected", func(t *testing.T) {
		h := NewRatingHandler(new(mockRatingStore), nil)
		for _, body := range []string{
			`{"user_id":1,"movie_id":7,"rating":0}`,
			`{"user_id":1,"movie_id":7,"rating":6}`,
		} {
			req, rec := postJSON("/api/rate", body)
			require.NoError(t, h.Rate(e.NewContext(req, rec)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		}
	})

	t.Run("missing ids rejected", func(t *testing.T) {
		h := NewRatingHandler(new(mockRatingStore), nil)
		req, rec := postJSON("/api/rate", `{"rating":4}`)
		require.NoError(t, h.Rate(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("publish failure does not fail the request", func(t *testing.T) {
		store := new(mockRatingStore)
		store.On("Upsert", uint64(1), uint64(7), 4).Return(true, nil)
		pub := new(mockPublisher)
		pub.On("PublishRatingRecorded", mock.Anything).Return(errors.New("broker down"))
		h := NewRatingHandler(store, pub)

		req, rec := postJSON("/api/rate", `{"user_id":1,"movie_id":7,"rating":4}`)
		require.NoError(t, h.Rate(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusCreated, rec.Code)
	})
}
