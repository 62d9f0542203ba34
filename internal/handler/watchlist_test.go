package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/moviebase/movie-recommendation/internal/repository"
)

type mockWatchlistStore struct {
	mock.Mock
}

func (m *mockWatchlistStore) Toggle(ctx context.Context, userID, movieID uint64) (string, error) {
	args := m.Called(userID, movieID)
	return args.String(0), args.Error(1)
}

func (m *mockWatchlistStore) Movies(ctx context.Context, userID uint64) ([]repository.MovieSummary, error) {
	args := m.Called(userID)
	return args.Get(0).([]repository.MovieSummary), args.Error(1)
}

func TestWatchlistMovies(t *testing.T) {
	e := echo.New()

	t.Run("returns the user's movies", func(t *testing.T) {
		store := new(mockWatchlistStore)
		store.On("Movies", uint64(3)).Return([]repository.MovieSummary{
			{ID: 10, Title: "Silent River", ReleaseYear: 2001, AverageRating: 4.2},
		}, nil)
		h := NewWatchlistHandler(store)

		req := httptest.NewRequest(http.MethodGet, "/api/watchlist?user_id=3", nil)
		rec := httptest.NewRecorder()
		require.NoError(t, h.Movies(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Silent River")
	})

	t.Run("no watchlist yields empty list", func(t *testing.T) {
		store := new(mockWatchlistStore)
		store.On("Movies", uint64(3)).Return([]repository.MovieSummary{}, nil)
		h := NewWatchlistHandler(store)

		req := httptest.NewRequest(http.MethodGet, "/api/watchlist?user_id=3", nil)
		rec := httptest.NewRecorder()
		require.NoError(t, h.Movies(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("missing user_id", func(t *testing.T) {
		h := NewWatchlistHandler(new(mockWatchlistStore))
		req := httptest.NewRequest(http.MethodGet, "/api/watchlist", nil)
		rec := httptest.NewRecorder()
		require.NoError(t, h.Movies(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestWatchlistToggle(t *testing.T) {
	e := echo.New()

	t.Run("adds then removes", func(t *testing.T) {
		store := new(mockWatchlistStore)
		store.On("Toggle", uint64(3), uint64(10)).Return(repository.ToggleAdded, nil).Once()
		store.On("Toggle", uint64(3), uint64(10)).Return(repository.ToggleRemoved, nil).Once()
		h := NewWatchlistHandler(store)

		req, rec := postJSON("/api/watchlist/toggle", `{"user_id":3,"movie_id":10}`)
		require.NoError(t, h.Toggle(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"added"`)

		req, rec = postJSON("/api/watchlist/toggle", `{"user_id":3,"movie_id":10}`)
		require.NoError(t, h.Toggle(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"removed"`)
		store.AssertExpectations(t)
	})

	t.Run("user without watchlist", func(t *testing.T) {
		store := new(mockWatchlistStore)
		store.On("Toggle", uint64(9), uint64(10)).Return("", repository.ErrNoWatchlist)
		h := NewWatchlistHandler(store)

		req, rec := postJSON("/api/watchlist/toggle", `{"user_id":9,"movie_id":10}`)
		require.NoError(t, h.Toggle(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		h := NewWatchlistHandler(new(mockWatchlistStore))
		req, rec := postJSON("/api/watchlist/toggle", `{"user_id":3}`)
		require.NoError(t, h.Toggle(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
