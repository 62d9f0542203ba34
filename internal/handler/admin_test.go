package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/moviebase/movie-recommendation/internal/repository"
)

type mockAdminStore struct {
	mock.Mock
}

func (m *mockAdminStore) Schema(ctx context.Context) (map[string][]repository.ColumnInfo, error) {
	args := m.Called()
	return args.Get(0).(map[string][]repository.ColumnInfo), args.Error(1)
}

func (m *mockAdminStore) Insert(ctx context.Context, table string, data map[string]any) (int64, error) {
	args := m.Called(table, data)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAdminStore) Select(ctx context.Context, query string) ([]map[string]any, []string, error) {
	args := m.Called(query)
	return args.Get(0).([]map[string]any), args.Get(1).([]string), args.Error(2)
}

func TestAdminSchema(t *testing.T) {
	e := echo.New()
	store := new(mockAdminStore)
	store.On("Schema").Return(map[string][]repository.ColumnInfo{
		"genres": {{Field: "genre_id", Type: "bigint unsigned", Key: "PRI"}},
	}, nil)
	h := NewAdminHandler(store)

	req := httptest.NewRequest(http.MethodGet, "/api/schema", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Schema(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Field":"genre_id"`)
}

func TestAdminInsert(t *testing.T) {
	e := echo.New()

	t.Run("allow-listed insert returns id", func(t *testing.T) {
		store := new(mockAdminStore)
		store.On("Insert", "genres", map[string]any{"name": "Noir"}).Return(int64(21), nil)
		h := NewAdminHandler(store)

		req, rec := postJSON("/api/insert", `{"table":"genres","data":{"name":"Noir"}}`)
		require.NoError(t, h.Insert(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"id":21`)
	})

	t.Run("unknown table rejected", func(t *testing.T) {
		store := new(mockAdminStore)
		store.On("Insert", "secrets", mock.Anything).Return(int64(0), repository.ErrUnknownTable)
		h := NewAdminHandler(store)

		req, rec := postJSON("/api/insert", `{"table":"secrets","data":{"x":1}}`)
		require.NoError(t, h.Insert(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("sql failure surfaces as 400", func(t *testing.T) {
		store := new(mockAdminStore)
		store.On("Insert", "genres", mock.Anything).Return(int64(0), errors.New("Duplicate entry 'Noir'"))
		h := NewAdminHandler(store)

		req, rec := postJSON("/api/insert", `{"table":"genres","data":{"name":"Noir"}}`)
		require.NoError(t, h.Insert(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty body rejected", func(t *testing.T) {
		h := NewAdminHandler(new(mockAdminStore))
		req, rec := postJSON("/api/insert", `{}`)
		require.NoError(t, h.Insert(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAdminQuery(t *testing.T) {
	e := echo.New()

	t.Run("select passes through", func(t *testing.T) {
		store := new(mockAdminStore)
		store.On("Select", "SELECT name FROM genres").Return(
			[]map[string]any{{"name": "Action"}}, []string{"name"}, nil)
		h := NewAdminHandler(store)

		req, rec := postJSON("/api/query", `{"query":"SELECT name FROM genres"}`)
		require.NoError(t, h.Query(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"columns":["name"]`)
	})

	t.Run("lowercase select with padding allowed", func(t *testing.T) {
		store := new(mockAdminStore)
		store.On("Select", "select 1").Return([]map[string]any{}, []string{"1"}, nil)
		h := NewAdminHandler(store)

		req, rec := postJSON("/api/query", `{"query":"   select 1"}`)
		require.NoError(t, h.Query(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("non-select forbidden", func(t *testing.T) {
		h := NewAdminHandler(new(mockAdminStore))
		for _, q := range []string{
			`{"query":"DELETE FROM users"}`,
			`{"query":"UPDATE movies SET title='x'"}`,
			`{"query":"DROP TABLE ratings"}`,
		} {
			req, rec := postJSON("/api/query", q)
			require.NoError(t, h.Query(e.NewContext(req, rec)))
			assert.Equal(t, http.StatusForbidden, rec.Code)
		}
	})

	t.Run("missing query", func(t *testing.T) {
		h := NewAdminHandler(new(mockAdminStore))
		req, rec := postJSON("/api/query", `{}`)
		require.NoError(t, h.Query(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("sql failure surfaces as 400", func(t *testing.T) {
		store := new(mockAdminStore)
		store.On("Select", "select * from nope").Return(
			[]map[string]any(nil), []string(nil), errors.New("table nope doesn't exist"))
		h := NewAdminHandler(store)

		req, rec := postJSON("/api/query", `{"query":"select * from nope"}`)
		require.NoError(t, h.Query(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
