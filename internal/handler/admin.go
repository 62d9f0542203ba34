package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/moviebase/movie-recommendation/internal/repository"
)

// AdminStore is the raw-access surface behind the admin endpoints.
type AdminStore interface {
	Schema(ctx context.Context) (map[string][]repository.ColumnInfo, error)
	Insert(ctx context.Context, table string, data map[string]any) (int64, error)
	Select(ctx context.Context, query string) ([]map[string]any, []string, error)
}

// AdminHandler serves the schema dump, generic insert and read-only
// query endpoints. This surface is meant for trusted internal tooling:
// inserts go through a table/column allow-list and queries must be
// plain SELECT statements.
type AdminHandler struct {
	Admin AdminStore
}

func NewAdminHandler(a AdminStore) *AdminHandler { return &AdminHandler{Admin: a} }

type insertReq struct {
	Table string         `json:"table"`
	Data  map[string]any `json:"data"`
}
type queryReq struct {
	Query string `json:"query"`
}

// Schema returns every table with its column descriptions.
func (h *AdminHandler) Schema(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tables, err := h.Admin.Schema(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, tables)
}

// Insert writes one row into an allow-listed table. Unknown tables and
// columns are rejected before any SQL is built.
func (h *AdminHandler) Insert(c echo.Context) error {
	var req insertReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Table == "" || len(req.Data) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "table and data required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Admin.Insert(ctx, req.Table, req.Data)
	if err != nil {
		if errors.Is(err, repository.ErrUnknownTable) || errors.Is(err, repository.ErrUnknownColumn) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		// Constraint violations and other SQL failures surface as 400;
		// this endpoint serves internal tooling that wants the message.
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// Query runs a read-only statement and returns rows plus column order.
// Anything that does not lexically start with SELECT is forbidden.
func (h *AdminHandler) Query(c echo.Context) error {
	var req queryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	q := strings.TrimSpace(req.Query)
	if q == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "query required"})
	}
	if !strings.HasPrefix(strings.ToLower(q), "select") {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only SELECT statements are allowed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	results, columns, err := h.Admin.Select(ctx, q)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"results": results, "columns": columns})
}
