package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/moviebase/movie-recommendation/internal/handler"
	"github.com/moviebase/movie-recommendation/internal/middleware"
)

// Handlers collects every handler the API mounts. Grouping them in one
// struct keeps RegisterAPI's signature stable as endpoints are added.
type Handlers struct {
	Auth            *handler.AuthHandler
	Movies          *handler.MovieHandler
	Ratings         *handler.RatingHandler
	Watchlists      *handler.WatchlistHandler
	Recommendations *handler.RecommendationHandler
	Admin           *handler.AdminHandler
}

// RegisterRoutes registers routes that sit outside the /api prefix.
// Currently it exposes only a health check for load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAPI mounts the full API under /api. The cache middleware is
// applied only to the read-heavy browse and recommendation routes;
// jwtSecret protects the /api/me introspection route.
func RegisterAPI(e *echo.Echo, h Handlers, jwtSecret string, cache echo.MiddlewareFunc) {
	api := e.Group("/api")

	// Accounts. Register and login stay unauthenticated; they are the
	// routes that hand out tokens in the first place.
	api.POST("/register", h.Auth.Register)
	api.POST("/login", h.Auth.Login)
	api.GET("/me", h.Auth.Me, middleware.JWTAuth(jwtSecret))

	// Catalog browsing. Genre and search responses are stable enough
	// to cache.
	api.GET("/genres", h.Movies.Genres, cache)
	api.GET("/movies", h.Movies.Search, cache)
	api.GET("/movies/:id", h.Movies.Details)

	// Ratings.
	api.POST("/rate", h.Ratings.Rate)

	// Recommendations. All five strategies are pure reads over the
	// ratings and junction tables, so they cache well.
	rec := api.Group("/recommendations", cache)
	rec.GET("/popular", h.Recommendations.Popular)
	rec.GET("/content/:movie_id", h.Recommendations.ContentBased)
	rec.GET("/collaborative/:movie_id", h.Recommendations.Collaborative)
	rec.GET("/personal_content", h.Recommendations.PersonalContent)
	rec.GET("/personal_collaborative", h.Recommendations.PersonalCollaborative)

	// Watchlists.
	api.GET("/watchlist", h.Watchlists.Movies)
	api.POST("/watchlist/toggle", h.Watchlists.Toggle)

	// Admin raw access. Trusted internal tooling only.
	api.GET("/schema", h.Admin.Schema)
	api.POST("/insert", h.Admin.Insert)
	api.POST("/query", h.Admin.Query)
}
