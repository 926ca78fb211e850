// Package httpapi is the JSON REST surface of the server.
package httpapi

import (
	"context"
	"net/http"

	"kantin-be/internal/category"
	"kantin-be/internal/logger"
	"kantin-be/internal/menu"
	"kantin-be/internal/middleware"
	"kantin-be/internal/settings"
	"kantin-be/internal/user"

	"github.com/gorilla/mux"
)

type Seeder interface {
	SeedIfEmpty(ctx context.Context) (bool, error)
}

type Deps struct {
	Menu       menu.Service
	Categories category.Service
	Settings   settings.Service
	Users      user.Service
	Seeder     Seeder
	Limiter    *middleware.RateLimiter
	CORSOrigin string
	// SecureCookies marks the session cookie Secure.
	SecureCookies bool
}

type Handler struct {
	menu          menu.Service
	categories    category.Service
	settings      settings.Service
	users         user.Service
	seeder        Seeder
	secureCookies bool
}

// NewRouter wires every route and wraps the router in the middleware chain:
// request id, logging, CORS, auth, rate limit. The chain wraps the router
// itself so preflight requests never hit a route mismatch.
func NewRouter(d Deps) http.Handler {
	h := &Handler{
		menu:          d.Menu,
		categories:    d.Categories,
		settings:      d.Settings,
		users:         d.Users,
		seeder:        d.Seeder,
		secureCookies: d.SecureCookies,
	}

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, errRouteNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, errMethodNotAllowed)
	})

	r.HandleFunc("/health", h.health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	admin := func(fn http.HandlerFunc) http.Handler {
		return middleware.RequireAdmin(fn)
	}

	api.HandleFunc("/menu-items", h.listMenuItems).Methods(http.MethodGet)
	api.Handle("/menu-items", admin(h.createMenuItem)).Methods(http.MethodPost)
	api.HandleFunc("/menu-items/{id}", h.getMenuItem).Methods(http.MethodGet)
	api.Handle("/menu-items/{id}", admin(h.updateMenuItem)).Methods(http.MethodPatch)
	api.Handle("/menu-items/{id}", admin(h.deleteMenuItem)).Methods(http.MethodDelete)

	api.HandleFunc("/categories", h.listCategories).Methods(http.MethodGet)
	api.Handle("/categories", admin(h.createCategory)).Methods(http.MethodPost)
	api.Handle("/categories/{id}", admin(h.updateCategory)).Methods(http.MethodPatch)
	api.Handle("/categories/{id}", admin(h.deleteCategory)).Methods(http.MethodDelete)

	api.HandleFunc("/settings", h.getSettings).Methods(http.MethodGet)
	api.Handle("/settings", admin(h.putSettings)).Methods(http.MethodPut)

	// Anonymous on purpose: a fresh kiosk seeds an empty backend before anyone
	// signs in. Seeding is a no-op once any category exists, and the route is
	// in the limiter's strict tier.
	api.HandleFunc("/seed", h.seed).Methods(http.MethodPost)

	api.HandleFunc("/auth/login", h.login).Methods(http.MethodPost)
	api.Handle("/auth/me", admin(h.me)).Methods(http.MethodGet)
	api.Handle("/auth/logout", admin(h.logout)).Methods(http.MethodPost)

	var handler http.Handler = r
	if d.Limiter != nil {
		handler = d.Limiter.Middleware(handler)
	}
	handler = middleware.AuthMiddleware(d.Users)(handler)
	handler = middleware.CORS(d.CORSOrigin)(handler)
	handler = logger.LoggingMiddleware(handler)
	handler = logger.RequestIDMiddleware(handler)
	return handler
}
