package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/vaughan-dsouza/userdir/internal/middleware"
)

// Routes builds the full router. User routes are served at the root and
// again under /api.
func (h *Handler) Routes(auth middleware.Authenticator) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	// Public
	r.Post("/signup", h.Auth.SignUp)
	r.Post("/login", h.Auth.Login)
	h.userRoutes(r)
	r.Route("/api", h.userRoutes)

	r.Get("/graphql", h.GraphQL.Playground)
	r.Post("/graphql", h.GraphQL.Execute)
	r.Get("/apispec_1.json", h.Docs.Spec)

	// Protected
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(auth))
		r.Get("/me", h.Auth.Me)
	})

	return r
}

func (h *Handler) userRoutes(r chi.Router) {
	r.Get("/users", h.Users.GetUsers)
	r.Post("/users", h.Users.CreateUser)
	r.Get("/users/{id}", h.Users.GetUserByID)
	r.Put("/users/{id}", h.Users.UpdateUser)
	r.Delete("/users/{id}", h.Users.DeleteUser)
}
