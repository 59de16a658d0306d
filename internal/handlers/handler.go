package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/graphql-go/graphql"

	"github.com/vaughan-dsouza/userdir/internal/service"
	"github.com/vaughan-dsouza/userdir/internal/utils"
)

type Handler struct {
	Auth    *AuthHandler
	Users   *UserHandler
	GraphQL *GraphQLHandler
	Docs    *DocsHandler
}

func NewHandler(dir *service.Directory, auth *service.Auth, schema graphql.Schema) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(auth),
		Users:   NewUserHandler(dir),
		GraphQL: NewGraphQLHandler(schema),
		Docs:    NewDocsHandler(),
	}
}

// writeServiceError maps the service taxonomy to status codes. Unknown errors
// are logged and reported without detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrNotFound):
		utils.JSONError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, service.ErrConflict):
		utils.JSONError(w, http.StatusBadRequest, "User already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		utils.JSONError(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.As(err, &verr):
		utils.JSONError(w, http.StatusBadRequest, verr.Detail)
	default:
		log.Printf("%s %s: internal error: %v", r.Method, r.URL.Path, err)
		utils.JSONError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// pathID parses {id}; anything that is not a positive integer cannot name a user.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
