package handlers

import (
	"net/http"

	"github.com/vaughan-dsouza/userdir/internal/utils"
)

// APIDoc is a Swagger 2.0 description. It is built per request; Host comes
// from the request and nothing is shared between requests.
type APIDoc struct {
	Swagger  string                `json:"swagger"`
	Info     apiInfo               `json:"info"`
	Host     string                `json:"host"`
	BasePath string                `json:"basePath"`
	Paths    map[string]apiPathDoc `json:"paths"`
}

type apiInfo struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Version     string `json:"version"`
}

type apiPathDoc map[string]apiOperation

type apiOperation struct {
	Summary   string              `json:"summary"`
	Responses map[string]apiReply `json:"responses"`
}

type apiReply struct {
	Description string `json:"description"`
}

type DocsHandler struct{}

func NewDocsHandler() *DocsHandler {
	return &DocsHandler{}
}

// NewAPIDoc returns the document for a given host.
func NewAPIDoc(host string) APIDoc {
	op := func(summary string, codes map[string]string) apiOperation {
		replies := make(map[string]apiReply, len(codes))
		for code, desc := range codes {
			replies[code] = apiReply{Description: desc}
		}
		return apiOperation{Summary: summary, Responses: replies}
	}

	return APIDoc{
		Swagger: "2.0",
		Info: apiInfo{
			Title:       "User Directory API",
			Description: "API documentation for the user management system.",
			Version:     "1.0.0",
		},
		Host:     host,
		BasePath: "/",
		Paths: map[string]apiPathDoc{
			"/users": {
				"get":  op("List users", map[string]string{"200": "A list of all users"}),
				"post": op("Create a user", map[string]string{"201": "User created successfully", "400": "User already exists"}),
			},
			"/users/{id}": {
				"get":    op("Get a user", map[string]string{"200": "A single user", "404": "User not found"}),
				"put":    op("Update a user", map[string]string{"200": "User updated successfully", "404": "User not found"}),
				"delete": op("Delete a user", map[string]string{"200": "User deleted successfully", "404": "User not found"}),
			},
			"/login": {
				"post": op("Log in", map[string]string{"200": "User logged in successfully", "401": "Invalid email or password"}),
			},
			"/signup": {
				"post": op("Sign up", map[string]string{"201": "User created successfully", "400": "User already exists"}),
			},
			"/me": {
				"get": op("Current user", map[string]string{"200": "The authenticated user", "401": "Unauthorized"}),
			},
		},
	}
}

func (h *DocsHandler) Spec(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, NewAPIDoc(r.Host))
}
