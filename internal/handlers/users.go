package handlers

import (
	"net/http"

	"github.com/vaughan-dsouza/userdir/internal/models"
	"github.com/vaughan-dsouza/userdir/internal/service"
	"github.com/vaughan-dsouza/userdir/internal/utils"
)

type UserHandler struct {
	Dir *service.Directory
}

func NewUserHandler(dir *service.Directory) *UserHandler {
	return &UserHandler{Dir: dir}
}

// ---------------------- LIST ----------------------

func (h *UserHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Dir.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, users)
}

// ---------------------- GET ONE ----------------------

func (h *UserHandler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeServiceError(w, r, service.ErrNotFound)
		return
	}

	user, err := h.Dir.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, user)
}

// ---------------------- CREATE ----------------------

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var body models.NewUser
	if err := utils.DecodeJSON(w, r, &body); err != nil {
		return
	}

	if _, err := h.Dir.Create(r.Context(), body); err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.JSONMessage(w, http.StatusCreated, "User created successfully")
}

// ---------------------- UPDATE ----------------------

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeServiceError(w, r, service.ErrNotFound)
		return
	}

	var body models.UserPatch
	if err := utils.DecodeJSON(w, r, &body); err != nil {
		return
	}

	if _, err := h.Dir.Update(r.Context(), id, body); err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.JSONMessage(w, http.StatusOK, "User updated successfully")
}

// ---------------------- DELETE ----------------------

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeServiceError(w, r, service.ErrNotFound)
		return
	}

	if err := h.Dir.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.JSONMessage(w, http.StatusOK, "User deleted successfully")
}
