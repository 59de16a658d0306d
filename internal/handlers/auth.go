package handlers

import (
	"net/http"

	"github.com/vaughan-dsouza/userdir/internal/middleware"
	"github.com/vaughan-dsouza/userdir/internal/models"
	"github.com/vaughan-dsouza/userdir/internal/service"
	"github.com/vaughan-dsouza/userdir/internal/utils"
)

type AuthHandler struct {
	Auth *service.Auth
}

func NewAuthHandler(auth *service.Auth) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

// ----------- Request/Response DTOs -------------

// signupReq accepts a role so clients sending one are not rejected; it is
// dropped and the account gets the default role.
type signupReq struct {
	service.SignupInput
	Role *string `json:"role"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResp struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    *models.User `json:"user"`
}

// -------------- SIGN UP ----------------------

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signupReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}

	if _, err := h.Auth.Signup(r.Context(), req.SignupInput); err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.JSONMessage(w, http.StatusCreated, "User created successfully")
}

// -------------- LOGIN ------------------------

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}

	res, err := h.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, loginResp{
		Message: "User logged in successfully",
		Token:   res.Token,
		User:    res.User,
	})
}

// -------------- ME (protected) ----------------

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserID(r.Context())
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.Auth.Me(r.Context(), uid)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, user)
}
