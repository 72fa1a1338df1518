package handler

import (
	"encoding/json"
	"net/http"

	"github.com/scriptdeck/scriptdeck/internal/commons"
	"github.com/scriptdeck/scriptdeck/internal/service"
)

type UserHandler struct {
	userService service.UserServiceInterface
}

func NewUserHandler(userService service.UserServiceInterface) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var credentials struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		commons.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if credentials.Username == "" || credentials.Password == "" {
		commons.RespondWithError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	user, err := h.userService.Create(r.Context(), credentials.Username, credentials.Password)
	if err != nil {
		commons.RespondWithError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	commons.RespondWithJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var credentials struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		commons.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if credentials.Username == "" || credentials.Password == "" {
		commons.RespondWithError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	user, err := h.userService.Authenticate(r.Context(), credentials.Username, credentials.Password)
	if err != nil {
		commons.RespondWithError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	commons.RespondWithJSON(w, http.StatusOK, user)
}
