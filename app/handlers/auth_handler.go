package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/Rakhulsr/go-storeadmin/app/helpers"
	"github.com/Rakhulsr/go-storeadmin/app/models"
	"github.com/Rakhulsr/go-storeadmin/app/services"
	"github.com/unrolled/render"
)

type AuthHandler struct {
	render *render.Render
	auth   *services.AuthService
}

func NewAuthHandler(r *render.Render, auth *services.AuthService) *AuthHandler {
	return &AuthHandler{render: r, auth: auth}
}

type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         *models.User `json:"user"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Login answers every rejected attempt with 400; the message carries the reason.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if err := decodeJSON(r, &in); err != nil {
		WriteError(h.render, w, err)
		return
	}

	pair, user, err := h.auth.Login(r.Context(), in)
	if err != nil {
		if StatusFor(err) == http.StatusInternalServerError {
			WriteError(h.render, w, err)
			return
		}
		log.Printf("AuthHandler.Login: rejected login for %q: %v", in.Email, err)
		writeErrorStatus(h.render, w, http.StatusBadRequest, loginError(err))
		return
	}

	_ = h.render.JSON(w, http.StatusOK, LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         user,
	})
}

func loginError(err error) error {
	switch {
	case errors.Is(err, services.ErrAccessDenied):
		return errors.New("Access denied. Admin privileges required.")
	case errors.Is(err, services.ErrAccountDisabled):
		return errors.New("User account is disabled.")
	case errors.Is(err, services.ErrInvalidCredentials):
		return errors.New("Invalid credentials")
	}
	return err
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var in refreshRequest
	if err := decodeJSON(r, &in); err != nil {
		WriteError(h.render, w, err)
		return
	}
	pair, err := h.auth.Refresh(r.Context(), in.RefreshToken)
	if err != nil {
		WriteError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, pair)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var in refreshRequest
	if err := decodeJSON(r, &in); err != nil {
		WriteError(h.render, w, err)
		return
	}
	if err := h.auth.Logout(r.Context(), in.RefreshToken); err != nil {
		WriteError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, MessageResponse{Message: "Logged out"})
}

func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(helpers.ContextKeyUser).(*models.User)
	if !ok {
		WriteError(h.render, w, services.ErrInvalidToken)
		return
	}
	if err := h.auth.LogoutAll(r.Context(), user.ID); err != nil {
		WriteError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, MessageResponse{Message: "Logged out of all sessions"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(helpers.ContextKeyUser).(*models.User)
	if !ok {
		WriteError(h.render, w, services.ErrInvalidToken)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, user)
}
