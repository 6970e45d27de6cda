package httpapi

import (
	"net/http"

	"busScheduleManagement/internal/auth"
	"busScheduleManagement/models"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=admin operator"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token   string       `json:"token"`
	User    *models.User `json:"user"`
	Message string       `json:"message"`
}

func (api *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		api.writeError(w, r, err)
		return
	}
	if err := api.checkStruct(req); err != nil {
		api.writeError(w, r, err)
		return
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	user, err := api.users.Create(r.Context(), &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         models.Role(req.Role),
	})
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	token, err := api.tokens.Generate(user.ID, user.Role)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	api.writeJSON(w, http.StatusCreated, authResponse{Token: token, User: user, Message: "register successful"})
}

// handleLogin deliberately reports the same generic failure for an unknown
// email and a wrong password.
func (api *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		api.writeError(w, r, err)
		return
	}
	if err := api.checkStruct(req); err != nil {
		api.writeError(w, r, err)
		return
	}
	user, err := api.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		api.writeError(w, r, models.UnauthorizedError("invalid credentials"))
		return
	}
	token, err := api.tokens.Generate(user.ID, user.Role)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	api.writeJSON(w, http.StatusOK, authResponse{Token: token, User: user, Message: "login successful"})
}

func (api *API) handleMe(w http.ResponseWriter, r *http.Request) {
	p, err := auth.RequirePrincipal(r.Context())
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	user, err := api.users.GetByID(r.Context(), p.UserID)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	if user == nil {
		api.writeError(w, r, models.UnauthorizedError("user not found"))
		return
	}
	api.writeJSON(w, http.StatusOK, user)
}
