package httpapi

import (
	"net/http"

	"busScheduleManagement/models"
	"busScheduleManagement/repository"
)

type updateUserRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin operator"`
}

func (api *API) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := api.users.List(r.Context())
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	api.writeJSON(w, http.StatusOK, users)
}

func (api *API) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	user, err := api.users.GetByID(r.Context(), id)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	if user == nil {
		api.writeError(w, r, models.NotFoundError("user"))
		return
	}
	api.writeJSON(w, http.StatusOK, user)
}

func (api *API) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	var req updateUserRequest
	if err := decodeBody(r, &req); err != nil {
		api.writeError(w, r, err)
		return
	}
	if err := api.checkStruct(req); err != nil {
		api.writeError(w, r, err)
		return
	}
	p := repository.UpdateUserParams{Username: req.Username, Email: req.Email}
	if req.Role != nil {
		role := models.Role(*req.Role)
		p.Role = &role
	}
	user, err := api.users.Update(r.Context(), id, p)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	api.writeJSON(w, http.StatusOK, user)
}

func (api *API) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	if err := api.users.Delete(r.Context(), id); err != nil {
		api.writeError(w, r, err)
		return
	}
	api.writeMessage(w, http.StatusOK, "user deleted successfully")
}
