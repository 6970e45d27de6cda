package httpapi

import (
	"net/http"

	"busScheduleManagement/models"
	"busScheduleManagement/repository"
)

type createStopRequest struct {
	Name    string  `json:"name" validate:"required"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

type updateStopRequest struct {
	Name    *string  `json:"name" validate:"omitempty,min=1"`
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
	Address *string  `json:"address"`
}

func (api *API) handleListStops(w http.ResponseWriter, r *http.Request) {
	stops, err := api.stops.List(r.Context())
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	api.writeJSON(w, http.StatusOK, stops)
}

func (api *API) handleGetStop(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	stop, err := api.stops.GetByID(r.Context(), id)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	if stop == nil {
		api.writeError(w, r, models.NotFoundError("stop"))
		return
	}
	api.writeJSON(w, http.StatusOK, stop)
}

func (api *API) handleCreateStop(w http.ResponseWriter, r *http.Request) {
	var req createStopRequest
	if err := decodeBody(r, &req); err != nil {
		api.writeError(w, r, err)
		return
	}
	if err := api.checkStruct(req); err != nil {
		api.writeError(w, r, err)
		return
	}
	stop, err := api.stops.Create(r.Context(), &models.Stop{
		Name: req.Name, Lat: req.Lat, Lng: req.Lng, Address: req.Address,
	})
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	api.writeJSON(w, http.StatusCreated, stop)
}

func (api *API) handleUpdateStop(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	var req updateStopRequest
	if err := decodeBody(r, &req); err != nil {
		api.writeError(w, r, err)
		return
	}
	if err := api.checkStruct(req); err != nil {
		api.writeError(w, r, err)
		return
	}
	stop, err := api.stops.Update(r.Context(), id, repository.UpdateStopParams{
		Name: req.Name, Lat: req.Lat, Lng: req.Lng, Address: req.Address,
	})
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	api.writeJSON(w, http.StatusOK, stop)
}

func (api *API) handleDeleteStop(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	if err := api.stops.Delete(r.Context(), id); err != nil {
		api.writeError(w, r, err)
		return
	}
	api.writeMessage(w, http.StatusOK, "stop deleted successfully")
}
