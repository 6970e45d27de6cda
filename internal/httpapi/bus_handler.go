package httpapi

import (
	"net/http"
	"time"

	"busScheduleManagement/models"
	"busScheduleManagement/repository"
)

type createBusRequest struct {
	BusNumber string `json:"busNumber" validate:"required"`
	Capacity  int    `json:"capacity" validate:"required,gt=0"`
	Type      string `json:"type" validate:"required,oneof=AC Non-AC"`
	Status    string `json:"status" validate:"omitempty,oneof=active maintenance inactive"`
}

type updateBusRequest struct {
	BusNumber *string `json:"busNumber" validate:"omitempty,min=1"`
	Capacity  *int    `json:"capacity" validate:"omitempty,gt=0"`
	Type      *string `json:"type" validate:"omitempty,oneof=AC Non-AC"`
	Status    *string `json:"status" validate:"omitempty,oneof=active maintenance inactive"`
}

func (api *API) handleListBuses(w http.ResponseWriter, r *http.Request) {
	var p repository.ListBusesParams
	if v := r.URL.Query().Get("status"); v != "" {
		status := models.BusStatus(v)
		if !status.Valid() {
			api.writeError(w, r, models.ValidationError([]string{"invalid status filter"}))
			return
		}
		p.Status = &status
	}
	if v := r.URL.Query().Get("type"); v != "" {
		typ := models.BusType(v)
		if !typ.Valid() {
			api.writeError(w, r, models.ValidationError([]string{"invalid type filter"}))
			return
		}
		p.Type = &typ
	}
	buses, err := api.buses.List(r.Context(), p)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	api.writeJSON(w, http.StatusOK, buses)
}

func (api *API) handleGetBus(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	bus, err := api.buses.GetByID(r.Context(), id)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	if bus == nil {
		api.writeError(w, r, models.NotFoundError("bus"))
		return
	}
	api.writeJSON(w, http.StatusOK, bus)
}

func (api *API) handleCreateBus(w http.ResponseWriter, r *http.Request) {
	var req createBusRequest
	if err := decodeBody(r, &req); err != nil {
		api.writeError(w, r, err)
		return
	}
	if err := api.checkStruct(req); err != nil {
		api.writeError(w, r, err)
		return
	}
	bus, err := api.buses.Create(r.Context(), &models.Bus{
		BusNumber: req.BusNumber,
		Capacity:  req.Capacity,
		Type:      models.BusType(req.Type),
		Status:    models.BusStatus(req.Status),
	})
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	api.writeJSON(w, http.StatusCreated, bus)
}

func (api *API) handleUpdateBus(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	var req updateBusRequest
	if err := decodeBody(r, &req); err != nil {
		api.writeError(w, r, err)
		return
	}
	if err := api.checkStruct(req); err != nil {
		api.writeError(w, r, err)
		return
	}
	p := repository.UpdateBusParams{BusNumber: req.BusNumber, Capacity: req.Capacity}
	if req.Type != nil {
		typ := models.BusType(*req.Type)
		p.Type = &typ
	}
	if req.Status != nil {
		status := models.BusStatus(*req.Status)
		p.Status = &status
	}
	bus, err := api.buses.Update(r.Context(), id, p)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	api.writeJSON(w, http.StatusOK, bus)
}

// handleDeleteBus refuses to delete a bus that still has scheduled or
// in-progress trips; the check is answered by the schedule engine.
func (api *API) handleDeleteBus(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	bus, err := api.buses.GetByID(r.Context(), id)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	if bus == nil {
		api.writeError(w, r, models.NotFoundError("bus"))
		return
	}
	active, err := api.schedules.HasActiveSchedules(r.Context(), id)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	if active {
		api.writeError(w, r, models.ConflictError("cannot delete bus with active schedules; cancel or complete them first"))
		return
	}
	if err := api.buses.Delete(r.Context(), id); err != nil {
		api.writeError(w, r, err)
		return
	}
	api.writeMessage(w, http.StatusOK, "bus deleted successfully")
}

func (api *API) handleBusAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		api.writeError(w, r, models.ValidationError([]string{"date parameter is required"}))
		return
	}
	day, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		api.writeError(w, r, models.ValidationError([]string{"date must be formatted as YYYY-MM-DD"}))
		return
	}
	schedules, err := api.schedules.ListForBusOnDay(r.Context(), id, day)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	api.writeJSON(w, http.StatusOK, map[string]any{"schedules": schedules})
}
