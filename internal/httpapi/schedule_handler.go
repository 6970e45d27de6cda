package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"busScheduleManagement/internal/scheduling"
	"busScheduleManagement/models"
	"busScheduleManagement/repository"
)

type createScheduleRequest struct {
	BusID         int64     `json:"busId" validate:"required,gt=0"`
	RouteID       int64     `json:"routeId" validate:"required,gt=0"`
	DepartureTime time.Time `json:"departureTime" validate:"required"`
	ArrivalTime   time.Time `json:"arrivalTime" validate:"required"`
}

type updateScheduleRequest struct {
	DepartureTime  *time.Time `json:"departureTime"`
	ArrivalTime    *time.Time `json:"arrivalTime"`
	Status         *string    `json:"status" validate:"omitempty,oneof=scheduled in-progress completed cancelled"`
	SeatsAvailable *int       `json:"seatsAvailable" validate:"omitempty,gte=0"`
}

func (api *API) handleListSchedules(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var p repository.ListSchedulesParams
	if v := q.Get("date"); v != "" {
		day, err := time.Parse("2006-01-02", v)
		if err != nil {
			api.writeError(w, r, models.ValidationError([]string{"date must be formatted as YYYY-MM-DD"}))
			return
		}
		from := day
		to := day.AddDate(0, 0, 1)
		p.From = &from
		p.To = &to
	}
	if v := q.Get("status"); v != "" {
		status := models.ScheduleStatus(v)
		if !status.Valid() {
			api.writeError(w, r, models.ValidationError([]string{"invalid status filter"}))
			return
		}
		p.Status = &status
	}
	if v := q.Get("bus"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			api.writeError(w, r, models.ValidationError([]string{"invalid bus filter"}))
			return
		}
		p.BusID = &id
	}
	if v := q.Get("route"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			api.writeError(w, r, models.ValidationError([]string{"invalid route filter"}))
			return
		}
		p.RouteID = &id
	}
	schedules, err := api.schedules.List(r.Context(), p)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	api.writeJSON(w, http.StatusOK, schedules)
}

func (api *API) handleSchedulesByDateRange(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	startStr, endStr := q.Get("startDate"), q.Get("endDate")
	if startStr == "" || endStr == "" {
		api.writeError(w, r, models.ValidationError([]string{"startDate and endDate are required"}))
		return
	}
	start, err := parseDateOrTime(startStr)
	if err != nil {
		api.writeError(w, r, models.ValidationError([]string{"invalid startDate"}))
		return
	}
	end, err := parseDateOrTime(endStr)
	if err != nil {
		api.writeError(w, r, models.ValidationError([]string{"invalid endDate"}))
		return
	}
	// An endDate given as a bare day is inclusive of that whole day.
	if len(endStr) == len("2006-01-02") {
		end = end.AddDate(0, 0, 1)
	}
	schedules, err := api.schedules.List(r.Context(), repository.ListSchedulesParams{From: &start, To: &end})
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	api.writeJSON(w, http.StatusOK, schedules)
}

func parseDateOrTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func (api *API) handleGetSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	s, err := api.schedules.Get(r.Context(), id)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	api.writeJSON(w, http.StatusOK, s)
}

func (api *API) handleCreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req createScheduleRequest
	if err := decodeBody(r, &req); err != nil {
		api.writeError(w, r, err)
		return
	}
	if err := api.checkStruct(req); err != nil {
		api.writeError(w, r, err)
		return
	}
	s, err := api.schedules.Create(r.Context(), req.BusID, req.RouteID, req.DepartureTime, req.ArrivalTime)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	api.writeJSON(w, http.StatusCreated, s)
}

func (api *API) handleUpdateSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	var req updateScheduleRequest
	if err := decodeBody(r, &req); err != nil {
		api.writeError(w, r, err)
		return
	}
	if err := api.checkStruct(req); err != nil {
		api.writeError(w, r, err)
		return
	}
	p := scheduling.UpdateScheduleParams{
		DepartureTime:  req.DepartureTime,
		ArrivalTime:    req.ArrivalTime,
		SeatsAvailable: req.SeatsAvailable,
	}
	if req.Status != nil {
		status := models.ScheduleStatus(*req.Status)
		p.Status = &status
	}
	s, err := api.schedules.Update(r.Context(), id, p)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	api.writeJSON(w, http.StatusOK, s)
}

func (api *API) handleDeleteSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	if err := api.schedules.Delete(r.Context(), id); err != nil {
		api.writeError(w, r, err)
		return
	}
	api.writeMessage(w, http.StatusOK, "schedule deleted successfully")
}
