package httpapi

import (
	"net/http"
	"time"

	"busScheduleManagement/models"
	"busScheduleManagement/repository"
)

type createRouteRequest struct {
	RouteNumber    string    `json:"routeNumber" validate:"required"`
	BusID          int64     `json:"busId" validate:"required,gt=0"`
	From           string    `json:"from" validate:"required"`
	To             string    `json:"to" validate:"required"`
	Stops          []int64   `json:"stops"`
	Distance       float64   `json:"distance" validate:"gte=0"`
	EstimatedTime  int       `json:"estimatedTime" validate:"gte=0"`
	DepartureTime  time.Time `json:"departureTime" validate:"required"`
	ArrivalTime    time.Time `json:"arrivalTime" validate:"required"`
	Price          float64   `json:"price" validate:"gte=0"`
	AvailableSeats int       `json:"availableSeats" validate:"gte=0"`
	Status         string    `json:"status" validate:"omitempty,oneof=active cancelled completed inactive"`
}

type updateRouteRequest struct {
	RouteNumber    *string    `json:"routeNumber" validate:"omitempty,min=1"`
	BusID          *int64     `json:"busId" validate:"omitempty,gt=0"`
	From           *string    `json:"from" validate:"omitempty,min=1"`
	To             *string    `json:"to" validate:"omitempty,min=1"`
	Stops          []int64    `json:"stops"`
	Distance       *float64   `json:"distance" validate:"omitempty,gte=0"`
	EstimatedTime  *int       `json:"estimatedTime" validate:"omitempty,gte=0"`
	DepartureTime  *time.Time `json:"departureTime"`
	ArrivalTime    *time.Time `json:"arrivalTime"`
	Price          *float64   `json:"price" validate:"omitempty,gte=0"`
	AvailableSeats *int       `json:"availableSeats" validate:"omitempty,gte=0"`
	Status         *string    `json:"status" validate:"omitempty,oneof=active cancelled completed inactive"`
}

type searchRoutesRequest struct {
	SearchTerm string `json:"searchTerm" validate:"required"`
	Date       string `json:"date"` // YYYY-MM-DD
	Time       string `json:"time"` // HH:MM
}

func (api *API) handleListRoutes(w http.ResponseWriter, r *http.Request) {
	routes, err := api.routes.List(r.Context())
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	api.writeJSON(w, http.StatusOK, routes)
}

func (api *API) handleGetRoute(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	route, err := api.routes.GetByID(r.Context(), id)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	if route == nil {
		api.writeError(w, r, models.NotFoundError("route"))
		return
	}
	api.writeJSON(w, http.StatusOK, route)
}

func (api *API) handleCreateRoute(w http.ResponseWriter, r *http.Request) {
	var req createRouteRequest
	if err := decodeBody(r, &req); err != nil {
		api.writeError(w, r, err)
		return
	}
	if err := api.checkStruct(req); err != nil {
		api.writeError(w, r, err)
		return
	}
	bus, err := api.buses.GetByID(r.Context(), req.BusID)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	if bus == nil {
		api.writeError(w, r, models.NotFoundError("bus"))
		return
	}
	route, err := api.routes.Create(r.Context(), &models.Route{
		RouteNumber:      req.RouteNumber,
		BusID:            req.BusID,
		Origin:           req.From,
		Destination:      req.To,
		StopIDs:          req.Stops,
		DistanceKM:       req.Distance,
		EstimatedMinutes: req.EstimatedTime,
		DepartureTime:    req.DepartureTime,
		ArrivalTime:      req.ArrivalTime,
		Price:            req.Price,
		AvailableSeats:   req.AvailableSeats,
		Status:           models.RouteStatus(req.Status),
	})
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	api.writeJSON(w, http.StatusCreated, route)
}

func (api *API) handleUpdateRoute(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	var req updateRouteRequest
	if err := decodeBody(r, &req); err != nil {
		api.writeError(w, r, err)
		return
	}
	if err := api.checkStruct(req); err != nil {
		api.writeError(w, r, err)
		return
	}
	p := repository.UpdateRouteParams{
		RouteNumber:      req.RouteNumber,
		BusID:            req.BusID,
		Origin:           req.From,
		Destination:      req.To,
		StopIDs:          req.Stops,
		DistanceKM:       req.Distance,
		EstimatedMinutes: req.EstimatedTime,
		DepartureTime:    req.DepartureTime,
		ArrivalTime:      req.ArrivalTime,
		Price:            req.Price,
		AvailableSeats:   req.AvailableSeats,
	}
	if req.Status != nil {
		status := models.RouteStatus(*req.Status)
		p.Status = &status
	}
	route, err := api.routes.Update(r.Context(), id, p)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	api.writeJSON(w, http.StatusOK, route)
}

func (api *API) handleDeleteRoute(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	if err := api.routes.Delete(r.Context(), id); err != nil {
		api.writeError(w, r, err)
		return
	}
	api.writeMessage(w, http.StatusOK, "route deleted successfully")
}

// handleSearchRoutes matches the term against origin and destination of
// active routes. An optional date narrows to that day; an optional time
// raises the lower departure bound within the day.
func (api *API) handleSearchRoutes(w http.ResponseWriter, r *http.Request) {
	var req searchRoutesRequest
	if err := decodeBody(r, &req); err != nil {
		api.writeError(w, r, err)
		return
	}
	if err := api.checkStruct(req); err != nil {
		api.writeError(w, r, err)
		return
	}
	p := repository.SearchRoutesParams{Term: req.SearchTerm}
	if req.Date != "" {
		day, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			api.writeError(w, r, models.ValidationError([]string{"date must be formatted as YYYY-MM-DD"}))
			return
		}
		from := day
		to := day.AddDate(0, 0, 1)
		p.From = &from
		p.To = &to
		if req.Time != "" {
			t, err := time.Parse("15:04", req.Time)
			if err != nil {
				api.writeError(w, r, models.ValidationError([]string{"time must be formatted as HH:MM"}))
				return
			}
			floor := day.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute)
			p.From = &floor
		}
	}
	routes, err := api.routes.Search(r.Context(), p)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	if len(routes) == 0 {
		api.writeError(w, r, &models.DomainError{Kind: models.KindNotFound, Message: "no routes found matching your search"})
		return
	}
	api.writeJSON(w, http.StatusOK, routes)
}
