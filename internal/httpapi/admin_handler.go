package httpapi

import (
	"net/http"

	"busScheduleManagement/models"
)

type dashboardResponse struct {
	TotalRoutes     int64             `json:"totalRoutes"`
	TotalBuses      int64             `json:"totalBuses"`
	TotalUsers      int64             `json:"totalUsers"`
	ActiveBookings  int64             `json:"activeBookings"`
	RecentRoutes    []models.Route    `json:"recentRoutes"`
	RecentSchedules []models.Schedule `json:"recentSchedules"`
}

// handleAdminDashboard aggregates fleet-wide counts plus the five most
// recently created routes and schedules.
func (api *API) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	totalRoutes, err := api.routes.Count(ctx)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	totalBuses, err := api.buses.Count(ctx)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	totalUsers, err := api.users.Count(ctx)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	activeBookings, err := api.schedules.CountActive(ctx)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	recentRoutes, err := api.routes.ListRecent(ctx, 5)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	recentSchedules, err := api.schedules.ListRecent(ctx, 5)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	if recentRoutes == nil {
		recentRoutes = []models.Route{}
	}
	if recentSchedules == nil {
		recentSchedules = []models.Schedule{}
	}

	api.writeJSON(w, http.StatusOK, dashboardResponse{
		TotalRoutes:     totalRoutes,
		TotalBuses:      totalBuses,
		TotalUsers:      totalUsers,
		ActiveBookings:  activeBookings,
		RecentRoutes:    recentRoutes,
		RecentSchedules: recentSchedules,
	})
}
