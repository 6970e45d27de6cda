package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"busScheduleManagement/internal/auth"
	"busScheduleManagement/internal/logging"
	"busScheduleManagement/internal/scheduling"
	"busScheduleManagement/internal/testutil"
	"busScheduleManagement/repository"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T, name string) http.Handler {
	t.Helper()
	d := testutil.OpenInMemoryDB(t, name)
	users := repository.NewUserRepository(d)
	buses := repository.NewBusRepository(d)
	stops := repository.NewStopRepository(d)
	routes := repository.NewRouteRepository(d)
	schedules := repository.NewScheduleRepository(d)
	api := New(Deps{
		Logger:    logging.NewNop(),
		Tokens:    auth.NewTokenManager(testSecret, time.Hour),
		Timeout:   5 * time.Second,
		Users:     users,
		Buses:     buses,
		Stops:     stops,
		Routes:    routes,
		Schedules: scheduling.NewEngine(buses, routes, schedules),
	})
	return api.Router()
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		testutil.SetBearer(req, token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

// register creates a user through the API and returns its token.
func register(t *testing.T, h http.Handler, username, email, role string) string {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/api/auth/register", "", map[string]any{
		"username": username, "email": email, "password": "password123", "role": role,
	})
	require.Equal(t, http.StatusCreated, rec.Code, "register %s: %s", email, rec.Body.String())
	token, _ := decode(t, rec)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestHealthCheck(t *testing.T) {
	h := newTestServer(t, "apihealth")
	rec := doJSON(t, h, http.MethodGet, "/api/auth/check", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
}

func TestNotFoundFallback(t *testing.T) {
	h := newTestServer(t, "api404")
	rec := doJSON(t, h, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "route not found", decode(t, rec)["message"])
}

func TestRegisterValidationListsAllViolations(t *testing.T) {
	h := newTestServer(t, "apiregval")
	rec := doJSON(t, h, http.MethodPost, "/api/auth/register", "", map[string]any{
		"username": "ab", "email": "not-an-email", "password": "12345", "role": "boss",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	errs, ok := body["errors"].([]any)
	require.True(t, ok, "body: %s", rec.Body.String())
	assert.Len(t, errs, 4, "every invalid field should be reported")
}

func TestRegisterAndLogin(t *testing.T) {
	h := newTestServer(t, "apiauth")
	token := register(t, h, "alice", "alice@example.com", "operator")

	rec := doJSON(t, h, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode(t, rec)
	assert.Equal(t, "alice", me["username"])
	assert.NotContains(t, rec.Body.String(), "password", "password hash must not be serialized")

	rec = doJSON(t, h, http.MethodPost, "/api/auth/register", "", map[string]any{
		"username": "alice", "email": "alice2@example.com", "password": "password123", "role": "operator",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "alice@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode(t, rec)["token"])

	// Wrong password and unknown email must be indistinguishable.
	wrongPw := doJSON(t, h, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "alice@example.com", "password": "wrong-password",
	})
	unknown := doJSON(t, h, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "nobody@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, wrongPw.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, wrongPw.Body.String(), unknown.Body.String())
}

func TestAuthenticationRequired(t *testing.T) {
	h := newTestServer(t, "apinoauth")
	rec := doJSON(t, h, http.MethodGet, "/api/buses", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/buses", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminGuard(t *testing.T) {
	h := newTestServer(t, "apiadmin")
	admin := register(t, h, "root", "root@example.com", "admin")
	operator := register(t, h, "oper", "oper@example.com", "operator")

	busBody := map[string]any{"busNumber": "KA-01-1001", "capacity": 40, "type": "AC"}

	rec := doJSON(t, h, http.MethodPost, "/api/buses", operator, busBody)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// A token claiming admin for a user that does not exist is rejected.
	ghost := testutil.SignToken(t, testSecret, 9999, "admin")
	rec = doJSON(t, h, http.MethodPost, "/api/buses", ghost, busBody)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/buses", admin, busBody)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// User management is admin only.
	rec = doJSON(t, h, http.MethodGet, "/api/users", operator, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = doJSON(t, h, http.MethodGet, "/api/users", admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBusScheduleFlow(t *testing.T) {
	h := newTestServer(t, "apiflow")
	admin := register(t, h, "root", "root@example.com", "admin")

	rec := doJSON(t, h, http.MethodPost, "/api/buses", admin, map[string]any{
		"busNumber": "KA-01-1001", "capacity": 40, "type": "AC",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	busID := int64(decode(t, rec)["id"].(float64))

	dep := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	rec = doJSON(t, h, http.MethodPost, "/api/routes", admin, map[string]any{
		"routeNumber": "R-100", "busId": busID, "from": "Central", "to": "Airport",
		"distance": 42, "estimatedTime": 180,
		"departureTime": dep.Format(time.RFC3339), "arrivalTime": dep.Add(3 * time.Hour).Format(time.RFC3339),
		"price": 100, "availableSeats": 40,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	routeID := int64(decode(t, rec)["id"].(float64))

	rec = doJSON(t, h, http.MethodPost, "/api/schedules", admin, map[string]any{
		"busId": busID, "routeId": routeID,
		"departureTime": dep.Format(time.RFC3339), "arrivalTime": dep.Add(3 * time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	scheduleID := int64(decode(t, rec)["id"].(float64))

	// A second trip overlapping the first on the same bus is refused.
	rec = doJSON(t, h, http.MethodPost, "/api/schedules", admin, map[string]any{
		"busId": busID, "routeId": routeID,
		"departureTime": dep.Add(time.Hour).Format(time.RFC3339), "arrivalTime": dep.Add(4 * time.Hour).Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	// Back-to-back is allowed: the previous arrival instant is free.
	rec = doJSON(t, h, http.MethodPost, "/api/schedules", admin, map[string]any{
		"busId": busID, "routeId": routeID,
		"departureTime": dep.Add(3 * time.Hour).Format(time.RFC3339), "arrivalTime": dep.Add(5 * time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	secondID := int64(decode(t, rec)["id"].(float64))

	// The bus cannot be deleted while trips are pending.
	rec = doJSON(t, h, http.MethodDelete, fmt.Sprintf("/api/buses/%d", busID), admin, nil)
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	rec = doJSON(t, h, http.MethodPut, fmt.Sprintf("/api/schedules/%d", scheduleID), admin, map[string]any{
		"status": "cancelled",
	})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Availability for the day reflects remaining trips.
	rec = doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/buses/%d/availability?date=2025-06-01", busID), admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// With every trip cancelled the bus can go.
	rec = doJSON(t, h, http.MethodPut, fmt.Sprintf("/api/schedules/%d", secondID), admin, map[string]any{
		"status": "cancelled",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = doJSON(t, h, http.MethodDelete, fmt.Sprintf("/api/buses/%d", busID), admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestScheduleStatusValidation(t *testing.T) {
	h := newTestServer(t, "apistatus")
	admin := register(t, h, "root", "root@example.com", "admin")

	rec := doJSON(t, h, http.MethodPost, "/api/buses", admin, map[string]any{
		"busNumber": "B-1", "capacity": 40, "type": "AC",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	busID := int64(decode(t, rec)["id"].(float64))

	dep := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	rec = doJSON(t, h, http.MethodPost, "/api/routes", admin, map[string]any{
		"routeNumber": "R-1", "busId": busID, "from": "A", "to": "B",
		"departureTime": dep.Format(time.RFC3339), "arrivalTime": dep.Add(time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	routeID := int64(decode(t, rec)["id"].(float64))

	rec = doJSON(t, h, http.MethodPost, "/api/schedules", admin, map[string]any{
		"busId": busID, "routeId": routeID,
		"departureTime": dep.Format(time.RFC3339), "arrivalTime": dep.Add(time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := int64(decode(t, rec)["id"].(float64))

	rec = doJSON(t, h, http.MethodPut, fmt.Sprintf("/api/schedules/%d", id), admin, map[string]any{
		"status": "departed",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Skipping in-progress is not a legal lifecycle move.
	rec = doJSON(t, h, http.MethodPut, fmt.Sprintf("/api/schedules/%d", id), admin, map[string]any{
		"status": "completed",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchRoutes(t *testing.T) {
	h := newTestServer(t, "apisearch")
	admin := register(t, h, "root", "root@example.com", "admin")
	operator := register(t, h, "oper", "oper@example.com", "operator")

	rec := doJSON(t, h, http.MethodPost, "/api/buses", admin, map[string]any{
		"busNumber": "B-1", "capacity": 40, "type": "AC",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	busID := int64(decode(t, rec)["id"].(float64))

	dep := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	rec = doJSON(t, h, http.MethodPost, "/api/routes", admin, map[string]any{
		"routeNumber": "R-100", "busId": busID, "from": "Central", "to": "Airport",
		"departureTime": dep.Format(time.RFC3339), "arrivalTime": dep.Add(time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, h, http.MethodPost, "/api/routes/search", operator, map[string]any{
		"searchTerm": "airport", "date": "2025-06-01",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// A time floor past the departure rules the route out.
	rec = doJSON(t, h, http.MethodPost, "/api/routes/search", operator, map[string]any{
		"searchTerm": "airport", "date": "2025-06-01", "time": "09:00",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "no routes found matching your search", decode(t, rec)["message"])
}
