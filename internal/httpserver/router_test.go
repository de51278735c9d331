package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"skincare-tracker/internal/catalog"
	"skincare-tracker/internal/handler"
	"skincare-tracker/internal/repository"
	"skincare-tracker/internal/service"
	"skincare-tracker/pkg/config"
	"skincare-tracker/pkg/trace"
	"skincare-tracker/pkg/util"
)

var testJWT = config.JWTConfig{Secret: "test-secret", Issuer: "skincare-test"}

func newTestRouter(t *testing.T, checks ...ReadinessCheck) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	stores := repository.NewMemoryStores()
	log := zap.NewNop()
	v := service.NewValidator()
	events := service.NopEmitter{}
	cat, err := catalog.Load()
	require.NoError(t, err)

	products := service.NewProductService(stores.Products, events, v, log)
	routines := service.NewRoutineService(stores.Routines, stores.Products, v, log)
	tasks := service.NewTaskService(stores.Tasks, stores.Routines, events, v, log)
	reviews := service.NewReviewService(stores.Reviews, events, v, log)
	dashboard := service.NewDashboardService(stores, tasks, routines, cat, service.DashboardOptions{SummaryLimit: 3, ActivityLimit: 5}, log)
	activity := service.NewActivityService(stores.Activities, 5)

	return NewRouter(Handlers{
		Products:  handler.NewProductHandler(products, log),
		Routines:  handler.NewRoutineHandler(routines, log),
		Tasks:     handler.NewTaskHandler(tasks, log),
		Reviews:   handler.NewReviewHandler(reviews, log),
		Dashboard: handler.NewDashboardHandler(dashboard, activity, log),
	}, testJWT, checks, log)
}

func token(t *testing.T, uid string) string {
	t.Helper()
	tok, err := util.GenerateJWT(uid, testJWT.Secret, testJWT.Issuer, time.Hour)
	require.NoError(t, err)
	return tok
}

func do(t *testing.T, r http.Handler, method, path, uid string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if uid != "" {
		req.Header.Set("Authorization", "Bearer "+token(t, uid))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealthAndTraceHeader(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(trace.HeaderName, "trace-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "trace-123", w.Header().Get(trace.HeaderName))

	w = do(t, r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(trace.HeaderName))

	w = do(t, r, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReadyz(t *testing.T) {
	r := newTestRouter(t, ReadinessCheck{Name: "db", Check: func(context.Context) error { return nil }})
	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/readyz", "", nil).Code)

	r = newTestRouter(t, ReadinessCheck{Name: "redis", Check: func(context.Context) error { return errors.New("down") }})
	w := do(t, r, http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "redis_not_ready", decode[map[string]any](t, w)["status"])
}

func TestAuthRequired(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/products/u1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/products/u1", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTaskAgendaFlow(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/tasks", "u1", map[string]any{
		"title":      "Exfoliate",
		"schedule":   "weekly",
		"time":       "08:00",
		"daysOfWeek": []int{1, 3, 5},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	taskID := decode[map[string]any](t, w)["id"].(string)

	w = do(t, r, http.MethodPost, "/routines", "u1", map[string]any{
		"name":  "Evening",
		"steps": []map[string]any{{"name": "Cleanse"}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	routineID := decode[map[string]any](t, w)["id"].(string)

	// Tuesday: only the routine
	w = do(t, r, http.MethodGet, "/tasks/u1/2024-01-02", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	entries := decode[[]map[string]any](t, w)
	require.Len(t, entries, 1)
	assert.Equal(t, "routine-"+routineID, entries[0]["id"])

	// Wednesday: task first (timed), then routine
	w = do(t, r, http.MethodGet, "/tasks/u1/2024-01-03", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	entries = decode[[]map[string]any](t, w)
	require.Len(t, entries, 2)
	assert.Equal(t, taskID, entries[0]["id"])
	assert.Equal(t, false, entries[0]["completed"])

	w = do(t, r, http.MethodPost, "/tasks/"+taskID+"/complete", "u1", map[string]any{"userId": "u1", "date": "2024-01-03"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Task completed", decode[map[string]any](t, w)["message"])

	w = do(t, r, http.MethodGet, "/tasks/u1/2024-01-03", "u1", nil)
	entries = decode[[]map[string]any](t, w)
	assert.Equal(t, true, entries[0]["completed"])

	w = do(t, r, http.MethodPost, "/tasks/"+taskID+"/uncomplete", "u1", map[string]any{"date": "2024-01-03"})
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, r, http.MethodGet, "/tasks/u1/2024-01-03", "u1", nil)
	entries = decode[[]map[string]any](t, w)
	assert.Equal(t, false, entries[0]["completed"])
}

func TestErrorStatusMapping(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/products", "owner", map[string]any{"name": "Serum"})
	require.Equal(t, http.StatusCreated, w.Code)
	productID := decode[map[string]any](t, w)["id"].(string)

	// not found
	w = do(t, r, http.MethodPost, "/tasks/nope/complete", "u1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Task not found", decode[map[string]any](t, w)["error"])

	// forbidden: someone else's record, and someone else's listing
	w = do(t, r, http.MethodDelete, "/products/"+productID, "intruder", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = do(t, r, http.MethodGet, "/products/owner", "intruder", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// validation: missing name, bad date, malformed body
	w = do(t, r, http.MethodPost, "/products", "u1", map[string]any{"brand": "Acme"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[map[string]any](t, w)
	assert.Equal(t, "validation failed", body["error"])
	assert.NotEmpty(t, body["details"])

	w = do(t, r, http.MethodGet, "/tasks/u1/yesterday", "u1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/routines", bytes.NewBufferString("{"))
	req.Header.Set("Authorization", "Bearer "+token(t, "u1"))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductAndRoutineRoutes(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/products", "u1", map[string]any{"name": "Toner", "rating": 4})
	require.Equal(t, http.StatusCreated, w.Code)
	productID := decode[map[string]any](t, w)["id"].(string)

	w = do(t, r, http.MethodGet, "/products/item/"+productID, "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Toner", decode[map[string]any](t, w)["name"])

	w = do(t, r, http.MethodPatch, "/products/"+productID, "u1", map[string]any{"brand": "Acme"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Acme", decode[map[string]any](t, w)["brand"])

	w = do(t, r, http.MethodPost, "/routines", "u1", map[string]any{
		"name":  "AM",
		"steps": []map[string]any{{"name": "Tone", "productId": productID}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	routineID := decode[map[string]any](t, w)["id"].(string)

	w = do(t, r, http.MethodGet, "/routines/item/"+routineID, "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	view := decode[map[string]any](t, w)
	steps := view["steps"].([]any)
	require.Len(t, steps, 1)
	assert.Equal(t, "Toner", steps[0].(map[string]any)["product"].(map[string]any)["name"])

	w = do(t, r, http.MethodDelete, "/products/"+productID, "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/routines/u1", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]map[string]any](t, w)
	require.Len(t, list, 1)
	step := list[0]["steps"].([]any)[0].(map[string]any)
	assert.Nil(t, step["product"])
	assert.Equal(t, "daily", step["frequency"])
}

func TestDashboardRoutes(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/dashboard/add-suggested-routine", "u1", map[string]any{
		"userId":      "u1",
		"routineName": "Quick Morning",
		"steps":       []map[string]any{{"name": "SPF", "description": "reapply"}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "morning", decode[map[string]any](t, w)["schedule"])

	w = do(t, r, http.MethodGet, "/dashboard/u1?skinType=oily", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	d := decode[map[string]any](t, w)
	assert.Equal(t, float64(1), d["routinesCount"])
	assert.Equal(t, float64(1), d["tasksCount"])
	assert.NotEmpty(t, d["suggestedRoutines"])

	w = do(t, r, http.MethodGet, "/activity/u1", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestReviewRoutes(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/reviews", "u1", map[string]any{"productId": "p1", "rating": 5, "title": "Love it"})
	require.Equal(t, http.StatusCreated, w.Code)
	reviewID := decode[map[string]any](t, w)["id"].(string)

	w = do(t, r, http.MethodPost, "/reviews/"+reviewID+"/helpful", "u2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode[map[string]any](t, w)["helpfulCount"])

	w = do(t, r, http.MethodGet, "/reviews?q=love", "u2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 1)

	w = do(t, r, http.MethodDelete, "/reviews/"+reviewID, "u2", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
