package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ninerlytics/transit-dashboard/internal/models"
	"github.com/ninerlytics/transit-dashboard/internal/service"
	"github.com/ninerlytics/transit-dashboard/internal/settings"
	"github.com/ninerlytics/transit-dashboard/pkg/ws"
)

type stubRepo struct{}

func (stubRepo) List(ctx context.Context) ([]models.Bus, error) {
	return []models.Bus{{ID: 1, Code: "10"}, {ID: 2, Code: "2"}, {ID: 3, Code: "1"}}, nil
}

func (stubRepo) Aggregate(ctx context.Context, f *models.DataFilter) ([]models.BusStatistics, error) {
	return []models.BusStatistics{
		{ID: 1, NumTimesStopped: 5, TotalPeopleOn: 20, TotalPeopleOff: 18, DistanceFromLast: 40},
		{ID: 2, NumTimesStopped: 9, TotalPeopleOn: 31, TotalPeopleOff: 30, DistanceFromLast: 1000},
	}, nil
}

func (stubRepo) ListWithValues(ctx context.Context, f *models.DataFilter, dataType models.MapDataType) ([]models.StopValue, error) {
	return []models.StopValue{
		{Stop: models.Stop{ID: 1, Name: "Union"}, Value: 2},
		{Stop: models.Stop{ID: 2, Name: "Library"}, Value: 4},
	}, nil
}

type stubRoutes struct{}

func (stubRoutes) List(ctx context.Context) ([]models.Route, error) {
	return []models.Route{{ID: 1, Name: "Green"}}, nil
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	hub := ws.NewHub(logger)
	go hub.Run()
	t.Cleanup(hub.Stop)

	dashboard := service.NewDashboardService(
		logger,
		stubRepo{},
		stubRoutes{},
		stubRepo{},
		stubRepo{},
		settings.NewIntervalStore(settings.NewMemoryStore(), logger, 0),
		hub,
		models.MapView{Zoom: 17},
	)

	r := gin.New()
	NewHandler(logger, dashboard, hub).RegisterRoutes(r)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var resp map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestListBuses(t *testing.T) {
	r := newRouter(t)

	w := do(r, http.MethodGet, "/api/buses", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			NumDays *int `json:"num_days"`
			Rows    []struct {
				Bus  models.Bus      `json:"bus"`
				Data json.RawMessage `json:"data"`
			} `json:"rows"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp.Data.NumDays)
	require.Len(t, resp.Data.Rows, 3)
	assert.Equal(t, "1", resp.Data.Rows[0].Bus.Code)
	assert.JSONEq(t, "null", string(resp.Data.Rows[0].Data))

	w = do(r, http.MethodGet, "/api/buses?min_date=2024-03-01&max_date=2024-03-02&sort=miles&ascending=false", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Data.NumDays)
	assert.Equal(t, 2, *resp.Data.NumDays)
	assert.Equal(t, "2", resp.Data.Rows[0].Bus.Code)
}

func TestListBusesBadQuery(t *testing.T) {
	r := newRouter(t)

	for _, path := range []string{
		"/api/buses?min_date=03/01/2024",
		"/api/buses?min_date=2024-03-02&max_date=2024-03-01",
		"/api/buses?min_date=2024-03-01&min_time=25:00:00",
		"/api/buses?min_date=2024-03-01&routes=1,x",
		"/api/buses?sort=bogus",
		"/api/buses?sort=name&ascending=maybe",
	} {
		w := do(r, http.MethodGet, path, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestSortBuses(t *testing.T) {
	r := newRouter(t)

	w := do(r, http.MethodPost, "/api/buses/sort/name", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"key":"name","ascending":false}`, string(decode(t, w)["data"]))

	w = do(r, http.MethodPost, "/api/buses/sort/refuel", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"key":"refuel","ascending":true}`, string(decode(t, w)["data"]))

	w = do(r, http.MethodPost, "/api/buses/sort/bogus", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportBuses(t *testing.T) {
	r := newRouter(t)

	w := do(r, http.MethodGet, "/api/buses/export", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/api/buses/export?min_date=2024-03-01&max_date=2024-03-02&routes=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/tab-separated-values; charset=utf-8", w.Header().Get("Content-Type"))

	lines := strings.Split(w.Body.String(), "\n")
	assert.Equal(t, "Transit Ninerlytics Export", lines[0])
	assert.Equal(t, "Times: 00:00:00 - 23:59:59", lines[2])
	assert.Equal(t, "Routes: Green", lines[3])
	assert.Equal(t, "Buses: ", lines[4])

	w = do(r, http.MethodGet, "/api/buses/export.xlsx?min_date=2024-03-01", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, workbookContentType, w.Header().Get("Content-Type"))
	assert.NotZero(t, w.Body.Len())
}

func TestUpdateInterval(t *testing.T) {
	r := newRouter(t)

	w := do(r, http.MethodPut, "/api/intervals/1", `{"miles":0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPut, "/api/intervals/x", `{"miles":10}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPut, "/api/intervals/9", `{"miles":10}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodPut, "/api/intervals/1", `{"miles":1500}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/intervals", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data []models.MaintenanceInterval `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 3)
	assert.Equal(t, 1500.0, resp.Data[1].Miles)
}

func TestIntervalEditor(t *testing.T) {
	r := newRouter(t)

	w := do(r, http.MethodPost, "/api/editor/submit", `{"miles":100}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodPost, "/api/intervals/9/edit", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodPost, "/api/intervals/0/edit", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPost, "/api/editor/submit", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/editor/submit", `{"miles":0}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var rejected struct {
		Data struct {
			State     string `json:"state"`
			Validated bool   `json:"validated"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rejected))
	assert.Equal(t, "editing", rejected.Data.State)
	assert.True(t, rejected.Data.Validated)

	w = do(r, http.MethodPost, "/api/editor/submit", `{"miles":750}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/editor", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"state":"hidden"`)

	w = do(r, http.MethodPost, "/api/intervals/2/edit", "")
	require.Equal(t, http.StatusOK, w.Code)
	w = do(r, http.MethodDelete, "/api/editor", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"state":"hidden"`)
}

func TestGetStopMap(t *testing.T) {
	r := newRouter(t)

	w := do(r, http.MethodGet, "/api/stops/map?min_date=2024-03-01", "")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/api/stops/map?data=num_times_stopped&min_date=2024-03-01", w.Header().Get("Location"))

	w = do(r, http.MethodGet, "/api/stops/map?data=bogus", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/api/stops/map?data=total_people_on", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			View     models.MapView `json:"view"`
			DataType string         `json:"data_type"`
			Stops    []struct {
				Name  string `json:"name"`
				Color string `json:"color"`
			} `json:"stops"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 17, resp.Data.View.Zoom)
	assert.Equal(t, "total_people_on", resp.Data.DataType)
	require.Len(t, resp.Data.Stops, 2)
	assert.Equal(t, "#ffffff", resp.Data.Stops[0].Color)
	assert.Equal(t, "#ffa600", resp.Data.Stops[1].Color)
}

func TestHealthCheck(t *testing.T) {
	r := newRouter(t)

	w := do(r, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","ws_clients":0}`, w.Body.String())
}
