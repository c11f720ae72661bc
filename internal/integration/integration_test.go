package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pageza/dietrec/backend/internal/api"
	"github.com/pageza/dietrec/backend/internal/database"
	"github.com/pageza/dietrec/backend/internal/middleware"
	"github.com/pageza/dietrec/backend/internal/models"
	"github.com/pageza/dietrec/backend/internal/monitoring"
	"github.com/pageza/dietrec/backend/internal/router"
	"github.com/pageza/dietrec/backend/internal/service"
	"github.com/pageza/dietrec/backend/internal/testhelpers"
	"github.com/pageza/dietrec/backend/internal/types"
)

func setupDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.RunMigrations(db, "", zap.NewNop()))
	return db
}

// fakeRecommender answers /predict/ with one recipe per call. Call failOn gets an
// undecodable body, call skipOn gets a 503.
func fakeRecommender(t *testing.T, failOn, skipOn int32) *httptest.Server {
	var calls int32
	names := []string{"Oatmeal", "Chicken Salad", "Salmon", "Apple", "Yogurt"}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		switch n {
		case failOn:
			_, _ = w.Write([]byte("<html>gateway error</html>"))
			return
		case skipOn:
			http.Error(w, "model unavailable", http.StatusServiceUnavailable)
			return
		}
		var req service.PredictRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.NutritionInput) != 9 {
			http.Error(w, "bad input", http.StatusUnprocessableEntity)
			return
		}
		name := names[(int(n)-1)%len(names)]
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"output": []map[string]interface{}{
				{"Name": name, "Calories": 500.0, "ProteinContent": 30.0, "RecipeIngredientParts": []string{"x"}},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func fakeImageSearch(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[{"link":"https://img.example.com/` + r.URL.Query().Get("q") + `.jpg"}]}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

type testApp struct {
	router *gin.Engine
	cookie *http.Cookie
}

func newTestApp(t *testing.T, policy service.FailurePolicy, failOn, skipOn int32) *testApp {
	gin.SetMode(gin.TestMode)
	redisClient := testhelpers.SetupTestRedis(t)
	db := setupDB(t)
	metrics := monitoring.NewMetricsCollector()

	recommendations := service.NewRecommendationService(
		service.NewSeededMealPlanner(42),
		service.NewRecommenderClient(fakeRecommender(t, failOn, skipOn).URL, 5*time.Second, zap.NewNop(), metrics),
		service.NewImageFinder(service.ImageFinderOptions{
			APIKey: "k", EngineID: "cx", APIURL: fakeImageSearch(t).URL, Redis: redisClient, Metrics: metrics,
		}),
		policy, zap.NewNop(), metrics,
	)

	engine := router.SetupRouter(router.Options{Metrics: metrics}, api.Dependencies{
		Recommendations: recommendations,
		Sessions:        service.NewSessionStore(redisClient),
		History:         service.NewHistoryService(db, nil),
		Tokens:          service.NewSessionTokenService("integration-secret", time.Hour),
		PlanLimiter:     middleware.NewPlanGenerationRateLimiter(redisClient, 3, time.Hour, nil),
	})
	return &testApp{router: engine}
}

func (a *testApp) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if a.cookie != nil {
		req.AddCookie(a.cookie)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			a.cookie = c
		}
	}
	return w
}

var planRequest = map[string]interface{}{
	"age":              30,
	"height":           170,
	"weight":           70,
	"gender":           "Female",
	"activity":         "Moderate exercise (3-5 days/wk)",
	"weight_loss_plan": "Mild weight loss",
	"meals_per_day":    3,
}

func TestPlanFlow(t *testing.T) {
	app := newTestApp(t, service.DiscardOnFailure, 0, 0)

	w := app.do(t, http.MethodPost, "/api/v1/plans", planRequest)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotNil(t, app.cookie)

	var plan types.PlanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plan))
	require.Len(t, plan.Recommendations, 3)
	assert.Equal(t, "https://img.example.com/Oatmeal.jpg", plan.Recommendations[0].Recipes[0].ImageLink)
	assert.Empty(t, plan.Error)

	w = app.do(t, http.MethodGet, "/api/v1/plans/current", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var current types.PlanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &current))
	assert.True(t, current.Generated)
	assert.Equal(t, plan.Recommendations, current.Recommendations)

	w = app.do(t, http.MethodPost, "/api/v1/plans/current/choices", map[string]interface{}{
		"choices": map[string]string{"breakfast": "Oatmeal", "lunch": "Chicken Salad", "dinner": "Salmon"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var summary types.MealChoicesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 1500.0, summary.Totals.Calories)
	assert.Equal(t, service.ColorWithinLimit, summary.Highlight)
	assert.Equal(t, "Mild weight loss Calories", summary.CalorieComparison[1].Label)

	w = app.do(t, http.MethodGet, "/api/v1/plans/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history struct {
		History []models.PlanHistory `json:"history"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	require.Len(t, history.History, 1)
	assert.Equal(t, models.OutcomeComplete, history.History[0].Outcome)

	w = app.do(t, http.MethodGet, "/api/v1/rate-limits/plan-generation", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"remaining":2`)
}

func TestPlanFlowWithRecommenderFailure(t *testing.T) {
	t.Run("discard", func(t *testing.T) {
		app := newTestApp(t, service.DiscardOnFailure, 2, 0)

		w := app.do(t, http.MethodPost, "/api/v1/plans", planRequest)
		require.Equal(t, http.StatusOK, w.Code)
		var plan types.PlanResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plan))
		assert.Empty(t, plan.Recommendations)
		assert.NotEmpty(t, plan.Error)
		assert.False(t, plan.Partial)
	})

	t.Run("keep partial", func(t *testing.T) {
		app := newTestApp(t, service.KeepPartial, 2, 0)

		w := app.do(t, http.MethodPost, "/api/v1/plans", planRequest)
		require.Equal(t, http.StatusOK, w.Code)
		var plan types.PlanResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plan))
		require.Len(t, plan.Recommendations, 1)
		assert.True(t, plan.Partial)

		w = app.do(t, http.MethodGet, "/api/v1/plans/current", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var current types.PlanResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &current))
		assert.Equal(t, plan.Message, current.Message)
		assert.Equal(t, plan.Error, current.Error)
		assert.True(t, current.Partial)
	})

	t.Run("error status skips the slot", func(t *testing.T) {
		app := newTestApp(t, service.DiscardOnFailure, 0, 2)

		w := app.do(t, http.MethodPost, "/api/v1/plans", planRequest)
		require.Equal(t, http.StatusOK, w.Code)
		var plan types.PlanResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plan))
		require.Len(t, plan.Recommendations, 2)
		assert.Equal(t, "breakfast", plan.Recommendations[0].Slot)
		assert.Equal(t, "dinner", plan.Recommendations[1].Slot)
		assert.Empty(t, plan.Error)
		assert.False(t, plan.Partial)
	})
}

func TestPlanGenerationIsRateLimited(t *testing.T) {
	app := newTestApp(t, service.DiscardOnFailure, 0, 0)
	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, app.do(t, http.MethodPost, "/api/v1/plans", planRequest).Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, app.do(t, http.MethodPost, "/api/v1/plans", planRequest).Code)
}
