package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/dietrec/backend/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func jsonRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func calculatorRouter() *gin.Engine {
	router := gin.New()
	NewCalculatorHandler().RegisterRoutes(router.Group("/api/v1"))
	return router
}

func TestCalculatorHandler_BMI(t *testing.T) {
	router := calculatorRouter()

	t.Run("should classify BMI", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest(t, http.MethodPost, "/api/v1/metrics/bmi", gin.H{
			"age": 30, "height": 170, "weight": 70, "gender": "Male",
		}))
		require.Equal(t, http.StatusOK, w.Code)

		var resp types.BMIResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 24.22, resp.BMI)
		assert.Equal(t, "Normal", resp.Category)
		assert.NotEmpty(t, resp.HealthyRange)
	})

	t.Run("should reject out of range input", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest(t, http.MethodPost, "/api/v1/metrics/bmi", gin.H{
			"age": 1, "height": 170, "weight": 70, "gender": "Male",
		}))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("should reject unsupported gender", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest(t, http.MethodPost, "/api/v1/metrics/bmi", gin.H{
			"age": 30, "height": 170, "weight": 70, "gender": "Other",
		}))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCalculatorHandler_Calories(t *testing.T) {
	router := calculatorRouter()

	t.Run("should return the seven guidelines", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest(t, http.MethodPost, "/api/v1/metrics/calories", gin.H{
			"age": 30, "height": 170, "weight": 70, "gender": "Male", "activity": "Little/no exercise",
		}))
		require.Equal(t, http.StatusOK, w.Code)

		var resp types.CaloriesResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.InDelta(t, 1941.0, resp.MaintenanceCalories, 1e-9)
		require.Len(t, resp.Guidelines, 7)
		assert.Equal(t, "Maintain weight", resp.Guidelines[3].Plan)
		assert.Equal(t, 1941, resp.Guidelines[3].CaloriesDay)
	})

	t.Run("should reject unknown activity", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest(t, http.MethodPost, "/api/v1/metrics/calories", gin.H{
			"age": 30, "height": 170, "weight": 70, "gender": "Male", "activity": "Couch marathon",
		}))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "activity")
	})
}
