package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pageza/dietrec/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommenderClient_Recommend(t *testing.T) {
	envelope := model.Nutrients{Calories: 700, FatContent: 20, ProteinContent: 60}

	t.Run("should send envelope and decode recipes", func(t *testing.T) {
		var got PredictRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/predict/", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"output":[{"Name":"Greek Salad","Calories":320.5,"ProteinContent":12,
				"RecipeIngredientParts":["feta","olives"],"RecipeInstructions":["Chop","Mix"],
				"CookTime":"0","PrepTime":"15","TotalTime":"15"}]}`))
		}))
		defer srv.Close()

		client := NewRecommenderClient(srv.URL+"/", time.Second, nil, nil)
		recipes, err := client.Recommend(context.Background(), envelope)
		require.NoError(t, err)
		require.Len(t, recipes, 1)

		assert.Equal(t, "Greek Salad", recipes[0].Name)
		assert.Equal(t, 320.5, recipes[0].Calories)
		assert.Equal(t, []string{"feta", "olives"}, recipes[0].RecipeIngredientParts)
		assert.Equal(t, "15", recipes[0].TotalTime)

		assert.Equal(t, envelope.Vector(), got.NutritionInput)
		assert.Equal(t, 5, got.Params.NNeighbors)
		assert.NotNil(t, got.Ingredients)
	})

	t.Run("should treat null output as no match", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"output":null}`))
		}))
		defer srv.Close()

		recipes, err := NewRecommenderClient(srv.URL, time.Second, nil, nil).Recommend(context.Background(), envelope)
		require.NoError(t, err)
		assert.Empty(t, recipes)
	})

	t.Run("should treat an error status as no match", func(t *testing.T) {
		for _, status := range []int{http.StatusBadRequest, http.StatusInternalServerError, http.StatusServiceUnavailable} {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", status)
			}))

			recipes, err := NewRecommenderClient(srv.URL, time.Second, nil, nil).Recommend(context.Background(), envelope)
			srv.Close()
			require.NoError(t, err, "status %d", status)
			assert.Nil(t, recipes, "status %d", status)
		}
	})

	t.Run("should fail when the recommender is unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := srv.URL
		srv.Close()

		_, err := NewRecommenderClient(url, time.Second, nil, nil).Recommend(context.Background(), envelope)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to send request")
	})

	t.Run("should fail on malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}))
		defer srv.Close()

		_, err := NewRecommenderClient(srv.URL, time.Second, nil, nil).Recommend(context.Background(), envelope)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode response")
	})

	t.Run("should honour context cancellation", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewRecommenderClient(srv.URL, 5*time.Second, nil, nil).Recommend(ctx, envelope)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
