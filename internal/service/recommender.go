package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/dietrec/backend/internal/model"
	"github.com/pageza/dietrec/backend/internal/monitoring"
)

// PredictParams are the nearest-neighbour options sent to the recommender
type PredictParams struct {
	NNeighbors     int  `json:"n_neighbors"`
	ReturnDistance bool `json:"return_distance"`
}

// PredictRequest is the body of a recommender call
type PredictRequest struct {
	NutritionInput []float64     `json:"nutrition_input"`
	Ingredients    []string      `json:"ingredients"`
	Params         PredictParams `json:"params"`
}

// PredictResponse is the recommender reply. Output is null when nothing matched.
type PredictResponse struct {
	Output []model.Recipe `json:"output"`
}

// RecommenderClient calls the external recipe recommendation API
type RecommenderClient struct {
	baseURL   string
	neighbors int
	client    *http.Client
	logger    *zap.Logger
	metrics   *monitoring.MetricsCollector
}

// Ensure RecommenderClient implements Recommender
var _ Recommender = (*RecommenderClient)(nil)

// NewRecommenderClient creates a client for the recommender at baseURL
func NewRecommenderClient(baseURL string, timeout time.Duration, logger *zap.Logger, metrics *monitoring.MetricsCollector) *RecommenderClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecommenderClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		neighbors: 5,
		client: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: metrics,
	}
}

// Recommend returns the recipes closest to the envelope. A nil slice means no match,
// which includes a non-2xx reply from the recommender.
func (c *RecommenderClient) Recommend(ctx context.Context, envelope model.Nutrients) ([]model.Recipe, error) {
	start := time.Now()
	recipes, err := c.predict(ctx, envelope)
	switch {
	case err != nil:
		c.metrics.ObserveRecommender(monitoring.OutcomeError, time.Since(start))
	case len(recipes) == 0:
		c.metrics.ObserveRecommender(monitoring.OutcomeEmpty, time.Since(start))
	default:
		c.metrics.ObserveRecommender(monitoring.OutcomeOK, time.Since(start))
	}
	return recipes, err
}

func (c *RecommenderClient) predict(ctx context.Context, envelope model.Nutrients) ([]model.Recipe, error) {
	reqBody := PredictRequest{
		NutritionInput: envelope.Vector(),
		Ingredients:    []string{},
		Params: PredictParams{
			NNeighbors:     c.neighbors,
			ReturnDistance: false,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict/", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// An error status counts as no match for this slot. Only transport and decode failures end the pass.
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("[Recommender] request rejected, skipping slot",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, nil
	}

	var result PredictResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	c.logger.Debug("[Recommender] received recipes",
		zap.Float64("calories", envelope.Calories),
		zap.Int("count", len(result.Output)))
	return result.Output, nil
}
