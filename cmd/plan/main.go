package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/dietrec/backend/config"
	"github.com/pageza/dietrec/backend/internal/service"
	"github.com/pageza/dietrec/backend/internal/types"
	"github.com/pageza/dietrec/backend/pkg/logger"
)

// plan runs one recommendation pass against the configured recommender and
// prints the result as JSON. Useful for checking a recommender deployment
// without going through the HTTP API.
func main() {
	var req types.GeneratePlanRequest
	flag.IntVar(&req.Age, "age", 30, "age in years")
	flag.IntVar(&req.Height, "height", 170, "height in cm")
	flag.IntVar(&req.Weight, "weight", 70, "weight in kg")
	flag.StringVar(&req.Gender, "gender", "Male", "Male or Female")
	flag.StringVar(&req.Activity, "activity", "Moderate exercise (3-5 days/wk)", "activity label")
	flag.StringVar(&req.WeightLossPlan, "plan", "Maintain weight", "weight loss plan label")
	flag.IntVar(&req.MealsPerDay, "meals", 3, "meals per day (3-5)")
	seed := flag.Int64("seed", 0, "random seed for envelope sampling, 0 for time based")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall timeout")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Format: "console", Development: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	profile, plan, err := req.Profile()
	if err != nil {
		log.Fatal("[Plan] invalid profile", zap.Error(err))
	}

	recommendations := newRecommendationService(cfg, *seed, log)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	log.Info("[Plan] generating plan",
		zap.String("recommender", cfg.RecommenderURL),
		zap.String("plan", plan.Name),
		zap.Int("meals", req.MealsPerDay))

	result, err := recommendations.Generate(ctx, profile)
	if err != nil {
		log.Fatal("[Plan] generation failed", zap.Error(err))
	}
	if result.Failure != nil {
		log.Warn("[Plan] recommender failure", zap.Error(result.Failure), zap.String("outcome", result.Outcome()))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result.Slots); err != nil {
		log.Fatal("[Plan] failed to encode result", zap.Error(err))
	}
}

// newRecommendationService assembles the pass from config. A zero seed samples from the clock.
func newRecommendationService(cfg *config.Config, seed int64, log *zap.Logger) *service.RecommendationService {
	planner := service.NewMealPlanner(nil)
	if seed != 0 {
		planner = service.NewSeededMealPlanner(seed)
	}

	var images service.ImageLookup
	if cfg.ImageSearchEnabled() {
		images = service.NewImageFinder(service.ImageFinderOptions{
			APIKey:   cfg.ImageSearchAPIKey,
			EngineID: cfg.ImageSearchEngineID,
			APIURL:   cfg.ImageSearchURL,
			Interval: cfg.ImageSearchInterval,
			Logger:   log,
		})
	}

	return service.NewRecommendationService(
		planner,
		service.NewRecommenderClient(cfg.RecommenderURL, cfg.RecommenderTimeout, log, nil),
		images,
		service.ParseFailurePolicy(cfg.FailurePolicy),
		log,
		nil,
	)
}
