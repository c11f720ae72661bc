package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pageza/dietrec/backend/config"
	"github.com/pageza/dietrec/backend/internal/monitoring"
)

const imageCacheTTL = 7 * 24 * time.Hour

// ImageSearchResponse is the subset of the Custom Search reply we read
type ImageSearchResponse struct {
	Items []struct {
		Link  string `json:"link"`
		Title string `json:"title"`
		Mime  string `json:"mime"`
	} `json:"items"`
}

// ImageFinderOptions configures an ImageFinder
type ImageFinderOptions struct {
	APIKey     string
	EngineID   string
	APIURL     string
	MaxRetries int
	RetryDelay time.Duration
	// Interval is the minimum spacing between search requests. Zero means unthrottled.
	Interval time.Duration
	Redis    *redis.Client
	S3       *config.S3Config
	Logger   *zap.Logger
	Metrics  *monitoring.MetricsCollector
}

// ImageFinder resolves a recipe name to an image link
type ImageFinder struct {
	apiKey     string
	engineID   string
	apiURL     string
	maxRetries int
	retryDelay time.Duration
	limiter    *rate.Limiter
	redis      *redis.Client
	s3Config   *config.S3Config
	client     *http.Client
	logger     *zap.Logger
	metrics    *monitoring.MetricsCollector
}

// Ensure ImageFinder implements ImageLookup
var _ ImageLookup = (*ImageFinder)(nil)

// NewImageFinder creates a new ImageFinder. Redis and S3 are optional.
func NewImageFinder(opts ImageFinderOptions) *ImageFinder {
	if opts.APIURL == "" {
		opts.APIURL = "https://www.googleapis.com/customsearch/v1"
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	limit := rate.Inf
	if opts.Interval > 0 {
		limit = rate.Every(opts.Interval)
	}
	return &ImageFinder{
		apiKey:     opts.APIKey,
		engineID:   opts.EngineID,
		apiURL:     opts.APIURL,
		maxRetries: opts.MaxRetries,
		retryDelay: opts.RetryDelay,
		limiter:    rate.NewLimiter(limit, 1),
		redis:      opts.Redis,
		s3Config:   opts.S3,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger:  opts.Logger,
		metrics: opts.Metrics,
	}
}

// FindImage returns an image link for the recipe, or "" when none was found
func (f *ImageFinder) FindImage(ctx context.Context, recipeName string) (string, error) {
	key := imageCacheKey(recipeName)
	if link, ok := f.cached(ctx, key); ok {
		f.metrics.RecordImageLookup("cached")
		return link, nil
	}

	link, err := f.searchWithRetry(ctx, recipeName)
	if err != nil {
		f.metrics.RecordImageLookup("error")
		return "", err
	}
	if link == "" {
		f.metrics.RecordImageLookup("missing")
		return "", nil
	}

	if f.s3Config != nil {
		mirrored, err := f.mirrorToS3(ctx, link)
		if err != nil {
			f.logger.Warn("[ImageFinder] failed to mirror image, keeping original link",
				zap.String("recipe", recipeName), zap.Error(err))
		} else {
			link = mirrored
		}
	}

	f.store(ctx, key, link)
	f.metrics.RecordImageLookup("found")
	return link, nil
}

func (f *ImageFinder) searchWithRetry(ctx context.Context, recipeName string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= f.maxRetries; attempt++ {
		link, err := f.search(ctx, recipeName)
		if err == nil {
			return link, nil
		}
		lastErr = err
		f.logger.Debug("[ImageFinder] search attempt failed",
			zap.Int("attempt", attempt), zap.Int("max", f.maxRetries), zap.Error(err))
		if attempt == f.maxRetries || ctx.Err() != nil {
			break
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Duration(attempt) * f.retryDelay):
		}
	}
	return "", fmt.Errorf("failed to find image after %d attempts: %w", f.maxRetries, lastErr)
}

func (f *ImageFinder) search(ctx context.Context, recipeName string) (string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("image search throttled: %w", err)
	}
	reqURL, err := url.Parse(f.apiURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse search URL: %w", err)
	}
	params := reqURL.Query()
	params.Set("key", f.apiKey)
	params.Set("cx", f.engineID)
	params.Set("q", recipeName)
	params.Set("searchType", "image")
	params.Set("num", "1")
	reqURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image search failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result ImageSearchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	for _, item := range result.Items {
		if item.Link != "" {
			return item.Link, nil
		}
	}
	return "", nil
}

// mirrorToS3 downloads the image and stores a copy in the configured bucket
func (f *ImageFinder) mirrorToS3(ctx context.Context, imageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create download request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download image, status: %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read image data: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(imageData)
	}
	fileName := config.ImagePrefix + uuid.New().String() + imageExtension(imageURL, contentType)

	_, err = f.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(f.s3Config.BucketName),
		Key:         aws.String(fileName),
		Body:        bytes.NewReader(imageData),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := f.s3Config.PublicURL(fileName)
	f.logger.Info("[ImageFinder] mirrored image to S3", zap.String("url", publicURL))
	return publicURL, nil
}

func (f *ImageFinder) cached(ctx context.Context, key string) (string, bool) {
	if f.redis == nil {
		return "", false
	}
	link, err := f.redis.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			f.logger.Warn("[ImageFinder] cache read failed", zap.Error(err))
		}
		return "", false
	}
	return link, true
}

func (f *ImageFinder) store(ctx context.Context, key, link string) {
	if f.redis == nil {
		return
	}
	if err := f.redis.Set(ctx, key, link, imageCacheTTL).Err(); err != nil {
		f.logger.Warn("[ImageFinder] cache write failed", zap.Error(err))
	}
}

func imageCacheKey(recipeName string) string {
	return "recipe:image:" + strings.ToLower(strings.TrimSpace(recipeName))
}

func imageExtension(imageURL, contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	}
	if u, err := url.Parse(imageURL); err == nil {
		if ext := path.Ext(u.Path); ext != "" && len(ext) <= 5 {
			return strings.ToLower(ext)
		}
	}
	return ".jpg"
}
