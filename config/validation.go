package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigRequirements defines required configuration for each environment
type ConfigRequirements struct {
	RequiredSecrets []string
}

var (
	// Environment-specific requirements
	requirements = map[Environment]ConfigRequirements{
		Development: {},
		Test:        {},
		CI: {
			RequiredSecrets: []string{}, // CI uses environment variables, not Docker secrets
		},
		Production: {
			RequiredSecrets: []string{
				"db_user",
				"db_password",
				"session_secret",
			},
		},
	}
)

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()
	reqs := requirements[env]

	var errs []error

	for _, secret := range reqs.RequiredSecrets {
		if value := readSecret(secret); value == "" {
			errs = append(errs, ValidationError{Field: secret, Message: "required secret is not set"})
		}
	}

	if cfg.SessionSecret == "" {
		errs = append(errs, ValidationError{Field: "SESSION_SECRET", Message: "is required"})
	} else if env == Production && len(cfg.SessionSecret) < 32 {
		errs = append(errs, ValidationError{Field: "SESSION_SECRET", Message: "must be at least 32 characters in production"})
	}

	if u, err := url.Parse(cfg.RecommenderURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, ValidationError{Field: "RECOMMENDER_URL", Message: "must be an absolute URL"})
	}
	if cfg.RecommenderTimeout <= 0 {
		errs = append(errs, ValidationError{Field: "RECOMMENDER_TIMEOUT", Message: "must be positive"})
	}

	switch cfg.DBDriver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, ValidationError{Field: "DB_DRIVER", Message: "must be postgres or sqlite"})
	}

	switch cfg.FailurePolicy {
	case "discard", "keep_partial":
	default:
		errs = append(errs, ValidationError{Field: "FAILURE_POLICY", Message: "must be discard or keep_partial"})
	}

	if cfg.PlanRateLimit <= 0 {
		errs = append(errs, ValidationError{Field: "PLAN_RATE_LIMIT", Message: "must be positive"})
	}

	if env == CI && cfg.DBPassword == "" {
		errs = append(errs, ValidationError{Field: "TEST_DB_PASSWORD", Message: "is required in CI environment"})
	}

	if len(errs) > 0 {
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(msgs, "\n"))
	}

	return nil
}
