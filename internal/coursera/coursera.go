// Package coursera looks up learning resources for suggested skills.
package coursera

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	apiURL    = "https://api.coursera.org"
	courseURL = "https://www.coursera.org/learn/"
	userAgent = "spigell/career-interviewer"

	DefaultLimit             = 5
	defaultRequestsPerSecond = 5
	maxParallelLookups       = 4
)

// Credentials are the API key and secret sent as basic auth.
type Credentials struct {
	Key    string `mapstructure:"key"`
	Secret string `mapstructure:"secret"`
}

type Client struct {
	// ctx used only for SearchCourses requests
	ctx         context.Context
	credentials Credentials
	logger      *zap.Logger
	limiter     *rate.Limiter
	HTTPClient  *http.Client
	UserAgent   string
	APIURL      string
}

func New(ctx context.Context, logger *zap.Logger, credentials Credentials) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		ctx:         ctx,
		credentials: credentials,
		logger:      logger,
		limiter:     rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), 1),
		APIURL:      apiURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		UserAgent: userAgent,
	}
}

// SetRequestsPerSecond changes the outbound request pace. Non-positive values
// are ignored.
func (c *Client) SetRequestsPerSecond(rps float64) {
	if rps > 0 {
		c.limiter.SetLimit(rate.Limit(rps))
	}
}
