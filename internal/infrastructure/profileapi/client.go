// Package profileapi talks to the profile HTTP API on behalf of local forms.
package profileapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/pawmatch/internal/domain/profile"
	"github.com/riskibarqy/pawmatch/internal/platform/logging"
	"github.com/riskibarqy/pawmatch/internal/platform/resilience"
	"github.com/riskibarqy/pawmatch/internal/profileform"
	"github.com/riskibarqy/pawmatch/internal/usecase"
)

const profileMePath = "/v1/profile/me"

var errProfileAPITransient = crerr.New("profile api transient failure")

// Client loads and updates the caller's profile. It satisfies the form's
// Loader and Updater.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	breaker    *resilience.CircuitBreaker
	circuitOn  bool
	logger     *logging.Logger
}

var (
	_ profileform.Loader  = (*Client)(nil)
	_ profileform.Updater = (*Client)(nil)
)

func NewClient(
	httpClient *http.Client,
	baseURL, token string,
	breakerCfg resilience.CircuitBreakerConfig,
	logger *logging.Logger,
) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(strings.TrimSpace(baseURL), "/"),
		token:      strings.TrimSpace(token),
		breaker:    resilience.NewCircuitBreaker(breakerCfg),
		circuitOn:  breakerCfg.Enabled,
		logger:     logger,
	}
}

// LoadProfile fetches the caller's profile. A 404 means no profile exists yet.
func (c *Client) LoadProfile(ctx context.Context) (profile.Profile, bool, error) {
	status, body, err := c.do(ctx, http.MethodGet, nil)
	if err != nil {
		return profile.Profile{}, false, err
	}

	var decoded envelope[profilePayload]
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return profile.Profile{}, false, crerr.Wrap(err, "unmarshal profile response")
	}

	switch {
	case status == http.StatusOK:
		return decoded.Data.toProfile(), true, nil
	case status == http.StatusNotFound:
		return profile.Profile{}, false, nil
	default:
		return profile.Profile{}, false, statusError(status, decoded.Error)
	}
}

// UpdateProfile replaces the caller's profile. Validation and conflict
// responses are reported as a rejected result, not an error.
func (c *Client) UpdateProfile(ctx context.Context, p profile.Profile) (profileform.UpdateResult, error) {
	encoded, err := sonic.Marshal(payloadFromProfile(p))
	if err != nil {
		return profileform.UpdateResult{}, crerr.Wrap(err, "marshal profile update")
	}

	status, body, err := c.do(ctx, http.MethodPut, encoded)
	if err != nil {
		return profileform.UpdateResult{}, err
	}

	var decoded envelope[profilePayload]
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return profileform.UpdateResult{}, crerr.Wrap(err, "unmarshal profile update response")
	}

	switch status {
	case http.StatusOK:
		return profileform.UpdateResult{Success: true}, nil
	case http.StatusBadRequest, http.StatusConflict:
		return profileform.UpdateResult{Success: false, Error: decoded.Error.userMessage()}, nil
	default:
		return profileform.UpdateResult{}, statusError(status, decoded.Error)
	}
}

func (c *Client) do(ctx context.Context, method string, payload []byte) (int, []byte, error) {
	if c.circuitOn {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "profile api circuit breaker rejected request", "state", c.breaker.State())
			return 0, nil, fmt.Errorf("%w: profile api is temporarily unavailable: %v", usecase.ErrDependencyUnavailable, err)
		}
	}

	status, body, err := c.send(ctx, method, payload)
	if c.circuitOn {
		c.breaker.Record(err != nil && crerr.Is(err, errProfileAPITransient))
	}
	if err != nil {
		if crerr.Is(err, errProfileAPITransient) {
			return 0, nil, fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err)
		}
		return 0, nil, err
	}

	return status, body, nil
}

func (c *Client) send(ctx context.Context, method string, payload []byte) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+profileMePath, reader)
	if err != nil {
		return 0, nil, crerr.Wrap(err, "create profile api request")
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, crerr.Mark(crerr.Wrapf(err, "%s %s", method, profileMePath), errProfileAPITransient)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, nil, crerr.Mark(crerr.Wrap(err, "read profile api response"), errProfileAPITransient)
	}

	if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
		c.logger.WarnContext(ctx, "profile api request failed", "method", method, "status_code", resp.StatusCode)
		return 0, nil, crerr.Mark(crerr.Newf("profile api status=%d", resp.StatusCode), errProfileAPITransient)
	}

	return resp.StatusCode, body, nil
}

func statusError(status int, body *errorBody) error {
	msg := body.userMessage()
	if msg == "" {
		msg = http.StatusText(status)
	}

	switch status {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", usecase.ErrUnauthorized, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", usecase.ErrNotFound, msg)
	default:
		return crerr.Newf("profile api status=%d: %s", status, msg)
	}
}
