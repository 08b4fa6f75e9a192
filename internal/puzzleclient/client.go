package puzzleclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/vytor/linkpuzzle/internal/errors"
	"github.com/vytor/linkpuzzle/internal/logger"
	"github.com/vytor/linkpuzzle/internal/models"
)

// SessionCookie is the cookie the puzzle service keys sessions on.
const SessionCookie = "session_id"

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	attempts   int
	backoff    func() backoff.BackOff
	log        *logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithFetchAttempts sets how many times FetchPuzzle is tried.
func WithFetchAttempts(n int) Option {
	return func(c *Client) {
		c.attempts = max(n, 1)
	}
}

// WithBackOff replaces the retry schedule used by FetchPuzzle.
func WithBackOff(f func() backoff.BackOff) Option {
	return func(c *Client) {
		c.backoff = f
	}
}

// WithSessionID resumes an existing server session.
func WithSessionID(id string) Option {
	return func(c *Client) {
		if id == "" {
			return
		}
		c.httpClient.Jar.SetCookies(c.baseURL, []*http.Cookie{{Name: SessionCookie, Value: id, Path: "/"}})
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse puzzle url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("puzzle url must be http or https, got %q", baseURL)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: 15 * time.Second, Jar: jar},
		attempts:   3,
		backoff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 300 * time.Millisecond
			b.MaxInterval = 3 * time.Second
			return b
		},
		log: logger.Default().WithPrefix("puzzleclient"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ResetSession forgets the server session cookie, so the next request
// starts a new session.
func (c *Client) ResetSession() {
	jar, err := cookiejar.New(nil)
	if err != nil {
		c.log.Warn("failed to reset session: %v", err)
		return
	}
	c.httpClient.Jar = jar
}

// SessionID returns the server session cookie currently held, or "".
func (c *Client) SessionID() string {
	for _, ck := range c.httpClient.Jar.Cookies(c.baseURL) {
		if ck.Name == SessionCookie {
			return ck.Value
		}
	}
	return ""
}

func (c *Client) endpoint(path string) string {
	return c.baseURL.JoinPath(path).String()
}

// statusError is a non-200 reply. 4xx replies other than 429 are not
// retried.
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.status, e.body)
}

func (e *statusError) permanent() bool {
	return e.status >= 400 && e.status < 500 && e.status != http.StatusTooManyRequests
}

func (c *Client) do(req *http.Request, out any) error {
	log := logger.FromContext(req.Context()).WithPrefix("puzzleclient").WithField("path", req.URL.Path)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("request failed: %v", err)
		return err
	}
	defer resp.Body.Close()

	log.Debug("response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Warn("request failed: status=%d, body=%s", resp.StatusCode, string(body))
		return &statusError{status: resp.StatusCode, body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Error("failed to decode response: %v", err)
		return backoff.Permanent(fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// FetchPuzzle loads today's puzzle, retrying transport failures and 5xx
// replies with exponential backoff.
func (c *Client) FetchPuzzle(ctx context.Context) (*models.PuzzleResponse, error) {
	log := logger.FromContext(ctx).WithPrefix("puzzleclient")

	attempt := 0
	op := func() (*models.PuzzleResponse, error) {
		attempt++
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/puzzle"), nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")

		var out models.PuzzleResponse
		if err := c.do(req, &out); err != nil {
			if se, ok := err.(*statusError); ok && se.permanent() {
				return nil, backoff.Permanent(err)
			}
			log.Debug("fetch attempt %d/%d failed: %v", attempt, c.attempts, err)
			return nil, err
		}
		if err := validatePuzzle(out); err != nil {
			return nil, backoff.Permanent(err)
		}
		return &out, nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(c.backoff(), uint64(c.attempts-1)), ctx)
	out, err := backoff.RetryWithData(op, policy)
	if err != nil {
		log.Error("fetch puzzle failed after %d attempt(s): %v", attempt, err)
		return nil, errors.NewTransportError("fetch puzzle", err)
	}

	log.Info("fetched puzzle day %d (%d pairs, %d guesses)", out.DayIndex, len(out.Pairs), out.MaxGuesses)
	return out, nil
}

// SubmitGuess sends one guess to be judged. It is never retried here: the
// server counts every request it receives.
func (c *Client) SubmitGuess(ctx context.Context, guess string) (*models.GuessResponse, error) {
	log := logger.FromContext(ctx).WithPrefix("puzzleclient")

	body, err := json.Marshal(models.GuessRequest{Guess: guess})
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/guess"), bytes.NewReader(body))
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	var out models.GuessResponse
	if err := c.do(req, &out); err != nil {
		if se, ok := err.(*statusError); ok && se.status == http.StatusConflict {
			return nil, errors.NewConflictError("today's puzzle is already finished on the server")
		}
		if se, ok := err.(*statusError); ok && se.permanent() {
			return nil, errors.NewBadRequestError(fmt.Sprintf("guess rejected: %s", se.body))
		}
		return nil, errors.NewTransportError("submit guess", unwrapPermanent(err))
	}
	if out.Status == models.StatusUnknown {
		return nil, errors.NewTransportError("submit guess", fmt.Errorf("response is missing a status"))
	}

	log.Debug("guess %q judged %s (advance=%t)", guess, out.Status, out.Advance)
	return &out, nil
}

func validatePuzzle(p models.PuzzleResponse) error {
	if len(p.Pairs) == 0 {
		return fmt.Errorf("puzzle has no pairs")
	}
	if p.MaxGuesses < 1 {
		return fmt.Errorf("puzzle has invalid max_guesses %d", p.MaxGuesses)
	}
	if p.DayIndex < 1 {
		return fmt.Errorf("puzzle has invalid day_index %d", p.DayIndex)
	}
	return nil
}

func unwrapPermanent(err error) error {
	if pe, ok := err.(*backoff.PermanentError); ok {
		return pe.Err
	}
	return err
}
