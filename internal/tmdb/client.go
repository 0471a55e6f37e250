// Package tmdb реализует клиент к API метаданных фильмов The Movie Database.
//
// Все вызовы авторизуются bearer-токеном, ограничены по времени и повторяются
// при сетевых сбоях. Ответ с кодом вне 2xx не повторяется.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/movie-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/movie-gateway/internal/metrics"
	"github.com/magabrotheeeer/movie-gateway/internal/models"
)

const (
	// DefaultBaseURL адрес API v3.
	DefaultBaseURL = "https://api.themoviedb.org/3"
	// MaxPage последняя страница, которую отдаёт TMDB.
	MaxPage = 500

	defaultTimeout     = 20 * time.Second
	defaultMaxAttempts = 3
	defaultBaseBackoff = 100 * time.Millisecond
	maxBackoff         = 2 * time.Second
	maxBodySize        = 10 << 20
	provider           = "tmdb"
)

// Options параметры клиента.
type Options struct {
	BaseURL     string
	Token       string
	Timeout     time.Duration
	MaxAttempts int
	BaseBackoff time.Duration
	// RPS ограничение частоты запросов. Ноль снимает ограничение.
	RPS        float64
	HTTPClient *http.Client
	Metrics    *metrics.Metrics
}

// Client HTTP-клиент к TMDB.
type Client struct {
	baseURL     string
	token       string
	timeout     time.Duration
	maxAttempts int
	baseBackoff time.Duration
	httpClient  *http.Client
	limiter     *rate.Limiter
	metrics     *metrics.Metrics
	log         *slog.Logger
	// newTimer подменяет таймер пауз между попытками.
	newTimer func() backoff.Timer
}

// New создаёт клиент. Незаданные параметры заменяются значениями по умолчанию.
func New(opts Options, log *slog.Logger) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		token:       bearer(opts.Token),
		timeout:     opts.Timeout,
		maxAttempts: opts.MaxAttempts,
		baseBackoff: opts.BaseBackoff,
		httpClient:  opts.HTTPClient,
		metrics:     opts.Metrics,
		log:         log,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.maxAttempts <= 0 {
		c.maxAttempts = defaultMaxAttempts
	}
	if c.baseBackoff <= 0 {
		c.baseBackoff = defaultBaseBackoff
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if opts.RPS > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RPS), int(opts.RPS)+1)
	} else {
		c.limiter = rate.NewLimiter(rate.Inf, 0)
	}
	return c
}

// HasCredential сообщает, задан ли bearer-токен.
func (c *Client) HasCredential() bool {
	return c.token != ""
}

func bearer(token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(token, "Bearer ") {
		return token
	}
	return "Bearer " + token
}

type listingResponse struct {
	Page       int               `json:"page"`
	TotalPages int               `json:"total_pages"`
	Results    []json.RawMessage `json:"results"`
}

func (l listingResponse) normalize() *models.Listing {
	content := l.Results
	if content == nil {
		content = []json.RawMessage{}
	}
	return &models.Listing{
		Content:    content,
		Page:       l.Page,
		TotalPages: l.TotalPages,
	}
}

// Search ищет фильмы по тексту, возвращает первую страницу.
func (c *Client) Search(ctx context.Context, query string) (*models.Listing, error) {
	const op = "tmdb.Search"
	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")
	params.Set("language", "en-US")
	params.Set("page", "1")

	var resp listingResponse
	if err := c.getJSON(ctx, "search", "/search/movie", params, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return resp.normalize(), nil
}

// Movie возвращает карточку фильма как есть.
func (c *Client) Movie(ctx context.Context, id string) (json.RawMessage, error) {
	return c.movieResource(ctx, "tmdb.Movie", "movie", id, "", nil)
}

// Videos возвращает список видео фильма как есть.
func (c *Client) Videos(ctx context.Context, id string) (json.RawMessage, error) {
	return c.movieResource(ctx, "tmdb.Videos", "videos", id, "/videos", nil)
}

// Recommendations возвращает первую страницу рекомендаций к фильму как есть.
func (c *Client) Recommendations(ctx context.Context, id string) (json.RawMessage, error) {
	return c.movieResource(ctx, "tmdb.Recommendations", "recommendations", id, "/recommendations", url.Values{"page": {"1"}})
}

func (c *Client) movieResource(ctx context.Context, op, endpoint, id, suffix string, params url.Values) (json.RawMessage, error) {
	if err := validateID(id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("language", "en-US")

	body, err := c.get(ctx, endpoint, "/movie/"+id+suffix, params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%s: %w: response is not valid json", op, ErrUnavailable)
	}
	return json.RawMessage(body), nil
}

// Category возвращает страницу выдачи категории.
func (c *Client) Category(ctx context.Context, category Category, page int) (*models.Listing, error) {
	const op = "tmdb.Category"
	path, params, err := category.query(page)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if page < 1 || page > MaxPage {
		return nil, fmt.Errorf("%s: %w: %d", op, ErrInvalidPage, page)
	}

	var resp listingResponse
	if err := c.getJSON(ctx, "category", path, params, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return resp.normalize(), nil
}

func validateID(id string) error {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil || n == 0 {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, path string, params url.Values, dest any) error {
	body, err := c.get(ctx, endpoint, path, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrUnavailable, path, err)
	}
	return nil
}

// get выполняет GET с повторами. Весь вызов, включая паузы между попытками,
// укладывается в c.timeout.
func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values) ([]byte, error) {
	if c.token == "" {
		return nil, ErrMissingCredential
	}
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	body, err := c.retry(ctx, endpoint, reqURL)
	c.metrics.ObserveUpstream(provider, endpoint, outcome(err), time.Since(start))
	return body, err
}

func (c *Client) retry(ctx context.Context, endpoint, reqURL string) ([]byte, error) {
	log := c.log.With(sl.Op("tmdb.get"), slog.String("endpoint", endpoint))

	var (
		body     []byte
		attempts int
	)
	operation := func() error {
		attempts++
		if err := c.limiter.Wait(ctx); err != nil {
			if ctx.Err() == nil {
				// Ожидание лимитера не укладывается в дедлайн вызова.
				return backoff.Permanent(fmt.Errorf("%w: %v", ErrTimeout, err))
			}
			return backoff.Permanent(contextError(ctx, err))
		}

		var err error
		body, err = c.do(ctx, reqURL)
		var statusErr *StatusError
		switch {
		case err == nil:
			return nil
		case errors.As(err, &statusErr):
			return backoff.Permanent(err)
		case ctx.Err() != nil:
			return backoff.Permanent(contextError(ctx, err))
		}
		return err
	}
	notify := func(err error, delay time.Duration) {
		log.Warn("tmdb request failed, retrying",
			slog.Int("attempt", attempts),
			slog.Duration("delay", delay),
			sl.Err(err),
		)
		c.metrics.IncUpstreamRetry(provider, endpoint)
	}

	var timer backoff.Timer
	if c.newTimer != nil {
		timer = c.newTimer()
	}
	err := backoff.RetryNotifyWithTimer(operation, c.newBackOff(ctx), notify, timer)

	var statusErr *StatusError
	switch {
	case err == nil:
		return body, nil
	case errors.As(err, &statusErr), errors.Is(err, ErrTimeout), errors.Is(err, context.Canceled):
		return nil, err
	case ctx.Err() != nil:
		return nil, contextError(ctx, err)
	}
	log.Error("tmdb request failed after retries", slog.Int("attempts", attempts), sl.Err(err))
	return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// newBackOff даёт не больше maxAttempts попыток с паузой от baseBackoff,
// удваиваемой до maxBackoff. Общий срок задаёт дедлайн ctx.
func (c *Client) newBackOff(ctx context.Context) backoff.BackOffContext {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.baseBackoff
	b.MaxInterval = maxBackoff
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.maxAttempts-1)), ctx)
}

func (c *Client) do(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: body}
	}
	return body, nil
}

func contextError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func outcome(err error) string {
	var statusErr *StatusError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.As(err, &statusErr):
		return "status_" + strconv.Itoa(statusErr.StatusCode)
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "error"
	}
}
