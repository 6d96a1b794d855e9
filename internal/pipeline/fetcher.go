package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ppiankov/relcorpus/internal/cache"
	"github.com/ppiankov/relcorpus/internal/extract"
	"github.com/ppiankov/relcorpus/internal/model"
	"github.com/ppiankov/relcorpus/internal/util"
	"github.com/ppiankov/relcorpus/internal/worker"
)

// ErrDisallowed is returned when robots.txt forbids fetching a page
var ErrDisallowed = errors.New("fetch disallowed by robots.txt")

// Fetcher retrieves web page sources and reduces them to visible text
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *util.RobotsChecker
	limiter    *worker.Limiter
	cache      cache.Cache
	cacheTTL   time.Duration
	extractor  *extract.Extractor
	logger     *logrus.Logger
}

// FetcherOption customizes a Fetcher
type FetcherOption func(*Fetcher)

// WithPageCache stores fetched page text so repeated runs skip the network
func WithPageCache(c cache.Cache, ttl time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.cache = c
		f.cacheTTL = ttl
	}
}

// WithHTTPClient replaces the default client, mainly for tests
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.httpClient = client
	}
}

// NewFetcher creates a new Fetcher from the generation settings
func NewFetcher(cfg model.GenerationConfig, limiter *worker.Limiter, logger *logrus.Logger, opts ...FetcherOption) *Fetcher {
	timeout := cfg.FetchTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	maxBytes := cfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 2_000_000
	}

	f := &Fetcher{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, ""),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  maxBytes,
		limiter:   limiter,
		extractor: extract.NewExtractor(),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	if cfg.RespectRobots {
		f.robots = util.NewRobotsChecker(cfg.UserAgent, timeout, f.httpClient)
	}
	return f
}

// FetchResult contains the fetched page text and metadata
type FetchResult struct {
	Text        string
	ContentType string
	StatusCode  int
	FinalURL    string
}

// Fetch retrieves rawURL and returns its visible text. robots.txt and the
// per-host limiter are consulted once; transient failures are retried.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	key := cache.Key("page", rawURL)
	if f.cache != nil {
		if data, ok := f.cache.Get(key); ok {
			f.logger.WithField("url", rawURL).Debug("page served from cache")
			return &FetchResult{Text: string(data), FinalURL: rawURL, StatusCode: http.StatusOK}, nil
		}
	}

	if f.robots != nil {
		allowed, delay, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			f.logger.WithError(err).WithField("url", rawURL).Warn("robots.txt unavailable, fetching anyway")
		}
		if !allowed {
			return nil, fmt.Errorf("%w: %s", ErrDisallowed, rawURL)
		}
		if delay > 0 && f.limiter != nil {
			if host, err := hostOf(rawURL); err == nil {
				f.limiter.SetDelay(host, delay)
			}
		}
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, rawURL); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	res, err := f.fetchWithRetry(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if f.cache != nil {
		if err := f.cache.Set(key, []byte(res.Text), f.cacheTTL); err != nil {
			f.logger.WithError(err).Debug("page cache write failed")
		}
	}

	return res, nil
}

const maxFetchAttempts = 3

// fetchSleepFunc is replaced in tests
var fetchSleepFunc = time.Sleep

// StatusError reports a non-2xx response
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %s", e.Status)
}

// fetchError marks transport failures as opposed to local ones
type fetchError struct{ err error }

func (e *fetchError) Error() string { return "fetch: " + e.err.Error() }
func (e *fetchError) Unwrap() error { return e.err }

// fetchWithRetry retries transient failures (5xx, 429, network errors)
// with exponential backoff
func (f *Fetcher) fetchWithRetry(ctx context.Context, rawURL string) (*FetchResult, error) {
	var lastErr error
	backoff := time.Second

	for attempt := 1; attempt <= maxFetchAttempts; attempt++ {
		res, err := f.fetchOnce(ctx, rawURL)
		if err == nil {
			return res, nil
		}
		lastErr = err

		if attempt == maxFetchAttempts || !isRetryableFetchError(err) || ctx.Err() != nil {
			break
		}

		f.logger.WithError(err).WithFields(logrus.Fields{
			"url":     rawURL,
			"attempt": attempt,
		}).Debug("retrying fetch")
		fetchSleepFunc(backoff)
		backoff *= 2
	}

	return nil, lastErr
}

func (f *Fetcher) fetchOnce(ctx context.Context, rawURL string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &fetchError{err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	finalURL := resp.Request.URL.String()
	text := string(body)
	if isHTML(contentType, body) {
		var adapter string
		text, adapter, err = f.extractor.Extract(text, finalURL, contentType)
		if err != nil {
			return nil, fmt.Errorf("extract text: %w", err)
		}
		f.logger.WithFields(logrus.Fields{"url": finalURL, "adapter": adapter}).Debug("extracted page text")
	}

	return &FetchResult{
		Text:        text,
		ContentType: contentType,
		StatusCode:  resp.StatusCode,
		FinalURL:    finalURL,
	}, nil
}

func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code == http.StatusTooManyRequests || statusErr.Code >= 500
	}
	var fe *fetchError
	if errors.As(err, &fe) {
		return !errors.Is(fe.err, context.Canceled) && !errors.Is(fe.err, context.DeadlineExceeded)
	}
	return false
}

func isHTML(contentType string, body []byte) bool {
	if contentType == "" {
		contentType = http.DetectContentType(body)
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(contentType, "html")
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

func hostOf(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	return u.Host, nil
}
