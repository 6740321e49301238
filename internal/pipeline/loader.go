package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/ppiankov/anchora/internal/model"
	"github.com/ppiankov/anchora/internal/util"
)

const loadMaxRetries = 3

// loadSleepFunc is the sleep function used between retries (injectable for tests)
var loadSleepFunc = time.Sleep

// ErrTooLarge is returned when a document exceeds the configured byte cap.
// Documents are never truncated: offsets must refer to the full text.
var ErrTooLarge = errors.New("document too large")

// ErrDisallowed is returned when robots.txt forbids fetching a URL
var ErrDisallowed = errors.New("disallowed by robots.txt")

// StatusError is returned for non-2xx responses
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %s", e.Status)
}

// Document is a loaded text and where it came from
type Document struct {
	Text    string
	Subject string
	Source  string
}

// Loader reads documents from files, stdin or http(s) URLs
type Loader struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *util.RobotsChecker
	stdin      io.Reader
}

// NewLoader creates a loader from the http section of the configuration
func NewLoader(cfg model.HTTPConfig) *Loader {
	l := &Loader{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
		stdin:     os.Stdin,
	}
	if cfg.RespectRobots {
		l.robots = util.NewRobotsChecker(cfg.UserAgent, l.httpClient)
	}
	return l
}

// Load reads source: "-" for stdin, an http(s) URL, or a file path
func (l *Loader) Load(ctx context.Context, source string) (*Document, error) {
	switch {
	case source == "-":
		text, err := l.readCapped(l.stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return &Document{Text: text, Subject: "stdin", Source: "-"}, nil

	case util.IsRemote(source):
		if err := l.checkRobots(ctx, source); err != nil {
			return nil, err
		}
		return l.fetchWithRetry(ctx, source)

	default:
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("open document: %w", err)
		}
		defer func() { _ = f.Close() }()

		text, err := l.readCapped(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", source, err)
		}
		return &Document{Text: text, Subject: subjectFromPath(source), Source: source}, nil
	}
}

// checkRobots enforces robots.txt and its crawl delay when enabled
func (l *Loader) checkRobots(ctx context.Context, rawURL string) error {
	if l.robots == nil {
		return nil
	}

	allowed, delay, err := l.robots.CanFetch(ctx, rawURL)
	if err != nil {
		return fmt.Errorf("check robots.txt: %w", err)
	}
	if !allowed {
		return fmt.Errorf("%w: %s", ErrDisallowed, rawURL)
	}
	if delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil
}

// fetchWithRetry retries transient failures with exponential backoff
func (l *Loader) fetchWithRetry(ctx context.Context, rawURL string) (*Document, error) {
	var lastErr error
	for attempt := 0; attempt < loadMaxRetries; attempt++ {
		doc, err := l.fetch(ctx, rawURL)
		if err == nil {
			return doc, nil
		}
		lastErr = err
		if !isRetryableLoadError(err) || ctx.Err() != nil {
			return nil, err
		}
		if attempt < loadMaxRetries-1 {
			loadSleepFunc(time.Duration(1<<uint(attempt)) * time.Second)
		}
	}
	return nil, lastErr
}

func (l *Loader) fetch(ctx context.Context, rawURL string) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if l.userAgent != "" {
		req.Header.Set("User-Agent", l.userAgent)
	}
	req.Header.Set("Accept", "text/plain,text/markdown,text/html;q=0.9,*/*;q=0.8")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	text, err := l.readCapped(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	finalURL := resp.Request.URL.String()
	return &Document{Text: text, Subject: subjectFromURL(finalURL), Source: finalURL}, nil
}

// readCapped reads r fully, failing once more than maxBytes arrive
func (l *Loader) readCapped(r io.Reader) (string, error) {
	if l.maxBytes <= 0 {
		b, err := io.ReadAll(r)
		return string(b), err
	}

	b, err := io.ReadAll(io.LimitReader(r, l.maxBytes+1))
	if err != nil {
		return "", err
	}
	if int64(len(b)) > l.maxBytes {
		return "", fmt.Errorf("%w: more than %d bytes", ErrTooLarge, l.maxBytes)
	}
	return string(b), nil
}

// isRetryableLoadError reports 5xx, 429 and transient network failures
func isRetryableLoadError(err error) bool {
	if err == nil {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= 500 || statusErr.Code == http.StatusTooManyRequests
	}

	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func subjectFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// subjectFromURL extracts a human-readable subject from the URL
func subjectFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	path := strings.Trim(parsed.Path, "/")
	if path == "" {
		return parsed.Host
	}

	segments := strings.Split(path, "/")
	last := segments[len(segments)-1]

	last = strings.ReplaceAll(last, "_", " ")
	last = strings.ReplaceAll(last, "-", " ")

	if idx := strings.LastIndex(last, "."); idx > 0 {
		last = last[:idx]
	}

	return last
}
