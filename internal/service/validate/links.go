package validate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"coursecraft/internal/config"
	"coursecraft/internal/domain/models/course"
	"coursecraft/internal/domain/models/validation"
)

// urlPattern extracts http(s) URLs from lesson content. Trailing punctuation
// that commonly ends a markdown sentence is excluded.
var urlPattern = regexp.MustCompile(`https?://[^\s<>"'` + "`" + `)\]]+`)

// linkOutcome classifies a checked URL.
type linkOutcome int

const (
	linkOK linkOutcome = iota
	linkBroken
	linkTimeout
)

// LinkValidator checks that every URL referenced by lesson content answers a
// HEAD request. The HTTP client is injected so tests and callers control
// transport behavior; the validator holds no module-level state.
type LinkValidator struct {
	client      *http.Client
	timeout     time.Duration
	concurrency int
	logger      *slog.Logger
}

// NewLinkValidator creates a link-reachability validator
func NewLinkValidator(client *http.Client, logger *slog.Logger) *LinkValidator {
	if client == nil {
		client = &http.Client{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LinkValidator{
		client:      client,
		timeout:     config.LinkCheckTimeout,
		concurrency: config.LinkCheckConcurrency,
		logger:      logger,
	}
}

// Name returns the validator identifier
func (v *LinkValidator) Name() string { return ValidatorLinks }

// Validate extracts, deduplicates, and checks all URLs in lesson content.
func (v *LinkValidator) Validate(ctx context.Context, c *course.Course) *validation.Report {
	return guard(v.Name(), func() []validation.Result {
		refs := extractURLs(c)
		if len(refs) == 0 {
			return []validation.Result{pass("no links found")}
		}

		// Deterministic order for reports regardless of map iteration.
		urls := make([]string, 0, len(refs))
		for u := range refs {
			urls = append(urls, u)
		}
		sort.Strings(urls)

		outcomes := make(map[string]linkOutcome, len(urls))
		details := make(map[string]string, len(urls))
		var mu sync.Mutex

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(v.concurrency)
		for _, u := range urls {
			g.Go(func() error {
				outcome, detail := v.check(gctx, u)
				mu.Lock()
				outcomes[u] = outcome
				details[u] = detail
				mu.Unlock()
				return nil
			})
		}
		// Checkers never return errors; failures are outcomes.
		_ = g.Wait()

		var results []validation.Result
		ok := 0
		for _, u := range urls {
			switch outcomes[u] {
			case linkBroken:
				results = append(results, validation.Result{
					Passed:            false,
					Severity:          validation.SeverityError,
					Message:           fmt.Sprintf("broken link: %s", u),
					AffectedLessonIDs: refs[u],
					Details:           details[u],
				})
			case linkTimeout:
				results = append(results, validation.Result{
					Passed:            false,
					Severity:          validation.SeverityWarning,
					Message:           fmt.Sprintf("link timed out: %s", u),
					AffectedLessonIDs: refs[u],
					Details:           details[u],
				})
			default:
				ok++
			}
		}

		results = append(results, pass(fmt.Sprintf(
			"%d of %d links reachable", ok, len(urls))))
		return results
	})
}

// check issues one HEAD request with a per-request timeout. A fired deadline
// is the timeout outcome; any other failure or a non-2xx status is broken.
func (v *LinkValidator) check(ctx context.Context, url string) (linkOutcome, string) {
	reqCtx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodHead, url, nil)
	if err != nil {
		return linkBroken, err.Error()
	}

	resp, err := v.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || reqCtx.Err() == context.DeadlineExceeded {
			return linkTimeout, fmt.Sprintf("no response within %s", v.timeout)
		}
		return linkBroken, err.Error()
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		v.logger.Debug("link check failed", "url", url, "status", resp.StatusCode)
		return linkBroken, fmt.Sprintf("HTTP %d", resp.StatusCode)
	}
	return linkOK, ""
}

// extractURLs returns unique URLs mapped to every lesson ID referencing them.
// Trailing sentence punctuation is trimmed so "see https://x.com/a." does not
// produce a URL ending in a dot.
func extractURLs(c *course.Course) map[string][]string {
	refs := make(map[string][]string)
	for _, l := range c.Lessons {
		seen := make(map[string]bool)
		for _, u := range urlPattern.FindAllString(l.Content, -1) {
			u = strings.TrimRight(u, ".,;:!?")
			if seen[u] {
				continue
			}
			seen[u] = true
			refs[u] = append(refs[u], l.ID)
		}
	}
	return refs
}
