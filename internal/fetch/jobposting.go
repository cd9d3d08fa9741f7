// Package fetch - jobposting.go ties fetching, platform detection and
// text extraction into a single job-description retrieval call.
package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// JobDescriptionOptions configures job posting retrieval.
type JobDescriptionOptions struct {
	// AllowBrowser enables the headless-browser fallback for pages that
	// render their content with JavaScript. Requires Chrome/Chromium.
	AllowBrowser bool
	Timeout      time.Duration
	Verbose      bool
}

// DefaultJobDescriptionOptions returns defaults with the browser fallback off.
func DefaultJobDescriptionOptions() *JobDescriptionOptions {
	return &JobDescriptionOptions{
		AllowBrowser: false,
		Timeout:      DefaultTimeout,
	}
}

// JobDescription retrieves and extracts the job description text from a
// posting URL. Platform-specific selectors strip application forms and
// legal boilerplate; if the extracted text looks like an unrendered SPA
// shell and the browser fallback is enabled, the page is re-fetched
// through a headless browser.
func JobDescription(ctx context.Context, urlStr string, opts *JobDescriptionOptions) (string, error) {
	if opts == nil {
		opts = DefaultJobDescriptionOptions()
	}

	platform := DetectPlatform(urlStr)

	result, err := URL(ctx, urlStr, &Options{
		Timeout:   opts.Timeout,
		UserAgent: DefaultUserAgent,
	})
	if err != nil {
		return "", err
	}

	text, err := extractPosting(result.HTML, platform)
	if err != nil {
		return "", err
	}

	if ShouldUseBrowser(text) && opts.AllowBrowser {
		html, berr := WithBrowser(ctx, urlStr, opts.Timeout, opts.Verbose)
		if berr != nil {
			// Keep whatever the plain fetch produced rather than failing
			// outright when only the fallback broke.
			if strings.TrimSpace(text) != "" {
				return text, nil
			}
			return "", berr
		}
		text, err = extractPosting(html, platform)
		if err != nil {
			return "", err
		}
	}

	if strings.TrimSpace(text) == "" {
		return "", &Error{
			URL:     urlStr,
			Message: "no job description text found",
		}
	}

	return text, nil
}

func extractPosting(html string, platform Platform) (string, error) {
	text, err := ExtractMainText(html, PlatformContentSelectors(platform), PlatformNoiseSelectors(platform)...)
	if err != nil {
		return "", fmt.Errorf("failed to extract posting text: %w", err)
	}
	return text, nil
}
