package feeds

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/mmcdole/gofeed"
	log "github.com/sirupsen/logrus"
)

const (
	defaultUserAgent    = "feedtoot/1.0 (+https://github.com/feedtoot/feedtoot)"
	defaultFetchTimeout = 30 * time.Second
)

// FetcherOption configures an HTTPFetcher
type FetcherOption func(*HTTPFetcher)

// WithHTTPClient sets the client used for remote feeds
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *HTTPFetcher) {
		f.parser.Client = client
	}
}

// WithUserAgent overrides the User-Agent header sent with feed requests
func WithUserAgent(userAgent string) FetcherOption {
	return func(f *HTTPFetcher) {
		f.parser.UserAgent = userAgent
	}
}

// HTTPFetcher fetches feeds over HTTP(S). Plain paths and file:// URLs are
// read from disk.
type HTTPFetcher struct {
	parser *gofeed.Parser
}

func NewFetcher(opts ...FetcherOption) *HTTPFetcher {
	parser := gofeed.NewParser()
	parser.UserAgent = defaultUserAgent
	parser.Client = &http.Client{Timeout: defaultFetchTimeout}

	f := &HTTPFetcher{parser: parser}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns the items of the feed in document order
func (f *HTTPFetcher) Fetch(ctx context.Context, feedURL string) ([]*gofeed.Item, error) {
	var (
		feed *gofeed.Feed
		err  error
	)

	if path, ok := localPath(feedURL); ok {
		log.WithFields(log.Fields{"path": path}).Debug("Reading feed from disk")
		feed, err = f.parseFile(path)
	} else {
		log.WithFields(log.Fields{"url": feedURL}).Debug("Fetching feed")
		feed, err = f.parser.ParseURLWithContext(feedURL, ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("fetching feed %s: %w", feedURL, err)
	}

	return feed.Items, nil
}

func (f *HTTPFetcher) parseFile(path string) (*gofeed.Feed, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return f.parser.Parse(file)
}

// localPath reports whether feedURL points at the local filesystem
func localPath(feedURL string) (string, bool) {
	u, err := url.Parse(feedURL)
	if err != nil {
		return "", false
	}
	switch u.Scheme {
	case "file":
		return u.Path, true
	case "":
		if _, err := os.Stat(feedURL); err == nil {
			return feedURL, true
		}
	}
	return "", false
}
