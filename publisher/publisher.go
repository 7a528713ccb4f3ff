// Package publisher renders entries into posts and submits them
package publisher

import (
	"context"
	"fmt"
	"time"

	"feedtoot/metrics"
	"feedtoot/models"

	log "github.com/sirupsen/logrus"
)

// Poster submits a single post to a network
type Poster interface {
	Post(ctx context.Context, status models.Status) (models.PostRef, error)
	MaxLength() int
}

// Recorder keeps a history of submitted posts
type Recorder interface {
	RecordPost(ctx context.Context, record models.HistoryRecord) error
}

type Options struct {
	Visibility models.Visibility
	TimeField  models.TimeField
	DryRun     bool
	Recorder   Recorder
	Metrics    *metrics.Metrics
}

// Publisher posts entries one at a time, in the order given. It never
// retries: the first failure is returned and the remaining entries are left
// for the next run.
type Publisher struct {
	poster Poster
	opts   Options
}

func New(poster Poster, opts Options) *Publisher {
	if opts.TimeField == "" {
		opts.TimeField = models.TimeUpdated
	}
	return &Publisher{poster: poster, opts: opts}
}

// maxLength is the smaller of our own cap and the network limit
func (p *Publisher) maxLength() int {
	if p.poster == nil {
		return MaxPostLength
	}
	if limit := p.poster.MaxLength(); limit > 0 && limit < MaxPostLength {
		return limit
	}
	return MaxPostLength
}

// Status renders the post for entry without submitting it
func (p *Publisher) Status(tmpl *Template, entry models.Entry) models.Status {
	return models.Status{
		Text:       Truncate(tmpl.Render(entry), p.maxLength()),
		Visibility: p.opts.Visibility,
		Language:   entry.Language,
	}
}

// PublishFeed posts every entry of a feed and returns how many were
// submitted. In trial mode nothing is submitted and zero is returned.
func (p *Publisher) PublishFeed(ctx context.Context, feedURL string, tmpl *Template, entries []models.Entry) (int, error) {
	posted := 0
	for _, entry := range entries {
		status := p.Status(tmpl, entry)

		log.WithFields(log.Fields{
			"feed":  feedURL,
			"url":   entry.URL,
			"title": entry.Title,
			"time":  entry.Time(p.opts.TimeField),
		}).Debug("Entry")

		if p.opts.DryRun {
			log.WithFields(log.Fields{
				"feed": feedURL,
			}).Infof("trial run, not posting %s", Truncate(entry.Title, 50))
			p.opts.Metrics.Skipped(feedURL)
			continue
		}

		ref, err := p.poster.Post(ctx, status)
		if err != nil {
			return posted, fmt.Errorf("posting entry %s: %w", entry.URL, err)
		}
		posted++
		p.opts.Metrics.Published(feedURL)

		log.WithFields(log.Fields{
			"feed": feedURL,
			"url":  entry.URL,
			"post": ref.URI,
		}).Info("Posted entry")

		if p.opts.Recorder != nil {
			err := p.opts.Recorder.RecordPost(ctx, models.HistoryRecord{
				FeedURL:   feedURL,
				EntryURL:  entry.URL,
				Title:     entry.Title,
				EntryTime: entry.Time(p.opts.TimeField),
				PostID:    ref.ID,
				PostURI:   ref.URI,
				PostedAt:  time.Now().UTC(),
			})
			// History is best effort once the post is out
			if err != nil {
				log.WithFields(log.Fields{"url": entry.URL}).Errorf("Failed to record post: %v", err)
			}
		}
	}
	return posted, nil
}
