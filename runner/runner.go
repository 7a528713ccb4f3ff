// Package runner drives one pass over all configured feeds and advances
// the watermark
package runner

import (
	"context"
	"errors"
	"time"

	"feedtoot/config"
	"feedtoot/feeds"
	"feedtoot/metrics"
	"feedtoot/publisher"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type Options struct {
	// ConfigPath is where the updated config is written back
	ConfigPath string
	DryRun     bool

	Fetcher  feeds.Fetcher
	Poster   publisher.Poster
	Recorder publisher.Recorder
	Detector feeds.LanguageDetector
	Metrics  *metrics.Metrics
	Chooser  feeds.Chooser
	Now      func() time.Time
}

type feedJob struct {
	feed     config.Feed
	template *publisher.Template
}

type Runner struct {
	cfg       *config.Config
	opts      Options
	jobs      []feedJob
	builder   *feeds.EntryBuilder
	source    *feeds.Rewriter
	publisher *publisher.Publisher
}

// New validates the config and compiles every feed template, so a broken
// template fails the run before anything is posted.
func New(cfg *config.Config, opts Options) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Fetcher == nil {
		opts.Fetcher = feeds.NewFetcher()
	}
	if opts.Poster == nil && !opts.DryRun {
		return nil, errors.New("no poster configured")
	}

	jobs := make([]feedJob, 0, len(cfg.Feeds))
	for _, feed := range cfg.Feeds {
		tmpl, err := publisher.CompileTemplate(feed.Template)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, feedJob{feed: feed, template: tmpl})
	}

	return &Runner{
		cfg:     cfg,
		opts:    opts,
		jobs:    jobs,
		builder: feeds.NewEntryBuilder(feeds.NewRewriter(cfg.RewriteTarget, opts.Chooser), opts.Detector),
		source:  feeds.NewRewriter(cfg.RewriteSource, opts.Chooser),
		publisher: publisher.New(opts.Poster, publisher.Options{
			Visibility: cfg.Visibility,
			TimeField:  cfg.TimeField(),
			DryRun:     opts.DryRun,
			Recorder:   opts.Recorder,
			Metrics:    opts.Metrics,
		}),
	}, nil
}

// Result summarizes a run
type Result struct {
	Posted    int
	Eligible  int
	Watermark time.Time
}

// Run processes the feeds in configured order. Any error aborts the run
// and leaves the persisted watermark untouched.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	started := time.Now()
	logger := log.WithFields(log.Fields{"run": uuid.NewString()})

	field := r.cfg.TimeField()
	watermark := r.cfg.Updated.Time
	newest := watermark
	result := Result{}

	finish := func(err error) (Result, error) {
		result.Watermark = newest
		r.opts.Metrics.Finish(started, newest, err)
		return result, err
	}

	for _, job := range r.jobs {
		feedURL := r.source.Rewrite(job.feed.URL)
		logger.WithFields(log.Fields{
			"feed":  feedURL,
			"since": r.cfg.Updated.String(),
		}).Info("Fetching entries")

		items, err := r.opts.Fetcher.Fetch(ctx, feedURL)
		if err != nil {
			return finish(err)
		}
		r.opts.Metrics.Fetched(feedURL, len(items))

		entries, err := r.builder.BuildAll(items)
		if err != nil {
			return finish(err)
		}

		eligible, err := feeds.FilterEntries(entries, field, watermark, r.opts.Now())
		if err != nil {
			return finish(err)
		}
		r.opts.Metrics.Eligible(feedURL, len(eligible))
		result.Eligible += len(eligible)

		logger.WithFields(log.Fields{
			"feed":     feedURL,
			"entries":  len(entries),
			"eligible": len(eligible),
		}).Debug("Filtered entries")

		posted, err := r.publisher.PublishFeed(ctx, feedURL, job.template, eligible)
		result.Posted += posted
		if err != nil {
			return finish(err)
		}

		if t := feeds.Newest(eligible, field); t.After(newest) {
			newest = t
		}
	}

	if r.opts.DryRun {
		logger.Info("Trial run, not saving config")
		return finish(nil)
	}

	r.cfg.Updated = config.NewTimestamp(newest)
	if r.opts.ConfigPath != "" {
		if err := config.SaveConfig(r.cfg, r.opts.ConfigPath); err != nil {
			return finish(err)
		}
		logger.WithFields(log.Fields{
			"watermark": r.cfg.Updated.String(),
			"path":      r.opts.ConfigPath,
		}).Info("Saved config")
	}
	return finish(nil)
}
