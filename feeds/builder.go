package feeds

import (
	"strings"
	"time"

	"feedtoot/models"

	"github.com/mmcdole/gofeed"
	"github.com/samber/lo"
)

// Layouts tried when the parser could not make sense of a date itself
var entryTimeLayouts = []string{
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

var hashtagReplacer = strings.NewReplacer(" ", "_", ".", "", "-", "")

// EntryBuilder converts parsed feed items into entries
type EntryBuilder struct {
	rewriter *Rewriter
	detector LanguageDetector
}

func NewEntryBuilder(rewriter *Rewriter, detector LanguageDetector) *EntryBuilder {
	return &EntryBuilder{rewriter: rewriter, detector: detector}
}

// Build normalizes and rewrites the item fields and resolves its timestamps.
// A missing published time falls back to updated and vice versa.
func (b *EntryBuilder) Build(item *gofeed.Item) (models.Entry, error) {
	id := item.GUID
	if id == "" {
		id = item.Link
	}

	published, updated, err := entryTimes(id, item)
	if err != nil {
		return models.Entry{}, err
	}

	entry := models.Entry{
		URL:       b.rewriter.Rewrite(id),
		Link:      b.rewriter.Rewrite(item.Link),
		Title:     b.rewriter.Rewrite(Cleanup(item.Title)),
		Summary:   b.rewriter.Rewrite(Cleanup(item.Description)),
		Content:   b.rewriter.Rewrite(Cleanup(item.Content)),
		Hashtags:  FormatHashtags(item.Categories),
		Published: published,
		Updated:   updated,
	}

	if b.detector != nil {
		text := entry.Title + "\n" + lo.Ternary(entry.Content != "", entry.Content, entry.Summary)
		if lang, ok := b.detector.Detect(text); ok {
			entry.Language = lang
		}
	}

	return entry, nil
}

// BuildAll builds every item, stopping at the first failure
func (b *EntryBuilder) BuildAll(items []*gofeed.Item) ([]models.Entry, error) {
	entries := make([]models.Entry, 0, len(items))
	for _, item := range items {
		entry, err := b.Build(item)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// FormatHashtags turns tag terms into space separated hashtags. Spaces
// become underscores, periods and hyphens are dropped.
func FormatHashtags(terms []string) string {
	tags := lo.Map(terms, func(term string, _ int) string {
		return "#" + hashtagReplacer.Replace(term)
	})
	return strings.Join(tags, " ")
}

func entryTimes(id string, item *gofeed.Item) (time.Time, time.Time, error) {
	published, hasPublished, err := resolveTime(id, "published", item.Published, item.PublishedParsed)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	updated, hasUpdated, err := resolveTime(id, "updated", item.Updated, item.UpdatedParsed)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	switch {
	case hasPublished && hasUpdated:
	case hasUpdated:
		published = updated
	case hasPublished:
		updated = published
	default:
		return time.Time{}, time.Time{}, &ParseError{EntryURL: id, Field: "updated"}
	}
	return published, updated, nil
}

// resolveTime prefers the value parsed by gofeed and falls back to the raw
// string. The bool is false when the field is absent.
func resolveTime(id, field, raw string, parsed *time.Time) (time.Time, bool, error) {
	if parsed != nil {
		return parsed.UTC(), true, nil
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false, nil
	}
	t, err := parseEntryTime(raw)
	if err != nil {
		return time.Time{}, false, &ParseError{EntryURL: id, Field: field, Value: raw, Err: err}
	}
	return t, true, nil
}

func parseEntryTime(raw string) (time.Time, error) {
	var lastErr error
	for _, layout := range entryTimeLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
