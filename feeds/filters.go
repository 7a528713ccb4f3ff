package feeds

import (
	"fmt"
	"sort"
	"time"

	"feedtoot/config"
	"feedtoot/models"

	"github.com/samber/lo"
)

// FilterEntries drops entries dated after now and, when the watermark is
// set, entries at or before it. The result is sorted ascending by the
// selected time field; equal times keep their feed order.
func FilterEntries(entries []models.Entry, field models.TimeField, watermark time.Time, now time.Time) ([]models.Entry, error) {
	if !field.Valid() {
		return nil, &config.Error{Field: "time", Msg: fmt.Sprintf(`unknown time field %q, must be "updated" or "published"`, field)}
	}

	// Feeds can carry entries scheduled for the future, those wait for a later run
	eligible := lo.Filter(entries, func(e models.Entry, _ int) bool {
		t := e.Time(field)
		if t.After(now) {
			return false
		}
		return watermark.IsZero() || t.After(watermark)
	})

	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Time(field).Before(eligible[j].Time(field))
	})
	return eligible, nil
}

// Newest returns the latest selected time among entries, or the zero time
func Newest(entries []models.Entry, field models.TimeField) time.Time {
	if len(entries) == 0 {
		return time.Time{}
	}
	newest := lo.MaxBy(entries, func(a, b models.Entry) bool {
		return a.Time(field).After(b.Time(field))
	})
	return newest.Time(field)
}
