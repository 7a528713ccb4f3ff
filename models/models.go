package models

import "time"

// Entry is a feed item after normalization and rewriting, ready to be
// rendered into a post.
type Entry struct {
	URL       string    `json:"url"`
	Link      string    `json:"link"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Content   string    `json:"content"`
	Hashtags  string    `json:"hashtags"`
	Published time.Time `json:"published"`
	Updated   time.Time `json:"updated"`
	Language  string    `json:"language,omitempty"`
}

// Time returns the entry instant selected by field.
// Callers validate the field beforehand, anything but published yields updated.
func (e Entry) Time(field TimeField) time.Time {
	if field == TimePublished {
		return e.Published
	}
	return e.Updated
}

// TimeField selects which entry timestamp is compared against the watermark
type TimeField string

const (
	TimeUpdated   TimeField = "updated"
	TimePublished TimeField = "published"
)

// Valid reports whether the field is one of the recognized selectors
func (f TimeField) Valid() bool {
	return f == TimeUpdated || f == TimePublished
}

// Visibility of a post on the remote network
type Visibility string

const (
	VisibilityDirect   Visibility = "direct"
	VisibilityPrivate  Visibility = "private"
	VisibilityUnlisted Visibility = "unlisted"
	VisibilityPublic   Visibility = "public"
)

// Valid reports whether the visibility is one the networks understand.
// The empty value leaves the choice to the server.
func (v Visibility) Valid() bool {
	switch v {
	case "", VisibilityDirect, VisibilityPrivate, VisibilityUnlisted, VisibilityPublic:
		return true
	}
	return false
}

// Status is a rendered post waiting to be submitted
type Status struct {
	Text       string
	Visibility Visibility
	Language   string
}

// PostRef identifies a post after it has been accepted by the network
type PostRef struct {
	ID  string `json:"id"`
	URI string `json:"uri"`
}

// HistoryRecord is one row of the post ledger
type HistoryRecord struct {
	Id        int64     `json:"id"`
	FeedURL   string    `json:"feedUrl"`
	EntryURL  string    `json:"entryUrl"`
	Title     string    `json:"title"`
	EntryTime time.Time `json:"entryTime"`
	PostID    string    `json:"postId"`
	PostURI   string    `json:"postUri,omitempty"`
	PostedAt  time.Time `json:"postedAt"`
}
