package bluesky

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"feedtoot/models"

	"github.com/bluesky-social/indigo/api/atproto"
	"github.com/bluesky-social/indigo/api/bsky"
	lexutil "github.com/bluesky-social/indigo/lex/util"
	"github.com/bluesky-social/indigo/xrpc"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultPDSHost = "https://bsky.social"

	// MaxPostLength is the grapheme limit of a Bluesky post
	MaxPostLength = 300

	postCollection = "app.bsky.feed.post"
)

var (
	reLink    = regexp.MustCompile(`https?://[^\s<>"]+[^\s<>".,;:!?)\]]`)
	reHashtag = regexp.MustCompile(`(^|\s)#([^\s#.,;:!?]+)`)
)

type Credentials struct {
	Identifier string
	Password   string
}

type Client struct {
	xrpc *xrpc.Client
}

func ClientFromCredentials(ctx context.Context, host string, creds *Credentials) (*Client, error) {
	if host == "" {
		host = DefaultPDSHost
	}

	auth, err := atproto.ServerCreateSession(ctx, &xrpc.Client{Host: host}, &atproto.ServerCreateSession_Input{
		Identifier: creds.Identifier,
		Password:   creds.Password,
	})

	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	xrpcClient := &xrpc.Client{
		Host: host,
		Auth: &xrpc.AuthInfo{
			AccessJwt:  auth.AccessJwt,
			RefreshJwt: auth.RefreshJwt,
			Handle:     auth.Handle,
			Did:        auth.Did,
		},
		Client: &http.Client{Timeout: 30 * time.Second},
	}

	return &Client{xrpc: xrpcClient}, nil
}

// Post creates a feed post record in the user's repository. Bluesky has no
// post visibility, so it is ignored.
func (c *Client) Post(ctx context.Context, status models.Status) (models.PostRef, error) {
	if status.Visibility != "" && status.Visibility != models.VisibilityPublic {
		log.WithFields(log.Fields{"visibility": status.Visibility}).Debug("Bluesky posts are always public")
	}

	post := &bsky.FeedPost{
		Text:      status.Text,
		CreatedAt: FormatTime(time.Now().UTC()),
		Facets:    Facets(status.Text),
	}
	if status.Language != "" {
		post.Langs = []string{status.Language}
	}

	resp, err := atproto.RepoCreateRecord(ctx, c.xrpc, &atproto.RepoCreateRecord_Input{
		Collection: postCollection,
		Repo:       c.xrpc.Auth.Did,
		Record: &lexutil.LexiconTypeDecoder{
			Val: post,
		},
	})
	if err != nil {
		log.Errorf("failed to create record: %s", err)
		return models.PostRef{}, fmt.Errorf("failed to create record: %w", err)
	}

	return models.PostRef{ID: resp.Cid, URI: resp.Uri}, nil
}

func (c *Client) MaxLength() int {
	return MaxPostLength
}

// Facets marks links and hashtags in text so clients render them as such.
// Offsets are byte offsets into the UTF-8 text.
func Facets(text string) []*bsky.RichtextFacet {
	var facets []*bsky.RichtextFacet

	for _, loc := range reLink.FindAllStringIndex(text, -1) {
		facets = append(facets, &bsky.RichtextFacet{
			Index: &bsky.RichtextFacet_ByteSlice{
				ByteStart: int64(loc[0]),
				ByteEnd:   int64(loc[1]),
			},
			Features: []*bsky.RichtextFacet_Features_Elem{{
				RichtextFacet_Link: &bsky.RichtextFacet_Link{
					LexiconTypeID: "app.bsky.richtext.facet#link",
					Uri:           text[loc[0]:loc[1]],
				},
			}},
		})
	}

	for _, loc := range reHashtag.FindAllStringSubmatchIndex(text, -1) {
		// loc[4]:loc[5] is the tag without '#', the '#' sits right before it
		start, end := loc[4]-1, loc[5]
		facets = append(facets, &bsky.RichtextFacet{
			Index: &bsky.RichtextFacet_ByteSlice{
				ByteStart: int64(start),
				ByteEnd:   int64(end),
			},
			Features: []*bsky.RichtextFacet_Features_Elem{{
				RichtextFacet_Tag: &bsky.RichtextFacet_Tag{
					LexiconTypeID: "app.bsky.richtext.facet#tag",
					Tag:           text[loc[4]:loc[5]],
				},
			}},
		})
	}

	return facets
}

// FormatTime formats a time.Time into the format expected by AT Protocol
func FormatTime(t time.Time) string {
	return t.Format("2006-01-02T15:04:05.000Z")
}
