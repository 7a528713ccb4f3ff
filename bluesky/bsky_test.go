package bluesky_test

import (
	"testing"
	"time"

	"feedtoot/bluesky"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFacets(t *testing.T) {
	text := "Nytt innlegg: https://example.com/p/1. #golang #rss"

	facets := bluesky.Facets(text)
	require.Len(t, facets, 3)

	link := facets[0]
	require.NotNil(t, link.Features[0].RichtextFacet_Link)
	assert.Equal(t, "https://example.com/p/1", link.Features[0].RichtextFacet_Link.Uri)
	assert.Equal(t, "https://example.com/p/1", text[link.Index.ByteStart:link.Index.ByteEnd])

	for i, tag := range []string{"golang", "rss"} {
		facet := facets[i+1]
		require.NotNil(t, facet.Features[0].RichtextFacet_Tag)
		assert.Equal(t, tag, facet.Features[0].RichtextFacet_Tag.Tag)
		assert.Equal(t, "#"+tag, text[facet.Index.ByteStart:facet.Index.ByteEnd])
	}
}

func TestFacetsUseByteOffsets(t *testing.T) {
	text := "Blåbær på tur #fjell"

	facets := bluesky.Facets(text)
	require.Len(t, facets, 1)
	assert.Equal(t, "#fjell", text[facets[0].Index.ByteStart:facets[0].Index.ByteEnd])
	assert.Equal(t, int64(len(text)), facets[0].Index.ByteEnd)
}

func TestFacetsPlainText(t *testing.T) {
	assert.Empty(t, bluesky.Facets("nothing to mark here, not even an issue#12"))
}

func TestFormatTime(t *testing.T) {
	ts := time.Date(2024, 1, 2, 10, 4, 5, 123_456_789, time.UTC)
	assert.Equal(t, "2024-01-02T10:04:05.123Z", bluesky.FormatTime(ts))
}
