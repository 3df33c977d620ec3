package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/abelbrown/hogwash/internal/model"
	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
)

const userAgent = "hogwash/0.1 (+https://github.com/abelbrown/hogwash)"

// Feeds backs custom platforms whose query is an RSS or Atom URL. Feeds are
// not paginated upstream, so pages are windows over the current items.
type Feeds struct {
	client *http.Client
}

// NewFeeds creates a feed reader with the given HTTP client timeout.
func NewFeeds(timeout time.Duration) *Feeds {
	return &Feeds{client: &http.Client{Timeout: timeout}}
}

// FetchPage returns items [(page-1)*size, page*size) of the feed at url as
// cards for platform p. Pages past the end are empty.
func (f *Feeds) FetchPage(ctx context.Context, url string, p model.Platform, page, size int) ([]model.Video, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	start := (page - 1) * size
	if page < 1 || start >= len(feed.Items) {
		return []model.Video{}, nil
	}
	end := start + size
	if end > len(feed.Items) {
		end = len(feed.Items)
	}

	videos := make([]model.Video, 0, end-start)
	for _, item := range feed.Items[start:end] {
		videos = append(videos, convertFeedItem(item, p))
	}
	return videos, nil
}

// convertFeedItem maps a feed entry to a card. YouTube channel feeds carry
// yt:videoId and media:statistics, which become the media id and views.
func convertFeedItem(item *gofeed.Item, p model.Platform) model.Video {
	author := ""
	if item.Author != nil {
		author = item.Author.Name
	}
	if author == "" {
		author = p.Name
	}

	mediaID := extValue(item.Extensions, "yt", "videoId")
	views := 0
	if stats := extPath(item.Extensions, "media", "group", "community", "statistics"); stats != nil {
		views, _ = strconv.Atoi(stats.Attrs["views"])
	}

	thumb := ""
	switch {
	case item.Image != nil && item.Image.URL != "":
		thumb = item.Image.URL
	case extPath(item.Extensions, "media", "group", "thumbnail") != nil:
		thumb = extPath(item.Extensions, "media", "group", "thumbnail").Attrs["url"]
	case mediaID != "":
		thumb = model.YouTubeThumbnail(mediaID)
	}

	return model.Video{
		ID:           generateID(item),
		Platform:     p.ID,
		Title:        truncate(item.Title, 140),
		Author:       author,
		ThumbnailURL: thumb,
		ViewCount:    views,
		Orientation:  model.Landscape,
		Variant:      model.VOD{Virality: viewScore(views), MediaID: mediaID, URL: item.Link},
	}
}

// viewScore maps a view count onto the 0-999 virality scale.
func viewScore(views int) int {
	if views <= 0 {
		return 0
	}
	score := int(math.Log10(float64(views)+1) * 100)
	if score > 999 {
		return 999
	}
	return score
}

func extValue(exts ext.Extensions, prefix, name string) string {
	if e := extPath(exts, prefix, name); e != nil {
		return e.Value
	}
	return ""
}

// extPath walks prefix:name and then nested children by name.
func extPath(exts ext.Extensions, prefix, name string, children ...string) *ext.Extension {
	list := exts[prefix][name]
	if len(list) == 0 {
		return nil
	}
	e := list[0]
	for _, c := range children {
		next := e.Children[c]
		if len(next) == 0 {
			return nil
		}
		e = next[0]
	}
	return &e
}

// generateID creates a deterministic ID for a feed item.
// Uses the GUID if available, otherwise hashes the URL.
func generateID(feedItem *gofeed.Item) string {
	if feedItem.GUID != "" {
		return hashString(feedItem.GUID)
	}
	if feedItem.Link != "" {
		return hashString(feedItem.Link)
	}

	key := feedItem.Title
	if feedItem.PublishedParsed != nil {
		key += feedItem.PublishedParsed.String()
	}
	return hashString(key)
}

// hashString creates a short hash of a string for use as an ID.
func hashString(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:8]) // 16 character hex string
}

// truncate shortens a string to maxLen runes, adding "..." if truncated.
// Uses rune-aware slicing to avoid breaking UTF-8 characters.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
