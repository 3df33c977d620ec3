package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"time"

	"github.com/abelbrown/hogwash/internal/logging"
	"github.com/abelbrown/hogwash/internal/model"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const maxConcurrentOEmbed = 4

// ErrNoTrending is returned when no oEmbed lookup succeeded.
var ErrNoTrending = errors.New("no trending videos resolved")

var videoIDAttr = regexp.MustCompile(`data-video-id="(\d+)"`)

// TikTok resolves a fixed list of public video URLs through the oEmbed
// endpoint. Individual failures are skipped; the call fails only when every
// lookup fails.
type TikTok struct {
	client   *http.Client
	endpoint string
	urls     []string
	limiter  *rate.Limiter
	score    func() int
}

// NewTikTok creates a resolver. rps paces requests; score supplies virality
// since oEmbed has no popularity data.
func NewTikTok(endpoint string, urls []string, rps float64, score func() int) *TikTok {
	return &TikTok{
		client:   &http.Client{Timeout: 10 * time.Second},
		endpoint: endpoint,
		urls:     urls,
		limiter:  rate.NewLimiter(rate.Limit(rps), 1),
		score:    score,
	}
}

type oembedResponse struct {
	Title          string `json:"title"`
	AuthorName     string `json:"author_name"`
	AuthorUniqueID string `json:"author_unique_id"`
	ThumbnailURL   string `json:"thumbnail_url"`
	HTML           string `json:"html"`
	EmbedProductID string `json:"embed_product_id"`
}

// Fetch resolves every configured URL and returns the successes in list
// order.
func (t *TikTok) Fetch(ctx context.Context) ([]model.Video, error) {
	results := make([]*model.Video, len(t.urls))
	errs := make([]error, len(t.urls))

	var g errgroup.Group
	g.SetLimit(maxConcurrentOEmbed)

	for i, u := range t.urls {
		i, u := i, u // per-iteration copies (go 1.21 loop semantics)
		g.Go(func() error {
			v, err := t.resolve(ctx, u)
			if err != nil {
				errs[i] = err
				return nil // never fail the group - errors reported per-url
			}
			results[i] = &v
			return nil
		})
	}
	_ = g.Wait()

	var videos []model.Video
	var lastErr error
	for i, v := range results {
		if v != nil {
			videos = append(videos, *v)
			continue
		}
		lastErr = errs[i]
		logging.Debug("oEmbed lookup failed", "url", t.urls[i], "error", errs[i])
	}

	if len(videos) == 0 {
		if lastErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoTrending, lastErr)
		}
		return nil, ErrNoTrending
	}
	return videos, nil
}

func (t *TikTok) resolve(ctx context.Context, videoURL string) (model.Video, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return model.Video{}, fmt.Errorf("rate limiter: %w", err)
	}

	reqURL := t.endpoint + "?url=" + url.QueryEscape(videoURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return model.Video{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := t.client.Do(req)
	if err != nil {
		return model.Video{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Video{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return model.Video{}, fmt.Errorf("oEmbed error (status %d)", resp.StatusCode)
	}

	var o oembedResponse
	if err := json.Unmarshal(body, &o); err != nil {
		return model.Video{}, fmt.Errorf("parse response: %w", err)
	}

	id := o.EmbedProductID
	if m := videoIDAttr.FindStringSubmatch(o.HTML); m != nil {
		id = m[1]
	}
	if id == "" {
		id = path.Base(videoURL)
	}

	author := o.AuthorUniqueID
	if author == "" {
		author = o.AuthorName
	}

	return model.Video{
		ID:           id,
		Platform:     model.PlatformTikTok,
		Title:        o.Title,
		Author:       author,
		ThumbnailURL: o.ThumbnailURL,
		Orientation:  model.Portrait,
		Variant:      model.Clip{Virality: t.score(), EmbedHTML: o.HTML},
	}, nil
}
