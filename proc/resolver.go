package proc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"github.com/ppalone/ytsearch"
	"github.com/raitonoberu/ytmusic"
	"golang.org/x/time/rate"

	"github.com/leeineian/antigrafity/sys"
)

const (
	playlistCap   = 100
	relatedCap    = 20
	resolverTries = 3
)

// ytdlpResolver resolves queries, playlists and related tracks through
// yt-dlp, with YouTube Music and YouTube search for bare text queries. All
// remote calls go through a shared rate limiter; network-class failures are
// retried with bounded backoff.
type ytdlpResolver struct {
	limiter *rate.Limiter
	proxy   string
}

func NewYtdlpResolver() *ytdlpResolver {
	proxy := ""
	if cfg := sys.GlobalConfig; cfg != nil {
		proxy = cfg.YoutubeProxy
	}
	return &ytdlpResolver{
		limiter: rate.NewLimiter(rate.Limit(2), 4),
		proxy:   proxy,
	}
}

// newYtdlp returns a preconfigured yt-dlp command.
func (r *ytdlpResolver) newYtdlp() *ytdlp.Command {
	cmd := ytdlp.New().
		Quiet().
		NoWarnings()
	if r.proxy != "" {
		cmd.Proxy(r.proxy)
	}
	return cmd
}

// buildYtdlpArgs returns common args for yt-dlp commands
func buildYtdlpArgs() []string {
	return []string{
		"--no-check-certificates",
		"--no-warnings",
		"--extractor-args", "youtube:player_client=android,web",
		"--prefer-free-formats",
		"--socket-timeout", "30",
		"--retries", "20",
	}
}

// withRetry runs op with bounded exponential backoff, retrying only
// network-class failures.
func (r *ytdlpResolver) withRetry(ctx context.Context, label string, op func() error) error {
	var err error
	for attempt := 1; attempt <= resolverTries; attempt++ {
		if lerr := r.limiter.Wait(ctx); lerr != nil {
			return lerr
		}
		if err = op(); err == nil {
			return nil
		}
		if !isNetworkErr(err) || attempt == resolverTries {
			break
		}
		sys.LogResolver(sys.MsgResolverRetry, label, attempt, err)
		delay := time.Duration(attempt) * 2 * time.Second
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return err
}

// Resolve turns a URL or free-text query into a playable track.
func (r *ytdlpResolver) Resolve(ctx context.Context, query string) (*Track, error) {
	sys.LogResolver(sys.MsgResolverResolving, query)

	target := query
	if !strings.Contains(query, "://") {
		url, err := r.searchFirst(ctx, query)
		if err != nil {
			return nil, &ResolutionError{Query: query, Err: err}
		}
		target = url
	}

	var track *Track
	err := r.withRetry(ctx, target, func() error {
		res, err := r.newYtdlp().
			Print("%(url)s\t%(title)s\t%(uploader)s\t%(duration)s\t%(id)s").
			Format("bestaudio[ext=webm]/bestaudio").
			NoPlaylist().
			NoCheckFormats().
			IgnoreConfig().
			Run(ctx, append(buildYtdlpArgs(), "--skip-download", target)...)
		if err != nil {
			return err
		}
		for _, line := range strings.Split(strings.TrimSpace(res.Stdout), "\n") {
			ps := strings.Split(line, "\t")
			if len(ps) < 5 {
				continue
			}
			d, _ := time.ParseDuration(ps[3] + "s")
			track = &Track{
				Title:     ps[1],
				URL:       canonicalURL(ps[4], target),
				Duration:  d,
				Uploader:  ps[2],
				Thumbnail: thumbnailURL(ps[4]),
			}
			track.SetStreamURL(ps[0])
			return nil
		}
		return errors.New("failed to parse metadata")
	})
	if err != nil {
		return nil, &ResolutionError{Query: query, Err: err}
	}
	return track, nil
}

// searchFirst finds the best matching video URL for a text query, trying
// YouTube Music first and falling back to plain YouTube search.
func (r *ytdlpResolver) searchFirst(ctx context.Context, query string) (string, error) {
	s := ytmusic.TrackSearch(query)
	if res, err := s.Next(); err == nil {
		for _, t := range res.Tracks {
			if t.VideoID != "" {
				return "https://music.youtube.com/watch?v=" + t.VideoID, nil
			}
		}
	}

	c := ytsearch.NewClient(nil)
	res, err := c.Search(ctx, query)
	if err != nil {
		return "", err
	}
	for _, v := range res.Results {
		if v.VideoID != "" {
			return "https://www.youtube.com/watch?v=" + v.VideoID, nil
		}
	}
	return "", errors.New("no results")
}

// ResolvePlaylist expands a playlist URL into flat entries, capped at max.
func (r *ytdlpResolver) ResolvePlaylist(ctx context.Context, url string, max int) ([]*Track, string, error) {
	if max <= 0 || max > playlistCap {
		max = playlistCap
	}

	var tracks []*Track
	var title string
	err := r.withRetry(ctx, url, func() error {
		res, err := r.newYtdlp().
			FlatPlaylist().
			Print("%(url)s\t%(title)s\t%(uploader)s\t%(duration)s\t%(playlist_title)s").
			PlaylistItems(fmt.Sprintf("1-%d", max)).
			IgnoreConfig().
			Run(ctx, url)
		if err != nil {
			return err
		}
		tracks = tracks[:0]
		for _, line := range strings.Split(strings.TrimSpace(res.Stdout), "\n") {
			ps := strings.Split(line, "\t")
			if len(ps) < 5 {
				continue
			}
			d, _ := time.ParseDuration(ps[3] + "s")
			if title == "" && ps[4] != "NA" {
				title = ps[4]
			}
			tracks = append(tracks, &Track{
				Title:    ps[1],
				URL:      strings.TrimSpace(ps[0]),
				Duration: d,
				Uploader: ps[2],
			})
		}
		if len(tracks) == 0 {
			return errors.New("empty playlist")
		}
		return nil
	})
	if err != nil {
		sys.LogResolver(sys.MsgResolverPlaylistFail, url, err)
		return nil, "", &ResolutionError{Query: url, Err: err}
	}
	return tracks, title, nil
}

// FindRelated races YouTube Music's mix playlist against the plain YouTube
// radio playlist for the track, falling back to a title search.
func (r *ytdlpResolver) FindRelated(ctx context.Context, t *Track) ([]Candidate, error) {
	id := extractVideoID(t.URL)
	if id == "" {
		return r.relatedBySearch(ctx, t)
	}

	type mixResult struct {
		cands []Candidate
		prio  int
	}
	ch := make(chan mixResult, 2)
	go func() {
		cands, _ := r.extractMix(ctx, "https://music.youtube.com/watch?v="+id+"&list=RDAMVM"+id)
		ch <- mixResult{cands, 0}
	}()
	go func() {
		cands, _ := r.extractMix(ctx, "https://www.youtube.com/watch?v="+id+"&list=RD"+id)
		ch <- mixResult{cands, 1}
	}()

	byPrio := make([][]Candidate, 2)
	for range 2 {
		res := <-ch
		byPrio[res.prio] = res.cands
	}

	var out []Candidate
	seen := map[string]bool{id: true}
	for _, cands := range byPrio {
		for _, c := range cands {
			cid := extractVideoID(c.URL)
			if cid == "" || seen[cid] {
				continue
			}
			seen[cid] = true
			out = append(out, c)
		}
	}
	if len(out) > 0 {
		return out, nil
	}
	return r.relatedBySearch(ctx, t)
}

// extractMix flat-extracts an auto-generated mix playlist.
func (r *ytdlpResolver) extractMix(ctx context.Context, url string) ([]Candidate, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	res, err := r.newYtdlp().
		FlatPlaylist().
		Print("%(url)s\t%(title)s\t%(uploader)s").
		PlaylistItems(fmt.Sprintf("1-%d", relatedCap)).
		IgnoreConfig().
		Run(ctx, url)
	if err != nil {
		return nil, err
	}

	var cands []Candidate
	for _, line := range strings.Split(strings.TrimSpace(res.Stdout), "\n") {
		ps := strings.Split(line, "\t")
		if len(ps) < 3 {
			continue
		}
		cands = append(cands, Candidate{
			URL:      strings.TrimSpace(ps[0]),
			Title:    strings.TrimSpace(ps[1]),
			Uploader: strings.TrimSpace(ps[2]),
		})
	}
	return cands, nil
}

func (r *ytdlpResolver) relatedBySearch(ctx context.Context, t *Track) ([]Candidate, error) {
	c := ytsearch.NewClient(nil)
	res, err := c.Search(ctx, t.Title)
	if err != nil {
		return nil, err
	}

	cur := extractVideoID(t.URL)
	var cands []Candidate
	for _, v := range res.Results {
		if v.VideoID == "" || v.VideoID == cur {
			continue
		}
		cands = append(cands, Candidate{
			URL:      "https://www.youtube.com/watch?v=" + v.VideoID,
			Title:    v.Title,
			Uploader: v.Channel,
		})
	}
	return cands, nil
}

func canonicalURL(id, fallback string) string {
	if id != "" && id != "NA" {
		return "https://www.youtube.com/watch?v=" + id
	}
	return fallback
}

func thumbnailURL(id string) string {
	if id == "" || id == "NA" {
		return ""
	}
	return "https://i.ytimg.com/vi/" + id + "/hqdefault.jpg"
}

func extractVideoID(u string) string {
	if strings.Contains(u, "v=") {
		parts := strings.Split(u, "v=")
		if len(parts) >= 2 {
			return strings.Split(parts[1], "&")[0]
		}
	}
	if strings.Contains(u, "youtu.be/") {
		parts := strings.Split(u, "youtu.be/")
		if len(parts) >= 2 {
			return strings.Split(parts[1], "?")[0]
		}
	}
	if strings.Contains(u, "shorts/") {
		parts := strings.Split(u, "shorts/")
		if len(parts) >= 2 {
			return strings.Split(parts[1], "?")[0]
		}
	}
	return ""
}

// --- Autocomplete search ---

type SearchResult struct{ Title, ChannelName, URL string }

// Search returns up to 25 matches for an autocomplete query, racing YouTube
// Music against plain YouTube search under a hard deadline.
func Search(query string) ([]SearchResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2600*time.Millisecond)
	defer cancel()

	var mu sync.Mutex
	var ytm, yt []SearchResult
	seen := make(map[string]bool)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s := ytmusic.TrackSearch(query)
		r, _ := s.Next()
		if r == nil {
			return
		}
		for _, v := range r.Tracks {
			if v.VideoID == "" {
				continue
			}
			artist := ""
			if len(v.Artists) > 0 {
				artist = v.Artists[0].Name
			}
			mu.Lock()
			if !seen[v.VideoID] {
				seen[v.VideoID] = true
				ytm = append(ytm, SearchResult{
					Title:       v.Title,
					ChannelName: artist,
					URL:         "https://music.youtube.com/watch?v=" + v.VideoID,
				})
			}
			mu.Unlock()
		}
	}()
	go func() {
		defer wg.Done()
		c := ytsearch.NewClient(nil)
		r, err := c.Search(ctx, query)
		if err != nil {
			return
		}
		for _, v := range r.Results {
			if v.VideoID == "" {
				continue
			}
			mu.Lock()
			if !seen[v.VideoID] {
				seen[v.VideoID] = true
				yt = append(yt, SearchResult{
					Title:       v.Title,
					ChannelName: v.Channel,
					URL:         "https://www.youtube.com/watch?v=" + v.VideoID,
				})
			}
			mu.Unlock()
		}
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2300 * time.Millisecond):
	}

	mu.Lock()
	defer mu.Unlock()
	results := append(append([]SearchResult(nil), ytm...), yt...)
	if len(results) > 25 {
		results = results[:25]
	}
	return results, nil
}

// --- Query cache ---

const queryCacheTTL = time.Hour

type queryCacheEntry struct {
	results []SearchResult
	expires time.Time
}

// QueryCache memoizes autocomplete searches so repeated keystrokes don't
// hammer the search backends.
type QueryCache struct {
	mu      sync.Mutex
	entries map[string]queryCacheEntry
}

func NewQueryCache() *QueryCache {
	return &QueryCache{entries: make(map[string]queryCacheEntry)}
}

func (c *QueryCache) Get(query string) ([]SearchResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[query]
	if !ok || time.Now().After(entry.expires) {
		delete(c.entries, query)
		return nil, false
	}
	return entry.results, true
}

func (c *QueryCache) Put(query string, results []SearchResult) {
	c.mu.Lock()
	c.entries[query] = queryCacheEntry{results: results, expires: time.Now().Add(queryCacheTTL)}
	c.mu.Unlock()
}
