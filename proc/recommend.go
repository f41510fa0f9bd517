package proc

import (
	"context"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/disgoorg/snowflake/v2"
	"github.com/samber/lo"

	"github.com/leeineian/antigrafity/sys"
)

// Recommender picks the next autoplay track after a finished one, scoring
// resolver candidates according to the active autoplay mode.
type Recommender struct {
	resolver Resolver
	botUser  snowflake.ID

	// Overridable for deterministic tests.
	exploration func() float64 // U(0,10) term
	randIndex   func(n int) int
}

func NewRecommender(resolver Resolver, botUser snowflake.ID) *Recommender {
	return &Recommender{
		resolver:    resolver,
		botUser:     botUser,
		exploration: func() float64 { return rand.Float64() * 10 },
		randIndex:   rand.IntN,
	}
}

// Recommend returns a fully resolved follow-up track, or nil when no
// recommendation could be produced. Failure is not an error here; the caller
// falls back to idle.
func (r *Recommender) Recommend(ctx context.Context, current *Track, history *playHistory, mode AutoplayMode) *Track {
	if current == nil || mode == AutoplayOff {
		return nil
	}

	candidates, err := r.resolver.FindRelated(ctx, current)
	if err != nil {
		sys.LogResolver(sys.MsgResolverRelatedFail, current.Title, err)
		return nil
	}
	if len(candidates) == 0 {
		return nil
	}

	// Prefer unheard candidates; if everything is in history, use the lot.
	fresh := lo.Filter(candidates, func(c Candidate, _ int) bool {
		return !history.Contains(c.URL)
	})
	if len(fresh) == 0 {
		fresh = candidates
	}

	var chosen Candidate
	switch mode {
	case AutoplayBasic:
		chosen = fresh[r.randIndex(len(fresh))]
	case AutoplayRelevant:
		chosen = r.pickScored(current, fresh, 3, false)
	case AutoplayExplorative:
		chosen = r.pickScored(current, fresh, 10, true)
	default:
		return nil
	}

	track, err := r.resolver.Resolve(ctx, chosen.URL)
	if err != nil {
		sys.LogResolver(sys.MsgResolverResolveFail, chosen.URL, err)
		return nil
	}
	track.Requester = r.botUser
	return track
}

type scoredCandidate struct {
	cand  Candidate
	score float64
}

// pickScored ranks candidates and picks uniformly among the top n. When
// penalizeSimilar is set, title-word overlap lowers the score instead of
// raising it.
func (r *Recommender) pickScored(current *Track, candidates []Candidate, n int, penalizeSimilar bool) Candidate {
	scored := lo.Map(candidates, func(c Candidate, _ int) scoredCandidate {
		return scoredCandidate{cand: c, score: r.score(current, c, penalizeSimilar)}
	})

	slices.SortStableFunc(scored, func(a, b scoredCandidate) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		default:
			return 0
		}
	})

	if n > len(scored) {
		n = len(scored)
	}
	return scored[r.randIndex(n)].cand
}

func (r *Recommender) score(current *Track, c Candidate, penalizeSimilar bool) float64 {
	score := r.exploration()

	candTitle := strings.ToLower(c.Title)
	if uploader := strings.ToLower(current.Uploader); len(uploader) > 2 && strings.Contains(candTitle, uploader) {
		score += 5
	}

	matches := 0
	for _, word := range strings.Fields(strings.ToLower(current.Title)) {
		if len(word) > 3 && strings.Contains(candTitle, word) {
			matches++
		}
	}
	if penalizeSimilar {
		score -= float64(2 * matches)
	} else {
		score += float64(2 * matches)
	}
	return score
}
