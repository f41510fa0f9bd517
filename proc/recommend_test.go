package proc

import (
	"context"
	"errors"
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedRecommender(resolver Resolver) *Recommender {
	r := NewRecommender(resolver, snowflake.ID(99))
	r.exploration = func() float64 { return 0 }
	r.randIndex = func(n int) int { return 0 }
	return r
}

func TestRecommendFiltersHistory(t *testing.T) {
	resolver := &fakeResolver{
		relatedFn: func(ctx context.Context, tr *Track) ([]Candidate, error) {
			return []Candidate{
				{URL: "https://example.com/heard", Title: "Heard Before"},
				{URL: "https://example.com/fresh", Title: "Fresh Pick"},
			}, nil
		},
	}
	r := fixedRecommender(resolver)

	history := newPlayHistory()
	history.Add("https://example.com/heard")

	got := r.Recommend(context.Background(), &Track{Title: "Seed", URL: "https://example.com/seed"}, history, AutoplayBasic)
	require.NotNil(t, got)
	assert.Equal(t, "https://example.com/fresh", got.URL)
}

func TestRecommendFallsBackWhenAllHeard(t *testing.T) {
	resolver := &fakeResolver{
		relatedFn: func(ctx context.Context, tr *Track) ([]Candidate, error) {
			return []Candidate{{URL: "https://example.com/only", Title: "Only One"}}, nil
		},
	}
	r := fixedRecommender(resolver)

	history := newPlayHistory()
	history.Add("https://example.com/only")

	got := r.Recommend(context.Background(), &Track{Title: "Seed", URL: "https://example.com/seed"}, history, AutoplayBasic)
	require.NotNil(t, got)
	assert.Equal(t, "https://example.com/only", got.URL)
}

func TestRecommendRelevantPrefersSimilar(t *testing.T) {
	// With a zeroed exploration term scoring is purely deterministic:
	// uploader substring is worth 5 and each shared long title word 2.
	resolver := &fakeResolver{
		relatedFn: func(ctx context.Context, tr *Track) ([]Candidate, error) {
			return []Candidate{
				{URL: "https://example.com/unrelated", Title: "Something Else Entirely"},
				{URL: "https://example.com/same-artist", Title: "Daft Punk: Around the World"},
				{URL: "https://example.com/word-match", Title: "Harder Faster Stronger cover"},
			}, nil
		},
	}
	r := fixedRecommender(resolver)

	current := &Track{
		Title:    "Harder Better Faster Stronger",
		URL:      "https://example.com/seed",
		Uploader: "Daft Punk",
	}

	got := r.Recommend(context.Background(), current, newPlayHistory(), AutoplayRelevant)
	require.NotNil(t, got)
	// Three shared title words (6) beat the uploader mention (5).
	assert.Equal(t, "https://example.com/word-match", got.URL)
}

func TestRecommendExplorativePenalizesSimilar(t *testing.T) {
	resolver := &fakeResolver{
		relatedFn: func(ctx context.Context, tr *Track) ([]Candidate, error) {
			return []Candidate{
				{URL: "https://example.com/near-copy", Title: "Harder Better Faster Stronger remix"},
				{URL: "https://example.com/different", Title: "An Unrelated Tune"},
			}, nil
		},
	}
	r := fixedRecommender(resolver)

	current := &Track{Title: "Harder Better Faster Stronger", URL: "https://example.com/seed"}

	got := r.Recommend(context.Background(), current, newPlayHistory(), AutoplayExplorative)
	require.NotNil(t, got)
	assert.Equal(t, "https://example.com/different", got.URL)
}

func TestRecommendAttributesBotAsRequester(t *testing.T) {
	resolver := &fakeResolver{
		relatedFn: func(ctx context.Context, tr *Track) ([]Candidate, error) {
			return []Candidate{{URL: "https://example.com/pick", Title: "Pick"}}, nil
		},
	}
	r := fixedRecommender(resolver)

	got := r.Recommend(context.Background(), &Track{Title: "Seed", URL: "https://example.com/seed"}, newPlayHistory(), AutoplayBasic)
	require.NotNil(t, got)
	assert.Equal(t, snowflake.ID(99), got.Requester)
}

func TestRecommendNilOnFailure(t *testing.T) {
	seed := &Track{Title: "Seed", URL: "https://example.com/seed"}

	t.Run("related lookup fails", func(t *testing.T) {
		resolver := &fakeResolver{
			relatedFn: func(ctx context.Context, tr *Track) ([]Candidate, error) {
				return nil, errors.New("quota exceeded")
			},
		}
		assert.Nil(t, fixedRecommender(resolver).Recommend(context.Background(), seed, newPlayHistory(), AutoplayBasic))
	})

	t.Run("no candidates", func(t *testing.T) {
		resolver := &fakeResolver{}
		assert.Nil(t, fixedRecommender(resolver).Recommend(context.Background(), seed, newPlayHistory(), AutoplayBasic))
	})

	t.Run("resolution fails", func(t *testing.T) {
		resolver := &fakeResolver{
			relatedFn: func(ctx context.Context, tr *Track) ([]Candidate, error) {
				return []Candidate{{URL: "https://example.com/pick", Title: "Pick"}}, nil
			},
			resolveFn: func(ctx context.Context, query string) (*Track, error) {
				return nil, &ResolutionError{Query: query, Err: errors.New("gone")}
			},
		}
		assert.Nil(t, fixedRecommender(resolver).Recommend(context.Background(), seed, newPlayHistory(), AutoplayBasic))
	})

	t.Run("autoplay off", func(t *testing.T) {
		assert.Nil(t, fixedRecommender(&fakeResolver{}).Recommend(context.Background(), seed, newPlayHistory(), AutoplayOff))
	})

	t.Run("no current track", func(t *testing.T) {
		assert.Nil(t, fixedRecommender(&fakeResolver{}).Recommend(context.Background(), nil, newPlayHistory(), AutoplayBasic))
	})
}
