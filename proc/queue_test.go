package proc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTracks(titles ...string) []*Track {
	out := make([]*Track, len(titles))
	for i, title := range titles {
		out[i] = &Track{Title: title, URL: "https://example.com/" + title}
	}
	return out
}

func titles(tracks []*Track) []string {
	out := make([]string, len(tracks))
	for i, t := range tracks {
		out[i] = t.Title
	}
	return out
}

func TestQueueAddReturnsPosition(t *testing.T) {
	q := NewQueue()
	for i, tr := range makeTracks("a", "b", "c") {
		assert.Equal(t, i+1, q.Add(tr))
	}
	assert.Equal(t, 3, q.Len())
}

func TestQueuePopFront(t *testing.T) {
	q := NewQueue()
	for _, tr := range makeTracks("a", "b") {
		q.Add(tr)
	}

	assert.Equal(t, "a", q.PopFront().Title)
	assert.Equal(t, "b", q.PopFront().Title)
	assert.Nil(t, q.PopFront())
}

func TestQueueMove(t *testing.T) {
	tests := []struct {
		name     string
		from     int
		to       int
		moved    string // empty means nil result
		expected []string
	}{
		{name: "forward", from: 0, to: 2, moved: "a", expected: []string{"b", "c", "a"}},
		{name: "backward", from: 2, to: 0, moved: "c", expected: []string{"c", "a", "b"}},
		{name: "to clamped high", from: 1, to: 10, moved: "b", expected: []string{"a", "c", "b"}},
		{name: "to clamped low", from: 1, to: -5, moved: "b", expected: []string{"b", "a", "c"}},
		{name: "from out of range", from: 5, to: 0, moved: "", expected: []string{"a", "b", "c"}},
		{name: "from negative", from: -1, to: 0, moved: "", expected: []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQueue()
			for _, tr := range makeTracks("a", "b", "c") {
				q.Add(tr)
			}

			moved := q.Move(tt.from, tt.to)
			if tt.moved == "" {
				assert.Nil(t, moved)
			} else {
				require.NotNil(t, moved)
				assert.Equal(t, tt.moved, moved.Title)
			}
			assert.Equal(t, tt.expected, titles(q.Snapshot(0)))
		})
	}
}

func TestQueueRemove(t *testing.T) {
	q := NewQueue()
	for _, tr := range makeTracks("a", "b", "c") {
		q.Add(tr)
	}

	removed := q.Remove(1)
	require.NotNil(t, removed)
	assert.Equal(t, "b", removed.Title)
	assert.Equal(t, []string{"a", "c"}, titles(q.Snapshot(0)))

	assert.Nil(t, q.Remove(5))
	assert.Nil(t, q.Remove(-1))
}

func TestQueueSnapshotLimit(t *testing.T) {
	q := NewQueue()
	for _, tr := range makeTracks("a", "b", "c", "d") {
		q.Add(tr)
	}

	assert.Equal(t, []string{"a", "b"}, titles(q.Snapshot(2)))
	assert.Equal(t, []string{"a", "b", "c", "d"}, titles(q.Snapshot(0)))
	assert.Equal(t, []string{"a", "b", "c", "d"}, titles(q.Snapshot(10)))
}

func TestQueueReorderRestore(t *testing.T) {
	q := NewQueue()
	original := makeTracks("a", "b", "c", "d", "e", "f", "g", "h")
	for _, tr := range original {
		q.Add(tr)
	}

	q.Reorder(ReorderStandard)
	q.Reorder(ReorderRestore)
	assert.Equal(t, titles(original), titles(q.Snapshot(0)))
}

func TestQueueReorderPreservesMultiset(t *testing.T) {
	q := NewQueue()
	original := makeTracks("a", "b", "c", "d", "e")
	for _, tr := range original {
		q.Add(tr)
	}

	for _, mode := range []ReorderMode{ReorderStandard, ReorderRiffle, ReorderRestore} {
		q.Reorder(mode)
		assert.ElementsMatch(t, titles(original), titles(q.Snapshot(0)), "mode %s", mode)
	}
}

func TestQueueRiffleDeterministic(t *testing.T) {
	q := NewQueue()
	for _, tr := range makeTracks("1", "2", "3", "4", "5", "6") {
		q.Add(tr)
	}

	q.Reorder(ReorderRiffle)
	assert.Equal(t, []string{"1", "3", "5", "2", "4", "6"}, titles(q.Snapshot(0)))
}

func TestQueueRiffleTiny(t *testing.T) {
	q := NewQueue()
	q.Reorder(ReorderRiffle)
	assert.Equal(t, 0, q.Len())

	q.Add(makeTracks("solo")[0])
	q.Reorder(ReorderRiffle)
	assert.Equal(t, []string{"solo"}, titles(q.Snapshot(0)))
}

func TestQueueReinjectedTrackKeepsArrivalOrder(t *testing.T) {
	q := NewQueue()
	tracks := makeTracks("a", "b", "c")
	for _, tr := range tracks {
		q.Add(tr)
	}

	// Pop and re-inject the first track the way a loop mode does.
	first := q.PopFront()
	q.PushBack(first)
	assert.Equal(t, []string{"b", "c", "a"}, titles(q.Snapshot(0)))

	q.Reorder(ReorderRestore)
	assert.Equal(t, []string{"a", "b", "c"}, titles(q.Snapshot(0)))
}
