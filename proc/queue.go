package proc

import (
	"math/rand/v2"
	"slices"
	"sync"
)

// ReorderMode selects a queue reordering policy.
type ReorderMode int

const (
	ReorderRestore ReorderMode = iota
	ReorderStandard
	ReorderRiffle
)

func (m ReorderMode) String() string {
	switch m {
	case ReorderStandard:
		return "standard"
	case ReorderRiffle:
		return "riffle"
	default:
		return "restore"
	}
}

func ParseReorderMode(s string) ReorderMode {
	switch s {
	case "standard":
		return ReorderStandard
	case "riffle":
		return ReorderRiffle
	default:
		return ReorderRestore
	}
}

// Queue is the ordered set of pending tracks for one session. All mutation
// goes through its own lock; reordering never changes the track multiset.
type Queue struct {
	mu     sync.Mutex
	tracks []*Track
	seq    uint64
}

func NewQueue() *Queue {
	return &Queue{}
}

// Add appends a track and returns its 1-based position in the queue.
func (q *Queue) Add(t *Track) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.assignSeq(t)
	q.tracks = append(q.tracks, t)
	return len(q.tracks)
}

// assignSeq gives the track its arrival number once; re-injected tracks
// keep their original one.
func (q *Queue) assignSeq(t *Track) {
	if t.seq == 0 {
		q.seq++
		t.seq = q.seq
	}
}

func (q *Queue) PopFront() *Track {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.tracks) == 0 {
		return nil
	}
	t := q.tracks[0]
	q.tracks = q.tracks[1:]
	return t
}

func (q *Queue) PeekFront() *Track {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.tracks) == 0 {
		return nil
	}
	return q.tracks[0]
}

func (q *Queue) PushFront(t *Track) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.assignSeq(t)
	q.tracks = append([]*Track{t}, q.tracks...)
}

func (q *Queue) PushBack(t *Track) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.assignSeq(t)
	q.tracks = append(q.tracks, t)
}

// Move relocates the track at from to to, clamping to into [0, len-1].
// An invalid from is a no-op returning nil.
func (q *Queue) Move(from, to int) *Track {
	q.mu.Lock()
	defer q.mu.Unlock()
	if from < 0 || from >= len(q.tracks) {
		return nil
	}
	if to < 0 {
		to = 0
	}
	if to > len(q.tracks)-1 {
		to = len(q.tracks) - 1
	}

	t := q.tracks[from]
	q.tracks = append(q.tracks[:from], q.tracks[from+1:]...)
	q.tracks = slices.Insert(q.tracks, to, t)
	return t
}

// Remove deletes and returns the track at index, or nil if out of range.
func (q *Queue) Remove(index int) *Track {
	q.mu.Lock()
	defer q.mu.Unlock()
	if index < 0 || index >= len(q.tracks) {
		return nil
	}
	t := q.tracks[index]
	q.tracks = append(q.tracks[:index], q.tracks[index+1:]...)
	return t
}

func (q *Queue) Clear() {
	q.mu.Lock()
	q.tracks = nil
	q.mu.Unlock()
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tracks)
}

// Snapshot returns a copy of up to limit queued tracks (all if limit <= 0).
func (q *Queue) Snapshot(limit int) []*Track {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := len(q.tracks)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]*Track, n)
	copy(out, q.tracks[:n])
	return out
}

// Reorder applies a reordering policy in place.
func (q *Queue) Reorder(mode ReorderMode) {
	q.mu.Lock()
	defer q.mu.Unlock()

	switch mode {
	case ReorderRestore:
		slices.SortStableFunc(q.tracks, func(a, b *Track) int {
			switch {
			case a.seq < b.seq:
				return -1
			case a.seq > b.seq:
				return 1
			default:
				return 0
			}
		})
	case ReorderStandard:
		rand.Shuffle(len(q.tracks), func(i, j int) {
			q.tracks[i], q.tracks[j] = q.tracks[j], q.tracks[i]
		})
	case ReorderRiffle:
		if len(q.tracks) <= 1 {
			return
		}
		for range 3 {
			q.tracks = riffleOnce(q.tracks)
		}
	}
}

// riffleOnce splits the deck at len/2 and interleaves the halves, taking from
// the left half first when lengths differ.
func riffleOnce(tracks []*Track) []*Track {
	mid := len(tracks) / 2
	left, right := tracks[:mid], tracks[mid:]
	out := make([]*Track, 0, len(tracks))
	for len(left) > 0 || len(right) > 0 {
		if len(left) > 0 {
			out = append(out, left[0])
			left = left[1:]
		}
		if len(right) > 0 {
			out = append(out, right[0])
			right = right[1:]
		}
	}
	return out
}
