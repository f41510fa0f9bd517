package proc

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistoryAddAndContains(t *testing.T) {
	h := newPlayHistory()

	h.Add("a")
	h.Add("b")
	assert.True(t, h.Contains("a"))
	assert.True(t, h.Contains("b"))
	assert.False(t, h.Contains("c"))
	assert.Equal(t, 2, h.Len())
}

func TestHistoryDeduplicates(t *testing.T) {
	h := newPlayHistory()

	h.Add("a")
	h.Add("a")
	h.Add("a")
	assert.Equal(t, 1, h.Len())
}

func TestHistoryEvictsOldestAtCap(t *testing.T) {
	h := newPlayHistory()

	for i := 0; i < historyLimit; i++ {
		h.Add(fmt.Sprintf("url-%d", i))
	}
	assert.Equal(t, historyLimit, h.Len())
	assert.True(t, h.Contains("url-0"))

	h.Add("one-more")
	assert.Equal(t, historyLimit, h.Len())
	assert.False(t, h.Contains("url-0"))
	assert.True(t, h.Contains("url-1"))
	assert.True(t, h.Contains("one-more"))
}

func TestHistoryClear(t *testing.T) {
	h := newPlayHistory()

	h.Add("a")
	h.Add("b")
	h.Clear()
	assert.Equal(t, 0, h.Len())
	assert.False(t, h.Contains("a"))
}
