package components

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/darwin256/comick-uploader/pkg/scanner"
)

func boardKeys(n int) []string {
	keys := make([]string, n)
	for i := range keys {
		keys[i] = fmt.Sprintf("%d", i+1)
	}
	scanner.Sort(keys)
	return keys
}

func TestBoard_StartsQueued(t *testing.T) {
	board := NewBoard(boardKeys(3), 80)

	snap := board.Snapshot()
	assert.Equal(t, 3, snap.Total)
	assert.Equal(t, 0, snap.Completed)
	for _, row := range snap.Rows {
		assert.Equal(t, "Queued", row.Status)
		assert.Equal(t, 0.0, row.Progress)
	}
}

func TestBoard_ProgressIsMonotonic(t *testing.T) {
	board := NewBoard(boardKeys(1), 80)

	board.Update("1", "Uploading (3/4)", 0.7)
	// a retry restarts the attempt at zero; the displayed value must not regress
	board.Update("1", "Retrying (2/3)... Requesting URLs...", 0.0)

	snap := board.Snapshot()
	assert.Equal(t, 0.7, snap.Rows[0].Progress)
	assert.Equal(t, "Retrying (2/3)... Requesting URLs...", snap.Rows[0].Status)
}

func TestBoard_CountsCompletionsOnce(t *testing.T) {
	board := NewBoard(boardKeys(2), 80)

	board.Update("1", "Done", 1.0)
	board.Update("1", "Done", 1.0)
	assert.Equal(t, 1, board.Completed())

	board.Update("2", "Failed: 524 Origin Timeout", 1.0)
	assert.Equal(t, 2, board.Completed())
}

func TestBoard_IgnoresUnknownKeys(t *testing.T) {
	board := NewBoard(boardKeys(1), 80)
	board.Update("ghost", "Done", 1.0)
	assert.Equal(t, 0, board.Completed())
}

func TestBoard_WindowScrollsWhenVisibleComplete(t *testing.T) {
	keys := boardKeys(30)
	board := NewBoard(keys, 80)

	// Complete the entire first window (page size 25)
	for _, key := range keys[:25] {
		board.Update(key, "Done", 1.0)
	}

	snap := board.Snapshot()
	assert.Equal(t, keys[25], snap.Rows[0].Key, "window should scroll to the earliest incomplete chapter")
	assert.Len(t, snap.Rows, 5)
}

func TestBoard_WindowHoldsWhileIncompleteVisible(t *testing.T) {
	keys := boardKeys(30)
	board := NewBoard(keys, 80)

	// Complete all but one chapter of the first window
	for _, key := range keys[1:25] {
		board.Update(key, "Done", 1.0)
	}

	snap := board.Snapshot()
	assert.Equal(t, keys[0], snap.Rows[0].Key)
}

func TestBoard_WindowClampsAtTail(t *testing.T) {
	keys := boardKeys(30)
	board := NewBoard(keys, 80)

	for _, key := range keys {
		board.Update(key, "Done", 1.0)
	}

	snap := board.Snapshot()
	assert.Equal(t, keys[5], snap.Rows[0].Key, "fully complete board shows the final page")
	assert.Len(t, snap.Rows, 25)
}

func TestBoard_BarTracksTerminalWidth(t *testing.T) {
	assert.Equal(t, 25, barWidth(80))
	assert.Equal(t, 40, barWidth(200), "wide terminals cap the bar")
	assert.Equal(t, 10, barWidth(40), "narrow terminals keep a readable bar")

	board := NewBoard(boardKeys(1), 80)
	assert.Equal(t, 80, board.Snapshot().Width)
	board.SetWidth(120)
	assert.Equal(t, 120, board.Snapshot().Width)
}

func TestBoard_ViewRendersRows(t *testing.T) {
	board := NewBoard([]string{"1 - Intro", "2"}, 80)
	board.Update("1 - Intro", "Uploading (1/2)", 0.5)
	board.Update("2", "Done", 1.0)

	view := board.View()
	assert.Contains(t, view, "1 - Intro")
	assert.Contains(t, view, "Uploading (1/2)")
	assert.Contains(t, view, "Done")
	assert.Equal(t, 2, strings.Count(view, "\n"))
}
