package components

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/darwin256/comick-uploader/pkg/app/styles"
	"github.com/darwin256/comick-uploader/pkg/data"
)

// defaultPageSize is how many chapters the board shows at once.
const defaultPageSize = 25

// Board is the thread-safe chapter status store behind the live upload view.
// Workers feed it through Update; renderers read it through Snapshot. The
// view is windowed: once every visible chapter completes, the window scrolls
// to the earliest incomplete chapter.
type Board struct {
	mu        sync.Mutex
	keys      []string // natural-sorted, fixed for the run
	status    map[string]*data.ChapterStatus
	completed int
	pageSize  int
	viewStart int
	width     int
}

// Row is one rendered line's worth of chapter state.
type Row struct {
	Key      string
	Status   string
	Progress float64
}

// Snapshot is a consistent copy of the board taken under its lock, so it can
// be rendered without holding the lock.
type Snapshot struct {
	Total     int
	Completed int
	Width     int
	Rows      []Row
}

// NewBoard creates a board over the given chapter keys, all starting Queued
// at progress 0.
func NewBoard(keys []string, width int) *Board {
	status := make(map[string]*data.ChapterStatus, len(keys))
	for _, key := range keys {
		status[key] = &data.ChapterStatus{Status: "Queued", Progress: 0.0}
	}
	return &Board{
		keys:     keys,
		status:   status,
		pageSize: defaultPageSize,
		width:    width,
	}
}

// Update sets a chapter's status text and progress in one critical section.
// Progress is monotonic: a lower value than the current one is ignored.
// Reaching 1.0 counts the chapter complete and may scroll the window.
func (b *Board) Update(key, statusText string, progress float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	st, ok := b.status[key]
	if !ok {
		return
	}
	st.Status = statusText
	if progress > st.Progress {
		wasComplete := st.Progress == 1.0
		st.Progress = progress
		if progress == 1.0 && !wasComplete {
			b.completed++
			b.scrollIfWindowDone()
		}
	}
}

// scrollIfWindowDone advances the window once every visible chapter has
// completed. Caller holds the lock.
func (b *Board) scrollIfWindowDone() {
	end := min(b.viewStart+b.pageSize, len(b.keys))
	for _, key := range b.keys[b.viewStart:end] {
		if b.status[key].Progress < 1.0 {
			return
		}
	}
	for i, key := range b.keys {
		if b.status[key].Progress < 1.0 {
			b.viewStart = i
			return
		}
	}
	b.viewStart = max(0, len(b.keys)-b.pageSize)
}

// SetWidth updates the render width, from terminal resize events.
func (b *Board) SetWidth(width int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.width = width
}

// Completed returns how many chapters have reached a terminal state.
func (b *Board) Completed() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.completed
}

// Snapshot copies the visible window under the lock.
func (b *Board) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	end := min(b.viewStart+b.pageSize, len(b.keys))
	rows := make([]Row, 0, end-b.viewStart)
	for _, key := range b.keys[b.viewStart:end] {
		st := b.status[key]
		rows = append(rows, Row{Key: key, Status: st.Status, Progress: st.Progress})
	}
	return Snapshot{Total: len(b.keys), Completed: b.completed, Width: b.width, Rows: rows}
}

// View renders the visible window. The snapshot is taken under the lock and
// rendered outside it.
func (b *Board) View() string {
	snap := b.Snapshot()

	var out strings.Builder
	for _, row := range snap.Rows {
		bar := renderBar(row.Progress, barWidth(snap.Width))
		line := fmt.Sprintf("  %-20.20s %s %s %3.0f%%",
			row.Key, rowStyle(row).Render(fmt.Sprintf("%-25.25s", row.Status)), bar, row.Progress*100)
		out.WriteString(line)
		out.WriteString("\n")
	}
	return out.String()
}

func rowStyle(row Row) lipgloss.Style {
	switch {
	case row.Progress == 1.0 && strings.HasPrefix(row.Status, "Failed"):
		return styles.StatusFailed
	case row.Progress == 1.0:
		return styles.StatusDone
	case row.Status == "Queued":
		return styles.MutedStyle
	default:
		return styles.StatusActive
	}
}

// barWidth fits the per-row progress bar to the terminal, leaving room for
// the key, status and percentage columns.
func barWidth(total int) int {
	w := total - 55
	if w < 10 {
		w = 10
	}
	if w > 40 {
		w = 40
	}
	return w
}

func renderBar(progress float64, width int) string {
	filled := int(progress * float64(width))
	if filled > width {
		filled = width
	}
	return "[" +
		styles.ProgressBarStyle.Render(strings.Repeat("#", filled)) +
		styles.ProgressEmptyStyle.Render(strings.Repeat("-", width-filled)) +
		"]"
}
