package services

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/darwin256/comick-uploader/pkg/data"
	"github.com/darwin256/comick-uploader/pkg/scanner"
)

// ResultAggregator collects terminal outcomes and partitions them into
// succeeded, skipped, and failed chapter keys. Safe for concurrent Record
// calls from chapter workers.
type ResultAggregator struct {
	mu        sync.Mutex
	succeeded []string
	skipped   []string
	failed    []string
	causes    map[string]string
}

func NewResultAggregator() *ResultAggregator {
	return &ResultAggregator{causes: make(map[string]string)}
}

func (a *ResultAggregator) Record(outcome data.UploadOutcome) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch outcome.Kind {
	case data.OutcomeSucceeded:
		a.succeeded = append(a.succeeded, outcome.Key)
	case data.OutcomeSkipped:
		a.skipped = append(a.skipped, outcome.Key)
	case data.OutcomeFailed:
		a.failed = append(a.failed, outcome.Key)
		a.causes[outcome.Key] = outcome.Err
	}
}

func (a *ResultAggregator) Succeeded() []string { return a.sorted(&a.succeeded) }

func (a *ResultAggregator) Skipped() []string { return a.sorted(&a.skipped) }

func (a *ResultAggregator) Failed() []string { return a.sorted(&a.failed) }

// FailureCause returns the recorded error message for a failed chapter.
func (a *ResultAggregator) FailureCause(key string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.causes[key]
}

func (a *ResultAggregator) sorted(keys *[]string) []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]string, len(*keys))
	copy(out, *keys)
	scanner.Sort(out)
	return out
}

// Summary renders the final accounting line.
func (a *ResultAggregator) Summary() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return fmt.Sprintf("%d uploaded, %d skipped, %d failed",
		len(a.succeeded), len(a.skipped), len(a.failed))
}

// WriteFailed persists the failed chapter keys, natural-sorted one per line,
// for a manual re-run. Nothing is written when no chapter failed. A write
// failure is the caller's to report; it never changes the run's accounting.
func (a *ResultAggregator) WriteFailed(path string) error {
	failed := a.Failed()
	if len(failed) == 0 {
		return nil
	}
	content := strings.Join(failed, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
