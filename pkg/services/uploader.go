// Package services holds the upload orchestration engine: the retry policy,
// the per-chapter state machine, the bounded worker pools, and the result
// aggregation.
package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/darwin256/comick-uploader/pkg/comick"
	"github.com/darwin256/comick-uploader/pkg/data"
	"github.com/darwin256/comick-uploader/pkg/integrations"
)

const (
	// pagePoolWidth bounds concurrent page transfers within one chapter.
	pagePoolWidth = 8

	MinChapterWorkers     = 1
	MaxChapterWorkers     = 10
	DefaultChapterWorkers = 3
)

// ProgressEvent reports a chapter status change. Terminal events carry the
// chapter's outcome and a progress of exactly 1.0.
type ProgressEvent struct {
	Key      string
	Status   string
	Progress float64
	Terminal bool
	Outcome  *data.UploadOutcome
}

// UploadService is the remote-side contract the engine drives. Satisfied by
// *comick.Client; tests substitute fakes.
type UploadService interface {
	RequestTargets(files []string) ([]string, error)
	PutPage(target string, jpegData []byte) error
	AddChapter(slug string, payload comick.FinalizePayload) error
}

// Options configures one upload run.
type Options struct {
	Slug     string
	Language string
	Volume   string // optional volume number for the whole batch
	Timer    int    // scheduled release delay in hours, 0 = instant
	Group    data.GroupSelection
	Workers  int // concurrent chapters, clamped to [1, 10]; 0 selects the default
	Policy   RetryPolicy
}

// Uploader runs the two-level upload pipeline: a bounded pool of chapter
// workers, each fanning its pages out to a fixed-width inner pool. Status
// changes stream on the events channel; every chapter resolves to exactly
// one terminal outcome.
type Uploader struct {
	service UploadService
	opts    Options
	encode  func(path string) ([]byte, error)
	events  chan ProgressEvent
}

func NewUploader(service UploadService, opts Options) *Uploader {
	if opts.Workers == 0 {
		opts.Workers = DefaultChapterWorkers
	}
	if opts.Workers < MinChapterWorkers {
		opts.Workers = MinChapterWorkers
	} else if opts.Workers > MaxChapterWorkers {
		opts.Workers = MaxChapterWorkers
	}
	if opts.Policy.Attempts == 0 {
		opts.Policy = DefaultRetryPolicy()
	}
	return &Uploader{
		service: service,
		opts:    opts,
		encode:  integrations.EncodePage,
		events:  make(chan ProgressEvent, 100),
	}
}

// Events returns the progress stream. It is closed when Run returns.
// Consumers must keep receiving until the close: incremental updates may be
// dropped under load, but terminal events block until taken.
func (u *Uploader) Events() <-chan ProgressEvent {
	return u.events
}

// Run uploads every chapter with at most opts.Workers active at once and
// returns one terminal outcome per chapter, in completion order. Chapter
// failures never abort the run; only the per-chapter outcomes record them.
// Cancelling ctx stops queued chapters before they touch the remote service
// and ends retry waits; page transfers already in flight run to completion.
func (u *Uploader) Run(ctx context.Context, chapters map[string]*data.Chapter) []data.UploadOutcome {
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, u.opts.Workers)
	results := make(chan data.UploadOutcome, len(chapters))

	for _, chapter := range chapters {
		wg.Add(1)
		go func(chapter *data.Chapter) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			results <- u.uploadChapter(ctx, chapter)
		}(chapter)
	}

	wg.Wait()
	close(results)
	close(u.events)

	outcomes := make([]data.UploadOutcome, 0, len(chapters))
	for outcome := range results {
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

// uploadChapter drives one chapter through Requesting → UploadingPages →
// Finalizing under the retry policy, resolving to exactly one terminal
// outcome. A retry restarts from Requesting with fresh targets.
func (u *Uploader) uploadChapter(ctx context.Context, chapter *data.Chapter) data.UploadOutcome {
	if err := ctx.Err(); err != nil {
		outcome := data.UploadOutcome{Key: chapter.Key, Kind: data.OutcomeFailed, Err: err.Error()}
		u.emit(ProgressEvent{Key: chapter.Key, Status: "Aborted", Progress: 1.0, Terminal: true, Outcome: &outcome})
		return outcome
	}

	attempt := 0
	err := u.opts.Policy.Run(ctx, func() error {
		attempt++
		return u.attemptChapter(chapter, attempt)
	})

	var outcome data.UploadOutcome
	var status string
	switch {
	case err == nil:
		outcome = data.UploadOutcome{Key: chapter.Key, Kind: data.OutcomeSucceeded}
		status = "Done"
	case errors.Is(err, comick.ErrDuplicateChapter):
		outcome = data.UploadOutcome{Key: chapter.Key, Kind: data.OutcomeSkipped}
		status = "Skipped (exists)"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		outcome = data.UploadOutcome{Key: chapter.Key, Kind: data.OutcomeFailed, Err: err.Error()}
		status = "Aborted"
	default:
		outcome = data.UploadOutcome{Key: chapter.Key, Kind: data.OutcomeFailed, Err: err.Error()}
		status = fmt.Sprintf("Failed: %s", err)
	}

	u.emit(ProgressEvent{Key: chapter.Key, Status: status, Progress: 1.0, Terminal: true, Outcome: &outcome})
	return outcome
}

func (u *Uploader) attemptChapter(chapter *data.Chapter, attempt int) error {
	prefix := ""
	if attempt > 1 {
		prefix = fmt.Sprintf("Retrying (%d/%d)... ", attempt, u.opts.Policy.Attempts)
	}

	u.emit(ProgressEvent{Key: chapter.Key, Status: prefix + "Requesting URLs...", Progress: 0.0})
	files := make([]string, len(chapter.Pages))
	for i := range files {
		files[i] = fmt.Sprintf("%03d.jpeg", i+1)
	}
	targets, err := u.service.RequestTargets(files)
	if err != nil {
		return err
	}

	if err := u.uploadPages(chapter, targets, prefix); err != nil {
		return err
	}

	u.emit(ProgressEvent{Key: chapter.Key, Status: prefix + "Finalizing...", Progress: 0.95})
	return u.service.AddChapter(u.opts.Slug, u.finalizePayload(chapter, targets))
}

// uploadPages fans the chapter's pages out to the fixed-width inner pool.
// The first page failure decides the attempt's error; dispatch of further
// pages stops once a failure is recorded, but pages already in flight run
// to completion and are not cancelled.
func (u *Uploader) uploadPages(chapter *data.Chapter, targets []string, prefix string) error {
	total := len(chapter.Pages)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		done     int
		firstErr error
	)
	semaphore := make(chan struct{}, pagePoolWidth)

	for i, page := range chapter.Pages {
		mu.Lock()
		failed := firstErr != nil
		mu.Unlock()
		if failed {
			break
		}

		semaphore <- struct{}{}
		wg.Add(1)
		go func(page data.Page, target string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			if err := u.uploadPage(page, target); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}

			mu.Lock()
			done++
			status := fmt.Sprintf("%sUploading (%d/%d)", prefix, done, total)
			progress := 0.1 + 0.8*float64(done)/float64(total)
			mu.Unlock()
			u.emit(ProgressEvent{Key: chapter.Key, Status: status, Progress: progress})
		}(page, targets[i])
	}

	wg.Wait()
	return firstErr
}

// uploadPage encodes one page and transfers it. No retry here: retrying is
// the chapter worker's job, and it restarts the whole attempt.
func (u *Uploader) uploadPage(page data.Page, target string) error {
	jpegData, err := u.encode(page.Path)
	if err != nil {
		return fmt.Errorf("page %d: %w", page.Index+1, err)
	}
	if err := u.service.PutPage(target, jpegData); err != nil {
		return fmt.Errorf("page %d: %w", page.Index+1, err)
	}
	return nil
}

func (u *Uploader) finalizePayload(chapter *data.Chapter, targets []string) comick.FinalizePayload {
	payload := comick.FinalizePayload{
		Chapter:  chapter.Number,
		Language: u.opts.Language,
		Images:   targets,
		Title:    chapter.Title,
		Volume:   u.opts.Volume,
	}
	switch u.opts.Group.Kind {
	case data.GroupOfficial:
		payload.IsOfficial = true
	case data.GroupNamed:
		payload.Groups = u.opts.Group.Groups
	case data.GroupUnofficial:
		// uploaded without group attribution
	}
	if u.opts.Timer > 0 {
		payload.Timer = strconv.Itoa(u.opts.Timer)
	}
	return payload
}

// emit publishes a progress event. Incremental updates are best-effort: if
// the consumer lags behind the buffer the update is dropped and the next one
// supersedes it. Terminal events are never dropped; the send blocks until the
// consumer takes it, so every chapter's completion reaches the stream.
func (u *Uploader) emit(event ProgressEvent) {
	if event.Terminal {
		u.events <- event
		return
	}
	select {
	case u.events <- event:
	default:
	}
}
