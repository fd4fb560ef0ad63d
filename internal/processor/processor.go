package processor

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"imgresize/internal/config"
	"imgresize/internal/logging"
)

// ErrNotValidated is returned by Run when the Settings did not come from
// config.Config.Validate.
var ErrNotValidated = errors.New("settings have not been validated")

// Pipeline runs one scan-then-resize pass over a directory tree.
type Pipeline struct {
	Settings config.Settings
	Log      *zap.SugaredLogger

	// Updates, when set, receives one ProgressUpdate per processed
	// candidate plus the total at the start of the resize phase. Run never
	// closes it.
	Updates chan<- ProgressUpdate

	// OnPhase, when set, is called synchronously as the run enters each
	// phase. total is the candidate count for PhaseResizing and PhaseDone.
	OnPhase func(phase Phase, total int)
}

// Run validates, scans, then resizes every candidate on a bounded pool of
// workers. Per-file failures never stop the run; they are logged and
// counted in the Summary. Cancelling ctx stops dispatching new candidates
// while files already being written are finished.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	var summary Summary
	log := p.Log
	if log == nil {
		log = logging.Nop()
	}

	p.enter(PhaseValidating, 0)
	if !p.Settings.Valid() {
		return summary, ErrNotValidated
	}

	p.enter(PhaseScanning, 0)
	scan, err := Scan(p.Settings.InputDir, p.Settings, log)
	if err != nil {
		return summary, err
	}
	summary.SkippedExtension = scan.SkippedExtension
	summary.SkippedSize = scan.SkippedSize
	summary.ScanErrors = scan.Errors
	summary.Candidates = len(scan.Candidates)

	p.enter(PhaseResizing, summary.Candidates)
	p.send(ProgressUpdate{TotalDelta: summary.Candidates})

	dispatched := p.resizeAll(ctx, scan.Candidates, log, &summary)
	summary.Cancelled = summary.Candidates - dispatched

	p.enter(PhaseDone, summary.Candidates)
	return summary, nil
}

func (p *Pipeline) resizeAll(ctx context.Context, candidates []Candidate, log *zap.SugaredLogger, summary *Summary) int {
	jobs := make(chan Candidate)
	results := make(chan Result)

	workers := p.Settings.Workers
	if workers < 1 {
		workers = 1
	}

	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for c := range jobs {
				results <- ResizeFile(c, p.Settings, log)
			}
			return nil
		})
	}

	dispatched := 0
	g.Go(func() error {
		defer close(jobs)
		for _, c := range candidates {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			select {
			case jobs <- c:
				dispatched++
			case <-ctx.Done():
				return nil
			}
		}
		return nil
	})

	go func() {
		_ = g.Wait()
		close(results)
	}()

	for res := range results {
		p.collect(res, log, summary)
	}
	return dispatched
}

func (p *Pipeline) collect(res Result, log *zap.SugaredLogger, summary *Summary) {
	summary.Processed++
	update := ProgressUpdate{ProcessedDelta: 1}

	switch res.Outcome {
	case OutcomeResized:
		summary.Resized++
		update.ResizedDelta = 1
		if res.BytesAfter > 0 {
			saved := res.Size - res.BytesAfter
			summary.BytesSaved += saved
			update.BytesSavedDelta = saved
		}
	case OutcomeSkippedDimensions:
		summary.SkippedDimensions++
		update.SkippedDelta = 1
	case OutcomeError:
		summary.Errors++
		update.ErrorDelta = 1
		log.Errorw("error with file", "path", res.Path, "stage", string(res.Stage), "error", res.Err)
	}

	p.send(update)
}

func (p *Pipeline) enter(phase Phase, total int) {
	if p.OnPhase != nil {
		p.OnPhase(phase, total)
	}
}

func (p *Pipeline) send(update ProgressUpdate) {
	if p.Updates != nil {
		p.Updates <- update
	}
}
