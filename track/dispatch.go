package track

import (
	"context"
	"sync"
)

// dispatch fans channel drivers out across a bounded worker pool (or runs
// them sequentially in channel order when opts.Multi is false), per
// spec.md sec 4.6/sec 5. Channels are fully independent: the only shared
// state is the read-only CA code table and sample stream, and a
// non-blocking progress sink. A panic inside one channel's worker is
// contained so it cannot corrupt its siblings' results.
//
// Grounded on the teacher's src/tq.go producer/consumer pattern
// (sync.Mutex + sync.Cond feeding a single transmit thread per radio
// channel); generalised here to a fixed-size worker pool pulling from a
// shared work queue, since tracking channels — unlike transmit queues —
// have no priority ordering requirement among themselves.
func dispatch(ctx context.Context, samples SampleStream, channels []ChannelSeed, opts Options) ([]TrackResult, error) {
	msToTrack := effectiveMsToTrack(opts.MsToTrack, samples.Len(), opts.SamplingFreq)

	results := make([]TrackResult, len(channels))

	progressFor := func(idx int) func(int) {
		return func(step int) {
			if opts.Progress == nil {
				return
			}
			frac := 0.0
			if msToTrack > 0 {
				frac = float64(step) / float64(msToTrack)
			}
			opts.Progress.Report(idx, frac)
		}
	}

	runOne := func(idx int) {
		defer func() {
			if r := recover(); r != nil {
				// A panicking channel must not corrupt its siblings; record
				// it as a cancelled, empty result instead of propagating.
				tr := newTrackResult(channels[idx].PRN, 0)
				tr.Status = StatusCancelled
				results[idx] = tr
			}
		}()
		results[idx] = runChannel(ctx, channels[idx], opts, msToTrack, samples, progressFor(idx))
	}

	if !opts.Multi {
		for idx := range channels {
			runOne(idx)
		}
		return results, nil
	}

	workers := opts.workerCount()
	if workers > len(channels) {
		workers = len(channels)
	}
	if workers < 1 {
		workers = 1
	}

	work := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				runOne(idx)
			}
		}()
	}
	for idx := range channels {
		work <- idx
	}
	close(work)
	wg.Wait()

	return results, nil
}
