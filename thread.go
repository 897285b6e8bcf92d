package tuipix

import (
	"image"
	"sync"
)

// renderJob is one resize+encode request handed to the worker. The
// generation stamps the request order so stale results can never
// overwrite fresher ones, no matter when they arrive.
type renderJob struct {
	area       Rect
	fit        FitMode
	generation uint64
}

// ThreadedImage runs the StatefulImage pipeline in a background
// goroutine. Render never blocks: it returns the last committed frame
// immediately and reports whether a fresh encode is still in flight.
// Requests coalesce under load; only the newest pending area is kept,
// since during an interactive resize the intermediate areas are obsolete
// by the time the worker would reach them.
type ThreadedImage struct {
	mu    sync.Mutex
	inner *StatefulImage

	issued    uint64
	committed uint64

	reqCh  chan renderJob
	resCh  chan *Frame
	done   chan struct{}
	closed bool
}

// NewThreadedImage attaches a source image with a dedicated render
// worker. Close it when done or the worker goroutine leaks.
func (p *Picker) NewThreadedImage(src image.Image) *ThreadedImage {
	t := &ThreadedImage{
		inner: p.NewImage(src),
		reqCh: make(chan renderJob, 1),
		resCh: make(chan *Frame, 1),
		done:  make(chan struct{}),
	}
	go t.worker()
	return t
}

// Protocol returns the backend this widget encodes with.
func (t *ThreadedImage) Protocol() Protocol {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inner.Protocol()
}

// SetFit changes the fit policy and invalidates the committed frame.
func (t *ThreadedImage) SetFit(fit FitMode) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inner.SetFit(fit)
}

// Render returns the freshest committed frame for area and whether a
// newer encode is pending. When the committed frame already matches the
// area it is returned with pending=false and no work is scheduled.
// Otherwise a job is dispatched (replacing any queued older job) and the
// stale frame, possibly nil before the first commit, is returned with
// pending=true. Callers typically redraw when pending flips to false.
func (t *ThreadedImage) Render(area Rect) (*Frame, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.drainLocked()

	if area.Empty() {
		return nil, false
	}
	if f := t.inner.frame; f != nil && f.Area == area && !t.inner.invalid {
		return f, false
	}
	if t.closed {
		return t.renderInlineLocked(area), false
	}

	t.issued++
	job := renderJob{area: area, fit: t.inner.fit, generation: t.issued}
	select {
	case t.reqCh <- job:
	default:
		// Queue full: the queued job targets an obsolete area. Replace it.
		select {
		case <-t.reqCh:
		default:
		}
		select {
		case t.reqCh <- job:
		default:
		}
	}
	return t.inner.frame, true
}

// Close stops the worker, commits any straggler result so its cleanup
// chains correctly, and returns the final cleanup sequence for the
// caller to write to the terminal. After Close, Render degrades to
// synchronous inline encoding.
func (t *ThreadedImage) Close() string {
	t.mu.Lock()
	if t.closed {
		defer t.mu.Unlock()
		return t.inner.Close()
	}
	t.closed = true
	close(t.reqCh)
	t.mu.Unlock()

	<-t.done

	t.mu.Lock()
	defer t.mu.Unlock()
	t.drainLocked()
	return t.inner.Close()
}

func (t *ThreadedImage) worker() {
	defer close(t.done)
	for job := range t.reqCh {
		f, err := t.inner.encode(job.area, job.fit)
		if err != nil {
			logger.Printf("background render for %+v failed: %v", job.area, err)
			continue
		}
		f.Generation = job.generation
		select {
		case t.resCh <- f:
		default:
			// Displace the undelivered older result.
			select {
			case <-t.resCh:
			default:
			}
			select {
			case t.resCh <- f:
			default:
			}
		}
	}
}

// drainLocked commits finished results. A result is committed only when
// its generation is newer than the committed one; late results from
// superseded jobs are dropped, which keeps commits ordered by request
// time rather than completion time.
func (t *ThreadedImage) drainLocked() {
	for {
		select {
		case f := <-t.resCh:
			if f.Generation > t.committed {
				t.committed = f.Generation
				t.inner.adopt(f)
			}
		default:
			return
		}
	}
}

func (t *ThreadedImage) renderInlineLocked(area Rect) *Frame {
	f, err := t.inner.encode(area, t.inner.fit)
	if err != nil {
		logger.Printf("inline render for %+v failed: %v", area, err)
		return t.inner.frame
	}
	t.issued++
	t.committed = t.issued
	f.Generation = t.issued
	t.inner.adopt(f)
	return f
}
