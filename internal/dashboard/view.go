package dashboard

import (
	"context"
	"errors"
	"sync"
)

// ErrViewClosed is returned when a closed view is asked to load.
var ErrViewClosed = errors.New("dashboard: view closed")

const slotAll = "*"

// View owns the state of one dashboard consumer. Every request it starts runs
// under the view's context; Close cancels them together and results that
// settle afterwards, or that a newer request for the same slot superseded,
// are dropped.
type View struct {
	svc    *Service
	ctx    context.Context
	cancel context.CancelFunc
	notify func(slot string)

	mu     sync.Mutex
	params Params
	dash   *Dashboard
	gens   map[string]uint64
	// latest holds the newest committed refetch per slot so a full load that
	// settles afterwards does not resurrect an older slot value.
	latest map[string]slotResult
	closed bool
	wg     sync.WaitGroup
}

type slotResult struct {
	gen uint64
	out Outcome
}

// ViewOption customises a View.
type ViewOption func(*View)

// WithNotify registers a callback invoked after a slot changed. "*" denotes a full load.
func WithNotify(fn func(slot string)) ViewOption {
	return func(v *View) { v.notify = fn }
}

// NewView creates a view bound to parent. p is validated on first use.
func NewView(parent context.Context, svc *Service, p Params, opts ...ViewOption) *View {
	ctx, cancel := context.WithCancel(parent)
	v := &View{svc: svc, ctx: ctx, cancel: cancel, params: p, gens: map[string]uint64{}, latest: map[string]slotResult{}}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Load starts a full load cycle in the background.
func (v *View) Load() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return ErrViewClosed
	}
	if err := v.params.Validate(); err != nil {
		return err
	}
	gen := v.bump(slotAll)
	p := v.params
	started := make(map[string]uint64, len(Refetchable))
	for _, slot := range Refetchable {
		started[slot] = v.gens[slot]
	}
	v.wg.Add(1)
	go func() {
		defer v.wg.Done()
		dash, _, err := v.svc.Load(v.ctx, p)
		if err != nil {
			return
		}
		v.commit(slotAll, gen, func() {
			for _, slot := range Refetchable {
				if v.gens[slot] == started[slot] {
					continue
				}
				if r, ok := v.latest[slot]; ok && r.gen == v.gens[slot] {
					dash = dash.WithRefetch(r.out, v.params, v.svc.Logger())
				}
			}
			v.dash = dash
		})
	}()
	return nil
}

// SetAgeBuckets changes the age histogram bucket count and refetches it.
func (v *View) SetAgeBuckets(n int) error {
	return v.refetch(DatasetAgeHistogram, func(p *Params) { p.AgeBuckets = n })
}

// SetIncomeBuckets changes the income histogram bucket count and refetches it.
func (v *View) SetIncomeBuckets(n int) error {
	return v.refetch(DatasetIncomeHistogram, func(p *Params) { p.IncomeBuckets = n })
}

// SetScatterLimit changes the scatter sample size and refetches it.
func (v *View) SetScatterLimit(n int) error {
	return v.refetch(DatasetAgeIncomeScatter, func(p *Params) { p.ScatterLimit = n })
}

func (v *View) refetch(slot string, change func(*Params)) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return ErrViewClosed
	}
	next := v.params
	change(&next)
	if err := next.Validate(); err != nil {
		return err
	}
	v.params = next
	gen := v.bump(slot)
	v.wg.Add(1)
	go func() {
		defer v.wg.Done()
		out, err := v.svc.Refetch(v.ctx, slot, next)
		if err != nil {
			return
		}
		v.commit(slot, gen, func() {
			v.latest[slot] = slotResult{gen: gen, out: out}
			if v.dash != nil {
				v.dash = v.dash.WithRefetch(out, next, v.svc.Logger())
			}
		})
	}()
	return nil
}

// bump must be called with mu held.
func (v *View) bump(slot string) uint64 {
	v.gens[slot]++
	return v.gens[slot]
}

func (v *View) commit(slot string, gen uint64, apply func()) {
	v.mu.Lock()
	if v.closed || v.ctx.Err() != nil || v.gens[slot] != gen {
		v.mu.Unlock()
		return
	}
	apply()
	notify := v.notify
	v.mu.Unlock()
	if notify != nil {
		notify(slot)
	}
}

// Snapshot returns the current dashboard, nil before the first load settled.
func (v *View) Snapshot() *Dashboard {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.dash
}

// Params returns the parameters of the most recent request.
func (v *View) Params() Params {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.params
}

// Wait blocks until every request started so far has settled.
func (v *View) Wait() {
	v.wg.Wait()
}

// Close cancels outstanding requests and discards their results.
func (v *View) Close() {
	v.mu.Lock()
	v.closed = true
	v.mu.Unlock()
	v.cancel()
	v.wg.Wait()
}
