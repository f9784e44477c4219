package dashboard

import (
	"time"

	"github.com/google/uuid"
)

// Outcome is the settled result of one dataset: either Value or Err is set.
type Outcome struct {
	Name         string
	URL          string
	Value        any
	Unrecognized int
	Err          error
	Duration     time.Duration
}

// OK reports whether the dataset loaded.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Bundle holds exactly one outcome per planned dataset, in plan order.
type Bundle struct {
	CycleID  uuid.UUID
	Outcomes []Outcome
}

// Get returns the outcome for name.
func (b *Bundle) Get(name string) (Outcome, bool) {
	if b == nil {
		return Outcome{}, false
	}
	for _, o := range b.Outcomes {
		if o.Name == name {
			return o, true
		}
	}
	return Outcome{}, false
}

// FirstError returns the failure of the earliest dataset in plan order,
// regardless of which request failed first in time.
func (b *Bundle) FirstError() error {
	if b == nil {
		return nil
	}
	for _, o := range b.Outcomes {
		if o.Err != nil {
			return o.Err
		}
	}
	return nil
}

// Failed lists the names of failed datasets in plan order.
func (b *Bundle) Failed() []string {
	var names []string
	if b == nil {
		return names
	}
	for _, o := range b.Outcomes {
		if o.Err != nil {
			names = append(names, o.Name)
		}
	}
	return names
}

// Succeeded counts the datasets that loaded.
func (b *Bundle) Succeeded() int {
	if b == nil {
		return 0
	}
	n := 0
	for _, o := range b.Outcomes {
		if o.Err == nil {
			n++
		}
	}
	return n
}

// Value returns the typed value of a successful dataset.
func Value[T any](b *Bundle, name string) (T, bool) {
	var zero T
	o, ok := b.Get(name)
	if !ok || o.Err != nil {
		return zero, false
	}
	v, ok := o.Value.(T)
	if !ok {
		return zero, false
	}
	return v, true
}
