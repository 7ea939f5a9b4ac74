// Package dashboard holds the interactive state of the four-chart page and
// renders the page itself.
//
// A [View] owns the immutable record set and the active [Selection]. Input
// handlers call [View.SetYears] or [View.SetGroup]; every change publishes a
// subset-changed [Event] to the subscribed listeners, which re-aggregate and
// redraw. Listeners run synchronously in registration order and publishes
// are serialized, so a redraw never overlaps the next change.
package dashboard

import (
	"sync"

	"github.com/matzehuels/emberview/pkg/aggregate"
	"github.com/matzehuels/emberview/pkg/chart"
	"github.com/matzehuels/emberview/pkg/dataset"
	"github.com/matzehuels/emberview/pkg/errors"
)

// Selection is the state of the page controls.
type Selection struct {
	YearFrom   int    `json:"year_from"`
	YearTo     int    `json:"year_to"`
	GroupField string `json:"group_field"`
}

// Records returns the subset of records a chart kind is drawn from. The
// year window applies to the line graph only.
func (s Selection) Records(kind chart.Kind, records []dataset.Record) []dataset.Record {
	if kind == chart.KindLine && (s.YearFrom != 0 || s.YearTo != 0) {
		return aggregate.FilterYears(records, s.YearFrom, s.YearTo)
	}
	return records
}

// Event describes a change of the selection.
type Event struct {
	Selection Selection
	Changed   []chart.Kind // charts whose input changed
}

// Listener receives subset-changed events.
type Listener func(Event)

// View is the reactive state of a dashboard.
type View struct {
	records []dataset.Record

	mu        sync.RWMutex
	sel       Selection
	listeners []Listener

	emit sync.Mutex
}

// NewView creates a view over records with the given initial selection.
// A zero year window is widened to the full range of the data.
func NewView(records []dataset.Record, sel Selection) *View {
	if sel.YearFrom == 0 && sel.YearTo == 0 {
		sel.YearFrom, sel.YearTo, _ = aggregate.YearRange(records)
	}
	if sel.GroupField == "" {
		sel.GroupField = chart.TreemapField
	}
	return &View{records: records, sel: sel}
}

// Records returns the full record set.
func (v *View) Records() []dataset.Record { return v.records }

// Selection returns the current selection.
func (v *View) Selection() Selection {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.sel
}

// Subset returns the records kind is drawn from under the current selection.
func (v *View) Subset(kind chart.Kind) []dataset.Record {
	return v.Selection().Records(kind, v.records)
}

// Subscribe registers fn for subset-changed events. The returned function
// removes the subscription.
func (v *View) Subscribe(fn Listener) (unsubscribe func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	id := len(v.listeners)
	v.listeners = append(v.listeners, fn)
	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		if id < len(v.listeners) {
			v.listeners[id] = nil
		}
	}
}

// SetYears changes the year-built window of the line graph.
func (v *View) SetYears(from, to int) error {
	if err := errors.ValidateYearWindow(from, to); err != nil {
		return err
	}
	return v.update(func(s *Selection) []chart.Kind {
		if s.YearFrom == from && s.YearTo == to {
			return nil
		}
		s.YearFrom, s.YearTo = from, to
		return []chart.Kind{chart.KindLine}
	})
}

// SetGroup changes the column the treemap groups by.
func (v *View) SetGroup(field string) error {
	if err := errors.ValidateFieldName(field); err != nil {
		return err
	}
	return v.update(func(s *Selection) []chart.Kind {
		if s.GroupField == field {
			return nil
		}
		s.GroupField = field
		return []chart.Kind{chart.KindTreemap}
	})
}

func (v *View) update(change func(*Selection) []chart.Kind) error {
	v.emit.Lock()
	defer v.emit.Unlock()

	v.mu.Lock()
	changed := change(&v.sel)
	ev := Event{Selection: v.sel, Changed: changed}
	listeners := make([]Listener, len(v.listeners))
	copy(listeners, v.listeners)
	v.mu.Unlock()

	if len(changed) == 0 {
		return nil
	}
	for _, fn := range listeners {
		if fn != nil {
			fn(ev)
		}
	}
	return nil
}
