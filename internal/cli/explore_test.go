package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/emberview/pkg/aggregate"
	"github.com/matzehuels/emberview/pkg/dashboard"
	"github.com/matzehuels/emberview/pkg/dataset"
)

var (
	keyLeft     = tea.KeyMsg{Type: tea.KeyLeft}
	keyRight    = tea.KeyMsg{Type: tea.KeyRight}
	keyUp       = tea.KeyMsg{Type: tea.KeyUp}
	keyDown     = tea.KeyMsg{Type: tea.KeyDown}
	keySpace    = tea.KeyMsg{Type: tea.KeySpace}
	keyTab      = tea.KeyMsg{Type: tea.KeyTab}
	keyShiftTab = tea.KeyMsg{Type: tea.KeyShiftTab}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// exploreRecords span 1955 to 2005 over three counties.
func exploreRecords() []dataset.Record {
	rows := []struct{ year, county, roof string }{
		{"1955", "Butte", "Asphalt"},
		{"1968", "Butte", "Tile"},
		{"1990", "Lake", "Asphalt"},
		{"2005", "Sonoma", "Metal"},
	}
	out := make([]dataset.Record, len(rows))
	for i, r := range rows {
		out[i] = dataset.NewRecord(dataset.Columns{}, map[string]string{
			dataset.DefaultColumns.YearBuilt: r.year,
			dataset.DefaultColumns.County:    r.county,
			"Roof Construction":              r.roof,
		})
	}
	return out
}

func newExploreModel(t *testing.T) ExploreModel {
	t.Helper()
	m := NewExploreModel(exploreRecords(), []string{"County", "Roof Construction"}, dashboard.Selection{})
	t.Cleanup(m.Close)
	return m
}

func press(m ExploreModel, keys ...tea.KeyMsg) ExploreModel {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(ExploreModel)
	}
	return m
}

func TestExploreUpdate(t *testing.T) {
	tests := []struct {
		name     string
		keys     []tea.KeyMsg
		from, to int
		group    string
		subset   int
	}{
		{"initial", nil, 1955, 2005, "County", 4},
		{"right moves start", []tea.KeyMsg{keyRight}, 1956, 2005, "County", 3},
		{"vim right", []tea.KeyMsg{runes("l")}, 1956, 2005, "County", 3},
		{"left clamps at data start", []tea.KeyMsg{keyLeft}, 1955, 2005, "County", 4},
		{"up moves ten years", []tea.KeyMsg{keyUp}, 1965, 2005, "County", 3},
		{"start cannot pass end", []tea.KeyMsg{keyUp, keyUp, keyUp, keyUp, keyUp, keyUp}, 2005, 2005, "County", 1},
		{"space focuses end", []tea.KeyMsg{keySpace, keyLeft}, 1955, 2004, "County", 3},
		{"right clamps at data end", []tea.KeyMsg{keySpace, keyRight}, 1955, 2005, "County", 4},
		{"down moves end", []tea.KeyMsg{keySpace, keyDown, keyDown}, 1955, 1985, "County", 2},
		{"space twice returns to start", []tea.KeyMsg{keySpace, keySpace, keyRight}, 1956, 2005, "County", 3},
		{"tab cycles group", []tea.KeyMsg{keyTab}, 1955, 2005, "Roof Construction", 4},
		{"tab wraps", []tea.KeyMsg{keyTab, keyTab}, 1955, 2005, "County", 4},
		{"shift+tab wraps back", []tea.KeyMsg{keyShiftTab}, 1955, 2005, "Roof Construction", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := press(newExploreModel(t), tt.keys...)

			sel := m.Selection()
			if sel.YearFrom != tt.from || sel.YearTo != tt.to {
				t.Errorf("window = %d:%d, want %d:%d", sel.YearFrom, sel.YearTo, tt.from, tt.to)
			}
			if sel.GroupField != tt.group {
				t.Errorf("group = %q, want %q", sel.GroupField, tt.group)
			}
			if m.state.subset != tt.subset {
				t.Errorf("subset = %d, want %d", m.state.subset, tt.subset)
			}
			if m.state.err != nil {
				t.Errorf("unexpected error: %v", m.state.err)
			}
		})
	}
}

func TestExploreBuckets(t *testing.T) {
	m := newExploreModel(t)
	if got := bucketKeys(m.state.years); got != "1950s 1960s 1990s 2000s" {
		t.Errorf("initial decades = %q", got)
	}
	if g := m.state.groups; len(g) != 3 || g[0].Key != "Butte" || g[0].Count != 2 {
		t.Errorf("county groups = %+v", g)
	}

	m = press(m, keyUp)
	if got := bucketKeys(m.state.years); got != "1960s 1990s 2000s" {
		t.Errorf("decades after moving start = %q", got)
	}

	m = press(m, keyTab)
	if g := m.state.groups; len(g) != 3 || g[0].Key != "Asphalt" || g[0].Count != 2 {
		t.Errorf("roof groups = %+v", g)
	}
	if got := bucketKeys(m.state.years); got != "1960s 1990s 2000s" {
		t.Errorf("changing the group should keep the decades, got %q", got)
	}
}

func TestExploreQuit(t *testing.T) {
	for _, k := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}, {Type: tea.KeyEsc}} {
		_, cmd := newExploreModel(t).Update(k)
		if cmd == nil {
			t.Errorf("%s should quit", k)
			continue
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s should return tea.Quit", k)
		}
	}

	if _, cmd := newExploreModel(t).Update(keyRight); cmd != nil {
		t.Error("moving the window should not return a command")
	}
}

func TestExploreIgnoresOtherMessages(t *testing.T) {
	m := newExploreModel(t)
	next, cmd := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	if cmd != nil {
		t.Error("unexpected command")
	}
	if sel := next.(ExploreModel).Selection(); sel != m.Selection() {
		t.Errorf("selection changed to %+v", sel)
	}
}

func bucketKeys(b []aggregate.Bucket) string {
	keys := make([]string, len(b))
	for i, bk := range b {
		keys[i] = bk.Key
	}
	return strings.Join(keys, " ")
}
