package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/gemdeps/pkg/scan"
)

func testProjects() []scan.Project {
	return []scan.Project{
		{Dir: "app", Rel: "app", Manifest: "app/Gemfile", Lockfile: "app/Gemfile.lock"},
		{Dir: "lib", Rel: "lib", Lockfile: "lib/Gemfile.lock"},
		{Dir: "tools", Rel: "tools", Manifest: "tools/Gemfile"},
	}
}

func update(m ProjectListModel, keys ...tea.KeyMsg) (ProjectListModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(k)
		m = next.(ProjectListModel)
	}
	return m, cmd
}

func TestProjectListNavigation(t *testing.T) {
	down := tea.KeyMsg{Type: tea.KeyDown}
	up := tea.KeyMsg{Type: tea.KeyUp}

	tests := []struct {
		name string
		keys []tea.KeyMsg
		want int
	}{
		{"start", nil, 0},
		{"down", []tea.KeyMsg{down}, 1},
		{"stops at last", []tea.KeyMsg{down, down, down, down}, 2},
		{"up stops at first", []tea.KeyMsg{up, up}, 0},
		{"vim keys", []tea.KeyMsg{{Type: tea.KeyRunes, Runes: []rune("j")}, {Type: tea.KeyRunes, Runes: []rune("j")}, {Type: tea.KeyRunes, Runes: []rune("k")}}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := update(NewProjectListModel(testProjects()), tt.keys...)
			if m.Cursor != tt.want {
				t.Errorf("Cursor = %d, want %d", m.Cursor, tt.want)
			}
		})
	}
}

func TestProjectListSelect(t *testing.T) {
	m, cmd := update(NewProjectListModel(testProjects()),
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyEnter})

	if m.Selected == nil || m.Selected.Rel != "lib" {
		t.Fatalf("Selected = %+v, want lib", m.Selected)
	}
	if cmd == nil {
		t.Error("enter should quit the program")
	}
}

func TestProjectListQuit(t *testing.T) {
	m, cmd := update(NewProjectListModel(testProjects()), tea.KeyMsg{Type: tea.KeyEsc})
	if m.Selected != nil {
		t.Errorf("Selected = %+v, want nil", m.Selected)
	}
	if cmd == nil {
		t.Error("esc should quit the program")
	}
}

func TestProjectListScrolls(t *testing.T) {
	m := NewProjectListModel(testProjects())
	m.Height = 2
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown})
	if m.Offset != 1 {
		t.Errorf("Offset = %d, want 1", m.Offset)
	}
}

func TestProjectListView(t *testing.T) {
	view := NewProjectListModel(testProjects()).View()
	for _, want := range []string{"Select Project", "app", "lib", "tools", "[1/3]"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}
}
