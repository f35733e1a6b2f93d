package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julicq/is-deprecated-or-not/pkg/kb"
)

func testRecords(n int) []kb.Record {
	names := []string{"distribute", "mock", "nose", "pep8", "pycrypto", "requests", "sklearn"}
	records := make([]kb.Record, n)
	for i := range records {
		records[i] = kb.Record{
			Name:            names[i%len(names)],
			DeprecatedSince: "2020-01-01",
			Reason:          "reason " + names[i%len(names)],
			Alternatives:    []kb.Alternative{{Name: "alt-" + names[i%len(names)]}},
		}
	}
	return records
}

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m PackageListModel, keys ...string) PackageListModel {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(PackageListModel)
	}
	return m
}

func TestPackageListNavigation(t *testing.T) {
	m := NewPackageListModel(testRecords(7))
	m.Height = 3

	m = press(m, "down", "down", "down")
	if m.Cursor != 3 || m.Offset != 1 {
		t.Errorf("after 3 downs: cursor=%d offset=%d, want 3/1", m.Cursor, m.Offset)
	}

	m = press(m, "up", "up", "up", "up")
	if m.Cursor != 0 || m.Offset != 0 {
		t.Errorf("after ups: cursor=%d offset=%d, want 0/0", m.Cursor, m.Offset)
	}

	m = press(m, "G")
	if m.Cursor != 6 || m.Offset != 4 {
		t.Errorf("after G: cursor=%d offset=%d, want 6/4", m.Cursor, m.Offset)
	}

	m = press(m, "j")
	if m.Cursor != 6 {
		t.Errorf("cursor moved past the end: %d", m.Cursor)
	}
}

func TestPackageListDetail(t *testing.T) {
	m := press(NewPackageListModel(testRecords(3)), "down", "enter")
	if !m.Expanded {
		t.Fatal("enter should expand the detail pane")
	}
	view := m.View()
	if !strings.Contains(view, "reason mock") || !strings.Contains(view, "alt-mock") {
		t.Errorf("detail pane missing selected record:\n%s", view)
	}
	if !strings.Contains(view, "[2/3]") {
		t.Errorf("position indicator missing:\n%s", view)
	}

	m = press(m, "enter")
	if m.Expanded || strings.Contains(m.View(), "reason mock") {
		t.Error("second enter should collapse the detail pane")
	}
}

func TestPackageListQuit(t *testing.T) {
	_, cmd := NewPackageListModel(testRecords(1)).Update(key("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestPackageListWindowSize(t *testing.T) {
	next, _ := NewPackageListModel(testRecords(2)).Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	if got := next.(PackageListModel).Height; got != 5 {
		t.Errorf("Height = %d, want minimum 5", got)
	}
}
