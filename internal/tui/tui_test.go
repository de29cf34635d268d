// SPDX-License-Identifier: MIT
package tui

import (
	"errors"
	"strings"
	"testing"

	"discolight/internal/audio"
	"discolight/internal/transport"

	tea "github.com/charmbracelet/bubbletea"
)

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestPanelModel_ShowsStates(t *testing.T) {
	m := NewPanelModel([]string{"low", "mid", "high"}, 16)

	updated, _ := m.Update(snapshotMsg(transport.Snapshot{
		Seq:      12,
		Counters: []int{16, 0, 4},
		States:   []bool{true, false, true},
		Overruns: 2,
	}))
	view := updated.(PanelModel).View()

	for _, want := range []string{"low", "mid", "high", "frame 12", "overruns 2", "●", "○"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Count(view, "●") != 2 {
		t.Errorf("expected two lit lamps:\n%s", view)
	}
}

func TestPanelModel_Quit(t *testing.T) {
	m := NewPanelModel([]string{"a"}, 16)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if !isQuit(cmd) {
		t.Error("q should quit the panel")
	}
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if cmd != nil {
		t.Error("other keys should be ignored")
	}
}

func TestDeviceListModel_SelectsInputDevice(t *testing.T) {
	fetch := func() ([]audio.Device, error) {
		return []audio.Device{
			{ID: 0, Name: "speakers", MaxOutputChannels: 2},
			{ID: 1, Name: "mic", MaxInputChannels: 1, DefaultSampleRate: 48000},
			{ID: 2, Name: "line in", MaxInputChannels: 2, DefaultSampleRate: 44100},
		}, nil
	}
	m := NewDeviceListModel(fetch)

	msg := m.Init()()
	var model tea.Model = m
	model, _ = model.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	model, _ = model.Update(msg)

	view := model.View()
	if strings.Contains(view, "speakers") {
		t.Errorf("output-only device listed:\n%s", view)
	}

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyDown})
	model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !isQuit(cmd) {
		t.Error("enter should quit the picker")
	}
	if got := model.(DeviceListModel).Chosen(); got != 2 {
		t.Errorf("Chosen = %d, want 2", got)
	}
}

func TestDeviceListModel_FetchError(t *testing.T) {
	m := NewDeviceListModel(func() ([]audio.Device, error) {
		return nil, errors.New("no portaudio")
	})
	model, cmd := m.Update(m.Init()())
	if !isQuit(cmd) {
		t.Error("fetch error should quit")
	}
	if model.(DeviceListModel).err == nil {
		t.Error("error not recorded")
	}
	if model.(DeviceListModel).Chosen() != -1 {
		t.Error("nothing should be chosen")
	}
}
