package tui

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vetpraxis/vetpraxis/internal/config"
)

var settingsItems = []string{"Clinic name", "Date format", "Page size"}

func (a *App) settingsValues() []string {
	return []string{
		a.cfg.Clinic.Name,
		a.cfg.UI.DateFormat,
		strconv.Itoa(a.cfg.UI.PageSize),
	}
}

func (a *App) handleSettingsKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "esc", "d":
		a.state = viewDashboard
		a.status = ""
	case "up", "k":
		if a.settingsCursor > 0 {
			a.settingsCursor--
		}
	case "down", "j":
		if a.settingsCursor < len(settingsItems)-1 {
			a.settingsCursor++
		}
	case "enter":
		a.modal = modalEditSetting
		a.inputBuffer = a.settingsValues()[a.settingsCursor]
	case "x":
		a.modal = modalConfirmReset
	}
	return a, nil
}

func (a *App) handleSettingInput(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Type {
	case tea.KeyEsc:
		a.modal = modalNone
		a.inputBuffer = ""
	case tea.KeyEnter:
		text := strings.TrimSpace(a.inputBuffer)
		a.modal = modalNone
		a.inputBuffer = ""
		if text == "" {
			a.status = "enter a value"
			return a, nil
		}
		return a, a.applySettingCmd(a.settingsCursor, text)
	case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
		if len(a.inputBuffer) > 0 {
			a.inputBuffer = a.inputBuffer[:len(a.inputBuffer)-1]
		}
	case tea.KeySpace:
		a.inputBuffer += " "
	case tea.KeyRunes:
		a.inputBuffer += string(m.Runes)
	}
	return a, nil
}

func (a *App) applySettingCmd(idx int, text string) tea.Cmd {
	switch idx {
	case 0:
		a.cfg.Clinic.Name = text
	case 1:
		a.cfg.UI.DateFormat = text
	case 2:
		n, err := strconv.Atoi(text)
		if err != nil || n <= 0 {
			a.status = "page size must be a positive number"
			return nil
		}
		a.cfg.UI.PageSize = n
	}
	cfg := a.cfg
	return tea.Batch(
		func() tea.Msg {
			if err := config.Save(cfg); err != nil {
				return errMsg{err}
			}
			return statusMsg("settings saved")
		},
		a.loadPatients(),
		a.loadOwners(),
	)
}
