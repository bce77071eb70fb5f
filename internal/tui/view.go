package tui

import (
	"fmt"
	"strings"
	"time"
)

func (a *App) View() string {
	var body string
	switch {
	case a.detail != nil:
		body = a.renderDetail()
	case a.state == viewPatients:
		body = a.renderPatients()
	case a.state == viewOwners:
		body = a.renderOwners()
	case a.state == viewSettings:
		body = a.renderSettings()
	default:
		body = a.renderDashboard()
	}

	modal := a.renderModal()
	if modal == "" {
		return body
	}
	if a.width > 0 && a.height > 0 {
		return overlayCenter(body, modal, a.width, a.height)
	}
	return body + "\n\n" + modal
}

func (a *App) renderModal() string {
	switch a.modal {
	case modalOwnerForm, modalPatientForm:
		if a.form == nil {
			return ""
		}
		return a.form.view()
	case modalConfirmDelete:
		return titleStyle.Render("Delete "+a.deleteKind+"?") +
			"\nThis cannot be undone.\n[y] Yes  [n] No"
	case modalConfirmReset:
		return titleStyle.Render("Reset database?") +
			"\nThis will delete all clients and patients.\n[y] Yes  [n] No"
	case modalEditSetting:
		return titleStyle.Render("Edit "+settingsItems[a.settingsCursor]) +
			fmt.Sprintf("\n%s\n[enter] Save  [esc] Cancel", a.inputBuffer)
	}
	return ""
}

func (a *App) renderDashboard() string {
	title := titleStyle.Render(a.cfg.Clinic.Name + " - " + time.Now().Format("Monday 2 January 2006"))
	body := fmt.Sprintf("Patients: %d  Clients: %d", a.patients.Total, a.owners.Total)

	if len(a.patients.Items) > 0 {
		body += "\n\nRecent patients:"
		max := len(a.patients.Items)
		if max > 5 {
			max = 5
		}
		for _, p := range a.patients.Items[:max] {
			body += fmt.Sprintf("\n- %-10s %-20s %s", p.MedicalID, p.Name, p.Species)
		}
	}
	body += "\n\n[t] Patients  [o] Clients  [N] Register new client+patient  [s] Settings  [q] Quit"
	if a.status != "" {
		body += "\n" + a.status
	}
	return fmt.Sprintf("%s\n%s", title, body)
}

func (a *App) renderPatients() string {
	title := titleStyle.Render("Patients")
	out := title + a.renderSearchLine() + "\n"
	if len(a.patients.Items) == 0 {
		out += dimStyle.Render("(no patients)") + "\n"
	}
	for i, p := range a.patients.Items {
		marker := " "
		line := fmt.Sprintf("%s %-11s %-18s %-10s %-14s %s",
			marker, p.MedicalID, p.Name, p.Species, deref(p.Breed), a.ownerLabel(p.OwnerID))
		if i == a.patCursor {
			line = cursorStyle.Render("▶" + line[1:])
		}
		out += line + "\n"
	}
	out += a.renderPageLine(a.patients.Page, a.patients.Pages())
	out += "\n[enter] Detail  [n] New  [e] Edit  [x] Delete  [N] New client+patient  [/] Search  [h/l] Page  [d] Dashboard  [q] Quit"
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

func (a *App) renderOwners() string {
	title := titleStyle.Render("Clients")
	out := title + a.renderSearchLine() + "\n"
	if len(a.owners.Items) == 0 {
		out += dimStyle.Render("(no clients)") + "\n"
	}
	for i, o := range a.owners.Items {
		marker := " "
		line := fmt.Sprintf("%s %-24s %-26s %s",
			marker, o.FullName(), deref(o.Email), deref(o.Phone))
		if i == a.ownerCursor {
			line = cursorStyle.Render("▶" + line[1:])
		}
		out += line + "\n"
	}
	out += a.renderPageLine(a.owners.Page, a.owners.Pages())
	out += "\n[n] New client  [e] Edit  [a] Add patient  [x] Delete  [/] Search  [h/l] Page  [d] Dashboard  [q] Quit"
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

func (a *App) renderDetail() string {
	p := a.detail
	title := titleStyle.Render("Patient " + p.MedicalID)
	lines := []string{
		title,
		"Name:      " + p.Name,
		"Species:   " + p.Species,
		"Breed:     " + deref(p.Breed),
		"Sex:       " + p.Sex,
		"Owner:     " + a.ownerLabel(p.OwnerID),
	}
	if p.BirthDate != nil {
		lines = append(lines, "Born:      "+p.BirthDate.Format(a.cfg.UI.DateFormat))
	}
	if p.WeightKg != nil {
		lines = append(lines, fmt.Sprintf("Weight:    %.1f kg", *p.WeightKg))
	}
	if p.Microchip != nil {
		lines = append(lines, "Microchip: "+*p.Microchip)
	}
	if p.Notes != nil {
		lines = append(lines, "", *p.Notes)
	}
	lines = append(lines, "", "[e] Edit  [esc] Back")
	if a.status != "" {
		lines = append(lines, a.status)
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderSettings() string {
	title := titleStyle.Render("Settings")
	out := title + "\n"
	values := a.settingsValues()
	for i, item := range settingsItems {
		marker := " "
		if i == a.settingsCursor {
			marker = "▶"
		}
		out += fmt.Sprintf("%s %-12s %s\n", marker, item, values[i])
	}
	out += "\n[enter] Edit  [x] Reset database  [esc] Back  [q] Quit"
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

func (a *App) renderSearchLine() string {
	if a.searching {
		return "  /" + a.searchBuffer + "▏"
	}
	if a.searchBuffer != "" {
		return dimStyle.Render("  filter: " + a.searchBuffer)
	}
	return ""
}

func (a *App) renderPageLine(page, pages int) string {
	if pages <= 1 {
		return ""
	}
	return dimStyle.Render(fmt.Sprintf("page %d/%d", page+1, pages))
}

func (a *App) ownerLabel(id string) string {
	if name, ok := a.ownerName[id]; ok && name != "" {
		return name
	}
	return id
}
