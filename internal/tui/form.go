package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vetpraxis/vetpraxis/internal/database/repository"
	"github.com/vetpraxis/vetpraxis/internal/service"
)

type formField struct {
	key         string
	label       string
	value       string
	placeholder string
}

// formModel is the modal form the app renders while a router reports a
// presented mode. It only collects text; parsing and validation happen in the
// submit command, and field errors come back in via setErrors for redisplay.
type formModel struct {
	title  string
	fields []formField
	inputs []textinput.Model
	focus  int
	errs   map[string]string
}

func newFormModel(title string, fields []formField) *formModel {
	inputs := make([]textinput.Model, 0, len(fields))
	for i, f := range fields {
		inp := textinput.New()
		inp.Prompt = fmt.Sprintf("%-12s ", f.label+":")
		inp.Placeholder = f.placeholder
		inp.SetValue(f.value)
		if i == 0 {
			inp.Focus()
		}
		inputs = append(inputs, inp)
	}
	return &formModel{title: title, fields: fields, inputs: inputs}
}

// update feeds a key to the form. submitted/cancelled report terminal
// keypresses; the caller decides what to do with the collected values.
func (f *formModel) update(msg tea.KeyMsg) (submitted, cancelled bool, cmd tea.Cmd) {
	switch msg.String() {
	case "esc":
		return false, true, nil
	case "enter":
		return true, false, nil
	case "tab", "down":
		f.moveFocus(1)
		return false, false, nil
	case "shift+tab", "up":
		f.moveFocus(-1)
		return false, false, nil
	}
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return false, false, cmd
}

func (f *formModel) moveFocus(dir int) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + dir + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

func (f *formModel) values() map[string]string {
	vals := make(map[string]string, len(f.fields))
	for i, fld := range f.fields {
		vals[fld.key] = strings.TrimSpace(f.inputs[i].Value())
	}
	return vals
}

func (f *formModel) setErrors(errs []service.FieldError) {
	f.errs = make(map[string]string, len(errs))
	for _, e := range errs {
		if _, ok := f.errs[e.Field]; !ok {
			f.errs[e.Field] = e.Message
		}
	}
}

func (f *formModel) view() string {
	lines := []string{titleStyle.Render(f.title), ""}
	for i, fld := range f.fields {
		lines = append(lines, f.inputs[i].View())
		if msg, ok := f.errs[fld.key]; ok {
			lines = append(lines, errorStyle.Render("  ! "+msg))
		}
	}
	lines = append(lines, "", "enter: save  esc: cancel  tab: next field")
	return strings.Join(lines, "\n")
}

// ownerForm builds the modal for an owner form mode.
func ownerForm(mode service.OwnerFormMode) *formModel {
	title := "New Client"
	if mode.Kind == service.FormEdit {
		title = "Edit Client"
	}
	o := mode.Owner
	return newFormModel(title, []formField{
		{key: "first_name", label: "First name", value: o.FirstName},
		{key: "last_name", label: "Last name", value: o.LastName},
		{key: "email", label: "Email", value: deref(o.Email), placeholder: "name@example.com"},
		{key: "phone", label: "Phone", value: deref(o.Phone)},
		{key: "address", label: "Address", value: deref(o.Address)},
	})
}

// parseOwnerForm maps submitted values back onto the mode's owner snapshot.
func parseOwnerForm(mode service.OwnerFormMode, vals map[string]string) repository.Owner {
	o := mode.Owner
	o.FirstName = vals["first_name"]
	o.LastName = vals["last_name"]
	o.Email = optional(vals["email"])
	o.Phone = optional(vals["phone"])
	o.Address = optional(vals["address"])
	return o
}

// patientForm builds the modal for a patient form mode.
func patientForm(mode service.PatientFormMode, dateFormat string) *formModel {
	title := "New Patient"
	if mode.Kind == service.FormEdit {
		title = "Edit Patient"
	}
	p := mode.Patient
	birth := ""
	if p.BirthDate != nil {
		birth = p.BirthDate.Format(dateFormat)
	}
	weight := ""
	if p.WeightKg != nil {
		weight = strconv.FormatFloat(*p.WeightKg, 'f', -1, 64)
	}
	return newFormModel(title, []formField{
		{key: "name", label: "Name", value: p.Name},
		{key: "species", label: "Species", value: p.Species, placeholder: "Canine"},
		{key: "breed", label: "Breed", value: deref(p.Breed)},
		{key: "sex", label: "Sex", value: p.Sex, placeholder: "male / female / neutered / spayed"},
		{key: "birth_date", label: "Born", value: birth, placeholder: time.Now().Format(dateFormat)},
		{key: "weight_kg", label: "Weight kg", value: weight},
		{key: "microchip", label: "Microchip", value: deref(p.Microchip)},
		{key: "notes", label: "Notes", value: deref(p.Notes)},
	})
}

// parsePatientForm maps submitted values back onto the mode's patient
// snapshot. Unparseable dates and weights come back as field errors so the
// form can redisplay them like validation failures.
func parsePatientForm(mode service.PatientFormMode, vals map[string]string, dateFormat string) (repository.Patient, []service.FieldError) {
	p := mode.Patient
	var errs []service.FieldError
	p.Name = vals["name"]
	p.Species = vals["species"]
	p.Breed = optional(vals["breed"])
	p.Sex = strings.ToLower(vals["sex"])
	p.Microchip = optional(vals["microchip"])
	p.Notes = optional(vals["notes"])

	p.BirthDate = nil
	if v := vals["birth_date"]; v != "" {
		t, err := time.Parse(dateFormat, v)
		if err != nil {
			errs = append(errs, service.FieldError{Field: "birth_date", Message: "expected format " + dateFormat})
		} else {
			p.BirthDate = &t
		}
	}
	p.WeightKg = nil
	if v := vals["weight_kg"]; v != "" {
		w, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, service.FieldError{Field: "weight_kg", Message: "not a number"})
		} else {
			p.WeightKg = &w
		}
	}
	return p, errs
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	v := strings.TrimSpace(s)
	return &v
}
