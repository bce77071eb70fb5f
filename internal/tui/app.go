package tui

import (
	"context"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vetpraxis/vetpraxis/internal/config"
	"github.com/vetpraxis/vetpraxis/internal/database/repository"
	"github.com/vetpraxis/vetpraxis/internal/routing"
	"github.com/vetpraxis/vetpraxis/internal/service"
)

// Repos bundles repositories read directly by the views.
type Repos struct {
	Owners   *repository.OwnerRepo
	Patients *repository.PatientRepo
	Species  *repository.SpeciesRepo
}

// Services bundles the business-logic collaborators.
type Services struct {
	Owners      *service.OwnerService
	Patients    *service.PatientService
	Search      *service.SearchService
	Maintenance *service.MaintenanceService
	Intake      *service.IntakeFlow
}

// Routers bundles the form routers the app both drives (via the intake flow)
// and serves (rendering presented forms, resolving their outcomes).
type Routers struct {
	OwnerForms   *routing.FormRouter[service.OwnerFormMode, repository.Owner]
	PatientForms *routing.FormRouter[service.PatientFormMode, repository.Patient]
}

type appState string

const (
	viewDashboard appState = "dashboard"
	viewPatients  appState = "patients"
	viewOwners    appState = "owners"
	viewSettings  appState = "settings"
)

type modalState string

const (
	modalNone          modalState = ""
	modalOwnerForm     modalState = "ownerForm"
	modalPatientForm   modalState = "patientForm"
	modalConfirmDelete modalState = "confirmDelete"
	modalConfirmReset  modalState = "confirmReset"
	modalEditSetting   modalState = "editSetting"
)

// patientRoute is pushed onto the navigation path when a patient detail is
// opened.
type patientRoute struct {
	ID string
}

// App ties together views. It is the host integration surface for the form
// routers: it watches their Changed channels, renders whichever mode is
// presented as a modal, and resolves outcomes from user input.
type App struct {
	ctx      context.Context
	cfg      config.Config
	repos    Repos
	services Services
	routers  Routers
	log      *slog.Logger

	state appState
	modal modalState

	patients     service.Page[repository.Patient]
	owners       service.Page[repository.Owner]
	species      []repository.Species
	ownerName    map[string]string // owner id -> full name
	patCursor    int
	ownerCursor  int
	searchBuffer string
	searching    bool

	form            *formModel
	activeOwnerMode *service.OwnerFormMode
	activePatMode   *service.PatientFormMode

	settingsCursor int
	inputBuffer    string
	deleteTarget   string // patient/owner id pending confirm
	deleteKind     string

	detail *repository.Patient

	width  int
	height int
	status string
}

func New(ctx context.Context, cfg config.Config, repos Repos, services Services, routers Routers, log *slog.Logger) *App {
	if log == nil {
		log = slog.Default()
	}
	return &App{
		ctx:      ctx,
		cfg:      cfg,
		repos:    repos,
		services: services,
		routers:  routers,
		log:      log,
		state:    viewDashboard,
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.loadPatients(), a.loadOwners(), a.loadSpecies(),
		a.watchRouter(a.routers.OwnerForms.Changed(), modalOwnerForm),
		a.watchRouter(a.routers.PatientForms.Changed(), modalPatientForm),
	)
}

// watchRouter blocks on a router's coalescing change channel and turns each
// tick into a message; the handler re-arms it, so the app sees every state
// transition without polling.
func (a *App) watchRouter(ch <-chan struct{}, which modalState) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return routerChangedMsg{which: which}
	}
}

// loads

func (a *App) loadPatients() tea.Cmd {
	search := a.searchBuffer
	page := a.patients.Page
	return func() tea.Msg {
		p, err := a.services.Search.SearchPatients(a.ctx,
			repository.PatientFilters{Search: search}, page, a.cfg.UI.PageSize)
		if err != nil {
			return errMsg{err}
		}
		return patientsPageMsg(p)
	}
}

func (a *App) loadOwners() tea.Cmd {
	search := a.searchBuffer
	page := a.owners.Page
	return func() tea.Msg {
		p, err := a.services.Search.SearchOwners(a.ctx,
			repository.OwnerFilters{Search: search}, page, a.cfg.UI.PageSize)
		if err != nil {
			return errMsg{err}
		}
		return ownersPageMsg(p)
	}
}

func (a *App) loadSpecies() tea.Cmd {
	return func() tea.Msg {
		rows, err := a.repos.Species.List(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return speciesMsg(rows)
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
	case tea.KeyMsg:
		return a.handleKey(m)
	case routerChangedMsg:
		cmd := a.syncForms()
		var watch tea.Cmd
		if m.which == modalOwnerForm {
			watch = a.watchRouter(a.routers.OwnerForms.Changed(), modalOwnerForm)
		} else {
			watch = a.watchRouter(a.routers.PatientForms.Changed(), modalPatientForm)
		}
		return a, tea.Batch(cmd, watch)
	case patientsPageMsg:
		a.patients = service.Page[repository.Patient](m)
		if a.patCursor >= len(a.patients.Items) {
			a.patCursor = 0
		}
		return a, a.resolveOwnerNames()
	case ownersPageMsg:
		a.owners = service.Page[repository.Owner](m)
		if a.ownerCursor >= len(a.owners.Items) {
			a.ownerCursor = 0
		}
	case speciesMsg:
		a.species = []repository.Species(m)
	case ownerNamesMsg:
		a.ownerName = map[string]string(m)
	case formErrorsMsg:
		if a.form != nil {
			a.form.setErrors(m.errs)
		}
	case ownerFlowDoneMsg:
		a.flowFinished("client", m.out.IsSuccess(), m.out.Err())
		return a, tea.Batch(a.loadOwners(), a.loadPatients())
	case patientFlowDoneMsg:
		a.flowFinished("patient", m.out.IsSuccess(), m.out.Err())
		return a, a.loadPatients()
	case intakeDoneMsg:
		if res, ok := m.out.Value(); ok {
			a.status = fmt.Sprintf("registered %s for %s (%s)",
				res.Patient.Name, res.Owner.FullName(), res.Patient.MedicalID)
			a.log.Info("intake complete", "patient", res.Patient.ID, "owner", res.Owner.ID)
		} else {
			a.flowFinished("intake", false, m.out.Err())
		}
		return a, tea.Batch(a.loadOwners(), a.loadPatients())
	case reloadMsg:
		a.status = "deleted"
		return a, tea.Batch(a.loadOwners(), a.loadPatients())
	case statusMsg:
		a.status = string(m)
	case errMsg:
		a.status = "error: " + m.Error()
		a.log.Error("tui error", "err", m.error)
	}
	return a, nil
}

func (a *App) flowFinished(what string, ok bool, err error) {
	switch {
	case ok:
		a.status = what + " saved"
	case err != nil:
		a.status = fmt.Sprintf("%s failed: %v", what, err)
		a.log.Error("flow failed", "flow", what, "err", err)
	default:
		a.status = what + " cancelled"
	}
}

// syncForms reconciles the modal with what the routers currently present.
// The same mode stays on the same form model so typed input survives stray
// ticks; a new mode replaces the form, an idle router clears it.
func (a *App) syncForms() tea.Cmd {
	if mode, ok := a.routers.OwnerForms.Presented(); ok {
		if a.activeOwnerMode == nil || *a.activeOwnerMode != mode {
			m := mode
			a.activeOwnerMode = &m
			a.activePatMode = nil
			a.form = ownerForm(mode)
			a.modal = modalOwnerForm
		}
		return nil
	}
	if mode, ok := a.routers.PatientForms.Presented(); ok {
		if a.activePatMode == nil || *a.activePatMode != mode {
			m := mode
			a.activePatMode = &m
			a.activeOwnerMode = nil
			a.form = patientForm(mode, a.cfg.UI.DateFormat)
			a.modal = modalPatientForm
		}
		return nil
	}
	a.activeOwnerMode = nil
	a.activePatMode = nil
	if a.modal == modalOwnerForm || a.modal == modalPatientForm {
		a.modal = modalNone
		a.form = nil
	}
	return nil
}

// key handling

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.modal == modalOwnerForm || a.modal == modalPatientForm {
		return a.handleFormKey(m)
	}
	if a.modal == modalConfirmDelete || a.modal == modalConfirmReset {
		return a.handleConfirmKey(m)
	}
	if a.modal == modalEditSetting {
		return a.handleSettingInput(m)
	}
	if a.searching {
		return a.handleSearchKey(m)
	}
	if a.detail != nil {
		return a.handleDetailKey(m)
	}
	if a.state == viewSettings {
		return a.handleSettingsKey(m)
	}

	switch m.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "d":
		a.state = viewDashboard
	case "t", "1":
		a.state = viewPatients
		a.status = ""
	case "o", "2":
		a.state = viewOwners
		a.status = ""
	case "s":
		a.state = viewSettings
		a.status = ""
	case "/":
		if a.state == viewPatients || a.state == viewOwners {
			a.searching = true
		}
	case "up", "k":
		a.moveCursor(-1)
	case "down", "j":
		a.moveCursor(1)
	case "n":
		return a.startCreate()
	case "e":
		return a.startEdit()
	case "a":
		if a.state == viewOwners && len(a.owners.Items) > 0 {
			owner := a.owners.Items[a.ownerCursor]
			return a, a.addPatientCmd(owner)
		}
	case "N":
		return a, a.registerPatientCmd()
	case "x", "backspace", "delete":
		return a.startDelete()
	case "enter":
		if a.state == viewPatients && len(a.patients.Items) > 0 {
			p := a.patients.Items[a.patCursor]
			a.detail = &p
			a.routers.PatientForms.Navigate(patientRoute{ID: p.ID})
		}
	case "right", "l":
		return a.turnPage(1)
	case "left", "h":
		return a.turnPage(-1)
	}
	return a, nil
}

func (a *App) moveCursor(dir int) {
	switch a.state {
	case viewPatients:
		next := a.patCursor + dir
		if next >= 0 && next < len(a.patients.Items) {
			a.patCursor = next
		}
	case viewOwners:
		next := a.ownerCursor + dir
		if next >= 0 && next < len(a.owners.Items) {
			a.ownerCursor = next
		}
	}
}

func (a *App) turnPage(dir int) (tea.Model, tea.Cmd) {
	switch a.state {
	case viewPatients:
		next := a.patients.Page + dir
		if next >= 0 && next < a.patients.Pages() {
			a.patients.Page = next
			return a, a.loadPatients()
		}
	case viewOwners:
		next := a.owners.Page + dir
		if next >= 0 && next < a.owners.Pages() {
			a.owners.Page = next
			return a, a.loadOwners()
		}
	}
	return a, nil
}

func (a *App) startCreate() (tea.Model, tea.Cmd) {
	switch a.state {
	case viewOwners:
		return a, a.registerClientCmd()
	case viewPatients:
		if len(a.owners.Items) == 0 {
			return a, a.registerPatientCmd()
		}
		owner := a.owners.Items[a.ownerCursor]
		return a, a.addPatientCmd(owner)
	}
	return a, nil
}

func (a *App) startEdit() (tea.Model, tea.Cmd) {
	switch a.state {
	case viewPatients:
		if len(a.patients.Items) > 0 {
			return a, a.editPatientCmd(a.patients.Items[a.patCursor])
		}
	case viewOwners:
		if len(a.owners.Items) > 0 {
			return a, a.editClientCmd(a.owners.Items[a.ownerCursor])
		}
	}
	return a, nil
}

func (a *App) startDelete() (tea.Model, tea.Cmd) {
	switch a.state {
	case viewPatients:
		if len(a.patients.Items) > 0 {
			a.deleteKind = "patient"
			a.deleteTarget = a.patients.Items[a.patCursor].ID
			a.modal = modalConfirmDelete
		}
	case viewOwners:
		if len(a.owners.Items) > 0 {
			a.deleteKind = "owner"
			a.deleteTarget = a.owners.Items[a.ownerCursor].ID
			a.modal = modalConfirmDelete
		}
	}
	return a, nil
}

func (a *App) handleSearchKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Type {
	case tea.KeyEsc:
		a.searching = false
		a.searchBuffer = ""
		return a, tea.Batch(a.loadPatients(), a.loadOwners())
	case tea.KeyEnter:
		a.searching = false
		return a, tea.Batch(a.loadPatients(), a.loadOwners())
	case tea.KeyBackspace, tea.KeyCtrlH:
		if len(a.searchBuffer) > 0 {
			a.searchBuffer = a.searchBuffer[:len(a.searchBuffer)-1]
		}
	case tea.KeySpace:
		a.searchBuffer += " "
	case tea.KeyRunes:
		a.searchBuffer += string(m.Runes)
	}
	return a, nil
}

func (a *App) handleDetailKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "esc":
		a.detail = nil
		a.routers.PatientForms.DismissCurrent()
	case "e":
		if a.detail != nil {
			return a, a.editPatientCmd(*a.detail)
		}
	}
	return a, nil
}

// handleFormKey routes keys to the modal form. Esc resolves the active
// presentation as cancelled; enter hands the collected values to the save
// command, which validates, persists and resolves.
func (a *App) handleFormKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.form == nil {
		a.modal = modalNone
		return a, nil
	}
	submitted, cancelled, cmd := a.form.update(m)
	switch {
	case cancelled:
		if a.modal == modalOwnerForm {
			a.routers.OwnerForms.Resolve(routing.Cancelled[repository.Owner]())
		} else {
			a.routers.PatientForms.Resolve(routing.Cancelled[repository.Patient]())
		}
		return a, nil
	case submitted:
		vals := a.form.values()
		if a.modal == modalOwnerForm && a.activeOwnerMode != nil {
			return a, a.saveOwnerCmd(*a.activeOwnerMode, vals)
		}
		if a.modal == modalPatientForm && a.activePatMode != nil {
			return a, a.savePatientCmd(*a.activePatMode, vals)
		}
		return a, nil
	}
	return a, cmd
}

func (a *App) handleConfirmKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	reset := a.modal == modalConfirmReset
	switch m.String() {
	case "y", "Y":
		a.modal = modalNone
		if reset {
			return a, a.resetCmd()
		}
		return a, a.deleteCmd(a.deleteKind, a.deleteTarget)
	case "n", "N", "esc":
		a.modal = modalNone
		a.deleteTarget, a.deleteKind = "", ""
	}
	return a, nil
}

// commands driving the routing core

// registerClientCmd runs the blocking owner-form flow on a command goroutine;
// the router resumes it once the form is resolved.
func (a *App) registerClientCmd() tea.Cmd {
	return func() tea.Msg {
		return ownerFlowDoneMsg{out: a.services.Intake.RegisterClient(a.ctx)}
	}
}

func (a *App) editClientCmd(o repository.Owner) tea.Cmd {
	return func() tea.Msg {
		return ownerFlowDoneMsg{out: a.services.Intake.EditClient(a.ctx, o)}
	}
}

func (a *App) addPatientCmd(owner repository.Owner) tea.Cmd {
	return func() tea.Msg {
		return patientFlowDoneMsg{out: a.services.Intake.AddPatient(a.ctx, owner)}
	}
}

func (a *App) editPatientCmd(p repository.Patient) tea.Cmd {
	return func() tea.Msg {
		return patientFlowDoneMsg{out: a.services.Intake.EditPatient(a.ctx, p)}
	}
}

func (a *App) registerPatientCmd() tea.Cmd {
	return func() tea.Msg {
		return intakeDoneMsg{out: a.services.Intake.RegisterPatient(a.ctx)}
	}
}

// saveOwnerCmd validates and persists a submitted owner form, then resolves
// the router: field errors keep the form open, success and infrastructure
// failures both close it with the matching outcome.
func (a *App) saveOwnerCmd(mode service.OwnerFormMode, vals map[string]string) tea.Cmd {
	return func() tea.Msg {
		owner := parseOwnerForm(mode, vals)
		var (
			saved     repository.Owner
			fieldErrs []service.FieldError
			err       error
		)
		if mode.Kind == service.FormEdit {
			saved, fieldErrs, err = a.services.Owners.Update(a.ctx, owner)
		} else {
			saved, fieldErrs, err = a.services.Owners.Create(a.ctx, owner)
		}
		if err != nil {
			a.routers.OwnerForms.Resolve(routing.Failed[repository.Owner](err))
			return errMsg{err}
		}
		if len(fieldErrs) > 0 {
			return formErrorsMsg{errs: fieldErrs}
		}
		a.routers.OwnerForms.Resolve(routing.Succeeded(saved))
		return statusMsg("saved " + saved.FullName())
	}
}

func (a *App) savePatientCmd(mode service.PatientFormMode, vals map[string]string) tea.Cmd {
	return func() tea.Msg {
		patient, parseErrs := parsePatientForm(mode, vals, a.cfg.UI.DateFormat)
		if len(parseErrs) > 0 {
			return formErrorsMsg{errs: parseErrs}
		}
		var (
			saved     repository.Patient
			fieldErrs []service.FieldError
			err       error
		)
		if mode.Kind == service.FormEdit {
			saved, fieldErrs, err = a.services.Patients.Update(a.ctx, patient)
		} else {
			saved, fieldErrs, err = a.services.Patients.Create(a.ctx, patient)
		}
		if err != nil {
			a.routers.PatientForms.Resolve(routing.Failed[repository.Patient](err))
			return errMsg{err}
		}
		if len(fieldErrs) > 0 {
			return formErrorsMsg{errs: fieldErrs}
		}
		a.routers.PatientForms.Resolve(routing.Succeeded(saved))
		return statusMsg("saved " + saved.Name + " (" + saved.MedicalID + ")")
	}
}

func (a *App) deleteCmd(kind, id string) tea.Cmd {
	return func() tea.Msg {
		var err error
		if kind == "owner" {
			err = a.services.Owners.Delete(a.ctx, id)
		} else {
			err = a.services.Patients.Delete(a.ctx, id)
		}
		if err != nil {
			return errMsg{err}
		}
		return reloadMsg{}
	}
}

func (a *App) resetCmd() tea.Cmd {
	return func() tea.Msg {
		if err := a.services.Maintenance.Reset(a.ctx); err != nil {
			return errMsg{err}
		}
		return statusMsg("database reset")
	}
}

func (a *App) resolveOwnerNames() tea.Cmd {
	ids := make(map[string]struct{}, len(a.patients.Items))
	for _, p := range a.patients.Items {
		ids[p.OwnerID] = struct{}{}
	}
	return func() tea.Msg {
		names := make(map[string]string, len(ids))
		for id := range ids {
			o, err := a.repos.Owners.Get(a.ctx, id)
			if err != nil || o == nil {
				continue
			}
			names[id] = o.FullName()
		}
		return ownerNamesMsg(names)
	}
}

// messages

type patientsPageMsg service.Page[repository.Patient]

type ownersPageMsg service.Page[repository.Owner]

type speciesMsg []repository.Species

type ownerNamesMsg map[string]string

type statusMsg string

type errMsg struct{ error }

type reloadMsg struct{}

type routerChangedMsg struct{ which modalState }

type formErrorsMsg struct{ errs []service.FieldError }

type ownerFlowDoneMsg struct{ out routing.Outcome[repository.Owner] }

type patientFlowDoneMsg struct{ out routing.Outcome[repository.Patient] }

type intakeDoneMsg struct{ out routing.Outcome[service.IntakeResult] }

// styles
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle    = lipgloss.NewStyle().Faint(true)
	cursorStyle = lipgloss.NewStyle().Bold(true)
)
