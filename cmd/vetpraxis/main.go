package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vetpraxis/vetpraxis/internal/config"
	"github.com/vetpraxis/vetpraxis/internal/database"
	"github.com/vetpraxis/vetpraxis/internal/database/repository"
	"github.com/vetpraxis/vetpraxis/internal/logging"
	"github.com/vetpraxis/vetpraxis/internal/routing"
	"github.com/vetpraxis/vetpraxis/internal/service"
	"github.com/vetpraxis/vetpraxis/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, logCloser, err := logging.Open(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		log.Printf("warn: logging to %s unavailable: %v", cfg.Log.Path, err)
	}
	defer logCloser.Close()

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatalf("mkdir db dir: %v", err)
	}

	if err := database.RunMigrations(cfg.Database.Path, cfg.Database.MigrationsPath); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := database.SeedDefaults(ctx, db); err != nil {
		log.Fatalf("seed defaults: %v", err)
	}

	// repositories
	ownerRepo := repository.NewOwnerRepo(db)
	patientRepo := repository.NewPatientRepo(db)
	speciesRepo := repository.NewSpeciesRepo(db)

	// services
	medicalIDs := &service.MedicalIDService{DB: db, Patients: patientRepo}
	owners := &service.OwnerService{Owners: ownerRepo}
	patients := &service.PatientService{
		Patients:   patientRepo,
		Owners:     ownerRepo,
		Species:    speciesRepo,
		MedicalIDs: medicalIDs,
	}
	search := &service.SearchService{Patients: patientRepo, Owners: ownerRepo}
	maintenance := &service.MaintenanceService{DB: db}

	// form routers and the flows that drive them
	ownerForms := routing.NewFormRouter[service.OwnerFormMode, repository.Owner]()
	patientForms := routing.NewFormRouter[service.PatientFormMode, repository.Patient]()
	intake := &service.IntakeFlow{OwnerForms: ownerForms, PatientForms: patientForms}

	logger.Info("starting", "db", cfg.Database.Path)

	app := tui.New(ctx, cfg,
		tui.Repos{Owners: ownerRepo, Patients: patientRepo, Species: speciesRepo},
		tui.Services{Owners: owners, Patients: patients, Search: search, Maintenance: maintenance, Intake: intake},
		tui.Routers{OwnerForms: ownerForms, PatientForms: patientForms},
		logger,
	)

	p := tea.NewProgram(app, tea.WithAltScreen())
	_, runErr := p.Run()

	// Teardown: any flow still suspended on a form must resume with
	// cancelled before the routers are dropped.
	ownerForms.CancelActive()
	patientForms.CancelActive()

	if runErr != nil {
		fmt.Printf("error: %v\n", runErr)
	}
}
