package service

import (
	"context"

	"github.com/vetpraxis/vetpraxis/internal/database/repository"
	"github.com/vetpraxis/vetpraxis/internal/routing"
)

// IntakeResult is the payload of a completed new-client registration.
type IntakeResult struct {
	Owner   repository.Owner
	Patient repository.Patient
}

// IntakeFlow sequences the multi-form front-desk flows on top of the form
// routers. Each step is one present/resolve cycle; a cancelled or failed step
// ends the flow with that outcome. The routers are injected, so tests can
// drive the flow by resolving them directly.
type IntakeFlow struct {
	OwnerForms   routing.FormRouting[OwnerFormMode, repository.Owner]
	PatientForms routing.FormRouting[PatientFormMode, repository.Patient]
}

// RegisterClient presents the owner form and waits for the saved record.
func (f *IntakeFlow) RegisterClient(ctx context.Context) routing.Outcome[repository.Owner] {
	return f.OwnerForms.Present(ctx, OwnerFormMode{Kind: FormCreate})
}

// EditClient presents the owner form prefilled with the existing record.
func (f *IntakeFlow) EditClient(ctx context.Context, o repository.Owner) routing.Outcome[repository.Owner] {
	return f.OwnerForms.Present(ctx, OwnerFormMode{Kind: FormEdit, Owner: o})
}

// AddPatient presents the patient form for an existing owner.
func (f *IntakeFlow) AddPatient(ctx context.Context, owner repository.Owner) routing.Outcome[repository.Patient] {
	mode := PatientFormMode{Kind: FormCreate, Patient: repository.Patient{OwnerID: owner.ID}}
	return f.PatientForms.Present(ctx, mode)
}

// EditPatient presents the patient form prefilled with the existing record.
func (f *IntakeFlow) EditPatient(ctx context.Context, p repository.Patient) routing.Outcome[repository.Patient] {
	return f.PatientForms.Present(ctx, PatientFormMode{Kind: FormEdit, Patient: p})
}

// RegisterPatient runs the full new-client intake: owner form first, then the
// patient form pre-bound to the new owner. Cancelling either form cancels the
// whole flow; a failure propagates as failed.
func (f *IntakeFlow) RegisterPatient(ctx context.Context) routing.Outcome[IntakeResult] {
	ownerOut := f.OwnerForms.Present(ctx, OwnerFormMode{Kind: FormCreate})
	if err := ownerOut.Err(); err != nil {
		return routing.Failed[IntakeResult](err)
	}
	owner, ok := ownerOut.Value()
	if !ok {
		return routing.Cancelled[IntakeResult]()
	}

	patientOut := f.AddPatient(ctx, owner)
	if err := patientOut.Err(); err != nil {
		return routing.Failed[IntakeResult](err)
	}
	patient, ok := patientOut.Value()
	if !ok {
		return routing.Cancelled[IntakeResult]()
	}

	return routing.Succeeded(IntakeResult{Owner: owner, Patient: patient})
}
