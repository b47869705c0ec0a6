package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/gyeh/rximport/internal/model"
	"github.com/gyeh/rximport/internal/normalize"
	"github.com/gyeh/rximport/internal/store"
)

// Reconciler matches extracted fill records against the entity stores:
// resolve-or-create the family member, update-or-create the medicine,
// always append a fill log.
type Reconciler struct {
	stores store.Stores
}

// NewReconciler wires a Reconciler over the given stores.
func NewReconciler(stores store.Stores) *Reconciler {
	return &Reconciler{stores: stores}
}

// Outcome reports what one record's reconciliation did.
type Outcome struct {
	Member        *model.FamilyMember
	Medicine      *model.Medicine
	IsNewMedicine bool
	Log           *model.MedicationLog
}

// Reconcile processes one accepted fill record. Store failures propagate to
// the caller as a per-row error; the caller decides whether to continue.
func (rc *Reconciler) Reconcile(ctx context.Context, rec model.PrescriptionFillRecord, profile *model.PatientProfile, user model.RequestingUser, pharmacy string, batchID uuid.UUID) (*Outcome, error) {
	member, err := rc.resolveMember(ctx, profile, user)
	if err != nil {
		return nil, err
	}

	med, isNew, err := rc.resolveMedicine(ctx, rec, user, member, pharmacy)
	if err != nil {
		return nil, err
	}

	// One log per fill event, unconditionally. Re-importing the same file
	// appends duplicates.
	logEntry := &model.MedicationLog{
		UserID:         user.ID,
		MedicineID:     med.MedicineID,
		FamilyMemberID: member.FamilyMemberID,
		FillDate:       rec.FillDate,
		Quantity:       rec.Quantity,
		Note:           fmt.Sprintf("Imported from %s: Rx #%s, quantity %d", pharmacy, rec.PrescriptionNumber, rec.Quantity),
		ImportBatchID:  batchID,
	}
	if err := rc.stores.Logs.Create(ctx, logEntry); err != nil {
		return nil, fmt.Errorf("log fill event: %w", err)
	}

	return &Outcome{
		Member:        member,
		Medicine:      med,
		IsNewMedicine: isNew,
		Log:           logEntry,
	}, nil
}

// resolveMember finds the family member the record belongs to. A profile
// name resolves (or creates) a named member; no name means the records are
// the requesting user's own and go to the canonical "self" member.
func (rc *Reconciler) resolveMember(ctx context.Context, profile *model.PatientProfile, user model.RequestingUser) (*model.FamilyMember, error) {
	if profile == nil || profile.Name == "" {
		member, err := rc.stores.FamilyMembers.FindOrCreateSelf(ctx, user.ID, user.FirstName, user.LastName)
		if err != nil {
			return nil, fmt.Errorf("resolve self member: %w", err)
		}
		return member, nil
	}

	first, last := normalize.SplitName(profile.Name)
	member, err := rc.stores.FamilyMembers.FindByFuzzyName(ctx, user.ID, first, last)
	if err != nil {
		return nil, fmt.Errorf("find family member: %w", err)
	}
	if member != nil {
		return member, nil
	}

	notes := "Created from pharmacy record import."
	if profile.Address != "" {
		notes += " Address on file: " + profile.Address
	}
	member = &model.FamilyMember{
		UserID:       user.ID,
		FirstName:    first,
		LastName:     last,
		Relationship: "other",
		Phone:        profile.Phone,
		DateOfBirth:  profile.DateOfBirth,
		Gender:       profile.Gender,
		Notes:        notes,
	}
	if err := rc.stores.FamilyMembers.Create(ctx, member); err != nil {
		return nil, fmt.Errorf("create family member: %w", err)
	}
	return member, nil
}

// resolveMedicine updates an existing fuzzy-matched medicine or creates a
// new one seeded from the fill record. On an update only the prescription
// number and prescriber change; quantity and dosage are managed fields once
// a medicine exists.
func (rc *Reconciler) resolveMedicine(ctx context.Context, rec model.PrescriptionFillRecord, user model.RequestingUser, member *model.FamilyMember, pharmacy string) (*model.Medicine, bool, error) {
	med, err := rc.stores.Medicines.FindByFuzzyName(ctx, user.ID, member.FamilyMemberID, rec.Medication.Name)
	if err != nil {
		return nil, false, fmt.Errorf("find medicine: %w", err)
	}

	if med != nil {
		med.PrescriptionNumber = rec.PrescriptionNumber
		med.PrescribedBy = rec.Prescriber
		if err := rc.stores.Medicines.Save(ctx, med); err != nil {
			return nil, false, fmt.Errorf("update medicine: %w", err)
		}
		return med, false, nil
	}

	// Dosage timing is unknown on import; the defaults flag it for a human
	// to confirm later.
	fillDate := rec.FillDate
	med = &model.Medicine{
		UserID:             user.ID,
		FamilyMemberID:     member.FamilyMemberID,
		Name:               rec.Medication.Name,
		Strength:           rec.Medication.Strength,
		Form:               rec.Medication.Form,
		Dosage:             "1 tablet",
		Frequency:          "as-needed",
		TotalPills:         rec.Quantity,
		PillsRemaining:     rec.Quantity,
		PrescriptionNumber: rec.PrescriptionNumber,
		PrescribedBy:       rec.Prescriber,
		PrescriptionDate:   &fillDate,
		StartDate:          &fillDate,
		CopayCents:         rec.PriceCents,
		PharmacyName:       pharmacy,
	}
	if err := rc.stores.Medicines.Create(ctx, med); err != nil {
		return nil, false, fmt.Errorf("create medicine: %w", err)
	}
	return med, true, nil
}
