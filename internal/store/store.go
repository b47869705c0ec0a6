// Package store owns the entity boundary the import pipeline reconciles
// against: family members, medicines, and the append-only medication log.
package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/gyeh/rximport/internal/model"
)

// FamilyMemberStore resolves and creates the people medicines are tracked
// for, scoped to a user.
type FamilyMemberStore interface {
	// FindOrCreateSelf resolves the user's canonical "self" member,
	// creating it on first use. Idempotent: a second call never creates a
	// duplicate.
	FindOrCreateSelf(ctx context.Context, userID uuid.UUID, firstName, lastName string) (*model.FamilyMember, error)
	// FindByFuzzyName matches first and last name case-insensitively by
	// substring. Returns (nil, nil) when nothing matches.
	FindByFuzzyName(ctx context.Context, userID uuid.UUID, firstName, lastName string) (*model.FamilyMember, error)
	Create(ctx context.Context, m *model.FamilyMember) error
}

// MedicineStore resolves and persists medicines for one family member.
type MedicineStore interface {
	// FindByFuzzyName matches the medicine name case-insensitively by
	// substring within (user, familyMember). Returns (nil, nil) when
	// nothing matches.
	FindByFuzzyName(ctx context.Context, userID uuid.UUID, familyMemberID int64, name string) (*model.Medicine, error)
	Create(ctx context.Context, m *model.Medicine) error
	// Save persists the import-mutable fields of an existing medicine
	// (prescription number, prescriber).
	Save(ctx context.Context, m *model.Medicine) error
}

// MedicationLogStore appends fill events. Logs are never updated.
type MedicationLogStore interface {
	Create(ctx context.Context, l *model.MedicationLog) error
}

// Stores bundles the three entity stores the pipeline needs.
type Stores struct {
	FamilyMembers FamilyMemberStore
	Medicines     MedicineStore
	Logs          MedicationLogStore
}
