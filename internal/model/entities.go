package model

import (
	"time"

	"github.com/google/uuid"
)

// RequestingUser identifies the account an import runs under. Imported
// records that carry no patient name are attached to this user's canonical
// "self" family member.
type RequestingUser struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
}

// FamilyMember is a person medicines are tracked for, scoped to a user.
// Relationship "self" is canonical: at most one per user.
type FamilyMember struct {
	FamilyMemberID int64
	UserID         uuid.UUID
	FirstName      string
	LastName       string
	Relationship   string // "self", "other", ...
	Phone          string
	DateOfBirth    *time.Time
	Gender         string
	Notes          string
	CreatedAt      time.Time
}

// FullName joins the member's first and last names.
func (m *FamilyMember) FullName() string {
	if m.LastName == "" {
		return m.FirstName
	}
	return m.FirstName + " " + m.LastName
}

// Medicine is a tracked medication for one family member. Quantity and
// dosage are managed fields once the medicine exists; imports only touch
// the prescriber and prescription number on an existing medicine.
type Medicine struct {
	MedicineID         int64
	UserID             uuid.UUID
	FamilyMemberID     int64
	Name               string
	Strength           string
	Form               string
	Dosage             string
	Frequency          string
	TotalPills         int
	PillsRemaining     int
	PrescriptionNumber string
	PrescribedBy       string
	PrescriptionDate   *time.Time
	StartDate          *time.Time
	CopayCents         int64
	PharmacyName       string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// MedicationLog is an append-only record of one prescription fill event.
// Logs are never updated or deduplicated: re-importing the same file
// appends fresh rows.
type MedicationLog struct {
	MedicationLogID int64
	UserID          uuid.UUID
	MedicineID      int64
	FamilyMemberID  int64
	FillDate        time.Time
	Quantity        int
	Note            string
	ImportBatchID   uuid.UUID
	CreatedAt       time.Time
}
