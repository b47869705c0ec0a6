package ingest_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/gyeh/rximport/internal/model"
	"github.com/gyeh/rximport/internal/store"
)

// In-memory stores for pipeline tests. Fuzzy matching mirrors the Postgres
// ILIKE '%q%' semantics: the query must be a case-insensitive substring of
// the stored value.

func fuzzy(stored, query string) bool {
	return strings.Contains(strings.ToLower(stored), strings.ToLower(query))
}

type memMembers struct {
	seq     int64
	members []*model.FamilyMember
}

func (s *memMembers) FindOrCreateSelf(ctx context.Context, userID uuid.UUID, firstName, lastName string) (*model.FamilyMember, error) {
	for _, m := range s.members {
		if m.UserID == userID && m.Relationship == "self" {
			return m, nil
		}
	}
	m := &model.FamilyMember{UserID: userID, FirstName: firstName, LastName: lastName, Relationship: "self"}
	if err := s.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *memMembers) FindByFuzzyName(ctx context.Context, userID uuid.UUID, firstName, lastName string) (*model.FamilyMember, error) {
	for _, m := range s.members {
		if m.UserID == userID && fuzzy(m.FirstName, firstName) && fuzzy(m.LastName, lastName) {
			return m, nil
		}
	}
	return nil, nil
}

func (s *memMembers) Create(ctx context.Context, m *model.FamilyMember) error {
	s.seq++
	m.FamilyMemberID = s.seq
	s.members = append(s.members, m)
	return nil
}

func (s *memMembers) selfCount() int {
	n := 0
	for _, m := range s.members {
		if m.Relationship == "self" {
			n++
		}
	}
	return n
}

type memMedicines struct {
	seq       int64
	medicines []*model.Medicine
	saveCalls int
}

func (s *memMedicines) FindByFuzzyName(ctx context.Context, userID uuid.UUID, familyMemberID int64, name string) (*model.Medicine, error) {
	for _, m := range s.medicines {
		if m.UserID == userID && m.FamilyMemberID == familyMemberID && fuzzy(m.Name, name) {
			return m, nil
		}
	}
	return nil, nil
}

func (s *memMedicines) Create(ctx context.Context, m *model.Medicine) error {
	s.seq++
	m.MedicineID = s.seq
	s.medicines = append(s.medicines, m)
	return nil
}

func (s *memMedicines) Save(ctx context.Context, m *model.Medicine) error {
	s.saveCalls++
	return nil
}

type memLogs struct {
	seq    int64
	logs   []*model.MedicationLog
	failOn int64 // fail the Nth create (1-based); 0 never fails
}

func (s *memLogs) Create(ctx context.Context, l *model.MedicationLog) error {
	if s.failOn > 0 && s.seq+1 == s.failOn {
		s.seq++
		return fmt.Errorf("simulated log store failure")
	}
	s.seq++
	l.MedicationLogID = s.seq
	s.logs = append(s.logs, l)
	return nil
}

type memStores struct {
	members   *memMembers
	medicines *memMedicines
	logs      *memLogs
}

func newMemStores() *memStores {
	return &memStores{members: &memMembers{}, medicines: &memMedicines{}, logs: &memLogs{}}
}

func (s *memStores) stores() store.Stores {
	return store.Stores{FamilyMembers: s.members, Medicines: s.medicines, Logs: s.logs}
}
