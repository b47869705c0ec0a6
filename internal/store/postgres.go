package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gyeh/rximport/internal/model"
)

// NewPGStores returns Postgres-backed stores sharing one pool.
func NewPGStores(pool *pgxpool.Pool) Stores {
	return Stores{
		FamilyMembers: &pgFamilyMemberStore{pool: pool},
		Medicines:     &pgMedicineStore{pool: pool},
		Logs:          &pgMedicationLogStore{pool: pool},
	}
}

// escapeLike escapes LIKE metacharacters so fuzzy-match input is treated
// literally inside the surrounding %...%.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

func contains(s string) string {
	return "%" + escapeLike(s) + "%"
}

type pgFamilyMemberStore struct {
	pool *pgxpool.Pool
}

const familyMemberColumns = `family_member_id, user_id, first_name, last_name, relationship,
	phone, date_of_birth, gender, notes, created_at`

func scanFamilyMember(row pgx.Row) (*model.FamilyMember, error) {
	var m model.FamilyMember
	err := row.Scan(&m.FamilyMemberID, &m.UserID, &m.FirstName, &m.LastName, &m.Relationship,
		&m.Phone, &m.DateOfBirth, &m.Gender, &m.Notes, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *pgFamilyMemberStore) FindOrCreateSelf(ctx context.Context, userID uuid.UUID, firstName, lastName string) (*model.FamilyMember, error) {
	lookup := func() (*model.FamilyMember, error) {
		return scanFamilyMember(s.pool.QueryRow(ctx,
			`SELECT `+familyMemberColumns+` FROM family_members
			 WHERE user_id = $1 AND relationship = 'self'`,
			userID,
		))
	}

	m, err := lookup()
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("lookup self member: %w", err)
	}

	created := &model.FamilyMember{
		UserID:       userID,
		FirstName:    firstName,
		LastName:     lastName,
		Relationship: "self",
	}
	if err := s.Create(ctx, created); err != nil {
		// The partial unique index on (user_id) WHERE relationship='self'
		// rejects concurrent creation; the winner is authoritative.
		m, err2 := lookup()
		if err2 != nil {
			return nil, fmt.Errorf("create self member: insert=%w, lookup=%w", err, err2)
		}
		return m, nil
	}
	return created, nil
}

func (s *pgFamilyMemberStore) FindByFuzzyName(ctx context.Context, userID uuid.UUID, firstName, lastName string) (*model.FamilyMember, error) {
	m, err := scanFamilyMember(s.pool.QueryRow(ctx,
		`SELECT `+familyMemberColumns+` FROM family_members
		 WHERE user_id = $1 AND first_name ILIKE $2 AND last_name ILIKE $3
		 ORDER BY family_member_id
		 LIMIT 1`,
		userID, contains(firstName), contains(lastName),
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find family member by name: %w", err)
	}
	return m, nil
}

func (s *pgFamilyMemberStore) Create(ctx context.Context, m *model.FamilyMember) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO family_members (user_id, first_name, last_name, relationship, phone, date_of_birth, gender, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING family_member_id, created_at`,
		m.UserID, m.FirstName, m.LastName, m.Relationship, m.Phone, m.DateOfBirth, m.Gender, m.Notes,
	).Scan(&m.FamilyMemberID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("create family member: %w", err)
	}
	return nil
}

type pgMedicineStore struct {
	pool *pgxpool.Pool
}

const medicineColumns = `medicine_id, user_id, family_member_id, name, strength, form,
	dosage, frequency, total_pills, pills_remaining, prescription_number, prescribed_by,
	prescription_date, start_date, copay_cents, pharmacy_name, created_at, updated_at`

func scanMedicine(row pgx.Row) (*model.Medicine, error) {
	var m model.Medicine
	err := row.Scan(&m.MedicineID, &m.UserID, &m.FamilyMemberID, &m.Name, &m.Strength, &m.Form,
		&m.Dosage, &m.Frequency, &m.TotalPills, &m.PillsRemaining, &m.PrescriptionNumber, &m.PrescribedBy,
		&m.PrescriptionDate, &m.StartDate, &m.CopayCents, &m.PharmacyName, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *pgMedicineStore) FindByFuzzyName(ctx context.Context, userID uuid.UUID, familyMemberID int64, name string) (*model.Medicine, error) {
	m, err := scanMedicine(s.pool.QueryRow(ctx,
		`SELECT `+medicineColumns+` FROM medicines
		 WHERE user_id = $1 AND family_member_id = $2 AND name ILIKE $3
		 ORDER BY medicine_id
		 LIMIT 1`,
		userID, familyMemberID, contains(name),
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find medicine by name: %w", err)
	}
	return m, nil
}

func (s *pgMedicineStore) Create(ctx context.Context, m *model.Medicine) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO medicines (user_id, family_member_id, name, strength, form, dosage, frequency,
			total_pills, pills_remaining, prescription_number, prescribed_by,
			prescription_date, start_date, copay_cents, pharmacy_name)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 RETURNING medicine_id, created_at, updated_at`,
		m.UserID, m.FamilyMemberID, m.Name, m.Strength, m.Form, m.Dosage, m.Frequency,
		m.TotalPills, m.PillsRemaining, m.PrescriptionNumber, m.PrescribedBy,
		m.PrescriptionDate, m.StartDate, m.CopayCents, m.PharmacyName,
	).Scan(&m.MedicineID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create medicine: %w", err)
	}
	return nil
}

func (s *pgMedicineStore) Save(ctx context.Context, m *model.Medicine) error {
	err := s.pool.QueryRow(ctx,
		`UPDATE medicines
		 SET prescription_number = $2, prescribed_by = $3, updated_at = now()
		 WHERE medicine_id = $1
		 RETURNING updated_at`,
		m.MedicineID, m.PrescriptionNumber, m.PrescribedBy,
	).Scan(&m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save medicine %d: %w", m.MedicineID, err)
	}
	return nil
}

type pgMedicationLogStore struct {
	pool *pgxpool.Pool
}

func (s *pgMedicationLogStore) Create(ctx context.Context, l *model.MedicationLog) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO medication_logs (user_id, medicine_id, family_member_id, fill_date, quantity, note, import_batch_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING medication_log_id, created_at`,
		l.UserID, l.MedicineID, l.FamilyMemberID, l.FillDate, l.Quantity, l.Note, l.ImportBatchID,
	).Scan(&l.MedicationLogID, &l.CreatedAt)
	if err != nil {
		return fmt.Errorf("create medication log: %w", err)
	}
	return nil
}

var (
	_ FamilyMemberStore  = (*pgFamilyMemberStore)(nil)
	_ MedicineStore      = (*pgMedicineStore)(nil)
	_ MedicationLogStore = (*pgMedicationLogStore)(nil)
)
