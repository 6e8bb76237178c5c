package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/medtrack/core/internal/domain/entities"
	"github.com/medtrack/core/internal/ports"
)

// MedicationRepositoryImpl implements the MedicationRepository interface.
// Intake times are stored as a text[] of "HH:MM" values and days of week as
// an integer[] using time.Weekday numbering (0 = Sunday).
type MedicationRepositoryImpl struct {
	db *sqlx.DB
}

// NewMedicationRepository creates a new medication repository
func NewMedicationRepository(db *sqlx.DB) ports.MedicationRepository {
	return &MedicationRepositoryImpl{db: db}
}

// medicationRow is the scan target; array columns need conversion before they
// become entity values.
type medicationRow struct {
	ID           uuid.UUID      `db:"id"`
	OwnerID      uuid.UUID      `db:"owner_id"`
	Name         string         `db:"name"`
	Urgency      string         `db:"urgency"`
	Dosage       string         `db:"dosage"`
	Instructions string         `db:"instructions"`
	IntakeTimes  pq.StringArray `db:"intake_times"`
	DaysOfWeek   pq.Int64Array  `db:"days_of_week"`
	Active       bool           `db:"active"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	DeletedAt    *time.Time     `db:"deleted_at"`
}

func (row *medicationRow) toEntity() *entities.Medication {
	intakeTimes := make([]entities.TimeOfDay, 0, len(row.IntakeTimes))
	for _, value := range row.IntakeTimes {
		t, err := entities.ParseTimeOfDay(value)
		if err != nil {
			// Preserve the malformed slot; the schedule engine decides how to
			// recover (midnight default or skip).
			t = entities.InvalidTimeOfDay
		}
		intakeTimes = append(intakeTimes, t)
	}

	days := make([]time.Weekday, 0, len(row.DaysOfWeek))
	for _, d := range row.DaysOfWeek {
		days = append(days, time.Weekday(d))
	}

	return &entities.Medication{
		ID:           row.ID,
		OwnerID:      row.OwnerID,
		Name:         row.Name,
		Urgency:      entities.Urgency(row.Urgency),
		Dosage:       row.Dosage,
		Instructions: row.Instructions,
		IntakeTimes:  intakeTimes,
		DaysOfWeek:   days,
		Active:       row.Active,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
		DeletedAt:    row.DeletedAt,
	}
}

func intakeTimesColumn(medication *entities.Medication) pq.StringArray {
	values := make(pq.StringArray, 0, len(medication.IntakeTimes))
	for _, t := range medication.IntakeTimes {
		values = append(values, t.String())
	}
	return values
}

func daysOfWeekColumn(medication *entities.Medication) pq.Int64Array {
	values := make(pq.Int64Array, 0, len(medication.DaysOfWeek))
	for _, d := range medication.DaysOfWeek {
		values = append(values, int64(d))
	}
	return values
}

const medicationColumns = `id, owner_id, name, urgency, dosage, instructions,
		intake_times, days_of_week, active, created_at, updated_at, deleted_at`

func (r *MedicationRepositoryImpl) Create(ctx context.Context, medication *entities.Medication) error {
	query := `
		INSERT INTO medications (id, owner_id, name, urgency, dosage, instructions,
			intake_times, days_of_week, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	if medication.ID == uuid.Nil {
		medication.ID = uuid.New()
	}

	err := r.db.QueryRowContext(ctx, query,
		medication.ID, medication.OwnerID, medication.Name, string(medication.Urgency),
		medication.Dosage, medication.Instructions,
		intakeTimesColumn(medication), daysOfWeekColumn(medication), medication.Active,
	).Scan(&medication.CreatedAt, &medication.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create medication: %w", err)
	}

	return nil
}

func (r *MedicationRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Medication, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM medications
		WHERE id = $1 AND deleted_at IS NULL`, medicationColumns)

	var row medicationRow
	err := r.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrMedicationNotFound
		}
		return nil, fmt.Errorf("get medication by id: %w", err)
	}

	return row.toEntity(), nil
}

func (r *MedicationRepositoryImpl) Update(ctx context.Context, medication *entities.Medication) error {
	query := `
		UPDATE medications
		SET name = $2, urgency = $3, dosage = $4, instructions = $5,
			intake_times = $6, days_of_week = $7, active = $8,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		medication.ID, medication.Name, string(medication.Urgency),
		medication.Dosage, medication.Instructions,
		intakeTimesColumn(medication), daysOfWeekColumn(medication), medication.Active,
	).Scan(&medication.UpdatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return entities.ErrMedicationNotFound
		}
		return fmt.Errorf("update medication: %w", err)
	}

	return nil
}

func (r *MedicationRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	// Soft delete; the intake times live on the row and go with it.
	query := `UPDATE medications SET deleted_at = CURRENT_TIMESTAMP WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete medication: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete medication: %w", err)
	}
	if rowsAffected == 0 {
		return entities.ErrMedicationNotFound
	}

	return nil
}

func (r *MedicationRepositoryImpl) ListByOwner(ctx context.Context, ownerID uuid.UUID, filter ports.MedicationFilter) ([]*entities.Medication, error) {
	query := fmt.Sprintf(`SELECT %s FROM medications`, medicationColumns)
	where, args := buildMedicationFilter(ownerID, filter)
	query += where

	sortBy := "created_at"
	switch filter.SortBy {
	case "name", "urgency", "updated_at":
		sortBy = filter.SortBy
	}
	order := "ASC"
	if strings.EqualFold(filter.SortOrder, "desc") {
		order = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s", sortBy, order)

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	var rows []medicationRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list medications: %w", err)
	}

	medications := make([]*entities.Medication, 0, len(rows))
	for i := range rows {
		medications = append(medications, rows[i].toEntity())
	}

	return medications, nil
}

func (r *MedicationRepositoryImpl) CountByOwner(ctx context.Context, ownerID uuid.UUID, filter ports.MedicationFilter) (int64, error) {
	query := `SELECT COUNT(*) FROM medications`
	where, args := buildMedicationFilter(ownerID, filter)
	query += where

	var count int64
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count medications: %w", err)
	}

	return count, nil
}

func (r *MedicationRepositoryImpl) FindActiveByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entities.Medication, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM medications
		WHERE owner_id = $1 AND active = TRUE AND deleted_at IS NULL
		ORDER BY created_at ASC`, medicationColumns)

	var rows []medicationRow
	if err := r.db.SelectContext(ctx, &rows, query, ownerID); err != nil {
		return nil, fmt.Errorf("find active medications: %w", err)
	}

	medications := make([]*entities.Medication, 0, len(rows))
	for i := range rows {
		medications = append(medications, rows[i].toEntity())
	}

	return medications, nil
}

func buildMedicationFilter(ownerID uuid.UUID, filter ports.MedicationFilter) (string, []interface{}) {
	conditions := []string{"owner_id = $1", "deleted_at IS NULL"}
	args := []interface{}{ownerID}

	if filter.Active != nil {
		args = append(args, *filter.Active)
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)))
	}
	if filter.Urgency != nil {
		args = append(args, string(*filter.Urgency))
		conditions = append(conditions, fmt.Sprintf("urgency = $%d", len(args)))
	}
	if filter.Search != nil && *filter.Search != "" {
		args = append(args, "%"+*filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", len(args)))
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}
