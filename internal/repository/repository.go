package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/BerylCAtieno/label-ocr-api/internal/models"
)

// DefaultListLimit caps List when the caller passes a non-positive limit.
const DefaultListLimit = 50

type Repository interface {
	Create(ctx context.Context, job *models.Job) error
	UpdateState(ctx context.Context, id string, state models.JobState) error
	Complete(ctx context.Context, id string, chunkCount int, records []models.ShipmentRecord, archiveKey string) error
	Fail(ctx context.Context, id, code, message string) error
	GetByID(ctx context.Context, id string) (*models.Job, error)
	List(ctx context.Context, limit int) ([]models.Job, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// jobRow adds the serialized records column to models.Job.
type jobRow struct {
	models.Job
	RecordsJSON sql.NullString `db:"records"`
}

func (r jobRow) toJob() (*models.Job, error) {
	job := r.Job
	if r.RecordsJSON.Valid && r.RecordsJSON.String != "" {
		if err := json.Unmarshal([]byte(r.RecordsJSON.String), &job.Records); err != nil {
			return nil, fmt.Errorf("failed to decode records of job %s: %w", job.ID, err)
		}
	}
	return &job, nil
}

const jobColumns = `id, filename, file_size, state, chunk_count, record_count, records,
	error_code, error_message, archive_key, created_at, updated_at, completed_at`

func (r *repository) Create(ctx context.Context, job *models.Job) error {
	query := `
		INSERT INTO jobs (id, filename, file_size, state, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		job.ID,
		job.Filename,
		job.FileSize,
		string(job.State),
		job.CreatedAt,
		job.UpdatedAt,
	)

	return err
}

func (r *repository) UpdateState(ctx context.Context, id string, state models.JobState) error {
	query := `UPDATE jobs SET state = ?, updated_at = ? WHERE id = ?`

	_, err := r.db.ExecContext(ctx, query, string(state), time.Now().UTC(), id)
	return err
}

func (r *repository) Complete(ctx context.Context, id string, chunkCount int, records []models.ShipmentRecord, archiveKey string) error {
	recordsJSON, err := json.Marshal(records)
	if err != nil {
		return err
	}

	var key *string
	if archiveKey != "" {
		key = &archiveKey
	}

	query := `
		UPDATE jobs
		SET state = ?, chunk_count = ?, record_count = ?, records = ?, archive_key = ?,
		    updated_at = ?, completed_at = ?
		WHERE id = ?
	`

	now := time.Now().UTC()
	_, err = r.db.ExecContext(ctx, query,
		string(models.StateCompleted),
		chunkCount,
		len(records),
		string(recordsJSON),
		key,
		now,
		now,
		id,
	)

	return err
}

func (r *repository) Fail(ctx context.Context, id, code, message string) error {
	query := `
		UPDATE jobs
		SET state = ?, error_code = ?, error_message = ?, updated_at = ?, completed_at = ?
		WHERE id = ?
	`

	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, query, string(models.StateFailed), code, message, now, now, id)
	return err
}

// GetByID returns nil without error when no job has that id.
func (r *repository) GetByID(ctx context.Context, id string) (*models.Job, error) {
	var row jobRow

	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = ?`

	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return row.toJob()
}

// List returns the most recent jobs first.
func (r *repository) List(ctx context.Context, limit int) ([]models.Job, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	var rows []jobRow
	query := `SELECT ` + jobColumns + ` FROM jobs ORDER BY created_at DESC, id LIMIT ?`
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, err
	}

	jobs := make([]models.Job, 0, len(rows))
	for _, row := range rows {
		job, err := row.toJob()
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, nil
}
