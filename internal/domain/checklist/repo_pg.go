package checklist

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tnav/tnav/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *repoPG) GetByPatient(ctx context.Context, patientID uuid.UUID) (*Checklist, error) {
	var cl Checklist
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, patient_id, items, created_at, updated_at
		FROM checklist WHERE patient_id = $1`, patientID).
		Scan(&cl.ID, &cl.PatientID, &cl.Items, &cl.CreatedAt, &cl.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	cl.Normalize()
	return &cl, nil
}

func (r *repoPG) Create(ctx context.Context, cl *Checklist) error {
	cl.Normalize()
	if cl.ID == uuid.Nil {
		cl.ID = uuid.New()
	}
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO checklist (id, patient_id, items)
		VALUES ($1,$2,$3)
		RETURNING created_at, updated_at`,
		cl.ID, cl.PatientID, cl.Items).
		Scan(&cl.CreatedAt, &cl.UpdatedAt)
}

func (r *repoPG) Save(ctx context.Context, cl *Checklist) error {
	cl.Normalize()
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE checklist SET items = $2, updated_at = now()
		WHERE id = $1`, cl.ID, cl.Items)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
