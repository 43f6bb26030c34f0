package pathway

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

func (r *repoPG) Upsert(ctx context.Context, st *PatientStatus) error {
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patient_status
			(id, patient_id, has_absolute, has_relative,
			 absolute_contraindications, relative_contraindications,
			 pathway_stage, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (patient_id) DO UPDATE SET
			has_absolute = EXCLUDED.has_absolute,
			has_relative = EXCLUDED.has_relative,
			absolute_contraindications = EXCLUDED.absolute_contraindications,
			relative_contraindications = EXCLUDED.relative_contraindications,
			pathway_stage = EXCLUDED.pathway_stage,
			updated_at = EXCLUDED.updated_at`,
		st.ID, st.PatientID, st.HasAbsolute, st.HasRelative,
		st.Absolute, st.Relative, st.PathwayStage, st.UpdatedAt)
	return err
}

func (r *repoPG) GetByPatient(ctx context.Context, patientID uuid.UUID) (*PatientStatus, error) {
	var st PatientStatus
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, patient_id, has_absolute, has_relative,
		       absolute_contraindications, relative_contraindications,
		       pathway_stage, updated_at
		FROM patient_status WHERE patient_id = $1`, patientID).
		Scan(&st.ID, &st.PatientID, &st.HasAbsolute, &st.HasRelative,
			&st.Absolute, &st.Relative, &st.PathwayStage, &st.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrStatusNotFound
	}
	if err != nil {
		return nil, err
	}
	if st.Absolute == nil {
		st.Absolute = []Contraindication{}
	}
	if st.Relative == nil {
		st.Relative = []Contraindication{}
	}
	return &st, nil
}
