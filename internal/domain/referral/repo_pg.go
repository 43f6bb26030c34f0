package referral

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

func (r *repoPG) GetByPatient(ctx context.Context, patientID uuid.UUID) (*State, error) {
	var st State
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT patient_id, location, has_referral, referral_source,
		       last_nephrologist, dialysis_center, preferred_centers,
		       referral_status, updated_at
		FROM referral_state WHERE patient_id = $1`, patientID).
		Scan(&st.PatientID, &st.Location, &st.HasReferral, &st.ReferralSource,
			&st.Nephrologist, &st.DialysisCenter, &st.PreferredCenters,
			&st.ReferralStatus, &st.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	st.Normalize()
	return &st, nil
}

func (r *repoPG) Save(ctx context.Context, st *State) error {
	st.Normalize()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO referral_state
			(patient_id, location, has_referral, referral_source,
			 last_nephrologist, dialysis_center, preferred_centers, referral_status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (patient_id) DO UPDATE SET
			location = EXCLUDED.location,
			has_referral = EXCLUDED.has_referral,
			referral_source = EXCLUDED.referral_source,
			last_nephrologist = EXCLUDED.last_nephrologist,
			dialysis_center = EXCLUDED.dialysis_center,
			preferred_centers = EXCLUDED.preferred_centers,
			referral_status = EXCLUDED.referral_status,
			updated_at = now()`,
		st.PatientID, st.Location, st.HasReferral, st.ReferralSource,
		st.Nephrologist, st.DialysisCenter, st.PreferredCenters, st.ReferralStatus)
	return err
}
