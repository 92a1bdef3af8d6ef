package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/capacita-api/internal/models"
)

// TenantProfileRepository persists tenant compliance profiles, including
// the folio counter consumed by the sequence allocator.
type TenantProfileRepository struct {
	db *sqlx.DB
}

// NewTenantProfileRepository constructs the repository.
func NewTenantProfileRepository(db *sqlx.DB) *TenantProfileRepository {
	return &TenantProfileRepository{db: db}
}

// Get fetches the profile for a tenant. sql.ErrNoRows passes through.
func (r *TenantProfileRepository) Get(ctx context.Context, tenantID string) (*models.TenantComplianceProfile, error) {
	const query = `SELECT tenant_id, employer_registry_num, legal_representative, registered_domicile, last_folio, updated_at
FROM tenant_compliance_profiles WHERE tenant_id = $1`
	var profile models.TenantComplianceProfile
	if err := r.db.GetContext(ctx, &profile, query, tenantID); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Upsert creates the profile lazily (counter starts at 0) or merges the
// supplied fields over existing values. Nil fields are left untouched and
// the counter is never written here.
func (r *TenantProfileRepository) Upsert(ctx context.Context, tenantID string, registryNum, legalRep, domicile *string) (*models.TenantComplianceProfile, error) {
	const query = `INSERT INTO tenant_compliance_profiles
	(tenant_id, employer_registry_num, legal_representative, registered_domicile, last_folio, updated_at)
VALUES ($1, COALESCE($2, ''), COALESCE($3, ''), COALESCE($4, ''), 0, $5)
ON CONFLICT (tenant_id)
DO UPDATE SET employer_registry_num = COALESCE($2, tenant_compliance_profiles.employer_registry_num),
              legal_representative  = COALESCE($3, tenant_compliance_profiles.legal_representative),
              registered_domicile   = COALESCE($4, tenant_compliance_profiles.registered_domicile),
              updated_at            = $5
RETURNING tenant_id, employer_registry_num, legal_representative, registered_domicile, last_folio, updated_at`
	var profile models.TenantComplianceProfile
	if err := r.db.GetContext(ctx, &profile, query, tenantID, registryNum, legalRep, domicile, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("upsert tenant profile: %w", err)
	}
	return &profile, nil
}

// CompareAndSwapFolio advances the counter to next only if it still holds
// expected. Returns false when another allocation won the race.
func (r *TenantProfileRepository) CompareAndSwapFolio(ctx context.Context, tenantID string, expected, next int64) (bool, error) {
	const query = `UPDATE tenant_compliance_profiles
SET last_folio = $3, updated_at = $4
WHERE tenant_id = $1 AND last_folio = $2`
	result, err := r.db.ExecContext(ctx, query, tenantID, expected, next, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("advance folio: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("advance folio result: %w", err)
	}
	return affected == 1, nil
}
