package models

import "time"

// Tenant represents the employer legal identity behind a workspace.
// Provisioning is handled elsewhere; this service only reads it.
type Tenant struct {
	ID               string    `db:"id" json:"id"`
	LegalName        string    `db:"legal_name" json:"legal_name"`
	RFC              string    `db:"rfc" json:"rfc"`
	BusinessActivity string    `db:"business_activity" json:"business_activity"`
	Street           string    `db:"street" json:"street"`
	City             string    `db:"city" json:"city"`
	State            string    `db:"state" json:"state"`
	PostalCode       string    `db:"postal_code" json:"postal_code"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// FullAddress joins the registered address parts for certificate output.
func (t Tenant) FullAddress() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{t.Street, t.City, t.State, t.PostalCode} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	result := ""
	for i, p := range parts {
		if i > 0 {
			result += ", "
		}
		result += p
	}
	return result
}

// TenantComplianceProfile carries the per-tenant compliance configuration
// and the folio counter used to number issued certificates. LastFolio is
// mutated only by the sequence allocator and never decreases.
type TenantComplianceProfile struct {
	TenantID            string    `db:"tenant_id" json:"tenant_id"`
	EmployerRegistryNum string    `db:"employer_registry_num" json:"employer_registry_num"`
	LegalRepresentative string    `db:"legal_representative" json:"legal_representative"`
	RegisteredDomicile  string    `db:"registered_domicile" json:"registered_domicile"`
	LastFolio           int64     `db:"last_folio" json:"last_folio"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}

// Configured reports whether the fields required for issuance are present.
func (p TenantComplianceProfile) Configured() bool {
	return p.EmployerRegistryNum != "" && p.LegalRepresentative != ""
}
