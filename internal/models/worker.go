package models

import "time"

// Worker represents a platform user whose training is being certified.
// The table is owned by the account subsystem; this service only reads it.
type Worker struct {
	ID          string    `db:"id" json:"id"`
	TenantID    string    `db:"tenant_id" json:"tenant_id"`
	FullName    string    `db:"full_name" json:"full_name"`
	CURP        string    `db:"curp" json:"curp"`
	RFC         string    `db:"rfc" json:"rfc"`
	NSS         string    `db:"nss" json:"nss"`
	Occupation  string    `db:"occupation" json:"occupation"`
	JobTitle    string    `db:"job_title" json:"job_title"`
	Nationality string    `db:"nationality" json:"nationality"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
