package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// RecordStatus captures the certificate lifecycle. Records are immutable
// after issuance except for the explicit revoke transition.
type RecordStatus string

const (
	RecordIssued  RecordStatus = "ISSUED"
	RecordRevoked RecordStatus = "REVOKED"
)

// WorkerBlock is the point-in-time copy of the worker identity embedded
// in an issued certificate.
type WorkerBlock struct {
	FullName    string `json:"full_name"`
	CURP        string `json:"curp"`
	RFC         string `json:"rfc"`
	NSS         string `json:"nss"`
	Occupation  string `json:"occupation"`
	JobTitle    string `json:"job_title"`
	Nationality string `json:"nationality"`
}

// EmployerBlock copies the tenant legal identity at issuance time.
type EmployerBlock struct {
	LegalName           string `json:"legal_name"`
	RFC                 string `json:"rfc"`
	EmployerRegistryNum string `json:"employer_registry_num"`
	BusinessActivity    string `json:"business_activity"`
	Address             string `json:"address"`
	LegalRepresentative string `json:"legal_representative"`
}

// CourseBlock copies course metadata and compliance settings.
type CourseBlock struct {
	Name          string     `json:"name"`
	DurationHours int        `json:"duration_hours"`
	StartDate     *time.Time `json:"start_date,omitempty"`
	EndDate       *time.Time `json:"end_date,omitempty"`
	TopicAreaCode string     `json:"topic_area_code"`
	TopicAreaName string     `json:"topic_area_name"`
	Modality      Modality   `json:"modality"`
	Objective     string     `json:"objective"`
}

// InstructorBlock copies the trainer identity.
type InstructorBlock struct {
	Name             string         `json:"name"`
	Type             InstructorType `json:"type"`
	AgentRegistryNum *string        `json:"agent_registry_num,omitempty"`
}

// ResultBlock freezes the evaluation outcome. Passed is derived from the
// course threshold at issuance time and never recomputed.
type ResultBlock struct {
	Score           float64 `json:"score"`
	MinPassingScore float64 `json:"min_passing_score"`
	Passed          bool    `json:"passed"`
	Observations    *string `json:"observations,omitempty"`
}

// ComplianceRecord is an issued training certificate (constancia). The
// folio is unique per tenant and assigned exactly once.
type ComplianceRecord struct {
	ID            string          `db:"id" json:"id"`
	TenantID      string          `db:"tenant_id" json:"tenant_id"`
	Folio         int64           `db:"folio" json:"folio"`
	WorkerID      string          `db:"worker_id" json:"worker_id"`
	CourseID      string          `db:"course_id" json:"course_id"`
	Worker        WorkerBlock     `db:"worker" json:"worker"`
	Employer      EmployerBlock   `db:"employer" json:"employer"`
	Course        CourseBlock     `db:"course" json:"course"`
	Instructor    InstructorBlock `db:"instructor" json:"instructor"`
	Result        ResultBlock     `db:"result" json:"result"`
	TopicAreaCode string          `db:"topic_area_code" json:"topic_area_code"`
	Passed        bool            `db:"passed" json:"passed"`
	IssuePlace    string          `db:"issue_place" json:"issue_place"`
	IssuedAt      time.Time       `db:"issued_at" json:"issued_at"`
	Status        RecordStatus    `db:"status" json:"status"`
	RevokedAt     *time.Time      `db:"revoked_at" json:"revoked_at,omitempty"`
}

// RecordFilter narrows record listings.
type RecordFilter struct {
	From     *time.Time
	To       *time.Time
	Status   *RecordStatus
	Page     int
	PageSize int
}

func jsonValue(v interface{}, label string) (driver.Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", label, err)
	}
	return data, nil
}

func jsonScan(dst interface{}, value interface{}, label string) error {
	if value == nil {
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for %s", value, label)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("unmarshal %s: %w", label, err)
	}
	return nil
}

// Value marshals the block to JSON for persistence.
func (b WorkerBlock) Value() (driver.Value, error) { return jsonValue(b, "worker block") }

// Scan unmarshals a JSON payload into the block.
func (b *WorkerBlock) Scan(value interface{}) error { return jsonScan(b, value, "worker block") }

// Value marshals the block to JSON for persistence.
func (b EmployerBlock) Value() (driver.Value, error) { return jsonValue(b, "employer block") }

// Scan unmarshals a JSON payload into the block.
func (b *EmployerBlock) Scan(value interface{}) error { return jsonScan(b, value, "employer block") }

// Value marshals the block to JSON for persistence.
func (b CourseBlock) Value() (driver.Value, error) { return jsonValue(b, "course block") }

// Scan unmarshals a JSON payload into the block.
func (b *CourseBlock) Scan(value interface{}) error { return jsonScan(b, value, "course block") }

// Value marshals the block to JSON for persistence.
func (b InstructorBlock) Value() (driver.Value, error) { return jsonValue(b, "instructor block") }

// Scan unmarshals a JSON payload into the block.
func (b *InstructorBlock) Scan(value interface{}) error { return jsonScan(b, value, "instructor block") }

// Value marshals the block to JSON for persistence.
func (b ResultBlock) Value() (driver.Value, error) { return jsonValue(b, "result block") }

// Scan unmarshals a JSON payload into the block.
func (b *ResultBlock) Scan(value interface{}) error { return jsonScan(b, value, "result block") }
