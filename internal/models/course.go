package models

import "time"

// Course represents course metadata owned by the content subsystem.
type Course struct {
	ID        string     `db:"id" json:"id"`
	TenantID  string     `db:"tenant_id" json:"tenant_id"`
	Name      string     `db:"name" json:"name"`
	Objective string     `db:"objective" json:"objective"`
	StartDate *time.Time `db:"start_date" json:"start_date,omitempty"`
	EndDate   *time.Time `db:"end_date" json:"end_date,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

// Modality enumerates the supported delivery modes.
type Modality string

const (
	ModalityOnsite Modality = "ONSITE"
	ModalityOnline Modality = "ONLINE"
	ModalityMixed  Modality = "MIXED"
)

// ValidModality reports whether m belongs to the controlled set.
func ValidModality(m Modality) bool {
	switch m {
	case ModalityOnsite, ModalityOnline, ModalityMixed:
		return true
	default:
		return false
	}
}

// InstructorType distinguishes internal trainers from registered external agents.
type InstructorType string

const (
	InstructorInternal      InstructorType = "INTERNAL"
	InstructorExternalAgent InstructorType = "EXTERNAL_AGENT"
)

// ValidInstructorType reports whether t belongs to the controlled set.
func ValidInstructorType(t InstructorType) bool {
	return t == InstructorInternal || t == InstructorExternalAgent
}

// TopicAreas is the controlled vocabulary of regulatory topic-area codes.
var TopicAreas = map[string]string{
	"1000": "Producción general",
	"2000": "Servicios",
	"3000": "Administración, contabilidad y economía",
	"4000": "Comercialización",
	"5000": "Mantenimiento y reparación",
	"6000": "Seguridad e higiene en el trabajo",
	"7000": "Desarrollo personal y familiar",
	"8000": "Uso de tecnologías de la información",
	"9000": "Participación social",
}

// TopicAreaName resolves a topic-area code to its description.
func TopicAreaName(code string) (string, bool) {
	name, ok := TopicAreas[code]
	return name, ok
}

// CourseComplianceProfile stores the per-course certification settings.
// A course cannot be used for issuance unless Enabled is true.
type CourseComplianceProfile struct {
	TenantID         string         `db:"tenant_id" json:"tenant_id"`
	CourseID         string         `db:"course_id" json:"course_id"`
	Enabled          bool           `db:"enabled" json:"enabled"`
	TopicAreaCode    string         `db:"topic_area_code" json:"topic_area_code"`
	TopicAreaName    string         `db:"topic_area_name" json:"topic_area_name"`
	DurationHours    int            `db:"duration_hours" json:"duration_hours"`
	Modality         Modality       `db:"modality" json:"modality"`
	InstructorType   InstructorType `db:"instructor_type" json:"instructor_type"`
	InstructorName   string         `db:"instructor_name" json:"instructor_name"`
	AgentRegistryNum *string        `db:"agent_registry_num" json:"agent_registry_num,omitempty"`
	MinPassingScore  float64        `db:"min_passing_score" json:"min_passing_score"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
}
