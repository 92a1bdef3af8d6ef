package dto

// UpsertTenantProfileRequest partially updates the tenant compliance
// profile. Omitted fields keep their stored values; the folio counter is
// never writable through this payload.
type UpsertTenantProfileRequest struct {
	EmployerRegistryNum *string `json:"employer_registry_num,omitempty" validate:"omitempty,min=1,max=64"`
	LegalRepresentative *string `json:"legal_representative,omitempty" validate:"omitempty,min=1,max=160"`
	RegisteredDomicile  *string `json:"registered_domicile,omitempty" validate:"omitempty,min=1,max=240"`
}

// UpsertCourseProfileRequest partially updates a course compliance
// profile. Omitted fields keep their stored values.
type UpsertCourseProfileRequest struct {
	Enabled          *bool    `json:"enabled,omitempty"`
	TopicAreaCode    *string  `json:"topic_area_code,omitempty" validate:"omitempty,len=4,numeric"`
	DurationHours    *int     `json:"duration_hours,omitempty" validate:"omitempty,gt=0,lte=2000"`
	Modality         *string  `json:"modality,omitempty"`
	InstructorType   *string  `json:"instructor_type,omitempty"`
	InstructorName   *string  `json:"instructor_name,omitempty" validate:"omitempty,min=1,max=160"`
	AgentRegistryNum *string  `json:"agent_registry_num,omitempty" validate:"omitempty,max=64"`
	MinPassingScore  *float64 `json:"min_passing_score,omitempty" validate:"omitempty,gte=0,lte=100"`
}
