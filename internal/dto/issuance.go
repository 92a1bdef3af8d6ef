package dto

// IssueRequest asks for a certificate to be issued for a completed
// enrollment. The tenant must match the caller's token scope.
type IssueRequest struct {
	TenantID string `json:"tenant_id" validate:"required"`
	UserID   string `json:"user_id" validate:"required"`
	CourseID string `json:"course_id" validate:"required"`
}
