package models

import "time"

// TopicBucket aggregates issued records for one topic-area code.
type TopicBucket struct {
	TopicAreaCode string `db:"topic_area_code" json:"topic_area_code"`
	TopicAreaName string `json:"topic_area_name"`
	Total         int    `db:"total" json:"total"`
	Passed        int    `db:"passed" json:"passed"`
	Failed        int    `db:"failed" json:"failed"`
}

// SummaryReport is the derived periodic aggregation used for regulatory
// submission. It has no persistence of its own.
type SummaryReport struct {
	TenantID    string        `json:"tenant_id"`
	Period      string        `json:"period"`
	From        time.Time     `json:"from"`
	To          time.Time     `json:"to"`
	Buckets     []TopicBucket `json:"buckets"`
	Total       int           `json:"total"`
	Passed      int           `json:"passed"`
	Failed      int           `json:"failed"`
	GeneratedAt time.Time     `json:"generated_at"`
}
