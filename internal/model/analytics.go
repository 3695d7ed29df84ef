package model

import "time"

// FormAnalytics records estimate-form funnel progress for one session.
type FormAnalytics struct {
	ID        string `json:"id"`
	SessionID string `json:"session_id"`

	StepReached     int  `json:"step_reached"`
	Completed       bool `json:"completed"`
	AbandonedAtStep *int `json:"abandoned_at_step,omitempty"`

	UserAgent string `json:"user_agent,omitempty"`
	IPAddress string `json:"ip_address,omitempty"`
	Referrer  string `json:"referrer,omitempty"`

	TimeSpentSeconds *int   `json:"time_spent_seconds,omitempty"`
	TestVariant      string `json:"test_variant,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
