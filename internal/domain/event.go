package domain

import (
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

// NotificationEvent is the render template bound to a master: email
// subject/body templates plus the WhatsApp template layout. Read-only at
// dispatch time.
type NotificationEvent struct {
	ID              int64           `json:"id" db:"id"`
	MasterID        int64           `json:"master_id" db:"master_id"`
	SubjectTemplate string          `json:"subject_template" db:"subject_template"`
	HTMLBody        string          `json:"html_body" db:"html_body"`
	WATemplateName  string          `json:"wa_template_name" db:"wa_template_name"`
	WALanguage      string          `json:"wa_language" db:"wa_language"`
	WAHeaderURL     string          `json:"wa_header_url" db:"wa_header_url"`
	WABodyParams    pq.StringArray  `json:"wa_body_params" db:"wa_body_params"`
	DefaultData     json.RawMessage `json:"default_data,omitempty" db:"default_data"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

type CreateEventInput struct {
	MasterID        int64           `json:"master_id"`
	SubjectTemplate string          `json:"subject_template"`
	HTMLBody        string          `json:"html_body"`
	WATemplateName  string          `json:"wa_template_name"`
	WALanguage      string          `json:"wa_language"`
	WAHeaderURL     string          `json:"wa_header_url"`
	WABodyParams    []string        `json:"wa_body_params"`
	DefaultData     json.RawMessage `json:"default_data,omitempty"`
}

type UpdateEventInput struct {
	SubjectTemplate *string         `json:"subject_template,omitempty"`
	HTMLBody        *string         `json:"html_body,omitempty"`
	WATemplateName  *string         `json:"wa_template_name,omitempty"`
	WALanguage      *string         `json:"wa_language,omitempty"`
	WAHeaderURL     *string         `json:"wa_header_url,omitempty"`
	WABodyParams    []string        `json:"wa_body_params,omitempty"`
	DefaultData     json.RawMessage `json:"default_data,omitempty"`
}
