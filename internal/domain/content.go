package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// ContentAttachment is a fetched document embedded in a content snapshot,
// base64 encoded.
type ContentAttachment struct {
	Filename string `json:"filename"`
	Data     string `json:"data"`
}

type ContentAttachments []ContentAttachment

func (a ContentAttachments) Value() (driver.Value, error) {
	if a == nil {
		return json.Marshal(ContentAttachments{})
	}
	return json.Marshal(a)
}

func (a *ContentAttachments) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	case nil:
		*a = nil
		return nil
	}
	return fmt.Errorf("unsupported content attachments type %T", src)
}

// NotificationContent is one rendered, recipient-specific payload snapshot.
// Immutable once created.
type NotificationContent struct {
	ID             int64              `json:"id" db:"id"`
	NotificationID int64              `json:"notification_id" db:"notification_id"`
	Variant        Variant            `json:"variant" db:"variant"`
	Recipient      string             `json:"recipient" db:"recipient"`
	DevOnly        bool               `json:"dev_only" db:"dev_only"`
	FromName       string             `json:"from_name" db:"from_name"`
	Subject        string             `json:"subject" db:"subject"`
	HTMLBody       string             `json:"html_body" db:"html_body"`
	WATemplateName string             `json:"wa_template_name" db:"wa_template_name"`
	WALanguage     string             `json:"wa_language" db:"wa_language"`
	WAHeaderURL    string             `json:"wa_header_url" db:"wa_header_url"`
	WABodyValues   pq.StringArray     `json:"wa_body_values" db:"wa_body_values"`
	Attachments    ContentAttachments `json:"attachments,omitempty" db:"attachments"`
	CreatedAt      time.Time          `json:"created_at" db:"created_at"`
}
