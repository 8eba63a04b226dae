package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// MaxErrorLen bounds every error string persisted or returned by the
// dispatch pipeline.
const MaxErrorLen = 500

type Variant string

const (
	VariantEmail    Variant = "EMAIL"
	VariantWhatsApp Variant = "WHATSAPP"
	VariantSMS      Variant = "SMS"
	VariantWeb      Variant = "WEB"
	VariantOther    Variant = "OTHER"
)

func (v Variant) Valid() bool {
	switch v {
	case VariantEmail, VariantWhatsApp, VariantSMS, VariantWeb, VariantOther:
		return true
	}
	return false
}

type NotificationType string

const (
	TypeExam      NotificationType = "EXAM"
	TypeFee       NotificationType = "FEE"
	TypeAdmission NotificationType = "ADMISSION"
	TypeOTP       NotificationType = "OTP"
	TypeGeneral   NotificationType = "GENERAL"
)

func (t NotificationType) Valid() bool {
	switch t {
	case TypeExam, TypeFee, TypeAdmission, TypeOTP, TypeGeneral:
		return true
	}
	return false
}

type NotificationStatus string

const (
	StatusPending NotificationStatus = "PENDING"
	StatusSent    NotificationStatus = "SENT"
	StatusFailed  NotificationStatus = "FAILED"
)

// Attachment is an externally hosted document reference. Either ObjectKey
// (MinIO) or URL is set; the document is fetched and encoded at render time.
type Attachment struct {
	Name      string `json:"name"`
	ObjectKey string `json:"object_key,omitempty"`
	URL       string `json:"url,omitempty"`
}

// EventPayload is the per-notification event metadata stored alongside the
// intent: the template data bag, the devOnly routing flag, and the extra
// recipients/attachments supplied at enqueue time.
type EventPayload struct {
	DevOnly                   bool            `json:"dev_only"`
	TemplateData              json.RawMessage `json:"template_data,omitempty"`
	OtherUsersEmails          []string        `json:"other_users_emails,omitempty"`
	OtherUsersWhatsAppNumbers []string        `json:"other_users_whatsapp_numbers,omitempty"`
	EmailAttachments          []Attachment    `json:"email_attachments,omitempty"`
}

func (p EventPayload) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *EventPayload) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	case nil:
		*p = EventPayload{}
		return nil
	}
	return fmt.Errorf("unsupported event payload type %T", src)
}

// Notification is one delivery intent. Status only ever moves
// PENDING -> SENT or PENDING -> FAILED; rows are never deleted.
type Notification struct {
	ID           int64              `json:"id" db:"id"`
	UserID       int64              `json:"user_id" db:"user_id"`
	Variant      Variant            `json:"variant" db:"variant"`
	Type         NotificationType   `json:"type" db:"type"`
	Message      string             `json:"message" db:"message"`
	MasterID     int64              `json:"master_id" db:"master_id"`
	Event        EventPayload       `json:"event" db:"event"`
	Status       NotificationStatus `json:"status" db:"status"`
	SentAt       *time.Time         `json:"sent_at,omitempty" db:"sent_at"`
	FailedAt     *time.Time         `json:"failed_at,omitempty" db:"failed_at"`
	FailedReason *string            `json:"failed_reason,omitempty" db:"failed_reason"`
	CreatedAt    time.Time          `json:"created_at" db:"created_at"`
}

// EnqueueInput is the wire contract of POST /enqueue.
type EnqueueInput struct {
	UserID                    int64            `json:"user_id"`
	Variant                   Variant          `json:"variant"`
	Type                      NotificationType `json:"type"`
	Message                   string           `json:"message"`
	NotificationMasterID      int64            `json:"notification_master_id"`
	TemplateData              json.RawMessage  `json:"template_data,omitempty"`
	OtherUsersEmails          []string         `json:"other_users_emails,omitempty"`
	OtherUsersWhatsAppNumbers []string         `json:"other_users_whatsapp_numbers,omitempty"`
	EmailAttachments          []Attachment     `json:"email_attachments,omitempty"`
}

func (in *EnqueueInput) Validate() error {
	if in.UserID <= 0 {
		return errors.New("user_id must be a positive integer")
	}
	if !in.Variant.Valid() {
		return fmt.Errorf("invalid variant %q", in.Variant)
	}
	if !in.Type.Valid() {
		return fmt.Errorf("invalid type %q", in.Type)
	}
	if in.Message == "" {
		return errors.New("message is required")
	}
	if in.NotificationMasterID <= 0 {
		return errors.New("notification_master_id must be a positive integer")
	}
	for _, a := range in.EmailAttachments {
		if a.ObjectKey == "" && a.URL == "" {
			return fmt.Errorf("attachment %q has neither object_key nor url", a.Name)
		}
	}
	return nil
}

// TruncateError caps an error string at MaxErrorLen runes before it is
// stored or returned.
func TruncateError(msg string) string {
	runes := []rune(msg)
	if len(runes) <= MaxErrorLen {
		return msg
	}
	return string(runes[:MaxErrorLen])
}
