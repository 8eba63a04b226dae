package domain

import "time"

// NotificationMaster is a named notification kind, e.g.
// "exam-form-submission". Masters own typed field declarations and free-form
// metadata; they are looked up by name at enqueue time.
type NotificationMaster struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type FieldType string

const (
	FieldString FieldType = "STRING"
	FieldNumber FieldType = "NUMBER"
	FieldBool   FieldType = "BOOL"
	FieldDate   FieldType = "DATE"
	FieldObject FieldType = "OBJECT"
	FieldArray  FieldType = "ARRAY"
)

func (t FieldType) Valid() bool {
	switch t {
	case FieldString, FieldNumber, FieldBool, FieldDate, FieldObject, FieldArray:
		return true
	}
	return false
}

type MasterField struct {
	ID       int64     `json:"id" db:"id"`
	MasterID int64     `json:"master_id" db:"master_id"`
	Name     string    `json:"name" db:"name"`
	Type     FieldType `json:"field_type" db:"field_type"`
	Required bool      `json:"required" db:"required"`
}

type MasterMeta struct {
	ID       int64  `json:"id" db:"id"`
	MasterID int64  `json:"master_id" db:"master_id"`
	Key      string `json:"key" db:"key"`
	Value    string `json:"value" db:"value"`
}

// Well-known master meta keys.
const (
	MetaFromName       = "from_name"
	MetaDefaultVariant = "default_variant"
)

type CreateMasterInput struct {
	Name     string `json:"name"`
	IsActive *bool  `json:"is_active,omitempty"`
}

type UpdateMasterInput struct {
	Name     *string `json:"name,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type CreateFieldInput struct {
	Name     string    `json:"name"`
	Type     FieldType `json:"field_type"`
	Required bool      `json:"required"`
}

type MetaInput struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
