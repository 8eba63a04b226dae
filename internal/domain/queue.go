package domain

import "time"

// NotificationQueue is the durable work item, created 1:1 with a
// notification. is_dead_letter only ever flips false -> true; the row is
// retained afterwards as delivery history.
type NotificationQueue struct {
	ID             int64      `json:"id" db:"id"`
	NotificationID int64      `json:"notification_id" db:"notification_id"`
	RetryAttempts  int        `json:"retry_attempts" db:"retry_attempts"`
	IsDeadLetter   bool       `json:"is_dead_letter" db:"is_dead_letter"`
	DeadLetterAt   *time.Time `json:"dead_letter_at,omitempty" db:"dead_letter_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}
