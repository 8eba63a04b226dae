package repository

import (
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	Master       MasterRepository
	Event        EventRepository
	Notification NotificationRepository
	Queue        QueueRepository
	Content      ContentRepository
	User         UserRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		Master:       NewMasterRepository(db),
		Event:        NewEventRepository(db),
		Notification: NewNotificationRepository(db),
		Queue:        NewQueueRepository(db),
		Content:      NewContentRepository(db),
		User:         NewUserRepository(db),
	}
}
