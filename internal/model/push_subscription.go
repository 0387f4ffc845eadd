package model

import "time"

// PushSubscription holds the information for a browser push
// subscription. Each subscription follows one user's attendance events.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	UserID    string    `gorm:"index;size:36;not null"`
	CreatedAt time.Time `gorm:"not null"`
}
