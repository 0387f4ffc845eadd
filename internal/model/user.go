package model

import "time"

// User represents an employee known to the user directory. Credential
// and session fields live in the auth service, not here.
type User struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	Name          string    `gorm:"size:256;not null" json:"name"`
	Email         string    `gorm:"uniqueIndex;size:256;not null" json:"email"`
	ContactNumber string    `gorm:"size:32" json:"contactNumber"`
	CompanyID     string    `gorm:"index;size:36" json:"companyId"`
	CreatedAt     time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"not null" json:"updatedAt"`
}
