package entity

import (
	"time"
)

const (
	UserTypeMember = "member"
	UserTypeDoctor = "doctor"
)

// User is a portal account, either a member (patient) or a doctor.
type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:text;not null" json:"-"`
	UserType     string    `gorm:"type:varchar(20);not null;index" json:"userType"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
	LastLogin    time.Time `json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}
