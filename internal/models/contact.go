package models

import (
	"gorm.io/gorm"
)

// ContactSubmission is an inbound contact-form message.
type ContactSubmission struct {
	gorm.Model
	Name    string `json:"name" gorm:"not null"`
	Email   string `json:"email" gorm:"not null"`
	Phone   string `json:"phone"`
	Subject string `json:"subject" gorm:"not null"`
	Message string `json:"message" gorm:"type:text;not null"`
	Read    bool   `json:"read" gorm:"not null;default:false"`
}

// TableName specifies the table name
func (ContactSubmission) TableName() string {
	return "contact_submissions"
}
