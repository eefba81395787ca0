package db

import "gorm.io/gorm"

// NoResetCode is the sentinel stored in User.ResetCode when no verification
// code is pending. It must never validate against a submitted code.
const NoResetCode = "0"

// User is a registered account. History and save entries reference users by
// ID and are owned exclusively by them.
type User struct {
	gorm.Model
	Name      string `gorm:"not null"`
	Email     string `gorm:"unique;not null"`
	Avatar    string
	Password  string `gorm:"not null"`
	ResetCode string `gorm:"not null;default:'0'"`
}
