package model

import (
	"github.com/lib/pq"
)

// User roles
const (
	RoleDoctor  = "doctor"
	RolePatient = "patient"
)

// User represents a doctor or patient account
type User struct {
	Base
	Username       string         `json:"username" db:"username"`
	PasswordHash   string         `json:"-" db:"password_hash"`
	Role           string         `json:"role" db:"role"`
	Email          string         `json:"email" db:"email"`
	FullName       string         `json:"full_name" db:"full_name"`
	Phone          *string        `json:"phone" db:"phone"`
	Gender         *string        `json:"gender" db:"gender"`
	DateOfBirth    *string        `json:"date_of_birth" db:"date_of_birth"`
	BloodGroup     *string        `json:"blood_group" db:"blood_group"`
	Address        *string        `json:"address" db:"address"`
	ProfileImage   *string        `json:"profile_image" db:"profile_image"`
	Specialization *string        `json:"specialization" db:"specialization"`
	Languages      pq.StringArray `json:"languages" db:"languages"`
	IsActive       bool           `json:"is_active" db:"is_active"`
}

// IsDoctor reports whether the user holds the doctor role
func (u *User) IsDoctor() bool {
	return u.Role == RoleDoctor
}

// UserSummary is the minimal user shape attached to related records
type UserSummary struct {
	ID             string  `json:"id"`
	FullName       string  `json:"full_name"`
	Specialization *string `json:"specialization,omitempty"`
	ProfileImage   *string `json:"profile_image,omitempty"`
}

// Summary returns the embeddable summary of a user
func (u *User) Summary() *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{
		ID:             u.ID.String(),
		FullName:       u.FullName,
		Specialization: u.Specialization,
		ProfileImage:   u.ProfileImage,
	}
}

// CreateUserRequest represents registration / user creation parameters
type CreateUserRequest struct {
	Username       string   `json:"username" binding:"required,min=3"`
	Password       string   `json:"password" binding:"required,min=8"`
	Role           string   `json:"role" binding:"required,oneof=doctor patient"`
	Email          string   `json:"email" binding:"required,email"`
	FullName       string   `json:"full_name" binding:"required"`
	Phone          *string  `json:"phone"`
	Gender         *string  `json:"gender" binding:"omitempty,oneof=male female other"`
	DateOfBirth    *string  `json:"date_of_birth"`
	BloodGroup     *string  `json:"blood_group"`
	Address        *string  `json:"address"`
	Specialization *string  `json:"specialization"`
	Languages      []string `json:"languages"`
}

// UpdateUserRequest represents profile update parameters. Username, role and
// password are deliberately absent: they cannot change through this path.
type UpdateUserRequest struct {
	Email          *string  `json:"email" binding:"omitempty,email"`
	FullName       *string  `json:"full_name"`
	Phone          *string  `json:"phone"`
	Gender         *string  `json:"gender" binding:"omitempty,oneof=male female other"`
	DateOfBirth    *string  `json:"date_of_birth"`
	BloodGroup     *string  `json:"blood_group"`
	Address        *string  `json:"address"`
	ProfileImage   *string  `json:"profile_image" binding:"omitempty,startswith=data:image/"`
	Specialization *string  `json:"specialization"`
	Languages      []string `json:"languages"`
}
