package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// User is an account document. PasswordHash is a bcrypt digest and is
// never serialized to JSON; social-only accounts leave it empty.
type User struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Username       string             `json:"username" bson:"username"`
	Email          string             `json:"email" bson:"email"`
	DisplayName    string             `json:"display_name" bson:"display_name"`
	Role           Role               `json:"role" bson:"role"`
	PasswordHash   string             `json:"-" bson:"password_hash,omitempty"`
	City           string             `json:"city,omitempty" bson:"city,omitempty"`
	Gender         Gender             `json:"gender,omitempty" bson:"gender,omitempty"`
	DateOfBirth    *time.Time         `json:"date_of_birth,omitempty" bson:"date_of_birth,omitempty"`
	Locale         string             `json:"locale,omitempty" bson:"locale,omitempty"`
	TimezoneOffset int                `json:"timezone_offset" bson:"timezone_offset"`
	Social         []SocialIdentity   `json:"-" bson:"social,omitempty"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at" bson:"last_accessed_at"`
}

// SocialIdentity links a user to an external OAuth identity. SubjectID
// is the provider's stable user id, not a display name.
type SocialIdentity struct {
	Provider  string `json:"provider" bson:"provider"`
	SubjectID string `json:"subject_id" bson:"subject_id"`
}

// Age derives full years from DateOfBirth, zero when unset.
func (u *User) Age(now time.Time) int {
	if u.DateOfBirth == nil {
		return 0
	}
	dob := *u.DateOfBirth
	years := now.Year() - dob.Year()
	anniversary := dob.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

type RegisterRequest struct {
	Username       string  `json:"username" binding:"required,alphanum,min=3,max=32"`
	Email          string  `json:"email" binding:"required,email"`
	Password       string  `json:"password" binding:"required,min=8,max=72"`
	DisplayName    string  `json:"display_name" binding:"required,min=1,max=64"`
	City           string  `json:"city" binding:"omitempty,max=64"`
	Gender         Gender  `json:"gender" binding:"omitempty,oneof=male female"`
	DateOfBirth    *string `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
	Locale         string  `json:"locale" binding:"omitempty,min=2,max=5"`
	TimezoneOffset int     `json:"timezone_offset" binding:"omitempty,min=-12,max=14"`
}

type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SocialLoginRequest carries the provider access token obtained by the
// client. The server verifies it against the provider before issuing a
// session of its own.
type SocialLoginRequest struct {
	AccessToken string `json:"access_token" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type UpdateProfileRequest struct {
	DisplayName    *string `json:"display_name" binding:"omitempty,min=1,max=64"`
	City           *string `json:"city" binding:"omitempty,max=64"`
	Gender         *Gender `json:"gender" binding:"omitempty,oneof=male female"`
	DateOfBirth    *string `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
	Locale         *string `json:"locale" binding:"omitempty,min=2,max=5"`
	TimezoneOffset *int    `json:"timezone_offset" binding:"omitempty,min=-12,max=14"`
}

// ChangePasswordRequest omits the required rule on the current password
// because social-only accounts set their first password with it empty.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=72"`
}

type ChangeRoleRequest struct {
	Role Role `json:"role" binding:"required,oneof=administrator moderator student"`
}
