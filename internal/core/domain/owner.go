package domain

import (
	"time"

	"github.com/google/uuid"
)

type Gender string

const (
	GenderMale           Gender = "male"
	GenderFemale         Gender = "female"
	GenderOther          Gender = "other"
	GenderPreferNotToSay Gender = "prefer_not_to_say"
)

// Owner is the workshop profile behind an authenticated user. UserID links
// the row to the auth provider account and stays nil until the profile is
// claimed. RUT and email are unique across the table.
type Owner struct {
	ID        uuid.UUID  `json:"id"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	RUT       string     `json:"rut" validate:"required,max=12"`
	Name      string     `json:"name" validate:"required,max=120"`
	Age       int        `json:"age" validate:"min=0,max=120"`
	Gender    Gender     `json:"gender" validate:"required,oneof=male female other prefer_not_to_say"`
	Email     string     `json:"email" validate:"required,email"`
	Phone     string     `json:"phone" validate:"max=20"`
	Role      Role       `json:"role" validate:"required,oneof=admin mechanic customer"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// OwnerUpdate carries a partial update; nil fields keep their current value.
type OwnerUpdate struct {
	RUT    *string `json:"rut,omitempty"`
	Name   *string `json:"name,omitempty"`
	Age    *int    `json:"age,omitempty"`
	Gender *Gender `json:"gender,omitempty"`
	Email  *string `json:"email,omitempty"`
	Phone  *string `json:"phone,omitempty"`
	Role   *Role   `json:"role,omitempty"`
}

func (u *OwnerUpdate) ApplyTo(o *Owner) {
	if u.RUT != nil {
		o.RUT = *u.RUT
	}
	if u.Name != nil {
		o.Name = *u.Name
	}
	if u.Age != nil {
		o.Age = *u.Age
	}
	if u.Gender != nil {
		o.Gender = *u.Gender
	}
	if u.Email != nil {
		o.Email = *u.Email
	}
	if u.Phone != nil {
		o.Phone = *u.Phone
	}
	if u.Role != nil {
		o.Role = *u.Role
	}
}
