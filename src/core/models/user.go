package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;not null" json:"id"`
	FirstName string    `gorm:"column:first_name;type:text;not null" json:"first_name"`
	LastName  string    `gorm:"column:last_name;type:text;not null" json:"last_name"`
	Username  string    `gorm:"column:username;type:text;unique;not null" json:"username"`
	Email     string    `gorm:"column:email;type:text;unique;not null" json:"email"`
	Password  string    `gorm:"column:password;type:text;not null" json:"-"`
	Role      string    `gorm:"column:role;type:varchar(20);not null;default:'STUDENT'" json:"role"`
	Bio       string    `gorm:"column:bio;type:text;not null;default:''" json:"bio"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamp with time zone;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamp with time zone;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

const (
	RoleStudent = "STUDENT"
	RoleTeacher = "TEACHER"
	RoleSchool  = "SCHOOL"
)
