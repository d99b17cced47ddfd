package models

import (
	"time"
)

type User struct {
	ID             string    `gorm:"primarykey;type:varchar(24)" json:"id"`
	Name           string    `gorm:"type:varchar(50);not null" json:"name"`
	Email          string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordDigest string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt      time.Time `gorm:"autoCreateTime:false" json:"createdAt"`
}
