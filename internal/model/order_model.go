package model

import (
	"time"

	"github.com/google/uuid"
)

type Order struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderNo   string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	Status    string    `gorm:"type:varchar(50);not null"`
	Eta       string    `gorm:"type:varchar(32)"`
	Carrier   string    `gorm:"type:varchar(64)"`
	Tracking  string    `gorm:"type:varchar(128)"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Order) TableName() string {
	return "orders"
}
