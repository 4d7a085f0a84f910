package entity

import (
	"time"

	"github.com/google/uuid"
)

type Order struct {
	Id        uuid.UUID
	OrderNo   string
	Status    string
	Eta       string
	Carrier   string
	Tracking  string
	CreatedAt time.Time
	UpdatedAt *time.Time
}
