package mapper

import (
	"time"

	"ai-support-chat-be/internal/entity"
	"ai-support-chat-be/internal/model"
)

type OrderMapper struct{}

func NewOrderMapper() *OrderMapper {
	return &OrderMapper{}
}

func (m *OrderMapper) OrderToEntity(o *model.Order) *entity.Order {
	if o == nil {
		return nil
	}

	var updatedAt *time.Time
	if !o.UpdatedAt.IsZero() {
		t := o.UpdatedAt
		updatedAt = &t
	}

	return &entity.Order{
		Id:        o.Id,
		OrderNo:   o.OrderNo,
		Status:    o.Status,
		Eta:       o.Eta,
		Carrier:   o.Carrier,
		Tracking:  o.Tracking,
		CreatedAt: o.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *OrderMapper) OrderToModel(o *entity.Order) *model.Order {
	if o == nil {
		return nil
	}

	var updatedAt time.Time
	if o.UpdatedAt != nil {
		updatedAt = *o.UpdatedAt
	}

	return &model.Order{
		Id:        o.Id,
		OrderNo:   o.OrderNo,
		Status:    o.Status,
		Eta:       o.Eta,
		Carrier:   o.Carrier,
		Tracking:  o.Tracking,
		CreatedAt: o.CreatedAt,
		UpdatedAt: updatedAt,
	}
}
