package service

import (
	"context"

	"ai-support-chat-be/internal/entity"
	"ai-support-chat-be/internal/repository/specification"
	"ai-support-chat-be/internal/repository/unitofwork"
)

// orderStore adapts the order repository to the tool registry's lookup
// contract. Reads run outside any transaction.
type orderStore struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewOrderStore(uowFactory unitofwork.RepositoryFactory) *orderStore {
	return &orderStore{uowFactory: uowFactory}
}

func (s *orderStore) FindByNumber(ctx context.Context, orderNo string) (*entity.Order, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.OrderRepository().FindOne(ctx, specification.ByOrderNo{OrderNo: orderNo})
}
