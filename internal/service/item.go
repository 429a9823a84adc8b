package service

import (
	"context"
	"fmt"

	"campusrent-backend/internal/domain"
	"campusrent-backend/internal/repository"
)

type itemService struct {
	itemRepo repository.ItemRepository
	userRepo repository.UserRepository
}

func NewItemService(itemRepo repository.ItemRepository, userRepo repository.UserRepository) ItemService {
	return &itemService{itemRepo: itemRepo, userRepo: userRepo}
}

func (s *itemService) AddItem(ctx context.Context, item *domain.Item) error {
	if item.Title == "" {
		return fmt.Errorf("item title is required: %w", domain.ErrInvalidInput)
	}
	if item.DailyPriceCents < 0 || item.DepositCents < 0 {
		return fmt.Errorf("price and deposit must not be negative: %w", domain.ErrInvalidInput)
	}
	if item.Status == "" {
		item.Status = domain.ItemStatusListed
	}
	return s.itemRepo.Create(ctx, item)
}

func (s *itemService) GetItem(ctx context.Context, id int32) (*domain.Item, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if owner, err := s.userRepo.GetByID(ctx, item.OwnerID); err == nil {
		owner.PasswordHash = ""
		item.Owner = owner
	}
	return item, nil
}

func (s *itemService) UpdateItem(ctx context.Context, ownerID int32, item *domain.Item) error {
	existing, err := s.itemRepo.GetByID(ctx, item.ID)
	if err != nil {
		return err
	}
	if existing.OwnerID != ownerID {
		return fmt.Errorf("item %d is not owned by user %d: %w", item.ID, ownerID, domain.ErrUnauthorized)
	}
	item.OwnerID = existing.OwnerID
	return s.itemRepo.Update(ctx, item)
}

func (s *itemService) DeleteItem(ctx context.Context, ownerID, itemID int32) error {
	existing, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if existing.OwnerID != ownerID {
		return fmt.Errorf("item %d is not owned by user %d: %w", itemID, ownerID, domain.ErrUnauthorized)
	}
	return s.itemRepo.Delete(ctx, itemID)
}

func (s *itemService) ListItems(ctx context.Context, category string, page, pageSize int32) ([]domain.Item, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.itemRepo.List(ctx, category, page, pageSize)
}

func (s *itemService) ListMyItems(ctx context.Context, ownerID int32) ([]domain.Item, error) {
	return s.itemRepo.ListByOwner(ctx, ownerID)
}
