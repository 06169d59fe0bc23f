package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"dinepos/internal/caching"
	"dinepos/internal/common"
	"dinepos/internal/models"
	"dinepos/internal/repositories"

	"github.com/google/uuid"
)

const (
	menuItemCacheTTL = 5 * time.Minute
	imageURLExpiry   = 7 * 24 * time.Hour
)

type CreateItemInput struct {
	CategoryID uuid.UUID `json:"category_id"`
	Name       string    `json:"name"`
	Code       string    `json:"code"`
	Price      float64   `json:"price"`
	IsVeg      bool      `json:"is_veg"`
}

// MenuService manages the tenant's catalog: categories, items and item
// images.
type MenuService interface {
	CreateCategory(ctx context.Context, tenantID uuid.UUID, name string) (*models.MenuCategory, error)
	ListCategories(ctx context.Context, tenantID uuid.UUID) ([]*models.MenuCategory, error)
	CreateItem(ctx context.Context, tenantID uuid.UUID, input CreateItemInput) (*models.MenuItem, error)
	ListItems(ctx context.Context, tenantID uuid.UUID, categoryID *uuid.UUID) ([]*models.MenuItem, error)
	SetItemActive(ctx context.Context, tenantID, itemID uuid.UUID, active bool) (*models.MenuItem, error)
	SetItemImage(ctx context.Context, tenantID, itemID uuid.UUID, reader io.Reader, size int64, contentType string) (*models.MenuItem, error)
	RemoveItemImage(ctx context.Context, tenantID, itemID uuid.UUID) (*models.MenuItem, error)
}

type menuService struct {
	categoryRepo repositories.MenuCategoryRepository
	itemRepo     repositories.MenuItemRepository
	media        MediaService
	cache        caching.CacheService
}

func NewMenuService(categoryRepo repositories.MenuCategoryRepository, itemRepo repositories.MenuItemRepository, media MediaService, cache caching.CacheService) MenuService {
	return &menuService{
		categoryRepo: categoryRepo,
		itemRepo:     itemRepo,
		media:        media,
		cache:        cache,
	}
}

func (s *menuService) CreateCategory(ctx context.Context, tenantID uuid.UUID, name string) (*models.MenuCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.NewInvalidInput("category name is required")
	}

	exists, err := s.categoryRepo.ExistsByName(ctx, tenantID, name)
	if err != nil {
		return nil, common.NewInternal(err)
	}
	if exists {
		return nil, common.NewConflict("category already exists")
	}

	category := &models.MenuCategory{
		ID:       uuid.New(),
		TenantID: tenantID,
		Name:     name,
		Active:   true,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, common.NewConflict("category already exists")
		}
		return nil, common.NewInternal(err)
	}
	return category, nil
}

func (s *menuService) ListCategories(ctx context.Context, tenantID uuid.UUID) ([]*models.MenuCategory, error) {
	categories, err := s.categoryRepo.List(ctx, tenantID)
	if err != nil {
		return nil, common.NewInternal(err)
	}
	return categories, nil
}

func (s *menuService) CreateItem(ctx context.Context, tenantID uuid.UUID, input CreateItemInput) (*models.MenuItem, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Code = strings.TrimSpace(input.Code)

	if input.Name == "" {
		return nil, common.NewInvalidInput("item name is required")
	}
	if input.Code == "" {
		return nil, common.NewInvalidInput("item code is required")
	}
	if input.Price < 0 {
		return nil, common.NewInvalidInput("price must not be negative")
	}
	if input.CategoryID == uuid.Nil {
		return nil, common.NewInvalidInput("category_id is required")
	}

	category, err := s.categoryRepo.GetByID(ctx, tenantID, input.CategoryID)
	if err != nil {
		return nil, common.NewInternal(err)
	}
	if category == nil {
		return nil, common.NewNotFound("category")
	}

	exists, err := s.itemRepo.CodeExists(ctx, tenantID, input.Code)
	if err != nil {
		return nil, common.NewInternal(err)
	}
	if exists {
		return nil, common.NewConflict("menu item code already exists")
	}

	item := &models.MenuItem{
		ID:         uuid.New(),
		TenantID:   tenantID,
		CategoryID: input.CategoryID,
		Name:       input.Name,
		Code:       input.Code,
		Price:      input.Price,
		IsVeg:      input.IsVeg,
		IsActive:   true,
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, common.NewConflict("menu item code already exists")
		}
		return nil, common.NewInternal(err)
	}
	if s.cache != nil {
		_ = s.cache.SetMenuItem(ctx, tenantID, item, menuItemCacheTTL)
	}
	return item, nil
}

func (s *menuService) ListItems(ctx context.Context, tenantID uuid.UUID, categoryID *uuid.UUID) ([]*models.MenuItem, error) {
	items, err := s.itemRepo.List(ctx, tenantID, categoryID)
	if err != nil {
		return nil, common.NewInternal(err)
	}
	return items, nil
}

func (s *menuService) SetItemActive(ctx context.Context, tenantID, itemID uuid.UUID, active bool) (*models.MenuItem, error) {
	updated, err := s.itemRepo.SetActive(ctx, tenantID, itemID, active)
	if err != nil {
		return nil, common.NewInternal(err)
	}
	if !updated {
		return nil, common.NewNotFound("menu item")
	}
	if s.cache != nil {
		_ = s.cache.DeleteMenuItem(ctx, tenantID, itemID)
	}

	item, err := s.itemRepo.GetByID(ctx, tenantID, itemID)
	if err != nil {
		return nil, common.NewInternal(err)
	}
	if item == nil {
		return nil, common.NewNotFound("menu item")
	}
	return item, nil
}

func (s *menuService) SetItemImage(ctx context.Context, tenantID, itemID uuid.UUID, reader io.Reader, size int64, contentType string) (*models.MenuItem, error) {
	item, err := s.getItem(ctx, tenantID, itemID)
	if err != nil {
		return nil, err
	}

	// One object per item, so replacing an image overwrites in place.
	objectName := menuImageObjectName(tenantID, itemID)
	if err := s.media.UploadImage(ctx, objectName, reader, size, contentType); err != nil {
		return nil, common.NewInternal(err)
	}

	url, err := s.media.GetPresignedURL(objectName, imageURLExpiry)
	if err != nil {
		return nil, common.NewInternal(err)
	}

	updated, err := s.itemRepo.SetImageURL(ctx, tenantID, itemID, &url)
	if err != nil {
		return nil, common.NewInternal(err)
	}
	if !updated {
		return nil, common.NewNotFound("menu item")
	}
	if s.cache != nil {
		_ = s.cache.DeleteMenuItem(ctx, tenantID, itemID)
	}

	item.ImageURL = &url
	return item, nil
}

func (s *menuService) RemoveItemImage(ctx context.Context, tenantID, itemID uuid.UUID) (*models.MenuItem, error) {
	item, err := s.getItem(ctx, tenantID, itemID)
	if err != nil {
		return nil, err
	}
	if item.ImageURL == nil {
		return item, nil
	}

	if err := s.media.DeleteImage(ctx, menuImageObjectName(tenantID, itemID)); err != nil {
		return nil, common.NewInternal(err)
	}

	updated, err := s.itemRepo.SetImageURL(ctx, tenantID, itemID, nil)
	if err != nil {
		return nil, common.NewInternal(err)
	}
	if !updated {
		return nil, common.NewNotFound("menu item")
	}
	if s.cache != nil {
		_ = s.cache.DeleteMenuItem(ctx, tenantID, itemID)
	}

	item.ImageURL = nil
	return item, nil
}

func menuImageObjectName(tenantID, itemID uuid.UUID) string {
	return fmt.Sprintf("menu/%s/%s", tenantID.String(), itemID.String())
}

func (s *menuService) getItem(ctx context.Context, tenantID, itemID uuid.UUID) (*models.MenuItem, error) {
	if s.cache != nil {
		if item, err := s.cache.GetMenuItem(ctx, tenantID, itemID); err == nil && item != nil {
			return item, nil
		}
	}
	item, err := s.itemRepo.GetByID(ctx, tenantID, itemID)
	if err != nil {
		return nil, common.NewInternal(err)
	}
	if item == nil {
		return nil, common.NewNotFound("menu item")
	}
	if s.cache != nil {
		_ = s.cache.SetMenuItem(ctx, tenantID, item, menuItemCacheTTL)
	}
	return item, nil
}
