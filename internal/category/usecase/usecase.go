package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/category"
	"github.com/fekuna/omnipos-storefront-service/internal/category/dto"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// productListPattern matches cached product listings, which carry category names.
const productListPattern = "products:list:*"

var validate = validation.New()

type categoryUseCase struct {
	repo   category.Repository
	cache  category.CacheInvalidator
	logger logger.ZapLogger
}

func NewCategoryUseCase(repo category.Repository, cache category.CacheInvalidator, log logger.ZapLogger) category.UseCase {
	return &categoryUseCase{
		repo:   repo,
		cache:  cache,
		logger: log,
	}
}

func (uc *categoryUseCase) CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validation.Struct(validate, input, nil); err != nil {
		return nil, err
	}

	sortOrder, err := uc.repo.NextSortOrder(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	cat := &model.Category{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:        input.Name,
		Description: trimmed(input.Description),
		SortOrder:   sortOrder,
		IsActive:    true,
	}

	if err := uc.repo.Create(ctx, cat); err != nil {
		return nil, err
	}
	uc.logger.Info("category created", zap.String("category_id", cat.ID), zap.String("name", cat.Name))
	return cat, nil
}

func (uc *categoryUseCase) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	cat, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, category.ErrCategoryNotFound
	}
	return cat, nil
}

func (uc *categoryUseCase) ListCategories(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, int, error) {
	categories, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}
	if categories == nil {
		categories = []model.Category{}
	}
	return categories, count, nil
}

func (uc *categoryUseCase) ListActive(ctx context.Context) ([]model.Category, error) {
	active := true
	categories, _, err := uc.ListCategories(ctx, &dto.CategoryFilters{IsActive: &active})
	return categories, err
}

func (uc *categoryUseCase) UpdateCategory(ctx context.Context, input *dto.UpdateCategoryInput) (*model.Category, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validation.Struct(validate, input, nil); err != nil {
		return nil, err
	}

	cat, err := uc.GetCategory(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	cat.Name = input.Name
	if input.Description != nil {
		cat.Description = trimmed(input.Description)
	}
	if input.SortOrder != nil {
		cat.SortOrder = *input.SortOrder
	}
	if input.IsActive != nil {
		cat.IsActive = *input.IsActive
	}
	cat.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, cat); err != nil {
		return nil, err
	}
	go uc.invalidateProductCache(context.Background())
	return cat, nil
}

func (uc *categoryUseCase) DeleteCategory(ctx context.Context, id string) error {
	if _, err := uc.GetCategory(ctx, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.logger.Info("category deleted", zap.String("category_id", id))
	go uc.invalidateProductCache(context.Background())
	return nil
}

func (uc *categoryUseCase) ReorderCategories(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	ok, err := uc.repo.Reorder(ctx, ids)
	if err != nil {
		return err
	}
	if !ok {
		return category.ErrUnknownCategory
	}
	return nil
}

func (uc *categoryUseCase) invalidateProductCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeletePattern(ctx, productListPattern); err != nil {
		uc.logger.Warn("failed to invalidate product cache", zap.Error(err))
	}
}

// trimmed returns nil for blank text.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
