package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/category"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/validation"
	"github.com/fekuna/omnipos-storefront-service/internal/product"
	"github.com/fekuna/omnipos-storefront-service/internal/product/dto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	productIndex = "storefront-products"

	listCachePattern = "products:list:*"
	listCacheTTL     = 5 * time.Minute

	// catalogSnapshotKey holds the last catalog served from the database.
	catalogSnapshotKey = "storefront:catalog"

	defaultPageSize = 20
	maxPageSize     = 100
)

const productMapping = `{
	"mappings": {
		"properties": {
			"category_id": { "type": "keyword" },
			"category_name": { "type": "text" },
			"name": { "type": "text", "fields": { "keyword": { "type": "keyword" } } },
			"description": { "type": "text" },
			"price": { "type": "double" },
			"is_active": { "type": "boolean" },
			"created_at": { "type": "date" }
		}
	}
}`

var validate = validation.New()

type productUseCase struct {
	repo       product.Repository
	categories product.CategoryReader
	cache      product.Cache
	es         product.Searcher
	logger     logger.ZapLogger
}

func NewProductUseCase(repo product.Repository, categories product.CategoryReader, cache product.Cache, es product.Searcher, log logger.ZapLogger) product.UseCase {
	return &productUseCase{
		repo:       repo,
		categories: categories,
		cache:      cache,
		es:         es,
		logger:     log,
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validation.Struct(validate, input, nil); err != nil {
		return nil, err
	}

	categoryID, err := uc.resolveCategory(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	now := time.Now()
	p := &model.Product{
		BaseModel:          model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		CategoryID:         categoryID,
		Name:               input.Name,
		Description:        strings.TrimSpace(input.Description),
		Price:              input.Price,
		StockControl:       input.StockControl,
		StockQuantity:      input.StockQuantity,
		AutoStockReduction: input.AutoStockReduction,
		IsActive:           active,
		Images:             []model.ProductImage{},
		VariationGroups:    []model.VariationGroup{},
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	uc.logger.Info("product created", zap.String("product_id", p.ID), zap.String("name", p.Name))

	uc.changed(p)
	return p, nil
}

// resolveCategory checks the category exists. Blank ids mean "no category".
func (uc *productUseCase) resolveCategory(ctx context.Context, id *string) (*string, error) {
	if id == nil || strings.TrimSpace(*id) == "" {
		return nil, nil
	}
	cat, err := uc.categories.GetCategory(ctx, strings.TrimSpace(*id))
	if err != nil {
		if errors.Is(err, category.ErrCategoryNotFound) {
			return nil, product.ErrCategoryNotFound
		}
		return nil, err
	}
	return &cat.ID, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, product.ErrProductNotFound
	}
	return p, nil
}

// LookupProduct serves the cart. When the database is unreachable it answers
// from the last catalog snapshot.
func (uc *productUseCase) LookupProduct(ctx context.Context, id string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err == nil {
		return p, nil
	}

	snap, ok := uc.loadSnapshot(ctx)
	if !ok {
		return nil, err
	}
	for i := range snap.Products {
		if snap.Products[i].ID == id {
			uc.logger.Warn("product served from catalog snapshot", zap.String("product_id", id), zap.Error(err))
			return &snap.Products[i], nil
		}
	}
	return nil, err
}

type listResult struct {
	Products []model.Product
	Count    int
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = defaultPageSize
	}
	if filters.PageSize > maxPageSize {
		filters.PageSize = maxPageSize
	}
	filters.SearchQuery = strings.TrimSpace(filters.SearchQuery)

	cacheKey, err := generateCacheKey(filters)
	if err == nil && uc.cache != nil {
		var cached listResult
		if err := uc.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
			return cached.Products, cached.Count, nil
		}
	}

	if filters.SearchQuery != "" && uc.es != nil {
		products, count, err := uc.searchElastic(ctx, filters)
		if err == nil {
			return products, count, nil
		}
		uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
	}

	products, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}
	if products == nil {
		products = []model.Product{}
	}

	if cacheKey != "" && uc.cache != nil {
		if err := uc.cache.SetJSON(ctx, cacheKey, listResult{Products: products, Count: count}, listCacheTTL); err != nil {
			uc.logger.Warn("failed to cache product list", zap.Error(err))
		}
	}
	return products, count, nil
}

func (uc *productUseCase) searchElastic(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	must := []map[string]interface{}{
		{
			"multi_match": map[string]interface{}{
				"query":     filters.SearchQuery,
				"fields":    []string{"name^3", "description", "category_name"},
				"fuzziness": "AUTO",
			},
		},
	}
	filter := []map[string]interface{}{}
	if filters.CategoryID != "" {
		filter = append(filter, map[string]interface{}{"term": map[string]interface{}{"category_id": filters.CategoryID}})
	}
	if filters.IsActive != nil {
		filter = append(filter, map[string]interface{}{"term": map[string]interface{}{"is_active": *filters.IsActive}})
	}

	q := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"must": must, "filter": filter},
		},
		"from": (filters.Page - 1) * filters.PageSize,
		"size": filters.PageSize,
	}
	if field, ok := map[string]string{"name": "name.keyword", "price": "price", "created_at": "created_at"}[filters.SortBy]; ok {
		order := "desc"
		if strings.ToLower(filters.SortOrder) == "asc" {
			order = "asc"
		}
		q["sort"] = []map[string]interface{}{{field: map[string]interface{}{"order": order}}}
	}

	res, err := uc.es.Search(ctx, productIndex, q)
	if err != nil {
		return nil, 0, err
	}

	products := make([]model.Product, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var p model.Product
		if err := json.Unmarshal(hit.Source, &p); err != nil {
			uc.logger.Warn("skipping undecodable search hit", zap.String("id", hit.ID), zap.Error(err))
			continue
		}
		products = append(products, p)
	}
	return products, res.Hits.Total.Value, nil
}

func generateCacheKey(filters *dto.ProductFilters) (string, error) {
	data, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("products:list:%x", md5.Sum(data)), nil
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validation.Struct(validate, input, nil); err != nil {
		return nil, err
	}

	p, err := uc.GetProduct(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	categoryID, err := uc.resolveCategory(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}

	p.CategoryID = categoryID
	p.Name = input.Name
	p.Description = strings.TrimSpace(input.Description)
	p.Price = input.Price
	p.StockControl = input.StockControl
	p.AutoStockReduction = input.AutoStockReduction
	if input.IsActive != nil {
		p.IsActive = *input.IsActive
	}
	p.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	uc.changed(p)
	return p, nil
}

func (uc *productUseCase) ToggleActive(ctx context.Context, id string) (*model.Product, error) {
	p, err := uc.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	p.IsActive = !p.IsActive
	p.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	uc.logger.Info("product visibility changed", zap.String("product_id", id), zap.Bool("is_active", p.IsActive))
	uc.changed(p)
	return p, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id string) error {
	if _, err := uc.GetProduct(ctx, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.logger.Info("product deleted", zap.String("product_id", id))

	go uc.invalidateProductCache(context.Background())
	if uc.es != nil {
		go func() {
			if err := uc.es.Delete(context.Background(), productIndex, id); err != nil {
				uc.logger.Error("failed to delete product from ES", zap.Error(err))
			}
		}()
	}
	return nil
}

// GetCatalog loads active products and categories. A successful load is
// snapshotted; on failure the last snapshot is served, or an empty catalog.
func (uc *productUseCase) GetCatalog(ctx context.Context) (*model.Catalog, error) {
	active := true
	products, _, err := uc.repo.FindAll(ctx, &dto.ProductFilters{IsActive: &active, SortBy: "name"})
	var categories []model.Category
	if err == nil {
		categories, err = uc.categories.ListActive(ctx)
	}
	if err != nil {
		uc.logger.Warn("catalog backend unavailable", zap.Error(err))
		if snap, ok := uc.loadSnapshot(ctx); ok {
			snap.Stale = true
			return snap, nil
		}
		return &model.Catalog{Products: []model.Product{}, Categories: []model.Category{}, Stale: true}, nil
	}

	if products == nil {
		products = []model.Product{}
	}
	if categories == nil {
		categories = []model.Category{}
	}
	catalog := &model.Catalog{Products: products, Categories: categories}

	if uc.cache != nil {
		if err := uc.cache.SetJSON(ctx, catalogSnapshotKey, catalog, 0); err != nil {
			uc.logger.Warn("failed to snapshot catalog", zap.Error(err))
		}
	}
	return catalog, nil
}

func (uc *productUseCase) loadSnapshot(ctx context.Context) (*model.Catalog, bool) {
	if uc.cache == nil {
		return nil, false
	}
	var snap model.Catalog
	if err := uc.cache.GetJSON(ctx, catalogSnapshotKey, &snap); err != nil {
		return nil, false
	}
	return &snap, true
}

// changed refreshes the list cache and search index for p.
func (uc *productUseCase) changed(p *model.Product) {
	go uc.invalidateProductCache(context.Background())
	go uc.syncToElastic(context.Background(), p)
}

// changedByID is changed for writes that touched images or variations; the
// product is reloaded so the index sees its relations.
func (uc *productUseCase) changedByID(id string) {
	go func() {
		ctx := context.Background()
		uc.invalidateProductCache(ctx)
		p, err := uc.repo.FindByID(ctx, id)
		if err != nil || p == nil {
			uc.logger.Warn("failed to reload product for indexing", zap.String("product_id", id), zap.Error(err))
			return
		}
		uc.syncToElastic(ctx, p)
	}()
}

func (uc *productUseCase) syncToElastic(ctx context.Context, p *model.Product) {
	if uc.es == nil {
		return
	}
	_ = uc.es.CreateIndex(ctx, productIndex, productMapping)

	if err := uc.es.Index(ctx, productIndex, p.ID, p); err != nil {
		uc.logger.Error("failed to index product", zap.Error(err))
	}
}

func (uc *productUseCase) invalidateProductCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeletePattern(ctx, listCachePattern); err != nil {
		uc.logger.Warn("failed to invalidate product cache", zap.Error(err))
	}
}
