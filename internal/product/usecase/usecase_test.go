package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fekuna/omnipos-storefront-service/internal/category"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/cache"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/search"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/validation"
	"github.com/fekuna/omnipos-storefront-service/internal/product"
	"github.com/fekuna/omnipos-storefront-service/internal/product/dto"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memRepo is a product.Repository over a map. Calls from background
// refreshes make the mutex necessary.
type memRepo struct {
	mu           sync.Mutex
	products     map[string]*model.Product
	err          error
	findAllCalls int
}

func newMemRepo(products ...model.Product) *memRepo {
	r := &memRepo{products: map[string]*model.Product{}}
	for i := range products {
		p := clone(products[i])
		r.products[p.ID] = &p
	}
	return r
}

func clone(p model.Product) model.Product {
	b, _ := json.Marshal(p)
	var out model.Product
	_ = json.Unmarshal(b, &out)
	return out
}

func (r *memRepo) setErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *memRepo) get(id string) *model.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil
	}
	c := clone(*p)
	return &c
}

func (r *memRepo) Create(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := clone(*p)
	r.products[p.ID] = &c
	return r.err
}

func (r *memRepo) FindByID(_ context.Context, id string) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	c := clone(*p)
	return &c, nil
}

func (r *memRepo) FindAll(_ context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findAllCalls++
	if r.err != nil {
		return nil, 0, r.err
	}
	var out []model.Product
	for _, p := range r.products {
		if f.IsActive != nil && p.IsActive != *f.IsActive {
			continue
		}
		if f.SearchQuery != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.SearchQuery)) {
			continue
		}
		out = append(out, clone(*p))
	}
	return out, len(out), nil
}

func (r *memRepo) Update(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := r.products[p.ID]
	stock := stored.StockQuantity
	c := clone(*p)
	c.StockQuantity = stock
	c.Images, c.VariationGroups = stored.Images, stored.VariationGroups
	r.products[p.ID] = &c
	return r.err
}

func (r *memRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return r.err
}

func (r *memRepo) AddImage(_ context.Context, img *model.ProductImage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.products[img.ProductID]
	p.Images = append(p.Images, *img)
	return nil
}

func (r *memRepo) UpdateImage(_ context.Context, img *model.ProductImage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.products[img.ProductID]
	for i := range p.Images {
		if p.Images[i].ID == img.ID {
			p.Images[i].URL = img.URL
		}
	}
	return nil
}

func (r *memRepo) DeleteImage(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		for i := range p.Images {
			if p.Images[i].ID == id {
				p.Images = append(p.Images[:i], p.Images[i+1:]...)
				return nil
			}
		}
	}
	return nil
}

func (r *memRepo) NextImageOrder(_ context.Context, productID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.products[productID].Images), nil
}

func (r *memRepo) ReorderImages(_ context.Context, productID string, ids []string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.products[productID]
	pos := map[string]int{}
	for i, id := range ids {
		pos[id] = i
	}
	for _, id := range ids {
		found := false
		for _, img := range p.Images {
			found = found || img.ID == id
		}
		if !found {
			return false, nil
		}
	}
	for i := range p.Images {
		p.Images[i].SortOrder = pos[p.Images[i].ID]
	}
	return true, nil
}

func (r *memRepo) SetMainImage(_ context.Context, productID, imageID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[productID]
	if !ok {
		return false, nil
	}
	found := false
	for i := range p.Images {
		p.Images[i].IsMain = p.Images[i].ID == imageID
		found = found || p.Images[i].IsMain
	}
	return found, nil
}

func (r *memRepo) AddGroup(_ context.Context, g *model.VariationGroup) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.products[g.ProductID]
	p.VariationGroups = append(p.VariationGroups, *g)
	return nil
}

func (r *memRepo) UpdateGroup(_ context.Context, g *model.VariationGroup) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.products[g.ProductID]
	if stored := p.FindGroup(g.ID); stored != nil {
		stored.Name, stored.Required, stored.MultipleSelection = g.Name, g.Required, g.MultipleSelection
	}
	return nil
}

func (r *memRepo) DeleteGroup(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		for i := range p.VariationGroups {
			if p.VariationGroups[i].ID == id {
				p.VariationGroups = append(p.VariationGroups[:i], p.VariationGroups[i+1:]...)
				return nil
			}
		}
	}
	return nil
}

func (r *memRepo) AddOption(_ context.Context, o *model.VariationOption) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if g := p.FindGroup(o.GroupID); g != nil {
			g.Options = append(g.Options, *o)
		}
	}
	return nil
}

func (r *memRepo) UpdateOption(_ context.Context, o *model.VariationOption) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if g := p.FindGroup(o.GroupID); g != nil {
			if stored := g.FindOption(o.ID); stored != nil {
				*stored = *o
			}
		}
	}
	return nil
}

func (r *memRepo) DeleteOption(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		for gi := range p.VariationGroups {
			g := &p.VariationGroups[gi]
			for i := range g.Options {
				if g.Options[i].ID == id {
					g.Options = append(g.Options[:i], g.Options[i+1:]...)
					return nil
				}
			}
		}
	}
	return nil
}

type fakeCategories struct {
	active []model.Category
	err    error
}

func (f fakeCategories) GetCategory(_ context.Context, id string) (*model.Category, error) {
	for _, c := range f.active {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, category.ErrCategoryNotFound
}

func (f fakeCategories) ListActive(context.Context) ([]model.Category, error) {
	return f.active, f.err
}

type fakeSearch struct {
	mu      sync.Mutex
	indexed map[string]model.Product
	deleted []string
	result  *search.SearchResponse
	err     error
	queries []map[string]interface{}
}

func newFakeSearch() *fakeSearch {
	return &fakeSearch{indexed: map[string]model.Product{}}
}

func (f *fakeSearch) CreateIndex(context.Context, string, string) error { return nil }

func (f *fakeSearch) Index(_ context.Context, _ string, id string, doc interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexed[id] = clone(*doc.(*model.Product))
	return nil
}

func (f *fakeSearch) Search(_ context.Context, _ string, q map[string]interface{}) (*search.SearchResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	return f.result, f.err
}

func (f *fakeSearch) Delete(_ context.Context, _ string, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeSearch) doc(id string) (model.Product, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.indexed[id]
	return p, ok
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func pod(id string, active bool) model.Product {
	return model.Product{
		BaseModel:     model.BaseModel{ID: id},
		Name:          "Pod " + id,
		Price:         d("25.00"),
		StockControl:  true,
		StockQuantity: 10,
		IsActive:      active,
		Images:        []model.ProductImage{},
		VariationGroups: []model.VariationGroup{{
			ID: "g-" + id, ProductID: id, Name: "Sabor",
			Options: []model.VariationOption{{ID: "o-" + id, GroupID: "g-" + id, Name: "Menta", PriceModifier: d("2")}},
		}},
	}
}

type fixture struct {
	uc     product.UseCase
	repo   *memRepo
	es     *fakeSearch
	mr     *miniredis.Miniredis
	client *cache.RedisClient
}

func newFixture(t *testing.T, products ...model.Product) *fixture {
	mr := miniredis.RunT(t)
	client := &cache.RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	repo := newMemRepo(products...)
	es := newFakeSearch()
	cats := fakeCategories{active: []model.Category{{BaseModel: model.BaseModel{ID: "c1"}, Name: "Pods", IsActive: true}}}
	return &fixture{
		uc:     NewProductUseCase(repo, cats, client, es, logger.NewNop()),
		repo:   repo,
		es:     es,
		mr:     mr,
		client: client,
	}
}

func (f *fixture) listKeys() []string {
	var out []string
	for _, k := range f.mr.Keys() {
		if strings.HasPrefix(k, "products:list:") {
			out = append(out, k)
		}
	}
	return out
}

func TestCreateProduct(t *testing.T) {
	f := newFixture(t)
	cat := " c1 "

	p, err := f.uc.CreateProduct(context.Background(), &dto.CreateProductInput{
		CategoryID:    &cat,
		Name:          "  Pod Menta ",
		Price:         d("39.90"),
		StockControl:  true,
		StockQuantity: 5,
	})
	require.NoError(t, err)

	assert.Equal(t, "Pod Menta", p.Name)
	require.NotNil(t, p.CategoryID)
	assert.Equal(t, "c1", *p.CategoryID)
	assert.True(t, p.IsActive)
	assert.Equal(t, 5, p.StockQuantity)
	assert.NotNil(t, f.repo.get(p.ID))

	assert.Eventually(t, func() bool {
		_, ok := f.es.doc(p.ID)
		return ok
	}, time.Second, 10*time.Millisecond)
}

func TestCreateProduct_Rejects(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.CreateProduct(context.Background(), &dto.CreateProductInput{Name: " ", Price: d("-1"), StockQuantity: -2})
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{
		"name":           "validation.required",
		"price":          "validation.gte",
		"stock_quantity": "validation.gte",
	}, verr.Fields)

	missing := "nope"
	_, err = f.uc.CreateProduct(context.Background(), &dto.CreateProductInput{Name: "Pod", CategoryID: &missing})
	assert.ErrorIs(t, err, product.ErrCategoryNotFound)
}

func TestGetProduct_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.GetProduct(context.Background(), "ghost")
	assert.ErrorIs(t, err, product.ErrProductNotFound)

	p, err := f.uc.LookupProduct(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestUpdateProduct_KeepsStock(t *testing.T) {
	f := newFixture(t, pod("p1", true))
	inactive := false

	p, err := f.uc.UpdateProduct(context.Background(), &dto.UpdateProductInput{
		ID: "p1", Name: "Pod Uva", Price: d("30"), StockControl: true, AutoStockReduction: true, IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "Pod Uva", p.Name)
	assert.False(t, p.IsActive)
	assert.Len(t, p.VariationGroups, 1)

	stored := f.repo.get("p1")
	assert.Equal(t, 10, stored.StockQuantity)
	assert.True(t, stored.AutoStockReduction)
}

func TestToggleActive(t *testing.T) {
	f := newFixture(t, pod("p1", true))

	p, err := f.uc.ToggleActive(context.Background(), "p1")
	require.NoError(t, err)
	assert.False(t, p.IsActive)

	p, err = f.uc.ToggleActive(context.Background(), "p1")
	require.NoError(t, err)
	assert.True(t, p.IsActive)
}

func TestDeleteProduct(t *testing.T) {
	f := newFixture(t, pod("p1", true))

	require.NoError(t, f.uc.DeleteProduct(context.Background(), "p1"))
	assert.Nil(t, f.repo.get("p1"))
	assert.Eventually(t, func() bool {
		f.es.mu.Lock()
		defer f.es.mu.Unlock()
		return len(f.es.deleted) == 1
	}, time.Second, 10*time.Millisecond)

	assert.ErrorIs(t, f.uc.DeleteProduct(context.Background(), "p1"), product.ErrProductNotFound)
}

func TestListProducts_CachesAndInvalidates(t *testing.T) {
	f := newFixture(t, pod("p1", true), pod("p2", false))
	ctx := context.Background()
	active := true

	products, total, err := f.uc.ListProducts(ctx, &dto.ProductFilters{IsActive: &active})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, products, 1)
	require.Len(t, f.listKeys(), 1)
	assert.Equal(t, listCacheTTL, f.mr.TTL(f.listKeys()[0]))

	_, _, err = f.uc.ListProducts(ctx, &dto.ProductFilters{IsActive: &active})
	require.NoError(t, err)
	assert.Equal(t, 1, f.repo.findAllCalls)

	_, err = f.uc.ToggleActive(ctx, "p2")
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return len(f.listKeys()) == 0 }, time.Second, 10*time.Millisecond)
}

func TestListProducts_PageDefaults(t *testing.T) {
	f := newFixture(t)
	filters := &dto.ProductFilters{PageSize: 1000}

	_, _, err := f.uc.ListProducts(context.Background(), filters)
	require.NoError(t, err)
	assert.Equal(t, 1, filters.Page)
	assert.Equal(t, maxPageSize, filters.PageSize)
}

func TestListProducts_SearchUsesElastic(t *testing.T) {
	f := newFixture(t, pod("p1", true))
	f.es.result = &search.SearchResponse{}
	f.es.result.Hits.Total.Value = 1
	f.es.result.Hits.Hits = append(f.es.result.Hits.Hits, struct {
		ID     string          `json:"_id"`
		Source json.RawMessage `json:"_source"`
	}{ID: "p9", Source: json.RawMessage(`{"id":"p9","name":"Pod Melancia","price":"19.9"}`)})

	products, total, err := f.uc.ListProducts(context.Background(), &dto.ProductFilters{SearchQuery: "melancia", SortBy: "price", SortOrder: "asc"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, products, 1)
	assert.Equal(t, "Pod Melancia", products[0].Name)
	assert.Equal(t, 0, f.repo.findAllCalls)

	q := f.es.queries[0]
	assert.Equal(t, []map[string]interface{}{{"price": map[string]interface{}{"order": "asc"}}}, q["sort"])
}

func TestListProducts_SearchFallsBackToDatabase(t *testing.T) {
	f := newFixture(t, pod("p1", true))
	f.es.err = errors.New("cluster red")

	products, total, err := f.uc.ListProducts(context.Background(), &dto.ProductFilters{SearchQuery: "pod p1"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, products, 1)
	assert.Equal(t, 1, f.repo.findAllCalls)
}

func TestGetCatalog_SnapshotFallback(t *testing.T) {
	f := newFixture(t, pod("p1", true), pod("p2", false))
	ctx := context.Background()

	catalog, err := f.uc.GetCatalog(ctx)
	require.NoError(t, err)
	assert.False(t, catalog.Stale)
	require.Len(t, catalog.Products, 1)
	assert.Len(t, catalog.Categories, 1)
	assert.True(t, f.mr.Exists(catalogSnapshotKey))

	f.repo.setErr(errors.New("connection refused"))

	catalog, err = f.uc.GetCatalog(ctx)
	require.NoError(t, err)
	assert.True(t, catalog.Stale)
	require.Len(t, catalog.Products, 1)
	assert.Equal(t, "p1", catalog.Products[0].ID)

	p, err := f.uc.LookupProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Pod p1", p.Name)

	_, err = f.uc.LookupProduct(ctx, "p2")
	assert.EqualError(t, err, "connection refused")
}

func TestGetCatalog_EmptyWithoutSnapshot(t *testing.T) {
	f := newFixture(t)
	f.repo.setErr(errors.New("timeout"))

	catalog, err := f.uc.GetCatalog(context.Background())
	require.NoError(t, err)
	assert.True(t, catalog.Stale)
	assert.NotNil(t, catalog.Products)
	assert.Empty(t, catalog.Products)
	assert.Empty(t, catalog.Categories)
}

func TestImages_OneMain(t *testing.T) {
	f := newFixture(t, pod("p1", true))
	ctx := context.Background()

	first, err := f.uc.AddImage(ctx, &dto.ImageInput{ProductID: "p1", URL: "https://cdn.example.com/a.jpg"})
	require.NoError(t, err)
	assert.True(t, first.IsMain)

	second, err := f.uc.AddImage(ctx, &dto.ImageInput{ProductID: "p1", URL: "https://cdn.example.com/b.jpg"})
	require.NoError(t, err)
	assert.False(t, second.IsMain)
	assert.Equal(t, 1, second.SortOrder)

	third, err := f.uc.AddImage(ctx, &dto.ImageInput{ProductID: "p1", URL: "https://cdn.example.com/c.jpg", IsMain: true})
	require.NoError(t, err)
	assert.True(t, third.IsMain)
	assert.Equal(t, "https://cdn.example.com/c.jpg", f.repo.get("p1").MainImageURL())

	require.NoError(t, f.uc.RemoveImage(ctx, "p1", third.ID))
	p := f.repo.get("p1")
	require.Len(t, p.Images, 2)
	assert.True(t, p.Images[0].IsMain)
	assert.False(t, p.Images[1].IsMain)

	require.NoError(t, f.uc.SetMainImage(ctx, "p1", second.ID))
	assert.Equal(t, "https://cdn.example.com/b.jpg", f.repo.get("p1").MainImageURL())

	assert.ErrorIs(t, f.uc.SetMainImage(ctx, "p1", "ghost"), product.ErrImageNotFound)
	assert.ErrorIs(t, f.uc.RemoveImage(ctx, "p1", "ghost"), product.ErrImageNotFound)
	assert.ErrorIs(t, f.uc.ReorderImages(ctx, "p1", []string{second.ID, "ghost"}), product.ErrImageNotFound)
	assert.NoError(t, f.uc.ReorderImages(ctx, "p1", []string{second.ID, first.ID}))
}

func TestImages_Validation(t *testing.T) {
	f := newFixture(t, pod("p1", true))

	_, err := f.uc.AddImage(context.Background(), &dto.ImageInput{ProductID: "p1", URL: "not a url"})
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "validation.url", verr.Fields["url"])

	_, err = f.uc.AddImage(context.Background(), &dto.ImageInput{ProductID: "ghost", URL: "https://x.io/a.png"})
	assert.ErrorIs(t, err, product.ErrProductNotFound)
}

func TestVariations(t *testing.T) {
	f := newFixture(t, pod("p1", true), pod("p2", true))
	ctx := context.Background()

	g, err := f.uc.AddVariationGroup(ctx, &dto.GroupInput{ProductID: "p1", Name: "Tamanho", Required: true})
	require.NoError(t, err)
	assert.Equal(t, 1, g.SortOrder)
	assert.NotNil(t, g.Options)

	stock := 4
	o, err := f.uc.AddVariationOption(ctx, &dto.OptionInput{
		ProductID: "p1", GroupID: g.ID, Name: "Grande", PriceModifier: d("-1.50"), Stock: &stock,
	})
	require.NoError(t, err)
	assert.True(t, o.PriceModifier.Equal(d("-1.50")))

	o, err = f.uc.UpdateVariationOption(ctx, &dto.OptionInput{
		ProductID: "p1", GroupID: g.ID, ID: o.ID, Name: "Gigante", PriceModifier: d("3"),
	})
	require.NoError(t, err)
	assert.Nil(t, o.Stock)
	assert.Equal(t, "Gigante", f.repo.get("p1").FindGroup(g.ID).Options[0].Name)

	// a group is only reachable through its own product
	_, err = f.uc.UpdateVariationGroup(ctx, &dto.GroupInput{ProductID: "p2", ID: g.ID, Name: "X"})
	assert.ErrorIs(t, err, product.ErrVariationNotFound)
	assert.ErrorIs(t, f.uc.RemoveVariationOption(ctx, "p1", "g-p1", o.ID), product.ErrVariationNotFound)

	require.NoError(t, f.uc.RemoveVariationOption(ctx, "p1", g.ID, o.ID))
	require.NoError(t, f.uc.RemoveVariationGroup(ctx, "p1", g.ID))
	assert.Len(t, f.repo.get("p1").VariationGroups, 1)
}

func TestVariations_Validation(t *testing.T) {
	f := newFixture(t, pod("p1", true))
	negative := -1

	_, err := f.uc.AddVariationOption(context.Background(), &dto.OptionInput{
		ProductID: "p1", GroupID: "g-p1", Name: "", Stock: &negative,
	})
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "validation.required", verr.Fields["name"])
	assert.Equal(t, "validation.gte", verr.Fields["stock"])
}
