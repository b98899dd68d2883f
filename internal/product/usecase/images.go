package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/validation"
	"github.com/fekuna/omnipos-storefront-service/internal/product"
	"github.com/fekuna/omnipos-storefront-service/internal/product/dto"
	"github.com/google/uuid"
)

// AddImage appends an image. The first image of a product becomes its main
// image; so does any image added with IsMain.
func (uc *productUseCase) AddImage(ctx context.Context, input *dto.ImageInput) (*model.ProductImage, error) {
	input.URL = strings.TrimSpace(input.URL)
	if err := validation.Struct(validate, input, nil); err != nil {
		return nil, err
	}

	p, err := uc.GetProduct(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	order, err := uc.repo.NextImageOrder(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	img := &model.ProductImage{
		ID:        uuid.New().String(),
		ProductID: p.ID,
		URL:       input.URL,
		IsMain:    input.IsMain || len(p.Images) == 0,
		SortOrder: order,
		CreatedAt: time.Now(),
	}
	if len(p.Images) > 0 && img.IsMain {
		// inserted unflagged, then promoted so only one main exists at a time
		img.IsMain = false
		if err := uc.repo.AddImage(ctx, img); err != nil {
			return nil, err
		}
		if _, err := uc.repo.SetMainImage(ctx, p.ID, img.ID); err != nil {
			return nil, err
		}
		img.IsMain = true
	} else if err := uc.repo.AddImage(ctx, img); err != nil {
		return nil, err
	}

	uc.changedByID(p.ID)
	return img, nil
}

func (uc *productUseCase) UpdateImage(ctx context.Context, input *dto.ImageInput) (*model.ProductImage, error) {
	input.URL = strings.TrimSpace(input.URL)
	if err := validation.Struct(validate, input, nil); err != nil {
		return nil, err
	}

	img, err := uc.findImage(ctx, input.ProductID, input.ID)
	if err != nil {
		return nil, err
	}
	img.URL = input.URL
	if err := uc.repo.UpdateImage(ctx, img); err != nil {
		return nil, err
	}
	if input.IsMain && !img.IsMain {
		if _, err := uc.repo.SetMainImage(ctx, img.ProductID, img.ID); err != nil {
			return nil, err
		}
		img.IsMain = true
	}

	uc.changedByID(img.ProductID)
	return img, nil
}

// RemoveImage deletes an image. Removing the main image promotes the first
// remaining one.
func (uc *productUseCase) RemoveImage(ctx context.Context, productID, imageID string) error {
	p, err := uc.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	var removed *model.ProductImage
	var next *model.ProductImage
	for i := range p.Images {
		switch {
		case p.Images[i].ID == imageID:
			removed = &p.Images[i]
		case next == nil:
			next = &p.Images[i]
		}
	}
	if removed == nil {
		return product.ErrImageNotFound
	}

	if err := uc.repo.DeleteImage(ctx, imageID); err != nil {
		return err
	}
	if removed.IsMain && next != nil {
		if _, err := uc.repo.SetMainImage(ctx, productID, next.ID); err != nil {
			return err
		}
	}

	uc.changedByID(productID)
	return nil
}

func (uc *productUseCase) ReorderImages(ctx context.Context, productID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	ok, err := uc.repo.ReorderImages(ctx, productID, ids)
	if err != nil {
		return err
	}
	if !ok {
		return product.ErrImageNotFound
	}
	uc.changedByID(productID)
	return nil
}

func (uc *productUseCase) SetMainImage(ctx context.Context, productID, imageID string) error {
	ok, err := uc.repo.SetMainImage(ctx, productID, imageID)
	if err != nil {
		return err
	}
	if !ok {
		return product.ErrImageNotFound
	}
	uc.changedByID(productID)
	return nil
}

func (uc *productUseCase) findImage(ctx context.Context, productID, imageID string) (*model.ProductImage, error) {
	p, err := uc.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	for i := range p.Images {
		if p.Images[i].ID == imageID {
			return &p.Images[i], nil
		}
	}
	return nil, product.ErrImageNotFound
}
