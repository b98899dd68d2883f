package usecase

import (
	"context"
	"strings"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/validation"
	"github.com/fekuna/omnipos-storefront-service/internal/product"
	"github.com/fekuna/omnipos-storefront-service/internal/product/dto"
	"github.com/google/uuid"
)

func (uc *productUseCase) AddVariationGroup(ctx context.Context, input *dto.GroupInput) (*model.VariationGroup, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validation.Struct(validate, input, nil); err != nil {
		return nil, err
	}

	p, err := uc.GetProduct(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	g := &model.VariationGroup{
		ID:                uuid.New().String(),
		ProductID:         p.ID,
		Name:              input.Name,
		Required:          input.Required,
		MultipleSelection: input.MultipleSelection,
		SortOrder:         len(p.VariationGroups),
		Options:           []model.VariationOption{},
	}
	if input.SortOrder != nil {
		g.SortOrder = *input.SortOrder
	}

	if err := uc.repo.AddGroup(ctx, g); err != nil {
		return nil, err
	}
	uc.changedByID(p.ID)
	return g, nil
}

func (uc *productUseCase) UpdateVariationGroup(ctx context.Context, input *dto.GroupInput) (*model.VariationGroup, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validation.Struct(validate, input, nil); err != nil {
		return nil, err
	}

	g, err := uc.findGroup(ctx, input.ProductID, input.ID)
	if err != nil {
		return nil, err
	}
	g.Name = input.Name
	g.Required = input.Required
	g.MultipleSelection = input.MultipleSelection
	if input.SortOrder != nil {
		g.SortOrder = *input.SortOrder
	}

	if err := uc.repo.UpdateGroup(ctx, g); err != nil {
		return nil, err
	}
	uc.changedByID(g.ProductID)
	return g, nil
}

func (uc *productUseCase) RemoveVariationGroup(ctx context.Context, productID, groupID string) error {
	if _, err := uc.findGroup(ctx, productID, groupID); err != nil {
		return err
	}
	if err := uc.repo.DeleteGroup(ctx, groupID); err != nil {
		return err
	}
	uc.changedByID(productID)
	return nil
}

func (uc *productUseCase) AddVariationOption(ctx context.Context, input *dto.OptionInput) (*model.VariationOption, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validation.Struct(validate, input, nil); err != nil {
		return nil, err
	}

	g, err := uc.findGroup(ctx, input.ProductID, input.GroupID)
	if err != nil {
		return nil, err
	}

	o := &model.VariationOption{
		ID:            uuid.New().String(),
		GroupID:       g.ID,
		Name:          input.Name,
		PriceModifier: input.PriceModifier,
		Stock:         input.Stock,
		SortOrder:     len(g.Options),
	}
	if input.SortOrder != nil {
		o.SortOrder = *input.SortOrder
	}

	if err := uc.repo.AddOption(ctx, o); err != nil {
		return nil, err
	}
	uc.changedByID(input.ProductID)
	return o, nil
}

func (uc *productUseCase) UpdateVariationOption(ctx context.Context, input *dto.OptionInput) (*model.VariationOption, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validation.Struct(validate, input, nil); err != nil {
		return nil, err
	}

	g, err := uc.findGroup(ctx, input.ProductID, input.GroupID)
	if err != nil {
		return nil, err
	}
	o := g.FindOption(input.ID)
	if o == nil {
		return nil, product.ErrVariationNotFound
	}
	o.Name = input.Name
	o.PriceModifier = input.PriceModifier
	o.Stock = input.Stock
	if input.SortOrder != nil {
		o.SortOrder = *input.SortOrder
	}

	if err := uc.repo.UpdateOption(ctx, o); err != nil {
		return nil, err
	}
	uc.changedByID(input.ProductID)
	return o, nil
}

func (uc *productUseCase) RemoveVariationOption(ctx context.Context, productID, groupID, optionID string) error {
	g, err := uc.findGroup(ctx, productID, groupID)
	if err != nil {
		return err
	}
	if g.FindOption(optionID) == nil {
		return product.ErrVariationNotFound
	}
	if err := uc.repo.DeleteOption(ctx, optionID); err != nil {
		return err
	}
	uc.changedByID(productID)
	return nil
}

// findGroup loads groupID through its product so a group can only be edited
// under the product that owns it.
func (uc *productUseCase) findGroup(ctx context.Context, productID, groupID string) (*model.VariationGroup, error) {
	p, err := uc.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	g := p.FindGroup(groupID)
	if g == nil {
		return nil, product.ErrVariationNotFound
	}
	return g, nil
}
