package usecase

import (
	"context"
	"fmt"

	"github.com/fekuna/omnipos-storefront-service/internal/cart"
	"github.com/fekuna/omnipos-storefront-service/internal/cart/dto"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/pkg/logger"
	"go.uber.org/zap"
)

type cartUseCase struct {
	store    cart.Store
	products cart.ProductReader
	settings cart.SettingsReader
	logger   logger.ZapLogger
}

func NewCartUseCase(store cart.Store, products cart.ProductReader, settings cart.SettingsReader, log logger.ZapLogger) cart.UseCase {
	return &cartUseCase{
		store:    store,
		products: products,
		settings: settings,
		logger:   log,
	}
}

func (uc *cartUseCase) GetCart(ctx context.Context, sessionID string) (*model.Cart, error) {
	snap, err := uc.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	c := cart.NewEngine(snap).Snapshot()
	return &c, nil
}

func (uc *cartUseCase) AddItem(ctx context.Context, input *dto.AddItemInput) (*model.Cart, error) {
	if input.Quantity < 1 {
		return nil, cart.ErrInvalidQuantity
	}

	storeConfig, err := uc.storeConfig(ctx)
	if err != nil {
		return nil, err
	}
	if storeConfig.MaintenanceMode {
		return nil, cart.ErrStoreInMaintenance
	}

	p, err := uc.products.LookupProduct(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.IsActive {
		return nil, cart.ErrProductUnavailable
	}

	selected, err := resolveSelections(p, input.Selections)
	if err != nil {
		return nil, err
	}

	snap, err := uc.store.Load(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	engine := cart.NewEngine(snap)

	if err := checkStock(p, selected, engine, input.Quantity); err != nil {
		return nil, err
	}
	if limit := storeConfig.MaxItemsPerOrder; limit > 0 && snap.ItemCount()+input.Quantity > limit {
		return nil, cart.ErrTooManyItems
	}

	line, err := engine.AddItem(p, input.Quantity, selected)
	if err != nil {
		return nil, err
	}

	out := engine.Snapshot()
	if err := uc.store.Save(ctx, input.SessionID, out); err != nil {
		return nil, err
	}

	uc.logger.Debug("cart item added",
		zap.String("session_id", input.SessionID),
		zap.String("item_id", line.ID),
		zap.String("product_id", p.ID),
		zap.Int("quantity", line.Quantity),
	)
	return &out, nil
}

func (uc *cartUseCase) UpdateQuantity(ctx context.Context, input *dto.UpdateQuantityInput) (*model.Cart, error) {
	if input.Quantity < 1 {
		return uc.RemoveItem(ctx, input.SessionID, input.ItemID)
	}

	snap, err := uc.store.Load(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	engine := cart.NewEngine(snap)

	line, ok := engine.Item(input.ItemID)
	if !ok {
		return nil, cart.ErrItemNotFound
	}

	// Growing a line is held to the same limits as adding; shrinking never is.
	if delta := input.Quantity - line.Quantity; delta > 0 {
		storeConfig, err := uc.storeConfig(ctx)
		if err != nil {
			return nil, err
		}
		if storeConfig.MaintenanceMode {
			return nil, cart.ErrStoreInMaintenance
		}

		p, err := uc.products.LookupProduct(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil || !p.IsActive {
			return nil, cart.ErrProductUnavailable
		}
		if err := checkStock(p, line.SelectedVariations, engine, delta); err != nil {
			return nil, err
		}
		if limit := storeConfig.MaxItemsPerOrder; limit > 0 && snap.ItemCount()+delta > limit {
			return nil, cart.ErrTooManyItems
		}
	}

	engine.UpdateQuantity(input.ItemID, input.Quantity)

	out := engine.Snapshot()
	if err := uc.store.Save(ctx, input.SessionID, out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (uc *cartUseCase) RemoveItem(ctx context.Context, sessionID, itemID string) (*model.Cart, error) {
	snap, err := uc.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	engine := cart.NewEngine(snap)

	if !engine.RemoveItem(itemID) {
		out := engine.Snapshot()
		return &out, nil
	}

	out := engine.Snapshot()
	if err := uc.store.Save(ctx, sessionID, out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (uc *cartUseCase) ClearCart(ctx context.Context, sessionID string) error {
	return uc.store.Delete(ctx, sessionID)
}

func (uc *cartUseCase) storeConfig(ctx context.Context) (model.StoreConfig, error) {
	s, err := uc.settings.GetSettings(ctx)
	if err != nil {
		return model.StoreConfig{}, err
	}
	return s.StoreConfig, nil
}

// resolveSelections turns (group, option) ids into snapshots taken from the
// live product, enforcing the group rules.
func resolveSelections(p *model.Product, selections []dto.VariationSelection) ([]model.SelectedVariation, error) {
	perGroup := make(map[string]int, len(p.VariationGroups))
	seen := make(map[dto.VariationSelection]bool, len(selections))
	out := make([]model.SelectedVariation, 0, len(selections))

	for _, sel := range selections {
		if seen[sel] {
			return nil, fmt.Errorf("%w: option %s selected twice", cart.ErrInvalidVariation, sel.OptionID)
		}
		seen[sel] = true

		group := p.FindGroup(sel.GroupID)
		if group == nil {
			return nil, fmt.Errorf("%w: unknown group %s", cart.ErrInvalidVariation, sel.GroupID)
		}
		option := group.FindOption(sel.OptionID)
		if option == nil {
			return nil, fmt.Errorf("%w: unknown option %s in group %s", cart.ErrInvalidVariation, sel.OptionID, group.Name)
		}

		perGroup[group.ID]++
		if perGroup[group.ID] > 1 && !group.MultipleSelection {
			return nil, fmt.Errorf("%w: group %s accepts a single option", cart.ErrInvalidVariation, group.Name)
		}

		out = append(out, model.SelectedVariation{
			GroupID:       group.ID,
			GroupName:     group.Name,
			OptionID:      option.ID,
			OptionName:    option.Name,
			PriceModifier: option.PriceModifier,
		})
	}

	for _, g := range p.VariationGroups {
		if g.Required && perGroup[g.ID] == 0 {
			return nil, fmt.Errorf("%w: group %s is required", cart.ErrInvalidVariation, g.Name)
		}
	}
	return out, nil
}

// checkStock validates what the cart would hold after adding incoming units
// of a line: the product total against product stock, and for each selected
// option only the lines carrying that option against the option's stock.
func checkStock(p *model.Product, selected []model.SelectedVariation, engine *cart.Engine, incoming int) error {
	if !p.StockControl {
		return nil
	}
	if engine.QuantityOf(p.ID)+incoming > p.StockQuantity {
		return cart.ErrInsufficientStock
	}
	for _, sel := range selected {
		group := p.FindGroup(sel.GroupID)
		if group == nil {
			continue
		}
		opt := group.FindOption(sel.OptionID)
		if opt == nil || opt.Stock == nil {
			continue
		}
		if engine.QuantityOfOption(p.ID, sel.GroupID, sel.OptionID)+incoming > *opt.Stock {
			return fmt.Errorf("%w: %s", cart.ErrInsufficientStock, opt.Name)
		}
	}
	return nil
}
