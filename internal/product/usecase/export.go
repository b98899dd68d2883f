package usecase

import (
	"context"
	"io"
	"strings"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/product/dto"
	"github.com/tealeg/xlsx"
)

var exportHeaders = []string{
	"ID", "Name", "Category", "Description", "Price",
	"StockControl", "Stock", "AutoStockReduction", "Active",
	"MainImage", "Variations", "CreatedAt", "UpdatedAt",
}

// ExportProducts writes every product, active or not, as an xlsx workbook.
func (uc *productUseCase) ExportProducts(ctx context.Context, w io.Writer) error {
	products, _, err := uc.repo.FindAll(ctx, &dto.ProductFilters{SortBy: "name"})
	if err != nil {
		return err
	}

	file, err := buildWorkbook(products)
	if err != nil {
		return err
	}
	return file.Write(w)
}

func buildWorkbook(products []model.Product) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return nil, err
	}

	headerRow := sheet.AddRow()
	for _, h := range exportHeaders {
		headerRow.AddCell().SetValue(h)
	}

	for _, p := range products {
		row := sheet.AddRow()

		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.CategoryName)
		row.AddCell().SetValue(p.Description)
		price, _ := p.Price.Float64()
		row.AddCell().SetFloatWithFormat(price, "0.00")
		row.AddCell().SetBool(p.StockControl)
		row.AddCell().SetInt(p.StockQuantity)
		row.AddCell().SetBool(p.AutoStockReduction)
		row.AddCell().SetBool(p.IsActive)
		row.AddCell().SetValue(p.MainImageURL())
		row.AddCell().SetValue(variationSummary(p.VariationGroups))
		row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetValue(p.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	return file, nil
}

// variationSummary renders groups as "Sabor: Menta, Uva; Tamanho: P".
func variationSummary(groups []model.VariationGroup) string {
	parts := make([]string, 0, len(groups))
	for _, g := range groups {
		names := make([]string, 0, len(g.Options))
		for _, o := range g.Options {
			names = append(names, o.Name)
		}
		parts = append(parts, g.Name+": "+strings.Join(names, ", "))
	}
	return strings.Join(parts, "; ")
}
