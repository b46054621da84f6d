package services

import (
	"context"
	"fmt"
	"io"

	"github.com/Rakhulsr/go-storeadmin/app/models"
	"github.com/Rakhulsr/go-storeadmin/app/repositories"
	"github.com/tealeg/xlsx"
)

var exportHeaders = []string{
	"ID", "Name", "SKU", "Category", "RegularPrice", "SalePrice", "DiscountPercentage",
	"Stock", "Status", "Featured", "NewArrival", "BestSeller", "MainImage", "CreatedAt", "UpdatedAt",
}

// ExportProducts writes the whole catalogue as an xlsx workbook.
func (s *CatalogService) ExportProducts(ctx context.Context, w io.Writer) error {
	products, _, err := s.productRepo.List(ctx, repositories.ProductFilter{ListParams: repositories.ListParams{Ordering: "id"}})
	if err != nil {
		return fmt.Errorf("failed to load products for export: %w", err)
	}

	file, err := buildProductWorkbook(products)
	if err != nil {
		return err
	}
	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func buildProductWorkbook(products []models.Product) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, h := range exportHeaders {
		headerRow.AddCell().SetValue(h)
	}

	for i := range products {
		p := &products[i]
		row := sheet.AddRow()

		categoryName := ""
		if p.Category != nil {
			categoryName = p.Category.Name
		}
		salePrice := ""
		if p.SalePrice.Valid {
			salePrice = p.SalePrice.Decimal.StringFixed(2)
		}
		mainImage := ""
		if img := p.MainImage(); img != nil {
			mainImage = img.URL
		}

		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.SKUValue())
		row.AddCell().SetValue(categoryName)
		row.AddCell().SetValue(p.RegularPrice.StringFixed(2))
		row.AddCell().SetValue(salePrice)
		row.AddCell().SetValue(p.DiscountPercentage().StringFixed(2))
		row.AddCell().SetValue(p.StockQuantity)
		row.AddCell().SetValue(p.Status)
		row.AddCell().SetValue(p.IsFeatured)
		row.AddCell().SetValue(p.IsNewArrival)
		row.AddCell().SetValue(p.IsBestSeller)
		row.AddCell().SetValue(mainImage)
		row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetValue(p.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	return file, nil
}
