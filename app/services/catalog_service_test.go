package services

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/Rakhulsr/go-storeadmin/app/db/testdb"
	"github.com/Rakhulsr/go-storeadmin/app/models"
	"github.com/Rakhulsr/go-storeadmin/app/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/tealeg/xlsx"
)

type CatalogServiceSuite struct {
	suite.Suite
	f   *fixture
	ctx context.Context
}

func (s *CatalogServiceSuite) SetupTest() {
	s.f = newFixture(s.T())
	s.ctx = context.Background()
}

func TestCatalogService(t *testing.T) {
	suite.Run(t, new(CatalogServiceSuite))
}

func boolPtr(b bool) *bool { return &b }

func teeInput() ProductInput {
	return ProductInput{
		Name:          "Tee",
		RegularPrice:  decimal.RequireFromString("25.00"),
		SalePrice:     decimal.NewNullDecimal(decimal.RequireFromString("20.00")),
		StockQuantity: 5,
	}
}

func (s *CatalogServiceSuite) TestCreateProductDerivesDiscount() {
	product, err := s.f.catalog.CreateProduct(s.ctx, teeInput(), nil, false)
	s.Require().NoError(err)

	s.True(product.DiscountPercentage().Equal(decimal.NewFromInt(20)), product.DiscountPercentage().String())
	s.True(product.EffectivePrice().Equal(decimal.NewFromInt(20)))
	s.Equal(models.ProductStatusActive, product.Status)
	s.Empty(product.Images)
}

func (s *CatalogServiceSuite) TestCreateProductRejectsSaleAboveRegular() {
	in := teeInput()
	in.SalePrice = decimal.NewNullDecimal(decimal.RequireFromString("30.00"))

	_, err := s.f.catalog.CreateProduct(s.ctx, in, nil, false)

	var verr *ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Contains(verr.Fields, "sale_price")
}

func (s *CatalogServiceSuite) TestCreateProductRejectsDuplicateSKU() {
	sku := "TEE-1"
	in := teeInput()
	in.SKU = &sku
	_, err := s.f.catalog.CreateProduct(s.ctx, in, nil, false)
	s.Require().NoError(err)

	_, err = s.f.catalog.CreateProduct(s.ctx, in, nil, false)
	var verr *ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Contains(verr.Fields, "sku")
}

func (s *CatalogServiceSuite) TestCreateProductWithImagesMarksFirstMain() {
	product, err := s.f.catalog.CreateProduct(s.ctx, teeInput(),
		[]ImageUpload{pngUpload("front.png"), pngUpload("back.png")}, true)
	s.Require().NoError(err)

	s.Require().Len(product.Images, 2)
	main := product.MainImage()
	s.Require().NotNil(main)
	s.Equal(main.URL, product.Images[0].URL)
	s.False(product.Images[1].IsMain)
}

func (s *CatalogServiceSuite) TestCreateProductStorageFailureWritesNothing() {
	s.f.store.failures["back.png"] = -1

	_, err := s.f.catalog.CreateProduct(s.ctx, teeInput(),
		[]ImageUpload{pngUpload("front.png"), pngUpload("back.png")}, true)
	s.Require().ErrorIs(err, ErrStorageUnavailable)

	var products, images int64
	s.Require().NoError(s.f.db.Model(&models.Product{}).Count(&products).Error)
	s.Require().NoError(s.f.db.Model(&models.ProductImage{}).Count(&images).Error)
	s.Zero(products)
	s.Zero(images)
	s.Zero(s.f.store.liveCount(), "already stored files are discarded")
	s.Equal(2, s.f.store.attempts["back.png"])
}

func (s *CatalogServiceSuite) TestUploadRetriesOnce() {
	product := testdb.Product(s.T(), s.f.db, "Cap", "12.00", "")
	s.f.store.failures["cap.png"] = 1

	images, err := s.f.catalog.UploadImages(s.ctx, product.ID, []ImageUpload{pngUpload("cap.png")}, true)
	s.Require().NoError(err)
	s.Len(images, 1)
	s.Equal(2, s.f.store.attempts["cap.png"])
}

func (s *CatalogServiceSuite) TestUploadTagsFilesWithProduct() {
	product := testdb.Product(s.T(), s.f.db, "Cap", "12.00", "")

	_, err := s.f.catalog.UploadImages(s.ctx, product.ID, []ImageUpload{pngUpload("cap.png")}, false)
	s.Require().NoError(err)
	s.Require().Len(s.f.store.uploaded, 1)
	s.Equal(product.ID, s.f.store.uploaded[0].ProductID)

	store := NewCloudinaryStore(nil, "products")
	s.Equal("products/42", store.folderFor(ImageUpload{ProductID: 42}))
	s.Equal("products", store.folderFor(ImageUpload{}))
}

func (s *CatalogServiceSuite) TestUploadRejectsNonImage() {
	product := testdb.Product(s.T(), s.f.db, "Cap", "12.00", "")

	_, err := s.f.catalog.UploadImages(s.ctx, product.ID,
		[]ImageUpload{{Filename: "notes.txt", Data: []byte("plain text")}}, false)

	var verr *ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Contains(verr.Fields, "images")
	s.Empty(s.f.store.attempts)
}

func (s *CatalogServiceSuite) TestSetMainImageKeepsSingleMain() {
	product, err := s.f.catalog.CreateProduct(s.ctx, teeInput(),
		[]ImageUpload{pngUpload("a.png"), pngUpload("b.png"), pngUpload("c.png")}, true)
	s.Require().NoError(err)

	target := product.Images[2]
	img, err := s.f.catalog.SetMainImage(s.ctx, product.ID, target.ID)
	s.Require().NoError(err)
	s.True(img.IsMain)

	count, err := repositories.NewProductImageRepository(s.f.db).CountMain(s.ctx, product.ID)
	s.Require().NoError(err)
	s.Equal(int64(1), count)

	reloaded, err := s.f.catalog.GetProduct(s.ctx, product.ID)
	s.Require().NoError(err)
	s.Equal(target.ID, reloaded.MainImage().ID)
}

func (s *CatalogServiceSuite) TestConcurrentSetMainLeavesOneMain() {
	product, err := s.f.catalog.CreateProduct(s.ctx, teeInput(),
		[]ImageUpload{pngUpload("a.png"), pngUpload("b.png"), pngUpload("c.png"), pngUpload("d.png")}, false)
	s.Require().NoError(err)

	var wg sync.WaitGroup
	for _, img := range product.Images {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			_, err := s.f.catalog.SetMainImage(s.ctx, product.ID, id)
			assert.NoError(s.T(), err)
		}(img.ID)
	}
	wg.Wait()

	count, err := repositories.NewProductImageRepository(s.f.db).CountMain(s.ctx, product.ID)
	s.Require().NoError(err)
	s.Equal(int64(1), count)
}

func (s *CatalogServiceSuite) TestSetMainImageOfOtherProductIsNotFound() {
	first, err := s.f.catalog.CreateProduct(s.ctx, teeInput(), []ImageUpload{pngUpload("a.png")}, true)
	s.Require().NoError(err)
	other := testdb.Product(s.T(), s.f.db, "Other", "5.00", "")

	_, err = s.f.catalog.SetMainImage(s.ctx, other.ID, first.Images[0].ID)
	s.ErrorIs(err, ErrNotFound)
}

func (s *CatalogServiceSuite) TestBulkUpdateIgnoresUnknownIDs() {
	products := testdb.Products(s.T(), s.f.db, 2)

	count, err := s.f.catalog.BulkUpdateFlags(s.ctx, BulkUpdateInput{
		IDs:        []uint{products[0].ID, products[1].ID, 999},
		IsFeatured: boolPtr(true),
	})
	s.Require().NoError(err)
	s.Equal(int64(2), count)

	stats, err := s.f.catalog.Statistics(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(2), stats.FeaturedProducts)
}

func (s *CatalogServiceSuite) TestBulkUpdateRequiresIDs() {
	_, err := s.f.catalog.BulkUpdateFlags(s.ctx, BulkUpdateInput{IsFeatured: boolPtr(true)})
	s.ErrorIs(err, ErrValidation)
}

func (s *CatalogServiceSuite) TestListProductsSearchAndOrdering() {
	testdb.Product(s.T(), s.f.db, "Blue Shirt", "30.00", "")
	testdb.Product(s.T(), s.f.db, "Red Shirt", "10.00", "")
	testdb.Product(s.T(), s.f.db, "Hat", "15.00", "")

	products, total, err := s.f.catalog.ListProducts(s.ctx, repositories.ProductFilter{
		ListParams: repositories.ListParams{Search: "shirt", Ordering: "regular_price", Limit: 10},
	})
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Require().Len(products, 2)
	s.Equal("Red Shirt", products[0].Name)
}

func (s *CatalogServiceSuite) TestUpdateProductPatchClearsSalePrice() {
	product, err := s.f.catalog.CreateProduct(s.ctx, teeInput(), nil, false)
	s.Require().NoError(err)

	var patch ProductPatch
	patch.SalePrice.Set = true
	updated, err := s.f.catalog.UpdateProduct(s.ctx, product.ID, patch)
	s.Require().NoError(err)

	s.False(updated.SalePrice.Valid)
	s.True(updated.DiscountPercentage().IsZero())
	s.Equal("Tee", updated.Name)
}

func (s *CatalogServiceSuite) TestDeleteCategoryDetachesProducts() {
	category, err := s.f.catalog.CreateCategory(s.ctx, CategoryInput{Name: "Summer Wear"})
	s.Require().NoError(err)
	s.Equal("summer-wear", category.Slug)

	in := teeInput()
	in.CategoryID = &category.ID
	product, err := s.f.catalog.CreateProduct(s.ctx, in, nil, false)
	s.Require().NoError(err)

	s.Require().NoError(s.f.catalog.DeleteCategory(s.ctx, category.ID))

	reloaded, err := s.f.catalog.GetProduct(s.ctx, product.ID)
	s.Require().NoError(err)
	s.Nil(reloaded.CategoryID)
}

func (s *CatalogServiceSuite) TestDuplicateCategoryName() {
	_, err := s.f.catalog.CreateCategory(s.ctx, CategoryInput{Name: "Hats"})
	s.Require().NoError(err)

	_, err = s.f.catalog.CreateCategory(s.ctx, CategoryInput{Name: "Hats"})
	var verr *ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Contains(verr.Fields, "name")
}

func (s *CatalogServiceSuite) TestDeleteProductDiscardsImages() {
	product, err := s.f.catalog.CreateProduct(s.ctx, teeInput(), []ImageUpload{pngUpload("a.png")}, true)
	s.Require().NoError(err)
	s.Equal(1, s.f.store.liveCount())

	s.Require().NoError(s.f.catalog.DeleteProduct(s.ctx, product.ID))

	_, err = s.f.catalog.GetProduct(s.ctx, product.ID)
	s.ErrorIs(err, ErrNotFound)
	s.Zero(s.f.store.liveCount())
}

func TestBuildProductWorkbook(t *testing.T) {
	sku := "SKU-9"
	products := []models.Product{{
		ID:           9,
		Name:         "Tee",
		SKU:          &sku,
		RegularPrice: decimal.RequireFromString("25.00"),
		SalePrice:    decimal.NewNullDecimal(decimal.RequireFromString("20.00")),
		Status:       models.ProductStatusActive,
	}}

	file, err := buildProductWorkbook(products)
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)

	sheet := file.Sheets[0]
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, "Tee", sheet.Rows[1].Cells[1].String())
}

func (s *CatalogServiceSuite) TestExportProductsWritesOneRowPerProduct() {
	_, err := s.f.catalog.CreateProduct(s.ctx, teeInput(), nil, false)
	s.Require().NoError(err)
	hoodie := teeInput()
	hoodie.Name = "Hoodie"
	hoodie.SalePrice = decimal.NullDecimal{}
	_, err = s.f.catalog.CreateProduct(s.ctx, hoodie, nil, false)
	s.Require().NoError(err)

	var buf bytes.Buffer
	s.Require().NoError(s.f.catalog.ExportProducts(s.ctx, &buf))

	file, err := xlsx.OpenBinary(buf.Bytes())
	s.Require().NoError(err)
	s.Require().Len(file.Sheets, 1)
	rows := file.Sheets[0].Rows
	s.Require().Len(rows, 3)
	s.Equal("Name", rows[0].Cells[1].Value)
	s.Equal("Tee", rows[1].Cells[1].Value)
	s.Equal("20.00", rows[1].Cells[6].Value)
	s.Equal("Hoodie", rows[2].Cells[1].Value)
	s.Equal("", rows[2].Cells[5].Value)
}
