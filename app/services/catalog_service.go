package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/Rakhulsr/go-storeadmin/app/helpers"
	"github.com/Rakhulsr/go-storeadmin/app/models"
	"github.com/Rakhulsr/go-storeadmin/app/repositories"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CategoryInput struct {
	Name string `json:"name" validate:"required,max=100"`
}

// ProductInput is a full product representation used by create and replace.
type ProductInput struct {
	Name              string              `json:"name" validate:"required,max=200"`
	SKU               *string             `json:"sku" validate:"omitempty,max=100"`
	Description       string              `json:"description"`
	Material          string              `json:"material" validate:"max=100"`
	Specifications    string              `json:"specifications"`
	SellerInformation string              `json:"seller_information"`
	Size              string              `json:"size" validate:"max=50"`
	Sleeve            string              `json:"sleeve" validate:"max=50"`
	RegularPrice      decimal.Decimal     `json:"regular_price"`
	SalePrice         decimal.NullDecimal `json:"sale_price"`
	StockQuantity     int                 `json:"stock_quantity" validate:"gte=0"`
	CategoryID        *uint               `json:"category"`
	IsFeatured        bool                `json:"is_featured"`
	IsNewArrival      bool                `json:"is_new_arrival"`
	IsBestSeller      bool                `json:"is_best_seller"`
	Status            string              `json:"status" validate:"omitempty,oneof=active inactive draft"`
}

// ProductPatch holds a partial update; nil or unset fields are left alone.
type ProductPatch struct {
	Name              *string                           `json:"name" validate:"omitempty,min=1,max=200"`
	SKU               helpers.Optional[string]          `json:"sku"`
	Description       *string                           `json:"description"`
	Material          *string                           `json:"material" validate:"omitempty,max=100"`
	Specifications    *string                           `json:"specifications"`
	SellerInformation *string                           `json:"seller_information"`
	Size              *string                           `json:"size" validate:"omitempty,max=50"`
	Sleeve            *string                           `json:"sleeve" validate:"omitempty,max=50"`
	RegularPrice      *decimal.Decimal                  `json:"regular_price"`
	SalePrice         helpers.Optional[decimal.Decimal] `json:"sale_price"`
	StockQuantity     *int                              `json:"stock_quantity" validate:"omitempty,gte=0"`
	CategoryID        helpers.Optional[uint]            `json:"category"`
	IsFeatured        *bool                             `json:"is_featured"`
	IsNewArrival      *bool                             `json:"is_new_arrival"`
	IsBestSeller      *bool                             `json:"is_best_seller"`
	Status            *string                           `json:"status" validate:"omitempty,oneof=active inactive draft"`
}

// AsPatch turns a full representation into a patch that sets every field.
func (in ProductInput) AsPatch() ProductPatch {
	sku := helpers.Optional[string]{Set: true, Valid: in.SKU != nil}
	if in.SKU != nil {
		sku.Value = *in.SKU
	}
	category := helpers.Optional[uint]{Set: true, Valid: in.CategoryID != nil}
	if in.CategoryID != nil {
		category.Value = *in.CategoryID
	}
	status := in.Status
	if status == "" {
		status = models.ProductStatusActive
	}
	regular := in.RegularPrice

	return ProductPatch{
		Name:              &in.Name,
		SKU:               sku,
		Description:       &in.Description,
		Material:          &in.Material,
		Specifications:    &in.Specifications,
		SellerInformation: &in.SellerInformation,
		Size:              &in.Size,
		Sleeve:            &in.Sleeve,
		RegularPrice:      &regular,
		SalePrice:         helpers.Optional[decimal.Decimal]{Set: true, Valid: in.SalePrice.Valid, Value: in.SalePrice.Decimal},
		StockQuantity:     &in.StockQuantity,
		CategoryID:        category,
		IsFeatured:        &in.IsFeatured,
		IsNewArrival:      &in.IsNewArrival,
		IsBestSeller:      &in.IsBestSeller,
		Status:            &status,
	}
}

type BulkUpdateInput struct {
	IDs          []uint `json:"ids" validate:"required,min=1"`
	IsFeatured   *bool  `json:"is_featured"`
	IsNewArrival *bool  `json:"is_new_arrival"`
	IsBestSeller *bool  `json:"is_best_seller"`
}

type CatalogService struct {
	db           *gorm.DB
	productRepo  repositories.ProductRepositoryImpl
	categoryRepo repositories.CategoryRepositoryImpl
	imageRepo    repositories.ProductImageRepository
	store        ImageStore
}

func NewCatalogService(
	db *gorm.DB,
	productRepo repositories.ProductRepositoryImpl,
	categoryRepo repositories.CategoryRepositoryImpl,
	imageRepo repositories.ProductImageRepository,
	store ImageStore,
) *CatalogService {
	return &CatalogService{
		db:           db,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		imageRepo:    imageRepo,
		store:        store,
	}
}

// ---- categories ----

func (s *CatalogService) ListCategories(ctx context.Context, params repositories.ListParams) ([]models.Category, int64, error) {
	return s.categoryRepo.List(ctx, params)
}

func (s *CatalogService) AllCategories(ctx context.Context) ([]models.Category, error) {
	return s.categoryRepo.All(ctx)
}

func (s *CatalogService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	if category == nil {
		return nil, notFound("category", id)
	}
	return category, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if errs := helpers.Validate(in); errs != nil {
		return nil, NewValidationError(errs)
	}

	category := &models.Category{Name: in.Name, Slug: slug.Make(in.Name)}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, categoryWriteError(err)
	}
	log.Printf("CatalogService.CreateCategory: created category %d (%s)", category.ID, category.Slug)
	return category, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id uint, in CategoryInput) (*models.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if errs := helpers.Validate(in); errs != nil {
		return nil, NewValidationError(errs)
	}

	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	category.Name = in.Name
	category.Slug = slug.Make(in.Name)

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, categoryWriteError(err)
	}
	return category, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	if _, err := s.GetCategory(ctx, id); err != nil {
		return err
	}
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

func categoryWriteError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fieldError("name", "category with this name already exists.")
	}
	return fmt.Errorf("failed to save category: %w", err)
}

// ---- products ----

func (s *CatalogService) ListProducts(ctx context.Context, filter repositories.ProductFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(ctx, filter)
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, notFound("product", id)
	}
	return product, nil
}

// CreateProduct stores a product together with any uploaded images. Images are
// pushed to storage first; if that fails nothing is written to the database.
func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput, uploads []ImageUpload, firstIsMain bool) (*models.Product, error) {
	if errs := helpers.Validate(in); errs != nil {
		return nil, NewValidationError(errs)
	}

	product := &models.Product{Status: models.ProductStatusActive}
	if err := s.applyPatch(ctx, product, in.AsPatch()); err != nil {
		return nil, err
	}
	if len(uploads) > 0 {
		if err := validateUploads(uploads); err != nil {
			return nil, err
		}
	}

	stored, err := storeImages(ctx, s.store, 0, uploads)
	if err != nil {
		return nil, err
	}

	err = withTx(ctx, s.db, func(tx *gorm.DB) error {
		if err := s.productRepo.Create(ctx, tx, product); err != nil {
			return productWriteError(err)
		}
		images := buildImages(product.ID, stored, firstIsMain)
		return s.imageRepo.CreateBatch(ctx, tx, images)
	})
	if err != nil {
		discardImages(ctx, s.store, stored)
		return nil, err
	}

	log.Printf("CatalogService.CreateProduct: created product %d with %d image(s)", product.ID, len(stored))
	return s.GetProduct(ctx, product.ID)
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, patch ProductPatch) (*models.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyPatch(ctx, product, patch); err != nil {
		return nil, err
	}
	if err := s.productRepo.Update(ctx, nil, product); err != nil {
		return nil, productWriteError(err)
	}
	return s.GetProduct(ctx, id)
}

// applyPatch copies patch onto product and validates the result.
func (s *CatalogService) applyPatch(ctx context.Context, product *models.Product, patch ProductPatch) error {
	if errs := helpers.Validate(patch); errs != nil {
		return NewValidationError(errs)
	}

	if patch.Name != nil {
		product.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.SKU.Set {
		product.SKU = normalizeSKU(patch.SKU.Ptr())
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.Material != nil {
		product.Material = *patch.Material
	}
	if patch.Specifications != nil {
		product.Specifications = *patch.Specifications
	}
	if patch.SellerInformation != nil {
		product.SellerInformation = *patch.SellerInformation
	}
	if patch.Size != nil {
		product.Size = *patch.Size
	}
	if patch.Sleeve != nil {
		product.Sleeve = *patch.Sleeve
	}
	if patch.RegularPrice != nil {
		product.RegularPrice = *patch.RegularPrice
	}
	if patch.SalePrice.Set {
		product.SalePrice = decimal.NullDecimal{Decimal: patch.SalePrice.Value, Valid: patch.SalePrice.Valid}
	}
	if patch.StockQuantity != nil {
		product.StockQuantity = *patch.StockQuantity
	}
	if patch.CategoryID.Set {
		product.CategoryID = patch.CategoryID.Ptr()
		product.Category = nil
	}
	if patch.IsFeatured != nil {
		product.IsFeatured = *patch.IsFeatured
	}
	if patch.IsNewArrival != nil {
		product.IsNewArrival = *patch.IsNewArrival
	}
	if patch.IsBestSeller != nil {
		product.IsBestSeller = *patch.IsBestSeller
	}
	if patch.Status != nil {
		product.Status = *patch.Status
	}

	errs := product.Validate()
	if errs == nil {
		errs = models.FieldErrors{}
	}
	if product.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *product.CategoryID)
		if err != nil {
			return fmt.Errorf("failed to check category: %w", err)
		}
		if category == nil {
			errs["category"] = fmt.Sprintf("Invalid pk %d - object does not exist.", *product.CategoryID)
		}
	}
	if product.SKU != nil {
		taken, err := s.productRepo.SKUTaken(ctx, *product.SKU, product.ID)
		if err != nil {
			return fmt.Errorf("failed to check sku: %w", err)
		}
		if taken {
			errs["sku"] = "product with this sku already exists."
		}
	}
	if len(errs) > 0 {
		return NewValidationError(errs)
	}
	return nil
}

func normalizeSKU(sku *string) *string {
	if sku == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*sku)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func productWriteError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fieldError("sku", "product with this sku already exists.")
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return fieldError("category", "Invalid pk - object does not exist.")
	}
	return fmt.Errorf("failed to save product: %w", err)
}

// DeleteProduct removes the product. Historical order lines survive with their
// snapshot name and price.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}

	err = withTx(ctx, s.db, func(tx *gorm.DB) error {
		return s.productRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	stored := make([]StoredImage, 0, len(product.Images))
	for _, img := range product.Images {
		stored = append(stored, StoredImage{URL: img.URL, PublicID: img.PublicID})
	}
	discardImages(ctx, s.store, stored)
	return nil
}

// BulkUpdateFlags applies the given flags to every listed product and returns
// how many exist. Unknown ids are ignored.
func (s *CatalogService) BulkUpdateFlags(ctx context.Context, in BulkUpdateInput) (int64, error) {
	if errs := helpers.Validate(in); errs != nil {
		return 0, NewValidationError(errs)
	}

	count, err := s.productRepo.BulkUpdateFlags(ctx, in.IDs, repositories.ProductFlags{
		IsFeatured:   in.IsFeatured,
		IsNewArrival: in.IsNewArrival,
		IsBestSeller: in.IsBestSeller,
	})
	if err != nil {
		return 0, err
	}
	log.Printf("CatalogService.BulkUpdateFlags: updated %d of %d requested products", count, len(in.IDs))
	return count, nil
}

func (s *CatalogService) Statistics(ctx context.Context) (repositories.ProductStats, error) {
	return s.productRepo.Statistics(ctx)
}

// ---- images ----

func buildImages(productID uint, stored []StoredImage, firstIsMain bool) []models.ProductImage {
	images := make([]models.ProductImage, 0, len(stored))
	for i, st := range stored {
		img := models.ProductImage{ProductID: productID, URL: st.URL, PublicID: st.PublicID}
		img.MarkMain(firstIsMain && i == 0)
		images = append(images, img)
	}
	return images
}

// UploadImages stores every upload and records them in one transaction. When
// asMain is set the first upload becomes the product's only main image.
func (s *CatalogService) UploadImages(ctx context.Context, productID uint, uploads []ImageUpload, asMain bool) ([]models.ProductImage, error) {
	if err := validateUploads(uploads); err != nil {
		return nil, err
	}
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return nil, err
	}

	stored, err := storeImages(ctx, s.store, productID, uploads)
	if err != nil {
		return nil, err
	}

	images := buildImages(productID, stored, asMain)
	err = withTx(ctx, s.db, func(tx *gorm.DB) error {
		product, err := s.productRepo.LockByID(ctx, tx, productID)
		if err != nil {
			return fmt.Errorf("failed to lock product: %w", err)
		}
		if product == nil {
			return notFound("product", productID)
		}
		if asMain {
			if err := s.imageRepo.ClearMain(ctx, tx, productID); err != nil {
				return fmt.Errorf("failed to clear main image: %w", err)
			}
		}
		if err := s.imageRepo.CreateBatch(ctx, tx, images); err != nil {
			return fmt.Errorf("failed to save images: %w", err)
		}
		return nil
	})
	if err != nil {
		discardImages(ctx, s.store, stored)
		return nil, err
	}

	log.Printf("CatalogService.UploadImages: stored %d image(s) for product %d", len(images), productID)
	return images, nil
}

// SetMainImage clears the current main image and marks imageID in one
// transaction, holding the product row lock throughout.
func (s *CatalogService) SetMainImage(ctx context.Context, productID, imageID uint) (*models.ProductImage, error) {
	var image *models.ProductImage
	err := withTx(ctx, s.db, func(tx *gorm.DB) error {
		product, err := s.productRepo.LockByID(ctx, tx, productID)
		if err != nil {
			return fmt.Errorf("failed to lock product: %w", err)
		}
		if product == nil {
			return notFound("product", productID)
		}

		image, err = s.imageRepo.GetByID(ctx, tx, productID, imageID)
		if err != nil {
			return fmt.Errorf("failed to get image: %w", err)
		}
		if image == nil {
			return notFound("image", imageID)
		}

		if err := s.imageRepo.ClearMain(ctx, tx, productID); err != nil {
			return fmt.Errorf("failed to clear main image: %w", err)
		}
		return s.imageRepo.SetMain(ctx, tx, image)
	})
	if err != nil {
		return nil, err
	}
	return image, nil
}

func (s *CatalogService) DeleteImage(ctx context.Context, productID, imageID uint) error {
	var image *models.ProductImage
	err := withTx(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		image, err = s.imageRepo.GetByID(ctx, tx, productID, imageID)
		if err != nil {
			return fmt.Errorf("failed to get image: %w", err)
		}
		if image == nil {
			return notFound("image", imageID)
		}
		return s.imageRepo.Delete(ctx, tx, image)
	})
	if err != nil {
		return err
	}

	discardImages(ctx, s.store, []StoredImage{{URL: image.URL, PublicID: image.PublicID}})
	return nil
}
