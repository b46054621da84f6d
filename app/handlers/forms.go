package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/Rakhulsr/go-storeadmin/app/services"
	"github.com/gorilla/schema"
	"github.com/shopspring/decimal"
)

const (
	maxUploadMemory = 32 << 20
	maxImageSize    = 10 << 20
)

var formDecoder = newFormDecoder()

func newFormDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

// DecodeForm fills dst from url-encoded or multipart form values.
func DecodeForm(dst interface{}, values map[string][]string) error {
	if err := formDecoder.Decode(dst, values); err != nil {
		return badRequest("form", fmt.Sprintf("Malformed form data: %v", err))
	}
	return nil
}

// productForm is the multipart variant of a product create request.
type productForm struct {
	Name              string `schema:"name"`
	SKU               string `schema:"sku"`
	Description       string `schema:"description"`
	Material          string `schema:"material"`
	Specifications    string `schema:"specifications"`
	SellerInformation string `schema:"seller_information"`
	Size              string `schema:"size"`
	Sleeve            string `schema:"sleeve"`
	RegularPrice      string `schema:"regular_price"`
	SalePrice         string `schema:"sale_price"`
	StockQuantity     int    `schema:"stock_quantity"`
	Category          uint   `schema:"category"`
	IsFeatured        bool   `schema:"is_featured"`
	IsNewArrival      bool   `schema:"is_new_arrival"`
	IsBestSeller      bool   `schema:"is_best_seller"`
	Status            string `schema:"status"`
	IsMain            bool   `schema:"is_main"`
}

func (f productForm) input() (services.ProductInput, error) {
	in := services.ProductInput{
		Name:              f.Name,
		Description:       f.Description,
		Material:          f.Material,
		Specifications:    f.Specifications,
		SellerInformation: f.SellerInformation,
		Size:              f.Size,
		Sleeve:            f.Sleeve,
		StockQuantity:     f.StockQuantity,
		IsFeatured:        f.IsFeatured,
		IsNewArrival:      f.IsNewArrival,
		IsBestSeller:      f.IsBestSeller,
		Status:            f.Status,
	}
	if sku := strings.TrimSpace(f.SKU); sku != "" {
		in.SKU = &sku
	}
	if f.Category != 0 {
		category := f.Category
		in.CategoryID = &category
	}

	errs := map[string]string{}
	if strings.TrimSpace(f.RegularPrice) != "" {
		price, err := decimal.NewFromString(strings.TrimSpace(f.RegularPrice))
		if err != nil {
			errs["regular_price"] = "A valid number is required."
		}
		in.RegularPrice = price
	}
	if strings.TrimSpace(f.SalePrice) != "" {
		price, err := decimal.NewFromString(strings.TrimSpace(f.SalePrice))
		if err != nil {
			errs["sale_price"] = "A valid number is required."
		}
		in.SalePrice = decimal.NewNullDecimal(price)
	}
	if len(errs) > 0 {
		return in, services.NewValidationError(errs)
	}
	return in, nil
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// readUploads collects the files sent as images or images[].
func readUploads(form *multipart.Form) ([]services.ImageUpload, error) {
	if form == nil {
		return nil, nil
	}
	headers := append(form.File["images"], form.File["images[]"]...)

	uploads := make([]services.ImageUpload, 0, len(headers))
	for _, fh := range headers {
		if fh.Size > maxImageSize {
			return nil, badRequest("images", fmt.Sprintf("%s exceeds the %d MB limit.", fh.Filename, maxImageSize>>20))
		}
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open upload %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(io.LimitReader(f, maxImageSize+1))
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read upload %s: %w", fh.Filename, err)
		}
		uploads = append(uploads, services.ImageUpload{Filename: fh.Filename, Data: data})
	}
	return uploads, nil
}

func formBool(r *http.Request, key string) bool {
	v, _ := strconv.ParseBool(r.FormValue(key))
	return v
}
