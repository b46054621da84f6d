package fakers

import (
	"math/rand"
	"strings"

	"github.com/Rakhulsr/go-storeadmin/app/models"
	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

var (
	garments  = []string{"Tee", "Polo", "Hoodie", "Shirt", "Jacket", "Sweatshirt", "Kurta", "Tank Top"}
	materials = []string{"Cotton", "Linen", "Polyester", "Cotton Blend", "Denim", "Wool"}
	sizes     = []string{"S", "M", "L", "XL", "XXL"}
	sleeves   = []string{"Short", "Long", "Sleeveless"}
)

// CategoryNames is the fixed set of categories the seeder creates.
var CategoryNames = []string{"T-Shirts", "Shirts", "Hoodies", "Jackets", "Ethnic Wear", "Accessories"}

func ProductFaker(category *models.Category) *models.Product {
	word := faker.Word()
	name := strings.ToUpper(word[:1]) + word[1:] + " " + garments[rand.Intn(len(garments))]
	sku := strings.ToUpper(slug.Make(name) + "-" + uuid.NewString()[:6])

	regular := decimal.NewFromInt(int64(rand.Intn(40)+3)*100 - 1)
	product := &models.Product{
		Name:              name,
		SKU:               &sku,
		Description:       faker.Paragraph(),
		Material:          materials[rand.Intn(len(materials))],
		Specifications:    faker.Sentence(),
		SellerInformation: faker.Sentence(),
		Size:              sizes[rand.Intn(len(sizes))],
		Sleeve:            sleeves[rand.Intn(len(sleeves))],
		RegularPrice:      regular,
		StockQuantity:     rand.Intn(50),
		IsFeatured:        rand.Intn(4) == 0,
		IsNewArrival:      rand.Intn(3) == 0,
		IsBestSeller:      rand.Intn(5) == 0,
		Status:            models.ProductStatusActive,
	}
	if category != nil {
		product.CategoryID = &category.ID
	}
	if rand.Intn(3) == 0 {
		off := decimal.NewFromInt(int64(rand.Intn(40) + 10)).Div(decimal.NewFromInt(100))
		product.SalePrice = decimal.NewNullDecimal(regular.Sub(regular.Mul(off)).Round(2))
	}
	return product
}

// CustomerFaker returns a customer account; passwordHash must already be a bcrypt hash.
func CustomerFaker(passwordHash string) *models.User {
	first := faker.FirstName()
	last := faker.LastName()
	local := slug.Make(first + "." + last + "-" + uuid.NewString()[:4])

	address := faker.GetRealAddress()
	return &models.User{
		Email:     strings.ReplaceAll(local, "-", ".") + "@example.com",
		FirstName: first,
		LastName:  last,
		Password:  passwordHash,
		IsActive:  true,
		Profile: &models.Profile{
			PhoneNumber: faker.Phonenumber(),
			Address:     address.Address,
			City:        address.City,
			State:       address.State,
			Zipcode:     address.PostalCode,
			Gender:      []string{"male", "female", "other"}[rand.Intn(3)],
		},
	}
}
