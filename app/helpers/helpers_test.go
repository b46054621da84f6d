package helpers

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type patchBody struct {
	SalePrice Optional[string] `json:"sale_price"`
	Category  Optional[uint]   `json:"category"`
	SKU       Optional[string] `json:"sku"`
}

func TestOptionalDistinguishesAbsentFromNull(t *testing.T) {
	var body patchBody
	require.NoError(t, json.Unmarshal([]byte(`{"sale_price":null,"category":3}`), &body))

	assert.True(t, body.SalePrice.Set)
	assert.False(t, body.SalePrice.Valid)
	assert.Nil(t, body.SalePrice.Ptr())

	assert.True(t, body.Category.Set)
	assert.True(t, body.Category.Valid)
	assert.Equal(t, uint(3), *body.Category.Ptr())

	assert.False(t, body.SKU.Set)
}

type signup struct {
	Email     string `validate:"required,email"`
	FirstName string `validate:"required"`
	Rating    int    `validate:"min=1,max=5"`
}

func TestValidateFormatsFieldErrors(t *testing.T) {
	errs := Validate(signup{Email: "nope", Rating: 9})

	assert.Equal(t, "Enter a valid email address.", errs["email"])
	assert.Equal(t, "This field is required.", errs["first_name"])
	assert.Equal(t, "Ensure this value is at most 5.", errs["rating"])

	assert.Nil(t, Validate(signup{Email: "a@b.co", FirstName: "A", Rating: 5}))
}

func TestNewPageLinks(t *testing.T) {
	u, _ := url.Parse("http://x/api/products/?search=tee&page=2")
	req := ParsePageRequest(u.Query(), 20)

	page := NewPage(u, req, 45, []int{1})
	require.NotNil(t, page.Next)
	require.NotNil(t, page.Previous)
	assert.Equal(t, "http://x/api/products/?page=3&search=tee", *page.Next)
	assert.Equal(t, "http://x/api/products/?search=tee", *page.Previous)
	assert.Equal(t, int64(45), page.Count)

	last := NewPage(u, PageRequest{Page: 3, Size: 20}, 45, []int{})
	assert.Nil(t, last.Next)

	assert.False(t, PageRequest{Page: 1, Size: 20}.OutOfRange(0))
	assert.True(t, PageRequest{Page: 4, Size: 20}.OutOfRange(45))
	assert.False(t, PageRequest{Page: 3, Size: 20}.OutOfRange(45))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.True(t, PasswordCompare(hash, []byte("s3cret!")))
	assert.False(t, PasswordCompare(hash, []byte("wrong")))
}

func TestParsePageRequestClampsHugePages(t *testing.T) {
	for _, raw := range []string{"9223372036854775807", "99999999999999999999999"} {
		req := ParsePageRequest(url.Values{"page": {raw}}, 20)
		assert.Positive(t, req.Offset(), raw)
		assert.True(t, req.OutOfRange(45), raw)
	}

	assert.Equal(t, 1, ParsePageRequest(url.Values{"page": {"-3"}}, 20).Page)
	assert.Equal(t, 1, ParsePageRequest(url.Values{"page": {"abc"}}, 20).Page)
	assert.Equal(t, 2, ParsePageRequest(url.Values{"page": {"2"}}, 20).Page)
}
