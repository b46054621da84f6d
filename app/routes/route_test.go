package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Rakhulsr/go-storeadmin/app/configs"
	"github.com/Rakhulsr/go-storeadmin/app/db/testdb"
	"github.com/Rakhulsr/go-storeadmin/app/models"
	"github.com/Rakhulsr/go-storeadmin/app/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")

type memoryStore struct {
	mu  sync.Mutex
	seq int
}

func (s *memoryStore) Upload(ctx context.Context, upload services.ImageUpload) (services.StoredImage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	id := fmt.Sprintf("products/img-%d", s.seq)
	return services.StoredImage{URL: "https://img.test/" + id + ".png", PublicID: id}, nil
}

func (s *memoryStore) Delete(ctx context.Context, publicID string) error {
	return nil
}

type testServer struct {
	t       *testing.T
	db      *gorm.DB
	handler http.Handler
}

func testEnv() configs.ENV {
	return configs.ENV{
		AppEnv:          "test",
		JWTSecret:       "route-test-secret-0123456789abcdef",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: time.Hour,
		PageSize:        20,
		CORSOrigins:     []string{"*"},
		AuthRateLimit:   100,
		CurrencySymbol:  "$",
		TemplatesDir:    "../../templates",
	}
}

func newTestServer(t *testing.T, env configs.ENV) *testServer {
	db := testdb.Open(t)
	return &testServer{
		t:       t,
		db:      db,
		handler: NewRouter(db, &memoryStore{}, env, configs.EphemeralSessionKeys()),
	}
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (s *testServer) login(email string) (string, string) {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/auth/login/", "", map[string]string{"email": email, "password": testdb.Password})
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(s.t, rec)
	return body["access_token"].(string), body["refresh_token"].(string)
}

func TestAPIRequiresBearerToken(t *testing.T) {
	srv := newTestServer(t, testEnv())

	rec := srv.do(http.MethodGet, "/api/products/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, false, decode(t, rec)["success"])

	rec = srv.do(http.MethodGet, "/api/products/", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginFailuresAreBadRequests(t *testing.T) {
	srv := newTestServer(t, testEnv())
	testdb.Customer(t, srv.db, "buyer@example.com")
	testdb.DisabledStaff(t, srv.db, "gone@example.com")
	testdb.Staff(t, srv.db, "staff@example.com")

	cases := []struct {
		name     string
		email    string
		password string
		message  string
	}{
		{"wrong password", "staff@example.com", "nope-nope", "Invalid credentials"},
		{"customer", "buyer@example.com", testdb.Password, "Access denied. Admin privileges required."},
		{"disabled", "gone@example.com", testdb.Password, "User account is disabled."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := srv.do(http.MethodPost, "/auth/login/", "", map[string]string{"email": tc.email, "password": tc.password})
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, tc.message, body["error"])
		})
	}
}

func TestRevokedRoleIsForbidden(t *testing.T) {
	srv := newTestServer(t, testEnv())
	staff := testdb.Staff(t, srv.db, "staff@example.com")
	access, _ := srv.login(staff.Email)

	rec := srv.do(http.MethodGet, "/auth/me", access, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, srv.db.Model(&models.User{}).Where("id = ?", staff.ID).Update("is_active", false).Error)
	rec = srv.do(http.MethodGet, "/api/orders/", access, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	require.NoError(t, srv.db.Model(&models.User{}).Where("id = ?", staff.ID).
		Updates(map[string]interface{}{"is_active": true, "is_staff": false}).Error)
	rec = srv.do(http.MethodGet, "/api/orders/", access, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRefreshRotatesToken(t *testing.T) {
	srv := newTestServer(t, testEnv())
	testdb.Staff(t, srv.db, "staff@example.com")
	_, refresh := srv.login("staff@example.com")

	rec := srv.do(http.MethodPost, "/auth/refresh", "", map[string]string{"refresh_token": refresh})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.NotEmpty(t, body["access_token"])
	assert.NotEqual(t, refresh, body["refresh_token"])

	rec = srv.do(http.MethodPost, "/auth/refresh", "", map[string]string{"refresh_token": refresh})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProductListEnvelope(t *testing.T) {
	srv := newTestServer(t, testEnv())
	testdb.Staff(t, srv.db, "staff@example.com")
	testdb.Products(t, srv.db, 25)
	access, _ := srv.login("staff@example.com")

	rec := srv.do(http.MethodGet, "/api/products/?ordering=name", access, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.EqualValues(t, 25, body["count"])
	assert.Len(t, body["results"], 20)
	assert.Nil(t, body["previous"])
	require.NotNil(t, body["next"])
	assert.Contains(t, body["next"], "page=2")

	first := body["results"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Product 01", first["name"])
	assert.Equal(t, models.PlaceholderImageURL, first["main_image_url"])

	rec = srv.do(http.MethodGet, "/api/products?page=2", access, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["results"], 5)

	rec = srv.do(http.MethodGet, "/api/products/?page=3", access, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(http.MethodGet, "/api/products?page=9223372036854775807", access, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBulkUpdateReportsCount(t *testing.T) {
	srv := newTestServer(t, testEnv())
	testdb.Staff(t, srv.db, "staff@example.com")
	products := testdb.Products(t, srv.db, 3)
	access, _ := srv.login("staff@example.com")

	rec := srv.do(http.MethodPost, "/api/products/bulk_update/", access, map[string]interface{}{
		"ids":         []uint{products[0].ID, products[1].ID, 9999},
		"is_featured": true,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "Updated 2 products", body["message"])

	rec = srv.do(http.MethodGet, "/api/products/statistics/", access, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, decode(t, rec)["featured_products"])

	rec = srv.do(http.MethodPost, "/api/products/bulk_update/", access, map[string]interface{}{"is_featured": true})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["fields"], "ids")
}

func TestUploadImagesMarksFirstAsMain(t *testing.T) {
	srv := newTestServer(t, testEnv())
	testdb.Staff(t, srv.db, "staff@example.com")
	product := testdb.Product(t, srv.db, "Tee", "25.00", "")
	access, _ := srv.login("staff@example.com")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, name := range []string{"front.png", "back.png"} {
		part, err := mw.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = part.Write(pngHeader)
		require.NoError(t, err)
	}
	require.NoError(t, mw.WriteField("is_main", "true"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/products/%d/upload_images/", product.ID), &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+access)
	rec := httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	images := body["images"].([]interface{})
	require.Len(t, images, 2)
	assert.Equal(t, true, images[0].(map[string]interface{})["is_main"])
	assert.Equal(t, false, images[1].(map[string]interface{})["is_main"])

	rec = srv.do(http.MethodGet, fmt.Sprintf("/api/products/%d", product.ID), access, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://img.test/products/img-1.png", decode(t, rec)["main_image_url"])
}

func TestOrderStatusEndpoint(t *testing.T) {
	srv := newTestServer(t, testEnv())
	testdb.Staff(t, srv.db, "staff@example.com")
	product := testdb.Product(t, srv.db, "Tee", "25.00", "20.00")
	access, _ := srv.login("staff@example.com")

	rec := srv.do(http.MethodPost, "/api/orders/", access, map[string]interface{}{
		"items":            []map[string]interface{}{{"product": product.ID, "quantity": 2}},
		"shipping_address": map[string]string{"address": "1 Main St", "city": "Pune"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decode(t, rec)
	id := uint(order["id"].(float64))
	assert.Equal(t, "pending", order["status"])

	path := fmt.Sprintf("/api/orders/%d/update_status/", id)
	rec = srv.do(http.MethodPatch, path, access, map[string]string{"status": "shipped"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = srv.do(http.MethodPatch, path, access, map[string]string{"status": "packed"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "packed", decode(t, rec)["status"])

	rec = srv.do(http.MethodPatch, path, access, map[string]string{"status": "lost"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(http.MethodGet, "/api/orders/9999/", access, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCustomerToggleMessage(t *testing.T) {
	srv := newTestServer(t, testEnv())
	testdb.Staff(t, srv.db, "staff@example.com")
	customer := testdb.Customer(t, srv.db, "buyer@example.com")
	access, _ := srv.login("staff@example.com")

	path := fmt.Sprintf("/api/customers/%d/toggle_active/", customer.ID)
	rec := srv.do(http.MethodPatch, path, access, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Customer deactivated", decode(t, rec)["message"])

	rec = srv.do(http.MethodPatch, path, access, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Customer activated", decode(t, rec)["message"])

	rec = srv.do(http.MethodGet, fmt.Sprintf("/api/customers/%d/orders", customer.ID), access, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestLoginIsRateLimited(t *testing.T) {
	env := testEnv()
	env.AuthRateLimit = 2
	srv := newTestServer(t, env)

	for i := 0; i < 2; i++ {
		rec := srv.do(http.MethodPost, "/auth/login", "", map[string]string{"email": "x@example.com", "password": "wrong"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
	rec := srv.do(http.MethodPost, "/auth/login", "", map[string]string{"email": "x@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func loginFrom(srv *testServer, forwardedFor string) int {
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"x@example.com","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", forwardedFor)
	rec := httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)
	return rec.Code
}

func TestRateLimitIgnoresForwardedForByDefault(t *testing.T) {
	env := testEnv()
	env.AuthRateLimit = 2
	srv := newTestServer(t, env)

	codes := map[int]int{}
	for i := 0; i < 5; i++ {
		codes[loginFrom(srv, fmt.Sprintf("203.0.113.%d", i+1))]++
	}
	assert.Equal(t, map[int]int{http.StatusBadRequest: 2, http.StatusTooManyRequests: 3}, codes)
}

func TestRateLimitTrustsForwardedForBehindProxy(t *testing.T) {
	env := testEnv()
	env.AuthRateLimit = 2
	env.BehindProxy = true
	srv := newTestServer(t, env)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusBadRequest, loginFrom(srv, fmt.Sprintf("203.0.113.%d", i+1)))
	}
	assert.Equal(t, http.StatusBadRequest, loginFrom(srv, "198.51.100.7"))
	assert.Equal(t, http.StatusBadRequest, loginFrom(srv, "198.51.100.7"))
	assert.Equal(t, http.StatusTooManyRequests, loginFrom(srv, "198.51.100.7"))
}

func TestAdminRequiresSession(t *testing.T) {
	srv := newTestServer(t, testEnv())

	req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	rec := httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin/login", rec.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodGet, "/admin/login", nil)
	rec = httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "gorilla.csrf.Token")
}

func TestAdminPostWithoutCSRFTokenIsRejected(t *testing.T) {
	srv := newTestServer(t, testEnv())
	testdb.Staff(t, srv.db, "staff@example.com")

	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader("email=staff%40example.com&password="+testdb.Password))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDashboardEndpoints(t *testing.T) {
	srv := newTestServer(t, testEnv())
	testdb.Staff(t, srv.db, "staff@example.com")
	tee := testdb.Product(t, srv.db, "Tee", "25.00", "")
	hat := testdb.Product(t, srv.db, "Cap", "10.00", "")
	access, _ := srv.login("staff@example.com")

	for _, ids := range [][]uint{{tee.ID}, {tee.ID, hat.ID}} {
		items := []map[string]interface{}{}
		for _, id := range ids {
			items = append(items, map[string]interface{}{"product": id, "quantity": 1})
		}
		rec := srv.do(http.MethodPost, "/api/orders/", access, map[string]interface{}{"items": items})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := srv.do(http.MethodGet, "/api/dashboard/overview/", access, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	overview := decode(t, rec)
	assert.EqualValues(t, 2, overview["total_products"])
	assert.EqualValues(t, 2, overview["total_orders"])
	assert.EqualValues(t, 2, overview["pending_orders"])
	assert.EqualValues(t, 0, overview["completed_orders"])
	assert.EqualValues(t, 0, overview["total_customers"])

	var recent []map[string]interface{}
	rec = srv.do(http.MethodGet, "/api/dashboard/recent_orders", access, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recent))
	assert.Len(t, recent, 2)

	var top []map[string]interface{}
	rec = srv.do(http.MethodGet, "/api/dashboard/top_products", access, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &top))
	require.NotEmpty(t, top)
	assert.Equal(t, "Tee", top[0]["name"])
}

func TestLogoutAllRevokesRefreshTokens(t *testing.T) {
	srv := newTestServer(t, testEnv())
	testdb.Staff(t, srv.db, "staff@example.com")
	access, refresh := srv.login("staff@example.com")

	rec := srv.do(http.MethodPost, "/auth/logout_all/", access, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Logged out of all sessions", decode(t, rec)["message"])

	rec = srv.do(http.MethodPost, "/auth/refresh/", "", map[string]string{"refresh_token": refresh})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

var csrfFieldPattern = regexp.MustCompile(`name="gorilla.csrf.Token" value="([^"]+)"`)

// adminCookies signs in through the admin login form and returns the cookies
// a browser would hold afterwards.
func (s *testServer) adminCookies(email string) []*http.Cookie {
	s.t.Helper()
	jar := map[string]*http.Cookie{}
	keep := func(rec *httptest.ResponseRecorder) {
		for _, c := range rec.Result().Cookies() {
			jar[c.Name] = c
		}
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/login", nil))
	require.Equal(s.t, http.StatusOK, rec.Code)
	keep(rec)
	match := csrfFieldPattern.FindStringSubmatch(rec.Body.String())
	require.Len(s.t, match, 2)

	form := url.Values{"email": {email}, "password": {testdb.Password}, "gorilla.csrf.Token": {html.UnescapeString(match[1])}}
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range jar {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	require.Equal(s.t, http.StatusSeeOther, rec.Code, rec.Body.String())
	keep(rec)

	cookies := make([]*http.Cookie, 0, len(jar))
	for _, c := range jar {
		cookies = append(cookies, c)
	}
	return cookies
}

func TestAdminOrdersPageShowsShippingAddress(t *testing.T) {
	srv := newTestServer(t, testEnv())
	testdb.Staff(t, srv.db, "staff@example.com")
	product := testdb.Product(t, srv.db, "Tee", "25.00", "")
	access, _ := srv.login("staff@example.com")

	rec := srv.do(http.MethodPost, "/api/orders/", access, map[string]interface{}{
		"items":            []map[string]interface{}{{"product": product.ID, "quantity": 1}},
		"shipping_address": map[string]string{"address": "1 Main St", "city": "Pune", "zipcode": "411001"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	for _, c := range srv.adminCookies("staff@example.com") {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "1 Main St, Pune, 411001")
}
