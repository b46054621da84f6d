package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Rakhulsr/go-storeadmin/app/db/testdb"
	"github.com/Rakhulsr/go-storeadmin/app/repositories"
	"gorm.io/gorm"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")

func pngUpload(name string) ImageUpload {
	return ImageUpload{Filename: name, Data: pngHeader}
}

// fakeStore records uploads in memory. failures maps a filename to the number
// of upload attempts that fail before one succeeds; a negative count always fails.
type fakeStore struct {
	mu       sync.Mutex
	failures map[string]int
	attempts map[string]int
	live     map[string]bool
	deleted  []string
	uploaded []ImageUpload
	seq      int
}

func newFakeStore() *fakeStore {
	return &fakeStore{failures: map[string]int{}, attempts: map[string]int{}, live: map[string]bool{}}
}

func (s *fakeStore) Upload(ctx context.Context, upload ImageUpload) (StoredImage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attempts[upload.Filename]++
	s.uploaded = append(s.uploaded, upload)
	if left, ok := s.failures[upload.Filename]; ok && left != 0 {
		if left > 0 {
			s.failures[upload.Filename] = left - 1
		}
		return StoredImage{}, errors.New("storage offline")
	}
	s.seq++
	id := fmt.Sprintf("products/%s-%d", upload.Filename, s.seq)
	s.live[id] = true
	return StoredImage{URL: "https://img.example.com/" + id, PublicID: id}, nil
}

func (s *fakeStore) Delete(ctx context.Context, publicID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.live, publicID)
	s.deleted = append(s.deleted, publicID)
	return nil
}

func (s *fakeStore) liveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

type fixture struct {
	db        *gorm.DB
	store     *fakeStore
	catalog   *CatalogService
	orders    *OrderService
	customers *CustomerService
	reviews   *ReviewService
	carts     *CartService
	auth      *AuthService
	dashboard *DashboardService
}

func newFixture(t testing.TB) *fixture {
	db := testdb.Open(t)
	store := newFakeStore()

	productRepo := repositories.NewProductRepository(db)
	userRepo := repositories.NewUserRepository(db)
	orderRepo := repositories.NewOrderRepository(db)

	orders := NewOrderService(db, orderRepo, repositories.NewOrderItemRepository(db),
		repositories.NewShippingAddressRepository(db), productRepo, userRepo)

	return &fixture{
		db:    db,
		store: store,
		catalog: NewCatalogService(db, productRepo, repositories.NewCategoryRepository(db),
			repositories.NewProductImageRepository(db), store),
		orders:    orders,
		customers: NewCustomerService(userRepo, orderRepo),
		reviews:   NewReviewService(repositories.NewReviewRepository(db), productRepo, userRepo),
		carts: NewCartService(db, repositories.NewCartRepository(db), repositories.NewCartItemRepository(db),
			productRepo, userRepo, orders),
		auth: NewAuthService(db, userRepo, repositories.NewRefreshTokenRepository(db), AuthConfig{
			Secret:     []byte("test-secret-0123456789abcdef0123456789"),
			AccessTTL:  15 * time.Minute,
			RefreshTTL: time.Hour,
		}),
		dashboard: NewDashboardService(repositories.NewDashboardRepository(db), orderRepo, productRepo),
	}
}
