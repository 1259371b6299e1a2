package integrationtests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	auction "auction-market/internal/auctionService"
	bidding "auction-market/internal/biddingService"
	category "auction-market/internal/categoryService"
	"auction-market/internal/locks"
	model "auction-market/internal/models"
	"auction-market/internal/repository"
	"auction-market/internal/server"
	settlement "auction-market/internal/settlementService"
	stats "auction-market/internal/statsService"
	user "auction-market/internal/userService"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const adminEmail = "admin@example.com"
const adminPassword = "admin-secret-1"

// TestEnv holds the full stack wired against a throwaway database, with
// direct store access for seeding states the HTTP surface refuses to create
// (finished auctions with bids, for instance).
type TestEnv struct {
	Router *gin.Engine
	Store  *repository.GormStore
}

// SetupTestEnv wires every service against a per-test database and boots the
// bootstrap admin account.
func SetupTestEnv(t *testing.T) *TestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := repository.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	store := repository.NewGormStore(db)

	auctionLocks := locks.NewAuctionLocks()
	userSvc := user.NewUserService(store, 4) // min bcrypt cost keeps tests fast
	require.NoError(t, userSvc.EnsureAdmin(adminEmail, adminPassword))

	router := server.SetupRouter(server.Services{
		Users:      userSvc,
		Auctions:   auction.NewAuctionService(store, store),
		Categories: category.NewCategoryService(store),
		Bids:       bidding.NewBidService(store, store, auctionLocks),
		Settlement: settlement.NewSettlementService(store, store, store, auctionLocks),
		Stats:      stats.NewStatsService(store),
		Auth:       userSvc,
	})

	return &TestEnv{Router: router, Store: store}
}

// ExecuteRequest executes an HTTP request with an optional bearer token and
// returns the response recorder.
func (e *TestEnv) ExecuteRequest(t *testing.T, method, url, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody []byte
	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	case string:
		reqBody = []byte(v)
	default:
		var err error
		reqBody, err = json.Marshal(v)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}

// ExecuteAndParse executes a request and unmarshals the JSON body.
func (e *TestEnv) ExecuteAndParse(t *testing.T, method, url, token string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	w := e.ExecuteRequest(t, method, url, token, body)
	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return resp, w
}

// RegisterUser registers an account over HTTP and returns its access token.
func (e *TestEnv) RegisterUser(t *testing.T, name, email, role string) string {
	t.Helper()

	resp, w := e.ExecuteAndParse(t, http.MethodPost, "/register", "", map[string]any{
		"name":     name,
		"email":    email,
		"password": "password123",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	token, ok := resp["access_token"].(string)
	require.True(t, ok, "register response should carry an access token")
	return token
}

// LoginAdmin logs the bootstrap admin in and returns its access token.
func (e *TestEnv) LoginAdmin(t *testing.T) string {
	t.Helper()

	resp, w := e.ExecuteAndParse(t, http.MethodPost, "/login", "", map[string]any{
		"email":    adminEmail,
		"password": adminPassword,
	})
	require.Equal(t, http.StatusOK, w.Code)
	token, ok := resp["access_token"].(string)
	require.True(t, ok, "login response should carry an access token")
	return token
}

// UserID resolves an email to the stored user id.
func (e *TestEnv) UserID(t *testing.T, email string) uint {
	t.Helper()

	u, err := e.Store.GetUserByEmail(email)
	require.NoError(t, err)
	return u.ID
}

// SeedAuction writes an auction straight to the store, bypassing the window
// validation of the HTTP surface.
func (e *TestEnv) SeedAuction(t *testing.T, title string, sellerID uint, startPrice float64, start, end time.Time) model.Auction {
	t.Helper()

	a := model.Auction{
		Title:      title,
		StartPrice: startPrice,
		StartTime:  start,
		EndTime:    end,
		CategoryID: 1,
		SellerID:   sellerID,
	}
	require.NoError(t, e.Store.CreateAuction(&a))
	return a
}

// SeedBid writes a bid straight to the store with a controlled timestamp.
func (e *TestEnv) SeedBid(t *testing.T, auctionID, bidderID uint, amount float64, createdAt time.Time) model.Bid {
	t.Helper()

	b := model.Bid{
		Amount:    amount,
		AuctionID: auctionID,
		BidderID:  bidderID,
		CreatedAt: createdAt,
	}
	require.NoError(t, e.Store.CreateBid(&b))
	return b
}
