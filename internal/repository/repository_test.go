package repository

import (
	"path/filepath"
	"testing"
	"time"

	"auction-market/internal/auctionerrors"
	model "auction-market/internal/models"

	"github.com/stretchr/testify/require"
)

// Helper to open a throwaway store backed by a per-test database file.
func openTestStore(t *testing.T) *GormStore {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return NewGormStore(db)
}

// Helper to create a new Auction
func newAuction(title string, sellerID uint, startPrice float64, start, end time.Time) model.Auction {
	return model.Auction{
		Title:       title,
		Description: title + " description",
		StartPrice:  startPrice,
		StartTime:   start,
		EndTime:     end,
		CategoryID:  1,
		SellerID:    sellerID,
	}
}

// Test auction CRUD
func TestGormStore_AuctionCRUD(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	now := time.Now().UTC()

	a := newAuction("vintage camera", 1, 100, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, store.CreateAuction(&a))
	require.NotZero(t, a.ID)

	got, err := store.GetAuction(a.ID)
	require.NoError(t, err)
	require.Equal(t, "vintage camera", got.Title)
	require.Nil(t, got.HighestBid)

	// duplicate title hits the unique index
	dup := newAuction("vintage camera", 2, 50, now, now.Add(time.Hour))
	err = store.CreateAuction(&dup)
	require.ErrorIs(t, err, auctionerrors.ErrDuplicateName)

	updated, err := store.UpdateAuction(a.ID, map[string]any{"description": "mint condition"})
	require.NoError(t, err)
	require.Equal(t, "mint condition", updated.Description)

	require.NoError(t, store.DeleteAuction(a.ID))
	_, err = store.GetAuction(a.ID)
	require.ErrorIs(t, err, auctionerrors.ErrAuctionNotFound)

	_, err = store.GetAuction(99999)
	require.ErrorIs(t, err, auctionerrors.ErrAuctionNotFound)
}

// Test MaxBidAmount and the cached highest bid column
func TestGormStore_MaxBidAmountAndHighestBid(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	now := time.Now().UTC()

	a := newAuction("rare vinyl", 1, 100, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, store.CreateAuction(&a))

	// no bids yet
	max, err := store.MaxBidAmount(a.ID, 0)
	require.NoError(t, err)
	require.Nil(t, max)

	low := model.Bid{Amount: 120, AuctionID: a.ID, BidderID: 2}
	high := model.Bid{Amount: 150, AuctionID: a.ID, BidderID: 3}
	require.NoError(t, store.CreateBid(&low))
	require.NoError(t, store.CreateBid(&high))

	max, err = store.MaxBidAmount(a.ID, 0)
	require.NoError(t, err)
	require.NotNil(t, max)
	require.Equal(t, 150.0, *max)

	// excluding the top bid exposes the runner-up
	max, err = store.MaxBidAmount(a.ID, high.ID)
	require.NoError(t, err)
	require.NotNil(t, max)
	require.Equal(t, 120.0, *max)

	require.NoError(t, store.SetHighestBid(a.ID, max))
	got, err := store.GetAuction(a.ID)
	require.NoError(t, err)
	require.NotNil(t, got.HighestBid)
	require.Equal(t, 120.0, *got.HighestBid)

	// deleted bids drop out of the aggregate
	require.NoError(t, store.DeleteBid(high.ID))
	require.NoError(t, store.DeleteBid(low.ID))
	max, err = store.MaxBidAmount(a.ID, 0)
	require.NoError(t, err)
	require.Nil(t, max)

	// clearing the cache back to a concrete floor
	start := a.StartPrice
	require.NoError(t, store.SetHighestBid(a.ID, &start))
	got, err = store.GetAuction(a.ID)
	require.NoError(t, err)
	require.NotNil(t, got.HighestBid)
	require.Equal(t, 100.0, *got.HighestBid)
}

// Test ListAuctions filtering, sorting and pagination
func TestGormStore_ListAuctions(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	now := time.Now().UTC()

	titles := []string{"old clock", "old map", "new lamp"}
	prices := []float64{50, 150, 250}
	for i, title := range titles {
		a := newAuction(title, uint(i+1), prices[i], now.Add(-time.Hour), now.Add(time.Hour))
		require.NoError(t, store.CreateAuction(&a))
	}

	// free-text query matches title or description
	got, total, err := store.ListAuctions(AuctionFilter{Query: "old"})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, got, 2)

	minPrice := 100.0
	got, total, err = store.ListAuctions(AuctionFilter{MinStartPrice: &minPrice})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, got, 2)

	// whitelisted sort column
	got, _, err = store.ListAuctions(AuctionFilter{SortBy: "start_price", SortDir: "asc"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, "old clock", got[0].Title)
	require.Equal(t, "new lamp", got[2].Title)

	// unknown sort column falls back instead of injecting
	got, _, err = store.ListAuctions(AuctionFilter{SortBy: "password; DROP TABLE auctions"})
	require.NoError(t, err)
	require.Len(t, got, 3)

	// pagination keeps the total while windowing the page
	got, total, err = store.ListAuctions(AuctionFilter{SortBy: "start_price", SortDir: "asc", Page: 2, PerPage: 2})
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, got, 1)
	require.Equal(t, "new lamp", got[0].Title)

	got, total, err = store.ListAuctions(AuctionFilter{SellerID: 2})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, "old map", got[0].Title)
}

// Test the unique index guarding one transaction per auction
func TestGormStore_TransactionUniqueIndex(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	now := time.Now().UTC()

	a := newAuction("signed book", 1, 50, now.Add(-2*time.Hour), now.Add(-time.Hour))
	require.NoError(t, store.CreateAuction(&a))

	exists, err := store.TransactionExists(a.ID)
	require.NoError(t, err)
	require.False(t, exists)

	tx := model.Transaction{AuctionID: a.ID, BuyerID: 2, FinalPrice: 95}
	require.NoError(t, store.CreateTransaction(&tx))

	exists, err = store.TransactionExists(a.ID)
	require.NoError(t, err)
	require.True(t, exists)

	dup := model.Transaction{AuctionID: a.ID, BuyerID: 3, FinalPrice: 95}
	err = store.CreateTransaction(&dup)
	require.ErrorIs(t, err, auctionerrors.ErrAlreadySettled)

	got, err := store.GetTransaction(tx.ID)
	require.NoError(t, err)
	require.Equal(t, uint(2), got.BuyerID)
	require.Equal(t, 95.0, got.FinalPrice)

	list, err := store.ListTransactionsByBuyer(2)
	require.NoError(t, err)
	require.Len(t, list, 1)

	list, err = store.ListTransactionsByBuyer(3)
	require.NoError(t, err)
	require.Empty(t, list)
}

// Test bid listings carry their preloaded relations
func TestGormStore_BidListings(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	now := time.Now().UTC()

	seller := model.User{Name: "sam", Email: "sam@example.com", Password: "x", Role: model.RoleSeller}
	bidder := model.User{Name: "bea", Email: "bea@example.com", Password: "x", Role: model.RoleBuyer}
	require.NoError(t, store.CreateUser(&seller))
	require.NoError(t, store.CreateUser(&bidder))

	a := newAuction("brass lamp", seller.ID, 10, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, store.CreateAuction(&a))

	b := model.Bid{Amount: 20, AuctionID: a.ID, BidderID: bidder.ID}
	require.NoError(t, store.CreateBid(&b))

	got, err := store.GetBid(b.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Auction)
	require.Equal(t, "brass lamp", got.Auction.Title)
	require.NotNil(t, got.Bidder)
	require.Equal(t, "bea", got.Bidder.Name)

	byAuction, err := store.ListBidsByAuction(a.ID)
	require.NoError(t, err)
	require.Len(t, byAuction, 1)

	byBidder, err := store.ListBidsByBidder(bidder.ID)
	require.NoError(t, err)
	require.Len(t, byBidder, 1)

	byBidder, err = store.ListBidsByBidder(seller.ID)
	require.NoError(t, err)
	require.Empty(t, byBidder)
}

// Test user and token plumbing
func TestGormStore_UsersAndTokens(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)

	u := model.User{Name: "ada", Email: "ada@example.com", Password: "hash", Role: model.RoleBuyer}
	require.NoError(t, store.CreateUser(&u))

	dup := model.User{Name: "ada two", Email: "ada@example.com", Password: "hash", Role: model.RoleBuyer}
	err := store.CreateUser(&dup)
	require.ErrorIs(t, err, auctionerrors.ErrDuplicateEmail)

	byEmail, err := store.GetUserByEmail("ada@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)

	_, err = store.GetUserByEmail("nobody@example.com")
	require.ErrorIs(t, err, auctionerrors.ErrUserNotFound)

	token := model.AccessToken{Token: "tok-123", UserID: u.ID}
	require.NoError(t, store.CreateToken(&token))

	byToken, err := store.GetUserByToken("tok-123")
	require.NoError(t, err)
	require.Equal(t, u.ID, byToken.ID)

	require.NoError(t, store.DeleteToken("tok-123"))
	_, err = store.GetUserByToken("tok-123")
	require.ErrorIs(t, err, auctionerrors.ErrUnauthorized)
}

// Test the admin stats aggregates
func TestGormStore_CollectStats(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	now := time.Now().UTC()

	users := []model.User{
		{Name: "s", Email: "s@example.com", Password: "x", Role: model.RoleSeller},
		{Name: "b1", Email: "b1@example.com", Password: "x", Role: model.RoleBuyer},
		{Name: "b2", Email: "b2@example.com", Password: "x", Role: model.RoleBuyer},
	}
	for i := range users {
		require.NoError(t, store.CreateUser(&users[i]))
	}

	active := newAuction("active one", users[0].ID, 10, now.Add(-time.Hour), now.Add(time.Hour))
	finished := newAuction("finished one", users[0].ID, 10, now.Add(-3*time.Hour), now.Add(-time.Hour))
	scheduled := newAuction("scheduled one", users[0].ID, 10, now.Add(time.Hour), now.Add(2*time.Hour))
	for _, a := range []*model.Auction{&active, &finished, &scheduled} {
		require.NoError(t, store.CreateAuction(a))
	}

	for _, amount := range []float64{20, 30, 40} {
		b := model.Bid{Amount: amount, AuctionID: finished.ID, BidderID: users[1].ID}
		require.NoError(t, store.CreateBid(&b))
	}

	tx := model.Transaction{AuctionID: finished.ID, BuyerID: users[1].ID, FinalPrice: 40}
	require.NoError(t, store.CreateTransaction(&tx))

	st, err := store.CollectStats(now)
	require.NoError(t, err)
	require.EqualValues(t, 3, st.TotalUsers)
	require.EqualValues(t, 2, st.TotalBuyers)
	require.EqualValues(t, 1, st.TotalSellers)
	require.EqualValues(t, 3, st.TotalAuctions)
	require.EqualValues(t, 1, st.ActiveAuctions)
	require.EqualValues(t, 1, st.ScheduledAuctions)
	require.EqualValues(t, 1, st.FinishedAuctions)
	require.EqualValues(t, 3, st.TotalBids)
	require.EqualValues(t, 1, st.TotalTransactions)
	require.Equal(t, 40.0, st.RevenueTotal)
	require.Equal(t, 40.0, st.AvgFinalPrice)
	require.Equal(t, 1.0, st.AvgBidsPerAuction)
}
