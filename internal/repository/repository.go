package repository

import (
	"time"

	model "auction-market/internal/models"
)

// Store interfaces consumed by the services. GormStore implements all of
// them against a relational database; tests substitute gomock mocks.

// AuctionStore persists auctions and their denormalized highest-bid cache.
type AuctionStore interface {
	CreateAuction(a *model.Auction) error
	GetAuction(id uint) (model.Auction, error)
	ListAuctions(f AuctionFilter) ([]model.Auction, int64, error)
	UpdateAuction(id uint, fields map[string]any) (model.Auction, error)
	DeleteAuction(id uint) error
	// SetHighestBid stores the recomputed cache value for the auction.
	SetHighestBid(auctionID uint, amount *float64) error
}

// BidStore is the append/update/delete ledger of bids.
type BidStore interface {
	CreateBid(b *model.Bid) error
	GetBid(id uint) (model.Bid, error)
	ListBids() ([]model.Bid, error)
	ListBidsByAuction(auctionID uint) ([]model.Bid, error)
	ListBidsByBidder(bidderID uint) ([]model.Bid, error)
	UpdateBidAmount(id uint, amount float64) error
	DeleteBid(id uint) error
	// MaxBidAmount returns the fresh aggregate max over live bids of the
	// auction, nil when none exist. excludeBidID > 0 leaves that bid out,
	// which is the threshold rule for updating an existing bid.
	MaxBidAmount(auctionID, excludeBidID uint) (*float64, error)
}

// TransactionStore persists settlement records.
type TransactionStore interface {
	CreateTransaction(t *model.Transaction) error
	GetTransaction(id uint) (model.Transaction, error)
	ListTransactions() ([]model.Transaction, error)
	ListTransactionsByBuyer(buyerID uint) ([]model.Transaction, error)
	TransactionExists(auctionID uint) (bool, error)
}

// CategoryStore persists auction categories.
type CategoryStore interface {
	CreateCategory(c *model.Category) error
	GetCategory(id uint) (model.Category, error)
	ListCategories() ([]model.Category, error)
	UpdateCategory(id uint, fields map[string]any) (model.Category, error)
	DeleteCategory(id uint) error
}

// UserStore persists users and their bearer tokens.
type UserStore interface {
	CreateUser(u *model.User) error
	GetUser(id uint) (model.User, error)
	GetUserByEmail(email string) (model.User, error)
	CreateToken(t *model.AccessToken) error
	GetUserByToken(token string) (model.User, error)
	DeleteToken(token string) error
}

// StatsStore aggregates platform-wide KPI numbers for the admin dashboard.
type StatsStore interface {
	CollectStats(now time.Time) (Stats, error)
}

// AuctionFilter narrows and orders the public auction listing. Pointer
// fields are skipped when nil.
type AuctionFilter struct {
	// Query matches title or description as a substring.
	Query       string
	Title       string
	Description string

	MinStartPrice *float64
	MaxStartPrice *float64
	MinHighestBid *float64
	MaxHighestBid *float64

	CategoryID uint
	SellerID   uint

	StartsBefore *time.Time
	StartsAfter  *time.Time
	EndsBefore   *time.Time
	EndsAfter    *time.Time

	SortBy  string
	SortDir string

	Page    int
	PerPage int
}

// Stats is the admin KPI block.
type Stats struct {
	TotalUsers   int64 `json:"total_users"`
	TotalBuyers  int64 `json:"total_buyers"`
	TotalSellers int64 `json:"total_sellers"`

	TotalAuctions     int64 `json:"total_auctions"`
	ActiveAuctions    int64 `json:"active_auctions"`
	ScheduledAuctions int64 `json:"scheduled_auctions"`
	FinishedAuctions  int64 `json:"finished_auctions"`

	TotalBids         int64 `json:"total_bids"`
	TotalTransactions int64 `json:"total_transactions"`

	RevenueTotal      float64 `json:"revenue_total"`
	AvgFinalPrice     float64 `json:"avg_final_price"`
	AvgBidsPerAuction float64 `json:"avg_bids_per_auction"`
}
