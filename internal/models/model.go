package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles. Admin overrides ownership checks everywhere.
const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

// User represents a marketplace participant.
type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name     string `gorm:"size:255;not null" json:"name"`
	Email    string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"`
	Role     string `gorm:"size:32;not null;default:buyer" json:"role"`
}

func (User) TableName() string { return "users" }

func (u User) IsAdmin() bool  { return u.Role == RoleAdmin }
func (u User) IsSeller() bool { return u.Role == RoleSeller }
func (u User) IsBuyer() bool  { return u.Role == RoleBuyer }

// AccessToken is a bearer token issued at register/login and revoked at logout.
type AccessToken struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Token  string `gorm:"size:64;uniqueIndex;not null" json:"-"`
	UserID uint   `gorm:"not null;index" json:"user_id"`
}

func (AccessToken) TableName() string { return "access_tokens" }

// Category groups auctions for browsing.
type Category struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name        string `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
}

func (Category) TableName() string { return "categories" }

// Auction is a sellable listing with a bounded time window and a floor price.
// HighestBid is a denormalized cache of the maximum live bid amount; the bid
// set itself stays the source of truth and the cache is recomputed as a fresh
// aggregate after every bid mutation.
type Auction struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title       string    `gorm:"size:255;uniqueIndex;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	StartPrice  float64   `gorm:"not null" json:"start_price"`
	StartTime   time.Time `gorm:"not null" json:"start_time"`
	EndTime     time.Time `gorm:"not null" json:"end_time"`
	CategoryID  uint      `gorm:"not null;index" json:"category_id"`
	SellerID    uint      `gorm:"not null;index" json:"seller_id"`
	HighestBid  *float64  `json:"highest_bid"`
}

func (Auction) TableName() string { return "auctions" }

// IsActive reports whether the auction accepts bids at the given instant.
// Closedness is computed from the stored window on every evaluation; no
// background job flips auction state.
func (a Auction) IsActive(now time.Time) bool {
	return !now.Before(a.StartTime) && !now.After(a.EndTime)
}

// IsFinished reports whether the window has fully elapsed. Exactly at the
// boundary the auction still counts as open.
func (a Auction) IsFinished(now time.Time) bool {
	return now.After(a.EndTime)
}

// Bid is a buyer's monetary offer against an auction. CreatedAt doubles as
// the settlement tie-break: among equal amounts the most recent bid wins.
type Bid struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Amount    float64 `gorm:"not null" json:"amount"`
	AuctionID uint    `gorm:"not null;index" json:"auction_id"`
	BidderID  uint    `gorm:"not null;index" json:"bidder_id"`

	Auction *Auction `gorm:"foreignKey:AuctionID" json:"auction,omitempty"`
	Bidder  *User    `gorm:"foreignKey:BidderID" json:"bidder,omitempty"`
}

func (Bid) TableName() string { return "bids" }

// Transaction is the immutable record of a completed sale. The unique index
// on AuctionID is the last line of defense against duplicate settlement.
type Transaction struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	AuctionID  uint    `gorm:"uniqueIndex;not null" json:"auction_id"`
	BuyerID    uint    `gorm:"not null;index" json:"buyer_id"`
	FinalPrice float64 `gorm:"not null" json:"final_price"`

	Auction *Auction `gorm:"foreignKey:AuctionID" json:"auction,omitempty"`
	Buyer   *User    `gorm:"foreignKey:BuyerID" json:"buyer,omitempty"`
}

func (Transaction) TableName() string { return "transactions" }
