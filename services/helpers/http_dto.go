package helpers

import (
	"time"

	model "auction-market/internal/models"
)

// Request DTOs

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=buyer seller"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type PlaceBidRequest struct {
	AuctionID uint    `json:"auction_id" binding:"required"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
}

type UpdateBidRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

type CreateTransactionRequest struct {
	AuctionID uint `json:"auction_id" binding:"required"`
}

type CreateAuctionRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	StartPrice  float64   `json:"start_price" binding:"min=0"`
	StartTime   time.Time `json:"start_time" binding:"required"`
	EndTime     time.Time `json:"end_time" binding:"required"`
	CategoryID  uint      `json:"category_id" binding:"required"`
}

type UpdateAuctionRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	StartPrice  *float64   `json:"start_price"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	CategoryID  *uint      `json:"category_id"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// Response DTOs. Single-resource endpoints nest auction/buyer summaries;
// list endpoints fall back to bare ids when a relation was not loaded.

type AuctionSummary struct {
	ID         uint     `json:"id"`
	Title      string   `json:"title"`
	EndTime    string   `json:"end_time"`
	HighestBid *float64 `json:"highest_bid"`
}

type UserSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type AuctionResponse struct {
	ID          uint     `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	StartPrice  float64  `json:"start_price"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time"`
	CategoryID  uint     `json:"category_id"`
	SellerID    uint     `json:"seller_id"`
	HighestBid  *float64 `json:"highest_bid"`
	CreatedAt   string   `json:"created_at"`
}

type BidResponse struct {
	ID        uint            `json:"id"`
	Amount    float64         `json:"amount"`
	AuctionID uint            `json:"auction_id"`
	Auction   *AuctionSummary `json:"auction,omitempty"`
	Bidder    *UserSummary    `json:"bidder,omitempty"`
	CreatedAt string          `json:"created_at"`
}

type TransactionResponse struct {
	ID         uint            `json:"id"`
	FinalPrice float64         `json:"final_price"`
	AuctionID  uint            `json:"auction_id"`
	Auction    *AuctionSummary `json:"auction,omitempty"`
	Buyer      *UserSummary    `json:"buyer,omitempty"`
	CreatedAt  string          `json:"created_at"`
}

type CategoryResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type UserResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// NewAuctionSummary builds the nested auction block of bid and transaction
// resources.
func NewAuctionSummary(a model.Auction) *AuctionSummary {
	return &AuctionSummary{
		ID:         a.ID,
		Title:      a.Title,
		EndTime:    formatTime(a.EndTime),
		HighestBid: a.HighestBid,
	}
}

func NewUserSummary(u model.User) *UserSummary {
	return &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

func NewAuctionResponse(a model.Auction) AuctionResponse {
	return AuctionResponse{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		StartPrice:  a.StartPrice,
		StartTime:   formatTime(a.StartTime),
		EndTime:     formatTime(a.EndTime),
		CategoryID:  a.CategoryID,
		SellerID:    a.SellerID,
		HighestBid:  a.HighestBid,
		CreatedAt:   formatTime(a.CreatedAt),
	}
}

func NewAuctionResponses(auctions []model.Auction) []AuctionResponse {
	out := make([]AuctionResponse, 0, len(auctions))
	for _, a := range auctions {
		out = append(out, NewAuctionResponse(a))
	}
	return out
}

func NewBidResponse(b model.Bid) BidResponse {
	resp := BidResponse{
		ID:        b.ID,
		Amount:    b.Amount,
		AuctionID: b.AuctionID,
		CreatedAt: formatTime(b.CreatedAt),
	}
	if b.Auction != nil {
		resp.Auction = NewAuctionSummary(*b.Auction)
	}
	if b.Bidder != nil {
		resp.Bidder = &UserSummary{ID: b.Bidder.ID, Name: b.Bidder.Name}
	}
	return resp
}

func NewBidResponses(bids []model.Bid) []BidResponse {
	out := make([]BidResponse, 0, len(bids))
	for _, b := range bids {
		out = append(out, NewBidResponse(b))
	}
	return out
}

func NewTransactionResponse(t model.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:         t.ID,
		FinalPrice: t.FinalPrice,
		AuctionID:  t.AuctionID,
		CreatedAt:  formatTime(t.CreatedAt),
	}
	if t.Auction != nil {
		resp.Auction = NewAuctionSummary(*t.Auction)
	}
	if t.Buyer != nil {
		resp.Buyer = NewUserSummary(*t.Buyer)
	}
	return resp
}

func NewTransactionResponses(txs []model.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, NewTransactionResponse(t))
	}
	return out
}

func NewCategoryResponse(c model.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description}
}

func NewCategoryResponses(cats []model.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, NewCategoryResponse(c))
	}
	return out
}

func NewUserResponse(u model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: formatTime(u.CreatedAt),
	}
}
