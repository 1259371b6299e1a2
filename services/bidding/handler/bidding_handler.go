package handler

import (
	"net/http"

	model "auction-market/internal/models"
	"auction-market/services/helpers"
	"auction-market/utils"

	"github.com/gin-gonic/gin"
)

type BidServiceInterface interface {
	PlaceBid(user model.User, auctionID uint, amount float64) (model.Bid, error)
	UpdateBid(user model.User, bidID uint, amount float64) (model.Bid, error)
	DeleteBid(user model.User, bidID uint) error
	ListBids(user model.User) ([]model.Bid, error)
	BidsForAuction(user model.User, auctionID uint) ([]model.Bid, error)
	BidsForUser(user model.User, bidderID uint) ([]model.Bid, error)
}

type BiddingHandler struct {
	service BidServiceInterface
}

func NewBiddingHandler(service BidServiceInterface) *BiddingHandler {
	return &BiddingHandler{service: service}
}

// RecordBidHandler handles POST /bids
func (h *BiddingHandler) RecordBidHandler(c *gin.Context) {
	user, ok := helpers.MustCurrentUser(c)
	if !ok {
		return
	}

	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "RecordBidHandler", err)
		return
	}

	bid, err := h.service.PlaceBid(user, req.AuctionID, req.Amount)
	if err != nil {
		helpers.HandleServiceError(c, "RecordBidHandler", err)
		return
	}

	utils.JSONResource(c, http.StatusCreated, "Bid created successfully", "bid", helpers.NewBidResponse(bid))
	helpers.LogSuccess("RecordBidHandler", "bid created", map[string]any{
		"bid_id":     bid.ID,
		"auction_id": bid.AuctionID,
		"bidder_id":  bid.BidderID,
		"amount":     bid.Amount,
	})
}

// UpdateBidHandler handles PUT /bids/:id
func (h *BiddingHandler) UpdateBidHandler(c *gin.Context) {
	user, ok := helpers.MustCurrentUser(c)
	if !ok {
		return
	}
	bidID, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req helpers.UpdateBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "UpdateBidHandler", err)
		return
	}

	bid, err := h.service.UpdateBid(user, bidID, req.Amount)
	if err != nil {
		helpers.HandleServiceError(c, "UpdateBidHandler", err)
		return
	}

	utils.JSONResource(c, http.StatusOK, "Bid updated successfully", "bid", helpers.NewBidResponse(bid))
	helpers.LogSuccess("UpdateBidHandler", "bid updated", map[string]any{
		"bid_id": bid.ID,
		"amount": bid.Amount,
	})
}

// DeleteBidHandler handles DELETE /bids/:id
func (h *BiddingHandler) DeleteBidHandler(c *gin.Context) {
	user, ok := helpers.MustCurrentUser(c)
	if !ok {
		return
	}
	bidID, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteBid(user, bidID); err != nil {
		helpers.HandleServiceError(c, "DeleteBidHandler", err)
		return
	}

	utils.JSONMessage(c, http.StatusOK, "Bid deleted successfully")
	helpers.LogSuccess("DeleteBidHandler", "bid deleted", map[string]any{"bid_id": bidID})
}

// ListBidsHandler handles GET /bids. Admins see all bids, others their own.
func (h *BiddingHandler) ListBidsHandler(c *gin.Context) {
	user, ok := helpers.MustCurrentUser(c)
	if !ok {
		return
	}

	bids, err := h.service.ListBids(user)
	if err != nil {
		helpers.HandleServiceError(c, "ListBidsHandler", err)
		return
	}

	utils.JSONCollection(c, http.StatusOK, "bids", len(bids), helpers.NewBidResponses(bids))
}

// AuctionBidsHandler handles GET /auctions/:id/bids (admin)
func (h *BiddingHandler) AuctionBidsHandler(c *gin.Context) {
	user, ok := helpers.MustCurrentUser(c)
	if !ok {
		return
	}
	auctionID, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}

	bids, err := h.service.BidsForAuction(user, auctionID)
	if err != nil {
		helpers.HandleServiceError(c, "AuctionBidsHandler", err)
		return
	}

	utils.JSONCollection(c, http.StatusOK, "bids", len(bids), helpers.NewBidResponses(bids))
}

// UserBidsHandler handles GET /users/:id/bids (admin)
func (h *BiddingHandler) UserBidsHandler(c *gin.Context) {
	user, ok := helpers.MustCurrentUser(c)
	if !ok {
		return
	}
	bidderID, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}

	bids, err := h.service.BidsForUser(user, bidderID)
	if err != nil {
		helpers.HandleServiceError(c, "UserBidsHandler", err)
		return
	}

	utils.JSONCollection(c, http.StatusOK, "bids", len(bids), helpers.NewBidResponses(bids))
}
