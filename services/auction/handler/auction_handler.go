package handler

import (
	"net/http"
	"strconv"
	"time"

	model "auction-market/internal/models"
	"auction-market/internal/repository"
	auction "auction-market/internal/auctionService"
	"auction-market/services/helpers"
	"auction-market/utils"

	"github.com/gin-gonic/gin"
)

type AuctionServiceInterface interface {
	Create(user model.User, in auction.CreateAuctionInput) (model.Auction, error)
	Get(id uint) (model.Auction, error)
	List(f repository.AuctionFilter) ([]model.Auction, int64, error)
	Update(user model.User, id uint, in auction.UpdateAuctionInput) (model.Auction, error)
	Delete(user model.User, id uint) error
}

type AuctionHandler struct {
	service AuctionServiceInterface
}

func NewAuctionHandler(service AuctionServiceInterface) *AuctionHandler {
	return &AuctionHandler{service: service}
}

// ListAuctionsHandler handles GET /auctions (public) with filters, sorting
// and pagination.
func (h *AuctionHandler) ListAuctionsHandler(c *gin.Context) {
	f, ok := parseAuctionFilter(c)
	if !ok {
		return
	}

	auctions, total, err := h.service.List(f)
	if err != nil {
		helpers.HandleServiceError(c, "ListAuctionsHandler", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":    total,
		"page":     f.Page,
		"per_page": f.PerPage,
		"auctions": helpers.NewAuctionResponses(auctions),
	})
}

// GetAuctionHandler handles GET /auctions/:id (public)
func (h *AuctionHandler) GetAuctionHandler(c *gin.Context) {
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}

	a, err := h.service.Get(id)
	if err != nil {
		helpers.HandleServiceError(c, "GetAuctionHandler", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"auction": helpers.NewAuctionResponse(a)})
}

// CreateAuctionHandler handles POST /auctions (seller/admin)
func (h *AuctionHandler) CreateAuctionHandler(c *gin.Context) {
	user, ok := helpers.MustCurrentUser(c)
	if !ok {
		return
	}

	var req helpers.CreateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateAuctionHandler", err)
		return
	}

	a, err := h.service.Create(user, auction.CreateAuctionInput{
		Title:       req.Title,
		Description: req.Description,
		StartPrice:  req.StartPrice,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		helpers.HandleServiceError(c, "CreateAuctionHandler", err)
		return
	}

	utils.JSONResource(c, http.StatusCreated, "Auction created successfully", "auction", helpers.NewAuctionResponse(a))
	helpers.LogSuccess("CreateAuctionHandler", "auction created", map[string]any{
		"auction_id": a.ID,
		"seller_id":  a.SellerID,
		"title":      a.Title,
	})
}

// UpdateAuctionHandler handles PUT /auctions/:id (owner seller or admin)
func (h *AuctionHandler) UpdateAuctionHandler(c *gin.Context) {
	user, ok := helpers.MustCurrentUser(c)
	if !ok {
		return
	}
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req helpers.UpdateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "UpdateAuctionHandler", err)
		return
	}

	a, err := h.service.Update(user, id, auction.UpdateAuctionInput{
		Title:       req.Title,
		Description: req.Description,
		StartPrice:  req.StartPrice,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		helpers.HandleServiceError(c, "UpdateAuctionHandler", err)
		return
	}

	utils.JSONResource(c, http.StatusOK, "Auction updated successfully", "auction", helpers.NewAuctionResponse(a))
}

// DeleteAuctionHandler handles DELETE /auctions/:id (owner seller or admin)
func (h *AuctionHandler) DeleteAuctionHandler(c *gin.Context) {
	user, ok := helpers.MustCurrentUser(c)
	if !ok {
		return
	}
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(user, id); err != nil {
		helpers.HandleServiceError(c, "DeleteAuctionHandler", err)
		return
	}

	utils.JSONMessage(c, http.StatusOK, "Auction deleted successfully")
	helpers.LogSuccess("DeleteAuctionHandler", "auction deleted", map[string]any{"auction_id": id})
}

// parseAuctionFilter reads listing query parameters, rejecting malformed
// numbers and dates with 422.
func parseAuctionFilter(c *gin.Context) (repository.AuctionFilter, bool) {
	f := repository.AuctionFilter{
		Query:       c.Query("q"),
		Title:       c.Query("title"),
		Description: c.Query("description"),
		SortBy:      c.Query("sort_by"),
		SortDir:     c.DefaultQuery("sort_dir", "desc"),
		Page:        1,
		PerPage:     10,
	}

	floats := map[string]**float64{
		"min_start_price": &f.MinStartPrice,
		"max_start_price": &f.MaxStartPrice,
		"min_highest_bid": &f.MinHighestBid,
		"max_highest_bid": &f.MaxHighestBid,
	}
	for name, dest := range floats {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			utils.JSONError(c, http.StatusUnprocessableEntity, "Invalid "+name+" parameter")
			return repository.AuctionFilter{}, false
		}
		*dest = &v
	}

	uints := map[string]*uint{
		"category_id": &f.CategoryID,
		"user_id":     &f.SellerID,
	}
	for name, dest := range uints {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.JSONError(c, http.StatusUnprocessableEntity, "Invalid "+name+" parameter")
			return repository.AuctionFilter{}, false
		}
		*dest = uint(v)
	}

	times := map[string]**time.Time{
		"starts_before": &f.StartsBefore,
		"starts_after":  &f.StartsAfter,
		"ends_before":   &f.EndsBefore,
		"ends_after":    &f.EndsAfter,
	}
	for name, dest := range times {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		t, err := parseDate(raw)
		if err != nil {
			utils.JSONError(c, http.StatusUnprocessableEntity, "Invalid "+name+" parameter")
			return repository.AuctionFilter{}, false
		}
		*dest = &t
	}

	if raw := c.Query("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			utils.JSONError(c, http.StatusUnprocessableEntity, "Invalid page parameter")
			return repository.AuctionFilter{}, false
		}
		f.Page = v
	}
	if raw := c.Query("per_page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 100 {
			utils.JSONError(c, http.StatusUnprocessableEntity, "Invalid per_page parameter")
			return repository.AuctionFilter{}, false
		}
		f.PerPage = v
	}

	return f, true
}

// parseDate accepts RFC 3339 timestamps and bare dates.
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
