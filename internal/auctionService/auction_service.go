package auction

import (
	"fmt"
	"time"

	"auction-market/internal/accesspolicy"
	"auction-market/internal/auctionerrors"
	"auction-market/internal/models"
	"auction-market/internal/repository"
)

// AuctionService covers the auction listing lifecycle: public browsing with
// filters, and seller/admin mutation.
type AuctionService struct {
	auctions   repository.AuctionStore
	categories repository.CategoryStore
}

// NewAuctionService creates a new AuctionService instance.
func NewAuctionService(auctions repository.AuctionStore, categories repository.CategoryStore) *AuctionService {
	return &AuctionService{auctions: auctions, categories: categories}
}

// CreateAuctionInput carries the fields of a new listing.
type CreateAuctionInput struct {
	Title       string
	Description string
	StartPrice  float64
	StartTime   time.Time
	EndTime     time.Time
	CategoryID  uint
}

// UpdateAuctionInput carries a partial update; nil fields stay untouched.
type UpdateAuctionInput struct {
	Title       *string
	Description *string
	StartPrice  *float64
	StartTime   *time.Time
	EndTime     *time.Time
	CategoryID  *uint
}

// Create lists a new auction for the requesting seller (or admin).
func (s *AuctionService) Create(user models.User, in CreateAuctionInput) (models.Auction, error) {
	if !accesspolicy.CanCreateAuction(user) {
		return models.Auction{}, fmt.Errorf("create auction: only sellers can create auctions: %w", auctionerrors.ErrForbidden)
	}
	if in.Title == "" {
		return models.Auction{}, fmt.Errorf("create auction: empty title: %w", auctionerrors.ErrInvalidInput)
	}
	if in.StartPrice < 0 {
		return models.Auction{}, fmt.Errorf("create auction: negative start price: %w", auctionerrors.ErrInvalidInput)
	}
	if !in.EndTime.After(in.StartTime) {
		return models.Auction{}, fmt.Errorf("create auction: end time must be after start time: %w", auctionerrors.ErrInvalidInput)
	}
	if _, err := s.categories.GetCategory(in.CategoryID); err != nil {
		return models.Auction{}, fmt.Errorf("create auction: %w", err)
	}

	a := models.Auction{
		Title:       in.Title,
		Description: in.Description,
		StartPrice:  in.StartPrice,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		CategoryID:  in.CategoryID,
		SellerID:    user.ID,
	}
	if err := s.auctions.CreateAuction(&a); err != nil {
		return models.Auction{}, fmt.Errorf("create auction: %w", err)
	}
	return a, nil
}

// Get returns one auction; listings are public.
func (s *AuctionService) Get(id uint) (models.Auction, error) {
	a, err := s.auctions.GetAuction(id)
	if err != nil {
		return models.Auction{}, fmt.Errorf("get auction: %w", err)
	}
	return a, nil
}

// List returns the filtered, sorted, paginated public listing plus the total
// match count.
func (s *AuctionService) List(f repository.AuctionFilter) ([]models.Auction, int64, error) {
	auctions, total, err := s.auctions.ListAuctions(f)
	if err != nil {
		return nil, 0, fmt.Errorf("list auctions: %w", err)
	}
	return auctions, total, nil
}

// Update applies a partial update, owner seller or admin only.
func (s *AuctionService) Update(user models.User, id uint, in UpdateAuctionInput) (models.Auction, error) {
	a, err := s.auctions.GetAuction(id)
	if err != nil {
		return models.Auction{}, fmt.Errorf("update auction: %w", err)
	}
	if !accesspolicy.CanManageAuction(user, a) {
		return models.Auction{}, fmt.Errorf("update auction %d: %w", id, auctionerrors.ErrForbidden)
	}

	fields := map[string]any{}
	if in.Title != nil {
		if *in.Title == "" {
			return models.Auction{}, fmt.Errorf("update auction %d: empty title: %w", id, auctionerrors.ErrInvalidInput)
		}
		fields["title"] = *in.Title
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.StartPrice != nil {
		if *in.StartPrice < 0 {
			return models.Auction{}, fmt.Errorf("update auction %d: negative start price: %w", id, auctionerrors.ErrInvalidInput)
		}
		fields["start_price"] = *in.StartPrice
	}

	// Window edits must keep end after start, comparing against the stored
	// value for whichever side the request leaves out.
	start, end := a.StartTime, a.EndTime
	if in.StartTime != nil {
		start = *in.StartTime
		fields["start_time"] = *in.StartTime
	}
	if in.EndTime != nil {
		end = *in.EndTime
		fields["end_time"] = *in.EndTime
	}
	if (in.StartTime != nil || in.EndTime != nil) && !end.After(start) {
		return models.Auction{}, fmt.Errorf("update auction %d: end time must be after start time: %w", id, auctionerrors.ErrInvalidInput)
	}

	if in.CategoryID != nil {
		if _, err := s.categories.GetCategory(*in.CategoryID); err != nil {
			return models.Auction{}, fmt.Errorf("update auction %d: %w", id, err)
		}
		fields["category_id"] = *in.CategoryID
	}

	updated, err := s.auctions.UpdateAuction(id, fields)
	if err != nil {
		return models.Auction{}, fmt.Errorf("update auction: %w", err)
	}
	return updated, nil
}

// Delete removes an auction, owner seller or admin only.
func (s *AuctionService) Delete(user models.User, id uint) error {
	a, err := s.auctions.GetAuction(id)
	if err != nil {
		return fmt.Errorf("delete auction: %w", err)
	}
	if !accesspolicy.CanManageAuction(user, a) {
		return fmt.Errorf("delete auction %d: %w", id, auctionerrors.ErrForbidden)
	}
	if err := s.auctions.DeleteAuction(id); err != nil {
		return fmt.Errorf("delete auction: %w", err)
	}
	return nil
}
