package bidding

import (
	"fmt"
	"time"

	"auction-market/internal/accesspolicy"
	"auction-market/internal/auctionerrors"
	"auction-market/internal/locks"
	"auction-market/internal/models"
	"auction-market/internal/repository"
)

// BidService implements the bid admission policy and the bid ledger. All
// read-check-write sequences run under a per-auction lock so that two
// concurrent admissions cannot both pass the monotonicity check against a
// stale read.
type BidService struct {
	auctions repository.AuctionStore
	bids     repository.BidStore
	locks    *locks.AuctionLocks
}

// NewBidService creates a new BidService instance.
func NewBidService(auctions repository.AuctionStore, bids repository.BidStore, l *locks.AuctionLocks) *BidService {
	return &BidService{
		auctions: auctions,
		bids:     bids,
		locks:    l,
	}
}

// PlaceBid admits a new bid. Checks run in order, each short-circuiting
// with its own error: buyer role, auction exists, auction window open, not
// the seller's own auction, amount strictly above the current highest (the
// start price when no bids exist; equal amounts are rejected).
func (s *BidService) PlaceBid(user models.User, auctionID uint, amount float64) (models.Bid, error) {
	if !accesspolicy.CanPlaceBid(user) {
		return models.Bid{}, fmt.Errorf("place bid: only buyers can place bids: %w", auctionerrors.ErrForbidden)
	}
	if amount <= 0 {
		return models.Bid{}, fmt.Errorf("place bid: non-positive amount: %w", auctionerrors.ErrInvalidInput)
	}

	unlock := s.locks.Lock(auctionID)
	defer unlock()

	auction, err := s.auctions.GetAuction(auctionID)
	if err != nil {
		return models.Bid{}, fmt.Errorf("place bid: %w", err)
	}

	now := time.Now().UTC()
	if !auction.IsActive(now) {
		return models.Bid{}, fmt.Errorf("place bid on auction %d: %w", auctionID, auctionerrors.ErrAuctionInactive)
	}
	if auction.SellerID == user.ID {
		return models.Bid{}, fmt.Errorf("place bid on auction %d: %w", auctionID, auctionerrors.ErrSelfBid)
	}

	current, err := s.currentHighest(auction, 0)
	if err != nil {
		return models.Bid{}, fmt.Errorf("place bid: %w", err)
	}
	if amount <= current {
		return models.Bid{}, fmt.Errorf("place bid on auction %d: current highest is %.2f: %w",
			auctionID, current, auctionerrors.ErrBidTooLow)
	}

	bid := models.Bid{
		Amount:    amount,
		AuctionID: auctionID,
		BidderID:  user.ID,
	}
	if err := s.bids.CreateBid(&bid); err != nil {
		return models.Bid{}, fmt.Errorf("place bid: %w", err)
	}

	if err := s.recomputeHighest(auction); err != nil {
		return models.Bid{}, fmt.Errorf("place bid: %w", err)
	}

	bid.Auction = &auction
	bid.Bidder = &user
	return bid, nil
}

// UpdateBid changes the amount of an existing bid, owner or admin only. The
// monotonicity threshold is the highest amount among the other bids, or the
// start price when the bid being updated is the only one.
func (s *BidService) UpdateBid(user models.User, bidID uint, amount float64) (models.Bid, error) {
	if amount <= 0 {
		return models.Bid{}, fmt.Errorf("update bid %d: non-positive amount: %w", bidID, auctionerrors.ErrInvalidInput)
	}

	bid, err := s.bids.GetBid(bidID)
	if err != nil {
		return models.Bid{}, fmt.Errorf("update bid: %w", err)
	}
	if !accesspolicy.CanMutateBid(user, bid) {
		return models.Bid{}, fmt.Errorf("update bid %d: %w", bidID, auctionerrors.ErrForbidden)
	}

	unlock := s.locks.Lock(bid.AuctionID)
	defer unlock()

	auction, err := s.auctions.GetAuction(bid.AuctionID)
	if err != nil {
		return models.Bid{}, fmt.Errorf("update bid: %w", err)
	}

	threshold, err := s.currentHighest(auction, bid.ID)
	if err != nil {
		return models.Bid{}, fmt.Errorf("update bid: %w", err)
	}
	if amount <= threshold {
		return models.Bid{}, fmt.Errorf("update bid %d: threshold is %.2f: %w",
			bidID, threshold, auctionerrors.ErrBidTooLow)
	}

	if err := s.bids.UpdateBidAmount(bid.ID, amount); err != nil {
		return models.Bid{}, fmt.Errorf("update bid: %w", err)
	}
	if err := s.recomputeHighest(auction); err != nil {
		return models.Bid{}, fmt.Errorf("update bid: %w", err)
	}

	bid.Amount = amount
	bid.Auction = &auction
	return bid, nil
}

// DeleteBid removes a bid, owner or admin only, then recomputes the parent
// auction's cached highest bid over the remaining set.
func (s *BidService) DeleteBid(user models.User, bidID uint) error {
	bid, err := s.bids.GetBid(bidID)
	if err != nil {
		return fmt.Errorf("delete bid: %w", err)
	}
	if !accesspolicy.CanMutateBid(user, bid) {
		return fmt.Errorf("delete bid %d: %w", bidID, auctionerrors.ErrForbidden)
	}

	unlock := s.locks.Lock(bid.AuctionID)
	defer unlock()

	auction, err := s.auctions.GetAuction(bid.AuctionID)
	if err != nil {
		return fmt.Errorf("delete bid: %w", err)
	}

	if err := s.bids.DeleteBid(bid.ID); err != nil {
		return fmt.Errorf("delete bid: %w", err)
	}
	if err := s.recomputeHighest(auction); err != nil {
		return fmt.Errorf("delete bid: %w", err)
	}
	return nil
}

// ListBids returns every bid for admins and the caller's own bids otherwise.
func (s *BidService) ListBids(user models.User) ([]models.Bid, error) {
	if accesspolicy.CanViewMarketData(user) {
		bids, err := s.bids.ListBids()
		if err != nil {
			return nil, fmt.Errorf("list bids: %w", err)
		}
		return bids, nil
	}
	bids, err := s.bids.ListBidsByBidder(user.ID)
	if err != nil {
		return nil, fmt.Errorf("list bids: %w", err)
	}
	return bids, nil
}

// BidsForAuction returns all bids of one auction, admin only.
func (s *BidService) BidsForAuction(user models.User, auctionID uint) ([]models.Bid, error) {
	if !accesspolicy.CanViewMarketData(user) {
		return nil, fmt.Errorf("list bids for auction %d: %w", auctionID, auctionerrors.ErrForbidden)
	}
	if _, err := s.auctions.GetAuction(auctionID); err != nil {
		return nil, fmt.Errorf("list bids: %w", err)
	}
	bids, err := s.bids.ListBidsByAuction(auctionID)
	if err != nil {
		return nil, fmt.Errorf("list bids: %w", err)
	}
	return bids, nil
}

// BidsForUser returns all bids placed by one user, admin only.
func (s *BidService) BidsForUser(user models.User, bidderID uint) ([]models.Bid, error) {
	if !accesspolicy.CanViewMarketData(user) {
		return nil, fmt.Errorf("list bids for user %d: %w", bidderID, auctionerrors.ErrForbidden)
	}
	bids, err := s.bids.ListBidsByBidder(bidderID)
	if err != nil {
		return nil, fmt.Errorf("list bids: %w", err)
	}
	return bids, nil
}

// currentHighest is the admission threshold: the fresh aggregate max over
// live bids (optionally excluding one bid), falling back to the start price
// when no other bids exist. The cached column is never consulted here; the
// bid set is the source of truth.
func (s *BidService) currentHighest(auction models.Auction, excludeBidID uint) (float64, error) {
	max, err := s.bids.MaxBidAmount(auction.ID, excludeBidID)
	if err != nil {
		return 0, err
	}
	if max == nil {
		return auction.StartPrice, nil
	}
	return *max, nil
}

// recomputeHighest re-derives the auction's cached highest bid as a fresh
// aggregate over the live bid set. Incremental updates would drift under
// deletes and amount changes; re-deriving keeps the cache self-healing no
// matter how concurrent mutations interleave. An emptied set falls back to
// the start price.
func (s *BidService) recomputeHighest(auction models.Auction) error {
	max, err := s.bids.MaxBidAmount(auction.ID, 0)
	if err != nil {
		return err
	}
	if max == nil {
		max = &auction.StartPrice
	}
	return s.auctions.SetHighestBid(auction.ID, max)
}
