package settlement

import (
	"fmt"
	"time"

	"auction-market/internal/accesspolicy"
	"auction-market/internal/auctionerrors"
	"auction-market/internal/locks"
	"auction-market/internal/models"
	"auction-market/internal/repository"
)

// SettlementService resolves the winning bid of a closed auction and records
// the one-time transaction. Settlement is pull-based: the winning buyer asks
// for it, nothing sweeps closed auctions in the background.
type SettlementService struct {
	auctions     repository.AuctionStore
	bids         repository.BidStore
	transactions repository.TransactionStore
	locks        *locks.AuctionLocks
}

// NewSettlementService creates a new SettlementService instance.
func NewSettlementService(
	auctions repository.AuctionStore,
	bids repository.BidStore,
	transactions repository.TransactionStore,
	l *locks.AuctionLocks,
) *SettlementService {
	return &SettlementService{
		auctions:     auctions,
		bids:         bids,
		transactions: transactions,
		locks:        l,
	}
}

// WinningBid picks the winner among bids: the maximum amount, ties broken by
// the most recent CreatedAt. Returns false when bids is empty.
func WinningBid(bids []models.Bid) (models.Bid, bool) {
	if len(bids) == 0 {
		return models.Bid{}, false
	}
	winner := bids[0]
	for _, b := range bids[1:] {
		if b.Amount > winner.Amount ||
			(b.Amount == winner.Amount && b.CreatedAt.After(winner.CreatedAt)) {
			winner = b
		}
	}
	return winner, true
}

// Settle creates the transaction for an auction won by the requesting buyer.
// Preconditions, each with its own error: buyer role, auction exists, the
// end time has fully passed (exactly at the boundary counts as still open),
// no transaction exists yet, at least one bid exists, and the requester
// placed the winning bid. The unique index on auction_id backs up the
// existence pre-check against concurrent requests.
func (s *SettlementService) Settle(user models.User, auctionID uint) (models.Transaction, error) {
	if !accesspolicy.CanSettle(user) {
		return models.Transaction{}, fmt.Errorf("settle auction %d: only buyers can create transactions: %w",
			auctionID, auctionerrors.ErrForbidden)
	}

	unlock := s.locks.Lock(auctionID)
	defer unlock()

	auction, err := s.auctions.GetAuction(auctionID)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("settle: %w", err)
	}

	if !auction.IsFinished(time.Now().UTC()) {
		return models.Transaction{}, fmt.Errorf("settle auction %d: %w", auctionID, auctionerrors.ErrAuctionNotEnded)
	}

	exists, err := s.transactions.TransactionExists(auctionID)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("settle: %w", err)
	}
	if exists {
		return models.Transaction{}, fmt.Errorf("settle auction %d: %w", auctionID, auctionerrors.ErrAlreadySettled)
	}

	bids, err := s.bids.ListBidsByAuction(auctionID)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("settle: %w", err)
	}
	winner, ok := WinningBid(bids)
	if !ok {
		return models.Transaction{}, fmt.Errorf("settle auction %d: %w", auctionID, auctionerrors.ErrNoBids)
	}
	if winner.BidderID != user.ID {
		return models.Transaction{}, fmt.Errorf("settle auction %d: %w", auctionID, auctionerrors.ErrNotWinner)
	}

	tx := models.Transaction{
		AuctionID:  auctionID,
		BuyerID:    user.ID,
		FinalPrice: winner.Amount,
	}
	if err := s.transactions.CreateTransaction(&tx); err != nil {
		return models.Transaction{}, fmt.Errorf("settle: %w", err)
	}

	tx.Auction = &auction
	tx.Buyer = &user
	return tx, nil
}

// GetTransaction returns one transaction, visible to admins and the buyer
// who owns it.
func (s *SettlementService) GetTransaction(user models.User, id uint) (models.Transaction, error) {
	tx, err := s.transactions.GetTransaction(id)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	if !accesspolicy.CanViewTransaction(user, tx) {
		return models.Transaction{}, fmt.Errorf("get transaction %d: %w", id, auctionerrors.ErrForbidden)
	}
	return tx, nil
}

// ListTransactions returns every transaction for admins and the caller's own
// otherwise, newest first.
func (s *SettlementService) ListTransactions(user models.User) ([]models.Transaction, error) {
	if user.IsAdmin() {
		txs, err := s.transactions.ListTransactions()
		if err != nil {
			return nil, fmt.Errorf("list transactions: %w", err)
		}
		return txs, nil
	}
	txs, err := s.transactions.ListTransactionsByBuyer(user.ID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}
