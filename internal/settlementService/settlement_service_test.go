package settlement

import (
	"errors"
	"testing"
	"time"

	"auction-market/internal/auctionerrors"
	"auction-market/internal/locks"
	model "auction-market/internal/models"
	"auction-market/internal/repository"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

// Tests WinningBid
func TestWinningBid(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name           string
		bids           []model.Bid
		expectFound    bool
		expectedBidID  uint
		expectedAmount float64
	}{
		{
			name:        "no_bids",
			bids:        nil,
			expectFound: false,
		},
		{
			name: "single_bid",
			bids: []model.Bid{
				{ID: 1, BidderID: 2, Amount: 95, CreatedAt: now},
			},
			expectFound:    true,
			expectedBidID:  1,
			expectedAmount: 95,
		},
		{
			name: "highest_amount_wins",
			bids: []model.Bid{
				{ID: 1, BidderID: 2, Amount: 80, CreatedAt: now},
				{ID: 2, BidderID: 3, Amount: 95, CreatedAt: now.Add(time.Second)},
			},
			expectFound:    true,
			expectedBidID:  2,
			expectedAmount: 95,
		},
		{
			name: "equal_amounts_latest_wins",
			bids: []model.Bid{
				{ID: 1, BidderID: 2, Amount: 50, CreatedAt: now},
				{ID: 2, BidderID: 3, Amount: 50, CreatedAt: now.Add(time.Second)},
			},
			expectFound:    true,
			expectedBidID:  2,
			expectedAmount: 50,
		},
		{
			name: "equal_amounts_order_independent",
			bids: []model.Bid{
				{ID: 2, BidderID: 3, Amount: 50, CreatedAt: now.Add(time.Second)},
				{ID: 1, BidderID: 2, Amount: 50, CreatedAt: now},
			},
			expectFound:    true,
			expectedBidID:  2,
			expectedAmount: 50,
		},
	}

	for _, tc := range tests {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			winner, ok := WinningBid(tc.bids)
			require.Equal(t, tc.expectFound, ok)
			if tc.expectFound {
				require.Equal(t, tc.expectedBidID, winner.ID)
				require.Equal(t, tc.expectedAmount, winner.Amount)
			}
		})
	}
}

// Tests Settle
func TestSettlementService_Settle(t *testing.T) {
	now := time.Now().UTC()

	buyer := model.User{ID: 2, Role: model.RoleBuyer}
	seller := model.User{ID: 1, Role: model.RoleSeller}

	endedAuction := model.Auction{
		ID:         1,
		SellerID:   seller.ID,
		StartPrice: 50,
		StartTime:  now.Add(-2 * time.Hour),
		EndTime:    now.Add(-time.Hour),
	}
	runningAuction := endedAuction
	runningAuction.ID = 2
	runningAuction.EndTime = now.Add(time.Hour)

	tests := []struct {
		name          string
		user          model.User
		auctionID     uint
		mockSetup     func(auctions *repository.MockAuctionStore, bids *repository.MockBidStore, txs *repository.MockTransactionStore)
		expectError   bool
		expectedError error
		expectedPrice float64
	}{
		{
			name:      "winner_settles_at_highest_amount",
			user:      buyer,
			auctionID: 1,
			mockSetup: func(auctions *repository.MockAuctionStore, bids *repository.MockBidStore, txs *repository.MockTransactionStore) {
				auctions.EXPECT().GetAuction(uint(1)).Return(endedAuction, nil)
				txs.EXPECT().TransactionExists(uint(1)).Return(false, nil)
				bids.EXPECT().ListBidsByAuction(uint(1)).Return([]model.Bid{
					{ID: 1, BidderID: 3, Amount: 80, CreatedAt: now.Add(-90 * time.Minute)},
					{ID: 2, BidderID: 2, Amount: 95, CreatedAt: now.Add(-80 * time.Minute)},
				}, nil)
				txs.EXPECT().CreateTransaction(gomock.Any()).Return(nil)
			},
			expectError:   false,
			expectedPrice: 95,
		},
		{
			name:          "seller_cannot_settle",
			user:          seller,
			auctionID:     1,
			mockSetup:     func(*repository.MockAuctionStore, *repository.MockBidStore, *repository.MockTransactionStore) {},
			expectError:   true,
			expectedError: auctionerrors.ErrForbidden,
		},
		{
			name:      "auction_not_found",
			user:      buyer,
			auctionID: 99,
			mockSetup: func(auctions *repository.MockAuctionStore, bids *repository.MockBidStore, txs *repository.MockTransactionStore) {
				auctions.EXPECT().GetAuction(uint(99)).Return(model.Auction{}, auctionerrors.ErrAuctionNotFound)
			},
			expectError:   true,
			expectedError: auctionerrors.ErrAuctionNotFound,
		},
		{
			name:      "auction_still_running",
			user:      buyer,
			auctionID: 2,
			mockSetup: func(auctions *repository.MockAuctionStore, bids *repository.MockBidStore, txs *repository.MockTransactionStore) {
				auctions.EXPECT().GetAuction(uint(2)).Return(runningAuction, nil)
			},
			expectError:   true,
			expectedError: auctionerrors.ErrAuctionNotEnded,
		},
		{
			name:      "already_settled",
			user:      buyer,
			auctionID: 1,
			mockSetup: func(auctions *repository.MockAuctionStore, bids *repository.MockBidStore, txs *repository.MockTransactionStore) {
				auctions.EXPECT().GetAuction(uint(1)).Return(endedAuction, nil)
				txs.EXPECT().TransactionExists(uint(1)).Return(true, nil)
			},
			expectError:   true,
			expectedError: auctionerrors.ErrAlreadySettled,
		},
		{
			name:      "no_bids",
			user:      buyer,
			auctionID: 1,
			mockSetup: func(auctions *repository.MockAuctionStore, bids *repository.MockBidStore, txs *repository.MockTransactionStore) {
				auctions.EXPECT().GetAuction(uint(1)).Return(endedAuction, nil)
				txs.EXPECT().TransactionExists(uint(1)).Return(false, nil)
				bids.EXPECT().ListBidsByAuction(uint(1)).Return([]model.Bid{}, nil)
			},
			expectError:   true,
			expectedError: auctionerrors.ErrNoBids,
		},
		{
			name:      "loser_cannot_settle",
			user:      buyer,
			auctionID: 1,
			mockSetup: func(auctions *repository.MockAuctionStore, bids *repository.MockBidStore, txs *repository.MockTransactionStore) {
				auctions.EXPECT().GetAuction(uint(1)).Return(endedAuction, nil)
				txs.EXPECT().TransactionExists(uint(1)).Return(false, nil)
				bids.EXPECT().ListBidsByAuction(uint(1)).Return([]model.Bid{
					{ID: 1, BidderID: 2, Amount: 80, CreatedAt: now.Add(-90 * time.Minute)},
					{ID: 2, BidderID: 3, Amount: 95, CreatedAt: now.Add(-80 * time.Minute)},
				}, nil)
			},
			expectError:   true,
			expectedError: auctionerrors.ErrNotWinner,
		},
		{
			name:      "unique_index_backs_up_precheck",
			user:      buyer,
			auctionID: 1,
			mockSetup: func(auctions *repository.MockAuctionStore, bids *repository.MockBidStore, txs *repository.MockTransactionStore) {
				auctions.EXPECT().GetAuction(uint(1)).Return(endedAuction, nil)
				txs.EXPECT().TransactionExists(uint(1)).Return(false, nil)
				bids.EXPECT().ListBidsByAuction(uint(1)).Return([]model.Bid{
					{ID: 2, BidderID: 2, Amount: 95, CreatedAt: now.Add(-80 * time.Minute)},
				}, nil)
				txs.EXPECT().CreateTransaction(gomock.Any()).Return(auctionerrors.ErrAlreadySettled)
			},
			expectError:   true,
			expectedError: auctionerrors.ErrAlreadySettled,
		},
	}

	for _, tc := range tests {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			auctions := repository.NewMockAuctionStore(ctrl)
			bids := repository.NewMockBidStore(ctrl)
			txs := repository.NewMockTransactionStore(ctrl)
			service := NewSettlementService(auctions, bids, txs, locks.NewAuctionLocks())

			tc.mockSetup(auctions, bids, txs)

			tx, err := service.Settle(tc.user, tc.auctionID)

			if tc.expectError {
				require.Error(t, err)
				if tc.expectedError != nil {
					require.True(t, errors.Is(err, tc.expectedError), "expected error: %v, got: %v", tc.expectedError, err)
				}
			} else {
				require.NoError(t, err)
				require.Equal(t, tc.auctionID, tx.AuctionID)
				require.Equal(t, tc.user.ID, tx.BuyerID)
				require.Equal(t, tc.expectedPrice, tx.FinalPrice)
				require.NotNil(t, tx.Auction)
				require.NotNil(t, tx.Buyer)
			}
		})
	}
}

// Tests transaction visibility scoping.
func TestSettlementService_TransactionVisibility(t *testing.T) {
	admin := model.User{ID: 9, Role: model.RoleAdmin}
	buyer := model.User{ID: 2, Role: model.RoleBuyer}

	t.Run("buyer_sees_own_transaction", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		txs := repository.NewMockTransactionStore(ctrl)
		service := NewSettlementService(nil, nil, txs, locks.NewAuctionLocks())

		txs.EXPECT().GetTransaction(uint(1)).Return(model.Transaction{ID: 1, BuyerID: buyer.ID}, nil)

		tx, err := service.GetTransaction(buyer, 1)
		require.NoError(t, err)
		require.Equal(t, uint(1), tx.ID)
	})

	t.Run("buyer_cannot_see_foreign_transaction", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		txs := repository.NewMockTransactionStore(ctrl)
		service := NewSettlementService(nil, nil, txs, locks.NewAuctionLocks())

		txs.EXPECT().GetTransaction(uint(1)).Return(model.Transaction{ID: 1, BuyerID: 5}, nil)

		_, err := service.GetTransaction(buyer, 1)
		require.ErrorIs(t, err, auctionerrors.ErrForbidden)
	})

	t.Run("admin_lists_all", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		txs := repository.NewMockTransactionStore(ctrl)
		service := NewSettlementService(nil, nil, txs, locks.NewAuctionLocks())

		txs.EXPECT().ListTransactions().Return([]model.Transaction{{ID: 1}, {ID: 2}}, nil)

		got, err := service.ListTransactions(admin)
		require.NoError(t, err)
		require.Len(t, got, 2)
	})

	t.Run("buyer_lists_own", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		txs := repository.NewMockTransactionStore(ctrl)
		service := NewSettlementService(nil, nil, txs, locks.NewAuctionLocks())

		txs.EXPECT().ListTransactionsByBuyer(buyer.ID).Return([]model.Transaction{{ID: 1, BuyerID: buyer.ID}}, nil)

		got, err := service.ListTransactions(buyer)
		require.NoError(t, err)
		require.Len(t, got, 1)
	})
}
