package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"auction-market/internal/auctionerrors"
	model "auction-market/internal/models"
	"auction-market/services/helpers"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func asUser(user model.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(helpers.CurrentUserKey, user)
		c.Next()
	}
}

// Test CreateTransactionHandler
func TestCreateTransactionHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockSettlementServiceInterface(ctrl)
	handler := NewSettlementHandler(mockService)

	buyer := model.User{ID: 2, Role: model.RoleBuyer}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/transactions", asUser(buyer), handler.CreateTransactionHandler)

	tests := []struct {
		name           string
		requestBody    any
		mockSetup      func()
		expectedStatus int
	}{
		{
			name:        "winner_settles",
			requestBody: helpers.CreateTransactionRequest{AuctionID: 1},
			mockSetup: func() {
				mockService.EXPECT().
					Settle(buyer, uint(1)).
					Return(model.Transaction{ID: 3, AuctionID: 1, BuyerID: buyer.ID, FinalPrice: 95}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "invalid_json",
			requestBody:    `{invalid}`,
			mockSetup:      func() {},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:        "auction_still_running",
			requestBody: helpers.CreateTransactionRequest{AuctionID: 1},
			mockSetup: func() {
				mockService.EXPECT().
					Settle(buyer, uint(1)).
					Return(model.Transaction{}, auctionerrors.ErrAuctionNotEnded)
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:        "already_settled",
			requestBody: helpers.CreateTransactionRequest{AuctionID: 1},
			mockSetup: func() {
				mockService.EXPECT().
					Settle(buyer, uint(1)).
					Return(model.Transaction{}, auctionerrors.ErrAlreadySettled)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:        "not_the_winner",
			requestBody: helpers.CreateTransactionRequest{AuctionID: 1},
			mockSetup: func() {
				mockService.EXPECT().
					Settle(buyer, uint(1)).
					Return(model.Transaction{}, auctionerrors.ErrNotWinner)
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:        "no_bids",
			requestBody: helpers.CreateTransactionRequest{AuctionID: 1},
			mockSetup: func() {
				mockService.EXPECT().
					Settle(buyer, uint(1)).
					Return(model.Transaction{}, auctionerrors.ErrNoBids)
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tc := range tests {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			tc.mockSetup()

			var body []byte
			switch v := tc.requestBody.(type) {
			case string:
				body = []byte(v)
			default:
				var err error
				body, err = json.Marshal(v)
				require.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, tc.expectedStatus, rec.Code)
		})
	}
}

// Test GetTransactionHandler and ListTransactionsHandler
func TestTransactionReadHandlers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockSettlementServiceInterface(ctrl)
	handler := NewSettlementHandler(mockService)

	buyer := model.User{ID: 2, Role: model.RoleBuyer}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/transactions", asUser(buyer), handler.ListTransactionsHandler)
	router.GET("/transactions/:id", asUser(buyer), handler.GetTransactionHandler)

	t.Run("get_own_transaction", func(t *testing.T) {
		mockService.EXPECT().
			GetTransaction(buyer, uint(3)).
			Return(model.Transaction{ID: 3, AuctionID: 1, BuyerID: buyer.ID, FinalPrice: 95}, nil)

		req := httptest.NewRequest(http.MethodGet, "/transactions/3", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		tx, ok := resp["transaction"].(map[string]any)
		require.True(t, ok)
		require.Equal(t, 95.0, tx["final_price"])
	})

	t.Run("foreign_transaction_forbidden", func(t *testing.T) {
		mockService.EXPECT().
			GetTransaction(buyer, uint(4)).
			Return(model.Transaction{}, auctionerrors.ErrForbidden)

		req := httptest.NewRequest(http.MethodGet, "/transactions/4", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("not_found", func(t *testing.T) {
		mockService.EXPECT().
			GetTransaction(buyer, uint(5)).
			Return(model.Transaction{}, auctionerrors.ErrTransactionNotFound)

		req := httptest.NewRequest(http.MethodGet, "/transactions/5", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("list_own", func(t *testing.T) {
		mockService.EXPECT().
			ListTransactions(buyer).
			Return([]model.Transaction{{ID: 3, BuyerID: buyer.ID}}, nil)

		req := httptest.NewRequest(http.MethodGet, "/transactions", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, float64(1), resp["count"])
	})
}
