package handler

import (
	"net/http"

	model "auction-market/internal/models"
	"auction-market/services/helpers"
	"auction-market/utils"

	"github.com/gin-gonic/gin"
)

type SettlementServiceInterface interface {
	Settle(user model.User, auctionID uint) (model.Transaction, error)
	GetTransaction(user model.User, id uint) (model.Transaction, error)
	ListTransactions(user model.User) ([]model.Transaction, error)
}

type SettlementHandler struct {
	service SettlementServiceInterface
}

func NewSettlementHandler(service SettlementServiceInterface) *SettlementHandler {
	return &SettlementHandler{service: service}
}

// CreateTransactionHandler handles POST /transactions: the winning buyer
// settles a finished auction.
func (h *SettlementHandler) CreateTransactionHandler(c *gin.Context) {
	user, ok := helpers.MustCurrentUser(c)
	if !ok {
		return
	}

	var req helpers.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateTransactionHandler", err)
		return
	}

	tx, err := h.service.Settle(user, req.AuctionID)
	if err != nil {
		helpers.HandleServiceError(c, "CreateTransactionHandler", err)
		return
	}

	utils.JSONResource(c, http.StatusCreated, "Transaction created successfully", "transaction", helpers.NewTransactionResponse(tx))
	helpers.LogSuccess("CreateTransactionHandler", "transaction created", map[string]any{
		"transaction_id": tx.ID,
		"auction_id":     tx.AuctionID,
		"buyer_id":       tx.BuyerID,
		"final_price":    tx.FinalPrice,
	})
}

// GetTransactionHandler handles GET /transactions/:id
func (h *SettlementHandler) GetTransactionHandler(c *gin.Context) {
	user, ok := helpers.MustCurrentUser(c)
	if !ok {
		return
	}
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}

	tx, err := h.service.GetTransaction(user, id)
	if err != nil {
		helpers.HandleServiceError(c, "GetTransactionHandler", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": helpers.NewTransactionResponse(tx)})
}

// ListTransactionsHandler handles GET /transactions. Admins see all,
// buyers their own.
func (h *SettlementHandler) ListTransactionsHandler(c *gin.Context) {
	user, ok := helpers.MustCurrentUser(c)
	if !ok {
		return
	}

	txs, err := h.service.ListTransactions(user)
	if err != nil {
		helpers.HandleServiceError(c, "ListTransactionsHandler", err)
		return
	}

	utils.JSONCollection(c, http.StatusOK, "transactions", len(txs), helpers.NewTransactionResponses(txs))
}
