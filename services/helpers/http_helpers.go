package helpers

import (
	"errors"
	"net/http"
	"strconv"

	"auction-market/internal/auctionerrors"
	model "auction-market/internal/models"
	"auction-market/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middleware.
const (
	CurrentUserKey = "currentUser"
	AccessTokenKey = "accessToken"
)

// CurrentUser returns the authenticated user stored by the auth middleware.
func CurrentUser(c *gin.Context) (model.User, bool) {
	v, ok := c.Get(CurrentUserKey)
	if !ok {
		return model.User{}, false
	}
	u, ok := v.(model.User)
	return u, ok
}

// MustCurrentUser returns the authenticated user or aborts with 401. Routes
// behind the auth middleware always have one; this guards against wiring
// mistakes.
func MustCurrentUser(c *gin.Context) (model.User, bool) {
	u, ok := CurrentUser(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthenticated")
	}
	return u, ok
}

// ParseIDParam reads a positive integer path parameter.
func ParseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusUnprocessableEntity, "Invalid "+name+" parameter")
		return 0, false
	}
	return uint(id), true
}

// HandleBindError sends a standardized JSON error for binding failures.
func HandleBindError(c *gin.Context, handlerName string, err error) {
	utils.JSONError(c, http.StatusUnprocessableEntity, "Invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// HandleServiceError maps a service error to its HTTP response and logs it.
func HandleServiceError(c *gin.Context, handlerName string, err error) {
	status, message := MapErrorToHTTP(err)
	utils.JSONError(c, status, message)

	fields := map[string]any{"handler": handlerName, "error": err.Error()}
	if status >= http.StatusInternalServerError {
		utils.Error(handlerName+": "+message, fields)
	} else {
		utils.Warn(handlerName+": "+message, fields)
	}
}

// MapErrorToHTTP maps domain errors to an HTTP status code and message.
// Every check in the admission and settlement flows surfaces a distinct,
// machine-distinguishable kind; nothing is swallowed here.
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, auctionerrors.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthenticated"
	case errors.Is(err, auctionerrors.ErrWrongCredentials):
		return http.StatusUnauthorized, "Wrong credentials"

	case errors.Is(err, auctionerrors.ErrSelfBid):
		return http.StatusForbidden, "You cannot bid on your own auction"
	case errors.Is(err, auctionerrors.ErrNotWinner):
		return http.StatusForbidden, "You are not the winner of this auction"
	case errors.Is(err, auctionerrors.ErrForbidden):
		return http.StatusForbidden, "Forbidden"

	case errors.Is(err, auctionerrors.ErrAuctionNotFound):
		return http.StatusNotFound, "Auction not found"
	case errors.Is(err, auctionerrors.ErrBidNotFound):
		return http.StatusNotFound, "Bid not found"
	case errors.Is(err, auctionerrors.ErrCategoryNotFound):
		return http.StatusNotFound, "Category not found"
	case errors.Is(err, auctionerrors.ErrTransactionNotFound):
		return http.StatusNotFound, "Transaction not found"
	case errors.Is(err, auctionerrors.ErrUserNotFound):
		return http.StatusNotFound, "User not found"

	case errors.Is(err, auctionerrors.ErrAlreadySettled):
		return http.StatusConflict, "Transaction already exists for this auction"

	case errors.Is(err, auctionerrors.ErrAuctionInactive):
		return http.StatusUnprocessableEntity, "Auction is not active"
	case errors.Is(err, auctionerrors.ErrBidTooLow):
		return http.StatusUnprocessableEntity, "Bid must be higher than the current highest bid"
	case errors.Is(err, auctionerrors.ErrAuctionNotEnded):
		return http.StatusUnprocessableEntity, "Auction is not finished yet"
	case errors.Is(err, auctionerrors.ErrNoBids):
		return http.StatusUnprocessableEntity, "No bids for this auction"
	case errors.Is(err, auctionerrors.ErrDuplicateName):
		return http.StatusUnprocessableEntity, "Name already taken"
	case errors.Is(err, auctionerrors.ErrDuplicateEmail):
		return http.StatusUnprocessableEntity, "Email already registered"
	case errors.Is(err, auctionerrors.ErrInvalidInput):
		return http.StatusUnprocessableEntity, "Invalid input"

	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// LogSuccess standardizes logging of successful operations.
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
