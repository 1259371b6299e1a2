package accesspolicy

import (
	model "auction-market/internal/models"
)

// Capability checks consulted by the services. Role branching lives here so
// every endpoint applies the same rules; admin overrides ownership for
// mutation and deletion of auctions, categories and bids.

// CanPlaceBid reports whether the user may place bids.
func CanPlaceBid(u model.User) bool {
	return u.IsBuyer()
}

// CanSettle reports whether the user may request settlement of an auction.
func CanSettle(u model.User) bool {
	return u.IsBuyer()
}

// CanCreateAuction reports whether the user may list new auctions.
func CanCreateAuction(u model.User) bool {
	return u.IsSeller() || u.IsAdmin()
}

// CanManageAuction reports whether the user may update or delete the auction.
func CanManageAuction(u model.User, a model.Auction) bool {
	return u.IsAdmin() || (u.IsSeller() && a.SellerID == u.ID)
}

// CanMutateBid reports whether the user may update or delete the bid.
func CanMutateBid(u model.User, b model.Bid) bool {
	return u.IsAdmin() || b.BidderID == u.ID
}

// CanManageCategories reports whether the user may create, update or delete
// categories.
func CanManageCategories(u model.User) bool {
	return u.IsAdmin()
}

// CanViewTransaction reports whether the user may read the transaction.
func CanViewTransaction(u model.User, t model.Transaction) bool {
	return u.IsAdmin() || t.BuyerID == u.ID
}

// CanViewMarketData reports whether the user may read cross-user listings
// (all bids of an auction, all bids of a user, platform stats).
func CanViewMarketData(u model.User) bool {
	return u.IsAdmin()
}
