package main

import (
	auction "auction-market/internal/auctionService"
	bidding "auction-market/internal/biddingService"
	category "auction-market/internal/categoryService"
	"auction-market/internal/config"
	"auction-market/internal/locks"
	"auction-market/internal/repository"
	"auction-market/internal/server"
	settlement "auction-market/internal/settlementService"
	stats "auction-market/internal/statsService"
	user "auction-market/internal/userService"
	"auction-market/utils"
	"fmt"
	"os"
)

func main() {

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	db, err := repository.Open(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	store := repository.NewGormStore(db)

	// Bid admission and settlement share the per-auction locks so a bid and
	// a settlement on the same auction never interleave.
	auctionLocks := locks.NewAuctionLocks()

	userSvc := user.NewUserService(store, cfg.BcryptCost)
	auctionSvc := auction.NewAuctionService(store, store)
	categorySvc := category.NewCategoryService(store)
	biddingSvc := bidding.NewBidService(store, store, auctionLocks)
	settlementSvc := settlement.NewSettlementService(store, store, store, auctionLocks)
	statsSvc := stats.NewStatsService(store)

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := userSvc.EnsureAdmin(cfg.AdminEmail, cfg.AdminPassword); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to bootstrap admin account: %v\n", err)
			os.Exit(1)
		}
	}

	router := server.SetupRouter(server.Services{
		Users:      userSvc,
		Auctions:   auctionSvc,
		Categories: categorySvc,
		Bids:       biddingSvc,
		Settlement: settlementSvc,
		Stats:      statsSvc,
		Auth:       userSvc,
	})

	utils.Info("Starting auction server", map[string]any{"addr": cfg.HTTPAddr})
	if err := router.Run(cfg.HTTPAddr); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}
