package server

import (
	adminhandler "auction-market/services/admin/handler"
	auctionhandler "auction-market/services/auction/handler"
	biddinghandler "auction-market/services/bidding/handler"
	categoryhandler "auction-market/services/category/handler"
	settlementhandler "auction-market/services/settlement/handler"
	userhandler "auction-market/services/user/handler"

	"github.com/gin-gonic/gin"
)

// Services bundles everything the router needs.
type Services struct {
	Users      userhandler.UserServiceInterface
	Auctions   auctionhandler.AuctionServiceInterface
	Categories categoryhandler.CategoryServiceInterface
	Bids       biddinghandler.BidServiceInterface
	Settlement settlementhandler.SettlementServiceInterface
	Stats      adminhandler.StatsServiceInterface
	Auth       Authenticator
}

// SetupRouter configures all Gin routes for the application
func SetupRouter(svc Services) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	userHandler := userhandler.NewUserHandler(svc.Users)
	auctionHandler := auctionhandler.NewAuctionHandler(svc.Auctions)
	categoryHandler := categoryhandler.NewCategoryHandler(svc.Categories)
	biddingHandler := biddinghandler.NewBiddingHandler(svc.Bids)
	settlementHandler := settlementhandler.NewSettlementHandler(svc.Settlement)
	statsHandler := adminhandler.NewStatsHandler(svc.Stats)

	// public routes
	router.POST("/register", userHandler.RegisterHandler)
	router.POST("/login", userHandler.LoginHandler)
	router.GET("/categories", categoryHandler.ListCategoriesHandler)
	router.GET("/categories/:id", categoryHandler.GetCategoryHandler)
	router.GET("/auctions", auctionHandler.ListAuctionsHandler)
	router.GET("/auctions/:id", auctionHandler.GetAuctionHandler)

	authed := router.Group("", AuthMiddleware(svc.Auth))
	{
		authed.GET("/me", userHandler.MeHandler)
		authed.POST("/logout", userHandler.LogoutHandler)

		authed.POST("/categories", categoryHandler.CreateCategoryHandler)
		authed.PUT("/categories/:id", categoryHandler.UpdateCategoryHandler)
		authed.DELETE("/categories/:id", categoryHandler.DeleteCategoryHandler)

		authed.POST("/auctions", auctionHandler.CreateAuctionHandler)
		authed.PUT("/auctions/:id", auctionHandler.UpdateAuctionHandler)
		authed.DELETE("/auctions/:id", auctionHandler.DeleteAuctionHandler)
		authed.GET("/auctions/:id/bids", biddingHandler.AuctionBidsHandler)

		authed.GET("/bids", biddingHandler.ListBidsHandler)
		authed.POST("/bids", biddingHandler.RecordBidHandler)
		authed.PUT("/bids/:id", biddingHandler.UpdateBidHandler)
		authed.DELETE("/bids/:id", biddingHandler.DeleteBidHandler)

		authed.GET("/users/:id/bids", biddingHandler.UserBidsHandler)

		authed.GET("/transactions", settlementHandler.ListTransactionsHandler)
		authed.POST("/transactions", settlementHandler.CreateTransactionHandler)
		authed.GET("/transactions/:id", settlementHandler.GetTransactionHandler)

		authed.GET("/admin/stats", statsHandler.AdminStatsHandler)
	}

	return router
}
