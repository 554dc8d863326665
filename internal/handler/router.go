package handler

import (
	"github.com/gin-gonic/gin"
)

// SetupRouter 配置路由
func SetupRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(RecoveryMiddleware())
	r.Use(LoggerMiddleware())
	r.Use(CORSMiddleware())

	api := r.Group("/api/v1")
	{
		auction := api.Group("/auction")
		{
			auction.POST("/create", h.CreateAuction)
			auction.GET("/detail", h.GetAuction)
			auction.GET("/bids", h.ListBids)
			auction.POST("/withdraw", h.WithdrawAuction)
		}

		bid := api.Group("/bid")
		{
			bid.POST("/place", h.PlaceBid)
		}

		wallet := api.Group("/wallet")
		{
			wallet.POST("/topup", h.Topup)
			wallet.GET("/balance", h.GetWallet)
			wallet.GET("/transactions", h.ListTransactions)
		}

		payment := api.Group("/payment")
		{
			payment.POST("/final", h.FinalPayment)
			payment.POST("/refund", h.Refund)
		}

		settlement := api.Group("/settlement")
		{
			settlement.GET("/list", h.ListSettlements)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
