package handler

import (
	"errors"
	"strconv"
	"time"

	"auctionhouse/internal/model"
	"auctionhouse/internal/repository"
	"auctionhouse/internal/service"
	"auctionhouse/pkg/response"

	"github.com/gin-gonic/gin"
)

// Handler 统一处理器，包含所有服务依赖
type Handler struct {
	auctionService      *service.AuctionService
	bidService          *service.BidService
	walletService       *service.WalletService
	paymentService      *service.PaymentService
	distributionService *service.DistributionService
}

// NewHandler 创建处理器实例
// 服务在 main 里组装（结算定时器要先于服务创建），这里只做接线
func NewHandler(
	auctionService *service.AuctionService,
	bidService *service.BidService,
	walletService *service.WalletService,
	paymentService *service.PaymentService,
	distributionService *service.DistributionService,
) *Handler {
	return &Handler{
		auctionService:      auctionService,
		bidService:          bidService,
		walletService:       walletService,
		paymentService:      paymentService,
		distributionService: distributionService,
	}
}

// handleError 业务错误到响应码的统一映射，未知错误按服务器错误处理
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrAuctionNotFound):
		response.BusinessError(c, response.CodeAuctionNotFound, err.Error())
	case errors.Is(err, model.ErrAuctionNotInProgress):
		response.BusinessError(c, response.CodeAuctionNotInProgress, err.Error())
	case errors.Is(err, model.ErrAuctionAlreadyEnded):
		response.BusinessError(c, response.CodeAuctionAlreadyEnded, err.Error())
	case errors.Is(err, service.ErrBidTooLow):
		response.BusinessError(c, response.CodeBidTooLow, err.Error())
	case errors.Is(err, service.ErrSelfOutbid):
		response.BusinessError(c, response.CodeSelfOutbid, err.Error())
	case errors.Is(err, service.ErrSellerCannotBid):
		response.BusinessError(c, response.CodeSellerCannotBid, err.Error())
	case errors.Is(err, service.ErrOutsideBiddingWindow):
		response.BusinessError(c, response.CodeOutsideBiddingWindow, err.Error())
	case errors.Is(err, model.ErrAuctionNotEnded), errors.Is(err, service.ErrWithdrawNotAllowed):
		response.BusinessError(c, response.CodeWithdrawNotAllowed, err.Error())
	case errors.Is(err, repository.ErrWalletNotFound):
		response.BusinessError(c, response.CodeWalletNotFound, err.Error())
	case errors.Is(err, model.ErrInsufficientBalance), errors.Is(err, model.ErrInsufficientHolding):
		response.BusinessError(c, response.CodeBalanceNotEnough, err.Error())
	case errors.Is(err, repository.ErrDepositNotFound), errors.Is(err, model.ErrDepositNotHold):
		response.BusinessError(c, response.CodeDepositNotFound, err.Error())
	case errors.Is(err, repository.ErrOrderNotFound):
		response.BusinessError(c, response.CodeOrderNotFound, err.Error())
	case errors.Is(err, service.ErrOrderNotProcessing), errors.Is(err, model.ErrOrderStatusInvalid):
		response.BusinessError(c, response.CodeOrderStatusInvalid, err.Error())
	case errors.Is(err, service.ErrNotAuctionWinner):
		response.BusinessError(c, response.CodeNotAuctionWinner, err.Error())
	case errors.Is(err, service.ErrPaymentDeadlinePast):
		response.BusinessError(c, response.CodePaymentDeadlinePast, err.Error())
	case errors.Is(err, model.ErrSettlementNotReady):
		response.BusinessError(c, response.CodeSettlementCompleted, err.Error())
	case errors.Is(err, service.ErrInvalidPrice), errors.Is(err, service.ErrInvalidAuctionTime),
		errors.Is(err, service.ErrInvalidTopupAmount):
		response.ParamError(c, err.Error())
	default:
		response.ServerError(c, err.Error())
	}
}

// ============================================================
// 拍卖相关接口
// ============================================================

// CreateAuctionRequest 创建拍卖请求
type CreateAuctionRequest struct {
	ProductID  int64     `json:"product_id" binding:"required"`
	SellerID   int64     `json:"seller_id" binding:"required"`
	StartPrice int64     `json:"start_price" binding:"required,gt=0"`
	TickSize   int64     `json:"tick_size" binding:"required,gt=0"`
	StartTime  time.Time `json:"start_time" binding:"required"`
	EndTime    time.Time `json:"end_time" binding:"required"`
}

// CreateAuction 创建拍卖
// POST /api/v1/auction/create
func (h *Handler) CreateAuction(c *gin.Context) {
	var req CreateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	auction, err := h.auctionService.CreateAuction(c.Request.Context(), &service.CreateAuctionRequest{
		ProductID:  req.ProductID,
		SellerID:   req.SellerID,
		StartPrice: req.StartPrice,
		TickSize:   req.TickSize,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, auction)
}

// GetAuction 查询拍卖详情
// GET /api/v1/auction/detail?auction_id=xxx
func (h *Handler) GetAuction(c *gin.Context) {
	auctionID, err := strconv.ParseInt(c.Query("auction_id"), 10, 64)
	if err != nil {
		response.ParamError(c, "auction_id 参数错误")
		return
	}

	auction, err := h.auctionService.GetAuction(c.Request.Context(), auctionID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, auction)
}

// ListBids 查询拍卖出价记录
// GET /api/v1/auction/bids?auction_id=xxx&page=1&page_size=10
func (h *Handler) ListBids(c *gin.Context) {
	auctionID, err := strconv.ParseInt(c.Query("auction_id"), 10, 64)
	if err != nil {
		response.ParamError(c, "auction_id 参数错误")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	bids, total, err := h.auctionService.ListBids(c.Request.Context(), auctionID, page, pageSize)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, gin.H{
		"auction_id": auctionID,
		"list":       bids,
		"total":      total,
		"page":       page,
		"page_size":  pageSize,
	})
}

// WithdrawAuctionRequest 撤拍请求
type WithdrawAuctionRequest struct {
	AuctionID int64 `json:"auction_id" binding:"required"`
	SellerID  int64 `json:"seller_id" binding:"required"`
}

// WithdrawAuction 撤拍
// POST /api/v1/auction/withdraw
func (h *Handler) WithdrawAuction(c *gin.Context) {
	var req WithdrawAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	if err := h.auctionService.Withdraw(c.Request.Context(), req.AuctionID, req.SellerID); err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "撤拍成功"})
}

// ============================================================
// 出价相关接口
// ============================================================

// PlaceBidRequest 出价请求
type PlaceBidRequest struct {
	AuctionID int64 `json:"auction_id" binding:"required"`
	BidderID  int64 `json:"bidder_id" binding:"required"`
	Amount    int64 `json:"amount" binding:"required,gt=0"`
}

// PlaceBid 出价
// POST /api/v1/bid/place
func (h *Handler) PlaceBid(c *gin.Context) {
	var req PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	result, err := h.bidService.PlaceBid(c.Request.Context(), req.AuctionID, req.BidderID, req.Amount)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, result)
}

// ============================================================
// 钱包相关接口
// ============================================================

// TopupRequest 充值请求
type TopupRequest struct {
	MemberID int64 `json:"member_id" binding:"required"`
	Amount   int64 `json:"amount" binding:"required,gt=0"`
}

// Topup 充值
// POST /api/v1/wallet/topup
func (h *Handler) Topup(c *gin.Context) {
	var req TopupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	result, err := h.walletService.Topup(c.Request.Context(), req.MemberID, req.Amount)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, result)
}

// GetWallet 查询钱包余额
// GET /api/v1/wallet/balance?member_id=xxx
func (h *Handler) GetWallet(c *gin.Context) {
	memberID, err := strconv.ParseInt(c.Query("member_id"), 10, 64)
	if err != nil {
		response.ParamError(c, "member_id 参数错误")
		return
	}

	wallet, err := h.walletService.GetWallet(c.Request.Context(), memberID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, gin.H{
		"member_id":      wallet.MemberID,
		"balance":        wallet.Balance,
		"holding_amount": wallet.HoldingAmount,
		"available":      wallet.Available(),
	})
}

// ListTransactions 查询钱包流水
// GET /api/v1/wallet/transactions?member_id=xxx&page=1&page_size=10
func (h *Handler) ListTransactions(c *gin.Context) {
	memberID, err := strconv.ParseInt(c.Query("member_id"), 10, 64)
	if err != nil {
		response.ParamError(c, "member_id 参数错误")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	transactions, total, err := h.walletService.ListTransactions(c.Request.Context(), memberID, page, pageSize)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, gin.H{
		"list":      transactions,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// ============================================================
// 支付相关接口
// ============================================================

// FinalPaymentRequest 尾款支付请求
type FinalPaymentRequest struct {
	AuctionID int64 `json:"auction_id" binding:"required"`
	PayerID   int64 `json:"payer_id" binding:"required"`
}

// FinalPayment 尾款支付
// POST /api/v1/payment/final
func (h *Handler) FinalPayment(c *gin.Context) {
	var req FinalPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	result, err := h.paymentService.FinalPayment(c.Request.Context(), req.AuctionID, req.PayerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, result)
}

// RefundRequest 退款请求
type RefundRequest struct {
	AuctionID int64 `json:"auction_id" binding:"required"`
}

// Refund 退款（仅限结算单未打款的已付款订单）
// POST /api/v1/payment/refund
func (h *Handler) Refund(c *gin.Context) {
	var req RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	if err := h.paymentService.Refund(c.Request.Context(), req.AuctionID); err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "退款成功"})
}

// ============================================================
// 结算相关接口
// ============================================================

// ListSettlements 查询卖家结算单
// GET /api/v1/settlement/list?seller_id=xxx&status=READY&page=1&page_size=10
func (h *Handler) ListSettlements(c *gin.Context) {
	sellerID, err := strconv.ParseInt(c.Query("seller_id"), 10, 64)
	if err != nil {
		response.ParamError(c, "seller_id 参数错误")
		return
	}

	status := c.Query("status")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	settlements, total, err := h.distributionService.ListSettlements(c.Request.Context(), sellerID, status, page, pageSize)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, gin.H{
		"list":      settlements,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}
