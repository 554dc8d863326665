package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	CodeSuccess       = 0
	CodeParamError    = 400
	CodeUnauthorized  = 401
	CodeForbidden     = 403
	CodeNotFound      = 404
	CodeServerError   = 500
	CodeBusinessError = 1000
)

const (
	CodeAuctionNotFound      = 2001
	CodeAuctionNotInProgress = 2002
	CodeAuctionAlreadyEnded  = 2003
	CodeBidTooLow            = 2004
	CodeSelfOutbid           = 2005
	CodeSellerCannotBid      = 2006
	CodeOutsideBiddingWindow = 2007
	CodeWithdrawNotAllowed   = 2008

	CodeWalletNotFound      = 3001
	CodeBalanceNotEnough    = 3002
	CodeDepositNotFound     = 3003
	CodeOrderNotFound       = 3004
	CodeOrderStatusInvalid  = 3005
	CodeNotAuctionWinner    = 3006
	CodePaymentDeadlinePast = 3007
	CodeSettlementCompleted = 3008
)

type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: message,
	})
}

func ParamError(c *gin.Context, message string) {
	Error(c, CodeParamError, message)
}

func ServerError(c *gin.Context, message string) {
	Error(c, CodeServerError, message)
}

func BusinessError(c *gin.Context, code int, message string) {
	Error(c, code, message)
}
