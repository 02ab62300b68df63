package v1

import (
	"net/http"

	"event-staffing-backend/internal/delivery/http/response"
	"event-staffing-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

// WalletHandler serves the promoter wallet page.
type WalletHandler struct {
	walletUC  domain.WalletUsecase
	paymentUC domain.PaymentUsecase
}

func NewWalletHandler(promoter *gin.RouterGroup, walletUC domain.WalletUsecase, paymentUC domain.PaymentUsecase) {
	handler := &WalletHandler{walletUC: walletUC, paymentUC: paymentUC}

	wallet := promoter.Group("/wallet")
	{
		wallet.GET("", handler.Overview)
		wallet.GET("/transactions", handler.Transactions)
		wallet.GET("/payments", handler.Payments)
		wallet.GET("/payouts", handler.Payouts)
		wallet.POST("/payouts", handler.RequestPayout)
	}
}

// Overview godoc
// @Summary      Wallet page
// @Description  Balance, recent transactions, earnings and payout requests
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /wallet [get]
func (h *WalletHandler) Overview(c *gin.Context) {
	overview, err := h.walletUC.GetOverview(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Wallet retrieved", overview)
}

// Transactions godoc
// @Summary      Wallet transactions
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /wallet/transactions [get]
func (h *WalletHandler) Transactions(c *gin.Context) {
	txs, err := h.walletUC.ListTransactions(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Transactions retrieved", gin.H{"transactions": txs})
}

// Payments godoc
// @Summary      Payments received
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /wallet/payments [get]
func (h *WalletHandler) Payments(c *gin.Context) {
	payments, err := h.paymentUC.ListPromoterPayments(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Payments retrieved", gin.H{"payments": payments})
}

// Payouts godoc
// @Summary      Payout requests
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /wallet/payouts [get]
func (h *WalletHandler) Payouts(c *gin.Context) {
	payouts, err := h.paymentUC.ListPayoutRequests(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Payout requests retrieved", gin.H{"payouts": payouts})
}

// RequestPayout godoc
// @Summary      Request a payout
// @Description  Amount must be positive and within the available earnings
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        payout  body      domain.PayoutInput  true  "Payout"
// @Success      201     {object}  response.Response
// @Failure      400     {object}  response.Response
// @Router       /wallet/payouts [post]
func (h *WalletHandler) RequestPayout(c *gin.Context) {
	var input domain.PayoutInput
	if !bindJSON(c, &input) {
		return
	}
	payout, err := h.paymentUC.RequestPayout(c.Request.Context(), currentUserID(c), input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Payout request submitted", payout)
}
