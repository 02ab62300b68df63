package v1

import (
	"fmt"
	"net/http"
	"time"

	"event-staffing-backend/internal/delivery/http/response"
	"event-staffing-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

// PaymentHandler serves the company payments page.
type PaymentHandler struct {
	paymentUC domain.PaymentUsecase
}

func NewPaymentHandler(company *gin.RouterGroup, paymentUC domain.PaymentUsecase) {
	handler := &PaymentHandler{paymentUC: paymentUC}

	payments := company.Group("/payments")
	{
		payments.GET("", handler.List)
		payments.POST("", handler.Create)
		payments.GET("/export", handler.Export)
		payments.POST("/:id/process", handler.RequestProcessing)
	}
}

// List godoc
// @Summary      Payments page
// @Tags         payments
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	payments, err := h.paymentUC.ListCompanyPayments(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Payments retrieved", gin.H{"payments": payments})
}

// Create godoc
// @Summary      Record a payment
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        payment  body      domain.PaymentInput  true  "Payment"
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	var input domain.PaymentInput
	if !bindJSON(c, &input) {
		return
	}
	payment, err := h.paymentUC.CreatePayment(c.Request.Context(), currentUserID(c), input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Payment created successfully", payment)
}

// RequestProcessing godoc
// @Summary      Process a payment
// @Description  Moves a pending payment to processing
// @Tags         payments
// @Produce      json
// @Param        id   path      string  true  "Payment ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /payments/{id}/process [post]
func (h *PaymentHandler) RequestProcessing(c *gin.Context) {
	if err := h.paymentUC.RequestProcessing(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Payment is being processed", gin.H{"status": domain.PaymentStatusProcessing})
}

// Export godoc
// @Summary      Export payments
// @Tags         payments
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet,text/csv
// @Param        format  query  string  false  "xlsx or csv"  default(xlsx)
// @Success      200
// @Failure      400  {object}  response.Response
// @Router       /payments/export [get]
func (h *PaymentHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "xlsx")
	data, contentType, err := h.paymentUC.ExportCompanyPayments(c.Request.Context(), currentUserID(c), format)
	if err != nil {
		c.Error(err)
		return
	}

	filename := fmt.Sprintf("payments-%s.%s", time.Now().Format("2006-01-02"), format)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentType, data)
}
