package server

import (
	"net/http"
	"strings"

	paymentdomain "github.com/fleetops/rentdesk/internal/payment/domain"
	"github.com/fleetops/rentdesk/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

type recordPaymentRequest struct {
	TenantID      string  `json:"tenant_id"`
	BookingID     string  `json:"booking_id"`
	CustomerID    string  `json:"customer_id"`
	Amount        float64 `json:"amount"`
	Method        string  `json:"method"`
	IsDeposit     bool    `json:"is_deposit"`
	PartialAmount float64 `json:"partial_amount"`
}

func (s *Server) RecordPayment(c *gin.Context) {
	var req recordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.paymentSvc.Record(c.Request.Context(), actorFrom(c), paymentdomain.RecordPaymentRequest{
		TenantID:      tenantScope(c, req.TenantID),
		BookingID:     strings.TrimSpace(req.BookingID),
		CustomerID:    strings.TrimSpace(req.CustomerID),
		Amount:        req.Amount,
		Method:        strings.TrimSpace(req.Method),
		IsDeposit:     req.IsDeposit,
		PartialAmount: req.PartialAmount,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListPayments(c *gin.Context) {
	var query struct {
		pagination.Pagination
		TenantID  string `form:"tenant_id"`
		BookingID string `form:"booking_id"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.paymentSvc.List(c.Request.Context(), actorFrom(c), paymentdomain.ListPaymentRequest{
		TenantID:  tenantScope(c, query.TenantID),
		BookingID: strings.TrimSpace(query.BookingID),
		Page:      query.Pagination,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetPaymentByID(c *gin.Context) {
	resp, err := s.paymentSvc.GetByID(c.Request.Context(), actorFrom(c), paymentdomain.GetPaymentRequest{
		TenantID: tenantScope(c, c.Query("tenant_id")),
		ID:       strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isPaymentValidationError(err error) bool {
	switch err {
	case paymentdomain.ErrInvalidID,
		paymentdomain.ErrInvalidTenant,
		paymentdomain.ErrInvalidBooking,
		paymentdomain.ErrInvalidCustomer,
		paymentdomain.ErrInvalidAmount,
		paymentdomain.ErrInvalidMethod:
		return true
	default:
		return false
	}
}
