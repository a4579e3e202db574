package server

import (
	"net/http"
	"strings"

	invoicedomain "github.com/fleetops/rentdesk/internal/invoice/domain"
	"github.com/fleetops/rentdesk/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

type createInvoiceRequest struct {
	TenantID     string  `json:"tenant_id"`
	BookingID    string  `json:"booking_id"`
	CustomerID   string  `json:"customer_id"`
	Subtotal     float64 `json:"subtotal"`
	VATRate      float64 `json:"vat_rate"`
	CurrencyCode string  `json:"currency_code"`
}

func (s *Server) CreateInvoice(c *gin.Context) {
	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.Create(c.Request.Context(), actorFrom(c), invoicedomain.CreateInvoiceRequest{
		TenantID:     tenantScope(c, req.TenantID),
		BookingID:    strings.TrimSpace(req.BookingID),
		CustomerID:   strings.TrimSpace(req.CustomerID),
		Subtotal:     req.Subtotal,
		VATRate:      req.VATRate,
		CurrencyCode: strings.TrimSpace(req.CurrencyCode),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type editInvoiceRequest struct {
	Subtotal     *float64 `json:"subtotal"`
	VATRate      *float64 `json:"vat_rate"`
	CurrencyCode *string  `json:"currency_code"`
}

func (s *Server) EditInvoice(c *gin.Context) {
	var req editInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.Edit(c.Request.Context(), actorFrom(c), invoicedomain.EditInvoiceRequest{
		TenantID: tenantScope(c, c.Query("tenant_id")),
		ID:       strings.TrimSpace(c.Param("id")),
		Patch: invoicedomain.InvoicePatch{
			Subtotal:     req.Subtotal,
			VATRate:      req.VATRate,
			CurrencyCode: req.CurrencyCode,
		},
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) IssueInvoice(c *gin.Context) {
	resp, err := s.invoiceSvc.Issue(c.Request.Context(), actorFrom(c), invoicedomain.IssueInvoiceRequest{
		TenantID: tenantScope(c, c.Query("tenant_id")),
		ID:       strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CancelInvoice(c *gin.Context) {
	resp, err := s.invoiceSvc.Cancel(c.Request.Context(), actorFrom(c), invoicedomain.CancelInvoiceRequest{
		TenantID: tenantScope(c, c.Query("tenant_id")),
		ID:       strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListInvoices(c *gin.Context) {
	var query struct {
		pagination.Pagination
		TenantID  string `form:"tenant_id"`
		BookingID string `form:"booking_id"`
		Status    string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.List(c.Request.Context(), actorFrom(c), invoicedomain.ListInvoiceRequest{
		TenantID:  tenantScope(c, query.TenantID),
		BookingID: strings.TrimSpace(query.BookingID),
		Status:    strings.TrimSpace(query.Status),
		Page:      query.Pagination,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	resp, err := s.invoiceSvc.GetByID(c.Request.Context(), actorFrom(c), invoicedomain.GetInvoiceRequest{
		TenantID: tenantScope(c, c.Query("tenant_id")),
		ID:       strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isInvoiceValidationError(err error) bool {
	switch err {
	case invoicedomain.ErrInvalidID,
		invoicedomain.ErrInvalidTenant,
		invoicedomain.ErrInvalidBooking,
		invoicedomain.ErrInvalidCustomer,
		invoicedomain.ErrInvalidSubtotal,
		invoicedomain.ErrInvalidVATRate,
		invoicedomain.ErrInvalidStatus:
		return true
	default:
		return false
	}
}
