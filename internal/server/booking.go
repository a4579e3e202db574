package server

import (
	"net/http"
	"strings"

	bookingdomain "github.com/fleetops/rentdesk/internal/booking/domain"
	"github.com/fleetops/rentdesk/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

type createBookingRequest struct {
	TenantID    string  `json:"tenant_id"`
	BranchID    string  `json:"branch_id"`
	VehicleID   string  `json:"vehicle_id"`
	CustomerID  string  `json:"customer_id"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Status      string  `json:"status"`
	TotalAmount float64 `json:"total_amount"`
	Notes       string  `json:"notes"`
}

func (s *Server) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	startDate, err := parseRequiredTime(req.StartDate)
	if err != nil {
		AbortWithError(c, newValidationError("start_date", "invalid_start_date", "invalid start_date"))
		return
	}
	endDate, err := parseRequiredTime(req.EndDate)
	if err != nil {
		AbortWithError(c, newValidationError("end_date", "invalid_end_date", "invalid end_date"))
		return
	}

	resp, err := s.bookingSvc.Create(c.Request.Context(), actorFrom(c), bookingdomain.CreateBookingRequest{
		TenantID:    tenantScope(c, req.TenantID),
		BranchID:    strings.TrimSpace(req.BranchID),
		VehicleID:   strings.TrimSpace(req.VehicleID),
		CustomerID:  strings.TrimSpace(req.CustomerID),
		StartDate:   startDate,
		EndDate:     endDate,
		Status:      strings.TrimSpace(req.Status),
		TotalAmount: req.TotalAmount,
		Notes:       req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateBookingRequest struct {
	BranchID    *string  `json:"branch_id"`
	StartDate   *string  `json:"start_date"`
	EndDate     *string  `json:"end_date"`
	Status      *string  `json:"status"`
	TotalAmount *float64 `json:"total_amount"`
	Notes       *string  `json:"notes"`
}

func (s *Server) UpdateBooking(c *gin.Context) {
	var req updateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	patch := bookingdomain.BookingPatch{
		BranchID:    req.BranchID,
		Status:      req.Status,
		TotalAmount: req.TotalAmount,
		Notes:       req.Notes,
	}
	if req.StartDate != nil {
		startDate, err := parseRequiredTime(*req.StartDate)
		if err != nil {
			AbortWithError(c, newValidationError("start_date", "invalid_start_date", "invalid start_date"))
			return
		}
		patch.StartDate = &startDate
	}
	if req.EndDate != nil {
		endDate, err := parseRequiredTime(*req.EndDate)
		if err != nil {
			AbortWithError(c, newValidationError("end_date", "invalid_end_date", "invalid end_date"))
			return
		}
		patch.EndDate = &endDate
	}

	resp, err := s.bookingSvc.Update(c.Request.Context(), actorFrom(c), bookingdomain.UpdateBookingRequest{
		TenantID: tenantScope(c, c.Query("tenant_id")),
		ID:       strings.TrimSpace(c.Param("id")),
		Patch:    patch,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListBookings(c *gin.Context) {
	var query struct {
		pagination.Pagination
		TenantID   string `form:"tenant_id"`
		BranchID   string `form:"branch_id"`
		VehicleID  string `form:"vehicle_id"`
		CustomerID string `form:"customer_id"`
		Status     string `form:"status"`
		Search     string `form:"q"`
		SortBy     string `form:"sort_by"`
		SortDesc   bool   `form:"sort_desc"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.bookingSvc.List(c.Request.Context(), actorFrom(c), bookingdomain.ListBookingRequest{
		TenantID:   tenantScope(c, query.TenantID),
		BranchID:   strings.TrimSpace(query.BranchID),
		VehicleID:  strings.TrimSpace(query.VehicleID),
		CustomerID: strings.TrimSpace(query.CustomerID),
		Status:     strings.TrimSpace(query.Status),
		Search:     strings.TrimSpace(query.Search),
		SortBy:     strings.TrimSpace(query.SortBy),
		SortDesc:   query.SortDesc,
		Page:       query.Pagination,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetBookingByID(c *gin.Context) {
	resp, err := s.bookingSvc.GetByID(c.Request.Context(), actorFrom(c), bookingdomain.GetBookingRequest{
		TenantID: tenantScope(c, c.Query("tenant_id")),
		ID:       strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type softDeleteBookingsRequest struct {
	TenantID string   `json:"tenant_id"`
	IDs      []string `json:"ids"`
}

func (s *Server) SoftDeleteBookings(c *gin.Context) {
	var req softDeleteBookingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.bookingSvc.SoftDelete(c.Request.Context(), actorFrom(c), bookingdomain.SoftDeleteBookingsRequest{
		TenantID: tenantScope(c, req.TenantID),
		IDs:      req.IDs,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isBookingValidationError(err error) bool {
	switch err {
	case bookingdomain.ErrInvalidID,
		bookingdomain.ErrInvalidTenant,
		bookingdomain.ErrInvalidBranch,
		bookingdomain.ErrInvalidVehicle,
		bookingdomain.ErrInvalidCustomer,
		bookingdomain.ErrInvalidDates,
		bookingdomain.ErrInvalidAmount,
		bookingdomain.ErrInvalidStatus:
		return true
	default:
		return false
	}
}
