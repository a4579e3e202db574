package server

import (
	"net/http"
	"strings"

	vehicledomain "github.com/fleetops/rentdesk/internal/vehicle/domain"
	"github.com/fleetops/rentdesk/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

type createVehicleRequest struct {
	TenantID          string  `json:"tenant_id"`
	BranchID          string  `json:"branch_id"`
	PlateNumber       string  `json:"plate_number"`
	Make              string  `json:"make"`
	Model             string  `json:"model"`
	DailyRate         float64 `json:"daily_rate"`
	HourlyLateFeeRate float64 `json:"hourly_late_fee_rate"`
	DailyLateFeeRate  float64 `json:"daily_late_fee_rate"`
}

func (s *Server) CreateVehicle(c *gin.Context) {
	var req createVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.vehicleSvc.Create(c.Request.Context(), actorFrom(c), vehicledomain.CreateVehicleRequest{
		TenantID:          tenantScope(c, req.TenantID),
		BranchID:          strings.TrimSpace(req.BranchID),
		PlateNumber:       strings.TrimSpace(req.PlateNumber),
		Make:              strings.TrimSpace(req.Make),
		Model:             strings.TrimSpace(req.Model),
		DailyRate:         req.DailyRate,
		HourlyLateFeeRate: req.HourlyLateFeeRate,
		DailyLateFeeRate:  req.DailyLateFeeRate,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateVehicleRequest struct {
	BranchID          *string  `json:"branch_id"`
	PlateNumber       *string  `json:"plate_number"`
	Make              *string  `json:"make"`
	Model             *string  `json:"model"`
	DailyRate         *float64 `json:"daily_rate"`
	HourlyLateFeeRate *float64 `json:"hourly_late_fee_rate"`
	DailyLateFeeRate  *float64 `json:"daily_late_fee_rate"`
	Status            *string  `json:"status"`
}

func (s *Server) UpdateVehicle(c *gin.Context) {
	var req updateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.vehicleSvc.Update(c.Request.Context(), actorFrom(c), vehicledomain.UpdateVehicleRequest{
		TenantID: tenantScope(c, c.Query("tenant_id")),
		ID:       strings.TrimSpace(c.Param("id")),
		Patch: vehicledomain.VehiclePatch{
			BranchID:          req.BranchID,
			PlateNumber:       req.PlateNumber,
			Make:              req.Make,
			Model:             req.Model,
			DailyRate:         req.DailyRate,
			HourlyLateFeeRate: req.HourlyLateFeeRate,
			DailyLateFeeRate:  req.DailyLateFeeRate,
			Status:            req.Status,
		},
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListVehicles(c *gin.Context) {
	var query struct {
		pagination.Pagination
		TenantID string `form:"tenant_id"`
		BranchID string `form:"branch_id"`
		Search   string `form:"q"`
		Status   string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.vehicleSvc.List(c.Request.Context(), actorFrom(c), vehicledomain.ListVehicleRequest{
		TenantID: tenantScope(c, query.TenantID),
		BranchID: strings.TrimSpace(query.BranchID),
		Search:   strings.TrimSpace(query.Search),
		Status:   strings.TrimSpace(query.Status),
		Page:     query.Pagination,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetVehicleByID(c *gin.Context) {
	resp, err := s.vehicleSvc.GetByID(c.Request.Context(), actorFrom(c), vehicledomain.GetVehicleRequest{
		TenantID: tenantScope(c, c.Query("tenant_id")),
		ID:       strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteVehicle(c *gin.Context) {
	err := s.vehicleSvc.Delete(c.Request.Context(), actorFrom(c), vehicledomain.DeleteVehicleRequest{
		TenantID: tenantScope(c, c.Query("tenant_id")),
		ID:       strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func isVehicleValidationError(err error) bool {
	switch err {
	case vehicledomain.ErrInvalidID,
		vehicledomain.ErrInvalidTenant,
		vehicledomain.ErrInvalidBranch,
		vehicledomain.ErrInvalidPlate,
		vehicledomain.ErrInvalidRate,
		vehicledomain.ErrInvalidStatus:
		return true
	default:
		return false
	}
}
