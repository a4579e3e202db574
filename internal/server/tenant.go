package server

import (
	"net/http"
	"strings"

	tenantdomain "github.com/fleetops/rentdesk/internal/tenant/domain"
	"github.com/fleetops/rentdesk/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListTenants(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Name   string `form:"name"`
		Status string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.tenantSvc.List(c.Request.Context(), actorFrom(c), tenantdomain.ListTenantRequest{
		Page:   query.Pagination,
		Name:   strings.TrimSpace(query.Name),
		Status: strings.TrimSpace(query.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetTenantByID(c *gin.Context) {
	resp, err := s.tenantSvc.GetByID(c.Request.Context(), actorFrom(c), tenantdomain.GetTenantRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListBranches(c *gin.Context) {
	var query struct {
		pagination.Pagination
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.tenantSvc.ListBranches(c.Request.Context(), actorFrom(c), tenantdomain.ListBranchRequest{
		TenantID: strings.TrimSpace(c.Param("id")),
		Page:     query.Pagination,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isTenantValidationError(err error) bool {
	switch err {
	case tenantdomain.ErrInvalidID:
		return true
	default:
		return false
	}
}
