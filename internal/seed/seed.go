// Package seed installs the rows a fresh deployment needs before the
// first request: the permission catalog, the super-admin role, the
// default tenant and its staff roles.
package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	authzdomain "github.com/fleetops/rentdesk/internal/authz/domain"
	tenantdomain "github.com/fleetops/rentdesk/internal/tenant/domain"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

const (
	defaultTenantName = "Main"

	superAdminRoleName = "Super Admin"
	managerRoleName    = "Manager"
	agentRoleName      = "Agent"
)

// agentCodes is the subset of the catalog granted to the agent role.
// Agents run the counter: bookings, payments and customer records, but
// no destructive or billing operations.
var agentCodes = []string{
	authzdomain.CodeBookingView, authzdomain.CodeBookingCreate, authzdomain.CodeBookingUpdate,
	authzdomain.CodePaymentView, authzdomain.CodePaymentCreate,
	authzdomain.CodeInvoiceView,
	authzdomain.CodeCustomerView, authzdomain.CodeCustomerCreate, authzdomain.CodeCustomerUpdate,
	authzdomain.CodeVehicleView,
	authzdomain.CodeTenantView,
}

// EnsureDefaults seeds the permission catalog, the super-admin role, the
// default tenant and its manager and agent roles. Every step is
// idempotent so repeated startups are safe.
func EnsureDefaults(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		perms, err := ensurePermissionsTx(ctx, tx, node)
		if err != nil {
			return err
		}

		if _, err := ensureRoleTx(ctx, tx, node, nil, superAdminRoleName); err != nil {
			return err
		}

		tenant, err := ensureDefaultTenantTx(ctx, tx, node)
		if err != nil {
			return err
		}

		manager, err := ensureRoleTx(ctx, tx, node, &tenant.ID, managerRoleName)
		if err != nil {
			return err
		}
		if err := ensureGrantsTx(ctx, tx, manager.ID, perms, authzdomain.AllPermissionCodes()); err != nil {
			return err
		}

		agent, err := ensureRoleTx(ctx, tx, node, &tenant.ID, agentRoleName)
		if err != nil {
			return err
		}
		return ensureGrantsTx(ctx, tx, agent.ID, perms, agentCodes)
	})
}

// roleSlug derives the stored slug from a display name, e.g. "Super
// Admin" becomes "super_admin".
func roleSlug(name string) string {
	return strings.ReplaceAll(slug.Make(name), "-", "_")
}

func ensurePermissionsTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) (map[string]snowflake.ID, error) {
	perms := make(map[string]snowflake.ID)
	for _, code := range authzdomain.AllPermissionCodes() {
		var perm authzdomain.Permission
		err := tx.WithContext(ctx).Where("code = ?", code).First(&perm).Error
		if err == nil {
			perms[code] = perm.ID
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		perm = authzdomain.Permission{
			ID:   node.Generate(),
			Code: code,
			Name: permissionName(code),
		}
		if err := tx.WithContext(ctx).Create(&perm).Error; err != nil {
			return nil, err
		}
		perms[code] = perm.ID
	}
	return perms, nil
}

// permissionName turns "booking.view" into "Booking View".
func permissionName(code string) string {
	parts := strings.Split(code, ".")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

func ensureRoleTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, tenantID *snowflake.ID, name string) (authzdomain.Role, error) {
	var role authzdomain.Role
	q := tx.WithContext(ctx).Where("slug = ?", roleSlug(name))
	if tenantID == nil {
		q = q.Where("tenant_id IS NULL")
	} else {
		q = q.Where("tenant_id = ?", *tenantID)
	}
	err := q.First(&role).Error
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return role, err
	}
	now := time.Now().UTC()
	role = authzdomain.Role{
		ID:        node.Generate(),
		TenantID:  tenantID,
		Slug:      roleSlug(name),
		Name:      name,
		Status:    authzdomain.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(&role).Error; err != nil {
		return role, err
	}
	return role, nil
}

func ensureDefaultTenantTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) (tenantdomain.Tenant, error) {
	var tenant tenantdomain.Tenant
	err := tx.WithContext(ctx).Where("name = ?", defaultTenantName).First(&tenant).Error
	if err == nil {
		return tenant, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return tenant, err
	}
	now := time.Now().UTC()
	tenant = tenantdomain.Tenant{
		ID:        node.Generate(),
		Name:      defaultTenantName,
		Status:    tenantdomain.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(&tenant).Error; err != nil {
		return tenant, err
	}
	return tenant, nil
}

func ensureGrantsTx(ctx context.Context, tx *gorm.DB, roleID snowflake.ID, perms map[string]snowflake.ID, codes []string) error {
	for _, code := range codes {
		permID, ok := perms[code]
		if !ok {
			continue
		}
		var grant authzdomain.RolePermission
		err := tx.WithContext(ctx).
			Where("role_id = ? AND permission_id = ?", roleID, permID).
			First(&grant).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		grant = authzdomain.RolePermission{RoleID: roleID, PermissionID: permID}
		if err := tx.WithContext(ctx).Create(&grant).Error; err != nil {
			return err
		}
	}
	return nil
}
