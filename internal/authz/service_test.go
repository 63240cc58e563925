package authz

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	return svc
}

func TestBuiltinRolesMatrix(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap should be idempotent: %v", err)
	}

	cases := []struct {
		role   string
		object string
		action string
		allow  bool
	}{
		{"support", "/api/v1/admin/orders", "GET", true},
		{"support", "/api/v1/admin/orders/12/status", "patch", true},
		{"support", "/api/v1/admin/orders/12/payment-status", "PATCH", false},
		{"support", "/api/v1/admin/products", "POST", false},
		{"support", "/api/v1/admin/discount-codes", "GET", false},
		{"admin", "/api/v1/admin/discount-codes/3", "DELETE", true},
		{"admin", "/api/v1/admin/orders/12/payment-status", "PATCH", true},
		{"customer", "/api/v1/admin/orders", "GET", false},
		{"", "/api/v1/admin/orders", "GET", false},
	}
	for _, tc := range cases {
		allow, err := svc.EnforceRole(tc.role, tc.object, tc.action)
		if err != nil {
			t.Fatalf("%s %s %s: enforce failed: %v", tc.role, tc.action, tc.object, err)
		}
		if allow != tc.allow {
			t.Fatalf("%s %s %s: want allow=%v got %v", tc.role, tc.action, tc.object, tc.allow, allow)
		}
	}
}

func TestGrantAndRevokeRolePolicy(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("merchandiser", "/admin/products/:id", "put"); err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	allow, err := svc.EnforceRole("merchandiser", "/api/v1/admin/products/8", "PUT")
	if err != nil || !allow {
		t.Fatalf("expected allow, got %v err=%v", allow, err)
	}

	policies, err := svc.GetRolePolicies("merchandiser")
	if err != nil {
		t.Fatalf("get policies failed: %v", err)
	}
	if len(policies) != 1 || policies[0].Subject != "role:merchandiser" || policies[0].Object != "/admin/products/:id" || policies[0].Action != "PUT" {
		t.Fatalf("unexpected policies: %+v", policies)
	}

	if err := svc.RevokeRolePolicy("merchandiser", "/admin/products/:id", "PUT"); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	allow, err = svc.EnforceRole("merchandiser", "/api/v1/admin/products/8", "PUT")
	if err != nil || allow {
		t.Fatalf("expected deny after revoke, got %v err=%v", allow, err)
	}
}

func TestInheritRoleAndListRoles(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("viewer", "/admin/orders", "GET"); err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	if err := svc.InheritRole("lead", "viewer"); err != nil {
		t.Fatalf("inherit failed: %v", err)
	}
	if err := svc.InheritRole("lead", "lead"); !errors.Is(err, ErrSelfInherit) {
		t.Fatalf("self inheritance should fail")
	}
	allow, err := svc.EnforceRole("lead", "/admin/orders", "GET")
	if err != nil || !allow {
		t.Fatalf("inherited policy should allow, got %v err=%v", allow, err)
	}
	roles, err := svc.ListRoles()
	if err != nil {
		t.Fatalf("list roles failed: %v", err)
	}
	if strings.Join(roles, ",") != "role:lead,role:viewer" {
		t.Fatalf("unexpected roles: %v", roles)
	}
}

func TestNormalizeObject(t *testing.T) {
	cases := map[string]string{
		"":                        "/",
		"admin/orders":            "/admin/orders",
		"/api/v1":                 "/",
		"/api/v1/admin/orders/12": "/admin/orders/12",
	}
	for input, want := range cases {
		if got := NormalizeObject(input); got != want {
			t.Fatalf("NormalizeObject(%q) want %q got %q", input, want, got)
		}
	}
}

func TestRejectsInvalidPolicyInput(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy(" ", "/admin/orders", "GET"); !errors.Is(err, ErrRoleRequired) {
		t.Fatalf("expected ErrRoleRequired, got %v", err)
	}
	if err := svc.GrantRolePolicy("viewer", "/admin/orders", ""); !errors.Is(err, ErrActionRequired) {
		t.Fatalf("expected ErrActionRequired, got %v", err)
	}
	if err := svc.RevokeRolePolicy("role:", "/admin/orders", "GET"); !errors.Is(err, ErrRoleRequired) {
		t.Fatalf("expected ErrRoleRequired for bare prefix, got %v", err)
	}

	var missing *Service
	if _, err := missing.Enforce("role:admin", "/admin/orders", "GET"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if _, err := missing.ListRoles(); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable from ListRoles, got %v", err)
	}
}
