package rbac_test

import (
	"context"
	"testing"

	"github.com/quizdeck/quizdeck/internal/rbac"
)

func TestDefaultRoleGrants(t *testing.T) {
	c := rbac.NewChecker(nil)

	cases := []struct {
		role string
		perm string
		want bool
	}{
		{"user", "quiz:view", true},
		{"user", "exam:take", true},
		{"user", "exam:submit", true},
		{"user", "submission:view-own", true},
		{"user", "profile:update", true},
		{"user", "quiz:create", false},
		{"user", "users:list", false},
		{"user", "submission:view-all", false},
		{"admin", "quiz:create", true},
		{"admin", "users:list", true},
		{"admin", "anything:at-all", true},
		{"ghost", "quiz:view", false},
	}
	for _, tc := range cases {
		if got := c.Has(tc.role, tc.perm); got != tc.want {
			t.Errorf("Has(%q, %q) = %v, want %v", tc.role, tc.perm, got, tc.want)
		}
	}
}

func TestHasAnyChecksWholeRoleSet(t *testing.T) {
	c := rbac.NewChecker(nil)

	if !c.HasAny([]string{"user", "admin"}, "users:list") {
		t.Fatal("admin in the set should grant users:list")
	}
	if c.HasAny([]string{"user"}, "users:list") {
		t.Fatal("user alone must not grant users:list")
	}
	if c.HasAny(nil, "quiz:view") {
		t.Fatal("empty role set grants nothing")
	}
}

func TestWildcardPatterns(t *testing.T) {
	c := rbac.NewChecker(map[string][]string{
		"editor": {"quiz:*"},
	})
	if !c.Has("editor", "quiz:update") {
		t.Fatal("prefix wildcard should match")
	}
	if c.Has("editor", "question:update") {
		t.Fatal("prefix wildcard matched a different resource")
	}
}

func TestAnyAll(t *testing.T) {
	c := rbac.NewChecker(nil)
	if !c.Any("user", "users:list", "quiz:view") {
		t.Fatal("Any should pass via quiz:view")
	}
	if c.All("user", "quiz:view", "users:list") {
		t.Fatal("All should fail on users:list")
	}
	if !c.All("admin", "quiz:view", "users:list", "roles:assign") {
		t.Fatal("admin grants everything")
	}
}

func TestRolesRoundTripContext(t *testing.T) {
	ctx := rbac.WithRoles(context.Background(), []string{"user", "admin"})
	roles := rbac.RolesFromContext(ctx)
	if len(roles) != 2 || roles[0] != "user" || roles[1] != "admin" {
		t.Fatalf("roles = %v", roles)
	}
	if rbac.RolesFromContext(context.Background()) != nil {
		t.Fatal("background context should carry no roles")
	}
}
