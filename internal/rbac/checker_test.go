package rbac

import (
	"context"
	"testing"
)

func TestDefaultPolicy(t *testing.T) {
	c := NewChecker(nil)
	if !c.Has("employee", "quiz:take") {
		t.Fatalf("employee must be able to take quizzes")
	}
	if c.Has("employee", "results:view-all") {
		t.Fatalf("employee must not see other users' results")
	}
	if !c.Has("manager", "results:view-all") {
		t.Fatalf("manager must see all results")
	}
	if !c.Has("admin", "anything:at-all") {
		t.Fatalf("admin wildcard must match everything")
	}
	if c.Has("ghost", "quiz:take") {
		t.Fatalf("unknown role must have no permissions")
	}
}

func TestAnyAndWildcardPrefix(t *testing.T) {
	c := NewChecker(map[string][]string{"auditor": {"results:*"}})
	if !c.Has("auditor", "results:view-all") {
		t.Fatalf("prefix wildcard must match")
	}
	if c.Any("auditor", "quiz:take", "quiz:create") {
		t.Fatalf("Any must be false when no permission matches")
	}
	if !c.Any("auditor", "quiz:take", "results:view-own") {
		t.Fatalf("Any must be true when one permission matches")
	}
}

func TestCanReadsRoleFromContext(t *testing.T) {
	ctx := WithRole(context.Background(), "manager")
	if !Can(ctx, "results:view-all") {
		t.Fatalf("manager in context must pass view-all")
	}
	if Can(context.Background(), "results:view-all") {
		t.Fatalf("missing role must fail")
	}
}
