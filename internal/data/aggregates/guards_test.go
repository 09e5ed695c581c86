package aggregates

import (
	"context"
	"testing"

	"github.com/google/uuid"

	domainagg "github.com/yungbote/amelfit-backend/internal/domain/aggregates"
	"github.com/yungbote/amelfit-backend/internal/platform/dbctx"
)

func TestRequireCASSuccess(t *testing.T) {
	if err := RequireCASSuccess(true, "ok"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	err := MapError("op", RequireCASSuccess(false, "stale"))
	if !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("expected conflict code, got %v", err)
	}
}

func TestRequireNonNegative(t *testing.T) {
	if err := RequireNonNegative(map[string]int{"steps": 0, "duration_minutes": 12}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	err := MapError("op", RequireNonNegative(map[string]int{"steps": -1}))
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestUpdateByVersionRejectsBadInput(t *testing.T) {
	g := NewCASGuard(nil)
	dbc := dbctx.Context{Ctx: context.Background()}
	if _, err := g.UpdateByVersion(dbc, "user_stats", "user_id", uuid.New(), 0, nil); err == nil {
		t.Fatalf("expected error without a db")
	}
}

func TestSplitOp(t *testing.T) {
	agg, op := splitOp("Training.UserStats.CompleteSession")
	if agg != "Training.UserStats" || op != "CompleteSession" {
		t.Fatalf("splitOp: got %q %q", agg, op)
	}
	agg, op = splitOp("plain")
	if agg != "plain" || op != "plain" {
		t.Fatalf("splitOp(plain): got %q %q", agg, op)
	}
}
