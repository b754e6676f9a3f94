package models

import (
	"context"
	"testing"

	"bitbucket.org/mmdatafocus/bms_backend/utils"
)

func reviewerCtx(userId int, isAdmin bool) context.Context {
	ctx := utils.SetUserIdInContext(context.Background(), userId)
	return utils.SetIsAdminInContext(ctx, isAdmin)
}

func TestCanReview_PendingByOtherUser(t *testing.T) {
	adj := StockAdjustment{Status: AdjustmentStatusPending, RequestedBy: 5}
	if err := adj.canReview(reviewerCtx(9, false)); err != nil {
		t.Fatalf("expected review allowed, got %v", err)
	}
}

func TestCanReview_AlreadyReviewed(t *testing.T) {
	for _, status := range []AdjustmentStatus{AdjustmentStatusApproved, AdjustmentStatusRejected} {
		adj := StockAdjustment{Status: status, RequestedBy: 5}
		if err := adj.canReview(reviewerCtx(9, false)); err == nil {
			t.Fatalf("expected error for status %q", status)
		}
	}
}

func TestCanReview_OwnRequest(t *testing.T) {
	adj := StockAdjustment{Status: AdjustmentStatusPending, RequestedBy: 5}
	if err := adj.canReview(reviewerCtx(5, false)); err == nil {
		t.Fatal("expected self-review to be rejected for non-admins")
	}
	if err := adj.canReview(reviewerCtx(5, true)); err != nil {
		t.Fatalf("expected admin self-review allowed, got %v", err)
	}
}

func TestCanReview_StrictMode(t *testing.T) {
	t.Setenv("STRICT_ADJUSTMENT_REVIEW", "true")
	adj := StockAdjustment{Status: AdjustmentStatusPending, RequestedBy: 5}
	if err := adj.canReview(reviewerCtx(5, true)); err == nil {
		t.Fatal("strict mode must reject self-review even for admins")
	}
}

func TestCanReview_MissingUser(t *testing.T) {
	adj := StockAdjustment{Status: AdjustmentStatusPending, RequestedBy: 5}
	if err := adj.canReview(context.Background()); err == nil {
		t.Fatal("expected error without user id in context")
	}
}
