package services

import (
	"context"
	"testing"
	"time"

	"github.com/SAP-F-2025/submission-service/internal/models"
	"github.com/SAP-F-2025/submission-service/internal/repositories"
)

func TestNotificationService_ListForScopesAndOrders(t *testing.T) {
	repo := newMockRepository()
	svc := NewNotificationService(repo, nil, testLogger())
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i, n := range []*models.Notification{
		{Email: "a@example.com", Message: "older", CreatedAt: base},
		{Email: "a@example.com", Message: "newer", CreatedAt: base.Add(time.Minute)},
		{Email: "b@example.com", Message: "foreign", CreatedAt: base.Add(2 * time.Minute)},
	} {
		if err := repo.Notification().Create(ctx, nil, n); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	list, err := svc.ListFor(ctx, "a@example.com", repositories.NotificationFilters{})
	if err != nil {
		t.Fatal(err)
	}
	if list.Total != 2 {
		t.Fatalf("expected 2 notifications, got %d", list.Total)
	}
	if list.Notifications[0].Message != "newer" || list.Notifications[1].Message != "older" {
		t.Errorf("expected newest first, got %q then %q",
			list.Notifications[0].Message, list.Notifications[1].Message)
	}
	for _, n := range list.Notifications {
		if n.Email != "a@example.com" {
			t.Errorf("foreign notification leaked: %+v", n)
		}
	}
}
