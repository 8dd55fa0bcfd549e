package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateSubmissionCache invalidates all caches touched by a submission write.
// Flagging a submission also produces a notification, so the recipient's
// notification list goes stale together with the submission itself.
func InvalidateSubmissionCache(ctx context.Context, cm *CacheManager, submissionID uint, ownerEmail string) {
	SafeDelete(ctx, cm.Submission, fmt.Sprintf("id:%d", submissionID))

	SafeInvalidatePattern(ctx, cm.Submission, fmt.Sprintf("owner:%s:*", ownerEmail))
	SafeInvalidatePattern(ctx, cm.Submission, "list:*")
	SafeInvalidatePattern(ctx, cm.Notification, fmt.Sprintf("email:%s:*", ownerEmail))
}

// InvalidateUserCache invalidates the cached account entries after a
// credential or role change.
func InvalidateUserCache(ctx context.Context, cm *CacheManager, email string) {
	SafeDelete(ctx, cm.User,
		fmt.Sprintf("exists:%s", email),
		fmt.Sprintf("role:%s", email))
}
