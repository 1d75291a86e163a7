package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/villa_booking/internal/core/domain"
)

// CalendarCache holds merged blocked calendars for display. It is never
// consulted for hold or commit decisions. A nil roomID addresses the
// site-wide calendar. SetCalendar keeps the entry for at most maxAge when
// maxAge is positive, otherwise for the cache's own TTL.
type CalendarCache interface {
	GetCalendar(ctx context.Context, roomID uuid.UUID) ([]domain.DateRange, bool, error)
	SetCalendar(ctx context.Context, roomID uuid.UUID, ranges []domain.DateRange, maxAge time.Duration) error
	Invalidate(ctx context.Context, roomID uuid.UUID) error
}
