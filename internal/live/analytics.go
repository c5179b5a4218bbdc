package live

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dimasprakoso/lokalive-backend/pkg/db/models"
	pkgerrors "github.com/dimasprakoso/lokalive-backend/pkg/errors"
)

// RecordSnapshot rolls the stream's current counters into a new analytics row.
// Money figures come from the live order table; the viewer count comes from
// the realtime counter, falling back to zero when unavailable.
func (s *service) RecordSnapshot(ctx context.Context, streamID uuid.UUID) (*models.LiveAnalyticsSnapshot, error) {
	stream, err := s.GetStream(ctx, streamID)
	if err != nil {
		return nil, err
	}

	viewerCount, err := s.viewers.StreamViewerCount(ctx, stream.ID.String())
	if err != nil {
		viewerCount = 0
		if s.logg != nil {
			s.logg.Warn(s.logg.WithStreamID(ctx, stream.ID.String()), "viewer count unavailable for snapshot")
		}
	}
	commentCount, err := s.repo.CountCommentsByStream(ctx, stream.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count comments")
	}
	totals, err := s.repo.LiveOrderTotals(ctx, stream.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregate live orders")
	}

	snapshot := &models.LiveAnalyticsSnapshot{
		LiveStreamID:  stream.ID,
		ViewerCount:   int(viewerCount),
		CommentCount:  int(commentCount),
		OrderCount:    int(totals.OrderCount),
		GrossRevenue:  totals.GrossRevenue,
		TotalDiscount: totals.TotalDiscount,
		CapturedAt:    time.Now().UTC(),
	}
	created, err := s.repo.CreateSnapshot(ctx, snapshot)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create snapshot")
	}
	return created, nil
}

func (s *service) ListSnapshots(ctx context.Context, streamID uuid.UUID) ([]models.LiveAnalyticsSnapshot, error) {
	snapshots, err := s.repo.ListSnapshotsByStream(ctx, streamID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list snapshots")
	}
	return snapshots, nil
}
