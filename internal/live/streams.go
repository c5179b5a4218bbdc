package live

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dimasprakoso/lokalive-backend/pkg/db/models"
	"github.com/dimasprakoso/lokalive-backend/pkg/enums"
	pkgerrors "github.com/dimasprakoso/lokalive-backend/pkg/errors"
	"github.com/dimasprakoso/lokalive-backend/pkg/outbox"
	"github.com/dimasprakoso/lokalive-backend/pkg/outbox/payloads"
	"github.com/dimasprakoso/lokalive-backend/pkg/pagination"
	"github.com/dimasprakoso/lokalive-backend/pkg/video"
)

// CreateStreamInput schedules a new live session.
type CreateStreamInput struct {
	Title       string
	Description *string
	ScheduledAt *time.Time
	ActorInput
}

// StreamLifecycleInput starts or ends a stream.
type StreamLifecycleInput struct {
	StreamID uuid.UUID
	ActorInput
}

// StreamSession is the host's view of a started stream: the row plus the
// publish-capable room token.
type StreamSession struct {
	Stream    *models.LiveStream `json:"stream"`
	RoomToken string             `json:"room_token"`
}

// PinInput pins or unpins a product on a stream.
type PinInput struct {
	StreamID  uuid.UUID
	ProductID uuid.UUID
	Position  int
	ActorInput
}

// ViewerTokenInput requests a subscribe-only room token for a viewer.
type ViewerTokenInput struct {
	StreamID uuid.UUID
	Identity string
}

// ViewerSession carries the viewer token and the post-join viewer count.
type ViewerSession struct {
	RoomToken   string `json:"room_token"`
	ViewerCount int64  `json:"viewer_count"`
}

func (s *service) CreateStream(ctx context.Context, input CreateStreamInput) (*models.LiveStream, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stream title required")
	}
	if input.ActorAdminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "host admin required")
	}

	stream := &models.LiveStream{
		Title:       input.Title,
		Description: input.Description,
		RoomID:      fmt.Sprintf("live-%s", uuid.NewString()),
		HostAdminID: input.ActorAdminID,
		Status:      enums.LiveStreamStatusScheduled,
		ScheduledAt: input.ScheduledAt,
	}
	created, err := s.repo.CreateStream(ctx, stream)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create stream")
	}
	return created, nil
}

func (s *service) GetStream(ctx context.Context, streamID uuid.UUID) (*models.LiveStream, error) {
	stream, err := s.repo.FindStream(ctx, streamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "stream not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find stream")
	}
	return stream, nil
}

func (s *service) ListStreams(ctx context.Context, params pagination.Params, filters StreamFilters) (*StreamList, error) {
	list, err := s.repo.ListStreams(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list streams")
	}
	return list, nil
}

// StartStream moves a scheduled stream live, resets the viewer counter, and
// issues the host's publish token.
func (s *service) StartStream(ctx context.Context, input StreamLifecycleInput) (*StreamSession, error) {
	var stream *models.LiveStream
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		var err error
		stream, err = repo.FindStream(ctx, input.StreamID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "stream not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find stream")
		}
		if stream.Status != enums.LiveStreamStatusScheduled {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("stream in %s cannot start", stream.Status))
		}

		now := time.Now().UTC()
		if err := repo.UpdateStream(ctx, stream.ID, map[string]any{
			"status":     enums.LiveStreamStatusLive,
			"started_at": now,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "start stream")
		}
		stream.Status = enums.LiveStreamStatusLive
		stream.StartedAt = &now

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventLiveStreamStarted,
			AggregateType: enums.AggregateLiveStream,
			AggregateID:   stream.ID,
			Actor:         buildActor(input.ActorInput),
			Data: payloads.LiveStreamLifecycleEvent{
				StreamID:    stream.ID,
				RoomID:      stream.RoomID,
				HostAdminID: stream.HostAdminID,
				Status:      stream.Status,
				StartedAt:   stream.StartedAt,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	if err := s.viewers.ResetStreamViewers(ctx, stream.ID.String()); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithStreamID(ctx, stream.ID.String()), "viewer counter reset failed")
	}

	token, err := video.MintRoomToken(s.videoCfg, time.Now(), stream.RoomID, stream.HostAdminID.String(), true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint host room token")
	}
	return &StreamSession{Stream: stream, RoomToken: token}, nil
}

// EndStream closes a live stream, folding the final viewer peak into the row.
func (s *service) EndStream(ctx context.Context, input StreamLifecycleInput) (*models.LiveStream, error) {
	currentViewers, viewerErr := s.viewers.StreamViewerCount(ctx, input.StreamID.String())

	var stream *models.LiveStream
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		var err error
		stream, err = repo.FindStream(ctx, input.StreamID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "stream not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find stream")
		}
		if stream.Status != enums.LiveStreamStatusLive {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("stream in %s cannot end", stream.Status))
		}

		now := time.Now().UTC()
		updates := map[string]any{
			"status":   enums.LiveStreamStatusEnded,
			"ended_at": now,
		}
		if viewerErr == nil && int(currentViewers) > stream.PeakViewerCount {
			updates["peak_viewer_count"] = currentViewers
			stream.PeakViewerCount = int(currentViewers)
		}
		if err := repo.UpdateStream(ctx, stream.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "end stream")
		}
		stream.Status = enums.LiveStreamStatusEnded
		stream.EndedAt = &now

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventLiveStreamEnded,
			AggregateType: enums.AggregateLiveStream,
			AggregateID:   stream.ID,
			Actor:         buildActor(input.ActorInput),
			Data: payloads.LiveStreamLifecycleEvent{
				StreamID:        stream.ID,
				RoomID:          stream.RoomID,
				HostAdminID:     stream.HostAdminID,
				Status:          stream.Status,
				StartedAt:       stream.StartedAt,
				EndedAt:         stream.EndedAt,
				PeakViewerCount: stream.PeakViewerCount,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	if err := s.viewers.ResetStreamViewers(ctx, stream.ID.String()); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithStreamID(ctx, stream.ID.String()), "viewer counter reset failed")
	}
	return stream, nil
}

func (s *service) PinProduct(ctx context.Context, input PinInput) error {
	if _, err := s.GetStream(ctx, input.StreamID); err != nil {
		return err
	}
	err := s.repo.CreatePin(ctx, &models.LiveStreamProduct{
		LiveStreamID: input.StreamID,
		ProductID:    input.ProductID,
		PinnedAt:     time.Now().UTC(),
		Position:     input.Position,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "pin product")
	}
	return nil
}

func (s *service) UnpinProduct(ctx context.Context, input PinInput) error {
	err := s.repo.DeletePin(ctx, input.StreamID, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "pin not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unpin product")
	}
	return nil
}

// IssueViewerToken joins the viewer to the counter and returns a
// subscribe-only room token.
func (s *service) IssueViewerToken(ctx context.Context, input ViewerTokenInput) (*ViewerSession, error) {
	if strings.TrimSpace(input.Identity) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "viewer identity required")
	}
	stream, err := s.GetStream(ctx, input.StreamID)
	if err != nil {
		return nil, err
	}
	if stream.Status != enums.LiveStreamStatusLive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stream is not live")
	}

	count, err := s.viewers.JoinStream(ctx, stream.ID.String())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "join viewer counter")
	}
	if int(count) > stream.PeakViewerCount {
		if err := s.repo.UpdateStream(ctx, stream.ID, map[string]any{"peak_viewer_count": count}); err != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithStreamID(ctx, stream.ID.String()), "peak viewer update failed")
		}
	}

	token, err := video.MintRoomToken(s.videoCfg, time.Now(), stream.RoomID, input.Identity, false)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint viewer room token")
	}
	return &ViewerSession{RoomToken: token, ViewerCount: count}, nil
}
