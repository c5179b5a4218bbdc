package live

import (
	"context"
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
)

const maxCommentLength = 500

// CommentInput posts a chat line to a stream. AdminID is set when the author
// is a panel operator rather than a viewer.
type CommentInput struct {
	StreamID   uuid.UUID
	AuthorName string
	AdminID    *uuid.UUID
	Body       string
	IsPinned   bool
	ActorInput
}

// PostComment appends the comment and fans it out to viewers through the
// realtime topic.
func (s *service) PostComment(ctx context.Context, input CommentInput) (*models.LiveComment, error) {
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "comment body required")
	}
	if len(body) > maxCommentLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "comment too long")
	}
	if strings.TrimSpace(input.AuthorName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "author name required")
	}

	stream, err := s.GetStream(ctx, input.StreamID)
	if err != nil {
		return nil, err
	}
	if stream.Status != enums.LiveStreamStatusLive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stream is not live")
	}

	var comment *models.LiveComment
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		comment = &models.LiveComment{
			LiveStreamID: stream.ID,
			AuthorName:   input.AuthorName,
			AdminID:      input.AdminID,
			Body:         body,
			IsPinned:     input.IsPinned,
		}
		if _, err := repo.CreateComment(ctx, comment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create comment")
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventLiveCommentPosted,
			AggregateType: enums.AggregateLiveComment,
			AggregateID:   comment.ID,
			Actor:         buildActor(input.ActorInput),
			Data: payloads.LiveCommentPostedEvent{
				CommentID:  comment.ID,
				StreamID:   stream.ID,
				AuthorName: input.AuthorName,
				Body:       body,
				PostedAt:   time.Now().UTC(),
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *service) ListComments(ctx context.Context, streamID uuid.UUID, params pagination.Params) ([]models.LiveComment, string, error) {
	comments, nextCursor, err := s.repo.ListCommentsByStream(ctx, streamID, params)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list comments")
	}
	return comments, nextCursor, nil
}
