package complaints

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dimasprakoso/lokalive-backend/pkg/db/models"
	"github.com/dimasprakoso/lokalive-backend/pkg/enums"
	pkgerrors "github.com/dimasprakoso/lokalive-backend/pkg/errors"
	"github.com/dimasprakoso/lokalive-backend/pkg/outbox"
)

type stubComplaintsRepo struct {
	complaint *models.Complaint
	updates   map[string]any
}

func (s *stubComplaintsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubComplaintsRepo) FindComplaint(ctx context.Context, complaintID uuid.UUID) (*models.Complaint, error) {
	if s.complaint == nil || s.complaint.ID != complaintID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.complaint, nil
}

func (s *stubComplaintsRepo) ListComplaintsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Complaint, error) {
	panic("not implemented")
}

func (s *stubComplaintsRepo) UpdateComplaint(ctx context.Context, complaintID uuid.UUID, updates map[string]any) error {
	if s.complaint == nil || s.complaint.ID != complaintID {
		return gorm.ErrRecordNotFound
	}
	s.updates = updates
	return nil
}

type stubOutboxPublisher struct {
	events []outbox.DomainEvent
}

func (s *stubOutboxPublisher) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newComplaint(status enums.ComplaintStatus) *models.Complaint {
	return &models.Complaint{
		ID:          uuid.New(),
		OrderID:     uuid.New(),
		Subject:     "Barang rusak",
		Description: "Kemasan penyok saat diterima",
		Status:      status,
	}
}

func TestProcessPendingComplaint(t *testing.T) {
	repo := &stubComplaintsRepo{complaint: newComplaint(enums.ComplaintStatusPending)}
	pub := &stubOutboxPublisher{}
	svc, err := NewService(repo, stubTxRunner{}, pub)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	adminID := uuid.New()
	complaint, err := svc.Process(context.Background(), DecisionInput{
		ComplaintID: repo.complaint.ID,
		ActorInput:  ActorInput{ActorAdminID: adminID},
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if complaint.Status != enums.ComplaintStatusProcessing {
		t.Fatalf("expected processing, got %s", complaint.Status)
	}
	if complaint.HandledBy == nil || *complaint.HandledBy != adminID {
		t.Fatal("expected handler stamped")
	}
	if len(pub.events) != 1 || pub.events[0].EventType != enums.EventComplaintStatusChanged {
		t.Fatalf("expected complaint event, got %v", pub.events)
	}
}

func TestResolveFromPendingSkipsProcessing(t *testing.T) {
	repo := &stubComplaintsRepo{complaint: newComplaint(enums.ComplaintStatusPending)}
	svc, _ := NewService(repo, stubTxRunner{}, &stubOutboxPublisher{})

	complaint, err := svc.Resolve(context.Background(), DecisionInput{
		ComplaintID: repo.complaint.ID,
		Notes:       "refund dikirim",
		ActorInput:  ActorInput{ActorAdminID: uuid.New()},
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if complaint.Status != enums.ComplaintStatusResolved {
		t.Fatalf("expected resolved, got %s", complaint.Status)
	}
	if complaint.ResolvedAt == nil {
		t.Fatal("expected resolved_at stamped")
	}
	if complaint.ResolutionNotes == nil || *complaint.ResolutionNotes != "refund dikirim" {
		t.Fatal("expected resolution notes kept")
	}
}

func TestTerminalComplaintIsImmutable(t *testing.T) {
	for _, terminal := range []enums.ComplaintStatus{
		enums.ComplaintStatusResolved,
		enums.ComplaintStatusRejected,
	} {
		repo := &stubComplaintsRepo{complaint: newComplaint(terminal)}
		svc, _ := NewService(repo, stubTxRunner{}, &stubOutboxPublisher{})

		_, err := svc.Process(context.Background(), DecisionInput{
			ComplaintID: repo.complaint.ID,
			ActorInput:  ActorInput{ActorAdminID: uuid.New()},
		})
		var appErr *pkgerrors.Error
		if !errors.As(err, &appErr) || appErr.Code() != pkgerrors.CodeValidation {
			t.Fatalf("%s: expected validation error, got %v", terminal, err)
		}
		if repo.updates != nil {
			t.Fatalf("%s: expected no update", terminal)
		}
	}
}

func TestRejectFromProcessing(t *testing.T) {
	repo := &stubComplaintsRepo{complaint: newComplaint(enums.ComplaintStatusProcessing)}
	svc, _ := NewService(repo, stubTxRunner{}, &stubOutboxPublisher{})

	complaint, err := svc.Reject(context.Background(), DecisionInput{
		ComplaintID: repo.complaint.ID,
		Notes:       "bukti tidak cukup",
		ActorInput:  ActorInput{ActorAdminID: uuid.New()},
	})
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if complaint.Status != enums.ComplaintStatusRejected {
		t.Fatalf("expected rejected, got %s", complaint.Status)
	}
}

func TestDecisionRequiresActor(t *testing.T) {
	repo := &stubComplaintsRepo{complaint: newComplaint(enums.ComplaintStatusPending)}
	svc, _ := NewService(repo, stubTxRunner{}, &stubOutboxPublisher{})

	_, err := svc.Process(context.Background(), DecisionInput{ComplaintID: repo.complaint.ID})
	var appErr *pkgerrors.Error
	if !errors.As(err, &appErr) || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
