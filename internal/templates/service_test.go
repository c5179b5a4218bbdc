package templates

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dimasprakoso/lokalive-backend/pkg/db/models"
	pkgerrors "github.com/dimasprakoso/lokalive-backend/pkg/errors"
)

type stubTemplatesRepo struct {
	templates map[uuid.UUID]*models.WhatsAppTemplate
	updates   map[string]any
}

func newStubTemplatesRepo(templates ...*models.WhatsAppTemplate) *stubTemplatesRepo {
	byID := make(map[uuid.UUID]*models.WhatsAppTemplate, len(templates))
	for _, template := range templates {
		byID[template.ID] = template
	}
	return &stubTemplatesRepo{templates: byID}
}

func (s *stubTemplatesRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubTemplatesRepo) CreateTemplate(ctx context.Context, template *models.WhatsAppTemplate) (*models.WhatsAppTemplate, error) {
	template.ID = uuid.New()
	s.templates[template.ID] = template
	return template, nil
}

func (s *stubTemplatesRepo) FindTemplate(ctx context.Context, templateID uuid.UUID) (*models.WhatsAppTemplate, error) {
	template, ok := s.templates[templateID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return template, nil
}

func (s *stubTemplatesRepo) FindTemplateByName(ctx context.Context, name string) (*models.WhatsAppTemplate, error) {
	for _, template := range s.templates {
		if template.Name == name {
			return template, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubTemplatesRepo) ListTemplates(ctx context.Context, activeOnly bool) ([]models.WhatsAppTemplate, error) {
	var out []models.WhatsAppTemplate
	for _, template := range s.templates {
		if activeOnly && !template.IsActive {
			continue
		}
		out = append(out, *template)
	}
	return out, nil
}

func (s *stubTemplatesRepo) UpdateTemplate(ctx context.Context, templateID uuid.UUID, updates map[string]any) error {
	if _, ok := s.templates[templateID]; !ok {
		return gorm.ErrRecordNotFound
	}
	s.updates = updates
	return nil
}

func (s *stubTemplatesRepo) DeleteTemplate(ctx context.Context, templateID uuid.UUID) error {
	if _, ok := s.templates[templateID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.templates, templateID)
	return nil
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	var appErr *pkgerrors.Error
	if !errors.As(err, &appErr) || appErr.Code() != code {
		t.Fatalf("expected %s, got %v", code, err)
	}
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	existing := &models.WhatsAppTemplate{
		ID:   uuid.New(),
		Name: "konfirmasi-pembayaran",
		Body: "Halo {{nama}}, pembayaran pesanan {{nomor}} sudah kami terima.",
	}
	repo := newStubTemplatesRepo(existing)
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.Create(context.Background(), CreateInput{
		Name:      "konfirmasi-pembayaran",
		Body:      "isi lain",
		CreatedBy: uuid.New(),
	})
	assertCode(t, err, pkgerrors.CodeConflict)
}

func TestCreateAndRender(t *testing.T) {
	repo := newStubTemplatesRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	created, err := svc.Create(context.Background(), CreateInput{
		Name:      "pesanan-dikirim",
		Body:      "Halo {{nama}}, pesanan {{nomor}} sudah dikirim via {{kurir}}.",
		CreatedBy: uuid.New(),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !created.IsActive {
		t.Fatal("new templates default to active")
	}

	rendered, err := svc.Render(context.Background(), created.ID, map[string]string{
		"nama":  "Budi",
		"nomor": "ORD-2024-0001",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "Halo Budi, pesanan ORD-2024-0001 sudah dikirim via {{kurir}}."
	if rendered != want {
		t.Fatalf("expected %q, got %q", want, rendered)
	}
}

func TestUpdateMissingTemplate(t *testing.T) {
	repo := newStubTemplatesRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	body := "isi baru"
	_, err = svc.Update(context.Background(), UpdateInput{
		TemplateID: uuid.New(),
		Body:       &body,
	})
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestUpdateDeactivates(t *testing.T) {
	existing := &models.WhatsAppTemplate{
		ID:       uuid.New(),
		Name:     "pesanan-selesai",
		Body:     "Pesanan {{nomor}} selesai. Terima kasih!",
		IsActive: true,
	}
	repo := newStubTemplatesRepo(existing)
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	inactive := false
	updated, err := svc.Update(context.Background(), UpdateInput{
		TemplateID: existing.ID,
		IsActive:   &inactive,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.IsActive {
		t.Fatal("expected template deactivated")
	}
	if repo.updates["is_active"] != false {
		t.Fatalf("expected is_active write, got %v", repo.updates)
	}
}
