package controllers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dimasprakoso/lokalive-backend/internal/payments"
	"github.com/dimasprakoso/lokalive-backend/pkg/db/models"
	"github.com/dimasprakoso/lokalive-backend/pkg/logger"
)

type stubPaymentsService struct {
	rejectProofFn   func(ctx context.Context, input payments.ProofDecisionInput) (*models.PaymentProof, error)
	rejectPaymentFn func(ctx context.Context, input payments.PaymentDecisionInput) (*models.Payment, error)
}

func (s stubPaymentsService) VerifyProof(ctx context.Context, input payments.ProofDecisionInput) (*models.PaymentProof, error) {
	return &models.PaymentProof{ID: input.ProofID}, nil
}

func (s stubPaymentsService) RejectProof(ctx context.Context, input payments.ProofDecisionInput) (*models.PaymentProof, error) {
	if s.rejectProofFn != nil {
		return s.rejectProofFn(ctx, input)
	}
	return &models.PaymentProof{ID: input.ProofID}, nil
}

func (s stubPaymentsService) VerifyPayment(ctx context.Context, input payments.PaymentDecisionInput) (*models.Payment, error) {
	return &models.Payment{ID: input.PaymentID}, nil
}

func (s stubPaymentsService) RejectPayment(ctx context.Context, input payments.PaymentDecisionInput) (*models.Payment, error) {
	if s.rejectPaymentFn != nil {
		return s.rejectPaymentFn(ctx, input)
	}
	return &models.Payment{ID: input.PaymentID}, nil
}

func testControllerLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "controllers-test", Level: zerolog.Disabled, Output: io.Discard})
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	ctx := chi.NewRouteContext()
	ctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, ctx))
}

func TestRejectPaymentProofRequiresNotes(t *testing.T) {
	called := false
	svc := stubPaymentsService{
		rejectProofFn: func(ctx context.Context, input payments.ProofDecisionInput) (*models.PaymentProof, error) {
			called = true
			return &models.PaymentProof{ID: input.ProofID}, nil
		},
	}

	handler := RejectPaymentProof(svc, testControllerLogger())
	for _, body := range []string{"{}", `{"notes":"   "}`} {
		req := withURLParam(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)), "proofID", uuid.NewString())
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)

		if resp.Code != http.StatusUnprocessableEntity {
			t.Fatalf("body %s: expected 422 got %d", body, resp.Code)
		}
		if called {
			t.Fatalf("body %s: service called despite missing notes", body)
		}
	}
}

func TestRejectPaymentProofWithNotes(t *testing.T) {
	proofID := uuid.New()
	var gotNotes string
	svc := stubPaymentsService{
		rejectProofFn: func(ctx context.Context, input payments.ProofDecisionInput) (*models.PaymentProof, error) {
			gotNotes = input.Notes
			return &models.PaymentProof{ID: input.ProofID}, nil
		},
	}

	handler := RejectPaymentProof(svc, testControllerLogger())
	req := withURLParam(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"notes":"blurry transfer receipt"}`)), "proofID", proofID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if gotNotes != "blurry transfer receipt" {
		t.Fatalf("unexpected notes %q", gotNotes)
	}
}

func TestRejectPaymentRequiresNotes(t *testing.T) {
	called := false
	svc := stubPaymentsService{
		rejectPaymentFn: func(ctx context.Context, input payments.PaymentDecisionInput) (*models.Payment, error) {
			called = true
			return &models.Payment{ID: input.PaymentID}, nil
		},
	}

	handler := RejectPayment(svc, testControllerLogger())
	req := withURLParam(httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{}")), "paymentID", uuid.NewString())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
	if called {
		t.Fatalf("service called despite missing notes")
	}
}
