package push

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/dimasprakoso/lokalive-backend/pkg/config"
	pkgerrors "github.com/dimasprakoso/lokalive-backend/pkg/errors"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(t *testing.T, rt roundTripFunc) *Client {
	t.Helper()
	client, err := NewClient(
		config.PushConfig{Endpoint: "http://push.test", APIKey: "secret-key"},
		WithHTTPClient(&http.Client{Transport: rt}),
	)
	if err != nil {
		t.Fatalf("client build failed: %v", err)
	}
	return client
}

func TestSendPostsNotification(t *testing.T) {
	var capturedURL string
	var capturedAuth string
	var capturedBody Notification

	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		capturedAuth = req.Header.Get("Authorization")
		if err := json.NewDecoder(req.Body).Decode(&capturedBody); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"ok":true}`)),
		}, nil
	})

	err := client.Send(context.Background(), Notification{
		Token: "device-token-1",
		Title: "Pesanan Dikirim",
		Body:  "Pesanan ORD-2026-0001 sedang dalam perjalanan",
		Data:  map[string]string{"order_number": "ORD-2026-0001"},
	})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}

	if capturedURL != "http://push.test/v1/notifications" {
		t.Fatalf("unexpected url %s", capturedURL)
	}
	if capturedAuth != "Bearer secret-key" {
		t.Fatalf("unexpected auth header %s", capturedAuth)
	}
	if capturedBody.Token != "device-token-1" {
		t.Fatalf("token not forwarded: %+v", capturedBody)
	}
}

func TestSendRejectsMissingToken(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		t.Fatalf("request must not be sent")
		return nil, nil
	})

	err := client.Send(context.Background(), Notification{Body: "halo"})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSendSurfacesGatewayFailure(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusBadGateway,
			Body:       io.NopCloser(strings.NewReader("upstream unavailable")),
		}, nil
	})

	err := client.Send(context.Background(), Notification{Token: "tok", Body: "halo"})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestNewClientRequiresEndpoint(t *testing.T) {
	if _, err := NewClient(config.PushConfig{}); err == nil {
		t.Fatalf("expected endpoint error")
	}
}
