package notifications

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sergio-tacza/api/internal/config"
	"github.com/sergio-tacza/api/internal/models"
)

func testWhatsAppClient(cfg config.WhatsAppConfig) *WhatsAppClient {
	return NewWhatsAppClient(cfg, slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		raw    string
		prefix string
		want   string
	}{
		{"612 345 678", "34", "34612345678"},
		{"+34 612 345 678", "34", "34612345678"},
		{"34612345678", "34", "34612345678"},
		{"(612) 345-678", "34", "34612345678"},
		{"612345678", "", "612345678"},
	}
	for _, tc := range cases {
		got := NormalizePhone(tc.raw, tc.prefix)
		if got != tc.want {
			t.Fatalf("NormalizePhone(%q, %q) = %q, want %q", tc.raw, tc.prefix, got, tc.want)
		}
	}
}

func TestNormalizePhoneIdempotent(t *testing.T) {
	once := NormalizePhone("612 345 678", "34")
	twice := NormalizePhone(once, "34")
	if once != twice {
		t.Fatalf("normalization not idempotent: %q then %q", once, twice)
	}
}

func TestBuildReminderBody(t *testing.T) {
	start := time.Date(2025, 11, 17, 10, 40, 0, 0, time.UTC)
	appt := models.Appointment{Start: start}
	client := models.Client{Name: "Luis", Surname: "García"}
	service := models.Service{Name: "Corte de pelo"}

	body := buildReminderBody(appt, client, service)

	for _, want := range []string{"Luis García", "Corte de pelo", "17/11/2025", "10:40"} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q: %s", want, body)
		}
	}
}

func TestBuildReminderBodyFallbacks(t *testing.T) {
	body := buildReminderBody(models.Appointment{}, models.Client{}, models.Service{})

	for _, want := range []string{"cliente", "tu cita", "(sin fecha)", "(sin hora)"} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing fallback %q: %s", want, body)
		}
	}
}

func TestSendReminderDisabledSimulates(t *testing.T) {
	c := testWhatsAppClient(config.WhatsAppConfig{Enabled: false})

	outcome, err := c.SendReminder(context.Background(), models.Appointment{}, models.Client{Phone: "612345678"}, models.Service{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != OutcomeSimulated {
		t.Fatalf("expected simulated, got %s", outcome)
	}
}

func TestSendReminderMissingCredentialsSimulates(t *testing.T) {
	c := testWhatsAppClient(config.WhatsAppConfig{Enabled: true, SenderID: "12345"})

	outcome, err := c.SendReminder(context.Background(), models.Appointment{}, models.Client{Phone: "612345678"}, models.Service{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != OutcomeSimulated {
		t.Fatalf("expected simulated, got %s", outcome)
	}
}

func TestSendReminderNoPhoneFails(t *testing.T) {
	c := testWhatsAppClient(config.WhatsAppConfig{
		Enabled: true, SenderID: "12345", AccessToken: "token", APIVersion: "v20.0", CountryPrefix: "34",
	})

	outcome, err := c.SendReminder(context.Background(), models.Appointment{}, models.Client{ID: "c1"}, models.Service{})
	if err == nil {
		t.Fatal("expected error for empty phone")
	}
	if outcome != OutcomeFailed {
		t.Fatalf("expected failed, got %s", outcome)
	}
}

func TestSendReminderDelivered(t *testing.T) {
	var gotPath, gotAuth string
	var gotPayload whatsAppMessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotPayload)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.1"}]}`))
	}))
	defer srv.Close()

	c := testWhatsAppClient(config.WhatsAppConfig{
		Enabled: true, SenderID: "12345", AccessToken: "secret", APIVersion: "v20.0", CountryPrefix: "34",
	})
	c.endpoint = srv.URL

	start := time.Date(2025, 11, 17, 10, 40, 0, 0, time.UTC)
	outcome, err := c.SendReminder(context.Background(),
		models.Appointment{ID: "a1", Start: start},
		models.Client{Name: "Luis", Phone: "612 345 678"},
		models.Service{Name: "Corte de pelo"},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != OutcomeDelivered {
		t.Fatalf("expected delivered, got %s", outcome)
	}
	if gotPath != "/v20.0/12345/messages" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotPayload.MessagingProduct != "whatsapp" || gotPayload.Type != "text" {
		t.Fatalf("unexpected payload %+v", gotPayload)
	}
	if gotPayload.To != "34612345678" {
		t.Fatalf("expected normalized recipient, got %q", gotPayload.To)
	}
	if !strings.Contains(gotPayload.Text.Body, "17/11/2025") {
		t.Fatalf("expected formatted date in body: %s", gotPayload.Text.Body)
	}
}

func TestSendReminderAPIErrorFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid token"}}`))
	}))
	defer srv.Close()

	c := testWhatsAppClient(config.WhatsAppConfig{
		Enabled: true, SenderID: "12345", AccessToken: "expired", APIVersion: "v20.0", CountryPrefix: "34",
	})
	c.endpoint = srv.URL

	outcome, err := c.SendReminder(context.Background(), models.Appointment{}, models.Client{Phone: "612345678"}, models.Service{})
	if err == nil {
		t.Fatal("expected error on non-2xx response")
	}
	if outcome != OutcomeFailed {
		t.Fatalf("expected failed, got %s", outcome)
	}
	if !strings.Contains(err.Error(), "status=401") {
		t.Fatalf("expected status in error, got %v", err)
	}
}
