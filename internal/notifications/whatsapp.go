package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sergio-tacza/api/internal/config"
	"github.com/sergio-tacza/api/internal/models"
)

const defaultGraphEndpoint = "https://graph.facebook.com"

// Outcome is the tri-state result of a reminder dispatch attempt.
type Outcome int

const (
	OutcomeFailed Outcome = iota
	OutcomeSimulated
	OutcomeDelivered
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDelivered:
		return "delivered"
	case OutcomeSimulated:
		return "simulated"
	default:
		return "failed"
	}
}

// WhatsAppClient sends appointment reminders through the WhatsApp Cloud API,
// or simulates them when the channel is disabled or credentials are missing.
type WhatsAppClient struct {
	enabled       bool
	senderID      string
	accessToken   string
	apiVersion    string
	countryPrefix string
	endpoint      string
	httpClient    *http.Client
	log           *slog.Logger
}

func NewWhatsAppClient(cfg config.WhatsAppConfig, log *slog.Logger) *WhatsAppClient {
	return &WhatsAppClient{
		enabled:       cfg.Enabled,
		senderID:      strings.TrimSpace(cfg.SenderID),
		accessToken:   strings.TrimSpace(cfg.AccessToken),
		apiVersion:    cfg.APIVersion,
		countryPrefix: cfg.CountryPrefix,
		endpoint:      defaultGraphEndpoint,
		httpClient:    &http.Client{Timeout: 8 * time.Second},
		log:           log,
	}
}

// SendReminder builds the reminder message for the appointment and delivers
// it. It returns OutcomeSimulated without any outbound call when the channel
// is disabled or credentials are missing, and OutcomeFailed (with a reason)
// when the client has no usable phone or the API call does not return 2xx.
// Transport errors are converted to OutcomeFailed, never propagated.
func (c *WhatsAppClient) SendReminder(ctx context.Context, appt models.Appointment, client models.Client, service models.Service) (Outcome, error) {
	if !c.enabled {
		c.logSimulated("channel disabled", appt, client, service)
		return OutcomeSimulated, nil
	}
	if c.senderID == "" || c.accessToken == "" {
		c.logSimulated("missing credentials", appt, client, service)
		return OutcomeSimulated, nil
	}

	if strings.TrimSpace(client.Phone) == "" {
		return OutcomeFailed, fmt.Errorf("client %s has no phone number", client.ID)
	}

	to := NormalizePhone(client.Phone, c.countryPrefix)
	body := buildReminderBody(appt, client, service)

	payload := whatsAppMessageRequest{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             whatsAppText{Body: body},
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("whatsapp marshal payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/%s/messages", c.endpoint, c.apiVersion, c.senderID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return OutcomeFailed, fmt.Errorf("whatsapp create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("whatsapp request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return OutcomeFailed, fmt.Errorf("whatsapp send failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	return OutcomeDelivered, nil
}

func (c *WhatsAppClient) logSimulated(reason string, appt models.Appointment, client models.Client, service models.Service) {
	c.log.Info("whatsapp simulated: "+reason,
		slog.String("appointment_id", appt.ID),
		slog.String("to", client.Phone),
		slog.String("message", buildReminderBody(appt, client, service)),
	)
}

// NormalizePhone strips every non-digit character and prepends the country
// prefix unless the digits already start with it. Applying it twice yields
// the same result.
func NormalizePhone(raw, prefix string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	phone := digits.String()
	if prefix != "" && !strings.HasPrefix(phone, prefix) {
		phone = prefix + phone
	}
	return phone
}

func buildReminderBody(appt models.Appointment, client models.Client, service models.Service) string {
	name := client.Name
	if name == "" {
		name = "cliente"
	}
	if client.Surname != "" {
		name += " " + client.Surname
	}

	serviceName := service.Name
	if serviceName == "" {
		serviceName = "tu cita"
	}

	date := "(sin fecha)"
	hour := "(sin hora)"
	if !appt.Start.IsZero() {
		date = appt.Start.Format("02/01/2006")
		hour = appt.Start.Format("15:04")
	}

	return fmt.Sprintf(
		"Hola %s, te recordamos tu cita en TacBarber para %s el %s a las %s. Si no puedes asistir, avísanos respondiendo a este mensaje.",
		name, serviceName, date, hour,
	)
}

type whatsAppMessageRequest struct {
	MessagingProduct string       `json:"messaging_product"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Text             whatsAppText `json:"text"`
}

type whatsAppText struct {
	Body string `json:"body"`
}
