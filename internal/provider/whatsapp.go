package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"campus-notify/internal/domain"
)

// WhatsAppProvider delivers templated messages through an HTTP messaging
// API (Interakt-style: template name + language + ordered body values).
type WhatsAppProvider struct {
	baseURL    string
	apiKey     string
	devPhone   string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewWhatsAppProvider(baseURL, apiKey, devPhone string, timeout time.Duration, logger *zap.Logger) *WhatsAppProvider {
	return &WhatsAppProvider{
		baseURL:  baseURL,
		apiKey:   apiKey,
		devPhone: devPhone,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

type waTemplate struct {
	Name         string   `json:"name"`
	LanguageCode string   `json:"languageCode"`
	HeaderValues []string `json:"headerValues,omitempty"`
	BodyValues   []string `json:"bodyValues"`
}

type waSendRequest struct {
	FullPhoneNumber string     `json:"fullPhoneNumber"`
	Type            string     `json:"type"`
	Template        waTemplate `json:"template"`
}

func (p *WhatsAppProvider) Send(ctx context.Context, content *domain.NotificationContent) Result {
	number := content.Recipient
	if content.DevOnly {
		number = p.devPhone
	}

	payload := waSendRequest{
		FullPhoneNumber: number,
		Type:            "Template",
		Template: waTemplate{
			Name:         content.WATemplateName,
			LanguageCode: content.WALanguage,
			BodyValues:   []string(content.WABodyValues),
		},
	}
	if content.WAHeaderURL != "" {
		payload.Template.HeaderValues = []string{content.WAHeaderURL}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Failure(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(body))
	if err != nil {
		return Failure(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return Failure(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return FailureStatus(resp.StatusCode,
			fmt.Errorf("whatsapp api returned %d: %s", resp.StatusCode, respBody))
	}

	p.logger.Debug("whatsapp message dispatched",
		zap.String("to", number),
		zap.String("template", content.WATemplateName),
		zap.Bool("dev_only", content.DevOnly))
	return Success()
}
