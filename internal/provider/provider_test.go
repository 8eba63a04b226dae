package provider_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"campus-notify/internal/domain"
	"campus-notify/internal/provider"
)

func TestFailure_TruncatesError(t *testing.T) {
	long := strings.Repeat("gateway timeout ", 60)
	result := provider.Failure(errors.New(long))

	assert.False(t, result.OK)
	assert.LessOrEqual(t, len([]rune(result.Error)), domain.MaxErrorLen)
}

func TestRegistry(t *testing.T) {
	r := provider.NewRegistry()
	wa := provider.NewWhatsAppProvider("http://example.invalid", "key", "+910000000000", time.Second, zap.NewNop())
	r.Register(domain.VariantWhatsApp, wa)

	got, ok := r.Get(domain.VariantWhatsApp)
	assert.True(t, ok)
	assert.Same(t, wa, got)

	_, ok = r.Get(domain.VariantSMS)
	assert.False(t, ok)
}

func waContent() *domain.NotificationContent {
	return &domain.NotificationContent{
		Variant:        domain.VariantWhatsApp,
		Recipient:      "+919876543210",
		WATemplateName: "exam_form_ack",
		WALanguage:     "en",
		WABodyValues:   pq.StringArray{"Asha", "Semester IV"},
	}
}

func TestWhatsAppProvider_Send(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	p := provider.NewWhatsAppProvider(srv.URL, "secret", "+910000000000", time.Second, zap.NewNop())
	result := p.Send(context.Background(), waContent())

	assert.True(t, result.OK)
	assert.Equal(t, "Basic secret", gotAuth)
	assert.Equal(t, "+919876543210", gotBody["fullPhoneNumber"])
	assert.Equal(t, "Template", gotBody["type"])

	tmpl := gotBody["template"].(map[string]any)
	assert.Equal(t, "exam_form_ack", tmpl["name"])
	assert.Equal(t, "en", tmpl["languageCode"])
	assert.Equal(t, []any{"Asha", "Semester IV"}, tmpl["bodyValues"])
}

func TestWhatsAppProvider_DevOnlyRedirect(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := provider.NewWhatsAppProvider(srv.URL, "secret", "+910000000000", time.Second, zap.NewNop())

	content := waContent()
	content.DevOnly = true
	result := p.Send(context.Background(), content)

	assert.True(t, result.OK)
	assert.Equal(t, "+910000000000", gotBody["fullPhoneNumber"])
}

func TestWhatsAppProvider_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message": "template not approved"}`))
	}))
	defer srv.Close()

	p := provider.NewWhatsAppProvider(srv.URL, "secret", "+910000000000", time.Second, zap.NewNop())
	result := p.Send(context.Background(), waContent())

	assert.False(t, result.OK)
	assert.Equal(t, http.StatusUnprocessableEntity, result.StatusCode)
	assert.Contains(t, result.Error, "template not approved")
}

func TestWhatsAppProvider_HeaderURL(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := provider.NewWhatsAppProvider(srv.URL, "secret", "+910000000000", time.Second, zap.NewNop())

	content := waContent()
	content.WAHeaderURL = "https://cdn.example.edu/marksheet.pdf"
	result := p.Send(context.Background(), content)

	assert.True(t, result.OK)
	tmpl := gotBody["template"].(map[string]any)
	assert.Equal(t, []any{"https://cdn.example.edu/marksheet.pdf"}, tmpl["headerValues"])
}
