package render_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"campus-notify/internal/domain"
	"campus-notify/internal/service/render"
)

func TestRender(t *testing.T) {
	data, err := domain.TemplateDataFromJSON(json.RawMessage(`{
		"student": {"name": "Asha", "roll": 42},
		"exam": {"name": "Semester IV"}
	}`))
	assert.NoError(t, err)

	logger := zap.NewNop()

	out := render.Render("Dear {{student.name}}, your {{exam.name}} form (roll {{ student.roll }}) is in.", data, logger)
	assert.Equal(t, "Dear Asha, your Semester IV form (roll 42) is in.", out)
}

func TestRender_UnresolvedPlaceholderIsEmpty(t *testing.T) {
	data, _ := domain.TemplateDataFromJSON(json.RawMessage(`{"name": "Asha"}`))

	out := render.Render("Hello {{name}}, fee due: {{fee.amount}}", data, zap.NewNop())
	assert.Equal(t, "Hello Asha, fee due: ", out)
}

func TestRender_NoPlaceholders(t *testing.T) {
	data, _ := domain.TemplateDataFromJSON(nil)
	assert.Equal(t, "plain text", render.Render("plain text", data, zap.NewNop()))
}
