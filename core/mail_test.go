package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/tadika/core"
	logsvc "github.com/trezcool/tadika/services/logger"
)

func TestParseEmailTemplates(t *testing.T) {
	logger := logsvc.NewRecorder()
	core.ParseEmailTemplates(core.NewTestConfig(), logger)
	assert.Empty(t, logger.Entries(), "every template must parse along with its base layout")

	msg := &core.EmailMessage{
		Subject:      "Welcome",
		TemplateName: "welcome",
		TemplateData: map[string]string{"FullName": "Nurul Huda", "Email": "nurul@test.test"},
	}
	require.NoError(t, msg.Render())
	assert.Contains(t, msg.TextContent, "Hello Nurul Huda")
	assert.Contains(t, msg.TextContent, "The Tadika team") // from the base layout
	assert.Contains(t, msg.HTMLContent, "nurul@test.test")
	assert.True(t, msg.HasContent())
}
