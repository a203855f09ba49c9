package openai

import (
	"bytes"
	"fmt"
	"text/template"
	"time"

	"github.com/garyjia/invoice-assistant/internal/tools"
)

const systemTemplate = `You are an invoice assistant for a small business using QuickBooks Online.
Today is {{.Today}}. Answer questions about the user's invoices using only data returned by the tools.
Available tools:
{{range .Tools}}- {{.Name}}: {{.Description}}
{{end}}
Quote invoice numbers exactly as DocNumber appears. Format amounts in US dollars.
If a tool reports an error, explain briefly without repeating technical details.`

var systemPrompt = template.Must(template.New("system").Parse(systemTemplate))

func renderSystemPrompt(defs []tools.Definition, now time.Time) (string, error) {
	var buf bytes.Buffer
	err := systemPrompt.Execute(&buf, struct {
		Today string
		Tools []tools.Definition
	}{
		Today: now.Format("January 2, 2006"),
		Tools: defs,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render system prompt: %w", err)
	}
	return buf.String(), nil
}
