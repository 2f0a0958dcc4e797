package notify

import (
	"strings"

	"github.com/hamed0406/availwatch/internal/domain"
)

// DefaultClosingLine ends a report when the provider definition has no info line.
const DefaultClosingLine = "Check the provider's website for more information."

// Render produces the plain-text report. Alerting rules downstream match on
// these labels and their order, so keep them stable.
func Render(results domain.ResultSet, closing string) string {
	if closing == "" {
		closing = DefaultClosingLine
	}
	var b strings.Builder
	for _, r := range results {
		b.WriteString("server: " + r.Server.Name + "\n")
		b.WriteString("code: " + r.Server.Code + "\n")
		b.WriteString("zone: " + r.Zone.Code + "\n")
		b.WriteString("location: " + r.Zone.Location + "\n")
		b.WriteString("status: " + r.Status + "\n")
		b.WriteString("\n")
	}
	b.WriteString(closing + "\n")
	b.WriteString("\n")
	return b.String()
}
