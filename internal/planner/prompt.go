package planner

import (
	"fmt"
	"strings"

	"github.com/abhisek/guidekit/internal/guide"
)

// truncationMarker is appended when a record's output exceeds the
// per-record character budget.
const truncationMarker = "\n...[truncated]..."

// formatRecords renders the records into one prompt body. Each record's
// system output is truncated at maxOutputChars so prompt size stays
// bounded without summarization.
func formatRecords(records []guide.LearningRecord, maxOutputChars int) string {
	var b strings.Builder

	for i, record := range records {
		output := record.Output
		if maxOutputChars > 0 && len(output) > maxOutputChars {
			output = output[:maxOutputChars] + truncationMarker
		}

		fmt.Fprintf(&b, "### Record %d [%s]\n", i+1, strings.ToUpper(record.Type))
		fmt.Fprintf(&b, "**Title**: %s\n\n", record.Title)
		b.WriteString("**User Question/Input**:\n")
		b.WriteString(record.UserQuery)
		b.WriteString("\n\n**System Output**:\n")
		b.WriteString(output)
		b.WriteString("\n---\n")
	}

	return b.String()
}
