package session

import (
	"fmt"
	"strings"

	"github.com/medchat/docchat-backend/internal/entity"
)

// renderTranscript produces the plain-text transcript fed to a formatter.
// The repository returns messages newest first, the transcript reads
// chronologically.
func renderTranscript(session *entity.Session, messages []*entity.Message) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Session %s\n", session.ID)
	fmt.Fprintf(&b, "Started: %s\n\n", session.CreatedAt.Format("2006-01-02 15:04:05"))

	if len(messages) == 0 {
		b.WriteString("No messages in this session.\n")
		return b.String()
	}

	for i := len(messages) - 1; i >= 0; i-- {
		msg := messages[i]
		fmt.Fprintf(&b, "[%s]\n", msg.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(&b, "User: %s\n", msg.UserMessage)
		fmt.Fprintf(&b, "Assistant: %s\n\n", msg.BotResponse)
	}

	return b.String()
}
