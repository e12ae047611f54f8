package chat

import (
	"fmt"
	"strings"

	"github.com/medchat/docchat-backend/internal/entity"
)

const contextHeader = "Relevant information from uploaded documents:\n\n"

const systemPrompt = `You are a knowledgeable assistant that answers questions about the user's uploaded documents.
When the provided context contains relevant information, base your answer on it and be specific.
When the context is incomplete, say so directly but still give a helpful general answer.
Keep responses clear and structured.`

// historyPreviewLength bounds how much of each past turn goes into the
// prompt, so old long answers do not crowd out the current question.
const historyPreviewLength = 100

// buildContext assembles the prompt context from retrieved chunk texts.
func buildContext(chunkTexts []string) string {
	if len(chunkTexts) == 0 {
		return ""
	}

	labeled := make([]string, len(chunkTexts))
	for i, text := range chunkTexts {
		labeled[i] = "Source: " + text
	}

	return contextHeader + strings.Join(labeled, "\n\n")
}

// buildPrompt combines the current question with retrieved context and
// recent conversation history into the completion message list.
func buildPrompt(userMessage string, retrieved *entity.RetrievedContext, history []*entity.Message) []entity.ChatCompletionMessage {
	context := retrieved.Context
	if context == "" {
		context = "No specific document context available for this query."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Context from documents:\n%s\n", context)

	if len(history) > 0 {
		b.WriteString("\nRecent conversation:\n")
		// History arrives newest first, the prompt reads chronologically.
		for i := len(history) - 1; i >= 0; i-- {
			fmt.Fprintf(&b, "User: %s\n", truncate(history[i].UserMessage, historyPreviewLength))
			fmt.Fprintf(&b, "Assistant: %s\n", truncate(history[i].BotResponse, historyPreviewLength))
		}
	}

	fmt.Fprintf(&b, "\nCurrent user question: %s\n", userMessage)
	b.WriteString("\nPlease answer based on the available context.")

	return []entity.ChatCompletionMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: b.String()},
	}
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
