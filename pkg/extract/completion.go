package extract

import (
	"context"

	"github.com/openai/openai-go"
)

// CompletionText pulls the assistant message text out of a chat completion.
// It returns false when the completion carries no usable content.
func CompletionText(completion *openai.ChatCompletion) (string, bool) {
	if completion == nil || len(completion.Choices) == 0 {
		return "", false
	}
	content := completion.Choices[0].Message.Content
	if content == "" {
		return "", false
	}
	return content, true
}

// ExtractCompletion runs the pipeline directly on a chat completion. A
// completion without content is treated as empty input.
func (e *Extractor) ExtractCompletion(ctx context.Context, schemaName string, completion *openai.ChatCompletion, inputs map[string]string) *Result {
	text, _ := CompletionText(completion)
	return e.Extract(ctx, schemaName, text, inputs)
}
