package openai

import (
	"testing"

	"github.com/lwmacct/251215-go-pkg-llmroute/pkg/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ═══════════════════════════════════════════════════════════════════════════
// BuildRequest 测试
// ═══════════════════════════════════════════════════════════════════════════

func TestAdapter_BuildRequest(t *testing.T) {
	adapter := NewAdapter()

	req := adapter.BuildRequest("gpt-4", llm.UserMessage("What is 6*7?"))

	assert.Equal(t, "gpt-4", req["model"])
	messages, ok := req["messages"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, messages, 1)
	assert.Equal(t, "user", messages[0]["role"])
	assert.Equal(t, "What is 6*7?", messages[0]["content"])
}

func TestConvertMessages_SystemInline(t *testing.T) {
	result := ConvertMessages([]llm.Message{
		{Role: llm.RoleSystem, Content: "You are helpful."},
		{Role: llm.RoleUser, Content: "Hi"},
	})

	require.Len(t, result, 2)
	assert.Equal(t, "system", result[0]["role"])
	assert.Equal(t, "user", result[1]["role"])
}

// ═══════════════════════════════════════════════════════════════════════════
// ExtractText 测试
// ═══════════════════════════════════════════════════════════════════════════

func TestAdapter_ExtractText(t *testing.T) {
	adapter := NewAdapter()

	t.Run("第一个 choice", func(t *testing.T) {
		text, err := adapter.ExtractText(map[string]any{
			"choices": []any{
				map[string]any{
					"index":         float64(0),
					"message":       map[string]any{"role": "assistant", "content": "42"},
					"finish_reason": "stop",
				},
				map[string]any{
					"message": map[string]any{"role": "assistant", "content": "ignored"},
				},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "42", text)
	})

	t.Run("content 为 null", func(t *testing.T) {
		text, err := adapter.ExtractText(map[string]any{
			"choices": []any{
				map[string]any{"message": map[string]any{"role": "assistant", "content": nil}},
			},
		})
		require.NoError(t, err)
		assert.Empty(t, text)
	})
}

func TestAdapter_ExtractText_Errors(t *testing.T) {
	adapter := NewAdapter()

	t.Run("choices 为空", func(t *testing.T) {
		_, err := adapter.ExtractText(map[string]any{"choices": []any{}})
		require.Error(t, err)
		assert.True(t, llm.IsResponseError(err))
		assert.Contains(t, err.Error(), "choices")
	})

	t.Run("缺少 choices", func(t *testing.T) {
		_, err := adapter.ExtractText(map[string]any{"object": "chat.completion"})
		assert.True(t, llm.IsResponseError(err))
	})

	t.Run("缺少 message", func(t *testing.T) {
		_, err := adapter.ExtractText(map[string]any{
			"choices": []any{map[string]any{"finish_reason": "content_filter"}},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "content_filter")
	})
}
