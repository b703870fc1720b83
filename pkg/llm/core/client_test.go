package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lwmacct/251215-go-pkg-llmroute/pkg/llm"
)

// ═══════════════════════════════════════════════════════════════════════════
// Mock 实现
// ═══════════════════════════════════════════════════════════════════════════

// mockConfig Mock 配置实现
type mockConfig struct {
	apiKey       string
	baseURL      string
	model        string
	providerName string
}

func (m *mockConfig) Validate() error {
	if m.apiKey == "" {
		return llm.NewConfigError("API key is required", nil)
	}
	return nil
}

func (m *mockConfig) GetDefaults() (string, string, time.Duration) {
	baseURL := m.baseURL
	if baseURL == "" {
		baseURL = "https://api.example.com/v1"
	}
	model := m.model
	if model == "" {
		model = "test-model"
	}
	return baseURL, model, 30 * time.Second
}

func (m *mockConfig) BuildHeaders() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + m.apiKey,
		"Content-Type":  "application/json",
	}
}

func (m *mockConfig) ProviderName() string {
	return m.providerName
}

// mockAdapter Mock 协议适配器
type mockAdapter struct{}

func (m *mockAdapter) BuildRequest(model string, messages []llm.Message) map[string]any {
	apiMessages := make([]map[string]any, len(messages))
	for i, msg := range messages {
		apiMessages[i] = map[string]any{
			"role":    string(msg.Role),
			"content": msg.Content,
		}
	}
	return map[string]any{"model": model, "messages": apiMessages}
}

func (m *mockAdapter) ExtractText(apiResp map[string]any) (string, error) {
	text, ok := LookupString(apiResp, "text")
	if !ok {
		return "", llm.NewResponseError("text", errors.New("missing"))
	}
	return text, nil
}

func newTestClient(t *testing.T, url string, opts ...Option) *BaseClient {
	t.Helper()
	client, err := NewBaseClient(&mockConfig{
		apiKey:       "test-key",
		baseURL:      url,
		providerName: "test-provider",
	}, opts...)
	require.NoError(t, err)
	return client
}

// ═══════════════════════════════════════════════════════════════════════════
// NewBaseClient 测试
// ═══════════════════════════════════════════════════════════════════════════

func TestNewBaseClient(t *testing.T) {
	t.Run("创建成功", func(t *testing.T) {
		client, err := NewBaseClient(&mockConfig{apiKey: "test-key", providerName: "p"})

		require.NoError(t, err)
		require.NotNil(t, client)
		assert.NotNil(t, client.resty)
		assert.NotNil(t, client.logger)
		assert.Equal(t, "p", client.ProviderName())
	})

	t.Run("配置验证失败", func(t *testing.T) {
		client, err := NewBaseClient(&mockConfig{})

		assert.Nil(t, client)
		assert.True(t, llm.IsConfigError(err))
	})
}

// ═══════════════════════════════════════════════════════════════════════════
// Post 测试
// ═══════════════════════════════════════════════════════════════════════════

func TestBaseClient_Post(t *testing.T) {
	t.Run("成功响应", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/chat", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			assert.NotEmpty(t, r.Header.Get(HeaderRequestID))

			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "v", body["k"])

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"text": "ok"}`))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		resp, err := client.Post(context.Background(), "/chat", map[string]any{"k": "v"})

		require.NoError(t, err)
		assert.Equal(t, "ok", resp["text"])
	})

	t.Run("API 错误", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(HeaderRequestID, "req-123")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error": {"message": "Invalid API key", "code": "invalid_api_key"}}`))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		resp, err := client.Post(context.Background(), "/chat", map[string]any{})

		assert.Nil(t, resp)
		apiErr, ok := llm.GetAPIError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
		assert.Equal(t, "test-provider", apiErr.Provider)
		assert.Equal(t, "req-123", apiErr.RequestID)
		assert.Equal(t, "invalid_api_key", apiErr.ErrorCode)
		assert.Contains(t, apiErr.Response, "Invalid API key")
	})

	t.Run("API 错误使用本地请求 ID", func(t *testing.T) {
		var sentID string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sentID = r.Header.Get(HeaderRequestID)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("overloaded"))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		_, err := client.Post(context.Background(), "/chat", map[string]any{})

		apiErr, ok := llm.GetAPIError(err)
		require.True(t, ok)
		assert.Equal(t, sentID, apiErr.RequestID)
		assert.Empty(t, apiErr.ErrorCode)
		assert.True(t, apiErr.IsRetryable())
	})

	t.Run("非 JSON 响应", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>not json</html>"))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		_, err := client.Post(context.Background(), "/chat", map[string]any{})

		assert.True(t, llm.IsResponseError(err))
	})

	t.Run("网络错误", func(t *testing.T) {
		client := newTestClient(t, "http://127.0.0.1:1")
		_, err := client.Post(context.Background(), "/chat", map[string]any{})

		assert.True(t, llm.IsHTTPError(err))
	})

	t.Run("序列化失败", func(t *testing.T) {
		client := newTestClient(t, "http://127.0.0.1:1")
		_, err := client.Post(context.Background(), "/chat", map[string]any{"bad": make(chan int)})

		assert.True(t, llm.IsRequestError(err))
	})
}

// ═══════════════════════════════════════════════════════════════════════════
// Generate 测试
// ═══════════════════════════════════════════════════════════════════════════

func TestBaseClient_Generate(t *testing.T) {
	t.Run("单条用户消息", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "m-1", body["model"])

			messages, _ := body["messages"].([]any)
			assert.Len(t, messages, 1)
			first, _ := messages[0].(map[string]any)
			assert.Equal(t, "user", first["role"])
			assert.Equal(t, "hello", first["content"])

			_, _ = w.Write([]byte(`{"text": "world"}`))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		text, err := client.Generate(context.Background(), StaticEndpoint("/chat"), "m-1", "hello", &mockAdapter{})

		require.NoError(t, err)
		assert.Equal(t, "world", text)
	})

	t.Run("后端错误包装为 GenerationError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		_, err := client.Generate(context.Background(), StaticEndpoint("/chat"), "m-1", "hi", &mockAdapter{})

		var genErr *llm.GenerationError
		require.ErrorAs(t, err, &genErr)
		assert.Equal(t, "test-provider", genErr.Provider)
		assert.Equal(t, "m-1", genErr.Model)
		assert.Equal(t, http.StatusBadRequest, llm.GetStatusCode(err))
	})

	t.Run("提取失败包装为 GenerationError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		_, err := client.Generate(context.Background(), StaticEndpoint("/chat"), "m-1", "hi", &mockAdapter{})

		assert.True(t, llm.IsGenerationError(err))
		assert.True(t, llm.IsResponseError(err))
	})

	t.Run("上下文取消", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"text": "late"}`))
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		client := newTestClient(t, server.URL)
		_, err := client.Generate(ctx, StaticEndpoint("/chat"), "m-1", "hi", &mockAdapter{})

		assert.True(t, llm.IsGenerationError(err))
		require.ErrorIs(t, err, context.Canceled)
	})
}

// ═══════════════════════════════════════════════════════════════════════════
// 日志测试
// ═══════════════════════════════════════════════════════════════════════════

func TestBaseClient_LoggerOmitsCredential(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"text": "ok"}`))
	}))
	defer server.Close()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	client := newTestClient(t, server.URL, WithLogger(logger))
	_, err := client.Post(context.Background(), "/chat", map[string]any{})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "provider=test-provider")
	assert.Contains(t, out, "status=200")
	assert.Contains(t, out, "request_id=")
	assert.NotContains(t, out, "test-key")
}

// ═══════════════════════════════════════════════════════════════════════════
// 辅助函数测试
// ═══════════════════════════════════════════════════════════════════════════

func TestStaticEndpoint(t *testing.T) {
	assert.Equal(t, "/chat/completions", StaticEndpoint("/chat/completions").BuildEndpoint("any-model"))
}

func TestExtractErrorCode(t *testing.T) {
	assert.Equal(t, "invalid_api_key", extractErrorCode([]byte(`{"error": {"code": "invalid_api_key"}}`)))
	assert.Equal(t, "INVALID_ARGUMENT", extractErrorCode([]byte(`{"error": {"code": 400, "status": "INVALID_ARGUMENT"}}`)))
	assert.Empty(t, extractErrorCode([]byte(`{"error": "model not found"}`)))
	assert.Empty(t, extractErrorCode([]byte(`not json`)))
}

func TestGetDefaultTimeout(t *testing.T) {
	assert.Equal(t, 120*time.Second, GetDefaultTimeout(0))
	assert.Equal(t, 30*time.Second, GetDefaultTimeout(30*time.Second))
}

func TestNewInvalidConfigError(t *testing.T) {
	err := NewInvalidConfigError("model")

	assert.True(t, llm.IsConfigError(err))
	assert.Contains(t, err.Error(), "model")
}

func TestBaseClient_Close(t *testing.T) {
	var closed atomic.Int32
	server := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	server.Config.ConnState = func(_ net.Conn, state http.ConnState) {
		if state == http.StateClosed {
			closed.Add(1)
		}
	}
	server.Start()
	defer server.Close()

	client, err := NewBaseClient(&mockConfig{apiKey: "k", baseURL: server.URL, providerName: "test"})
	require.NoError(t, err)

	_, err = client.Post(context.Background(), "/x", map[string]any{})
	require.NoError(t, err)

	// keep-alive 连接在 Close 之前保持打开
	assert.Zero(t, closed.Load())

	require.NoError(t, client.Close())
	assert.Eventually(t, func() bool { return closed.Load() == 1 }, time.Second, 10*time.Millisecond)

	// 关闭后仍可继续使用
	_, err = client.Post(context.Background(), "/x", map[string]any{})
	assert.NoError(t, err)
}
