package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/calyptra/squadrun/internal/config"
	"github.com/calyptra/squadrun/internal/core"
)

type OpenAIConfig struct {
	Endpoint    string
	APIKeyEnv   string
	HTTPTimeout time.Duration
}

// OpenAIProvider talks to an OpenAI-compatible chat completions endpoint.
type OpenAIProvider struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	timeout := cfg.HTTPTimeout
	if timeout == 0 {
		timeout = 300 * time.Second
	}

	apiKey := ""
	if cfg.APIKeyEnv != "" {
		apiKey = os.Getenv(cfg.APIKeyEnv)
	}

	return &OpenAIProvider{
		endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

// FromConfig builds a provider from the runtime configuration.
func FromConfig(cfg config.LLMConfig) *OpenAIProvider {
	return NewOpenAIProvider(OpenAIConfig{
		Endpoint:    cfg.Endpoint,
		APIKeyEnv:   cfg.APIKeyEnv,
		HTTPTimeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
	})
}

func (p *OpenAIProvider) CountTokens(text string) (int, error) {
	return estimateTokens(text), nil
}

func (p *OpenAIProvider) GenerateChat(
	ctx context.Context,
	messages []core.Message,
	sampling *core.SamplingConfig,
	model string,
) (core.ChatResponse, error) {
	requestID := core.NewRequestID()

	msgJSON := make([]map[string]any, 0, len(messages))
	for _, message := range messages {
		entry := map[string]any{"role": string(message.Role), "content": message.Content}
		if message.Sender != "" && message.Role != core.RoleSystem {
			entry["name"] = sanitizeName(message.Sender)
		}
		msgJSON = append(msgJSON, entry)
	}

	modelName := model
	if modelName == "" {
		modelName = "gpt-4o-mini"
	}

	maxTokens := 2000
	if sampling != nil && sampling.MaxTokens != nil {
		maxTokens = *sampling.MaxTokens
	}

	payload := map[string]any{
		"model":      modelName,
		"messages":   msgJSON,
		"max_tokens": maxTokens,
		"stream":     false,
	}

	if sampling != nil {
		if sampling.Temperature != nil {
			payload["temperature"] = *sampling.Temperature
		}
		if sampling.TopP != nil {
			payload["top_p"] = *sampling.TopP
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return core.ChatResponse{}, err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return core.ChatResponse{}, err
	}

	request.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		request.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	httpResp, err := p.client.Do(request)
	if err != nil {
		if ctx.Err() != nil {
			return core.ChatResponse{}, ctx.Err()
		}
		return core.ChatResponse{}, &TransportError{RequestID: requestID, Err: err}
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(httpResp.Body)
		return core.ChatResponse{}, upstreamErrorFromBody(requestID, httpResp.StatusCode, bodyBytes)
	}

	var responsePayload map[string]any
	if err := json.NewDecoder(httpResp.Body).Decode(&responsePayload); err != nil {
		return core.ChatResponse{}, &TransportError{RequestID: requestID, Err: err}
	}

	return parseResponsePayload(responsePayload)
}

func estimateTokens(text string) int {
	return len(text) / 4
}

func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, name)
}

func upstreamErrorFromBody(requestID core.RequestID, status int, body []byte) *UpstreamError {
	upstreamErr := &UpstreamError{
		RequestID: requestID,
		Status:    status,
		Message:   strings.TrimSpace(string(body)),
	}

	var envelope struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
			Code    string `json:"code"`
		} `json:"error"`
	}

	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Error.Code != "" {
			upstreamErr.Code = envelope.Error.Code
		} else if envelope.Error.Type != "" {
			upstreamErr.Code = envelope.Error.Type
		}
		if envelope.Error.Message != "" {
			upstreamErr.Message = envelope.Error.Message
		}
	}

	return upstreamErr
}

func parseResponsePayload(payload map[string]any) (core.ChatResponse, error) {
	choices, ok := payload["choices"].([]any)
	if !ok || len(choices) == 0 {
		return core.ChatResponse{}, errors.New("no choices in response")
	}

	choice, ok := choices[0].(map[string]any)
	if !ok {
		return core.ChatResponse{}, errors.New("malformed choice in response")
	}

	message, ok := choice["message"].(map[string]any)
	if !ok {
		return core.ChatResponse{}, errors.New("malformed message in response")
	}

	content, _ := message["content"].(string)

	return core.ChatResponse{
		Content: content,
		Usage:   parseUsage(payload),
	}, nil
}

func parseUsage(response map[string]any) *core.Usage {
	usageMap, ok := response["usage"].(map[string]any)
	if !ok {
		return nil
	}

	return &core.Usage{
		PromptTokens:     core.IntFromAny(usageMap["prompt_tokens"]),
		CompletionTokens: core.IntFromAny(usageMap["completion_tokens"]),
		TotalTokens:      core.IntFromAny(usageMap["total_tokens"]),
	}
}
