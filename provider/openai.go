package provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"kuchen/catalog"
	"kuchen/encoder"
	"kuchen/log"
)

const (
	DefaultOpenAIModel      = "gpt-4o-mini"
	DefaultOpenAIAudioModel = "gpt-4o-audio-preview"

	openAIURL = "https://api.openai.com/v1/chat/completions"
)

type OpenAI struct {
	client     *TracedClient
	apiURL     string
	apiKey     string
	model      string
	audioModel string
}

// NewOpenAI uses model for task cards. Grading always needs an audio-capable model.
func NewOpenAI(apiKey, model string) *OpenAI {
	return newOpenAI(openAIURL, apiKey, model)
}

func newOpenAI(apiURL, apiKey, model string) *OpenAI {
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAI{
		client:     NewTracedClient(apiURL),
		apiURL:     apiURL,
		apiKey:     apiKey,
		model:      model,
		audioModel: DefaultOpenAIAudioModel,
	}
}

func (o *OpenAI) Name() string { return NameOpenAI }

// AudioFormat is WAV: input_audio accepts wav and mp3 only.
func (o *OpenAI) AudioFormat() string { return encoder.FormatWAV }

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type chatPart struct {
	Type       string      `json:"type"`
	Text       string      `json:"text,omitempty"`
	InputAudio *inputAudio `json:"input_audio,omitempty"`
}

type inputAudio struct {
	Data   string `json:"data"`
	Format string `json:"format"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Modalities     []string        `json:"modalities,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (o *OpenAI) Generate(ctx context.Context, task catalog.Task) (*GeneratedContent, error) {
	go o.client.Warm()
	text, err := o.complete(ctx, chatRequest{
		Model: o.model,
		Messages: []chatMessage{
			{Role: "system", Content: SystemInstruction},
			{Role: "user", Content: GeneratePrompt(task)},
		},
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	content, err := DecodeContent([]byte(text), task)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	return content, nil
}

func (o *OpenAI) Analyze(ctx context.Context, audio []byte, mimeType string, task catalog.Task, content *GeneratedContent) (string, error) {
	format, err := openAIAudioFormat(mimeType)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}
	text, err := o.complete(ctx, chatRequest{
		Model:      o.audioModel,
		Modalities: []string{"text"},
		Messages: []chatMessage{
			{Role: "system", Content: SystemInstruction},
			{Role: "user", Content: []chatPart{
				{Type: "input_audio", InputAudio: &inputAudio{
					Data:   base64.StdEncoding.EncodeToString(audio),
					Format: format,
				}},
				{Type: "text", Text: AnalyzePrompt(task, content)},
			}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}
	return text, nil
}

func openAIAudioFormat(mimeType string) (string, error) {
	switch mimeType {
	case "audio/wav", "audio/x-wav":
		return "wav", nil
	case "audio/mpeg", "audio/mp3":
		return "mp3", nil
	}
	return "", fmt.Errorf("openai does not accept %s audio", mimeType)
}

func (o *OpenAI) complete(ctx context.Context, body chatRequest) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, "POST", o.apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", err
	}
	logHTTP(o.Name(), resp)

	if resp.StatusCode != 200 {
		return "", fmt.Errorf("openai API error %d: %s", resp.StatusCode, string(resp.Body))
	}

	var cResp chatResponse
	if err := json.Unmarshal(resp.Body, &cResp); err != nil {
		return "", fmt.Errorf("openai response parse error: %w", err)
	}
	log.Debugf("openai rate limit: %s/%s",
		firstNonEmpty(resp.Header, "x-ratelimit-remaining-requests"),
		firstNonEmpty(resp.Header, "x-ratelimit-limit-requests"))

	if len(cResp.Choices) == 0 || strings.TrimSpace(cResp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("openai returned no text")
	}
	return cResp.Choices[0].Message.Content, nil
}
