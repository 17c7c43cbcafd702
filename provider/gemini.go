package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"kuchen/catalog"
	"kuchen/encoder"
)

const DefaultGeminiModel = "gemini-2.5-flash"

type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if model == "" {
		model = DefaultGeminiModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Name() string { return NameGemini }

// AudioFormat lets the encoder pick: Gemini takes both WAV and FLAC inline.
func (g *Gemini) AudioFormat() string { return encoder.FormatAdaptive }

func (g *Gemini) Close() error { return g.client.Close() }

func (g *Gemini) newModel() *genai.GenerativeModel {
	m := g.client.GenerativeModel(g.model)
	m.SystemInstruction = genai.NewUserContent(genai.Text(SystemInstruction))
	return m
}

func (g *Gemini) Generate(ctx context.Context, task catalog.Task) (*GeneratedContent, error) {
	m := g.newModel()
	m.ResponseMIMEType = "application/json"
	m.ResponseSchema = contentSchema(task.RequiresChart())

	resp, err := m.GenerateContent(ctx, genai.Text(GeneratePrompt(task)))
	if err != nil {
		return nil, fmt.Errorf("%w: gemini: %v", ErrGenerationFailed, err)
	}
	text := responseText(resp)
	if text == "" {
		return nil, fmt.Errorf("%w: gemini returned no text", ErrGenerationFailed)
	}
	content, err := DecodeContent([]byte(text), task)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	return content, nil
}

func (g *Gemini) Analyze(ctx context.Context, audio []byte, mimeType string, task catalog.Task, content *GeneratedContent) (string, error) {
	m := g.newModel()
	resp, err := m.GenerateContent(ctx,
		genai.Blob{MIMEType: mimeType, Data: audio},
		genai.Text(AnalyzePrompt(task, content)),
	)
	if err != nil {
		return "", fmt.Errorf("%w: gemini: %v", ErrAnalysisFailed, err)
	}
	text := responseText(resp)
	if text == "" {
		return "", fmt.Errorf("%w: gemini returned no text", ErrAnalysisFailed)
	}
	return text, nil
}

func contentSchema(chart bool) *genai.Schema {
	s := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"germanTitle":         {Type: genai.TypeString},
			"germanTaskText":      {Type: genai.TypeString},
			"chineseInstructions": {Type: genai.TypeString},
			"openingLineHint":     {Type: genai.TypeString},
		},
		Required: []string{"germanTitle", "germanTaskText", "chineseInstructions", "openingLineHint"},
	}
	if chart {
		s.Properties["chartTitle"] = &genai.Schema{Type: genai.TypeString}
		s.Properties["chartData"] = &genai.Schema{
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name":  {Type: genai.TypeString},
					"value": {Type: genai.TypeNumber},
				},
				Required: []string{"name", "value"},
			},
		}
		s.Required = append(s.Required, "chartTitle", "chartData")
	}
	return s
}

// responseText joins the text parts of the first candidate that has content.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		var sb strings.Builder
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				sb.WriteString(string(t))
			}
		}
		if sb.Len() > 0 {
			return sb.String()
		}
	}
	return ""
}
