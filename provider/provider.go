// Package provider talks to the language model that writes task cards and grades recorded answers.
package provider

import (
	"context"
	"errors"
	"fmt"
	"os"

	"kuchen/catalog"
)

var (
	ErrGenerationFailed = errors.New("content generation failed")
	ErrAnalysisFailed   = errors.New("audio analysis failed")
	ErrNoProvider       = errors.New("no content provider configured")
)

const (
	NameGemini = "gemini"
	NameOpenAI = "openai"
	NameFake   = "fake"
)

type Provider interface {
	Name() string
	// AudioFormat is the encoder format the provider accepts for Analyze.
	AudioFormat() string
	Generate(ctx context.Context, task catalog.Task) (*GeneratedContent, error)
	// Analyze returns a markdown feedback report for one recorded answer.
	Analyze(ctx context.Context, audio []byte, mimeType string, task catalog.Task, content *GeneratedContent) (string, error)
}

// New builds the named provider. An empty name picks the first provider with an API key in the
// environment.
func New(ctx context.Context, name, model string) (Provider, error) {
	geminiKey := firstEnv("GEMINI_API_KEY", "API_KEY")
	openaiKey := os.Getenv("OPENAI_API_KEY")

	if name == "" {
		switch {
		case geminiKey != "":
			name = NameGemini
		case openaiKey != "":
			name = NameOpenAI
		default:
			return nil, fmt.Errorf("%w: set GEMINI_API_KEY or OPENAI_API_KEY, or use provider: fake", ErrNoProvider)
		}
	}

	switch name {
	case NameGemini:
		if geminiKey == "" {
			return nil, fmt.Errorf("%w: GEMINI_API_KEY is not set", ErrNoProvider)
		}
		return NewGemini(ctx, geminiKey, model)
	case NameOpenAI:
		if openaiKey == "" {
			return nil, fmt.Errorf("%w: OPENAI_API_KEY is not set", ErrNoProvider)
		}
		return NewOpenAI(openaiKey, model), nil
	case NameFake:
		return NewFake(), nil
	}
	return nil, fmt.Errorf("%w: unknown provider %q", ErrNoProvider, name)
}

// Detect names the provider New would pick for an empty name, or "" when no key is set.
func Detect() string {
	switch {
	case firstEnv("GEMINI_API_KEY", "API_KEY") != "":
		return NameGemini
	case os.Getenv("OPENAI_API_KEY") != "":
		return NameOpenAI
	}
	return ""
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
