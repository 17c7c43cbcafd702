package provider

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kuchen/catalog"
	"kuchen/report"
)

func clearKeys(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "API_KEY", "OPENAI_API_KEY"} {
		t.Setenv(k, "")
	}
}

func TestNewSelection(t *testing.T) {
	ctx := context.Background()

	t.Run("no keys", func(t *testing.T) {
		clearKeys(t)
		_, err := New(ctx, "", "")
		assert.ErrorIs(t, err, ErrNoProvider)
		assert.Empty(t, Detect())
	})

	t.Run("fake needs no key", func(t *testing.T) {
		clearKeys(t)
		p, err := New(ctx, NameFake, "")
		require.NoError(t, err)
		assert.Equal(t, NameFake, p.Name())
	})

	t.Run("openai from env", func(t *testing.T) {
		clearKeys(t)
		t.Setenv("OPENAI_API_KEY", "sk-test")
		p, err := New(ctx, "", "")
		require.NoError(t, err)
		assert.Equal(t, NameOpenAI, p.Name())
		assert.Equal(t, NameOpenAI, Detect())
	})

	t.Run("explicit provider without key", func(t *testing.T) {
		clearKeys(t)
		t.Setenv("OPENAI_API_KEY", "sk-test")
		_, err := New(ctx, NameGemini, "")
		assert.ErrorIs(t, err, ErrNoProvider)
	})

	t.Run("unknown", func(t *testing.T) {
		clearKeys(t)
		_, err := New(ctx, "whisper", "")
		assert.ErrorIs(t, err, ErrNoProvider)
	})

	t.Run("gemini key alias", func(t *testing.T) {
		clearKeys(t)
		t.Setenv("API_KEY", "g-test")
		assert.Equal(t, NameGemini, Detect())
	})
}

func TestFakeProvider(t *testing.T) {
	ctx := context.Background()
	task, err := catalog.Lookup(3)
	require.NoError(t, err)

	f := NewFake()
	c, err := f.Generate(ctx, task)
	require.NoError(t, err)
	require.NoError(t, c.Validate(task))
	assert.Len(t, c.Chart, 4)

	r, err := f.Analyze(ctx, []byte{1, 2}, "audio/wav", task, c)
	require.NoError(t, err)
	assert.Len(t, report.Scores(r), len(report.Dimensions))
	assert.Equal(t, []byte{1, 2}, f.LastAudio())

	gen, an := f.Calls()
	assert.Equal(t, 1, gen)
	assert.Equal(t, 1, an)

	boom := errors.New("boom")
	f.SetErrors(boom, boom)
	_, err = f.Generate(ctx, task)
	assert.ErrorIs(t, err, ErrGenerationFailed)
	_, err = f.Analyze(ctx, nil, "audio/wav", task, c)
	assert.ErrorIs(t, err, ErrAnalysisFailed)
}

func TestFakeDelayHonoursContext(t *testing.T) {
	f := NewFake()
	f.SetDelay(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	task, _ := catalog.Lookup(1)
	_, err := f.Generate(ctx, task)
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestPrompts(t *testing.T) {
	chart, _ := catalog.Lookup(3)
	plain, _ := catalog.Lookup(2)

	assert.Contains(t, GeneratePrompt(chart), "chartData")
	assert.NotContains(t, GeneratePrompt(plain), "chartData")
	assert.Contains(t, GeneratePrompt(plain), `"du"`)
	assert.Contains(t, GeneratePrompt(chart), `"Sie"`)

	p := AnalyzePrompt(chart, FakeContent(chart))
	for _, d := range report.Dimensions {
		assert.Contains(t, p, d)
	}
	assert.True(t, strings.Contains(p, "Studieren im Ausland"))
	assert.NotPanics(t, func() { AnalyzePrompt(chart, nil) })
}
