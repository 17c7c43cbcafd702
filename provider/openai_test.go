package provider

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kuchen/catalog"
)

func chatServer(t *testing.T, status int, content string, got *chatRequest) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			return
		}
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		if got != nil {
			assert.NoError(t, json.Unmarshal(body, got))
		}
		w.WriteHeader(status)
		if status != http.StatusOK {
			w.Write([]byte(`{"error":"nope"}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"content": content}}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIGenerate(t *testing.T) {
	var req chatRequest
	srv := chatServer(t, http.StatusOK, cardJSON, &req)
	o := newOpenAI(srv.URL, "sk-test", "")

	task, _ := catalog.Lookup(3)
	c, err := o.Generate(context.Background(), task)
	require.NoError(t, err)
	assert.Equal(t, "Mensa", c.Title)
	assert.Equal(t, DefaultOpenAIModel, req.Model)
	require.NotNil(t, req.ResponseFormat)
	assert.Equal(t, "json_object", req.ResponseFormat.Type)
	assert.Len(t, req.Messages, 2)
}

func TestOpenAIAnalyze(t *testing.T) {
	var req struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string          `json:"role"`
			Content json.RawMessage `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			return
		}
		json.NewDecoder(r.Body).Decode(&req)
		w.Write([]byte(`{"choices":[{"message":{"content":"## Bericht"}}]}`))
	}))
	defer srv.Close()

	o := newOpenAI(srv.URL, "sk-test", "")
	task, _ := catalog.Lookup(1)
	out, err := o.Analyze(context.Background(), []byte("RIFF"), "audio/wav", task, FakeContent(task))
	require.NoError(t, err)
	assert.Equal(t, "## Bericht", out)
	assert.Equal(t, DefaultOpenAIAudioModel, req.Model)

	require.Len(t, req.Messages, 2)
	var parts []chatPart
	require.NoError(t, json.Unmarshal(req.Messages[1].Content, &parts))
	require.Len(t, parts, 2)
	require.NotNil(t, parts[0].InputAudio)
	assert.Equal(t, "wav", parts[0].InputAudio.Format)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("RIFF")), parts[0].InputAudio.Data)
}

func TestOpenAIErrors(t *testing.T) {
	task, _ := catalog.Lookup(1)
	ctx := context.Background()

	srv := chatServer(t, http.StatusTooManyRequests, "", nil)
	o := newOpenAI(srv.URL, "sk-test", "")
	_, err := o.Generate(ctx, task)
	assert.ErrorIs(t, err, ErrGenerationFailed)
	_, err = o.Analyze(ctx, []byte("x"), "audio/wav", task, nil)
	assert.ErrorIs(t, err, ErrAnalysisFailed)

	_, err = o.Analyze(ctx, []byte("x"), "audio/flac", task, nil)
	assert.ErrorIs(t, err, ErrAnalysisFailed)

	empty := chatServer(t, http.StatusOK, "  ", nil)
	o = newOpenAI(empty.URL, "sk-test", "")
	_, err = o.Generate(ctx, task)
	assert.ErrorIs(t, err, ErrGenerationFailed)
}
