package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inferentia-labs/meeting-knowledge/pkg/config"
)

func newTestClient(serverURL string) *HFClient {
	return NewHFClient(&config.ModelsConfig{
		HFAPIKey:  "test-key",
		HFBaseURL: serverURL,
	})
}

func TestSummarize(t *testing.T) {
	var gotAuth string
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode([]map[string]string{{"summary_text": "A short summary."}})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	out, err := client.Summarize(context.Background(), "facebook/bart-large-cnn", "a long transcript", 40, 120)
	require.NoError(t, err)

	assert.Equal(t, "A short summary.", out)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "a long transcript", gotBody["inputs"])
}

func TestGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]string{{"generated_text": `[{"task": "Ship it"}]`}})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	out, err := client.Generate(context.Background(), "google/flan-t5-base", "extract things", 512)
	require.NoError(t, err)
	assert.Equal(t, `[{"task": "Ship it"}]`, out)
}

func TestTokenClassify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"entity_group": "PER", "word": "Alice", "score": 0.99},
			{"entity_group": "ORG", "word": "Acme", "score": 0.87},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	entities, err := client.TokenClassify(context.Background(), "dbmdz/bert-large-cased-finetuned-conll03-english", "Alice will email Acme")
	require.NoError(t, err)

	require.Len(t, entities, 2)
	assert.Equal(t, "PER", entities[0].EntityGroup)
	assert.Equal(t, "Alice", entities[0].Word)
	assert.InDelta(t, 0.99, entities[0].Score, 0.001)
}

func TestClientErrorIsNotRetried(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Summarize(context.Background(), "facebook/bart-large-cnn", "input", 40, 120)
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
