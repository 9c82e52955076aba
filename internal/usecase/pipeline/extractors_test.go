package pipeline

import (
	"context"
	goerrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/inferentia-labs/meeting-knowledge/errors"
	"github.com/inferentia-labs/meeting-knowledge/pkg/ai"
	"github.com/inferentia-labs/meeting-knowledge/pkg/config"
)

func TestFindDates(t *testing.T) {
	dates := findDates("Email the vendor by March 5, 2026 about the contract")
	assert.Equal(t, []string{"2026-03-05"}, dates)
}

func TestFindDatesNoDates(t *testing.T) {
	assert.Empty(t, findDates("Email the vendor about the contract"))
}

func TestFindDatesDeduplicates(t *testing.T) {
	dates := findDates("Confirm 2026-03-05 and again 2026-03-05 in writing")
	assert.Equal(t, []string{"2026-03-05"}, dates)
}

func TestModelSetWrapsInferenceErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	cfg := &config.ModelsConfig{
		HFAPIKey:      "test-key",
		HFBaseURL:     server.URL,
		SummaryModel:  "facebook/bart-large-cnn",
		ActionModel:   "google/flan-t5-base",
		DecisionModel: "google/flan-t5-base",
		NERModel:      "dslim/bert-base-NER",
	}
	set := NewModelSet(ai.NewHFClient(cfg), cfg)

	_, err := set.ExtractActionItems(context.Background(), "transcript")
	require.Error(t, err)

	var appErr apperrors.AppError
	require.True(t, goerrors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrorCode_INTEGRATION_MODEL_FAILED, appErr.Code)
}

func TestPlausibleDate(t *testing.T) {
	assert.False(t, plausibleDate("by"))
	assert.False(t, plausibleDate("vendor contract"))
	assert.True(t, plausibleDate("2026-03-05"))
	assert.True(t, plausibleDate("March 5, 2026"))
}
