package classify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civiclens-app/CivicLens/app/models"
)

func testOracle(baseURL string) *GeminiOracle {
	return &GeminiOracle{
		apiKey:  "test-key",
		model:   defaultModel,
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 5 * time.Second},
	}
}

func geminiReply(t *testing.T, verdict string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		reply := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": verdict}}}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(reply))
	}
}

func TestClassifyFresh(t *testing.T) {
	t.Parallel()

	var gotReq geminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		geminiReply(t, `{"description":"overflowing garbage container","category":"Garbage","department":"Department of Rural Works","duplicate":false}`)(w, r)
	}))
	defer srv.Close()

	j, err := testOracle(srv.URL).Classify(context.Background(), []byte("img"), "image/jpeg", nil)
	require.NoError(t, err)

	assert.Equal(t, models.CategoryGarbage, j.Category)
	assert.Equal(t, models.DepartmentRuralWorks, j.Department)
	assert.False(t, j.Duplicate)

	require.Len(t, gotReq.Contents, 1)
	require.Len(t, gotReq.Contents[0].Parts, 2)
	assert.NotNil(t, gotReq.Contents[0].Parts[0].InlineData)
	assert.Equal(t, "image/jpeg", gotReq.Contents[0].Parts[0].InlineData.MimeType)
	assert.Contains(t, gotReq.Contents[0].Parts[1].Text, "set duplicate to false")
	assert.Equal(t, "application/json", gotReq.GenerationConfig.ResponseMimeType)
}

func TestClassifyWithReference(t *testing.T) {
	t.Parallel()

	var gotReq geminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		geminiReply(t, `{"description":"","category":"","department":"","duplicate":true}`)(w, r)
	}))
	defer srv.Close()

	ref := &Reference{
		Description: "deep pothole on the main road",
		Category:    models.CategoryPothole,
		Department:  models.DepartmentRoadConstruction,
	}
	j, err := testOracle(srv.URL).Classify(context.Background(), []byte("img"), "image/jpeg", ref)
	require.NoError(t, err)

	assert.True(t, j.Duplicate)
	assert.Contains(t, gotReq.Contents[0].Parts[1].Text, "deep pothole on the main road")
	assert.Contains(t, gotReq.Contents[0].Parts[1].Text, "Pothole")
}

func TestClassifyStripsCodeFence(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(geminiReply(t,
		"```json\n{\"description\":\"broken streetlight\",\"category\":\"Streetlight\",\"department\":\"Department of Energy\",\"duplicate\":false}\n```"))
	defer srv.Close()

	j, err := testOracle(srv.URL).Classify(context.Background(), []byte("img"), "image/png", nil)
	require.NoError(t, err)
	assert.Equal(t, models.CategoryStreetlight, j.Category)
}

func TestClassifyRejectsMalformedResponses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		verdict string
	}{
		{name: "enum outside fixed set", verdict: `{"description":"d","category":"Graffiti","department":"Department of Energy","duplicate":false}`},
		{name: "missing description", verdict: `{"description":"","category":"Other","department":"Department of Energy","duplicate":false}`},
		{name: "missing department on fresh classification", verdict: `{"description":"d","category":"Other","department":"","duplicate":false}`},
		{name: "not json", verdict: `the image shows a pothole`},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(geminiReply(t, tc.verdict))
			defer srv.Close()

			_, err := testOracle(srv.URL).Classify(context.Background(), []byte("img"), "image/jpeg", nil)
			assert.ErrorIs(t, err, ErrClassificationFailed)
		})
	}
}

func TestClassifyOracleErrors(t *testing.T) {
	t.Parallel()

	t.Run("http error status", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		_, err := testOracle(srv.URL).Classify(context.Background(), []byte("img"), "image/jpeg", nil)
		assert.ErrorIs(t, err, ErrClassificationFailed)
	})

	t.Run("empty candidate list", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"candidates":[]}`))
		}))
		defer srv.Close()

		_, err := testOracle(srv.URL).Classify(context.Background(), []byte("img"), "image/jpeg", nil)
		assert.ErrorIs(t, err, ErrClassificationFailed)
	})

	t.Run("caller timeout", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Drain the body so the server's background read can observe the
			// client disconnect and cancel the request context; otherwise the
			// handler never unblocks and srv.Close hangs.
			io.Copy(io.Discard, r.Body)
			<-r.Context().Done()
		}))
		defer srv.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := testOracle(srv.URL).Classify(ctx, []byte("img"), "image/jpeg", nil)
		assert.ErrorIs(t, err, ErrClassificationFailed)
	})
}
