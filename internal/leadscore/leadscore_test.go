package leadscore

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierFor(t *testing.T) {
	assert.Equal(t, TierHot, TierFor(100))
	assert.Equal(t, TierHot, TierFor(70))
	assert.Equal(t, TierWarm, TierFor(69))
	assert.Equal(t, TierWarm, TierFor(40))
	assert.Equal(t, TierCold, TierFor(39))
	assert.Equal(t, TierCold, TierFor(0))
}

func TestHeuristic_Bounds(t *testing.T) {
	inputs := []Input{
		{},
		{CapacityKw: 10, MonthlyBill: 10000, State: "Odisha", PanelType: "dcr", Source: "referral", OwnsRoof: true},
		{CapacityKw: 1, MonthlyBill: 200, State: "Delhi", PanelType: "non_dcr", Source: "direct"},
		{CapacityKw: 3, MonthlyBill: 1800, State: "Uttar Pradesh", PanelType: "dcr", Source: "direct", OwnsRoof: true},
	}

	for _, in := range inputs {
		res := Heuristic(in)
		assert.GreaterOrEqual(t, res.Score, 0)
		assert.LessOrEqual(t, res.Score, 100)
		assert.Equal(t, TierFor(res.Score), res.Tier)
		assert.GreaterOrEqual(t, res.ConversionProbability, minProbability)
		assert.LessOrEqual(t, res.ConversionProbability, maxProbability)
		assert.Equal(t, SourceHeuristic, res.Source)
		assert.NotEmpty(t, res.Recommendation)
	}
}

func TestHeuristic_StrongLeadIsHot(t *testing.T) {
	res := Heuristic(Input{CapacityKw: 5, MonthlyBill: 4000, State: "Odisha", PanelType: "dcr", Source: "referral", OwnsRoof: true})
	// 20 + 20 + 25 + 15 + 15 + 10 + 5
	assert.Equal(t, 100, res.Score)
	assert.Equal(t, TierHot, res.Tier)
	assert.Equal(t, 90, res.ConversionProbability)
}

func TestHeuristic_WeakLeadIsCold(t *testing.T) {
	res := Heuristic(Input{CapacityKw: 1, MonthlyBill: 300, PanelType: "non_dcr", Source: "direct"})
	// 20 + 5 + 4 + 5 - 10
	assert.Equal(t, 24, res.Score)
	assert.Equal(t, TierCold, res.Tier)
	assert.Equal(t, 22, res.ConversionProbability)
}

func chatServer(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, DefaultModel, req.Model)
		assert.Equal(t, "json_object", req.ResponseFormat["type"])

		w.WriteHeader(status)
		if status != http.StatusOK {
			w.Write([]byte(`{"error":"boom"}`))
			return
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	c, err := NewClient(ClientConfig{BaseURL: url, APIKey: "test-key"})
	require.NoError(t, err)
	return c
}

func TestClient_Score_Success(t *testing.T) {
	srv := chatServer(t, http.StatusOK, `{"score":82,"tier":"warm","conversionProbability":99,"factors":["big bill"],"recommendation":"Call today."}`)
	defer srv.Close()

	res, err := newTestClient(t, srv.URL).Score(context.Background(), Input{CapacityKw: 3})
	require.NoError(t, err)
	assert.Equal(t, 82, res.Score)
	assert.Equal(t, TierHot, res.Tier, "tier is derived from score")
	assert.Equal(t, maxProbability, res.ConversionProbability)
	assert.Equal(t, []string{"big bill"}, res.Factors)
	assert.Equal(t, SourceAI, res.Source)
}

func TestClient_Score_SchemaViolation(t *testing.T) {
	srv := chatServer(t, http.StatusOK, `{"score":"high","tier":"hot"}`)
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Score(context.Background(), Input{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLLMBadResponse))
}

func TestClient_Score_HTTPError(t *testing.T) {
	srv := chatServer(t, http.StatusInternalServerError, "")
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Score(context.Background(), Input{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLLMRequestFailed))
}

func TestClient_Score_NoKey(t *testing.T) {
	c, err := NewClient(ClientConfig{})
	require.NoError(t, err)

	_, err = c.Score(context.Background(), Input{})
	assert.ErrorIs(t, err, ErrLLMNotConfigured)
}

type stubModel struct {
	res *Result
	err error
}

func (s stubModel) Score(context.Context, Input) (*Result, error) { return s.res, s.err }

func TestScorer_FallsBackOnModelError(t *testing.T) {
	s := NewScorer(stubModel{err: ErrLLMRequestFailed}, nil)
	res := s.Score(context.Background(), Input{CapacityKw: 3, OwnsRoof: true})
	assert.Equal(t, SourceHeuristic, res.Source)
}

func TestScorer_NilModel(t *testing.T) {
	res := NewScorer(nil, nil).Score(context.Background(), Input{})
	assert.Equal(t, SourceHeuristic, res.Source)
}

func TestScorer_UsesModelResult(t *testing.T) {
	want := &Result{Score: 55, Tier: TierWarm, ConversionProbability: 50, Source: SourceAI}
	res := NewScorer(stubModel{res: want}, nil).Score(context.Background(), Input{})
	assert.Same(t, want, res)
}
