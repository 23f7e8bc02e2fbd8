package classifier

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusops/facility-desk/internal/domain"
)

func TestParseAnswer(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		want    Suggestion
		wantErr bool
	}{
		{
			name: "plain json with labels",
			raw:  `{"category":"Machinery (AC)","urgency":"High","summary":" AC leaking in lab "}`,
			want: Suggestion{Category: domain.CategoryMachinery, Urgency: domain.UrgencyHigh, Summary: "AC leaking in lab"},
		},
		{
			name: "fenced json with codes",
			raw:  "```json\n{\"category\":\"FireSystem\",\"urgency\":\"low\",\"summary\":\"Alarm beeping\"}\n```",
			want: Suggestion{Category: domain.CategoryFireSystem, Urgency: domain.UrgencyLow, Summary: "Alarm beeping"},
		},
		{name: "unknown category", raw: `{"category":"Plumbing","urgency":"High"}`, wantErr: true},
		{name: "unknown urgency", raw: `{"category":"Other","urgency":"Critical"}`, wantErr: true},
		{name: "not json", raw: "I think it is electric", wantErr: true},
		{name: "empty", raw: "  ", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseAnswer(tc.raw)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNewOpenAIWithoutKeyIsNoop(t *testing.T) {
	cls := NewOpenAI(OpenAIConfig{}, zap.NewNop())
	_, err := cls.Classify(context.Background(), "Lights are out", domain.LocationPAC)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func chatServer(t *testing.T, status int, content string, seen *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		if seen != nil {
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			require.NoError(t, json.Unmarshal(body, seen))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
			return
		}
		resp := map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIClassify(t *testing.T) {
	var seen map[string]any
	srv := chatServer(t, http.StatusOK, `{"category":"Electric","urgency":"Medium","summary":"Projector will not power on"}`, &seen)

	cls := NewOpenAI(OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL + "/", Model: "test-model"}, zap.NewNop())
	got, err := cls.Classify(context.Background(), "Projector in room 304 does not turn on", domain.LocationSchoolCenter)
	require.NoError(t, err)
	assert.Equal(t, Suggestion{Category: domain.CategoryElectric, Urgency: domain.UrgencyMedium, Summary: "Projector will not power on"}, got)

	assert.Equal(t, "test-model", seen["model"])
	messages, ok := seen["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	user, ok := messages[1].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, user["content"], "Projector in room 304")
	assert.Contains(t, user["content"], "Machinery (AC)")
	assert.Contains(t, user["content"], "School Center")
}

func TestOpenAIClassifyFailuresAreUnavailable(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		srv := chatServer(t, http.StatusInternalServerError, "", nil)
		cls := NewOpenAI(OpenAIConfig{APIKey: "k", BaseURL: srv.URL + "/"}, zap.NewNop())
		_, err := cls.Classify(context.Background(), "Door jammed", domain.LocationOther)
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("unusable answer", func(t *testing.T) {
		srv := chatServer(t, http.StatusOK, "no idea", nil)
		cls := NewOpenAI(OpenAIConfig{APIKey: "k", BaseURL: srv.URL + "/"}, zap.NewNop())
		_, err := cls.Classify(context.Background(), "Door jammed", domain.LocationOther)
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}
