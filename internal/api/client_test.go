package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hetav2211/Frontend-Codac/internal/api"
	"github.com/Hetav2211/Frontend-Codac/internal/domain"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestClient_CreateCheckoutSession(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/create-checkout-session", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]string{"sessionId": "cs_123"})
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL, testLogger())
	sessionID, err := client.CreateCheckoutSession(context.Background(), domain.PlanPro, 499)

	require.NoError(t, err)
	assert.Equal(t, "cs_123", sessionID)
	assert.Equal(t, "Pro", got["plan"])
	assert.Equal(t, float64(499), got["price"])
}

func TestClient_UpdatePlan(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/user/plan", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL, testLogger())
	err := client.UpdatePlan(context.Background(), "u1", domain.PlanTeam)

	require.NoError(t, err)
	assert.Equal(t, "u1", got["userId"])
	assert.Equal(t, "Team", got["plan"])
}

func TestClient_BackendErrorMessagePropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"message": "Email already registered"})
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL, testLogger())
	_, _, err := client.Signup(context.Background(), "alice", "a@example.com", "secret")

	require.Error(t, err)
	var se *api.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusConflict, se.Code)
	assert.Equal(t, "Email already registered", se.Message)
}

func TestClient_BackendErrorFieldFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "bad input"})
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL, testLogger())
	err := client.UpdatePlan(context.Background(), "u1", domain.PlanFree)

	var se *api.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "bad input", se.Message)
}

func TestClient_SubmitFeedbackValidatesRating(t *testing.T) {
	client := api.NewClient("http://unused.invalid", testLogger())

	assert.ErrorIs(t, client.SubmitFeedback(context.Background(), "a", "a@example.com", "hi", 0), api.ErrRatingRequired)
	assert.ErrorIs(t, client.SubmitFeedback(context.Background(), "a", "a@example.com", "hi", 6), api.ErrRatingRequired)
}

func TestClient_SubmitFeedback(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/feedback", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL, testLogger())
	err := client.SubmitFeedback(context.Background(), "alice", "a@example.com", "great tool", 5)

	require.NoError(t, err)
	assert.Equal(t, float64(5), got["rating"])
	assert.Equal(t, "great tool", got["message"])
}

func TestClient_AIChatStructuredReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/ai-chat", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"chatRes": "Use a slice, not an array."})
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL, testLogger())
	reply, err := client.AIChat(context.Background(), "slices vs arrays?")

	require.NoError(t, err)
	assert.Equal(t, "Use a slice, not an array.", reply)
}

func TestClient_AIChatPlainTextReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("plain answer"))
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL, testLogger())
	reply, err := client.AIChat(context.Background(), "hi")

	require.NoError(t, err)
	assert.Equal(t, "plain answer", reply)
}

func TestClient_AIChatRejectsEmptyMessage(t *testing.T) {
	client := api.NewClient("http://unused.invalid", testLogger())

	_, err := client.AIChat(context.Background(), "  ")
	assert.ErrorIs(t, err, api.ErrEmptyMessage)
}

func TestClient_Signup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/signup", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"token": "jwt-abc",
			"user": map[string]string{
				"_id":   "u9",
				"name":  "alice",
				"email": "a@example.com",
				"plan":  "Free",
			},
		})
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL, testLogger())
	acct, token, err := client.Signup(context.Background(), "alice", "a@example.com", "secret")

	require.NoError(t, err)
	assert.Equal(t, "jwt-abc", token)
	assert.Equal(t, "u9", acct.ID)
	assert.Equal(t, domain.PlanFree, acct.Plan)
}
