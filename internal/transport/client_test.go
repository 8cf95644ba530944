package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/comigor/jarvis-chat/internal/history"
	"github.com/comigor/jarvis-chat/internal/logger"
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	goleak.VerifyTestMain(m)
}

func newServer(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL+"/", srv.Client())
	t.Cleanup(srv.Client().CloseIdleConnections)
	return c
}

func TestSendPostsFormQuery(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "what's up & more", r.PostForm.Get("query"))
		_, _ = w.Write([]byte(`{"response":"hi"}`))
	})

	reply, err := c.Send(context.Background(), "what's up & more")
	require.NoError(t, err)
	assert.Equal(t, "hi", reply.Response)
}

func TestSendMissingResponseIsEmpty(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	reply, err := c.Send(context.Background(), "q")
	require.NoError(t, err)
	assert.Empty(t, reply.Response)
}

func TestSendStatusError(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "kaput", http.StatusInternalServerError)
	})

	_, err := c.Send(context.Background(), "q")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.Code)
	assert.Contains(t, se.Body, "kaput")
}

func TestSendUndecodableBody(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>oops</html>`))
	})

	_, err := c.Send(context.Background(), "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestSendNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c := NewClient(srv.URL, nil)
	srv.Close()

	_, err := c.Send(context.Background(), "q")
	require.Error(t, err)
}

func TestHistory(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/history", r.URL.Path)
		_, _ = w.Write([]byte(`{"history":{"Older":[],"Today":[{"type":"User","message":"x"},{"type":"Bot","message":"y"}]}}`))
	})

	p, err := c.History(context.Background())
	require.NoError(t, err)
	require.Len(t, p[history.Today], 2)
	assert.Equal(t, history.Entry{Type: history.EntryUser, Message: "x"}, p[history.Today][0])
	assert.Empty(t, p[history.Older])
	assert.Empty(t, p[history.Yesterday])
}

func TestHistoryMissingKey(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	p, err := c.History(context.Background())
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestDeleteHistoryItem(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/delete-history-item", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "it's", body["message"])
		_, _ = w.Write([]byte(`{"status":"success"}`))
	})

	require.NoError(t, c.DeleteHistoryItem(context.Background(), "it's"))
}

func TestClearHistory(t *testing.T) {
	var called atomic.Bool
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		called.Store(true)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/clear-history", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.ClearHistory(context.Background()))
	assert.True(t, called.Load())
}
