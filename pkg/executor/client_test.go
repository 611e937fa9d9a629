package executor_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbithq/orbit/pkg/executor"
)

func TestClientExecute(t *testing.T) {
	var received executor.Payload

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/action", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response": "Email sent to ada@example.com"}`))
	}))
	defer server.Close()

	client := executor.NewClient(server.URL, nil)

	response, err := client.Execute(context.Background(), executor.Payload{
		Action:  "email",
		Address: "ada@example.com",
		Message: "Hello",
	})

	require.NoError(t, err)
	assert.Equal(t, "Email sent to ada@example.com", response)
	assert.Equal(t, "email", received.Action)
	assert.Equal(t, "ada@example.com", received.Address)
}

func TestClientExecuteNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := executor.NewClient(server.URL, nil)

	_, err := client.Execute(context.Background(), executor.Payload{Action: "email"})
	require.Error(t, err)

	var transportErr *executor.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, http.StatusInternalServerError, transportErr.StatusCode)
}

func TestClientExecuteMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := executor.NewClient(server.URL, nil)

	_, err := client.Execute(context.Background(), executor.Payload{Action: "email"})
	assert.Error(t, err)
}

func TestClientExecuteConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := executor.NewClient(server.URL, nil)

	_, err := client.Execute(context.Background(), executor.Payload{Action: "email"})
	assert.Error(t, err)
}
