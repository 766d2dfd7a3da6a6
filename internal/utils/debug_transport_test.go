package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDebugTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	core, logs := observer.New(zapcore.DebugLevel)
	client := WrapClientWithDebug(&http.Client{}, true, zap.New(core))

	resp, err := client.Post(srv.URL+"/query", "application/json", strings.NewReader(`{"query":"traces"}`))
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, `{"query":"traces"}`, logs.All()[0].ContextMap()["body"])
	assert.EqualValues(t, http.StatusTeapot, logs.All()[1].ContextMap()["status"])

	plain := &http.Client{}
	assert.Same(t, plain, WrapClientWithDebug(plain, false, zap.NewNop()))
}
