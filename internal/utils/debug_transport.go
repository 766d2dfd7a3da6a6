package utils

import (
	"bytes"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// DebugTransport wraps an http.RoundTripper and logs, at info level, every
// request with its body and the response status.
type DebugTransport struct {
	Transport http.RoundTripper
	Logger    *zap.Logger
}

// RoundTrip implements http.RoundTripper interface
func (d *DebugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	fields := []zap.Field{zap.String("method", req.Method), zap.String("url", req.URL.String())}

	if req.Body != nil && req.ContentLength > 0 {
		bodyBytes, err := io.ReadAll(req.Body)
		if err == nil {
			req.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
			bodyStr := string(bodyBytes)
			if len(bodyStr) > 5000 {
				bodyStr = bodyStr[:5000] + "... [truncated]"
			}
			fields = append(fields, zap.String("body", bodyStr))
		}
	}
	d.Logger.Info("outgoing request", fields...)

	resp, err := d.Transport.RoundTrip(req)
	if err == nil {
		d.Logger.Info("response received", zap.String("url", req.URL.String()), zap.Int("status", resp.StatusCode))
	}
	return resp, err
}

// WrapClientWithDebug wraps an http.Client with debug logging if debug is enabled
func WrapClientWithDebug(client *http.Client, debug bool, logger *zap.Logger) *http.Client {
	if !debug || logger == nil {
		return client
	}

	transport := client.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	return &http.Client{
		Transport: &DebugTransport{Transport: transport, Logger: logger},
		Timeout:   client.Timeout,
	}
}
