package utils

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// LoggingTransport is an http.RoundTripper that logs requests and responses
// at debug level, redacting the NetBox token header.
type LoggingTransport struct {
	Logger      *zap.Logger
	Transport   http.RoundTripper
	MaxBodySize int
}

// RoundTrip implements http.RoundTripper.
func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.Logger.Debug("Sending request",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.String("headers", headersToString(req.Header)),
	)

	if req.Body != nil {
		reqBodyBytes, err := io.ReadAll(req.Body)
		if err != nil {
			t.Logger.Error("Failed to read request body", zap.Error(err))
			return nil, err
		}
		req.Body = io.NopCloser(bytes.NewBuffer(reqBodyBytes))
		t.Logger.Debug("Request body", zap.ByteString("body", t.truncateBody(reqBodyBytes)))
	}

	start := time.Now()
	resp, err := t.Transport.RoundTrip(req)
	duration := time.Since(start)

	if err != nil {
		t.Logger.Error("Request failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Error(err),
			zap.Duration("duration", duration),
		)
		return resp, err
	}

	t.Logger.Debug("Received response",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	if resp.Body != nil {
		respBodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Logger.Error("Failed to read response body", zap.Error(err))
			return nil, err
		}
		resp.Body = io.NopCloser(bytes.NewBuffer(respBodyBytes))
		t.Logger.Debug("Response body", zap.ByteString("body", t.truncateBody(respBodyBytes)))
	}

	return resp, nil
}

// headersToString renders headers as a single line, redacting credentials.
func headersToString(headers http.Header) string {
	var buf strings.Builder
	for key, values := range headers {
		lowerKey := strings.ToLower(key)
		if lowerKey == "authorization" || lowerKey == "x-api-key" {
			buf.WriteString(fmt.Sprintf("%s: [REDACTED]; ", key))
			continue
		}
		for _, value := range values {
			buf.WriteString(fmt.Sprintf("%s: %s; ", key, value))
		}
	}
	return buf.String()
}

func (t *LoggingTransport) truncateBody(body []byte) []byte {
	if len(body) > t.MaxBodySize {
		return []byte(fmt.Sprintf("[body too large to log, size: %d bytes]", len(body)))
	}
	return body
}
