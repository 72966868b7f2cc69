// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 RPGVault Contributors

package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/rpgvault/rpgvault/internal/logging"
)

func TestSetup_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.Setup("rpgvault", "1.0.0", "json", &buf)

	logger.Info("hello", "key", "value")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "rpgvault", entry["service"])
	assert.Equal(t, "1.0.0", entry["version"])
	assert.Equal(t, "value", entry["key"])
}

func TestSetup_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.Setup("rpgvault", "dev", "text", &buf)

	logger.Info("hello")

	out := buf.String()
	assert.True(t, strings.Contains(out, "msg=hello"))
	assert.True(t, strings.Contains(out, "service=rpgvault"))
}

func TestSetup_AddsTraceContext(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.Setup("rpgvault", "dev", "json", &buf)

	traceID, err := trace.TraceIDFromHex("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("0123456789abcdef")
	require.NoError(t, err)

	spanCtx := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), spanCtx)

	logger.InfoContext(ctx, "traced")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, traceID.String(), entry["trace_id"])
	assert.Equal(t, spanID.String(), entry["span_id"])
}

func TestSetDefault_InstallsReturnedLogger(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	logger := logging.SetDefault("rpgvault", "dev", "json")
	require.NotNil(t, logger)
	assert.Same(t, logger, slog.Default())
}

func TestSetup_NoTraceContextWithoutSpan(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.Setup("rpgvault", "dev", "json", &buf)

	logger.InfoContext(context.Background(), "untraced")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.NotContains(t, entry, "trace_id")
	assert.NotContains(t, entry, "span_id")
}
