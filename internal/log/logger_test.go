package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestForComponentTagsRecords(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	defer slog.SetDefault(prev)
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))

	ForComponent(ComponentWorker).Info("reminder delivered", FieldInvoiceID, "i1")

	out := buf.String()
	if !strings.Contains(out, FieldComponent+"="+ComponentWorker) {
		t.Errorf("missing component tag: %q", out)
	}
	if !strings.Contains(out, FieldInvoiceID+"=i1") {
		t.Errorf("missing invoice field: %q", out)
	}
}

func TestInitSetsDefault(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	ctx := context.Background()
	logger := Init(slog.LevelWarn)
	if logger == nil {
		t.Fatal("Init returned nil")
	}
	if logger.Enabled(ctx, slog.LevelInfo) {
		t.Error("info should be disabled at warn level")
	}
	if !logger.Enabled(ctx, slog.LevelWarn) {
		t.Error("warn should be enabled at warn level")
	}
	if slog.Default().Enabled(ctx, slog.LevelInfo) {
		t.Error("default logger should carry the configured level")
	}
}
