package main

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun_LogsStartupFailure(t *testing.T) {
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(previous) })

	t.Setenv("STORAGE_DRIVER", "bogus")

	assert.Equal(t, 1, run([]string{"serve"}))
	out := buf.String()
	assert.Contains(t, out, `"msg":"ledger_backend failed"`)
	assert.Contains(t, out, `unknown STORAGE_DRIVER \"bogus\"`)
}
