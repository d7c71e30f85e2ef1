package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/marketsnap-inventory/pkg/logger"
)

func TestFromWriter_JSONConNivelYComponente(t *testing.T) {
	var buf bytes.Buffer
	log := logger.FromWriter(&buf, "warn").Named("ledger_audit")

	log.Info().Msg("descartado por nivel")
	log.Warn().Str("store_id", "s1").Msg("snapshot corregido")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line), "una sola línea JSON")
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "ledger_audit", line["component"])
	assert.Equal(t, "s1", line["store_id"])
	assert.Equal(t, "snapshot corregido", line["message"])
}
