package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

func TestForTenant_AgregaServicioYTenant(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, logger.Config{Level: "info", Service: "api"})
	log.ForTenant("tenant-1").Info().Str("item_id", "i-1").Msg("movimiento registrado")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "api", line["service"])
	assert.Equal(t, "tenant-1", line["tenant_id"])
	assert.Equal(t, "i-1", line["item_id"])
	assert.Equal(t, "info", line["level"])
}

func TestNivel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, logger.Config{Level: "warn"})
	log.Info().Msg("descartado")
	assert.Zero(t, buf.Len())
	log.Warn().Msg("visible")
	assert.Contains(t, buf.String(), "visible")

	buf.Reset()
	def := logger.NewWithWriter(&buf, logger.Config{Level: "desconocido"})
	def.Debug().Msg("descartado")
	def.Info().Msg("visible")
	assert.NotContains(t, buf.String(), "descartado")
	assert.NotContains(t, buf.String(), `"service"`)
}
