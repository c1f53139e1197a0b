package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config opciones para el logger.
type Config struct {
	Env     string // development -> consola legible; production -> JSON
	Level   string // trace, debug, info, warn, error
	Service string // campo "service" en cada línea (api, seed)
}

// Logger wrapper sobre zerolog. Los use cases lo reciben inyectado.
type Logger struct {
	zl zerolog.Logger
}

// New crea el logger del proceso y lo instala como logger global de zerolog.
func New(cfg Config) *Logger {
	var w io.Writer = os.Stdout
	if cfg.Env == "development" {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	}
	l := build(w, cfg)
	log.Logger = l.zl
	return l
}

// NewWithWriter igual que New pero en JSON sobre w y sin tocar el logger global.
func NewWithWriter(w io.Writer, cfg Config) *Logger {
	return build(w, cfg)
}

// Nop descarta todo.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func build(w io.Writer, cfg Config) *Logger {
	ctx := zerolog.New(w).Level(parseLevel(cfg.Level)).With().Timestamp()
	if cfg.Service != "" {
		ctx = ctx.Str("service", cfg.Service)
	}
	return &Logger{zl: ctx.Logger()}
}

// parseLevel acepta los nombres de zerolog; vacío o desconocido es info.
func parseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func (l *Logger) Trace() *zerolog.Event { return l.zl.Trace() }
func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// ForTenant sublogger con tenant_id fijo; todas las operaciones del ledger son por tenant.
func (l *Logger) ForTenant(tenantID string) *Logger {
	return &Logger{zl: l.zl.With().Str("tenant_id", tenantID).Logger()}
}

// With crea un sublogger con campos fijos.
func (l *Logger) With() zerolog.Context {
	return l.zl.With()
}

// Zerolog devuelve el logger interno.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zl
}
