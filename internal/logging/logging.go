// Package logging adapts rs/zerolog to the cognite.Logger and
// transport.Logger interfaces, following the structured-logging style of
// the rest of the corpus: one service-scoped logger, pretty console output
// in dev, JSON everywhere else.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/cognitedata-community/cognite-sdk-go/internal/transport"
	"github.com/cognitedata-community/cognite-sdk-go/pkg/cognite"
)

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
}

// Zerolog wraps a zerolog.Logger so it satisfies both cognite.Logger and
// transport.Logger, letting one logger instance be threaded through the
// client builder and the transport layer underneath it.
type Zerolog struct {
	logger zerolog.Logger
}

// New builds a Zerolog logger scoped to service, writing JSON to stderr.
// Pretty-printed console output is used instead when pretty is true, for
// local development.
func New(service string, pretty bool) Zerolog {
	base := zerolog.New(os.Stderr).With().Timestamp().Str("service", service).Logger()

	if pretty {
		base = base.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	}

	return Zerolog{logger: base}
}

// Wrap adapts an already-configured zerolog.Logger, e.g. one shared with
// the rest of a host application.
func Wrap(logger zerolog.Logger) Zerolog {
	return Zerolog{logger: logger}
}

func (z Zerolog) Debug(msg string, fields map[string]interface{}) {
	z.event(z.logger.Debug(), fields).Msg(msg)
}

func (z Zerolog) Info(msg string, fields map[string]interface{}) {
	z.event(z.logger.Info(), fields).Msg(msg)
}

func (z Zerolog) Warn(msg string, fields map[string]interface{}) {
	z.event(z.logger.Warn(), fields).Msg(msg)
}

func (z Zerolog) Error(msg string, fields map[string]interface{}) {
	z.event(z.logger.Error(), fields).Msg(msg)
}

func (z Zerolog) event(e *zerolog.Event, fields map[string]interface{}) *zerolog.Event {
	if len(fields) == 0 {
		return e
	}

	return e.Fields(fields)
}

var (
	_ cognite.Logger   = Zerolog{}
	_ transport.Logger = Zerolog{}
)
