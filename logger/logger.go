// Package logger adapts go.uber.org/zap to the journal: log output is
// submitted as structured entries with syslog priorities and source
// location fields, instead of being rendered to a stream.
package logger

import (
	"fmt"
	"sort"
	"strconv"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jeffrom/journald/config"
	"github.com/jeffrom/journald/journal"
	"github.com/jeffrom/journald/protocol"
)

// Core is a zapcore.Core that submits each log entry to the journal daemon.
type Core struct {
	zapcore.LevelEnabler
	w      *journal.Writer
	fields []zapcore.Field
}

// NewCore returns a Core writing through w at levels enab allows.
func NewCore(w *journal.Writer, enab zapcore.LevelEnabler) *Core {
	return &Core{LevelEnabler: enab, w: w}
}

// New returns a zap logger submitting to the journal daemon configured in
// conf.
func New(conf *config.Config, opts ...zap.Option) (*zap.Logger, error) {
	w, err := journal.NewWriter(conf)
	if err != nil {
		return nil, err
	}
	opts = append([]zap.Option{zap.AddCaller()}, opts...)
	return zap.New(NewCore(w, zapcore.InfoLevel), opts...), nil
}

// With adds structured context to the core.
func (c *Core) With(fields []zapcore.Field) zapcore.Core {
	clone := &Core{
		LevelEnabler: c.LevelEnabler,
		w:            c.w,
		fields:       make([]zapcore.Field, 0, len(c.fields)+len(fields)),
	}
	clone.fields = append(clone.fields, c.fields...)
	clone.fields = append(clone.fields, fields...)
	return clone
}

// Check determines whether the entry should be logged.
func (c *Core) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

// Write submits the log entry as a journal entry. Structured fields are
// uppercased to fit the daemon's field-name rules.
func (c *Core) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	e := protocol.NewEntry()
	if err := e.AppendString(protocol.FieldPriority, priorityOf(ent.Level).String()); err != nil {
		return err
	}
	if err := e.AppendString(protocol.FieldMessage, ent.Message); err != nil {
		return err
	}
	if ent.LoggerName != "" {
		if err := e.AppendString("SYSLOG_IDENTIFIER", ent.LoggerName); err != nil {
			return err
		}
	}
	if ent.Caller.Defined {
		if err := e.AppendString("CODE_FILE", ent.Caller.File); err != nil {
			return err
		}
		if err := e.AppendString("CODE_LINE", strconv.Itoa(ent.Caller.Line)); err != nil {
			return err
		}
		if fn := ent.Caller.Function; fn != "" {
			if err := e.AppendString("CODE_FUNC", fn); err != nil {
				return err
			}
		}
	}

	enc := zapcore.NewMapObjectEncoder()
	for _, f := range c.fields {
		f.AddTo(enc)
	}
	for _, f := range fields {
		f.AddTo(enc)
	}

	// map iteration order is random; sort for stable entries
	keys := make([]string, 0, len(enc.Fields))
	for k := range enc.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := e.AppendString(FieldName(k), fmt.Sprint(enc.Fields[k])); err != nil {
			return err
		}
	}

	return c.w.Submit(e)
}

// Sync is a no-op; submissions are unbuffered datagrams.
func (c *Core) Sync() error {
	return nil
}

func priorityOf(l zapcore.Level) journal.Priority {
	switch l {
	case zapcore.DebugLevel:
		return journal.PriDebug
	case zapcore.InfoLevel:
		return journal.PriInfo
	case zapcore.WarnLevel:
		return journal.PriWarning
	case zapcore.ErrorLevel:
		return journal.PriErr
	case zapcore.DPanicLevel, zapcore.PanicLevel:
		return journal.PriCrit
	case zapcore.FatalLevel:
		return journal.PriEmerg
	}
	return journal.PriNotice
}

// FieldName maps an arbitrary key onto the daemon's restricted field-name
// character set: uppercased, disallowed bytes replaced with underscore, a
// leading digit prefixed.
func FieldName(k string) string {
	if k == "" {
		return "FIELD"
	}
	b := make([]byte, 0, len(k))
	for i := 0; i < len(k); i++ {
		c := k[i]
		switch {
		case c >= 'a' && c <= 'z':
			c -= 'a' - 'A'
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_':
		default:
			c = '_'
		}
		b = append(b, c)
	}
	if b[0] >= '0' && b[0] <= '9' {
		b = append([]byte("X"), b...)
	}
	return string(b)
}
