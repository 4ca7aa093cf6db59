package logging

import (
	"encoding/json"
	"time"

	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

var bufferPool = buffer.NewPool()

// ScalyrEncoder outputs one flat JSON object per entry, with the entry
// metadata and every field at the top level
type ScalyrEncoder struct {
	zapcore.Encoder
	config zapcore.EncoderConfig
	// fields added through With() on a derived logger
	context *zapcore.MapObjectEncoder
}

// NewScalyrEncoder creates a new Scalyr-compatible encoder
func NewScalyrEncoder(config zapcore.EncoderConfig) zapcore.Encoder {
	return &ScalyrEncoder{
		Encoder: zapcore.NewJSONEncoder(config),
		config:  config,
		context: zapcore.NewMapObjectEncoder(),
	}
}

// EncodeEntry encodes a log entry in Scalyr-compatible format
func (e *ScalyrEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	enc := zapcore.NewMapObjectEncoder()
	for k, v := range e.context.Fields {
		enc.Fields[k] = v
	}
	for _, f := range fields {
		f.AddTo(enc)
	}

	logObj := enc.Fields
	logObj["timestamp"] = entry.Time.UTC().Format(time.RFC3339Nano)
	logObj["level"] = entry.Level.String()
	logObj["message"] = entry.Message
	if entry.LoggerName != "" {
		logObj["logger"] = entry.LoggerName
	}
	if entry.Caller.Defined {
		logObj["file"] = entry.Caller.File
		logObj["line"] = entry.Caller.Line
		logObj["function"] = entry.Caller.Function
	}
	if entry.Stack != "" {
		logObj["stack"] = entry.Stack
	}

	data, err := json.Marshal(logObj)
	if err != nil {
		return nil, err
	}

	buf := bufferPool.Get()
	buf.AppendBytes(data)
	if e.config.LineEnding != "" {
		buf.AppendString(e.config.LineEnding)
	} else {
		buf.AppendString(zapcore.DefaultLineEnding)
	}
	return buf, nil
}

// Clone creates a copy of the encoder
func (e *ScalyrEncoder) Clone() zapcore.Encoder {
	ctx := zapcore.NewMapObjectEncoder()
	for k, v := range e.context.Fields {
		ctx.Fields[k] = v
	}
	return &ScalyrEncoder{
		Encoder: e.Encoder.Clone(),
		config:  e.config,
		context: ctx,
	}
}

// Fields attached with logger.With() arrive through the ObjectEncoder
// methods below. Only scalar kinds are kept for the flat output.

// AddString records a context field on the encoder
func (e *ScalyrEncoder) AddString(key, value string) {
	e.Encoder.AddString(key, value)
	e.context.AddString(key, value)
}

// AddInt64 records a context field on the encoder
func (e *ScalyrEncoder) AddInt64(key string, value int64) {
	e.Encoder.AddInt64(key, value)
	e.context.AddInt64(key, value)
}

// AddBool records a context field on the encoder
func (e *ScalyrEncoder) AddBool(key string, value bool) {
	e.Encoder.AddBool(key, value)
	e.context.AddBool(key, value)
}
