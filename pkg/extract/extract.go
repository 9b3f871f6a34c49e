package extract

import (
	"context"
	"fmt"
	"reflect"
	"strings"
)

// Sink receives diagnostic artifacts for failed or repaired extractions.
// See the diagsink package for the file-backed implementation.
type Sink interface {
	// WriteFailed persists the raw completion alongside the sanitized
	// candidate that was last fed to the parser. The candidate is empty when
	// no payload was located at all.
	WriteFailed(schema, raw, sanitized string) (string, error)
	// WriteRepair persists the repair trace of an attempt.
	WriteRepair(schema string, attempts []RepairAttempt) (string, error)
}

// Extractor converts raw completion text into schema-shaped values. All
// methods are safe for concurrent use.
type Extractor struct {
	cfg    *Config
	logger Logger
	sink   Sink
	cache  *Cache
}

// Option customises an Extractor.
type Option func(*Extractor)

// WithLogger overrides the logger built from the config log level.
func WithLogger(l Logger) Option {
	return func(e *Extractor) { e.logger = l }
}

// WithSink attaches a diagnostics sink. Without one, failed extractions are
// only logged.
func WithSink(s Sink) Option {
	return func(e *Extractor) { e.sink = s }
}

// WithCache enables result memoisation.
func WithCache(c *Cache) Option {
	return func(e *Extractor) { e.cache = c }
}

// NewExtractor builds an extractor from cfg, registering any schema files the
// config names. A nil cfg uses DefaultConfig.
func NewExtractor(cfg *Config, opts ...Option) (*Extractor, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Extractor{
		cfg:    cfg.Clone(),
		logger: NewLogger(cfg.LogLevel),
	}
	for _, opt := range opts {
		opt(e)
	}
	for _, path := range cfg.schemaFilePaths() {
		s, err := LoadSchemaFile(path)
		if err != nil {
			return nil, err
		}
		if err := Register(s, nil); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Extract converts raw text into a result for the named schema. It never
// panics and never returns a nil result: every input maps to a Valid,
// Recovered, or Fallback outcome. The optional inputs map is attached to log
// lines for correlation only.
func (e *Extractor) Extract(ctx context.Context, schemaName, raw string, inputs map[string]string) (res *Result) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error(ctx, "extraction panicked", Fields{
				"schema": schemaName,
				"panic":  fmt.Sprint(r),
			})
			res = e.fallbackResult(schemaName, ReasonInternal, fmt.Sprint(r))
		}
	}()

	schema, adapter, ok := Lookup(schemaName)
	if !ok {
		e.logger.Error(ctx, "unknown schema", e.logFields(schemaName, inputs, nil))
		detail := fmt.Sprintf("schema %q not registered", schemaName)
		return &Result{
			Status: StatusFallback,
			Schema: schemaName,
			Value:  map[string]any{"error": fallbackMarker(ReasonUnknownSchema, detail)},
			Reason: ReasonUnknownSchema,
			Detail: detail,
		}
	}

	if e.cache != nil {
		if cached, hit := e.cache.Get(schema.Name, schema.Version, raw); hit {
			e.logger.Debug(ctx, "cache hit", e.logFields(schemaName, inputs, nil))
			return cached
		}
	}

	res = e.extract(ctx, schema, adapter, raw, inputs)
	if e.cache != nil {
		e.cache.Put(schema.Name, schema.Version, raw, res)
	}
	return res
}

func (e *Extractor) extract(ctx context.Context, schema *Schema, adapter AdapterFunc, raw string, inputs map[string]string) *Result {
	if strings.TrimSpace(raw) == "" {
		e.logger.Warn(ctx, "empty completion", e.logFields(schema.Name, inputs, nil))
		return e.fallback(schema, ReasonEmptyInput, "")
	}

	start, end, ok := LocateJSON(raw)
	if !ok {
		e.logger.Warn(ctx, "no json payload found", e.logFields(schema.Name, inputs, nil))
		e.writeFailed(ctx, schema.Name, raw, "")
		return e.fallback(schema, ReasonUnparsable, "no JSON object or array in completion")
	}

	candidate := Sanitize(raw[start:end])
	lastText := candidate

	parsed, err := parseJSON(candidate)
	var attempts []RepairAttempt
	if err != nil {
		repaired, trace := Repair(candidate)
		lastText = repaired
		attempts = truncateAttempts(trace, e.cfg.SnippetLimit)
		parsed, err = parseJSON(repaired)
		if err != nil {
			e.logger.Warn(ctx, "repair failed", e.logFields(schema.Name, inputs, Fields{
				"error":    err.Error(),
				"attempts": len(attempts),
			}))
			e.writeFailed(ctx, schema.Name, raw, lastText)
			e.writeRepair(ctx, schema.Name, attempts)
			res := e.fallback(schema, ReasonUnparsable, err.Error())
			res.Attempts = attempts
			return res
		}
	}

	var warnings []string
	value := parsed
	if adapter != nil {
		value, warnings = adapter(value, schema)
	}
	obj, ok := value.(map[string]any)
	if !ok {
		e.logger.Warn(ctx, "payload is not an object", e.logFields(schema.Name, inputs, Fields{
			"got": fmt.Sprintf("%T", value),
		}))
		e.writeFailed(ctx, schema.Name, raw, lastText)
		res := e.fallback(schema, ReasonSchemaMismatch, fmt.Sprintf("payload is %T, not an object", value))
		res.Attempts = attempts
		return res
	}
	adapted, adaptWarnings := Adapt(obj, schema)
	warnings = append(warnings, adaptWarnings...)

	if err := schema.Check(adapted); err != nil {
		e.logger.Warn(ctx, "schema mismatch", e.logFields(schema.Name, inputs, Fields{
			"error": err.Error(),
		}))
		e.writeFailed(ctx, schema.Name, raw, lastText)
		res := e.fallback(schema, ReasonSchemaMismatch, err.Error())
		res.Attempts = attempts
		return res
	}

	status := StatusRecovered
	if len(warnings) == 0 && valuesEqual(parsed, adapted) {
		status = StatusValid
	}
	e.logger.Info(ctx, "extraction complete", e.logFields(schema.Name, inputs, Fields{
		"status":   string(status),
		"warnings": len(warnings),
		"repairs":  len(attempts),
	}))
	return &Result{
		Status:   status,
		Schema:   schema.Name,
		Value:    adapted,
		Warnings: warnings,
		Attempts: attempts,
	}
}

// ExtractValue decodes the result value into out, which must be a pointer to
// a struct matching the schema. Fallback results decode too: the caller can
// inspect Result.IsFallback to tell placeholder values apart.
func (e *Extractor) ExtractValue(ctx context.Context, schemaName, raw string, inputs map[string]string, out any) (*Result, error) {
	res := e.Extract(ctx, schemaName, raw, inputs)
	if err := DecodeValue(res.Value, out); err != nil {
		return res, err
	}
	return res, nil
}

func (e *Extractor) fallback(schema *Schema, reason Reason, detail string) *Result {
	return &Result{
		Status: StatusFallback,
		Schema: schema.Name,
		Value:  BuildFallback(schema, fallbackMarker(reason, detail)),
		Reason: reason,
		Detail: detail,
	}
}

// fallbackMarker combines the reason code with the triggering error text for
// the value's error marker.
func fallbackMarker(reason Reason, detail string) string {
	if detail == "" {
		return string(reason)
	}
	return string(reason) + ": " + detail
}

// fallbackResult builds a fallback by schema name, tolerating an unknown or
// broken schema. Used from the panic guard where nothing can be trusted.
func (e *Extractor) fallbackResult(schemaName string, reason Reason, detail string) *Result {
	if schema, _, ok := Lookup(schemaName); ok {
		return e.fallback(schema, reason, detail)
	}
	return &Result{
		Status: StatusFallback,
		Schema: schemaName,
		Value:  map[string]any{"error": fallbackMarker(reason, detail)},
		Reason: reason,
		Detail: detail,
	}
}

func (e *Extractor) writeFailed(ctx context.Context, schema, raw, sanitized string) {
	if e.sink == nil {
		return
	}
	path, err := e.sink.WriteFailed(schema, raw, sanitized)
	if err != nil {
		e.logger.Error(ctx, "diagnostics write failed", Fields{
			"schema": schema,
			"error":  err.Error(),
		})
		return
	}
	e.logger.Debug(ctx, "wrote failed payload", Fields{
		"schema": schema,
		"path":   path,
	})
}

func (e *Extractor) writeRepair(ctx context.Context, schema string, attempts []RepairAttempt) {
	if e.sink == nil || len(attempts) == 0 {
		return
	}
	path, err := e.sink.WriteRepair(schema, attempts)
	if err != nil {
		e.logger.Error(ctx, "diagnostics write failed", Fields{
			"schema": schema,
			"error":  err.Error(),
		})
		return
	}
	e.logger.Debug(ctx, "wrote repair trace", Fields{
		"schema": schema,
		"path":   path,
	})
}

func (e *Extractor) logFields(schema string, inputs map[string]string, extra Fields) Fields {
	f := Fields{"schema": schema}
	for k, v := range inputs {
		f["input."+k] = v
	}
	for k, v := range extra {
		f[k] = v
	}
	return f
}

func truncateAttempts(attempts []RepairAttempt, limit int) []RepairAttempt {
	if limit <= 0 {
		return attempts
	}
	out := make([]RepairAttempt, len(attempts))
	for i, a := range attempts {
		a.Before = truncateSnippet(a.Before, limit)
		a.After = truncateSnippet(a.After, limit)
		out[i] = a
	}
	return out
}

func truncateSnippet(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}

// valuesEqual reports whether the adapted value carries the same content the
// parser produced, meaning no coercion was needed.
func valuesEqual(parsed, adapted any) bool {
	return reflect.DeepEqual(parsed, adapted)
}
