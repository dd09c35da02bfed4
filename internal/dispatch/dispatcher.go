package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"trendmcp/internal/models"
	"trendmcp/internal/query"
	"trendmcp/internal/upstream"
)

// Call outcomes reported to the Recorder.
const (
	OutcomeOK         = "ok"
	OutcomeValidation = "validation_error"
	OutcomeTransport  = "transport_error"
	OutcomeUnknown    = "unknown_tool"
)

// Executor performs one outbound GET and returns the decoded body.
type Executor interface {
	Execute(ctx context.Context, rawURL string) (any, error)
}

// Recorder receives per-call measurements.
type Recorder interface {
	RecordToolCall(tool, outcome string, latency time.Duration)
	RecordUpstreamError(endpoint, kind string)
}

// Dispatcher turns tool invocations into upstream queries.
// It holds only read-only state and is safe for concurrent use.
type Dispatcher struct {
	registry *Registry
	executor Executor
	creds    query.Credentials
	recorder Recorder
	logger   *slog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(d *Dispatcher) {
		d.recorder = r
	}
}

// New creates a dispatcher over registry.
func New(registry *Registry, executor Executor, creds query.Credentials, logger *slog.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		executor: executor,
		creds:    creds,
		logger:   logger.With("component", "dispatcher"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Registry returns the tool table the dispatcher serves.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Dispatch runs toolName with args and returns the canonical envelope.
func (d *Dispatcher) Dispatch(ctx context.Context, toolName string, args map[string]any) models.APIResult {
	res, _ := d.Call(ctx, toolName, args)
	return res
}

// Call is Dispatch plus the typed cause of a failed envelope, so callers can
// tell validation failures from transport failures.
func (d *Dispatcher) Call(ctx context.Context, toolName string, args map[string]any) (models.APIResult, error) {
	start := time.Now()

	tool, ok := d.registry.Lookup(toolName)
	if !ok {
		err := fmt.Errorf("%w: %s", ErrUnknownTool, toolName)
		d.record(toolName, OutcomeUnknown, start)
		return models.Failure(err.Error()), err
	}

	params, err := extractParams(tool.Endpoint, args)
	if err != nil {
		d.logger.DebugContext(ctx, "tool_arguments_rejected", "tool_name", toolName, "error", err)
		d.record(toolName, OutcomeValidation, start)
		return models.Failure(err.Error()), err
	}

	raw, err := d.executor.Execute(ctx, query.Build(tool.Endpoint, params, d.creds))
	if err != nil {
		if d.recorder != nil {
			kind := "unknown"
			var terr *upstream.TransportError
			if errors.As(err, &terr) {
				kind = string(terr.Kind)
			}
			d.recorder.RecordUpstreamError(tool.Endpoint.Key, kind)
		}
		d.record(toolName, OutcomeTransport, start)
		return models.Failure(err.Error()), err
	}

	d.record(toolName, OutcomeOK, start)
	return upstream.Normalize(raw, tool.Endpoint.ListKey), nil
}

func (d *Dispatcher) record(tool, outcome string, start time.Time) {
	if d.recorder != nil {
		d.recorder.RecordToolCall(tool, outcome, time.Since(start))
	}
}

// extractParams checks presence of every required argument first, then the
// validity of each supplied date.
func extractParams(spec models.EndpointSpec, args map[string]any) (models.QueryParams, error) {
	var params models.QueryParams
	if !spec.RequiresKeyword {
		return params, nil
	}

	var err error
	if params.Keyword, err = stringArg(args, query.ParamKeyword); err != nil {
		return params, err
	}
	if params.FromDate, err = stringArg(args, query.ParamFromDate); err != nil {
		return params, err
	}
	if params.ToDate, err = stringArg(args, query.ParamToDate); err != nil {
		return params, err
	}

	if params.Keyword == "" {
		return params, &MissingParameterError{Name: query.ParamKeyword}
	}
	if spec.RequiresDates {
		if params.FromDate == "" {
			return params, &MissingParameterError{Name: query.ParamFromDate}
		}
		if params.ToDate == "" {
			return params, &MissingParameterError{Name: query.ParamToDate}
		}
	}

	for _, date := range []string{params.FromDate, params.ToDate} {
		if date == "" {
			continue
		}
		if _, err := query.ValidateDate(date); err != nil {
			return params, err
		}
	}

	return params, nil
}

// stringArg returns "" for absent, null or blank arguments.
func stringArg(args map[string]any, name string) (string, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", &InvalidParameterError{Name: name, Reason: "must be a string"}
	}
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	return s, nil
}
