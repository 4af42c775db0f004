// Package router implements the protocol dispatcher: it classifies inbound
// messages as notifications or requests, routes requests by method name, and
// wraps handler output in protocol-compliant envelopes.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tedpecoulas/claude-skills-mcp/internal/domain"
	"github.com/tedpecoulas/claude-skills-mcp/internal/infra/telemetry"
)

// ContentFetcher resolves a skill identifier to its markdown content.
type ContentFetcher interface {
	Fetch(ctx context.Context, name string) (string, error)
}

type handlerFunc func(ctx context.Context, params json.RawMessage) (any, error)

type Options struct {
	Logger  *zap.Logger
	Metrics domain.Metrics
}

type Dispatcher struct {
	catalog *domain.Catalog
	fetcher ContentFetcher
	logger  *zap.Logger
	metrics domain.Metrics
	routes  map[string]handlerFunc
}

func NewDispatcher(catalog *domain.Catalog, fetcher ContentFetcher, opts Options) *Dispatcher {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = telemetry.NewNoopMetrics()
	}

	d := &Dispatcher{
		catalog: catalog,
		fetcher: fetcher,
		logger:  logger.Named("router"),
		metrics: metrics,
	}
	d.routes = map[string]handlerFunc{
		"initialize":     d.handleInitialize,
		"ping":           d.handlePing,
		"tools/list":     d.handleListTools,
		"tools/call":     d.handleCallTool,
		"resources/list": d.handleListResources,
		"resources/read": d.handleReadResource,
	}
	return d
}

// Dispatch handles one inbound message to completion. It returns nil for
// notifications, which produce no response envelope, and a response for
// every request, including malformed ones.
func (d *Dispatcher) Dispatch(ctx context.Context, raw []byte) *domain.Response {
	var msg domain.Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return domain.NewErrorResponse(nil,
			domain.NewProtocolError(domain.ErrCodeParse, fmt.Sprintf("parse error: %v", err)))
	}

	if msg.IsNotification() {
		d.handleNotification(&msg)
		return nil
	}
	return d.handleRequest(ctx, &msg)
}

// Notifications are acknowledged and swallowed: with no identifier there is
// no response to correlate an error to, so unrecognized names are never
// treated as failures.
func (d *Dispatcher) handleNotification(msg *domain.Message) {
	switch msg.Method {
	case "notifications/initialized", "notifications/cancelled":
		d.logger.Debug("notification acknowledged",
			telemetry.EventField(telemetry.EventNotification),
			telemetry.MethodField(msg.Method),
		)
	default:
		d.logger.Debug("unrecognized notification ignored",
			telemetry.EventField(telemetry.EventNotification),
			telemetry.MethodField(msg.Method),
		)
	}
}

func (d *Dispatcher) handleRequest(ctx context.Context, msg *domain.Message) (resp *domain.Response) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic in handler: %v", r)
			d.logRequestError(msg.Method, start, err)
			d.metrics.ObserveRequest(msg.Method, time.Since(start), err)
			resp = domain.NewErrorResponse(msg.ID,
				domain.NewProtocolError(domain.ErrCodeInternal, "internal error"))
		}
	}()

	if msg.Method == "" {
		err := domain.NewProtocolError(domain.ErrCodeInvalidRequest, "invalid request: method is required")
		d.logRequestError(msg.Method, start, err)
		d.metrics.ObserveRequest(msg.Method, time.Since(start), err)
		return domain.NewErrorResponse(msg.ID, err)
	}

	handler, ok := d.routes[msg.Method]
	if !ok {
		err := domain.NewProtocolError(domain.ErrCodeMethodNotFound, fmt.Sprintf("method not found: %s", msg.Method))
		d.logRequestError(msg.Method, start, err)
		d.metrics.ObserveRequest(msg.Method, time.Since(start), err)
		return domain.NewErrorResponse(msg.ID, err)
	}

	result, err := handler(ctx, msg.Params)
	if err != nil {
		perr := toProtocolError(err)
		d.logRequestError(msg.Method, start, err)
		d.metrics.ObserveRequest(msg.Method, time.Since(start), err)
		return domain.NewErrorResponse(msg.ID, perr)
	}

	envelope, err := domain.NewResult(msg.ID, result)
	if err != nil {
		d.logRequestError(msg.Method, start, err)
		d.metrics.ObserveRequest(msg.Method, time.Since(start), err)
		return domain.NewErrorResponse(msg.ID,
			domain.NewProtocolError(domain.ErrCodeInternal, "internal error"))
	}

	d.metrics.ObserveRequest(msg.Method, time.Since(start), nil)
	d.logger.Debug("request handled",
		telemetry.EventField(telemetry.EventRequest),
		telemetry.MethodField(msg.Method),
		telemetry.DurationField(time.Since(start)),
	)
	return envelope
}

func (d *Dispatcher) logRequestError(method string, start time.Time, err error) {
	d.logger.Warn("request failed",
		telemetry.EventField(telemetry.EventRequestError),
		telemetry.MethodField(method),
		telemetry.DurationField(time.Since(start)),
		zap.Error(err),
	)
}

// toProtocolError maps handler errors onto JSON-RPC error objects. Handlers
// that need a specific wire code return a ProtocolError directly; domain
// errors and sentinels are classified through CodeFrom, everything else is
// an internal failure.
func toProtocolError(err error) *domain.ProtocolError {
	var perr *domain.ProtocolError
	if errors.As(err, &perr) {
		return perr
	}

	message := err.Error()
	var domainErr *domain.Error
	if errors.As(err, &domainErr) && domainErr.Message != "" {
		message = domainErr.Message
	}

	if code, ok := domain.CodeFrom(err); ok {
		switch code {
		case domain.CodeInvalidArgument, domain.CodeNotFound:
			return domain.NewProtocolError(domain.ErrCodeInvalidParams, message)
		}
	}
	return domain.NewProtocolError(domain.ErrCodeInternal, message)
}

func (d *Dispatcher) handleInitialize(_ context.Context, params json.RawMessage) (any, error) {
	var p domain.InitializeParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, domain.NewProtocolError(domain.ErrCodeInvalidParams, fmt.Sprintf("invalid initialize params: %v", err))
		}
	}

	// Negotiation-free: the proposed version is echoed back, never rejected.
	version := p.ProtocolVersion
	if version == "" {
		version = domain.DefaultProtocolVersion
	}

	return domain.InitializeResult{
		ProtocolVersion: version,
		Capabilities: domain.ServerCapabilities{
			Resources: map[string]any{},
			Tools:     map[string]any{},
		},
		ServerInfo: domain.ServerInfo{
			Name:    domain.ServerName,
			Version: domain.ServerVersion,
		},
	}, nil
}

func (d *Dispatcher) handlePing(context.Context, json.RawMessage) (any, error) {
	return map[string]any{}, nil
}

func (d *Dispatcher) handleListResources(context.Context, json.RawMessage) (any, error) {
	skills := d.catalog.All()
	resources := make([]domain.ResourceDescriptor, 0, len(skills))
	for _, skill := range skills {
		resources = append(resources, domain.ResourceDescriptor{
			URI:         skill.URI(),
			Name:        fmt.Sprintf("Claude Skill: %s", skill.Name),
			Description: skill.Description,
			MIMEType:    domain.SkillMIMEType,
		})
	}
	return domain.ListResourcesResult{Resources: resources}, nil
}

func (d *Dispatcher) handleReadResource(ctx context.Context, params json.RawMessage) (any, error) {
	var p domain.ReadResourceParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, domain.NewProtocolError(domain.ErrCodeInvalidParams, fmt.Sprintf("invalid resources/read params: %v", err))
	}

	// URI shape is checked before any fetch is attempted.
	name, ok := domain.ParseSkillURI(p.URI)
	if !ok {
		return nil, domain.NewProtocolError(domain.ErrCodeInvalidParams,
			fmt.Sprintf("invalid resource uri %q, expected format: skill://<name>", p.URI))
	}

	content, err := d.fetcher.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}

	return domain.ReadResourceResult{
		Contents: []domain.ResourceContents{{
			URI:      p.URI,
			MIMEType: domain.SkillMIMEType,
			Text:     content,
		}},
	}, nil
}
