package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	namesmetrics "whoami/internal/names/metrics"
	"whoami/internal/names/models"
	"whoami/pkg/domain"
	dErrors "whoami/pkg/domain-errors"
	"whoami/pkg/platform/sentinel"
	"whoami/pkg/requestcontext"
)

// NameStore persists name records and the registry-wide token counter.
type NameStore interface {
	CreateIfAbsent(ctx context.Context, n *models.Name) error
	FindByID(ctx context.Context, id string) (*models.Name, error)
	Update(ctx context.Context, n *models.Name) error
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) (int, error)
	ListByOwner(ctx context.Context, owner domain.Address, filter models.ListFilter) ([]*models.Name, error)
	ListAll(ctx context.Context, filter models.ListFilter) ([]*models.Name, error)
	CountByOwner(ctx context.Context, owner domain.Address) (int, error)
	FindByContractAddress(ctx context.Context, addr domain.Address) (*models.Name, error)
	AddTokens(ctx context.Context, delta int64) (uint64, error)
	TokenCount(ctx context.Context) (uint64, error)
}

// OperatorStore persists registry-wide operator grants.
type OperatorStore interface {
	Upsert(ctx context.Context, op models.Operator) error
	Find(ctx context.Context, owner, operator domain.Address) (*models.Operator, error)
	Delete(ctx context.Context, owner, operator domain.Address) error
}

// AliasStore maps owners to their explicitly chosen primary alias.
type AliasStore interface {
	Get(ctx context.Context, owner domain.Address) (string, error)
	Set(ctx context.Context, owner domain.Address, id string) error
	Clear(ctx context.Context, owner domain.Address) error
}

// SettingsStore persists the registry settings.
type SettingsStore interface {
	Load(ctx context.Context) (*models.Settings, error)
	Save(ctx context.Context, settings *models.Settings) error
}

// Outbox records outbound messages in the same transaction as the state change.
type Outbox interface {
	Append(ctx context.Context, entries ...*models.OutboxEntry) error
}

// ContractChecker decides whether an address is a contract that should be
// notified when it receives a name.
type ContractChecker interface {
	IsContract(ctx context.Context, addr domain.Address) (bool, error)
}

// Service is the registry lifecycle coordinator. Every write runs inside one
// StoreTx so that validation, mutation and cleanup commit together.
type Service struct {
	names     NameStore
	operators OperatorStore
	aliases   AliasStore
	settings  SettingsStore
	outbox    Outbox
	contracts ContractChecker
	tx        StoreTx
	logger    *slog.Logger
	metrics   *namesmetrics.Metrics
	tracer    trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *namesmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithOutbox records settlement and notification messages for relay.
func WithOutbox(outbox Outbox) Option {
	return func(s *Service) {
		s.outbox = outbox
	}
}

// WithContractChecker overrides contract detection for SendNft. A nil checker
// makes every send notify its recipient.
func WithContractChecker(checker ContractChecker) Option {
	return func(s *Service) {
		s.contracts = checker
	}
}

// WithTx sets the transaction boundary. Defaults to a process-local lock.
func WithTx(tx StoreTx) Option {
	return func(s *Service) {
		s.tx = tx
	}
}

// New constructs the registry service.
func New(names NameStore, operators OperatorStore, aliases AliasStore, settings SettingsStore, opts ...Option) (*Service, error) {
	if names == nil {
		return nil, errors.New("names store is required")
	}
	if operators == nil {
		return nil, errors.New("operators store is required")
	}
	if aliases == nil {
		return nil, errors.New("aliases store is required")
	}
	if settings == nil {
		return nil, errors.New("settings store is required")
	}
	s := &Service{
		names:     names,
		operators: operators,
		aliases:   aliases,
		settings:  settings,
		tracer:    otel.Tracer("whoami/names"),
	}
	s.contracts = registeredContracts{names: names}
	for _, opt := range opts {
		opt(s)
	}
	if s.tx == nil {
		s.tx = NewInMemoryTx(0)
	}
	return s, nil
}

// registeredContracts treats an address as a contract when some name
// declares it in its contract_address profile field.
type registeredContracts struct {
	names NameStore
}

func (c registeredContracts) IsContract(ctx context.Context, addr domain.Address) (bool, error) {
	_, err := c.names.FindByContractAddress(ctx, addr)
	if errors.Is(err, sentinel.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// operation wraps a public method with a span, a duration observation and a
// rejection counter keyed by error code.
func (s *Service) operation(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, func(*error)) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "names."+name, trace.WithAttributes(attrs...))
	return ctx, func(errp *error) {
		if err := *errp; err != nil {
			code := dErrors.GetCode(err)
			span.RecordError(err)
			span.SetStatus(codes.Error, string(code))
			if s.metrics != nil {
				s.metrics.IncrementRejected(name, string(code))
			}
		}
		if s.metrics != nil {
			s.metrics.ObserveOperation(name, start)
		}
		span.End()
	}
}

func (s *Service) logAudit(ctx context.Context, event string, attributes ...any) {
	if s.logger == nil {
		return
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	if ip := requestcontext.ClientIP(ctx); ip != "" {
		attributes = append(attributes, "client_ip", ip)
	}
	if agent := requestcontext.ClientAgent(ctx); agent != "" {
		attributes = append(attributes, "client_agent", agent)
	}
	args := append(attributes, "event", event, "log_type", "audit")
	s.logger.InfoContext(ctx, event, args...)
}

// bindDocument ties the DID document in md, if any, to id under the
// registry's DID method.
func (s *Service) bindDocument(ctx context.Context, md models.Metadata, id string) (models.Metadata, error) {
	if md.Document == nil {
		return md, nil
	}
	settings, err := s.loadSettings(ctx)
	if err != nil {
		return md, err
	}
	return md.BindDocument(settings.Method(), id)
}

// loadSettings reads the settings or fails with an internal error when the
// registry was never instantiated.
func (s *Service) loadSettings(ctx context.Context) (*models.Settings, error) {
	settings, err := s.settings.Load(ctx)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeInternal, "registry is not instantiated")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load settings")
	}
	return settings, nil
}

// loadName reads a record, mapping absence to NotFound.
func (s *Service) loadName(ctx context.Context, id string) (*models.Name, error) {
	n, err := s.names.FindByID(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "name not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load name")
	}
	return n, nil
}

// operatorFor returns caller's grant over owner's names, or nil.
func (s *Service) operatorFor(ctx context.Context, owner, caller domain.Address) (*models.Operator, error) {
	if owner == caller {
		return nil, nil
	}
	op, err := s.operators.Find(ctx, owner, caller)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load operator grant")
	}
	return op, nil
}

// enqueue appends messages to the outbox when one is configured.
func (s *Service) enqueue(ctx context.Context, action, tokenID string, msgs []models.Message) error {
	if s.outbox == nil || len(msgs) == 0 {
		return nil
	}
	entries := make([]*models.OutboxEntry, 0, len(msgs))
	for _, m := range msgs {
		entries = append(entries, models.NewOutboxEntry(action, tokenID, requestcontext.RequestID(ctx), m, requestcontext.Now(ctx)))
	}
	if err := s.outbox.Append(ctx, entries...); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record outbound messages")
	}
	return nil
}
