package service

import (
	"context"
	"log/slog"

	orgmetrics "chorale/internal/org/metrics"
	"chorale/internal/org/models"
	"chorale/pkg/domain"
	audit "chorale/pkg/platform/audit"
	"chorale/pkg/platform/tx"
)

// OrganizationStore is the persistence contract for organizations.
type OrganizationStore interface {
	CreateIfNameAvailable(ctx context.Context, org *models.Organization) error
	FindByID(ctx context.Context, id domain.OrganizationID) (*models.Organization, error)
	FindByName(ctx context.Context, name string) (*models.Organization, error)
	Update(ctx context.Context, org *models.Organization) error
	Execute(ctx context.Context, id domain.OrganizationID, validate func(*models.Organization) error, mutate func(*models.Organization)) (*models.Organization, error)
	List(ctx context.Context) ([]*models.Organization, error)
}

// AdministratorStore is the persistence contract for administrators.
type AdministratorStore interface {
	Create(ctx context.Context, admin *models.Administrator) error
	FindByID(ctx context.Context, id domain.AdministratorID) (*models.Administrator, error)
	FindByOrganization(ctx context.Context, orgID domain.OrganizationID) (*models.Administrator, error)
	Update(ctx context.Context, admin *models.Administrator) error
}

// AuditEmitter receives audit events from the service.
type AuditEmitter interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates organization lifecycle: registration, profile edits,
// and the verification workflow.
type Service struct {
	orgs    OrganizationStore
	admins  AdministratorStore
	txr     tx.Runner
	logger  *slog.Logger
	metrics *orgmetrics.Metrics
	auditor AuditEmitter
}

type serviceConfig struct {
	txr     tx.Runner
	logger  *slog.Logger
	metrics *orgmetrics.Metrics
	auditor AuditEmitter
}

type Option func(*serviceConfig)

// WithTxRunner sets the transaction boundary used for multi-store writes.
func WithTxRunner(r tx.Runner) Option {
	return func(c *serviceConfig) { c.txr = r }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *serviceConfig) { c.logger = logger }
}

func WithMetrics(m *orgmetrics.Metrics) Option {
	return func(c *serviceConfig) { c.metrics = m }
}

func WithAuditEmitter(a AuditEmitter) Option {
	return func(c *serviceConfig) { c.auditor = a }
}

func New(orgs OrganizationStore, admins AdministratorStore, opts ...Option) *Service {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.txr == nil {
		cfg.txr = tx.NoopRunner{}
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	return &Service{
		orgs:    orgs,
		admins:  admins,
		txr:     cfg.txr,
		logger:  cfg.logger,
		metrics: cfg.metrics,
		auditor: cfg.auditor,
	}
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "audit emit failed", "action", event.Action, "error", err)
	}
}
