package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	accountmodels "clientdesk/internal/account/models"
	billingmetrics "clientdesk/internal/billing/metrics"
	"clientdesk/internal/billing/models"
	"clientdesk/internal/billing/store"
	dErrors "clientdesk/pkg/domain-errors"
	"clientdesk/pkg/requestcontext"
	"clientdesk/pkg/sentinel"
)

// GracePeriod is the tolerance after an invoice's due date before it counts
// as delinquent.
const GracePeriod = 48 * time.Hour

var tracer = otel.Tracer("clientdesk/billing")

// Service computes billing delinquency state on demand. The predicate is
// evaluated fresh on every call; nothing is cached across requests.
type Service struct {
	links    store.LinkStore
	invoices store.InvoiceStore
	metrics  *billingmetrics.Metrics
}

func New(links store.LinkStore, invoices store.InvoiceStore, metrics *billingmetrics.Metrics) *Service {
	return &Service{links: links, invoices: invoices, metrics: metrics}
}

// Check computes the billing state for the given account.
//
// Billing gating applies only to client accounts: any other role is never
// blocked, whatever the invoice data says. A client without an ACTIVE
// organization link cannot be computed as delinquent and is not blocked.
func (s *Service) Check(ctx context.Context, account *accountmodels.Account) (*models.BillingState, error) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "billing.Check")
	defer span.End()

	if account == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "account is required")
	}
	span.SetAttributes(attribute.String("account.role", string(account.Role.Kind())))

	if account.Role.Kind() != accountmodels.KindClient {
		s.metrics.ObserveCheck(start, false)
		return &models.BillingState{Blocked: false}, nil
	}

	link, err := s.links.FindActiveByAccount(ctx, account.ID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.ObserveCheck(start, false)
			return &models.BillingState{Blocked: false}, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "organization link lookup failed")
	}

	cutoff := requestcontext.Now(ctx).Add(-GracePeriod)
	delinquent, err := s.invoices.ListDelinquent(ctx, link.OrganizationID, cutoff)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "invoice lookup failed")
	}

	state := &models.BillingState{
		Blocked:        len(delinquent) > 0,
		OrganizationID: link.OrganizationID,
		Delinquent:     delinquent,
	}
	span.SetAttributes(
		attribute.Bool("billing.blocked", state.Blocked),
		attribute.Int("billing.delinquent_count", len(delinquent)),
	)
	s.metrics.ObserveCheck(start, state.Blocked)
	return state, nil
}
