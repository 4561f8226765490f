package billing

import (
	"context"
	"time"

	"github.com/cpg/backend/internal/domain/billing"
	"github.com/cpg/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// RenewalInvoicer generates the invoice of one billing period
type RenewalInvoicer interface {
	CreateRenewal(ctx context.Context, order *billing.Order, periodStart time.Time) (*billing.Invoice, error)
}

// RenewalService invoices recurring orders whose next cycle has started
type RenewalService struct {
	orders   billing.OrderRepository
	invoicer RenewalInvoicer
	logger   *zap.Logger
}

// NewRenewalService creates the service
func NewRenewalService(orders billing.OrderRepository, invoicer RenewalInvoicer, logger *zap.Logger) *RenewalService {
	return &RenewalService{orders: orders, invoicer: invoicer, logger: logger}
}

// RenewalReport summarizes one renewal run
type RenewalReport struct {
	Due     int
	Renewed int
	Failed  int
}

// RenewDue issues one invoice per due order and advances its cycle. An
// order whose invoice fails keeps its dates and is retried on the next
// run; the invoice for a period is never generated twice.
func (s *RenewalService) RenewDue(ctx context.Context, now time.Time) (RenewalReport, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "RenewalService", "RenewDue")
	defer span.End()

	due, err := s.orders.FindDueForRenewal(ctx, now)
	if err != nil {
		telemetry.RecordError(span, err)
		return RenewalReport{}, err
	}

	report := RenewalReport{Due: len(due)}
	for i := range due {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		order := &due[i]
		if !order.DueForRenewal(now) {
			continue
		}
		if err := s.renew(ctx, order); err != nil {
			report.Failed++
			s.logger.Error("Renewal failed", zap.String("order_uid", order.UID), zap.Error(err))
			continue
		}
		report.Renewed++
	}

	telemetry.SetAttributes(span, "due", report.Due, "renewed", report.Renewed, "failed", report.Failed)
	telemetry.SetOK(span)
	return report, nil
}

func (s *RenewalService) renew(ctx context.Context, order *billing.Order) error {
	period := *order.Dates.NextRecycle
	inv, err := s.invoicer.CreateRenewal(ctx, order, period)
	if err != nil {
		return err
	}
	if _, err := order.AdvanceCycle(); err != nil {
		return err
	}
	order.MarkInvoiced(inv.ID)
	if err := s.orders.Update(ctx, order); err != nil {
		return err
	}

	s.logger.Info("Order renewed",
		zap.String("order_uid", order.UID),
		zap.String("invoice_uid", inv.UID),
		zap.Time("next_recycle", *order.Dates.NextRecycle),
	)
	return nil
}
