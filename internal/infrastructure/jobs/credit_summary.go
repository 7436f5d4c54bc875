package jobs

import (
	"context"
	"fmt"

	"kls/internal/core/notify"
	"kls/internal/core/types"
	"kls/internal/domain/purchase"
	"kls/internal/domain/reports"
	"kls/pkg/logger"
)

// CreditSummaryJobName is the scheduler name of the daily summary.
const CreditSummaryJobName = "credit-summary"

// CreditSummary posts the outstanding-credit total as a notification.
func CreditSummary(svc *reports.Service, notifier notify.Sink) Job {
	return func(ctx context.Context) error {
		summary, err := svc.CreditSummary(ctx)
		if err != nil {
			return err
		}

		logger.Info(ctx, "outstanding credit summary",
			"outstanding", summary.TotalOutstanding.String(),
			"orders", summary.OrderCount,
			"unpaid", summary.ByStatus[purchase.StatusUnpaid],
			"partial", summary.ByStatus[purchase.StatusPartial],
			"paid", summary.ByStatus[purchase.StatusPaid])

		notifier.Notify(ctx, notify.KindInfo, creditMessage(summary))
		return nil
	}
}

func creditMessage(s *reports.CreditSummary) string {
	open := s.ByStatus[purchase.StatusUnpaid] + s.ByStatus[purchase.StatusPartial]
	if open == 0 {
		return "No outstanding supplier credit"
	}
	msg := fmt.Sprintf("Outstanding credit %s on %d orders (%d unpaid, %d partial)",
		types.FormatINR(s.TotalOutstanding), open,
		s.ByStatus[purchase.StatusUnpaid], s.ByStatus[purchase.StatusPartial])
	if len(s.Suppliers) > 0 {
		top := s.Suppliers[0]
		msg += fmt.Sprintf("; largest: %s %s", top.Supplier, types.FormatINR(top.Outstanding))
	}
	return msg
}
