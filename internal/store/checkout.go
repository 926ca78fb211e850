package store

import (
	"context"
	"fmt"

	"kantin-be/internal/logger"
	"kantin-be/internal/order"

	"go.uber.org/zap"
)

// SubmitOrder builds the WhatsApp link for the current cart and hands it to
// the opener. The cart is cleared only once the opener accepted the link.
// Whether the message is actually sent is unknown.
func (s *Store) SubmitOrder(ctx context.Context, c order.Customer) (*order.Handoff, error) {
	log := logger.Op(ctx, "store", "SubmitOrder")

	h, err := order.Prepare(s.Settings(), s.waURL, c, s.cart.Items())
	if err != nil {
		return nil, err
	}
	log = log.With(zap.String("order_ref", h.Ref))
	log.Info("SubmitOrder started", zap.Int("lines", len(h.Items)), zap.Int64("total", h.Total))

	if err := s.opener.Open(ctx, h.Link); err != nil {
		log.Error("failed to open link", zap.Error(err))
		return nil, fmt.Errorf("open order link: %w", err)
	}

	s.ClearCart()
	s.metrics.Handoffs.Inc()

	if s.notifier != nil {
		bestEffort(ctx, "mirror order", s.notifier.NotifyOrder(ctx, h))
	}

	log.Info("SubmitOrder success")
	return h, nil
}
