package stripewebhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/mvalencia/storefront-backend/internal/orders"
	pkgerrors "github.com/mvalencia/storefront-backend/pkg/errors"
	"github.com/mvalencia/storefront-backend/pkg/logger"
)

type ServiceParams struct {
	OrderRepo orders.Repository
	Logger    *logger.Logger
}

// Service reconciles asynchronous gateway notifications against orders.
// Order creation itself happens on the confirm endpoint; webhooks exist so a
// payment that never got confirmed (or later failed) leaves an audit trail.
type Service struct {
	orderRepo orders.Repository
	logg      *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.OrderRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders repo required")
	}
	return &Service{
		orderRepo: params.OrderRepo,
		logg:      params.Logger,
	}, nil
}

func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	switch event.Type {
	case stripe.EventTypePaymentIntentSucceeded:
		intent, err := decodePaymentIntent(event)
		if err != nil {
			return err
		}
		return s.handleSucceeded(ctx, intent)
	case stripe.EventTypePaymentIntentPaymentFailed:
		intent, err := decodePaymentIntent(event)
		if err != nil {
			return err
		}
		return s.handleFailed(ctx, intent)
	default:
		return nil
	}
}

func (s *Service) handleSucceeded(ctx context.Context, intent *stripe.PaymentIntent) error {
	order, err := s.lookupOrder(ctx, intent.ID)
	if err != nil {
		return err
	}
	if s.logg == nil {
		return nil
	}
	ctx = s.logg.WithPaymentIntentID(ctx, intent.ID)
	if order == nil {
		// The client paid but never confirmed; the order will appear once
		// the confirm endpoint is retried.
		s.logg.Warn(ctx, "payment succeeded but no order references it yet")
		return nil
	}
	ctx = s.logg.WithOrderNumber(ctx, order.OrderNumber)
	s.logg.Info(ctx, "payment confirmed by gateway")
	return nil
}

func (s *Service) handleFailed(ctx context.Context, intent *stripe.PaymentIntent) error {
	order, err := s.lookupOrder(ctx, intent.ID)
	if err != nil {
		return err
	}
	if s.logg == nil {
		return nil
	}
	ctx = s.logg.WithPaymentIntentID(ctx, intent.ID)
	if order != nil {
		// An order should only ever be bound to a succeeded payment.
		ctx = s.logg.WithOrderNumber(ctx, order.OrderNumber)
		s.logg.Error(ctx, "gateway reported failure for a finalized order",
			fmt.Errorf("payment %s failed after order %s was created", intent.ID, order.OrderNumber))
		return nil
	}
	s.logg.Info(ctx, "payment attempt failed")
	return nil
}

func (s *Service) lookupOrder(ctx context.Context, paymentIntentID string) (*orders.OrderDetailDTO, error) {
	if paymentIntentID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment intent id missing from event")
	}
	record, err := s.orderRepo.FindByPaymentReference(ctx, paymentIntentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up payment reference")
	}
	dto := orders.ToOrderDetailDTO(*record)
	return &dto, nil
}

func decodePaymentIntent(event *stripe.Event) (*stripe.PaymentIntent, error) {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode payment intent event")
	}
	return &intent, nil
}
