package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mvalencia/storefront-backend/internal/cart"
	"github.com/mvalencia/storefront-backend/internal/orders"
	"github.com/mvalencia/storefront-backend/internal/products"
	"github.com/mvalencia/storefront-backend/pkg/config"
	"github.com/mvalencia/storefront-backend/pkg/db"
	"github.com/mvalencia/storefront-backend/pkg/db/models"
	"github.com/mvalencia/storefront-backend/pkg/enums"
	pkgerrors "github.com/mvalencia/storefront-backend/pkg/errors"
	"github.com/mvalencia/storefront-backend/pkg/logger"
	"github.com/mvalencia/storefront-backend/pkg/metrics"
	"github.com/mvalencia/storefront-backend/pkg/money"
	pkgstripe "github.com/mvalencia/storefront-backend/pkg/stripe"
	"github.com/mvalencia/storefront-backend/pkg/types"
)

// Intent metadata keys recorded on the gateway side.
const (
	MetadataUserID    = "user_id"
	MetadataOrderType = "order_type"
	OrderTypeCart     = "cart_checkout"
)

// TxRunner executes fn inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the checkout orchestrator.
type ServiceParams struct {
	Tx          TxRunner
	CartRepo    cart.Repository
	ProductRepo products.Repository
	OrderRepo   orders.Repository
	Gateway     pkgstripe.PaymentIntentClient
	Config      config.CheckoutConfig
	Logger      *logger.Logger
	Metrics     *metrics.CheckoutMetrics
}

// ConfirmInput carries everything the confirmation step needs.
type ConfirmInput struct {
	UserID          uuid.UUID
	PaymentIntentID string
	ShippingAddress *types.Address
	BillingAddress  *types.Address
}

// Service orchestrates payment initiation and order finalization.
type Service interface {
	InitiateCheckout(ctx context.Context, userID uuid.UUID, requestedAmount decimal.Decimal, currency string) (IntentDTO, error)
	ConfirmCheckout(ctx context.Context, in ConfirmInput) (orders.OrderDetailDTO, error)
}

type service struct {
	tx          TxRunner
	cartRepo    cart.Repository
	productRepo products.Repository
	orderRepo   orders.Repository
	gateway     pkgstripe.PaymentIntentClient
	cfg         config.CheckoutConfig
	logg        *logger.Logger
	metrics     *metrics.CheckoutMetrics
}

// NewService builds the checkout orchestrator with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tx runner is required")
	}
	if params.CartRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repo is required")
	}
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	if params.OrderRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orders repo is required")
	}
	if params.Gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment gateway is required")
	}
	return &service{
		tx:          params.Tx,
		cartRepo:    params.CartRepo,
		productRepo: params.ProductRepo,
		orderRepo:   params.OrderRepo,
		gateway:     params.Gateway,
		cfg:         params.Config,
		logg:        params.Logger,
		metrics:     params.Metrics,
	}, nil
}

// InitiateCheckout prices the cart server-side, cross-checks the amount the
// client believes it is paying, and opens a payment intent for the grand
// total. The intent is always sized to the server-side total.
func (s *service) InitiateCheckout(ctx context.Context, userID uuid.UUID, requestedAmount decimal.Decimal, currency string) (IntentDTO, error) {
	if userID == uuid.Nil {
		return IntentDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	parsedCurrency, err := enums.ParseCurrency(currency)
	if err != nil {
		return IntentDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid currency")
	}

	items, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return IntentDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	quote, err := BuildQuote(items, s.cfg)
	if err != nil {
		s.countFailure(err)
		return IntentDTO{}, err
	}

	// One minor unit of rounding slack between client and server pricing.
	if !money.WithinOneCent(quote.Total, requestedAmount) {
		err := pkgerrors.New(pkgerrors.CodeAmountMismatch,
			"requested amount does not match the cart total").WithDetails(map[string]int64{
			"calculated_cents": money.ToCents(quote.Total),
			"requested_cents":  money.ToCents(requestedAmount),
		})
		s.countFailure(err)
		return IntentDTO{}, err
	}

	gwCtx, cancel := s.gatewayContext(ctx)
	defer cancel()
	intent, err := s.gateway.CreateIntent(gwCtx, pkgstripe.CreateIntentInput{
		AmountCents: money.ToCents(quote.Total),
		Currency:    parsedCurrency.String(),
		Metadata: map[string]string{
			MetadataUserID:    userID.String(),
			MetadataOrderType: OrderTypeCart,
		},
	})
	if err != nil {
		s.countFailure(err)
		return IntentDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment intent")
	}

	s.metrics.IncIntentsCreated()
	if s.logg != nil {
		ctx = s.logg.WithPaymentIntentID(ctx, intent.ID)
		s.logg.Info(ctx, "payment intent opened for cart checkout")
	}

	return IntentDTO{
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		Subtotal:        quote.Subtotal,
		Tax:             quote.Tax,
		Shipping:        quote.Shipping,
		Total:           quote.Total,
		Currency:        parsedCurrency,
	}, nil
}

// ConfirmCheckout verifies the payment with the gateway, re-prices the cart,
// and finalizes the order atomically: snapshot lines, decrement stock, clear
// the cart. Re-confirming the same payment returns the existing order.
func (s *service) ConfirmCheckout(ctx context.Context, in ConfirmInput) (orders.OrderDetailDTO, error) {
	started := time.Now()
	detail, err := s.confirm(ctx, in)
	outcome := "success"
	if err != nil {
		outcome = "failure"
		s.countFailure(err)
	}
	s.metrics.ObserveConfirmDuration(outcome, time.Since(started))
	return detail, err
}

func (s *service) confirm(ctx context.Context, in ConfirmInput) (orders.OrderDetailDTO, error) {
	if in.UserID == uuid.Nil {
		return orders.OrderDetailDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if in.PaymentIntentID == "" {
		return orders.OrderDetailDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "payment intent id is required")
	}
	if in.ShippingAddress == nil {
		return orders.OrderDetailDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "shipping address is required")
	}
	if s.logg != nil {
		ctx = s.logg.WithPaymentIntentID(ctx, in.PaymentIntentID)
	}

	// A payment already bound to an order is an idempotent replay.
	if existing, err := s.findExistingOrder(ctx, in); err != nil {
		return orders.OrderDetailDTO{}, err
	} else if existing != nil {
		return *existing, nil
	}

	gwCtx, cancel := s.gatewayContext(ctx)
	defer cancel()
	intent, err := s.gateway.RetrieveIntent(gwCtx, in.PaymentIntentID)
	if err != nil {
		return orders.OrderDetailDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "retrieve payment intent")
	}
	if intent.Status != pkgstripe.IntentStatusSucceeded {
		return orders.OrderDetailDTO{}, pkgerrors.New(pkgerrors.CodePaymentNotCompleted,
			"payment has not completed").WithDetails(map[string]string{"status": intent.Status})
	}
	if intent.Metadata[MetadataUserID] != in.UserID.String() {
		return orders.OrderDetailDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, "payment does not belong to this user")
	}

	currency, err := enums.ParseCurrency(intent.Currency)
	if err != nil {
		return orders.OrderDetailDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "gateway returned an unknown currency")
	}

	// The cart is read, priced, snapshotted and cleared under one
	// transaction so a concurrent cart mutation cannot be lost between
	// the quote and the clear.
	var order *models.Order
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		items, lerr := s.cartRepo.WithTx(tx).ListByUser(ctx, in.UserID)
		if lerr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, lerr, "load cart")
		}

		quote, qerr := BuildQuote(items, s.cfg)
		if qerr != nil {
			return qerr
		}

		// The order always carries the recomputed totals. Drift against
		// the captured amount is logged, not rejected.
		if !money.WithinOneCent(quote.Total, money.FromCents(intent.AmountCents)) && s.logg != nil {
			s.logg.Warn(ctx, "cart total drifted from the paid amount; persisting recomputed totals")
		}

		order = s.buildOrder(in, quote, currency)

		productRepo := s.productRepo.WithTx(tx)
		for _, line := range quote.Lines {
			ok, derr := productRepo.DecrementStock(ctx, line.ProductID, line.Quantity)
			if derr != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, derr, "decrement stock")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeInsufficientStock,
					"not enough stock for product "+line.Name).WithDetails(map[string]any{
					"product_id": line.ProductID,
					"requested":  line.Quantity,
				})
			}
		}

		if _, cerr := s.orderRepo.WithTx(tx).Create(ctx, order); cerr != nil {
			return cerr
		}

		return s.cartRepo.WithTx(tx).ClearByUser(ctx, in.UserID)
	})
	if txErr != nil {
		// A concurrent confirmation of the same payment wins the unique
		// index on payment_reference; surface its order instead of failing.
		if db.IsUniqueViolation(txErr) {
			if existing, ferr := s.findExistingOrder(ctx, in); ferr == nil && existing != nil {
				return *existing, nil
			}
		}
		if typed := pkgerrors.As(txErr); typed != nil {
			return orders.OrderDetailDTO{}, txErr
		}
		return orders.OrderDetailDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, txErr, "finalize order")
	}

	s.metrics.IncOrdersCreated()
	if s.logg != nil {
		ctx = s.logg.WithOrderNumber(ctx, order.OrderNumber)
		s.logg.Info(ctx, "order finalized from confirmed payment")
	}

	return orders.ToOrderDetailDTO(*order), nil
}

// gatewayContext bounds a gateway round-trip with the configured timeout.
func (s *service) gatewayContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.GatewayTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.cfg.GatewayTimeout)
}

// findExistingOrder looks up the order bound to the payment intent, enforcing
// that only its owner can see it.
func (s *service) findExistingOrder(ctx context.Context, in ConfirmInput) (*orders.OrderDetailDTO, error) {
	record, err := s.orderRepo.FindByPaymentReference(ctx, in.PaymentIntentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up payment reference")
	}
	if record.UserID != in.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "payment does not belong to this user")
	}
	dto := orders.ToOrderDetailDTO(*record)
	return &dto, nil
}

func (s *service) buildOrder(in ConfirmInput, quote Quote, currency enums.Currency) *models.Order {
	items := make([]models.OrderItem, 0, len(quote.Lines))
	for _, line := range quote.Lines {
		items = append(items, models.OrderItem{
			ProductID:    line.ProductID,
			ProductName:  line.Name,
			ProductSKU:   line.SKU,
			ProductImage: line.Image,
			Quantity:     line.Quantity,
			Price:        line.UnitPrice,
			Total:        line.LineTotal,
		})
	}

	return &models.Order{
		OrderNumber:      orders.GenerateOrderNumber(),
		UserID:           in.UserID,
		Status:           enums.OrderStatusProcessing,
		PaymentStatus:    enums.PaymentStatusPaid,
		Subtotal:         quote.Subtotal,
		TaxAmount:        quote.Tax,
		ShippingAmount:   quote.Shipping,
		TotalAmount:      quote.Total,
		Currency:         currency,
		PaymentReference: in.PaymentIntentID,
		ShippingAddress:  in.ShippingAddress,
		BillingAddress:   in.BillingAddress,
		Items:            items,
	}
}

func (s *service) countFailure(err error) {
	typed := pkgerrors.As(err)
	if typed == nil {
		s.metrics.IncFailure("internal")
		return
	}
	switch typed.Code() {
	case pkgerrors.CodeEmptyCart:
		s.metrics.IncFailure("empty_cart")
	case pkgerrors.CodeAmountMismatch:
		s.metrics.IncFailure("amount_mismatch")
	case pkgerrors.CodePaymentNotCompleted:
		s.metrics.IncFailure("payment_not_completed")
	case pkgerrors.CodeInsufficientStock:
		s.metrics.IncFailure("insufficient_stock")
	case pkgerrors.CodeProductDataMissing:
		s.metrics.IncFailure("product_data_missing")
	case pkgerrors.CodeForbidden:
		s.metrics.IncFailure("forbidden")
	default:
		s.metrics.IncFailure("other")
	}
}
