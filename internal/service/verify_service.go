package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/secure-checkout-system/internal/gateway"
	"github.com/fairyhunter13/secure-checkout-system/internal/model"
	"github.com/fairyhunter13/secure-checkout-system/internal/pricing"
	"github.com/fairyhunter13/secure-checkout-system/internal/signature"
	"github.com/fairyhunter13/secure-checkout-system/pkg/database"
)

// OrderRepositoryInterface defines the interface for order data access.
type OrderRepositoryInterface interface {
	Insert(ctx context.Context, tx database.TxQuerier, order *model.Order, items []model.LineItem) error
	GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*model.Order, error)
}

// CouponRedeemer defines the coupon lifecycle operations the verifier needs.
type CouponRedeemer interface {
	Redeem(ctx context.Context, tx database.TxQuerier, couponID, orderID uuid.UUID) error
	IssueReward(ctx context.Context, userID string) (*model.Coupon, error)
}

// TxBeginner defines the interface for beginning transactions.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// VerifyService performs the exactly-once transition from payment intent to
// durable order. Authentication, reconciliation and the idempotent commit all
// live here so there is exactly one verification path.
type VerifyService struct {
	pool            TxBeginner
	gateway         gateway.Client
	orders          OrderRepositoryInterface
	coupons         CouponRedeemer
	signer          *signature.Signer
	rewardThreshold int64 // paise; 0 disables reward issuance checks
}

// NewVerifyService creates a VerifyService.
func NewVerifyService(pool TxBeginner, gw gateway.Client, orders OrderRepositoryInterface, coupons CouponRedeemer, signer *signature.Signer, rewardThreshold int64) *VerifyService {
	return &VerifyService{
		pool:            pool,
		gateway:         gw,
		orders:          orders,
		coupons:         coupons,
		signer:          signer,
		rewardThreshold: rewardThreshold,
	}
}

// Verify processes a client-reported payment completion:
//
//  1. Authenticate the notice via constant-time HMAC comparison. This is the
//     sole trust boundary; mismatch returns ErrSignatureMismatch.
//  2. Reconcile: fetch the intent's metadata from the gateway, reprice the
//     snapshot server-side, and require both the gateway-charged amount and
//     any caller-claimed total to match. Mismatch returns ErrAmountMismatch.
//  3. Commit: insert the order and redeem the coupon (if any) in one
//     transaction keyed by the unique gateway order id. Losing a duplicate
//     race is reinterpreted as success referencing the original order.
//  4. Issue a reward coupon when the total meets the threshold, only on the
//     branch that actually created the order row.
func (s *VerifyService) Verify(ctx context.Context, req *model.VerifyRequest) (*model.VerifyResult, error) {
	if !s.signer.Verify(req.GatewayOrderID, req.GatewayPaymentID, req.GatewaySignature) {
		return nil, ErrSignatureMismatch
	}

	intent, err := s.gateway.FetchIntent(ctx, req.GatewayOrderID)
	if err != nil {
		return nil, fmt.Errorf("fetch intent: %w", err)
	}
	md := intent.Metadata

	// Reprice the server-held snapshot; never trust caller-supplied fields.
	quote, err := pricing.Price(md.Items, md.DiscountPercentage)
	if err != nil {
		return nil, fmt.Errorf("reprice intent snapshot: %w", err)
	}
	if quote.Total != intent.Amount {
		return nil, fmt.Errorf("%w: repriced %d, gateway charged %d", ErrAmountMismatch, quote.Total, intent.Amount)
	}
	if req.ClaimedTotal != nil && *req.ClaimedTotal != quote.Total {
		return nil, fmt.Errorf("%w: claimed %d, authoritative %d", ErrAmountMismatch, *req.ClaimedTotal, quote.Total)
	}

	order := &model.Order{
		ID:                 uuid.New(),
		UserID:             md.UserID,
		TotalAmount:        quote.Total,
		DiscountPercentage: md.DiscountPercentage,
		GatewayOrderID:     req.GatewayOrderID,
		GatewayPaymentID:   req.GatewayPaymentID,
		GatewaySignature:   req.GatewaySignature,
		Status:             model.OrderStatusVerified,
	}
	if md.CouponID != "" {
		couponID, err := uuid.Parse(md.CouponID)
		if err != nil {
			return nil, fmt.Errorf("parse coupon id from intent metadata: %w", err)
		}
		order.CouponID = &couponID
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }() // Safe: no-op if committed

	if err := s.orders.Insert(ctx, tx, order, md.Items); err != nil {
		if errors.Is(err, ErrOrderExists) {
			return s.resolveDuplicate(ctx, req.GatewayOrderID)
		}
		return nil, fmt.Errorf("insert order: %w", err)
	}

	if order.CouponID != nil {
		if err := s.coupons.Redeem(ctx, tx, *order.CouponID, order.ID); err != nil {
			return nil, fmt.Errorf("redeem coupon: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	log.Info().
		Str("order_id", order.ID.String()).
		Str("gateway_order_id", order.GatewayOrderID).
		Int64("total_amount", order.TotalAmount).
		Msg("payment verified, order persisted")

	// The order is committed; reward issuance must not fail the verification.
	if s.rewardThreshold > 0 && quote.Total >= s.rewardThreshold {
		if _, err := s.coupons.IssueReward(ctx, md.UserID); err != nil {
			log.Error().Err(err).
				Str("user_id", md.UserID).
				Str("order_id", order.ID.String()).
				Msg("failed to issue reward coupon")
		}
	}

	return &model.VerifyResult{OrderID: order.ID, TotalAmount: order.TotalAmount}, nil
}

// resolveDuplicate turns a lost insert race into the original success result.
// The unique constraint only fires after the winning transaction committed,
// so the existing order is visible here.
func (s *VerifyService) resolveDuplicate(ctx context.Context, gatewayOrderID string) (*model.VerifyResult, error) {
	existing, err := s.orders.GetByGatewayOrderID(ctx, gatewayOrderID)
	if err != nil {
		return nil, fmt.Errorf("load existing order: %w", err)
	}
	if existing == nil {
		return nil, fmt.Errorf("order for gateway order id %s vanished after duplicate detection", gatewayOrderID)
	}

	log.Info().
		Str("order_id", existing.ID.String()).
		Str("gateway_order_id", gatewayOrderID).
		Msg("duplicate verification resolved to existing order")

	return &model.VerifyResult{
		OrderID:     existing.ID,
		TotalAmount: existing.TotalAmount,
		Duplicate:   true,
	}, nil
}
