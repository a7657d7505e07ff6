package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/secure-checkout-system/internal/gateway"
	"github.com/fairyhunter13/secure-checkout-system/internal/middleware"
	"github.com/fairyhunter13/secure-checkout-system/internal/model"
	"github.com/fairyhunter13/secure-checkout-system/internal/pricing"
)

// CheckoutServiceInterface defines the interface for checkout business logic.
type CheckoutServiceInterface interface {
	Checkout(ctx context.Context, userID string, items []model.LineItem, couponCode string) (*model.CheckoutResponse, error)
}

// CheckoutHandler handles HTTP requests for checkout operations.
type CheckoutHandler struct {
	service   CheckoutServiceInterface
	validator *validator.Validate
}

// NewCheckoutHandler creates a new CheckoutHandler with the given service and validator.
func NewCheckoutHandler(svc CheckoutServiceInterface, v *validator.Validate) *CheckoutHandler {
	return &CheckoutHandler{service: svc, validator: v}
}

// formatCheckoutValidationError converts validator errors to field-specific messages.
func formatCheckoutValidationError(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			field := fe.Field()
			tag := fe.Tag()

			switch field {
			case "Items":
				if tag == "required" || tag == "min" {
					return "invalid request: items must contain at least one line"
				}
				return "invalid request: items is invalid"
			case "ProductID":
				if tag == "required" || tag == "notblank" {
					return "invalid request: product_id is required"
				}
				if tag == "max" {
					return "invalid request: product_id exceeds maximum length of 255"
				}
				return "invalid request: product_id is invalid"
			case "Quantity":
				return "invalid request: quantity must be at least 1"
			case "UnitPrice":
				if tag == "required" {
					return "invalid request: unit_price is required"
				}
				return "invalid request: unit_price must be a non-negative amount in paise"
			case "CouponCode":
				return "invalid request: coupon_code is invalid"
			default:
				if tag == "required" {
					return "invalid request: " + field + " is required"
				}
				return "invalid request: " + field + " is invalid"
			}
		}
	}
	return "invalid request"
}

// Checkout handles POST /api/checkout requests: it prices the cart and opens
// a payment intent at the gateway.
func (h *CheckoutHandler) Checkout(c *fiber.Ctx) error {
	userID, _ := c.Locals(middleware.CtxUserID).(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing user identity"})
	}

	var req model.CheckoutRequest

	// Parse JSON body
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	// Validate request
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatCheckoutValidationError(err)})
	}

	items := make([]model.LineItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, model.LineItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: *it.UnitPrice,
		})
	}

	resp, err := h.service.Checkout(c.Context(), userID, items, req.CouponCode)
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidCart) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid or empty cart"})
		}
		if errors.Is(err, gateway.ErrUnavailable) {
			log.Error().Err(err).Str("user_id", userID).Msg("payment gateway unavailable during checkout")
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "payment gateway unavailable"})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("user_id", userID).
			Msg("failed to process checkout")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(resp)
}
