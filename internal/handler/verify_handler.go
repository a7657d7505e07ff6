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
	"github.com/fairyhunter13/secure-checkout-system/internal/service"
)

// VerifyServiceInterface defines the interface for payment verification logic.
type VerifyServiceInterface interface {
	Verify(ctx context.Context, req *model.VerifyRequest) (*model.VerifyResult, error)
}

// VerifyHandler handles HTTP requests for payment verification.
type VerifyHandler struct {
	service   VerifyServiceInterface
	validator *validator.Validate
}

// NewVerifyHandler creates a new VerifyHandler with the given service and validator.
func NewVerifyHandler(svc VerifyServiceInterface, v *validator.Validate) *VerifyHandler {
	return &VerifyHandler{service: svc, validator: v}
}

// formatVerifyValidationError converts validator errors to field-specific messages.
func formatVerifyValidationError(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			field := fe.Field()
			tag := fe.Tag()

			switch field {
			case "GatewayOrderID":
				return "invalid request: razorpay_order_id is required"
			case "GatewayPaymentID":
				return "invalid request: razorpay_payment_id is required"
			case "GatewaySignature":
				return "invalid request: razorpay_signature is required"
			case "ClaimedTotal":
				return "invalid request: claimed_total must be non-negative"
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

// Verify handles POST /api/checkout/verify requests: it authenticates a
// payment completion notice and durably records the order.
func (h *VerifyHandler) Verify(c *fiber.Ctx) error {
	userID, _ := c.Locals(middleware.CtxUserID).(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing user identity"})
	}

	var req model.VerifyRequest

	// Parse JSON body
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	// Validate request
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatVerifyValidationError(err)})
	}

	result, err := h.service.Verify(c.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrSignatureMismatch) {
			// Potential fraud signal: someone submitted a notice the gateway never signed.
			log.Warn().
				Str("request_id", c.GetRespHeader("X-Request-ID")).
				Str("user_id", userID).
				Str("gateway_order_id", req.GatewayOrderID).
				Str("gateway_payment_id", req.GatewayPaymentID).
				Msg("payment signature mismatch")
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid signature"})
		}
		if errors.Is(err, service.ErrAmountMismatch) {
			log.Warn().
				Str("request_id", c.GetRespHeader("X-Request-ID")).
				Str("user_id", userID).
				Str("gateway_order_id", req.GatewayOrderID).
				Msg("order amount mismatch")
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "order amount mismatch"})
		}
		if errors.Is(err, gateway.ErrUnavailable) {
			log.Error().Err(err).Str("gateway_order_id", req.GatewayOrderID).Msg("payment gateway unavailable during verification")
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "payment gateway unavailable"})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("user_id", userID).
			Str("gateway_order_id", req.GatewayOrderID).
			Msg("failed to verify payment")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	if result.Duplicate {
		log.Info().
			Str("gateway_order_id", req.GatewayOrderID).
			Str("order_id", result.OrderID.String()).
			Msg("duplicate verification acknowledged")
	}

	return c.JSON(model.VerifyResponse{
		Success:     true,
		OrderID:     result.OrderID.String(),
		TotalAmount: result.TotalAmount,
	})
}
