// Package middleware provides HTTP middleware for the checkout API.
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// CtxUserID is the fiber locals key carrying the authenticated user id.
const CtxUserID = "user_id"

// Auth validates the Bearer token and stores its subject as the requesting
// user id. Token issuance and session management are external; this
// middleware only extracts the verified identity the pipeline consumes.
func Auth(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing access token"})
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
		}

		subject, err := token.Claims.GetSubject()
		if err != nil || subject == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "token has no subject"})
		}

		c.Locals(CtxUserID, subject)
		return c.Next()
	}
}
