package authjwt

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	uuid "github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/vidora/vidora/internal/types"
)

// Config defines the config for the JWT middleware.
type Config struct {
	// Secret for validating HS256 tokens.
	Secret string
	// The claim key where the user payload is stored.
	ClaimKey string
	// The context key to store the UserContext.
	UserCtxName string
}

// New creates a new middleware handler. Session issuance lives outside this
// system; the middleware only validates tokens minted by the auth provider.
func New(cfg Config) fiber.Handler {
	claimKey := cfg.ClaimKey
	if claimKey == "" {
		claimKey = "claim"
	}
	userCtxName := cfg.UserCtxName
	if userCtxName == "" {
		userCtxName = types.UserCtxName
	}

	return func(c *fiber.Ctx) error {
		var tokenString string

		// 1. Try Authorization header first (for mobile/API clients)
		authHeader := c.Get(types.HeaderAuthorization)
		if authHeader != "" && strings.HasPrefix(authHeader, types.BearerPrefix) {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 {
				tokenString = parts[1]
			}
		}

		// 2. Fall back to access_token cookie (for web browsers)
		if tokenString == "" {
			tokenString = c.Cookies("access_token")
		}

		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"code":    "UNAUTHORIZED",
				"message": "Missing or invalid JWT",
			})
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			// Enforce the expected signing algorithm.
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		})

		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"code":    "UNAUTHORIZED",
				"message": "Invalid token",
			})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"code":    "UNAUTHORIZED",
				"message": "Invalid token claims",
			})
		}

		user, err := userContextFromClaims(claims, claimKey)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"code":    "UNAUTHORIZED",
				"message": "Invalid token payload",
				"details": err.Error(),
			})
		}

		c.Locals(userCtxName, *user)
		return c.Next()
	}
}

// userContextFromClaims extracts the UserContext embedded under claimKey.
func userContextFromClaims(claims jwt.MapClaims, claimKey string) (*types.UserContext, error) {
	payload, ok := claims[claimKey].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("claim %q not found", claimKey)
	}

	rawID, _ := payload["userId"].(string)
	userID, err := uuid.FromString(rawID)
	if err != nil {
		return nil, fmt.Errorf("invalid userId claim: %w", err)
	}

	user := &types.UserContext{UserID: userID}
	if v, ok := payload["username"].(string); ok {
		user.Username = v
	}
	if v, ok := payload["avatarUrl"].(string); ok {
		user.AvatarURL = v
	}
	if v, ok := payload["channelName"].(string); ok {
		user.ChannelName = v
	}
	return user, nil
}
