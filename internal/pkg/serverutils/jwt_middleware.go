package serverutils

import (
	"os"

	"hipaai-chat-be/internal/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// UserIdKey is the Locals key the middleware stores the caller identity under.
const UserIdKey = "user_id"

// JwtMiddleware authenticates the request and threads the numeric user id
// into Locals. Every chat action is gated by it; no handler runs without a
// resolved caller identity.
func JwtMiddleware(ctx *fiber.Ctx) error {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return apperror.Unauthenticated("User not authenticated.")
	}
	tokenStr := authHeader[7:]

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	})

	if err != nil || !token.Valid {
		return apperror.Unauthenticated("User not authenticated.")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return apperror.Unauthenticated("User not authenticated.")
	}

	// JSON numbers arrive as float64 through MapClaims.
	rawUserId, ok := claims[UserIdKey].(float64)
	if !ok || rawUserId <= 0 {
		return apperror.Unauthenticated("User not authenticated.")
	}

	ctx.Locals(UserIdKey, int64(rawUserId))
	return ctx.Next()
}

// CallerId reads the authenticated user id set by JwtMiddleware.
func CallerId(ctx *fiber.Ctx) (int64, error) {
	userId, ok := ctx.Locals(UserIdKey).(int64)
	if !ok || userId <= 0 {
		return 0, apperror.Unauthenticated("User not authenticated.")
	}
	return userId, nil
}
