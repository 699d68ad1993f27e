package middleware

import (
	"errors"
	"net/http"
	"strings"

	"directory-service/internal/model"
	"directory-service/internal/service"
	"directory-service/pkg/jwtutil"
	"directory-service/pkg/logger"
	"directory-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const identityKey = "identity"

// TokenVerifier checks a bearer token and returns its claims
type TokenVerifier interface {
	Verify(token string, expected jwtutil.TokenType) (*jwtutil.UserClaims, error)
}

// AuthMiddleware validates the access token from the Authorization header
// and stores the caller's identity on the context
func AuthMiddleware(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				prometheus.RecordAuthError("missing_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "missing authorization token"})
			}

			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				prometheus.RecordAuthError("invalid_auth_format")
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid authorization format, expected Bearer token"})
			}

			claims, err := verifier.Verify(parts[1], jwtutil.AccessToken)
			if err != nil {
				log.Debug("Invalid JWT token", zap.Error(err))
				prometheus.RecordAuthError("invalid_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid or expired token"})
			}

			SetIdentity(c, &service.Identity{
				UserID:   claims.UserID,
				UserType: model.UserType(claims.UserType),
			})

			return next(c)
		}
	}
}

// Require rejects requests whose identity fails policy
func Require(policy service.Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := policy(IdentityFrom(c), nil)
			if err == nil {
				return next(c)
			}

			var se *service.Error
			if errors.As(err, &se) && se.Kind == service.KindAuthorization {
				prometheus.RecordAuthError("forbidden")
				logger.FromEcho(c).Info("request forbidden", zap.String("path", c.Path()))
				return c.JSON(http.StatusForbidden, echo.Map{"message": se.Message})
			}
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authentication required"})
		}
	}
}

// SetIdentity stores the authenticated caller on the echo context
func SetIdentity(c echo.Context, identity *service.Identity) {
	c.Set(identityKey, identity)
}

// IdentityFrom returns the authenticated caller, or nil
func IdentityFrom(c echo.Context) *service.Identity {
	identity, _ := c.Get(identityKey).(*service.Identity)
	return identity
}
