package handler

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"mechhub/internal/model"
)

// SessionClaims is the token payload the routing middleware parses. It mirrors
// auth.Claims but is typed against the JWT major version echo-jwt hands back.
type SessionClaims struct {
	UserID string     `json:"user_id"`
	Email  string     `json:"email"`
	Role   model.Role `json:"role"`
	jwt.RegisteredClaims
}

// Session identifies the authenticated caller for a single request. It is
// extracted from the verified JWT and passed explicitly; handlers never reach
// for global state.
type Session struct {
	UserID uuid.UUID
	Email  string
	Role   model.Role
}

// CurrentSession extracts the caller's session from the request token set by
// the JWT middleware.
func CurrentSession(c echo.Context) (*Session, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
	}
	return &Session{
		UserID: userID,
		Email:  claims.Email,
		Role:   claims.Role,
	}, nil
}

// RequireRole rejects callers whose session role does not match. Role checks
// happen here at the routing boundary so services can assume the caller's role
// is already established.
func RequireRole(role model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session, err := CurrentSession(c)
			if err != nil {
				return err
			}
			if session.Role != role {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
			}
			return next(c)
		}
	}
}
