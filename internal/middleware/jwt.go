package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/projectnexus/nexus-backend/internal/utils"
)

// Context keys under which the authenticated identity is stored for
// downstream handlers.
const (
    CtxUserID = "user_id"
    CtxEmail  = "email"
    CtxRole   = "role"
)

// Error codes returned in 401 bodies.  TOKEN_EXPIRED tells a client to try
// its refresh token; TOKEN_INVALID (and AUTH_REQUIRED) mean a full re-login.
const (
    CodeAuthRequired = "AUTH_REQUIRED"
    CodeTokenExpired = "TOKEN_EXPIRED"
    CodeTokenInvalid = "TOKEN_INVALID"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the token's subject, email and role claims into the request
// context.  Protected routes wrap themselves with this middleware so
// handlers can read the identity via c.Get(CtxUserID) etc.  The 401 bodies
// carry a machine-readable code discriminating an expired token from an
// invalid one.
func JWTAuth(issuer *utils.TokenIssuer) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            // A valid header is "Bearer <jwt>".  Anything else is
            // rejected before any token parsing happens.
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{
                    "success": false,
                    "message": "authorization required",
                    "code":    CodeAuthRequired,
                })
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            claims, err := issuer.VerifyAccess(raw)
            if err != nil {
                code := CodeTokenInvalid
                msg := "invalid token"
                if errors.Is(err, utils.ErrTokenExpired) {
                    code = CodeTokenExpired
                    msg = "token expired"
                }
                return c.JSON(http.StatusUnauthorized, echo.Map{
                    "success": false,
                    "message": msg,
                    "code":    code,
                })
            }

            c.Set(CtxUserID, claims.Subject)
            c.Set(CtxEmail, claims.Email)
            c.Set(CtxRole, claims.Role)
            return next(c)
        }
    }
}
