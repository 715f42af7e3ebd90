package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http" // HTTP status codes for responses

    "github.com/golang-jwt/jwt/v5"         // JWT library for token and claims types
    echojwt "github.com/labstack/echo-jwt/v4" // Echo JWT middleware that extracts and verifies bearer tokens
    "github.com/labstack/echo/v4"           // Echo framework used for defining middleware and handlers

    "github.com/iliyamo/event-ticketing/internal/utils"
)

// tokenContextKey is where echo-jwt stores the parsed *jwt.Token.
const tokenContextKey = "user"

// JWTAuth returns an Echo middleware that validates a Bearer access token and
// injects the token's subject and role claims into the request context.  The
// provided secret must match the one used when issuing tokens.  Only HS256
// tokens are accepted and expired tokens are rejected.  Handlers can access
// the authenticated principal via `c.Get("user_id")` (uint64) and
// `c.Get("role")` (string).
func JWTAuth(secret string) echo.MiddlewareFunc {
    verify := echojwt.WithConfig(jwtConfig(secret, false))
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return verify(identify(next, false))
    }
}

// OptionalJWTAuth behaves like JWTAuth when a valid token is present and
// lets the request through anonymously when the header is missing or the
// token does not verify.
func OptionalJWTAuth(secret string) echo.MiddlewareFunc {
    verify := echojwt.WithConfig(jwtConfig(secret, true))
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return verify(identify(next, true))
    }
}

func jwtConfig(secret string, optional bool) echojwt.Config {
    return echojwt.Config{
        SigningKey:    []byte(secret),
        SigningMethod: echojwt.AlgorithmHS256,
        ContextKey:    tokenContextKey,
        NewClaimsFunc: func(c echo.Context) jwt.Claims { return new(utils.Claims) },
        // With ContinueOnIgnoredError a nil result from ErrorHandler lets
        // the request continue without a principal.
        ContinueOnIgnoredError: optional,
        ErrorHandler: func(c echo.Context, err error) error {
            if optional {
                return nil
            }
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or missing token"})
        },
    }
}

// identify copies the verified claims into the plain context keys every
// handler reads.
func identify(next echo.HandlerFunc, optional bool) echo.HandlerFunc {
    return func(c echo.Context) error {
        tok, ok := c.Get(tokenContextKey).(*jwt.Token)
        if !ok || tok == nil {
            if optional {
                return next(c)
            }
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or missing token"})
        }
        claims, ok := tok.Claims.(*utils.Claims)
        if !ok {
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
        }
        id, err := claims.PrincipalID()
        if err != nil {
            if optional {
                return next(c)
            }
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
        }
        c.Set("user_id", id)
        c.Set("role", claims.Role)
        return next(c)
    }
}
