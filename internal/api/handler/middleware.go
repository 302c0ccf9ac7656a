package handler

import (
	"context"
	"errors"
	"strings"

	"forgequest/internal/models"
	"forgequest/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type ctxKey string

var ctxKeyAuthPlayer ctxKey = "AUTH_PLAYER"

// Authn parses the bearer token when present. It never terminates the
// request; handlers that need a session resolve it themselves.
func Authn(verifier interface {
	Validate(token string) (*models.PlayerFromAuth, error)
},
) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return next(c)
			}

			parts := strings.Split(header, "Bearer")
			if len(parts) != 2 {
				return next(c)
			}

			token := strings.TrimSpace(parts[1])
			if len(token) == 0 {
				return next(c)
			}

			player, err := verifier.Validate(token)
			if err != nil {
				// although it's a client error, we don't want to leak details
				//nolint:errcheck
				httpx.Abort(c, errorx.Wrap(errors.New("invalid access token"), errorx.Authn), -1)
				return nil
			}

			ctx := c.Request().Context()
			ctx = context.WithValue(ctx, ctxKeyAuthPlayer, player)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func ResolveValidPlayer(ctx context.Context, container *do.Injector) (*models.Player, error) {
	playerAuth, ok := ctx.Value(ctxKeyAuthPlayer).(*models.PlayerFromAuth)
	if !ok {
		return nil, errorx.Wrap(errors.New("missing session"), errorx.Authn)
	}

	servicePlayer, err := do.Invoke[*services.ServicePlayer](container)
	if err != nil {
		return nil, err
	}

	return servicePlayer.FindOrCreatePlayer(ctx, playerAuth)
}

// AuthnAdmin gates the operator surface with a static API key.
func AuthnAdmin(apiKey string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("X-Api-Key")
			if header == "" || apiKey == "" || header != apiKey {
				httpx.Abort(c, errorx.Wrap(errors.New("unauthorized"), errorx.Authn), -1)
				return nil
			}
			return next(c)
		}
	}
}
