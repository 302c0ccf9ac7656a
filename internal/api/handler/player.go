package handler

import (
	"forgequest/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupPlayer struct {
	container *do.Injector
}

func (gr *groupPlayer) Me(c echo.Context) error {
	player, err := ResolveValidPlayer(c.Request().Context(), gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, player, nil)
}

func (gr *groupPlayer) ConnectWallet(c echo.Context) error {
	ctx := c.Request().Context()

	player, err := ResolveValidPlayer(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload struct {
		Wallet string `json:"wallet"`
	}
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	servicePlayer, err := do.Invoke[*services.ServicePlayer](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	if err := servicePlayer.ConnectWallet(ctx, player, payload.Wallet); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, player, nil)
}

func (gr *groupPlayer) CreateCharacter(c echo.Context) error {
	ctx := c.Request().Context()

	player, err := ResolveValidPlayer(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceArmory, err := do.Invoke[*services.ServiceArmory](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	starter, err := serviceArmory.CreateCharacter(ctx, player)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, starter, nil)
}

func (gr *groupPlayer) Weapons(c echo.Context) error {
	ctx := c.Request().Context()

	player, err := ResolveValidPlayer(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceArmory, err := do.Invoke[*services.ServiceArmory](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	weapons, err := serviceArmory.Weapons(ctx, player.ID)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	return httpx.RestAbort(c, weapons, nil)
}
