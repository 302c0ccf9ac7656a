package handler

import (
	"errors"

	"forgequest/internal/pkg/caching"
	"forgequest/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
)

type groupAdmin struct {
	container *do.Injector
}

func (gr *groupAdmin) SetRewardMultiplier(c echo.Context) error {
	var payload struct {
		Value int `json:"value"`
	}
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	serviceConfig, err := do.Invoke[*services.ServiceConfig](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	if err := serviceConfig.SetRewardMultiplier(c.Request().Context(), payload.Value); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}

	return httpx.RestAbort(c, nil, nil)
}

func (gr *groupAdmin) FlushCache(c echo.Context) error {
	var payload struct {
		Pattern string `json:"pattern"`
	}
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Validation))
	}
	if payload.Pattern == "" {
		return httpx.RestAbort(c, nil, errorx.Wrap(errors.New("missing pattern"), errorx.Validation))
	}

	redisCache, err := do.InvokeNamed[redis.UniversalClient](gr.container, "redis-cache")
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	if err := caching.DeleteKeys(c.Request().Context(), redisCache, payload.Pattern); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	return httpx.RestAbort(c, nil, nil)
}

func (gr *groupAdmin) Shareholders(c echo.Context) error {
	serviceTreasury, err := do.Invoke[*services.ServiceTreasury](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	shareholders, err := serviceTreasury.Shareholders(c.Request().Context())
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, shareholders, nil)
}
