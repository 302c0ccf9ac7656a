package handler

import (
	"net/http"
	"os"

	"forgequest/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo-contrib/pprof"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/samber/do"
)

type Config struct {
	Container *do.Injector
	Mode      string
	Origins   []string
}

func New(cfg *Config) (http.Handler, error) {
	r := echo.New()
	r.Pre(middleware.RemoveTrailingSlash())
	if cfg.Mode == "debug" {
		r.Debug = true
		pprof.Register(r)
	}

	r.JSONSerializer = httpx.SegmentJSONSerializer{}
	r.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339}\t${method}\t${uri}\t${status}\t${latency_human}\n",
	}))
	r.Use(middleware.Recover())

	r.GET("", func(c echo.Context) error {
		return c.String(http.StatusOK, "⚔️")
	})

	routesAPIv1 := r.Group("/api/v1")
	{
		authentication, err := do.Invoke[*services.Authentication](cfg.Container)
		if err != nil {
			return nil, err
		}
		cors := middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.Origins,
			AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
			AllowCredentials: true,
			MaxAge:           60 * 60,
		})

		routesAPIv1.Use(cors)
		routesAPIv1.Use(Authn(authentication)) // Authn will NOT terminate unauthenticated requests.
		routesAPIv1.GET("", Hello)

		p := groupPlayer{cfg.Container}
		routesAPIv1.GET("/player/me", p.Me)
		routesAPIv1.POST("/player/wallet", p.ConnectWallet)
		routesAPIv1.POST("/player/character", p.CreateCharacter)
		routesAPIv1.GET("/player/weapons", p.Weapons)

		q := groupQuest{cfg.Container}
		routesAPIv1.GET("/quest/tiers", q.Tiers)
		routesAPIv1.GET("/quest/free-remaining", q.RemainingFreeQuests)
		routesAPIv1.GET("/quest/current", q.Current)
		routesAPIv1.GET("/quest/history", q.History)
		routesAPIv1.POST("/quest/start", q.Start)
		routesAPIv1.POST("/quest/complete", q.Complete)
		routesAPIv1.POST("/quest/cancel", q.Cancel)

		a := groupArmory{cfg.Container}
		routesAPIv1.POST("/weapon/:id/equip", a.Equip)
		routesAPIv1.POST("/weapon/:id/upgrade", a.Upgrade)
		routesAPIv1.POST("/chests/buy", a.BuyChests)
		routesAPIv1.POST("/chests/open", a.OpenChest)
		routesAPIv1.POST("/supply-drop/claim", a.ClaimSupplyDrop)

		t := groupTreasury{cfg.Container}
		routesAPIv1.GET("/rewards", t.PendingRewards)
		routesAPIv1.POST("/rewards/withdraw/gold", t.WithdrawGold)
		routesAPIv1.POST("/rewards/withdraw/chests", t.WithdrawChests)

		l := groupLeaderboard{cfg.Container}
		routesAPIv1.GET("/leaderboard/wins", l.GetTopWins)
		routesAPIv1.GET("/leaderboard/wins/me", l.GetMyRank)
		routesAPIv1.GET("/events/last", l.GetLastEvent)
		routesAPIv1.GET("/events/me", l.GetMyEvents)

		routesAPIv1Admin := routesAPIv1.Group("/admin")
		{
			routesAPIv1Admin.Use(AuthnAdmin(os.Getenv("ADMIN_API_KEY")))
			ad := groupAdmin{cfg.Container}
			routesAPIv1Admin.POST("/reward-multiplier", ad.SetRewardMultiplier)
			routesAPIv1Admin.GET("/shareholders", ad.Shareholders)
			routesAPIv1Admin.POST("/cache/flush", ad.FlushCache)
		}
	}

	return r, nil
}

func Hello(c echo.Context) error {
	return httpx.RestAbort(c, "hello adventurer", nil)
}
