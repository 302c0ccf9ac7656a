package main

import (
	"context"
	"log"
	"time"

	"forgequest/internal/datastore"
	"forgequest/internal/datastore/redis_store"
	"forgequest/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/uptrace/bun"
)

// rebuildLimit caps how many rows the sorted set carries; the API trims
// further via config.
const rebuildLimit = 100

type LeaderboardJob struct {
	Redis redis.UniversalClient
	Db    *bun.DB
}

func NewLeaderboardJob(redis redis.UniversalClient, db *bun.DB) *LeaderboardJob {
	return &LeaderboardJob{
		Redis: redis,
		Db:    db,
	}
}

func (j *LeaderboardJob) Start(cronRunner *cron.Cron) {
	schedule := "@every 5m"
	timeline, err := datastore.GetConfigByKey(context.Background(), j.Db, "CRONJOB_TIME_LEADERBOARD")
	if err == nil && timeline != nil && timeline.Value != "" {
		schedule = timeline.Value
	}

	_, err = cronRunner.AddFunc(schedule, j.rebuild)
	log.Println("Leaderboard Cronjob start at:", time.Now().Format("2006-01-02 15:04:05"), "cron:", schedule, err)
	j.rebuild()
}

func (j *LeaderboardJob) rebuild() {
	ctx := context.Background()

	players, err := datastore.GetTopPlayersByWins(ctx, j.Db, rebuildLimit)
	if err != nil {
		log.Println(err)
		return
	}

	if err := redis_store.ClearWinsLeaderboard(ctx, j.Redis); err != nil {
		log.Println(err)
		return
	}

	for _, player := range players {
		err := redis_store.SetWinsLeaderboard(ctx, j.Redis, &models.LeaderboardItem{
			PlayerID: player.ID,
			Wins:     player.QuestWins,
		})
		if err != nil {
			log.Println(err)
		}
	}

	log.Println("Wins leaderboard rebuilt:", len(players), "players")
}
