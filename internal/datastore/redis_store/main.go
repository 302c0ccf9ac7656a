package redis_store

import (
	"context"
	"strconv"

	"forgequest/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

const eventChannel = "forgequest:events"

func dbKeyWinsLeaderboard() string {
	return "leaderboard:quest_wins"
}

func dbKeyLastEvent() string {
	return "event:last"
}

// PublishGameEvent fans the event out to subscribers and keeps the latest
// one around for pollers. Both writes are observability, not state.
func PublishGameEvent(ctx context.Context, cmd redis.UniversalClient, event *models.GameEvent) error {
	b, err := msgpack.Marshal(event)
	if err != nil {
		return err
	}

	if err := cmd.Publish(ctx, eventChannel, b).Err(); err != nil {
		return err
	}

	return cmd.Set(ctx, dbKeyLastEvent(), b, 0).Err()
}

func GetLastGameEvent(ctx context.Context, cmd redis.Cmdable) (*models.GameEvent, error) {
	var v *models.GameEvent
	b, err := cmd.Get(ctx, dbKeyLastEvent()).Bytes()
	if err != nil {
		return nil, err
	}

	err = msgpack.Unmarshal(b, &v)
	return v, err
}

func SetWinsLeaderboard(ctx context.Context, cmd redis.Cmdable, item *models.LeaderboardItem) error {
	return cmd.ZAdd(ctx, dbKeyWinsLeaderboard(), redis.Z{
		Score:  float64(item.Wins),
		Member: strconv.FormatInt(item.PlayerID, 10),
	}).Err()
}

func ClearWinsLeaderboard(ctx context.Context, cmd redis.Cmdable) error {
	return cmd.Del(ctx, dbKeyWinsLeaderboard()).Err()
}

func GetWinsLeaderboard(ctx context.Context, cmd redis.Cmdable, num int) ([]*models.LeaderboardItem, error) {
	items, err := cmd.ZRevRangeWithScores(ctx, dbKeyWinsLeaderboard(), 0, int64(num-1)).Result()
	if err != nil {
		return nil, err
	}

	var results []*models.LeaderboardItem
	for i, item := range items {
		id, _ := strconv.ParseInt(item.Member.(string), 10, 64)
		results = append(results, &models.LeaderboardItem{
			PlayerID: id,
			Wins:     int64(item.Score),
			Rank:     i + 1,
		})
	}

	return results, nil
}

func GetWinsRank(ctx context.Context, cmd redis.Cmdable, playerID int64) (int64, error) {
	rank, err := cmd.ZRevRank(ctx, dbKeyWinsLeaderboard(), strconv.FormatInt(playerID, 10)).Result()
	if err != nil {
		return -1, err
	}
	return rank, nil
}
