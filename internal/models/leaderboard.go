package models

type LeaderboardItem struct {
	PlayerID int64 `json:"player_id"`
	Wins     int64 `json:"wins"`
	Rank     int   `json:"rank"`
}
