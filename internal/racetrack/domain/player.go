package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// PlayerID 是进程内唯一的玩家标识类型；存储层 uid 可能是整数也可能是字符串，
// 这种差异只在持久化边界处理。
type PlayerID int64

func (id PlayerID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

func ParsePlayerID(s string) (PlayerID, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid uid %q: %w", s, err)
	}
	return PlayerID(v), nil
}

// UnmarshalJSON 同时接受数字和十进制字符串形态的 uid。
func (id *PlayerID) UnmarshalJSON(b []byte) error {
	v, err := ParsePlayerID(strings.Trim(string(b), `"`))
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// ParsePlayerIDs 解析逗号分隔的 uid 列表，空项忽略。
func ParsePlayerIDs(s string) ([]PlayerID, error) {
	var out []PlayerID
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		id, err := ParsePlayerID(part)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

// PlayerRankRecord 对应 UserInfo.racetrack_rank_data，两个字段要么同时存在要么整体缺失。
type PlayerRankRecord struct {
	RankScore int64 `json:"rank_score"`
	RankLevel int64 `json:"rank_level"`
}
