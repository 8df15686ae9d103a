package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"Racetrack/internal/racetrack/domain"
	"Racetrack/modules/kit/errx"

	"github.com/samber/lo"
)

func printResult(w io.Writer, title string, body string) {
	fmt.Fprintf(w, "\n===== %s =====\n", title)
	fmt.Fprintln(w, body)
	fmt.Fprintln(w, strings.Repeat("=", 50))
}

func pretty(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(b)
}

// FormatRankList 每项一行，比赛结果对象按存储中的键顺序展开。
func FormatRankList(list domain.RecentRankList) string {
	if len(list) == 0 {
		return "[]"
	}
	lines := []string{"["}
	for _, item := range list {
		res, ok := item.Result()
		if !ok {
			v, _ := item.Placeholder()
			lines = append(lines, fmt.Sprintf("  %d,", v))
			continue
		}
		lines = append(lines, "  {")
		for _, f := range res {
			lines = append(lines, fmt.Sprintf("    %s: %s,", f.Key, compact(f.Value)))
		}
		lines = append(lines, "  },")
	}
	lines = append(lines, "]")
	return strings.Join(lines, "\n")
}

// formatCarScores 每辆车一行；缺失的分数输出 N/A。
func formatCarScores(scores map[domain.VehicleID]domain.VehicleScores) string {
	ids := lo.Keys(scores)
	slices.Sort(ids)
	rows := lo.Map(ids, func(id domain.VehicleID, _ int) string {
		s := scores[id]
		return fmt.Sprintf(`    "%s": {"rank_score": %s, "season_best_rank_score": %s, "palace_score_list": %s}`,
			id, optInt(s.RankScore), optInt(s.SeasonBestRankScore), compact(s.PalaceScoreList))
	})
	return "{\n" + strings.Join(rows, ",\n") + "\n}"
}

func optInt(v *int64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d", *v)
}

func compact(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// parseUIDs --file 优先：文件每行一个 uid，空行忽略；否则解析逗号分隔的 --uids。
// 返回的 source 用于输出 "UID来源"。
func parseUIDs(uids, file string) ([]domain.PlayerID, string, error) {
	switch {
	case uids != "" && file != "":
		return nil, "", ErrUsage.WithMsg("--uids 和 --file 只能指定一个")
	case file != "":
		f, err := os.Open(file)
		if err != nil {
			return nil, "", ErrUsage.WithMsgf("读取UID文件失败: %v", err).WithCause(err)
		}
		defer f.Close()
		var out []domain.PlayerID
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" {
				continue
			}
			id, err := domain.ParsePlayerID(line)
			if err != nil {
				return nil, "", ErrUsage.WithMsgf("读取UID文件失败: %v", err).WithCause(err)
			}
			out = append(out, id)
		}
		if err := sc.Err(); err != nil {
			return nil, "", ErrUsage.WithMsgf("读取UID文件失败: %v", err).WithCause(err)
		}
		return out, fmt.Sprintf("从文件 %s 读取", file), nil
	case uids != "":
		out, err := domain.ParsePlayerIDs(uids)
		if err != nil {
			return nil, "", ErrUsage.WithMsgf("解析UID参数失败: %v", err).WithCause(err)
		}
		return out, "从命令行参数读取", nil
	default:
		return nil, "", ErrUsage.WithMsg("必须指定 --uids 或 --file")
	}
}

func decodeJSON(flagName, raw string, out any) error {
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		if errx.CodeOf(err) != "" {
			return err
		}
		return ErrUsage.WithMsgf("--%s 不是合法的 JSON: %v", flagName, err).WithCause(err)
	}
	return nil
}
