package cli

import (
	"context"
	"fmt"
	"strings"

	"Racetrack/internal/racetrack/domain"

	"github.com/samber/lo"
	flag "github.com/spf13/pflag"
)

func runQuery(ctx context.Context, c *CLI, args []string) error {
	fs := c.flagSet("query")
	uids := fs.String("uids", "", "用户ID列表（逗号分隔，也可以跟在参数后面）")
	kind := fs.String("type", string(domain.QueryAll), "查询类型: user / car / rank-list / all")
	if err := parse(fs, args); err != nil {
		return err
	}
	ids, err := domain.ParsePlayerIDs(strings.Join(append([]string{*uids}, fs.Args()...), ","))
	if err != nil {
		return ErrUsage.WithMsgf("解析UID参数失败: %v", err)
	}
	if len(ids) == 0 {
		return ErrUsage.WithMsg("缺少必填参数: --uids")
	}
	res, err := c.svc.Query(ctx, ids, domain.QueryKind(*kind))
	if err != nil {
		return err
	}
	for _, uid := range lo.Uniq(ids) {
		snap := res[uid]
		var sections []string
		if snap.Rank != nil {
			sections = append(sections, "[用户排名]:\n"+pretty(snap.Rank))
		}
		if len(snap.Vehicles) > 0 {
			sections = append(sections, "[车辆分数]:\n"+formatCarScores(snap.Vehicles))
		}
		if len(snap.RecentRankList) > 0 {
			sections = append(sections, "[比赛记录]:\n"+FormatRankList(snap.RecentRankList))
		}
		printResult(c.out, fmt.Sprintf("UID %d 查询结果", uid), strings.Join(sections, "\n"))
	}
	return nil
}

func runUpdateUser(ctx context.Context, c *CLI, args []string) error {
	fs := c.flagSet("update-user")
	uid := fs.Int64("uid", 0, "用户ID")
	score := fs.Int64("score", 0, "新的rank_score")
	level := fs.Int64("level", 0, "新的rank_level")
	if err := parse(fs, args, "uid", "score", "level"); err != nil {
		return err
	}
	out := c.svc.UpdatePlayerRank(ctx, domain.PlayerID(*uid), *score, *level)
	printResult(c.out, "更新用户排名", pretty(out))
	return nil
}

type carScoreFlags struct {
	carID       *string
	rankScore   *int64
	seasonScore *int64
}

func runCarUpdate(ctx context.Context, c *CLI, args []string) error {
	fs := c.flagSet("car update")
	uid := fs.Int64("uid", 0, "用户ID")
	f := carFlags(fs)
	if err := parse(fs, args, "uid", "car-id", "rank-score", "season-score"); err != nil {
		return err
	}
	out := c.svc.UpdateVehicleScores(ctx, domain.PlayerID(*uid), domain.VehicleID(*f.carID), *f.rankScore, *f.seasonScore)
	printResult(c.out, "更新车辆分数", pretty(out))
	return nil
}

func runCarBatchUpdate(ctx context.Context, c *CLI, args []string) error {
	fs := c.flagSet("car batch-update")
	uids := fs.String("uids", "", "逗号分隔的UID列表")
	file := fs.String("file", "", "包含UID列表的文件路径，每行一个")
	f := carFlags(fs)
	if err := parse(fs, args, "car-id", "rank-score", "season-score"); err != nil {
		return err
	}
	ids, source, err := parseUIDs(*uids, *file)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "UID来源: %s\n", source)
	res := c.svc.BatchUpdateVehicleScores(ctx, ids, domain.VehicleID(*f.carID), *f.rankScore, *f.seasonScore)
	printResult(c.out, "批量更新车辆分数", pretty(summary(ids, res)))
	return nil
}

func runBatchUpdateUserCars(ctx context.Context, c *CLI, args []string) error {
	fs := c.flagSet("car batch-update-user-cars")
	uid := fs.Int64("uid", 0, "用户ID")
	raw := fs.String("updates", "", `更新内容(JSON)，如: {"5001":{"rank_score":1000,"season_best_rank_score":2000,"palace_scores":[1,2,3,4,5]},"5002":{"rank_score":1500}}`)
	if err := parse(fs, args, "uid", "updates"); err != nil {
		return err
	}
	var updates domain.VehicleUpdates
	if err := decodeJSON("updates", *raw, &updates); err != nil {
		return err
	}
	out := c.svc.BatchUpdateVehicles(ctx, domain.PlayerID(*uid), updates)
	printResult(c.out, "批量更新用户车辆", pretty(out))
	return nil
}

func runRankGet(ctx context.Context, c *CLI, args []string) error {
	fs := c.flagSet("rank-list get")
	uid := fs.Int64("uid", 0, "用户ID")
	if err := parse(fs, args, "uid"); err != nil {
		return err
	}
	printResult(c.out, "获取比赛记录", rankListOrFailure(c.svc.GetRecentRankList(ctx, domain.PlayerID(*uid))))
	return nil
}

func runRankBatchGet(ctx context.Context, c *CLI, args []string) error {
	fs := c.flagSet("rank-list batch-get")
	uids := fs.String("uids", "", "逗号分隔的UID列表")
	file := fs.String("file", "", "包含UID列表的文件路径，每行一个")
	if err := parse(fs, args); err != nil {
		return err
	}
	ids, source, err := parseUIDs(*uids, *file)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "UID来源: %s\n", source)
	for _, uid := range ids {
		printResult(c.out, fmt.Sprintf("UID %d 比赛记录", uid), rankListOrFailure(c.svc.GetRecentRankList(ctx, uid)))
	}
	return nil
}

func runRankUpdateList(ctx context.Context, c *CLI, args []string) error {
	fs := c.flagSet("rank-list update-list")
	uid := fs.Int64("uid", 0, "用户ID")
	raw := fs.String("new-list", "", `新的列表内容（JSON），如 [{"rank":1}, 2]`)
	if err := parse(fs, args, "uid", "new-list"); err != nil {
		return err
	}
	var list domain.RecentRankList
	if err := decodeJSON("new-list", *raw, &list); err != nil {
		return err
	}
	printResult(c.out, "更新比赛记录", pretty(c.svc.UpdateRecentRankList(ctx, domain.PlayerID(*uid), list)))
	return nil
}

func runRankBatchUpdateList(ctx context.Context, c *CLI, args []string) error {
	fs := c.flagSet("rank-list batch-update-list")
	uids := fs.String("uids", "", "逗号分隔的UID列表")
	file := fs.String("file", "", "包含UID列表的文件路径，每行一个")
	raw := fs.String("new-list", "", "新的列表内容（JSON）")
	if err := parse(fs, args, "new-list"); err != nil {
		return err
	}
	ids, source, err := parseUIDs(*uids, *file)
	if err != nil {
		return err
	}
	var list domain.RecentRankList
	if err := decodeJSON("new-list", *raw, &list); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "UID来源: %s\n", source)
	res := c.svc.BatchUpdateRecentRankList(ctx, ids, list)
	printResult(c.out, "批量更新比赛记录", pretty(summary(ids, res)))
	return nil
}

func runRankUpdateRecord(ctx context.Context, c *CLI, args []string) error {
	fs := c.flagSet("rank-list update-record")
	uid := fs.Int64("uid", 0, "用户ID")
	index := fs.Int("index", 0, "记录索引（从0开始）")
	raw := fs.String("value", "", `新值（JSON），如 {"rank":1} 或 2`)
	if err := parse(fs, args, "uid", "index", "value"); err != nil {
		return err
	}
	var value domain.MatchRecord
	if err := decodeJSON("value", *raw, &value); err != nil {
		return err
	}
	printResult(c.out, "更新比赛记录项", pretty(c.svc.UpdateSingleRecord(ctx, domain.PlayerID(*uid), *index, value)))
	return nil
}

func runRankBatchUpdateRecord(ctx context.Context, c *CLI, args []string) error {
	fs := c.flagSet("rank-list batch-update-record")
	uids := fs.String("uids", "", "逗号分隔的UID列表")
	file := fs.String("file", "", "包含UID列表的文件路径，每行一个")
	index := fs.Int("index", 0, "记录索引")
	raw := fs.String("value", "", "新值（JSON）")
	if err := parse(fs, args, "index", "value"); err != nil {
		return err
	}
	ids, source, err := parseUIDs(*uids, *file)
	if err != nil {
		return err
	}
	var value domain.MatchRecord
	if err := decodeJSON("value", *raw, &value); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "UID来源: %s\n", source)
	res := c.svc.BatchUpdateSingleRecord(ctx, ids, *index, value)
	printResult(c.out, "批量更新比赛记录项", pretty(summary(ids, res)))
	return nil
}

func runComboUpdate(ctx context.Context, c *CLI, args []string) error {
	fs := c.flagSet("combo-update")
	uids := fs.String("uids", "", "逗号分隔的UID列表")
	f := carFlags(fs)
	raw := fs.String("rank-list", "", "新的比赛记录列表（JSON），如 [1,1,3,4,1]")
	if err := parse(fs, args, "uids", "car-id", "rank-score", "season-score", "rank-list"); err != nil {
		return err
	}
	ids, _, err := parseUIDs(*uids, "")
	if err != nil {
		return err
	}
	var list domain.RecentRankList
	if err := decodeJSON("rank-list", *raw, &list); err != nil {
		return err
	}

	fmt.Fprintln(c.out, "\n===== 开始组合更新 =====")
	fmt.Fprintf(c.out, "UID列表: %v\n", ids)
	fmt.Fprintf(c.out, "车辆ID: %s\n", *f.carID)
	fmt.Fprintf(c.out, "Rank Score: %d\n", *f.rankScore)
	fmt.Fprintf(c.out, "Season Score: %d\n", *f.seasonScore)
	fmt.Fprintf(c.out, "Rank List: %s\n", compact(list))
	fmt.Fprintln(c.out, strings.Repeat("=", 50))

	res := c.svc.ComboUpdate(ctx, ids, domain.VehicleID(*f.carID), *f.rankScore, *f.seasonScore, list)
	ids = lo.Uniq(ids)
	for _, uid := range ids {
		r := res[uid]
		fmt.Fprintf(c.out, "\n处理 UID %d:\n", uid)
		fmt.Fprintln(c.out, "1. 更新车辆分数...")
		printStep(c, r.VehicleScores, "更新后数据")
		fmt.Fprintln(c.out, "2. 更新比赛记录...")
		printStep(c, r.RecentRankList, "更新后记录")
	}

	failed := lo.Filter(ids, func(uid domain.PlayerID, _ int) bool { return !res[uid].Success })
	fmt.Fprintln(c.out, "\n===== 组合更新结果汇总 =====")
	fmt.Fprintf(c.out, "总计: %d 个用户\n", len(ids))
	fmt.Fprintf(c.out, "成功: %d 个\n", len(ids)-len(failed))
	fmt.Fprintf(c.out, "失败: %d 个\n", len(failed))
	if len(failed) > 0 {
		fmt.Fprintln(c.out, "\n失败详情:")
		for _, uid := range failed {
			r := res[uid]
			fmt.Fprintf(c.out, "UID %d:\n", uid)
			if !r.VehicleScores.Success {
				fmt.Fprintf(c.out, "  车辆更新失败: %s\n", r.VehicleScores.Error)
			}
			if !r.RecentRankList.Success {
				fmt.Fprintf(c.out, "  比赛记录更新失败: %s\n", r.RecentRankList.Error)
			}
		}
	}
	fmt.Fprintln(c.out, "\n===== 组合更新完成 =====")
	return nil
}

func runUpdateCarScore(ctx context.Context, c *CLI, args []string) error {
	fs := c.flagSet("update-car-score")
	uid := fs.Int64("uid", 0, "用户ID")
	f := carFlags(fs)
	if err := parse(fs, args, "uid", "car-id", "rank-score", "season-score"); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "\n===== 开始更新车辆分数 =====")
	fmt.Fprintf(c.out, "UID: %d\n", *uid)
	fmt.Fprintf(c.out, "车辆ID: %s\n", *f.carID)
	fmt.Fprintf(c.out, "Rank Score: %d\n", *f.rankScore)
	fmt.Fprintf(c.out, "Season Score: %d\n", *f.seasonScore)

	out := c.svc.UpdateVehicleScores(ctx, domain.PlayerID(*uid), domain.VehicleID(*f.carID), *f.rankScore, *f.seasonScore)
	if out.Success {
		fmt.Fprintln(c.out, "\n===== 更新成功 =====")
		fmt.Fprintln(c.out, "更新后数据:")
		fmt.Fprintln(c.out, pretty(out.Data))
	} else {
		fmt.Fprintln(c.out, "\n===== 更新失败 =====")
		fmt.Fprintf(c.out, "错误原因: %s\n", out.Error)
	}
	fmt.Fprintln(c.out, "\n===== 操作完成 =====")
	return nil
}

func runSingleUpdateCar(ctx context.Context, c *CLI, args []string) error {
	fs := c.flagSet("single update-car")
	uid := fs.Int64("uid", 0, "用户ID")
	raw := fs.String("updates", "", `更新内容(JSON)，如: {"10001":{"rank_score":2000,"season_best_rank_score":2000,"palace_scores":[1,2,3,4,5]}}`)
	if err := parse(fs, args, "uid", "updates"); err != nil {
		return err
	}
	var updates domain.VehicleUpdates
	if err := decodeJSON("updates", *raw, &updates); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "\n===== 开始更新单个用户车辆分数 =====")
	fmt.Fprintf(c.out, "UID: %d\n", *uid)
	fmt.Fprintf(c.out, "更新内容: %s\n", *raw)
	printResult(c.out, "更新结果", pretty(c.svc.BatchUpdateVehicles(ctx, domain.PlayerID(*uid), updates)))
	fmt.Fprintln(c.out, "\n===== 更新完成 =====")
	return nil
}

func carFlags(fs *flag.FlagSet) carScoreFlags {
	return carScoreFlags{
		carID:       fs.String("car-id", "", "车辆ID"),
		rankScore:   fs.Int64("rank-score", 0, "新的rank_score"),
		seasonScore: fs.Int64("season-score", 0, "新的season_best_rank_score"),
	}
}

func printStep(c *CLI, out domain.UpdateOutcome, label string) {
	if out.Success {
		fmt.Fprintf(c.out, "  成功! %s: %s\n", label, compact(out.Data))
		return
	}
	fmt.Fprintf(c.out, "  失败! 原因: %s\n", out.Error)
}

func rankListOrFailure(list domain.RecentRankList) string {
	if list == nil {
		return "获取失败"
	}
	return FormatRankList(list)
}

type batchSummary struct {
	Total   string                                   `json:"总计"`
	Details map[domain.PlayerID]domain.UpdateOutcome `json:"详情"`
}

func summary(ids []domain.PlayerID, res map[domain.PlayerID]domain.UpdateOutcome) batchSummary {
	ok := lo.CountBy(lo.Values(res), func(o domain.UpdateOutcome) bool { return o.Success })
	return batchSummary{
		Total:   fmt.Sprintf("%d/%d", ok, len(lo.Uniq(ids))),
		Details: res,
	}
}
