// Package cli 是 racetrack-cli 的子命令实现：每个子命令一个 pflag.FlagSet，
// 结果按 "===== 标题 =====" 的框线格式输出到 out。
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"Racetrack/internal/racetrack/app"
	"Racetrack/internal/racetrack/interfaces/handler"
	"Racetrack/internal/shared/transport"
	"Racetrack/modules/kit/errx"
	"Racetrack/modules/kit/logx"

	"github.com/samber/lo"
	flag "github.com/spf13/pflag"
)

// ErrUsage 表示命令行用法错误，调用方应打印帮助后以非零码退出。
var ErrUsage = errx.ErrReqParamERR

type command struct {
	name  string
	help  string
	run   func(ctx context.Context, c *CLI, args []string) error
	group map[string]command
}

type CLI struct {
	svc    *app.RacetrackService
	out    io.Writer
	errOut io.Writer
	log    logx.Logger
}

func New(svc *app.RacetrackService, out, errOut io.Writer, log logx.Logger) *CLI {
	if log == nil {
		log = logx.Nop()
	}
	return &CLI{svc: svc, out: out, errOut: errOut, log: log}
}

func commands() map[string]command {
	return map[string]command{
		"query":       {name: "query", help: "查询数据", run: runQuery},
		"update-user": {name: "update-user", help: "更新用户排名", run: runUpdateUser},
		"car": {name: "car", help: "车辆分数操作", group: map[string]command{
			"update":                 {name: "update", help: "更新单个用户的车辆分数", run: runCarUpdate},
			"batch-update":           {name: "batch-update", help: "批量更新多个用户的车辆分数", run: runCarBatchUpdate},
			"batch-update-user-cars": {name: "batch-update-user-cars", help: "批量更新一个用户的多辆车辆分数", run: runBatchUpdateUserCars},
		}},
		"rank-list": {name: "rank-list", help: "比赛记录操作", group: map[string]command{
			"get":                 {name: "get", help: "获取单个用户的recent_rank_list", run: runRankGet},
			"batch-get":           {name: "batch-get", help: "批量获取多个用户的recent_rank_list", run: runRankBatchGet},
			"update-list":         {name: "update-list", help: "更新整个recent_rank_list", run: runRankUpdateList},
			"batch-update-list":   {name: "batch-update-list", help: "批量更新多个用户的整个recent_rank_list", run: runRankBatchUpdateList},
			"update-record":       {name: "update-record", help: "更新单个记录", run: runRankUpdateRecord},
			"batch-update-record": {name: "batch-update-record", help: "批量更新多个用户的单个记录", run: runRankBatchUpdateRecord},
		}},
		"combo-update":     {name: "combo-update", help: "组合更新车辆分数和比赛记录", run: runComboUpdate},
		"update-car-score": {name: "update-car-score", help: "更新单个用户的车辆分数", run: runUpdateCarScore},
		"single": {name: "single", help: "单个用户操作", group: map[string]command{
			"update-car": {name: "update-car", help: "按 JSON 批量更新单个用户的车辆分数", run: runSingleUpdateCar},
		}},
	}
}

// Run 解析 args（不含程序名）并执行对应子命令。
func (c *CLI) Run(ctx context.Context, args []string) error {
	cmds := commands()
	path := []string{}
	for {
		if len(args) == 0 || strings.HasPrefix(args[0], "-") {
			c.usage(path, cmds)
			return ErrUsage.WithMsg("缺少子命令")
		}
		cmd, ok := cmds[args[0]]
		if !ok {
			c.usage(path, cmds)
			return ErrUsage.WithMsgf("未知命令: %s", args[0])
		}
		path = append(path, cmd.name)
		args = args[1:]
		if cmd.group == nil {
			return c.exec(ctx, strings.Join(path, " "), cmd, args)
		}
		cmds = cmd.group
	}
}

func (c *CLI) exec(ctx context.Context, action string, cmd command, args []string) error {
	ctx = transport.NewContextWithParent(ctx, "cli "+action, "cli")
	err := cmd.run(ctx, c, args)
	switch {
	case err == nil:
		transport.SetBizCode(ctx, transport.OK)
	case errors.Is(err, flag.ErrHelp):
		transport.SetBizCode(ctx, transport.OK)
		err = nil
	default:
		code, _ := handler.HandleError(ctx, err)
		transport.SetBizCode(ctx, transport.BizCode(code))
	}
	transport.WriteAccessLog(ctx, c.log)
	return err
}

func (c *CLI) usage(path []string, cmds map[string]command) {
	prefix := strings.Join(append([]string{"racetrack-cli"}, path...), " ")
	fmt.Fprintf(c.errOut, "用法: %s <命令> [参数]\n\n可用命令:\n", prefix)
	names := lo.Keys(cmds)
	slices.Sort(names)
	for _, n := range names {
		fmt.Fprintf(c.errOut, "  %-24s %s\n", n, cmds[n].help)
	}
}

func (c *CLI) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	fs.SortFlags = false
	return fs
}

// parse 解析参数并检查必填项。
func parse(fs *flag.FlagSet, args []string, required ...string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return ErrUsage.WithMsg(err.Error()).WithCause(err)
	}
	missing := lo.Filter(required, func(n string, _ int) bool { return !fs.Changed(n) })
	if len(missing) > 0 {
		return ErrUsage.WithMsgf("缺少必填参数: --%s", strings.Join(missing, ", --"))
	}
	return nil
}
