package http

import (
	"context"
	nethttp "net/http"

	"Racetrack/internal/racetrack/app"
	"Racetrack/internal/racetrack/domain"
	"Racetrack/internal/racetrack/interfaces/handler"
	"Racetrack/internal/racetrack/interfaces/handler/http/dto"
	"Racetrack/internal/shared/transport"
	transporthttp "Racetrack/internal/shared/transport/http"
	"Racetrack/modules/kit/errx"

	"github.com/gin-gonic/gin"
)

type HttpHandler struct {
	svc *app.RacetrackService
}

func NewHttpHandler(svc *app.RacetrackService) *HttpHandler {
	return &HttpHandler{svc: svc}
}

func (h *HttpHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/", h.Index)

	api := group.Group("/api")
	api.POST("/query", h.Query)
	api.GET("/players/:uid/rank", h.GetRank)
	api.GET("/players/:uid/vehicles", h.GetVehicles)
	api.GET("/players/:uid/recent-rank-list", h.GetRecentRankList)

	api.POST("/update-user", h.UpdateUser)
	api.POST("/update-car", h.UpdateCar)
	api.POST("/batch-update-car", h.BatchUpdateCar)
	api.POST("/batch-update-user-cars", h.BatchUpdateUserCars)
	api.POST("/update-rank-list", h.UpdateRankList)
	api.POST("/batch-update-rank-list", h.BatchUpdateRankList)
	api.POST("/update-record", h.UpdateRecord)
	api.POST("/batch-update-record", h.BatchUpdateRecord)
	api.POST("/combo-update", h.ComboUpdate)
}

func (h *HttpHandler) Index(c *gin.Context) {
	h.ok(c, gin.H{"message": "欢迎使用 Racetrack 管理 API", "status": "运行中"})
}

func (h *HttpHandler) Query(c *gin.Context) {
	var req dto.QueryReq
	if !h.bind(c, &req) {
		return
	}
	if req.Type == "" {
		req.Type = domain.QueryAll
	}
	res, err := h.svc.Query(c.Request.Context(), req.UIDs, req.Type)
	if err != nil {
		h.error(c.Request.Context(), c, err)
		return
	}
	h.ok(c, res)
}

func (h *HttpHandler) GetRank(c *gin.Context) {
	uid, ok := h.uidParam(c)
	if !ok {
		return
	}
	rec := h.svc.GetPlayerRank(c.Request.Context(), uid)
	if rec == nil {
		h.fail(c, transport.NotFound, "用户数据不存在")
		return
	}
	h.ok(c, rec)
}

func (h *HttpHandler) GetVehicles(c *gin.Context) {
	uid, ok := h.uidParam(c)
	if !ok {
		return
	}
	h.ok(c, h.svc.GetVehicleScores(c.Request.Context(), uid))
}

func (h *HttpHandler) GetRecentRankList(c *gin.Context) {
	uid, ok := h.uidParam(c)
	if !ok {
		return
	}
	list := h.svc.GetRecentRankList(c.Request.Context(), uid)
	if list == nil {
		h.fail(c, transport.StoreUnavailable, "系统繁忙，请稍后重试")
		return
	}
	h.ok(c, list)
}

func (h *HttpHandler) UpdateUser(c *gin.Context) {
	var req dto.UpdateUserReq
	if !h.bind(c, &req) {
		return
	}
	h.outcome(c, h.svc.UpdatePlayerRank(c.Request.Context(), *req.UID, *req.Score, *req.Level))
}

func (h *HttpHandler) UpdateCar(c *gin.Context) {
	var req dto.UpdateCarReq
	if !h.bind(c, &req) {
		return
	}
	h.outcome(c, h.svc.UpdateVehicleScores(c.Request.Context(), *req.UID, req.CarID, *req.RankScore, *req.SeasonScore))
}

func (h *HttpHandler) BatchUpdateCar(c *gin.Context) {
	var req dto.BatchUpdateCarReq
	if !h.bind(c, &req) {
		return
	}
	h.ok(c, h.svc.BatchUpdateVehicleScores(c.Request.Context(), req.UIDs, req.CarID, *req.RankScore, *req.SeasonScore))
}

func (h *HttpHandler) BatchUpdateUserCars(c *gin.Context) {
	var req dto.BatchUpdateUserCarsReq
	if !h.bind(c, &req) {
		return
	}
	h.outcome(c, h.svc.BatchUpdateVehicles(c.Request.Context(), *req.UID, req.Updates))
}

func (h *HttpHandler) UpdateRankList(c *gin.Context) {
	var req dto.UpdateRankListReq
	if !h.bind(c, &req) {
		return
	}
	h.outcome(c, h.svc.UpdateRecentRankList(c.Request.Context(), *req.UID, req.NewList))
}

func (h *HttpHandler) BatchUpdateRankList(c *gin.Context) {
	var req dto.BatchUpdateRankListReq
	if !h.bind(c, &req) {
		return
	}
	h.ok(c, h.svc.BatchUpdateRecentRankList(c.Request.Context(), req.UIDs, req.NewList))
}

func (h *HttpHandler) UpdateRecord(c *gin.Context) {
	var req dto.UpdateRecordReq
	if !h.bind(c, &req) {
		return
	}
	h.outcome(c, h.svc.UpdateSingleRecord(c.Request.Context(), *req.UID, *req.Index, *req.Value))
}

func (h *HttpHandler) BatchUpdateRecord(c *gin.Context) {
	var req dto.BatchUpdateRecordReq
	if !h.bind(c, &req) {
		return
	}
	h.ok(c, h.svc.BatchUpdateSingleRecord(c.Request.Context(), req.UIDs, *req.Index, *req.Value))
}

func (h *HttpHandler) ComboUpdate(c *gin.Context) {
	var req dto.ComboUpdateReq
	if !h.bind(c, &req) {
		return
	}
	h.ok(c, h.svc.ComboUpdate(c.Request.Context(), req.UIDs, req.CarID, *req.RankScore, *req.SeasonScore, req.RankList))
}

// bind 解析请求体；失败时直接返回 InvalidParam，消息带上解析错误（例如未知的更新字段）。
func (h *HttpHandler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		msg := "参数有误"
		if reason := errx.CodeOf(err); reason != "" {
			transport.SetErrorReason(c.Request.Context(), string(reason))
			msg = errx.MsgOf(err)
		} else {
			transport.SetErrorReason(c.Request.Context(), string(errx.CodeReqParamError))
			msg = msg + ": " + err.Error()
		}
		h.fail(c, transport.InvalidParam, msg)
		return false
	}
	return true
}

func (h *HttpHandler) uidParam(c *gin.Context) (domain.PlayerID, bool) {
	uid, err := domain.ParsePlayerID(c.Param("uid"))
	if err != nil {
		transport.SetErrorReason(c.Request.Context(), string(errx.CodeReqParamError))
		h.fail(c, transport.InvalidParam, "uid 格式错误")
		return 0, false
	}
	return uid, true
}

// outcome 单个写操作：成功 code=0；失败时 code 由原因决定，data 仍返回完整结果。
func (h *HttpHandler) outcome(c *gin.Context, out domain.UpdateOutcome) {
	code, msg := handler.HandleOutcome(c.Request.Context(), out)
	if out.Success {
		h.ok(c, out)
		return
	}
	transport.SetBizCode(c.Request.Context(), transport.BizCode(code))
	c.JSON(nethttp.StatusOK, transporthttp.ErrorWithData(code, msg, out))
}

func (h *HttpHandler) ok(c *gin.Context, data any) {
	transport.SetBizCode(c.Request.Context(), transport.OK)
	c.JSON(nethttp.StatusOK, transporthttp.Success(data))
}

func (h *HttpHandler) fail(c *gin.Context, code int, msg string) {
	transport.SetBizCode(c.Request.Context(), transport.BizCode(code))
	c.JSON(nethttp.StatusOK, transporthttp.Error(code, msg))
}

func (h *HttpHandler) error(ctx context.Context, c *gin.Context, err error) {
	code, msg := handler.HandleError(ctx, err)
	h.fail(c, code, msg)
}
