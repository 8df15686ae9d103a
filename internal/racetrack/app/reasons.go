package app

// 操作名：同时作为日志 action 和指标的 op 标签。
const (
	OpGetPlayerRank             = "get_player_rank"
	OpGetVehicles               = "get_vehicles"
	OpGetRecentRankList         = "get_recent_rank_list"
	OpUpdatePlayerRank          = "update_player_rank"
	OpUpdateVehicleScores       = "update_vehicle_scores"
	OpBatchUpdateVehicles       = "batch_update_vehicles"
	OpUpdateRecentRankList      = "update_recent_rank_list"
	OpUpdateSingleRecord        = "update_single_record"
	OpBatchUpdateRecentRankList = "batch_update_recent_rank_list"
	OpBatchUpdateSingleRecord   = "batch_update_single_record"
	OpBatchUpdateVehicleScores  = "batch_update_vehicle_scores"
	OpComboUpdate               = "combo_update"
	OpQuery                     = "query"
)

type Reason struct {
	Code    string
	Message string
}

func NewReason(c, m string) Reason {
	return Reason{Code: c, Message: m}
}

var (
	// 技术错误 reason，只用于日志与排障，对外统一是 SERVICE_UNAVAILABLE。
	ReasonStoreReadFail   = NewReason("STORE_READ_FAIL", "读取存储失败")
	ReasonStoreWriteFail  = NewReason("STORE_WRITE_FAIL", "写入存储失败")
	ReasonStoreReReadFail = NewReason("STORE_REREAD_FAIL", "写入后回读失败")
)
