package http

// Response 是所有 JSON 接口的统一外层：{code, msg, data}。
type Response struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
}

func Success(data any) Response {
	return Response{Code: 0, Msg: "ok", Data: data}
}

func Error(code int, msg string) Response {
	return Response{Code: code, Msg: msg}
}

// ErrorWithData 用于操作失败但仍需返回结果详情的场景。
func ErrorWithData(code int, msg string, data any) Response {
	return Response{Code: code, Msg: msg, Data: data}
}
