package errx

import (
	"errors"
	"fmt"
	"runtime"
)

// Code 是错误的稳定标识，对外（HTTP/CLI 输出）以 reason 字段暴露。
type Code string

// Kind 区分业务拒绝与系统故障，两者的日志级别和是否捕获栈不同。
type Kind uint8

const (
	KindBiz Kind = iota
	KindSys
)

// Error 是通用错误模型：
// - code/msg：对外语义
// - data：上下文（uid、vehicle_id 等），只读，派生时复制
// - cause：原始错误链
// - stack：系统错误首次挂 cause 时捕获一次
type Error struct {
	code  Code
	msg   string
	data  map[string]any
	cause error
	stack []uintptr
	kind  Kind
}

func NewBiz(code Code, msg string) *Error {
	return &Error{code: code, msg: msg, kind: KindBiz}
}

func NewSys(code Code, msg string) *Error {
	return &Error{code: code, msg: msg, kind: KindSys}
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch {
	case e.msg == "" && e.cause == nil:
		return string(e.code)
	case e.msg == "":
		return fmt.Sprintf("%s: %v", e.code, e.cause)
	case e.cause == nil:
		return fmt.Sprintf("%s: %s", e.code, e.msg)
	default:
		return fmt.Sprintf("%s: %s: %v", e.code, e.msg, e.cause)
	}
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is 只按错误码判断语义是否相同，忽略 msg/data/cause。
func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return false
	}
	t, ok := target.(*Error)
	if !ok || t == nil {
		return false
	}
	return e.code == t.code
}

func (e *Error) Code() Code {
	if e == nil {
		return ""
	}
	return e.code
}

func (e *Error) CodeText() string {
	return string(e.Code())
}

func (e *Error) Msg() string {
	if e == nil {
		return ""
	}
	return e.msg
}

func (e *Error) Kind() Kind {
	if e == nil {
		return KindSys
	}
	return e.kind
}

// Data 返回 data 的拷贝。
func (e *Error) Data() map[string]any {
	if e == nil || e.data == nil {
		return nil
	}
	return cloneAnyMap(e.data)
}

func (e *Error) Stack() []uintptr {
	if e == nil || len(e.stack) == 0 {
		return nil
	}
	return cloneStack(e.stack)
}

func (e *Error) derive() *Error {
	return &Error{
		code:  e.code,
		msg:   e.msg,
		data:  cloneAnyMap(e.data),
		cause: e.cause,
		stack: cloneStack(e.stack),
		kind:  e.kind,
	}
}

// WithMsg 派生一个替换了对外消息的错误，常用于把校验细节（越界下标、无效车辆）带给调用方。
func (e *Error) WithMsg(msg string) *Error {
	next := e.derive()
	next.msg = msg
	return next
}

// WithMsgf 同 WithMsg，支持格式化。
func (e *Error) WithMsgf(format string, args ...any) *Error {
	return e.WithMsg(fmt.Sprintf(format, args...))
}

func (e *Error) WithData(key string, value any) *Error {
	next := e.derive()
	if next.data == nil {
		next.data = make(map[string]any, 1)
	}
	next.data[key] = value
	return next
}

func (e *Error) WithDataMap(data map[string]any) *Error {
	next := e.derive()
	if len(data) == 0 {
		return next
	}
	if next.data == nil {
		next.data = make(map[string]any, len(data))
	}
	for k, v := range data {
		next.data[k] = v
	}
	return next
}

func (e *Error) WithCause(cause error) *Error {
	next := e.derive()
	next.cause = cause
	// 只在系统错误首次挂 cause 时捕获；下层已有栈则不重复捕获。
	if next.kind == KindSys && cause != nil && len(next.stack) == 0 && !hasStackInChain(cause) {
		next.stack = captureStack(3)
	}
	return next
}

// CodeOf 沿错误链取第一个 *Error 的错误码，取不到返回空串。
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.code
	}
	return ""
}

// IsBiz 判断错误链上第一个 *Error 是否为业务拒绝。非 *Error 一律视为系统错误。
func IsBiz(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.kind == KindBiz
	}
	return false
}

// MsgOf 取对外消息；取不到时退化为 err.Error()。
func MsgOf(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) && e.msg != "" {
		return e.msg
	}
	return err.Error()
}

func cloneAnyMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneStack(in []uintptr) []uintptr {
	if len(in) == 0 {
		return nil
	}
	out := make([]uintptr, len(in))
	copy(out, in)
	return out
}

func captureStack(skip int) []uintptr {
	const maxDepth = 64
	pcs := make([]uintptr, maxDepth)
	n := runtime.Callers(skip, pcs)
	if n <= 0 {
		return nil
	}
	return pcs[:n]
}

func hasStackInChain(err error) bool {
	const maxDepth = 32
	for i := 0; i < maxDepth && err != nil; i++ {
		if sp, ok := err.(interface{ Stack() []uintptr }); ok && len(sp.Stack()) != 0 {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}
