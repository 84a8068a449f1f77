package logic

import (
	"errors"
	"fmt"
)

// ErrorKind 对外稳定的错误种类编码，客户端据此区分失败原因
type ErrorKind string

const (
	KindInvalidArgument   ErrorKind = "INVALID_ARGUMENT"   // 调用方参数错误，重试无意义
	KindNotFound          ErrorKind = "NOT_FOUND"          // 目标不存在
	KindInvalidState      ErrorKind = "INVALID_STATE"      // 状态机守卫拒绝
	KindCapacityExceeded  ErrorKind = "CAPACITY_EXCEEDED"  // 参与人数已达上限
	KindDependencyFailure ErrorKind = "DEPENDENCY_FAILURE" // 依赖（存储/通知）不可用
)

// Error 携带错误种类的业务错误
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// ErrInvalidArgument 参数错误
func ErrInvalidArgument(format string, args ...interface{}) error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// ErrNotFound 不存在错误
func ErrNotFound(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// ErrInvalidState 状态错误
func ErrInvalidState(format string, args ...interface{}) error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

// ErrCapacityExceeded 容量错误
func ErrCapacityExceeded(format string, args ...interface{}) error {
	return &Error{Kind: KindCapacityExceeded, Message: fmt.Sprintf(format, args...)}
}

// ErrDependencyFailure 依赖错误
func ErrDependencyFailure(format string, args ...interface{}) error {
	return &Error{Kind: KindDependencyFailure, Message: fmt.Sprintf(format, args...)}
}

// KindOf 提取错误种类；非业务错误视为依赖失败
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindDependencyFailure
}
