package executor

import "fmt"

// ExecutionErrorType 执行器错误类型
type ExecutionErrorType int

const (
	ExecutionErrorTypeStructural      ExecutionErrorType = iota // 结构错误（缺少fi/done/esac等）
	ExecutionErrorTypeArithmetic                                // 算术错误
	ExecutionErrorTypeCommandNotFound                           // 命令未找到
	ExecutionErrorTypePipeline                                  // 管道错误
	ExecutionErrorTypeLoopLimit                                 // 循环次数超限
	ExecutionErrorTypeCondition                                 // 测试条件格式错误
)

// ExecutionError 表示执行器错误
type ExecutionError struct {
	Type        ExecutionErrorType
	Message     string
	Command     string // 相关的命令名（如有）
	OriginalErr error  // 原始错误（如有）
}

// Error 实现 error 接口
func (e *ExecutionError) Error() string {
	var msg string
	switch e.Type {
	case ExecutionErrorTypeStructural:
		msg = fmt.Sprintf("语法错误: %s", e.Message)
	case ExecutionErrorTypeArithmetic:
		msg = fmt.Sprintf("算术错误: %s", e.Message)
	case ExecutionErrorTypeCommandNotFound:
		msg = fmt.Sprintf("命令未找到: %s", e.Command)
	case ExecutionErrorTypePipeline:
		msg = fmt.Sprintf("管道错误: %s", e.Message)
	case ExecutionErrorTypeLoopLimit:
		msg = fmt.Sprintf("循环次数超限: %s", e.Message)
	case ExecutionErrorTypeCondition:
		msg = fmt.Sprintf("测试条件错误: %s", e.Message)
	default:
		msg = e.Message
	}
	if e.OriginalErr != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.OriginalErr)
	}
	return msg
}

// ExitCode 返回该错误对应的退出码
func (e *ExecutionError) ExitCode() int {
	switch e.Type {
	case ExecutionErrorTypeCommandNotFound:
		return 127 // bash中命令未找到的退出码
	case ExecutionErrorTypeStructural:
		return 2 // bash中语法错误的退出码
	default:
		return 1
	}
}

// Unwrap 支持errors.Is/As链
func (e *ExecutionError) Unwrap() error {
	return e.OriginalErr
}

func structuralError(format string, args ...interface{}) *ExecutionError {
	return &ExecutionError{Type: ExecutionErrorTypeStructural, Message: fmt.Sprintf(format, args...)}
}

func arithmeticError(expr string, err error) *ExecutionError {
	return &ExecutionError{Type: ExecutionErrorTypeArithmetic, Message: expr, OriginalErr: err}
}

func commandNotFoundError(name string) *ExecutionError {
	return &ExecutionError{Type: ExecutionErrorTypeCommandNotFound, Command: name}
}

func pipelineError(format string, args ...interface{}) *ExecutionError {
	return &ExecutionError{Type: ExecutionErrorTypePipeline, Message: fmt.Sprintf(format, args...)}
}

func loopLimitError(format string, args ...interface{}) *ExecutionError {
	return &ExecutionError{Type: ExecutionErrorTypeLoopLimit, Message: fmt.Sprintf(format, args...)}
}

func conditionError(format string, args ...interface{}) *ExecutionError {
	return &ExecutionError{Type: ExecutionErrorTypeCondition, Message: fmt.Sprintf(format, args...)}
}
