package reconcile

import "fmt"

// SchemaError 用户输入的结构/取值问题
// Items 列出同一规则下发现的全部违规项，而不是只报第一个
type SchemaError struct {
	Message string
	Items   []string
}

func (e *SchemaError) Error() string {
	return e.Message
}

func newSchemaError(format string, args ...interface{}) *SchemaError {
	return &SchemaError{Message: fmt.Sprintf(format, args...)}
}

// InternalError 代码自身应保证的不变量被破坏（逻辑缺陷，不是输入问题）
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string {
	return "internal error: " + e.Message
}

func newInternalError(format string, args ...interface{}) *InternalError {
	return &InternalError{Message: fmt.Sprintf(format, args...)}
}

// ProcessingError 聚合/连接/对账过程中的意外失败（包装原始错误）
type ProcessingError struct {
	Err error
}

func (e *ProcessingError) Error() string {
	return "error processing files: " + e.Err.Error()
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}
