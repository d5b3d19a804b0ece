package response

// AppError 携带业务状态码的错误包装
// 便于在服务层向上传递时保留展示消息与底层原因。
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

// Unwrap 暴露底层错误，支持 errors.Is / errors.As 判定
func (e *AppError) Unwrap() error {
	return e.Err
}

// WrapError 包装底层错误并指定业务状态码
func WrapError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
