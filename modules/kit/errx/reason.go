package errx

// Reason 是错误原因的最小接口，只暴露 reason code。
type Reason interface {
	ReasonCode() string
}

// ReasonOf 是带可读描述的通用 reason 实现，业务包直接声明枚举即可。
type ReasonOf struct {
	Code    string
	Message string
}

func (r ReasonOf) ReasonCode() string {
	return r.Code
}

func NewReason(code, message string) ReasonOf {
	return ReasonOf{Code: code, Message: message}
}
