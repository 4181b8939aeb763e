package response

// 业务错误码定义
const (
	// 成功
	CodeSuccess = 0

	// 客户端错误 (400xx)
	CodeBadRequest    = 40000 // 请求参数错误
	CodeInvalidParams = 40001 // 参数验证失败

	// 认证错误 (401xx)
	CodeUnauthorized       = 40100 // 未认证
	CodeInvalidCredentials = 40103 // 用户名或密码错误

	// 限流错误 (429xx)
	CodeTooManyRequests = 42901 // 请求过于频繁

	// 服务端错误 (500xx)
	CodeInternalServerError = 50000 // 服务器内部错误
)

// 错误信息映射
var CodeMessage = map[int]string{
	CodeSuccess: "OK",

	// 客户端错误
	CodeBadRequest:    "请求参数错误",
	CodeInvalidParams: "参数验证失败",

	// 认证错误
	CodeUnauthorized:       "未认证",
	CodeInvalidCredentials: "用户名或密码错误",

	// 限流错误
	CodeTooManyRequests: "请求过于频繁，请稍后再试",

	// 服务端错误
	CodeInternalServerError: "服务器内部错误",
}

// GetMessage 获取错误码对应的消息
func GetMessage(code int) string {
	if msg, ok := CodeMessage[code]; ok {
		return msg
	}
	return "未知错误"
}
