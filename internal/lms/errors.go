package lms

import "errors"

// ErrUserNotFound 按编码查找用户无结果
var ErrUserNotFound = errors.New("User not found")

// AuthenticationError 登录失败
type AuthenticationError struct {
	Message    string
	StatusCode int
	Err        error
}

func (e *AuthenticationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "authentication failed"
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// IsAuthenticationError 判断是否为登录失败
func IsAuthenticationError(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr)
}
