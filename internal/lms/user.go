package lms

import (
	"context"
	"strings"
)

const (
	pathUserSearch       = "/user/search"
	pathUserCopyLearning = "/user/copy-learning-data"
)

// User LMS 用户
type User struct {
	IID  any    `json:"iid"`
	ID   any    `json:"id,omitempty"`
	Code string `json:"code"`
	Name string `json:"name,omitempty"`
	Mail string `json:"mail,omitempty"`
}

// SearchUserByCode 按用户编码精确查找，无结果返回 "User not found"
func SearchUserByCode(ctx context.Context, s Sender, code string) Result[*User] {
	payload := Paging{}.payload()
	payload["code"] = code

	return call(ctx, s, Request{
		Path:    pathUserSearch,
		Payload: payload,
	}, "Failed to search user", func(e *Envelope) (*User, error) {
		users, err := resultList[User](e)
		if err != nil {
			return nil, err
		}
		for i := range users {
			if strings.EqualFold(users[i].Code, code) {
				return &users[i], nil
			}
		}
		return nil, ErrUserNotFound
	})
}

// CopyLearningDataParams 合并学习数据
type CopyLearningDataParams struct {
	FromUserIID any            `json:"from_user_iid"`
	ToUserIID   any            `json:"to_user_iid"`
	Extra       map[string]any `json:"extra,omitempty"`
}

// CopyLearningData 将一个用户的学习数据复制给另一个用户
func CopyLearningData(ctx context.Context, s Sender, p CopyLearningDataParams) Result[any] {
	payload := map[string]any{
		"from_user_iid": p.FromUserIID,
		"to_user_iid":   p.ToUserIID,
	}

	return call(ctx, s, Request{
		Path:    pathUserCopyLearning,
		Payload: buildPayload(payload, p.Extra),
	}, "Failed to copy learning data", resultAny)
}
