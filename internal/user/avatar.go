package user

import (
	"fmt"
	"net/url"
)

// DefaultAvatarSize はアバター画像のデフォルトサイズ（px）。
const DefaultAvatarSize = 64

// GenerateAvatarURL は名前またはメールアドレスからui-avatars.comの
// アバター画像URLを生成する。URLの組み立てのみで外部リクエストは行わない。
func GenerateAvatarURL(nameOrEmail string, size int) string {
	if size <= 0 {
		size = DefaultAvatarSize
	}
	return fmt.Sprintf("https://ui-avatars.com/api/?name=%s&size=%d&background=random",
		url.QueryEscape(nameOrEmail), size)
}

// DefaultAvatarURL は匿名ユーザー向けのアバター画像URLを返す。
func DefaultAvatarURL(size int) string {
	return GenerateAvatarURL("User", size)
}
