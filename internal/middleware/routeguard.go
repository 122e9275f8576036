package middleware

import (
	"net/http"
	"strings"
)

// PathClass はルートガードにおけるパスの分類を表す。
type PathClass string

const (
	// PathClassPublic はログイン・サインアップ等の認証不要ページ。
	PathClassPublic PathClass = "public"
	// PathClassAPI はAPIエンドポイント。認証はハンドラー側で行う。
	PathClassAPI PathClass = "api"
	// PathClassStatic は静的アセット。ガードの対象外。
	PathClassStatic PathClass = "static"
	// PathClassProtected は上記以外のすべてのページ。
	PathClassProtected PathClass = "protected"
)

// GuardAction はルートガードの判定結果を表す。
type GuardAction string

const (
	// ActionAllow はリクエストを通過させる。
	ActionAllow GuardAction = "allow"
	// ActionRedirectLogin はログインページへリダイレクトする。
	ActionRedirectLogin GuardAction = "redirect_login"
	// ActionRedirectDashboard はダッシュボードへリダイレクトする。
	ActionRedirectDashboard GuardAction = "redirect_dashboard"
)

const (
	loginPath     = "/login"
	signupPath    = "/signup"
	dashboardPath = "/dashboard"
	apiPrefix     = "/api"
)

// ClassifyPath はリクエストパスを分類する純関数。
func ClassifyPath(path string) PathClass {
	switch {
	case path == loginPath || path == signupPath:
		return PathClassPublic
	case strings.HasPrefix(path, apiPrefix):
		return PathClassAPI
	case path == "/favicon.ico" || strings.HasPrefix(path, "/static/") || strings.Contains(path, "."):
		// 拡張子付きのパスは静的アセットとみなす
		return PathClassStatic
	default:
		return PathClassProtected
	}
}

// Decide はパス分類とクレデンシャルの有無からガードの判定を返す純関数。
// Cookieの存在のみを見る粗いゲートであり、トークンの検証は行わない。
// 偽造されたCookie値はここを通過するが、APIでは認証ミドルウェアが拒否する。
//
//	クレデンシャルなし × protected     → ログインへリダイレクト
//	クレデンシャルなし × public/api    → 通過
//	クレデンシャルあり × public        → ダッシュボードへリダイレクト
//	クレデンシャルあり × protected/api → 通過
func Decide(class PathClass, hasCredential bool) GuardAction {
	switch class {
	case PathClassPublic:
		if hasCredential {
			return ActionRedirectDashboard
		}
		return ActionAllow
	case PathClassProtected:
		if !hasCredential {
			return ActionRedirectLogin
		}
		return ActionAllow
	default:
		// api / static は常に通過
		return ActionAllow
	}
}

// NewRouteGuardMiddleware は全リクエストに対して事前ディスパッチの
// 粗い認可判定を行うミドルウェアを返す。
// クレデンシャルCookieの存在有無のみで判定し、復号は行わない
// （検証シークレットやストアにアクセスできない軽量実行コンテキストを想定）。
func NewRouteGuardMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hasCredential := false
			if cookie, err := r.Cookie(AuthCookieName); err == nil && cookie.Value != "" {
				hasCredential = true
			}

			switch Decide(ClassifyPath(r.URL.Path), hasCredential) {
			case ActionRedirectLogin:
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
			case ActionRedirectDashboard:
				http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
