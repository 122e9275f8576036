package handler

import (
	"fmt"
	"net/http"
)

// PageHandler はアプリケーションページのシェルを返すHTTPハンドラー。
// ページ本体はクライアント側でAPIから描画されるため、
// サーバーは最小限のHTMLシェルのみを返す。
type PageHandler struct{}

// NewPageHandler はPageHandlerを生成する。
func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// pageShell はページシェルのHTMLテンプレート。
const pageShell = `<!DOCTYPE html>
<html lang="ja">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s | TaskDeck</title>
</head>
<body>
<div id="app" data-page="%s"></div>
</body>
</html>
`

// servePage はページシェルを書き込む。
func servePage(w http.ResponseWriter, title, page string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, pageShell, title, page)
}

// Root はルートパスをダッシュボードへリダイレクトする。
// GET /
func (h *PageHandler) Root(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// Login はログインページのシェルを返す。
// GET /login
func (h *PageHandler) Login(w http.ResponseWriter, r *http.Request) {
	servePage(w, "Login", "login")
}

// Signup はサインアップページのシェルを返す。
// GET /signup
func (h *PageHandler) Signup(w http.ResponseWriter, r *http.Request) {
	servePage(w, "Sign up", "signup")
}

// Dashboard はダッシュボードページのシェルを返す。
// GET /dashboard
func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	servePage(w, "Dashboard", "dashboard")
}

// Profile はプロフィールページのシェルを返す。
// GET /profile
func (h *PageHandler) Profile(w http.ResponseWriter, r *http.Request) {
	servePage(w, "Profile", "profile")
}
