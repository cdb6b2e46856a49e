// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"

	"inkfeed/internal/api"
	"inkfeed/internal/middleware"
	"inkfeed/internal/render"
	"inkfeed/internal/session"
)

// Auth serves login, registration and logout.
type Auth struct {
	core
}

func NewAuth(renderer *render.Renderer, sessions *session.Manager, backend *api.Client) *Auth {
	return &Auth{core{renderer: renderer, sessions: sessions, backend: backend}}
}

// LoginPage renders the login form. Authenticated visitors are sent
// straight to the feed.
func (h *Auth) LoginPage(w http.ResponseWriter, r *http.Request) {
	if middleware.SessionFromCtx(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.renderLogin(w, r, "", "", r.URL.Query().Get("next"))
}

// LoginSubmit exchanges credentials for a token, stores the session and
// redirects to the originally requested page.
func (h *Auth) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	next := r.PostFormValue("next")

	if msg := validateCredentials(username, password); msg != "" {
		h.renderLogin(w, r, msg, username, next)
		return
	}

	token, err := h.backend.Login(r.Context(), username, password)
	if err != nil {
		h.renderLogin(w, r, loginErrorMessage(err), username, next)
		return
	}

	if _, err := h.sessions.Login(r.Context(), w, token, username); err != nil {
		h.renderLogin(w, r, "Login failed. Please try again.", username, next)
		return
	}
	http.Redirect(w, r, safeNext(next), http.StatusSeeOther)
}

func loginErrorMessage(err error) string {
	switch {
	case api.IsNetworkError(err):
		return "Network error. Please check your connection."
	case api.IsAuthError(err):
		return "Invalid username or password."
	default:
		return api.UserMessage(err, "Login failed. Please try again.")
	}
}

func (h *Auth) renderLogin(w http.ResponseWriter, r *http.Request, errMsg, username, next string) {
	h.renderer.Page(w, r, "login", &render.PageData{
		Title: "Sign In",
		Data: map[string]any{
			"Error":    errMsg,
			"Username": username,
			"Next":     next,
		},
	})
}

// RegisterPage renders the registration form.
func (h *Auth) RegisterPage(w http.ResponseWriter, r *http.Request) {
	if middleware.SessionFromCtx(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.renderRegister(w, r, "", "")
}

// RegisterSubmit creates an account on the backend and sends the new
// user to the login form with a confirmation flash.
func (h *Auth) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")

	if msg := validateCredentials(username, password); msg != "" {
		h.renderRegister(w, r, msg, username)
		return
	}

	if err := h.backend.Register(r.Context(), username, password); err != nil {
		h.renderRegister(w, r, registerErrorMessage(err), username)
		return
	}

	render.SetFlash(w, "success", "Registration successful! Please log in.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func registerErrorMessage(err error) string {
	switch {
	case api.IsNetworkError(err):
		return "Network error. Please check your connection."
	case api.StatusOf(err) == http.StatusConflict:
		return "Username already exists."
	case api.IsForbidden(err):
		return "Server rejected the request. Please try again or contact support."
	default:
		return api.UserMessage(err, "Registration failed. Please try again.")
	}
}

func (h *Auth) renderRegister(w http.ResponseWriter, r *http.Request, errMsg, username string) {
	h.renderer.Page(w, r, "register", &render.PageData{
		Title: "Register",
		Data: map[string]any{
			"Error":    errMsg,
			"Username": username,
		},
	})
}

// Logout destroys the session and returns to the login page.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Logout(r.Context(), w, r)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
