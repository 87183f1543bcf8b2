package handler

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"

	"lorehub/internal/config"
	"lorehub/internal/domain"
	"lorehub/internal/domain/models"
	"lorehub/internal/httputil"
	"lorehub/internal/listing"
	"lorehub/internal/service/browse"
	"lorehub/internal/service/markdown"
	"lorehub/internal/service/preferences"
	"lorehub/internal/service/session"
	"lorehub/internal/service/toc"
)

// AppChrome is the shell data every page carries.
type AppChrome struct {
	Name        string
	Version     string
	ShowBeian   bool
	BeianNumber string
	ICPLicense  string
	PoliceBeian string
}

// PageHandler renders the HTML views. Dynamic behavior on top of these
// pages goes through the JSON API; the initial render always carries a
// complete state so pages work before any script runs.
type PageHandler struct {
	tmpl     *template.Template
	chrome   AppChrome
	preview  string
	notes    *browse.Manager
	gallery  *browse.Manager
	files    *listing.Client
	renderer *markdown.Renderer
	conv     *markdown.Converter
	prefs    *preferences.Service
	sessions *session.Store
	logger   *slog.Logger
}

func NewPageHandler(
	cfg *config.Config,
	tmpl *template.Template,
	notes, gallery *browse.Manager,
	files *listing.Client,
	renderer *markdown.Renderer,
	conv *markdown.Converter,
	prefs *preferences.Service,
	sessions *session.Store,
	logger *slog.Logger,
) *PageHandler {
	return &PageHandler{
		tmpl: tmpl,
		chrome: AppChrome{
			Name:        cfg.AppName,
			Version:     cfg.Version,
			ShowBeian:   cfg.ShowBeian,
			BeianNumber: cfg.BeianNumber,
			ICPLicense:  cfg.ICPLicense,
			PoliceBeian: cfg.PoliceBeian,
		},
		preview:  cfg.PreviewBaseURL,
		notes:    notes,
		gallery:  gallery,
		files:    files,
		renderer: renderer,
		conv:     conv,
		prefs:    prefs,
		sessions: sessions,
		logger:   logger,
	}
}

// pageData is the payload handed to every template.
type pageData struct {
	App    AppChrome
	Title  string
	User   *models.UserInfo
	Theme  preferences.Theme
	Themes []preferences.Theme
	Labels map[preferences.Theme]string

	// View-specific fields; unused ones stay zero.
	Snapshot   browse.Snapshot
	Document   *noteView
	PreviewURL string
	Redirect   string
}

// noteView is one rendered note plus its outline.
type noteView struct {
	Title    string
	Path     string
	HTML     template.HTML
	Headings []toc.Heading
}

func (h *PageHandler) base(r *http.Request, title string) pageData {
	sid := httputil.GetSessionID(r.Context())
	hasToken := httputil.GetToken(r.Context()) != ""

	return pageData{
		App:    h.chrome,
		Title:  title,
		User:   h.sessions.CheckLoginStatus(r.Context(), sid, hasToken),
		Theme:  h.prefs.Theme(r.Context(), sid),
		Themes: preferences.Themes,
		Labels: preferences.Labels,
	}
}

func (h *PageHandler) render(w http.ResponseWriter, name string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("template render failed", "template", name, "error", err)
	}
}

// Home renders the landing page.
// GET /
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		h.NotFound(w, r)
		return
	}
	h.render(w, "home", h.base(r, "Home"))
}

// Login renders the login form. The guard redirects logged-in visitors
// away before this runs.
// GET /login
func (h *PageHandler) Login(w http.ResponseWriter, r *http.Request) {
	data := h.base(r, "Sign In")
	data.Redirect = sanitizeRedirect(r.URL.Query().Get("redirect"))
	h.render(w, "login", data)
}

// Notes renders the notes browser with categories preloaded.
// GET /notes
func (h *PageHandler) Notes(w http.ResponseWriter, r *http.Request) {
	h.renderBrowse(w, r, h.notes, "notes", "Notes")
}

// Gallery renders the image browser.
// GET /gallery
func (h *PageHandler) Gallery(w http.ResponseWriter, r *http.Request) {
	h.renderBrowse(w, r, h.gallery, "gallery", "Gallery")
}

func (h *PageHandler) renderBrowse(w http.ResponseWriter, r *http.Request, mgr *browse.Manager, tmpl, title string) {
	data := h.base(r, title)
	data.PreviewURL = h.preview

	b := mgr.Get(httputil.GetSessionID(r.Context()))
	if _, err := b.LoadCategories(r.Context()); err != nil {
		h.logger.Warn("category load failed", "view", tmpl, "error", err)
	}
	data.Snapshot = b.Snapshot()
	h.render(w, tmpl, data)
}

// Note renders a single note: fetch, normalize the title, render the
// markdown with the session theme, and extract the outline.
// GET /notes/read?path=...
func (h *PageHandler) Note(w http.ResponseWriter, r *http.Request) {
	filePath := r.URL.Query().Get("path")
	if filePath == "" || strings.Contains(filePath, "..") {
		h.NotFound(w, r)
		return
	}

	detail, raw, err := h.files.Content(r.Context(), filePath)
	if err != nil {
		h.logger.Warn("note fetch failed", "path", filePath, "error", err)
		if errors.Is(err, domain.ErrUnauthorized) {
			clearAuthCookie(w)
			http.Redirect(w, r, "/login?redirect="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
			return
		}
		h.NotFound(w, r)
		return
	}

	// HTML exports are converted to markdown first so every note flows
	// through the same render pipeline.
	body := string(raw)
	if markdown.IsHTMLSource(detail.Name) {
		if converted, err := h.conv.FromHTML(raw); err == nil {
			body = converted
		}
	}

	doc, err := markdown.Normalize([]byte(body), detail.Name)
	if err != nil {
		h.logger.Warn("note normalize failed", "path", filePath, "error", err)
		h.NotFound(w, r)
		return
	}

	data := h.base(r, doc.Title)
	rendered, err := h.renderer.Render(doc.Body, string(data.Theme))
	if err != nil {
		h.logger.Error("note render failed", "path", filePath, "error", err)
		h.NotFound(w, r)
		return
	}

	withIDs, headings, err := toc.Extract(rendered)
	if err != nil {
		withIDs, headings = rendered, nil
	}

	data.Document = &noteView{
		Title:    doc.Title,
		Path:     filePath,
		HTML:     template.HTML(withIDs),
		Headings: headings,
	}
	h.render(w, "note", data)
}

// Blog renders the placeholder blog page.
// GET /blog
func (h *PageHandler) Blog(w http.ResponseWriter, r *http.Request) {
	h.render(w, "blog", h.base(r, "Blog"))
}

// Workspace renders the dashboard.
// GET /workspace
func (h *PageHandler) Workspace(w http.ResponseWriter, r *http.Request) {
	data := h.base(r, "Workspace")

	b := h.notes.Get(httputil.GetSessionID(r.Context()))
	if _, err := b.LoadCategories(r.Context()); err != nil {
		h.logger.Warn("workspace category load failed", "error", err)
	}
	data.Snapshot = b.Snapshot()
	h.render(w, "workspace", data)
}

// Settings renders the theme picker.
// GET /settings
func (h *PageHandler) Settings(w http.ResponseWriter, r *http.Request) {
	h.render(w, "settings", h.base(r, "Settings"))
}

// UserCenter renders the profile page.
// GET /user
func (h *PageHandler) UserCenter(w http.ResponseWriter, r *http.Request) {
	data := h.base(r, "Account")
	if data.User == nil {
		// Guard should prevent this; fetch once more in case the cache
		// was cleared between requests.
		sid := httputil.GetSessionID(r.Context())
		if info, err := h.sessions.FetchUserInfo(r.Context(), sid); err == nil {
			data.User = info
		}
	}
	h.render(w, "user", data)
}

// NotFound renders the 404 page.
func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	h.render(w, "notfound", h.base(r, "Not Found"))
}

// sanitizeRedirect keeps the post-login redirect on this site.
func sanitizeRedirect(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return "/"
	}
	return path.Clean(target)
}
