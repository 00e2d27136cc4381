// Package app owns application lifecycle state: user preferences and the
// startup pipeline that brings the console from cold start to live updates.
// All state is explicit and injected; nothing here is a process global.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/quotedesk/quotedesk/internal/domain"
	"github.com/quotedesk/quotedesk/internal/session"
)

// Supported display cultures.
const (
	CultureEnglish   = "en-us"
	CultureUkrainian = "uk-ua"
)

// Preferences reads and writes display preferences through local storage.
// Unknown or unreadable values degrade to the configured default.
type Preferences struct {
	storage        session.Storage
	defaultCulture string
}

// NewPreferences creates a preference store. An unsupported default falls
// back to English.
func NewPreferences(storage session.Storage, defaultCulture string) *Preferences {
	if !validCulture(defaultCulture) {
		defaultCulture = CultureEnglish
	}
	return &Preferences{storage: storage, defaultCulture: defaultCulture}
}

func validCulture(culture string) bool {
	return culture == CultureEnglish || culture == CultureUkrainian
}

// Culture returns the stored display culture, falling back to the default
// when nothing valid is stored.
func (p *Preferences) Culture() string {
	val, ok, err := p.storage.Get(domain.KeyCulture)
	if err != nil {
		slog.Error("culture read failed", "error", err)
		return p.defaultCulture
	}
	if !ok || !validCulture(val) {
		return p.defaultCulture
	}
	return val
}

// SetCulture persists the display culture. Unsupported values are rejected.
func (p *Preferences) SetCulture(culture string) error {
	if !validCulture(culture) {
		return fmt.Errorf("app: unsupported culture %q", culture)
	}
	return p.storage.Set(domain.KeyCulture, culture)
}

// DarkTheme reports whether the dark theme is enabled. Absent or unreadable
// state means light.
func (p *Preferences) DarkTheme() bool {
	val, ok, err := p.storage.Get(domain.KeyDarkThemeState)
	if err != nil {
		slog.Error("theme read failed", "error", err)
		return false
	}
	return ok && val == "true"
}

// SetDarkTheme persists the theme flag.
func (p *Preferences) SetDarkTheme(enabled bool) error {
	if enabled {
		return p.storage.Set(domain.KeyDarkThemeState, "true")
	}
	return p.storage.Set(domain.KeyDarkThemeState, "false")
}

// TokenValidator checks the stored bearer token against the API. Satisfied by
// the auth client.
type TokenValidator interface {
	ValidateToken(ctx context.Context) (domain.TokenValidation, bool)
}

// LiveChannel is the lifecycle surface of a push channel.
type LiveChannel interface {
	Initialize(ctx context.Context) bool
	Stop()
}

// Options wires an App together.
type Options struct {
	Session  *session.Store
	Prefs    *Preferences
	Auth     TokenValidator
	Channels []LiveChannel
}

// App runs the startup pipeline and owns the live channels afterwards.
type App struct {
	session  *session.Store
	prefs    *Preferences
	auth     TokenValidator
	channels []LiveChannel

	culture  string
	dark     bool
	timezone string
}

// New creates an App. Start must run before the channels are usable.
func New(opts Options) *App {
	return &App{
		session:  opts.Session,
		prefs:    opts.Prefs,
		auth:     opts.Auth,
		channels: opts.Channels,
	}
}

// Start runs the startup stages in order: culture, theme, auth, live
// channels. The first failing stage aborts the pipeline; later stages do not
// run. An invalid stored token is not a failure — it forces a logout and the
// pipeline continues unauthenticated.
func (a *App) Start(ctx context.Context) error {
	a.culture = a.prefs.Culture()
	slog.Info("culture resolved", "culture", a.culture)

	a.dark = a.prefs.DarkTheme()
	slog.Info("theme resolved", "dark", a.dark)

	a.timezone = detectTimezone()
	slog.Info("timezone resolved", "zone", a.timezone)

	if err := a.validateSession(ctx); err != nil {
		return err
	}

	for i, ch := range a.channels {
		if !ch.Initialize(ctx) {
			for _, started := range a.channels[:i] {
				started.Stop()
			}
			return fmt.Errorf("app: live channel %d failed to connect", i)
		}
	}
	slog.Info("startup complete", "channels", len(a.channels), "authenticated", a.session.IsAuthenticated())
	return nil
}

// validateSession checks any stored token against the API and forces a logout
// when the API rejects it or cannot be reached.
func (a *App) validateSession(ctx context.Context) error {
	if !a.session.IsAuthenticated() {
		slog.Info("no stored session")
		return nil
	}
	validation, ok := a.auth.ValidateToken(ctx)
	if !ok || !validation.IsValid {
		slog.Warn("stored token rejected, forcing logout", "reachable", ok, "error", validation.Error)
		a.session.ClearSession()
	}
	return nil
}

// Stop shuts the live channels down.
func (a *App) Stop() {
	for _, ch := range a.channels {
		ch.Stop()
	}
}

// Culture returns the culture resolved at startup.
func (a *App) Culture() string { return a.culture }

// DarkTheme returns the theme flag resolved at startup.
func (a *App) DarkTheme() bool { return a.dark }

// Timezone returns the zone name resolved at startup, used for display
// offset math.
func (a *App) Timezone() string { return a.timezone }

// detectTimezone resolves the local zone name, falling back to the fixed
// offset name when the IANA name is unavailable.
func detectTimezone() string {
	if name := time.Local.String(); name != "" && name != "Local" {
		return name
	}
	name, _ := time.Now().Zone()
	if name == "" {
		return "UTC"
	}
	return name
}
