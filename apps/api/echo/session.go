package echoapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/tadika/core"
	"github.com/trezcool/tadika/core/auth"
	"github.com/trezcool/tadika/core/session"
)

const (
	contextStoreKey      = "session"
	contextUnresolvedKey = "sessionUnresolved"

	languageCookieMaxAge = 365 * 24 * 60 * 60
)

// cookieStorage is a session.ClientStorage over the request and response cookies.
type cookieStorage struct {
	ctx    echo.Context
	conf   *core.Config
	values map[string]string // set during this request
}

var _ session.ClientStorage = (*cookieStorage)(nil)

func newCookieStorage(ctx echo.Context, conf *core.Config) *cookieStorage {
	return &cookieStorage{ctx: ctx, conf: conf, values: make(map[string]string)}
}

func (cs *cookieStorage) cookieName(key string) string {
	if key == session.LanguageKey {
		return cs.conf.Auth.LanguageCookieName
	}
	return key
}

func (cs *cookieStorage) Get(key string) (string, bool) {
	if val, ok := cs.values[key]; ok {
		return val, val != ""
	}
	cookie, err := cs.ctx.Cookie(cs.cookieName(key))
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func (cs *cookieStorage) Set(key, value string) {
	cs.values[key] = value
	cs.ctx.SetCookie(&http.Cookie{
		Name:     cs.cookieName(key),
		Value:    value,
		Path:     "/",
		MaxAge:   languageCookieMaxAge,
		Secure:   cs.conf.Server.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (cs *cookieStorage) Delete(key string) {
	cs.values[key] = ""
	cs.ctx.SetCookie(&http.Cookie{Name: cs.cookieName(key), Path: "/", MaxAge: -1})
}

func requestToken(ctx echo.Context, cookieName string) string {
	if authz := ctx.Request().Header.Get(echo.HeaderAuthorization); strings.HasPrefix(authz, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
	}
	if cookie, err := ctx.Cookie(cookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func setSessionCookie(ctx echo.Context, conf *core.Config, token string, expiresAt time.Time) {
	cookie := &http.Cookie{
		Name:     conf.Auth.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   conf.Server.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
	if !expiresAt.IsZero() {
		cookie.Expires = expiresAt
	}
	ctx.SetCookie(cookie)
}

func clearSessionCookie(ctx echo.Context, conf *core.Config) {
	ctx.SetCookie(&http.Cookie{
		Name:     conf.Auth.SessionCookieName,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// sessionMiddleware resolves the request token into a per-request session.Store.
// Later sign-ins and sign-outs are mirrored to the session cookie.
func sessionMiddleware(opts *Options) echo.MiddlewareFunc {
	conf := opts.Conf
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			store := session.NewStore(opts.Provider, opts.ProfileSvc, newCookieStorage(ctx, conf), opts.Logger)
			ctx.Set(contextStoreKey, store)

			token := requestToken(ctx, conf.Auth.SessionCookieName)
			if err := store.Resolve(ctx.Request().Context(), token); err != nil {
				if auth.IsAuthError(err, auth.ErrSessionExpired) {
					clearSessionCookie(ctx, conf)
				} else {
					// keep the cookie: the provider could not tell whether the token is valid
					ctx.Set(contextUnresolvedKey, true)
					opts.Logger.Warn("resolving session: "+err.Error(), err)
				}
			}

			current := token
			unsubscribe := store.Subscribe(func(st session.State) {
				if st.Phase != session.PhaseReady || st.Token == current {
					return
				}
				current = st.Token
				if st.Token == "" {
					clearSessionCookie(ctx, conf)
				} else {
					setSessionCookie(ctx, conf, st.Token, st.ExpiresAt)
				}
			})
			defer unsubscribe()

			return next(ctx)
		}
	}
}

// contextStore returns the session.Store of the request.
func contextStore(ctx echo.Context) *session.Store {
	store, _ := ctx.Get(contextStoreKey).(*session.Store)
	return store
}

// contextState returns the session state the guard evaluates.
// A session the provider could not resolve reads as Loading.
func contextState(ctx echo.Context) session.State {
	if unresolved, _ := ctx.Get(contextUnresolvedKey).(bool); unresolved {
		return session.State{Phase: session.PhaseLoading}
	}
	store := contextStore(ctx)
	if store == nil {
		return session.State{}
	}
	return store.Snapshot()
}
