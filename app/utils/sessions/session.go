package sessions

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
)

const (
	sessionCookieName = "marketplace-session"

	userIDSessionKey   = "userID"
	userModeSessionKey = "userMode"
)

const (
	ModeBuyer    = "buyer"
	ModeProvider = "provider"
)

type SessionStore interface {
	GetUserID(r *http.Request) string
	SetUserID(w http.ResponseWriter, r *http.Request, userID string) error
	ClearUserID(w http.ResponseWriter, r *http.Request) error

	// GetUserMode returns the browsing mode, defaulting to buyer. The
	// mode lives only in the session; queries receive it as an explicit
	// parameter.
	GetUserMode(r *http.Request) string
	SetUserMode(w http.ResponseWriter, r *http.Request, mode string) error

	ClearSession(w http.ResponseWriter, r *http.Request) error
}

type CookieSessionStore struct {
	store *sessions.CookieStore
}

func NewCookieSessionStore(keyPairs ...[]byte) *CookieSessionStore {
	store := sessions.NewCookieStore(keyPairs...)

	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(30 * 24 * time.Hour / time.Second),
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieSessionStore{store: store}
}

func (c *CookieSessionStore) getSession(r *http.Request) (*sessions.Session, error) {
	session, err := c.store.Get(r, sessionCookieName)
	if err != nil {
		log.Printf("Error getting session: %v", err)
	}
	return session, nil
}

func (c *CookieSessionStore) GetUserID(r *http.Request) string {
	session, err := c.getSession(r)
	if err != nil || session == nil {
		return ""
	}
	userID, ok := session.Values[userIDSessionKey].(string)
	if !ok {
		return ""
	}
	return userID
}

func (c *CookieSessionStore) SetUserID(w http.ResponseWriter, r *http.Request, userID string) error {
	session, err := c.getSession(r)
	if err != nil || session == nil {
		return err
	}
	session.Values[userIDSessionKey] = userID
	return session.Save(r, w)
}

func (c *CookieSessionStore) ClearUserID(w http.ResponseWriter, r *http.Request) error {
	session, err := c.getSession(r)
	if err != nil || session == nil {
		return err
	}
	delete(session.Values, userIDSessionKey)
	return session.Save(r, w)
}

func (c *CookieSessionStore) GetUserMode(r *http.Request) string {
	session, err := c.getSession(r)
	if err != nil || session == nil {
		return ModeBuyer
	}
	mode, ok := session.Values[userModeSessionKey].(string)
	if !ok || (mode != ModeBuyer && mode != ModeProvider) {
		return ModeBuyer
	}
	return mode
}

func (c *CookieSessionStore) SetUserMode(w http.ResponseWriter, r *http.Request, mode string) error {
	if mode != ModeBuyer && mode != ModeProvider {
		mode = ModeBuyer
	}
	session, err := c.getSession(r)
	if err != nil || session == nil {
		return err
	}
	session.Values[userModeSessionKey] = mode
	return session.Save(r, w)
}

func (c *CookieSessionStore) ClearSession(w http.ResponseWriter, r *http.Request) error {
	session, err := c.getSession(r)
	if err != nil || session == nil {
		return err
	}
	session.Values = make(map[interface{}]interface{})
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
