// Package flash stores notices in a signed and encrypted session cookie so
// they survive a redirect and are shown exactly once.
package flash

import (
	"crypto/sha256"
	"encoding/gob"
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"

	"leadportal/internal/notification"
	"leadportal/platform/config"
	"leadportal/platform/logger"
)

const (
	sessionName = "leadportal_flash"
	// flashMaxAge bounds how long an unread notice lives in the browser.
	flashMaxAge = 5 * 60
)

func init() {
	gob.Register(notification.Notice{})
}

// Store reads and writes flash sessions.
type Store struct {
	store *sessions.CookieStore
	log   *logger.Logger
}

// NewStore creates a flash store. The session secret signs the cookie and a
// key derived from it encrypts the payload.
func NewStore(cfg config.SessionConfig, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Discard()
	}
	secret := cfg.GetSessionSecret()
	blockKey := sha256.Sum256(secret)

	store := &sessions.CookieStore{
		Codecs: securecookie.CodecsFromPairs(secret, blockKey[:]),
		Options: &sessions.Options{
			Path:     "/",
			HttpOnly: true,
			Secure:   cfg.GetSessionSecure(),
			SameSite: cfg.GetSessionSameSite(),
		},
	}
	store.MaxAge(flashMaxAge)

	return &Store{store: store, log: log}
}

func (s *Store) session(r *http.Request) *sessions.Session {
	sess, err := s.store.Get(r, sessionName)
	if err != nil {
		if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
			s.log.WithContext(r.Context()).Warn("flash cookie invalid, using fresh session", "error", err)
		} else {
			s.log.WithContext(r.Context()).Error("flash session store error", "error", err)
		}
	}
	return sess
}

// Sink returns a NotificationSink bound to one request. Call Save before the
// response headers are written.
func (s *Store) Sink(w http.ResponseWriter, r *http.Request) *Sink {
	return &Sink{session: s.session(r), w: w, r: r, log: s.log}
}

// Pop returns and clears the pending notices for the request.
func (s *Store) Pop(w http.ResponseWriter, r *http.Request) []notification.Notice {
	sess := s.session(r)
	flashes := sess.Flashes()
	if len(flashes) == 0 {
		return nil
	}

	out := make([]notification.Notice, 0, len(flashes))
	for _, f := range flashes {
		if n, ok := f.(notification.Notice); ok {
			out = append(out, n)
		}
	}
	if err := sess.Save(r, w); err != nil {
		s.log.WithContext(r.Context()).Error("failed to clear flash session", "error", err)
	}
	return out
}

// Sink queues notices on a flash session.
type Sink struct {
	session *sessions.Session
	w       http.ResponseWriter
	r       *http.Request
	log     *logger.Logger
}

// NotifySuccess queues a success notice.
func (k *Sink) NotifySuccess(message string) {
	k.session.AddFlash(notification.Notice{Kind: notification.KindSuccess, Message: message})
}

// NotifyFailure queues a failure notice.
func (k *Sink) NotifyFailure(message string) {
	k.session.AddFlash(notification.Notice{Kind: notification.KindFailure, Message: message})
}

// Save writes the queued notices to the response cookie.
func (k *Sink) Save() {
	if err := k.session.Save(k.r, k.w); err != nil {
		k.log.WithContext(k.r.Context()).Error("failed to save flash session", "error", err)
	}
}
