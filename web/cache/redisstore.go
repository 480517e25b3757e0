package cache

import (
	"bytes"
	"context"
	"encoding/base32"
	"encoding/gob"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gorilla/securecookie"
	gorillasessions "github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix     = "carprice:session:"
	defaultMaxAge = 3600
	opTimeout     = 3 * time.Second
)

var errSessionNotFound = errors.New("session not found")

// RedisStore keeps session values in Redis. The cookie only carries the
// session id, signed with securecookie.
type RedisStore struct {
	client  redis.UniversalClient
	Codecs  []securecookie.Codec
	options *sessions.Options
}

var _ sessions.Store = (*RedisStore)(nil)

func NewRedisStore(client redis.UniversalClient, keyPairs ...[]byte) *RedisStore {
	return &RedisStore{
		client: client,
		Codecs: securecookie.CodecsFromPairs(keyPairs...),
		options: &sessions.Options{
			Path:     "/",
			MaxAge:   defaultMaxAge,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		},
	}
}

func (s *RedisStore) Options(opts sessions.Options) {
	s.options = &opts
}

func (s *RedisStore) Get(r *http.Request, name string) (*gorillasessions.Session, error) {
	return gorillasessions.GetRegistry(r).Get(s, name)
}

// New returns the session named by the request cookie, or a fresh one when
// the cookie is missing, forged or points at an expired key.
func (s *RedisStore) New(r *http.Request, name string) (*gorillasessions.Session, error) {
	session := gorillasessions.NewSession(s, name)
	session.Options = s.options.ToGorillaOptions()
	session.IsNew = true

	c, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}
	if err := securecookie.DecodeMulti(name, c.Value, &session.ID, s.Codecs...); err != nil {
		session.ID = ""
		return session, nil
	}
	if err := s.load(r.Context(), session); err != nil {
		if !errors.Is(err, errSessionNotFound) {
			return session, err
		}
		session.ID = ""
		return session, nil
	}
	session.IsNew = false
	return session, nil
}

func (s *RedisStore) Save(r *http.Request, w http.ResponseWriter, session *gorillasessions.Session) error {
	if session.Options.MaxAge < 0 {
		if session.ID != "" {
			if err := s.delete(r.Context(), session); err != nil {
				return err
			}
		}
		http.SetCookie(w, gorillasessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = strings.TrimRight(
			base32.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32)), "=")
	}
	if err := s.save(r.Context(), session); err != nil {
		return err
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.Codecs...)
	if err != nil {
		return err
	}
	http.SetCookie(w, gorillasessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

func (s *RedisStore) save(ctx context.Context, session *gorillasessions.Session) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(session.Values); err != nil {
		return fmt.Errorf("failed to encode session values: %w", err)
	}

	maxAge := session.Options.MaxAge
	if maxAge == 0 {
		maxAge = s.options.MaxAge
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return s.client.Set(ctx, keyPrefix+session.ID, buf.Bytes(), time.Duration(maxAge)*time.Second).Err()
}

func (s *RedisStore) load(ctx context.Context, session *gorillasessions.Session) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	data, err := s.client.Get(ctx, keyPrefix+session.ID).Bytes()
	if errors.Is(err, redis.Nil) {
		return errSessionNotFound
	}
	if err != nil {
		return err
	}
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&session.Values); err != nil {
		return fmt.Errorf("failed to decode session data: %w", err)
	}
	return nil
}

func (s *RedisStore) delete(ctx context.Context, session *gorillasessions.Session) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return s.client.Del(ctx, keyPrefix+session.ID).Err()
}
