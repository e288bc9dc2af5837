package api

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oceanobs/bog/internal/models"
	"github.com/oceanobs/bog/internal/transport"
)

// maxAuthAttempts caps login retries. There is no backoff between attempts.
const maxAuthAttempts = 3

// Credentials is the tuple supplied by the configuration collaborator.
type Credentials struct {
	Username string
	Password string
}

// Session owns the bearer token and the set of buoy ids the account may
// query. Construction is all-or-nothing: if authentication or the scope
// fetch fails, no Session is returned.
type Session struct {
	endpoint    string
	credentials Credentials
	client      transport.Doer
	logger      *logrus.Logger

	token   string
	buoyIDs map[int]struct{}
}

// NewSession authenticates and loads the authorized buoy set.
func NewSession(
	ctx context.Context,
	endpoint string,
	credentials Credentials,
	client transport.Doer,
	logger *logrus.Logger,
) (*Session, error) {
	s := &Session{
		endpoint:    strings.TrimRight(endpoint, "/"),
		credentials: credentials,
		client:      client,
		logger:      logger,
	}

	if err := s.Authenticate(ctx); err != nil {
		return nil, err
	}
	if err := s.LoadAuthorizedBuoys(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Authenticate sends login credentials, retrying up to maxAuthAttempts. On
// success the returned token replaces any previous one; on the final failed
// attempt the transport outcome is returned wrapping ErrAuthentication.
func (s *Session) Authenticate(ctx context.Context) error {
	payload := map[string]string{
		"type":     "login",
		"username": s.credentials.Username,
		"password": s.credentials.Password,
	}

	var lastErr error
	for attempt := 1; attempt <= maxAuthAttempts; attempt++ {
		var auth models.AuthResponse
		err := doJSON(ctx, s.client, http.MethodPost, s.endpoint+"/auth", payload, nil, &auth, ErrAuthentication)
		if err == nil {
			s.token = auth.Token
			return nil
		}

		lastErr = err
		s.logger.WithFields(logrus.Fields{
			"attempt": attempt,
		}).Warn("Authentication attempt failed")
	}

	s.token = ""
	return lastErr
}

// LoadAuthorizedBuoys fetches the buoy ids visible to this account and
// replaces the authorized set. Idempotent: it always overwrites, never
// merges.
func (s *Session) LoadAuthorizedBuoys(ctx context.Context) error {
	header, err := s.authHeader(ErrScopeFetch)
	if err != nil {
		return err
	}

	var user models.UserResponse
	if err := doJSON(ctx, s.client, http.MethodGet, s.endpoint+"/user", nil, header, &user, ErrScopeFetch); err != nil {
		return err
	}

	ids := make(map[int]struct{}, len(user.Buoys))
	for _, id := range user.Buoys {
		ids[id] = struct{}{}
	}
	s.buoyIDs = ids
	return nil
}

// Terminate logs the session out. The local token is cleared regardless of
// the remote outcome: no further calls are issued after logout, so a remote
// failure only surfaces as ErrLogout.
func (s *Session) Terminate(ctx context.Context) error {
	s.token = ""

	payload := map[string]string{"type": "logout"}
	if err := doJSON(ctx, s.client, http.MethodPost, s.endpoint+"/auth", payload, nil, nil, ErrLogout); err != nil {
		return err
	}
	return nil
}

// Token returns the current bearer token, empty when unauthenticated.
func (s *Session) Token() string { return s.token }

// Authorized reports whether the account may query the given buoy.
func (s *Session) Authorized(buoyID int) bool {
	_, ok := s.buoyIDs[buoyID]
	return ok
}

// AuthorizedBuoys returns the authorized buoy ids in ascending order.
func (s *Session) AuthorizedBuoys() []int {
	ids := make([]int, 0, len(s.buoyIDs))
	for id := range s.buoyIDs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// authHeader builds the bearer header for authenticated requests. An absent
// token means no request may be attempted.
func (s *Session) authHeader(kind error) (http.Header, error) {
	if s.token == "" {
		return nil, fmt.Errorf("%w: session has no token", kind)
	}
	return http.Header{"Authorization": []string{"Bearer " + s.token}}, nil
}
