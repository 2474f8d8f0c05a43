package echoapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/tadika/apps/api/echo"
	"github.com/trezcool/tadika/core"
	"github.com/trezcool/tadika/core/auth"
	"github.com/trezcool/tadika/core/childcare"
	"github.com/trezcool/tadika/core/dashboard"
	"github.com/trezcool/tadika/core/i18n"
	"github.com/trezcool/tadika/core/onboarding"
	"github.com/trezcool/tadika/core/profile"
	emailsvc "github.com/trezcool/tadika/services/email"
	logsvc "github.com/trezcool/tadika/services/logger"
	cacheinmem "github.com/trezcool/tadika/storage/cache/inmem"
	inmemdb "github.com/trezcool/tadika/storage/database/inmem"
	testutil "github.com/trezcool/tadika/tests"
)

const (
	sessionCookie  = "tadika_session"
	languageCookie = "language"
	password       = "kuching-hijau-9"
)

type fixture struct {
	app       echoapi.Server
	provider  *auth.LocalProvider
	profiles  profile.Repository
	childcare *childcare.Service
	admin     profile.Profile
	teacher   profile.Profile
	parent    profile.Profile
}

// unavailableProvider cannot reach the authentication service when resolving tokens.
type unavailableProvider struct {
	auth.Provider
}

func (unavailableProvider) Resolve(context.Context, string) (profile.Identity, error) {
	return profile.Identity{}, auth.Unavailable(errors.New("dial tcp: connection refused"))
}

func setup(t *testing.T, wrap ...func(auth.Provider) auth.Provider) *fixture {
	t.Helper()

	conf := core.NewTestConfig()
	logger := logsvc.NewNopLogger()
	core.ParseEmailTemplates(conf, logger)
	emailsvc.ResetSentMessages()
	validate, translator := testutil.NewValidator()
	tr, err := i18n.New()
	require.NoError(t, err)

	db := inmemdb.Open()
	f := &fixture{
		provider: auth.NewLocalProvider(conf, inmemdb.NewAccountRepository(db), cacheinmem.NewRevocationStore()),
		profiles: inmemdb.NewProfileRepository(db),
	}
	repo := inmemdb.NewChildcareRepository(db)
	profileSvc := profile.NewService(f.profiles)
	f.childcare = childcare.NewService(repo, conf)

	var provider auth.Provider = f.provider
	for _, w := range wrap {
		provider = w(provider)
	}

	f.app = echoapi.NewServer(&echoapi.Options{
		Conf:       conf,
		Logger:     logger,
		Validate:   validate,
		Translator: translator,
		I18n:       tr,
		Provider:   provider,
		ProfileSvc: profileSvc,
		Onboarding: onboarding.NewService(provider, profileSvc, emailsvc.NewConsoleServiceMock(conf, logger), validate),
		Childcare:  f.childcare,
		Dashboard:  dashboard.NewDispatcher(conf, profileSvc, repo, logger),
	})

	f.admin = testutil.CreateUser(t, f.provider, f.profiles, "Ada Admin", "admin@test.test", password, profile.RoleAdmin)
	f.teacher = testutil.CreateUser(t, f.provider, f.profiles, "Tina Teacher", "teacher@test.test", password, profile.RoleTeacher)
	f.parent = testutil.CreateUser(t, f.provider, f.profiles, "Paul Parent", "parent@test.test", password, profile.RoleParent)
	return f
}

func (f *fixture) token(t *testing.T, email string) string {
	t.Helper()
	sess, err := f.provider.SignIn(context.Background(), email, password)
	require.NoError(t, err)
	return sess.Token
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name         string
	method       string
	path         string
	body         []byte
	token        string
	wantCode     int
	wantData     []byte
	wantLocation string
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: token})
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func newFormRequest(path string, form url.Values) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req, httptest.NewRecorder()
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func unmarshall(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dest); err != nil {
		t.Fatalf("unmarshall() failed: %v; body %s", err, rec.Body.String())
	}
}

func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkResponse(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
	}
	if tt.wantLocation != "" {
		if got := rec.Header().Get("Location"); got != tt.wantLocation {
			t.Errorf("failed! location = %q; wantLocation %q", got, tt.wantLocation)
		}
	}
	if tt.wantData != nil {
		ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
		if err != nil {
			t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
		}
		if !ok {
			t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
		}
	}
}

func (f *fixture) run(t *testing.T, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			req, rec := newAuthRequest(method, tt.path, tt.token, tt.body)
			f.app.ServeHTTP(rec, req)
			checkResponse(t, tt, rec)
		})
	}
}

