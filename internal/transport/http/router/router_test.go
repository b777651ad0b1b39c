package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vedran77/postboard/internal/logging"
	"github.com/vedran77/postboard/internal/repository/memory"
	"github.com/vedran77/postboard/internal/service"
)

type api struct {
	t     *testing.T
	srv   *httptest.Server
	creds *service.Credentials
}

func newAPI(t *testing.T) *api {
	t.Helper()

	users := memory.NewUserRepo()
	posts := memory.NewPostRepo()
	creds := service.NewCredentials("router-secret")
	log := logging.Discard()

	h := New(Services{
		Auth:   service.NewAuthService(users, creds),
		Posts:  service.NewPostService(posts, users, log),
		Users:  service.NewUserService(users, creds),
		Search: service.NewSearchService(posts, users),
	}, log, "*")

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &api{t: t, srv: srv, creds: creds}
}

func (a *api) do(method, path, token, body string) (int, map[string]any) {
	a.t.Helper()

	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, a.srv.URL+path, rdr)
	require.NoError(a.t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.srv.Client().Do(req)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)

	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(a.t, json.Unmarshal(raw, &out))
	} else if len(raw) > 0 {
		var list []any
		require.NoError(a.t, json.Unmarshal(raw, &list))
		out["list"] = list
	}
	return resp.StatusCode, out
}

func (a *api) signup(username string) (token, id string) {
	a.t.Helper()
	status, body := a.do(http.MethodPost, "/auth/signup", "",
		`{"email":"`+username+`@example.com","password":"pw","firstName":"F","lastName":"L","username":"`+username+`"}`)
	require.Equal(a.t, http.StatusCreated, status, body)
	user := body["user"].(map[string]any)
	return body["token"].(string), user["id"].(string)
}

func TestSignupScenario(t *testing.T) {
	a := newAPI(t)

	status, body := a.do(http.MethodPost, "/auth/signup", "",
		`{"email":"a@b.com","password":"pw","firstName":"A","lastName":"B","username":"ab"}`)
	require.Equal(t, http.StatusCreated, status)

	token, ok := body["token"].(string)
	require.True(t, ok)
	user := body["user"].(map[string]any)
	assert.NotContains(t, user, "password")
	assert.Equal(t, "A B", user["fullName"])

	id, err := a.creds.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, user["id"], id.String())

	status, body = a.do(http.MethodPost, "/auth/signup", "",
		`{"email":"A@B.com","password":"pw","firstName":"A","lastName":"B","username":"other"}`)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, `Field "email" with value "a@b.com" already exists`, body["message"])
}

func TestSignin(t *testing.T) {
	a := newAPI(t)
	_, id := a.signup("sue")

	status, body := a.do(http.MethodPost, "/auth/signin", "", `{"username":"sue","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Incorrect password", body["message"])

	status, body = a.do(http.MethodPost, "/auth/signin", "", `{"username":"ghost","password":"pw"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Username not associated with a user", body["message"])

	status, body = a.do(http.MethodPost, "/auth/signin", "", `{"password":"pw"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, `Field "username" not included in request`, body["message"])

	status, body = a.do(http.MethodPost, "/auth/signin", "", `{"email":"sue@example.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, id, body["user"].(map[string]any)["id"])

	status, body = a.do(http.MethodPost, "/auth/validate", body["token"].(string), "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, id, body["user"].(map[string]any)["id"])
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	a := newAPI(t)

	for _, r := range []struct{ method, path string }{
		{http.MethodGet, "/posts"},
		{http.MethodPost, "/posts"},
		{http.MethodGet, "/users"},
		{http.MethodDelete, "/users/x"},
		{http.MethodPost, "/auth/validate"},
		{http.MethodPost, "/posts/like/x"},
	} {
		status, body := a.do(r.method, r.path, "", "")
		assert.Equal(t, http.StatusUnauthorized, status, r.path)
		assert.Equal(t, "Unauthorized", body["message"], r.path)
	}

	status, _ := a.do(http.MethodGet, "/posts", "not-a-jwt", "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestPostLifecycle(t *testing.T) {
	a := newAPI(t)
	token, uid := a.signup("pat")
	_, fan := a.signup("fan")

	status, body := a.do(http.MethodPost, "/posts", token, `{"content":"hi there","uid":"`+uid+`"}`)
	require.Equal(t, http.StatusCreated, status, body)
	post := body["post"].(map[string]any)
	pid := post["id"].(string)
	assert.Equal(t, []any{pid}, body["owner"].(map[string]any)["posts"])
	assert.NotContains(t, post["owner"].(map[string]any), "password")

	status, body = a.do(http.MethodGet, "/posts/"+pid, "", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "hi there", body["post"].(map[string]any)["content"])

	status, body = a.do(http.MethodPut, "/posts/"+pid, token, `{"content":"edited"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "edited", body["post"].(map[string]any)["content"])

	status, body = a.do(http.MethodPost, "/posts/like/"+pid, token, `{"uid":"`+fan+`"}`)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["post"].(map[string]any)["numLikes"])
	status, body = a.do(http.MethodPost, "/posts/like/"+pid, token, `{"uid":"`+fan+`"}`)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 0, body["post"].(map[string]any)["numLikes"])

	status, body = a.do(http.MethodGet, "/posts/user/"+uid, "", "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["numResults"])
	assert.Equal(t, []any{pid}, body["resultIds"])

	status, body = a.do(http.MethodGet, "/posts", token, "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["posts"], 1)

	status, body = a.do(http.MethodDelete, "/posts/"+pid, token, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Post with id: "+pid+" was successfully deleted", body["message"])
	assert.Empty(t, body["owner"].(map[string]any)["posts"])

	status, _ = a.do(http.MethodGet, "/posts/"+pid, "", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestMalformedIDIsNotFound(t *testing.T) {
	a := newAPI(t)
	token, _ := a.signup("mal")

	status, body := a.do(http.MethodGet, "/posts/not-a-real-id", "", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, `Document with id "not-a-real-id" not found`, body["message"])

	status, _ = a.do(http.MethodGet, "/users/123", token, "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = a.do(http.MethodDelete, "/posts/5f8d0d55b54764421b7156c9", token, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestUsersRoutes(t *testing.T) {
	a := newAPI(t)
	token, uid := a.signup("uma")

	status, body := a.do(http.MethodGet, "/users", token, "")
	require.Equal(t, http.StatusOK, status)
	require.Len(t, body["list"], 1)
	assert.NotContains(t, body["list"].([]any)[0].(map[string]any), "password")

	status, body = a.do(http.MethodPut, "/users/"+uid, token, `{"password":"new","authPassword":"wrong","blurb":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = a.do(http.MethodGet, "/users/"+uid, token, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "", body["blurb"])

	status, body = a.do(http.MethodPut, "/users/"+uid, token, `{"blurb":"hello","isAdmin":true}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "hello", body["blurb"])
	assert.Equal(t, false, body["isAdmin"])

	status, body = a.do(http.MethodDelete, "/users/"+uid, token, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "User with id: "+uid+" was successfully deleted", body["message"])

	status, _ = a.do(http.MethodGet, "/users", token, "")
	assert.Equal(t, http.StatusUnauthorized, status, "token of a deleted user is rejected")
}

func TestSearchRoutes(t *testing.T) {
	a := newAPI(t)
	token, uid := a.signup("zoe")

	for _, c := range []string{"apple pie", "apple tart", "banana"} {
		status, _ := a.do(http.MethodPost, "/posts", token, `{"content":"`+c+`","uid":"`+uid+`"}`)
		require.Equal(t, http.StatusCreated, status)
	}

	status, body := a.do(http.MethodGet, "/search/posts?query=APPLE&numperpage=1&page=2", "", "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["numResults"])

	status, body = a.do(http.MethodGet, "/search/posts?query=apple&page=9223372036854775807&numperpage=2", "", "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 2, body["numResults"])

	status, body = a.do(http.MethodGet, "/search/users?query=zo", "", "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["numResults"])
	assert.Len(t, body["postResults"], 2)
	assert.Equal(t, []any{uid}, body["resultIds"])
}

func TestFallbackRoutes(t *testing.T) {
	a := newAPI(t)

	status, body := a.do(http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["message"])

	status, body = a.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	status, body = a.do(http.MethodGet, "/nowhere", "", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "The route you've requested doesn't exist", body["message"])
}
