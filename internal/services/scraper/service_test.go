package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/rdms-mcp/internal/common"
	"github.com/ternarybob/rdms-mcp/internal/models"
)

func newTestService(t *testing.T, baseURL string) *Service {
	t.Helper()
	cfg := common.NewDefaultConfig()
	cfg.RDMS.BaseURL = baseURL
	cfg.RDMS.RateLimit = 50
	cfg.RDMS.RequestTimeout = "5s"
	cfg.Images.Dir = t.TempDir()
	return NewService(cfg, arbor.NewLogger())
}

const loginFormPage = `<html><body>
	<form method="post">
		<input type="hidden" name="token" value="tok-123">
		<input name="account"><input name="password">
	</form>
</body></html>`

func TestLoginSuccessRedirect(t *testing.T) {
	var postedForm url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("f") != "login" {
			http.NotFound(w, r)
			return
		}
		if r.Method == http.MethodGet {
			http.SetCookie(w, &http.Cookie{Name: "zentaosid", Value: "abc"})
			w.Write([]byte(loginFormPage))
			return
		}
		require.NoError(t, r.ParseForm())
		postedForm = r.PostForm
		http.SetCookie(w, &http.Cookie{Name: "zentaosid", Value: "def"})
		w.Header().Set("Location", "/")
		w.WriteHeader(http.StatusFound)
	}))
	defer server.Close()

	svc := newTestService(t, server.URL)
	message, err := svc.Login(context.Background(), server.URL, "alice", "secret")
	require.NoError(t, err)
	assert.Contains(t, message, "Successfully logged in")
	assert.Contains(t, message, server.URL)

	// Credentials and anti-forgery token are echoed in the form post.
	assert.Equal(t, "alice", postedForm.Get("account"))
	assert.Equal(t, "secret", postedForm.Get("password"))
	assert.Equal(t, "1", postedForm.Get("keepLogin"))
	assert.Equal(t, "tok-123", postedForm.Get("token"))

	// Rotated session cookie wins.
	assert.Equal(t, "def", svc.session.CookieMap()["zentaosid"])
	assert.True(t, svc.session.IsAuthenticated())
}

func TestLoginSuccessNavigationScript(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(loginFormPage))
			return
		}
		w.Write([]byte(`<html><script>self.location='/'</script>` +
			`<!-- padding to defeat the short-body heuristic: ` +
			`xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx` +
			`xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx` +
			`--></html>`))
	}))
	defer server.Close()

	svc := newTestService(t, server.URL)
	_, err := svc.Login(context.Background(), server.URL, "alice", "secret")
	require.NoError(t, err)
	assert.True(t, svc.session.IsAuthenticated())
}

func TestLoginSuccessShortBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(loginFormPage))
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	svc := newTestService(t, server.URL)
	_, err := svc.Login(context.Background(), server.URL, "alice", "secret")
	require.NoError(t, err)
}

func TestLoginFailures(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{
			name:    "invalid credentials",
			body:    `<html>alert('登录失败，请检查您的用户名或密码是否填写正确。')</html>`,
			wantErr: ErrInvalidCredentials,
		},
		{
			name: "captcha challenge",
			body: `<html><form>请输入验证码` +
				`xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx` +
				`xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx` +
				`</form></html>`,
			wantErr: ErrCaptchaRequired,
		},
		{
			name: "unclassified long page",
			body: `<html>something else entirely` +
				`xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx` +
				`xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx` +
				`</html>`,
			wantErr: ErrUnknownLoginFailure,
		},
		{
			name:    "fail phrase beats short body",
			body:    `登录失败`,
			wantErr: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method == http.MethodGet {
					w.Write([]byte(loginFormPage))
					return
				}
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			svc := newTestService(t, server.URL)
			_, err := svc.Login(context.Background(), server.URL, "alice", "wrong")
			require.ErrorIs(t, err, tt.wantErr)
			assert.False(t, svc.session.IsAuthenticated())
		})
	}
}

func TestGetBugRequiresAuth(t *testing.T) {
	svc := newTestService(t, "")
	_, err := svc.GetBug(context.Background(), "100")
	require.ErrorIs(t, err, ErrNotAuthenticated)
}

const bugViewPage = `<html><head><title>BUG #100 Save crashes - FT-V3.X</title></head><body>
	<table>
		<tr><td>状态</td><td>激活</td></tr>
		<tr><td>严重程度</td><td>2</td></tr>
		<tr><td>优先级</td><td>1</td></tr>
		<tr><td>指派给</td><td>bob</td></tr>
	</table>
	<img src="/data/upload/1/shot.png">
	<ol class="histories-list">
		<li>2024-03-01 10:22:03, 由 张三 创建。</li>
	</ol>
</body></html>`

func TestGetBugAutoLoginAndExtract(t *testing.T) {
	logins := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("m") == "user" && q.Get("f") == "login":
			if r.Method == http.MethodGet {
				w.Write([]byte(loginFormPage))
				return
			}
			logins++
			http.SetCookie(w, &http.Cookie{Name: "zentaosid", Value: "sid-1"})
			w.Header().Set("Location", "/")
			w.WriteHeader(http.StatusFound)
		case q.Get("m") == "bug" && q.Get("f") == "view":
			assert.Equal(t, "100", q.Get("bugID"))
			assert.Contains(t, r.Header.Get("Cookie"), "zentaosid=sid-1")
			w.Write([]byte(bugViewPage))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	svc := newTestService(t, server.URL)
	svc.session.Configure(server.URL, "alice", "secret")

	bug, err := svc.GetBug(context.Background(), "100")
	require.NoError(t, err)
	assert.Equal(t, 1, logins)

	assert.Equal(t, "100", bug.ID)
	assert.Equal(t, "Save crashes", bug.Title)
	assert.Equal(t, "激活", bug.Status)
	assert.Equal(t, "2", bug.Severity)
	assert.Equal(t, "1", bug.Priority)
	assert.Equal(t, "bob", bug.AssignedTo)
	require.Len(t, bug.Images, 1)
	assert.Equal(t, server.URL+"/data/upload/1/shot.png", bug.Images[0])
	require.Len(t, bug.History, 1)
	assert.Equal(t, "张三", bug.History[0].Operator)
}

func TestSessionExpiryRetriesOnce(t *testing.T) {
	logins := 0
	views := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("m") == "user" && q.Get("f") == "login":
			if r.Method == http.MethodGet {
				w.Write([]byte(loginFormPage))
				return
			}
			logins++
			w.Header().Set("Location", "/")
			w.WriteHeader(http.StatusFound)
		case q.Get("m") == "bug" && q.Get("f") == "view":
			views++
			if views == 1 {
				// Expired session: redirect back to the login page.
				w.Header().Set("Location", "/index.php?m=user&f=login")
				w.WriteHeader(http.StatusFound)
				return
			}
			w.Write([]byte(bugViewPage))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	svc := newTestService(t, server.URL)
	svc.session.Configure(server.URL, "alice", "secret")
	svc.session.MarkAuthenticated()

	bug, err := svc.GetBug(context.Background(), "100")
	require.NoError(t, err)
	assert.Equal(t, "Save crashes", bug.Title)
	assert.Equal(t, 1, logins, "exactly one re-login")
	assert.Equal(t, 2, views, "original fetch plus one retry")
}

func TestSessionExpiryShortLoginBody(t *testing.T) {
	views := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("m") == "user" && q.Get("f") == "login":
			if r.Method == http.MethodGet {
				w.Write([]byte(loginFormPage))
				return
			}
			w.Header().Set("Location", "/")
			w.WriteHeader(http.StatusFound)
		case q.Get("m") == "bug" && q.Get("f") == "view":
			views++
			if views == 1 {
				// Expired session: short stub pointing at the login page.
				w.Write([]byte(`<script>self.location='/index.php?m=user&f=login'</script>`))
				return
			}
			w.Write([]byte(bugViewPage))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	svc := newTestService(t, server.URL)
	svc.session.Configure(server.URL, "alice", "secret")
	svc.session.MarkAuthenticated()

	_, err := svc.GetBug(context.Background(), "100")
	require.NoError(t, err)
	assert.Equal(t, 2, views)
}

func TestSessionExpiryGivesUpAfterRetry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("m") == "user" && q.Get("f") == "login":
			if r.Method == http.MethodGet {
				w.Write([]byte(loginFormPage))
				return
			}
			w.Header().Set("Location", "/")
			w.WriteHeader(http.StatusFound)
		default:
			// Every page fetch keeps bouncing to login.
			w.Header().Set("Location", "/index.php?m=user&f=login")
			w.WriteHeader(http.StatusFound)
		}
	}))
	defer server.Close()

	svc := newTestService(t, server.URL)
	svc.session.Configure(server.URL, "alice", "secret")
	svc.session.MarkAuthenticated()

	_, err := svc.GetBug(context.Background(), "100")
	require.ErrorIs(t, err, ErrSessionExpired)
	assert.False(t, svc.session.IsAuthenticated())
}

const myWorkListPage = `<html><body><table id="bugList"><tbody>
	<tr data-id="101">
		<td>101</td>
		<td><span class="label-severity-custom">2</span></td>
		<td><span class="label-pri">3</span></td>
		<td>代码错误</td><td>已确认</td>
		<td><a href="/index.php?m=bug&f=view&bugID=101">First bug</a></td>
		<td>zhang</td><td>admin</td><td>li</td><td>已解决</td>
	</tr>
	<tr data-id="102">
		<td>102</td>
		<td><span class="label-severity-custom">1</span></td>
		<td><span class="label-pri">2</span></td>
		<td>代码错误</td><td>未确认</td>
		<td><a href="/index.php?m=bug&f=view&bugID=102">Second bug</a></td>
		<td>wang</td><td>admin</td><td></td><td></td>
	</tr>
</tbody></table></body></html>`

func TestGetMyBugs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("m") == "user":
			if r.Method == http.MethodGet {
				w.Write([]byte(loginFormPage))
				return
			}
			w.Header().Set("Location", "/")
			w.WriteHeader(http.StatusFound)
		case q.Get("m") == "my" && q.Get("f") == "work":
			assert.Equal(t, "bug", q.Get("mode"))
			assert.Equal(t, "assignedTo", q.Get("type"))
			w.Write([]byte(myWorkListPage))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	svc := newTestService(t, server.URL)
	svc.session.Configure(server.URL, "alice", "secret")

	list, err := svc.GetMyBugs(context.Background(), "active", 0)
	require.NoError(t, err)
	assert.True(t, list.Success)
	assert.Equal(t, 2, list.Total)
	assert.Equal(t, "找到 2 个我的BUG", list.Message)
	assert.Equal(t, "101", list.Bugs[0].ID)
	assert.Equal(t, "zhang", list.Bugs[0].Reporter)
	assert.Equal(t, "li", list.Bugs[0].Resolver)
	assert.Equal(t, "已解决", list.Bugs[0].Resolution)

	// Limit caps the result set.
	list, err = svc.GetMyBugs(context.Background(), "", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
}

func newTestListWithStatuses(statuses ...string) *models.BugList {
	list := &models.BugList{Success: true, Type: "我的BUG"}
	for i, status := range statuses {
		list.Bugs = append(list.Bugs, models.ListEntry{
			ID:     fmt.Sprintf("%d", 100+i),
			Title:  "bug",
			Status: status,
		})
	}
	list.Total = len(list.Bugs)
	list.Message = fmt.Sprintf("找到 %d 个我的BUG", list.Total)
	return list
}

func TestFilterByStatus(t *testing.T) {
	// "active" is the server-side default view and filters nothing.
	list := newTestListWithStatuses("已解决", "激活")
	filterByStatus(list, "active", "我的BUG")
	assert.Equal(t, 2, list.Total)

	// Entries without a visible status survive any filter; labeled entries
	// must contain the filter text.
	list = newTestListWithStatuses("已解决", "", "激活")
	filterByStatus(list, "resolved", "我的BUG")
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, "找到 1 个我的BUG", list.Message)

	list = newTestListWithStatuses("resolved 已解决", "激活", "")
	filterByStatus(list, "resolved", "我的BUG")
	assert.Equal(t, 2, list.Total)

	// Everything filtered away reads as an empty result.
	list = newTestListWithStatuses("激活")
	filterByStatus(list, "closed", "我的BUG")
	assert.Equal(t, 0, list.Total)
	assert.Equal(t, "暂无我的BUG", list.Message)
}
