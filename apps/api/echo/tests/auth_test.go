package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"

	echoapi "github.com/ttuacm/sdc-backend/apps/api/echo"
	"github.com/ttuacm/sdc-backend/core/student"
	testutil "github.com/ttuacm/sdc-backend/tests"
)

func Test_authApi_register(t *testing.T) {
	app := setup(t)

	testutil.CreateStudent(t, stdRepo, "Grace", "Hopper", "grace@ttu.edu", "c0b0l rocks!", true)

	tests := []httpTest{
		{
			name: "empty payload", body: []byte("{}"), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"first_name": "this field is required",
				"last_name":  "this field is required",
				"email":      "this field is required",
				"password":   "this field is required",
			}),
		},
		{
			name: "duplicate email",
			body: marchallObj(t, student.NewStudent{
				FirstName: "Fake", LastName: "Grace", Email: "grace@ttu.edu",
				Password: "s0mething-else", Classification: "Junior",
			}),
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{Error: student.ErrEmailExists.Error()}),
		},
		{
			name: "created",
			body: marchallObj(t, student.NewStudent{
				FirstName: "Ada", LastName: "Lovelace", Email: "ada@ttu.edu",
				Password: "n0tes-on-the-engine", Classification: "Senior",
			}),
			wantCode: http.StatusCreated,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/api/auth/register", tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode != http.StatusCreated {
				checkCodeAndData(t, tt, rec)
				return
			}

			if rec.Code != http.StatusCreated {
				t.Fatalf("code = %v; want %v: %s", rec.Code, http.StatusCreated, rec.Body.String())
			}
			var std student.Student
			if err := json.Unmarshal(rec.Body.Bytes(), &std); err != nil {
				t.Fatalf("unmarshalling response: %v", err)
			}
			assert.Equal(t, "ada@ttu.edu", std.Email)
			assert.False(t, std.Verified)

			// hashes and tokens never leak
			assert.NotContains(t, rec.Body.String(), "password")
			assert.NotContains(t, rec.Body.String(), "token")
		})
	}
}

func Test_authApi_login(t *testing.T) {
	app := setup(t)

	verified := testutil.CreateStudent(t, stdRepo, "Grace", "Hopper", "grace@ttu.edu", "c0b0l rocks!", true)
	testutil.CreateStudent(t, stdRepo, "Slow", "Poke", "slow@ttu.edu", "n0t verified yet", false)

	login := func(email, pwd string) []byte {
		return marchallObj(t, map[string]string{"email": email, "password": pwd})
	}

	tests := []httpTest{
		{
			name: "unknown email", body: login("nobody@ttu.edu", "whatever1"),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: student.ErrNotFound.Error()}),
		},
		{
			name: "wrong password", body: login("grace@ttu.edu", "wr0ng password"),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, httpErr{Error: student.ErrInvalidLogin.Error()}),
		},
		{
			name: "unverified account", body: login("slow@ttu.edu", "n0t verified yet"),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, httpErr{Error: student.ErrNotVerified.Error()}),
		},
		{name: "ok", body: login("grace@ttu.edu", "c0b0l rocks!"), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/api/auth/login", tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode != http.StatusOK {
				checkCodeAndData(t, tt, rec)
				return
			}

			if rec.Code != http.StatusOK {
				t.Fatalf("code = %v; want %v: %s", rec.Code, http.StatusOK, rec.Body.String())
			}
			var resp struct {
				Token   string          `json:"token"`
				Student student.Student `json:"user"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshalling response: %v", err)
			}
			assert.True(t, strings.HasPrefix(resp.Token, "JWT "))
			assert.Equal(t, verified.ID, resp.Student.ID)
			assert.False(t, resp.Student.LastLogin.IsZero())
		})
	}
}

func Test_authApi_confirmEmail(t *testing.T) {
	app := setup(t)

	std := registerStudent(t, "ada@ttu.edu")

	t.Run("invalid token redirects with err", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/auth/confirm/deadbeef")
		app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, conf.FrontendBaseURL+"/?err=Error+Validating+Email", rec.Header().Get("Location"))
	})

	t.Run("valid token redirects with verify=success", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/auth/confirm/"+std.ConfirmEmailToken)
		app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, conf.FrontendBaseURL+"/auth/?verify=success", rec.Header().Get("Location"))

		confirmed, err := stdRepo.GetStudentByID(context.Background(), std.ID)
		if err != nil {
			t.Fatalf("GetStudentByID() failed: %v", err)
		}
		assert.True(t, confirmed.Verified)
	})

	t.Run("consumed token redirects with err", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/auth/confirm/"+std.ConfirmEmailToken)
		app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, conf.FrontendBaseURL+"/?err=Error+Validating+Email", rec.Header().Get("Location"))
	})
}

func Test_authApi_forgotPassword(t *testing.T) {
	app := setup(t)

	testutil.CreateStudent(t, stdRepo, "Grace", "Hopper", "grace@ttu.edu", "c0b0l rocks!", true)

	tests := []httpTest{
		{
			name: "unknown email", body: marchallObj(t, map[string]string{"email": "nobody@ttu.edu"}),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: student.ErrNotFound.Error()}),
		},
		{
			name: "ok", body: marchallObj(t, map[string]string{"email": "grace@ttu.edu"}),
			wantCode: http.StatusOK, wantData: marchallObj(t, map[string]string{"recipient": "grace@ttu.edu"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/api/auth/forgot", tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_authApi_resetPassword(t *testing.T) {
	app := setup(t)

	testutil.CreateStudent(t, stdRepo, "Grace", "Hopper", "grace@ttu.edu", "c0b0l rocks!", true)
	std, err := stdSvc.ForgotPassword(context.Background(), "grace@ttu.edu")
	if err != nil {
		t.Fatalf("ForgotPassword() failed: %v", err)
	}

	var passToken string

	t.Run("GET with unknown token redirects with err", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/auth/reset/deadbeef")
		app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, conf.FrontendBaseURL+"/?err="+url.QueryEscape(student.ErrInvalidToken.Error()), rec.Header().Get("Location"))
	})

	t.Run("GET with valid token redirects with pass-token", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/auth/reset/"+std.ResetPasswordToken)
		app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusFound, rec.Code)
		loc, err := url.Parse(rec.Header().Get("Location"))
		if err != nil {
			t.Fatalf("parsing Location: %v", err)
		}
		passToken = loc.Query().Get("token")
		assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), conf.FrontendBaseURL+"/auth/reset/"))
		assert.NotEmpty(t, passToken)
	})

	t.Run("POST with garbage pass-token fails", func(t *testing.T) {
		body := marchallObj(t, map[string]string{"password": "new-passw0rd"})
		req, rec := newRequest(http.MethodPost, "/api/auth/reset/garbage", body)
		app.ServeHTTP(rec, req)

		tt := httpTest{
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: student.ErrInvalidToken.Error()}),
		}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("POST with valid pass-token updates the password", func(t *testing.T) {
		body := marchallObj(t, map[string]string{"password": "new-passw0rd"})
		req, rec := newRequest(http.MethodPost, "/api/auth/reset/"+url.PathEscape(passToken), body)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v: %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		updated, err := stdRepo.GetStudentByID(context.Background(), std.ID)
		if err != nil {
			t.Fatalf("GetStudentByID() failed: %v", err)
		}
		assert.NoError(t, updated.CheckPassword("new-passw0rd"))
		assert.Empty(t, updated.ResetPasswordToken)
	})
}

func Test_authApi_refreshToken(t *testing.T) {
	app := setup(t)

	std := testutil.CreateStudent(t, stdRepo, "Grace", "Hopper", "grace@ttu.edu", "c0b0l rocks!", true)

	now := time.Now()
	unrefreshableClaims := &echoapi.Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   std.ID,
			Audience:  "SDC",
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		OrigIssuedAt: now.Add(-2 * conf.Server.JWTRefreshExpirationDelta).Unix(), // older than threshold
		Email:        std.Email,
	}
	unrefreshableToken, err := echoapi.GenerateToken(conf, unrefreshableClaims)
	if err != nil {
		t.Fatalf("GenerateToken(): %v", err)
	}

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Refresh period expired", token: unrefreshableToken,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "refresh has expired"}),
		},
		{name: "Token refreshed", token: getToken(t, std), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/api/auth/token-refresh", tt.token)
			app.ServeHTTP(rec, req)

			if tt.wantCode != http.StatusOK {
				checkCodeAndData(t, tt, rec)
				return
			}

			if rec.Code != http.StatusOK {
				t.Fatalf("code = %v; want %v: %s", rec.Code, http.StatusOK, rec.Body.String())
			}
			var resp struct {
				Token string `json:"token"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshalling response: %v", err)
			}
			assert.True(t, strings.HasPrefix(resp.Token, "JWT "))
		})
	}
}

func registerStudent(t *testing.T, email string) student.Student {
	t.Helper()
	std, err := stdSvc.Register(context.Background(), student.NewStudent{
		FirstName:      "Ada",
		LastName:       "Lovelace",
		Email:          email,
		Password:       "n0tes on the engine",
		Classification: "Senior",
	})
	if err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	return std
}
