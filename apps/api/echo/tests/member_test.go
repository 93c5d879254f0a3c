package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/ttuacm/sdc-backend/core/member"
	testutil "github.com/ttuacm/sdc-backend/tests"
)

func createMember(t *testing.T, email string, groups []string) member.Member {
	t.Helper()
	m, err := mbrRepo.CreateMember(context.Background(), member.Member{Email: email, Groups: groups})
	if err != nil {
		t.Fatalf("createMember() failed: %v", err)
	}
	return m
}

func Test_memberApi_query(t *testing.T) {
	app := setup(t)

	std := testutil.CreateStudent(t, stdRepo, "Grace", "Hopper", "grace@ttu.edu", "", true)
	m := createMember(t, "raider@ttu.edu", []string{"SDC - Algorithms - Fall 18"})

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "Get all", token: getToken(t, std), wantCode: http.StatusOK, wantData: marchallList(t, m)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/api/members", tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_memberApi_create(t *testing.T) {
	app := setup(t)

	std := testutil.CreateStudent(t, stdRepo, "Grace", "Hopper", "grace@ttu.edu", "", true)
	createMember(t, "taken@ttu.edu", nil)
	token := getToken(t, std)

	tests := []httpTest{
		{name: "Auth required", body: []byte("{}"), wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "email required", body: []byte("{}"), token: token,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"email": "this field is required"}),
		},
		{
			name: "duplicate email", body: marchallObj(t, map[string]string{"email": "taken@ttu.edu"}), token: token,
			wantCode: http.StatusConflict, wantData: marchallObj(t, httpErr{Error: member.ErrEmailExists.Error()}),
		},
		{name: "created", body: marchallObj(t, map[string]string{"email": "new@ttu.edu"}), token: token, wantCode: http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/api/members", tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusCreated {
				if rec.Code != http.StatusCreated {
					t.Fatalf("code = %v; want %v: %s", rec.Code, http.StatusCreated, rec.Body.String())
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_memberApi_subscriptions(t *testing.T) {
	app := setup(t)

	std := testutil.CreateStudent(t, stdRepo, "Grace", "Hopper", "grace@ttu.edu", "", true)
	createMember(t, "raider@ttu.edu", []string{})
	token := getToken(t, std)

	subscribe := marchallObj(t, map[string]interface{}{
		"email":  "raider@ttu.edu",
		"groups": []string{"SDC - Algorithms - Fall 18"},
	})

	tests := []httpTest{
		{name: "Auth required", path: "/api/members/subscribe", body: subscribe, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "groups required", path: "/api/members/subscribe", token: token,
			body:     marchallObj(t, map[string]interface{}{"email": "raider@ttu.edu"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"groups": "this field is required"}),
		},
		{
			name: "unknown member", path: "/api/members/subscribe", token: token,
			body:     marchallObj(t, map[string]interface{}{"email": "nobody@ttu.edu", "groups": []string{"x"}}),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: member.ErrNotFound.Error()}),
		},
		{name: "subscribed", path: "/api/members/subscribe", token: token, body: subscribe, wantCode: http.StatusOK},
		{name: "unsubscribed", path: "/api/members/unsubscribe", token: token, body: subscribe, wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPut, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode != http.StatusOK {
				checkCodeAndData(t, tt, rec)
				return
			}
			if rec.Code != http.StatusOK {
				t.Fatalf("code = %v; want %v: %s", rec.Code, http.StatusOK, rec.Body.String())
			}
		})
	}

	m, err := mbrRepo.GetMemberByEmail(context.Background(), "raider@ttu.edu")
	if err != nil {
		t.Fatalf("GetMemberByEmail() failed: %v", err)
	}
	if len(m.Groups) != 0 {
		t.Errorf("Groups = %v; want none", m.Groups)
	}
}

func Test_memberApi_payDues(t *testing.T) {
	app := setup(t)

	std := testutil.CreateStudent(t, stdRepo, "Grace", "Hopper", "grace@ttu.edu", "", true)
	createMember(t, "raider@ttu.edu", nil)

	body := marchallObj(t, map[string]string{"email": "raider@ttu.edu"})
	req, rec := newAuthRequest(http.MethodPut, "/api/members/pay-dues", getToken(t, std), body)
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; want %v: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	m, err := mbrRepo.GetMemberByEmail(context.Background(), "raider@ttu.edu")
	if err != nil {
		t.Fatalf("GetMemberByEmail() failed: %v", err)
	}
	if !m.HasPaidDues {
		t.Error("HasPaidDues = false; want true")
	}
}

func Test_memberApi_reset(t *testing.T) {
	app := setup(t)

	std := testutil.CreateStudent(t, stdRepo, "Grace", "Hopper", "grace@ttu.edu", "", true)
	admin := testutil.CreateStudent(t, stdRepo, "Ad", "Min", "admin@ttuacm.org", "", true)
	createMember(t, "a@ttu.edu", nil)
	createMember(t, "b@ttu.edu", nil)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Admin required", token: getToken(t, std),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{name: "Roster wiped", token: getToken(t, admin), wantCode: http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodDelete, "/api/members", tt.token)
			app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusNoContent {
				if rec.Code != http.StatusNoContent {
					t.Fatalf("code = %v; want %v: %s", rec.Code, http.StatusNoContent, rec.Body.String())
				}
				members, err := mbrRepo.QueryAllMembers(context.Background())
				if err != nil {
					t.Fatalf("QueryAllMembers() failed: %v", err)
				}
				if len(members) != 0 {
					t.Errorf("members = %v; want none", members)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}
