package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	. "github.com/ttuacm/sdc-backend/apps/api/echo"
	"github.com/ttuacm/sdc-backend/core"
	"github.com/ttuacm/sdc-backend/core/event"
	"github.com/ttuacm/sdc-backend/core/member"
	"github.com/ttuacm/sdc-backend/core/student"
	"github.com/ttuacm/sdc-backend/core/team"
	emailsvc "github.com/ttuacm/sdc-backend/services/email"
	inmemdb "github.com/ttuacm/sdc-backend/storage/database/inmem"
	testutil "github.com/ttuacm/sdc-backend/tests"
)

var (
	conf *core.Config

	stdRepo  student.Repository
	mbrRepo  member.Repository
	teamRepo team.Repository

	stdSvc    student.Service
	calClient *fakeCalendarClient

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
)

func setup(t *testing.T) Server {
	t.Helper()
	emailsvc.ClearSentMessages()

	conf = testutil.NewConfig()

	// set up DB & repos
	db := inmemdb.Open()
	stdRepo = inmemdb.NewStudentRepository(db)
	mbrRepo = inmemdb.NewMemberRepository(db)
	teamRepo = inmemdb.NewTeamRepository(db)

	// set up services
	logger := testutil.NewLogger()
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	stdSvc = student.NewService(stdRepo, mailSvc, conf)
	calClient = &fakeCalendarClient{attendees: make(map[string][]event.Attendee)}

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	student.InitValidators(validate, translator)
	core.ParseEmailTemplates(conf, logger)

	// set up server
	return NewServer(
		ServerDeps{
			Conf:       conf,
			Logger:     logger,
			StudentSvc: stdSvc,
			MemberSvc:  member.NewService(mbrRepo),
			TeamSvc:    team.NewService(teamRepo),
			EventSvc:   event.NewService(calClient),
			Validate:   validate,
			Translator: translator,
		},
	)
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

type fakeCalendarClient struct {
	events    []event.RawEvent
	attendees map[string][]event.Attendee
	err       error
}

var _ event.Client = (*fakeCalendarClient)(nil)

func (c *fakeCalendarClient) ListUpcoming(context.Context) ([]event.RawEvent, error) {
	return c.events, c.err
}

func (c *fakeCalendarClient) GetAttendees(_ context.Context, eventID string) ([]event.Attendee, error) {
	return c.attendees[eventID], c.err
}

func (c *fakeCalendarClient) PatchAttendees(_ context.Context, eventID string, attendees []event.Attendee) error {
	if c.err != nil {
		return c.err
	}
	c.attendees[eventID] = attendees
	return nil
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, std student.Student) string {
	claims := GetStudentClaims(conf, std)
	token, err := GenerateToken(conf, claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
