package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"

	"folio/internal/moderation"
	"folio/internal/ratelimiter"
	"folio/internal/store"

	"github.com/speps/go-hashids/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubCaptcha struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (s *stubCaptcha) Verify(ctx context.Context, token, remoteIP string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.err
}

func (s *stubCaptcha) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type stubAvatars struct {
	mu    sync.Mutex
	url   string
	err   error
	calls int
}

func (s *stubAvatars) Upload(ctx context.Context, file io.Reader, reviewID int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.url, nil
}

func (s *stubAvatars) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type mailSend struct {
	template string
	email    string
}

type recordingMailer struct {
	mu    sync.Mutex
	err   error
	sends []mailSend
}

func (m *recordingMailer) Send(templateFile, username, email string, data any) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sends = append(m.sends, mailSend{template: templateFile, email: email})
	if m.err != nil {
		return -1, m.err
	}
	return http.StatusOK, nil
}

func (m *recordingMailer) Sends() []mailSend {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mailSend(nil), m.sends...)
}

type recordingRelay struct {
	mu    sync.Mutex
	err   error
	sends []map[string]string
}

func (r *recordingRelay) Send(ctx context.Context, fields map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sends = append(r.sends, fields)
	return r.err
}

func (r *recordingRelay) Sends() []map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]map[string]string(nil), r.sends...)
}

type recordedEvent struct {
	eventType string
	data      any
}

type eventRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *eventRecorder) Publish(eventType string, data any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{eventType: eventType, data: data})
}

func (r *eventRecorder) Events() []recordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedEvent(nil), r.events...)
}

type failureRecorder struct {
	mu       sync.Mutex
	failures []string
}

func (r *failureRecorder) record(task string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, task)
}

func (r *failureRecorder) Failures() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.failures...)
}

type testApp struct {
	app       *application
	reviews   *store.MockReviewStore
	replies   *store.MockReplyStore
	enquiries *store.MockEnquiryStore
	log       *store.CallLog
	captcha   *stubCaptcha
	avatars   *stubAvatars
	mailer    *recordingMailer
	relay     *recordingRelay
	events    *eventRecorder
	failures  *failureRecorder
}

func newTestApp(t *testing.T, policy moderation.Policy) *testApp {
	t.Helper()

	storage, reviews, replies, enquiries, log := store.NewMockStorage()

	captcha := &stubCaptcha{}
	avatars := &stubAvatars{url: "https://cdn.example.com/avatars/review_1.png"}
	mail := &recordingMailer{}
	relay := &recordingRelay{}
	events := &eventRecorder{}
	failures := &failureRecorder{}

	hd := hashids.NewData()
	hd.Salt = "test"
	hd.MinLength = 8
	refEncoder, err := hashids.NewWithData(hd)
	require.NoError(t, err)

	app := &application{
		config: config{
			auth: basicConfig{user: "admin", pass: "secret"},
			mail: mailConfig{
				fromEmail:  "noreply@example.com",
				adminEmail: "admin@example.com",
			},
			rateLimiter: ratelimiter.Config{Enabled: false},
		},
		store:      storage,
		logger:     zap.NewNop().Sugar(),
		avatars:    avatars,
		captcha:    captcha,
		mailer:     mail,
		relay:      relay,
		events:     events,
		policy:     policy,
		refEncoder: refEncoder,
	}
	app.onBestEffortFailure = failures.record

	return &testApp{
		app:       app,
		reviews:   reviews,
		replies:   replies,
		enquiries: enquiries,
		log:       log,
		captcha:   captcha,
		avatars:   avatars,
		mailer:    mail,
		relay:     relay,
		events:    events,
		failures:  failures,
	}
}

func (ta *testApp) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	rr := httptest.NewRecorder()
	ta.app.mount().ServeHTTP(rr, req)

	// Let best-effort tasks finish so their side effects are assertable.
	ta.app.wg.Wait()

	return rr
}

type reviewForm struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Rating       int    `json:"rating"`
	Message      string `json:"message"`
	CaptchaToken string `json:"captcha_token,omitempty"`
}

func validReviewForm() reviewForm {
	return reviewForm{
		Name:         "Ada",
		Email:        "ada@example.com",
		Rating:       5,
		Message:      "Great work",
		CaptchaToken: "tok-1",
	}
}

// newReviewRequest builds the multipart submission the widget sends: a
// "review" JSON part and an "avatar" image part of avatarSize bytes.
func newReviewRequest(t *testing.T, form reviewForm, avatarSize int) *http.Request {
	t.Helper()

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)

	payload, err := json.Marshal(form)
	require.NoError(t, err)
	require.NoError(t, writer.WriteField("review", string(payload)))

	if avatarSize > 0 {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="avatar"; filename="avatar.png"`)
		header.Set("Content-Type", "image/png")

		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(bytes.Repeat([]byte{0x1}, avatarSize))
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/reviews", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func newJSONRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeData(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var envelope struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
	return envelope.Data
}
