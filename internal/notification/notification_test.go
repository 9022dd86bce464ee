package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"dataimport/internal/config"
)

type report struct {
	ImportType string
	Source     string
	Total      int
	Imported   int
	Failed     int
	Errors     []struct {
		Line    int
		Message string
	}
}

func TestUserNotify(t *testing.T) {
	n := NewUserNotify([]string{" a@example.com ", "", "b@example.com"}, "Import done", TemplateImportCompleted, map[string]int{"total": 1})

	assert.Equal(t, Envelope{To: []string{"a@example.com", "b@example.com"}, Subject: "Import done"}, n.Envelope())
	assert.Equal(t, Content{View: TemplateImportCompleted, With: map[string]int{"total": 1}}, n.Content())
	assert.NoError(t, n.Validate())

	assert.ErrorIs(t, NewUserNotify(nil, "s", "t", nil).Validate(), ErrNoRecipients)
	assert.ErrorIs(t, NewUserNotify([]string{"a@x"}, " ", "t", nil).Validate(), ErrSubjectRequired)
	assert.ErrorIs(t, NewUserNotify([]string{"a@x"}, "s", "", nil).Validate(), ErrTemplateRequired)
}

func TestRenderer_EmbeddedTemplates(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	html, err := r.Render(Content{View: TemplateImportCompleted, With: report{
		ImportType: "product",
		Source:     "<products>.csv",
		Total:      3,
		Imported:   2,
		Failed:     1,
		Errors: []struct {
			Line    int
			Message string
		}{{Line: 4, Message: "db down"}},
	}})
	require.NoError(t, err)
	assert.Contains(t, html, "&lt;products&gt;.csv")
	assert.Contains(t, html, "Line 4: db down")

	html, err = r.Render(Content{View: TemplateImportFailed, With: map[string]string{"ImportType": "category", "Source": "c.xlsx", "Reason": "bad header"}})
	require.NoError(t, err)
	assert.Contains(t, html, "bad header")

	_, err = r.Render(Content{View: "nope"})
	assert.ErrorIs(t, err, ErrUnknownTemplate)
}

type recordingSender struct {
	mu   sync.Mutex
	msgs []Message
	err  error
}

func (s *recordingSender) Send(_ context.Context, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
	return s.err
}

func (s *recordingSender) sent() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.msgs...)
}

func testRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRendererFS(fstest.MapFS{
		"hello.html": {Data: []byte("Hello {{.}}")},
	}, "*.html")
	require.NoError(t, err)
	return r
}

func TestQueue_DeliversAndDrainsOnShutdown(t *testing.T) {
	sender := &recordingSender{}
	q := NewQueue(sender, testRenderer(t), config.MailConfig{FromAddress: "no-reply@x", FromName: "Importer", QueueSize: 10, Workers: 2}, nil)
	q.Start(context.Background())

	for i := 0; i < 5; i++ {
		require.NoError(t, q.Dispatch(NewUserNotify([]string{"a@x"}, "hi", "hello", "world")))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, q.Shutdown(ctx))

	msgs := sender.sent()
	require.Len(t, msgs, 5)
	assert.Equal(t, Message{
		FromAddress: "no-reply@x",
		FromName:    "Importer",
		To:          []string{"a@x"},
		Subject:     "hi",
		HTML:        "Hello world",
	}, msgs[0])

	assert.ErrorIs(t, q.Dispatch(NewUserNotify([]string{"a@x"}, "hi", "hello", nil)), ErrQueueClosed)
}

func TestQueue_DispatchFullAndInvalid(t *testing.T) {
	q := NewQueue(&recordingSender{}, testRenderer(t), config.MailConfig{QueueSize: 1, Workers: 1}, nil)

	// Not started: the single slot fills up.
	require.NoError(t, q.Dispatch(NewUserNotify([]string{"a@x"}, "s", "hello", nil)))
	assert.ErrorIs(t, q.Dispatch(NewUserNotify([]string{"a@x"}, "s", "hello", nil)), ErrQueueFull)
	assert.ErrorIs(t, q.Dispatch(NewUserNotify(nil, "s", "hello", nil)), ErrNoRecipients)

	assert.NoError(t, q.Shutdown(context.Background()))
}

func TestQueue_LogsDeliveryFailures(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	sender := &recordingSender{err: errors.New("smtp down")}
	q := NewQueue(sender, testRenderer(t), config.MailConfig{QueueSize: 2, Workers: 1}, zap.New(core))
	q.Start(context.Background())

	require.NoError(t, q.Dispatch(NewUserNotify([]string{"a@x"}, "s", "hello", nil)))
	require.NoError(t, q.Dispatch(NewUserNotify([]string{"a@x"}, "s", "missing", nil)))
	require.NoError(t, q.Shutdown(context.Background()))

	assert.Equal(t, 1, logs.FilterMessage("failed to send notification").Len())
	assert.Equal(t, 1, logs.FilterMessage("failed to render notification").Len())
}

type fakeSendGrid struct {
	got  *mail.SGMailV3
	resp *rest.Response
	err  error
}

func (f *fakeSendGrid) SendWithContext(_ context.Context, m *mail.SGMailV3) (*rest.Response, error) {
	f.got = m
	return f.resp, f.err
}

func TestSendGridSender(t *testing.T) {
	ctx := context.Background()
	msg := Message{FromAddress: "no-reply@x", FromName: "Importer", To: []string{"a@x", "b@x"}, Subject: "s", HTML: "<p>hi</p>"}

	t.Run("success", func(t *testing.T) {
		fake := &fakeSendGrid{resp: &rest.Response{StatusCode: 202}}
		s := &SendGridSender{client: fake}

		require.NoError(t, s.Send(ctx, msg))
		require.NotNil(t, fake.got)
		assert.Equal(t, "s", fake.got.Subject)
		assert.Equal(t, "no-reply@x", fake.got.From.Address)
		require.Len(t, fake.got.Personalizations, 1)
		assert.Len(t, fake.got.Personalizations[0].To, 2)
		assert.Equal(t, "text/html", fake.got.Content[0].Type)
	})

	t.Run("error status", func(t *testing.T) {
		s := &SendGridSender{client: &fakeSendGrid{resp: &rest.Response{StatusCode: 401, Body: "unauthorized"}}}
		assert.EqualError(t, s.Send(ctx, msg), "sendgrid send failed: status=401, body=unauthorized")
	})

	t.Run("transport error", func(t *testing.T) {
		s := &SendGridSender{client: &fakeSendGrid{err: errors.New("dial")}}
		assert.EqualError(t, s.Send(ctx, msg), "sendgrid send error: dial")
	})

	t.Run("missing from", func(t *testing.T) {
		s := &SendGridSender{client: &fakeSendGrid{}}
		assert.Error(t, s.Send(ctx, Message{To: []string{"a@x"}}))
	})
}

func TestNewSender(t *testing.T) {
	assert.IsType(t, &LogSender{}, NewSender(config.MailConfig{}, nil))
	assert.IsType(t, &SendGridSender{}, NewSender(config.MailConfig{SendGridAPIKey: "key"}, nil))
	assert.NoError(t, NewLogSender(nil).Send(context.Background(), Message{To: []string{"a@x"}}))
}
