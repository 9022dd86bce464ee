package notification_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dataimport/internal/config"
	"dataimport/internal/notification"
	"dataimport/internal/notification/mocks"
)

func TestQueue_SendsRenderedFailureNotice(t *testing.T) {
	renderer, err := notification.NewRenderer()
	require.NoError(t, err)

	sender := new(mocks.MockSender)
	sender.On("Send", mock.Anything, mock.MatchedBy(func(m notification.Message) bool {
		return m.Subject == "product import failed" &&
			len(m.To) == 1 && m.To[0] == "ops@example.com" &&
			m.FromAddress == "imports@example.com" &&
			strings.Contains(m.HTML, "missing header row")
	})).Return(nil).Once()

	q := notification.NewQueue(sender, renderer, config.MailConfig{
		FromAddress: "imports@example.com",
		QueueSize:   1,
		Workers:     1,
	}, nil)
	q.Start(context.Background())

	require.NoError(t, q.Dispatch(notification.NewUserNotify(
		[]string{"ops@example.com"},
		"product import failed",
		notification.TemplateImportFailed,
		map[string]string{"ImportType": "product", "Source": "p.csv", "Reason": "missing header row"},
	)))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, q.Shutdown(ctx))

	sender.AssertExpectations(t)
}
