package email

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/LewF-Dev/local-help-platform/internal/config"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, to []string, subject string, rawMessage []byte) error {
	return m.Called(ctx, to, subject, rawMessage).Error(0)
}

const rawWelcome = "To: sam@example.com\r\n" +
	"From: noreply@localhelp.test\r\n" +
	"Subject: Welcome\r\n" +
	"X-Template-ID: welcome_trade\r\n" +
	"\r\n" +
	"Hi Sam\r\n"

func TestCompositeEmailSender_CallsAllAndJoinsErrors(t *testing.T) {
	first, second, third := new(mockSender), new(mockSender), new(mockSender)
	errA, errB := errors.New("a failed"), errors.New("b failed")
	first.On("Send", mock.Anything, []string{"x@example.com"}, "s", []byte("m")).Return(errA)
	second.On("Send", mock.Anything, []string{"x@example.com"}, "s", []byte("m")).Return(nil)
	third.On("Send", mock.Anything, []string{"x@example.com"}, "s", []byte("m")).Return(errB)

	cs := NewCompositeEmailSender(first, nil, second)
	cs.AddSender(third)
	cs.AddSender(nil)

	err := cs.Send(context.Background(), []string{"x@example.com"}, "s", []byte("m"))

	require.Error(t, err)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	first.AssertExpectations(t)
	second.AssertExpectations(t)
	third.AssertExpectations(t)
}

func TestCompositeEmailSender_Empty(t *testing.T) {
	assert.Error(t, NewCompositeEmailSender().Send(context.Background(), nil, "", nil))
}

func TestFileEmailSender_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "emails.log")
	s, err := NewFileEmailSender(path)
	require.NoError(t, err)

	require.NoError(t, s.Send(context.Background(), []string{"a@example.com"}, "First", []byte("one\r\n")))
	require.NoError(t, s.Send(context.Background(), []string{"b@example.com"}, "Second", []byte("two\r\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "Subject: First")
	assert.Contains(t, content, "one\r\n--- End Logged Email ---")
	assert.Contains(t, content, "(To: [b@example.com], Subject: Second)")
}

func TestNewFileEmailSender_EmptyPath(t *testing.T) {
	_, err := NewFileEmailSender("  ")
	assert.Error(t, err)
}

func TestParseMessage(t *testing.T) {
	from, templateID, body := parseMessage([]byte(rawWelcome))
	assert.Equal(t, "noreply@localhelp.test", from)
	assert.Equal(t, "welcome_trade", templateID)
	assert.Equal(t, "Hi Sam\r\n", body)

	_, templateID, body = parseMessage([]byte("no headers here"))
	assert.Equal(t, "unknown", templateID)
	assert.Equal(t, "no headers here", body)
}

func TestMockEmailKey(t *testing.T) {
	assert.Equal(t, "mockemail:sam@example.com:new_enquiry", MockEmailKey("Sam@Example.com", "new_enquiry"))
}

func TestNewSMTPSender_FallsBackToLogging(t *testing.T) {
	s := NewSMTPSender(&config.Config{SmtpFromAddress: "noreply@localhelp.test"})
	_, ok := s.(*LoggingSender)
	assert.True(t, ok)
	assert.NoError(t, s.Send(context.Background(), []string{"a@example.com"}, "s", []byte(rawWelcome)))

	s = NewSMTPSender(&config.Config{SmtpHost: "smtp.example.com", SmtpPort: 587})
	smtpSender, ok := s.(*SMTPSender)
	require.True(t, ok)
	assert.Equal(t, "smtp.example.com:587", smtpSender.addr)
	assert.Nil(t, smtpSender.auth)
}
