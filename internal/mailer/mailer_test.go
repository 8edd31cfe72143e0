package mailer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/affiliate-launchpad/internal/config"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/lib/smtp"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/models"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Connect() (smtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtp.Client), args.Error(1)
}

type MockSMTPClient struct {
	mock.Mock
}

func (m *MockSMTPClient) Mail(from string) error {
	args := m.Called(from)
	return args.Error(0)
}

func (m *MockSMTPClient) Rcpt(to string) error {
	args := m.Called(to)
	return args.Error(0)
}

func (m *MockSMTPClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

func (m *MockSMTPClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockSMTPClient) Quit() error {
	args := m.Called()
	return args.Error(0)
}

type MockSMTPWriter struct {
	mock.Mock
	written []byte
}

func (m *MockSMTPWriter) Write(p []byte) (n int, err error) {
	m.written = append(m.written, p...)
	args := m.Called(p)
	return args.Int(0), args.Error(1)
}

func (m *MockSMTPWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

var testSender = config.Sender{
	FromName:  "Abby",
	FromEmail: "noreply@example.com",
}

var jane = models.Subscriber{Email: "jane@example.com", FirstName: "Jane", Tier: models.TierPremium}

func TestMailer_SendWelcome(t *testing.T) {
	tests := []struct {
		name          string
		setupMocks    func(*MockTransport, *MockSMTPClient, *MockSMTPWriter)
		expectedError string
	}{
		{
			name: "success",
			setupMocks: func(tr *MockTransport, c *MockSMTPClient, w *MockSMTPWriter) {
				tr.On("Connect").Return(c, nil).Once()
				c.On("Mail", "noreply@example.com").Return(nil).Once()
				c.On("Rcpt", "jane@example.com").Return(nil).Once()
				c.On("Data").Return(w, nil).Once()
				w.On("Write", mock.AnythingOfType("[]uint8")).Return(100, nil).Once()
				w.On("Close").Return(nil).Once()
				c.On("Quit").Return(nil).Once()
				c.On("Close").Return(nil).Once()
			},
		},
		{
			name: "connection error",
			setupMocks: func(tr *MockTransport, _ *MockSMTPClient, _ *MockSMTPWriter) {
				tr.On("Connect").Return(nil, errors.New("connection refused")).Once()
			},
			expectedError: "connection refused",
		},
		{
			name: "recipient rejected",
			setupMocks: func(tr *MockTransport, c *MockSMTPClient, _ *MockSMTPWriter) {
				tr.On("Connect").Return(c, nil).Once()
				c.On("Mail", "noreply@example.com").Return(nil).Once()
				c.On("Rcpt", "jane@example.com").Return(errors.New("550 no such user")).Once()
				c.On("Close").Return(nil).Once()
			},
			expectedError: "rcpt to: 550 no such user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := new(MockTransport)
			client := new(MockSMTPClient)
			writer := new(MockSMTPWriter)
			tt.setupMocks(transport, client, writer)

			m := NewWithTransport(testSender, newNoopLogger(), transport)
			err := m.SendWelcome(context.Background(), jane, "https://example.com/guide.pdf")

			if tt.expectedError != "" {
				assert.ErrorContains(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
				msg := string(writer.written)
				assert.Contains(t, msg, "From: Abby <noreply@example.com>")
				assert.Contains(t, msg, "Subject: Welcome to Affiliate Pro")
				assert.Contains(t, msg, "Hi Jane,")
				assert.Contains(t, msg, "https://example.com/guide.pdf")
			}

			transport.AssertExpectations(t)
			client.AssertExpectations(t)
			writer.AssertExpectations(t)
		})
	}
}

func TestMailer_OmitsPlaceholderLink(t *testing.T) {
	transport := new(MockTransport)
	client := new(MockSMTPClient)
	writer := new(MockSMTPWriter)
	transport.On("Connect").Return(client, nil)
	client.On("Mail", mock.Anything).Return(nil)
	client.On("Rcpt", mock.Anything).Return(nil)
	client.On("Data").Return(writer, nil)
	writer.On("Write", mock.Anything).Return(100, nil)
	writer.On("Close").Return(nil)
	client.On("Quit").Return(nil)
	client.On("Close").Return(nil)

	m := NewWithTransport(testSender, newNoopLogger(), transport)
	assert.NoError(t, m.SendWelcome(context.Background(), jane, "#"))
	assert.NotContains(t, string(writer.written), "free guide")
}

func TestMailer_DisabledWithoutHost(t *testing.T) {
	m := New(testSender, newNoopLogger())
	assert.False(t, m.Enabled())
	assert.NoError(t, m.SendWelcome(context.Background(), jane, "#"))

	m = New(config.Sender{SMTPHost: "smtp.example.com", SMTPPort: "587"}, newNoopLogger())
	assert.True(t, m.Enabled())
}
