package mailer

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vinhtqfx07044/laptop/internal/config"
	"github.com/vinhtqfx07044/laptop/internal/domain"
)

type capturedMail struct {
	to      string
	subject string
	body    string
}

type captureSender struct {
	mu   sync.Mutex
	sent []capturedMail
}

func (s *captureSender) Send(to, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, capturedMail{to: to, subject: subject, body: body})
	return nil
}

func (s *captureSender) all() []capturedMail {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]capturedMail(nil), s.sent...)
}

func newTestMailer(sender Sender) *Mailer {
	return NewMailer(
		&config.MailConfig{Workers: 2, QueueSize: 100},
		&config.AppConfig{Name: "Laptop Store", PublicBaseURL: "http://localhost:8080/"},
		sender,
		zap.NewNop(),
	)
}

func testRequest() *domain.Request {
	r := &domain.Request{
		Name:   "Nguyễn Văn An",
		Email:  "an@example.com",
		Status: domain.StatusScheduled,
	}
	r.ID = uuid.New()
	r.CreatedAt = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	return r
}

func TestNotifyCreated(t *testing.T) {
	sender := &captureSender{}
	m := newTestMailer(sender)

	request := testRequest()
	m.NotifyCreated(request)
	m.Stop(5 * time.Second)

	sent := sender.all()
	require.Len(t, sent, 1)
	assert.Equal(t, "an@example.com", sent[0].to)
	assert.Equal(t, "Xác nhận yêu cầu sửa chữa tại Laptop Store", sent[0].subject)
	assert.Contains(t, sent[0].body, "Mã ID: "+request.ID.String())
	assert.Contains(t, sent[0].body, "Link tra cứu: http://localhost:8080/public/requests/"+request.ID.String())
	assert.Contains(t, sent[0].body, "Cảm ơn bạn đã sử dụng dịch vụ!")
}

func TestNotifyCreated_NoEmailIsNoOp(t *testing.T) {
	sender := &captureSender{}
	m := newTestMailer(sender)

	request := testRequest()
	request.Email = ""
	m.NotifyCreated(request)
	m.Stop(5 * time.Second)

	assert.Empty(t, sender.all())
}

func TestNotifyUpdated(t *testing.T) {
	sender := &captureSender{}
	m := newTestMailer(sender)

	request := testRequest()
	m.NotifyUpdated(request, "Trạng thái: Đã lên lịch → Đã báo giá")
	m.Stop(5 * time.Second)

	sent := sender.all()
	require.Len(t, sent, 1)
	assert.Equal(t, "Cập nhật về yêu cầu sửa chữa của bạn tại Laptop Store", sent[0].subject)
	assert.Contains(t, sent[0].body, "Trạng thái: Đã lên lịch → Đã báo giá")
}

func TestNotifyRecovery(t *testing.T) {
	sender := &captureSender{}
	m := newTestMailer(sender)

	first := testRequest()
	second := testRequest()
	second.Status = domain.StatusCompleted

	m.NotifyRecovery("an@example.com", []domain.Request{*first, *second})
	m.Stop(5 * time.Second)

	sent := sender.all()
	require.Len(t, sent, 1)
	assert.Equal(t, "Khôi phục mã tra cứu tại Laptop Store", sent[0].subject)
	assert.Contains(t, sent[0].body, "Mã ID: "+first.ID.String())
	assert.Contains(t, sent[0].body, "Mã ID: "+second.ID.String())
	assert.Contains(t, sent[0].body, "Ngày tạo: 01/06/2025")
	assert.Contains(t, sent[0].body, "Tình trạng: Hoàn thành")
}

func TestEnqueue_DropsWhenQueueFull(t *testing.T) {
	blocker := make(chan struct{})
	blocking := &blockingSender{release: blocker}
	m := NewMailer(
		&config.MailConfig{Workers: 1, QueueSize: 1},
		&config.AppConfig{Name: "Laptop Store", PublicBaseURL: "http://localhost:8080"},
		blocking,
		zap.NewNop(),
	)

	// First message occupies the worker, second fills the queue, the
	// rest must be dropped without blocking
	for i := 0; i < 5; i++ {
		m.NotifyCreated(testRequest())
	}
	close(blocker)
	m.Stop(5 * time.Second)

	assert.LessOrEqual(t, blocking.count(), 2)
}

type blockingSender struct {
	mu      sync.Mutex
	n       int
	release chan struct{}
}

func (s *blockingSender) Send(to, subject, body string) error {
	<-s.release
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return nil
}

func (s *blockingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}
