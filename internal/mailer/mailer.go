package mailer

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/vinhtqfx07044/laptop/internal/config"
	"github.com/vinhtqfx07044/laptop/internal/domain"
	"go.uber.org/zap"
)

const thankYouMessage = "Cảm ơn bạn đã sử dụng dịch vụ!"

const (
	confirmationSubject = "Xác nhận yêu cầu sửa chữa tại %s"
	updateSubject       = "Cập nhật về yêu cầu sửa chữa của bạn tại %s"
	recoverSubject      = "Khôi phục mã tra cứu tại %s"
)

// Notifier sends customer notifications about repair requests. All
// sends are best-effort and asynchronous: a failed or dropped
// notification never fails the operation that triggered it.
type Notifier interface {
	NotifyCreated(request *domain.Request)
	NotifyUpdated(request *domain.Request, changes string)
	NotifyRecovery(email string, requests []domain.Request)
}

type message struct {
	to      string
	subject string
	body    string
}

// Mailer composes notification emails and drains them through a fixed
// worker pool with a bounded queue. When the queue is full the message
// is dropped and logged.
type Mailer struct {
	sender   Sender
	shopName string
	baseURL  string
	queue    chan message
	logger   *zap.Logger
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewMailer creates a mailer and starts its worker pool
func NewMailer(cfg *config.MailConfig, appCfg *config.AppConfig, sender Sender, logger *zap.Logger) *Mailer {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	queueSize := cfg.QueueSize
	if queueSize < 1 {
		queueSize = 1
	}

	m := &Mailer{
		sender:   sender,
		shopName: appCfg.Name,
		baseURL:  strings.TrimRight(appCfg.PublicBaseURL, "/"),
		queue:    make(chan message, queueSize),
		logger:   logger,
	}

	m.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go m.worker()
	}

	logger.Info("mailer started",
		zap.Int("workers", workers),
		zap.Int("queue_size", queueSize),
	)

	return m
}

func (m *Mailer) worker() {
	defer m.wg.Done()
	for msg := range m.queue {
		if err := m.sender.Send(msg.to, msg.subject, msg.body); err != nil {
			m.logger.Error("failed to send email",
				zap.String("to", msg.to),
				zap.String("subject", msg.subject),
				zap.Error(err),
			)
			continue
		}
		m.logger.Info("email sent",
			zap.String("to", msg.to),
			zap.String("subject", msg.subject),
		)
	}
}

// Stop closes the queue and waits for in-flight sends, up to the
// given timeout
func (m *Mailer) Stop(timeout time.Duration) {
	m.stopOnce.Do(func() {
		close(m.queue)
		done := make(chan struct{})
		go func() {
			m.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(timeout):
			m.logger.Warn("mailer stopped before queue drained")
		}
	})
}

// enqueue hands a message to the pool without ever blocking the
// caller. A saturated queue drops the message.
func (m *Mailer) enqueue(msg message) {
	if msg.to == "" {
		return
	}
	select {
	case m.queue <- msg:
	default:
		m.logger.Warn("email queue full, dropping message",
			zap.String("to", msg.to),
			zap.String("subject", msg.subject),
		)
	}
}

func (m *Mailer) trackingLink(request *domain.Request) string {
	return fmt.Sprintf("%s/public/requests/%s", m.baseURL, request.ID)
}

// NotifyCreated sends the confirmation email for a new request
func (m *Mailer) NotifyCreated(request *domain.Request) {
	if request.Email == "" {
		return
	}

	var body strings.Builder
	body.WriteString("Yêu cầu của bạn đã được tiếp nhận.\n\n")
	body.WriteString("Mã ID: " + request.ID.String() + "\n")
	body.WriteString("Link tra cứu: " + m.trackingLink(request) + "\n")
	body.WriteString("\n" + thankYouMessage)

	m.enqueue(message{
		to:      request.Email,
		subject: fmt.Sprintf(confirmationSubject, m.shopName),
		body:    body.String(),
	})
}

// NotifyUpdated sends the change summary for an updated request
func (m *Mailer) NotifyUpdated(request *domain.Request, changes string) {
	if request.Email == "" {
		return
	}

	var body strings.Builder
	body.WriteString("Yêu cầu sửa chữa của bạn đã được cập nhật:\n\n")
	body.WriteString("Mã ID: " + request.ID.String() + "\n")
	body.WriteString("Link tra cứu: " + m.trackingLink(request) + "\n")
	body.WriteString(changes + "\n")
	body.WriteString("\n" + thankYouMessage)

	m.enqueue(message{
		to:      request.Email,
		subject: fmt.Sprintf(updateSubject, m.shopName),
		body:    body.String(),
	})
}

// NotifyRecovery sends the list of tracking links registered to an
// email address
func (m *Mailer) NotifyRecovery(email string, requests []domain.Request) {
	var body strings.Builder
	body.WriteString("Danh sách yêu cầu của bạn:\n\n")
	for i := range requests {
		request := &requests[i]
		body.WriteString("Mã ID: " + request.ID.String() + "\n")
		body.WriteString("Link tra cứu: " + m.trackingLink(request) + "\n")
		body.WriteString("Ngày tạo: " + request.CreatedAt.Format("02/01/2006") + "\n")
		body.WriteString("Tình trạng: " + request.Status.Label() + "\n\n")
	}
	body.WriteString(thankYouMessage)

	m.enqueue(message{
		to:      email,
		subject: fmt.Sprintf(recoverSubject, m.shopName),
		body:    body.String(),
	})
}
