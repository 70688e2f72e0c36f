// Package notify 負責借閱相關的通知信：模板產生、寄送與定期掃描
package notify

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"library-api/internal/config"
)

// Message 一封通知信，同時帶純文字與 HTML 內容
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, m Message) error
}

// NewMailer SMTP_HOST 有設定時使用 SMTP，否則只寫 log
func NewMailer(cfg config.SMTP, log zerolog.Logger) Mailer {
	if cfg.Host == "" {
		return &LogMailer{log: log}
	}
	return NewSMTPMailer(cfg)
}

// LogMailer 開發環境用，信件內容只輸出到 log
type LogMailer struct {
	log zerolog.Logger
}

func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.log.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("body", msg.Text).
		Msg("mail (log only)")
	return nil
}

var smtpSendMail = smtp.SendMail

type SMTPMailer struct {
	addr string
	from string
	auth smtp.Auth
}

func NewSMTPMailer(cfg config.SMTP) *SMTPMailer {
	m := &SMTPMailer{
		addr: cfg.Host + ":" + strconv.Itoa(cfg.Port),
		from: cfg.From,
	}
	if cfg.Username != "" {
		m.auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return m
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("SMTPMailer.Send: %w", err)
	}
	body, err := buildMIME(m.from, msg, time.Now())
	if err != nil {
		return fmt.Errorf("SMTPMailer.Send: %w", err)
	}
	if err := smtpSendMail(m.addr, m.auth, m.from, []string{msg.To}, body); err != nil {
		return fmt.Errorf("SMTPMailer.Send: %w", err)
	}
	return nil
}

// buildMIME 組出 multipart/alternative 信件，純文字在前
func buildMIME(from string, msg Message, at time.Time) ([]byte, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	parts := []struct{ typ, content string }{
		{"text/plain; charset=UTF-8", msg.Text},
		{"text/html; charset=UTF-8", msg.HTML},
	}
	for _, p := range parts {
		if p.content == "" {
			continue
		}
		pw, err := w.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {p.typ},
			"Content-Transfer-Encoding": {"8bit"},
		})
		if err != nil {
			return nil, err
		}
		if _, err := pw.Write([]byte(p.content)); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	header := [][2]string{
		{"From", from},
		{"To", msg.To},
		{"Subject", mimeWord(msg.Subject)},
		{"Date", at.Format(time.RFC1123Z)},
		{"Message-ID", "<" + uuid.NewString() + "@library-api>"},
		{"MIME-Version", "1.0"},
		{"Content-Type", "multipart/alternative; boundary=" + w.Boundary()},
	}
	for _, h := range header {
		out.WriteString(h[0] + ": " + h[1] + "\r\n")
	}
	out.WriteString("\r\n")
	out.Write(body.Bytes())
	return out.Bytes(), nil
}

func mimeWord(s string) string {
	return mime.QEncoding.Encode("UTF-8", strings.ReplaceAll(s, "\n", " "))
}
