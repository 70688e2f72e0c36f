package notify

import (
	"bytes"
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"library-api/internal/config"
	"library-api/internal/model"
	"library-api/internal/worker"
)

type mockMailer struct{ mock.Mock }

func (m *mockMailer) Send(ctx context.Context, msg Message) error {
	return m.Called(ctx, msg).Error(0)
}

type mockSource struct{ mock.Mock }

func (m *mockSource) DueSoonNotices(ctx context.Context, days int) ([]model.LoanNotice, error) {
	args := m.Called(ctx, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LoanNotice), args.Error(1)
}

func (m *mockSource) OverdueNotices(ctx context.Context) ([]model.LoanNotice, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LoanNotice), args.Error(1)
}

var fixedNow = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

func sampleNotice() model.LoanNotice {
	return model.LoanNotice{
		Loan: model.Loan{
			ID:       7,
			UserID:   1,
			BookID:   2,
			LoanedAt: fixedNow.AddDate(0, 0, -12),
			DueAt:    fixedNow.AddDate(0, 0, 2),
		},
		Email:     "ada@example.com",
		FirstName: "Ada",
		BookTitle: "Dune",
	}
}

func TestRender(t *testing.T) {
	returned := fixedNow
	msg, err := Render(KindLoanReturned, Data{LoanID: 7, FirstName: "Ada", BookTitle: "Dune", ReturnedAt: &returned})
	require.NoError(t, err)
	require.Equal(t, "Return confirmation - Dune", msg.Subject)
	require.Contains(t, msg.Text, "2025-03-10")
	require.Contains(t, msg.HTML, "<strong>Dune</strong>")

	msg, err = Render(KindReminder, Data{FirstName: "Ada", BookTitle: "Dune", DueAt: fixedNow, DaysLeft: 1})
	require.NoError(t, err)
	require.Contains(t, msg.Text, "due tomorrow")

	// HTML 內容需要跳脫
	msg, err = Render(KindOverdue, Data{FirstName: "<b>", BookTitle: "A & B", DaysOverdue: 3})
	require.NoError(t, err)
	require.Contains(t, msg.HTML, "&lt;b&gt;")
	require.Contains(t, msg.HTML, "A &amp; B")
	require.Contains(t, msg.Text, "3 day(s) overdue")

	_, err = Render(Kind("nope"), Data{})
	require.Error(t, err)
}

func TestDispatcher(t *testing.T) {
	m := &mockMailer{}
	m.On("Send", mock.Anything, mock.MatchedBy(func(msg Message) bool {
		return msg.To == "ada@example.com" && msg.Subject == "Loan confirmation - Dune"
	})).Return(nil).Once()
	m.On("Send", mock.Anything, mock.MatchedBy(func(msg Message) bool {
		return msg.Subject == "Return reminder - Dune" && strings.Contains(msg.Text, "in 2 days")
	})).Return(errors.New("smtp down")).Once()

	var buf bytes.Buffer
	pool := worker.NewPool(1, 0, zerolog.Nop())
	d := NewDispatcher(pool, m, zerolog.New(&buf))
	d.now = func() time.Time { return fixedNow }

	d.LoanCreated(sampleNotice())
	d.Reminder(sampleNotice())
	pool.Stop()

	m.AssertExpectations(t)
	require.Contains(t, buf.String(), "notification failed")
	require.Contains(t, buf.String(), "smtp down")

	// pool 已停止，通知被丟棄但不會 panic
	buf.Reset()
	d.LoanReturned(sampleNotice())
	require.Contains(t, buf.String(), "notification dropped")
}

func TestDispatcherData(t *testing.T) {
	d := NewDispatcher(nil, nil, zerolog.Nop())
	d.now = func() time.Time { return fixedNow }

	n := sampleNotice()
	data := d.data(n)
	require.Equal(t, 2, data.DaysLeft)
	require.Equal(t, 0, data.DaysOverdue)

	n.DueAt = fixedNow.Add(-50 * time.Hour)
	data = d.data(n)
	require.Equal(t, 0, data.DaysLeft)
	require.Equal(t, 2, data.DaysOverdue)
}

func TestSweeper(t *testing.T) {
	src := &mockSource{}
	src.On("DueSoonNotices", mock.Anything, 3).Return([]model.LoanNotice{sampleNotice()}, nil).Once()
	overdue := sampleNotice()
	overdue.DueAt = fixedNow.AddDate(0, 0, -4)
	src.On("OverdueNotices", mock.Anything).Return([]model.LoanNotice{overdue, overdue}, nil).Once()

	m := &mockMailer{}
	m.On("Send", mock.Anything, mock.Anything).Return(nil).Times(3)

	pool := worker.NewPool(2, 0, zerolog.Nop())
	d := NewDispatcher(pool, m, zerolog.Nop())
	s := NewSweeper(src, d, 3, zerolog.Nop())

	res, err := s.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, SweepResult{Reminders: 1, Overdue: 2}, res)
	pool.Stop()
	src.AssertExpectations(t)
	m.AssertExpectations(t)
}

func TestSweeperErrors(t *testing.T) {
	src := &mockSource{}
	src.On("DueSoonNotices", mock.Anything, 3).Return(nil, errors.New("db down")).Once()
	s := NewSweeper(src, NewDispatcher(nil, nil, zerolog.Nop()), 3, zerolog.Nop())
	_, err := s.Run(context.Background())
	require.EqualError(t, err, "db down")

	src.On("DueSoonNotices", mock.Anything, 3).Return([]model.LoanNotice{}, nil).Once()
	src.On("OverdueNotices", mock.Anything).Return(nil, errors.New("db down")).Once()
	_, err = s.Run(context.Background())
	require.Error(t, err)
}

func TestSweeperStart(t *testing.T) {
	swept := make(chan struct{}, 1)
	src := &mockSource{}
	src.On("DueSoonNotices", mock.Anything, 1).Return([]model.LoanNotice{}, nil)
	src.On("OverdueNotices", mock.Anything).Return([]model.LoanNotice{}, nil).Run(func(mock.Arguments) {
		select {
		case swept <- struct{}{}:
		default:
		}
	})
	s := NewSweeper(src, NewDispatcher(nil, nil, zerolog.Nop()), 1, zerolog.Nop())

	// interval 0 立即返回
	s.Start(context.Background(), 0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx, 5*time.Millisecond)
		close(done)
	}()
	select {
	case <-swept:
	case <-time.After(time.Second):
		t.Fatal("sweep did not run")
	}
	cancel()
	<-done
}

func TestNewMailer(t *testing.T) {
	_, ok := NewMailer(config.SMTP{}, zerolog.Nop()).(*LogMailer)
	require.True(t, ok)

	m, ok := NewMailer(config.SMTP{Host: "mail", Port: 25, Username: "u", Password: "p", From: "lib@example.com"}, zerolog.Nop()).(*SMTPMailer)
	require.True(t, ok)
	require.Equal(t, "mail:25", m.addr)
	require.NotNil(t, m.auth)

	var buf bytes.Buffer
	require.NoError(t, NewLogMailer(zerolog.New(&buf)).Send(context.Background(), Message{To: "a@b.c", Subject: "hi"}))
	require.Contains(t, buf.String(), `"to":"a@b.c"`)
}

func TestSMTPMailerSend(t *testing.T) {
	t.Cleanup(func() { smtpSendMail = smtp.SendMail })
	var (
		gotAddr string
		gotTo   []string
		gotBody string
	)
	smtpSendMail = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotBody = addr, to, string(msg)
		require.Equal(t, "lib@example.com", from)
		return nil
	}
	m := NewSMTPMailer(config.SMTP{Host: "mail", Port: 587, From: "lib@example.com"})
	require.Nil(t, m.auth)
	err := m.Send(context.Background(), Message{To: "ada@example.com", Subject: "Réservation", Text: "plain", HTML: "<p>html</p>"})
	require.NoError(t, err)
	require.Equal(t, "mail:587", gotAddr)
	require.Equal(t, []string{"ada@example.com"}, gotTo)
	require.Contains(t, gotBody, "Subject: =?UTF-8?q?")
	require.Contains(t, gotBody, "multipart/alternative; boundary=")
	require.Contains(t, gotBody, "text/plain; charset=UTF-8")
	require.Contains(t, gotBody, "<p>html</p>")

	smtpSendMail = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("refused") }
	require.ErrorContains(t, m.Send(context.Background(), Message{To: "x@y.z"}), "refused")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, m.Send(ctx, Message{}), context.Canceled)
}
