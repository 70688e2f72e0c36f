package notify

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"library-api/internal/model"
	"library-api/internal/worker"
)

const sendTimeout = 30 * time.Second

// Dispatcher 把通知丟到 worker pool 寄送；寄送失敗只記錄 log，不回報給呼叫端
type Dispatcher struct {
	pool   worker.Pool
	mailer Mailer
	log    zerolog.Logger
	now    func() time.Time
}

func NewDispatcher(pool worker.Pool, mailer Mailer, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{pool: pool, mailer: mailer, log: log, now: time.Now}
}

func (d *Dispatcher) LoanCreated(n model.LoanNotice) {
	d.enqueue(KindLoanCreated, n)
}

func (d *Dispatcher) LoanReturned(n model.LoanNotice) {
	d.enqueue(KindLoanReturned, n)
}

func (d *Dispatcher) Reminder(n model.LoanNotice) {
	d.enqueue(KindReminder, n)
}

func (d *Dispatcher) Overdue(n model.LoanNotice) {
	d.enqueue(KindOverdue, n)
}

func (d *Dispatcher) enqueue(k Kind, n model.LoanNotice) {
	data := d.data(n)
	err := d.pool.Submit(func() {
		if err := d.deliver(k, n.Email, data); err != nil {
			d.log.Error().Err(err).Str("kind", string(k)).Int("loan_id", n.ID).Msg("notification failed")
		}
	})
	if err != nil {
		d.log.Error().Err(err).Str("kind", string(k)).Int("loan_id", n.ID).Msg("notification dropped")
	}
}

func (d *Dispatcher) deliver(k Kind, to string, data Data) error {
	msg, err := Render(k, data)
	if err != nil {
		return err
	}
	msg.To = to
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	if err := d.mailer.Send(ctx, msg); err != nil {
		return err
	}
	d.log.Debug().Str("kind", string(k)).Int("loan_id", data.LoanID).Msg("notification sent")
	return nil
}

// data 在送進佇列前計算，天數以送出當下的 UTC 日期為準
func (d *Dispatcher) data(n model.LoanNotice) Data {
	now := d.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	due := n.DueAt.UTC()
	dueDay := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
	left := int(dueDay.Sub(today) / (24 * time.Hour))
	if left < 0 {
		left = 0
	}
	return Data{
		LoanID:      n.ID,
		FirstName:   n.FirstName,
		BookTitle:   n.BookTitle,
		LoanedAt:    n.LoanedAt,
		DueAt:       n.DueAt,
		ReturnedAt:  n.ReturnedAt,
		DaysLeft:    left,
		DaysOverdue: n.DaysOverdue(now),
	}
}
