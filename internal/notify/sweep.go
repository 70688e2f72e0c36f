package notify

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"library-api/internal/model"
)

// LoanSource 掃描時查詢待通知的借閱
type LoanSource interface {
	DueSoonNotices(ctx context.Context, days int) ([]model.LoanNotice, error)
	OverdueNotices(ctx context.Context) ([]model.LoanNotice, error)
}

type SweepResult struct {
	Reminders int
	Overdue   int
}

// Sweeper 找出即將到期與已逾期的借閱並排入通知
type Sweeper struct {
	loans        LoanSource
	dispatcher   *Dispatcher
	reminderDays int
	log          zerolog.Logger
}

func NewSweeper(loans LoanSource, d *Dispatcher, reminderDays int, log zerolog.Logger) *Sweeper {
	return &Sweeper{loans: loans, dispatcher: d, reminderDays: reminderDays, log: log}
}

// Run 執行一次掃描，回傳排入佇列的通知數
func (s *Sweeper) Run(ctx context.Context) (SweepResult, error) {
	var res SweepResult
	due, err := s.loans.DueSoonNotices(ctx, s.reminderDays)
	if err != nil {
		return res, err
	}
	for _, n := range due {
		s.dispatcher.Reminder(n)
		res.Reminders++
	}

	overdue, err := s.loans.OverdueNotices(ctx)
	if err != nil {
		return res, err
	}
	for _, n := range overdue {
		s.dispatcher.Overdue(n)
		res.Overdue++
	}
	return res, nil
}

// Start 每 interval 掃描一次直到 ctx 結束；interval <= 0 時直接返回
func (s *Sweeper) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			res, err := s.Run(ctx)
			if err != nil {
				s.log.Error().Err(err).Msg("notification sweep failed")
				continue
			}
			s.log.Info().Int("reminders", res.Reminders).Int("overdue", res.Overdue).Msg("notification sweep")
		}
	}
}
