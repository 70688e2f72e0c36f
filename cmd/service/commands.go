package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"library-api/internal/database"
	"library-api/internal/model"
	"library-api/internal/notify"
	"library-api/internal/service"
)

const minPasswordLen = 8

var (
	readPassword = func() ([]byte, error) { return term.ReadPassword(int(os.Stdin.Fd())) }
	ensureAdmin  = func(ctx context.Context, db database.DB, in service.RegisterInput) (*model.User, bool, error) {
		return service.NewUserService(db).EnsureAdmin(ctx, in)
	}
	runSweep = func(ctx context.Context, s *notify.Sweeper) (notify.SweepResult, error) { return s.Run(ctx) }
)

func newMigrateCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "資料庫 schema migration",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "套用所有 migration",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				cfg, log, err := setup(*cfgPath)
				if err != nil {
					return err
				}
				if err := runMigrationsFn(cfg.DatabaseURL); err != nil {
					return fmt.Errorf("Migration 執行失敗: %w", err)
				}
				log.Info().Msg("migrations applied")
				return nil
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "回滾所有 migration (會清空資料)",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				cfg, log, err := setup(*cfgPath)
				if err != nil {
					return err
				}
				if err := rollbackFn(cfg.DatabaseURL); err != nil {
					return fmt.Errorf("Rollback 執行失敗: %w", err)
				}
				log.Info().Msg("migrations rolled back")
				return nil
			},
		},
	)
	return cmd
}

func newSeedAdminCmd(cfgPath *string) *cobra.Command {
	var in service.RegisterInput
	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "建立或提升管理員帳號",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if in.Password == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
				b, err := readPassword()
				fmt.Fprintln(cmd.ErrOrStderr())
				if err != nil {
					return fmt.Errorf("讀取密碼失敗: %w", err)
				}
				in.Password = strings.TrimSpace(string(b))
			}
			if len(in.Password) < minPasswordLen {
				return fmt.Errorf("密碼至少需要 %d 個字元", minPasswordLen)
			}

			cfg, log, err := setup(*cfgPath)
			if err != nil {
				return err
			}
			db, err := newPgxPool(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("DB 連線失敗: %w", err)
			}
			defer db.Close()

			u, created, err := ensureAdmin(cmd.Context(), db, in)
			if err != nil {
				return fmt.Errorf("EnsureAdmin: %w", err)
			}
			if created {
				log.Info().Int("user_id", u.ID).Str("email", u.Email).Msg("admin created")
			} else {
				log.Info().Int("user_id", u.ID).Str("email", u.Email).Msg("existing user promoted to admin")
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Email, "email", "", "管理員 email")
	f.StringVar(&in.FirstName, "first-name", "", "名")
	f.StringVar(&in.LastName, "last-name", "", "姓")
	f.StringVar(&in.Password, "password", "", "密碼；省略時互動輸入")
	for _, name := range []string{"email", "first-name", "last-name"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newSweepCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "寄出到期提醒與逾期通知一次",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup(*cfgPath)
			if err != nil {
				return err
			}
			db, err := newPgxPool(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("DB 連線失敗: %w", err)
			}
			defer db.Close()

			pool, dispatcher := notifier(cfg, log)
			// Stop 會等已排入的信寄完
			defer pool.Stop()

			loans := service.NewLoanService(db, dispatcher)
			res, err := runSweep(cmd.Context(), notify.NewSweeper(loans, dispatcher, cfg.ReminderDays, log))
			if err != nil {
				return fmt.Errorf("sweep: %w", err)
			}
			if res.Reminders == 0 && res.Overdue == 0 {
				log.Info().Msg("nothing to send")
				return nil
			}
			log.Info().Int("reminders", res.Reminders).Int("overdue", res.Overdue).Msg("notifications queued")
			return nil
		},
	}
}
