package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/yourusername/indcric-api/internal/domain/entity"
	pgRepo "github.com/yourusername/indcric-api/internal/repository/postgres"
	"github.com/yourusername/indcric-api/internal/service"
	"github.com/yourusername/indcric-api/pkg/database"
)

func newExportPaymentsCmd(load configLoader) *cobra.Command {
	var status, out string

	cmd := &cobra.Command{
		Use:   "export-payments",
		Short: "Export payment requests to an XLSX file",
		RunE: func(cmd *cobra.Command, args []string) error {
			paymentStatus := entity.PaymentStatus(status)
			if status != "" && !paymentStatus.Valid() {
				return fmt.Errorf("unknown payment status %q", status)
			}

			cfg, err := load()
			if err != nil {
				return err
			}
			db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
			if err != nil {
				return err
			}
			payments := service.NewPaymentService(pgRepo.NewPaymentRepo(db), pgRepo.NewUserRepo(db), nil, nil, cfg.Rewards.Amount)

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			if err := payments.ExportXLSX(cmd.Context(), paymentStatus, f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			log.Info().Str("file", out).Str("status", status).Msg("Выгрузка выплат сохранена")
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "filter by status: pending, completed, failed")
	cmd.Flags().StringVar(&out, "out", "payments.xlsx", "output file")
	return cmd
}
