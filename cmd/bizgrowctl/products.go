package main

import (
	"bufio"
	"fmt"
	"os"

	catalogapp "github.com/bizgrow/backend/internal/application/catalog"
	"github.com/bizgrow/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func productsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Import or export a store catalog as CSV",
	}
	cmd.AddCommand(importProductsCmd(e), exportProductsCmd(e))
	return cmd
}

func importProductsCmd(e *env) *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "import <store-id> <file.csv>",
		Short: "Import products from a CSV file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			storeID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid store id %q: %w", args[0], err)
			}
			conflict := catalogapp.ConflictMode(mode)
			if !conflict.IsValid() {
				return fmt.Errorf("invalid conflict mode %q", mode)
			}

			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()

			svc := catalogapp.NewImportService(persistence.NewGormProductRepository(e.db.DB), nil, e.log)
			result, err := svc.ImportProducts(cmd.Context(), storeID, f, conflict)
			if err != nil {
				return err
			}

			e.log.Info("Import finished",
				zap.Int("rows", result.TotalRows),
				zap.Int("imported", result.Imported),
				zap.Int("updated", result.Updated),
				zap.Int("skipped", result.Skipped),
				zap.Int("errors", len(result.Errors)))
			for _, rowErr := range result.Errors {
				e.log.Warn("Row rejected", zap.Int("row", rowErr.Row), zap.String("message", rowErr.Message))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "conflict-mode", string(catalogapp.ConflictModeSkip), "skip, update or fail on existing names")
	return cmd
}

func exportProductsCmd(e *env) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export <store-id>",
		Short: "Export products to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			storeID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid store id %q: %w", args[0], err)
			}

			out := os.Stdout
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			w := bufio.NewWriter(out)

			svc := catalogapp.NewImportService(persistence.NewGormProductRepository(e.db.DB), nil, e.log)
			if err := svc.ExportProducts(cmd.Context(), storeID, w); err != nil {
				return err
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file, - for stdout")
	return cmd
}
