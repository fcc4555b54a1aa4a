package main

import (
	"fmt"
	"os"

	"github.com/NamigGuliyef/avian-chat-sub000/internal/utility"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newEnsureIndexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ensure-indexes",
		Short: "Create missing collections and model indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := open(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.backend.EnsureIndexes(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "indexes ensured")
			return nil
		},
	}
}

type importOptions struct {
	sheetID   string
	as        string
	worksheet string
}

func newImportCmd() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import [file.xlsx]",
		Short: "Append the rows of an xlsx workbook to a sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sheetID, err := utility.String2ObjectID("sheet", opts.sheetID)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open workbook: %w", err)
			}
			defer f.Close()

			s, err := open(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			principal, err := s.principalOf(ctx, opts.as)
			if err != nil {
				return err
			}
			res, err := s.services.Imports.Import(ctx, principal, sheetID, f, opts.worksheet)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "batch %s: inserted %d rows (%d-%d)\n", res.BatchID, res.Inserted, res.FirstRow, res.LastRow)
			if len(res.UnknownHeaders) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "ignored headers: %v\n", res.UnknownHeaders)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.sheetID, "sheet", "", "Target sheet id (required)")
	cmd.Flags().StringVar(&opts.as, "as", "", "Id of the supervisor or admin performing the import (required)")
	cmd.Flags().StringVar(&opts.worksheet, "worksheet", "", "Worksheet name (default: first worksheet)")
	_ = cmd.MarkFlagRequired("sheet")
	_ = cmd.MarkFlagRequired("as")
	return cmd
}

type exportOptions struct {
	as        string
	companyID string
	query     string
	output    string
}

func newExportReportCmd() *cobra.Command {
	var opts exportOptions

	cmd := &cobra.Command{
		Use:   "export-report",
		Short: "Write the report visible to a user as an xlsx workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			companyID := primitive.NilObjectID
			if opts.companyID != "" {
				id, err := utility.String2ObjectID("company", opts.companyID)
				if err != nil {
					return err
				}
				companyID = id
			}

			s, err := open(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			principal, err := s.principalOf(ctx, opts.as)
			if err != nil {
				return err
			}

			out, err := os.Create(opts.output)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			n, err := s.services.Reports.Export(ctx, principal, companyID, opts.query, out)
			if closeErr := out.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				_ = os.Remove(opts.output)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d records to %s\n", n, opts.output)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.as, "as", "", "Id of the user the report is built for (required)")
	cmd.Flags().StringVar(&opts.companyID, "company", "", "Limit an admin report to one company")
	cmd.Flags().StringVar(&opts.query, "query", "", `Report query JSON, e.g. {"sort":{"column":"amount","direction":"desc"}}`)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "report.xlsx", "Output file")
	_ = cmd.MarkFlagRequired("as")
	return cmd
}
