package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/budgetdash-dev/budgetdash/internal/importer"
	"github.com/budgetdash-dev/budgetdash/internal/session"
)

func newImportCommand() *cobra.Command {
	var dir string
	var format string

	cmd := &cobra.Command{
		Use:   "import [file...]",
		Short: "Import bank export files into the dataset",
		Long: `Import parses OFX/OFC bank exports and merges their transactions
into the dataset. With no arguments the import/ drop folder is scanned
and processed files are moved to import/processed/.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runImport(cmd, absDir, args, format)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "budget directory")
	cmd.Flags().StringVar(&format, "format", "", "force a parser format (ofx, ofc)")

	return cmd
}

func runImport(cmd *cobra.Command, dir string, args []string, format string) error {
	svc, err := session.Open(dir)
	if err != nil {
		return err
	}

	var files []importer.File
	scanned := len(args) == 0
	if scanned {
		files, err = importer.Scan(dir, svc.Registry())
		if err != nil {
			return fmt.Errorf("scanning import folder: %w", err)
		}
		if len(files) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing to import.")
			return nil
		}
	} else {
		for _, arg := range args {
			data, err := os.ReadFile(arg)
			if err != nil {
				return fmt.Errorf("reading %s: %w", arg, err)
			}
			files = append(files, importer.File{
				Name:   filepath.Base(arg),
				Data:   data,
				Format: format,
			})
		}
	}

	res, err := svc.Ingest(files)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, f := range res.Files {
		fmt.Fprintf(out, "%s (%s): %d added, %d refreshed, %d kept\n",
			f.Name, f.Format, f.Stats.Added, f.Stats.Refreshed, f.Stats.Kept)
		for _, rej := range f.Rejected {
			fmt.Fprintf(out, "  rejected: %v\n", rej)
		}
	}
	for _, perr := range res.ParseErrors {
		fmt.Fprintf(out, "failed: %v\n", perr)
	}

	if len(res.Files) > 0 {
		hash, err := svc.Save()
		if err != nil {
			return err
		}
		if hash != "" {
			fmt.Fprintf(out, "Committed %s\n", hash)
		}
	}

	// Only drop-folder files move to processed/; explicit paths stay put.
	if scanned {
		for _, f := range res.Files {
			if err := importer.MarkProcessed(dir, f.Name); err != nil {
				return fmt.Errorf("archiving %s: %w", f.Name, err)
			}
		}
	}

	fmt.Fprintf(out, "%d transactions in dataset\n", svc.Len())
	return nil
}
