package cli

import (
	"os"
	"time"

	"takes-cli/internal/export"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export reports, archives and backups",
	}
	cmd.AddCommand(newExportReportCmd(app))
	cmd.AddCommand(newExportArchiveCmd(app))
	cmd.AddCommand(newExportBackupCmd(app))
	return cmd
}

// writeFile is the shared tail of every export command: render into the
// target path, then report it in the JSON envelope.
func writeFile(cmd *cobra.Command, app *App, path string, render func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return writeErr(cmd, err)
	}
	if err := render(f); err != nil {
		f.Close()
		return writeErr(cmd, err)
	}
	if err := f.Close(); err != nil {
		return writeErr(cmd, err)
	}
	return writeOut(cmd, app, map[string]any{"data": map[string]any{"file": path}})
}

func newExportReportCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "report <take-id>",
		Short: "Render a take as a PDF report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := managerFor(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			tk, err := m.Get(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if out == "" {
				out = export.SafeName(tk.Name) + ".pdf"
			}
			return writeFile(cmd, app, out, func(f *os.File) error {
				return export.WriteTakeReport(f, tk)
			})
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "Output file (default: <take-name>.pdf)")
	return cmd
}

func newExportArchiveCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "archive <folder-id>",
		Short: "Package a folder as a zip of PDF reports",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := managerFor(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			folder, err := m.Get(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			items, err := m.All()
			if err != nil {
				return writeErr(cmd, err)
			}
			if out == "" {
				out = export.SafeName(folder.Name) + ".zip"
			}
			return writeFile(cmd, app, out, func(f *os.File) error {
				return export.WriteFolderArchive(f, folder, items)
			})
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "Output file (default: <folder-name>.zip)")
	return cmd
}

func newExportBackupCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Dump the full collection as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := managerFor(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			items, err := m.All()
			if err != nil {
				return writeErr(cmd, err)
			}
			if out == "" {
				out = export.BackupFileName(time.Now())
			}
			return writeFile(cmd, app, out, func(f *os.File) error {
				return export.WriteBackup(f, items)
			})
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "Output file (default: takes-backup-<date>.json)")
	return cmd
}
