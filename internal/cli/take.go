package cli

import (
	"strconv"

	"takes-cli/internal/model"
	"takes-cli/internal/session"

	"github.com/spf13/cobra"
)

func newTakeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "take",
		Short: "Recording commands for a single take",
	}
	cmd.AddCommand(newTakeStatusCmd(app))
	cmd.AddCommand(newTakeStartCmd(app))
	cmd.AddCommand(newTakePauseCmd(app))
	cmd.AddCommand(newTakeResumeCmd(app))
	cmd.AddCommand(newTakeAddCmd(app))
	cmd.AddCommand(newTakeEditCmd(app))
	cmd.AddCommand(newTakeNoteCmd(app))
	cmd.AddCommand(newTakeDeleteEntryCmd(app))
	cmd.AddCommand(newTakeSectionCmd(app))
	cmd.AddCommand(newTakeFinishCmd(app))
	return cmd
}

func openSession(app *App, takeID string) (*session.Session, error) {
	s, err := storeFor(app)
	if err != nil {
		return nil, err
	}
	return session.Open(s, takeID)
}

// takeData is the envelope payload for every take command: the persisted
// record as it stands after the operation.
func takeData(sess *session.Session) map[string]any {
	return map[string]any{"data": sess.Take()}
}

func newTakeStatusCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <take-id>",
		Short: "Show a take's recording state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			tk := sess.Take()
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"id":        tk.ID,
				"name":      tk.Name,
				"status":    tk.Status,
				"section":   tk.CurrentSection,
				"entries":   len(tk.Entries),
				"elapsedMs": sess.Elapsed().Milliseconds(),
			}})
		},
	}
	return cmd
}

func newTakeStartCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start <take-id>",
		Short: "Start recording (idle takes only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := sess.Start(); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, takeData(sess))
		},
	}
	return cmd
}

func newTakePauseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pause <take-id>",
		Short: "Pause the running timer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := sess.Pause(); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, takeData(sess))
		},
	}
	return cmd
}

func newTakeResumeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resume <take-id>",
		Short: "Resume a paused take",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := sess.Resume(); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, takeData(sess))
		},
	}
	return cmd
}

func newTakeAddCmd(app *App) *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "add <take-id> <plus|minus|wave>",
		Short: "Append an entry at the current elapsed time",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, ok := model.ParseEntryValue(args[1])
			if !ok {
				return writeErr(cmd, errBadArg("value", args[1], "plus|minus|wave"))
			}
			sess, err := openSession(app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			e, err := sess.AddEntry(value)
			if err != nil {
				return writeErr(cmd, err)
			}
			if note != "" {
				if err := sess.SetEntryNote(len(sess.Take().Entries)-1, note); err != nil {
					return writeErr(cmd, err)
				}
				e.Note = note
			}
			return writeOut(cmd, app, map[string]any{"data": e})
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "Attach a note to the new entry")
	return cmd
}

func entryIndexArg(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, errBadArg("entry index", s, "a number")
	}
	return i, nil
}

func newTakeEditCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <take-id> <entry-index> <plus|minus|wave>",
		Short: "Overwrite an entry's value",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := entryIndexArg(args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			value, ok := model.ParseEntryValue(args[2])
			if !ok {
				return writeErr(cmd, errBadArg("value", args[2], "plus|minus|wave"))
			}
			sess, err := openSession(app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := sess.SetEntryValue(index, value); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": sess.Take().Entries[index]})
		},
	}
	return cmd
}

func newTakeNoteCmd(app *App) *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "note <take-id> <entry-index>",
		Short: "Set (or clear) an entry's note",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := entryIndexArg(args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			sess, err := openSession(app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := sess.SetEntryNote(index, note); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": sess.Take().Entries[index]})
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "Note text (empty clears)")
	return cmd
}

func newTakeDeleteEntryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete-entry <take-id> <entry-index>",
		Short: "Delete an entry by position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := entryIndexArg(args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			sess, err := openSession(app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := sess.DeleteEntry(index); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, takeData(sess))
		},
	}
	return cmd
}

func newTakeSectionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "section <take-id>",
		Short: "Advance to the next section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := sess.NextSection(); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, takeData(sess))
		},
	}
	return cmd
}

func newTakeFinishCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "finish <take-id>",
		Short: "Fold any running timer into the total and leave the take paused",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := sess.Finalize(); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, takeData(sess))
		},
	}
	return cmd
}
