package main

import (
	"bufio"
	"os"

	"github.com/spf13/cobra"

	"github.com/jeffrom/journald/internal"
	"github.com/jeffrom/journald/journal"
)

var priorityFlag int

func init() {
	pflags := WriteCmd.PersistentFlags()
	pflags.IntVarP(&priorityFlag, "priority", "p", int(journal.PriInfo),
		"syslog `PRIORITY` for submitted messages (0-7)")
}

var WriteCmd = &cobra.Command{
	Use:     "write [NAME=VALUE ...]",
	Aliases: []string{"w"},
	Short:   "Submit entries to the journal",
	Long: `Submits one entry built from NAME=VALUE arguments. With no arguments,
each line read from stdin is submitted as a MESSAGE entry.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		internal.Debugf(tmpConfig, "%+v", tmpConfig)
		return doWrite(args)
	},
}

func doWrite(args []string) error {
	w, err := journal.NewWriter(tmpConfig)
	if err != nil {
		return err
	}
	defer w.Close()

	if len(args) > 0 {
		return w.SubmitFields(args...)
	}

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Split(bufio.ScanLines)
	for scanner.Scan() {
		if err := w.Print(journal.Priority(priorityFlag), scanner.Text()); err != nil {
			return err
		}
	}
	return scanner.Err()
}
