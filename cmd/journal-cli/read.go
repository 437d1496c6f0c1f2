package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeffrom/journald/internal"
	"github.com/jeffrom/journald/journal"
	"github.com/jeffrom/journald/protocol"
)

var (
	limitFlag   int
	reverseFlag bool
	followFlag  bool
	exportFlag  bool
)

func init() {
	pflags := ReadCmd.PersistentFlags()
	pflags.IntVarP(&limitFlag, "limit", "n", 0,
		"stop after `COUNT` entries (0 means no limit)")
	pflags.BoolVarP(&reverseFlag, "reverse", "r", false,
		"read backwards from the end of the journal")
	pflags.BoolVarP(&followFlag, "follow", "f", false,
		"keep waiting for new entries at the end of the journal")
	pflags.BoolVar(&exportFlag, "export", false,
		"print full entries in the wire format instead of messages")
}

var ReadCmd = &cobra.Command{
	Use:     "read [MATCH ... [+ MATCH ...]]",
	Aliases: []string{"r"},
	Short:   "Read entries from the journal",
	Long: `Reads stored entries in order. FIELD=VALUE arguments restrict the
output to matching entries; consecutive matches must all be present, and a
literal + between groups separates alternatives.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		internal.Debugf(tmpConfig, "%+v", tmpConfig)
		return doRead(args)
	},
}

func buildMatch(args []string) (*journal.MatchExpr, error) {
	if len(args) == 0 {
		return nil, nil
	}
	expr := journal.NewMatch()
	for _, arg := range args {
		if arg == "+" {
			expr.Or()
			continue
		}
		i := -1
		for j := 0; j < len(arg); j++ {
			if arg[j] == '=' {
				i = j
				break
			}
		}
		if i < 0 {
			return nil, fmt.Errorf("match %q missing '='", arg)
		}
		expr.AndString(arg[:i], arg[i+1:])
	}
	return expr, expr.Err()
}

func doRead(args []string) error {
	r, err := journal.Open(tmpConfig)
	if err != nil {
		return err
	}
	defer r.Close()

	expr, err := buildMatch(args)
	if err != nil {
		return err
	}
	if expr != nil {
		if err := r.AddMatch(expr); err != nil {
			return err
		}
	}

	if reverseFlag {
		if err := r.SeekTail(); err != nil {
			return err
		}
		return drain(r.PreviousEntry)
	}

	if err := r.SeekHead(); err != nil {
		return err
	}
	if !followFlag {
		return drain(r.NextEntry)
	}

	s := journal.NewEntryScanner(r).Follow(-1)
	read := 0
	for s.Scan() {
		printEntry(s.Entry())
		read++
		if limitFlag > 0 && read >= limitFlag {
			return nil
		}
	}
	return s.Err()
}

func drain(step func() (*protocol.Entry, error)) error {
	read := 0
	for {
		e, err := step()
		if err != nil {
			return err
		}
		if e == nil {
			return nil
		}
		printEntry(e)
		read++
		if limitFlag > 0 && read >= limitFlag {
			return nil
		}
	}
}

func printEntry(e *protocol.Entry) {
	if exportFlag {
		if _, err := e.WriteTo(os.Stdout); err != nil {
			internal.IgnoreError(err)
		}
		fmt.Println()
		return
	}

	var stamp string
	if us, ok := e.RealtimeTimestamp(); ok {
		stamp = time.UnixMicro(us).Format("2006-01-02 15:04:05.000000")
	}
	msg, _ := e.Message()
	fmt.Printf("%s %s\n", stamp, msg)
}
