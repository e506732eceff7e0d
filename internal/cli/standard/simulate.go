package standard

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ccheshirecat/tapdeck/internal/eventbus"
)

func newSimulateCmd() *cobra.Command {
	var (
		sequence []string
		count    int
		pattern  string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Emit a scripted sequence of events and print the debug log",
		Long: `Drive the event bus without a terminal UI. Either pass an explicit
--sequence of kinds, or a --count with a --pattern (alternating, click, move).
The debug log is printed newest first, followed by the counter line.`,
		Example: `  tapdeck simulate --sequence click,move,click
  tapdeck simulate --count 150 --pattern alternating --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sc, err := newScript(sequence, count, pattern)
			if err != nil {
				return err
			}

			rt, err := setup(cmd, "simulate")
			if err != nil {
				return err
			}
			defer rt.Close()

			bus := rt.app.Bus()
			for i := 0; i < sc.n; i++ {
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				bus.Emit(sc.kind(i))
			}
			rt.logger.Info("simulation finished", "emitted", sc.n)

			out := cmd.OutOrStdout()
			if asJSON {
				rendered, err := rt.app.History().Render()
				if err != nil {
					return err
				}
				fmt.Fprintln(out, rendered)
			} else {
				for _, line := range rt.app.History().Lines() {
					fmt.Fprintln(out, line)
				}
			}
			fmt.Fprintln(out, rt.app.Counter().Label())
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&sequence, "sequence", nil, "comma-separated event kinds to emit in order")
	cmd.Flags().IntVar(&count, "count", 0, "number of events to emit when --sequence is not set")
	cmd.Flags().StringVar(&pattern, "pattern", "alternating", "kinds used with --count: alternating, click or move")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the debug log as a JSON array")
	cmd.MarkFlagsMutuallyExclusive("sequence", "count")
	return cmd
}

// script is the sequence of kinds to emit. kind is evaluated lazily so that
// large counts cost no memory.
type script struct {
	n    int
	kind func(i int) eventbus.Kind
}

// newScript resolves the flags to a script.
func newScript(sequence []string, count int, pattern string) (script, error) {
	if len(sequence) > 0 {
		kinds := make([]eventbus.Kind, 0, len(sequence))
		for _, s := range sequence {
			k, err := eventbus.ParseKind(s)
			if err != nil {
				return script{}, err
			}
			kinds = append(kinds, k)
		}
		return script{n: len(kinds), kind: func(i int) eventbus.Kind { return kinds[i] }}, nil
	}

	if count < 0 {
		return script{}, fmt.Errorf("count must not be negative: %d", count)
	}

	switch p := strings.ToLower(strings.TrimSpace(pattern)); p {
	case "alternating":
		return script{n: count, kind: func(i int) eventbus.Kind {
			if i%2 == 0 {
				return eventbus.KindClick
			}
			return eventbus.KindMove
		}}, nil
	default:
		k, err := eventbus.ParseKind(p)
		if err != nil {
			return script{}, fmt.Errorf("unknown pattern %q", pattern)
		}
		return script{n: count, kind: func(int) eventbus.Kind { return k }}, nil
	}
}
