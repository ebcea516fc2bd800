package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"debugcon/kernel/kfmt"
)

const printExamples = `  # Print a formatted line:
  debugcon print 'irq %d at 0x%x\n' 14 0x1f0

  # Negative numbers follow "--":
  debugcon print --backend text -- '%d' -1`

type PrintArgs struct {
	ConsoleArgs

	Template string
	Values   []string
}

func NewPrintArgs(rootArgs *RootArgs) *PrintArgs {
	return &PrintArgs{
		ConsoleArgs: ConsoleArgs{RootArgs: rootArgs},
	}
}

func NewPrintCmd(pa *PrintArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "print <template> [values...]",
		Short: "Render a template with the console formatter",
		Long: `Render a template with the console formatter. Supported directives are
%c, %s, %d, %i, %x and %X. Values that parse as integers (including 0x
and 0b prefixes) are passed as integers, everything else as text. The
escapes \n, \t, \r and \b in the template are interpreted.`,
		Example: printExamples,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pa.Template = args[0]
			pa.Values = args[1:]

			return printTemplate(cmd, pa)
		},
	}
	pa.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

func printTemplate(cmd *cobra.Command, pa *PrintArgs) error {
	cfg, err := pa.loadConfig()
	if err != nil {
		return err
	}

	s, err := openSession(cmd, cfg)
	if err != nil {
		return err
	}

	var printErr error
	if n, kerr := s.console.Printf(unescape(pa.Template), parseValues(pa.Values)...); kerr != nil {
		printErr = fmt.Errorf("print: %w at offset %d", kerr, n)
	}

	return s.close(cmd, printErr)
}

// parseValues converts command line values to formatter arguments.
func parseValues(values []string) []kfmt.Arg {
	args := make([]kfmt.Arg, 0, len(values))
	for _, v := range values {
		if n, err := strconv.ParseInt(v, 0, 64); err == nil {
			args = append(args, kfmt.Int(n))
			continue
		}

		args = append(args, kfmt.Text(v))
	}

	return args
}

// unescape interprets the backslash escapes that shells do not expand inside
// single quotes. Unknown escapes are kept verbatim.
func unescape(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			out = append(out, s[i])
			continue
		}

		i++
		switch s[i] {
		case 'n':
			out = append(out, '\n')
		case 't':
			out = append(out, '\t')
		case 'r':
			out = append(out, '\r')
		case 'b':
			out = append(out, '\b')
		case '\\':
			out = append(out, '\\')
		default:
			out = append(out, '\\', s[i])
		}
	}

	return string(out)
}
