package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newContextCmd(a *app) *cobra.Command {
	var forget bool
	cmd := &cobra.Command{
		Use:   "context",
		Short: "Show or clear the remembered deck and user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if forget {
				if err := a.store.Clear(); err != nil {
					return err
				}
				fmt.Fprintln(a.stdout, "context cleared")
				return nil
			}
			ctx, err := a.store.Load()
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, ctx.String())
			if !ctx.IsEmpty() {
				fmt.Fprintf(a.stdout, "updated %s\n", ctx.UpdatedAt.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&forget, "clear", false, "forget the remembered deck")
	return cmd
}
