package cli

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdSweep() *cli.Command {
	var appCfg appConfig

	return &cli.Command{
		Name:  "sweep",
		Usage: "Send the reminders of shared tasks that are due soon, once",
		Flags: appCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			a, err := appCfg.build(ctx)
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			started := time.Now()
			sent, err := a.uc.GroupTask.CheckAndSendReminders(ctx)
			if err != nil {
				return goerr.Wrap(err, "reminder sweep failed")
			}

			w := output(c)
			_, _ = labelColor.Fprint(w, "reminders sent: ")
			if sent > 0 {
				_, _ = okColor.Fprintln(w, sent)
			} else {
				_, _ = defaultColor.Fprintln(w, sent)
			}
			_, _ = labelColor.Fprintf(w, "took %s (window %s)\n",
				time.Since(started).Round(time.Millisecond), a.policy.ReminderWindow)
			return nil
		},
	}
}
