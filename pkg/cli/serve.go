package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpctrl "github.com/jeetu-ai/jeetu/pkg/controller/http"
	"github.com/jeetu-ai/jeetu/pkg/service/worker"
	"github.com/jeetu-ai/jeetu/pkg/usecase"
	"github.com/jeetu-ai/jeetu/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

func cmdServe() *cli.Command {
	var addr string
	var disableSweep bool
	var appCfg appConfig

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("JEETU_ADDR"),
			Destination: &addr,
		},
		&cli.BoolFlag{
			Name:        "disable-sweep",
			Usage:       "Do not run the shared task reminder sweep in this process",
			Sources:     cli.EnvVars("JEETU_DISABLE_SWEEP"),
			Destination: &disableSweep,
		},
	}
	flags = append(flags, appCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			a, err := appCfg.build(ctx)
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			var httpOpts []httpctrl.Options
			if appCfg.slack.IsWebhookConfigured() {
				slackUC := usecase.NewSlackUseCases(a.uc.Group, a.slack, a.policy.AssistantName)
				httpOpts = append(httpOpts, httpctrl.WithSlackWebhook(
					httpctrl.NewSlackWebhookHandler(slackUC),
					appCfg.slack.SigningSecret(),
				))
				logging.Default().Info("Slack webhook handler enabled")
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(a.uc, httpOpts...),
				ReadHeaderTimeout: 30 * time.Second,
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			var sweepWorker *worker.ReminderSweepWorker
			if !disableSweep {
				sweepWorker = worker.NewReminderSweepWorker(a.uc.GroupTask, a.sweepInterval)
				if err := sweepWorker.Start(ctx); err != nil {
					return goerr.Wrap(err, "failed to start reminder sweep worker")
				}
			}

			eg, ctx := errgroup.WithContext(ctx)

			eg.Go(func() error {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return goerr.Wrap(err, "failed to start server", goerr.V("addr", addr))
				}
				return nil
			})

			eg.Go(func() error {
				<-ctx.Done()
				logging.Default().Info("Shutting down")

				if sweepWorker != nil {
					sweepWorker.Stop()
				}

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			})

			return eg.Wait()
		},
	}
}
