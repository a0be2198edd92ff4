package cli

import (
	"context"

	"github.com/jeetu-ai/jeetu/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// ErrValidationFailed is returned when the store holds inconsistent links
var ErrValidationFailed = goerr.New("store consistency check failed")

func cmdValidate() *cli.Command {
	var appCfg appConfig
	var policyOnly bool

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "policy-only",
			Usage:       "Validate the policy file without opening the store",
			Destination: &policyOnly,
		},
	}
	flags = append(flags, appCfg.Flags()...)

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate the policy file and check shared task links in the store",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			policyCfg, err := appCfg.policy.Configure()
			if err != nil {
				return goerr.Wrap(err, "policy validation failed")
			}
			policy, err := policyCfg.Policy()
			if err != nil {
				return goerr.Wrap(err, "policy validation failed")
			}
			interval, err := policyCfg.SweepInterval()
			if err != nil {
				return goerr.Wrap(err, "policy validation failed")
			}

			logger.Info("Policy validation passed",
				"assistant_name", policy.AssistantName,
				"keywords", len(policy.Keywords),
				"sweep_interval", interval.String(),
			)

			if policyOnly {
				return nil
			}

			a, err := appCfg.build(ctx)
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			result, err := a.uc.ValidateStore(ctx)
			if err != nil {
				return goerr.Wrap(err, "store consistency check failed")
			}

			if result.HasIssues() {
				for _, issue := range result.Issues {
					logger.Warn("Store consistency issue found",
						"session_id", issue.SessionID,
						"shared_task_id", issue.SharedTaskID,
						"user_id", issue.UserID,
						"message", issue.Message,
						"expected", issue.Expected,
						"actual", issue.Actual,
					)
				}
				return goerr.Wrap(ErrValidationFailed, "issues found", goerr.V("count", len(result.Issues)))
			}

			logger.Info("Store consistency check passed")
			return nil
		},
	}
}
