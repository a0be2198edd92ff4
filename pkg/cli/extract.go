package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jeetu-ai/jeetu/pkg/domain/model"
	"github.com/jeetu-ai/jeetu/pkg/domain/types"
	"github.com/jeetu-ai/jeetu/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdExtract() *cli.Command {
	var userID string
	var memoID string
	var memoTitle string
	var origin string
	var appCfg appConfig

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "user",
			Aliases:     []string{"u"},
			Usage:       "User ID that owns the extracted actions",
			Required:    true,
			Sources:     cli.EnvVars("JEETU_USER"),
			Destination: &userID,
		},
		&cli.StringFlag{
			Name:        "memo-id",
			Usage:       "Memo the message belongs to",
			Destination: &memoID,
		},
		&cli.StringFlag{
			Name:        "memo-title",
			Usage:       "Title of the memo the message belongs to",
			Destination: &memoTitle,
		},
		&cli.StringFlag{
			Name:        "origin",
			Usage:       "How the message was captured (chat, voice, manual)",
			Value:       "chat",
			Destination: &origin,
		},
	}
	flags = append(flags, appCfg.Flags()...)

	return &cli.Command{
		Name:      "extract",
		Aliases:   []string{"x"},
		Usage:     "Extract action items from a message and schedule them",
		ArgsUsage: "MESSAGE",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			message := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if message == "" {
				return goerr.New("message is required")
			}

			o, err := types.ParseOrigin(origin)
			if err != nil {
				return goerr.Wrap(err, "invalid origin", goerr.V("origin", origin))
			}

			a, err := appCfg.build(ctx)
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			result, err := a.uc.Extractor.ProcessMessage(ctx, userID, message, &usecase.MessageContext{
				MemoID:    memoID,
				MemoTitle: memoTitle,
				Origin:    o,
			})
			if err != nil {
				return goerr.Wrap(err, "failed to process message")
			}

			printExtraction(output(c), result)
			return nil
		},
	}
}

var (
	labelColor   = color.New(color.FgHiBlack)
	okColor      = color.New(color.FgGreen, color.Bold)
	warnColor    = color.New(color.FgYellow)
	failColor    = color.New(color.FgRed, color.Bold)
	kindColor    = color.New(color.FgCyan)
	titleColor   = color.New(color.FgHiWhite, color.Bold)
	highColor    = color.New(color.FgRed)
	defaultColor = color.New(color.FgWhite)
)

func output(c *cli.Command) io.Writer {
	if w := c.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func printExtraction(w io.Writer, result *model.ExtractionResult) {
	status := okColor
	switch result.Status {
	case model.ExtractionStatusNoAction:
		status = labelColor
	case model.ExtractionStatusUnavailable:
		status = warnColor
	case model.ExtractionStatusFailed:
		status = failColor
	}
	_, _ = labelColor.Fprint(w, "status: ")
	_, _ = status.Fprintln(w, string(result.Status))

	for _, item := range result.Items {
		printActionItem(w, item)
	}

	for _, warning := range result.Warnings {
		_, _ = warnColor.Fprintf(w, "  ! %s\n", warning)
	}
}

func printActionItem(w io.Writer, item *model.ActionItem) {
	_, _ = okColor.Fprint(w, "  ✔ ")
	_, _ = kindColor.Fprintf(w, "[%s] ", item.Kind)
	_, _ = titleColor.Fprint(w, item.Title)

	due := "no due time"
	if item.DueAt != nil {
		due = item.DueAt.Local().Format(time.DateTime)
	}
	_, _ = labelColor.Fprintf(w, "  due %s  ", due)

	priority := defaultColor
	if item.Priority == types.PriorityHigh {
		priority = highColor
	}
	_, _ = priority.Fprint(w, item.Priority)
	_, _ = labelColor.Fprintf(w, "  %s\n", item.ID)

	if item.Description != "" {
		_, _ = fmt.Fprintf(w, "      %s\n", item.Description)
	}
}
