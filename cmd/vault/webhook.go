package main

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/thanhpk/randstr"
	"github.com/urfave/cli/v2"
)

var webhook = cli.Command{
	Name:  "webhook",
	Usage: "manage the webhooks notified about audit events",
	Subcommands: []*cli.Command{
		{
			Name:  "add",
			Usage: "add a webhook registered for some event",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "endpoint",
					Usage:    "the endpoint where to notify the webhook",
					Required: true,
				},
				&cli.StringFlag{
					Name:  "secret",
					Usage: "the eventual secret to authenticate requests",
				},
				&cli.BoolFlag{
					Name:  "gen_secret",
					Usage: "generate a random secret",
				},
				&cli.StringFlag{
					Name:  "event",
					Usage: "the event type for which the webhook gets notified, * for any",
					Value: "*",
				},
			},
			Action: addWebhookAction,
		},
		{
			Name:  "list",
			Usage: "list the webhooks, optionally only those of an event type",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "event",
					Usage: "the event type to filter webhooks for",
				},
			},
			Action: listWebhooksAction,
		},
		{
			Name:      "remove",
			Usage:     "remove the webhook with the given <id>",
			ArgsUsage: "<id>",
			Action:    removeWebhookAction,
		},
	},
}

func addWebhookAction(ctx *cli.Context) error {
	secret := ctx.String("secret")
	if ctx.Bool("gen_secret") {
		if secret != "" {
			return errors.New("--secret and --gen_secret are mutually exclusive")
		}
		secret = randstr.Hex(32)
	}

	resp, err := post("/v1/webhooks", map[string]string{
		"event":    ctx.String("event"),
		"endpoint": ctx.String("endpoint"),
		"secret":   secret,
	})
	if err != nil {
		return err
	}

	printRespJSON(resp)
	if ctx.Bool("gen_secret") {
		fmt.Println("secret:", secret)
	}
	return nil
}

func listWebhooksAction(ctx *cli.Context) error {
	path := "/v1/webhooks"
	if event := ctx.String("event"); event != "" {
		path += "?" + url.Values{"event": []string{event}}.Encode()
	}

	resp, err := get(path)
	if err != nil {
		return err
	}
	printRespJSON(resp)
	return nil
}

func removeWebhookAction(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return &invalidUsageError{ctx, "remove"}
	}

	if _, err := del("/v1/webhooks/" + url.PathEscape(ctx.Args().First())); err != nil {
		return err
	}
	fmt.Println("webhook removed")
	return nil
}
