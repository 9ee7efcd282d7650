package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/urfave/cli/v2"
)

const (
	serverKey     = "server"
	programIDKey  = "program_id"
	privateKeyKey = "private_key"
)

var (
	serverFlag = cli.StringFlag{
		Name:  "server",
		Usage: "vaultd daemon HTTP address",
		Value: "http://localhost:7070",
	}

	programIDFlag = cli.StringFlag{
		Name:  "program_id",
		Usage: "base58 id of the vault program, fetched from the daemon if empty",
		Value: "",
	}
)

var configCmd = cli.Command{
	Name:   "config",
	Usage:  "Print local configuration of the vault CLI",
	Action: configAction,
	Subcommands: []*cli.Command{
		{
			Name:   "set",
			Usage:  "set a <key> <value> in the local state",
			Action: configSetAction,
		},
		{
			Name:   "init",
			Usage:  "initialize the local state with flags",
			Action: configInitAction,
			Flags: []cli.Flag{
				&serverFlag,
				&programIDFlag,
			},
		},
	},
}

func configAction(ctx *cli.Context) error {
	state, err := getState()
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(state))
	for key := range state {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := state[key]
		if key == privateKeyKey {
			value = "********"
		}
		fmt.Println(key + ": " + value)
	}
	return nil
}

func configInitAction(ctx *cli.Context) error {
	return setState(map[string]string{
		serverKey:    ctx.String("server"),
		programIDKey: ctx.String("program_id"),
	})
}

func configSetAction(ctx *cli.Context) error {
	if ctx.NArg() < 2 {
		return errors.New("key and value are missing")
	}

	key := ctx.Args().Get(0)
	value := ctx.Args().Get(1)

	if err := setState(map[string]string{key: value}); err != nil {
		return err
	}

	fmt.Printf("%s %s has been set\n", key, value)
	return nil
}
