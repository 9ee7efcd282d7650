package main

import (
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tdex-network/tdex-vault/internal/core/application/auth"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
	"github.com/tdex-network/tdex-vault/pkg/mathutil"
	"github.com/urfave/cli/v2"
)

var (
	amountFlag = cli.StringFlag{
		Name:     "amount",
		Usage:    "the amount in SOL",
		Required: true,
	}
	vaultFlag = cli.StringFlag{
		Name:  "vault",
		Usage: "the vault address, defaults to the one owned by the local key pair",
	}
)

var info = cli.Command{
	Name:   "info",
	Usage:  "get info about the daemon",
	Action: infoAction,
}

var airdrop = cli.Command{
	Name:  "airdrop",
	Usage: "mint some SOL into an account through the daemon faucet",
	Flags: []cli.Flag{
		&amountFlag,
		&cli.StringFlag{
			Name:  "to",
			Usage: "the receiving address, defaults to the local key pair",
		},
	},
	Action: airdropAction,
}

var initVault = cli.Command{
	Name:   "init",
	Usage:  "create the vault owned by the local key pair",
	Action: initVaultAction,
}

var deposit = cli.Command{
	Name:   "deposit",
	Usage:  "move SOL from the local key pair into a vault",
	Flags:  []cli.Flag{&amountFlag, &vaultFlag},
	Action: depositAction,
}

var withdraw = cli.Command{
	Name:   "withdraw",
	Usage:  "move SOL from the owned vault back to the local key pair",
	Flags:  []cli.Flag{&amountFlag, &vaultFlag},
	Action: withdrawAction,
}

var lock = cli.Command{
	Name:   "lock",
	Usage:  "prevent any withdrawal from the owned vault",
	Flags:  []cli.Flag{&vaultFlag},
	Action: lockAction,
}

var unlock = cli.Command{
	Name:   "unlock",
	Usage:  "allow withdrawals from the owned vault",
	Flags:  []cli.Flag{&vaultFlag},
	Action: unlockAction,
}

var balance = cli.Command{
	Name:  "balance",
	Usage: "get the balance of a vault or of an account",
	Flags: []cli.Flag{
		&vaultFlag,
		&cli.StringFlag{
			Name:  "account",
			Usage: "show the given account instead of a vault",
		},
	},
	Action: balanceAction,
}

var events = cli.Command{
	Name:  "events",
	Usage: "list the audit events, optionally only those of a vault",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "vault",
			Usage: "the vault to filter events for",
		},
		&cli.IntFlag{
			Name:  "page",
			Usage: "the page number, starting from 1",
		},
		&cli.IntFlag{
			Name:  "page_size",
			Usage: "the number of events per page",
		},
	},
	Action: eventsAction,
}

func infoAction(ctx *cli.Context) error {
	resp, err := get("/v1/info")
	if err != nil {
		return err
	}
	printRespJSON(resp)
	return nil
}

func airdropAction(ctx *cli.Context) error {
	amount, err := parseAmount(ctx.String("amount"))
	if err != nil {
		return err
	}

	var to domain.Address
	if str := ctx.String("to"); str != "" {
		if to, err = domain.ParseAddress(str); err != nil {
			return err
		}
	} else {
		key, err := getKeyPair()
		if err != nil {
			return err
		}
		to = key.Address()
	}

	resp, err := post("/v1/faucet", map[string]interface{}{
		"to":     to.String(),
		"amount": amount,
	})
	if err != nil {
		return err
	}
	printRespJSON(resp)
	return nil
}

func initVaultAction(ctx *cli.Context) error {
	key, err := getKeyPair()
	if err != nil {
		return err
	}
	authority := key.Address()

	body, err := signRequest(key, auth.InstructionInitialize, authority, 0)
	if err != nil {
		return err
	}
	body["authority"] = authority.String()

	resp, err := post("/v1/vault/initialize", body)
	if err != nil {
		return err
	}
	printRespJSON(resp)
	return nil
}

func depositAction(ctx *cli.Context) error {
	return transfer(ctx, auth.InstructionDeposit, "/v1/vault/deposit")
}

func withdrawAction(ctx *cli.Context) error {
	return transfer(ctx, auth.InstructionWithdraw, "/v1/vault/withdraw")
}

func lockAction(ctx *cli.Context) error {
	return setLock(ctx, true)
}

func unlockAction(ctx *cli.Context) error {
	return setLock(ctx, false)
}

func balanceAction(ctx *cli.Context) error {
	if account := ctx.String("account"); account != "" {
		addr, err := domain.ParseAddress(account)
		if err != nil {
			return err
		}
		resp, err := get("/v1/accounts/" + addr.String())
		if err != nil {
			return err
		}
		printRespJSON(resp)
		return nil
	}

	vault, err := resolveVault(ctx)
	if err != nil {
		return err
	}
	resp, err := get("/v1/vault/" + vault.String())
	if err != nil {
		return err
	}
	printRespJSON(resp)
	return nil
}

func eventsAction(ctx *cli.Context) error {
	path := "/v1/events"
	if v := ctx.String("vault"); v != "" {
		vault, err := domain.ParseAddress(v)
		if err != nil {
			return err
		}
		path = "/v1/vault/" + vault.String() + "/events"
	}

	query := url.Values{}
	if page := ctx.Int("page"); page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if size := ctx.Int("page_size"); size > 0 {
		query.Set("page_size", strconv.Itoa(size))
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	resp, err := get(path)
	if err != nil {
		return err
	}
	printRespJSON(resp)
	return nil
}

func transfer(ctx *cli.Context, instruction, path string) error {
	amount, err := parseAmount(ctx.String("amount"))
	if err != nil {
		return err
	}
	key, err := getKeyPair()
	if err != nil {
		return err
	}
	vault, err := getVaultAddress(ctx, key)
	if err != nil {
		return err
	}

	body, err := signRequest(key, instruction, vault, amount)
	if err != nil {
		return err
	}
	body["vault"] = vault.String()
	body["amount"] = amount
	body["signer"] = key.Address().String()

	resp, err := post(path, body)
	if err != nil {
		return err
	}
	printRespJSON(resp)
	return nil
}

func setLock(ctx *cli.Context, locked bool) error {
	key, err := getKeyPair()
	if err != nil {
		return err
	}
	vault, err := getVaultAddress(ctx, key)
	if err != nil {
		return err
	}

	body, err := signRequest(
		key, auth.InstructionSetLock, vault, auth.LockAmount(locked),
	)
	if err != nil {
		return err
	}
	body["vault"] = vault.String()
	body["locked"] = locked
	body["signer"] = key.Address().String()

	resp, err := post("/v1/vault/lock", body)
	if err != nil {
		return err
	}
	printRespJSON(resp)
	return nil
}

// resolveVault is like getVaultAddress but does not need a local key pair if
// the vault is given explicitly.
func resolveVault(ctx *cli.Context) (domain.Address, error) {
	if v := ctx.String("vault"); v != "" {
		return domain.ParseAddress(v)
	}
	key, err := getKeyPair()
	if err != nil {
		return domain.Address{}, err
	}
	return getVaultAddress(ctx, key)
}

func signRequest(
	key *auth.KeyPair, instruction string, target domain.Address, amount uint64,
) (map[string]interface{}, error) {
	resolver, err := getAddressResolver()
	if err != nil {
		return nil, err
	}

	timestamp := time.Now().Unix()
	sig, err := key.SignInstruction(
		resolver.ProgramID(), instruction, target, amount, timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to sign request: %s", err)
	}
	return map[string]interface{}{
		"timestamp": timestamp,
		"signature": hex.EncodeToString(sig),
	}, nil
}

// parseAmount converts the given SOL amount into lamports.
func parseAmount(str string) (uint64, error) {
	sol, err := decimal.NewFromString(str)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %s", str, err)
	}
	lamports, ok := mathutil.SolToLamports(sol)
	if !ok || lamports == 0 {
		return 0, fmt.Errorf("invalid amount %q: must be positive", str)
	}
	return lamports, nil
}
