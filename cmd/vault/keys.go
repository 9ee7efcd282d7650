package main

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tdex-network/tdex-vault/internal/core/application/auth"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
	"github.com/urfave/cli/v2"
)

var keygen = cli.Command{
	Name:  "keygen",
	Usage: "generate a new key pair and store it in the local state",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "force",
			Usage: "overwrite the key pair already in the local state",
		},
	},
	Action: keygenAction,
}

var address = cli.Command{
	Name:   "address",
	Usage:  "print the address of the local key pair and of its vault",
	Action: addressAction,
}

func keygenAction(ctx *cli.Context) error {
	state, err := getState()
	if err != nil {
		return err
	}
	if _, ok := state[privateKeyKey]; ok && !ctx.Bool("force") {
		return errors.New(
			"a key pair already exists, use --force to replace it",
		)
	}

	key := auth.NewKeyPair()
	if err := setState(map[string]string{
		privateKeyKey: hex.EncodeToString(key.Bytes()),
	}); err != nil {
		return err
	}

	fmt.Println("address:", key.Address().String())
	return nil
}

func addressAction(ctx *cli.Context) error {
	key, err := getKeyPair()
	if err != nil {
		return err
	}
	resolver, err := getAddressResolver()
	if err != nil {
		return err
	}
	vault, bump, err := resolver.FindVaultAddress(key.Address())
	if err != nil {
		return err
	}

	fmt.Println("address:", key.Address().String())
	fmt.Println("vault:", vault.String())
	fmt.Println("bump:", bump)
	return nil
}

func getKeyPair() (*auth.KeyPair, error) {
	state, err := getState()
	if err != nil {
		return nil, err
	}
	keyHex, ok := state[privateKeyKey]
	if !ok {
		return nil, errors.New("missing key pair, generate one with `keygen`")
	}
	buf, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid key pair in local state: %s", err)
	}
	return auth.KeyPairFromBytes(buf)
}

// getAddressResolver uses the program id of the local state if any, otherwise
// the one of the daemon.
func getAddressResolver() (*domain.AddressResolver, error) {
	state, err := getState()
	if err != nil {
		return nil, err
	}

	programIDStr := state[programIDKey]
	if programIDStr == "" {
		resp, err := get("/v1/info")
		if err != nil {
			return nil, err
		}
		info := struct {
			ProgramID string `json:"program_id"`
		}{}
		if err := json.Unmarshal(resp, &info); err != nil {
			return nil, err
		}
		programIDStr = info.ProgramID
	}

	programID, err := domain.ParseAddress(programIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid program id: %s", err)
	}
	return domain.NewAddressResolver(programID)
}

// getVaultAddress returns the vault given with --vault, or the one owned by
// the local key pair.
func getVaultAddress(ctx *cli.Context, key *auth.KeyPair) (domain.Address, error) {
	if v := ctx.String("vault"); v != "" {
		return domain.ParseAddress(v)
	}
	resolver, err := getAddressResolver()
	if err != nil {
		return domain.Address{}, err
	}
	vault, _, err := resolver.FindVaultAddress(key.Address())
	return vault, err
}
