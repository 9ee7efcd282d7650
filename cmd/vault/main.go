package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/urfave/cli/v2"
)

const requestTimeout = 30 * time.Second

var (
	version = "dev"

	vaultDataDir = btcutil.AppDataDir("vault-cli", false)
	statePath    = filepath.Join(vaultDataDir, "state.json")

	httpClient = &http.Client{Timeout: requestTimeout}
)

func main() {
	app := cli.NewApp()

	app.Version = version
	app.Name = "vault CLI"
	app.Usage = "Command line interface for vaultd users"
	app.Commands = append(
		app.Commands,
		&configCmd,
		&keygen,
		&address,
		&info,
		&airdrop,
		&initVault,
		&deposit,
		&withdraw,
		&lock,
		&unlock,
		&balance,
		&events,
		&webhook,
	)

	err := app.Run(os.Args)
	if err != nil {
		fatal(err)
	}
}

func getState() (map[string]string, error) {
	data := map[string]string{}

	file, err := os.ReadFile(statePath)
	if err != nil {
		return nil, errors.New("get config state error: try 'config init'")
	}
	if err := json.Unmarshal(file, &data); err != nil {
		return nil, fmt.Errorf("invalid config state: %s", err)
	}

	return data, nil
}

func setState(data map[string]string) error {
	if _, err := os.Stat(vaultDataDir); os.IsNotExist(err) {
		if err := os.MkdirAll(vaultDataDir, os.ModeDir|0755); err != nil {
			return err
		}
	}

	currentData, err := getState()
	if err != nil {
		currentData = map[string]string{}
	}

	mergedData := merge(currentData, data)

	jsonString, err := json.Marshal(mergedData)
	if err != nil {
		return err
	}
	// the state holds the private key
	if err := os.WriteFile(statePath, jsonString, 0600); err != nil {
		return fmt.Errorf("writing to file: %w", err)
	}

	return nil
}

func merge(maps ...map[string]string) map[string]string {
	merge := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			merge[k] = v
		}
	}
	return merge
}

func getServerURL() (string, error) {
	state, err := getState()
	if err != nil {
		return "", err
	}
	server, ok := state[serverKey]
	if !ok || server == "" {
		return "", errors.New("set the daemon address with `config set server`")
	}
	return strings.TrimSuffix(server, "/"), nil
}

// apiError is the error body returned by the daemon.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func get(path string) ([]byte, error) {
	return doRequest(http.MethodGet, path, nil)
}

func post(path string, body interface{}) ([]byte, error) {
	return doRequest(http.MethodPost, path, body)
}

func del(path string) ([]byte, error) {
	return doRequest(http.MethodDelete, path, nil)
}

func doRequest(method, path string, body interface{}) ([]byte, error) {
	server, err := getServerURL()
	if err != nil {
		return nil, err
	}

	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, server+path, reqBody)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to daemon: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		e := &apiError{}
		if err := json.Unmarshal(respBody, e); err != nil || e.Code == "" {
			return nil, fmt.Errorf("daemon replied with status %d", resp.StatusCode)
		}
		return nil, e
	}
	return respBody, nil
}

func printRespJSON(resp []byte) {
	if len(resp) <= 0 {
		return
	}
	buf := &bytes.Buffer{}
	if err := json.Indent(buf, resp, "", "\t"); err != nil {
		fmt.Println("unable to decode response: ", err)
		return
	}
	fmt.Println(buf.String())
}

type invalidUsageError struct {
	ctx     *cli.Context
	command string
}

func (e *invalidUsageError) Error() string {
	return fmt.Sprintf("invalid usage of command %s", e.command)
}

func fatal(err error) {
	var e *invalidUsageError
	if errors.As(err, &e) {
		_ = cli.ShowCommandHelp(e.ctx, e.command)
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "[vault] %v\n", err)
	}
	os.Exit(1)
}
