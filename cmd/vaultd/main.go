package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tdex-network/tdex-vault/internal/config"
	"github.com/tdex-network/tdex-vault/internal/core/application"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
	"github.com/tdex-network/tdex-vault/internal/core/ports"
	"github.com/tdex-network/tdex-vault/internal/infrastructure/ledger"
	pubsub "github.com/tdex-network/tdex-vault/internal/infrastructure/pubsub"
	dbbadger "github.com/tdex-network/tdex-vault/internal/infrastructure/storage/db/badger"
	"github.com/tdex-network/tdex-vault/internal/infrastructure/storage/db/inmemory"
	httpinterface "github.com/tdex-network/tdex-vault/internal/interfaces/http"
	"github.com/tdex-network/tdex-vault/pkg/stats"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"

	app = &cobra.Command{
		Use:   "vaultd",
		Short: "vault daemon",
		Long: "vaultd runs the vault program: it keeps lamports on behalf of " +
			"authorities in program derived accounts and serves its instructions " +
			"over HTTP",
		Version:       formatVersion(),
		RunE:          action,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func main() {
	if err := app.Execute(); err != nil {
		log.Fatal(err)
	}
}

func action(_ *cobra.Command, _ []string) error {
	if err := config.InitConfig(); err != nil {
		return err
	}
	log.SetLevel(config.GetLogLevel())

	datadir := config.GetDatadir()

	repoManager, err := newRepoManager(datadir)
	if err != nil {
		return err
	}
	defer repoManager.Close()

	pubsubStore, err := newPubSubStore(datadir)
	if err != nil {
		return err
	}
	webhookSvc, err := pubsub.NewService(pubsubStore, pubsub.Opts{
		RequestTimeout: config.GetSeconds(config.WebhookTimeoutKey),
		RateLimit:      config.GetInt(config.WebhookRateLimitKey),
	})
	if err != nil {
		return fmt.Errorf("error while setting up webhooks: %s", err)
	}

	resolver, err := domain.NewAddressResolver(config.GetProgramID())
	if err != nil {
		return err
	}

	ledgerSvc := ledger.NewService(repoManager, config.GetRent(), ledger.FaucetOpts{
		Enabled:   config.GetBool(config.EnableFaucetKey),
		MaxAmount: config.GetUint64(config.FaucetMaxAmountKey),
	})
	executor := ledger.NewExecutor(repoManager, nil)

	pubsubSvc := application.NewPubSubService(webhookSvc)
	defer pubsubSvc.Close()

	vaultSvc, err := application.NewVaultService(
		resolver, ledgerSvc, executor, repoManager, pubsubSvc,
	)
	if err != nil {
		return err
	}
	authSvc, err := application.NewAuthService(
		resolver.ProgramID(), repoManager.SignatureRepository(),
		config.GetInt(config.ReplayCacheSizeKey),
		config.GetSeconds(config.SignatureMaxAgeKey),
	)
	if err != nil {
		return err
	}

	svc, err := httpinterface.NewService(httpinterface.ServiceOpts{
		Address:            fmt.Sprintf(":%d", config.GetInt(config.HTTPListeningPortKey)),
		VaultSvc:           vaultSvc,
		PubSubSvc:          pubsubSvc,
		AuthSvc:            authSvc,
		ProgramID:          resolver.ProgramID(),
		Rent:               ledgerSvc.Rent(),
		EnableFaucet:       config.GetBool(config.EnableFaucetKey),
		CORSAllowedOrigins: config.GetCORSAllowedOrigins(),
		BuildData:          buildData{version, commit, date},
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if config.GetBool(config.EnableProfilerKey) {
		stats.EnableMemoryStatistics(
			ctx,
			config.GetSeconds(config.StatsIntervalKey),
			filepath.Join(datadir, config.ProfilerLocation),
		)
	}

	log.WithFields(log.Fields{
		"program_id": resolver.ProgramID().String(),
		"db":         config.GetString(config.DBTypeKey),
		"datadir":    datadir,
	}).Info("starting daemon")

	if err := svc.Start(); err != nil {
		return fmt.Errorf("error while starting daemon: %s", err)
	}
	defer svc.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan

	log.Info("shutting down daemon")
	return nil
}

func newRepoManager(datadir string) (ports.RepoManager, error) {
	if config.GetString(config.DBTypeKey) == config.DBInmemory {
		return inmemory.NewRepoManager(), nil
	}
	return dbbadger.NewRepoManager(
		filepath.Join(datadir, config.DbLocation), dbbadger.NewLogger(),
	)
}

func newPubSubStore(datadir string) (pubsub.SubscriptionStore, error) {
	if config.GetString(config.DBTypeKey) == config.DBInmemory {
		return pubsub.NewInmemoryStore(), nil
	}
	return pubsub.NewBadgerStore(
		filepath.Join(datadir, config.PubSubLocation), dbbadger.NewLogger(),
	)
}

func formatVersion() string {
	return fmt.Sprintf(
		"Version: %s\nCommit: %s\nDate: %s",
		version, commit, date,
	)
}

type buildData struct {
	version, commit, date string
}

func (b buildData) GetVersion() string { return b.version }
func (b buildData) GetCommit() string  { return b.commit }
func (b buildData) GetDate() string    { return b.date }
