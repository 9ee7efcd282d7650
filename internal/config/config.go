package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
)

const (
	// HTTPListeningPortKey is the port where the HTTP interface will listen on
	HTTPListeningPortKey = "HTTP_LISTENING_PORT"
	// DatadirKey is the local data directory to store the internal state of daemon
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// DBTypeKey is used to switch database type between those supported
	DBTypeKey = "DB_TYPE"
	// ProgramIDKey is the base58 id of the program all vault addresses are
	// derived for
	ProgramIDKey = "PROGRAM_ID"
	// LamportsPerByteYearKey is the rent rate charged for every byte of an
	// account
	LamportsPerByteYearKey = "LAMPORTS_PER_BYTE_YEAR"
	// ExemptionThresholdKey is the number of years of rent that makes an
	// account exempt
	ExemptionThresholdKey = "EXEMPTION_THRESHOLD"
	// SignatureMaxAgeKey is the max age in seconds of a signed instruction
	SignatureMaxAgeKey = "SIGNATURE_MAX_AGE"
	// ReplayCacheSizeKey is the number of signatures remembered to reject
	// replayed instructions
	ReplayCacheSizeKey = "REPLAY_CACHE_SIZE"
	// WebhookRateLimitKey is the max number of webhook requests per second,
	// 0 means unlimited
	WebhookRateLimitKey = "WEBHOOK_RATE_LIMIT"
	// WebhookTimeoutKey is the timeout in seconds of every webhook request
	WebhookTimeoutKey = "WEBHOOK_TIMEOUT"
	// EnableFaucetKey enables the airdrop endpoint minting lamports for local
	// testing
	EnableFaucetKey = "ENABLE_FAUCET"
	// FaucetMaxAmountKey caps the lamports of a single airdrop, 0 means no cap
	FaucetMaxAmountKey = "FAUCET_MAX_AMOUNT"
	// CORSAllowedOriginsKey is the comma separated list of origins allowed to
	// reach the HTTP interface from a browser
	CORSAllowedOriginsKey = "CORS_ALLOWED_ORIGINS"
	// EnableProfilerKey enables profiler that can be used to investigate performance issues
	EnableProfilerKey = "ENABLE_PROFILER"
	// StatsIntervalKey defines interval for printing basic vault statistics
	StatsIntervalKey = "STATS_INTERVAL"

	DbLocation       = "db"
	PubSubLocation   = "pubsub"
	ProfilerLocation = "stats"

	DBBadger   = "badger"
	DBInmemory = "inmemory"

	// DefaultProgramID is used when no program id is configured.
	DefaultProgramID = "38jt8NMnj78jYUCUFvkf7mrGRudMRbL19xtw9jfoKZJA"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("vaultd", false)

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("VAULT")
	vip.AutomaticEnv()

	vip.SetDefault(HTTPListeningPortKey, 7070)
	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(DBTypeKey, DBBadger)
	vip.SetDefault(ProgramIDKey, DefaultProgramID)
	vip.SetDefault(LamportsPerByteYearKey, domain.DefaultLamportsPerByteYear)
	vip.SetDefault(ExemptionThresholdKey, domain.DefaultExemptionThreshold)
	vip.SetDefault(SignatureMaxAgeKey, 120)
	vip.SetDefault(ReplayCacheSizeKey, 10000)
	vip.SetDefault(WebhookRateLimitKey, 0)
	vip.SetDefault(WebhookTimeoutKey, 15)
	vip.SetDefault(EnableFaucetKey, false)
	vip.SetDefault(FaucetMaxAmountKey, 0)
	vip.SetDefault(CORSAllowedOriginsKey, "*")
	vip.SetDefault(EnableProfilerKey, false)
	vip.SetDefault(StatsIntervalKey, 600)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetUint64(key string) uint64 {
	return vip.GetUint64(key)
}

func GetStringSlice(key string) []string {
	return vip.GetStringSlice(key)
}

func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

// GetSeconds returns the duration of a key expressed as number of seconds.
func GetSeconds(key string) time.Duration {
	return time.Duration(GetInt(key)) * time.Second
}

func GetLogLevel() log.Level {
	return log.Level(GetInt(LogLevelKey))
}

func GetProgramID() domain.Address {
	// Already validated at init.
	addr, _ := domain.ParseAddress(GetString(ProgramIDKey))
	return addr
}

func GetRent() domain.Rent {
	return domain.Rent{
		LamportsPerByteYear: GetUint64(LamportsPerByteYearKey),
		ExemptionThreshold:  GetUint64(ExemptionThresholdKey),
	}
}

// GetCORSAllowedOrigins returns the list of origins from the comma separated
// config value.
func GetCORSAllowedOrigins() []string {
	origins := make([]string, 0)
	for _, o := range strings.Split(GetString(CORSAllowedOriginsKey), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	dbType := GetString(DBTypeKey)
	if dbType != DBBadger && dbType != DBInmemory {
		return fmt.Errorf(
			"%s must be one of %s, %s", DBTypeKey, DBBadger, DBInmemory,
		)
	}

	if _, err := domain.ParseAddress(GetString(ProgramIDKey)); err != nil {
		return fmt.Errorf("invalid %s: %s", ProgramIDKey, err)
	}

	level := GetInt(LogLevelKey)
	if level < int(log.PanicLevel) || level > int(log.TraceLevel) {
		return fmt.Errorf("%s must be in range [0, 6]", LogLevelKey)
	}

	if GetInt(LamportsPerByteYearKey) <= 0 {
		return fmt.Errorf("%s must be greater than zero", LamportsPerByteYearKey)
	}
	if GetInt(ExemptionThresholdKey) <= 0 {
		return fmt.Errorf("%s must be greater than zero", ExemptionThresholdKey)
	}
	if GetInt(SignatureMaxAgeKey) <= 0 {
		return fmt.Errorf("%s must be greater than zero", SignatureMaxAgeKey)
	}
	if GetInt(ReplayCacheSizeKey) <= 0 {
		return fmt.Errorf("%s must be greater than zero", ReplayCacheSizeKey)
	}
	if GetInt(WebhookRateLimitKey) < 0 {
		return fmt.Errorf("%s must not be negative", WebhookRateLimitKey)
	}
	if GetInt(WebhookTimeoutKey) <= 0 {
		return fmt.Errorf("%s must be greater than zero", WebhookTimeoutKey)
	}

	return nil
}

func initDatadir() error {
	datadir := GetDatadir()
	if GetString(DBTypeKey) == DBBadger {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, DbLocation)); err != nil {
			return err
		}
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, PubSubLocation)); err != nil {
			return err
		}
	}

	profilerEnabled := GetBool(EnableProfilerKey)
	if profilerEnabled {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, ProfilerLocation)); err != nil {
			return err
		}
	}
	return nil
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
