package server

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/dekarrin/tunacalc/server/calcs"
	"github.com/dekarrin/tunacalc/server/dao"
	"github.com/dekarrin/tunacalc/server/dao/inmem"
	"github.com/dekarrin/tunacalc/server/dao/sqlite"
)

// DBType names a persistence engine for evaluation history and users.
type DBType string

func (dbt DBType) String() string {
	return string(dbt)
}

const (
	DatabaseNone     DBType = "none"
	DatabaseSQLite   DBType = "sqlite"
	DatabaseInMemory DBType = "inmem"
)

const (
	MaxSecretSize = 64
	MinSecretSize = 32
)

// engine is how the server opens one DBType.
type engine struct {
	// dir is whether the engine keeps its files in Database.DataDir.
	dir  bool
	open func(dir string) (dao.Store, error)
}

var engines = map[DBType]engine{
	DatabaseInMemory: {
		open: func(string) (dao.Store, error) { return inmem.NewDatastore(), nil },
	},
	DatabaseSQLite: {
		dir: true,
		open: func(dir string) (dao.Store, error) {
			if err := os.MkdirAll(dir, 0770); err != nil {
				return nil, fmt.Errorf("create data dir: %w", err)
			}
			return sqlite.NewDatastore(dir)
		},
	},
}

func lookupEngine(t DBType) (engine, error) {
	if t == DatabaseNone {
		return engine{}, fmt.Errorf("'none' DB is not valid (perhaps you wanted 'inmem'?)")
	}
	eng, ok := engines[t]
	if !ok {
		return engine{}, fmt.Errorf("DB type not one of 'sqlite' or 'inmem': %q", t.String())
	}
	return eng, nil
}

// ParseDBType parses the engine part of a connection string. Case is ignored.
func ParseDBType(s string) (DBType, error) {
	t := DBType(strings.ToLower(s))
	if _, err := lookupEngine(t); err != nil {
		return DatabaseNone, err
	}
	return t, nil
}

// Database says where the server keeps users and evaluations.
type Database struct {
	Type DBType

	// DataDir holds the database files of engines that use them, currently
	// only DatabaseSQLite.
	DataDir string
}

// Connect opens the configured store.
func (db Database) Connect() (dao.Store, error) {
	eng, err := lookupEngine(db.Type)
	if err != nil {
		return nil, err
	}
	store, err := eng.open(db.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", db.Type, err)
	}
	return store, nil
}

// Validate returns an error if db names an unknown engine or is missing a
// field its engine requires.
func (db Database) Validate() error {
	eng, err := lookupEngine(db.Type)
	if err != nil {
		return err
	}
	if eng.dir && db.DataDir == "" {
		return fmt.Errorf("%s: DataDir not set to path", db.Type)
	}
	return nil
}

// ParseDBConnString parses a connection string of the form "engine:dir", or
// just "engine" for engines that keep no files. "sqlite:/data" stores data in
// /data, and "inmem" keeps everything in memory.
func ParseDBConnString(s string) (Database, error) {
	engStr, dir, _ := strings.Cut(s, ":")
	dir = strings.TrimSpace(dir)

	t, err := ParseDBType(strings.TrimSpace(engStr))
	if err != nil {
		return Database{}, fmt.Errorf("unsupported DB engine: %w", err)
	}

	if engines[t].dir {
		if dir == "" {
			return Database{}, fmt.Errorf("%s DB engine requires path to data directory after ':'", t)
		}
		return Database{Type: t, DataDir: dir}, nil
	}
	if dir != "" {
		return Database{}, fmt.Errorf("%s DB engine takes no params, but got %q", t, dir)
	}
	return Database{Type: t}, nil
}

// Config is a configuration for a server. It contains all parameters that can
// be used to configure the operation of a TunaCalcServer.
type Config struct {

	// TokenSecret is the secret used for signing tokens. If not provided, a
	// default key is used.
	TokenSecret []byte

	// Database is the configuration to use for connecting to the database. If
	// not provided, it will be set to a configuration for using an in-memory
	// persistence layer.
	DB Database

	// UnauthDelayMillis is the amount of additional time to wait
	// (in milliseconds) before sending a response that indicates either that
	// the client was unauthorized or the client was unauthenticated. This is
	// something of an "anti-flood" measure for naive clients attempting
	// non-parallel connections. If not set it will default to 1 second
	// (1000ms). Set this to any negative number to disable the delay.
	UnauthDelayMillis int

	// MaxExprLength is the longest expression, in bytes, that the server will
	// evaluate. If not set it defaults to calcs.DefaultMaxExprLength.
	MaxExprLength int

	// CalcFile is the path to a calculator definition file whose variables
	// and functions are available to every evaluation. It may be left empty.
	CalcFile string
}

// UnauthDelay returns the configured time for the UnauthDelay as a
// time.Duration. If cfg.UnauthDelayMS is set to a number less than 0, this will
// return a zero-valued time.Duration.
func (cfg Config) UnauthDelay() time.Duration {
	if cfg.UnauthDelayMillis < 1 {
		var dur time.Duration
		return dur
	}
	return time.Millisecond * time.Duration(cfg.UnauthDelayMillis)
}

// FillDefaults returns a new Config identitical to cfg but with unset values
// set to their defaults.
func (cfg Config) FillDefaults() Config {
	newCFG := cfg

	if newCFG.TokenSecret == nil {
		newCFG.TokenSecret = []byte("DEFAULT_TOKEN_SECRET-DO_NOT_USE_IN_PROD!")
	}
	if newCFG.DB.Type == DatabaseNone || newCFG.DB.Type == "" {
		newCFG.DB = Database{Type: DatabaseInMemory}
	}
	if newCFG.UnauthDelayMillis == 0 {
		newCFG.UnauthDelayMillis = 1000
	}
	if newCFG.MaxExprLength == 0 {
		newCFG.MaxExprLength = calcs.DefaultMaxExprLength
	}

	return newCFG
}

// Validate returns an error if the Config has invalid field values set. Empty
// and unset values are considered invalid; if defaults are intended to be used,
// call Validate on the return value of FillDefaults.
func (cfg Config) Validate() error {
	if len(cfg.TokenSecret) < MinSecretSize {
		return fmt.Errorf("token secret: must be at least %d bytes, but is %d", MinSecretSize, len(cfg.TokenSecret))
	}
	if len(cfg.TokenSecret) > MaxSecretSize {
		return fmt.Errorf("token secret: must be no more than %d bytes, but is %d", MaxSecretSize, len(cfg.TokenSecret))
	}
	if err := cfg.DB.Validate(); err != nil {
		return fmt.Errorf("db: %w", err)
	}

	// all possible values for UnauthDelayMS are valid, so no need to check it

	if cfg.MaxExprLength < 1 {
		return fmt.Errorf("max expression length: must be positive, but is %d", cfg.MaxExprLength)
	}
	if cfg.CalcFile != "" {
		if _, err := os.Stat(cfg.CalcFile); err != nil {
			return fmt.Errorf("calc file: %w", err)
		}
	}

	return nil
}

// fileConfig is the TOML layout of a server config file.
type fileConfig struct {
	Secret        string `toml:"secret"`
	DB            string `toml:"db"`
	UnauthDelayMS int    `toml:"unauth_delay_ms"`
	MaxExprLength int    `toml:"max_expr_length"`
	CalcFile      string `toml:"calc_file"`
}

// LoadConfig reads a Config from the TOML file at path. The db key uses the
// same "engine:params" form as ParseDBConnString. Keys that are absent are
// left unset so FillDefaults can apply.
func LoadConfig(path string) (Config, error) {
	var fc fileConfig
	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	if undec := meta.Undecoded(); len(undec) > 0 {
		keys := make([]string, len(undec))
		for i := range undec {
			keys[i] = undec[i].String()
		}
		return Config{}, fmt.Errorf("%s: unknown key(s): %s", path, strings.Join(keys, ", "))
	}

	cfg := Config{
		UnauthDelayMillis: fc.UnauthDelayMS,
		MaxExprLength:     fc.MaxExprLength,
		CalcFile:          fc.CalcFile,
	}
	if fc.Secret != "" {
		cfg.TokenSecret = []byte(fc.Secret)
	}
	if fc.DB != "" {
		cfg.DB, err = ParseDBConnString(fc.DB)
		if err != nil {
			return Config{}, fmt.Errorf("%s: db: %w", path, err)
		}
	}

	return cfg, nil
}
