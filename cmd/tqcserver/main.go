/*
Tqcserver starts a TunaCalc server and begins listening for new connections.

Usage:

	tqcserver [flags]

Once started, the TunaCalc server will listen for HTTP requests and respond to
them using REST protocol. By default, it will listen on localhost:8080. This can
be changed with the --addr and --port flags.

If a JWT token secret is not given, a random one is generated. As a
consequence, in this mode of operation all tokens are rendered invalid as soon
as the server shuts down. This is suitable for testing, but a secret must be
given via either CLI flags or environment variable if running in production.

Every flag falls back to an environment variable when not given, and then to a
setting in the config file given by --config, if any.

The flags are:

	-v, --version
		Give the current version of the TunaCalc server and then exit.

	-c, --config FILE
		Read settings from the given TOML file. Flags and environment variables
		override it. Defaults to the value of TQC_CONFIG.

	-a, --addr ADDRESS
		Listen on the given address. Defaults to the value of TQC_ADDR, and if
		that is not given, to localhost.

	-p, --port PORT
		Listen on the given port. Defaults to the value of TQC_PORT, and if that
		is not given, to 8080.

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing JWT tokens. If there are less than
		32 bytes in the secret, it will be repeated until it is. The maximum
		size is 64 bytes. Defaults to the value of TQC_SECRET.

	--db DRIVER[:PARAMS]
		Use the given DB connection string. DRIVER must be one of the following:
		inmem, sqlite. inmem has no further params. sqlite needs the path to the
		data directory such as sqlite:path/to/db_dir. Defaults to the value of
		TQC_DB. If TQC_DB is not set but TQC_DATA_DIR is, sqlite is used with
		that directory. Otherwise an in-memory database is used.

	-f, --file FILE
		Load variables and functions from the given calculator definition file
		and make them available to every evaluation.

	--admin-pass PASSWORD
		Create a user named "admin" with the given password at startup if one
		does not already exist. Defaults to the value of TQC_ADMIN_PASS.
*/
package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"os"

	"github.com/dekarrin/tunacalc/internal/version"
	"github.com/dekarrin/tunacalc/server"
	"github.com/spf13/pflag"
	"github.com/xyproto/env/v2"
)

const (
	EnvConfig    = "TQC_CONFIG"
	EnvAddr      = "TQC_ADDR"
	EnvPort      = "TQC_PORT"
	EnvSecret    = "TQC_SECRET"
	EnvDB        = "TQC_DB"
	EnvDataDir   = "TQC_DATA_DIR"
	EnvAdminPass = "TQC_ADMIN_PASS"
)

const (
	ExitSuccess = iota
	ExitGeneralError
	ExitInitError
)

var (
	flagVersion   = pflag.BoolP("version", "v", false, "Give the current version of TunaCalc server and then exit.")
	flagConfig    = pflag.StringP("config", "c", "", "Read settings from the given TOML file.")
	flagAddr      = pflag.StringP("addr", "a", "", "Listen on the given address.")
	flagPort      = pflag.IntP("port", "p", 0, "Listen on the given port.")
	flagSecret    = pflag.StringP("secret", "s", "", "Use the given secret for token generation.")
	flagDB        = pflag.String("db", "", "Use the given DB connection string.")
	flagCalcFile  = pflag.StringP("file", "f", "", "Load definitions from the given calculator file.")
	flagAdminPass = pflag.String("admin-pass", "", "Create the admin user with the given password if absent.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s (TunaCalc v%s)\n", version.ServerCurrent, version.Current)
		return
	}

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(ExitInitError)
	}

	var cfg server.Config

	configFile := stringSetting("config", *flagConfig, EnvConfig)
	if configFile != "" {
		var err error
		cfg, err = server.LoadConfig(configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
			os.Exit(ExitInitError)
		}
	}

	dbConnStr := stringSetting("db", *flagDB, EnvDB)
	if dbConnStr == "" && env.Has(EnvDataDir) {
		dbConnStr = "sqlite:" + env.Str(EnvDataDir)
	}
	if dbConnStr != "" {
		db, err := server.ParseDBConnString(dbConnStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\nDo -h for help.\n", err)
			os.Exit(ExitInitError)
		}
		cfg.DB = db
	}

	if calcFile := stringSetting("file", *flagCalcFile, ""); calcFile != "" {
		cfg.CalcFile = calcFile
	}

	tokSecStr := stringSetting("secret", *flagSecret, EnvSecret)
	if tokSecStr != "" {
		cfg.TokenSecret = []byte(tokSecStr)
	}
	if len(cfg.TokenSecret) > 0 {
		for len(cfg.TokenSecret) < server.MinSecretSize {
			cfg.TokenSecret = append(cfg.TokenSecret, cfg.TokenSecret...)
		}
		if len(cfg.TokenSecret) > server.MaxSecretSize {
			// keys would be chopped at 64, so rather than the user thinking
			// they have more security by giving a longer key, refuse to start.
			fmt.Fprintf(os.Stderr, "Token secret is %d bytes, but it must be <= %d bytes\nDo -h for help.\n", len(cfg.TokenSecret), server.MaxSecretSize)
			os.Exit(ExitInitError)
		}
	} else {
		cfg.TokenSecret = make([]byte, server.MaxSecretSize)
		if _, err := rand.Read(cfg.TokenSecret); err != nil {
			fmt.Fprintf(os.Stderr, "Could not generate token secret: %s\n", err.Error())
			os.Exit(ExitInitError)
		}
		log.Printf("WARN  Using generated token secret; all tokens issued will become invalid at shutdown")
	}

	addr := stringSetting("addr", *flagAddr, EnvAddr)
	port := *flagPort
	if !pflag.Lookup("port").Changed {
		port = env.Int(EnvPort, 0)
	}

	tcs, err := server.New(cfg)
	if err != nil {
		log.Printf("ERROR could not start server: %s", err.Error())
		os.Exit(ExitInitError)
	}
	defer tcs.Close()
	log.Printf("DEBUG Server initialized")

	adminPass := stringSetting("admin-pass", *flagAdminPass, EnvAdminPass)
	if adminPass != "" {
		created, err := tcs.EnsureAdmin(context.Background(), "admin", adminPass)
		if err != nil {
			log.Printf("ERROR could not create initial admin user: %v", err)
			os.Exit(ExitInitError)
		}
		if created {
			log.Printf("INFO  Added initial admin user 'admin'")
		}
	}

	log.Printf("INFO  Starting TunaCalc server %s...", version.ServerCurrent)
	if err := tcs.ServeForever(addr, port); err != nil {
		log.Printf("ERROR %v", err)
		os.Exit(ExitGeneralError)
	}
}

// stringSetting returns the value of the named flag if it was given, and
// otherwise the value of the environment variable envName. envName may be
// empty for flags with no environment fallback.
func stringSetting(flagName, flagVal, envName string) string {
	if pflag.Lookup(flagName).Changed || envName == "" {
		return flagVal
	}
	return env.Str(envName)
}
