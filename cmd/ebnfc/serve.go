package main

import (
	"crypto/rand"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/grammarkit/ebnfstudio/internal/httpapi"
	"github.com/grammarkit/ebnfstudio/internal/version"
	"github.com/spf13/pflag"
)

const (
	envListen   = "EBNFC_LISTEN_ADDRESS"
	envSecret   = "EBNFC_TOKEN_SECRET"
	envPassword = "EBNFC_OPERATOR_PASSWORD"
	envDB       = "EBNFC_DATABASE"
)

// runServe parses the "serve" subcommand's own flags and starts the HTTP
// API. It never returns under normal operation; ListenAndServe only returns
// on error.
func runServe(args []string) {
	fs := pflag.NewFlagSet("serve", pflag.ExitOnError)
	flagListen := fs.StringP("listen", "l", "", "listen on the given address")
	flagSecret := fs.StringP("secret", "s", "", "secret used to sign bearer tokens")
	flagPassword := fs.String("password", "", "operator password; a random one is generated and logged if not given")
	flagDB := fs.String("db", "", "DRIVER[:PARAMS]; inmem or sqlite:path/to/db_file")
	flagVersion := fs.BoolP("version", "v", false, "print the current version and exit")
	fs.Parse(args)

	if *flagVersion {
		fmt.Printf("%s (ebnfc %s)\n", version.ServerCurrent, version.Current)
		return
	}
	if extra := fs.Args(); len(extra) > 0 {
		fmt.Fprintf(os.Stderr, "unexpected argument %q\n", extra[0])
		os.Exit(ExitUsage)
	}

	listenAddr := os.Getenv(envListen)
	if fs.Lookup("listen").Changed {
		listenAddr = *flagListen
	}
	if listenAddr == "" {
		listenAddr = "localhost:8080"
	}

	secretStr := os.Getenv(envSecret)
	if fs.Lookup("secret").Changed {
		secretStr = *flagSecret
	}
	var secret []byte
	if secretStr != "" {
		secret = []byte(secretStr)
		for len(secret) < 32 {
			secret = append(secret, secret...)
		}
		if len(secret) > 64 {
			secret = secret[:64]
		}
	} else {
		secret = make([]byte, 64)
		if _, err := rand.Read(secret); err != nil {
			exitf(ExitIO, "generate token secret: %v", err)
		}
		log.Printf("WARN  using a generated token secret; all tokens issued will become invalid at shutdown")
	}

	password := os.Getenv(envPassword)
	if fs.Lookup("password").Changed {
		password = *flagPassword
	}
	if password == "" {
		buf := make([]byte, 12)
		if _, err := rand.Read(buf); err != nil {
			exitf(ExitIO, "generate operator password: %v", err)
		}
		password = fmt.Sprintf("%x", buf)
		log.Printf("INFO  generated operator password: %s", password)
	}
	passwordHash, err := httpapi.HashPassword(password)
	if err != nil {
		exitf(ExitIO, "hash operator password: %v", err)
	}

	var store httpapi.GrammarStore
	dbConnStr := os.Getenv(envDB)
	if fs.Lookup("db").Changed {
		dbConnStr = *flagDB
	}
	if dbConnStr == "" || dbConnStr == "inmem" {
		store = httpapi.NewMemStore()
	} else {
		parts := strings.SplitN(dbConnStr, ":", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "sqlite" {
			exitf(ExitUsage, "unsupported db string %q; want inmem or sqlite:path/to/db_file", dbConnStr)
		}
		sqliteStore, err := httpapi.NewSqliteStore(parts[1])
		if err != nil {
			exitf(ExitIO, "open sqlite store: %v", err)
		}
		store = sqliteStore
	}

	cfg := httpapi.Config{
		ListenAddr:   listenAddr,
		Secret:       secret,
		PasswordHash: passwordHash,
		Store:        store,
		UnauthDelay:  500 * time.Millisecond,
		MaxLookahead: 4,
	}

	log.Printf("INFO  starting ebnfc server %s on %s...", version.ServerCurrent, listenAddr)
	if err := httpapi.Serve(cfg); err != nil {
		log.Fatalf("FATAL %s", err.Error())
	}
}
