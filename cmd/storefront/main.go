// Command storefront runs the video storefront API and its maintenance jobs.
//
// Usage:
//
//	storefront serve
//	storefront migrate [-down | -status]
//	storefront setup [-project ID -api-key KEY]
//	storefront encrypt-data
//	storefront migrate-files [-dry-run] [-keep-old]
//	storefront keygen
//	storefront session create -user ID | current | validate -token T | revoke
//
// Configuration is read from the environment and an optional .env file.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

var errUsage = errors.New("unknown or missing command")

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, args []string, out io.Writer) error
}

func commands() []command {
	return []command{
		{"serve", "run the HTTP API", runServe},
		{"migrate", "apply the postgres schema migrations", runMigrate},
		{"setup", "provision collections, buckets and the site config", runSetup},
		{"encrypt-data", "encrypt plaintext attributes of stored videos", runEncryptData},
		{"migrate-files", "rename stored files to obfuscated names", runMigrateFiles},
		{"keygen", "print a new SECRETS_KEY value", runKeygen},
		{"session", "create, inspect or revoke the CLI session", runSession},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "storefront:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		usage(out)
		return errUsage
	}

	for _, c := range commands() {
		if c.name == args[0] {
			return c.run(ctx, args[1:], out)
		}
	}

	switch args[0] {
	case "help", "-h", "-help", "--help":
		usage(out)
		return nil
	}
	usage(out)
	return fmt.Errorf("%w: %q", errUsage, args[0])
}

func usage(out io.Writer) {
	fmt.Fprintln(out, "Usage: storefront <command> [flags]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Commands:")
	for _, c := range commands() {
		fmt.Fprintf(out, "  %-14s %s\n", c.name, c.summary)
	}
}
