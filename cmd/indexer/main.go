package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"holdex/internal/logger"
	"holdex/internal/wire"
)

const defaultTopHoldersLimit = 10

func usage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  indexer run-indexing <contract_address> [backfill]")
	fmt.Fprintln(os.Stderr, "  indexer top-holders <token_address> [limit]")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	container, err := wire.BuildContainer()
	if err != nil {
		// The logger is part of the container, so it is not available yet
		os.Stderr.WriteString("Failed to build dependency container: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer container.DB.Close()
	defer container.Client.Close()

	log := container.Logger

	if err := container.DB.MigrateDatabase(); err != nil {
		log.Fatal("Failed to migrate database", logger.Error(err))
	}

	switch os.Args[1] {
	case "run-indexing":
		err = runIndexing(container, os.Args[2:])
	case "top-holders":
		err = topHolders(container, os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

// runIndexing backfills the contract's history when requested and then
// tails live transfers until the process is interrupted.
func runIndexing(container *wire.Container, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("run-indexing requires a contract address")
	}
	contractAddress := args[0]

	backfill := true
	if len(args) > 1 {
		parsed, err := strconv.ParseBool(args[1])
		if err != nil {
			return fmt.Errorf("invalid backfill flag %q: %w", args[1], err)
		}
		backfill = parsed
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		container.Logger.Info("Received shutdown signal")
		cancel()
	}()

	container.Logger.Info("Starting indexer",
		logger.String("contract_address", contractAddress),
		logger.Int64("chain_id", container.Client.Chain().ID))

	return container.Indexer.RunIndexing(ctx, contractAddress, backfill)
}

// topHolders prints the ranked wallets for a token.
func topHolders(container *wire.Container, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("top-holders requires a token address")
	}
	tokenAddress := args[0]

	limit := defaultTopHoldersLimit
	if len(args) > 1 {
		parsed, err := strconv.Atoi(args[1])
		if err != nil || parsed <= 0 {
			return fmt.Errorf("invalid limit %q", args[1])
		}
		limit = parsed
	}

	holders, err := container.Indexer.TopHolders(context.Background(), tokenAddress, limit)
	if err != nil {
		return err
	}

	for i, holder := range holders {
		fmt.Printf("#%d. wallet_address: %s. balance: %s\n", i+1, holder.WalletAddress, holder.Balance.String())
	}

	return nil
}
