package wire

import (
	"github.com/google/wire"

	"holdex/internal/config"
	"holdex/internal/core/blockchain"
	"holdex/internal/db"
	"holdex/internal/logger"
	"holdex/internal/services/indexer"
	"holdex/internal/types"
)

// Container holds all application dependencies
type Container struct {
	Config  *config.Config
	Logger  logger.Logger
	DB      *db.DB
	Client  blockchain.Client
	Store   indexer.Store
	Indexer *indexer.Service
}

// NewContainer creates a new dependency injection container
func NewContainer(
	cfg *config.Config,
	log logger.Logger,
	database *db.DB,
	client blockchain.Client,
	store indexer.Store,
	service *indexer.Service,
) *Container {
	return &Container{
		Config:  cfg,
		Logger:  log,
		DB:      database,
		Client:  client,
		Store:   store,
		Indexer: service,
	}
}

// NewLogger builds the application logger from the logging configuration
func NewLogger(cfg *config.Config) (logger.Logger, error) {
	opts := []logger.Option{
		logger.WithLevel(string(cfg.Log.Level)),
	}
	if cfg.Log.Format == config.LogFormatConsole {
		opts = append(opts, logger.WithConsoleFormat())
	}
	if cfg.Log.OutputPath != "" {
		opts = append(opts, logger.WithOutputPaths(cfg.Log.OutputPath))
	}
	return logger.NewLogger(opts...)
}

// NewSnowflake builds the row ID generator
func NewSnowflake() (*db.Snowflake, error) {
	return db.NewSnowflake(0)
}

// NewChain builds the chain descriptor from the provider configuration.
// The provider API key is a URL suffix on both endpoints.
func NewChain(cfg *config.Config) types.Chain {
	return types.Chain{
		ID:           cfg.Provider.ChainID,
		Type:         types.ChainTypeEthereum,
		Name:         "Ethereum",
		RPCURL:       cfg.Provider.RPCURL + cfg.Provider.APIKey,
		WebsocketURL: cfg.Provider.WebsocketURL + cfg.Provider.APIKey,
	}
}

// NewBlockchainClient builds the EVM chain client
func NewBlockchainClient(chain types.Chain, log logger.Logger) (blockchain.Client, error) {
	return blockchain.NewEVMClient(chain, log)
}

// ContainerSet combines all dependency providers
var ContainerSet = wire.NewSet(
	config.LoadConfig,
	NewLogger,
	NewSnowflake,
	db.NewDatabase,
	NewChain,
	NewBlockchainClient,
	indexer.NewStore,
	indexer.NewService,
	NewContainer,
)
