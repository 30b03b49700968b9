package indexer

import (
	"context"
	"database/sql"
	"time"

	"github.com/huandu/go-sqlbuilder"

	"holdex/internal/db"
	"holdex/internal/errors"
	"holdex/internal/logger"
	"holdex/internal/types"
)

// Store defines the persistence contract shared by the backfill engine and
// the tailer. Every method is atomic: multi-row inserts run as one
// statement, and ApplyTransfer commits the transfer row together with both
// balance deltas or not at all.
type Store interface {
	// InsertTransfers bulk-inserts decoded transfers.
	InsertTransfers(ctx context.Context, transfers []*types.Transfer) error

	// InsertBalances bulk-inserts a freshly computed balance snapshot.
	InsertBalances(ctx context.Context, chainID int64, balances []*types.Balance) error

	// IncrementBalance adds delta to a wallet's token balance under a row
	// lock, creating the row with balance = delta when the wallet is new.
	IncrementBalance(ctx context.Context, chainID int64, tokenAddress, walletAddress string, delta types.Decimal) error

	// ApplyTransfer appends the transfer and applies both balance deltas
	// (+value to the receiver, -value to the sender) in one transaction.
	ApplyTransfer(ctx context.Context, transfer *types.Transfer) error

	// DeleteTokenBalances removes every balance row of the token.
	DeleteTokenBalances(ctx context.Context, chainID int64, tokenAddress string) error

	// DeleteTokenTransfers removes every transfer row of the token.
	DeleteTokenTransfers(ctx context.Context, chainID int64, tokenAddress string) error

	// TopHolders returns up to limit balances of the token ordered by
	// balance descending, excluding the null address.
	TopHolders(ctx context.Context, chainID int64, tokenAddress string, limit int) ([]*types.Balance, error)
}

// transferRow is the persistence shape of a transfer.
type transferRow struct {
	ID           int64         `db:"id"`
	ChainID      int64         `db:"chain_id"`
	BlockNumber  int64         `db:"block_number"`
	TxHash       string        `db:"tx_hash"`
	TxFrom       string        `db:"tx_from"`
	TxTo         string        `db:"tx_to"`
	Value        types.Decimal `db:"value"`
	Type         string        `db:"type"`
	TokenAddress string        `db:"token_address"`
	BlockTime    sql.NullTime  `db:"block_time"`
	CreatedAt    time.Time     `db:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at"`
}

// balanceRow is the persistence shape of a balance.
type balanceRow struct {
	ID            int64         `db:"id"`
	ChainID       int64         `db:"chain_id"`
	WalletAddress string        `db:"wallet_address"`
	TokenAddress  string        `db:"token_address"`
	Balance       types.Decimal `db:"balance"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`
}

// store implements Store on PostgreSQL
type store struct {
	db          *db.DB
	log         logger.Logger
	transferMap *sqlbuilder.Struct
	balanceMap  *sqlbuilder.Struct
}

// NewStore creates a new PostgreSQL-backed Store
func NewStore(database *db.DB, log logger.Logger) Store {
	return &store{
		db:          database,
		log:         log,
		transferMap: sqlbuilder.NewStruct(new(transferRow)).For(sqlbuilder.PostgreSQL),
		balanceMap:  sqlbuilder.NewStruct(new(balanceRow)).For(sqlbuilder.PostgreSQL),
	}
}

// newTransferRow converts a domain transfer into its persistence row,
// normalizing the addresses on the way in.
func (s *store) newTransferRow(transfer *types.Transfer) (*transferRow, error) {
	id, err := s.db.GenerateID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &transferRow{
		ID:           id,
		ChainID:      transfer.ChainID,
		BlockNumber:  int64(transfer.BlockNumber),
		TxHash:       transfer.TxHash,
		TxFrom:       types.NormalizeAddress(transfer.From),
		TxTo:         types.NormalizeAddress(transfer.To),
		Value:        transfer.Value,
		Type:         transfer.Type,
		TokenAddress: types.NormalizeAddress(transfer.TokenAddress),
		BlockTime:    sql.NullTime{Time: transfer.BlockTime, Valid: !transfer.BlockTime.IsZero()},
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// InsertTransfers implements Store.InsertTransfers
func (s *store) InsertTransfers(ctx context.Context, transfers []*types.Transfer) error {
	if len(transfers) == 0 {
		return nil
	}

	rows := make([]any, 0, len(transfers))
	for _, transfer := range transfers {
		row, err := s.newTransferRow(transfer)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}

	query, args := s.transferMap.InsertInto("transfers", rows...).Build()
	_, err := s.db.ExecuteStatementContext(ctx, query, args...)
	return err
}

// InsertBalances implements Store.InsertBalances
func (s *store) InsertBalances(ctx context.Context, chainID int64, balances []*types.Balance) error {
	if len(balances) == 0 {
		s.log.Warn("No balances to insert", logger.Int64("chain_id", chainID))
		return nil
	}

	now := time.Now()
	rows := make([]any, 0, len(balances))
	for _, balance := range balances {
		id, err := s.db.GenerateID()
		if err != nil {
			return err
		}
		rows = append(rows, &balanceRow{
			ID:            id,
			ChainID:       chainID,
			WalletAddress: types.NormalizeAddress(balance.WalletAddress),
			TokenAddress:  types.NormalizeAddress(balance.TokenAddress),
			Balance:       balance.Balance,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}

	query, args := s.balanceMap.InsertInto("balances", rows...).Build()
	_, err := s.db.ExecuteStatementContext(ctx, query, args...)
	return err
}

// IncrementBalance implements Store.IncrementBalance
func (s *store) IncrementBalance(ctx context.Context, chainID int64, tokenAddress, walletAddress string, delta types.Decimal) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.incrementBalanceTx(ctx, tx, chainID, tokenAddress, walletAddress, delta); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.NewDatabaseError(err)
	}
	return nil
}

// ApplyTransfer implements Store.ApplyTransfer
func (s *store) ApplyTransfer(ctx context.Context, transfer *types.Transfer) error {
	row, err := s.newTransferRow(transfer)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query, args := s.transferMap.InsertInto("transfers", row).Build()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return errors.NewDatabaseError(err)
	}

	if err := s.incrementBalanceTx(ctx, tx, transfer.ChainID, row.TokenAddress, row.TxTo, transfer.Value); err != nil {
		return err
	}
	if err := s.incrementBalanceTx(ctx, tx, transfer.ChainID, row.TokenAddress, row.TxFrom, transfer.Value.Neg()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.NewDatabaseError(err)
	}
	return nil
}

// incrementBalanceTx performs the locked read-modify-write of one balance
// row inside the caller's transaction.
func (s *store) incrementBalanceTx(ctx context.Context, tx *sql.Tx, chainID int64, tokenAddress, walletAddress string, delta types.Decimal) error {
	tokenAddress = types.NormalizeAddress(tokenAddress)
	walletAddress = types.NormalizeAddress(walletAddress)

	var id int64
	var balance types.Decimal
	err := tx.QueryRowContext(ctx,
		`SELECT id, balance FROM balances
		 WHERE chain_id = $1 AND token_address = $2 AND wallet_address = $3
		 FOR UPDATE`,
		chainID, tokenAddress, walletAddress,
	).Scan(&id, &balance)

	switch {
	case err == sql.ErrNoRows:
		newID, err := s.db.GenerateID()
		if err != nil {
			return err
		}
		now := time.Now()
		_, err = tx.ExecContext(ctx,
			`INSERT INTO balances (id, chain_id, wallet_address, token_address, balance, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			newID, chainID, walletAddress, tokenAddress, delta, now, now)
		if err != nil {
			return errors.NewDatabaseError(err)
		}
		return nil
	case err != nil:
		return errors.NewDatabaseError(err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE balances SET balance = $1, updated_at = $2 WHERE id = $3`,
		balance.AddDec(delta), time.Now(), id)
	if err != nil {
		return errors.NewDatabaseError(err)
	}
	return nil
}

// DeleteTokenBalances implements Store.DeleteTokenBalances
func (s *store) DeleteTokenBalances(ctx context.Context, chainID int64, tokenAddress string) error {
	deleteBuilder := sqlbuilder.PostgreSQL.NewDeleteBuilder()
	deleteBuilder.DeleteFrom("balances")
	deleteBuilder.Where(
		deleteBuilder.E("chain_id", chainID),
		deleteBuilder.E("token_address", types.NormalizeAddress(tokenAddress)),
	)

	query, args := deleteBuilder.Build()
	_, err := s.db.ExecuteStatementContext(ctx, query, args...)
	return err
}

// DeleteTokenTransfers implements Store.DeleteTokenTransfers
func (s *store) DeleteTokenTransfers(ctx context.Context, chainID int64, tokenAddress string) error {
	deleteBuilder := sqlbuilder.PostgreSQL.NewDeleteBuilder()
	deleteBuilder.DeleteFrom("transfers")
	deleteBuilder.Where(
		deleteBuilder.E("chain_id", chainID),
		deleteBuilder.E("token_address", types.NormalizeAddress(tokenAddress)),
	)

	query, args := deleteBuilder.Build()
	_, err := s.db.ExecuteStatementContext(ctx, query, args...)
	return err
}

// TopHolders implements Store.TopHolders
func (s *store) TopHolders(ctx context.Context, chainID int64, tokenAddress string, limit int) ([]*types.Balance, error) {
	sb := s.balanceMap.SelectFrom("balances")
	sb.Where(
		sb.E("chain_id", chainID),
		sb.E("token_address", types.NormalizeAddress(tokenAddress)),
		sb.NE("wallet_address", types.NullAddress),
	)
	sb.OrderBy("balance").Desc()
	sb.Limit(limit)

	query, args := sb.Build()
	rows, err := s.db.ExecuteQueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []*types.Balance
	for rows.Next() {
		var row balanceRow
		if err := rows.Scan(s.balanceMap.Addr(&row)...); err != nil {
			return nil, errors.NewDatabaseError(err)
		}
		balances = append(balances, &types.Balance{
			ChainID:       row.ChainID,
			WalletAddress: row.WalletAddress,
			TokenAddress:  row.TokenAddress,
			Balance:       row.Balance,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, errors.NewDatabaseError(err)
	}

	return balances, nil
}
