package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/tcgforge/rulesengine/internal/engineerr"
)

// Store persists Snapshots in Postgres, one row per game keyed by game id.
// Every query goes through squirrel's builder rather than hand-written SQL
// strings, matching the placeholder style ($1, $2, ...) pgx expects.
type Store struct {
	pool *pgxpool.Pool
	qb   sq.StatementBuilderType
}

// Open connects to Postgres at connString and verifies the connection with
// a ping, the same sequence the teacher's import_cards.go script follows
// before it does anything else.
func Open(ctx context.Context, connString string) (*Store, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("store: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	return &Store{pool: pool, qb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar)}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Save upserts the snapshot for snap.GameID, msgpack-encoding it into a
// single bytea column. msgpack over JSON for the same reason the teacher
// reaches for a binary wire format on its gRPC surface: a mid-game
// snapshot is all internal state, not something a human ever reads off
// disk.
func (s *Store) Save(ctx context.Context, snap *Snapshot) error {
	payload, err := msgpack.Marshal(snap)
	if err != nil {
		return fmt.Errorf("store: encode snapshot: %w", err)
	}

	query, args, err := s.qb.Insert("game_snapshots").
		Columns("game_id", "turn_count", "payload").
		Values(snap.GameID, snap.TurnCount, payload).
		Suffix("ON CONFLICT (game_id) DO UPDATE SET turn_count = EXCLUDED.turn_count, payload = EXCLUDED.payload, updated_at = now()").
		ToSql()
	if err != nil {
		return fmt.Errorf("store: build insert: %w", err)
	}

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("store: save snapshot: %w", err)
	}
	return nil
}

// Load fetches and decodes the most recently saved snapshot for gameID.
// Returns an engineerr.NotFound if no snapshot has ever been saved for it.
func (s *Store) Load(ctx context.Context, gameID string) (*Snapshot, error) {
	query, args, err := s.qb.Select("payload").
		From("game_snapshots").
		Where(sq.Eq{"game_id": gameID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("store: build select: %w", err)
	}

	var payload []byte
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&payload); err != nil {
		if err == pgx.ErrNoRows {
			return nil, engineerr.NotFound("no snapshot saved for game %q", gameID)
		}
		return nil, fmt.Errorf("store: load snapshot: %w", err)
	}

	snap := &Snapshot{}
	if err := msgpack.Unmarshal(payload, snap); err != nil {
		return nil, fmt.Errorf("store: decode snapshot: %w", err)
	}
	return snap, nil
}

// Delete removes a game's saved snapshot, e.g. once it has concluded and
// its log has been archived elsewhere.
func (s *Store) Delete(ctx context.Context, gameID string) error {
	query, args, err := s.qb.Delete("game_snapshots").Where(sq.Eq{"game_id": gameID}).ToSql()
	if err != nil {
		return fmt.Errorf("store: build delete: %w", err)
	}
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("store: delete snapshot: %w", err)
	}
	return nil
}
