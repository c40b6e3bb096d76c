package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/hmjoarksink/pkg/database"
	"github.com/ghuser/hmjoarksink/pkg/events"
	"github.com/ghuser/hmjoarksink/services/journalpost/domain/models"
)

const insertSoknad = `INSERT INTO v1_soknad (soknads_id, fnr_bruker, fnr_innsender, data)
VALUES ($1, $2, $3, $4)
ON CONFLICT DO NOTHING`

// TxPublishers creates publishers bound to a transaction. *events.EventBus
// satisfies it.
type TxPublishers interface {
	NewTxPublisher(tx *sql.Tx) (message.Publisher, error)
}

// SoknadRepository implements repositories.SoknadRepository against PostgreSQL.
type SoknadRepository struct {
	db    *database.Database
	bus   TxPublishers
	topic string
}

// NewSoknadRepository returns a SoknadRepository that stages forwarded
// events on topic through bus.
func NewSoknadRepository(db *database.Database, bus TxPublishers, topic string) *SoknadRepository {
	return &SoknadRepository{db: db, bus: bus, topic: topic}
}

// Lagre inserts s and publishes forward within the same transaction.
func (r *SoknadRepository) Lagre(ctx context.Context, s *models.Soknad, forward events.Outcome) (bool, error) {
	inserted := false
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, insertSoknad, s.SoknadID, s.FnrBruker, s.FnrInnsender, string(s.Data))
		if err != nil {
			return fmt.Errorf("insert soknad: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("insert soknad: rows affected: %w", err)
		}
		if n == 0 {
			return nil
		}
		inserted = true

		msg, err := forward.Message()
		if err != nil {
			return err
		}
		p, err := r.bus.NewTxPublisher(tx)
		if err != nil {
			return fmt.Errorf("create publisher: %w", err)
		}
		if err := p.Publish(r.topic, msg); err != nil {
			return fmt.Errorf("publish soknad: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return inserted, nil
}
