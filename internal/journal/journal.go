package journal

import (
	"context"
	"log"

	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5"
	pkgerrors "github.com/pkg/errors"

	"github.com/Fermi-Capital/trading-streams-research/internal/models"
	"github.com/Fermi-Capital/trading-streams-research/pkg/db"
)

const schema = `
CREATE TABLE IF NOT EXISTS decision_journal (
    id         BIGSERIAL PRIMARY KEY,
    key        TEXT        NOT NULL,
    action     TEXT        NOT NULL,
    reason     TEXT        NOT NULL,
    signal     SMALLINT    NOT NULL,
    price      DOUBLE PRECISION,
    volume     DOUBLE PRECISION,
    tx_ids     TEXT,
    state      JSONB,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Journal — лента решений цикла в Postgres. Nil-safe: без менеджера все
// вызовы — no-op, цикл от журнала зависеть не должен.
type Journal struct {
	txm db.TxManager
}

func New(txm db.TxManager) *Journal {
	return &Journal{txm: txm}
}

func (j *Journal) Enabled() bool { return j != nil && j.txm != nil }

// Init создаёт таблицу. Ошибка не фатальна для приложения — журнал
// просто останется пустым.
func (j *Journal) Init(ctx context.Context) error {
	if !j.Enabled() {
		return nil
	}
	err := j.txm.RunMaster(ctx, func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctx, schema)
		return err
	})
	return pkgerrors.Wrap(err, "journal init")
}

// Record пишет одно решение цикла. Любая ошибка только логируется.
func (j *Journal) Record(ctx context.Context, key string, dec models.Decision, st models.SignalState, res *models.OrderResult) {
	if !j.Enabled() {
		return
	}

	stateJSON, err := sonic.Marshal(st)
	if err != nil {
		stateJSON = []byte("{}")
	}

	var txIDs string
	if res != nil {
		for i, id := range res.TxIDs {
			if i > 0 {
				txIDs += ","
			}
			txIDs += id
		}
	}

	err = j.txm.RunMaster(ctx, func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO decision_journal (key, action, reason, signal, price, volume, tx_ids, state)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			key, dec.Action.String(), dec.Reason, int16(st.LastNonZero),
			st.LastNonZeroPrice, dec.Volume, txIDs, string(stateJSON),
		)
		return err
	})
	if err != nil {
		log.Printf("[JOURNAL] record failed for %s: %v", key, err)
	}
}
