package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// RecordRoundResult persists the per-player scores of a finished round. The
// engine calls this best-effort; play never waits on it and the in-memory
// state remains the only authority.
func RecordRoundResult(ctx context.Context, roomID string, roundNum int, scores, totals map[uuid.UUID]int) error {
	return pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		q := `
			INSERT INTO round_results (room_id, round_num, player_id, score, total)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (room_id, round_num, player_id)
			DO UPDATE SET score=$4, total=$5
		`
		for playerID, score := range scores {
			if _, err := tx.Exec(ctx, q, roomID, roundNum, playerID, score, totals[playerID]); err != nil {
				return err
			}
		}
		return nil
	})
}
