package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/probelab/wavescout/internal/survey"
)

// SaveResults writes one pass's results in a single transaction.
func (s *Store) SaveResults(ctx context.Context, results []survey.Result) error {
	if len(results) == 0 {
		return nil
	}

	return s.Tx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO survey_results (
			id, pass_id, ssid, bssid, signal_pct, signal_dbm, snr_db, quality,
			channel, band, authentication, skipped, skip_reason,
			connect_success, connect_ms, diagnostic, tests_json, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, r := range results {
			ap := r.AccessPoint

			var testsJSON sql.NullString
			if len(r.Tests) > 0 {
				b, jsonErr := json.Marshal(r.Tests)
				if jsonErr != nil {
					return fmt.Errorf("marshal tests for %s: %w", ap.SSID, jsonErr)
				}
				testsJSON = sql.NullString{String: string(b), Valid: true}
			}

			var connectSuccess sql.NullBool
			var connectMs sql.NullFloat64
			var diagnostic sql.NullString
			if r.Connect != nil {
				connectSuccess = sql.NullBool{Bool: r.Connect.Success, Valid: true}
				connectMs = sql.NullFloat64{
					Float64: float64(r.Connect.Duration) / float64(time.Millisecond),
					Valid:   true,
				}
				if r.Connect.Diagnostic != "" {
					diagnostic = sql.NullString{String: r.Connect.Diagnostic, Valid: true}
				}
			}

			if _, err := stmt.ExecContext(ctx,
				r.ID, r.PassID, ap.SSID, ap.BSSID, ap.SignalPercentage,
				nullFloat(ap.SignalDBm), nullFloat(ap.SNRdB), string(ap.SignalQuality),
				ap.Channel, string(ap.Band), ap.Authentication,
				r.Skipped, nullStr(r.SkipReason),
				connectSuccess, connectMs, diagnostic, testsJSON,
				r.RecordedAt.Format(time.RFC3339),
			); err != nil {
				return fmt.Errorf("insert result %s: %w", r.ID, err)
			}
		}
		return nil
	})
}

// StoredResult is one persisted survey row, flattened for reporting.
type StoredResult struct {
	ID             string   `json:"id"`
	PassID         string   `json:"pass_id"`
	SSID           string   `json:"ssid"`
	BSSID          string   `json:"bssid"`
	SignalPct      int      `json:"signal_pct"`
	SignalDBm      *float64 `json:"signal_dbm,omitempty"`
	SNRdB          *float64 `json:"snr_db,omitempty"`
	Quality        string   `json:"quality,omitempty"`
	Channel        int      `json:"channel"`
	Band           string   `json:"band"`
	Skipped        bool     `json:"skipped"`
	SkipReason     string   `json:"skip_reason,omitempty"`
	ConnectSuccess *bool    `json:"connect_success,omitempty"`
	ConnectMs      *float64 `json:"connect_ms,omitempty"`
	Diagnostic     string   `json:"diagnostic,omitempty"`
	TestsJSON      string   `json:"tests_json,omitempty"`
	RecordedAt     string   `json:"recorded_at"`
}

// ListRecent returns the newest limit results, newest first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]StoredResult, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `SELECT
		id, pass_id, ssid, bssid, signal_pct, signal_dbm, snr_db, quality,
		channel, band, skipped, skip_reason, connect_success, connect_ms,
		diagnostic, tests_json, recorded_at
	FROM survey_results ORDER BY recorded_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []StoredResult
	for rows.Next() {
		var r StoredResult
		var signalDBm, snrDB, connectMs sql.NullFloat64
		var quality, skipReason, diagnostic, testsJSON sql.NullString
		var connectSuccess sql.NullBool

		if err := rows.Scan(
			&r.ID, &r.PassID, &r.SSID, &r.BSSID, &r.SignalPct,
			&signalDBm, &snrDB, &quality, &r.Channel, &r.Band,
			&r.Skipped, &skipReason, &connectSuccess, &connectMs,
			&diagnostic, &testsJSON, &r.RecordedAt,
		); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}

		if signalDBm.Valid {
			r.SignalDBm = &signalDBm.Float64
		}
		if snrDB.Valid {
			r.SNRdB = &snrDB.Float64
		}
		if connectMs.Valid {
			r.ConnectMs = &connectMs.Float64
		}
		if connectSuccess.Valid {
			r.ConnectSuccess = &connectSuccess.Bool
		}
		r.Quality = quality.String
		r.SkipReason = skipReason.String
		r.Diagnostic = diagnostic.String
		r.TestsJSON = testsJSON.String

		out = append(out, r)
	}
	return out, rows.Err()
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func nullStr(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
