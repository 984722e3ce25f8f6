// Package telemetry implements the machine telemetry repository on
// SQLite, including the CSV importer that loads per-machine source
// files into it.
package telemetry

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/oeelens/oee-apiserver/internal/domain"
	"github.com/oeelens/oee-apiserver/internal/domain/entity"
)

const schema = `
CREATE TABLE IF NOT EXISTS shift_records (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	machine      TEXT NOT NULL,
	date         TEXT NOT NULL,
	device_type  TEXT NOT NULL DEFAULT '',
	shift_name   TEXT NOT NULL DEFAULT '',
	start_hour   INTEGER NOT NULL DEFAULT 0,
	end_hour     INTEGER NOT NULL DEFAULT 0,
	avg_oee      REAL NOT NULL DEFAULT 0,
	avg_avail    REAL NOT NULL DEFAULT 0,
	avg_perf     REAL NOT NULL DEFAULT 0,
	avg_quality  REAL NOT NULL DEFAULT 0,
	avg_current  REAL NOT NULL DEFAULT 0,
	part_count   REAL NOT NULL DEFAULT 0,
	planned_parts REAL NOT NULL DEFAULT 0,
	part_reject  REAL NOT NULL DEFAULT 0,
	total_energy REAL NOT NULL DEFAULT 0,
	energy_cost  REAL NOT NULL DEFAULT 0,
	source_file  TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_shift_records_machine_date
	ON shift_records (machine, date);

CREATE TABLE IF NOT EXISTS source_files (
	machine  TEXT NOT NULL,
	filename TEXT NOT NULL,
	size     INTEGER NOT NULL DEFAULT 0,
	modified TEXT NOT NULL DEFAULT '',
	records  INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (machine, filename)
);
`

const dateLayout = "2006-01-02"

// Store is the SQLite-backed machine telemetry repository.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ domain.MachineRepository = (*Store)(nil)

// NewStore creates the repository and ensures the schema exists.
func NewStore(db *sql.DB, logger *slog.Logger) (*Store, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// ListMachines returns all known machine names, naturally sorted so
// MC_PRESS_9 comes before MC_PRESS_133.
func (s *Store) ListMachines(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT machine FROM shift_records`)
	if err != nil {
		return nil, domain.NewInternalError(fmt.Errorf("failed to list machines: %w", err))
	}
	defer rows.Close()

	var machines []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, domain.NewInternalError(fmt.Errorf("failed to scan machine name: %w", err))
		}
		machines = append(machines, name)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewInternalError(fmt.Errorf("failed to list machines: %w", err))
	}

	sort.Slice(machines, func(i, j int) bool {
		return naturalLess(machines[i], machines[j])
	})
	return machines, nil
}

// ListFiles returns the imported source files for one machine, newest
// modification first.
func (s *Store) ListFiles(ctx context.Context, machine string) ([]entity.DataFile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT filename, size, modified, records
		FROM source_files WHERE machine = ?
		ORDER BY modified DESC`, machine)
	if err != nil {
		return nil, domain.NewInternalError(fmt.Errorf("failed to list files: %w", err))
	}
	defer rows.Close()

	var files []entity.DataFile
	for rows.Next() {
		var f entity.DataFile
		var modified string
		if err := rows.Scan(&f.Filename, &f.Size, &modified, &f.Records); err != nil {
			return nil, domain.NewInternalError(fmt.Errorf("failed to scan file row: %w", err))
		}
		f.Modified, _ = time.Parse(time.RFC3339, modified)
		f.Month, f.Year = parseFilePeriod(f.Filename)
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewInternalError(fmt.Errorf("failed to list files: %w", err))
	}

	if len(files) == 0 {
		if known, err := s.machineExists(ctx, machine); err != nil {
			return nil, err
		} else if !known {
			return nil, domain.NewNotFoundError("machine", machine)
		}
	}
	return files, nil
}

// QueryRange returns shift records for a machine between two dates
// (inclusive), ordered by date then start hour. An empty machine name
// matches all machines.
func (s *Store) QueryRange(ctx context.Context, machine string, start, end time.Time) ([]entity.ShiftRecord, error) {
	query := `
		SELECT machine, date, device_type, shift_name, start_hour, end_hour,
		       avg_oee, avg_avail, avg_perf, avg_quality, avg_current,
		       part_count, planned_parts, part_reject, total_energy, energy_cost
		FROM shift_records
		WHERE date >= ? AND date <= ?`
	args := []any{start.Format(dateLayout), end.Format(dateLayout)}
	if machine != "" {
		query += ` AND machine = ?`
		args = append(args, machine)
	}
	query += ` ORDER BY date, start_hour`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.NewInternalError(fmt.Errorf("failed to query records: %w", err))
	}
	defer rows.Close()

	var records []entity.ShiftRecord
	for rows.Next() {
		var r entity.ShiftRecord
		var date string
		if err := rows.Scan(&r.Machine, &date, &r.DeviceType, &r.ShiftName,
			&r.StartHour, &r.EndHour,
			&r.AvgOEE, &r.AvgAvail, &r.AvgPerf, &r.AvgQuality, &r.AvgCurrent,
			&r.PartCount, &r.PlannedParts, &r.PartReject,
			&r.TotalEnergy, &r.EnergyCost); err != nil {
			return nil, domain.NewInternalError(fmt.Errorf("failed to scan record: %w", err))
		}
		r.Date, _ = time.Parse(dateLayout, date)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewInternalError(fmt.Errorf("failed to query records: %w", err))
	}
	return records, nil
}

func (s *Store) machineExists(ctx context.Context, machine string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM shift_records WHERE machine = ?`, machine).Scan(&n)
	if err != nil {
		return false, domain.NewInternalError(fmt.Errorf("failed to check machine: %w", err))
	}
	return n > 0, nil
}

// naturalLess compares names treating digit runs as numbers, so
// "MC_PRESS_9" sorts before "MC_PRESS_133".
func naturalLess(a, b string) bool {
	for len(a) > 0 && len(b) > 0 {
		if isDigit(a[0]) && isDigit(b[0]) {
			na, ra := takeNumber(a)
			nb, rb := takeNumber(b)
			if na != nb {
				return na < nb
			}
			a, b = ra, rb
			continue
		}
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		a, b = a[1:], b[1:]
	}
	return len(a) < len(b)
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func takeNumber(s string) (int, string) {
	i, n := 0, 0
	for i < len(s) && isDigit(s[i]) {
		n = n*10 + int(s[i]-'0')
		i++
	}
	return n, s[i:]
}
