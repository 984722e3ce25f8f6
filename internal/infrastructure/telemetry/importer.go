package telemetry

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// CSV headers recognized by the importer. Source files come straight
// from the hourly OEE report export, so header casing is mixed.
const (
	colDate         = "date"
	colDeviceType   = "devicetype"
	colShiftName    = "shiftname"
	colStartHour    = "starthour"
	colEndHour      = "endhour"
	colAvgOEE       = "avg_oee"
	colAvgAvail     = "avg_avail"
	colAvgPerf      = "avg_perf"
	colAvgQuality   = "avg_quality"
	colAvgCurrent   = "avg_current"
	colPartCount    = "ai_partcount"
	colPlannedParts = "total_plannedpart"
	colPartReject   = "total_part_reject"
	colTotalEnergy  = "avg_total_energy"
	colPowerCost    = "powerunitcost"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02-01-2006",
	"01/02/2006",
	time.RFC3339,
}

var filePeriodRe = regexp.MustCompile(`(?i)^([a-z]+)[_\-](20\d{2})`)

// parseFilePeriod extracts the month name and year from a source file
// name like "january_2025.csv". Returns ("", 0) when the name does not
// follow that scheme.
func parseFilePeriod(filename string) (string, int) {
	m := filePeriodRe.FindStringSubmatch(filename)
	if m == nil {
		return "", 0
	}
	year, _ := strconv.Atoi(m[2])
	return strings.ToLower(m[1]), year
}

// ImportDir loads every per-machine CSV under dir into the store. Each
// first-level subdirectory names a machine and holds its source files.
// Re-importing a file replaces its previously loaded rows.
func (s *Store) ImportDir(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read data directory %s: %w", dir, err)
	}

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		machine := e.Name()
		files, err := filepath.Glob(filepath.Join(dir, machine, "*.csv"))
		if err != nil {
			return err
		}
		for _, path := range files {
			n, err := s.ImportFile(ctx, machine, path)
			if err != nil {
				s.logger.Warn("skipping source file",
					"machine", machine, "file", filepath.Base(path), "error", err)
				continue
			}
			s.logger.Info("imported source file",
				"machine", machine, "file", filepath.Base(path), "records", n)
		}
	}
	return nil
}

// ImportFile loads one CSV file for a machine, replacing any rows
// previously imported from the same file. Returns the number of rows
// loaded.
func (s *Store) ImportFile(ctx context.Context, machine, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	filename := filepath.Base(path)

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return 0, fmt.Errorf("failed to read header: %w", err)
	}
	idx := map[string]int{}
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := idx[colDate]; !ok {
		return 0, fmt.Errorf("missing %q column", colDate)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM shift_records WHERE machine = ? AND source_file = ?`,
		machine, filename); err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO shift_records (
			machine, date, device_type, shift_name, start_hour, end_hour,
			avg_oee, avg_avail, avg_perf, avg_quality, avg_current,
			part_count, planned_parts, part_reject, total_energy, energy_cost,
			source_file
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	n := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("row %d: %w", n+1, err)
		}

		field := func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		date, ok := parseDate(field(colDate))
		if !ok {
			continue // rows without a usable date carry no signal
		}

		shift := strings.ToUpper(field(colShiftName))
		if shift != "SH1" && shift != "SH2" {
			continue
		}

		energy := parseFloat(field(colTotalEnergy))
		cost := energy * parseFloat(field(colPowerCost))

		if _, err := stmt.ExecContext(ctx,
			machine,
			date.Format(dateLayout),
			field(colDeviceType),
			shift,
			parseInt(field(colStartHour)),
			parseInt(field(colEndHour)),
			parseFloat(field(colAvgOEE)),
			parseFloat(field(colAvgAvail)),
			parseFloat(field(colAvgPerf)),
			parseFloat(field(colAvgQuality)),
			parseFloat(field(colAvgCurrent)),
			parseFloat(field(colPartCount)),
			parseFloat(field(colPlannedParts)),
			parseFloat(field(colPartReject)),
			energy,
			cost,
			filename,
		); err != nil {
			return 0, fmt.Errorf("row %d: %w", n+1, err)
		}
		n++
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO source_files (machine, filename, size, modified, records)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (machine, filename) DO UPDATE SET
			size = excluded.size,
			modified = excluded.modified,
			records = excluded.records`,
		machine, filename, info.Size(), info.ModTime().UTC().Format(time.RFC3339), n,
	); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return n, nil
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func parseInt(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}
