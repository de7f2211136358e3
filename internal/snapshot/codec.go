// Package snapshot serializes mutable entity state to compact strings and
// bundles them into save-game records.
package snapshot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/samdwyer/labyrinth/internal/entity"
)

const (
	recordSep = ";"
	fieldSep  = ","
	keySep    = "="
)

// Encode writes one "x,y,flag" record per entity in slice order, joined by
// ";". The flag is written as 0 or 1.
func Encode(entities []*entity.Entity) string {
	var b strings.Builder
	for i, e := range entities {
		if i > 0 {
			b.WriteString(recordSep)
		}
		writeState(&b, e)
	}
	return b.String()
}

// Decode restores entities from an Encode string by position. Only the first
// min(saved, current) records are applied. A malformed record leaves its
// entity untouched and decoding continues; the returned error joins every
// record failure.
func Decode(s string, entities []*entity.Entity) error {
	records := splitRecords(s)
	if len(records) != len(entities) {
		log.Debug().Int("saved", len(records)).Int("current", len(entities)).
			Msg("snapshot count mismatch, applying common prefix")
	}

	var errs []error
	for i := 0; i < min(len(records), len(entities)); i++ {
		if err := readState(records[i], entities[i]); err != nil {
			errs = append(errs, fmt.Errorf("record %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

func splitRecords(s string) []string {
	var out []string
	for _, rec := range strings.Split(s, recordSep) {
		if rec = strings.TrimSpace(rec); rec != "" {
			out = append(out, rec)
		}
	}
	return out
}

func writeState(b *strings.Builder, e *entity.Entity) {
	b.WriteString(strconv.FormatFloat(e.X, 'g', -1, 64))
	b.WriteString(fieldSep)
	b.WriteString(strconv.FormatFloat(e.Y, 'g', -1, 64))
	b.WriteString(fieldSep)
	if e.Flag() {
		b.WriteByte('1')
	} else {
		b.WriteByte('0')
	}
}

// readState parses "x,y,flag" fully before touching the entity. The flag
// may be 0/1 or true/false.
func readState(rec string, e *entity.Entity) error {
	parts := strings.Split(rec, fieldSep)
	if len(parts) != 3 {
		return fmt.Errorf("want 3 fields, got %d in %q", len(parts), rec)
	}

	x, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return fmt.Errorf("bad x: %w", err)
	}
	y, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return fmt.Errorf("bad y: %w", err)
	}
	flag, err := strconv.ParseBool(parts[2])
	if err != nil {
		return fmt.Errorf("bad flag: %w", err)
	}

	e.X, e.Y = x, y
	e.SetFlag(flag)
	return nil
}
