package snapshot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/samdwyer/labyrinth/internal/entity"
)

// EncodeKeyed writes one "id=x,y,flag" record per entity. Records are matched
// by entity ID on decode, so reordering or resizing a collection does not
// shift state onto the wrong entity.
func EncodeKeyed(entities []*entity.Entity) string {
	var b strings.Builder
	for i, e := range entities {
		if i > 0 {
			b.WriteString(recordSep)
		}
		b.WriteString(e.ID)
		b.WriteString(keySep)
		writeState(&b, e)
	}
	return b.String()
}

// DecodeKeyed restores entities by ID. Unknown IDs are skipped; entities
// without a record keep their state.
func DecodeKeyed(s string, entities []*entity.Entity) error {
	byID := make(map[string]*entity.Entity, len(entities))
	for _, e := range entities {
		byID[e.ID] = e
	}

	var errs []error
	unknown := 0
	for i, rec := range splitRecords(s) {
		id, state, ok := strings.Cut(rec, keySep)
		if !ok {
			errs = append(errs, fmt.Errorf("record %d: missing id in %q", i, rec))
			continue
		}
		e, found := byID[id]
		if !found {
			unknown++
			continue
		}
		if err := readState(state, e); err != nil {
			errs = append(errs, fmt.Errorf("entity %s: %w", id, err))
		}
	}

	if unknown > 0 {
		log.Debug().Int("unknown", unknown).Msg("skipped snapshot records for unknown entities")
	}
	return errors.Join(errs...)
}
