package models

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/polycampus/backend/internal/app/schema"
)

// Entity is a stored content record together with its store-assigned
// identifier. Identifiers are never generated client-side.
type Entity struct {
	ID     uuid.UUID
	Fields schema.Record
}

// MarshalJSON flattens the identifier into the field map so API clients see
// a single object per record.
func (e Entity) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(e.Fields)+1)
	for k, v := range e.Fields {
		m[k] = v
	}
	m["id"] = e.ID.String()
	return json.Marshal(m)
}

// ContentSpec binds a content kind to its storage collection and the
// server-side ordering of its list query.
type ContentSpec struct {
	Kind    schema.Kind
	Table   string
	OrderBy string
}

var (
	// Faculty and routine sort by display order, ties broken by arrival order.
	FacultySpec = ContentSpec{Kind: schema.KindFaculty, Table: "faculty", OrderBy: "display_order ASC, created_at ASC"}
	RoutineSpec = ContentSpec{Kind: schema.KindRoutine, Table: "routine", OrderBy: "semester ASC, display_order ASC, created_at ASC"}
	// Notices sort newest first; display order does not apply.
	NoticeSpec = ContentSpec{Kind: schema.KindNotice, Table: "notices", OrderBy: "date DESC, created_at DESC"}
)
