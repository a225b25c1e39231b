package dashboard

import "strings"

// Direction is a sort orientation.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// OrderBy is a single-field ordering directive. At most one field is
// active at a time; the zero value is not meaningful, use DefaultOrderBy.
type OrderBy struct {
	Field     string
	Direction Direction
}

// sortableFields is the allow-list of fields the joined projection can be
// ordered by. Anything else falls back to the default.
var sortableFields = map[string]bool{
	"date":   true,
	"amount": true,
	"status": true,
	"name":   true,
	"email":  true,
}

// DefaultOrderBy returns the date-descending default.
func DefaultOrderBy() OrderBy {
	return OrderBy{Field: "date", Direction: Desc}
}

// ParseOrderBy parses a "field direction" string, e.g. "amount asc".
// Unknown fields and directions fall back to the default ordering.
func ParseOrderBy(raw string) OrderBy {
	if raw == "" {
		return DefaultOrderBy()
	}

	parts := strings.Fields(raw)
	if len(parts) != 2 || !sortableFields[parts[0]] {
		return DefaultOrderBy()
	}

	dir := Direction(parts[1])
	if dir != Asc && dir != Desc {
		return DefaultOrderBy()
	}

	return OrderBy{Field: parts[0], Direction: dir}
}

// Toggle returns the ordering after a click on a column header: the same
// field flips direction, a new field starts ascending.
func (o OrderBy) Toggle(field string) OrderBy {
	if !sortableFields[field] {
		return DefaultOrderBy()
	}
	if o.Field == field {
		if o.Direction == Asc {
			return OrderBy{Field: field, Direction: Desc}
		}
		return OrderBy{Field: field, Direction: Asc}
	}
	return OrderBy{Field: field, Direction: Asc}
}

// Variable renders the directive as the gateway's order_by list shape.
func (o OrderBy) Variable() []map[string]string {
	return []map[string]string{{o.Field: string(o.Direction)}}
}

// String renders the directive back to its query-string form.
func (o OrderBy) String() string {
	return o.Field + " " + string(o.Direction)
}
