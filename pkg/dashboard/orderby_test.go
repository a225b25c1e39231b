package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultOrderBy(t *testing.T) {
	assert.Equal(t, OrderBy{Field: "date", Direction: Desc}, DefaultOrderBy())
}

func TestParseOrderBy(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want OrderBy
	}{
		{"empty falls back to default", "", OrderBy{Field: "date", Direction: Desc}},
		{"valid field and direction", "amount asc", OrderBy{Field: "amount", Direction: Asc}},
		{"status descending", "status desc", OrderBy{Field: "status", Direction: Desc}},
		{"unknown field falls back", "secret asc", OrderBy{Field: "date", Direction: Desc}},
		{"unknown direction falls back", "amount sideways", OrderBy{Field: "date", Direction: Desc}},
		{"garbage falls back", "amount", OrderBy{Field: "date", Direction: Desc}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseOrderBy(tt.raw))
		})
	}
}

func TestOrderByToggle(t *testing.T) {
	o := OrderBy{Field: "date", Direction: Asc}

	o = o.Toggle("date")
	assert.Equal(t, OrderBy{Field: "date", Direction: Desc}, o)

	o = o.Toggle("date")
	assert.Equal(t, OrderBy{Field: "date", Direction: Asc}, o)

	o = o.Toggle("amount")
	assert.Equal(t, OrderBy{Field: "amount", Direction: Asc}, o, "switching field starts ascending")

	o = o.Toggle("nonsense")
	assert.Equal(t, DefaultOrderBy(), o, "unknown field resets to default")
}

func TestOrderByVariable(t *testing.T) {
	v := OrderBy{Field: "amount", Direction: Asc}.Variable()
	assert.Equal(t, []map[string]string{{"amount": "asc"}}, v)
}
