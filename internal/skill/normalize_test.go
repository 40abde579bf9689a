package skill

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestEntitiesBareArray(t *testing.T) {
	payload := decode(t, `[{"idRoom": 1}, {"idRoom": 2}]`)

	items := Entities(payload, "rooms")
	require.Len(t, items, 2)
	assert.Equal(t, float64(1), items[0]["idRoom"])
}

func TestEntitiesKeyedArray(t *testing.T) {
	payload := decode(t, `{"rooms": [{"idRoom": 7}]}`)

	items := Entities(payload, "rooms")
	require.Len(t, items, 1)
	assert.Equal(t, float64(7), items[0]["idRoom"])
}

func TestEntitiesSingularKeyVariant(t *testing.T) {
	payload := decode(t, `{"room": [{"idRoom": 7}]}`)

	items := Entities(payload, "rooms")
	assert.Len(t, items, 1)
}

func TestEntitiesResultEnvelope(t *testing.T) {
	payload := decode(t, `{"result": {"rooms": [{"idRoom": 3}]}}`)

	items := Entities(payload, "rooms")
	require.Len(t, items, 1)
	assert.Equal(t, float64(3), items[0]["idRoom"])
}

func TestEntitiesResultBareArray(t *testing.T) {
	payload := decode(t, `{"result": [{"idRoom": 3}]}`)

	items := Entities(payload, "rooms")
	assert.Len(t, items, 1)
}

func TestEntitiesUnrecognizedShapeIsEmpty(t *testing.T) {
	for _, raw := range []string{`{"data": {"nested": true}}`, `"just a string"`, `42`} {
		items := Entities(decode(t, raw), "rooms")
		assert.NotNil(t, items)
		assert.Empty(t, items, raw)
	}
}

func TestEntitiesNilPayload(t *testing.T) {
	items := Entities(nil, "rooms")
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestEntitiesDropsNonObjectItems(t *testing.T) {
	payload := decode(t, `[{"idRoom": 1}, "stray", 5, null]`)

	items := Entities(payload, "rooms")
	assert.Len(t, items, 1)
}

func TestEntitiesBareArrayWinsOverKeyed(t *testing.T) {
	// Priority order is fixed: a bare array is matched before any
	// keyed lookup, so the same payload always normalizes the same way.
	payload := decode(t, `[{"a": 1}]`)
	assert.Len(t, Entities(payload, "rooms"), 1)
}

func TestNumberCoercion(t *testing.T) {
	cases := []struct {
		in   any
		want float64
		ok   bool
	}{
		{float64(3.5), 3.5, true},
		{int(4), 4, true},
		{json.Number("12.25"), 12.25, true},
		{"1,250.50", 1250.5, true},
		{" 42 ", 42, true},
		{"", 0, false},
		{"abc", 0, false},
		{nil, 0, false},
		{true, 0, false},
	}
	for _, tc := range cases {
		got, ok := Number(tc.in)
		assert.Equal(t, tc.ok, ok, "input %v", tc.in)
		if tc.ok {
			assert.Equal(t, tc.want, got, "input %v", tc.in)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "1024", FormatNumber(1024))
	assert.Equal(t, "3.5", FormatNumber(3.5))
}

func TestISODate(t *testing.T) {
	assert.Equal(t, "2024-06-01", ISODate("2024-06-01T00:00:00Z"))
	assert.Equal(t, "2024-06-01", ISODate("2024-06-01"))
	assert.Equal(t, "", ISODate("not a date"))
	assert.Equal(t, "", ISODate(nil))
}

func TestFold(t *testing.T) {
	assert.Equal(t, "reunion interna", Fold("Reunión Interna"))
	assert.Equal(t, "salon penon", Fold("  Salón Peñón "))
}

func TestFoldKey(t *testing.T) {
	assert.Equal(t, "porconfirmar", FoldKey("Por confirmar"))
	assert.Equal(t, "porconfirmar", FoldKey("por-confirmar"))
	assert.Equal(t, "idsalon", FoldKey("idSalón"))
}

func TestDecodeList(t *testing.T) {
	type row struct {
		ID int64 `json:"id"`
	}
	items := []map[string]any{{"id": float64(1), "extra": "x"}, {"id": float64(2)}}

	rows := DecodeList[row](items)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(2), rows[1].ID)
}
