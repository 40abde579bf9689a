package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectRoomRefsNestedEventRooms(t *testing.T) {
	doc := map[string]any{
		"idEvent": float64(5),
		"eventRooms": []any{
			map[string]any{"idRoom": float64(3)},
			map[string]any{"idRoom": float64(4)},
		},
	}

	refs := CollectRoomRefs(doc, DefaultFieldRoles, MaxScanDepth)
	assert.ElementsMatch(t, []int64{3, 4}, refs.IDs)
}

func TestCollectRoomRefsNestedRoomObject(t *testing.T) {
	doc := map[string]any{
		"schedule": map[string]any{
			"room": map[string]any{"idSalon": float64(9), "nombreSalon": "Salón Real"},
		},
	}

	refs := CollectRoomRefs(doc, DefaultFieldRoles, MaxScanDepth)
	assert.Equal(t, []int64{9}, refs.IDs)
	assert.Equal(t, []string{"Salón Real"}, refs.Names)
}

func TestCollectRoomRefsFreeTextRoom(t *testing.T) {
	doc := map[string]any{"salon": "Salón Anexo"}

	refs := CollectRoomRefs(doc, DefaultFieldRoles, MaxScanDepth)
	assert.Empty(t, refs.IDs)
	assert.Equal(t, []string{"Salón Anexo"}, refs.Names)
}

func TestCollectRoomRefsNumericStringID(t *testing.T) {
	doc := map[string]any{"roomId": "12"}

	refs := CollectRoomRefs(doc, DefaultFieldRoles, MaxScanDepth)
	assert.Equal(t, []int64{12}, refs.IDs)
}

func TestCollectRoomRefsDepthBound(t *testing.T) {
	// Build a chain nested one level past the bound; the reference must
	// not be collected.
	deep := map[string]any{"idRoom": float64(1)}
	var doc any = deep
	for i := 0; i < MaxScanDepth+1; i++ {
		doc = map[string]any{"wrapper": doc}
	}

	refs := CollectRoomRefs(doc, DefaultFieldRoles, MaxScanDepth)
	assert.Empty(t, refs.IDs)
}

func TestCollectRoomRefsWithinDepthBound(t *testing.T) {
	doc := map[string]any{
		"a": map[string]any{"b": map[string]any{"idRoom": float64(1)}},
	}

	refs := CollectRoomRefs(doc, DefaultFieldRoles, MaxScanDepth)
	assert.Equal(t, []int64{1}, refs.IDs)
}

func TestCollectRoomRefsFoldedFieldNames(t *testing.T) {
	doc := map[string]any{"IdSalón": float64(6)}

	refs := CollectRoomRefs(doc, DefaultFieldRoles, MaxScanDepth)
	assert.Equal(t, []int64{6}, refs.IDs)
}

func TestCollectRoomRefsCustomRoles(t *testing.T) {
	roles := map[string]FieldRole{"venueroom": RoleRoomID}
	doc := map[string]any{"venueRoom": float64(2), "idRoom": float64(3)}

	refs := CollectRoomRefs(doc, roles, MaxScanDepth)
	assert.Equal(t, []int64{2}, refs.IDs)
}
