package xlmap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_UpsertAndGet(t *testing.T) {
	reg := NewRegistry()
	reg.Upsert(FieldEntry{ID: "1", Name: "IMSI", FieldType: "String", Essence: "subscriber identity"})

	e, ok := reg.Get(FieldKey{Name: "IMSI", FieldType: "String"})
	require.True(t, ok)
	assert.Equal(t, "subscriber identity", e.Essence)

	_, ok = reg.Get(FieldKey{Name: "IMSI", FieldType: "Number"})
	assert.False(t, ok, "identity is the composite of name and field type")
}

func TestRegistry_UpsertKeepsIDAndIdentity(t *testing.T) {
	reg := NewRegistry()
	reg.Upsert(FieldEntry{ID: "orig", Name: "Phone", FieldType: "String"})
	reg.Upsert(FieldEntry{ID: "other", Name: "Phone", FieldType: "String", Notes: "updated"})

	e, ok := reg.Get(FieldKey{Name: "Phone", FieldType: "String"})
	require.True(t, ok)
	assert.Equal(t, "orig", e.ID, "identity and ID are immutable once created")
	assert.Equal(t, "updated", e.Notes)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_SnapshotIsACopy(t *testing.T) {
	reg := NewRegistry()
	reg.Upsert(FieldEntry{Name: "A", FieldType: "String"})

	snap := reg.Snapshot()
	require.Len(t, snap, 1)
	snap[0].Notes = "mutated copy"

	e, _ := reg.Get(FieldKey{Name: "A", FieldType: "String"})
	assert.Empty(t, e.Notes, "snapshot mutation must not leak into the registry")
}

func TestRegistry_SnapshotPreservesInsertionOrder(t *testing.T) {
	reg := NewRegistry()
	reg.Upsert(FieldEntry{Name: "C", FieldType: "String"})
	reg.Upsert(FieldEntry{Name: "A", FieldType: "String"})
	reg.Upsert(FieldEntry{Name: "B", FieldType: "String"})

	snap := reg.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "C", snap[0].Name)
	assert.Equal(t, "A", snap[1].Name)
	assert.Equal(t, "B", snap[2].Name)
}

func TestRegistry_ReplaceSwapsWholeContent(t *testing.T) {
	reg := NewRegistry()
	reg.Upsert(FieldEntry{Name: "Old", FieldType: "String"})
	v := reg.Version()

	reg.Replace([]FieldEntry{
		{Name: "New1", FieldType: "String"},
		{Name: "New2", FieldType: "Number"},
	})

	assert.Equal(t, 2, reg.Len())
	_, ok := reg.Get(FieldKey{Name: "Old", FieldType: "String"})
	assert.False(t, ok)
	assert.Greater(t, reg.Version(), v)
}

func TestRegistry_Clear(t *testing.T) {
	reg := NewRegistry()
	reg.Upsert(FieldEntry{Name: "A", FieldType: "String"})
	reg.Clear()
	assert.Equal(t, 0, reg.Len())
	assert.Empty(t, reg.Snapshot())
}

func TestBuildMappingIndex_LatestTimestampWins(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	records := []MappingRecord{
		{
			Field:     FieldEntry{Name: "IMSI", FieldType: "String"},
			Target:    TargetNode{Name: "newer"},
			CreatedAt: base.Add(time.Hour),
		},
		{
			Field:     FieldEntry{Name: "IMSI", FieldType: "String"},
			Target:    TargetNode{Name: "older"},
			CreatedAt: base,
		},
	}

	index := BuildMappingIndex(records)
	require.Len(t, index, 1)
	assert.Equal(t, "newer", index[FieldKey{Name: "IMSI", FieldType: "String"}].Target.Name,
		"highest timestamp wins regardless of slice order")
}

func TestBuildMappingIndex_EqualTimestampsLaterPositionWins(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	records := []MappingRecord{
		{Field: FieldEntry{Name: "A", FieldType: "String"}, Target: TargetNode{Name: "first"}, CreatedAt: at},
		{Field: FieldEntry{Name: "A", FieldType: "String"}, Target: TargetNode{Name: "second"}, CreatedAt: at},
	}

	index := BuildMappingIndex(records)
	assert.Equal(t, "second", index[FieldKey{Name: "A", FieldType: "String"}].Target.Name)
}

func TestSortedKeys(t *testing.T) {
	index := map[FieldKey]MappingRecord{
		{Name: "B", FieldType: "String"}: {},
		{Name: "A", FieldType: "Number"}: {},
		{Name: "A", FieldType: "String"}: {},
	}
	keys := SortedKeys(index)
	require.Len(t, keys, 3)
	assert.Equal(t, FieldKey{Name: "A", FieldType: "Number"}, keys[0])
	assert.Equal(t, FieldKey{Name: "A", FieldType: "String"}, keys[1])
	assert.Equal(t, FieldKey{Name: "B", FieldType: "String"}, keys[2])
}
