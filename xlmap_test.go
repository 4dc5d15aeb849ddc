package xlmap

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportImport_PackageLevel(t *testing.T) {
	fields := []FieldEntry{
		{ID: "1", Name: "IMSI", FieldType: "String", Essence: "identity"},
	}
	mappings := []MappingRecord{{
		Field:  FieldEntry{Name: "IMSI", FieldType: "String"},
		Target: TargetNode{Name: "imsi", Path: "subscriber.imsi"},
	}}

	data, err := Export(fields, mappings, "schema-v7")
	require.NoError(t, err)
	require.NotEmpty(t, data)

	result, err := Import(data, NewRegistry())
	require.NoError(t, err)
	require.Len(t, result.Fields, 1)
	assert.True(t, result.Fields[0].Mapped)
	assert.Equal(t, "subscriber -> imsi", result.Fields[0].MappedTargetLabel)
	assert.Equal(t, "schema-v7", result.SchemaToken)
	require.Len(t, result.Mappings, 1)
}

func TestExportTo_Writer(t *testing.T) {
	var buf bytes.Buffer
	err := ExportTo(&buf, []FieldEntry{{Name: "A", FieldType: "String"}}, nil, "")
	require.NoError(t, err)
	assert.Positive(t, buf.Len())
}
