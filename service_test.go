package xlmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureListener records every event the service emits.
type captureListener struct {
	statuses  []StatusEvent
	refreshes []RefreshEvent
}

func (c *captureListener) OnStatus(e StatusEvent)             { c.statuses = append(c.statuses, e) }
func (c *captureListener) OnRegistryRefreshed(e RefreshEvent) { c.refreshes = append(c.refreshes, e) }

func (c *captureListener) lastStatus(t *testing.T) StatusEvent {
	t.Helper()
	require.NotEmpty(t, c.statuses)
	return c.statuses[len(c.statuses)-1]
}

func TestService_ExportEmitsSuccess(t *testing.T) {
	reg := NewRegistry()
	reg.Upsert(FieldEntry{Name: "IMSI", FieldType: "String"})

	rec := &captureListener{}
	svc := NewService(reg, WithListener(rec))

	data, err := svc.Export(nil, "")
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	e := rec.lastStatus(t)
	assert.Equal(t, SeveritySuccess, e.Severity)
	assert.Positive(t, e.Duration)
}

func TestService_ImportRejectsUnsupportedExtension(t *testing.T) {
	reg := NewRegistry()
	reg.Upsert(FieldEntry{Name: "Phone", FieldType: "String"})
	version := reg.Version()

	rec := &captureListener{}
	svc := NewService(reg, WithListener(rec))

	_, err := svc.Import("fields.csv", []byte("a,b,c"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	assert.Equal(t, version, reg.Version(), "rejected upload must not touch the registry")
	assert.Equal(t, SeverityError, rec.lastStatus(t).Severity)
	assert.Empty(t, rec.refreshes)
}

func TestService_ImportFailureLeavesRegistryUntouched(t *testing.T) {
	reg := NewRegistry()
	reg.Upsert(FieldEntry{Name: "Phone", FieldType: "String"})
	version := reg.Version()

	rec := &captureListener{}
	svc := NewService(reg, WithListener(rec))

	_, err := svc.Import("broken.xlsx", []byte("garbage"))
	require.Error(t, err)

	assert.Equal(t, version, reg.Version())
	assert.Equal(t, 1, reg.Len())
	assert.Equal(t, SeverityError, rec.lastStatus(t).Severity)
	assert.Empty(t, rec.refreshes)
}

func TestService_ImportSwapsRegistryAndNotifies(t *testing.T) {
	reg := NewRegistry()
	reg.Upsert(FieldEntry{ID: "1", Name: "IMSI", FieldType: "String", Essence: "identity"})

	mappings := []MappingRecord{{
		Field:  FieldEntry{Name: "IMSI", FieldType: "String"},
		Target: TargetNode{Name: "imsi", Path: "subscriber.imsi"},
	}}
	data, err := NewEncoder().Encode(reg.Snapshot(), mappings, "schema-v7")
	require.NoError(t, err)

	rec := &captureListener{}
	svc := NewService(reg, WithListener(rec))

	result, err := svc.Import("mapping.xlsx", data)
	require.NoError(t, err)

	// Registry now holds the merged state.
	e, ok := reg.Get(FieldKey{Name: "IMSI", FieldType: "String"})
	require.True(t, ok)
	assert.True(t, e.Mapped)
	assert.Equal(t, "subscriber -> imsi", e.MappedTargetLabel)

	require.Len(t, rec.refreshes, 1)
	refresh := rec.refreshes[0]
	assert.Equal(t, result.Fields, refresh.Fields)
	assert.Equal(t, result.Mappings, refresh.Mappings)
	assert.Equal(t, "schema-v7", refresh.SchemaToken)
	assert.Equal(t, SeveritySuccess, rec.lastStatus(t).Severity)
}

func TestService_ImportAcceptsUpperCaseExtension(t *testing.T) {
	reg := NewRegistry()
	data, err := NewEncoder().Encode([]FieldEntry{{Name: "A", FieldType: "String"}}, nil, "")
	require.NoError(t, err)

	svc := NewService(reg)
	_, err = svc.Import("MAPPING.XLSX", data)
	assert.NoError(t, err)
}

func TestService_TemplateRoundTrip(t *testing.T) {
	reg := NewRegistry()
	svc := NewService(reg, WithIDGenerator(sequentialIDs()))

	tpl, err := svc.ExportTemplate()
	require.NoError(t, err)

	// Fill two rows of the template as a supplier would.
	f := openWorkbook(t, tpl)
	require.NoError(t, f.SetSheetRow("Template", "A2", &[]any{"IMSI", "String", "identity", "", "yes", ""}))
	require.NoError(t, f.SetSheetRow("Template", "A3", &[]any{"MSISDN", "String", "phone", "", "", "roaming only"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	entries, err := svc.ImportTemplate("filled.xlsx", buf.Bytes())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, 2, reg.Len())
	e, ok := reg.Get(FieldKey{Name: "MSISDN", FieldType: "String"})
	require.True(t, ok)
	assert.Equal(t, "phone", e.Essence)
	assert.Equal(t, "roaming only", e.Notes)
	assert.NotEmpty(t, e.ID)
}

func TestSupportedUpload(t *testing.T) {
	assert.True(t, SupportedUpload("a.xlsx"))
	assert.True(t, SupportedUpload("a.xls"))
	assert.True(t, SupportedUpload("A.XLSX"))
	assert.False(t, SupportedUpload("a.csv"))
	assert.False(t, SupportedUpload("a"))
}
