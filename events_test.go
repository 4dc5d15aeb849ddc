package xlmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListenerFuncs_NilSafe(t *testing.T) {
	var l ListenerFuncs
	assert.NotPanics(t, func() {
		l.OnStatus(StatusEvent{Message: "hi"})
		l.OnRegistryRefreshed(RefreshEvent{})
	})
}

func TestListenerFuncs_Forwards(t *testing.T) {
	var gotStatus *StatusEvent
	var gotRefresh *RefreshEvent
	l := ListenerFuncs{
		Status:    func(e StatusEvent) { gotStatus = &e },
		Refreshed: func(e RefreshEvent) { gotRefresh = &e },
	}
	l.OnStatus(StatusEvent{Message: "done", Severity: SeveritySuccess})
	l.OnRegistryRefreshed(RefreshEvent{SchemaToken: "tok"})

	assert.Equal(t, "done", gotStatus.Message)
	assert.Equal(t, "tok", gotRefresh.SchemaToken)
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "info", SeverityInfo.String())
	assert.Equal(t, "success", SeveritySuccess.String())
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "error", SeverityError.String())
}
