package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogEntry_Format(t *testing.T) {
	entry := LogEntry{
		Time:    time.Date(2026, 1, 2, 9, 4, 5, 0, time.UTC),
		Stage:   StagePull,
		Message: "Pulling from library/nginx",
	}

	assert.Equal(t, "[pull] Pulling from library/nginx", entry.Line())
	assert.Equal(t, "[09:04:05] [pull] Pulling from library/nginx", entry.String())

	entry.Stage = ""
	assert.Equal(t, "Pulling from library/nginx", entry.Line())
}

func TestSessionEvent_JSON(t *testing.T) {
	tests := []struct {
		name  string
		event SessionEvent
		want  map[string]interface{}
	}{
		{"log", LogEvent("[push] done"), map[string]interface{}{"type": "log", "message": "[push] done"}},
		{"status", StatusEvent(PushStatusError), map[string]interface{}{"type": "status", "status": "error"}},
		{"close", CloseEvent(), map[string]interface{}{"type": "close"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.event)
			require.NoError(t, err)

			var got map[string]interface{}
			require.NoError(t, json.Unmarshal(data, &got))
			assert.Contains(t, got, "time")
			delete(got, "time")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStageError(t *testing.T) {
	err := fmt.Errorf("push: %w", &StageError{Stage: StageTag, ExitCode: -1, Err: ErrStageTimeout})

	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, "docker tag failed", stageErr.Error())
	assert.ErrorIs(t, err, ErrStageTimeout)
}

func TestRegistryError(t *testing.T) {
	withStatus := &RegistryError{Op: "resolve", Repository: "nginx", Reference: "missing", StatusCode: 404, Err: ErrManifestNotFound}
	assert.Equal(t, "resolve nginx:missing: manifest not found (status 404)", withStatus.Error())
	assert.ErrorIs(t, withStatus, ErrManifestNotFound)

	transport := &RegistryError{Op: "delete", Repository: "nginx", Reference: "sha256:abc", Err: errors.New("connection refused")}
	assert.Equal(t, "delete nginx:sha256:abc: connection refused", transport.Error())
}

func TestHealthReport_Healthy(t *testing.T) {
	assert.True(t, HealthReport{}.Healthy())
	assert.False(t, HealthReport{Docker: "docker ping failed"}.Healthy())
}
