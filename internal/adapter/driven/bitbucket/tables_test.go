package bitbucket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/checkbridge/internal/domain/model"
)

func TestMapStateKnownValues(t *testing.T) {
	tests := []struct {
		raw      string
		status   model.RunStatus
		tagNames []string
	}{
		{"pipeline_state_pending", model.RunStatusScheduled, []string{"PENDING"}},
		{"pipeline_state_in_progress", model.RunStatusRunning, nil},
		{"pipeline_state_in_progress_paused", model.RunStatusRunning, nil},
		{"pipeline_state_completed", model.RunStatusCompleted, nil},
		{"pipeline_state_completed_failed", model.RunStatusCompleted, nil},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			info := mapState(tt.raw)
			assert.Equal(t, tt.status, info.status)
			require.Len(t, info.tags, len(tt.tagNames))
			for i, name := range tt.tagNames {
				assert.Equal(t, name, info.tags[i].Name)
			}
		})
	}
}

func TestMapStateFallback(t *testing.T) {
	info := mapState("pipeline_state_teleported")

	assert.Equal(t, model.RunStatusCompleted, info.status)
	require.Len(t, info.tags, 1)
	assert.Equal(t, "UNKNOWN", info.tags[0].Name)
	assert.Equal(t, "Unknown state pipeline_state_teleported", info.tags[0].Tooltip)
	assert.Equal(t, model.TagColorPurple, info.tags[0].Color)
}

func TestMapResultKnownValues(t *testing.T) {
	tests := []struct {
		raw      string
		category model.Category
		tagNames []string
	}{
		{"pipeline_state_pending_pending", model.CategoryInfo, nil},
		{"pipeline_state_in_progress_running", model.CategoryInfo, nil},
		{"pipeline_state_completed_successful", model.CategorySuccess, nil},
		{"pipeline_state_completed_stopped", model.CategoryInfo, []string{"STOPPED"}},
		{"pipeline_state_completed_failed", model.CategoryError, nil},
		{"pipeline_state_in_progress_paused", model.CategoryWarning, []string{"PAUSED"}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			info := mapResult(tt.raw)
			assert.Equal(t, tt.category, info.category)
			require.Len(t, info.tags, len(tt.tagNames))
			for i, name := range tt.tagNames {
				assert.Equal(t, name, info.tags[i].Name)
			}
		})
	}
}

func TestMapResultThreeWay(t *testing.T) {
	absent := mapResult("")
	assert.Equal(t, model.CategoryInfo, absent.category)
	assert.Empty(t, absent.tags)

	unknown := mapResult("pipeline_state_completed_shrugged")
	assert.Equal(t, model.CategoryWarning, unknown.category)
	require.Len(t, unknown.tags, 1)
	assert.Equal(t, "UNKNOWN", unknown.tags[0].Name)
	assert.Equal(t, "Unknown conclusion pipeline_state_completed_shrugged", unknown.tags[0].Tooltip)

	known := mapResult("pipeline_state_completed_successful")
	assert.Equal(t, model.CategorySuccess, known.category)
	assert.Empty(t, known.tags)
}
