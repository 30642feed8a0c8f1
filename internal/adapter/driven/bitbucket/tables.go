package bitbucket

import "github.com/ericfisherdev/checkbridge/internal/domain/model"

// stateInfo is one entry of the pipeline state table.
type stateInfo struct {
	status model.RunStatus
	tags   []model.Tag
}

// resultInfo is one entry of the pipeline result table.
type resultInfo struct {
	category model.Category
	tags     []model.Tag
}

// pipelineStateTable maps Bitbucket pipeline state types to the checks run
// lifecycle. Bitbucket reports failure as a completion flavor, so both
// completed variants land on COMPLETED and the verdict comes from the result
// table.
var pipelineStateTable = map[string]stateInfo{
	"pipeline_state_pending": {
		status: model.RunStatusScheduled,
		tags:   []model.Tag{{Name: "PENDING", Tooltip: "Pending", Color: model.TagColorGray}},
	},
	"pipeline_state_in_progress": {
		status: model.RunStatusRunning,
	},
	"pipeline_state_in_progress_paused": {
		status: model.RunStatusRunning,
	},
	"pipeline_state_completed": {
		status: model.RunStatusCompleted,
	},
	"pipeline_state_completed_failed": {
		status: model.RunStatusCompleted,
	},
}

// pipelineResultTable maps Bitbucket pipeline result/stage types to result
// categories.
var pipelineResultTable = map[string]resultInfo{
	"pipeline_state_pending_pending": {
		category: model.CategoryInfo,
	},
	"pipeline_state_in_progress_running": {
		category: model.CategoryInfo,
	},
	"pipeline_state_completed_successful": {
		category: model.CategorySuccess,
	},
	"pipeline_state_completed_stopped": {
		category: model.CategoryInfo,
		tags:     []model.Tag{{Name: "STOPPED", Tooltip: "Stopped", Color: model.TagColorGray}},
	},
	"pipeline_state_completed_failed": {
		category: model.CategoryError,
	},
	"pipeline_state_in_progress_paused": {
		category: model.CategoryWarning,
		tags:     []model.Tag{{Name: "PAUSED", Tooltip: "Paused", Color: model.TagColorPink}},
	},
}

// mapState resolves a raw pipeline state type. Unrecognized states degrade to
// COMPLETED with a visible UNKNOWN tag instead of failing the driver.
func mapState(raw string) stateInfo {
	if info, ok := pipelineStateTable[raw]; ok {
		return info
	}
	return stateInfo{
		status: model.RunStatusCompleted,
		tags:   []model.Tag{{Name: "UNKNOWN", Tooltip: "Unknown state " + raw, Color: model.TagColorPurple}},
	}
}

// mapResult resolves a raw result type. Empty means no verdict yet (INFO, no
// tags); unrecognized non-empty values are a caution, not a failure.
func mapResult(raw string) resultInfo {
	if raw == "" {
		return resultInfo{category: model.CategoryInfo}
	}
	if info, ok := pipelineResultTable[raw]; ok {
		return info
	}
	return resultInfo{
		category: model.CategoryWarning,
		tags:     []model.Tag{{Name: "UNKNOWN", Tooltip: "Unknown conclusion " + raw, Color: model.TagColorPurple}},
	}
}

// joinTags concatenates state tags followed by result tags, nil when empty.
func joinTags(state, result []model.Tag) []model.Tag {
	if len(state) == 0 && len(result) == 0 {
		return nil
	}
	tags := make([]model.Tag, 0, len(state)+len(result))
	tags = append(tags, state...)
	return append(tags, result...)
}
