package github

import "github.com/ericfisherdev/checkbridge/internal/domain/model"

// statusInfo is one entry of the workflow-run status table.
type statusInfo struct {
	status model.RunStatus
	tags   []model.Tag
}

// conclusionInfo is one entry of the workflow-run conclusion table.
type conclusionInfo struct {
	category model.Category
	tags     []model.Tag
}

// runStatusTable maps GitHub Actions workflow-run status strings to the
// checks run lifecycle. Closed, hand-maintained set; anything else goes
// through mapStatus's fallback.
var runStatusTable = map[string]statusInfo{
	"queued": {
		status: model.RunStatusScheduled,
		tags:   []model.Tag{{Name: "QUEUED", Tooltip: "Queued", Color: model.TagColorGray}},
	},
	"in_progress": {
		status: model.RunStatusRunning,
	},
	"completed": {
		status: model.RunStatusCompleted,
	},
	"requested": {
		status: model.RunStatusScheduled,
		tags:   []model.Tag{{Name: "REQUESTED", Tooltip: "Requested", Color: model.TagColorGray}},
	},
	"waiting": {
		status: model.RunStatusScheduled,
		tags:   []model.Tag{{Name: "WAITING", Tooltip: "Waiting", Color: model.TagColorGray}},
	},
}

// runConclusionTable maps GitHub Actions workflow-run conclusion strings to
// result categories.
var runConclusionTable = map[string]conclusionInfo{
	"action_required": {
		category: model.CategoryWarning,
		tags:     []model.Tag{{Name: "ACTION", Tooltip: "Action required", Color: model.TagColorPink}},
	},
	"cancelled": {
		category: model.CategoryInfo,
		tags:     []model.Tag{{Name: "CANCELED", Tooltip: "Canceled", Color: model.TagColorGray}},
	},
	"failure": {
		category: model.CategoryError,
	},
	"neutral": {
		category: model.CategoryInfo,
		tags:     []model.Tag{{Name: "NATURAL", Tooltip: "Neutral", Color: model.TagColorGray}},
	},
	"success": {
		category: model.CategorySuccess,
	},
	"skipped": {
		category: model.CategoryInfo,
		tags:     []model.Tag{{Name: "SKIPPED", Tooltip: "Skipped", Color: model.TagColorGray}},
	},
	"stale": {
		category: model.CategoryWarning,
		tags:     []model.Tag{{Name: "STALE", Tooltip: "Stale", Color: model.TagColorGray}},
	},
	"timed_out": {
		category: model.CategoryError,
		tags:     []model.Tag{{Name: "TIMED_OUT", Tooltip: "Timed out", Color: model.TagColorBrown}},
	},
}

// mapStatus resolves a raw status string against runStatusTable. Unrecognized
// strings never fail; they surface as COMPLETED with a visible UNKNOWN tag so
// new GitHub vocabulary degrades loudly instead of miscategorizing.
func mapStatus(raw string) statusInfo {
	if info, ok := runStatusTable[raw]; ok {
		return info
	}
	return statusInfo{
		status: model.RunStatusCompleted,
		tags:   []model.Tag{{Name: "UNKNOWN", Tooltip: "Unknown status " + raw, Color: model.TagColorPurple}},
	}
}

// mapConclusion resolves a raw conclusion string. An empty conclusion means
// the run has not concluded yet; that is an expected state (INFO, no tags),
// not an unknown one. Unrecognized non-empty conclusions are a caution, not a
// failure, so they fall back to WARNING.
func mapConclusion(raw string) conclusionInfo {
	if raw == "" {
		return conclusionInfo{category: model.CategoryInfo}
	}
	if info, ok := runConclusionTable[raw]; ok {
		return info
	}
	return conclusionInfo{
		category: model.CategoryWarning,
		tags:     []model.Tag{{Name: "UNKNOWN", Tooltip: "Unknown conclusion " + raw, Color: model.TagColorPurple}},
	}
}

// joinTags concatenates status tags followed by conclusion tags, returning
// nil when both are empty so the field is omitted from JSON.
func joinTags(status, conclusion []model.Tag) []model.Tag {
	if len(status) == 0 && len(conclusion) == 0 {
		return nil
	}
	tags := make([]model.Tag, 0, len(status)+len(conclusion))
	tags = append(tags, status...)
	return append(tags, conclusion...)
}
