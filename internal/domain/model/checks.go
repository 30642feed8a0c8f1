// Package model defines the Gerrit checks data shapes exchanged with the
// checks plugin and produced by CI drivers.
package model

// RunStatus is the coarse lifecycle state of a check run.
type RunStatus string

const (
	RunStatusRunnable  RunStatus = "RUNNABLE"
	RunStatusRunning   RunStatus = "RUNNING"
	RunStatusScheduled RunStatus = "SCHEDULED"
	RunStatusCompleted RunStatus = "COMPLETED"
)

// Category is the outcome severity of a check result. The checks plugin uses
// it to color and prioritize results.
type Category string

const (
	CategorySuccess Category = "SUCCESS"
	CategoryInfo    Category = "INFO"
	CategoryWarning Category = "WARNING"
	CategoryError   Category = "ERROR"
)

// ResponseCode is the top-level code of a fetch response envelope.
type ResponseCode string

const (
	ResponseCodeOK          ResponseCode = "OK"
	ResponseCodeError       ResponseCode = "ERROR"
	ResponseCodeNotLoggedIn ResponseCode = "NOT_LOGGED_IN"
)

// TagColor is the display color of a result tag.
type TagColor string

const (
	TagColorGray   TagColor = "gray"
	TagColorYellow TagColor = "yellow"
	TagColorPink   TagColor = "pink"
	TagColorPurple TagColor = "purple"
	TagColorCyan   TagColor = "cyan"
	TagColorBrown  TagColor = "brown"
)

// LinkIcon identifies the icon rendered next to a result link.
type LinkIcon string

const (
	LinkIconExternal       LinkIcon = "external"
	LinkIconImage          LinkIcon = "image"
	LinkIconHistory        LinkIcon = "history"
	LinkIconDownload       LinkIcon = "download"
	LinkIconDownloadMobile LinkIcon = "download_mobile"
	LinkIconHelpPage       LinkIcon = "help_page"
	LinkIconReportBug      LinkIcon = "report_bug"
	LinkIconCode           LinkIcon = "code"
	LinkIconFilePresent    LinkIcon = "file_present"
)

// FetchRequest identifies the change/patchset the checks plugin wants results
// for. Field names follow the plugin's fetch endpoint wire format.
type FetchRequest struct {
	AccountID      int      `json:"accountId"`
	EmailAddresses []string `json:"emailAddresses"`
	Project        string   `json:"project"`
	ChangeID       int      `json:"changeId"`
	Revision       int      `json:"revision"`
}

// FetchResponse is the envelope returned to the checks plugin.
type FetchResponse struct {
	ResponseCode   ResponseCode `json:"responseCode"`
	ErrorMessage   string       `json:"errorMessage,omitempty"`
	SummaryMessage string       `json:"summaryMessage,omitempty"`
	Runs           []CheckRun   `json:"runs"`
}

// CheckRun is one CI job/pipeline/workflow execution surfaced to the plugin.
// CheckName must stay stable across polls so the plugin can track the run's
// lifecycle.
type CheckRun struct {
	CheckName         string        `json:"checkName"`
	CheckDescription  string        `json:"checkDescription,omitempty"`
	CheckLink         string        `json:"checkLink,omitempty"`
	Status            RunStatus     `json:"status"`
	StatusDescription string        `json:"statusDescription,omitempty"`
	StatusLink        string        `json:"statusLink,omitempty"`
	Attempt           int           `json:"attempt,omitempty"`
	ExternalID        string        `json:"externalId,omitempty"`
	LabelName         string        `json:"labelName,omitempty"`
	Results           []CheckResult `json:"results,omitempty"`
}

// CheckResult is one evaluative outcome of a run, usually exactly one
// summarizing result per run.
type CheckResult struct {
	ExternalID string   `json:"externalId,omitempty"`
	Category   Category `json:"category"`
	Summary    string   `json:"summary"`
	Message    string   `json:"message,omitempty"`
	Tags       []Tag    `json:"tags,omitempty"`
	Links      []Link   `json:"links,omitempty"`
}

// Tag is decorative metadata on a result. An "UNKNOWN" tag marks provider
// vocabulary the mapping tables did not recognize.
type Tag struct {
	Name    string   `json:"name"`
	Tooltip string   `json:"tooltip,omitempty"`
	Color   TagColor `json:"color,omitempty"`
}

// Link points at the provider's own UI page for a run.
type Link struct {
	URL     string   `json:"url"`
	Tooltip string   `json:"tooltip,omitempty"`
	Primary bool     `json:"primary"`
	Icon    LinkIcon `json:"icon"`
}

// Valid reports whether the request carries the fields drivers need to locate
// a build. A request failing this check is a caller error.
func (r FetchRequest) Valid() bool {
	return r.Project != "" && r.ChangeID >= 0 && r.Revision > 0
}
