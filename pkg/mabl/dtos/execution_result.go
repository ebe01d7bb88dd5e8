package dtos

import "strings"

// Execution statuses after which a plan run makes no further progress.
const (
	StatusSucceeded  = "succeeded"
	StatusFailed     = "failed"
	StatusCancelled  = "cancelled"
	StatusCompleted  = "completed"
	StatusTerminated = "terminated"
)

var terminalStatuses = map[string]struct{}{
	StatusSucceeded:  {},
	StatusFailed:     {},
	StatusCancelled:  {},
	StatusCompleted:  {},
	StatusTerminated: {},
}

// IsTerminalStatus reports whether status is one of the terminal execution statuses.
func IsTerminalStatus(status string) bool {
	_, ok := terminalStatuses[strings.ToLower(status)]
	return ok
}

type ExecutionMetrics struct {
	Total  int `json:"total"`
	Passed int `json:"passed"`
	Failed int `json:"failed"`
}

type ExecutionResult struct {
	PlanExecutionMetrics    ExecutionMetrics `json:"plan_execution_metrics"`
	JourneyExecutionMetrics ExecutionMetrics `json:"journey_execution_metrics"`
	Executions              []Execution      `json:"executions"`
}

type Execution struct {
	Status            string             `json:"status"`
	Success           bool               `json:"success"`
	Plan              PlanInfo           `json:"plan"`
	PlanExecution     PlanExecution      `json:"plan_execution"`
	Journeys          []JourneyInfo      `json:"journeys"`
	JourneyExecutions []JourneyExecution `json:"journey_executions"`
	StartTime         int64              `json:"start_time,omitempty"`
	StopTime          int64              `json:"stop_time,omitempty"`
}

// IsComplete reports whether the execution reached a terminal status and recorded a stop time.
// A terminal status without a stop time is still pending.
func (e *Execution) IsComplete() bool {
	return IsTerminalStatus(e.Status) && e.StopTime != 0
}

// JourneyName resolves a journey id to its name, falling back to the id.
func (e *Execution) JourneyName(journeyID string) string {
	for _, journey := range e.Journeys {
		if journey.ID == journeyID {
			return journey.Name
		}
	}
	return journeyID
}

type PlanInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Href    string `json:"href,omitempty"`
	AppHref string `json:"app_href,omitempty"`
}

type PlanExecution struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Href   string `json:"href,omitempty"`
}

type JourneyInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Href    string `json:"href,omitempty"`
	AppHref string `json:"app_href,omitempty"`
}

type JourneyExecution struct {
	JourneyID          string `json:"journey_id"`
	JourneyExecutionID string `json:"journey_execution_id"`
	ApplicationID      string `json:"application_id,omitempty"`
	EnvironmentID      string `json:"environment_id,omitempty"`
	InitialURL         string `json:"initial_url,omitempty"`
	RunMultiplierIndex int    `json:"run_multiplier_index,omitempty"`
	BrowserType        string `json:"browser_type"`
	Status             string `json:"status"`
	Success            bool   `json:"success"`
	StartTime          int64  `json:"start_time,omitempty"`
	StopTime           int64  `json:"stop_time,omitempty"`
	Href               string `json:"href,omitempty"`
	AppHref            string `json:"app_href,omitempty"`
}
