package dtos

type Deployment struct {
	ID                        string                 `json:"id"`
	ApplicationID             string                 `json:"application_id,omitempty"`
	EnvironmentID             string                 `json:"environment_id,omitempty"`
	ReceivedTime              int64                  `json:"received_time,omitempty"`
	TriggeredPlanRunSummaries []TriggeredPlanSummary `json:"triggered_plan_run_summaries,omitempty"`
	EventTime                 int64                  `json:"event_time,omitempty"`
	Revision                  string                 `json:"revision,omitempty"`
	Properties                *DeploymentProperties  `json:"properties,omitempty"`
}

type TriggeredPlanSummary struct {
	PlanID    string `json:"plan_id"`
	PlanRunID string `json:"plan_run_id"`
}

// DeploymentProperties is the free-form source control metadata attached to a deployment event.
type DeploymentProperties struct {
	TriggeringEventName      string `json:"triggering_event_name,omitempty"`
	RepositoryCommitUsername string `json:"repository_commit_username,omitempty"`
	RepositoryAction         string `json:"repository_action,omitempty"`
	RepositoryBranchName     string `json:"repository_branch_name,omitempty"`
	RepositoryName           string `json:"repository_name,omitempty"`
	RepositoryURL            string `json:"repository_url,omitempty"`

	RepositoryPullRequestURL       string `json:"repository_pull_request_url,omitempty"`
	RepositoryPullRequestNumber    int    `json:"repository_pull_request_number,omitempty"`
	RepositoryPullRequestTitle     string `json:"repository_pull_request_title,omitempty"`
	RepositoryPullRequestCreatedAt string `json:"repository_pull_request_created_at,omitempty"`
	RepositoryPullRequestMergedAt  string `json:"repository_pull_request_merged_at,omitempty"`
}

// PullRequest is the subset of a pull request copied into DeploymentProperties.
type PullRequest struct {
	Title     string
	Number    int
	URL       string
	CreatedAt string
	MergedAt  string
}

// ApplyTo copies the pull request fields onto props.
func (pr *PullRequest) ApplyTo(props *DeploymentProperties) {
	if pr == nil || props == nil {
		return
	}
	props.RepositoryPullRequestURL = pr.URL
	props.RepositoryPullRequestNumber = pr.Number
	props.RepositoryPullRequestTitle = pr.Title
	props.RepositoryPullRequestCreatedAt = pr.CreatedAt
	props.RepositoryPullRequestMergedAt = pr.MergedAt
}
