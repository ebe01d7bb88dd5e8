package mabl

import (
	"fmt"
	"strings"

	errUtils "github.com/mablhq/github-run-tests-action/errors"
	"github.com/mablhq/github-run-tests-action/pkg/mabl/dtos"
)

// DeploymentOptions holds the optional inputs of a deployment event.
// Zero values are left out of the request body.
type DeploymentOptions struct {
	ApplicationID    string
	EnvironmentID    string
	SourceControlTag string

	// BrowserTypes takes precedence over the legacy comma-separated BrowserTypesCSV.
	BrowserTypes    []string
	BrowserTypesCSV string

	URI    string
	WebURL string
	APIURL string

	// HTTPHeaders are "Name:Value" strings.
	HTTPHeaders []string
	PlanLabels  []string

	Revision   string
	EventTime  int64
	Properties *dtos.DeploymentProperties

	RebaselineImages  bool
	SetStaticBaseline bool
}

// HTTPHeader is a header override sent with every request of the triggered plans.
type HTTPHeader struct {
	Name           string `json:"name"`
	Value          string `json:"value"`
	LogHeaderValue bool   `json:"log_header_value"`
}

// ParseHTTPHeader splits a "Name:Value" string on its first colon.
func ParseHTTPHeader(header string) (HTTPHeader, error) {
	name, value, found := strings.Cut(header, ":")
	if !found || strings.TrimSpace(name) == "" {
		return HTTPHeader{}, fmt.Errorf("%w: %q", errUtils.ErrInvalidHTTPHeader, header)
	}
	return HTTPHeader{Name: name, Value: value}, nil
}

// browserTypes normalizes the current list form and the legacy CSV form.
func (o *DeploymentOptions) browserTypes() []string {
	if len(o.BrowserTypes) > 0 {
		return o.BrowserTypes
	}
	if o.BrowserTypesCSV != "" {
		return strings.Split(o.BrowserTypesCSV, ",")
	}
	return nil
}

// BuildRequestBody assembles the deployment event payload.
// plan_overrides and actions are always present, every other key only when set.
func BuildRequestBody(opts DeploymentOptions) map[string]any {
	body := map[string]any{}

	if opts.EnvironmentID != "" {
		body["environment_id"] = opts.EnvironmentID
	}
	if opts.ApplicationID != "" {
		body["application_id"] = opts.ApplicationID
	}
	if opts.SourceControlTag != "" {
		body["source_control_tag"] = opts.SourceControlTag
	}

	planOverrides := map[string]any{}
	if browserTypes := opts.browserTypes(); len(browserTypes) > 0 {
		planOverrides["browser_types"] = browserTypes
	}
	if opts.URI != "" {
		planOverrides["uri"] = opts.URI
	}
	if opts.WebURL != "" {
		planOverrides["web_url"] = opts.WebURL
	}
	if opts.APIURL != "" {
		planOverrides["api_url"] = opts.APIURL
	}
	if len(opts.HTTPHeaders) > 0 {
		headers := make([]HTTPHeader, 0, len(opts.HTTPHeaders))
		for _, raw := range opts.HTTPHeaders {
			// Entries are validated with ParseHTTPHeader when the configuration is loaded.
			name, value, _ := strings.Cut(raw, ":")
			headers = append(headers, HTTPHeader{Name: name, Value: value, LogHeaderValue: false})
		}
		planOverrides["http_headers"] = headers
		planOverrides["http_headers_required"] = true
	}
	body["plan_overrides"] = planOverrides

	if len(opts.PlanLabels) > 0 {
		body["plan_labels"] = opts.PlanLabels
	}
	if opts.Revision != "" {
		body["revision"] = opts.Revision
	}
	if opts.EventTime != 0 {
		body["event_time"] = opts.EventTime
	}
	if opts.Properties != nil {
		body["properties"] = opts.Properties
	}

	actions := map[string]any{}
	if opts.RebaselineImages {
		actions["rebaseline_images"] = true
	}
	if opts.SetStaticBaseline {
		actions["set_static_baseline"] = true
	}
	body["actions"] = actions

	return body
}
