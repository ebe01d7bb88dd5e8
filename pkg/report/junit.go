package report

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	errUtils "github.com/mablhq/github-run-tests-action/errors"
	"github.com/mablhq/github-run-tests-action/pkg/mabl/dtos"
)

const outputLinkProperty = "mabl View Output"

type junitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Name       string           `xml:"name,attr"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Properties []junitProperty  `xml:"properties>property"`
	Suites     []junitTestSuite `xml:"testsuite"`
}

type junitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type junitTestSuite struct {
	Name     string          `xml:"name,attr"`
	ID       string          `xml:"id,attr"`
	Tests    int             `xml:"tests,attr"`
	Failures int             `xml:"failures,attr"`
	Time     string          `xml:"time,attr"`
	Cases    []junitTestCase `xml:"testcase"`
}

type junitTestCase struct {
	Name    string        `xml:"name,attr"`
	Status  string        `xml:"status,attr"`
	Time    string        `xml:"time,attr"`
	Failure *junitFailure `xml:"failure,omitempty"`
}

type junitFailure struct {
	Message string `xml:"message,attr"`
}

func seconds(startMillis, stopMillis int64) string {
	return strconv.FormatFloat(float64(stopMillis-startMillis)/1000, 'f', -1, 64)
}

// BuildJUnit converts an execution result into a JUnit document.
func BuildJUnit(result *dtos.ExecutionResult, eventID, outputLink string) ([]byte, error) {
	doc := junitTestSuites{
		Name:       "mabl Deployment event: " + eventID,
		Tests:      result.JourneyExecutionMetrics.Total,
		Failures:   result.JourneyExecutionMetrics.Failed,
		Properties: []junitProperty{{Name: outputLinkProperty, Value: outputLink}},
	}

	for i := range result.Executions {
		execution := &result.Executions[i]
		suite := junitTestSuite{
			Name:  execution.Plan.Name,
			ID:    execution.Plan.ID,
			Tests: len(execution.JourneyExecutions),
			Time:  seconds(execution.StartTime, execution.StopTime),
		}

		for j := range execution.JourneyExecutions {
			je := &execution.JourneyExecutions[j]
			tc := junitTestCase{
				Name:   execution.JourneyName(je.JourneyID),
				Status: statusLabel(je.Success),
				Time:   seconds(je.StartTime, je.StopTime),
			}
			if !je.Success {
				suite.Failures++
				tc.Failure = &junitFailure{Message: "View Output: " + je.AppHref}
			}
			suite.Cases = append(suite.Cases, tc)
		}

		doc.Suites = append(doc.Suites, suite)
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

// WriteJUnit writes the JUnit report for result to path, creating parent directories.
func WriteJUnit(path string, result *dtos.ExecutionResult, eventID, outputLink string) error {
	data, err := BuildJUnit(result, eventID, outputLink)
	if err != nil {
		return fmt.Errorf(errUtils.ErrWrappingFormat, errUtils.ErrFailedToWriteReport, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf(errUtils.ErrWrappingFormat, errUtils.ErrFailedToWriteReport, err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf(errUtils.ErrWrappingFormat, errUtils.ErrFailedToWriteReport, err)
	}
	return nil
}
