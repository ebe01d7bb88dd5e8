package cmd

import (
	"bytes"
	"context"
	"runtime"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errUtils "github.com/mablhq/github-run-tests-action/errors"
	cfg "github.com/mablhq/github-run-tests-action/pkg/config"
	"github.com/mablhq/github-run-tests-action/pkg/version"
)

func TestRootCmd_RegistersEveryInput(t *testing.T) {
	for _, opt := range cfg.RunTestsOptions() {
		assert.NotNil(t, RootCmd.Flags().Lookup(opt.Key), opt.Key)
	}
}

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		RootCmd.SetOut(nil)
		RootCmd.SetArgs(nil)
	})

	require.NoError(t, Execute(context.Background()))
	assert.Equal(t, "mabl-run-tests "+version.Version+" on "+runtime.GOOS+"/"+runtime.GOARCH+"\n", out.String())
}

func TestRootCmd_MissingAPIKeyFailsBeforeAnyRequest(t *testing.T) {
	t.Setenv("GITHUB_ACTIONS", "")
	t.Setenv("TF_BUILD", "")
	t.Setenv("MABL_API_KEY", "")

	RootCmd.SetArgs([]string{"--application-id", "app", "--mabl-api-url", "http://127.0.0.1:1"})
	t.Cleanup(func() { RootCmd.SetArgs(nil) })

	err := Execute(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errUtils.ErrMissingAPIKey))
}

func TestRootCmd_InvalidLogLevel(t *testing.T) {
	RootCmd.SetArgs([]string{"--logs-level", "loud"})
	t.Cleanup(func() { RootCmd.SetArgs(nil) })

	err := Execute(context.Background())
	assert.ErrorIs(t, err, errUtils.ErrInvalidLogLevel)
}
