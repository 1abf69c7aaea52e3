package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"rig/pkg/step"
)

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, []step.Result{
		{Name: "docker-repo", Status: step.StatusSkipped, Message: "already satisfied"},
		{Name: "os-packages", Status: step.StatusSuccess},
		{Name: "fonts", Status: step.StatusFailure, Message: "no font files extracted"},
	})

	out := buf.String()
	assert.Contains(t, out, "docker-repo")
	assert.Contains(t, out, "already satisfied")
	assert.Contains(t, out, "os-packages")
	assert.Contains(t, out, "no font files extracted")
	assert.Contains(t, out, "1 succeeded, 1 failed, 1 skipped")
}

func TestRenderAllGreen(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, []step.Result{
		{Name: "os-packages", Status: step.StatusSuccess},
		{Name: "cleanup", Status: step.StatusSuccess},
	})

	assert.Contains(t, buf.String(), "2 succeeded, 0 failed, 0 skipped")
}
