package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo()
	assert.Equal(t, Version, info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
}

func TestGetVersionString(t *testing.T) {
	s := GetVersionString()
	assert.True(t, strings.HasPrefix(s, "MailPilot Console "))
	assert.Contains(t, s, Version)
}

func TestGetDetailedVersionString(t *testing.T) {
	s := GetDetailedVersionString()
	assert.Contains(t, s, "Git commit:")
	assert.Contains(t, s, "Go version:")
	assert.Contains(t, s, "Platform:")
}

func TestIsRelease_DevBuild(t *testing.T) {
	// Default build has no injected commit hash
	if GitCommit == "unknown" {
		assert.False(t, IsRelease())
	}
}
