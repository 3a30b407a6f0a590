package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	confFull = `
---
options:
  headingStyle: setext
  bulletListMarker: "*"
server:
  addr: ":8080"
  staticDir: public
crawl:
  maxPages: 10
  ignoreRobots: true
...
`
	confBadOptions = `
options:
  headingStyle: fancy
  codeBlockStyle: tabs
`
)

func TestDefault(t *testing.T) {
	conf := Default()
	require.NoError(t, conf.Validate())
	assert.Equal(t, "atx", conf.Options.HeadingStyle)
	assert.Equal(t, ":3000", conf.Server.Addr)
	assert.Equal(t, int64(50<<20), conf.Server.MaxBodyBytes)
}

func TestLoad(t *testing.T) {
	conf, err := Load([]byte(confFull))
	require.NoError(t, err)

	assert.Equal(t, "setext", conf.Options.HeadingStyle)
	assert.Equal(t, "fenced", conf.Options.CodeBlockStyle, "unset keys keep their defaults")
	assert.Equal(t, "*", conf.Options.BulletListMarker)
	assert.Equal(t, ":8080", conf.Server.Addr)
	assert.Equal(t, "public", conf.Server.StaticDir)
	assert.Equal(t, 10, conf.Crawl.MaxPages)
	assert.Equal(t, 4, conf.Crawl.Concurrency)
	assert.True(t, conf.Crawl.IgnoreRobots)
}

func TestLoadInvalid(t *testing.T) {
	_, err := Load([]byte(confBadOptions))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Config.Options.HeadingStyle")
	assert.Contains(t, err.Error(), "Config.Options.CodeBlockStyle")

	_, err = Load([]byte("crawl:\n  concurrency: 0\n"))
	assert.ErrorContains(t, err, "Config.Crawl.Concurrency")

	_, err = Load([]byte("options: ["))
	assert.ErrorContains(t, err, "parsing config")
}

func TestGet(t *testing.T) {
	conf, err := Get("")
	require.NoError(t, err)
	assert.Equal(t, Default(), conf)

	path := filepath.Join(t.TempDir(), "clip2md.yaml")
	require.NoError(t, os.WriteFile(path, []byte(confFull), 0o644))
	conf, err = Get(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", conf.Server.Addr)

	_, err = Get(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading config")
}
