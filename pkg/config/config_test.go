package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "locfs.yaml")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	c, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFile: unexpected error: %v", err)
	}
	if *c != Default() {
		t.Fatalf("wanted `%+v`; found `%+v`", Default(), *c)
	}
	if c.DefaultLocation != "Home" || c.BlockSize != 4096 || c.AdminAddr != ":7070" {
		t.Fatalf("wanted stock defaults; found `%+v`", *c)
	}
}

func TestLoadFileThenEnvironment(t *testing.T) {
	path := writeConfig(t, `
image: /var/lib/locfs.img
mountPoint: /mnt/locfs
defaultLocation: Work
inodeCapacity: 64
requestTimeout: 5s
`)
	t.Setenv("LOCFS_MOUNTPOINT", "/mnt/other")
	t.Setenv("LOCFS_MAX_CONCURRENT", "7")

	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: unexpected error: %v", err)
	}
	for _, testCase := range []struct {
		name   string
		wanted interface{}
		found  interface{}
	}{
		{"image", "/var/lib/locfs.img", c.Image},
		{"mountPoint", "/mnt/other", c.MountPoint},
		{"defaultLocation", "Work", c.DefaultLocation},
		{"inodeCapacity", uint64(64), c.InodeCapacity},
		{"dataBlockCapacity", uint64(1024), c.DataBlockCapacity},
		{"maxConcurrent", 7, c.MaxConcurrent},
		{"requestTimeout", 5 * time.Second, c.RequestTimeout},
	} {
		if testCase.wanted != testCase.found {
			t.Fatalf("%s: wanted `%v`; found `%v`", testCase.name, testCase.wanted, testCase.found)
		}
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: unexpected error: %v", err)
	}
	if sc := c.ServerConfig(); sc.RequestTimeout != 5 || sc.MaxConcurrent != 7 {
		t.Fatalf("wanted timeout 5 and 7 workers; found `%+v`", sc)
	}
}

func TestLoadRejectsUnknownField(t *testing.T) {
	path := writeConfig(t, "imagePath: /tmp/x\n")
	if _, err := LoadFile(path); err == nil {
		t.Fatalf("wanted error for unknown field; found nil")
	}
}

func TestConfigFileFromEnvironment(t *testing.T) {
	t.Setenv("LOCFS_CONFIG_FILE", "/etc/locfs.yaml")
	if found := FilePath(); found != "/etc/locfs.yaml" {
		t.Fatalf("wanted `/etc/locfs.yaml`; found `%s`", found)
	}
}

func TestServerTimeoutRoundsUp(t *testing.T) {
	for _, testCase := range []struct {
		timeout time.Duration
		wanted  int
	}{
		{0, 0},
		{-time.Second, 0},
		{500 * time.Millisecond, 1},
		{time.Second, 1},
		{1500 * time.Millisecond, 2},
	} {
		c := Default()
		c.RequestTimeout = testCase.timeout
		if found := c.ServerConfig().RequestTimeout; found != testCase.wanted {
			t.Fatalf("%s: wanted %d seconds; found %d", testCase.timeout, testCase.wanted, found)
		}
	}
}

func TestValidate(t *testing.T) {
	for _, testCase := range []struct {
		name   string
		mutate func(*Config)
		wanted string
	}{
		{"missing image", func(c *Config) { c.Image = "" }, "image / LOCFS_IMAGE"},
		{"empty location", func(c *Config) { c.DefaultLocation = "" }, "defaultLocation"},
		{"bad geometry", func(c *Config) { c.InodeCapacity = 1 << 20 }, "volume geometry"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "logLevel"},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			c := Default()
			c.Image = "/tmp/locfs.img"
			testCase.mutate(&c)
			err := c.Validate()
			if err == nil || !strings.Contains(err.Error(), testCase.wanted) {
				t.Fatalf("wanted error containing `%s`; found `%v`", testCase.wanted, err)
			}
		})
	}
}
