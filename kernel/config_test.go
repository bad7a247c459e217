// The MIT License (MIT)
//
// Copyright (c) 2013-2017 Oryx(ossrs)
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
// the Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
// FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
// COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
// IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
// CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

package kernel

import (
	"os"
	"path/filepath"
	"testing"
)

type testConfig struct {
	Config `yaml:",inline"`
	Rtmp   struct {
		Listens []string `json:"listens" yaml:"listens"`
	} `json:"rtmp" yaml:"rtmp"`
}

func TestLoadConfigJson(t *testing.T) {
	p := filepath.Join(t.TempDir(), "srs.json")

	// json with comments, in the srs style.
	data := `// the test config.
{
    "logger": {
        "tank": "console"
    },
    "rtmp": {
        "listens": ["tcp://0.0.0.0:1935"]
    }
}`
	if err := os.WriteFile(p, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	c := &testConfig{}
	if err := LoadConfig(p, c); err != nil {
		t.Fatal(err)
	}
	if c.Logger.Tank != "console" {
		t.Error("invalid tank", c.Logger.Tank)
	}
	if len(c.Rtmp.Listens) != 1 || c.Rtmp.Listens[0] != "tcp://0.0.0.0:1935" {
		t.Error("invalid listens", c.Rtmp.Listens)
	}
}

func TestLoadConfigYaml(t *testing.T) {
	p := filepath.Join(t.TempDir(), "srs.yaml")

	data := `logger:
  tank: console
rtmp:
  listens:
    - tcp://0.0.0.0:1935
`
	if err := os.WriteFile(p, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	c := &testConfig{}
	if err := LoadConfig(p, c); err != nil {
		t.Fatal(err)
	}
	if c.Logger.Tank != "console" {
		t.Error("invalid tank", c.Logger.Tank)
	}
	if len(c.Rtmp.Listens) != 1 {
		t.Error("invalid listens", c.Rtmp.Listens)
	}
}

func TestOpenLoggerInvalidTank(t *testing.T) {
	c := &Config{}
	c.Logger.Tank = "invalid"

	if err := c.OpenLogger(); err == nil {
		t.Error("should fail for invalid tank")
	}
}
