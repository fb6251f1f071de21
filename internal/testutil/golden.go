// Package testutil loads the YAML conformance cases shared by the
// module's tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sanma/boundvar/pkg/config"
)

// CasesDir is the relative path from the module root to the case files.
const CasesDir = "testdata/conformance"

// Commands a case may exercise.
var Commands = []string{"eval", "check", "expand", "compress"}

// Case is one conformance case.
type Case struct {
	Name   string `yaml:"name"`
	Cmd    string `yaml:"cmd"`
	Source string `yaml:"source"`

	// Repeat, when set, is appended to Source.
	Repeat    *Repeat             `yaml:"repeat,omitempty"`
	Root      string              `yaml:"root,omitempty"`
	Budget    config.BudgetConfig `yaml:"budget,omitempty"`
	Normalize *bool               `yaml:"normalize,omitempty"`
	Tags      []string            `yaml:"tags,omitempty"`
	Expect    Expected            `yaml:"expect"`

	File string `yaml:"-"`
}

// Repeat is Text written Times times.
type Repeat struct {
	Text  string `yaml:"text"`
	Times int    `yaml:"times"`
}

// Expected describes the outcome of a case. Value is the printable form
// of the result. Code is the diagnostic or runtime error code; empty means
// success.
type Expected struct {
	Value     *string `yaml:"value,omitempty"`
	Type      string  `yaml:"type,omitempty"`
	Code      string  `yaml:"code,omitempty"`
	Exhausted bool    `yaml:"exhausted,omitempty"`
	Improved  *bool   `yaml:"improved,omitempty"`
	Mode      string  `yaml:"mode,omitempty"`
}

// Input is the full source text of the case.
func (c *Case) Input() string {
	if c.Repeat == nil {
		return c.Source
	}
	return c.Source + strings.Repeat(c.Repeat.Text, c.Repeat.Times)
}

// HasTag reports whether the case carries tag.
func (c *Case) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// LoadCases reads a YAML list of cases.
func LoadCases(path string) ([]Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cases []Case
	if err := yaml.Unmarshal(data, &cases); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	seen := make(map[string]bool, len(cases))
	for i := range cases {
		c := &cases[i]
		c.File = path
		if c.Name == "" {
			return nil, fmt.Errorf("%s: case %d has no name", path, i)
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("%s: duplicate case %q", path, c.Name)
		}
		seen[c.Name] = true
		if !isCommand(c.Cmd) {
			return nil, fmt.Errorf("%s: case %q has unknown cmd %q", path, c.Name, c.Cmd)
		}
	}
	return cases, nil
}

func isCommand(cmd string) bool {
	for _, c := range Commands {
		if c == cmd {
			return true
		}
	}
	return false
}

// ListCaseFiles returns the YAML case files under root, sorted.
func ListCaseFiles(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && (strings.HasSuffix(e.Name(), ".yaml") || strings.HasSuffix(e.Name(), ".yml")) {
			files = append(files, filepath.Join(root, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
