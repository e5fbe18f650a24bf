// Package harness runs conformance corpora against the verification engine.
//
// A corpus is a YAML manifest of micro-databases with expected outcomes:
// known-valid and known-invalid inputs covering the loader's structural
// errors and the verifier's semantic errors. Instead of cross-checking
// several independent verifiers and expecting agreement, the corpus is
// the consensus record.
package harness

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mmcheck/mmcheck/internal/database"
	"github.com/mmcheck/mmcheck/internal/verify"
)

// Corpus is one manifest file.
type Corpus struct {
	Cases []Case `yaml:"cases"`
}

// Case is a single conformance case: an inline Metamath source plus the
// expected load and verification outcomes.
type Case struct {
	// Name uniquely identifies this case within its corpus.
	Name string `yaml:"name"`

	// Description explains what this case validates.
	Description string `yaml:"description,omitempty"`

	// Source is the inline .mm database text.
	Source string `yaml:"source"`

	// LoadError is the expected structural error code, e.g.
	// "DUPLICATE_LABEL". Empty means the load must succeed.
	LoadError string `yaml:"load_error,omitempty"`

	// Expect maps theorem labels to expected outcomes: "verified" or a
	// semantic error code such as "DISJOINT_VIOLATION". Every theorem in
	// the database must be listed, and every listed label must exist.
	Expect map[string]string `yaml:"expect,omitempty"`
}

// LoadCorpus reads and parses a manifest file.
func LoadCorpus(path string) (*Corpus, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	var c Corpus
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("load corpus %s: %w", path, err)
	}
	for i, cs := range c.Cases {
		if cs.Name == "" {
			return nil, fmt.Errorf("load corpus %s: case %d has no name", path, i)
		}
	}
	return &c, nil
}

// Outcome is the result of running one case.
type Outcome struct {
	Case   string
	Errors []string // empty when the case conforms
}

// Pass reports whether the case conformed.
func (o *Outcome) Pass() bool {
	return len(o.Errors) == 0
}

func (o *Outcome) addErrorf(format string, args ...any) {
	o.Errors = append(o.Errors, fmt.Sprintf(format, args...))
}

// Run loads and verifies the case's database and checks every expectation.
func (c *Case) Run(ctx context.Context) *Outcome {
	out := &Outcome{Case: c.Name}

	db, err := database.Load(c.Name+".mm", []byte(c.Source))
	if c.LoadError != "" {
		switch {
		case err == nil:
			out.addErrorf("load succeeded, want %s", c.LoadError)
		case string(database.ErrCode(err)) != c.LoadError:
			out.addErrorf("load failed with %q, want %s", err, c.LoadError)
		}
		return out
	}
	if err != nil {
		out.addErrorf("load failed: %v", err)
		return out
	}

	results, err := verify.All(ctx, db, verify.Options{})
	if err != nil {
		out.addErrorf("verify: %v", err)
		return out
	}

	got := make(map[string]verify.Result, len(results))
	for _, r := range results {
		got[r.Label] = r
		want, listed := c.Expect[r.Label]
		if !listed {
			out.addErrorf("theorem %q not listed in expectations (status %s)", r.Label, r.Status)
			continue
		}
		switch {
		case want == "verified":
			if r.Status != verify.StatusVerified {
				out.addErrorf("theorem %q failed, want verified: %v", r.Label, r.Err)
			}
		default:
			if r.Status != verify.StatusFailed {
				out.addErrorf("theorem %q verified, want failure %s", r.Label, want)
			} else if string(r.Err.Code) != want {
				out.addErrorf("theorem %q failed with %s, want %s: %v",
					r.Label, r.Err.Code, want, r.Err)
			}
		}
	}
	for label := range c.Expect {
		if _, ok := got[label]; !ok {
			out.addErrorf("expected label %q is not a theorem in the database", label)
		}
	}
	return out
}
