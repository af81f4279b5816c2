package snapshot

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Report is a Result in a form that can be printed as text, JSON or YAML
type Report struct {
	State    string         `json:"state" yaml:"state"`
	FailedAt string         `json:"failed_at,omitempty" yaml:"failed_at,omitempty"`
	Hash     string         `json:"hash,omitempty" yaml:"hash,omitempty"`
	Reply    map[string]any `json:"reply,omitempty" yaml:"reply,omitempty"`
	Error    string         `json:"error,omitempty" yaml:"error,omitempty"`
}

// Report converts r for printing
func (r Result) Report() Report {
	rep := Report{
		State: r.State.String(),
		Hash:  r.Hash,
	}
	if r.State == Failed {
		rep.FailedAt = r.FailedAt.String()
	}
	if r.Err != nil {
		rep.Error = r.Err.Error()
	}
	if r.Reply != nil {
		if raw, err := json.Marshal(r.Reply); err == nil {
			_ = json.Unmarshal(raw, &rep.Reply)
		}
	}
	return rep
}

// String implements fmt.Stringer
func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "state: %s", r.State)
	if r.FailedAt != "" {
		fmt.Fprintf(&b, " (at %s)", r.FailedAt)
	}
	if r.Hash != "" {
		fmt.Fprintf(&b, "\nhash: %s", r.Hash)
	}
	if r.Error != "" {
		fmt.Fprintf(&b, "\nerror: %s", strings.TrimRight(r.Error, "\n"))
	}

	keys := make([]string, 0, len(r.Reply))
	for k := range r.Reply {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "\n  %s: %v", k, r.Reply[k])
	}
	return b.String()
}
