package snapshot

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/bashhack/ssamgit/internal/channel"
	"github.com/bashhack/ssamgit/internal/git"
)

func TestReport(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		p, err := channel.DecodePayload(json.RawMessage(`{"canvasId":"c1","filename":"f.png"}`))
		if err != nil {
			t.Fatalf("DecodePayload failed: %v", err)
		}
		rep := Result{State: Succeeded, Hash: "a1b2c3d", Reply: p.WithHash("a1b2c3d")}.Report()

		if rep.State != "succeeded" || rep.FailedAt != "" || rep.Error != "" {
			t.Errorf("Unexpected report %+v", rep)
		}
		if rep.Reply["hash"] != "a1b2c3d" || rep.Reply["canvasId"] != "c1" {
			t.Errorf("Unexpected reply %v", rep.Reply)
		}

		want := "state: succeeded\nhash: a1b2c3d\n  canvasId: c1\n  filename: f.png\n  hash: a1b2c3d"
		if got := rep.String(); got != want {
			t.Errorf("Expected %q, got %q", want, got)
		}
	})

	t.Run("failure", func(t *testing.T) {
		res := Result{State: Failed, FailedAt: Committing, Err: git.EmptyFailure("commit")}
		rep := res.Report()

		if rep.FailedAt != "committing" || rep.Reply != nil {
			t.Errorf("Unexpected report %+v", rep)
		}
		if !strings.HasPrefix(rep.String(), "state: failed (at committing)\nerror: git commit failed") {
			t.Errorf("Unexpected text %q", rep.String())
		}
	})
}
