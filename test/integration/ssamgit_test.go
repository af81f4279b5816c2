//go:build integration
// +build integration

package integration

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func skipUnlessEnabled(t *testing.T) {
	t.Helper()
	if os.Getenv("SSAMGIT_INTEGRATION_TESTS") != "1" {
		t.Skip("Skipping integration test. Set SSAMGIT_INTEGRATION_TESTS=1 to run")
	}
}

// buildBinary returns the ssamgit binary, building it on first use
func buildBinary(t *testing.T) string {
	t.Helper()

	bin, err := filepath.Abs(filepath.Join("..", "..", "build", "ssamgit"))
	if err != nil {
		t.Fatalf("Failed to resolve binary path: %v", err)
	}
	if _, err := os.Stat(bin); os.IsNotExist(err) {
		buildCmd := exec.Command("go", "build", "-o", bin, "../../cmd/ssamgit")
		if out, err := buildCmd.CombinedOutput(); err != nil {
			t.Fatalf("Failed to build ssamgit binary: %v\n%s", err, out)
		}
	}
	return bin
}

func git(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %s failed: %v\n%s", strings.Join(args, " "), err, out)
	}
	return string(out)
}

// setupTestRepo creates a repository with one commit
func setupTestRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	git(t, dir, "init")
	git(t, dir, "config", "user.email", "test@example.com")
	git(t, dir, "config", "user.name", "Test User")

	if err := os.WriteFile(filepath.Join(dir, "sketch.js"), []byte("draw()\n"), 0644); err != nil {
		t.Fatalf("Failed to create initial file: %v", err)
	}
	git(t, dir, "add", "sketch.js")
	git(t, dir, "commit", "-m", "Initial commit")

	return dir
}

func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to find a free port: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()
	return addr
}

func startServer(t *testing.T, bin, repo, addr string) *exec.Cmd {
	t.Helper()
	cmd := exec.Command(bin, "serve", "--repo", repo, "--addr", addr, "--color", "never")
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=Test User", "GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=Test User", "GIT_COMMITTER_EMAIL=test@example.com")
	if err := cmd.Start(); err != nil {
		t.Fatalf("Failed to start ssamgit: %v", err)
	}
	t.Cleanup(func() {
		if cmd.Process != nil {
			_ = cmd.Process.Signal(os.Interrupt)
			_ = cmd.Wait()
		}
	})
	return cmd
}

func dial(t *testing.T, addr string) *websocket.Conn {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for {
		ws, _, err := websocket.DefaultDialer.Dial("ws://"+addr+"/ws", nil)
		if err == nil {
			t.Cleanup(func() { _ = ws.Close() })
			return ws
		}
		if time.Now().After(deadline) {
			t.Fatalf("Failed to connect to ssamgit: %v", err)
		}
		time.Sleep(100 * time.Millisecond)
	}
}

type envelope struct {
	Type  string          `json:"type"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// TestSnapshotCommand commits once from the CLI and checks the reported hash
func TestSnapshotCommand(t *testing.T) {
	skipUnlessEnabled(t)
	bin := buildBinary(t)
	repo := setupTestRepo(t)

	if err := os.WriteFile(filepath.Join(repo, "sketch.js"), []byte("draw()\nloop()\n"), 0644); err != nil {
		t.Fatalf("Failed to modify file: %v", err)
	}

	out, err := exec.Command(bin, "snapshot", "--repo", repo, "--data", `{"canvasId":"c1"}`, "-o", "json").Output()
	if err != nil {
		t.Fatalf("snapshot failed: %v\n%s", err, out)
	}

	var report struct {
		State string            `json:"state"`
		Hash  string            `json:"hash"`
		Reply map[string]string `json:"reply"`
	}
	if err := json.Unmarshal(out, &report); err != nil {
		t.Fatalf("Failed to decode report: %v\n%s", err, out)
	}

	head := strings.TrimSpace(git(t, repo, "rev-parse", "--short", "HEAD"))
	if report.Hash != head || report.Reply["hash"] != head || report.Reply["canvasId"] != "c1" {
		t.Errorf("Expected hash %s in report, got %+v", head, report)
	}

	subject := strings.TrimSpace(git(t, repo, "log", "-1", "--format=%s"))
	if _, err := time.Parse("2006.01.02-15.04.05", subject); err != nil {
		t.Errorf("Expected timestamp commit message, got %q", subject)
	}

	cmd := exec.Command(bin, "snapshot", "--repo", repo)
	combined, err := cmd.CombinedOutput()
	if err == nil {
		t.Error("Expected a second snapshot of a clean tree to fail")
	}
	if !strings.Contains(string(combined), "nothing to commit, working tree clean") {
		t.Errorf("Expected nothing-to-commit message, got: %s", combined)
	}
}

// TestServeBootstrapsAndCommits starts the server in an empty directory,
// waits for git init, then requests a snapshot over the websocket
func TestServeBootstrapsAndCommits(t *testing.T) {
	skipUnlessEnabled(t)
	bin := buildBinary(t)
	repo := t.TempDir()
	addr := freeAddr(t)

	startServer(t, bin, repo, addr)
	ws := dial(t, addr)

	if _, err := os.Stat(filepath.Join(repo, ".git")); err != nil {
		t.Fatalf("Expected bootstrap to initialize the repository: %v", err)
	}

	if err := os.WriteFile(filepath.Join(repo, "sketch.js"), []byte("draw()\n"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	req := fmt.Sprintf(`{"type":"custom","event":"ssam:git","data":{"canvasId":"c1","filename":"%s"}}`, "frame.png")
	if err := ws.WriteMessage(websocket.TextMessage, []byte(req)); err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}

	_ = ws.SetReadDeadline(time.Now().Add(15 * time.Second))
	for {
		var env envelope
		if err := ws.ReadJSON(&env); err != nil {
			t.Fatalf("Failed to read reply: %v", err)
		}
		if env.Event != "ssam:git-success" {
			continue
		}

		var reply map[string]string
		if err := json.Unmarshal(env.Data, &reply); err != nil {
			t.Fatalf("Failed to decode reply: %v", err)
		}
		head := strings.TrimSpace(git(t, repo, "rev-parse", "--short", "HEAD"))
		if reply["hash"] != head || reply["filename"] != "frame.png" {
			t.Errorf("Unexpected reply %v (HEAD %s)", reply, head)
		}
		return
	}
}

// TestLockFile checks that a second server for the same directory refuses to start
func TestLockFile(t *testing.T) {
	skipUnlessEnabled(t)
	bin := buildBinary(t)
	repo := setupTestRepo(t)
	addr := freeAddr(t)

	startServer(t, bin, repo, addr)
	dial(t, addr)

	cmd := exec.Command(bin, "serve", "--repo", repo, "--addr", freeAddr(t))
	output, err := cmd.CombinedOutput()
	if err == nil {
		t.Errorf("Expected second ssamgit instance to fail, but it succeeded")
	}
	if !strings.Contains(string(output), "another ssamgit server is already running") {
		t.Errorf("Expected lock error message, got: %s", output)
	}
}
