//go:build linux

package sampler

import (
	"context"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/Dicklesworthstone/procviewer/internal/model"
)

func findPID(procs []model.Process, pid int32) (model.Process, bool) {
	for _, p := range procs {
		if p.PID == pid {
			return p, true
		}
	}
	return model.Process{}, false
}

// exitedPID runs a short-lived child to completion and returns its pid,
// which no longer names a process.
func exitedPID(t *testing.T) int32 {
	t.Helper()
	cmd := exec.Command("true")
	if err := cmd.Run(); err != nil {
		t.Skipf("cannot run true: %v", err)
	}
	return int32(cmd.Process.Pid)
}

func startChild(t *testing.T, script string) *exec.Cmd {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	cmd := exec.Command("sh", "-c", script)
	if err := cmd.Start(); err != nil {
		t.Fatalf("starting child: %v", err)
	}
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	})
	return cmd
}

func TestProcessesListsSelf(t *testing.T) {
	s := New(time.Second, nil)
	procs, err := s.Processes(context.Background())
	if err != nil {
		t.Fatalf("Processes() error = %v", err)
	}
	self, ok := findPID(procs, int32(os.Getpid()))
	if !ok {
		t.Fatalf("own pid %d missing from %d processes", os.Getpid(), len(procs))
	}
	if self.PPID != int32(os.Getppid()) {
		t.Errorf("PPID = %d, want %d", self.PPID, os.Getppid())
	}
	if self.Name == "" {
		t.Error("own process has no name")
	}
}

func TestScanCPUStartsAtZero(t *testing.T) {
	ctx := context.Background()
	s := New(time.Second, nil)
	self := int32(os.Getpid())

	first := s.scan(ctx, []int32{self})
	if len(first) != 1 || first[0].CPU != 0 {
		t.Fatalf("first scan = %+v, want one process at 0%% CPU", first)
	}

	for deadline := time.Now().Add(300 * time.Millisecond); time.Now().Before(deadline); {
	}

	second := s.scan(ctx, []int32{self})
	if len(second) != 1 || second[0].CPU <= 0 {
		t.Errorf("second scan after busy loop = %+v, want CPU > 0", second)
	}
}

func TestScanSkipsExitedProcess(t *testing.T) {
	ctx := context.Background()
	s := New(time.Second, nil)
	self := int32(os.Getpid())
	gone := exitedPID(t)

	procs := s.scan(ctx, []int32{gone, self})
	if len(procs) != 1 || procs[0].PID != self {
		t.Fatalf("scan() = %+v, want only pid %d", procs, self)
	}
	if _, ok := s.cpuPrev[gone]; ok {
		t.Error("exited pid kept a CPU baseline")
	}
}

func TestScanSeesExec(t *testing.T) {
	cmd := startChild(t, "sleep 0.5; exec sleep 5")
	pid := int32(cmd.Process.Pid)
	ctx := context.Background()
	s := New(time.Second, nil)

	procs := s.scan(ctx, []int32{pid})
	if len(procs) != 1 || procs[0].Name != "sh" {
		t.Fatalf("before exec: scan() = %+v, want sh", procs)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		time.Sleep(100 * time.Millisecond)
		procs = s.scan(ctx, []int32{pid})
		if len(procs) == 1 && procs[0].Name == "sleep" {
			return
		}
	}
	t.Errorf("after exec: scan() = %+v, want sleep", procs)
}

func TestDetailsSelf(t *testing.T) {
	ctx := context.Background()
	s := New(time.Second, nil)
	self := int32(os.Getpid())
	s.scan(ctx, []int32{self})

	d, err := s.Details(ctx, self)
	if err != nil {
		t.Fatalf("Details() error = %v", err)
	}
	if d.PID != self || d.PPID != int32(os.Getppid()) {
		t.Errorf("Details() = pid %d ppid %d", d.PID, d.PPID)
	}
	if d.Username == "" {
		t.Error("username empty; want a name or ?")
	}
	if d.Cmdline == "" {
		t.Error("cmdline empty")
	}
	if d.CreateTime.IsZero() {
		t.Errorf("CreateTime = %v", d.CreateTime)
	}
}

func TestDetailsExitedProcess(t *testing.T) {
	s := New(time.Second, nil)
	if _, err := s.Details(context.Background(), exitedPID(t)); err == nil {
		t.Error("Details() of exited process returned no error")
	}
}

func TestTerminateChild(t *testing.T) {
	cmd := startChild(t, "exec sleep 5")
	s := New(time.Second, nil)
	ok, msg := s.Terminate(context.Background(), int32(cmd.Process.Pid))
	if !ok || msg != MsgTerminated {
		t.Fatalf("Terminate() = %v, %q", ok, msg)
	}
	if err := cmd.Wait(); err == nil {
		t.Error("child exited cleanly after SIGTERM")
	}

	ok, msg = s.Terminate(context.Background(), exitedPID(t))
	if ok || msg != MsgNotFound {
		t.Errorf("Terminate(exited) = %v, %q, want %q", ok, msg, MsgNotFound)
	}
}
