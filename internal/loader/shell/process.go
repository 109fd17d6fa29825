package shell

import (
	"bytes"
	"errors"
	"os/exec"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// process is a script run in its own process group. Output is buffered in
// full and read once the process has exited.
type process struct {
	cmd    *exec.Cmd
	stdout bytes.Buffer
	stderr bytes.Buffer
	done   chan struct{}
	err    error
}

func startProcess(path string, args []string, waitDelay time.Duration) (*process, error) {
	p := &process{done: make(chan struct{})}
	cmd := exec.Command(path, args...)
	cmd.Stdout = &p.stdout
	cmd.Stderr = &p.stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	// Bounds how long Wait holds on to pipes inherited by orphaned children.
	cmd.WaitDelay = waitDelay
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	p.cmd = cmd
	go func() {
		p.err = cmd.Wait()
		close(p.done)
	}()
	return p, nil
}

func (p *process) alive() bool {
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

// exitCode is valid once alive returns false. A process killed by a signal
// reports -1.
func (p *process) exitCode() int {
	if p.err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(p.err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

func (p *process) output() string {
	return p.stdout.String()
}

func (p *process) errorOutput() string {
	return p.stderr.String()
}

func (p *process) signal(sig unix.Signal) error {
	err := unix.Kill(-p.cmd.Process.Pid, sig)
	if errors.Is(err, unix.ESRCH) {
		return nil
	}
	return err
}

func (p *process) terminate() error {
	return p.signal(unix.SIGTERM)
}

func (p *process) kill() error {
	return p.signal(unix.SIGKILL)
}
