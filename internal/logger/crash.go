// Package logger provides structured log setup and crash recovery for zhice.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"
)

const (
	// CrashLogDir is the directory for crash reports relative to the data directory.
	CrashLogDir = "crash_logs"

	// MaxCrashLogs is the number of reports kept on disk.
	MaxCrashLogs = 10

	crashPrefix = "crash_"
	crashSuffix = ".json"
	maxGoalLen  = 500
)

// CrashReport is one recovered panic, stored as indented JSON.
type CrashReport struct {
	Timestamp  time.Time `json:"timestamp"`
	Version    string    `json:"version"`
	Command    string    `json:"command"`
	PlanID     string    `json:"plan_id,omitempty"`
	Goal       string    `json:"goal,omitempty"`
	PanicValue string    `json:"panic_value"`
	StackTrace string    `json:"stack_trace"`
	GoVersion  string    `json:"go_version"`
	Platform   string    `json:"platform"`
}

// crashState is what zhice was doing when it crashed.
type crashState struct {
	mu      sync.RWMutex
	fs      afero.Fs
	dataDir string
	version string
	command string
	planID  string
	goal    string
}

var state = newCrashState(afero.NewOsFs())

func newCrashState(fsys afero.Fs) *crashState {
	return &crashState{fs: fsys}
}

// SetBasePath sets the data directory reports are written under.
func SetBasePath(path string) {
	state.mu.Lock()
	state.dataDir = path
	state.mu.Unlock()
}

// SetVersion records the CLI version.
func SetVersion(version string) {
	state.mu.Lock()
	state.version = version
	state.mu.Unlock()
}

// SetCommand records the command being run.
func SetCommand(cmd string) {
	state.mu.Lock()
	state.command = cmd
	state.mu.Unlock()
}

// SetPlan records the active plan. Long goals are cut.
func SetPlan(id, goal string) {
	goal = strings.TrimSpace(goal)
	if r := []rune(goal); len(r) > maxGoalLen {
		goal = string(r[:maxGoalLen]) + "…"
	}
	state.mu.Lock()
	state.planID, state.goal = id, goal
	state.mu.Unlock()
}

// exit is replaced in tests.
var exit = os.Exit

// HandlePanic recovers a panic, saves a crash report and exits with status 1.
//
//	defer logger.HandlePanic()
func HandlePanic() {
	r := recover()
	if r == nil {
		return
	}
	state.report(os.Stderr, r, debug.Stack())
	exit(1)
}

func (s *crashState) snapshot(panicValue any, stack []byte) CrashReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return CrashReport{
		Timestamp:  time.Now().UTC(),
		Version:    s.version,
		Command:    s.command,
		PlanID:     s.planID,
		Goal:       s.goal,
		PanicValue: fmt.Sprint(panicValue),
		StackTrace: string(stack),
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func (s *crashState) report(w io.Writer, panicValue any, stack []byte) {
	rep := s.snapshot(panicValue, stack)
	path, err := s.save(rep)
	if err != nil {
		fmt.Fprintf(w, "\nzhice crashed and the report could not be saved (%v).\npanic: %v\n%s\n", err, panicValue, stack)
		return
	}
	fmt.Fprintf(w, "\nzhice crashed: %v\n", panicValue)
	fmt.Fprintf(w, "Report saved to %s\n", path)
	fmt.Fprintln(w, "Your saved plan was not changed.")
}

func (s *crashState) dir() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	base := s.dataDir
	if base == "" {
		base = ".zhice"
	}
	return filepath.Join(base, CrashLogDir)
}

// save writes rep and prunes old reports, returning the new file's path.
func (s *crashState) save(rep CrashReport) (string, error) {
	dir := s.dir()
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create crash log dir: %w", err)
	}
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode crash report: %w", err)
	}

	name := crashPrefix + rep.Timestamp.Format("20060102_150405.000") + crashSuffix
	path := filepath.Join(dir, name)
	if err := afero.WriteFile(s.fs, path, data, 0o644); err != nil {
		return "", fmt.Errorf("write crash report: %w", err)
	}
	if err := s.prune(dir); err != nil {
		fmt.Fprintf(os.Stderr, "[WARN] could not prune crash reports: %v\n", err)
	}
	return path, nil
}

func (s *crashState) prune(dir string) error {
	paths, err := s.list(dir)
	if err != nil || len(paths) <= MaxCrashLogs {
		return err
	}
	for _, p := range paths[:len(paths)-MaxCrashLogs] {
		if err := s.fs.Remove(p); err != nil {
			return fmt.Errorf("remove %s: %w", filepath.Base(p), err)
		}
	}
	return nil
}

// list returns report paths oldest first; names embed the timestamp.
func (s *crashState) list(dir string) ([]string, error) {
	entries, err := afero.ReadDir(s.fs, dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), crashPrefix) && strings.HasSuffix(e.Name(), crashSuffix) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// ListCrashLogs returns saved crash report paths, oldest first.
func ListCrashLogs() ([]string, error) {
	return state.list(state.dir())
}

// ReadCrashLog decodes a saved report.
func ReadCrashLog(path string) (*CrashReport, error) {
	data, err := afero.ReadFile(state.fs, path)
	if err != nil {
		return nil, err
	}
	var rep CrashReport
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("decode crash report %s: %w", filepath.Base(path), err)
	}
	return &rep, nil
}
