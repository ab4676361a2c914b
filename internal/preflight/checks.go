package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"vidnotes/internal/config"
	"vidnotes/internal/remote"
	"vidnotes/internal/staging"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckCredentials verifies that the Gemini key and the selected remote
// backend's credentials are present. It does not contact either service.
func CheckCredentials(cfg *config.Config) Result {
	const name = "Credentials"

	var missing []string
	if strings.TrimSpace(cfg.Gemini.APIKey) == "" {
		missing = append(missing, "gemini api_key (GEMINI_API_KEY)")
	}
	switch cfg.Remote.Backend {
	case "s3":
		if strings.TrimSpace(cfg.Remote.S3.AccessKey) == "" {
			missing = append(missing, "s3 access_key (S3_ACCESS_KEY)")
		}
		if strings.TrimSpace(cfg.Remote.S3.SecretKey) == "" {
			missing = append(missing, "s3 secret_key (S3_SECRET_KEY)")
		}
	default:
		if strings.TrimSpace(cfg.Remote.Dropbox.AccessToken) == "" {
			missing = append(missing, "dropbox access_token (DROPBOX_ACCESS_TOKEN)")
		}
	}
	if len(missing) > 0 {
		return Result{Name: name, Detail: "missing " + strings.Join(missing, ", ")}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("gemini + %s present", cfg.Remote.Backend)}
}

// CheckPromptFiles verifies that configured prompt files are readable.
func CheckPromptFiles(cfg *config.Config) Result {
	const name = "Prompt files"

	template, example, err := cfg.PromptFiles()
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	source := "built-in template"
	if template != "" {
		source = cfg.Paths.PromptTemplate
	}
	if example != "" {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s with example %s", source, cfg.Paths.ExampleFile)}
	}
	return Result{Name: name, Passed: true, Detail: source}
}

// CheckRemoteFolder verifies that path exists on the remote store and is a
// folder. It uses a 30-second timeout and a single attempt.
func CheckRemoteFolder(ctx context.Context, store remote.Store, name, path string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "not configured"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	info, err := store.Stat(checkCtx, path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %s)", path, summarizeRemoteError(err))}
	}
	if !info.IsDir {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a folder)", path)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (reachable)", path)}
}

// CheckScratchUsage reports leftover scratch files. Files older than maxAge
// are removed automatically at the start of each run, so leftovers only warn
// in the detail text.
func CheckScratchUsage(scratchDir string, maxAge time.Duration) Result {
	const name = "Scratch usage"

	files, err := staging.ListFiles(scratchDir)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("list scratch files: %v", err)}
	}
	if len(files) == 0 {
		return Result{Name: name, Passed: true, Detail: "empty"}
	}
	stale := 0
	cutoff := time.Now().Add(-maxAge)
	for _, f := range files {
		if maxAge > 0 && f.ModTime.Before(cutoff) {
			stale++
		}
	}
	detail := fmt.Sprintf("%d files, %d bytes", len(files), staging.TotalSize(files))
	if stale > 0 {
		detail += fmt.Sprintf(" (%d stale, removed on next run)", stale)
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// summarizeRemoteError produces a human-readable summary for remote failures.
func summarizeRemoteError(err error) string {
	switch {
	case errors.Is(err, remote.ErrNotFound):
		return "not found"
	case errors.Is(err, remote.ErrPermission):
		return "permission denied (check credentials)"
	case errors.Is(err, context.DeadlineExceeded):
		return "timed out (remote store unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timed out (remote store unreachable)"
	}
	return err.Error()
}
