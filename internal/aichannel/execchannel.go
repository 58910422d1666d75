package aichannel

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/creack/pty"
	"github.com/tidwall/gjson"

	"github.com/sologit/sologit/internal/sgerrors"
)

// ExecChannel drives a locally installed command-line model runner (for
// example a coding-agent CLI) as a subprocess. Prompts are written to a
// scratch file and passed as the final argument, mirroring how such
// runners are typically invoked interactively; output is read back off a
// pty so line-oriented runners flush incrementally instead of
// fully-buffering because stdout isn't a terminal.
type ExecChannel struct {
	Command string
	Args    []string
	WorkDir string

	mu sync.Mutex
}

// NewExecChannel builds a channel that runs `command args... <promptfile>`
// in workDir.
func NewExecChannel(command string, args []string, workDir string) *ExecChannel {
	return &ExecChannel{Command: command, Args: args, WorkDir: workDir}
}

func (c *ExecChannel) writePromptFile(req Request) (string, func(), error) {
	var sb strings.Builder
	for _, m := range req.Messages {
		sb.WriteString(fmt.Sprintf("[%s]\n%s\n\n", m.Role, m.Content))
	}
	f, err := os.CreateTemp(c.WorkDir, "sologit-prompt-*.txt")
	if err != nil {
		return "", func() {}, err
	}
	path := f.Name()
	if _, err := f.WriteString(sb.String()); err != nil {
		f.Close()
		os.Remove(path)
		return "", func() {}, err
	}
	f.Close()
	return path, func() { os.Remove(path) }, nil
}

// Chat runs the configured command once and parses its full output as a
// Result, blocking until the process exits.
func (c *ExecChannel) Chat(ctx context.Context, req Request) (Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	promptPath, cleanup, err := c.writePromptFile(req)
	if err != nil {
		return Result{}, &sgerrors.AIError{Detail: "writing prompt file", Cause: err}
	}
	defer cleanup()

	args := append(append([]string{}, c.Args...), promptPath)
	cmd := exec.CommandContext(ctx, c.Command, args...)
	cmd.Dir = c.WorkDir

	ptmx, pts, err := pty.Open()
	if err != nil {
		return Result{}, &sgerrors.AIError{Detail: "opening pty", Cause: err}
	}
	defer ptmx.Close()

	cmd.Stdin = strings.NewReader(promptText(req))
	cmd.Stdout = pts
	cmd.Stderr = pts

	if err := cmd.Start(); err != nil {
		pts.Close()
		return Result{}, &sgerrors.AIError{Detail: "starting model runner", Cause: err}
	}
	pts.Close()

	var out strings.Builder
	if _, err := io.Copy(&out, ptmx); err != nil {
		var pathErr *os.PathError
		if !(errors.As(err, &pathErr) && pathErr.Err == syscall.EIO) {
			return Result{}, &sgerrors.AIError{Detail: "reading model runner output", Cause: err}
		}
	}

	if err := cmd.Wait(); err != nil {
		return Result{}, &sgerrors.AIError{Detail: "model runner exited with error", Cause: err}
	}

	return parseResult(out.String(), req.Model), nil
}

// ChatStream runs the command and forwards each pty line as a
// ContentDelta as it arrives, then parses the accumulated output as the
// final Result.
func (c *ExecChannel) ChatStream(ctx context.Context, req Request) (<-chan ContentDelta, <-chan Result, <-chan error) {
	deltas := make(chan ContentDelta, 16)
	results := make(chan Result, 1)
	errs := make(chan error, 1)

	go func() {
		defer close(deltas)
		defer close(results)
		defer close(errs)

		c.mu.Lock()
		defer c.mu.Unlock()

		promptPath, cleanup, err := c.writePromptFile(req)
		if err != nil {
			errs <- &sgerrors.AIError{Detail: "writing prompt file", Cause: err}
			return
		}
		defer cleanup()

		args := append(append([]string{}, c.Args...), promptPath)
		cmd := exec.CommandContext(ctx, c.Command, args...)
		cmd.Dir = c.WorkDir

		ptmx, pts, err := pty.Open()
		if err != nil {
			errs <- &sgerrors.AIError{Detail: "opening pty", Cause: err}
			return
		}
		defer ptmx.Close()

		cmd.Stdin = strings.NewReader(promptText(req))
		cmd.Stdout = pts
		cmd.Stderr = pts

		if err := cmd.Start(); err != nil {
			pts.Close()
			errs <- &sgerrors.AIError{Detail: "starting model runner", Cause: err}
			return
		}
		pts.Close()

		var out strings.Builder
		scanner := bufio.NewScanner(ptmx)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Text()
			out.WriteString(line)
			out.WriteByte('\n')
			select {
			case deltas <- ContentDelta{Content: line + "\n"}:
			case <-ctx.Done():
			}
		}

		if err := cmd.Wait(); err != nil {
			errs <- &sgerrors.AIError{Detail: "model runner exited with error", Cause: err}
			return
		}

		results <- parseResult(out.String(), req.Model)
	}()

	return deltas, results, errs
}

func promptText(req Request) string {
	var sb strings.Builder
	for _, m := range req.Messages {
		sb.WriteString(string(m.Content))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// parseResult defensively extracts a structured result from runner
// output: if the tail of the output is a JSON object (as emitted by
// runners with a `--output-format json` style flag), pull fields out of
// it with gjson rather than requiring the whole blob to be valid JSON;
// otherwise treat the entire output as plain content.
func parseResult(raw, requestedModel string) Result {
	trimmed := strings.TrimSpace(raw)
	if idx := strings.LastIndex(trimmed, "\n{"); idx >= 0 && json.Valid([]byte(trimmed[idx+1:])) {
		candidate := trimmed[idx+1:]
		if gjson.Valid(candidate) {
			parsed := gjson.Parse(candidate)
			return Result{
				Content:          gjson.Get(candidate, "content").String(),
				Model:            firstNonEmpty(gjson.Get(candidate, "model").String(), requestedModel),
				FinishReason:     gjson.Get(candidate, "finish_reason").String(),
				PromptTokens:     int(gjson.Get(candidate, "usage.prompt_tokens").Int()),
				CompletionTokens: int(gjson.Get(candidate, "usage.completion_tokens").Int()),
				TotalTokens:      int(gjson.Get(candidate, "usage.total_tokens").Int()),
				Raw:              parsed.Raw,
			}
		}
	}
	return Result{
		Content:      trimmed,
		Model:        requestedModel,
		FinishReason: "stop",
		Raw:          trimmed,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// DefaultWorkDir resolves a scratch directory for prompt files when the
// caller doesn't supply a repository-specific one.
func DefaultWorkDir() string {
	return filepath.Join(os.TempDir(), "sologit-aichannel")
}
