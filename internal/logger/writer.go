package logger

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/scriptdeck/scriptdeck/internal/model"
	"github.com/scriptdeck/scriptdeck/internal/repository"
)

// Writer fans a single entry out to the sinks its policy names. Each sink is
// attempted independently; a sink failure is reported as a console diagnostic
// and never reaches the caller.
type Writer struct {
	repo    repository.LogRepository
	files   *FileSink
	console *log.Logger
	diag    *log.Logger
}

// NewWriter builds a writer. A nil repo disables the database sink and a nil
// files disables the file sink.
func NewWriter(repo repository.LogRepository, files *FileSink) *Writer {
	return &Writer{
		repo:    repo,
		files:   files,
		console: log.New(os.Stdout, "", 0),
		diag:    log.New(os.Stderr, "", 0),
	}
}

// SetOutput redirects console output and diagnostics, used by tests.
func (w *Writer) SetOutput(console, diag io.Writer) {
	w.console.SetOutput(console)
	w.diag.SetOutput(diag)
}

func (w *Writer) Write(ctx context.Context, entry model.Log, policy StoragePolicy) {
	sinks := policy.Sinks()

	if sinks.Console {
		w.writeConsole(entry)
	}
	if sinks.Database && w.repo != nil {
		if err := w.repo.Save(ctx, entry); err != nil {
			w.diag.Printf("log writer: database sink failed: %v", err)
		}
	}
	if sinks.File && w.files != nil {
		if err := w.files.Append(entry); err != nil {
			w.diag.Printf("log writer: file sink failed: %v", err)
		}
	}
}

func (w *Writer) writeConsole(entry model.Log) {
	line := fmt.Sprintf("%s [%s] %s: %s",
		entry.Timestamp.Format("2006-01-02 15:04:05"),
		strings.ToUpper(string(entry.Level)), entry.Type, entry.Message)
	if entry.Level.Severity() >= model.LogLevelError.Severity() {
		w.diag.Println(line)
		return
	}
	w.console.Println(line)
}
