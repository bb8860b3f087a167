package diagnostics

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/HicaroD/herb/internal/lexer/token"
)

var (
	// COMPILER_ERROR_FOUND is returned by a phase that finished its traversal
	// but reported at least one diagnostic.
	COMPILER_ERROR_FOUND = errors.New("compiler error found")
	// ERR_COMPILATION_INTERRUPTED is returned by a phase that could not finish
	// its traversal, such as a dependency cycle.
	ERR_COMPILATION_INTERRUPTED = errors.New("compilation interrupted")
)

type Collector struct {
	Diags []Diag

	logger *zap.Logger
}

func New() *Collector {
	return &Collector{
		Diags:  nil,
		logger: zap.NewNop(),
	}
}

func NewWithLogger(logger *zap.Logger) *Collector {
	collector := New()
	if logger != nil {
		collector.logger = logger
	}
	return collector
}

func (collector *Collector) ReportAndSave(diag Diag) {
	collector.logger.Debug("diagnostic reported",
		zap.Stringer("kind", diag.Kind),
		zap.Stringer("pos", diag.Pos),
		zap.String("message", diag.Message),
	)
	collector.Diags = append(collector.Diags, diag)
}

// Report is a shorthand for ReportAndSave that formats the message.
func (collector *Collector) Report(kind ErrorKind, pos token.Pos, hint string, format string, args ...any) {
	collector.ReportAndSave(Diag{
		Kind:    kind,
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
		Hint:    hint,
	})
}

func (collector *Collector) HasErrors() bool {
	return len(collector.Diags) > 0
}

func (collector *Collector) Count(kind ErrorKind) int {
	n := 0
	for _, diag := range collector.Diags {
		if diag.Kind == kind {
			n++
		}
	}
	return n
}

// Sort orders diagnostics by file, line and column. Diagnostics reported at
// the same position keep their report order.
func (collector *Collector) Sort() {
	sort.SliceStable(collector.Diags, func(i, j int) bool {
		return collector.Diags[i].Pos.Before(collector.Diags[j].Pos)
	})
}

// Flush writes every collected diagnostic to w, one per line plus hint.
func (collector *Collector) Flush(w io.Writer) error {
	collector.Sort()
	for _, diag := range collector.Diags {
		if _, err := fmt.Fprintln(w, diag.Error()); err != nil {
			return err
		}
	}
	return nil
}

// Err combines every diagnostic into a single error, or nil if nothing was
// reported.
func (collector *Collector) Err() error {
	var err error
	for _, diag := range collector.Diags {
		err = multierr.Append(err, diag)
	}
	return err
}
