package eval

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// utf8BOM makes common spreadsheet tools decode the log as UTF-8.
const utf8BOM = "\xEF\xBB\xBF"

var csvHeader = []string{
	"timestamp", "question", "expected", "answer",
	"sources", "answer_length", "chunks_found", "correct",
}

// AppendCSV appends records to the evaluation log at path, creating it
// (and its directory) with a BOM and header row when it does not exist
// yet. The log is append-only: successive runs accumulate.
func AppendCSV(path string, records []Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("eval: create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("eval: open log: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("eval: stat log: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if _, err := f.WriteString(utf8BOM); err != nil {
			return fmt.Errorf("eval: write BOM: %w", err)
		}
		if err := w.Write(csvHeader); err != nil {
			return fmt.Errorf("eval: write header: %w", err)
		}
	}

	for _, r := range records {
		row := []string{
			r.Timestamp.Format(time.RFC3339),
			r.Question,
			r.Expected,
			r.Answer,
			strings.Join(r.Sources, ", "),
			strconv.Itoa(r.AnswerLen),
			strconv.Itoa(r.ChunkCount),
			strconv.FormatBool(r.Correct),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("eval: write record: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
