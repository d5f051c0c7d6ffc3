package record

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

const (
	// TrainingNamesFile holds one names line per training record.
	TrainingNamesFile = "train_Names.txt"
	// TrainingDistancesFile holds the matching distances lines.
	TrainingDistancesFile = "train_Distances.txt"
)

// Labels of a training record.
const (
	LabelStay = 0 // the method belongs to the first package
	LabelMove = 1 // the method belongs to the second package
)

// NoMove is the correct index of a method without a confirmed move.
const NoMove = -1

// Record is one names line and its distances line.
type Record struct {
	Names     string
	Distances string
}

// String renders the record as a single evaluation line.
func (r Record) String() string {
	return r.Names + " " + r.Distances
}

// TrainingWriter appends records to the paired training files.
type TrainingWriter struct {
	namesFile     *os.File
	distancesFile *os.File
	names         *bufio.Writer
	distances     *bufio.Writer
	count         int
}

// NewTrainingWriter creates dir and truncates the training files in it.
func NewTrainingWriter(dir string) (*TrainingWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	namesFile, err := os.Create(filepath.Join(dir, TrainingNamesFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create names file: %w", err)
	}
	distancesFile, err := os.Create(filepath.Join(dir, TrainingDistancesFile))
	if err != nil {
		namesFile.Close()
		return nil, fmt.Errorf("failed to create distances file: %w", err)
	}

	return &TrainingWriter{
		namesFile:     namesFile,
		distancesFile: distancesFile,
		names:         bufio.NewWriter(namesFile),
		distances:     bufio.NewWriter(distancesFile),
	}, nil
}

// Write appends one record; line i of both files always belongs together.
func (w *TrainingWriter) Write(r Record) error {
	if _, err := w.names.WriteString(r.Names + "\n"); err != nil {
		return fmt.Errorf("failed to write names: %w", err)
	}
	if _, err := w.distances.WriteString(r.Distances + "\n"); err != nil {
		return fmt.Errorf("failed to write distances: %w", err)
	}
	w.count++
	return nil
}

// Count returns the number of records written.
func (w *TrainingWriter) Count() int {
	return w.count
}

// Close flushes and closes both files.
func (w *TrainingWriter) Close() error {
	return errors.Join(
		w.names.Flush(),
		w.distances.Flush(),
		w.namesFile.Close(),
		w.distancesFile.Close(),
	)
}

// EvaluationWriter writes one file per analyzed method.
type EvaluationWriter struct {
	dir   string
	count int
}

// NewEvaluationWriter creates dir.
func NewEvaluationWriter(dir string) (*EvaluationWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &EvaluationWriter{dir: dir}, nil
}

// Write creates "<ordinal>.txt" holding the correct index followed by one
// line per candidate record.
func (w *EvaluationWriter) Write(ordinal, correct int, records []Record) error {
	path := filepath.Join(w.dir, strconv.Itoa(ordinal)+".txt")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	buf := bufio.NewWriter(f)
	buf.WriteString(strconv.Itoa(correct) + "\n")
	for _, r := range records {
		buf.WriteString(r.String() + "\n")
	}

	if err := errors.Join(buf.Flush(), f.Close()); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	w.count++
	return nil
}

// Count returns the number of files written.
func (w *EvaluationWriter) Count() int {
	return w.count
}
