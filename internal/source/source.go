// Package source supplies raw SMS messages to the ingestion pipeline.
// It is strictly read-only: no parsing of message bodies happens here.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/rumor-ml/commons.systems/smsledger/internal/domain"
)

// ErrPermissionDenied signals that the message store exists but cannot be
// read. Callers surface it as a failed sync; there is no automatic retry.
var ErrPermissionDenied = errors.New("permission denied reading messages")

// Format is the strategy interface for backup-file formats.
type Format interface {
	// Name returns the format identifier (e.g. "xml", "json").
	Name() string

	// CanParse checks whether this format can handle the file, based on
	// its path and the first bytes of content.
	CanParse(path string, header []byte) bool

	// Parse extracts raw messages from the reader. Order is not
	// guaranteed; the caller sorts.
	Parse(ctx context.Context, r io.Reader) ([]domain.RawMessage, error)
}

// FileSource reads device messages from an exported backup file. It
// implements the message-source contract the ingestion coordinator
// consumes: FetchInbox returns up to maxCount messages, newest first.
type FileSource struct {
	path    string
	formats []Format
}

// NewFileSource creates a source over a backup file with all built-in
// formats registered.
func NewFileSource(path string) *FileSource {
	return &FileSource{
		path: path,
		formats: []Format{
			newXMLFormat(),
			newJSONFormat(),
		},
	}
}

// Register adds a custom backup format.
func (f *FileSource) Register(format Format) {
	f.formats = append(f.formats, format)
}

// Formats returns the names of all registered formats.
func (f *FileSource) Formats() []string {
	names := make([]string, len(f.formats))
	for i, fm := range f.formats {
		names[i] = fm.Name()
	}
	return names
}

// FetchInbox reads the backup file and returns up to maxCount messages,
// newest first. A permission failure maps to ErrPermissionDenied rather
// than a crash.
func (f *FileSource) FetchInbox(ctx context.Context, maxCount int) ([]domain.RawMessage, error) {
	file, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, os.ErrPermission) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, f.path)
		}
		return nil, fmt.Errorf("open backup file: %w", err)
	}
	defer file.Close()

	// Read the header for format detection, then rewind. 512 bytes is
	// enough to see the XML prolog or the opening JSON token.
	header := make([]byte, 512)
	n, err := file.Read(header)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read header from %s: %w", f.path, err)
	}
	header = header[:n]
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind %s: %w", f.path, err)
	}

	var selected Format
	for _, fm := range f.formats {
		if fm.CanParse(f.path, header) {
			selected = fm
			break
		}
	}
	if selected == nil {
		return nil, fmt.Errorf("no format recognizes backup file %s", f.path)
	}

	messages, err := selected.Parse(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("parse %s backup: %w", selected.Name(), err)
	}

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].TimestampMs > messages[j].TimestampMs
	})
	if maxCount > 0 && len(messages) > maxCount {
		messages = messages[:maxCount]
	}
	return messages, nil
}
