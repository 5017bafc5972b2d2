package s3blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/bichocore/settler/internal/domain"
)

// putter is the narrow writer surface the archiver needs. *Writer
// satisfies it.
type putter interface {
	Put(ctx context.Context, path string, data io.Reader, contentType string) error
}

// SnapshotArchiver implements domain.SnapshotArchiver by uploading the
// raw upstream payload for every fetch. Settlement disputes get decided
// against these snapshots, not against whatever the site serves later.
type SnapshotArchiver struct {
	writer putter
}

// NewSnapshotArchiver creates a SnapshotArchiver that uploads through the
// given writer.
func NewSnapshotArchiver(writer putter) *SnapshotArchiver {
	return &SnapshotArchiver{writer: writer}
}

// Archive uploads one raw result page.
//
// Key schema, partitioned for retention sweeps by prefix:
//
//	raw/{code}/{yyyy-mm-dd}/{fetched-at}.html
func (a *SnapshotArchiver) Archive(ctx context.Context, code string, date time.Time, body []byte) error {
	key := fmt.Sprintf("raw/%s/%s/%s.html",
		code, date.Format("2006-01-02"), time.Now().UTC().Format("20060102T150405Z"))

	if err := a.writer.Put(ctx, key, bytes.NewReader(body), "text/html; charset=utf-8"); err != nil {
		return fmt.Errorf("s3blob: archive snapshot %s: %w", key, err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.SnapshotArchiver = (*SnapshotArchiver)(nil)
