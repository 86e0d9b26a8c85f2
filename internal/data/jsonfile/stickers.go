// Package jsonfile records sticker batches as JSON lines.
package jsonfile

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hay-kot/barcoder/internal/core/salesorder"
	"github.com/hay-kot/barcoder/pkg/iojson"
)

// Record is one line of the sticker file.
type Record struct {
	BatchID        string    `json:"batch_id"`
	OrderNumber    string    `json:"order_number"`
	CustomerNumber string    `json:"customer_number"`
	CreatedAt      time.Time `json:"created_at"`
	salesorder.StickerRequest
}

// StickerStore implements salesorder.StickerSink by appending one Record
// per request to a file.
type StickerStore struct {
	path  string
	newID func() string
	open  func(path string) (appendFile, error)

	mu sync.Mutex
}

var _ salesorder.StickerSink = (*StickerStore)(nil)

// NewStickerStore creates a sticker store writing to path.
func NewStickerStore(path string) *StickerStore {
	return &StickerStore{path: path, newID: uuid.NewString, open: openAppend}
}

type appendFile interface {
	io.WriteCloser
	Sync() error
}

func openAppend(path string) (appendFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sticker dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open sticker file: %w", err)
	}
	return f, nil
}

// Generate appends the batch and returns its total sticker count. An empty
// batch writes nothing and returns 0.
func (s *StickerStore) Generate(ctx context.Context, batch salesorder.Batch) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(batch.Requests) == 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Encode everything first; the batch is appended with a single write.
	var buf bytes.Buffer
	id := s.newID()
	for _, req := range batch.Requests {
		rec := Record{
			BatchID:        id,
			OrderNumber:    batch.OrderNumber,
			CustomerNumber: batch.CustomerNumber,
			CreatedAt:      batch.CreatedAt,
			StickerRequest: req,
		}
		if err := iojson.WriteLine(&buf, rec); err != nil {
			return 0, fmt.Errorf("encode sticker record: %w", err)
		}
	}

	f, err := s.open(s.path)
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(buf.Bytes()); err != nil {
		return 0, fmt.Errorf("write sticker batch: %w", err)
	}

	if err := f.Sync(); err != nil {
		return 0, fmt.Errorf("sync sticker file: %w", err)
	}

	return batch.Total(), nil
}
