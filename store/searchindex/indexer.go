package searchindex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	opensearch "github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/botguard/botguard/core/event"
	"github.com/botguard/botguard/detect"
)

// Indexer subscribes to the detectionEvent topic and writes
// detection documents to OpenSearch, one index request per event.
// Index failures are logged and dropped, never blocking the publisher.
type Indexer struct {
	client *opensearch.Client
	index  string
	log    *slog.Logger
}

// NewIndexer wraps an already-connected client.
func NewIndexer(client *opensearch.Client, cfg Config, log *slog.Logger) *Indexer {
	if log == nil {
		log = slog.Default()
	}
	index := cfg.Index
	if index == "" {
		index = "botguard-detections"
	}
	return &Indexer{client: client, index: index, log: log}
}

// Run subscribes to bus and indexes documents until ctx is cancelled.
func (ix *Indexer) Run(ctx context.Context, bus *event.Bus) {
	ch, unsubscribe := bus.Subscribe(event.TopicDetectionEvent, 256)
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-ch:
			if !ok {
				return
			}
			result, ok := evt.Payload.(detect.Result)
			if !ok {
				continue
			}
			if err := ix.indexDocument(ctx, result); err != nil {
				ix.log.Warn("searchindex: failed to index detection document", "error", err, "correlationId", result.CorrelationID)
			}
		}
	}
}

func (ix *Indexer) indexDocument(ctx context.Context, result detect.Result) error {
	doc := NewDocument(result)
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrIndexFailed, err)
	}

	req := opensearchapi.IndexRequest{
		Index:      ix.index,
		DocumentID: doc.CorrelationID,
		Body:       bytes.NewReader(body),
	}
	resp, err := req.Do(ctx, ix.client)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrIndexFailed, err)
	}
	defer resp.Body.Close()
	if resp.IsError() {
		return fmt.Errorf("%w: cluster returned status %s", ErrIndexFailed, resp.Status())
	}
	return nil
}
