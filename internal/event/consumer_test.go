package event

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgkafka "github.com/lruozzi9/SyliusElasticsearchPlugin/pkg/kafka"
)

type fakeIndexer struct {
	indexed []string
	deleted []string
}

func (f *fakeIndexer) IndexProduct(_ context.Context, code string) error {
	f.indexed = append(f.indexed, code)
	return nil
}

func (f *fakeIndexer) DeleteProduct(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func newTestConsumer() (*Consumer, *fakeIndexer) {
	indexer := &fakeIndexer{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewConsumer(indexer, logger), indexer
}

func TestHandleProductCreated(t *testing.T) {
	c, indexer := newTestConsumer()

	event, err := pkgkafka.NewEvent(TopicProductCreated, "42", "product", "catalog",
		map[string]string{"id": "42", "code": "MUG"})
	require.NoError(t, err)

	require.NoError(t, c.Handle(context.Background(), event))
	assert.Equal(t, []string{"MUG"}, indexer.indexed)
}

func TestHandleProductUpdated(t *testing.T) {
	c, indexer := newTestConsumer()

	event, err := pkgkafka.NewEvent(TopicProductUpdated, "42", "product", "catalog",
		map[string]string{"id": "42", "code": "MUG"})
	require.NoError(t, err)

	require.NoError(t, c.Handle(context.Background(), event))
	assert.Equal(t, []string{"MUG"}, indexer.indexed)
}

func TestHandleProductDeleted(t *testing.T) {
	c, indexer := newTestConsumer()

	event, err := pkgkafka.NewEvent(TopicProductDeleted, "42", "product", "catalog",
		map[string]string{"id": "42"})
	require.NoError(t, err)

	require.NoError(t, c.Handle(context.Background(), event))
	assert.Equal(t, []string{"42"}, indexer.deleted)
	assert.Empty(t, indexer.indexed)
}

func TestHandleUnknownEventType(t *testing.T) {
	c, indexer := newTestConsumer()

	event, err := pkgkafka.NewEvent("catalog.order.created", "7", "order", "catalog", nil)
	require.NoError(t, err)

	require.NoError(t, c.Handle(context.Background(), event))
	assert.Empty(t, indexer.indexed)
	assert.Empty(t, indexer.deleted)
}

func TestHandleUpsertWithoutCode(t *testing.T) {
	c, indexer := newTestConsumer()

	event, err := pkgkafka.NewEvent(TopicProductCreated, "42", "product", "catalog",
		map[string]string{"id": "42"})
	require.NoError(t, err)

	assert.Error(t, c.Handle(context.Background(), event))
	assert.Empty(t, indexer.indexed)
}
