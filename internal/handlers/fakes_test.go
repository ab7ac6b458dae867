package handlers_test

import (
	"context"
	"strconv"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Mutu-s/MonFair-sub001/internal/models"
	"github.com/Mutu-s/MonFair-sub001/internal/services"
)

type memoryStore struct {
	mu      sync.Mutex
	reports map[string]string
	order   map[string][]uint64
	failSet bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{reports: map[string]string{}, order: map[string][]uint64{}}
}

func (m *memoryStore) SaveReport(_ context.Context, kind string, gameID uint64, report string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSet {
		return context.DeadlineExceeded
	}
	m.reports[kind+":"+strconv.FormatUint(gameID, 10)] = report
	m.order[kind] = append([]uint64{gameID}, m.order[kind]...)
	return nil
}

func (m *memoryStore) GetReport(_ context.Context, kind string, gameID uint64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reports[kind+":"+strconv.FormatUint(gameID, 10)]
	if !ok {
		return "", services.ErrReportNotFound
	}
	return r, nil
}

func (m *memoryStore) ListReports(_ context.Context, kind string, limit int64) ([]uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := m.order[kind]
	if int64(len(ids)) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (m *memoryStore) DeleteReport(_ context.Context, kind string, gameID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := kind + ":" + strconv.FormatUint(gameID, 10)
	if _, ok := m.reports[key]; !ok {
		return services.ErrReportNotFound
	}
	delete(m.reports, key)
	ids := m.order[kind][:0]
	for _, id := range m.order[kind] {
		if id != gameID {
			ids = append(ids, id)
		}
	}
	m.order[kind] = ids
	return nil
}

type recordedBroadcast struct {
	topic  string
	result *models.Verification
}

type recordingBroadcaster struct {
	mu   sync.Mutex
	sent []recordedBroadcast
}

func (b *recordingBroadcaster) BroadcastVerification(topic, _ string, result *models.Verification) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, recordedBroadcast{topic: topic, result: result})
}

type staticBlocks struct {
	head   uint64
	hashes map[uint64]common.Hash
}

func (s staticBlocks) BlockNumber(context.Context) (uint64, error) { return s.head, nil }

func (s staticBlocks) BlockHash(_ context.Context, n uint64) (common.Hash, error) {
	h, ok := s.hashes[n]
	if !ok {
		return common.Hash{}, context.Canceled
	}
	return h, nil
}
