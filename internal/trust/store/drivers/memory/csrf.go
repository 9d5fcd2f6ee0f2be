// Package memory keeps CSRF records in process memory. It is the default
// backend for a single instance.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jcarintoc/simple-applications-sub002/internal/trust/domain"
	"github.com/jcarintoc/simple-applications-sub002/internal/trust/store"
)

// CSRFStore maps a subject to its current record. Records are immutable once
// stored so a pointer comparison tells whether a record was replaced.
type CSRFStore struct {
	records sync.Map // domain.Subject -> *domain.CSRFRecord
}

var _ store.CSRFRecords = (*CSRFStore)(nil)

func NewCSRFStore() *CSRFStore {
	return &CSRFStore{}
}

func (s *CSRFStore) SaveCSRFRecord(_ context.Context, rec domain.CSRFRecord) error {
	r := rec
	s.records.Store(rec.Subject, &r)
	return nil
}

func (s *CSRFStore) GetCSRFRecord(_ context.Context, subject domain.Subject) (domain.CSRFRecord, error) {
	v, ok := s.records.Load(subject)
	if !ok {
		return domain.CSRFRecord{}, store.ErrNotFound
	}
	return *v.(*domain.CSRFRecord), nil
}

func (s *CSRFStore) DeleteCSRFRecord(_ context.Context, subject domain.Subject) error {
	s.records.Delete(subject)
	return nil
}

func (s *CSRFStore) DeleteCSRFRecordIfUnchanged(_ context.Context, rec domain.CSRFRecord) (bool, error) {
	v, ok := s.records.Load(rec.Subject)
	if !ok {
		return false, nil
	}
	cur := v.(*domain.CSRFRecord)
	if !sameRecord(*cur, rec) {
		return false, nil
	}
	return s.records.CompareAndDelete(rec.Subject, cur), nil
}

func (s *CSRFStore) DeleteExpiredCSRFRecords(_ context.Context, now time.Time) (int, error) {
	n := 0
	s.records.Range(func(k, v any) bool {
		if v.(*domain.CSRFRecord).Expired(now) && s.records.CompareAndDelete(k, v) {
			n++
		}
		return true
	})
	return n, nil
}

func sameRecord(a, b domain.CSRFRecord) bool {
	return a.Subject == b.Subject && a.TokenHash == b.TokenHash && a.ExpiresAt.Equal(b.ExpiresAt)
}
