package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jcarintoc/simple-applications-sub002/internal/trust/domain"
	"github.com/jcarintoc/simple-applications-sub002/internal/trust/store"
	"github.com/jcarintoc/simple-applications-sub002/pkg/cryptox"
	"github.com/jcarintoc/simple-applications-sub002/pkg/slogx"
)

// DefaultCSRFTTL applies when CSRFGuard is built with a non-positive TTL.
const DefaultCSRFTTL = time.Hour

// CSRFGuard hands out one anti-forgery token per subject. A token stays
// usable until it expires or is replaced by a newer one.
type CSRFGuard struct {
	Records store.CSRFRecords
	TTL     time.Duration
	Now     func() time.Time
}

func NewCSRFGuard(records store.CSRFRecords, ttl time.Duration) *CSRFGuard {
	if ttl <= 0 {
		ttl = DefaultCSRFTTL
	}
	return &CSRFGuard{Records: records, TTL: ttl, Now: time.Now}
}

func (g *CSRFGuard) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

// Issue mints a token for subject, replacing any previous one.
func (g *CSRFGuard) Issue(ctx context.Context, subject domain.Subject) (string, error) {
	if subject == "" {
		return "", ErrInvalidRequest
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", err
	}

	rec := domain.CSRFRecord{
		Subject:   subject,
		TokenHash: cryptox.FingerprintToken(token),
		ExpiresAt: g.now().Add(g.TTL).UTC(),
	}
	if err := g.Records.SaveCSRFRecord(ctx, rec); err != nil {
		return "", err
	}
	return token, nil
}

// Validate reports whether supplied is the subject's live token. An expired
// record met here is removed unless it was replaced in the meantime.
func (g *CSRFGuard) Validate(ctx context.Context, subject domain.Subject, supplied string) bool {
	if subject == "" || supplied == "" {
		return false
	}

	rec, err := g.Records.GetCSRFRecord(ctx, subject)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slogx.FromContext(ctx).Error("csrf lookup failed", slog.Any("error", err))
		}
		return false
	}

	if rec.Expired(g.now()) {
		if _, err := g.Records.DeleteCSRFRecordIfUnchanged(ctx, rec); err != nil {
			slogx.FromContext(ctx).Warn("failed to drop expired csrf record", slog.Any("error", err))
		}
		return false
	}

	return cryptox.MatchFingerprint(supplied, rec.TokenHash)
}

// Clear forgets the subject's token. Clearing an absent token is not an error.
func (g *CSRFGuard) Clear(ctx context.Context, subject domain.Subject) error {
	if subject == "" {
		return nil
	}
	return g.Records.DeleteCSRFRecord(ctx, subject)
}

// Sweep removes every expired record.
func (g *CSRFGuard) Sweep(ctx context.Context) (int, error) {
	return g.Records.DeleteExpiredCSRFRecords(ctx, g.now())
}
