package httpx

import "context"

type ctxKey string

const ctxKeySubject ctxKey = "subject"

// ContextWithSubject records the authenticated subject for downstream
// middleware such as per-user rate limiting.
func ContextWithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, ctxKeySubject, subject)
}

// SubjectFromContext returns the authenticated subject, or "".
func SubjectFromContext(ctx context.Context) string {
	s, _ := ctx.Value(ctxKeySubject).(string)
	return s
}
