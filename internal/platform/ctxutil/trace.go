package ctxutil

import "context"

type traceDataKey struct{}

// TraceData correlates one API call across logs, spans and editor drafts.
type TraceData struct {
	TraceID   string
	RequestID string
	// DraftID names the unsaved resource a regeneration belongs to, when the client sent one.
	DraftID string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	if td, ok := ctx.Value(traceDataKey{}).(*TraceData); ok {
		return td
	}
	return nil
}

// DraftID returns the draft id attached to ctx, or "".
func DraftID(ctx context.Context) string {
	if td := GetTraceData(ctx); td != nil {
		return td.DraftID
	}
	return ""
}

// LogFields flattens the non-empty ids into logger key/value pairs.
func (td *TraceData) LogFields() []interface{} {
	if td == nil {
		return nil
	}
	var out []interface{}
	if td.TraceID != "" {
		out = append(out, "trace_id", td.TraceID)
	}
	if td.RequestID != "" {
		out = append(out, "request_id", td.RequestID)
	}
	if td.DraftID != "" {
		out = append(out, "draft_id", td.DraftID)
	}
	return out
}
