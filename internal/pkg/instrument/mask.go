package instrument

import (
	"context"
	"encoding/json"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"github.com/samber/lo"
)

const maskedValue = "***"

// maskHandler replaces the values of configured attribute keys, at any depth
// of groups, decoded maps and JSON encoded strings.
type maskHandler struct {
	slog.Handler
	keys map[string]struct{}
}

func (h *maskHandler) Handle(ctx context.Context, r slog.Record) error {
	if len(h.keys) == 0 {
		return h.Handler.Handle(ctx, r)
	}

	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.mask(a))
		return true
	})

	return h.Handler.Handle(ctx, out)
}

func (h *maskHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := lo.Map(attrs, func(a slog.Attr, _ int) slog.Attr { return h.mask(a) })
	return &maskHandler{Handler: h.Handler.WithAttrs(masked), keys: h.keys}
}

func (h *maskHandler) WithGroup(name string) slog.Handler {
	return &maskHandler{Handler: h.Handler.WithGroup(name), keys: h.keys}
}

func (h *maskHandler) mask(a slog.Attr) slog.Attr {
	if h.hit(a.Key) {
		return slog.String(a.Key, maskedValue)
	}

	switch a.Value.Kind() {
	case slog.KindGroup:
		group := a.Value.Group()
		masked := make([]slog.Attr, len(group))
		for i, ga := range group {
			masked[i] = h.mask(ga)
		}
		a.Value = slog.GroupValue(masked...)
	case slog.KindString:
		if s, ok := maskJSON([]byte(a.Value.String()), h.keys); ok {
			a.Value = slog.StringValue(s)
		} else {
			a.Value = slog.StringValue(MaskText(a.Value.String(), h.keys))
		}
	case slog.KindAny:
		switch v := a.Value.Any().(type) {
		case map[string]any, []any:
			a.Value = slog.AnyValue(MaskData(v, h.keys))
		case map[string]string:
			a.Value = slog.AnyValue(MaskData(lo.MapValues(v, func(s string, _ string) any { return s }), h.keys))
		case []byte:
			if s, ok := maskJSON(v, h.keys); ok {
				a.Value = slog.StringValue(s)
			} else {
				a.Value = slog.StringValue(MaskText(string(v), h.keys))
			}
		}
	}

	return a
}

func (h *maskHandler) hit(key string) bool {
	_, ok := h.keys[strings.ToLower(key)]
	return ok
}

// maskJSON masks payload when it is a JSON object or array.
func maskJSON(payload []byte, keys map[string]struct{}) (string, bool) {
	if len(payload) == 0 || (payload[0] != '{' && payload[0] != '[') {
		return "", false
	}

	var v any
	if err := json.Unmarshal(payload, &v); err != nil {
		return "", false
	}

	out, err := json.Marshal(MaskData(v, keys))
	if err != nil {
		return "", false
	}
	return string(out), true
}

// MaskText masks values that follow a masked key and a ':' or '=' in text
// that did not decode, such as broken or truncated JSON and raw form bodies.
func MaskText(text string, keys map[string]struct{}) string {
	if len(keys) == 0 || text == "" {
		return text
	}

	names := make([]string, 0, len(keys))
	for k := range keys {
		names = append(names, regexp.QuoteMeta(k))
	}
	slices.Sort(names)

	re := regexp.MustCompile(`(?i)(["']?\b(?:` + strings.Join(names, "|") +
		`)\b["']?\s*[:=]\s*)(?:"(?:[^"\\]|\\.)*"?|[^"&,;\s}\]]*)`)
	return re.ReplaceAllString(text, "${1}"+maskedValue)
}

// MaskKeys normalizes field names into the lookup set used by MaskData.
func MaskKeys(fields []string) map[string]struct{} {
	return lo.FilterSliceToMap(fields, func(field string) (string, struct{}, bool) {
		field = strings.ToLower(strings.TrimSpace(field))
		return field, struct{}{}, field != ""
	})
}

// MaskData returns a copy of decoded JSON v with the values of masked keys
// replaced. Key lookup is case-insensitive.
func MaskData(v any, keys map[string]struct{}) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			if _, ok := keys[strings.ToLower(k)]; ok {
				out[k] = maskedValue
				continue
			}
			out[k] = MaskData(inner, keys)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = MaskData(inner, keys)
		}
		return out
	default:
		return v
	}
}
