package content

import "github.com/yungbote/aet-studio-backend/internal/platform/dataurl"

func IsDataURL(s string) bool { return dataurl.Is(s) }

// ParseDataURL splits an inline base64 image reference into mime type and payload.
func ParseDataURL(s string) (mime string, b64 string, ok bool) { return dataurl.Parse(s) }

func DataURL(mime, b64 string) string { return dataurl.Format(mime, b64) }
