package filestorage

import (
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultContentType is served for unknown or missing extensions.
const DefaultContentType = "application/octet-stream"

var contentTypes = map[string]string{
	"pdf":  "application/pdf",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"xls":  "application/vnd.ms-excel",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
}

// Extension returns the lowercase extension of name without the dot, or "".
func Extension(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	idx := strings.LastIndexByte(base, '.')
	if idx < 0 || idx == len(base)-1 {
		return ""
	}
	return strings.ToLower(base[idx+1:])
}

// DeriveStorageKey builds "<ownerID>/<unix-millis>-<uuid>.<ext>".
// The random component keeps keys unique for uploads by one owner that land
// in the same millisecond. A file without an extension gets no suffix.
func DeriveStorageKey(ownerID, originalFileName string, now time.Time) string {
	var b strings.Builder
	b.WriteString(ownerID)
	b.WriteByte('/')
	b.WriteString(strconv.FormatInt(now.UnixMilli(), 10))
	b.WriteByte('-')
	b.WriteString(uuid.NewString())
	if ext := Extension(originalFileName); ext != "" {
		b.WriteByte('.')
		b.WriteString(ext)
	}
	return b.String()
}

// ResolveContentType maps a file name to the MIME type used in download responses.
func ResolveContentType(fileName string) string {
	if ct, ok := contentTypes[Extension(fileName)]; ok {
		return ct
	}
	return DefaultContentType
}

// BaseName returns the last path segment of a storage key.
func BaseName(key string) string {
	if i := strings.LastIndexByte(key, '/'); i >= 0 {
		key = key[i+1:]
	}
	if key == "" {
		return "file"
	}
	return key
}
