// Package transfer wraps the clearinghouse SFTP drop behind a small
// session interface. Listings are normalized at this boundary: sizes as
// plain integers and modification times as RFC3339 UTC text, never in
// provider-native form.
package transfer

import (
	"io/fs"
	"time"
)

// Entry is the normalized projection of one remote file.
type Entry struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Size       int64  `json:"size"`
	ModifyTime string `json:"modifyTime"`
}

// Session is an open file-transfer connection. Close must be called on
// every exit path; it is safe to call on a partially failed session.
type Session interface {
	List(path string) ([]Entry, error)
	Close() error
}

// NormalizeEntries converts provider file infos into Entries, keeping
// the provider's order.
func NormalizeEntries(infos []fs.FileInfo) []Entry {
	entries := make([]Entry, 0, len(infos))
	for _, fi := range infos {
		entries = append(entries, normalizeEntry(fi))
	}
	return entries
}

func normalizeEntry(fi fs.FileInfo) Entry {
	return Entry{
		Name:       fi.Name(),
		Type:       entryType(fi.Mode()),
		Size:       fi.Size(),
		ModifyTime: fi.ModTime().UTC().Format(time.RFC3339),
	}
}

// entryType reports the ls-style type rune: "d" for directories, "l"
// for symlinks, "-" for everything else.
func entryType(mode fs.FileMode) string {
	switch {
	case mode.IsDir():
		return "d"
	case mode&fs.ModeSymlink != 0:
		return "l"
	default:
		return "-"
	}
}

// Truncate caps entries at n, preserving order. It returns the input
// slice unchanged when it is already short enough.
func Truncate(entries []Entry, n int) []Entry {
	if len(entries) <= n {
		return entries
	}
	return entries[:n]
}
