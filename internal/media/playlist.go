package media

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"
)

var ErrNoTracks = errors.New("no playable tracks")

// Resolve turns a command-line argument into the tracks to visualize: a
// single audio file, the playable entries of a playlist, or the audio files
// of a directory sorted by name.
func Resolve(arg string) ([]string, error) {
	info, err := os.Stat(arg)
	if err != nil {
		return nil, err
	}

	var tracks []string
	ext := filepath.Ext(arg)
	switch {
	case info.IsDir():
		tracks, err = scanDir(arg)
		if err != nil {
			return nil, err
		}
	case IsPlaylistExt(ext):
		entries, err := ParseLocalPlaylist(arg)
		if err != nil {
			return nil, err
		}
		tracks = FilterPlayableLocalPaths(entries)
	case IsSupportedExt(ext):
		return []string{arg}, nil
	default:
		return nil, fmt.Errorf("unsupported format %s (supported: %s)", strings.ToLower(ext), SupportedExtsList())
	}

	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoTracks, arg)
	}
	return tracks, nil
}

// ParseLocalPlaylist parses a .m3u/.m3u8/.pls file into local paths.
// Relative entries are resolved against the playlist's directory; URL
// entries are skipped.
func ParseLocalPlaylist(path string) ([]string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !IsPlaylistExt(ext) {
		return nil, fmt.Errorf("unsupported playlist format %s", ext)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("reading playlist: %w", err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("playlist is not valid UTF-8")
	}

	text := strings.TrimPrefix(string(data), "\uFEFF")
	scanner := bufio.NewScanner(strings.NewReader(text))
	baseDir := filepath.Dir(abs)
	if ext == ".pls" {
		return parsePLS(scanner, baseDir), nil
	}
	return parseM3U(scanner, baseDir), nil
}

// FilterPlayableLocalPaths keeps existing regular files with a decodable
// extension, made absolute.
func FilterPlayableLocalPaths(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || info.IsDir() || !IsSupportedExt(filepath.Ext(p)) {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		out = append(out, p)
	}
	return out
}

func scanDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !IsSupportedExt(filepath.Ext(e.Name())) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Slice(files, func(i, j int) bool {
		return strings.ToLower(filepath.Base(files[i])) < strings.ToLower(filepath.Base(files[j]))
	})
	return files, nil
}

func parseM3U(scanner *bufio.Scanner, baseDir string) []string {
	var entries []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || isURL(line) {
			continue
		}
		entries = append(entries, resolveEntry(line, baseDir))
	}
	return entries
}

func parsePLS(scanner *bufio.Scanner, baseDir string) []string {
	var entries []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		eq := strings.Index(line, "=")
		if eq <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:eq])
		val := strings.TrimSpace(line[eq+1:])
		if val == "" || !isPLSFileKey(key) || isURL(val) {
			continue
		}
		entries = append(entries, resolveEntry(val, baseDir))
	}
	return entries
}

// isPLSFileKey matches File1, File2, ... case-insensitively.
func isPLSFileKey(key string) bool {
	if len(key) <= len("file") || !strings.EqualFold(key[:len("file")], "file") {
		return false
	}
	for _, c := range key[len("file"):] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func isURL(s string) bool {
	s = strings.Trim(s, `"`)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func resolveEntry(raw, baseDir string) string {
	p := filepath.Clean(strings.Trim(raw, `"`))
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}
