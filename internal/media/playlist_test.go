package media

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestParseLocalPlaylistM3U(t *testing.T) {
	dir := t.TempDir()
	playlist := filepath.Join(dir, "list.m3u")
	writeFile(t, playlist, "\uFEFF#EXTM3U\n\nsong1.mp3\n#comment\n\"https://example.com/stream\"\nsub/song2.wav\n")

	got, err := ParseLocalPlaylist(playlist)
	if err != nil {
		t.Fatalf("ParseLocalPlaylist() error = %v", err)
	}
	want := []string{filepath.Join(dir, "song1.mp3"), filepath.Join(dir, "sub", "song2.wav")}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseLocalPlaylist() = %#v, want %#v", got, want)
	}
}

func TestParseLocalPlaylistPLS(t *testing.T) {
	dir := t.TempDir()
	playlist := filepath.Join(dir, "list.pls")
	writeFile(t, playlist, "[playlist]\n file1 = one.flac \nTitle1=One\nFile2=https://example.com/live\nFileX=bad.mp3\nFile3=\n")

	got, err := ParseLocalPlaylist(playlist)
	if err != nil {
		t.Fatalf("ParseLocalPlaylist() error = %v", err)
	}
	want := []string{filepath.Join(dir, "one.flac")}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseLocalPlaylist() = %#v, want %#v", got, want)
	}
}

func TestFilterPlayableLocalPaths(t *testing.T) {
	dir := t.TempDir()
	ok := filepath.Join(dir, "ok.mp3")
	writeFile(t, ok, "x")
	writeFile(t, filepath.Join(dir, "nope.txt"), "x")
	writeFile(t, filepath.Join(dir, "old.wma"), "x")
	if err := os.Mkdir(filepath.Join(dir, "folder.ogg"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got := FilterPlayableLocalPaths([]string{
		ok,
		filepath.Join(dir, "missing.mp3"),
		filepath.Join(dir, "nope.txt"),
		filepath.Join(dir, "old.wma"),
		filepath.Join(dir, "folder.ogg"),
	})
	if !reflect.DeepEqual(got, []string{ok}) {
		t.Fatalf("FilterPlayableLocalPaths() = %#v", got)
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	b := filepath.Join(dir, "B.wav")
	a := filepath.Join(dir, "a.ogg")
	writeFile(t, b, "x")
	writeFile(t, a, "x")
	writeFile(t, filepath.Join(dir, "cover.jpg"), "x")
	list := filepath.Join(dir, "mix.m3u8")
	writeFile(t, list, "B.wav\nmissing.mp3\n")

	t.Run("file", func(t *testing.T) {
		got, err := Resolve(b)
		if err != nil || !reflect.DeepEqual(got, []string{b}) {
			t.Fatalf("Resolve(file) = %v, %v", got, err)
		}
	})
	t.Run("directory sorted case-insensitively", func(t *testing.T) {
		got, err := Resolve(dir)
		if err != nil || !reflect.DeepEqual(got, []string{a, b}) {
			t.Fatalf("Resolve(dir) = %v, %v", got, err)
		}
	})
	t.Run("playlist", func(t *testing.T) {
		got, err := Resolve(list)
		if err != nil || !reflect.DeepEqual(got, []string{b}) {
			t.Fatalf("Resolve(playlist) = %v, %v", got, err)
		}
	})
	t.Run("unsupported", func(t *testing.T) {
		if _, err := Resolve(filepath.Join(dir, "cover.jpg")); err == nil {
			t.Fatal("expected an error")
		}
	})
	t.Run("empty playlist", func(t *testing.T) {
		empty := filepath.Join(dir, "empty.pls")
		writeFile(t, empty, "[playlist]\n")
		if _, err := Resolve(empty); !errors.Is(err, ErrNoTracks) {
			t.Fatalf("err = %v, want ErrNoTracks", err)
		}
	})
}
