package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"stai/internal/testsupport"
)

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.wav")
	dst := filepath.Join(dir, "dst.wav")
	testsupport.WriteFile(t, src, 4096)

	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("copy: %v", err)
	}

	srcData, _ := os.ReadFile(src)
	dstData, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read copy: %v", err)
	}
	if string(srcData) != string(dstData) {
		t.Fatal("copied contents differ from source")
	}
}

func TestCopyFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	err := CopyFile(filepath.Join(dir, "absent.wav"), filepath.Join(dir, "dst.wav"))
	if err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestCopyFileVerified(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "audio.wav")
	dst := filepath.Join(dir, "kept", "audio.wav")
	testsupport.WriteFile(t, src, 128*1024)

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := CopyFileVerified(src, dst); err != nil {
		t.Fatalf("verified copy: %v", err)
	}

	srcInfo, _ := os.Stat(src)
	dstInfo, err := os.Stat(dst)
	if err != nil {
		t.Fatalf("stat copy: %v", err)
	}
	if srcInfo.Size() != dstInfo.Size() {
		t.Fatalf("size mismatch: %d vs %d", srcInfo.Size(), dstInfo.Size())
	}
}

func TestCopyFileVerifiedOverwrites(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.wav")
	dst := filepath.Join(dir, "dst.wav")
	testsupport.WriteFile(t, src, 64)
	testsupport.WriteFile(t, dst, 4096)

	if err := CopyFileVerified(src, dst); err != nil {
		t.Fatalf("verified copy: %v", err)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() != 64 {
		t.Fatalf("expected truncated overwrite to 64 bytes, got %d", info.Size())
	}
}
