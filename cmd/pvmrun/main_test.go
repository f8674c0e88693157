package main

import (
	"bytes"
	"os"
	"testing"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	w.Close()
	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String()
}

func TestParseFlagsDefaults(t *testing.T) {
	f, err := parseFlags(nil)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if f.gas != 10_000_000 {
		t.Fatalf("expected default gas 10000000, got %d", f.gas)
	}
	if f.create {
		t.Fatal("expected create to default to false")
	}
}

func TestResolveBytesHex(t *testing.T) {
	b, err := resolveBytes("0x6001")
	if err != nil {
		t.Fatalf("resolveBytes: %v", err)
	}
	if !bytes.Equal(b, []byte{0x60, 0x01}) {
		t.Fatalf("unexpected bytes: %x", b)
	}
}

func TestResolveBytesEmpty(t *testing.T) {
	b, err := resolveBytes("")
	if err != nil {
		t.Fatalf("resolveBytes: %v", err)
	}
	if len(b) != 0 {
		t.Fatalf("expected empty slice, got %x", b)
	}
}

func TestRunStopImmediately(t *testing.T) {
	// Code "00" is STOP: the program should halt cleanly with all gas
	// left unspent beyond nothing (STOP costs zero).
	out := captureStdout(t, func() {
		code := run([]string{"-code", "0x00", "-gas", "100000"})
		if code != 0 {
			t.Fatalf("expected exit code 0, got %d", code)
		}
	})
	if !bytes.Contains([]byte(out), []byte("gas left:    100000")) {
		t.Fatalf("expected all gas to remain after STOP, got: %s", out)
	}
}

func TestRunInvalidOpcodeFails(t *testing.T) {
	// 0xfe is the designated INVALID opcode.
	code := run([]string{"-code", "0xfe", "-gas", "100000"})
	if code != 1 {
		t.Fatalf("expected exit code 1 for invalid opcode, got %d", code)
	}
}
