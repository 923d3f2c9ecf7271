// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package streamio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPlainReadWriteRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "data.bin")

	w, err := OpenPlainWrite(path)
	if err != nil {
		t.Fatalf("OpenPlainWrite: %v", err)
	}
	want := []byte("hello, mz3")
	if err := w.Write(want); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, err := OpenPlainRead(path)
	if err != nil {
		t.Fatalf("OpenPlainRead: %v", err)
	}
	defer r.Close()

	got := make([]byte, len(want))
	if err := r.ReadFull(got); err != nil {
		t.Fatalf("ReadFull: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("content mismatch (-want +got):\n%s", diff)
	}
}

func TestPlainSeek(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "data.bin")
	if err := os.WriteFile(path, []byte("0123456789"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	r, err := OpenPlainRead(path)
	if err != nil {
		t.Fatalf("OpenPlainRead: %v", err)
	}
	defer r.Close()

	if err := r.SeekAbs(5); err != nil {
		t.Fatalf("SeekAbs: %v", err)
	}
	buf := make([]byte, 2)
	if err := r.ReadFull(buf); err != nil {
		t.Fatalf("ReadFull: %v", err)
	}
	if string(buf) != "56" {
		t.Errorf("after SeekAbs(5), read %q, want %q", buf, "56")
	}

	if err := r.SeekRel(1); err != nil {
		t.Fatalf("SeekRel: %v", err)
	}
	if err := r.ReadFull(buf); err != nil {
		t.Fatalf("ReadFull: %v", err)
	}
	if string(buf) != "89" {
		t.Errorf("after SeekRel(1), read %q, want %q", buf, "89")
	}
}

func TestPlainReadFullShort(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "short.bin")
	if err := os.WriteFile(path, []byte("ab"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	r, err := OpenPlainRead(path)
	if err != nil {
		t.Fatalf("OpenPlainRead: %v", err)
	}
	defer r.Close()

	if err := r.ReadFull(make([]byte, 5)); err == nil {
		t.Error("ReadFull past EOF succeeded, want ErrShortRead")
	}
}

func TestGzipReadWriteRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "data.mz3")

	w, err := OpenGzipWrite(path)
	if err != nil {
		t.Fatalf("OpenGzipWrite: %v", err)
	}
	want := []byte("hello, gzip-wrapped mz3")
	if err := w.Write(want); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, err := OpenGzipRead(path)
	if err != nil {
		t.Fatalf("OpenGzipRead: %v", err)
	}
	defer r.Close()

	got := make([]byte, len(want))
	if err := r.ReadFull(got); err != nil {
		t.Fatalf("ReadFull: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("content mismatch (-want +got):\n%s", diff)
	}
}

func TestGzipForwardSeekDiscards(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "data.mz3")

	w, err := OpenGzipWrite(path)
	if err != nil {
		t.Fatalf("OpenGzipWrite: %v", err)
	}
	if err := w.Write([]byte("0123456789")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, err := OpenGzipRead(path)
	if err != nil {
		t.Fatalf("OpenGzipRead: %v", err)
	}
	defer r.Close()

	if err := r.SeekAbs(5); err != nil {
		t.Fatalf("SeekAbs: %v", err)
	}
	buf := make([]byte, 2)
	if err := r.ReadFull(buf); err != nil {
		t.Fatalf("ReadFull: %v", err)
	}
	if string(buf) != "56" {
		t.Errorf("after SeekAbs(5), read %q, want %q", buf, "56")
	}
}

func TestGzipBackwardSeekRejected(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "data.mz3")

	w, err := OpenGzipWrite(path)
	if err != nil {
		t.Fatalf("OpenGzipWrite: %v", err)
	}
	if err := w.Write([]byte("0123456789")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, err := OpenGzipRead(path)
	if err != nil {
		t.Fatalf("OpenGzipRead: %v", err)
	}
	defer r.Close()

	if err := r.SeekAbs(5); err != nil {
		t.Fatalf("SeekAbs: %v", err)
	}
	if err := r.SeekAbs(2); err == nil {
		t.Error("SeekAbs to an earlier offset succeeded, want ErrBackwardSeek")
	}
}

func TestGzipWriteAdapterRefusesSeek(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "data.mz3")

	w, err := OpenGzipWrite(path)
	if err != nil {
		t.Fatalf("OpenGzipWrite: %v", err)
	}
	defer w.Close()

	if err := w.SeekAbs(0); err == nil {
		t.Error("SeekAbs on a gzip write adapter succeeded, want ErrUnsupportedSeek")
	}
	if err := w.SeekRel(0); err == nil {
		t.Error("SeekRel on a gzip write adapter succeeded, want ErrUnsupportedSeek")
	}
}

func TestPlainCloseIdempotent(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "data.bin")

	w, err := OpenPlainWrite(path)
	if err != nil {
		t.Fatalf("OpenPlainWrite: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
