package link

import (
	"bytes"
	"path/filepath"
	"testing"
)

type mockPort struct {
	in     bytes.Buffer
	out    bytes.Buffer
	resets int
	closes int
}

func (m *mockPort) Read(p []byte) (int, error)  { return m.in.Read(p) }
func (m *mockPort) Write(p []byte) (int, error) { return m.out.Write(p) }

func (m *mockPort) ResetInputBuffer() error {
	m.resets++
	m.in.Reset()
	return nil
}

func (m *mockPort) Close() error {
	m.closes++
	return nil
}

func TestParseBackend(t *testing.T) {
	tests := []struct {
		name    string
		backend Backend
		wantErr bool
	}{
		{"", BackendAlbenik, false},
		{"albenik", BackendAlbenik, false},
		{"Bugst", BackendBugst, false},
		{"go.bug.st", BackendBugst, false},
		{"tarm", 0, true},
	}

	for _, tt := range tests {
		backend, err := ParseBackend(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseBackend(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && backend != tt.backend {
			t.Errorf("ParseBackend(%q) = %v, expected %v", tt.name, backend, tt.backend)
		}
	}
}

func TestBackendString(t *testing.T) {
	for _, b := range []Backend{BackendAlbenik, BackendBugst} {
		parsed, err := ParseBackend(b.String())
		if err != nil || parsed != b {
			t.Errorf("backend %v does not round trip through its name", b)
		}
	}
}

func TestOpenEmptyName(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatal("expected error for empty port name")
	}
}

func TestOpenMissingPort(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "ttyMissing0")

	for _, backend := range []Backend{BackendAlbenik, BackendBugst} {
		if _, err := Open(missing, WithBackend(backend)); err == nil {
			t.Errorf("%v: expected error opening %s", backend, missing)
		}
	}
}

func TestConnDrainAndClose(t *testing.T) {
	mock := &mockPort{}
	mock.in.WriteString("stale")
	conn := &Conn{name: "mock", port: mock}

	if err := conn.Drain(); err != nil {
		t.Fatalf("Drain failed: %v", err)
	}
	if mock.resets != 1 || mock.in.Len() != 0 {
		t.Errorf("expected input buffer to be reset")
	}

	if _, err := conn.Write([]byte("cmd\n")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if mock.out.String() != "cmd\n" {
		t.Errorf("unexpected output: %q", mock.out.String())
	}

	if err := conn.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := conn.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
	if mock.closes != 1 {
		t.Errorf("expected port to be closed once, got %d", mock.closes)
	}
}

func TestOptions(t *testing.T) {
	cfg := config{baudrate: DefaultBaudrate}
	WithBaudrate(0)(&cfg)
	if cfg.baudrate != DefaultBaudrate {
		t.Errorf("zero baudrate should keep the default")
	}

	WithBaudrate(9600)(&cfg)
	WithBackend(BackendBugst)(&cfg)
	if cfg.baudrate != 9600 || cfg.backend != BackendBugst {
		t.Errorf("unexpected config: %+v", cfg)
	}
}
