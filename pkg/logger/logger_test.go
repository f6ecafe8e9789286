package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestInitWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pom.log")

	if err := Init(path); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	Info("opened %s", "home")
	Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "opened home") {
		t.Errorf("log file = %q, want it to contain %q", data, "opened home")
	}
}

func TestInitInvalidPath(t *testing.T) {
	if err := Init(filepath.Join(t.TempDir(), "missing", "pom.log")); err == nil {
		t.Error("Init() expected error for missing directory")
	}
}

func TestGetWriterWithoutInit(t *testing.T) {
	Close()
	if w := GetWriter(); w != io.Discard {
		t.Errorf("GetWriter() = %v, want io.Discard", w)
	}
}

func TestSetVerbose(t *testing.T) {
	hook := test.NewLocal(Logger())
	defer hook.Reset()
	defer SetVerbose(false)

	Debug("hidden")
	if len(hook.AllEntries()) != 0 {
		t.Fatalf("debug message logged at info level")
	}

	SetVerbose(true)
	Debug("shown %d", 1)
	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("no entry logged after SetVerbose(true)")
	}
	if entry.Level != logrus.DebugLevel || entry.Message != "shown 1" {
		t.Errorf("entry = %v %q, want debug %q", entry.Level, entry.Message, "shown 1")
	}
}

func TestWithFields(t *testing.T) {
	hook := test.NewLocal(Logger())
	defer hook.Reset()

	WithFields(logrus.Fields{"page": "/demo/home"}).Warn("slow")

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("no entry logged")
	}
	if entry.Data["page"] != "/demo/home" {
		t.Errorf("page field = %v, want /demo/home", entry.Data["page"])
	}
}
