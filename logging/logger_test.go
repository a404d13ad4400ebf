package logging

import (
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestCustomFormatterRendersEventLine(t *testing.T) {
	f := &CustomFormatter{SystemName: "project-management-backend"}
	entry := &logrus.Entry{
		Logger:  Logger,
		Level:   logrus.InfoLevel,
		Message: "something happened",
		Time:    time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}

	out, err := f.Format(entry)
	if err != nil {
		t.Fatalf("Format() error = %v, want nil", err)
	}

	line := string(out)
	for _, want := range []string{
		"Date: 2026-03-14",
		"Time: 09:30:00",
		"Event Source: project-management-backend",
		"Event Type: INFO",
		"Event ID: ",
		"Message: something happened",
	} {
		if !strings.Contains(line, want) {
			t.Errorf("Format() output %q missing %q", line, want)
		}
	}
	if !strings.HasSuffix(line, "\n") {
		t.Errorf("Format() output does not end with a newline")
	}
}

func TestCustomFormatterFreshEventIDs(t *testing.T) {
	f := &CustomFormatter{SystemName: "project-management-backend"}
	entry := &logrus.Entry{Logger: Logger, Level: logrus.WarnLevel, Message: "x", Time: time.Now()}

	first, err := f.Format(entry)
	if err != nil {
		t.Fatalf("Format() error = %v, want nil", err)
	}
	second, err := f.Format(entry)
	if err != nil {
		t.Fatalf("Format() error = %v, want nil", err)
	}
	if string(first) == string(second) {
		t.Error("Format() produced identical lines, want a fresh event ID per record")
	}
}
