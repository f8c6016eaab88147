package service

import (
	"sync"

	"workforce/internal/domain"
)

// recordingLogger keeps every call for inspection
type recordingLogger struct {
	mu       sync.Mutex
	infos    []string
	warnings []string
	errors   []error
}

func (l *recordingLogger) LogInfo(msg string, _ map[string]any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, msg)
}

func (l *recordingLogger) LogWarning(msg string, _ map[string]any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warnings = append(l.warnings, msg)
}

func (l *recordingLogger) LogSystemError(err error, _ string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, err)
}

// panickingLogger fails on every call
type panickingLogger struct{}

func (panickingLogger) LogInfo(string, map[string]any)    { panic("sink down") }
func (panickingLogger) LogWarning(string, map[string]any) { panic("sink down") }
func (panickingLogger) LogSystemError(error, string)      { panic("sink down") }

// panickingClassifier fails on every classification
type panickingClassifier struct{}

func (panickingClassifier) ClassifyPosition(domain.Position) domain.Classification {
	panic("rules unavailable")
}

func (panickingClassifier) ValidateClassification(domain.Position) domain.ClassificationCheck {
	panic("rules unavailable")
}

func (panickingClassifier) KnownDepartments() []string { return nil }

func pos(dept string, level domain.Level, subtitle string) domain.Position {
	return domain.Position{Department: dept, Level: level, Subtitle: subtitle}
}

func tagged(p domain.Position, class domain.Classification) domain.Position {
	p.Classification = class
	return p
}
