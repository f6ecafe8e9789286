package core

import "testing"

func TestNewScreenshotAttachment(t *testing.T) {
	data := []byte{0x89, 0x50, 0x4E, 0x47}
	a := NewScreenshotAttachment("checks/home.png", data)

	if a.Name != AttachmentScreenshot {
		t.Errorf("Name = %q, want %q", a.Name, AttachmentScreenshot)
	}
	if a.ContentType != ContentTypePNG {
		t.Errorf("ContentType = %q, want %q", a.ContentType, ContentTypePNG)
	}
	if a.Path != "checks/home.png" {
		t.Errorf("Path = %q, want %q", a.Path, "checks/home.png")
	}
	if len(a.Body) != 4 {
		t.Errorf("len(Body) = %d, want 4", len(a.Body))
	}
}

func TestArtifactConfig_ShouldCapture(t *testing.T) {
	tests := []struct {
		name   string
		config ArtifactConfig
		status Status
		want   bool
	}{
		{"default on failure", DefaultArtifactConfig(), StatusFailed, true},
		{"default on error", DefaultArtifactConfig(), StatusErrored, true},
		{"default on pass", DefaultArtifactConfig(), StatusPassed, false},
		{"default on skip", DefaultArtifactConfig(), StatusSkipped, false},
		{"success enabled", ArtifactConfig{CaptureOnSuccess: true}, StatusPassed, true},
		{"failure disabled", ArtifactConfig{}, StatusFailed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.config.ShouldCapture(tt.status); got != tt.want {
				t.Errorf("ShouldCapture(%v) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}
