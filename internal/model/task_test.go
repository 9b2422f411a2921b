package model

import (
	"testing"
)

func TestDownloadTask_GetETAString(t *testing.T) {
	tests := []struct {
		etaSec   int
		expected string
	}{
		{-1, "—"},
		{0, "—"},
		{45, "00:45"},
		{125, "02:05"},
		{3600, "01:00:00"},
		{36610, "10:10:10"},
	}

	for _, tt := range tests {
		task := &DownloadTask{ETASec: tt.etaSec}
		if got := task.GetETAString(); got != tt.expected {
			t.Errorf("GetETAString() with ETASec=%d = %s, expected %s", tt.etaSec, got, tt.expected)
		}
	}
}

func TestDownloadTask_GetDisplayTitle(t *testing.T) {
	tests := []struct {
		name     string
		task     DownloadTask
		expected string
	}{
		{
			name:     "title wins",
			task:     DownloadTask{Title: "Clip", OutputPath: "/out/Other.webm", URL: "https://youtu.be/a"},
			expected: "Clip",
		},
		{
			name:     "url-like title falls through to file name",
			task:     DownloadTask{Title: "https://youtu.be/a", OutputPath: "/out/Clip.webm"},
			expected: "Clip",
		},
		{
			name:     "windows path",
			task:     DownloadTask{OutputPath: `C:\Users\me\Downloads\Holiday.mp4`},
			expected: "Holiday",
		},
		{
			name:     "url fallback",
			task:     DownloadTask{URL: "https://www.facebook.com/watch?v=1"},
			expected: "https://www.facebook.com/watch?v=1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.task.GetDisplayTitle(); got != tt.expected {
				t.Errorf("GetDisplayTitle() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestDownloadTask_Clone(t *testing.T) {
	task := &DownloadTask{
		ID:       "task-1",
		BatchID:  "batch-1",
		URL:      "https://youtu.be/a",
		Platform: PlatformYouTube,
		Status:   TaskStatusDownloading,
		Percent:  40,
	}

	clone := task.Clone()
	clone.Status = TaskStatusCompleted
	clone.Percent = 100

	if task.Status != TaskStatusDownloading || task.Percent != 40 {
		t.Errorf("Clone shares state with the source task: %+v", task)
	}
	if clone.BatchID != "batch-1" || clone.Platform != PlatformYouTube {
		t.Errorf("Clone lost fields: %+v", clone)
	}
}

func TestDownloadTask_String(t *testing.T) {
	task := &DownloadTask{ID: "task-1", Status: TaskStatusError, URL: "https://youtu.be/a"}
	if got, want := task.String(), "task task-1 [Error] https://youtu.be/a"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
