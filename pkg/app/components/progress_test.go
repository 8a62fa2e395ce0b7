package components

import (
	"errors"
	"strings"
	"testing"

	"github.com/kerbaras/comicripper/pkg/services"
)

func TestNewProgressTracker(t *testing.T) {
	tracker := NewProgressTracker(80)

	if tracker == nil {
		t.Fatal("Expected tracker to be created")
	}

	if tracker.width != 80 {
		t.Errorf("Expected width 80, got %d", tracker.width)
	}

	if tracker.bar.Width != 76 {
		t.Errorf("Expected bar width 76, got %d", tracker.bar.Width)
	}

	if len(tracker.chapters) != 0 {
		t.Errorf("Expected 0 chapters, got %d", len(tracker.chapters))
	}
}

func TestUpdate(t *testing.T) {
	tracker := NewProgressTracker(80)

	tracker.Update(services.Progress{
		ChapterURL:  "https://example.com/1",
		Title:       "Saga #1",
		Status:      "downloading",
		TotalPages:  10,
		CurrentPage: 5,
	})

	if !tracker.HasActive() {
		t.Error("Expected tracker to have active chapters")
	}

	if len(tracker.chapters) != 1 {
		t.Errorf("Expected 1 chapter, got %d", len(tracker.chapters))
	}
}

func TestUpdateKeepsOrder(t *testing.T) {
	tracker := NewProgressTracker(80)

	for _, key := range []string{"c", "a", "b", "a"} {
		tracker.Update(services.Progress{ChapterURL: key, Title: key, Status: "downloading"})
	}

	want := []string{"c", "a", "b"}
	if strings.Join(tracker.order, ",") != strings.Join(want, ",") {
		t.Errorf("Expected order %v, got %v", want, tracker.order)
	}
}

func TestCompletedIsNotActive(t *testing.T) {
	tracker := NewProgressTracker(80)

	progress := services.Progress{
		ChapterURL: "https://example.com/1",
		Title:      "Saga #1",
		Status:     "downloading",
	}
	tracker.Update(progress)

	progress.Status = "complete"
	tracker.Update(progress)

	if tracker.HasActive() {
		t.Error("Expected no active chapters after completion")
	}

	counts := tracker.Counts()
	if counts["complete"] != 1 {
		t.Errorf("Expected 1 complete chapter, got %d", counts["complete"])
	}
}

func TestCounts(t *testing.T) {
	tracker := NewProgressTracker(80)

	statuses := []string{"complete", "partial", "skipped", "error", "error", "downloading"}
	for i, status := range statuses {
		tracker.Update(services.Progress{
			ChapterURL: string(rune('a' + i)),
			Status:     status,
		})
	}

	counts := tracker.Counts()
	expected := map[string]int{"complete": 1, "partial": 1, "skipped": 1, "error": 2}
	for status, want := range expected {
		if counts[status] != want {
			t.Errorf("Expected %d %s, got %d", want, status, counts[status])
		}
	}
	if _, ok := counts["downloading"]; ok {
		t.Error("Active chapters should not be counted")
	}
}

func TestView(t *testing.T) {
	tracker := NewProgressTracker(80)

	if !strings.Contains(tracker.View(), "Waiting") {
		t.Error("Empty tracker should show a waiting message")
	}

	tracker.Update(services.Progress{
		ChapterURL:  "https://example.com/1",
		Title:       "Saga #1",
		Status:      "downloading",
		CurrentPage: 3,
		TotalPages:  12,
		Failed:      1,
	})
	tracker.Update(services.Progress{
		ChapterURL: "https://example.com/2",
		Title:      "Saga #2",
		Status:     "error",
		Error:      errors.New("no pages found"),
	})

	view := tracker.View()

	for _, want := range []string{"Saga #1", "3/12 pages", "1 failed", "Saga #2", "no pages found"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected view to contain %q", want)
		}
	}
}

func TestSetWidth(t *testing.T) {
	tracker := NewProgressTracker(80)
	tracker.SetWidth(50)

	if tracker.width != 50 {
		t.Errorf("Expected width 50, got %d", tracker.width)
	}
	if tracker.bar.Width != 46 {
		t.Errorf("Expected bar width 46, got %d", tracker.bar.Width)
	}

	tracker.SetWidth(0)
	if tracker.bar.Width != 40 {
		t.Errorf("Expected fallback bar width 40, got %d", tracker.bar.Width)
	}
}
