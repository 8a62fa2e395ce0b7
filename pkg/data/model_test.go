package data

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntryName(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{0, "0001.jpg"},
		{8, "0009.jpg"},
		{99, "0100.jpg"},
		{9998, "9999.jpg"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, EntryName(tt.index))
		assert.Equal(t, tt.want, FetchedPage{Index: tt.index}.EntryName())
	}
}

func TestEntryNamesSortLikeIndices(t *testing.T) {
	prev := EntryName(0)
	for i := 1; i < 1000; i++ {
		name := EntryName(i)
		if name <= prev {
			t.Fatalf("Expected %q to sort after %q", name, prev)
		}
		prev = name
	}
}

func TestPageError(t *testing.T) {
	err := &PageError{
		Index: 2,
		Label: "Page 3",
		URL:   "https://example.com/3.jpg",
		Err:   context.DeadlineExceeded,
	}

	assert.True(t, errors.Is(err, ErrPageFetchFailed))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.False(t, errors.Is(err, ErrAllPagesFailed))
	assert.Contains(t, err.Error(), "page 3")
	assert.Contains(t, err.Error(), "https://example.com/3.jpg")

	var pageErr *PageError
	wrapped := errors.Join(errors.New("other"), err)
	if assert.True(t, errors.As(wrapped, &pageErr)) {
		assert.Equal(t, 2, pageErr.Index)
	}
}
