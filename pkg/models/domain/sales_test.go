package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBucketLabel(t *testing.T) {
	aug := time.Date(2023, time.August, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		bucket Bucket
		want   string
	}{
		{"month", BucketMonth, "Aug 2023"},
		{"quarter", BucketQuarter, "Q3 2023"},
		{"unset defaults to month", "", "Aug 2023"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BucketLabel(tt.bucket, aug))
		})
	}
}

func TestQuarterStart(t *testing.T) {
	d := time.Date(2023, time.November, 15, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, 4, Quarter(d))
	assert.Equal(t, time.Date(2023, time.October, 1, 0, 0, 0, 0, time.UTC), QuarterStart(d))
	assert.Equal(t, "Q4 2023", BucketLabel(BucketQuarter, QuarterStart(d)))
}
