package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputePoints(t *testing.T) {
	tests := []struct {
		name       string
		isFirst    bool
		hasPhotos  bool
		commentLen int
		wantTotal  int
	}{
		{
			name:       "Base review only",
			isFirst:    false,
			hasPhotos:  false,
			commentLen: 50,
			wantTotal:  100,
		},
		{
			name:       "First review of the place",
			isFirst:    true,
			hasPhotos:  false,
			commentLen: 0,
			wantTotal:  600,
		},
		{
			name:       "With photos",
			isFirst:    false,
			hasPhotos:  true,
			commentLen: 0,
			wantTotal:  150,
		},
		{
			name:       "Long comment at the boundary",
			isFirst:    false,
			hasPhotos:  false,
			commentLen: 300,
			wantTotal:  150,
		},
		{
			name:       "Comment just below the boundary",
			isFirst:    false,
			hasPhotos:  false,
			commentLen: 299,
			wantTotal:  100,
		},
		{
			name:       "Everything at once",
			isFirst:    true,
			hasPhotos:  true,
			commentLen: 320,
			wantTotal:  700,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			breakdown := ComputePoints(tt.isFirst, tt.hasPhotos, tt.commentLen)

			assert.Equal(t, tt.wantTotal, breakdown.Total)
			assert.Equal(t, tt.isFirst, breakdown.IsFirst)
			assert.Equal(t, PointsBase, breakdown.Base)
			assert.Equal(t, breakdown.Base+breakdown.FirstReview+breakdown.PhotoBonus+breakdown.LongComment, breakdown.Total)
		})
	}
}

func TestComputePoints_IsPure(t *testing.T) {
	a := ComputePoints(true, true, 500)
	b := ComputePoints(true, true, 500)
	assert.Equal(t, a, b)
}

func TestLevelForPoints(t *testing.T) {
	tests := []struct {
		points int
		want   int
	}{
		{0, 1},
		{499, 1},
		{500, 2},
		{1499, 2},
		{1500, 3},
		{3000, 4},
		{5000, 5},
		{8000, 6},
		{12000, 7},
		{17000, 8},
		{23000, 9},
		{29999, 9},
		{30000, 10},
		{1000000, 10},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelForPoints(tt.points), "points=%d", tt.points)
	}
}
