package pathfinding

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"mtroute/core"
)

func TestAppendSegments(t *testing.T) {
	got := appendSegments(nil, core.PointList{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 5}, {X: 3, Y: 5}})
	want := []segment{
		{horizontal: true, fixed: 0, lo: 0, hi: 10},
		{horizontal: false, fixed: 10, lo: 0, hi: 5},
		{horizontal: true, fixed: 5, lo: 3, hi: 10},
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(segment{})); diff != "" {
		t.Errorf("appendSegments mismatch (-want +got):\n%s", diff)
	}
}

func TestClipSegments(t *testing.T) {
	own := []core.Rect{{X: 4, Y: -2, Width: 4, Height: 4}}

	tests := []struct {
		name string
		seg  segment
		want []segment
	}{
		{
			name: "through the figure",
			seg:  segment{horizontal: true, fixed: 0, lo: 0, hi: 12},
			want: []segment{
				{horizontal: true, fixed: 0, lo: 0, hi: 4},
				{horizontal: true, fixed: 0, lo: 8, hi: 12},
			},
		},
		{
			name: "along the border",
			seg:  segment{horizontal: true, fixed: 2, lo: 0, hi: 12},
			want: []segment{{horizontal: true, fixed: 2, lo: 0, hi: 12}},
		},
		{
			name: "ending inside",
			seg:  segment{horizontal: false, fixed: 6, lo: -10, hi: 0},
			want: []segment{{horizontal: false, fixed: 6, lo: -10, hi: -2}},
		},
		{
			name: "wholly inside",
			seg:  segment{horizontal: true, fixed: 1, lo: 5, hi: 7},
			want: nil,
		},
		{
			name: "elsewhere",
			seg:  segment{horizontal: false, fixed: 20, lo: 0, hi: 5},
			want: []segment{{horizontal: false, fixed: 20, lo: 0, hi: 5}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := clipSegments([]segment{tt.seg}, own)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if diff := cmp.Diff(tt.want, got, cmp.AllowUnexported(segment{})); diff != "" {
				t.Errorf("clipSegments mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClipSegments_NoFigures(t *testing.T) {
	segs := []segment{{horizontal: true, fixed: 0, lo: 0, hi: 3}}
	if got := clipSegments(segs, nil); len(got) != 1 || got[0] != segs[0] {
		t.Errorf("clipSegments without figures = %v, want input unchanged", got)
	}
}
