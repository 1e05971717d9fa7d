package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePolygon(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Polygon
		wantErr bool
	}{
		{
			name: "four points",
			in:   "550,700 2700,700 2700,4350 550,4350",
			want: Polygon{{550, 700}, {2700, 700}, {2700, 4350}, {550, 4350}},
		},
		{
			name: "two points expand to rectangle",
			in:   "550,700 2700,4350",
			want: Polygon{{550, 700}, {2700, 700}, {2700, 4350}, {550, 4350}},
		},
		{
			name: "decimals and negatives",
			in:   "-1.5,0 10,0 10,10.25",
			want: Polygon{{-1.5, 0}, {10, 0}, {10, 10.25}},
		},
		{name: "single point", in: "1,2", wantErr: true},
		{name: "empty", in: "", wantErr: true},
		{name: "missing comma", in: "1 2 3,4", wantErr: true},
		{name: "non numeric", in: "a,1 2,3", wantErr: true},
		{name: "three coordinates", in: "1,2,3 4,5", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePolygon(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidGeometry)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBoundingBox(t *testing.T) {
	box := BoundingBox(Point{5, 7}, Point{1, 9}, Point{3, 2})
	assert.Equal(t, Polygon{{1, 2}, {5, 2}, {5, 9}, {1, 9}}, box)
	assert.Nil(t, BoundingBox())

	tl, br := Polygon{{10, 10}, {0, 20}}.Bounds()
	assert.Equal(t, Point{0, 10}, tl)
	assert.Equal(t, Point{10, 20}, br)
}

func TestFromBox(t *testing.T) {
	assert.Equal(t,
		Polygon{{802, 2101}, {1246, 2101}, {1246, 2219}, {802, 2219}},
		FromBox(802, 2101, 444, 118))
}

func TestCentroid(t *testing.T) {
	assert.Equal(t, Point{5, 5}, Centroid(FromBox(0, 0, 10, 10)))
	// reversed winding gives the same centroid
	assert.Equal(t, Point{5, 5}, Centroid(Polygon{{0, 0}, {0, 10}, {10, 10}, {10, 0}}))
	// degenerate line falls back to vertex mean
	assert.Equal(t, Point{2, 0}, Centroid(Polygon{{0, 0}, {4, 0}}))
}

func TestConvexHull(t *testing.T) {
	concave := Polygon{{0, 0}, {10, 0}, {10, 10}, {5, 2}, {0, 10}}
	hull := ConvexHull(concave)
	assert.Len(t, hull, 4)
	assert.NotContains(t, hull, Point{5, 2})
}

func TestContains(t *testing.T) {
	square := FromBox(0, 0, 10, 10)
	assert.True(t, Contains(square, Point{5, 5}))
	assert.False(t, Contains(square, Point{15, 5}))
	assert.False(t, Contains(square, Point{0, 5}), "edge is outside")
	assert.False(t, Contains(square, Point{10, 10}), "vertex is outside")
	assert.False(t, Contains(Polygon{{0, 0}, {1, 1}}, Point{0.5, 0.5}))
}

func TestHullContains(t *testing.T) {
	line := FromBox(802, 2100, 1099, 123)
	word := FromBox(802, 2101, 444, 118)
	assert.True(t, HullContains(line, word))
	assert.False(t, HullContains(word, FromBox(2000, 3000, 10, 10)))

	// overflowing member still counts when its centroid is inside
	overflow := FromBox(-5, -5, 30, 20)
	assert.True(t, HullContains(FromBox(0, 0, 40, 20), overflow))

	// concave container: centroid inside the notch is accepted by the hull
	concave := Polygon{{0, 0}, {10, 0}, {10, 10}, {5, 2}, {0, 10}}
	assert.True(t, HullContains(concave, FromBox(4, 5, 2, 2)))
	assert.False(t, Contains(concave, Point{5, 6}))

	assert.False(t, HullContains(nil, word))
}

func TestString(t *testing.T) {
	assert.Equal(t, "1,2 4,2 4,6 1,6", FromBox(1, 2, 3, 4).String())
	assert.Equal(t, "2,3", Polygon{{1.6, 2.5}}.String())
}
