package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReflectBounds(t *testing.T) {
	b := Bounds{Width: 800, Height: 600}

	tests := []struct {
		name       string
		in, want   Particle
		hitX, hitY bool
	}{
		{
			name: "left wall",
			in:   NewParticle(-5, 300, -50, 7, 3, 1),
			want: NewParticle(3, 300, 50, 7, 3, 1),
			hitX: true,
		},
		{
			name: "right wall",
			in:   NewParticle(799, 300, 20, 0, 4, 1),
			want: NewParticle(796, 300, -20, 0, 4, 1),
			hitX: true,
		},
		{
			name: "top wall",
			in:   NewParticle(400, 1, 0, -30, 2, 1),
			want: NewParticle(400, 2, 0, 30, 2, 1),
			hitY: true,
		},
		{
			name: "corner",
			in:   NewParticle(805, 605, 10, 12, 5, 1),
			want: NewParticle(795, 595, -10, -12, 5, 1),
			hitX: true,
			hitY: true,
		},
		{
			name: "inside",
			in:   NewParticle(400, 300, 10, 12, 5, 1),
			want: NewParticle(400, 300, 10, 12, 5, 1),
		},
		{
			name: "moving inward is still inverted",
			in:   NewParticle(1, 300, 40, 0, 3, 1),
			want: NewParticle(3, 300, -40, 0, 3, 1),
			hitX: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.in
			hx, hy := ReflectBounds(&p, b)
			assert.Equal(t, tt.want, p)
			assert.Equal(t, tt.hitX, hx)
			assert.Equal(t, tt.hitY, hy)
			assert.True(t, b.Contains(&p))
		})
	}
}

func TestBoundsCenter(t *testing.T) {
	assert.Equal(t, Vec2{400, 300}, Bounds{800, 600}.Center())
}
