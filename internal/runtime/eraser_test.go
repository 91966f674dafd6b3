package runtime_test

import (
	"testing"

	"github.com/aretw0/inkmap/internal/runtime"
	"github.com/aretw0/inkmap/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestErase_AxisAlignedBox(t *testing.T) {
	erasePath := []domain.Point{{X: 100, Y: 100}}

	tests := []struct {
		name    string
		stroke  domain.Stroke
		removed bool
	}{
		{"inside on both axes", stroke("in", 109, 91), true},
		{"exactly at reach on x", stroke("edge-x", 110, 100), false},
		{"exactly at reach on y", stroke("edge-y", 100, 90), false},
		{"diagonal corner of box", stroke("corner", 109.5, 109.5), true},
		{"near on x only", stroke("x-only", 101, 150), false},
		{"one point of many is close", stroke("many", 0, 0, 50, 50, 95, 104), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kept := runtime.Erase(erasePath, []domain.Stroke{tt.stroke}, domain.DefaultEraserReach)
			if tt.removed {
				assert.Empty(t, kept)
			} else {
				assert.Equal(t, []domain.Stroke{tt.stroke}, kept)
			}
		})
	}
}

func TestErase_KeepsOrderOfSurvivors(t *testing.T) {
	a := stroke("A", 0, 0)
	b := stroke("B", 200, 200)
	c := stroke("C", 400, 400)

	kept := runtime.Erase([]domain.Point{{X: 198, Y: 205}}, []domain.Stroke{a, b, c}, 10)
	assert.Equal(t, []domain.Stroke{a, c}, kept)
}

func TestErase_EmptyStore(t *testing.T) {
	assert.Empty(t, runtime.Erase([]domain.Point{{X: 1, Y: 1}}, nil, 10))
}
