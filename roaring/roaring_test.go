package roaring_test

import (
	"testing"

	"github.com/agustingonzalez/invidx/roaring"
	"github.com/stretchr/testify/require"
)

func TestBitmapAddContains(t *testing.T) {
	b := roaring.New()
	b.Add(1)
	b.Add(70000)
	require.True(t, b.Contains(1))
	require.True(t, b.Contains(70000))
	require.False(t, b.Contains(2))
	require.Equal(t, 2, b.Cardinality())
}

func TestBitmapIntersectionAcrossContainers(t *testing.T) {
	a := roaring.New()
	for _, v := range []uint32{1, 2, 70000, 70001} {
		a.Add(v)
	}
	b := roaring.New()
	for _, v := range []uint32{2, 3, 70000} {
		b.Add(v)
	}
	got := a.Intersection(b).DocIDs()
	require.Equal(t, []uint32{2, 70000}, got)
}

func TestBitmapUnion(t *testing.T) {
	a := roaring.New()
	a.Add(1)
	b := roaring.New()
	b.Add(2)
	got := a.Union(b).DocIDs()
	require.Equal(t, []uint32{1, 2}, got)
}

func TestArrayContainerConvertsToBitmap(t *testing.T) {
	b := roaring.New()
	for i := uint32(0); i < roaring.ContainerConversionThreshold+10; i++ {
		b.Add(i)
	}
	require.Equal(t, roaring.ContainerConversionThreshold+10, b.Cardinality())
	for i := uint32(0); i < roaring.ContainerConversionThreshold+10; i++ {
		require.True(t, b.Contains(i))
	}
}

func TestEmptyIntersection(t *testing.T) {
	a := roaring.New()
	a.Add(1)
	b := roaring.New()
	b.Add(2)
	require.Empty(t, a.Intersection(b).DocIDs())
}
