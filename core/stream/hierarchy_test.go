package stream_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/relay/core/stream"
)

type hidden struct{ V int }

type wrapper struct {
	hidden
	N int
}

type Node struct {
	*Shape
	Label string
}

type Reader interface{ Read() string }

type Source interface{ Read() string }

func TestHierarchy_Parent(t *testing.T) {
	t.Parallel()

	h := stream.NewHierarchy()
	root := reflect.TypeFor[any]()

	tests := []struct {
		name string
		typ  reflect.Type
		want reflect.Type
	}{
		{"embedded struct", reflect.TypeFor[Circle](), reflect.TypeFor[Shape]()},
		{"pointer to embedding struct", reflect.TypeFor[*Circle](), reflect.TypeFor[*Shape]()},
		{"embedded pointer", reflect.TypeFor[Node](), reflect.TypeFor[*Shape]()},
		{"pointer with embedded pointer", reflect.TypeFor[*Node](), reflect.TypeFor[*Shape]()},
		{"no embedding", reflect.TypeFor[Shape](), root},
		{"unexported embedding", reflect.TypeFor[wrapper](), root},
		{"scalar", reflect.TypeFor[int](), root},
		{"pointer to scalar", reflect.TypeFor[*int](), root},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, h.Parent(tt.typ))
		})
	}
}

func TestHierarchy_Ancestors(t *testing.T) {
	t.Parallel()

	h := stream.NewHierarchy()

	assert.Equal(t,
		[]reflect.Type{reflect.TypeFor[Circle](), reflect.TypeFor[Shape]()},
		h.Ancestors(reflect.TypeFor[Ring]()))
	assert.Equal(t,
		[]reflect.Type{reflect.TypeFor[*Circle](), reflect.TypeFor[*Shape]()},
		h.Ancestors(reflect.TypeFor[*Ring]()))
	assert.Empty(t, h.Ancestors(reflect.TypeFor[Shape]()))
	assert.Empty(t, h.Ancestors(reflect.TypeFor[any]()))
	assert.Empty(t, h.Ancestors(nil))
}

func TestHierarchy_AncestorsOfContainers(t *testing.T) {
	t.Parallel()

	h := stream.NewHierarchy()

	assert.Equal(t,
		[]reflect.Type{reflect.TypeFor[[]Circle](), reflect.TypeFor[[]Shape]()},
		h.Ancestors(reflect.TypeFor[[]Ring]()))
	assert.Equal(t,
		[]reflect.Type{reflect.TypeFor[[3]Shape]()},
		h.Ancestors(reflect.TypeFor[[3]Circle]()))
	assert.Equal(t,
		[]reflect.Type{reflect.TypeFor[[][]Shape]()},
		h.Ancestors(reflect.TypeFor[[][]Circle]()))
	assert.Empty(t, h.Ancestors(reflect.TypeFor[[]int]()))
}

func TestHierarchy_Extend(t *testing.T) {
	t.Parallel()

	t.Run("interface parent", func(t *testing.T) {
		t.Parallel()

		h := stream.NewHierarchy()
		sprite := reflect.TypeFor[Sprite]()
		drawable := reflect.TypeFor[Drawable]()

		require.NoError(t, h.Extend(sprite, drawable))
		assert.Equal(t, drawable, h.Parent(sprite))
		assert.Equal(t, []reflect.Type{drawable}, h.Ancestors(sprite))
	})

	t.Run("overrides embedding", func(t *testing.T) {
		t.Parallel()

		type Badge struct {
			Shape
			Sprite
		}
		h := stream.NewHierarchy()
		badge := reflect.TypeFor[Badge]()
		assert.Equal(t, reflect.TypeFor[Shape](), h.Parent(badge))

		require.NoError(t, h.Extend(badge, reflect.TypeFor[Drawable]()))
		assert.Equal(t, []reflect.Type{reflect.TypeFor[Drawable]()}, h.Ancestors(badge))
	})

	t.Run("invalidates cached chains", func(t *testing.T) {
		t.Parallel()

		h := stream.NewHierarchy()
		sprite := reflect.TypeFor[Sprite]()
		assert.Empty(t, h.Ancestors(sprite))

		require.NoError(t, h.Extend(sprite, reflect.TypeFor[Drawable]()))
		assert.Len(t, h.Ancestors(sprite), 1)
	})

	t.Run("rejects non-interface parent", func(t *testing.T) {
		t.Parallel()

		h := stream.NewHierarchy()
		err := h.Extend(reflect.TypeFor[Sprite](), reflect.TypeFor[Shape]())
		assert.ErrorIs(t, err, stream.ErrNotAssignable)
	})

	t.Run("rejects unimplemented interface", func(t *testing.T) {
		t.Parallel()

		h := stream.NewHierarchy()
		err := h.Extend(reflect.TypeFor[Shape](), reflect.TypeFor[Drawable]())
		assert.ErrorIs(t, err, stream.ErrNotAssignable)
	})

	t.Run("rejects nil types", func(t *testing.T) {
		t.Parallel()

		h := stream.NewHierarchy()
		assert.ErrorIs(t, h.Extend(nil, reflect.TypeFor[Drawable]()), stream.ErrInvalidKey)
		assert.ErrorIs(t, h.Extend(reflect.TypeFor[Sprite](), nil), stream.ErrInvalidKey)
	})
}

func TestHierarchy_ExtendDuringConcurrentLookups(t *testing.T) {
	t.Parallel()

	for range 50 {
		h := stream.NewHierarchy()
		sprite := reflect.TypeFor[Sprite]()
		drawable := reflect.TypeFor[Drawable]()

		var g errgroup.Group
		for range 4 {
			g.Go(func() error {
				for range 20 {
					h.Ancestors(sprite)
				}
				return nil
			})
		}
		g.Go(func() error {
			return h.Extend(sprite, drawable)
		})
		require.NoError(t, g.Wait())

		require.Equal(t, []reflect.Type{drawable}, h.Ancestors(sprite))
	}
}

func TestHierarchy_CycleTerminates(t *testing.T) {
	t.Parallel()

	h := stream.NewHierarchy()
	reader := reflect.TypeFor[Reader]()
	source := reflect.TypeFor[Source]()

	require.NoError(t, h.Extend(reader, source))
	require.NoError(t, h.Extend(source, reader))

	assert.Equal(t, []reflect.Type{source}, h.Ancestors(reader))
	assert.Equal(t, []reflect.Type{reader}, h.Ancestors(source))
}

func TestHierarchy_Upcast(t *testing.T) {
	t.Parallel()

	h := stream.NewHierarchy()
	ring := Ring{Circle: Circle{Shape: Shape{X: 1, Y: 2}, R: 3}, Inner: 1}

	t.Run("struct", func(t *testing.T) {
		t.Parallel()

		got, ok := h.Upcast(ring, reflect.TypeFor[Shape]())
		require.True(t, ok)
		assert.Equal(t, Shape{X: 1, Y: 2}, got)
	})

	t.Run("pointer shares the embedded value", func(t *testing.T) {
		t.Parallel()

		c := &Circle{Shape: Shape{X: 5}}
		got, ok := h.Upcast(c, reflect.TypeFor[*Shape]())
		require.True(t, ok)

		s, ok := got.(*Shape)
		require.True(t, ok)
		s.Y = 9
		assert.Equal(t, 9, c.Y)
	})

	t.Run("nil pointer", func(t *testing.T) {
		t.Parallel()

		_, ok := h.Upcast((*Circle)(nil), reflect.TypeFor[*Shape]())
		assert.False(t, ok)
	})

	t.Run("slice", func(t *testing.T) {
		t.Parallel()

		got, ok := h.Upcast([]Ring{ring, {}}, reflect.TypeFor[[]Shape]())
		require.True(t, ok)
		assert.Equal(t, []Shape{{X: 1, Y: 2}, {}}, got)
	})

	t.Run("array", func(t *testing.T) {
		t.Parallel()

		got, ok := h.Upcast([2]Circle{{R: 1}, {Shape: Shape{X: 7}}}, reflect.TypeFor[[2]Shape]())
		require.True(t, ok)
		assert.Equal(t, [2]Shape{{}, {X: 7}}, got)
	})

	t.Run("array length mismatch", func(t *testing.T) {
		t.Parallel()

		_, ok := h.Upcast([2]Circle{}, reflect.TypeFor[[3]Shape]())
		assert.False(t, ok)
	})

	t.Run("unrelated target", func(t *testing.T) {
		t.Parallel()

		_, ok := h.Upcast(ring, reflect.TypeFor[Sprite]())
		assert.False(t, ok)
	})

	t.Run("root and identity", func(t *testing.T) {
		t.Parallel()

		got, ok := h.Upcast(ring, reflect.TypeFor[any]())
		require.True(t, ok)
		assert.Equal(t, ring, got)

		got, ok = h.Upcast(ring, reflect.TypeFor[Ring]())
		require.True(t, ok)
		assert.Equal(t, ring, got)

		_, ok = h.Upcast(nil, reflect.TypeFor[Shape]())
		assert.False(t, ok)
	})
}
