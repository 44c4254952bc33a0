// Package geom holds the integer geometry used by the decoder: three
// component vectors over fixed-width integers, axis-aligned boxes and the
// fixed-point helpers used by surface reconstruction.
package geom

// Integer is the set of component types a Vec3 may carry.
type Integer interface {
	~int32 | ~int64 | ~uint32 | ~int
}

// Vec3 is a three component integer vector indexed x=0, y=1, z=2.
type Vec3[T Integer] [3]T

// Add returns a+b.
func (a Vec3[T]) Add(b Vec3[T]) Vec3[T] {
	return Vec3[T]{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// Sub returns a-b.
func (a Vec3[T]) Sub(b Vec3[T]) Vec3[T] {
	return Vec3[T]{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// AddScalar adds s to every component.
func (a Vec3[T]) AddScalar(s T) Vec3[T] {
	return Vec3[T]{a[0] + s, a[1] + s, a[2] + s}
}

// Scale multiplies every component by s.
func (a Vec3[T]) Scale(s T) Vec3[T] {
	return Vec3[T]{a[0] * s, a[1] * s, a[2] * s}
}

// Div divides every component by s, truncating toward zero.
func (a Vec3[T]) Div(s T) Vec3[T] {
	return Vec3[T]{a[0] / s, a[1] / s, a[2] / s}
}

// Dot returns the inner product of a and b.
func (a Vec3[T]) Dot(b Vec3[T]) T {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// Shl shifts every component left by n bits.
func (a Vec3[T]) Shl(n uint) Vec3[T] {
	return Vec3[T]{a[0] << n, a[1] << n, a[2] << n}
}

// Shr shifts every component right by n bits (arithmetic for signed types).
func (a Vec3[T]) Shr(n uint) Vec3[T] {
	return Vec3[T]{a[0] >> n, a[1] >> n, a[2] >> n}
}

// Less orders vectors lexicographically by x, then y, then z.
func (a Vec3[T]) Less(b Vec3[T]) bool {
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	if a[1] != b[1] {
		return a[1] < b[1]
	}
	return a[2] < b[2]
}

// Compare returns -1, 0 or +1 following the lexicographic order of Less.
func (a Vec3[T]) Compare(b Vec3[T]) int {
	switch {
	case a.Less(b):
		return -1
	case b.Less(a):
		return 1
	}
	return 0
}

// MaxComponent returns the largest component.
func (a Vec3[T]) MaxComponent() T {
	m := a[0]
	if a[1] > m {
		m = a[1]
	}
	if a[2] > m {
		m = a[2]
	}
	return m
}

// Cross returns the cross product a×b.
func Cross[T Integer](a, b Vec3[T]) Vec3[T] {
	return Vec3[T]{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Widen converts a 32-bit vector to 64-bit components.
func Widen(v Vec3[int32]) Vec3[int64] {
	return Vec3[int64]{int64(v[0]), int64(v[1]), int64(v[2])}
}

// MinOf returns the smallest of three values.
func MinOf[T Integer](a, b, c T) T {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// MaxOf returns the largest of three values.
func MaxOf[T Integer](a, b, c T) T {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}
