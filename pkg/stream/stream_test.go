package stream

import (
	"errors"
	"iter"
	"testing"

	"github.com/stretchr/testify/require"
)

type recorder struct {
	values    []int
	errs      []error
	completed int
}

func (r *recorder) observer() Observer[int] {
	return Observer[int]{
		Next:     func(v int) { r.values = append(r.values, v) },
		Error:    func(err error) { r.errs = append(r.errs, err) },
		Complete: func() { r.completed++ },
	}
}

// counting yields 1..n and records how many values it produced.
type counting struct {
	n        int
	produced int
}

func (c *counting) Iterator() iter.Seq2[int, error] {
	return func(yield func(int, error) bool) {
		for i := 1; i <= c.n; i++ {
			c.produced++
			if !yield(i, nil) {
				return
			}
		}
	}
}

type failing struct {
	after int
	err   error
}

func (f failing) Iterator() iter.Seq2[int, error] {
	return func(yield func(int, error) bool) {
		for i := 1; i <= f.after; i++ {
			if !yield(i, nil) {
				return
			}
		}
		yield(0, f.err)
	}
}

func greaterThan(limit int) func(int) error {
	return func(v int) error {
		if v > limit {
			return errors.New("too big")
		}
		return nil
	}
}

func TestOf(t *testing.T) {
	t.Run("emits in order then completes", func(t *testing.T) {
		r := recorder{}
		err := Of(1, 2, 3).Subscribe(r.observer())
		require.NoError(t, err)
		require.Equal(t, []int{1, 2, 3}, r.values)
		require.Empty(t, r.errs)
		require.Equal(t, 1, r.completed)
	})

	t.Run("empty completes immediately", func(t *testing.T) {
		r := recorder{}
		err := Of[int]().Subscribe(r.observer())
		require.NoError(t, err)
		require.Empty(t, r.values)
		require.Empty(t, r.errs)
		require.Equal(t, 1, r.completed)
	})

	t.Run("can be subscribed again", func(t *testing.T) {
		src := Of(1, 2)
		a, b := recorder{}, recorder{}
		require.NoError(t, src.Subscribe(a.observer()))
		require.NoError(t, src.Subscribe(b.observer()))
		require.Equal(t, a.values, b.values)
	})
}

func TestTap(t *testing.T) {
	t.Run("aborts on first failing value", func(t *testing.T) {
		r := recorder{}
		var seen []int
		err := Of(1, 2, 3, 4, 5).Pipe(Tap(func(v int) error {
			seen = append(seen, v)
			return greaterThan(3)(v)
		})).Subscribe(r.observer())

		require.EqualError(t, err, "too big")
		require.Equal(t, []int{1, 2, 3}, r.values)
		require.Len(t, r.errs, 1)
		require.Equal(t, err, r.errs[0])
		require.Zero(t, r.completed)
		require.Equal(t, []int{1, 2, 3, 4}, seen)
	})

	t.Run("passes everything through when check holds", func(t *testing.T) {
		r := recorder{}
		err := Of(1, 2, 3).Pipe(Tap(greaterThan(3))).Subscribe(r.observer())
		require.NoError(t, err)
		require.Equal(t, []int{1, 2, 3}, r.values)
		require.Empty(t, r.errs)
		require.Equal(t, 1, r.completed)
	})

	t.Run("stops upstream after abort", func(t *testing.T) {
		src := &counting{n: 5}
		r := recorder{}
		err := From[int](src).Pipe(Tap(greaterThan(3))).Subscribe(r.observer())
		require.Error(t, err)
		require.Equal(t, 4, src.produced)
	})

	t.Run("recovers panics as terminal errors", func(t *testing.T) {
		r := recorder{}
		boom := errors.New("boom")
		err := Of(1, 2).Pipe(Tap(func(v int) error {
			if v == 2 {
				panic(boom)
			}
			return nil
		})).Subscribe(r.observer())
		require.ErrorIs(t, err, boom)
		require.Equal(t, []int{1}, r.values)
		require.Len(t, r.errs, 1)
	})

	t.Run("wraps non-error panics", func(t *testing.T) {
		err := Of(1).Pipe(Tap(func(int) error { panic("nope") })).Subscribe(Observer[int]{})
		require.EqualError(t, err, "tap panicked: nope")
	})

	t.Run("operators run in order", func(t *testing.T) {
		var order []string
		first := Tap(func(int) error { order = append(order, "first"); return nil })
		second := Tap(func(int) error { order = append(order, "second"); return nil })
		require.NoError(t, Of(1).Pipe(first, second).Subscribe(Observer[int]{}))
		require.Equal(t, []string{"first", "second"}, order)
	})
}

func TestFrom(t *testing.T) {
	t.Run("source error is terminal", func(t *testing.T) {
		r := recorder{}
		readErr := errors.New("read failed")
		err := From[int](failing{after: 2, err: readErr}).Subscribe(r.observer())
		require.ErrorIs(t, err, readErr)
		require.Equal(t, []int{1, 2}, r.values)
		require.Len(t, r.errs, 1)
		require.Zero(t, r.completed)
	})

	t.Run("source error skips tap", func(t *testing.T) {
		called := 0
		readErr := errors.New("read failed")
		err := From[int](failing{err: readErr}).Pipe(Tap(func(int) error {
			called++
			return nil
		})).Subscribe(Observer[int]{})
		require.ErrorIs(t, err, readErr)
		require.Zero(t, called)
	})
}

func TestSubscribeNilCallbacks(t *testing.T) {
	err := Of(1, 2, 3, 4).Pipe(Tap(greaterThan(3))).Subscribe(Observer[int]{})
	require.EqualError(t, err, "too big")

	var zero Observable[int]
	require.NoError(t, zero.Subscribe(Observer[int]{}))
}
